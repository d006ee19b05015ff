package extract

import (
	"context"

	"github.com/joseph-ayodele/scanrename/internal/entity"
	"github.com/joseph-ayodele/scanrename/internal/heuristics"
)

// TokenSource is Stage 1: file -> positioned tokens of the first page.
type TokenSource interface {
	ExtractPage(ctx context.Context, path string) (entity.Page, error)
}

// Extractor is Stage 2: tokens -> one optional field of a single kind.
// A false second return is a normal non-finding, never an error.
type Extractor interface {
	Kind() entity.FieldKind
	Extract(doc entity.Document, cfg heuristics.Config) (entity.ExtractedField, bool)
}

// DefaultExtractors returns the closed set of field heuristics.
func DefaultExtractors() []Extractor {
	return []Extractor{SenderExtractor{}, SubjectExtractor{}, CaseNumberExtractor{}}
}

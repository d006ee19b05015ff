package extract

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/joseph-ayodele/scanrename/internal/entity"
	"github.com/joseph-ayodele/scanrename/internal/heuristics"
)

// SubjectExtractor tries, in order: a filename hint, emphasized text, the fold line.
type SubjectExtractor struct{}

func (SubjectExtractor) Kind() entity.FieldKind { return entity.FieldSubject }

func (SubjectExtractor) Extract(doc entity.Document, cfg heuristics.Config) (entity.ExtractedField, bool) {
	field := func(v, source string, rank int) (entity.ExtractedField, bool) {
		return entity.ExtractedField{Kind: entity.FieldSubject, Value: v, Source: source, Rank: rank}, true
	}
	if s := subjectFromFilename(doc.Path, cfg.HintWords); s != "" {
		return field(s, "filename_hint", entity.RankFilenameHint)
	}
	if s := styledSubject(doc.Page, cfg); s != "" {
		return field(s, "styled_text", entity.RankStyled)
	}
	if s := foldLineSubject(doc.Page, cfg); s != "" {
		return field(s, "fold_line", entity.RankFoldLine)
	}
	return entity.ExtractedField{}, false
}

// subjectFromFilename uses a pre-labelled name: the first underscore component holding more than two words.
func subjectFromFilename(path string, maxWords int) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	for _, comp := range strings.Split(base, "_") {
		words := strings.Fields(comp)
		if len(words) <= 2 {
			continue
		}
		if maxWords > 0 && len(words) > maxWords {
			words = words[:maxWords]
		}
		return strings.Join(words, " ")
	}
	return ""
}

func styledSubject(page entity.Page, cfg heuristics.Config) string {
	tokens := readingOrder(page.Tokens, cfg.Px(cfg.LineToleranceCM, page.DPI))
	if len(tokens) == 0 {
		return ""
	}
	threshold := 0.0
	if med := medianHeight(tokens); med > 0 && cfg.StyledHeightFactor > 0 {
		threshold = med * cfg.StyledHeightFactor
	}
	for _, t := range tokens {
		if t.Bold || (threshold > 0 && t.Height > threshold) {
			if s := capRunes(strings.TrimSpace(t.Text), cfg.SubjectMaxLen); s != "" {
				return s
			}
		}
	}
	return ""
}

func medianHeight(tokens []entity.Token) float64 {
	hs := make([]float64, 0, len(tokens))
	for _, t := range tokens {
		if t.Height > 0 {
			hs = append(hs, t.Height)
		}
	}
	if len(hs) == 0 {
		return 0
	}
	sort.Float64s(hs)
	mid := len(hs) / 2
	if len(hs)%2 == 0 {
		return (hs[mid-1] + hs[mid]) / 2
	}
	return hs[mid]
}

// foldLineSubject takes the first words of the first line just below the fold mark, left half only.
func foldLineSubject(page entity.Page, cfg heuristics.Config) string {
	if page.Height <= 0 && cfg.FoldCM <= 0 {
		return ""
	}
	cut := cfg.FoldLine(page.Height, page.DPI)
	lo := cut - cfg.Px(cfg.FoldToleranceCM, page.DPI)
	hi := cut + cfg.Px(cfg.FoldWindowCM, page.DPI)

	var candidates []entity.Token
	for _, t := range page.Tokens {
		if t.Y < lo || t.Y > hi {
			continue
		}
		if page.Width > 0 && t.X >= page.Width/2 {
			continue
		}
		candidates = append(candidates, t)
	}
	lines := groupLines(candidates, cfg.Px(cfg.LineToleranceCM, page.DPI))
	if len(lines) == 0 {
		return ""
	}
	words := lines[0].Words()
	if cfg.FoldWords > 0 && len(words) > cfg.FoldWords {
		words = words[:cfg.FoldWords]
	}
	return strings.Join(words, " ")
}

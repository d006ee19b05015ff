// Package ingest finds documents in the scan directory and feeds them to the processor,
// either once per batch run or continuously from filesystem events.
package ingest

import (
	"context"

	"github.com/joseph-ayodele/scanrename/constants"
	"github.com/joseph-ayodele/scanrename/internal/entity"
)

// Processor is the per-document step the drivers depend on.
type Processor interface {
	Process(ctx context.Context, path string) entity.Outcome
}

// DirStats summarizes one directory run.
type DirStats struct {
	Scanned   uint32
	Matched   uint32
	Renamed   uint32
	Planned   uint32
	Skipped   uint32
	Conflicts uint32
	Failed    uint32
	Retried   uint32
}

func (s *DirStats) add(out entity.Outcome) {
	switch out.State {
	case constants.StateRenamed:
		s.Renamed++
	case constants.StateFieldsReady:
		s.Planned++
	case constants.StateSkippedIdentical:
		s.Skipped++
	case constants.StateConflictSkipped:
		s.Conflicts++
	case constants.StateFailed:
		s.Failed++
	}
	if out.Attempts > 1 {
		s.Retried++
	}
}

// Package export renders the rename journal as an XLSX workbook.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/scanrename/constants"
	"github.com/joseph-ayodele/scanrename/internal/entity"
)

const (
	eventsSheet  = "Events"
	summarySheet = "Summary"
)

// EventLister is the journal read side the report needs.
type EventLister interface {
	ListEvents(ctx context.Context, since time.Time) ([]entity.Event, error)
}

type Service struct {
	events EventLister
	logger *slog.Logger
}

func NewService(events EventLister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{events: events, logger: logger}
}

// EventsXLSX returns a workbook of journal events at or after since.
// A zero since exports everything. runID, when set, limits rows to one batch run.
func (s *Service) EventsXLSX(ctx context.Context, since time.Time, runID string) ([]byte, error) {
	start := time.Now()

	evs, err := s.events.ListEvents(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	if runID != "" {
		kept := evs[:0]
		for _, ev := range evs {
			if ev.RunID == runID {
				kept = append(kept, ev)
			}
		}
		evs = kept
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("xlsx close failed", "error", err)
		}
	}()
	// the default sheet becomes the event list
	if err := f.SetSheetName("Sheet1", eventsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}

	headers := []string{"Time", "Run", "Level", "State", "Source", "Target", "Sender", "Subject", "Message"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(eventsSheet, cell, h)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(eventsSheet, "A1", "I1", style)
		_ = f.SetCellStyle(summarySheet, "A1", "B1", style)
	}

	counts := map[constants.State]int{}
	for i, ev := range evs {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(eventsSheet, cell, v)
		}
		write(1, ev.Time.UTC().Format(time.RFC3339))
		write(2, ev.RunID)
		write(3, ev.Level)
		write(4, string(ev.State))
		write(5, ev.Path)
		write(6, ev.Target)
		write(7, ev.Sender)
		write(8, ev.Subject)
		write(9, truncate(ev.Message, 200))
		counts[ev.State]++
	}

	_ = f.SetCellValue(summarySheet, "A1", "State")
	_ = f.SetCellValue(summarySheet, "B1", "Documents")
	states := make([]string, 0, len(counts))
	for st := range counts {
		states = append(states, string(st))
	}
	sort.Strings(states)
	for i, st := range states {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+2), st)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+2), counts[constants.State(st)])
	}

	_ = f.SetColWidth(eventsSheet, "A", "A", 22) // time
	_ = f.SetColWidth(eventsSheet, "B", "B", 38) // run
	_ = f.SetColWidth(eventsSheet, "C", "D", 18)
	_ = f.SetColWidth(eventsSheet, "E", "F", 60) // paths
	_ = f.SetColWidth(eventsSheet, "G", "H", 30)
	_ = f.SetColWidth(eventsSheet, "I", "I", 48)
	_ = f.SetColWidth(summarySheet, "A", "A", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(evs),
		"run_id", runID,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// WriteEventsXLSX writes the workbook to path.
func (s *Service) WriteEventsXLSX(ctx context.Context, path string, since time.Time, runID string) error {
	b, err := s.EventsXLSX(ctx, since, runID)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

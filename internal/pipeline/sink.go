package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/joseph-ayodele/scanrename/internal/entity"
)

// Sink receives one event per processed document. It is append-only.
type Sink interface {
	Record(ctx context.Context, ev entity.Event) error
}

// LogSink mirrors events to slog.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Record(ctx context.Context, ev entity.Event) error {
	level := slog.LevelInfo
	switch ev.Level {
	case LevelWarn:
		level = slog.LevelWarn
	case LevelError:
		level = slog.LevelError
	}
	s.logger.Log(ctx, level, ev.Message,
		"run_id", ev.RunID,
		"state", ev.State,
		"path", ev.Path,
		"target", ev.Target,
		"sender", ev.Sender,
		"subject", ev.Subject,
	)
	return nil
}

// MultiSink fans an event out to every sink; one failing sink does not stop the others.
type MultiSink []Sink

func (m MultiSink) Record(ctx context.Context, ev entity.Event) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Record(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

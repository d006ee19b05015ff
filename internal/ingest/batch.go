package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/scanrename/constants"
	"github.com/joseph-ayodele/scanrename/internal/common"
	"github.com/joseph-ayodele/scanrename/internal/entity"
)

// Batch runs the processor over a directory listing, one document at a time,
// retrying acquisition failures with exponential backoff.
type Batch struct {
	proc     Processor
	logger   *slog.Logger
	attempts int
	backoff  time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewBatch(proc Processor, logger *slog.Logger, retry common.RetryConfig) *Batch {
	if logger == nil {
		logger = slog.Default()
	}
	attempts := retry.Attempts
	if attempts < 1 {
		attempts = 1
	}
	return &Batch{
		proc:     proc,
		logger:   logger,
		attempts: attempts,
		backoff:  retry.Backoff,
		sleep:    sleepCtx,
	}
}

// RunDir discovers documents in dir and processes them in name order.
// It returns early only when ctx is cancelled; per-document failures are in the outcomes.
func (b *Batch) RunDir(ctx context.Context, dir string, allowedExts, incompletePrefixes []string) ([]entity.Outcome, DirStats, error) {
	paths, stats, err := Discover(dir, allowedExts, incompletePrefixes)
	if err != nil {
		return nil, stats, err
	}
	b.logger.Info("batch.discovered", "dir", dir, "scanned", stats.Scanned, "matched", stats.Matched)

	outcomes := make([]entity.Outcome, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			b.logger.Warn("batch.cancelled", "dir", dir, "remaining", len(paths)-len(outcomes))
			return outcomes, stats, err
		}
		out := b.Process(ctx, p)
		stats.add(out)
		outcomes = append(outcomes, out)
	}
	b.logger.Info("batch.done",
		"dir", dir,
		"renamed", stats.Renamed,
		"planned", stats.Planned,
		"skipped", stats.Skipped,
		"conflicts", stats.Conflicts,
		"failed", stats.Failed,
	)
	return outcomes, stats, nil
}

// Process handles one path with bounded retry. Only acquisition failures are
// retried; conflicts and skips are final on the first attempt.
func (b *Batch) Process(ctx context.Context, path string) entity.Outcome {
	var out entity.Outcome
	delay := b.backoff
	for attempt := 1; attempt <= b.attempts; attempt++ {
		out = b.proc.Process(ctx, path)
		out.Attempts = attempt
		if out.State != constants.StateFailed || !common.IsRetryable(out.Err) || attempt == b.attempts {
			return out
		}
		b.logger.Warn("batch.retry", "path", path, "attempt", attempt, "backoff", delay, "error", out.Err)
		if err := b.sleep(ctx, delay); err != nil {
			return out
		}
		delay *= 2
	}
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Package async serializes watch-mode work onto a bounded queue.
package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/scanrename/internal/entity"
)

// Job is one document path waiting to be processed.
type Job struct {
	Path        string
	SubmittedAt time.Time
}

// Handler processes one document; ingest.Batch and pipeline.Processor both qualify.
type Handler interface {
	Process(ctx context.Context, path string) entity.Outcome
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

// ProcessorQueue feeds jobs to a Handler from a fixed set of workers.
// A single worker is the default: renames within one directory stay ordered.
type ProcessorQueue struct {
	handler Handler
	logger  *slog.Logger
	workers int
	timeout time.Duration
	baseCtx context.Context

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool

	// separate lock: workers release paths while an enqueuer may block on a full channel
	flightMu sync.Mutex
	inflight map[string]struct{}
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// WithContext sets the parent of every per-job context, e.g. one carrying a run ID.
func WithContext(ctx context.Context) Option {
	return func(q *ProcessorQueue) {
		if ctx != nil {
			q.baseCtx = ctx
		}
	}
}

func NewProcessorQueue(h Handler, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		handler:  h,
		logger:   logger,
		workers:  1,
		timeout:  5 * time.Minute,
		baseCtx:  context.Background(),
		ch:       make(chan Job, 256),
		inflight: map[string]struct{}{},
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("worker started", "worker_id", workerID)

				for job := range q.ch {
					ctx, cancel := context.WithTimeout(q.baseCtx, q.timeout)
					out := q.handler.Process(ctx, job.Path)
					cancel()
					q.done(job.Path)

					q.logger.Info("queue.processed",
						"worker_id", workerID,
						"path", job.Path,
						"state", out.State,
						"wait_ms", time.Since(job.SubmittedAt).Milliseconds(),
					)
				}

				q.logger.Debug("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ProcessorQueue) claim(path string) bool {
	q.flightMu.Lock()
	defer q.flightMu.Unlock()
	if _, dup := q.inflight[path]; dup {
		return false
	}
	q.inflight[path] = struct{}{}
	return true
}

func (q *ProcessorQueue) done(path string) {
	q.flightMu.Lock()
	delete(q.inflight, path)
	q.flightMu.Unlock()
}

// Enqueue adds a job unless the same path is already waiting or running.
// It blocks while the queue is full, until ctx is done.
func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) error {
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.logger.Warn("cannot enqueue: queue is shutting down", "path", job.Path)
		return nil
	}
	if !q.claim(job.Path) {
		q.mu.Unlock()
		q.logger.Debug("queue.duplicate", "path", job.Path)
		return nil
	}
	// the send happens under the lock so Shutdown cannot close ch underneath it
	defer q.mu.Unlock()

	select {
	case q.ch <- job:
		q.logger.Debug("queue.enqueued", "path", job.Path)
		return nil
	default:
	}
	q.logger.Warn("queue full, applying backpressure", "path", job.Path)
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		q.done(job.Path)
		return ctx.Err()
	}
}

func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}

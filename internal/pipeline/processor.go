// Package pipeline drives one document from discovery to a terminal state:
// tokens, fields, a composed name, the rename, and one journal event.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/scanrename/constants"
	"github.com/joseph-ayodele/scanrename/internal/common"
	"github.com/joseph-ayodele/scanrename/internal/entity"
	"github.com/joseph-ayodele/scanrename/internal/extract"
	"github.com/joseph-ayodele/scanrename/internal/heuristics"
	"github.com/joseph-ayodele/scanrename/internal/naming"
	"github.com/joseph-ayodele/scanrename/internal/rename"
)

// Event levels written to the sink.
const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

type Options struct {
	// SkipCanonical treats names that already have the composed shape as done.
	SkipCanonical   bool
	DocumentTimeout time.Duration
}

// Processor coordinates token extraction, arbitration, naming and the rename.
type Processor struct {
	logger     *slog.Logger
	source     extract.TokenSource
	arbiter    *extract.Arbiter
	executor   *rename.Executor
	sink       Sink
	processed  *ProcessedSet
	heuristics heuristics.Config
	opts       Options
}

func NewProcessor(
	logger *slog.Logger,
	source extract.TokenSource,
	arbiter *extract.Arbiter,
	executor *rename.Executor,
	sink Sink,
	processed *ProcessedSet,
	cfg heuristics.Config,
	opts Options,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if arbiter == nil {
		arbiter = extract.NewArbiter(logger)
	}
	if executor == nil {
		executor = rename.NewExecutor(logger, false)
	}
	if sink == nil {
		sink = NewLogSink(logger)
	}
	if processed == nil {
		processed = NewProcessedSet(nil, logger)
	}
	return &Processor{
		logger:     logger,
		source:     source,
		arbiter:    arbiter,
		executor:   executor,
		sink:       sink,
		processed:  processed,
		heuristics: cfg,
		opts:       opts,
	}
}

// Process handles one document. It never panics on bad input and never returns
// an error: every failure is confined to the returned Outcome.
func (p *Processor) Process(ctx context.Context, path string) entity.Outcome {
	start := time.Now()
	out := p.process(ctx, path)
	p.emit(ctx, out)
	p.logger.Debug("processor.done",
		"path", path,
		"state", out.State,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out
}

func (p *Processor) process(ctx context.Context, path string) entity.Outcome {
	p.logger.Debug("processor.discovered", "path", path)

	if p.opts.SkipCanonical && naming.IsCanonical(filepath.Base(path), p.heuristics) {
		return entity.Outcome{State: constants.StateSkippedIdentical, Source: path, Target: path}
	}

	fp, err := Fingerprint(path)
	if err != nil {
		return failed(path, common.NewAppError(common.CodeAcquisition, "read "+filepath.Base(path), err))
	}
	// A seen fingerprint only short-circuits a file that already carries a
	// canonical name; a byte-identical copy under another name still needs one.
	if p.processed.Seen(ctx, fp) {
		if naming.IsCanonical(filepath.Base(path), p.heuristics) {
			p.logger.Info("processor.already_processed", "path", path, "fingerprint", fp)
			return entity.Outcome{State: constants.StateSkippedIdentical, Source: path, Target: path}
		}
		p.logger.Info("processor.duplicate_content", "path", path, "fingerprint", fp)
	}

	docCtx, cancel := common.WithTimeout(ctx, p.opts.DocumentTimeout)
	defer cancel()

	page, err := p.source.ExtractPage(docCtx, path)
	if err != nil {
		return failed(path, err)
	}

	doc := entity.Document{Path: path, Page: page}
	res := p.arbiter.Resolve(doc, p.heuristics)

	ext := filepath.Ext(path)
	name := naming.Compose(res.Date, res.Sender, res.SubjectOrCase, ext, p.heuristics)
	decision := entity.RenameDecision{
		Source:     path,
		Target:     filepath.Join(filepath.Dir(path), name),
		FileName:   name,
		Ext:        ext,
		Resolution: res,
	}
	p.logger.Debug("processor.fields_ready",
		"path", path,
		"zone", res.Zone,
		"sender", res.Sender,
		"sender_source", res.SenderSource,
		"subject", res.SubjectOrCase,
		"subject_source", res.SubjectSource,
		"target", name,
	)

	out := p.executor.Execute(docCtx, decision)
	switch out.State {
	case constants.StateRenamed, constants.StateSkippedIdentical:
		p.processed.Mark(ctx, fp, out.Target, out.State)
	}
	return out
}

func failed(path string, err error) entity.Outcome {
	return entity.Outcome{State: constants.StateFailed, Source: path, Err: err}
}

func (p *Processor) emit(ctx context.Context, out entity.Outcome) {
	ev := entity.Event{
		ID:     uuid.New(),
		Time:   time.Now(),
		RunID:  common.RunIDFromContext(ctx),
		Level:  LevelInfo,
		State:  out.State,
		Path:   out.Source,
		Target: out.Target,
	}
	if out.Decision != nil {
		ev.Sender = out.Decision.Resolution.Sender
		ev.Subject = out.Decision.Resolution.SubjectOrCase
	}

	switch out.State {
	case constants.StateRenamed:
		ev.Message = "renamed"
	case constants.StateSkippedIdentical:
		ev.Message = "already canonical"
	case constants.StateFieldsReady:
		ev.Message = "dry run: would rename"
	case constants.StateConflictSkipped:
		ev.Level = LevelWarn
		ev.Message = "target exists, rename refused"
	case constants.StateFailed:
		ev.Level = LevelError
		ev.Message = "failed"
		if out.Err != nil {
			ev.Message = "failed: " + out.Err.Error()
		}
	}

	// sink errors never change the outcome
	if err := p.sink.Record(context.WithoutCancel(ctx), ev); err != nil {
		p.logger.Error("sink record failed", "path", out.Source, "error", err)
	}
}

// Package app wires configuration into a ready processor for the command binaries.
package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/joseph-ayodele/scanrename/constants"
	"github.com/joseph-ayodele/scanrename/internal/common"
	"github.com/joseph-ayodele/scanrename/internal/entity"
	"github.com/joseph-ayodele/scanrename/internal/extract"
	"github.com/joseph-ayodele/scanrename/internal/heuristics"
	"github.com/joseph-ayodele/scanrename/internal/ingest"
	"github.com/joseph-ayodele/scanrename/internal/journal"
	"github.com/joseph-ayodele/scanrename/internal/ocr"
	"github.com/joseph-ayodele/scanrename/internal/pipeline"
	"github.com/joseph-ayodele/scanrename/internal/rename"
	"github.com/joseph-ayodele/scanrename/internal/server"
)

type App struct {
	Config     *common.Config
	Heuristics heuristics.Config
	Journal    *journal.Store
	Processor  *pipeline.Processor
	Batch      *ingest.Batch
	Logger     *slog.Logger
}

// NewLogger installs a JSON slog handler on stdout as the default logger.
func NewLogger(cfg common.LogConfig) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)
	return logger
}

// New loads the heuristics file, opens the journal and builds the processor.
// source may be nil, in which case the OCR extractor from cfg.OCR is used.
func New(ctx context.Context, cfg *common.Config, source extract.TokenSource, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	heur, err := heuristics.Load(cfg.Scan.HeuristicsFile)
	if err != nil {
		return nil, err
	}
	if cfg.Scan.ForceZone != "" {
		heur.ForceZone = cfg.Scan.ForceZone
		if err := heuristics.Validate(heur); err != nil {
			return nil, err
		}
	}

	store, err := server.ConnectJournal(ctx, cfg.Journal, logger)
	if err != nil {
		return nil, err
	}

	if source == nil {
		source = ocr.NewExtractor(ocr.Config{
			Pdftoppm:          cfg.OCR.Pdftoppm,
			Tesseract:         cfg.OCR.Tesseract,
			TesseractLang:     cfg.OCR.TesseractLang,
			TessdataDir:       cfg.OCR.TessdataDir,
			DPI:               cfg.OCR.DPI,
			HeicConverter:     cfg.OCR.HeicConverter,
			MinWordConfidence: cfg.OCR.MinWordConfidence,
		}, logger)
	}

	proc := pipeline.NewProcessor(
		logger,
		source,
		extract.NewArbiter(logger),
		rename.NewExecutor(logger, cfg.Scan.DryRun),
		pipeline.MultiSink{store, pipeline.NewLogSink(logger)},
		pipeline.NewProcessedSet(store, logger),
		heur,
		pipeline.Options{
			SkipCanonical:   cfg.Scan.SkipCanonical,
			DocumentTimeout: cfg.Scan.DocumentTimeout,
		},
	)

	return &App{
		Config:     cfg,
		Heuristics: heur,
		Journal:    store,
		Processor:  proc,
		Batch:      ingest.NewBatch(proc, logger, cfg.Retry),
		Logger:     logger,
	}, nil
}

// RunDir processes the configured scan directory once.
func (a *App) RunDir(ctx context.Context) ([]entity.Outcome, ingest.DirStats, error) {
	return a.Batch.RunDir(ctx, a.Config.Scan.Dir, a.Config.Scan.AllowedExts, constants.IncompletePrefixes)
}

func (a *App) Close() {
	server.CloseJournal(a.Journal, a.Logger)
}

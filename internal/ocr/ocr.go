// Package ocr turns the first page of a scanned document into positioned tokens.
// PDFs are read from their text layer when one exists; everything else goes
// through pdftoppm and tesseract.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/scanrename/constants"
	"github.com/joseph-ayodele/scanrename/internal/common"
	"github.com/joseph-ayodele/scanrename/internal/entity"
)

const (
	SourcePDFText  = "pdf-text"
	SourcePDFOCR   = "pdf-ocr"
	SourceImageOCR = "image-ocr"
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "deu"
	TessdataDir   string
	DPI           int // rasterization DPI for scanned PDFs, default 300

	PSM int
	OEM int

	HeicConverter     string  // "heif-convert" | "magick" | "sips"
	MinWordConfidence float64 // tesseract words below this (0..100) are dropped
	SkipTextLayer     bool    // always rasterize PDFs
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	return NewExtractorWithRunner(cfg, execRunner{}, logger)
}

// NewExtractorWithRunner is NewExtractor with a custom command runner.
func NewExtractorWithRunner(cfg Config, r Runner, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "deu"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: r, logger: logger}
}

// ExtractPage picks a strategy based on file extension and returns page one.
// Every failure is an ACQUISITION AppError.
func (e *Extractor) ExtractPage(ctx context.Context, path string) (entity.Page, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("starting page extraction", "path", path, "ext", ext)

	var (
		page entity.Page
		err  error
	)
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		page, err = e.extractPDF(ctx, path)
	case constants.IMAGE:
		page, err = e.extractImage(ctx, path, ext)
	default:
		err = fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return entity.Page{}, common.NewAppError(common.CodeAcquisition, "extract "+filepath.Base(path), err)
	}

	e.logger.Debug("page extracted",
		"path", path,
		"source", page.Source,
		"tokens", len(page.Tokens),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return page, nil
}

func (e *Extractor) extractImage(ctx context.Context, path, ext string) (entity.Page, error) {
	if constants.IsHEICExt(ext) {
		png, cleanup, err := convertHEICtoPNG(ctx, e.runner, e.logger, e.cfg.HeicConverter, path)
		if cleanup != nil {
			defer cleanup()
		}
		if err != nil {
			return entity.Page{}, err
		}
		path = png
	}
	page, err := e.tesseractPage(ctx, path)
	if err != nil {
		return entity.Page{}, err
	}
	page.Source = SourceImageOCR
	return page, nil
}

package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/joseph-ayodele/scanrename/internal/common"
	"github.com/joseph-ayodele/scanrename/internal/entity"
)

func (e *Extractor) extractPDF(ctx context.Context, path string) (entity.Page, error) {
	if !e.cfg.SkipTextLayer {
		page, err := readTextLayer(path)
		switch {
		case err != nil:
			e.logger.Debug("pdf text layer unreadable, rasterizing", "path", path, "error", err)
		case len(page.Tokens) > 0:
			return page, nil
		default:
			e.logger.Debug("pdf has no text layer, rasterizing", "path", path)
		}
	}

	tmpDir, err := os.MkdirTemp("", "scanrename-pp-*")
	if err != nil {
		return entity.Page{}, err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", err)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -f 1 -l 1 -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, e.logger,
		"-f", "1", "-l", "1", "-r", strconv.Itoa(e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return entity.Page{}, fmt.Errorf("pdftoppm: %w: %s", err, truncate(string(errb), 512))
	}

	matches, _ := filepath.Glob(prefix + "*.png")
	if len(matches) == 0 {
		return entity.Page{}, common.ErrNoPages
	}
	sort.Strings(matches)

	page, err := e.tesseractPage(ctx, matches[0])
	if err != nil {
		return entity.Page{}, err
	}
	page.Source = SourcePDFOCR
	return page, nil
}

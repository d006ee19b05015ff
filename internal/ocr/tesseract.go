package ocr

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/scanrename/internal/entity"
)

// tesseract TSV columns
const (
	colLevel = iota
	colPage
	colBlock
	colPar
	colLine
	colWord
	colLeft
	colTop
	colWidth
	colHeight
	colConf
	colText
	tsvColumns
)

const (
	levelPage = 1
	levelWord = 5
)

// tesseractPage runs tesseract in TSV mode on one image.
func (e *Extractor) tesseractPage(ctx context.Context, img string) (entity.Page, error) {
	args := []string{img, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(e.cfg.OEM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	args = append(args, "tsv")

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, e.logger, args...)
	if err != nil {
		return entity.Page{}, fmt.Errorf("tesseract: %w: %s", err, truncate(string(errb), 512))
	}
	page, err := parseTSV(out, e.cfg.MinWordConfidence)
	if err != nil {
		return entity.Page{}, err
	}
	page.DPI = float64(e.cfg.DPI)
	return page, nil
}

// parseTSV converts tesseract TSV output into a page. Level-1 rows carry the
// page size, level-5 rows become tokens.
func parseTSV(data []byte, minConf float64) (entity.Page, error) {
	var page entity.Page
	rows := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	for i, row := range rows {
		if i == 0 || strings.TrimSpace(row) == "" {
			continue // header
		}
		cols := strings.Split(row, "\t")
		if len(cols) < tsvColumns-1 {
			continue
		}
		level, err := strconv.Atoi(cols[colLevel])
		if err != nil {
			continue
		}
		left, _ := strconv.ParseFloat(cols[colLeft], 64)
		top, _ := strconv.ParseFloat(cols[colTop], 64)
		width, _ := strconv.ParseFloat(cols[colWidth], 64)
		height, _ := strconv.ParseFloat(cols[colHeight], 64)

		switch level {
		case levelPage:
			if page.Width == 0 && page.Height == 0 {
				page.Width, page.Height = width, height
			}
		case levelWord:
			if len(cols) <= colText {
				continue
			}
			text := NormalizeToken(cols[colText])
			if text == "" {
				continue
			}
			conf, err := strconv.ParseFloat(cols[colConf], 64)
			if err != nil || conf < 0 || conf < minConf {
				continue
			}
			page.Tokens = append(page.Tokens, entity.Token{
				Text:       text,
				X:          left,
				Y:          top,
				Width:      width,
				Height:     height,
				Confidence: conf,
			})
		}
	}
	if page.Width == 0 && page.Height == 0 && len(page.Tokens) == 0 {
		return entity.Page{}, fmt.Errorf("tesseract produced no page rows")
	}
	return page, nil
}

package ocr

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/scanrename/internal/entity"
)

const (
	pointsPerInch = 72
	// gaps wider than this fraction of the font size start a new word
	wordGapFactor = 0.3
	a4WidthPt     = 595
	a4HeightPt    = 842
)

// readTextLayer reads the embedded text of page one. Coordinates stay in
// points, so the page reports 72 dpi.
func readTextLayer(path string) (page entity.Page, err error) {
	// the pdf package panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf text layer: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return entity.Page{}, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	if r.NumPage() < 1 {
		return entity.Page{}, fmt.Errorf("pdf has no pages")
	}
	p := r.Page(1)
	if p.V.IsNull() {
		return entity.Page{}, fmt.Errorf("pdf page 1 missing")
	}

	w, h := mediaBox(p)
	return entity.Page{
		Width:  w,
		Height: h,
		DPI:    pointsPerInch,
		Tokens: wordsFromText(p.Content().Text, h),
		Source: SourcePDFText,
	}, nil
}

// mediaBox returns the page size in points, looking up the page tree when the
// page does not carry its own box.
func mediaBox(p pdf.Page) (float64, float64) {
	for v := p.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			w := box.Index(2).Float64() - box.Index(0).Float64()
			h := box.Index(3).Float64() - box.Index(1).Float64()
			if w > 0 && h > 0 {
				return w, h
			}
		}
	}
	return a4WidthPt, a4HeightPt
}

// wordsFromText merges positioned glyphs into word tokens with a top-left origin.
func wordsFromText(chars []pdf.Text, pageHeight float64) []entity.Token {
	if len(chars) == 0 {
		return nil
	}
	rows := groupGlyphRows(chars)

	var tokens []entity.Token
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })

		var (
			cur  strings.Builder
			word pdf.Text
			end  float64
			bold bool
		)
		flush := func() {
			text := NormalizeToken(cur.String())
			if text != "" {
				tokens = append(tokens, entity.Token{
					Text:   text,
					X:      word.X,
					Y:      math.Max(0, pageHeight-word.Y-word.FontSize),
					Width:  end - word.X,
					Height: word.FontSize,
					Bold:   bold,
				})
			}
			cur.Reset()
		}

		for _, c := range row {
			blank := strings.TrimFunc(c.S, unicode.IsSpace) == ""
			if cur.Len() > 0 && (blank || c.X-end > wordGapFactor*fontSize(word)) {
				flush()
			}
			if blank {
				continue
			}
			if cur.Len() == 0 {
				word = c
				bold = isBoldFont(c.Font)
			}
			cur.WriteString(c.S)
			end = c.X + c.W
		}
		if cur.Len() > 0 {
			flush()
		}
	}
	return tokens
}

// groupGlyphRows buckets glyphs by baseline, top of the page first.
func groupGlyphRows(chars []pdf.Text) [][]pdf.Text {
	sorted := make([]pdf.Text, len(chars))
	copy(sorted, chars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })

	var rows [][]pdf.Text
	var rowY float64
	for _, c := range sorted {
		tol := fontSize(c) / 2
		if n := len(rows); n > 0 && math.Abs(rowY-c.Y) <= tol {
			rows[n-1] = append(rows[n-1], c)
			continue
		}
		rows = append(rows, []pdf.Text{c})
		rowY = c.Y
	}
	return rows
}

func fontSize(t pdf.Text) float64 {
	if t.FontSize <= 0 {
		return 10
	}
	return t.FontSize
}

func isBoldFont(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "bold") || strings.Contains(n, "black") || strings.Contains(n, "heavy")
}

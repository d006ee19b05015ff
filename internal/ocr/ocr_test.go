package ocr

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/scanrename/internal/common"
)

const sampleTSV = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"1\t1\t0\t0\t0\t0\t0\t0\t2480\t3508\t-1\t\n" +
	"2\t1\t1\t0\t0\t0\t120\t354\t900\t60\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t120\t354\t310\t40\t96.1\tMusterfirma\n" +
	"5\t1\t1\t1\t1\t2\t450\t356\t120\t40\t91.0\tGmbH\n" +
	"5\t1\t1\t1\t1\t3\t600\t356\t80\t40\t12.5\tx~\n" +
	"5\t1\t1\t1\t1\t4\t700\t356\t80\t40\t88\t_____\n"

type call struct {
	name string
	args []string
}

// fakeRunner answers tesseract with sampleTSV and makes pdftoppm write a PNG next to its prefix.
type fakeRunner struct {
	calls   []call
	failOn  string
	noPages bool
}

func (f *fakeRunner) Run(_ context.Context, name string, _ *slog.Logger, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	if name == f.failOn {
		return nil, []byte("boom"), errors.New("exit status 1")
	}
	switch name {
	case "pdftoppm":
		if !f.noPages {
			prefix := args[len(args)-1]
			if err := os.WriteFile(prefix+"-1.png", []byte("png"), 0o644); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	case "tesseract":
		return []byte(sampleTSV), nil, nil
	case "magick":
		if err := os.WriteFile(args[len(args)-1], []byte("png"), 0o644); err != nil {
			return nil, nil, err
		}
		return nil, nil, nil
	}
	return nil, nil, nil
}

func (f *fakeRunner) names() string {
	var out []string
	for _, c := range f.calls {
		out = append(out, c.name)
	}
	return strings.Join(out, ",")
}

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseTSV(t *testing.T) {
	page, err := parseTSV([]byte(sampleTSV), 30)
	if err != nil {
		t.Fatalf("parseTSV: %v", err)
	}
	if page.Width != 2480 || page.Height != 3508 {
		t.Fatalf("size = %vx%v", page.Width, page.Height)
	}
	if len(page.Tokens) != 2 {
		t.Fatalf("tokens = %+v", page.Tokens)
	}
	first := page.Tokens[0]
	if first.Text != "Musterfirma" || first.X != 120 || first.Y != 354 || first.Height != 40 {
		t.Fatalf("first token = %+v", first)
	}
}

func TestParseTSVEmpty(t *testing.T) {
	if _, err := parseTSV([]byte("level\tpage_num\n"), 0); err == nil {
		t.Fatal("expected error for header-only output")
	}
}

func TestExtractImage(t *testing.T) {
	r := &fakeRunner{}
	e := NewExtractorWithRunner(Config{MinWordConfidence: 30, TesseractLang: "deu"}, r, nil)
	page, err := e.ExtractPage(context.Background(), writeTemp(t, "scan.png", "png"))
	if err != nil {
		t.Fatalf("ExtractPage: %v", err)
	}
	if page.Source != SourceImageOCR || page.DPI != 300 || len(page.Tokens) != 2 {
		t.Fatalf("page = %+v", page)
	}
	args := strings.Join(r.calls[0].args, " ")
	if !strings.Contains(args, "-l deu") || !strings.HasSuffix(args, "tsv") {
		t.Fatalf("tesseract args = %q", args)
	}
}

func TestExtractPDFFallsBackToRaster(t *testing.T) {
	r := &fakeRunner{}
	e := NewExtractorWithRunner(Config{DPI: 200}, r, nil)
	page, err := e.ExtractPage(context.Background(), writeTemp(t, "scan.pdf", "%PDF-1.4 not really"))
	if err != nil {
		t.Fatalf("ExtractPage: %v", err)
	}
	if page.Source != SourcePDFOCR || page.DPI != 200 {
		t.Fatalf("page = %+v", page)
	}
	if got := r.names(); got != "pdftoppm,tesseract" {
		t.Fatalf("calls = %s", got)
	}
	pp := strings.Join(r.calls[0].args, " ")
	if !strings.HasPrefix(pp, "-f 1 -l 1 -r 200 -png") {
		t.Fatalf("pdftoppm args = %q", pp)
	}
}

func TestExtractPDFNoPages(t *testing.T) {
	r := &fakeRunner{noPages: true}
	e := NewExtractorWithRunner(Config{SkipTextLayer: true}, r, nil)
	_, err := e.ExtractPage(context.Background(), writeTemp(t, "scan.pdf", "x"))
	if !errors.Is(err, common.ErrNoPages) {
		t.Fatalf("err = %v", err)
	}
	if !common.IsRetryable(err) {
		t.Fatal("no-pages should be retryable")
	}
}

func TestExtractCommandFailureIsAcquisition(t *testing.T) {
	r := &fakeRunner{failOn: "tesseract"}
	e := NewExtractorWithRunner(Config{}, r, nil)
	_, err := e.ExtractPage(context.Background(), writeTemp(t, "scan.jpg", "jpg"))
	if common.CodeOf(err) != common.CodeAcquisition {
		t.Fatalf("err = %v", err)
	}
}

func TestExtractUnsupported(t *testing.T) {
	e := NewExtractorWithRunner(Config{}, &fakeRunner{}, nil)
	_, err := e.ExtractPage(context.Background(), writeTemp(t, "notes.txt", "x"))
	if !errors.Is(err, common.ErrUnsupportedFormat) {
		t.Fatalf("err = %v", err)
	}
	if common.IsRetryable(err) {
		t.Fatal("unsupported format must not be retried")
	}
}

func TestExtractHEIC(t *testing.T) {
	r := &fakeRunner{}
	e := NewExtractorWithRunner(Config{HeicConverter: "magick"}, r, nil)
	page, err := e.ExtractPage(context.Background(), writeTemp(t, "photo.heic", "heic"))
	if err != nil {
		t.Fatalf("ExtractPage: %v", err)
	}
	if got := r.names(); got != "magick,tesseract" || len(page.Tokens) != 2 {
		t.Fatalf("calls = %s, tokens = %d", got, len(page.Tokens))
	}
}

func TestExtractHEICWithoutConverter(t *testing.T) {
	e := NewExtractorWithRunner(Config{}, &fakeRunner{}, nil)
	if _, err := e.ExtractPage(context.Background(), writeTemp(t, "photo.heic", "heic")); err == nil {
		t.Fatal("expected error without converter")
	}
}

func glyphs(s string, x, y, size float64, font string) []pdf.Text {
	var out []pdf.Text
	for _, r := range s {
		out = append(out, pdf.Text{Font: font, FontSize: size, X: x, Y: y, W: size * 0.5, S: string(r)})
		x += size * 0.5
	}
	return out
}

func TestWordsFromText(t *testing.T) {
	var chars []pdf.Text
	chars = append(chars, glyphs("Hello World", 72, 800, 12, "Helvetica")...)
	chars = append(chars, glyphs("Betreff", 72, 500, 12, "Helvetica-Bold")...)

	tokens := wordsFromText(chars, 842)
	if len(tokens) != 3 {
		t.Fatalf("tokens = %+v", tokens)
	}
	if tokens[0].Text != "Hello" || tokens[1].Text != "World" || tokens[2].Text != "Betreff" {
		t.Fatalf("texts = %q %q %q", tokens[0].Text, tokens[1].Text, tokens[2].Text)
	}
	if tokens[0].Y != 842-800-12 || tokens[0].Height != 12 || tokens[0].X != 72 {
		t.Fatalf("geometry = %+v", tokens[0])
	}
	if tokens[0].Bold || !tokens[2].Bold {
		t.Fatalf("bold flags = %v %v", tokens[0].Bold, tokens[2].Bold)
	}
}

func TestWordsFromTextSplitsOnGap(t *testing.T) {
	chars := append(glyphs("Ab", 72, 700, 10, "Times"), glyphs("Cd", 200, 700, 10, "Times")...)
	tokens := wordsFromText(chars, 842)
	if len(tokens) != 2 || tokens[0].Text != "Ab" || tokens[1].Text != "Cd" {
		t.Fatalf("tokens = %+v", tokens)
	}
}

func TestNormalizeToken(t *testing.T) {
	tests := map[string]string{
		"  Hallo  ":  "Hallo",
		"____":       "",
		"a  b":  "a b",
		"--":         "--",
		"Re:  Brief": "Re: Brief",
	}
	for in, want := range tests {
		if got := NormalizeToken(in); got != want {
			t.Errorf("NormalizeToken(%q) = %q, want %q", in, got, want)
		}
	}
}

package heuristics

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/joseph-ayodele/scanrename/internal/common"
)

func TestDefaultsAreValid(t *testing.T) {
	if err := Validate(Defaults()); err != nil {
		t.Fatalf("defaults rejected: %v", err)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DPI != 300 || cfg.SenderMaxLen != 30 || cfg.CaseSkipLines != 2 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heuristics.yaml")
	body := []byte("dpi: 200\nsender_band:\n  top_cm: 1.0\n  bottom_cm: 1.2\ncase_max_chars: 20\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DPI != 200 || cfg.CaseMaxChars != 20 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.SenderBand.TopCM != 1.0 || cfg.SenderBand.BottomCM != 1.2 {
		t.Fatalf("band = %+v", cfg.SenderBand)
	}
	if cfg.SubjectMaxLen != 30 || cfg.Delimiter != "_" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"negative dpi":     "dpi: -1\n",
		"inverted band":    "sender_band:\n  top_cm: 4\n  bottom_cm: 3\n",
		"bad delimiter":    "delimiter: \"/\"\n",
		"unknown zone":     "force_zone: postcard\n",
		"unknown field":    "colour: blue\n",
		"zero word cap":    "fold_words: 0\n",
		"fraction too big": "fold_fraction: 1.5\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(body))
			if err == nil {
				t.Fatal("expected error")
			}
			if common.CodeOf(err) != common.CodeConfig {
				t.Fatalf("code = %q, want CONFIG", common.CodeOf(err))
			}
		})
	}
}

func TestSchemaViolationWrapsErrValidation(t *testing.T) {
	_, err := Parse([]byte("subject_max_len: 0\n"))
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation in chain", err)
	}
}

func TestPx(t *testing.T) {
	cfg := Defaults()
	if got := cfg.Px(2.54, 254); math.Abs(got-254) > 1e-9 {
		t.Fatalf("Px = %v", got)
	}
	if got := cfg.Px(2.54, 0); math.Abs(got-300) > 1e-9 {
		t.Fatalf("Px default dpi = %v", got)
	}
}

func TestFoldLine(t *testing.T) {
	cfg := Defaults()
	if got := cfg.FoldLine(3508, 254); math.Abs(got-1000) > 1e-9 {
		t.Fatalf("fixed fold = %v", got)
	}
	cfg.FoldCM = 0
	if got := cfg.FoldLine(3000, 300); got != 1000 {
		t.Fatalf("fractional fold = %v", got)
	}
}

package naming

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/joseph-ayodele/scanrename/internal/heuristics"
)

var safeName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func TestSanitize(t *testing.T) {
	cfg := heuristics.Defaults()
	tests := []struct {
		in, want string
	}{
		{"Musterfirma GmbH", "Musterfirma_GmbH"},
		{"Aktenzeichen_12/34-AZ-99", "Aktenzeichen_12_34_AZ_99"},
		{"  Müller & Söhne  ", "Mueller_Soehne"},
		{"Straße", "Strasse"},
		{"Café Crème", "Cafe_Creme"},
		{"__a__b__", "a_b"},
		{"///", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Sanitize(tt.in, cfg); got != tt.want {
				t.Fatalf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeWithoutTransliteration(t *testing.T) {
	cfg := heuristics.Defaults()
	cfg.Transliterate = false
	if got := Sanitize("Müller", cfg); got != "M_ller" {
		t.Fatalf("got %q", got)
	}
}

func TestSanitizeCapsLength(t *testing.T) {
	cfg := heuristics.Defaults()
	cfg.FieldMaxLen = 10
	got := Sanitize("abcdefghi jklmnop", cfg)
	if got != "abcdefghi" {
		t.Fatalf("got %q", got)
	}
}

func TestComposeOnlySafeCharacters(t *testing.T) {
	cfg := heuristics.Defaults()
	inputs := [][3]string{
		{"20240131", "Finanzamt Köln-Süd", "Bescheid über Einkommensteuer 2023!"},
		{"20240131", "", ""},
		{"20240131", "a__b", "--x--"},
		{"20240131", "ÆØÅ ☃", "Aktenzeichen_4 K 12/23"},
	}
	for _, in := range inputs {
		name := Compose(in[0], in[1], in[2], ".pdf", cfg)
		stem := strings.TrimSuffix(name, ".pdf")
		if !safeName.MatchString(stem) {
			t.Fatalf("unsafe name %q", name)
		}
		if strings.Contains(stem, "__") {
			t.Fatalf("doubled delimiter in %q", name)
		}
	}
}

func TestComposeSentinels(t *testing.T) {
	got := Compose("20240101", "", "", ".pdf", heuristics.Defaults())
	if got != "20240101_UnknownSender_no_subject_found.pdf" {
		t.Fatalf("got %q", got)
	}
}

func TestComposePreservesExtension(t *testing.T) {
	got := Compose("20240101", "ACME", "Rechnung", ".JPG", heuristics.Defaults())
	if got != "20240101_ACME_Rechnung.JPG" {
		t.Fatalf("got %q", got)
	}
}

func TestParseFilename(t *testing.T) {
	tests := []struct {
		path, date, sender string
	}{
		{"/in/20240101_ACME_Rechnung.pdf", "20240101", "ACME"},
		{"/in/scan001.pdf", "", ""},
		{"/in/20241399_x.pdf", "", ""},
		{"/in/Brief_20230705.pdf", "20230705", ""},
		{"/in/20230705.pdf", "20230705", ""},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			md := ParseFilename(tt.path)
			if md.Date != tt.date || md.Sender != tt.sender {
				t.Fatalf("got date=%q sender=%q", md.Date, md.Sender)
			}
		})
	}
}

func TestDateResolver(t *testing.T) {
	fixed := time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)
	born := time.Date(2021, 6, 7, 8, 0, 0, 0, time.UTC)

	r := DateResolver{
		Now:       func() time.Time { return fixed },
		BirthTime: func(string) (time.Time, error) { return born, nil },
	}
	if got := r.Resolve("x.pdf", Metadata{Date: "20200101"}); got != "20200101" {
		t.Fatalf("filename date: got %s", got)
	}
	if got := r.Resolve("x.pdf", Metadata{}); got != "20210607" {
		t.Fatalf("birth time: got %s", got)
	}
	r.BirthTime = func(string) (time.Time, error) { return time.Time{}, errors.New("no stat") }
	if got := r.Resolve("x.pdf", Metadata{}); got != "20250203" {
		t.Fatalf("now: got %s", got)
	}
}

func TestBirthTimeOfRealFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.pdf")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	bt, err := BirthTime(path)
	if err != nil {
		t.Fatalf("BirthTime: %v", err)
	}
	if time.Since(bt) > time.Hour || bt.After(time.Now().Add(time.Minute)) {
		t.Fatalf("implausible birth time %v", bt)
	}
	if _, err := BirthTime(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestIsCanonical(t *testing.T) {
	cfg := heuristics.Defaults()
	tests := map[string]bool{
		"20240101_ACME_Rechnung.pdf":                  true,
		"20240101_UnknownSender_no_subject_found.png": true,
		"20240101_ACME.pdf":                           false,
		"scan001.pdf":                                 false,
		"20240101_Müller_Brief.pdf":                   false,
		"20240101_ACME__Rechnung.pdf":                 false,
		"Brief vom Finanzamt Berlin Mitte.pdf":        false,
	}
	for name, want := range tests {
		if got := IsCanonical(name, cfg); got != want {
			t.Errorf("IsCanonical(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestComposeIsCanonical(t *testing.T) {
	cfg := heuristics.Defaults()
	name := Compose("20240101", "Müller & Söhne", "Aktenzeichen_12/34", ".pdf", cfg)
	if !IsCanonical(name, cfg) {
		t.Fatalf("%q not canonical", name)
	}
}

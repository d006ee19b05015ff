// Package heuristics holds the immutable tuning object shared by every field extractor.
// A Config is a plain value: extractors receive a copy and never mutate it.
package heuristics

import "math"

// Band is a rectangular page region measured in centimetres from the top-left corner.
// A zero RightCM leaves the band unbounded to the right.
type Band struct {
	TopCM    float64 `yaml:"top_cm" json:"top_cm"`
	BottomCM float64 `yaml:"bottom_cm" json:"bottom_cm"`
	LeftCM   float64 `yaml:"left_cm" json:"left_cm"`
	RightCM  float64 `yaml:"right_cm" json:"right_cm"`
}

// Config holds geometric offsets, keyword lists and length caps.
type Config struct {
	// DPI is used when a page does not report its own resolution.
	DPI float64 `yaml:"dpi" json:"dpi"`

	// ForceZone overrides classification when set ("letter", "statement", ...).
	ForceZone            string   `yaml:"force_zone" json:"force_zone"`
	ShortFormMaxHeightCM float64  `yaml:"short_form_max_height_cm" json:"short_form_max_height_cm"`
	BankingKeywords      []string `yaml:"banking_keywords" json:"banking_keywords"`

	SenderBand       Band     `yaml:"sender_band" json:"sender_band"`
	SenderIgnore     []string `yaml:"sender_ignore" json:"sender_ignore"`
	SenderDelimiters string   `yaml:"sender_delimiters" json:"sender_delimiters"`
	SenderMaxLen     int      `yaml:"sender_max_len" json:"sender_max_len"`

	// FoldCM places the fold line at a fixed offset; 0 falls back to FoldFraction of the page height.
	FoldCM             float64 `yaml:"fold_cm" json:"fold_cm"`
	FoldFraction       float64 `yaml:"fold_fraction" json:"fold_fraction"`
	FoldToleranceCM    float64 `yaml:"fold_tolerance_cm" json:"fold_tolerance_cm"`
	FoldWindowCM       float64 `yaml:"fold_window_cm" json:"fold_window_cm"`
	FoldWords          int     `yaml:"fold_words" json:"fold_words"`
	StyledHeightFactor float64 `yaml:"styled_height_factor" json:"styled_height_factor"`
	SubjectMaxLen      int     `yaml:"subject_max_len" json:"subject_max_len"`
	HintWords          int     `yaml:"hint_words" json:"hint_words"`

	CaseAnchors     [][]string `yaml:"case_anchors" json:"case_anchors"`
	CaseKeywords    []string   `yaml:"case_keywords" json:"case_keywords"`
	CaseSkipLines   int        `yaml:"case_skip_lines" json:"case_skip_lines"`
	CaseMaxChars    int        `yaml:"case_max_chars" json:"case_max_chars"`
	LineToleranceCM float64    `yaml:"line_tolerance_cm" json:"line_tolerance_cm"`

	Delimiter     string `yaml:"delimiter" json:"delimiter"`
	FieldMaxLen   int    `yaml:"field_max_len" json:"field_max_len"`
	Transliterate bool   `yaml:"transliterate" json:"transliterate"`
}

// Defaults returns the tuning used for DIN 5008 business letters scanned at 300 dpi.
func Defaults() Config {
	return Config{
		DPI:                  300,
		ShortFormMaxHeightCM: 12.7, // 1500 px at 300 dpi
		BankingKeywords:      []string{"kontoauszug", "kontostand", "iban", "blz"},

		SenderBand:       Band{TopCM: 3.0, BottomCM: 4.0},
		SenderIgnore:     []string{"Postfach", "Postzentrum", "Postanschrift", "PLZ"},
		SenderDelimiters: ",;.",
		SenderMaxLen:     30,

		FoldCM:             10.0,
		FoldFraction:       1.0 / 3.0,
		FoldToleranceCM:    0.08,
		FoldWindowCM:       2.0,
		FoldWords:          5,
		StyledHeightFactor: 1.5,
		SubjectMaxLen:      30,
		HintWords:          4,

		CaseAnchors:     [][]string{{"bitte", "bei", "antwort", "angeben"}},
		CaseKeywords:    []string{"Aktenzeichen", "Geschäftszeichen"},
		CaseSkipLines:   2,
		CaseMaxChars:    16,
		LineToleranceCM: 0.1,

		Delimiter:     "_",
		FieldMaxLen:   40,
		Transliterate: true,
	}
}

// Resolve returns dpi, or the configured default when dpi is not positive.
func (c Config) Resolve(dpi float64) float64 {
	if dpi > 0 {
		return dpi
	}
	if c.DPI > 0 {
		return c.DPI
	}
	return 300
}

// Px converts centimetres to pixels at the given resolution.
func (c Config) Px(cm, dpi float64) float64 {
	return cm * c.Resolve(dpi) / 2.54
}

// FoldLine returns the vertical cut used by the subject heuristic, in pixels.
func (c Config) FoldLine(pageHeight, dpi float64) float64 {
	if c.FoldCM > 0 {
		return c.Px(c.FoldCM, dpi)
	}
	return math.Round(pageHeight * c.FoldFraction)
}

package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/joseph-ayodele/scanrename/internal/entity"
	"github.com/joseph-ayodele/scanrename/internal/heuristics"
)

var (
	postalCodeRe     = regexp.MustCompile(`^\d{5}$`)
	postalCodeInText = regexp.MustCompile(`(^|\D)\d{5}(\D|$)`)
	spaceRunRe       = regexp.MustCompile(`\s+`)
)

// SenderExtractor reads the return-address band above the envelope window.
type SenderExtractor struct{}

func (SenderExtractor) Kind() entity.FieldKind { return entity.FieldSender }

func (SenderExtractor) Extract(doc entity.Document, cfg heuristics.Config) (entity.ExtractedField, bool) {
	page := doc.Page
	dpi := page.DPI
	top := cfg.Px(cfg.SenderBand.TopCM, dpi)
	bottom := cfg.Px(cfg.SenderBand.BottomCM, dpi)

	if s := senderFromWindow(page.Tokens, top, bottom, dpi, cfg); s != "" {
		return entity.ExtractedField{Kind: entity.FieldSender, Value: s, Source: "sender_band", Rank: entity.RankSenderBand}, true
	}

	// Second pass: a postal-code line in the upper part of the page starts a new window.
	limit := cfg.FoldLine(page.Height, dpi) / 2
	tol := cfg.Px(cfg.LineToleranceCM, dpi)
	for _, l := range groupLines(page.Tokens, tol) {
		if l.Y >= limit {
			break
		}
		if !postalCodeInText.MatchString(l.Text()) {
			continue
		}
		if s := senderFromWindow(page.Tokens, l.Y, l.Y+(bottom-top), dpi, cfg); s != "" {
			return entity.ExtractedField{Kind: entity.FieldSender, Value: s, Source: "postal_code_window", Rank: entity.RankSenderFallback}, true
		}
		break
	}
	return entity.ExtractedField{}, false
}

func senderFromWindow(tokens []entity.Token, top, bottom, dpi float64, cfg heuristics.Config) string {
	left := cfg.Px(cfg.SenderBand.LeftCM, dpi)
	right := 0.0
	if cfg.SenderBand.RightCM > 0 {
		right = cfg.Px(cfg.SenderBand.RightCM, dpi)
	}

	var kept []entity.Token
	for _, t := range tokens {
		if t.Y < top || t.Y > bottom {
			continue
		}
		if t.X < left || (right > 0 && t.X >= right) {
			continue
		}
		text := keepSenderWords(t.Text, cfg.SenderIgnore)
		if text == "" {
			continue
		}
		t.Text = text
		kept = append(kept, t)
	}
	if len(kept) == 0 {
		return ""
	}

	parts := make([]string, 0, len(kept))
	for _, t := range readingOrder(kept, cfg.Px(cfg.LineToleranceCM, dpi)) {
		parts = append(parts, strings.TrimSpace(t.Text))
	}
	return cleanSender(strings.Join(parts, " "), cfg)
}

// cleanSender cuts at the first delimiter, drops digits, collapses whitespace and caps the length.
func cleanSender(s string, cfg heuristics.Config) string {
	if cfg.SenderDelimiters != "" {
		if i := strings.IndexAny(s, cfg.SenderDelimiters); i >= 0 {
			s = s[:i]
		}
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(spaceRunRe.ReplaceAllString(s, " "))
	return capRunes(s, cfg.SenderMaxLen)
}

// keepSenderWords drops postal codes and ignore-list words (whole word, case-insensitive).
func keepSenderWords(text string, ignore []string) string {
	var out []string
	for _, w := range strings.Fields(text) {
		if postalCodeRe.MatchString(w) || isIgnored(w, ignore) {
			continue
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}

func isIgnored(word string, ignore []string) bool {
	bw := bareWord(word)
	if bw == "" {
		return false
	}
	for _, ig := range ignore {
		if bw == strings.ToLower(ig) {
			return true
		}
	}
	return false
}

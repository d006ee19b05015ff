// Package naming turns resolved fields into a canonical, filesystem-safe file name.
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/joseph-ayodele/scanrename/constants"
	"github.com/joseph-ayodele/scanrename/internal/heuristics"
)

var germanFolds = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue",
	"Ä", "Ae", "Ö", "Oe", "Ü", "Ue",
	"ß", "ss",
)

// Compose builds "date_sender_subject.ext". Empty fields fall back to their sentinels.
func Compose(date, sender, subjectOrCase, ext string, cfg heuristics.Config) string {
	delim := delimiter(cfg)
	parts := []string{
		Sanitize(date, cfg),
		sanitizeOr(sender, constants.UnknownSender, cfg),
		sanitizeOr(subjectOrCase, constants.NoSubjectFound, cfg),
	}
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, delim) + ext
}

func sanitizeOr(field, sentinel string, cfg heuristics.Config) string {
	if s := Sanitize(field, cfg); s != "" {
		return s
	}
	return Sanitize(sentinel, cfg)
}

// Sanitize maps one field onto [A-Za-z0-9_] plus the delimiter, without doubled separators.
func Sanitize(field string, cfg heuristics.Config) string {
	delim := delimiter(cfg)
	if cfg.Transliterate {
		field = Transliterate(field)
	}

	var b strings.Builder
	lastSep := true // suppresses leading separators
	for _, r := range field {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			lastSep = false
			continue
		}
		if !lastSep {
			b.WriteString(delim)
			lastSep = true
		}
	}
	out := strings.TrimRight(b.String(), "_"+delim)

	if cfg.FieldMaxLen > 0 && len(out) > cfg.FieldMaxLen {
		out = strings.TrimRight(out[:cfg.FieldMaxLen], "_"+delim)
	}
	return out
}

// Transliterate folds German umlauts to their two-letter forms and strips remaining diacritics.
func Transliterate(s string) string {
	s = germanFolds.Replace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func delimiter(cfg heuristics.Config) string {
	if cfg.Delimiter == "" {
		return "_"
	}
	return cfg.Delimiter
}

package ocr

import (
	"regexp"
	"strings"
)

var (
	reMultiSpace = regexp.MustCompile(`\s{2,}`)
	reBoxNoise   = regexp.MustCompile(`^[_\-|=~.]{3,}$`)
)

// NormalizeToken trims a recognized word and drops ruler/box artifacts.
func NormalizeToken(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
	if s == "" || reBoxNoise.MatchString(s) {
		return ""
	}
	return reMultiSpace.ReplaceAllString(s, " ")
}

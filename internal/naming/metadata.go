package naming

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joseph-ayodele/scanrename/internal/heuristics"
)

var eightDigits = regexp.MustCompile(`^\d{8}$`)

// Metadata is what an existing file name already says about the document.
// Names that do not follow the date_sender_... convention yield empty fields.
type Metadata struct {
	Components []string
	Date       string // YYYYMMDD, empty when no component is a valid date
	Sender     string // second component, only when the first is a date
}

// ParseFilename splits the base name (extension removed) on underscores.
func ParseFilename(path string) Metadata {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	md := Metadata{Components: strings.Split(base, "_")}

	if len(md.Components) > 0 && IsDate(md.Components[0]) {
		md.Date = md.Components[0]
		if len(md.Components) > 1 {
			md.Sender = strings.TrimSpace(md.Components[1])
		}
		return md
	}
	for _, c := range md.Components {
		if IsDate(c) {
			md.Date = c
			break
		}
	}
	return md
}

// IsDate reports whether s is a real calendar date in YYYYMMDD form.
func IsDate(s string) bool {
	if !eightDigits.MatchString(s) {
		return false
	}
	_, err := time.Parse("20060102", s)
	return err == nil
}

// IsCanonical reports whether a base name already has the composed shape:
// a date component, at least two more fields, and nothing Sanitize would change.
func IsCanonical(name string, cfg heuristics.Config) bool {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.Split(stem, delimiter(cfg))
	if len(parts) < 3 || !IsDate(parts[0]) {
		return false
	}
	return Sanitize(stem, cfg) == stem
}

package constants

import "strings"

// Zone is the document category decided from page geometry and banking terms.
type Zone string

const (
	ZoneStandard  Zone = "Standard"
	ZoneShortForm Zone = "ShortForm"
)

// Sentinel literals substituted when a field cannot be determined.
const (
	UnknownSender     = "UnknownSender"
	NoSubjectFound    = "no subject found"
	NoCaseNumberFound = "no case number found"
	ShortFormSubject  = "Kontoauszug"
	CaseNumberPrefix  = "Aktenzeichen_"
)

var allZones = []Zone{ZoneStandard, ZoneShortForm}

// Canonicalize maps a loose label ("statement", "letter", ...) onto a Zone.
func Canonicalize(input string) (Zone, bool) {
	if input == "" {
		return ZoneStandard, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]Zone{
		"letter":      ZoneStandard,
		"brief":       ZoneStandard,
		"statement":   ZoneShortForm,
		"short":       ZoneShortForm,
		"short-form":  ZoneShortForm,
		"kontoauszug": ZoneShortForm,
		"bank":        ZoneShortForm,
	}

	if z, ok := synonyms[normalized]; ok {
		return z, true
	}

	for _, z := range allZones {
		if normalized == strings.ToLower(string(z)) {
			return z, true
		}
	}

	return ZoneStandard, false
}

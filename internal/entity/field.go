package entity

import "github.com/joseph-ayodele/scanrename/constants"

// FieldKind tags the closed set of extracted fields.
type FieldKind string

const (
	FieldSender     FieldKind = "sender"
	FieldSubject    FieldKind = "subject"
	FieldCaseNumber FieldKind = "case_number"
)

// Ordinal ranks, higher wins when fields compete for the same slot.
const (
	RankSenderFallback = 5
	RankSenderBand     = 10
	RankFoldLine       = 10
	RankStyled         = 20
	RankFilenameHint   = 30
	RankCaseNumber     = 40
)

// ExtractedField is a candidate value produced by one heuristic.
type ExtractedField struct {
	Kind   FieldKind `json:"kind"`
	Value  string    `json:"value"`
	Source string    `json:"source"` // heuristic that produced the value
	Rank   int       `json:"rank"`
}

// Resolution is the arbiter output used for naming.
type Resolution struct {
	Zone          constants.Zone `json:"zone"`
	Sender        string         `json:"sender"`
	SenderSource  string         `json:"sender_source"`
	Date          string         `json:"date"` // YYYYMMDD
	SubjectOrCase string         `json:"subject_or_case"`
	SubjectSource string         `json:"subject_source"`
}

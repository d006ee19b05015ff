package constants

// State is the lifecycle state of one document in the rename engine.
type State string

// Stable values (stored as-is in the journal).
const (
	StateDiscovered       State = "DISCOVERED"        // listed, nothing read yet
	StateFieldsReady      State = "FIELDS_READY"      // fields resolved, target composed
	StateRenamed          State = "RENAMED"           // terminal: file moved to target
	StateSkippedIdentical State = "SKIPPED_IDENTICAL" // terminal: already canonical
	StateConflictSkipped  State = "CONFLICT_SKIPPED"  // terminal: target exists, never overwritten
	StateFailed           State = "FAILED"            // terminal failure
)

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	switch s {
	case StateRenamed, StateSkippedIdentical, StateConflictSkipped, StateFailed:
		return true
	default:
		return false
	}
}

package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/scanrename/constants"
)

// RenameDecision is the composed target for one source file.
type RenameDecision struct {
	Source     string     `json:"source"`
	Target     string     `json:"target"`
	FileName   string     `json:"file_name"`
	Ext        string     `json:"ext"`
	Resolution Resolution `json:"resolution"`
}

// Outcome is the terminal (or dry-run FieldsReady) result for one document.
type Outcome struct {
	State    constants.State `json:"state"`
	Source   string          `json:"source"`
	Target   string          `json:"target,omitempty"`
	Decision *RenameDecision `json:"decision,omitempty"`
	Err      error           `json:"-"`
	Attempts int             `json:"attempts"`
}

// Event is one timestamped record handed to the log sink.
type Event struct {
	ID      uuid.UUID       `json:"id"`
	Time    time.Time       `json:"time"`
	RunID   string          `json:"run_id"`
	Level   string          `json:"level"`
	State   constants.State `json:"state"`
	Path    string          `json:"path"`
	Target  string          `json:"target,omitempty"`
	Sender  string          `json:"sender,omitempty"`
	Subject string          `json:"subject,omitempty"`
	Message string          `json:"message"`
}

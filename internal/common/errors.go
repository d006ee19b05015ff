package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes
const (
	CodeAcquisition = "ACQUISITION"
	CodeRename      = "RENAME"
	CodeConfig      = "CONFIG"
	CodeJournal     = "JOURNAL"
)

// Common application errors
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnsupportedFormat  = errors.New("unsupported format")
	ErrNoPages            = errors.New("no pages rendered")
	ErrTargetExists       = errors.New("target already exists")
	ErrValidation         = errors.New("validation failed")
	ErrJournalUnavailable = errors.New("journal unavailable")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// CodeOf returns the AppError code in err's chain, or "".
func CodeOf(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// IsRetryable reports whether a document failure may succeed on another attempt.
// Only acquisition errors qualify; an unsupported format never will.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, ErrUnsupportedFormat) {
		return false
	}
	return CodeOf(err) == CodeAcquisition
}

package core

import "github.com/pkg/errors"

// FieldError ties a validation failure to the JSON field that caused it.
type FieldError struct {
	Field string
	Error string
}

// ValidationError collects the field errors of a rejected request. The
// transport layer renders it as a 400 with a field→message map.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown signals that the API process is in an unrecoverable state and
// should terminate gracefully.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

// IsShutdown reports whether err (at any wrap depth) is a shutdown signal.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}

// Package apperr defines the error categories used across epd2lcabyg.
//
// Error taxonomy
//
//	UserError    – caused by missing or invalid user input (wrong flag, bad value, …).
//	               The CLI prints only the message; usage help is NOT repeated.
//	               Exit code: 1.
//
//	ErrCancelled – the user deliberately aborted an interactive flow (resolution
//	               prompt, EPD selector, …).
//	               Exit code: 0 (not a failure).
//
// Conversion errors
//
//	MissingFieldError     – a required source field is absent; aborts the conversion.
//	MalformedValueError   – a numeric source field is not numeric.
//	ResolutionError       – a companion resource could not be fetched or has an
//	                        unexpected shape; only the resolver can recover it.
//	IndexOutOfRangeError  – a classification index is outside the category list.
//
// Everything else is a plain Go error (I/O, network, JSON decoding, …) and is
// propagated with fmt.Errorf("context: %w", err) wrapping.
package apperr

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned when the user explicitly aborts an interactive
// operation.  The CLI should exit 0 rather than 1 when it sees this error.
var ErrCancelled = errors.New("operation cancelled")

// UserError represents an error caused by invalid or missing user input.
// Cobra command handlers return this instead of a bare fmt.Errorf so that
// the root command can suppress repeated usage output and format the message
// in a user-friendly way.
type UserError struct {
	Message string
}

func (e *UserError) Error() string { return e.Message }

// User creates a UserError with the given message.
func User(msg string) error { return &UserError{Message: msg} }

// Userf creates a formatted UserError.
func Userf(format string, args ...any) error {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}

// IsUser reports whether err is (or wraps) a *UserError.
func IsUser(err error) bool {
	var u *UserError
	return errors.As(err, &u)
}

// MissingFieldError reports a required source field that is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// Missing creates a MissingFieldError for the given field path.
func Missing(field string) error { return &MissingFieldError{Field: field} }

// MalformedValueError reports a field whose value cannot be read as a number.
type MalformedValueError struct {
	Field string
	Value string
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("malformed value %q for %s", e.Value, e.Field)
}

// ResolutionError reports a failed lookup step (companion fetch, unexpected
// shape, rejected resolver answer).
type ResolutionError struct {
	Step string
	Err  error
}

func (e *ResolutionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("resolve %s failed", e.Step)
	}
	return fmt.Sprintf("resolve %s: %v", e.Step, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// IndexOutOfRangeError reports an index outside [0, Len).
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range [0,%d)", e.Index, e.Len)
}

// IsMissingField reports whether err is (or wraps) a *MissingFieldError.
func IsMissingField(err error) bool {
	var m *MissingFieldError
	return errors.As(err, &m)
}

// IsResolution reports whether err is (or wraps) a *ResolutionError.
func IsResolution(err error) bool {
	var r *ResolutionError
	return errors.As(err, &r)
}

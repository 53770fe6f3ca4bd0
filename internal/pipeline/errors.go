package pipeline

import (
	"errors"
	"fmt"
)

// ErrorType classifies fatal pipeline failures.
type ErrorType string

// Fatal error classes. Parse problems never reach this taxonomy; they are
// recovered per file and surfaced as run summary counts.
const (
	// ErrorTypeConfig marks failures detected before any artifact is
	// written: bad config, unknown scanner, missing input root.
	ErrorTypeConfig ErrorType = "configuration"
	// ErrorTypeExport marks artifact write failures.
	ErrorTypeExport ErrorType = "export"
)

// Error is a fatal, classified pipeline failure.
type Error struct {
	Err     error
	Type    ErrorType
	Message string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewConfigError creates a configuration error.
func NewConfigError(format string, args ...any) *Error {
	return &Error{Type: ErrorTypeConfig, Message: fmt.Sprintf(format, args...)}
}

// WrapConfigError classifies an underlying error as configuration.
func WrapConfigError(err error, format string, args ...any) *Error {
	return &Error{Type: ErrorTypeConfig, Message: fmt.Sprintf(format, args...), Err: err}
}

// WrapExportError classifies an underlying error as an export failure.
func WrapExportError(err error) *Error {
	return &Error{Type: ErrorTypeExport, Message: "writing artifacts", Err: err}
}

// IsConfigError reports whether err is a configuration error.
func IsConfigError(err error) bool {
	var pErr *Error
	return errors.As(err, &pErr) && pErr.Type == ErrorTypeConfig
}

// IsExportError reports whether err is an export error.
func IsExportError(err error) bool {
	var pErr *Error
	return errors.As(err, &pErr) && pErr.Type == ErrorTypeExport
}

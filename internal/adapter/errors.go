package adapter

import (
	"errors"
	"fmt"
)

// Registry sentinel errors.
var (
	ErrUnknownAdapter   = errors.New("unknown adapter")
	ErrDuplicateAdapter = errors.New("adapter already registered")
)

// ParseError reports a scanner output file that could not be parsed at all.
// It is recoverable at the run level: the file is counted as skipped and
// the run continues.
type ParseError struct {
	Err     error
	Adapter string
	Path    string
}

// NewParseError creates a ParseError for the given adapter and file.
func NewParseError(adapter, path string, err error) *ParseError {
	return &ParseError{Adapter: adapter, Path: path, Err: err}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parsing %s: %v", e.Adapter, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

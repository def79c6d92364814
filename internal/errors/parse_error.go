package errors

import (
	"errors"
	"fmt"
)

// ParseError indicates the live page markup did not match the structure a
// scraping heuristic expects. It fails the current book only.
type ParseError struct {
	What   string
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return "unable to parse " + e.What
	}
	return fmt.Sprintf("unable to parse %s: %s", e.What, e.Detail)
}

// NewParseError creates a ParseError for the named page structure.
func NewParseError(what string, detailFormat string, args ...any) *ParseError {
	return &ParseError{What: what, Detail: fmt.Sprintf(detailFormat, args...)}
}

// IsParseError reports whether err is a ParseError (even when wrapped).
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

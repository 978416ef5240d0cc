// Package parser provides a recursive descent parser for ujs.
package parser

import (
	"fmt"

	"github.com/kolkov/ujs/internal/token"
)

// ParseError represents a syntax error encountered during parsing.
// It implements the error interface and includes source position
// information. Parsing stops at the first error; no recovery is
// attempted.
type ParseError struct {
	Pos     token.Position // Position where the error occurred
	Message string         // Human-readable error message
}

// Error returns a formatted error message with position information.
func (e *ParseError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message)
	}
	return e.Message
}

// errorf creates a ParseError at the given position with a formatted
// message.
func errorf(pos token.Position, format string, args ...any) *ParseError {
	return &ParseError{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
}

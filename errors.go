package ujs

import (
	"fmt"
)

// ParseError represents a syntax error in source text.
type ParseError struct {
	Line    int    // 1-based line number
	Column  int    // 1-based column number
	Message string // Error description
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// CompileError represents a semantic error found before execution.
type CompileError struct {
	Message string // Error description
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile error: %s", e.Message)
}

// RuntimeError represents an error during execution.
type RuntimeError struct {
	Message string // Error description
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %s", e.Message)
}

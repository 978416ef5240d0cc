package ujs

import "io"

// Config holds configuration options for program execution.
type Config struct {
	// Trace is the writer for the interpreter's progress lines
	// (variable writes, property sets, the final global dump).
	// If nil, trace output is discarded.
	Trace io.Writer

	// Globals contains pre-defined global variables, bound as string
	// values before execution, in addition to the built-in undefined
	// binding.
	// Example: map[string]string{"mode": "fast"}
	Globals map[string]string
}

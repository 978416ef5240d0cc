package ujs

import (
	"io"

	"github.com/kolkov/ujs/internal/ast"
	"github.com/kolkov/ujs/internal/semantic"
	"github.com/kolkov/ujs/internal/vm"
)

// Value is the read-only view of a runtime value reachable from a
// Program's global scope.
type Value interface {
	// ToString returns the value's string projection. Numbers use the
	// fixed six-decimal formatter.
	ToString() string

	// ToBool returns the value's boolean projection.
	ToBool() bool

	// TypeOf returns the value's typeof string.
	TypeOf() string
}

// Program represents a compiled program ready for execution.
//
// A Program is not safe for concurrent use, and repeated Run calls
// accumulate state: the scope tree built at compile time is mutated
// in place by execution.
type Program struct {
	prog   *ast.Program
	info   *semantic.Info
	source string // Original source for debugging
}

// Run executes the program with the given configuration. If config
// is nil, defaults are used (no trace output, no extra globals).
func (p *Program) Run(config *Config) error {
	if config == nil {
		config = &Config{}
	}

	v := vm.New(p.info, config.Trace)
	for name, value := range config.Globals {
		v.SetVar(name, value)
	}

	if err := v.Run(p.prog); err != nil {
		return &RuntimeError{Message: err.Error()}
	}
	return nil
}

// Global returns the value bound to name in the program's global
// scope. The boolean is false when the name is unbound. Bindings
// appear as execution creates them.
func (p *Program) Global(name string) (Value, bool) {
	v, ok := p.info.Global().Get(name)
	if !ok {
		return nil, false
	}
	return v, true
}

// PrintAST writes a pretty-printed representation of the parsed
// program to w. Useful for debugging.
func (p *Program) PrintAST(w io.Writer) error {
	return ast.NewPrinter(w).Print(p.prog)
}

// Source returns the original source code.
func (p *Program) Source() string {
	return p.source
}

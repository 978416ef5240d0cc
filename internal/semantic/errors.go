// Package semantic builds the scope tree for a parsed program and
// validates the parts of it that can be checked before execution.
//
// The resolver replays the grammar's scope-creation rules over the
// finished AST: the program root, every function body, if, switch,
// while, for, for-in, with, each catch clause, and every block
// statement introduce a scope. The scope of every node is recorded in
// the resulting Info; the evaluator reads bindings through it.
package semantic

import (
	"fmt"

	"github.com/kolkov/ujs/internal/token"
)

// Error represents a semantic analysis error with source location.
type Error struct {
	Pos     token.Position
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

package semantic

import (
	"github.com/kolkov/ujs/internal/ast"
	"github.com/kolkov/ujs/internal/runtime"
)

// Check validates a resolved program. Regex literals are compiled so
// malformed patterns and unknown flags are reported before execution
// instead of being carried around as opaque text.
func Check(prog *ast.Program, info *Info) []error {
	var errs []error

	ast.Walk(prog, func(n ast.Node) bool {
		re, ok := n.(*ast.RegexLit)
		if !ok {
			return true
		}
		if _, err := runtime.Compile(re.Pattern, re.Flags); err != nil {
			errs = append(errs, &Error{
				Pos:     re.Pos(),
				Message: "invalid regex literal: " + err.Error(),
			})
		}
		return true
	})

	return errs
}

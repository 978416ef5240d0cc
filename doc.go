// Package ujs provides a tree-walking interpreter for a small,
// dynamically typed, C-family scripting language.
//
// ujs lexes, parses, and directly evaluates source text against a
// runtime value model with lexically nested scopes, featuring:
//   - A context-sensitive tokenizer (regex literals vs. division)
//   - A recursive descent parser over a fixed precedence table
//   - Weak typing with a Not-a-Number singleton
//   - Control flow carried by in-band signal values, not host panics
//   - Regex literal validation through the coregex engine
//
// # Quick Start
//
// For simple one-off execution:
//
//	err := ujs.Run(`var a = 1 + 2;`, nil)
//
// # Compiled Programs
//
// Compile once and inspect global bindings after execution:
//
//	prog, err := ujs.Compile(`var a = 1 + 2;`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := prog.Run(nil); err != nil {
//	    log.Fatal(err)
//	}
//	a, _ := prog.Global("a")
//	fmt.Println(a.ToString()) // 3.000000
//
// # Configuration
//
// The [Config] type allows customization of execution:
//   - Trace: an io.Writer receiving the interpreter's progress lines
//   - Globals: string variables pre-bound in the global scope
//
// # Error Handling
//
// Errors are returned as specific types for detailed handling:
//   - [ParseError]: syntax errors in source text
//   - [CompileError]: semantic errors (e.g. malformed regex literals)
//   - [RuntimeError]: errors during execution
//
// # Concurrency
//
// A [Program] is not safe for concurrent use: the scope tree is part
// of the compiled artifact and execution mutates it in place. Run
// calls on the same Program accumulate state; in particular a
// function's parameter scope is shared across every invocation.
package ujs

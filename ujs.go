package ujs

import (
	"fmt"
	"io"

	"github.com/kolkov/ujs/internal/lexer"
	"github.com/kolkov/ujs/internal/parser"
	"github.com/kolkov/ujs/internal/semantic"
	"github.com/kolkov/ujs/internal/token"
)

// Version is the ujs version string.
const Version = "0.1.0"

// Run parses and executes a program in one call. For repeated
// execution or global inspection, use Compile followed by Program.Run.
//
// Example:
//
//	err := ujs.Run(`var a = 1 + 2;`, nil)
func Run(program string, config *Config) error {
	prog, err := Compile(program)
	if err != nil {
		return err
	}
	return prog.Run(config)
}

// Compile parses a program and builds its scope tree. The returned
// Program can be executed and its global bindings inspected.
//
// Example:
//
//	prog, err := ujs.Compile(`var a = 1 + 2;`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = prog.Run(nil)
func Compile(program string) (*Program, error) {
	// Parse
	astProg, err := parser.Parse(program)
	if err != nil {
		// Convert parser error to public type
		if pe, ok := err.(*parser.ParseError); ok {
			return nil, &ParseError{
				Line:    pe.Pos.Line,
				Column:  pe.Pos.Column,
				Message: pe.Message,
			}
		}
		return nil, &ParseError{Message: err.Error()}
	}

	// Build the scope tree
	info := semantic.Resolve(astProg)

	// Check for semantic errors
	if errs := semantic.Check(astProg, info); len(errs) > 0 {
		return nil, &CompileError{Message: errs[0].Error()}
	}

	return &Program{
		prog:   astProg,
		info:   info,
		source: program,
	}, nil
}

// MustCompile is like Compile but panics if the program cannot be
// compiled. It simplifies initialization of global program variables.
func MustCompile(program string) *Program {
	prog, err := Compile(program)
	if err != nil {
		panic(err)
	}
	return prog
}

// DumpTokens lexes a program and writes one line per token to w.
// Useful for debugging the scanner; the program does not have to
// parse.
func DumpTokens(program string, w io.Writer) {
	lx := lexer.NewFromString(program)
	for {
		tok := lx.Scan()
		if tok.Type == token.EOF {
			return
		}
		lexeme := tok.Lit
		if len(lexeme) > 10 {
			lexeme = lexeme[:7] + "..."
		}
		fmt.Fprintf(w, "Token: [%s] @ line: %d, col: %d\n",
			lexeme, tok.Span.Start.Line, tok.Span.Start.Column)
	}
}

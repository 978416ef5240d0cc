// ujs - micro JavaScript-like interpreter
//
// A tree-walking interpreter for a small C-family scripting language.
// Uses manual argument parsing so flags compose with the single
// positional source file argument.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kolkov/ujs"
)

// version is set at build time via -ldflags. For development builds
// it falls back to the library version.
var version = ujs.Version

const (
	shortUsage = "usage: ujs [-v var=value] [-d | -a] [-q] progfile"
	longUsage  = `Arguments:
  -v var=value      pre-bind a global variable (multiple allowed)

Debugging arguments:
  -d                print the token stream and exit
  -a                print the parsed AST and exit

Other:
  -q                quiet: suppress trace output
  -h, --help        show this help message
  -version          show ujs version and exit
`
)

func main() {
	var vars []string
	dumpTokens := false
	dumpAST := false
	quiet := false

	var i int
	for i = 1; i < len(os.Args); i++ {
		// Stop on explicit end of args or first arg not prefixed with "-"
		arg := os.Args[i]
		if arg == "--" {
			i++
			break
		}
		if !strings.HasPrefix(arg, "-") {
			break
		}

		switch arg {
		case "-v":
			if i+1 >= len(os.Args) {
				errorExitf("flag needs an argument: -v")
			}
			i++
			vars = append(vars, os.Args[i])
		case "-d":
			dumpTokens = true
		case "-a":
			dumpAST = true
		case "-q":
			quiet = true
		case "-h", "--help":
			fmt.Printf("ujs %s - micro scripting interpreter\n\n%s\n\n%s", version, shortUsage, longUsage)
			os.Exit(0)
		case "-version", "--version":
			fmt.Printf("ujs version %s\n", version)
			fmt.Println("  regex:  coregex")
			os.Exit(0)
		default:
			// Handle -v with no space: -vvar=val
			if strings.HasPrefix(arg, "-v") && len(arg) > 2 {
				vars = append(vars, arg[2:])
				continue
			}
			errorExitf("flag provided but not defined: %s", arg)
		}
	}

	// The remaining argument is the source file
	args := os.Args[i:]
	if len(args) != 1 {
		errorExitf(shortUsage)
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		errorExitf("cannot read program file %s: %v", args[0], err)
	}

	if dumpTokens {
		ujs.DumpTokens(string(source), os.Stdout)
		os.Exit(0)
	}

	prog, err := ujs.Compile(string(source))
	if err != nil {
		errorExit(err)
	}

	if dumpAST {
		if err := prog.PrintAST(os.Stdout); err != nil {
			errorExit(err)
		}
		os.Exit(0)
	}

	// Buffer the trace output for performance
	var trace io.Writer
	if !quiet {
		stdout := bufio.NewWriter(os.Stdout)
		defer stdout.Flush()
		trace = stdout
	}

	config := &ujs.Config{Trace: trace}

	// Parse variable assignments
	if len(vars) > 0 {
		config.Globals = make(map[string]string)
		for _, v := range vars {
			parts := strings.SplitN(v, "=", 2)
			if len(parts) != 2 {
				errorExitf("invalid variable assignment: %s (expected var=value)", v)
			}
			config.Globals[parts[0]] = parts[1]
		}
	}

	if err := prog.Run(config); err != nil {
		errorExit(err)
	}
}

// errorExitf prints a formatted error message and exits with code 1
func errorExitf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "ujs: "+format+"\n", args...)
	os.Exit(1)
}

// errorExit prints the error and exits with code 1
func errorExit(err error) {
	fmt.Fprintf(os.Stderr, "ujs: %v\n", err)
	os.Exit(1)
}

package ujs_test

import (
	"strings"
	"testing"

	"github.com/kolkov/ujs"
)

func TestRun(t *testing.T) {
	if err := ujs.Run("var a = 1 + 2;", nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestCompileAndGlobals(t *testing.T) {
	prog, err := ujs.Compile(`
var a = 1 + 2;
var s = "x" + 1;
function f(x) { return x + 1; }
var r = f(10);
`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if err := prog.Run(nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	tests := []struct {
		name     string
		toString string
		typeOf   string
	}{
		{"a", "3.000000", "number"},
		{"s", "x1.000000", "string"},
		{"f", "function", "function"},
		{"r", "11.000000", "number"},
	}
	for _, tt := range tests {
		v, ok := prog.Global(tt.name)
		if !ok {
			t.Fatalf("Global(%q) unbound", tt.name)
		}
		if got := v.ToString(); got != tt.toString {
			t.Errorf("%s.ToString() = %q, want %q", tt.name, got, tt.toString)
		}
		if got := v.TypeOf(); got != tt.typeOf {
			t.Errorf("%s.TypeOf() = %q, want %q", tt.name, got, tt.typeOf)
		}
	}

	if _, ok := prog.Global("nothing"); ok {
		t.Error("Global(nothing) resolved")
	}
}

func TestRunsAccumulateState(t *testing.T) {
	prog, err := ujs.Compile("n = n + 1;")
	if err != nil {
		t.Fatal(err)
	}

	if err := prog.Run(&ujs.Config{Globals: map[string]string{"n": "0"}}); err != nil {
		t.Fatal(err)
	}
	n, _ := prog.Global("n")
	// "0" + 1 concatenates: n was a string global.
	if n.ToString() != "01.000000" {
		t.Errorf("n = %q, want %q", n.ToString(), "01.000000")
	}

	// A second run starts from the bindings the first one left.
	if err := prog.Run(nil); err != nil {
		t.Fatal(err)
	}
	n, _ = prog.Global("n")
	if n.ToString() != "01.0000001.000000" {
		t.Errorf("n = %q, want %q", n.ToString(), "01.0000001.000000")
	}
}

func TestParseErrorType(t *testing.T) {
	_, err := ujs.Compile("var = ;")
	if err == nil {
		t.Fatal("Compile succeeded, want parse error")
	}
	pe, ok := err.(*ujs.ParseError)
	if !ok {
		t.Fatalf("error type = %T, want *ujs.ParseError", err)
	}
	if pe.Line == 0 {
		t.Error("parse error carries no line")
	}
}

func TestCompileErrorType(t *testing.T) {
	_, err := ujs.Compile("var re = /a(/;")
	if err == nil {
		t.Fatal("Compile succeeded, want compile error for malformed regex")
	}
	if _, ok := err.(*ujs.CompileError); !ok {
		t.Fatalf("error type = %T, want *ujs.CompileError", err)
	}
}

func TestRuntimeErrorType(t *testing.T) {
	err := ujs.Run("var x = 1; x();", nil)
	if err == nil {
		t.Fatal("Run succeeded, want runtime error")
	}
	if _, ok := err.(*ujs.RuntimeError); !ok {
		t.Fatalf("error type = %T, want *ujs.RuntimeError", err)
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile did not panic")
		}
	}()
	ujs.MustCompile("var = ;")
}

func TestTraceWriter(t *testing.T) {
	var sb strings.Builder
	if err := ujs.Run("var a = 2;", &ujs.Config{Trace: &sb}); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	if !strings.Contains(out, "Execute a program") ||
		!strings.Contains(out, "var a = 2.000000") ||
		!strings.Contains(out, "Execution finished") {
		t.Errorf("unexpected trace:\n%s", out)
	}
}

func TestDumpTokens(t *testing.T) {
	var sb strings.Builder
	ujs.DumpTokens("var abc = /abc/ig; somelongname", &sb)
	out := sb.String()

	if !strings.Contains(out, "Token: [var] @ line: 1, col: 1") {
		t.Errorf("missing var token line in:\n%s", out)
	}
	if !strings.Contains(out, "Token: [/abc/ig] @ line: 1") {
		t.Errorf("missing regex token line in:\n%s", out)
	}
	// Long lexemes are truncated for display.
	if !strings.Contains(out, "Token: [somelon...]") {
		t.Errorf("missing truncated token line in:\n%s", out)
	}
}

func TestPrintAST(t *testing.T) {
	prog, err := ujs.Compile("function f(x) { return x + 1; }")
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	if err := prog.PrintAST(&sb); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	for _, want := range []string{"Program", "Function f (x)", "Return", "Binary +"} {
		if !strings.Contains(out, want) {
			t.Errorf("AST dump missing %q in:\n%s", want, out)
		}
	}
}

func TestSource(t *testing.T) {
	src := "var a = 1;"
	prog, err := ujs.Compile(src)
	if err != nil {
		t.Fatal(err)
	}
	if prog.Source() != src {
		t.Errorf("Source() = %q, want %q", prog.Source(), src)
	}
}

package vm_test

import (
	"strings"
	"testing"

	"github.com/kolkov/ujs/internal/parser"
	"github.com/kolkov/ujs/internal/semantic"
	"github.com/kolkov/ujs/internal/types"
	"github.com/kolkov/ujs/internal/vm"
)

// run executes src and returns the global scope for inspection.
func run(t *testing.T, src string) *types.Scope {
	t.Helper()
	sc, err := tryRun(src)
	if err != nil {
		t.Fatalf("run(%q) error = %v", src, err)
	}
	return sc
}

func tryRun(src string) (*types.Scope, error) {
	prog, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	info := semantic.Resolve(prog)
	v := vm.New(info, nil)
	if err := v.Run(prog); err != nil {
		return info.Global(), err
	}
	return info.Global(), nil
}

// global fetches a binding that must exist.
func global(t *testing.T, sc *types.Scope, name string) *types.Value {
	t.Helper()
	v, ok := sc.Get(name)
	if !ok {
		t.Fatalf("global %q unbound", name)
	}
	return v
}

func wantNum(t *testing.T, sc *types.Scope, name string, expected float64) {
	t.Helper()
	v := global(t, sc, name)
	if !v.IsNumber() {
		t.Fatalf("%s kind = %v, want number (value %s)", name, v.Kind(), v.ToString())
	}
	if v.Num() != expected {
		t.Errorf("%s = %v, want %v", name, v.Num(), expected)
	}
}

func wantStr(t *testing.T, sc *types.Scope, name, expected string) {
	t.Helper()
	v := global(t, sc, name)
	if v.Kind() != types.KindString {
		t.Fatalf("%s kind = %v, want string (value %s)", name, v.Kind(), v.ToString())
	}
	if v.ToString() != expected {
		t.Errorf("%s = %q, want %q", name, v.ToString(), expected)
	}
}

func TestArithmetic(t *testing.T) {
	sc := run(t, `
var a = 1 + 2;
var b = 10 - 4;
var c = 6 * 7;
var d = 9 / 2;
var e = 9 % 4;
var f = 2 + 3 * 4;
`)
	wantNum(t, sc, "a", 3)
	wantNum(t, sc, "b", 6)
	wantNum(t, sc, "c", 42)
	wantNum(t, sc, "d", 4.5)
	wantNum(t, sc, "e", 1)
	wantNum(t, sc, "f", 14)
}

func TestStringConcat(t *testing.T) {
	// Any non-numeric operand turns + into concatenation of the
	// string projections; numbers format with six decimals.
	sc := run(t, `
var s = "x" + 1;
var u = 1 + "x";
var v = "a" + "b";
var w = "n:" + null;
var b = "t:" + true;
`)
	wantStr(t, sc, "s", "x1.000000")
	wantStr(t, sc, "u", "1.000000x")
	wantStr(t, sc, "v", "ab")
	wantStr(t, sc, "w", "n:")
	wantStr(t, sc, "b", "t:true")
}

func TestNaNPropagation(t *testing.T) {
	sc := run(t, `
var a = 1 - "x";
var b = a + 1;
var c = a * 2;
var d = "a" * "b";
var e = null - 1;
var t = typeof a;
`)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		if global(t, sc, name).Kind() != types.KindNaN {
			t.Errorf("%s kind = %v, want NaN", name, global(t, sc, name).Kind())
		}
	}
	wantStr(t, sc, "t", "number")
}

func TestBitwise(t *testing.T) {
	sc := run(t, `
var a = 12 & 10;
var b = 12 | 10;
var c = 12 ^ 10;
var d = 1 << 4;
var e = 32 >> 2;
var f = ~5;
var g = ~"x";
var h = 7 % 0;
`)
	wantNum(t, sc, "a", 8)
	wantNum(t, sc, "b", 14)
	wantNum(t, sc, "c", 6)
	wantNum(t, sc, "d", 16)
	wantNum(t, sc, "e", 8)
	wantNum(t, sc, "f", -6)
	if global(t, sc, "g").Kind() != types.KindNaN {
		t.Error("~ on a non-number should yield NaN")
	}
	if global(t, sc, "h").Kind() != types.KindNaN {
		t.Error("modulo by zero should yield NaN")
	}
}

func TestComparison(t *testing.T) {
	sc := run(t, `
var a = 1 < 2;
var b = 2 <= 2;
var c = 3 > 4;
var d = "abc" < "abd";
var e = 1 == 1;
var f = 1 == 2;
var g = "1.000000" == 1;
var h = 1 === 1;
var i = "1.000000" === 1;
var j = 1 !== 2;
var k = null == undefined;
`)
	wantBool := func(name string, expected bool) {
		t.Helper()
		v := global(t, sc, name)
		if v.Kind() != types.KindBool || v.Bool() != expected {
			t.Errorf("%s = %s, want %v", name, v.ToString(), expected)
		}
	}
	wantBool("a", true)
	wantBool("b", true)
	wantBool("c", false)
	wantBool("d", true)
	wantBool("e", true)
	wantBool("f", false)
	// Mixed operands compare string projections.
	wantBool("g", true)
	wantBool("h", true)
	// Strict equality requires matching kinds.
	wantBool("i", false)
	wantBool("j", true)
	// "" == "undefined" is false.
	wantBool("k", false)
}

func TestLogical(t *testing.T) {
	// Short-circuit operators return booleans, not operands.
	sc := run(t, `
var a = 1 && 2;
var b = 0 || "x";
var c = 0 && f();
var d = 1 || f();
var e = !0;
var g = !!"";
`)
	v := global(t, sc, "a")
	if v.Kind() != types.KindBool || !v.Bool() {
		t.Errorf("1 && 2 = %s, want true (a boolean, not an operand)", v.ToString())
	}
	if !global(t, sc, "b").Bool() {
		t.Error(`0 || "x" should be true`)
	}
	// Short circuit: f is unbound, calling it would be an error.
	if global(t, sc, "c").Bool() {
		t.Error("0 && ... should be false")
	}
	if !global(t, sc, "d").Bool() {
		t.Error("1 || ... should be true")
	}
	if !global(t, sc, "e").Bool() || global(t, sc, "g").Bool() {
		t.Error("! projection wrong")
	}
}

func TestVarAndAssignment(t *testing.T) {
	sc := run(t, `
var a = 1;
a = 2;
b = 3;
var c;
`)
	wantNum(t, sc, "a", 2)
	// Unbound write creates a global binding.
	wantNum(t, sc, "b", 3)
	if global(t, sc, "c").Kind() != types.KindUndefined {
		t.Error("var without initializer should bind undefined")
	}
}

func TestChainedAssignment(t *testing.T) {
	// Right side evaluates before the left.
	sc := run(t, "a = b = 7;")
	wantNum(t, sc, "a", 7)
	wantNum(t, sc, "b", 7)
}

func TestCompoundAssignment(t *testing.T) {
	sc := run(t, `
var a = 10; a += 5;
var b = 10; b -= 3;
var c = 10; c *= 2;
var d = 10; d /= 4;
var e = 10; e %= 3;
var f = 12; f &= 10;
var g = 12; g |= 3;
var h = 12; h ^= 10;
var i = 1;  i <<= 3;
var j = 16; j >>= 2;
var k = 99; k ~= 5;
`)
	wantNum(t, sc, "a", 15)
	wantNum(t, sc, "b", 7)
	wantNum(t, sc, "c", 20)
	wantNum(t, sc, "d", 2.5)
	wantNum(t, sc, "e", 1)
	wantNum(t, sc, "f", 8)
	wantNum(t, sc, "g", 15)
	wantNum(t, sc, "h", 6)
	wantNum(t, sc, "i", 8)
	wantNum(t, sc, "j", 4)
	// ~= assigns the complement of the right side, ignoring the left.
	wantNum(t, sc, "k", -6)
}

func TestIncrementDecrement(t *testing.T) {
	sc := run(t, `
var i = 5;
var pre = ++i;
var j = 5;
var post = j++;
var k = 5;
++k; --k;
var s = "x";
var bad = s++;
`)
	wantNum(t, sc, "i", 6)
	wantNum(t, sc, "pre", 6)
	wantNum(t, sc, "j", 6)
	// Postfix yields the pre-mutation value.
	wantNum(t, sc, "post", 5)
	// ++ then -- round-trips.
	wantNum(t, sc, "k", 5)
	if global(t, sc, "bad").Kind() != types.KindNaN {
		t.Error("postfix ++ on a string should yield NaN")
	}
}

func TestIfElse(t *testing.T) {
	sc := run(t, `
var a = 0;
if (1 < 2) { a = 1; } else { a = 2; }
var b = 0;
if (1 > 2) b = 1; else b = 2;
var c = 0;
if (0) c = 1;
`)
	wantNum(t, sc, "a", 1)
	wantNum(t, sc, "b", 2)
	wantNum(t, sc, "c", 0)
}

func TestTernary(t *testing.T) {
	sc := run(t, `var a = 1 ? "y" : "n"; var b = 0 ? "y" : "n";`)
	wantStr(t, sc, "a", "y")
	wantStr(t, sc, "b", "n")
}

func TestWhileLoop(t *testing.T) {
	sc := run(t, `
var i = 0;
var s = 0;
while (i < 5) { s = s + i; i = i + 1; }
`)
	wantNum(t, sc, "i", 5)
	wantNum(t, sc, "s", 10)
}

func TestDoWhileLoop(t *testing.T) {
	sc := run(t, `
var i = 10;
var n = 0;
do { n = n + 1; i = i + 1; } while (i < 3);
`)
	// Body runs once before the first test.
	wantNum(t, sc, "n", 1)
}

func TestForLoop(t *testing.T) {
	sc := run(t, `
var i = 0;
for (i = 0; i < 3; i++) {}
var s = 0;
for (var j = 0; j < 4; j++) { s = s + j; }
`)
	wantNum(t, sc, "i", 3)
	wantNum(t, sc, "s", 6)
}

func TestForLoopWithoutCondition(t *testing.T) {
	// An absent condition is truthy; break exits.
	sc := run(t, `
var n = 0;
for (;;) { n++; if (n == 3) { break; } }
`)
	wantNum(t, sc, "n", 3)
}

func TestBreakContinue(t *testing.T) {
	sc := run(t, `
var s = 0;
for (var i = 0; i < 10; i++) {
	if (i == 3) { continue; }
	if (i == 6) { break; }
	s = s + i;
}
`)
	// 0+1+2+4+5 = 12
	wantNum(t, sc, "s", 12)
}

func TestForInObject(t *testing.T) {
	// Iteration order is sorted ascending by key.
	sc := run(t, `
var o = {"a": 2, "b": 3};
var k;
var s = 0;
var order = "";
for (k in o) { s = s + o[k]; order = order + k; }
`)
	wantNum(t, sc, "s", 5)
	wantStr(t, sc, "order", "ab")
}

func TestForInString(t *testing.T) {
	sc := run(t, `
var s = "";
for (var c in "abc") { s = s + c + "-"; }
`)
	wantStr(t, sc, "s", "a-b-c-")
}

func TestSwitch(t *testing.T) {
	t.Run("matched case executes following statements", func(t *testing.T) {
		sc := run(t, `
var trace = "";
switch (2) {
	case 1: trace = trace + "1";
	case 2: trace = trace + "a"; trace = trace + "b";
	case 3: trace = trace + "3";
}
`)
		// Each case re-evaluates its predicate: case 3 switches back
		// to skipping.
		wantStr(t, sc, "trace", "ab")
	})

	t.Run("default re-enables execution", func(t *testing.T) {
		sc := run(t, `
var trace = "";
switch (2) {
	case 2: trace = trace + "x";
	case 9: trace = trace + "y";
	default: trace = trace + "z";
}
`)
		wantStr(t, sc, "trace", "xz")
	})

	t.Run("break exits the switch", func(t *testing.T) {
		sc := run(t, `
var trace = "";
switch (1) {
	case 1: trace = trace + "1"; break;
	default: trace = trace + "d";
}
`)
		wantStr(t, sc, "trace", "1")
	})

	t.Run("default", func(t *testing.T) {
		sc := run(t, `
var trace = "";
switch (9) {
	case 1: trace = trace + "1"; break;
	default: trace = trace + "d";
}
`)
		wantStr(t, sc, "trace", "d")
	})

	t.Run("a later non-matching case stops execution", func(t *testing.T) {
		sc := run(t, `
var trace = "";
switch (1) {
	case 1: trace = trace + "1";
	case 9: trace = trace + "9";
}
`)
		wantStr(t, sc, "trace", "1")
	})

	t.Run("return propagates", func(t *testing.T) {
		sc := run(t, `
function f(x) {
	switch (x) { case 1: return "one"; }
	return "other";
}
var a = f(1);
var b = f(2);
`)
		wantStr(t, sc, "a", "one")
		wantStr(t, sc, "b", "other")
	})
}

func TestFunctions(t *testing.T) {
	t.Run("declaration and call", func(t *testing.T) {
		sc := run(t, `function f(x) { return x + 1; } var r = f(10);`)
		wantNum(t, sc, "r", 11)
	})

	t.Run("fall off the end yields null", func(t *testing.T) {
		sc := run(t, `function f() { } var r = f();`)
		if global(t, sc, "r").Kind() != types.KindNull {
			t.Errorf("r kind = %v, want null", global(t, sc, "r").Kind())
		}
	})

	t.Run("function expression", func(t *testing.T) {
		sc := run(t, `var f = function (a, b) { return a * b; }; var r = f(6, 7);`)
		wantNum(t, sc, "r", 42)
	})

	t.Run("missing arguments stay unbound on first call", func(t *testing.T) {
		sc := run(t, `function f(a, b) { return typeof b; } var r = f(1);`)
		wantStr(t, sc, "r", "undefined")
	})

	t.Run("arguments object", func(t *testing.T) {
		sc := run(t, `
function f(a, b) { return arguments["0"] + arguments["1"]; }
var r = f(30, 12);
`)
		wantNum(t, sc, "r", 42)
	})

	t.Run("this is a fresh object per call", func(t *testing.T) {
		sc := run(t, `
function f() { this.x = 1; return this; }
var a = f();
var b = f();
a.y = 9;
var bHasY = typeof b.y;
`)
		wantStr(t, sc, "bHasY", "undefined")
	})

	t.Run("calling a non-function fails", func(t *testing.T) {
		_, err := tryRun("var x = 1; x();")
		if err == nil {
			t.Fatal("calling a number should error")
		}
		if _, ok := err.(*vm.ExecError); !ok {
			t.Errorf("error type = %T, want *vm.ExecError", err)
		}
	})
}

// TestSharedFunctionScope asserts the observable property that a
// function's parameter bindings live in one scope shared across
// invocations: a call with fewer actuals sees the previous call's
// bindings.
func TestSharedFunctionScope(t *testing.T) {
	sc := run(t, `
function f(x) { return x; }
f(5);
var r = f();
`)
	wantNum(t, sc, "r", 5)
}

func TestConstructor(t *testing.T) {
	t.Run("returns the fresh this", func(t *testing.T) {
		sc := run(t, `function C() { this.x = 9; } var o = new C(); var r = o.x;`)
		wantNum(t, sc, "r", 9)
	})

	t.Run("return value is discarded", func(t *testing.T) {
		sc := run(t, `
function C() { this.x = 1; return 42; }
var o = new C();
var r = o.x;
var k = typeof o;
`)
		wantNum(t, sc, "r", 1)
		wantStr(t, sc, "k", "object")
	})
}

func TestObjectsAndArrays(t *testing.T) {
	sc := run(t, `
var o = {"a": 1};
o.b = 2;
o["c"] = 3;
var arr = [10, 20, 30];
var first = arr["0"];
var second = arr["1"];
var miss = typeof o.nope;
o.a = o.a + 1;
delete o.b;
var afterDelete = typeof o.b;
var keys = "";
for (var k in o) { keys = keys + k; }
`)
	wantNum(t, sc, "first", 10)
	wantNum(t, sc, "second", 20)

	// A numeric index coerces through the six-decimal formatter, so
	// it misses the integer keys array literals are built with.
	sc2 := run(t, `
var arr = [10];
var miss = typeof arr[0];
arr[0] = 5;
var hit = arr[0];
`)
	wantStr(t, sc2, "miss", "undefined")
	wantNum(t, sc2, "hit", 5)
	wantStr(t, sc, "miss", "undefined")
	wantStr(t, sc, "afterDelete", "undefined")
	wantStr(t, sc, "keys", "ac")
}

func TestPropertyAccessErrors(t *testing.T) {
	for _, src := range []string{
		"var a = undefined.x;",
		"var a = null[0];",
		"undefined.x = 1;",
		"var n = null; n.k = 2;",
	} {
		if _, err := tryRun(src); err == nil {
			t.Errorf("%q should fail", src)
		}
	}
}

func TestDelete(t *testing.T) {
	sc := run(t, `
var a = 1;
var r1 = delete a;
var r2 = typeof a;
var r3 = delete 5;
`)
	if !global(t, sc, "r1").Bool() {
		t.Error("delete of a binding should yield true")
	}
	wantStr(t, sc, "r2", "undefined")
	if global(t, sc, "r3").Bool() {
		t.Error("delete of a non-reference should yield false")
	}
}

func TestTypeofAndVoid(t *testing.T) {
	sc := run(t, `
var a = typeof undefined;
var b = typeof null;
var c = typeof 1;
var d = typeof "s";
var e = typeof true;
var f = typeof false;
function g() { }
var h = typeof g;
var o = {};
var i = typeof o;
var v = void 7;
`)
	wantStr(t, sc, "a", "undefined")
	wantStr(t, sc, "b", "object")
	wantStr(t, sc, "c", "number")
	wantStr(t, sc, "d", "string")
	// The boolean quirk: typeof reports the value, not "boolean".
	wantStr(t, sc, "e", "true")
	wantStr(t, sc, "f", "false")
	wantStr(t, sc, "h", "function")
	wantStr(t, sc, "i", "object")
	// void yields its operand.
	wantNum(t, sc, "v", 7)
}

func TestUnboundIdentifier(t *testing.T) {
	sc := run(t, `var t = typeof nothing;`)
	wantStr(t, sc, "t", "undefined")
}

func TestGroupExpression(t *testing.T) {
	sc := run(t, "var a; for (a = 1, b = 2; 0;) ;")
	wantNum(t, sc, "a", 1)
	wantNum(t, sc, "b", 2)
}

func TestWith(t *testing.T) {
	// The target is evaluated and discarded; the body runs in its
	// own scope with no chaining.
	sc := run(t, `
var o = {"x": 1};
var r = 0;
with (o) { r = typeof x; }
`)
	wantStr(t, sc, "r", "undefined")
}

func TestTryThrowParseButDoNotRun(t *testing.T) {
	sc := run(t, `
var a = 1;
try { a = 2; } catch (e) { a = 3; }
throw a;
var b = a;
`)
	// Neither the try body nor the throw executes.
	wantNum(t, sc, "a", 1)
	wantNum(t, sc, "b", 1)
}

func TestRegexLiteralEvaluation(t *testing.T) {
	// Regex literals parse but evaluate to nothing useful; in
	// particular they must not disturb surrounding statements.
	sc := run(t, `var re = /abc/; var a = 1;`)
	wantNum(t, sc, "a", 1)
}

func TestTopLevelSignalsAreFatal(t *testing.T) {
	for _, src := range []string{
		"return 1;",
		"break;",
		"continue;",
		"{ break; }",
	} {
		_, err := tryRun(src)
		if err == nil {
			t.Errorf("%q should fail", src)
			continue
		}
		if !strings.Contains(err.Error(), "signal") {
			t.Errorf("%q error = %v, want a control-signal error", src, err)
		}
	}
}

func TestNormalSignalInGroupTolerated(t *testing.T) {
	// A regex literal evaluates to the normal signal; inside a comma
	// group it is tolerated and flows through as the group value.
	sc := run(t, `var a = 1; if (2, /x/) { a = 2; }`)
	wantNum(t, sc, "a", 1)
}

func TestEvaluationOrder(t *testing.T) {
	// The right side of an assignment evaluates before the left.
	sc := run(t, `
var log = "";
function l() { log = log + "L"; return {}; }
function r() { log = log + "R"; return 1; }
var o = {};
o["k"] = r();
l().x = r();
`)
	wantStr(t, sc, "log", "RRL")
}

func TestVarLaw(t *testing.T) {
	// var x = E leaves x bound to the value of E.
	sc := run(t, `var x = 1 + 2 * 3;`)
	wantNum(t, sc, "x", 7)
}

func TestNumberLiteralBases(t *testing.T) {
	sc := run(t, `
var h = 0x10;
var b = 0b101;
var o = 0o17;
var z = 0755;
var e = 1e3;
var f = 2.5;
`)
	wantNum(t, sc, "h", 16)
	wantNum(t, sc, "b", 5)
	wantNum(t, sc, "o", 15)
	wantNum(t, sc, "z", 493)
	wantNum(t, sc, "e", 1000)
	wantNum(t, sc, "f", 2.5)
}

func TestBlockScoping(t *testing.T) {
	sc := run(t, `
var a = 1;
{
	var b = 2;
	a = a + b;
}
var t = typeof b;
`)
	wantNum(t, sc, "a", 3)
	// b was declared in the block scope, not globally.
	wantStr(t, sc, "t", "undefined")
}

func TestNestedFunctionScopes(t *testing.T) {
	sc := run(t, `
var a = 1;
function outer() {
	var a = 2;
	function inner() { return a; }
	return inner();
}
var r = outer();
`)
	wantNum(t, sc, "r", 2)
}

func TestTraceOutput(t *testing.T) {
	prog, err := parser.Parse(`var a = 1; b = 2; var o = {"k": 3};`)
	if err != nil {
		t.Fatal(err)
	}
	info := semantic.Resolve(prog)

	var sb strings.Builder
	v := vm.New(info, &sb)
	if err := v.Run(prog); err != nil {
		t.Fatal(err)
	}

	out := sb.String()
	for _, want := range []string{
		"Execute a program\n",
		"var a = 1.000000\n",
		"assign b = 2.000000\n",
		"set k = 3.000000\n",
		"Execution finished\n",
		"var: a == 1.000000\n",
		"var: b == 2.000000\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("trace missing %q in:\n%s", want, out)
		}
	}
}

func TestPreboundGlobals(t *testing.T) {
	prog, err := parser.Parse(`var r = mode + "!";`)
	if err != nil {
		t.Fatal(err)
	}
	info := semantic.Resolve(prog)
	v := vm.New(info, nil)
	v.SetVar("mode", "fast")
	if err := v.Run(prog); err != nil {
		t.Fatal(err)
	}

	r, _ := info.Global().Get("r")
	if r.ToString() != "fast!" {
		t.Errorf("r = %q, want %q", r.ToString(), "fast!")
	}
}

func TestUndefinedBuiltin(t *testing.T) {
	sc := run(t, `var t = typeof undefined; var same = undefined === undefined;`)
	wantStr(t, sc, "t", "undefined")
	if !global(t, sc, "same").Bool() {
		t.Error("undefined should be a singleton equal to itself")
	}
}

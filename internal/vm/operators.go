package vm

import (
	"fmt"

	"github.com/kolkov/ujs/internal/ast"
	"github.com/kolkov/ujs/internal/types"
)

// -----------------------------------------------------------------------------
// Unary operators
// -----------------------------------------------------------------------------

func (vm *VM) evalUnary(n *ast.UnaryExpr) (*types.Value, error) {
	if !n.Post && n.Op == "delete" {
		return vm.evalDelete(n)
	}

	v, err := vm.eval(n.Expr)
	if err != nil {
		return nil, err
	}

	if n.Post {
		switch n.Op {
		case "++":
			if v.IsNumber() {
				ret := types.Num(v.Num())
				v.SetNum(v.Num() + 1)
				return ret, nil
			}
			return types.NaN, nil
		case "--":
			if v.IsNumber() {
				ret := types.Num(v.Num())
				v.SetNum(v.Num() - 1)
				return ret, nil
			}
			return types.NaN, nil
		}
		return nil, &ExecError{Pos: n.Pos(), Message: "can not execute unary-expression"}
	}

	switch n.Op {
	case "++":
		if v.IsNumber() {
			v.SetNum(v.Num() + 1)
			return v, nil
		}
		return types.NaN, nil
	case "--":
		if v.IsNumber() {
			v.SetNum(v.Num() - 1)
			return v, nil
		}
		return types.NaN, nil
	case "+":
		return v, nil
	case "-":
		if v.IsNumber() {
			return types.Num(-v.Num()), nil
		}
		return types.NaN, nil
	case "~":
		return rev(v), nil
	case "!":
		return types.Bool(!v.ToBool()), nil
	case "void":
		// Yields the operand, not undefined.
		return v, nil
	case "typeof":
		return types.Str(v.TypeOf()), nil
	}

	return nil, &ExecError{Pos: n.Pos(), Message: "can not execute unary-expression"}
}

// evalDelete removes a binding or a property. Any other operand
// yields false.
func (vm *VM) evalDelete(n *ast.UnaryExpr) (*types.Value, error) {
	switch target := n.Expr.(type) {
	case *ast.Ident:
		vm.scopeOf(target).Delete(target.Name)
		return types.Bool(true), nil

	case *ast.IndexExpr:
		attr, err := vm.eval(target.Attr)
		if err != nil {
			return nil, err
		}
		base, err := vm.eval(target.Base)
		if err != nil {
			return nil, err
		}
		base.DelAttr(attr.ToString())
		return types.Bool(true), nil

	case *ast.MemberExpr:
		base, err := vm.eval(target.Base)
		if err != nil {
			return nil, err
		}
		base.DelAttr(target.Attr.Name)
		return types.Bool(true), nil

	default:
		return types.Bool(false), nil
	}
}

// -----------------------------------------------------------------------------
// Binary operators
// -----------------------------------------------------------------------------

// evalBinary evaluates a binary expression. The logical operators
// short-circuit and coerce to boolean; for everything else the right
// side is evaluated before the left.
func (vm *VM) evalBinary(n *ast.BinaryExpr) (*types.Value, error) {
	switch n.Op {
	case "&&":
		left, err := vm.eval(n.Left)
		if err != nil {
			return nil, err
		}
		if !left.ToBool() {
			return types.Bool(false), nil
		}
		right, err := vm.eval(n.Right)
		if err != nil {
			return nil, err
		}
		return types.Bool(right.ToBool()), nil

	case "||":
		left, err := vm.eval(n.Left)
		if err != nil {
			return nil, err
		}
		if left.ToBool() {
			return types.Bool(true), nil
		}
		right, err := vm.eval(n.Right)
		if err != nil {
			return nil, err
		}
		return types.Bool(right.ToBool()), nil
	}

	rval, err := vm.eval(n.Right)
	if err != nil {
		return nil, err
	}

	if n.Op == "=" {
		return vm.assign(n.Left, rval)
	}
	if n.Op == "~=" {
		// Assigns the complement of the right side, ignoring the left.
		return vm.assign(n.Left, rev(rval))
	}

	lval, err := vm.eval(n.Left)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "+=":
		return vm.assign(n.Left, plus(lval, rval))
	case "-=":
		return vm.assign(n.Left, minus(lval, rval))
	case "*=":
		return vm.assign(n.Left, mul(lval, rval))
	case "/=":
		return vm.assign(n.Left, div(lval, rval))
	case "%=":
		return vm.assign(n.Left, mod(lval, rval))
	case "&=":
		return vm.assign(n.Left, band(lval, rval))
	case "|=":
		return vm.assign(n.Left, bor(lval, rval))
	case "^=":
		return vm.assign(n.Left, bxor(lval, rval))
	case "<<=":
		return vm.assign(n.Left, lshift(lval, rval))
	case ">>=":
		return vm.assign(n.Left, rshift(lval, rval))

	case "+":
		return plus(lval, rval), nil
	case "-":
		return minus(lval, rval), nil
	case "*":
		return mul(lval, rval), nil
	case "/":
		return div(lval, rval), nil
	case "%":
		return mod(lval, rval), nil
	case "&":
		return band(lval, rval), nil
	case "|":
		return bor(lval, rval), nil
	case "^":
		return bxor(lval, rval), nil
	case "<<":
		return lshift(lval, rval), nil
	case ">>":
		return rshift(lval, rval), nil

	case "<":
		return compare(lval, rval, func(c int) bool { return c < 0 }), nil
	case "<=":
		return compare(lval, rval, func(c int) bool { return c <= 0 }), nil
	case ">":
		return compare(lval, rval, func(c int) bool { return c > 0 }), nil
	case ">=":
		return compare(lval, rval, func(c int) bool { return c >= 0 }), nil
	case "==":
		return eq(lval, rval), nil
	case "!=":
		return types.Bool(!eq(lval, rval).Bool()), nil
	case "===":
		return teq(lval, rval), nil
	case "!==":
		return types.Bool(!teq(lval, rval).Bool()), nil
	}

	return nil, &ExecError{Pos: n.Pos(), Message: fmt.Sprintf("can not execute binary-expression [%s]", n.Op)}
}

// assign writes a value through an assignment target. An identifier
// overwrites its nearest binding, or creates a global one when the
// name is unbound anywhere up the chain.
func (vm *VM) assign(left ast.Expr, v *types.Value) (*types.Value, error) {
	switch target := left.(type) {
	case *ast.Ident:
		sc := vm.scopeOf(target)
		if _, ok := sc.Get(target.Name); ok {
			sc.Set(target.Name, v)
		} else {
			vm.global.Declare(target.Name, v)
		}
		vm.tracef("assign %s = %s\n", target.Name, v.ToString())
		return v, nil

	case *ast.IndexExpr:
		attr, err := vm.eval(target.Attr)
		if err != nil {
			return nil, err
		}
		key := attr.ToString()
		base, err := vm.eval(target.Base)
		if err != nil {
			return nil, err
		}
		if err := vm.checkAttrBase(base, key, target.Pos(), "set"); err != nil {
			return nil, err
		}
		vm.setAttr(base, key, v)
		return v, nil

	case *ast.MemberExpr:
		key := target.Attr.Name
		base, err := vm.eval(target.Base)
		if err != nil {
			return nil, err
		}
		if err := vm.checkAttrBase(base, key, target.Pos(), "set"); err != nil {
			return nil, err
		}
		vm.setAttr(base, key, v)
		return v, nil

	default:
		return nil, &ExecError{Pos: left.Pos(), Message: "invalid left value in assignment"}
	}
}

// -----------------------------------------------------------------------------
// Coercion helpers
// -----------------------------------------------------------------------------

// bothNums reports whether both operands are numbers and neither is
// NaN.
func bothNums(l, r *types.Value) bool {
	return l.IsNumber() && r.IsNumber()
}

// plus adds two numbers, or concatenates the string projections when
// either operand is not a number. NaN is contagious.
func plus(l, r *types.Value) *types.Value {
	if l.Kind() == types.KindNaN || r.Kind() == types.KindNaN {
		return types.NaN
	}
	if bothNums(l, r) {
		return types.Num(l.Num() + r.Num())
	}
	return types.Str(l.ToString() + r.ToString())
}

func minus(l, r *types.Value) *types.Value {
	if bothNums(l, r) {
		return types.Num(l.Num() - r.Num())
	}
	return types.NaN
}

func mul(l, r *types.Value) *types.Value {
	if bothNums(l, r) {
		return types.Num(l.Num() * r.Num())
	}
	return types.NaN
}

func div(l, r *types.Value) *types.Value {
	if bothNums(l, r) {
		return types.Num(l.Num() / r.Num())
	}
	return types.NaN
}

// mod is integer modulo over the 64-bit truncations. A zero divisor
// yields NaN.
func mod(l, r *types.Value) *types.Value {
	if bothNums(l, r) {
		ri := int64(r.Num())
		if ri == 0 {
			return types.NaN
		}
		return types.Num(float64(int64(l.Num()) % ri))
	}
	return types.NaN
}

func band(l, r *types.Value) *types.Value {
	if bothNums(l, r) {
		return types.Num(float64(int64(l.Num()) & int64(r.Num())))
	}
	return types.NaN
}

func bor(l, r *types.Value) *types.Value {
	if bothNums(l, r) {
		return types.Num(float64(int64(l.Num()) | int64(r.Num())))
	}
	return types.NaN
}

func bxor(l, r *types.Value) *types.Value {
	if bothNums(l, r) {
		return types.Num(float64(int64(l.Num()) ^ int64(r.Num())))
	}
	return types.NaN
}

func lshift(l, r *types.Value) *types.Value {
	if bothNums(l, r) {
		return types.Num(float64(int64(l.Num()) << (uint64(int64(r.Num())) & 63)))
	}
	return types.NaN
}

func rshift(l, r *types.Value) *types.Value {
	if bothNums(l, r) {
		return types.Num(float64(int64(l.Num()) >> (uint64(int64(r.Num())) & 63)))
	}
	return types.NaN
}

// rev complements the 64-bit truncation of a number; anything else
// yields NaN.
func rev(v *types.Value) *types.Value {
	if v.IsNumber() {
		return types.Num(float64(^int64(v.Num())))
	}
	return types.NaN
}

// compare orders two values numerically when both are numbers, and
// lexicographically over the string projections otherwise.
func compare(l, r *types.Value, pred func(int) bool) *types.Value {
	var c int
	if bothNums(l, r) {
		switch {
		case l.Num() < r.Num():
			c = -1
		case l.Num() > r.Num():
			c = 1
		}
	} else {
		ls, rs := l.ToString(), r.ToString()
		switch {
		case ls < rs:
			c = -1
		case ls > rs:
			c = 1
		}
	}
	return types.Bool(pred(c))
}

// eq is loose equality: numeric when both operands are numbers,
// string projection otherwise.
func eq(l, r *types.Value) *types.Value {
	if bothNums(l, r) {
		return types.Bool(l.Num() == r.Num())
	}
	return types.Bool(l.ToString() == r.ToString())
}

// teq is strict equality: the kinds must match, then compares as eq.
func teq(l, r *types.Value) *types.Value {
	if l.Kind() != r.Kind() {
		return types.Bool(false)
	}
	return eq(l, r)
}

// Package vm provides the tree-walking evaluator for ujs.
//
// Every evaluator arm returns a value; non-local control flow (break,
// continue, return) travels as signal values that each caller must
// consume or propagate. Host errors are reserved for genuine
// execution failures.
package vm

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/kolkov/ujs/internal/ast"
	"github.com/kolkov/ujs/internal/semantic"
	"github.com/kolkov/ujs/internal/token"
	"github.com/kolkov/ujs/internal/types"
)

// ExecError represents an error during program execution.
type ExecError struct {
	Pos     token.Position
	Message string
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s at %s", e.Message, e.Pos)
	}
	return e.Message
}

// VM executes a resolved program against its scope tree. The scope
// tree lives in the semantic Info and persists across runs, so
// repeated execution accumulates state.
type VM struct {
	global *types.Scope
	info   *semantic.Info
	trace  io.Writer
}

// New creates a VM for the given scope tree. Trace output (variable
// writes, property sets, progress lines) goes to trace; nil silences
// it.
func New(info *semantic.Info, trace io.Writer) *VM {
	return &VM{
		global: info.Global(),
		info:   info,
		trace:  trace,
	}
}

// SetVar pre-binds a global string variable.
func (vm *VM) SetVar(name, value string) {
	vm.global.Declare(name, types.Str(value))
}

// Run executes a program. Signals reaching the top level are fatal
// unless normal.
func (vm *VM) Run(prog *ast.Program) error {
	vm.tracef("Execute a program\n")

	vm.loadBuiltin()

	for _, stmt := range prog.Stmts {
		v, err := vm.eval(stmt)
		if err != nil {
			return err
		}
		if v.IsSignal() && v.Signal() != types.SigNormal {
			return vm.unexpectedSignal(v)
		}
	}

	vm.tracef("Execution finished\n")

	names := vm.global.Names()
	sort.Strings(names)
	for _, name := range names {
		v, _ := vm.global.Get(name)
		vm.tracef("var: %s == %s\n", name, v.ToString())
	}

	return nil
}

// loadBuiltin installs the built-in environment.
func (vm *VM) loadBuiltin() {
	vm.global.Declare("undefined", types.Undefined)
}

func (vm *VM) tracef(format string, args ...any) {
	if vm.trace != nil {
		fmt.Fprintf(vm.trace, format, args...)
	}
}

func (vm *VM) scopeOf(n ast.Node) *types.Scope {
	return vm.info.ScopeOf(n)
}

func (vm *VM) unexpectedSignal(v *types.Value) *ExecError {
	return &ExecError{
		Pos:     v.SignalPos(),
		Message: "unexpected control signal",
	}
}

// setAttr sets a property and traces the write.
func (vm *VM) setAttr(base *types.Value, key string, v *types.Value) {
	vm.tracef("set %s = %s\n", key, v.ToString())
	base.SetAttr(key, v)
}

// eval dispatches a node to its evaluator arm. Nodes with no runtime
// behavior (empty statements, try, throw, regex literals) yield the
// normal signal.
func (vm *VM) eval(node ast.Node) (*types.Value, error) {
	switch n := node.(type) {
	case *ast.ExprStmt:
		return vm.eval(n.Expr)
	case *ast.VarStmt:
		return vm.evalVar(n)
	case *ast.BlockStmt:
		return vm.evalBlock(n)
	case *ast.IfStmt:
		return vm.evalIf(n)
	case *ast.SwitchStmt:
		return vm.evalSwitch(n)
	case *ast.WhileStmt:
		return vm.evalWhile(n)
	case *ast.DoWhileStmt:
		return vm.evalDoWhile(n)
	case *ast.ForStmt:
		return vm.evalFor(n)
	case *ast.ForInStmt:
		return vm.evalForIn(n)
	case *ast.ReturnStmt:
		return vm.evalReturn(n)
	case *ast.BreakStmt:
		return types.BreakSignal(n.Pos()), nil
	case *ast.ContinueStmt:
		return types.ContinueSignal(n.Pos()), nil
	case *ast.WithStmt:
		return vm.evalWith(n)

	case *ast.Ident:
		if v, ok := vm.scopeOf(n).Get(n.Name); ok {
			return v, nil
		}
		return types.Undefined, nil
	case *ast.KeywordExpr:
		if v, ok := vm.scopeOf(n).Get(n.Name); ok {
			return v, nil
		}
		return types.Undefined, nil
	case *ast.BoolLit:
		return types.Bool(n.Value), nil
	case *ast.NumLit:
		return types.Num(n.Value), nil
	case *ast.StrLit:
		return types.Str(n.Value), nil
	case *ast.NullLit:
		return types.Null, nil
	case *ast.FuncLit:
		return vm.evalFunc(n)
	case *ast.GroupExpr:
		return vm.evalGroup(n)
	case *ast.UnaryExpr:
		return vm.evalUnary(n)
	case *ast.BinaryExpr:
		return vm.evalBinary(n)
	case *ast.TernaryExpr:
		return vm.evalTernary(n)
	case *ast.CallExpr:
		return vm.invoke(n, false)
	case *ast.NewExpr:
		return vm.invoke(n.Call, true)
	case *ast.IndexExpr:
		return vm.evalIndex(n)
	case *ast.MemberExpr:
		return vm.evalMember(n)
	case *ast.ArrayLit:
		return vm.evalArray(n)
	case *ast.ObjectLit:
		return vm.evalObject(n)

	default:
		// EmptyStmt, TryStmt, ThrowStmt, RegexLit, stray CaseClause
		return types.Normal, nil
	}
}

// -----------------------------------------------------------------------------
// Statements
// -----------------------------------------------------------------------------

// evalVar writes each declaration into the scope attached to the var
// statement, unconditionally.
func (vm *VM) evalVar(n *ast.VarStmt) (*types.Value, error) {
	ret := types.Undefined
	for _, d := range n.Decls {
		var err error
		if d.Init != nil {
			ret, err = vm.eval(d.Init)
			if err != nil {
				return nil, err
			}
		} else {
			ret = types.Undefined
		}
		vm.scopeOf(d).Declare(d.Name.Name, ret)
		vm.tracef("var %s = %s\n", d.Name.Name, ret.ToString())
	}
	return ret, nil
}

func (vm *VM) evalBlock(n *ast.BlockStmt) (*types.Value, error) {
	for _, stmt := range n.Stmts {
		v, err := vm.eval(stmt)
		if err != nil {
			return nil, err
		}
		if v.IsSignal() && v.Signal() != types.SigNormal {
			return v, nil
		}
	}
	return types.Normal, nil
}

func (vm *VM) evalIf(n *ast.IfStmt) (*types.Value, error) {
	cond, err := vm.eval(n.Cond)
	if err != nil {
		return nil, err
	}

	var branch ast.Stmt
	if cond.ToBool() {
		branch = n.Then
	} else {
		branch = n.Else
	}
	if branch == nil {
		return types.Normal, nil
	}

	v, err := vm.eval(branch)
	if err != nil {
		return nil, err
	}
	if v.IsSignal() {
		return v, nil
	}
	return types.Normal, nil
}

// evalSwitch is a state machine over the interleaved case markers and
// statements: a matching case (or default) switches to executing, a
// non-matching one switches back to skipping, so execution falls
// through until a break.
func (vm *VM) evalSwitch(n *ast.SwitchStmt) (*types.Value, error) {
	head, err := vm.eval(n.Head)
	if err != nil {
		return nil, err
	}

	executing := false
	for _, stmt := range n.Body {
		if c, ok := stmt.(*ast.CaseClause); ok {
			if c.Expr == nil {
				executing = true
				continue
			}
			v, err := vm.eval(c.Expr)
			if err != nil {
				return nil, err
			}
			executing = eq(v, head).Bool()
			continue
		}

		if !executing {
			continue
		}
		v, err := vm.eval(stmt)
		if err != nil {
			return nil, err
		}
		if v.IsSignal() && v.Signal() != types.SigNormal {
			if v.Signal() == types.SigBreak {
				return types.Normal, nil
			}
			return v, nil
		}
	}

	return types.Normal, nil
}

func (vm *VM) evalWhile(n *ast.WhileStmt) (*types.Value, error) {
	for {
		cond, err := vm.eval(n.Cond)
		if err != nil {
			return nil, err
		}
		if !cond.ToBool() {
			return types.Normal, nil
		}

		stop, v, err := vm.loopStep(n.Body)
		if err != nil || stop {
			return v, err
		}
	}
}

func (vm *VM) evalDoWhile(n *ast.DoWhileStmt) (*types.Value, error) {
	for {
		stop, v, err := vm.loopStep(n.Body)
		if err != nil || stop {
			return v, err
		}

		cond, err := vm.eval(n.Cond)
		if err != nil {
			return nil, err
		}
		if !cond.ToBool() {
			return types.Normal, nil
		}
	}
}

func (vm *VM) evalFor(n *ast.ForStmt) (*types.Value, error) {
	if n.Init != nil {
		if _, err := vm.eval(n.Init); err != nil {
			return nil, err
		}
	}

	for {
		// An absent condition is truthy.
		if n.Cond != nil {
			cond, err := vm.eval(n.Cond)
			if err != nil {
				return nil, err
			}
			if !cond.ToBool() {
				return types.Normal, nil
			}
		}

		stop, v, err := vm.loopStep(n.Body)
		if err != nil || stop {
			return v, err
		}

		if n.Post != nil {
			if _, err := vm.eval(n.Post); err != nil {
				return nil, err
			}
		}
	}
}

func (vm *VM) evalForIn(n *ast.ForInStmt) (*types.Value, error) {
	if _, err := vm.eval(n.Key); err != nil {
		return nil, err
	}

	var name string
	switch key := n.Key.(type) {
	case *ast.VarStmt:
		name = key.Decls[0].Name.Name
	case *ast.ExprStmt:
		id, ok := key.Expr.(*ast.Ident)
		if !ok {
			return nil, &ExecError{Pos: n.Key.Pos(), Message: "unexpected token in for-loop"}
		}
		name = id.Name
	default:
		return nil, &ExecError{Pos: n.Key.Pos(), Message: "unexpected token in for-loop"}
	}

	target, err := vm.eval(n.Target)
	if err != nil {
		return nil, err
	}
	if target.IsSignal() {
		return nil, &ExecError{Pos: n.Target.Pos(), Message: "illegal for-loop"}
	}

	sc := vm.scopeOf(n)

	if target.Kind() == types.KindString {
		s := target.ToString()
		for i := 0; i < len(s); i++ {
			sc.Set(name, types.Str(string(s[i])))
			stop, v, err := vm.loopStep(n.Body)
			if err != nil {
				return nil, err
			}
			if stop {
				return v, nil
			}
		}
		return types.Normal, nil
	}

	for _, key := range target.Keys() {
		sc.Set(name, types.Str(key))
		stop, v, err := vm.loopStep(n.Body)
		if err != nil {
			return nil, err
		}
		if stop {
			return v, nil
		}
	}
	return types.Normal, nil
}

// loopStep executes one loop body iteration and folds the signal
// protocol: break ends the loop normally, continue ends the
// iteration, return propagates.
func (vm *VM) loopStep(body ast.Stmt) (stop bool, result *types.Value, err error) {
	if body == nil {
		return false, types.Normal, nil
	}
	v, err := vm.eval(body)
	if err != nil {
		return true, nil, err
	}
	if v.IsSignal() {
		switch v.Signal() {
		case types.SigReturn:
			return true, v, nil
		case types.SigBreak:
			return true, types.Normal, nil
		}
	}
	return false, types.Normal, nil
}

func (vm *VM) evalReturn(n *ast.ReturnStmt) (*types.Value, error) {
	if n.Value == nil {
		return types.ReturnSignal(types.Null), nil
	}
	v, err := vm.eval(n.Value)
	if err != nil {
		return nil, err
	}
	return types.ReturnSignal(v), nil
}

// evalWith evaluates and discards the object expression; the target
// is not chained into the lookup scope.
func (vm *VM) evalWith(n *ast.WithStmt) (*types.Value, error) {
	if _, err := vm.eval(n.Expr); err != nil {
		return nil, err
	}
	return vm.eval(n.Body)
}

// -----------------------------------------------------------------------------
// Expressions
// -----------------------------------------------------------------------------

// evalFunc produces a function value sharing the function's
// parse-time scope. A named function also binds its name in the
// enclosing scope.
func (vm *VM) evalFunc(n *ast.FuncLit) (*types.Value, error) {
	fv := types.Function(n, vm.scopeOf(n))
	if n.Name != nil {
		vm.scopeOf(n.Name).Declare(n.Name.Name, fv)
	}
	return fv, nil
}

func (vm *VM) evalGroup(n *ast.GroupExpr) (*types.Value, error) {
	var ret *types.Value
	for _, e := range n.Exprs {
		var err error
		ret, err = vm.eval(e)
		if err != nil {
			return nil, err
		}
		if ret.IsSignal() && ret.Signal() != types.SigNormal {
			return nil, vm.unexpectedSignal(ret)
		}
	}
	return ret, nil
}

func (vm *VM) evalTernary(n *ast.TernaryExpr) (*types.Value, error) {
	cond, err := vm.eval(n.Cond)
	if err != nil {
		return nil, err
	}
	if cond.ToBool() {
		return vm.eval(n.Then)
	}
	return vm.eval(n.Else)
}

func (vm *VM) evalIndex(n *ast.IndexExpr) (*types.Value, error) {
	attr, err := vm.eval(n.Attr)
	if err != nil {
		return nil, err
	}
	key := attr.ToString()

	base, err := vm.eval(n.Base)
	if err != nil {
		return nil, err
	}
	if err := vm.checkAttrBase(base, key, n.Pos(), "get"); err != nil {
		return nil, err
	}
	return base.GetAttr(key), nil
}

func (vm *VM) evalMember(n *ast.MemberExpr) (*types.Value, error) {
	key := n.Attr.Name

	base, err := vm.eval(n.Base)
	if err != nil {
		return nil, err
	}
	if err := vm.checkAttrBase(base, key, n.Pos(), "get"); err != nil {
		return nil, err
	}
	return base.GetAttr(key), nil
}

// checkAttrBase rejects property access through undefined or null.
func (vm *VM) checkAttrBase(base *types.Value, key string, pos token.Position, verb string) error {
	if base.Kind() == types.KindUndefined || base.Kind() == types.KindNull {
		return &ExecError{
			Pos:     pos,
			Message: fmt.Sprintf("can not %s attr [%s] for %s", verb, key, base.ToString()),
		}
	}
	return nil
}

func (vm *VM) evalArray(n *ast.ArrayLit) (*types.Value, error) {
	obj := types.Object()
	for i, e := range n.Elems {
		v, err := vm.eval(e)
		if err != nil {
			return nil, err
		}
		vm.setAttr(obj, strconv.Itoa(i), v)
	}
	return obj, nil
}

func (vm *VM) evalObject(n *ast.ObjectLit) (*types.Value, error) {
	obj := types.Object()
	for _, f := range n.Fields {
		key, err := vm.eval(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := vm.eval(f.Value)
		if err != nil {
			return nil, err
		}
		vm.setAttr(obj, key.ToString(), v)
	}
	return obj, nil
}

// -----------------------------------------------------------------------------
// Invocation
// -----------------------------------------------------------------------------

// invoke calls a function value. Arguments are evaluated left to
// right; formals are bound by position in the function's own scope,
// which is shared by every call of the same function. A constructor
// call yields the fresh this object instead of the return payload.
func (vm *VM) invoke(call *ast.CallExpr, asCtor bool) (*types.Value, error) {
	fv, err := vm.eval(call.Fn)
	if err != nil {
		return nil, err
	}
	if fv.Kind() != types.KindFunction {
		return nil, &ExecError{Pos: call.Pos(), Message: "only function can be invoked"}
	}

	fn := fv.Fn()
	env := fv.Env()

	args := make([]*types.Value, len(call.Args))
	for i, a := range call.Args {
		if args[i], err = vm.eval(a); err != nil {
			return nil, err
		}
	}

	arguments := types.Object()
	me := types.Object()

	for i, param := range fn.Params {
		if i >= len(args) {
			break
		}
		env.Declare(param.Name, args[i])
		vm.setAttr(arguments, strconv.Itoa(i), args[i])
	}

	env.Declare("arguments", arguments)
	env.Declare("this", me)

	for _, stmt := range fn.Body {
		ret, err := vm.eval(stmt)
		if err != nil {
			return nil, err
		}
		if !ret.IsSignal() {
			continue
		}
		switch ret.Signal() {
		case types.SigNormal:
			continue
		case types.SigReturn:
			if asCtor {
				return me, nil
			}
			return ret.ReturnValue(), nil
		default:
			return nil, vm.unexpectedSignal(ret)
		}
	}

	if asCtor {
		return me, nil
	}
	return types.Null, nil
}

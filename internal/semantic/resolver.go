package semantic

import (
	"github.com/kolkov/ujs/internal/ast"
	"github.com/kolkov/ujs/internal/types"
)

// Info holds the scope tree produced by Resolve. Scopes are owned
// here, outside the AST, and outlive it for the duration of
// execution. Each function literal gets one scope that every call of
// it shares, and the same Info is reused across executions of the
// same program, so bindings persist from one run to the next.
type Info struct {
	global *types.Scope
	scopes map[ast.Node]*types.Scope
}

// Global returns the program's root scope.
func (in *Info) Global() *types.Scope {
	return in.global
}

// ScopeOf returns the scope associated with the node. Scope-creating
// nodes report their own inner scope; every other node reports the
// innermost enclosing one.
func (in *Info) ScopeOf(n ast.Node) *types.Scope {
	return in.scopes[n]
}

// Resolve builds the scope tree for a parsed program.
func Resolve(prog *ast.Program) *Info {
	in := &Info{
		global: types.NewScope(nil),
		scopes: make(map[ast.Node]*types.Scope),
	}
	r := &resolver{info: in}
	r.attach(prog, in.global)
	r.stmts(prog.Stmts, in.global)
	return in
}

type resolver struct {
	info *Info
}

func (r *resolver) attach(n ast.Node, sc *types.Scope) {
	r.info.scopes[n] = sc
}

func (r *resolver) stmts(stmts []ast.Stmt, sc *types.Scope) {
	for _, s := range stmts {
		r.stmt(s, sc)
	}
}

func (r *resolver) stmt(s ast.Stmt, sc *types.Scope) {
	if s == nil {
		return
	}

	switch n := s.(type) {
	case *ast.ExprStmt:
		r.attach(n, sc)
		r.expr(n.Expr, sc)

	case *ast.EmptyStmt:
		r.attach(n, sc)

	case *ast.VarStmt:
		r.attach(n, sc)
		for _, d := range n.Decls {
			r.attach(d, sc)
			r.attach(d.Name, sc)
			r.expr(d.Init, sc)
		}

	case *ast.BlockStmt:
		inner := types.NewScope(sc)
		r.attach(n, inner)
		r.stmts(n.Stmts, inner)

	case *ast.IfStmt:
		inner := types.NewScope(sc)
		r.attach(n, inner)
		r.expr(n.Cond, inner)
		r.stmt(n.Then, inner)
		r.stmt(n.Else, inner)

	case *ast.SwitchStmt:
		inner := types.NewScope(sc)
		r.attach(n, inner)
		r.expr(n.Head, inner)
		r.stmts(n.Body, inner)

	case *ast.CaseClause:
		r.attach(n, sc)
		r.expr(n.Expr, sc)

	case *ast.WhileStmt:
		inner := types.NewScope(sc)
		r.attach(n, inner)
		r.expr(n.Cond, inner)
		r.stmt(n.Body, inner)

	case *ast.DoWhileStmt:
		// do/while runs in the enclosing scope; only its body block
		// introduces one.
		r.attach(n, sc)
		r.stmt(n.Body, sc)
		r.stmt(n.Cond, sc)

	case *ast.ForStmt:
		inner := types.NewScope(sc)
		r.attach(n, inner)
		r.stmt(n.Init, inner)
		r.expr(n.Cond, inner)
		r.expr(n.Post, inner)
		r.stmt(n.Body, inner)

	case *ast.ForInStmt:
		inner := types.NewScope(sc)
		r.attach(n, inner)
		r.stmt(n.Key, inner)
		r.expr(n.Target, inner)
		r.stmt(n.Body, inner)

	case *ast.BreakStmt, *ast.ContinueStmt:
		r.attach(n, sc)

	case *ast.ReturnStmt:
		r.attach(n, sc)
		r.expr(n.Value, sc)

	case *ast.WithStmt:
		inner := types.NewScope(sc)
		r.attach(n, inner)
		r.expr(n.Expr, inner)
		r.stmt(n.Body, inner)

	case *ast.TryStmt:
		r.attach(n, sc)
		r.stmt(n.Body, sc)
		for _, c := range n.Catches {
			cs := types.NewScope(sc)
			r.expr(c.Param, cs)
			r.stmt(c.Body, cs)
		}
		if n.Finally != nil {
			r.stmt(n.Finally, sc)
		}

	case *ast.ThrowStmt:
		r.attach(n, sc)
		r.expr(n.Expr, sc)

	case *ast.FuncLit:
		r.expr(n, sc)
	}
}

func (r *resolver) expr(e ast.Expr, sc *types.Scope) {
	if e == nil {
		return
	}

	switch n := e.(type) {
	case *ast.BoolLit, *ast.NumLit, *ast.StrLit, *ast.NullLit,
		*ast.RegexLit, *ast.Ident, *ast.KeywordExpr:
		r.attach(n, sc)

	case *ast.IndexExpr:
		r.attach(n, sc)
		r.expr(n.Base, sc)
		r.expr(n.Attr, sc)

	case *ast.MemberExpr:
		r.attach(n, sc)
		r.expr(n.Base, sc)
		r.expr(n.Attr, sc)

	case *ast.UnaryExpr:
		r.attach(n, sc)
		r.expr(n.Expr, sc)

	case *ast.BinaryExpr:
		r.attach(n, sc)
		r.expr(n.Left, sc)
		r.expr(n.Right, sc)

	case *ast.TernaryExpr:
		r.attach(n, sc)
		r.expr(n.Cond, sc)
		r.expr(n.Then, sc)
		r.expr(n.Else, sc)

	case *ast.GroupExpr:
		r.attach(n, sc)
		for _, el := range n.Exprs {
			r.expr(el, sc)
		}

	case *ast.FuncLit:
		// The function's parameters and body live in its own scope;
		// the name, when present, is visible in the enclosing one.
		inner := types.NewScope(sc)
		r.attach(n, inner)
		if n.Name != nil {
			r.attach(n.Name, sc)
		}
		for _, p := range n.Params {
			r.attach(p, inner)
		}
		r.stmts(n.Body, inner)

	case *ast.CallExpr:
		r.attach(n, sc)
		r.expr(n.Fn, sc)
		for _, a := range n.Args {
			r.expr(a, sc)
		}

	case *ast.NewExpr:
		r.attach(n, sc)
		r.expr(n.Call, sc)

	case *ast.ArrayLit:
		r.attach(n, sc)
		for _, el := range n.Elems {
			r.expr(el, sc)
		}

	case *ast.ObjectLit:
		r.attach(n, sc)
		for _, f := range n.Fields {
			r.expr(f.Key, sc)
			r.expr(f.Value, sc)
		}
	}
}

package ast

import "reflect"

// Walk traverses an AST in depth-first order. For each non-nil node,
// it calls fn(node). If fn returns false, the children of that node
// are not visited.
//
// Example: count all identifiers
//
//	count := 0
//	ast.Walk(program, func(n ast.Node) bool {
//	    if _, ok := n.(*ast.Ident); ok {
//	        count++
//	    }
//	    return true
//	})
func Walk(node Node, fn func(Node) bool) {
	if node == nil || isNilNode(node) {
		return
	}
	if !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		walkStmts(n.Stmts, fn)

	case *ExprStmt:
		Walk(n.Expr, fn)
	case *EmptyStmt:
	case *VarDecl:
		Walk(n.Name, fn)
		Walk(n.Init, fn)
	case *VarStmt:
		for _, d := range n.Decls {
			Walk(d, fn)
		}
	case *BlockStmt:
		walkStmts(n.Stmts, fn)
	case *IfStmt:
		Walk(n.Cond, fn)
		Walk(n.Then, fn)
		Walk(n.Else, fn)
	case *CaseClause:
		Walk(n.Expr, fn)
	case *SwitchStmt:
		Walk(n.Head, fn)
		walkStmts(n.Body, fn)
	case *WhileStmt:
		Walk(n.Cond, fn)
		Walk(n.Body, fn)
	case *DoWhileStmt:
		Walk(n.Body, fn)
		Walk(n.Cond, fn)
	case *ForStmt:
		Walk(n.Init, fn)
		Walk(n.Cond, fn)
		Walk(n.Post, fn)
		Walk(n.Body, fn)
	case *ForInStmt:
		Walk(n.Key, fn)
		Walk(n.Target, fn)
		Walk(n.Body, fn)
	case *BreakStmt, *ContinueStmt:
	case *ReturnStmt:
		Walk(n.Value, fn)
	case *WithStmt:
		Walk(n.Expr, fn)
		Walk(n.Body, fn)
	case *TryStmt:
		Walk(n.Body, fn)
		for _, c := range n.Catches {
			Walk(c.Param, fn)
			Walk(c.Body, fn)
		}
		Walk(n.Finally, fn)
	case *ThrowStmt:
		Walk(n.Expr, fn)

	case *BoolLit, *NumLit, *StrLit, *NullLit, *RegexLit, *Ident, *KeywordExpr:
	case *IndexExpr:
		Walk(n.Base, fn)
		Walk(n.Attr, fn)
	case *MemberExpr:
		Walk(n.Base, fn)
		Walk(n.Attr, fn)
	case *UnaryExpr:
		Walk(n.Expr, fn)
	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *TernaryExpr:
		Walk(n.Cond, fn)
		Walk(n.Then, fn)
		Walk(n.Else, fn)
	case *GroupExpr:
		for _, e := range n.Exprs {
			Walk(e, fn)
		}
	case *FuncLit:
		Walk(n.Name, fn)
		for _, p := range n.Params {
			Walk(p, fn)
		}
		walkStmts(n.Body, fn)
	case *CallExpr:
		Walk(n.Fn, fn)
		for _, a := range n.Args {
			Walk(a, fn)
		}
	case *NewExpr:
		Walk(n.Call, fn)
	case *ArrayLit:
		for _, e := range n.Elems {
			Walk(e, fn)
		}
	case *ObjectLit:
		for _, f := range n.Fields {
			Walk(f.Key, fn)
			Walk(f.Value, fn)
		}
	}
}

func walkStmts(stmts []Stmt, fn func(Node) bool) {
	for _, s := range stmts {
		Walk(s, fn)
	}
}

// isNilNode reports whether a non-nil interface holds a nil pointer,
// which happens when optional children like IfStmt.Else are absent.
func isNilNode(n Node) bool {
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer provides pretty-printing for AST nodes.
// It outputs a human-readable tree representation suitable for
// debugging.
type Printer struct {
	w      io.Writer
	indent int
	err    error
}

// NewPrinter creates a new Printer that writes to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Print writes a pretty-printed representation of the node to the writer.
func (p *Printer) Print(node Node) error {
	p.printNode(node)
	return p.err
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) line(format string, args ...any) {
	p.printf("%s", strings.Repeat("    ", p.indent))
	p.printf(format, args...)
	p.printf("\n")
}

func (p *Printer) children(nodes ...Node) {
	p.indent++
	for _, n := range nodes {
		p.printNode(n)
	}
	p.indent--
}

func (p *Printer) printNode(node Node) {
	if node == nil || isNilNode(node) {
		p.line("<nil>")
		return
	}

	switch n := node.(type) {
	case *Program:
		p.line("Program")
		p.children(stmtNodes(n.Stmts)...)
	case *ExprStmt:
		p.printNode(n.Expr)
	case *EmptyStmt:
		p.line("Empty")
	case *VarStmt:
		p.line("Var")
		for _, d := range n.Decls {
			p.children(d)
		}
	case *VarDecl:
		p.line("Decl %s", n.Name.Name)
		if n.Init != nil {
			p.children(n.Init)
		}
	case *BlockStmt:
		p.line("Block")
		p.children(stmtNodes(n.Stmts)...)
	case *IfStmt:
		p.line("If")
		p.children(n.Cond, n.Then)
		if n.Else != nil {
			p.line("Else")
			p.children(n.Else)
		}
	case *SwitchStmt:
		p.line("Switch")
		p.children(n.Head)
		p.children(stmtNodes(n.Body)...)
	case *CaseClause:
		if n.Expr == nil {
			p.line("Default")
		} else {
			p.line("Case")
			p.children(n.Expr)
		}
	case *WhileStmt:
		p.line("While")
		p.children(n.Cond, n.Body)
	case *DoWhileStmt:
		p.line("DoWhile")
		p.children(n.Body, n.Cond)
	case *ForStmt:
		p.line("For")
		p.children(n.Init, exprNode(n.Cond), exprNode(n.Post), n.Body)
	case *ForInStmt:
		p.line("ForIn")
		p.children(n.Key, n.Target, n.Body)
	case *BreakStmt:
		p.line("Break")
	case *ContinueStmt:
		p.line("Continue")
	case *ReturnStmt:
		p.line("Return")
		if n.Value != nil {
			p.children(n.Value)
		}
	case *WithStmt:
		p.line("With")
		p.children(n.Expr, n.Body)
	case *TryStmt:
		p.line("Try")
		p.children(n.Body)
		for _, c := range n.Catches {
			p.line("Catch")
			p.children(c.Param, c.Body)
		}
		if n.Finally != nil {
			p.line("Finally")
			p.children(n.Finally)
		}
	case *ThrowStmt:
		p.line("Throw")
		p.children(n.Expr)

	case *BoolLit:
		p.line("Bool %v", n.Value)
	case *NumLit:
		p.line("Number %s", n.Raw)
	case *StrLit:
		p.line("String %q", n.Value)
	case *NullLit:
		p.line("Null")
	case *RegexLit:
		p.line("Regex /%s/%s", n.Pattern, n.Flags)
	case *Ident:
		p.line("Ident %s", n.Name)
	case *KeywordExpr:
		p.line("Keyword %s", n.Name)
	case *IndexExpr:
		p.line("Index")
		p.children(n.Base, n.Attr)
	case *MemberExpr:
		p.line("Member .%s", n.Attr.Name)
		p.children(n.Base)
	case *UnaryExpr:
		if n.Post {
			p.line("Unary postfix %s", n.Op)
		} else {
			p.line("Unary %s", n.Op)
		}
		p.children(n.Expr)
	case *BinaryExpr:
		p.line("Binary %s", n.Op)
		p.children(n.Left, n.Right)
	case *TernaryExpr:
		p.line("Ternary")
		p.children(n.Cond, n.Then, n.Else)
	case *GroupExpr:
		p.line("Group")
		p.children(exprNodes(n.Exprs)...)
	case *FuncLit:
		name := ""
		if n.Name != nil {
			name = " " + n.Name.Name
		}
		params := make([]string, len(n.Params))
		for i, prm := range n.Params {
			params[i] = prm.Name
		}
		p.line("Function%s (%s)", name, strings.Join(params, ", "))
		p.children(stmtNodes(n.Body)...)
	case *CallExpr:
		p.line("Call")
		p.children(n.Fn)
		p.children(exprNodes(n.Args)...)
	case *NewExpr:
		p.line("New")
		p.children(n.Call)
	case *ArrayLit:
		p.line("Array")
		p.children(exprNodes(n.Elems)...)
	case *ObjectLit:
		p.line("Object")
		for _, f := range n.Fields {
			p.children(f.Key, f.Value)
		}
	default:
		p.line("<%T>", node)
	}
}

func stmtNodes(stmts []Stmt) []Node {
	nodes := make([]Node, len(stmts))
	for i, s := range stmts {
		nodes[i] = s
	}
	return nodes
}

func exprNodes(exprs []Expr) []Node {
	nodes := make([]Node, len(exprs))
	for i, e := range exprs {
		nodes[i] = e
	}
	return nodes
}

// exprNode converts a possibly nil Expr to a Node without producing a
// non-nil interface holding a nil pointer.
func exprNode(e Expr) Node {
	if e == nil {
		return nil
	}
	return e
}

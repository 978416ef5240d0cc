package parser

import (
	"math"
	"strconv"

	"github.com/kolkov/ujs/internal/ast"
	"github.com/kolkov/ujs/internal/lexer"
	"github.com/kolkov/ujs/internal/token"
)

// priority maps operator lexemes to binding strength; higher binds
// tighter. Unary and postfix operators are handled structurally above
// level 11 and do not appear here.
var priority = map[string]int{
	// Assignment
	"=": 0, "+=": 0, "-=": 0, "*=": 0, "/=": 0, "%=": 0,
	"&=": 0, "|=": 0, "~=": 0, "^=": 0, "<<=": 0, ">>=": 0,

	// Ternary
	"?": 1,

	// Logical
	"||": 2,
	"&&": 3,

	// Bitwise
	"|": 4,
	"^": 5,
	"&": 6,

	// Equality
	"==": 7, "!=": 7, "===": 7, "!==": 7,

	// Relational
	"<": 8, "<=": 8, ">": 8, ">=": 8, "instanceof": 8, "in": 8,

	// Shift
	"<<": 9, ">>": 9,

	// Additive
	"+": 10, "-": 10,

	// Multiplicative
	"*": 11, "/": 11, "%": 11,
}

// maxBinary is the highest binary priority; levels above it are
// unary/postfix territory.
const maxBinary = 11

// Parser is a recursive descent parser for ujs programs.
type Parser struct {
	lx  *lexer.Lexer
	tok lexer.Token // Current token

	// noIn suppresses "in" as a relational operator while parsing a
	// for-loop header, so "for (k in o)" can be disambiguated.
	noIn bool
}

// Parse parses a ujs program from source code.
// It returns the AST or the first parse error encountered.
func Parse(src string) (prog *ast.Program, err error) {
	return ParseBytes([]byte(src))
}

// ParseBytes parses a ujs program from a byte slice.
func ParseBytes(src []byte) (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*ParseError); ok {
				prog, err = nil, pe
				return
			}
			panic(r)
		}
	}()

	p := &Parser{lx: lexer.New(src)}
	p.next() // Initialize first token

	return p.parseProgram(), nil
}

// ParseExpr parses a single expression (useful for testing).
func ParseExpr(src string) (expr ast.Expr, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*ParseError); ok {
				expr, err = nil, pe
				return
			}
			panic(r)
		}
	}()

	p := &Parser{lx: lexer.NewFromString(src)}
	p.next()

	return p.parseBinary(0), nil
}

// -----------------------------------------------------------------------------
// Token handling
// -----------------------------------------------------------------------------

// next advances to the next token.
func (p *Parser) next() {
	p.tok = p.lx.Scan()
	if p.tok.Type == token.ILLEGAL {
		panic(errorf(p.tok.Span.Start, "%s", p.tok.Lit))
	}
}

// is returns true if the current token has the given lexeme. String,
// number, and regex payloads never match: only keywords, operators,
// punctuators, and identifiers are compared.
func (p *Parser) is(lexeme string) bool {
	switch p.tok.Type {
	case token.STRING, token.NUMBER, token.REGEX, token.EOF:
		return false
	}
	return p.tok.Lit == lexeme
}

// isType returns true if the current token has the given type.
func (p *Parser) isType(t token.Type) bool {
	return p.tok.Type == t
}

// match consumes the current token, which must have the given lexeme.
func (p *Parser) match(lexeme string) lexer.Token {
	if !p.is(lexeme) {
		panic(errorf(p.tok.Span.Start, "expected [%s], but got %s", lexeme, p.tokenDesc()))
	}
	tok := p.tok
	p.next()
	return tok
}

// matchType consumes the current token, which must have the given type.
func (p *Parser) matchType(t token.Type) lexer.Token {
	if p.tok.Type != t {
		panic(errorf(p.tok.Span.Start, "unexpected %s", p.tokenDesc()))
	}
	tok := p.tok
	p.next()
	return tok
}

// tokenDesc returns a description of the current token for error
// messages.
func (p *Parser) tokenDesc() string {
	switch p.tok.Type {
	case token.EOF:
		return "end of file"
	case token.STRING:
		return strconv.Quote(p.tok.Lit)
	default:
		return "[" + p.tok.Lit + "]"
	}
}

// atPriority returns true if the current token is a binary operator
// of the given priority. Inside a for-loop header "in" is suppressed.
func (p *Parser) atPriority(pri int) bool {
	switch p.tok.Type {
	case token.OPERATOR, token.KEYWORD, token.QUESTION:
	default:
		return false
	}
	if p.noIn && p.tok.Lit == "in" {
		return false
	}
	got, ok := priority[p.tok.Lit]
	return ok && got == pri
}

// opteol swallows an optional trailing semicolon.
func (p *Parser) opteol() {
	if p.is(";") {
		p.match(";")
	}
}

// pos returns the start position of the current token.
func (p *Parser) pos() token.Position {
	return p.tok.Span.Start
}

// -----------------------------------------------------------------------------
// Program and statements
// -----------------------------------------------------------------------------

func (p *Parser) parseProgram() *ast.Program {
	begin := p.pos()
	stmts := p.topStatements()
	end := p.pos()
	p.matchType(token.EOF)

	return &ast.Program{
		BaseStmt: ast.MakeBaseStmt(begin, end),
		Stmts:    stmts,
	}
}

// topStatements parses statements until } or end of file. Top-level
// statement lists admit named function declarations.
func (p *Parser) topStatements() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.isType(token.EOF) && !p.is("}") {
		stmts = append(stmts, p.topStatement())
	}
	return stmts
}

func (p *Parser) topStatement() ast.Stmt {
	if p.is("function") {
		return p.namedFunction()
	}
	return p.parseStmt()
}

// namedFunction parses a function declaration. Unlike a function
// expression, the name is required.
func (p *Parser) namedFunction() *ast.FuncLit {
	begin := p.pos()

	p.match("function")
	name := p.identifier()
	p.match("(")
	params := p.parameterList()
	p.match(")")
	p.match("{")
	body := p.topStatements()
	p.match("}")

	return &ast.FuncLit{
		BaseExpr: ast.MakeBaseExpr(begin, p.pos()),
		Name:     name,
		Params:   params,
		Body:     body,
	}
}

func (p *Parser) parameterList() []*ast.Ident {
	var params []*ast.Ident
	if p.isType(token.IDENT) {
		params = append(params, p.identifier())
		for p.is(",") {
			p.match(",")
			params = append(params, p.identifier())
		}
	}
	return params
}

func (p *Parser) parseStmt() ast.Stmt {
	switch {
	case p.is(";"):
		return p.emptyStmt()
	case p.is("var"):
		stmt := p.varStmt()
		p.opteol()
		return stmt
	case p.is("{"):
		stmt := p.block()
		p.opteol()
		return stmt
	case p.is("if"):
		return p.ifStmt()
	case p.is("switch"):
		return p.switchStmt()
	case p.is("do"):
		stmt := p.doWhileStmt()
		p.opteol()
		return stmt
	case p.is("while"):
		return p.whileStmt()
	case p.is("for"):
		return p.forStmt()
	case p.is("with"):
		return p.withStmt()
	case p.is("continue"):
		begin := p.pos()
		p.match("continue")
		stmt := &ast.ContinueStmt{BaseStmt: ast.MakeBaseStmt(begin, p.pos())}
		p.opteol()
		return stmt
	case p.is("break"):
		begin := p.pos()
		p.match("break")
		stmt := &ast.BreakStmt{BaseStmt: ast.MakeBaseStmt(begin, p.pos())}
		p.opteol()
		return stmt
	case p.is("return"):
		stmt := p.returnStmt()
		p.opteol()
		return stmt
	case p.is("try"):
		return p.tryStmt()
	case p.is("throw"):
		stmt := p.throwStmt()
		p.opteol()
		return stmt
	default:
		begin := p.pos()
		expr := p.parseBinary(0)
		stmt := &ast.ExprStmt{
			BaseStmt: ast.MakeBaseStmt(begin, p.pos()),
			Expr:     expr,
		}
		p.opteol()
		return stmt
	}
}

func (p *Parser) emptyStmt() *ast.EmptyStmt {
	begin := p.pos()
	p.match(";")
	return &ast.EmptyStmt{BaseStmt: ast.MakeBaseStmt(begin, p.pos())}
}

func (p *Parser) varStmt() *ast.VarStmt {
	begin := p.pos()
	p.match("var")

	decls := []*ast.VarDecl{p.declare()}
	for p.is(",") {
		p.match(",")
		decls = append(decls, p.declare())
	}

	return &ast.VarStmt{
		BaseStmt: ast.MakeBaseStmt(begin, p.pos()),
		Decls:    decls,
	}
}

func (p *Parser) declare() *ast.VarDecl {
	begin := p.pos()
	name := p.identifier()

	var init ast.Expr
	if p.is("=") {
		p.match("=")
		init = p.parseBinary(0)
	}

	return &ast.VarDecl{
		BaseStmt: ast.MakeBaseStmt(begin, p.pos()),
		Name:     name,
		Init:     init,
	}
}

func (p *Parser) block() *ast.BlockStmt {
	begin := p.pos()
	p.match("{")

	var stmts []ast.Stmt
	for !p.is("}") {
		if p.isType(token.EOF) {
			panic(errorf(p.pos(), "expected [}], but got end of file"))
		}
		stmts = append(stmts, p.parseStmt())
	}
	p.match("}")

	return &ast.BlockStmt{
		BaseStmt: ast.MakeBaseStmt(begin, p.pos()),
		Stmts:    stmts,
	}
}

func (p *Parser) ifStmt() *ast.IfStmt {
	begin := p.pos()
	p.match("if")
	p.match("(")
	cond := p.exprGroup()
	p.match(")")
	then := p.parseStmt()

	var els ast.Stmt
	if p.is("else") {
		p.match("else")
		els = p.parseStmt()
	}

	return &ast.IfStmt{
		BaseStmt: ast.MakeBaseStmt(begin, p.pos()),
		Cond:     cond,
		Then:     then,
		Else:     els,
	}
}

func (p *Parser) switchStmt() *ast.SwitchStmt {
	begin := p.pos()
	p.match("switch")
	p.match("(")
	head := p.exprGroup()
	p.match(")")
	p.match("{")

	var body []ast.Stmt
	for !p.is("}") {
		switch {
		case p.is("case"):
			casePos := p.pos()
			p.match("case")
			expr := p.exprGroup()
			p.match(":")
			body = append(body, &ast.CaseClause{
				BaseStmt: ast.MakeBaseStmt(casePos, p.pos()),
				Expr:     expr,
			})
		case p.is("default"):
			casePos := p.pos()
			p.match("default")
			p.match(":")
			body = append(body, &ast.CaseClause{
				BaseStmt: ast.MakeBaseStmt(casePos, p.pos()),
			})
		default:
			if p.isType(token.EOF) {
				panic(errorf(p.pos(), "expected [}], but got end of file"))
			}
			body = append(body, p.parseStmt())
		}
	}
	p.match("}")

	return &ast.SwitchStmt{
		BaseStmt: ast.MakeBaseStmt(begin, p.pos()),
		Head:     head,
		Body:     body,
	}
}

func (p *Parser) doWhileStmt() *ast.DoWhileStmt {
	begin := p.pos()
	p.match("do")
	body := p.block()
	p.match("while")
	p.match("(")
	cond := p.parseStmt()
	p.match(")")

	return &ast.DoWhileStmt{
		BaseStmt: ast.MakeBaseStmt(begin, p.pos()),
		Body:     body,
		Cond:     cond,
	}
}

func (p *Parser) whileStmt() *ast.WhileStmt {
	begin := p.pos()
	p.match("while")
	p.match("(")
	cond := p.exprGroup()
	p.match(")")
	body := p.parseStmt()

	return &ast.WhileStmt{
		BaseStmt: ast.MakeBaseStmt(begin, p.pos()),
		Cond:     cond,
		Body:     body,
	}
}

// forStmt parses a three-clause for loop or a for-in loop. The header
// is ambiguous until the token after the first clause: a semicolon
// commits to three clauses, "in" commits to for-in.
func (p *Parser) forStmt() ast.Stmt {
	begin := p.pos()
	p.match("for")
	p.match("(")

	if p.is("var") {
		init := p.varStmt()
		if p.is(";") {
			p.match(";")
			return p.forLoopTail(begin, init)
		}
		in := p.tok
		p.match("in")
		if len(init.Decls) != 1 {
			panic(errorf(in.Span.Start, "unexpected token before [in]"))
		}
		return p.forInTail(begin, init)
	}

	if p.is(";") {
		p.match(";")
		return p.forLoopTail(begin, nil)
	}

	// Parse the first clause with "in" suppressed, so a for-in key
	// stops before the "in" keyword.
	initPos := p.pos()
	group := p.forBegin()
	if p.is(";") {
		p.match(";")
		init := &ast.ExprStmt{
			BaseStmt: ast.MakeBaseStmt(initPos, p.pos()),
			Expr:     group,
		}
		return p.forLoopTail(begin, init)
	}

	in := p.tok
	p.match("in")
	if len(group.Exprs) != 1 {
		panic(errorf(in.Span.Start, "unexpected token before [in]"))
	}
	id, ok := group.Exprs[0].(*ast.Ident)
	if !ok {
		panic(errorf(in.Span.Start, "unexpected token before [in]"))
	}
	key := &ast.ExprStmt{
		BaseStmt: ast.MakeBaseStmt(initPos, p.pos()),
		Expr:     id,
	}
	return p.forInTail(begin, key)
}

func (p *Parser) forLoopTail(begin token.Position, init ast.Stmt) *ast.ForStmt {
	var cond ast.Expr
	if !p.is(";") {
		cond = p.exprGroup()
	}
	p.match(";")

	var post ast.Expr
	if !p.is(")") {
		post = p.exprGroup()
	}
	p.match(")")
	body := p.parseStmt()

	return &ast.ForStmt{
		BaseStmt: ast.MakeBaseStmt(begin, p.pos()),
		Init:     init,
		Cond:     cond,
		Post:     post,
		Body:     body,
	}
}

func (p *Parser) forInTail(begin token.Position, key ast.Stmt) *ast.ForInStmt {
	target := p.exprGroup()
	p.match(")")
	body := p.parseStmt()

	return &ast.ForInStmt{
		BaseStmt: ast.MakeBaseStmt(begin, p.pos()),
		Key:      key,
		Target:   target,
		Body:     body,
	}
}

// forBegin parses the first for-header clause: a comma group with
// "in" suppressed as an operator.
func (p *Parser) forBegin() *ast.GroupExpr {
	p.noIn = true
	defer func() { p.noIn = false }()
	return p.exprGroup()
}

// returnStmt parses a return statement. The expression is omitted if
// the next token is ";", "}", or begins on a later line than the
// return keyword.
func (p *Parser) returnStmt() *ast.ReturnStmt {
	begin := p.pos()
	p.match("return")

	var value ast.Expr
	if !(p.is(";") || p.is("}") || p.isType(token.EOF) || p.pos().Line > begin.Line) {
		value = p.exprGroup()
	}

	return &ast.ReturnStmt{
		BaseStmt: ast.MakeBaseStmt(begin, p.pos()),
		Value:    value,
	}
}

func (p *Parser) withStmt() *ast.WithStmt {
	begin := p.pos()
	p.match("with")
	p.match("(")
	expr := p.exprGroup()
	p.match(")")
	body := p.parseStmt()

	return &ast.WithStmt{
		BaseStmt: ast.MakeBaseStmt(begin, p.pos()),
		Expr:     expr,
		Body:     body,
	}
}

func (p *Parser) throwStmt() *ast.ThrowStmt {
	begin := p.pos()
	p.match("throw")
	expr := p.exprGroup()

	return &ast.ThrowStmt{
		BaseStmt: ast.MakeBaseStmt(begin, p.pos()),
		Expr:     expr,
	}
}

func (p *Parser) tryStmt() *ast.TryStmt {
	begin := p.pos()
	p.match("try")
	body := p.block()

	var catches []ast.CatchClause
	for p.is("catch") {
		p.match("catch")
		p.match("(")
		param := p.exprGroup()
		p.match(")")
		catches = append(catches, ast.CatchClause{
			Param: param,
			Body:  p.block(),
		})
	}

	var finally *ast.BlockStmt
	if p.is("finally") {
		p.match("finally")
		finally = p.block()
	}

	return &ast.TryStmt{
		BaseStmt: ast.MakeBaseStmt(begin, p.pos()),
		Body:     body,
		Catches:  catches,
		Finally:  finally,
	}
}

// -----------------------------------------------------------------------------
// Expressions
// -----------------------------------------------------------------------------

// exprGroup parses a comma-separated expression list.
func (p *Parser) exprGroup() *ast.GroupExpr {
	begin := p.pos()

	exprs := []ast.Expr{p.parseBinary(0)}
	for p.is(",") {
		p.match(",")
		exprs = append(exprs, p.parseBinary(0))
	}

	return &ast.GroupExpr{
		BaseExpr: ast.MakeBaseExpr(begin, p.pos()),
		Exprs:    exprs,
	}
}

// parseBinary parses expressions by climbing priorities. Priority 0
// (the assignment family) is right-associative, priority 1 is the
// ternary form, and 2 through 11 chain left-associatively with the
// right operand taken one level tighter.
func (p *Parser) parseBinary(pri int) ast.Expr {
	if pri > maxBinary {
		return p.parseUnary()
	}

	begin := p.pos()
	left := p.parseBinary(pri + 1)

	switch pri {
	case 0:
		if p.atPriority(0) {
			op := p.match(p.tok.Lit)
			right := p.parseBinary(0)
			return &ast.BinaryExpr{
				BaseExpr: ast.MakeBaseExpr(begin, p.pos()),
				Left:     left,
				Op:       op.Lit,
				Right:    right,
			}
		}
		return left

	case 1:
		if p.atPriority(1) {
			p.match("?")
			then := p.parseBinary(1)
			p.match(":")
			els := p.parseBinary(1)
			return &ast.TernaryExpr{
				BaseExpr: ast.MakeBaseExpr(begin, p.pos()),
				Cond:     left,
				Then:     then,
				Else:     els,
			}
		}
		return left

	default:
		for p.atPriority(pri) {
			op := p.match(p.tok.Lit)
			right := p.parseBinary(pri + 1)
			left = &ast.BinaryExpr{
				BaseExpr: ast.MakeBaseExpr(begin, p.pos()),
				Left:     left,
				Op:       op.Lit,
				Right:    right,
			}
		}
		return left
	}
}

// parseUnary parses the prefix and postfix level above all binary
// priorities.
func (p *Parser) parseUnary() ast.Expr {
	begin := p.pos()

	switch {
	case p.is("delete") || p.is("++") || p.is("--"):
		op := p.match(p.tok.Lit)
		expr := p.leftExpression()
		return &ast.UnaryExpr{
			BaseExpr: ast.MakeBaseExpr(begin, p.pos()),
			Op:       op.Lit,
			Expr:     expr,
		}

	case p.is("void") || p.is("typeof") || p.is("+") || p.is("-") ||
		p.is("~") || p.is("!"):
		op := p.match(p.tok.Lit)
		expr := p.parseUnary()
		return &ast.UnaryExpr{
			BaseExpr: ast.MakeBaseExpr(begin, p.pos()),
			Op:       op.Lit,
			Expr:     expr,
		}

	default:
		expr := p.leftExpression()
		if p.is("++") || p.is("--") {
			op := p.match(p.tok.Lit)
			return &ast.UnaryExpr{
				BaseExpr: ast.MakeBaseExpr(begin, p.pos()),
				Op:       op.Lit,
				Expr:     expr,
				Post:     true,
			}
		}
		return expr
	}
}

// leftExpression parses a constructor expression or a primary
// followed by any sequence of member, call, and index suffixes.
func (p *Parser) leftExpression() ast.Expr {
	if p.is("new") {
		return p.constructor()
	}
	return p.callExpression()
}

func (p *Parser) constructor() ast.Expr {
	begin := p.pos()
	p.match("new")

	expr := p.callExpression()
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		panic(errorf(p.pos(), "initializer is not a function before %s", p.tokenDesc()))
	}

	return &ast.NewExpr{
		BaseExpr: ast.MakeBaseExpr(begin, p.pos()),
		Call:     call,
	}
}

func (p *Parser) callExpression() ast.Expr {
	begin := p.pos()
	expr := p.primary()

	for {
		switch {
		case p.is("."):
			p.match(".")
			attr := p.identifier()
			expr = &ast.MemberExpr{
				BaseExpr: ast.MakeBaseExpr(begin, p.pos()),
				Base:     expr,
				Attr:     attr,
			}
		case p.is("("):
			args := p.arglist()
			expr = &ast.CallExpr{
				BaseExpr: ast.MakeBaseExpr(begin, p.pos()),
				Fn:       expr,
				Args:     args,
			}
		case p.is("["):
			p.match("[")
			attr := p.parseBinary(0)
			p.match("]")
			expr = &ast.IndexExpr{
				BaseExpr: ast.MakeBaseExpr(begin, p.pos()),
				Base:     expr,
				Attr:     attr,
			}
		default:
			return expr
		}
	}
}

func (p *Parser) arglist() []ast.Expr {
	var args []ast.Expr

	p.match("(")
	if p.is(")") {
		p.match(")")
		return args
	}
	for {
		args = append(args, p.parseBinary(0))
		if p.is(",") {
			p.match(",")
		}
		if p.is(")") {
			p.match(")")
			return args
		}
	}
}

func (p *Parser) identifier() *ast.Ident {
	tok := p.matchType(token.IDENT)
	return &ast.Ident{
		BaseExpr: ast.BaseExpr{Span: tok.Span},
		Name:     tok.Lit,
	}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.is("("):
		p.match("(")
		// A parenthesized expression re-admits "in" even inside a
		// for-loop header.
		noIn := p.noIn
		p.noIn = false
		expr := p.parseBinary(0)
		p.noIn = noIn
		p.match(")")
		return expr

	case p.isType(token.IDENT):
		return p.identifier()

	case p.is("true") || p.is("false"):
		tok := p.match(p.tok.Lit)
		return &ast.BoolLit{
			BaseExpr: ast.BaseExpr{Span: tok.Span},
			Value:    tok.Lit == "true",
		}

	case p.is("null"):
		tok := p.match("null")
		return &ast.NullLit{BaseExpr: ast.BaseExpr{Span: tok.Span}}

	case p.isType(token.STRING):
		tok := p.matchType(token.STRING)
		return &ast.StrLit{
			BaseExpr: ast.BaseExpr{Span: tok.Span},
			Value:    tok.Lit,
		}

	case p.isType(token.NUMBER):
		tok := p.matchType(token.NUMBER)
		return &ast.NumLit{
			BaseExpr: ast.BaseExpr{Span: tok.Span},
			Value:    parseNumber(tok.Lit),
			Raw:      tok.Lit,
		}

	case p.is("this") || p.is("arguments"):
		tok := p.match(p.tok.Lit)
		return &ast.KeywordExpr{
			BaseExpr: ast.BaseExpr{Span: tok.Span},
			Name:     tok.Lit,
		}

	case p.is("["):
		return p.arrayLit()

	case p.is("{"):
		return p.objectLit()

	case p.is("function"):
		return p.funcLit()

	case p.isType(token.REGEX):
		tok := p.matchType(token.REGEX)
		pattern, flags := splitRegex(tok.Lit)
		return &ast.RegexLit{
			BaseExpr: ast.BaseExpr{Span: tok.Span},
			Pattern:  pattern,
			Flags:    flags,
		}

	default:
		panic(errorf(p.pos(), "can not parse primary-expression, got %s", p.tokenDesc()))
	}
}

// funcLit parses a function expression with an optional name.
func (p *Parser) funcLit() *ast.FuncLit {
	begin := p.pos()
	noIn := p.noIn
	p.noIn = false
	defer func() { p.noIn = noIn }()
	p.match("function")

	var name *ast.Ident
	if p.isType(token.IDENT) {
		name = p.identifier()
	}
	p.match("(")
	params := p.parameterList()
	p.match(")")
	p.match("{")
	body := p.topStatements()
	p.match("}")

	return &ast.FuncLit{
		BaseExpr: ast.MakeBaseExpr(begin, p.pos()),
		Name:     name,
		Params:   params,
		Body:     body,
	}
}

func (p *Parser) arrayLit() *ast.ArrayLit {
	begin := p.pos()
	p.match("[")

	var elems []ast.Expr
	if p.is("]") {
		p.match("]")
	} else {
		for {
			elems = append(elems, p.parseBinary(0))
			if p.is(",") {
				p.match(",")
				if p.is("]") {
					p.match("]")
					break
				}
			} else {
				p.match("]")
				break
			}
		}
	}

	return &ast.ArrayLit{
		BaseExpr: ast.MakeBaseExpr(begin, p.pos()),
		Elems:    elems,
	}
}

func (p *Parser) objectLit() *ast.ObjectLit {
	begin := p.pos()
	p.match("{")

	var fields []ast.ObjectField
	if p.is("}") {
		p.match("}")
	} else {
		for {
			key := p.primary()
			p.match(":")
			value := p.parseBinary(0)
			fields = append(fields, ast.ObjectField{Key: key, Value: value})

			if p.is("}") {
				p.match("}")
				break
			}
			p.match(",")
			if p.is("}") {
				p.match("}")
				break
			}
		}
	}

	return &ast.ObjectLit{
		BaseExpr: ast.MakeBaseExpr(begin, p.pos()),
		Fields:   fields,
	}
}

// -----------------------------------------------------------------------------
// Literal decoding
// -----------------------------------------------------------------------------

// parseNumber decodes a numeric lexeme into a float. A leading 0
// selects the base as in the lexer; the exponent, when present, is
// decimal.
func parseNumber(raw string) float64 {
	if len(raw) >= 2 && raw[0] == '0' {
		switch raw[1] {
		case 'x', 'X':
			return parseBase(raw[2:], 16)
		case 'b', 'B':
			return parseBase(raw[2:], 2)
		case 'o', 'O':
			return parseBase(raw[2:], 8)
		default:
			if raw[1] >= '0' && raw[1] <= '7' {
				return parseBase(raw[1:], 8)
			}
		}
	}
	n, _ := strconv.ParseFloat(raw, 64)
	return n
}

// parseBase decodes digits with an optional fraction in the given
// base, followed by an optional decimal exponent.
func parseBase(digits string, base int) float64 {
	fbase := float64(base)
	n := 0.0
	i := 0
	for ; i < len(digits); i++ {
		d, ok := digitValue(digits[i], base)
		if !ok {
			break
		}
		n = n*fbase + float64(d)
	}
	if i < len(digits) && digits[i] == '.' {
		i++
		scale := 1.0 / fbase
		for ; i < len(digits); i++ {
			d, ok := digitValue(digits[i], base)
			if !ok {
				break
			}
			n += float64(d) * scale
			scale /= fbase
		}
	}
	if i < len(digits) && (digits[i] == 'e' || digits[i] == 'E') {
		if exp, err := strconv.Atoi(digits[i+1:]); err == nil {
			n *= math.Pow(10, float64(exp))
		}
	}
	return n
}

func digitValue(ch byte, base int) (int, bool) {
	var d int
	switch {
	case ch >= '0' && ch <= '9':
		d = int(ch - '0')
	case ch >= 'a' && ch <= 'f':
		d = int(ch-'a') + 10
	case ch >= 'A' && ch <= 'F':
		d = int(ch-'A') + 10
	default:
		return 0, false
	}
	if d >= base {
		return 0, false
	}
	return d, true
}

// splitRegex separates a /pattern/flags lexeme into pattern and flags.
func splitRegex(lit string) (pattern, flags string) {
	end := len(lit)
	for end > 0 && lit[end-1] != '/' {
		end--
	}
	if end < 2 {
		return lit, ""
	}
	return lit[1 : end-1], lit[end:]
}

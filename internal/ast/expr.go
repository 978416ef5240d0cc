package ast

// -----------------------------------------------------------------------------
// Literals
// -----------------------------------------------------------------------------

// BoolLit represents the literals true and false.
type BoolLit struct {
	BaseExpr
	Value bool
}

// NumLit represents a numeric literal.
// Examples: 42, 3.14, 1e10, 0x1F, 0b101, 0o17, 0755
type NumLit struct {
	BaseExpr
	Value float64 // Decoded numeric value
	Raw   string  // Original source text
}

// StrLit represents a string literal.
// The value is stored unquoted with escapes decoded.
type StrLit struct {
	BaseExpr
	Value string
}

// NullLit represents the literal null.
type NullLit struct {
	BaseExpr
}

// RegexLit represents a regex literal.
// Examples: /pattern/, /[a-z]+/ig
// Pattern holds the text between the delimiters; Flags the trailing
// letters. Regex literals are stored textually and never matched.
type RegexLit struct {
	BaseExpr
	Pattern string
	Flags   string
}

// -----------------------------------------------------------------------------
// References
// -----------------------------------------------------------------------------

// Ident represents an identifier (variable name).
type Ident struct {
	BaseExpr
	Name string
}

// KeywordExpr represents the expression keywords this and arguments.
type KeywordExpr struct {
	BaseExpr
	Name string // "this" or "arguments"
}

// IndexExpr represents a computed property access.
// Example: base[attr]
type IndexExpr struct {
	BaseExpr
	Base Expr
	Attr Expr
}

// MemberExpr represents a named property access.
// Example: base.name
type MemberExpr struct {
	BaseExpr
	Base Expr
	Attr *Ident
}

// -----------------------------------------------------------------------------
// Operations
// -----------------------------------------------------------------------------

// UnaryExpr represents a prefix or postfix unary operation.
// Examples: -x, !flag, typeof v, delete o.k, ++i, i++
type UnaryExpr struct {
	BaseExpr
	Op   string // Operator lexeme
	Expr Expr   // Operand
	Post bool   // true for postfix (i++), false for prefix (++i)
}

// BinaryExpr represents a binary operation, including assignments.
// Examples: a + b, x == y, n <<= 2
type BinaryExpr struct {
	BaseExpr
	Left  Expr
	Op    string // Operator lexeme
	Right Expr
}

// TernaryExpr represents a conditional expression.
// Example: cond ? then_val : else_val
type TernaryExpr struct {
	BaseExpr
	Cond Expr
	Then Expr
	Else Expr
}

// GroupExpr represents a comma-separated expression list.
// Every full expression position in the grammar produces one, usually
// with a single element. Example: a = 1, b = 2
type GroupExpr struct {
	BaseExpr
	Exprs []Expr // At least one element
}

// -----------------------------------------------------------------------------
// Functions and calls
// -----------------------------------------------------------------------------

// FuncLit represents a function literal, named or anonymous. A named
// literal in statement position also serves as a declaration.
// Examples: function f(a, b) { ... }, function(x) { ... }
type FuncLit struct {
	BaseExpr
	Name   *Ident   // nil for anonymous functions
	Params []*Ident // Formal parameters (may be empty)
	Body   []Stmt   // Body statements
}

func (f *FuncLit) stmtNode() {}

// CallExpr represents a function invocation.
// Example: f(a, b)
type CallExpr struct {
	BaseExpr
	Fn   Expr   // Callee
	Args []Expr // Arguments (may be empty)
}

// NewExpr represents a constructor invocation.
// The wrapped expression must be a call. Example: new C(1, 2)
type NewExpr struct {
	BaseExpr
	Call *CallExpr
}

// -----------------------------------------------------------------------------
// Composites
// -----------------------------------------------------------------------------

// ArrayLit represents an array literal.
// Example: [1, "two", f()]
type ArrayLit struct {
	BaseExpr
	Elems []Expr
}

// ObjectField is one key-value pair of an object literal. The key is
// a primary expression; its string projection names the property.
type ObjectField struct {
	Key   Expr
	Value Expr
}

// ObjectLit represents an object literal.
// Example: {"a": 2, "b": 3}
type ObjectLit struct {
	BaseExpr
	Fields []ObjectField
}

// -----------------------------------------------------------------------------
// Compile-time checks
// -----------------------------------------------------------------------------

// Ensure all expression types implement Expr interface.
var (
	_ Expr = (*BoolLit)(nil)
	_ Expr = (*NumLit)(nil)
	_ Expr = (*StrLit)(nil)
	_ Expr = (*NullLit)(nil)
	_ Expr = (*RegexLit)(nil)
	_ Expr = (*Ident)(nil)
	_ Expr = (*KeywordExpr)(nil)
	_ Expr = (*IndexExpr)(nil)
	_ Expr = (*MemberExpr)(nil)
	_ Expr = (*UnaryExpr)(nil)
	_ Expr = (*BinaryExpr)(nil)
	_ Expr = (*TernaryExpr)(nil)
	_ Expr = (*GroupExpr)(nil)
	_ Expr = (*FuncLit)(nil)
	_ Expr = (*CallExpr)(nil)
	_ Expr = (*NewExpr)(nil)
	_ Expr = (*ArrayLit)(nil)
	_ Expr = (*ObjectLit)(nil)
	_ Stmt = (*FuncLit)(nil)
)

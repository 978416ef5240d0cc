// Package lexer provides ujs source code tokenization.
//
// The scanner is context-sensitive in one place: a "/" starts a regex
// literal or a division operator depending on the previously emitted
// token (see canBeRegex).
package lexer

import (
	"github.com/kolkov/ujs/internal/token"
)

// Lexer tokenizes ujs source code.
type Lexer struct {
	src     []byte         // Source code
	ch      byte           // Current character (0 at EOF)
	offset  int            // Byte offset after the current character
	pos     token.Position // Position of the current character
	nextPos token.Position // Position of the next character

	lastType token.Type // Previous token type (for regex detection)
}

// New creates a new Lexer for the given source code.
func New(src []byte) *Lexer {
	l := &Lexer{
		src: src,
		nextPos: token.Position{
			Line:   1,
			Column: 1,
		},
		lastType: token.ILLEGAL,
	}
	l.next() // Initialize first character
	return l
}

// NewFromString creates a new Lexer from a string.
func NewFromString(src string) *Lexer {
	return New([]byte(src))
}

// Token represents a scanned token with its source span and value.
// String payloads are stored unquoted and escape-decoded; regex
// lexemes keep their delimiters and trailing flags.
type Token struct {
	Type token.Type
	Lit  string
	Span token.Span
}

// Scan scans and returns the next token.
func (l *Lexer) Scan() Token {
	tok := l.scan()
	l.lastType = tok.Type
	return tok
}

func (l *Lexer) scan() Token {
	l.skipWhitespace()

	pos := l.pos

	// EOF
	if l.ch == 0 {
		pos = l.endPos()
		return Token{Type: token.EOF, Span: token.Span{Start: pos, End: pos}}
	}

	switch {
	case isIdentStart(l.ch):
		return l.scanIdent(pos)

	case l.ch == '"' || l.ch == '\'':
		return l.scanString(pos)

	case l.ch == '/':
		next := l.peekByte()
		switch {
		case next == '/':
			l.skipLineComment()
			return l.scan()
		case next == '*':
			l.skipBlockComment()
			return l.scan()
		case l.canBeRegex():
			return l.scanRegex(pos)
		default:
			return l.scanOperator(pos)
		}

	case isDigit(l.ch, 10):
		return l.scanNumber(pos)

	default:
		if t := token.LookupPunct(string(l.ch)); t != token.ILLEGAL {
			lit := string(l.ch)
			l.next()
			return Token{Type: t, Lit: lit, Span: token.Span{Start: pos, End: l.endPos()}}
		}
		if token.IsOperator(string(l.ch)) {
			return l.scanOperator(pos)
		}
		ch := l.ch
		l.next()
		return Token{Type: token.ILLEGAL, Lit: string(ch), Span: token.Span{Start: pos, End: l.endPos()}}
	}
}

func (l *Lexer) scanIdent(pos token.Position) Token {
	var sb []byte
	for isIdentContinue(l.ch) {
		sb = append(sb, l.ch)
		l.next()
	}
	name := string(sb)
	return Token{
		Type: token.LookupIdent(name),
		Lit:  name,
		Span: token.Span{Start: pos, End: l.endPos()},
	}
}

// scanString scans a single- or double-quoted string. A backslash
// escapes the next character, including the quote and newlines; the
// escape set of §strings is decoded in place, and an unrecognized
// escape drops the backslash. The delimiters are not kept.
func (l *Lexer) scanString(pos token.Position) Token {
	quote := l.ch
	l.next() // consume opening quote

	var sb []byte
	for l.ch != 0 && l.ch != quote {
		if l.ch == '\\' {
			l.next()
			if l.ch == 0 {
				break
			}
			switch l.ch {
			case 'n':
				sb = append(sb, '\n')
			case 'r':
				sb = append(sb, '\r')
			case 't':
				sb = append(sb, '\t')
			case 'b':
				sb = append(sb, '\b')
			case 'f':
				sb = append(sb, '\f')
			case '\\':
				sb = append(sb, '\\')
			case '"':
				sb = append(sb, '"')
			case '\'':
				sb = append(sb, '\'')
			default:
				// Unrecognized escape: drop the backslash.
				sb = append(sb, l.ch)
			}
			l.next()
		} else {
			sb = append(sb, l.ch)
			l.next()
		}
	}

	if l.ch != quote {
		return Token{Type: token.ILLEGAL, Lit: "unterminated string", Span: token.Span{Start: pos, End: l.endPos()}}
	}
	l.next() // consume closing quote

	return Token{Type: token.STRING, Lit: string(sb), Span: token.Span{Start: pos, End: l.endPos()}}
}

// scanRegex scans a /…/flags literal. The stored lexeme keeps the
// delimiters and the trailing flag letters.
func (l *Lexer) scanRegex(pos token.Position) Token {
	var sb []byte
	sb = append(sb, l.ch)
	l.next() // consume opening /

	for l.ch != 0 && l.ch != '/' {
		if l.ch == '\\' {
			sb = append(sb, l.ch)
			l.next()
			if l.ch == 0 {
				break
			}
		}
		sb = append(sb, l.ch)
		l.next()
	}

	if l.ch != '/' {
		return Token{Type: token.ILLEGAL, Lit: "unterminated regex", Span: token.Span{Start: pos, End: l.endPos()}}
	}
	sb = append(sb, l.ch)
	l.next() // consume closing /

	// Trailing flag letters
	for isLetter(l.ch) {
		sb = append(sb, l.ch)
		l.next()
	}

	return Token{Type: token.REGEX, Lit: string(sb), Span: token.Span{Start: pos, End: l.endPos()}}
}

// scanNumber scans a numeric literal. A leading 0 selects the base:
// 0x/0X hex, 0b/0B binary, 0o/0O or a following octal digit octal.
// The fractional digits use the same base; the exponent is decimal.
func (l *Lexer) scanNumber(pos token.Position) Token {
	var sb []byte
	base := 10

	if l.ch == '0' {
		switch l.peekByte() {
		case 'x', 'X':
			base = 16
			sb = append(sb, l.ch)
			l.next()
			sb = append(sb, l.ch)
			l.next()
		case 'b', 'B':
			base = 2
			sb = append(sb, l.ch)
			l.next()
			sb = append(sb, l.ch)
			l.next()
		case 'o', 'O':
			base = 8
			sb = append(sb, l.ch)
			l.next()
			sb = append(sb, l.ch)
			l.next()
		case '0', '1', '2', '3', '4', '5', '6', '7':
			base = 8
		}
	}

	for isDigit(l.ch, base) {
		sb = append(sb, l.ch)
		l.next()
	}

	if l.ch == '.' && isDigit(l.peekByte(), base) {
		sb = append(sb, l.ch)
		l.next()
		for isDigit(l.ch, base) {
			sb = append(sb, l.ch)
			l.next()
		}
	}

	// Only consume e/E when a valid exponent follows, so "1e+a"
	// lexes as 1, e, +, a.
	if (l.ch == 'e' || l.ch == 'E') && base != 16 && l.hasValidExponent() {
		sb = append(sb, l.ch)
		l.next()
		if l.ch == '+' || l.ch == '-' {
			sb = append(sb, l.ch)
			l.next()
		}
		for isDigit(l.ch, 10) {
			sb = append(sb, l.ch)
			l.next()
		}
	}

	return Token{Type: token.NUMBER, Lit: string(sb), Span: token.Span{Start: pos, End: l.endPos()}}
}

func (l *Lexer) scanOperator(pos token.Position) Token {
	var sb []byte
	sb = append(sb, l.ch)
	l.next()
	for l.ch != 0 && token.IsOperator(string(sb)+string(l.ch)) {
		sb = append(sb, l.ch)
		l.next()
	}
	return Token{Type: token.OPERATOR, Lit: string(sb), Span: token.Span{Start: pos, End: l.endPos()}}
}

// canBeRegex returns true if the next / should start a regex literal.
// A regex can only begin where an operand is expected, which is when
// the previous token cannot end an operand: anything except an
// identifier, literal, keyword, or closing parenthesis.
func (l *Lexer) canBeRegex() bool {
	if l.lastType.IsLiteral() || l.lastType == token.KEYWORD {
		return false
	}
	return l.lastType != token.RPAREN
}

// hasValidExponent checks if the current e/E is followed by a digit,
// or a sign followed by a digit.
func (l *Lexer) hasValidExponent() bool {
	idx := l.offset
	if idx >= len(l.src) {
		return false
	}
	ch := l.src[idx]
	if isDigit(ch, 10) {
		return true
	}
	if ch == '+' || ch == '-' {
		idx++
		if idx < len(l.src) && isDigit(l.src[idx], 10) {
			return true
		}
	}
	return false
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		l.next()
	}
}

func (l *Lexer) skipLineComment() {
	for l.ch != 0 && l.ch != '\n' {
		l.next()
	}
}

func (l *Lexer) skipBlockComment() {
	l.next() // /
	l.next() // *
	for l.ch != 0 {
		if l.ch == '*' && l.peekByte() == '/' {
			l.next()
			l.next()
			return
		}
		l.next()
	}
}

func (l *Lexer) next() {
	if l.offset >= len(l.src) {
		l.ch = 0
		return
	}

	l.pos = l.nextPos

	l.ch = l.src[l.offset]
	l.offset++
	l.nextPos.Column++

	if l.ch == '\n' {
		l.nextPos.Line++
		l.nextPos.Column = 1
	}
}

// peekByte returns the byte after the current character without
// consuming it.
func (l *Lexer) peekByte() byte {
	if l.offset >= len(l.src) {
		return 0
	}
	return l.src[l.offset]
}

// endPos returns the position just past the most recently consumed
// character. At EOF l.pos stops updating, so the next position is the
// correct end.
func (l *Lexer) endPos() token.Position {
	if l.ch == 0 {
		return l.nextPos
	}
	return l.pos
}

// Helper functions

func isDigit(ch byte, base int) bool {
	if base <= 10 {
		return ch >= '0' && ch <= byte('0'+base-1)
	}
	return (ch >= '0' && ch <= '9') ||
		(ch >= 'a' && ch < byte('a'+base-10)) ||
		(ch >= 'A' && ch < byte('A'+base-10))
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentStart(ch byte) bool {
	return isLetter(ch) || ch == '_' || ch == '$'
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch, 10)
}

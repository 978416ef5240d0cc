// Package runtime provides runtime support for ujs regex literals.
//
// Regex literals are stored textually and never matched during
// execution; this package compiles them once so malformed patterns
// and unknown flags surface as compile-time errors.
package runtime

import (
	"fmt"
	"strings"

	"github.com/coregx/coregex"
)

// Regex wraps a compiled regex literal.
type Regex struct {
	pattern string
	flags   string
	re      *coregex.Regexp
}

// Compile creates a Regex from the pattern and flag letters of a
// /pattern/flags literal. The flags i (ignore case), m (multi-line),
// and s (dot matches newline) translate to engine modifiers; g
// (global) affects match iteration only and is accepted without a
// modifier. Any other flag letter is an error.
func Compile(pattern, flags string) (*Regex, error) {
	var mods strings.Builder
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's':
			mods.WriteRune(f)
		case 'g':
			// No engine modifier
		default:
			return nil, fmt.Errorf("unknown regex flag %q", string(f))
		}
	}

	expr := pattern
	if mods.Len() > 0 {
		expr = "(?" + mods.String() + ")" + pattern
	}

	re, err := coregex.Compile(expr)
	if err != nil {
		return nil, err
	}

	return &Regex{
		pattern: pattern,
		flags:   flags,
		re:      re,
	}, nil
}

// MustCompile creates a Regex, panicking on error.
func MustCompile(pattern, flags string) *Regex {
	re, err := Compile(pattern, flags)
	if err != nil {
		panic(err)
	}
	return re
}

// Pattern returns the pattern text between the literal's delimiters.
func (r *Regex) Pattern() string {
	return r.pattern
}

// Flags returns the literal's flag letters.
func (r *Regex) Flags() string {
	return r.flags
}

// String returns the literal form /pattern/flags.
func (r *Regex) String() string {
	return "/" + r.pattern + "/" + r.flags
}

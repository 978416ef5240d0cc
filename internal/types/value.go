// Package types defines runtime values, control signals, and lexical
// scopes for ujs.
//
// Values are shared, mutable records: the same *Value may be reachable
// through several scope slots and property maps, and in-place mutation
// (numeric increment, property set) is observable through every alias.
// Every value carries a property map regardless of kind.
package types

import (
	"sort"
	"strconv"

	"github.com/kolkov/ujs/internal/ast"
	"github.com/kolkov/ujs/internal/token"
)

// Kind represents the type of a runtime value.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindBool
	KindNumber
	KindNaN
	KindString
	KindObject
	KindFunction
	KindSignal
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindNaN:
		return "nan"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindFunction:
		return "function"
	case KindSignal:
		return "signal"
	default:
		return "unknown"
	}
}

// Value represents a ujs runtime value. Values are handled by pointer
// and never copied; identity is significant.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool

	fn  *ast.FuncLit // Function body for KindFunction
	env *Scope       // Function scope for KindFunction

	sig    SignalKind     // Control-flow intent for KindSignal
	sigPos token.Position // Origin of break/continue signals
	sigVal *Value         // Return payload for KindSignal

	attrs map[string]*Value // Lazily allocated property map
}

// Singletons. These are shared process-wide, like every value their
// property maps are mutable.
var (
	Undefined = &Value{kind: KindUndefined}
	Null      = &Value{kind: KindNull}
	NaN       = &Value{kind: KindNaN}
	Normal    = &Value{kind: KindSignal, sig: SigNormal}
)

// Constructors

// Num creates a numeric value.
func Num(n float64) *Value {
	return &Value{kind: KindNumber, num: n}
}

// Str creates a string value.
func Str(s string) *Value {
	return &Value{kind: KindString, str: s}
}

// Bool creates a boolean value.
func Bool(b bool) *Value {
	return &Value{kind: KindBool, b: b}
}

// Object creates an empty object value.
func Object() *Value {
	return &Value{kind: KindObject}
}

// Function creates a function value holding the parsed function and
// the scope its parameters bind in.
func Function(fn *ast.FuncLit, env *Scope) *Value {
	return &Value{kind: KindFunction, fn: fn, env: env}
}

// Accessors

// Kind returns the value's kind.
func (v *Value) Kind() Kind { return v.kind }

// IsNumber returns true for a number that is not the NaN singleton.
func (v *Value) IsNumber() bool { return v.kind == KindNumber }

// IsSignal returns true for control-flow signals.
func (v *Value) IsSignal() bool { return v.kind == KindSignal }

// Num returns the numeric payload. Only meaningful for KindNumber.
func (v *Value) Num() float64 { return v.num }

// SetNum replaces the numeric payload in place. Aliased references
// observe the change.
func (v *Value) SetNum(n float64) { v.num = n }

// Bool returns the boolean payload. Only meaningful for KindBool.
func (v *Value) Bool() bool { return v.b }

// Fn returns the function body. Only meaningful for KindFunction.
func (v *Value) Fn() *ast.FuncLit { return v.fn }

// Env returns the function's own scope. Only meaningful for
// KindFunction.
func (v *Value) Env() *Scope { return v.env }

// Projections

// ToString returns the string projection of the value. Numbers use
// the fixed six-decimal formatter, so 3 prints as "3.000000".
func (v *Value) ToString() string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return ""
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', 6, 64)
	case KindNaN:
		return "NaN"
	case KindString:
		return v.str
	case KindObject:
		return "[object Object]"
	case KindFunction:
		return "function"
	case KindSignal:
		return "[built-in]"
	default:
		return ""
	}
}

// ToBool returns the boolean projection of the value.
func (v *Value) ToBool() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.num != 0
	case KindString:
		return v.str != ""
	case KindObject, KindFunction:
		return true
	default:
		// undefined, null, NaN, signals
		return false
	}
}

// TypeOf returns the typeof projection of the value. Booleans report
// "true" or "false" rather than "boolean".
func (v *Value) TypeOf() string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindNull, KindObject:
		return "object"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber, KindNaN:
		return "number"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindSignal:
		return "built-in"
	default:
		return "undefined"
	}
}

// Properties

// SetAttr sets a property on the value's property map.
func (v *Value) SetAttr(key string, val *Value) {
	if v.attrs == nil {
		v.attrs = make(map[string]*Value)
	}
	v.attrs[key] = val
}

// GetAttr returns the property with the given key, or Undefined when
// the key is missing.
func (v *Value) GetAttr(key string) *Value {
	if val, ok := v.attrs[key]; ok {
		return val
	}
	return Undefined
}

// DelAttr removes the property with the given key.
func (v *Value) DelAttr(key string) {
	delete(v.attrs, key)
}

// Keys returns the property keys sorted ascending.
func (v *Value) Keys() []string {
	keys := make([]string, 0, len(v.attrs))
	for k := range v.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

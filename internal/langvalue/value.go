// Package langvalue implements Maple's runtime value model: the tagged
// primitive Value union, the MemorySlot sum type that every AST node
// evaluation produces, and the Variable/Function/BuiltinFunction cells
// that live in scope frames.
package langvalue

import "fmt"

// Tag identifies which of Maple's five primitive representations a
// Value currently holds.
type Tag int

const (
	TagFloat Tag = iota
	TagInt
	TagInt64
	TagChar
	TagBool
)

// String returns the canonical Maple type name for a Tag, exactly the
// strings a declared Variable type or a BuiltinFunction parameter type
// is spelled with in source.
func (t Tag) String() string {
	switch t {
	case TagFloat:
		return "float"
	case TagInt:
		return "int"
	case TagInt64:
		return "int64"
	case TagChar:
		return "char"
	case TagBool:
		return "bool"
	default:
		return "?"
	}
}

// ParseTag maps a declared primitive type name back to a Tag. ok is
// false for "var" and for any unknown name.
func ParseTag(name string) (Tag, bool) {
	switch name {
	case "float":
		return TagFloat, true
	case "int":
		return TagInt, true
	case "int64":
		return TagInt64, true
	case "char":
		return TagChar, true
	case "bool":
		return TagBool, true
	default:
		return 0, false
	}
}

// Value is a closed tagged union over Maple's primitive types. Only the
// field matching Tag is meaningful; this mirrors spec.md §9's guidance
// to represent the runtime value as a closed sum rather than an open
// class hierarchy, avoiding a heap allocation per literal.
type Value struct {
	Tag Tag
	f   float64
	i   int32
	i64 int64
	c   byte
	b   bool
}

func Float(f float64) Value  { return Value{Tag: TagFloat, f: f} }
func Int(i int32) Value      { return Value{Tag: TagInt, i: i} }
func Int64(i int64) Value    { return Value{Tag: TagInt64, i64: i} }
func Char(c byte) Value      { return Value{Tag: TagChar, c: c} }
func Bool(b bool) Value      { return Value{Tag: TagBool, b: b} }

// TypeName returns the canonical type name of the value's current tag.
func (v Value) TypeName() string { return v.Tag.String() }

// AsFloat coerces the value to float64 regardless of its current tag.
func (v Value) AsFloat() float64 {
	switch v.Tag {
	case TagFloat:
		return v.f
	case TagInt:
		return float64(v.i)
	case TagInt64:
		return float64(v.i64)
	case TagChar:
		return float64(v.c)
	case TagBool:
		if v.b {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// AsInt coerces the value to int32 regardless of its current tag.
func (v Value) AsInt() int32 {
	switch v.Tag {
	case TagFloat:
		return int32(v.f)
	case TagInt:
		return v.i
	case TagInt64:
		return int32(v.i64)
	case TagChar:
		return int32(v.c)
	case TagBool:
		if v.b {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// AsInt64 coerces the value to int64 regardless of its current tag.
func (v Value) AsInt64() int64 {
	switch v.Tag {
	case TagFloat:
		return int64(v.f)
	case TagInt:
		return int64(v.i)
	case TagInt64:
		return v.i64
	case TagChar:
		return int64(v.c)
	case TagBool:
		if v.b {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// AsChar coerces the value to a byte regardless of its current tag.
func (v Value) AsChar() byte {
	switch v.Tag {
	case TagFloat:
		return byte(v.f)
	case TagInt:
		return byte(v.i)
	case TagInt64:
		return byte(v.i64)
	case TagChar:
		return v.c
	case TagBool:
		if v.b {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// AsBool coerces the value to bool: any nonzero numeric tag is true.
func (v Value) AsBool() bool {
	switch v.Tag {
	case TagFloat:
		return v.f != 0
	case TagInt:
		return v.i != 0
	case TagInt64:
		return v.i64 != 0
	case TagChar:
		return v.c != 0
	case TagBool:
		return v.b
	default:
		return false
	}
}

// CoerceTo returns the value re-tagged as t via the matching getAsX cast
// of spec.md §4.F's assignment rule.
func (v Value) CoerceTo(t Tag) Value {
	switch t {
	case TagFloat:
		return Float(v.AsFloat())
	case TagInt:
		return Int(v.AsInt())
	case TagInt64:
		return Int64(v.AsInt64())
	case TagChar:
		return Char(v.AsChar())
	case TagBool:
		return Bool(v.AsBool())
	default:
		return v
	}
}

// Promote selects the narrowest tag that covers both operands per
// spec.md §4.F's promotion ladder: float > int64 > int > char > bool.
func Promote(a, b Tag) Tag {
	if a == TagFloat || b == TagFloat {
		return TagFloat
	}
	if a == TagInt64 || b == TagInt64 {
		return TagInt64
	}
	if a == TagInt || b == TagInt {
		return TagInt
	}
	if a == TagChar || b == TagChar {
		return TagChar
	}
	return TagBool
}

// Negate computes unary minus, preserving the operand's tag.
func (v Value) Negate() Value {
	switch v.Tag {
	case TagFloat:
		return Float(-v.f)
	case TagInt:
		return Int(-v.i)
	case TagInt64:
		return Int64(-v.i64)
	case TagChar:
		return Char(byte(-int8(v.c)))
	case TagBool:
		// -1 and 0 cast back to bool: the truth value is unchanged.
		return Bool(v.b)
	default:
		return v
	}
}

// String renders the value the way a diagnostic or host print builtin
// would display it.
func (v Value) String() string {
	switch v.Tag {
	case TagFloat:
		return fmt.Sprintf("%g", v.f)
	case TagInt:
		return fmt.Sprintf("%d", v.i)
	case TagInt64:
		return fmt.Sprintf("%d", v.i64)
	case TagChar:
		return string(rune(v.c))
	case TagBool:
		if v.b {
			return "true"
		}
		return "false"
	default:
		return "?"
	}
}

package ctime

import "fmt"

// ValueKind tags the variant held by a Value — the Go-side mirror of
// spec §4.5's CTValue domain (int64/uint64/float64/bool/string/shared
// composite/shared array/uninitialized), grounded on
// original_source/frontend/src/eval/const_value.cpp's tagged union.
type ValueKind int

const (
	VUninitialized ValueKind = iota
	VInt
	VUint
	VFloat
	VBool
	VString
	VComposite
	VArray
)

// Composite is a struct-literal value. It is shared (reference semantics)
// until mutated; a mutation clones the Composite first and rebinds the
// owning variable's slot to the clone, never touching the original —
// copy-on-write, per spec §4.5.
type Composite struct {
	TypeName string
	Fields   map[string]Value
}

func (c *Composite) clone() *Composite {
	fields := make(map[string]Value, len(c.Fields))
	for k, v := range c.Fields {
		fields[k] = v
	}
	return &Composite{TypeName: c.TypeName, Fields: fields}
}

// Array is an array-literal value, copy-on-write exactly like Composite.
type Array struct {
	Elements []Value
}

func (a *Array) clone() *Array {
	elems := make([]Value, len(a.Elements))
	copy(elems, a.Elements)
	return &Array{Elements: elems}
}

// Value is one constant value known to the evaluator.
type Value struct {
	Kind      ValueKind
	Int       int64
	Uint      uint64
	Float     float64
	Bool      bool
	Str       string
	Composite *Composite
	Array     *Array
}

func IntValue(v int64) Value       { return Value{Kind: VInt, Int: v} }
func UintValue(v uint64) Value     { return Value{Kind: VUint, Uint: v} }
func FloatValue(v float64) Value   { return Value{Kind: VFloat, Float: v} }
func BoolValue(v bool) Value       { return Value{Kind: VBool, Bool: v} }
func StringValue(v string) Value   { return Value{Kind: VString, Str: v} }
func CompositeValue(c *Composite) Value { return Value{Kind: VComposite, Composite: c} }
func ArrayValue(a *Array) Value    { return Value{Kind: VArray, Array: a} }

var Uninitialized = Value{Kind: VUninitialized}

// AsFloat64 widens any numeric kind to a float64 for arithmetic between
// mixed signed/unsigned/float constants — mirroring the family-widening
// rule internal/types.Family already applies at the type level.
func (v Value) AsFloat64() float64 {
	switch v.Kind {
	case VInt:
		return float64(v.Int)
	case VUint:
		return float64(v.Uint)
	case VFloat:
		return v.Float
	case VBool:
		if v.Bool {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func (v Value) AsInt64() int64 {
	switch v.Kind {
	case VInt:
		return v.Int
	case VUint:
		return int64(v.Uint)
	case VFloat:
		return int64(v.Float)
	case VBool:
		if v.Bool {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func (v Value) Truthy() bool {
	switch v.Kind {
	case VBool:
		return v.Bool
	case VInt:
		return v.Int != 0
	case VUint:
		return v.Uint != 0
	case VFloat:
		return v.Float != 0
	case VString:
		return v.Str != ""
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.Kind {
	case VInt:
		return fmt.Sprintf("%d", v.Int)
	case VUint:
		return fmt.Sprintf("%d", v.Uint)
	case VFloat:
		return fmt.Sprintf("%g", v.Float)
	case VBool:
		return fmt.Sprintf("%t", v.Bool)
	case VString:
		return v.Str
	case VComposite:
		return fmt.Sprintf("%s{...}", v.Composite.TypeName)
	case VArray:
		return fmt.Sprintf("[%d elements]", len(v.Array.Elements))
	default:
		return "<uninitialized>"
	}
}

func isNumeric(v Value) bool {
	switch v.Kind {
	case VInt, VUint, VFloat, VBool:
		return true
	default:
		return false
	}
}

func isFloatKind(v Value) bool { return v.Kind == VFloat }
func isUnsignedKind(v Value) bool { return v.Kind == VUint }

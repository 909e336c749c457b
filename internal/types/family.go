// Package types implements the family/widening rules, literal-fit checks,
// the tuple-type side table, and generic-signature freezing/mangling that
// the type checker and monomorphiser share (spec §4.3, §4.4).
package types

import "github.com/vexel-lang/vexelc/internal/ast"

// Family is one of {signed, unsigned, float, bool, string} (spec §4.3
// "Family rule"). Two types are compatible iff they are in the same
// family and the widening direction holds; different families require an
// explicit cast.
type Family int

const (
	FamilyNone Family = iota
	FamilySigned
	FamilyUnsigned
	FamilyFloat
	FamilyBool
	FamilyString
)

// FamilyOf classifies a primitive type. Non-primitive types have no
// family.
func FamilyOf(t ast.Type) Family {
	p, ok := t.(*ast.PrimitiveType)
	if !ok {
		return FamilyNone
	}
	switch {
	case p.Primitive.IsSignedInt():
		return FamilySigned
	case p.Primitive.IsUnsignedInt():
		return FamilyUnsigned
	case p.Primitive.IsFloat():
		return FamilyFloat
	case p.Primitive == ast.Bool:
		return FamilyBool
	case p.Primitive == ast.StringPrim:
		return FamilyString
	default:
		return FamilyNone
	}
}

func bits(t ast.Type) int {
	p, ok := t.(*ast.PrimitiveType)
	if !ok {
		return 0
	}
	return p.Primitive.Bits()
}

// SameFamily reports whether a and b are both primitives in the same
// family.
func SameFamily(a, b ast.Type) bool {
	fa, fb := FamilyOf(a), FamilyOf(b)
	return fa != FamilyNone && fa == fb
}

// Widens reports whether `from` can implicitly widen to `to`: same family,
// `to`'s bit width is >= `from`'s.
func Widens(from, to ast.Type) bool {
	if !SameFamily(from, to) {
		return false
	}
	return bits(to) >= bits(from)
}

// JoinFamily picks the wider of two same-family primitive types, per
// spec §4.3's arithmetic/conditional "join under the same-family rule".
// Returns nil if a and b are not in the same family.
func JoinFamily(a, b ast.Type) ast.Type {
	if !SameFamily(a, b) {
		return nil
	}
	if bits(a) >= bits(b) {
		return a
	}
	return b
}

package types

import "github.com/vexel-lang/vexelc/internal/ast"

// IntFits reports whether value fits in a primitive of kind k; an unsigned
// kind never fits a value whose isNegative flag is set.
// Boundary behaviour (spec §8): 127 fits i8, 128 does not; 255 fits u8,
// 256 does not; -128 fits i8, -129 does not.
func IntFits(k ast.PrimitiveKind, value int64, isNegative bool) bool {
	switch k {
	case ast.I8:
		return value >= -128 && value <= 127
	case ast.I16:
		return value >= -32768 && value <= 32767
	case ast.I32:
		return value >= -2147483648 && value <= 2147483647
	case ast.I64:
		return true
	case ast.U8:
		return !isNegative && value <= 255
	case ast.U16:
		return !isNegative && value <= 65535
	case ast.U32:
		return !isNegative && value <= 4294967295
	case ast.U64:
		return !isNegative
	default:
		return false
	}
}

// SmallestFittingInt returns the narrowest primitive kind that fits the
// literal, preferring signed kinds for negative values and unsigned kinds
// otherwise — "Integer and float literals receive the smallest primitive
// type that fits their value" (spec §4.3.1).
func SmallestFittingInt(value int64, isNegative bool) ast.PrimitiveKind {
	if isNegative {
		for _, k := range []ast.PrimitiveKind{ast.I8, ast.I16, ast.I32, ast.I64} {
			if IntFits(k, value, true) {
				return k
			}
		}
		return ast.I64
	}
	for _, k := range []ast.PrimitiveKind{ast.U8, ast.U16, ast.U32, ast.U64} {
		if IntFits(k, value, false) {
			return k
		}
	}
	return ast.U64
}

// LiteralAssignableTo implements `literal_assignable_to(target, expr)`
// (spec §4.3.1): tests range fit for an untyped integer/float literal
// against a target primitive type, controlling implicit widening at
// assignment, return, and argument positions.
func LiteralAssignableTo(target ast.Type, lit *ast.Expr) bool {
	prim, ok := target.(*ast.PrimitiveType)
	if !ok {
		return false
	}
	switch lit.Kind {
	case ast.EIntLiteral:
		if prim.Primitive.IsFloat() {
			return true
		}
		if !prim.Primitive.IsInteger() {
			return false
		}
		value := int64(lit.IntValue)
		if lit.IsNegative {
			value = -value
		}
		return IntFits(prim.Primitive, value, lit.IsNegative)
	case ast.EFloatLiteral:
		return prim.Primitive.IsFloat()
	default:
		return false
	}
}

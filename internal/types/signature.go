package types

import (
	"fmt"
	"strings"

	"github.com/vexel-lang/vexelc/internal/ast"
)

// Equal is structural type equality, grounded on
// original_source/frontend/src/type/typechecker_generics.cpp's
// `types_equal_static`. Array sizes compare equal if both are the same
// integer-literal value, or are the identical size-expression node
// (spec §3 invariant 4).
func Equal(a, b ast.Type) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch at := a.(type) {
	case *ast.PrimitiveType:
		bt := b.(*ast.PrimitiveType)
		if at.Primitive != bt.Primitive {
			return false
		}
		return true
	case *ast.ArrayType:
		bt := b.(*ast.ArrayType)
		return Equal(at.Element, bt.Element) && arraySizesEqual(at.SizeExpr, bt.SizeExpr)
	case *ast.NamedType:
		bt := b.(*ast.NamedType)
		return at.Name == bt.Name
	case *ast.TypeVar:
		bt := b.(*ast.TypeVar)
		return at.Name == bt.Name
	default:
		return false
	}
}

func arraySizesEqual(a, b *ast.Expr) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind == ast.EIntLiteral && b.Kind == ast.EIntLiteral {
		return a.IntValue == b.IntValue
	}
	return a == b
}

// FreezeSignature reduces array sizes to integer-literal expressions
// whenever they already are one, producing a type value suitable for use
// as a monomorphisation cache key (spec §4.4 "signature... array sizes
// reduced to integer literals, nested element types resolved, names
// normalised. Equality on signatures is structural").
func FreezeSignature(resolved ast.Type) ast.Type {
	if resolved == nil {
		return nil
	}
	arr, ok := resolved.(*ast.ArrayType)
	if !ok {
		return resolved
	}
	frozen := &ast.ArrayType{Element: FreezeSignature(arr.Element), Location: arr.Location}
	if arr.SizeExpr != nil && arr.SizeExpr.Kind == ast.EIntLiteral {
		frozen.SizeExpr = ast.MakeUint(arr.SizeExpr.IntValue, arr.SizeExpr.Location, fmt.Sprint(arr.SizeExpr.IntValue))
	} else {
		frozen.SizeExpr = arr.SizeExpr
	}
	return frozen
}

// MangleTypeComponent renders one type as a name-safe component used to
// build a mangled instantiation name, grounded on
// typechecker_generics.cpp's `mangle_type_component`.
func MangleTypeComponent(t ast.Type) string {
	if t == nil {
		return "unknown"
	}
	switch tt := t.(type) {
	case *ast.PrimitiveType:
		return tt.Primitive.String()
	case *ast.NamedType:
		return tt.Name
	case *ast.ArrayType:
		component := "array_" + MangleTypeComponent(tt.Element)
		switch {
		case tt.SizeExpr != nil && tt.SizeExpr.Kind == ast.EIntLiteral:
			component += fmt.Sprintf("_n%d", tt.SizeExpr.IntValue)
		case tt.SizeExpr != nil:
			component += "_dyn"
		default:
			component += "_unsized"
		}
		return component
	case *ast.TypeVar:
		return "tv_" + tt.Name
	default:
		return "unknown"
	}
}

// MangleGenericName builds `<base>_G_<component>_<component>...`
// (spec §4.4), grounded on typechecker_generics.cpp's
// `mangle_generic_name`.
func MangleGenericName(base string, argTypes []ast.Type) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("_G")
	for _, t := range argTypes {
		b.WriteByte('_')
		b.WriteString(MangleTypeComponent(t))
	}
	return b.String()
}

// Signature is the ordered sequence of frozen argument types keyed by
// (function canonical name, instance_id) in the monomorphiser's cache
// (spec §4.4).
type Signature struct {
	ParamTypes []ast.Type
}

// Key renders a Signature into a comparable Go map key.
func (s Signature) Key() string {
	parts := make([]string, len(s.ParamTypes))
	for i, t := range s.ParamTypes {
		parts[i] = MangleTypeComponent(t)
	}
	return strings.Join(parts, "|")
}

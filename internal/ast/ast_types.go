package ast

import "github.com/vexel-lang/vexelc/internal/source"

// TypeKind tags the variant shape of a Type (spec §3).
type TypeKind int

const (
	KPrimitive TypeKind = iota
	KNamed
	KArray
	KTypeVar
)

// PrimitiveKind enumerates the primitive scalar kinds.
type PrimitiveKind int

const (
	I8 PrimitiveKind = iota
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F32
	F64
	Bool
	StringPrim
)

var primitiveNames = map[PrimitiveKind]string{
	I8: "i8", I16: "i16", I32: "i32", I64: "i64",
	U8: "u8", U16: "u16", U32: "u32", U64: "u64",
	F32: "f32", F64: "f64", Bool: "bool", StringPrim: "string",
}

func (p PrimitiveKind) String() string { return primitiveNames[p] }

func (p PrimitiveKind) IsSignedInt() bool {
	return p == I8 || p == I16 || p == I32 || p == I64
}

func (p PrimitiveKind) IsUnsignedInt() bool {
	return p == U8 || p == U16 || p == U32 || p == U64
}

func (p PrimitiveKind) IsFloat() bool { return p == F32 || p == F64 }

func (p PrimitiveKind) IsInteger() bool { return p.IsSignedInt() || p.IsUnsignedInt() }

// Bits returns the bit width of a primitive, or -1 for string.
func (p PrimitiveKind) Bits() int {
	switch p {
	case I8, U8, Bool:
		return 8
	case I16, U16:
		return 16
	case I32, U32, F32:
		return 32
	case I64, U64, F64:
		return 64
	default:
		return -1
	}
}

// Type is the tagged-variant node described in spec §3. Every concrete
// type is reached through this single pointer-identity-bearing interface;
// Kind() dispatches the type switch every pass needs.
type Type interface {
	Node
	Kind() TypeKind
	String() string
}

// PrimitiveType is `Primitive(kind)`.
type PrimitiveType struct {
	Primitive PrimitiveKind
	Location  source.Location
}

func (t *PrimitiveType) Kind() TypeKind        { return KPrimitive }
func (t *PrimitiveType) Loc() source.Location  { return t.Location }
func (t *PrimitiveType) String() string        { return t.Primitive.String() }

// NamedType is `Named(name, resolved_symbol?)`. ResolvedSymbol is `any`
// (cast to *symbols.Symbol by resolver/typecheck) to avoid an import cycle
// between ast and symbols, the way the teacher's module loader returns
// `interface{}` from GetModuleByPackageName to dodge a similar cycle.
type NamedType struct {
	Name           string
	ResolvedSymbol any
	Location       source.Location
}

func (t *NamedType) Kind() TypeKind       { return KNamed }
func (t *NamedType) Loc() source.Location { return t.Location }
func (t *NamedType) String() string       { return t.Name }

// ArrayType is `Array(element_type, size_expr?)`. SizeExpr is an Expr, not
// an integer, because sizes can involve compile-time evaluation (spec §3).
type ArrayType struct {
	Element  Type
	SizeExpr *Expr
	Location source.Location
}

func (t *ArrayType) Kind() TypeKind       { return KArray }
func (t *ArrayType) Loc() source.Location { return t.Location }
func (t *ArrayType) String() string {
	if t.Element == nil {
		return "[]"
	}
	return t.Element.String() + "[]"
}

// TypeVar is a unification variable.
type TypeVar struct {
	Name     string
	Location source.Location
}

func (t *TypeVar) Kind() TypeKind       { return KTypeVar }
func (t *TypeVar) Loc() source.Location { return t.Location }
func (t *TypeVar) String() string       { return "'" + t.Name }

// TupleTypeInfo is the side table entry for a synthetic tuple type:
// composite tuple types are represented as Named with a synthetic
// canonical name, and this struct maps that name to its element types
// (spec §3 Type variant note).
type TupleTypeInfo struct {
	Name     string
	Elements []Type
}

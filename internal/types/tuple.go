package types

import (
	"fmt"
	"strings"

	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/source"
)

// TupleTable registers synthetic tuple types once per distinct shape
// (spec §4.3.2 "Tuple literal"): composite tuple types are represented as
// Named with a synthetic canonical name, and this table maps the name to
// the element types (spec §3).
//
// Tuple type names are injective on the sequence of element types (spec §3
// invariant 5): CanonicalName is a pure function of the element types, so
// two tuple literals with the same shape always resolve to the same
// NamedType name and therefore the same registered entry.
type TupleTable struct {
	byName map[string]*ast.TupleTypeInfo
}

func NewTupleTable() *TupleTable {
	return &TupleTable{byName: make(map[string]*ast.TupleTypeInfo)}
}

// CanonicalName encodes arity and element types into a synthetic name,
// e.g. "__tuple2_i32_string".
func CanonicalName(elements []ast.Type) string {
	parts := make([]string, len(elements))
	for i, e := range elements {
		parts[i] = MangleTypeComponent(e)
	}
	return fmt.Sprintf("__tuple%d_%s", len(elements), strings.Join(parts, "_"))
}

// FieldName returns the positional field name for a tuple element, e.g.
// index 0 -> "__0" (spec §4.3.2 "Member").
func FieldName(index int) string {
	return fmt.Sprintf("__%d", index)
}

// GetOrCreate registers a tuple shape once and returns its NamedType plus
// whether it was newly registered.
func (t *TupleTable) GetOrCreate(elements []ast.Type, loc source.Location) (*ast.NamedType, bool) {
	name := CanonicalName(elements)
	_, existed := t.byName[name]
	if !existed {
		t.byName[name] = &ast.TupleTypeInfo{Name: name, Elements: elements}
	}
	return &ast.NamedType{Name: name, Location: loc}, !existed
}

// Lookup returns the registered element types for a tuple type name.
func (t *TupleTable) Lookup(name string) (*ast.TupleTypeInfo, bool) {
	info, ok := t.byName[name]
	return info, ok
}

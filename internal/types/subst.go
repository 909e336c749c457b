package types

import "github.com/vexel-lang/vexelc/internal/ast"

// Subst is the type checker's unification-variable substitution map. A
// TypeVar may be bound once to a concrete type (spec §4.3.1); Resolve
// walks bindings to normal form.
type Subst struct {
	bindings map[string]ast.Type
}

func NewSubst() *Subst {
	return &Subst{bindings: make(map[string]ast.Type)}
}

// Bind records tv := t. Binding an already-bound variable overwrites — the
// caller (unify) is responsible for only doing this once per variable per
// spec §4.3.1's "may be bound once" invariant.
func (s *Subst) Bind(name string, t ast.Type) {
	s.bindings[name] = t
}

// Resolve walks s to normal form, following chains of bound type
// variables until it reaches a concrete type or an unbound variable.
func (s *Subst) Resolve(t ast.Type) ast.Type {
	visited := map[string]bool{}
	for {
		tv, ok := t.(*ast.TypeVar)
		if !ok {
			if arr, ok := t.(*ast.ArrayType); ok {
				elem := s.Resolve(arr.Element)
				if elem != arr.Element {
					return &ast.ArrayType{Element: elem, SizeExpr: arr.SizeExpr, Location: arr.Location}
				}
			}
			return t
		}
		if visited[tv.Name] {
			return tv
		}
		visited[tv.Name] = true
		next, bound := s.bindings[tv.Name]
		if !bound {
			return tv
		}
		t = next
	}
}

// IsConcrete reports whether resolving t leaves no residual TypeVar
// anywhere in its structure — the condition the type-use validator checks
// for every used value (spec §4.3.6).
func (s *Subst) IsConcrete(t ast.Type) bool {
	if t == nil {
		return false
	}
	r := s.Resolve(t)
	switch rt := r.(type) {
	case *ast.TypeVar:
		return false
	case *ast.ArrayType:
		return s.IsConcrete(rt.Element)
	default:
		return true
	}
}

// Package generics implements spec §4.4: on-demand monomorphisation of
// generic functions, cached by (canonical name, instance id, frozen
// signature). Grounded on
// original_source/frontend/src/type/typechecker_generics.cpp's
// instantiate/mangle/cache-key flow.
package generics

import (
	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/symbols"
	"github.com/vexel-lang/vexelc/internal/types"
)

// CacheKey is (function canonical name, instance_id, structural
// signature) — spec §4.4.
type CacheKey struct {
	Name       string
	InstanceID ast.InstanceID
	Sig        string
}

// Monomorphiser owns the instantiation cache. TypeCheck is injected by
// the package that wires resolver+typecheck+generics together
// (internal/pipeline): the type checker and the monomorphiser need each
// other (a generic call triggers instantiation; a freshly minted
// instantiation must be type-checked immediately so its return type is
// known at the call site), so rather than an import cycle the dependency
// is a function value set once at startup — the same "register by name,
// no init-order coupling" shape the teacher uses for its backend
// registry.
type Monomorphiser struct {
	Program  *ast.Program
	Bindings *symbols.Bindings

	TypeCheck func(fn *ast.Stmt, instanceID ast.InstanceID, scope *symbols.Scope)

	cache map[CacheKey]*symbols.Symbol
}

func New(prog *ast.Program, bindings *symbols.Bindings) *Monomorphiser {
	return &Monomorphiser{Program: prog, Bindings: bindings, cache: make(map[CacheKey]*symbols.Symbol)}
}

// IsGeneric reports whether fn has at least one unbound type variable in
// its parameters or return type — spec §4.3.3's dispatch condition
// ("any parameter or return type is a type variable").
func IsGeneric(fn *ast.Stmt) bool {
	for _, p := range fn.Params {
		if containsTypeVar(p.Type) {
			return true
		}
	}
	return containsTypeVar(fn.ReturnType)
}

func containsTypeVar(t ast.Type) bool {
	switch tt := t.(type) {
	case nil:
		return false
	case *ast.TypeVar:
		return true
	case *ast.ArrayType:
		return containsTypeVar(tt.Element)
	default:
		return false
	}
}

// Instantiate resolves a cache hit or builds a fresh specialisation of
// generic, returning the Symbol of the (possibly newly minted) concrete
// function. scope is the enclosing scope generic was declared in — the
// instantiation is registered there, "in the same scope" (spec §4.4).
func (m *Monomorphiser) Instantiate(generic *ast.Stmt, instanceID ast.InstanceID, argTypes []ast.Type, scope *symbols.Scope) *symbols.Symbol {
	frozen := make([]ast.Type, len(argTypes))
	for i, t := range argTypes {
		frozen[i] = types.FreezeSignature(t)
	}
	sig := types.Signature{ParamTypes: frozen}
	key := CacheKey{Name: generic.QualifiedFuncName(), InstanceID: instanceID, Sig: sig.Key()}

	if sym, ok := m.cache[key]; ok {
		return sym
	}

	bindings := bindTypeVars(generic, frozen)
	clone := ast.CloneStmt(generic)
	clone.ScopeInstanceID = instanceID
	clone.IsGeneric = false
	clone.IsInstantiation = true
	clone.IsExternal = false
	clone.IsExported = false
	clone.TypeNamespace = ""
	clone.FuncName = types.MangleGenericName(generic.QualifiedFuncName(), frozen)

	for i := range clone.Params {
		clone.Params[i].Type = substitute(clone.Params[i].Type, bindings)
	}
	for i := range clone.RefParamTypes {
		clone.RefParamTypes[i] = substitute(clone.RefParamTypes[i], bindings)
	}
	clone.ReturnType = substitute(clone.ReturnType, bindings)
	substituteBody(clone.Body, bindings)

	sym := &symbols.Symbol{
		Kind: symbols.Function, Name: clone.FuncName, Declaration: clone,
		Type: clone.ReturnType, InstanceID: instanceID,
	}
	scope.Declare(clone.FuncName, sym)
	m.Bindings.Bind(instanceID, clone, sym)
	m.cache[key] = sym

	if m.TypeCheck != nil {
		m.TypeCheck(clone, instanceID, scope)
	}

	return sym
}

// bindTypeVars maps each generic parameter's TypeVar name to the concrete
// argument type found in the same position — the substitution generics
// applies throughout the cloned function.
func bindTypeVars(generic *ast.Stmt, argTypes []ast.Type) map[string]ast.Type {
	out := make(map[string]ast.Type)
	for i, p := range generic.Params {
		if i >= len(argTypes) {
			break
		}
		if tv, ok := p.Type.(*ast.TypeVar); ok {
			out[tv.Name] = argTypes[i]
		}
	}
	return out
}

func substitute(t ast.Type, bindings map[string]ast.Type) ast.Type {
	switch tt := t.(type) {
	case nil:
		return nil
	case *ast.TypeVar:
		if concrete, ok := bindings[tt.Name]; ok {
			return concrete
		}
		return tt
	case *ast.ArrayType:
		return &ast.ArrayType{Element: substitute(tt.Element, bindings), SizeExpr: tt.SizeExpr, Location: tt.Location}
	default:
		return t
	}
}

// substituteBody rewrites every TargetType/DeclaredType occurrence inside
// a cloned function body that references a bound type variable — the
// body-wide part of "substitute every occurrence of each bound type
// variable in parameters / ref-param types / return types / the body"
// (spec §4.4).
func substituteBody(e *ast.Expr, bindings map[string]ast.Type) {
	if e == nil || len(bindings) == 0 {
		return
	}
	if e.TargetType != nil {
		e.TargetType = substitute(e.TargetType, bindings)
	}
	if e.DeclaredType != nil {
		e.DeclaredType = substitute(e.DeclaredType, bindings)
	}
	ast.WalkExprChildren(e, func(c *ast.Expr) { substituteBody(c, bindings) }, func(s *ast.Stmt) { substituteStmt(s, bindings) })
}

func substituteStmt(s *ast.Stmt, bindings map[string]ast.Type) {
	if s == nil || len(bindings) == 0 {
		return
	}
	if s.VarType != nil {
		s.VarType = substitute(s.VarType, bindings)
	}
	ast.WalkStmtChildren(s, func(c *ast.Expr) { substituteBody(c, bindings) }, func(c *ast.Stmt) { substituteStmt(c, bindings) })
}

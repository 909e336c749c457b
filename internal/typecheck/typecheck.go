// Package typecheck implements spec §4.3: unification-lite type checking
// over an already-resolved AST. It computes every expression's Type in
// place, rewrites binary/iteration expressions that dispatch to a
// user-defined method (operator overloading, custom iteration) into
// ECall nodes, and drives on-demand generic monomorphisation through
// internal/generics. Grounded on
// original_source/frontend/src/type/type_checker.cpp's single
// depth-first walk plus its `checked` re-entry guard (spec §5).
package typecheck

import (
	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/ctime"
	"github.com/vexel-lang/vexelc/internal/diag"
	"github.com/vexel-lang/vexelc/internal/generics"
	"github.com/vexel-lang/vexelc/internal/symbols"
	"github.com/vexel-lang/vexelc/internal/types"
)

// checkedKey guards against re-type-checking the same statement twice
// within the same module instance (spec §5).
type checkedKey struct {
	InstanceID ast.InstanceID
	Stmt       *ast.Stmt
}

// Checker walks every module instance's top-level statements, typing
// every expression it reaches. Name lookups it still needs (operator
// overload dispatch, struct-constructor resolution) only ever target
// root-level declarations, so — unlike the resolver — it only needs each
// instance's root Scope, never the nested block scopes the resolver built
// and discarded.
type Checker struct {
	Program  *ast.Program
	Bindings *symbols.Bindings
	Tuples   *types.TupleTable
	Scopes   map[ast.InstanceID]*symbols.Scope
	Generics *generics.Monomorphiser
	CTime    *ctime.Evaluator

	checked           map[checkedKey]bool
	currentReturnType ast.Type

	errs diag.Aggregate
}

func New(prog *ast.Program, bindings *symbols.Bindings, tuples *types.TupleTable, scopes map[ast.InstanceID]*symbols.Scope, gen *generics.Monomorphiser, ctimeEval *ctime.Evaluator) *Checker {
	c := &Checker{
		Program: prog, Bindings: bindings, Tuples: tuples, Scopes: scopes,
		Generics: gen, CTime: ctimeEval, checked: make(map[checkedKey]bool),
	}
	if gen != nil {
		gen.TypeCheck = c.checkFuncDecl
	}
	return c
}

// CheckProgram type-checks every module instance's top-level statements,
// in instance-creation order (spec §5: "instances processed in
// declaration order").
func (c *Checker) CheckProgram() *diag.Aggregate {
	for id := ast.InstanceID(0); int(id) < len(c.Program.Instances); id++ {
		stmts, ok := c.Program.InstanceTopLevel[id]
		if !ok {
			continue
		}
		scope := c.Scopes[id]
		for _, s := range stmts {
			c.checkTopStmt(s, id, scope)
		}
	}
	if c.errs.HasErrors() {
		return &c.errs
	}
	return nil
}

func (c *Checker) checkTopStmt(s *ast.Stmt, instanceID ast.InstanceID, scope *symbols.Scope) {
	if s.Kind == ast.SImport {
		return // already expanded by the resolver
	}
	c.checkStmt(s, instanceID, scope)
}

func (c *Checker) checkStmt(s *ast.Stmt, instanceID ast.InstanceID, scope *symbols.Scope) {
	if s == nil {
		return
	}
	switch s.Kind {
	case ast.SExpr:
		c.checkExpr(s.Expr, instanceID, scope)

	case ast.SReturn:
		if s.ReturnExpr == nil {
			return
		}
		rt := c.checkExpr(s.ReturnExpr, instanceID, scope)
		if c.currentReturnType != nil && rt != nil && !c.assignableExpr(s.ReturnExpr, rt, c.currentReturnType) {
			c.errs.Add(diag.New(diag.TypeError, s.ReturnExpr.Location,
				"cannot return %s from a function declared to return %s", rt.String(), c.currentReturnType.String()))
		}

	case ast.SBreak, ast.SContinue:
		// no children to type

	case ast.SVarDecl:
		c.checkVarDecl(s, instanceID, scope)

	case ast.STypeDecl:
		// Field types were already resolved to concrete types by the
		// resolver; nothing further to check.

	case ast.SFuncDecl:
		c.checkFuncDecl(s, instanceID, scope)

	case ast.SImport:
		// a nested import is never expanded by the resolver; nothing to type

	case ast.SConditionalStmt:
		c.checkConditionalStmt(s, instanceID, scope)
	}
}

func (c *Checker) checkVarDecl(s *ast.Stmt, instanceID ast.InstanceID, scope *symbols.Scope) {
	var initType ast.Type
	if s.VarInit != nil {
		initType = c.checkExpr(s.VarInit, instanceID, scope)
		if s.VarType != nil && initType != nil && !c.assignableExpr(s.VarInit, initType, s.VarType) {
			c.errs.Add(diag.New(diag.TypeError, s.VarInit.Location,
				"cannot initialise %q of type %s with a value of type %s", s.VarName, s.VarType.String(), initType.String()))
		}
	}
	sym, ok := c.Bindings.Lookup(instanceID, s)
	if !ok || sym == nil {
		return
	}
	if s.VarType == nil && initType != nil {
		sym.Type = initType
	}
}

func (c *Checker) checkFuncDecl(fn *ast.Stmt, instanceID ast.InstanceID, scope *symbols.Scope) {
	key := checkedKey{InstanceID: instanceID, Stmt: fn}
	if c.checked[key] {
		return
	}
	c.checked[key] = true

	if fn.IsGeneric || generics.IsGeneric(fn) || fn.IsExternal || fn.Body == nil {
		return
	}

	prevReturn := c.currentReturnType
	c.currentReturnType = fn.ReturnType
	c.checkExpr(fn.Body, instanceID, scope)
	c.currentReturnType = prevReturn
}

func (c *Checker) checkConditionalStmt(s *ast.Stmt, instanceID ast.InstanceID, scope *symbols.Scope) {
	ct := c.checkExpr(s.Condition, instanceID, scope)
	if ct != nil && types.FamilyOf(ct) != types.FamilyBool {
		c.errs.Add(diag.New(diag.TypeError, s.Condition.Location, "condition must be bool, found %s", ct.String()))
	}

	if status, v, _ := c.CTime.Query(s.Condition, instanceID); status == ctime.Known && !v.Truthy() {
		// Dead branch under a known-false compile-time condition: spec
		// §4.3.4 only requires the live branch to type-check.
		return
	}
	if s.TrueStmt != nil {
		c.checkStmt(s.TrueStmt, instanceID, scope)
	}
}

package resolver

import (
	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/diag"
	"github.com/vexel-lang/vexelc/internal/symbols"
)

func (r *Resolver) resolveExpr(e *ast.Expr, instanceID ast.InstanceID, scope *symbols.Scope) {
	if e == nil {
		return
	}

	switch e.Kind {
	case ast.EIntLiteral, ast.EFloatLiteral, ast.EStringLiteral, ast.ECharLiteral:
		// no children

	case ast.EIdentifier:
		r.resolveIdentifier(e, instanceID, scope)

	case ast.EBinary, ast.ERange:
		r.resolveExpr(e.Left, instanceID, scope)
		r.resolveExpr(e.Right, instanceID, scope)

	case ast.EUnary, ast.ELength:
		r.resolveExpr(e.Operand, instanceID, scope)

	case ast.ECast:
		r.resolveExpr(e.Operand, instanceID, scope)
		r.resolveType(e.TargetType, instanceID, scope)

	case ast.ECall:
		r.resolveExpr(e.Operand, instanceID, scope)
		for _, rec := range e.Receivers {
			r.resolveExpr(rec, instanceID, scope)
		}
		for _, a := range e.Args {
			r.resolveExpr(a, instanceID, scope)
		}

	case ast.EIndex:
		r.resolveExpr(e.Operand, instanceID, scope)
		for _, a := range e.Args {
			r.resolveExpr(a, instanceID, scope)
		}

	case ast.EMember:
		r.resolveExpr(e.Operand, instanceID, scope)
		// e.Field is a field name, resolved against the operand's type by
		// the type checker once that type is known — not a scope lookup.

	case ast.EArrayLiteral, ast.ETupleLiteral:
		for _, el := range e.Elements {
			r.resolveExpr(el, instanceID, scope)
		}

	case ast.EBlock:
		blockScope := scope.NewChild()
		for _, s := range e.Statements {
			r.resolveStmt(s, instanceID, blockScope)
		}
		r.resolveExpr(e.ResultExpr, instanceID, blockScope)

	case ast.EConditional:
		r.resolveExpr(e.Condition, instanceID, scope)
		r.resolveExpr(e.TrueExpr, instanceID, scope)
		r.resolveExpr(e.FalseExpr, instanceID, scope)

	case ast.EAssignment:
		r.resolveAssignment(e, instanceID, scope)

	case ast.EIteration:
		r.resolveExpr(e.Operand, instanceID, scope)
		loopScope := scope.NewChild()
		loopVar := &symbols.Symbol{
			Kind: symbols.Variable, Name: "_", InstanceID: instanceID, IsLocal: true,
		}
		loopScope.Declare("_", loopVar)
		r.resolveExpr(e.Right, instanceID, loopScope)

	case ast.ERepeat:
		r.resolveExpr(e.Condition, instanceID, scope)
		r.resolveExpr(e.Right, instanceID, scope)

	case ast.EResource:
		// PathSegments are resolved to a filesystem resource at evaluation
		// time (spec §4.9), not against the symbol table.

	case ast.EProcess:
		for _, a := range e.ProcessArgs {
			r.resolveExpr(a, instanceID, scope)
		}
	}
}

func (r *Resolver) resolveIdentifier(e *ast.Expr, instanceID ast.InstanceID, scope *symbols.Scope) {
	if e.IsExprParamRef {
		// Expression-parameter references are inlined from the call-site
		// AST stack by the evaluator/type checker, not looked up here
		// (spec §4.5 "Expression-parameter substitution").
		return
	}
	sym := scope.Lookup(e.Name)
	if sym == nil {
		r.errs.Add(diag.New(diag.ResolveError, e.Location, "undefined identifier %q", e.Name))
		return
	}
	e.ResolvedSymbol = sym
	r.Bindings.Bind(instanceID, e, sym)
}

// resolveAssignment implements spec §4.2's declaration-vs-mutation split
// for assignment targets (finalised in §4.3.5, but which case applies is
// decided here, since it depends on binding state).
func (r *Resolver) resolveAssignment(e *ast.Expr, instanceID ast.InstanceID, scope *symbols.Scope) {
	left := e.Left
	if left == nil {
		return
	}

	if left.Kind != ast.EIdentifier || left.IsExprParamRef {
		// Member/index (possibly chained) mutation target: resolve
		// normally, no new binding is ever introduced.
		r.resolveExpr(left, instanceID, scope)
		r.resolveExpr(e.Right, instanceID, scope)
		return
	}

	if existing := scope.Lookup(left.Name); existing != nil {
		if left.Name != "_" && !existing.IsMutable {
			r.errs.Add(diag.New(diag.ResolveError, left.Location, "cannot assign to immutable %q", left.Name))
		}
		if left.Name == "_" {
			r.errs.Add(diag.New(diag.ResolveError, left.Location, "loop variable \"_\" cannot be reassigned"))
		}
		left.ResolvedSymbol = existing
		r.Bindings.Bind(instanceID, left, existing)
		r.resolveExpr(e.Right, instanceID, scope)
		return
	}

	// Declaration-assignment: a top-level unbound name becomes a
	// constant (its value must be foldable in source order); anywhere
	// else it becomes a new mutable local (spec §4.2, §4.5).
	e.CreatesNewVariable = true
	r.resolveExpr(e.Right, instanceID, scope)

	kind := symbols.Variable
	mutable := true
	if scope.IsRoot {
		kind = symbols.Constant
		mutable = false
	}
	sym := &symbols.Symbol{
		Kind: kind, Name: left.Name, Type: left.DeclaredType,
		IsMutable: mutable, InstanceID: instanceID, IsLocal: !scope.IsRoot,
	}
	if kind == symbols.Constant {
		sym.InitExpr = e.Right
	}
	scope.Declare(left.Name, sym)
	left.ResolvedSymbol = sym
	r.Bindings.Bind(instanceID, left, sym)
}

package typecheck

import (
	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/diag"
	"github.com/vexel-lang/vexelc/internal/symbols"
	"github.com/vexel-lang/vexelc/internal/types"
)

var comparisonOps = map[string]bool{"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true}
var logicalOps = map[string]bool{"&&": true, "||": true}

// checkBinary type-checks a binary expression, dispatching to operator
// overloading when the left operand is a named type (spec §4.3.2: "a
// binary operator op on receiver of named type T attempts lookup of
// function T::op; if found, the binary node is rewritten in-place into a
// method call").
func (c *Checker) checkBinary(e *ast.Expr, instanceID ast.InstanceID, scope *symbols.Scope) ast.Type {
	lt := c.checkExpr(e.Left, instanceID, scope)
	rt := c.checkExpr(e.Right, instanceID, scope)

	if named, ok := lt.(*ast.NamedType); ok {
		methodName := named.Name + "::" + e.Op
		if sym := scope.Lookup(methodName); sym != nil && sym.Kind == symbols.Function {
			return c.rewriteOperatorCall(e, sym, instanceID, scope)
		}
		c.errs.Add(diag.New(diag.TypeError, e.Location, "type %q has no operator %q (expected method %q)", named.Name, e.Op, methodName))
		return nil
	}

	if lt == nil || rt == nil {
		return nil
	}

	switch {
	case logicalOps[e.Op]:
		if types.FamilyOf(lt) != types.FamilyBool || types.FamilyOf(rt) != types.FamilyBool {
			c.errs.Add(diag.New(diag.TypeError, e.Location, "%q requires bool operands, found %s and %s", e.Op, lt.String(), rt.String()))
		}
		e.Type = boolType(e)

	case comparisonOps[e.Op]:
		if !types.SameFamily(lt, rt) {
			c.errs.Add(diag.New(diag.TypeError, e.Location, "cannot compare %s with %s", lt.String(), rt.String()))
		}
		e.Type = boolType(e)

	default:
		if !types.SameFamily(lt, rt) {
			c.errs.Add(diag.New(diag.TypeError, e.Location, "operator %q requires operands of the same family, found %s and %s", e.Op, lt.String(), rt.String()))
			e.Type = lt
		} else {
			e.Type = types.JoinFamily(lt, rt)
		}
	}
	return e.Type
}

// rewriteOperatorCall mutates e in place from EBinary into ECall — single
// receiver (the left operand), the right operand as the sole argument —
// preserving e's pointer identity so any Bindings entry keyed on it stays
// valid (spec §9).
func (c *Checker) rewriteOperatorCall(e *ast.Expr, sym *symbols.Symbol, instanceID ast.InstanceID, scope *symbols.Scope) ast.Type {
	receiver := e.Left
	arg := e.Right

	e.Kind = ast.ECall
	e.Operand = &ast.Expr{Kind: ast.EIdentifier, Name: sym.Name, ResolvedSymbol: sym, Location: e.Location}
	e.Receivers = []*ast.Expr{receiver}
	e.Args = []*ast.Expr{arg}
	e.Left, e.Right = nil, nil

	return c.checkCall(e, instanceID, scope)
}

// checkUnary type-checks a unary expression. Unary operators have no
// overload hook (spec §4.3.2 only names binary operator overloading).
func (c *Checker) checkUnary(e *ast.Expr, instanceID ast.InstanceID, scope *symbols.Scope) ast.Type {
	ot := c.checkExpr(e.Operand, instanceID, scope)
	if ot == nil {
		return nil
	}
	switch e.Op {
	case "!":
		if types.FamilyOf(ot) != types.FamilyBool {
			c.errs.Add(diag.New(diag.TypeError, e.Location, "%q requires a bool operand, found %s", e.Op, ot.String()))
		}
		e.Type = boolType(e)
	default: // "-", "~"
		fam := types.FamilyOf(ot)
		if fam != types.FamilySigned && fam != types.FamilyUnsigned && fam != types.FamilyFloat {
			c.errs.Add(diag.New(diag.TypeError, e.Location, "%q requires a numeric operand, found %s", e.Op, ot.String()))
		}
		e.Type = ot
	}
	return e.Type
}

package typecheck

import (
	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/diag"
	"github.com/vexel-lang/vexelc/internal/symbols"
)

// checkIteration type-checks `x @ body` / `x @@ body` (spec §4.3.4). A
// built-in array binds the loop variable `_` to the element type. A named
// type dispatches to a user-defined `T::@`/`T::@@` iterator method, and
// the node is rewritten in place into a method call passing body as the
// expression-parameter argument — "first-class custom iteration without
// adding iterator protocol types."
func (c *Checker) checkIteration(e *ast.Expr, instanceID ast.InstanceID, scope *symbols.Scope) ast.Type {
	subject := e.Operand
	subjType := c.checkExpr(subject, instanceID, scope)

	if arr, ok := subjType.(*ast.ArrayType); ok {
		if loopVar := findIdentSymbol(e.Right, "_"); loopVar != nil {
			loopVar.Type = arr.Element
		}
		c.checkExpr(e.Right, instanceID, scope)
		e.Type = nil
		return nil
	}

	named, ok := subjType.(*ast.NamedType)
	if !ok {
		if subjType != nil {
			c.errs.Add(diag.New(diag.TypeError, e.Location, "cannot iterate a value of type %s", subjType.String()))
		}
		return nil
	}

	spelling := "@"
	if e.Sorted {
		spelling = "@@"
	}
	methodName := named.Name + "::" + spelling
	sym := scope.Lookup(methodName)
	if sym == nil || sym.Kind != symbols.Function {
		c.errs.Add(diag.New(diag.TypeError, e.Location, "type %q has no %s iteration method (expected %q)", named.Name, spelling, methodName))
		return nil
	}

	e.Kind = ast.ECall
	e.Operand = &ast.Expr{Kind: ast.EIdentifier, Name: sym.Name, ResolvedSymbol: sym, Location: e.Location}
	e.Receivers = []*ast.Expr{subject}
	e.Args = []*ast.Expr{e.Right}
	e.Right = nil

	return c.checkCall(e, instanceID, scope)
}

package typecheck

import (
	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/diag"
	"github.com/vexel-lang/vexelc/internal/generics"
	"github.com/vexel-lang/vexelc/internal/symbols"
)

// checkCall dispatches a call expression to struct construction, generic
// instantiation, or a normal arity/argument-type check, grounded on
// original_source/frontend/src/type/type_checker.cpp's check_call.
func (c *Checker) checkCall(e *ast.Expr, instanceID ast.InstanceID, scope *symbols.Scope) ast.Type {
	for _, r := range e.Receivers {
		c.checkExpr(r, instanceID, scope)
	}
	argTypes := make([]ast.Type, len(e.Args))
	for i, a := range e.Args {
		argTypes[i] = c.checkExpr(a, instanceID, scope)
	}

	sym, ok := e.Operand.ResolvedSymbol.(*symbols.Symbol)
	if !ok || sym == nil {
		return nil
	}

	if sym.Kind == symbols.TypeSym {
		return c.checkStructConstructor(e, sym, argTypes)
	}

	if sym.Kind != symbols.Function {
		c.errs.Add(diag.New(diag.TypeError, e.Location, "%q is not callable", sym.Name))
		return nil
	}

	fn := sym.Declaration
	if fn == nil {
		return sym.Type
	}

	if fn.IsGeneric || generics.IsGeneric(fn) {
		instantiated := c.Generics.Instantiate(fn, instanceID, argTypes, scope)
		e.Operand.ResolvedSymbol = instantiated
		e.Operand.Name = instantiated.Name
		sym = instantiated
		fn = instantiated.Declaration
	}

	if len(e.Args) != len(fn.Params) {
		c.errs.Add(diag.New(diag.TypeError, e.Location, "%q expects %d argument(s), found %d", sym.Name, len(fn.Params), len(e.Args)))
	} else {
		for i, p := range fn.Params {
			if p.Type == nil || p.IsExpressionParam || argTypes[i] == nil {
				continue
			}
			if !c.assignableExpr(e.Args[i], argTypes[i], p.Type) {
				c.errs.Add(diag.New(diag.TypeError, e.Args[i].Location,
					"argument %d to %q: cannot use value of type %s as %s", i+1, sym.Name, argTypes[i].String(), p.Type.String()))
			}
		}
	}

	if len(e.Receivers) != len(fn.RefParams) {
		c.errs.Add(diag.New(diag.TypeError, e.Location, "%q expects %d receiver(s), found %d", sym.Name, len(fn.RefParams), len(e.Receivers)))
	} else {
		for i, recv := range e.Receivers {
			if i >= len(fn.RefParamTypes) || fn.RefParamTypes[i] == nil {
				continue
			}
			rt := c.checkExpr(recv, instanceID, scope)
			if rt != nil && !c.assignableExpr(recv, rt, fn.RefParamTypes[i]) {
				c.errs.Add(diag.New(diag.TypeError, recv.Location,
					"receiver %d to %q: cannot use value of type %s as %s", i+1, sym.Name, rt.String(), fn.RefParamTypes[i].String()))
			}
		}
	}

	e.Type = fn.ReturnType
	return e.Type
}

func (c *Checker) checkStructConstructor(e *ast.Expr, sym *symbols.Symbol, argTypes []ast.Type) ast.Type {
	decl := sym.Declaration
	if decl == nil {
		return nil
	}
	if len(e.Args) != len(decl.Fields) {
		c.errs.Add(diag.New(diag.TypeError, e.Location, "%q expects %d field(s), found %d", sym.Name, len(decl.Fields), len(e.Args)))
	} else {
		for i, f := range decl.Fields {
			if f.Type == nil || argTypes[i] == nil {
				continue
			}
			if !c.assignableExpr(e.Args[i], argTypes[i], f.Type) {
				c.errs.Add(diag.New(diag.TypeError, e.Args[i].Location,
					"field %q of %q: cannot use value of type %s as %s", f.Name, sym.Name, argTypes[i].String(), f.Type.String()))
			}
		}
	}
	named := &ast.NamedType{Name: sym.Name, ResolvedSymbol: sym, Location: e.Location}
	e.Type = named
	return named
}

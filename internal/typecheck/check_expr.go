package typecheck

import (
	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/ctime"
	"github.com/vexel-lang/vexelc/internal/diag"
	"github.com/vexel-lang/vexelc/internal/symbols"
	"github.com/vexel-lang/vexelc/internal/types"
)

// checkExpr computes e's Type in place and returns it. nil means "this
// expression never produces a value" (a void call, a repeat loop) or "an
// error already reported" — callers must tolerate a nil result.
func (c *Checker) checkExpr(e *ast.Expr, instanceID ast.InstanceID, scope *symbols.Scope) ast.Type {
	if e == nil {
		return nil
	}

	switch e.Kind {
	case ast.EIntLiteral:
		v := int64(e.IntValue)
		if e.IsNegative {
			v = -v
		}
		e.Type = &ast.PrimitiveType{Primitive: types.SmallestFittingInt(v, e.IsNegative), Location: e.Location}
		return e.Type

	case ast.EFloatLiteral:
		e.Type = &ast.PrimitiveType{Primitive: ast.F64, Location: e.Location}
		return e.Type

	case ast.EStringLiteral:
		e.Type = &ast.PrimitiveType{Primitive: ast.StringPrim, Location: e.Location}
		return e.Type

	case ast.ECharLiteral:
		e.Type = &ast.PrimitiveType{Primitive: ast.U8, Location: e.Location}
		return e.Type

	case ast.EIdentifier:
		return c.checkIdentifier(e, instanceID, scope)

	case ast.EBinary:
		return c.checkBinary(e, instanceID, scope)

	case ast.EUnary:
		return c.checkUnary(e, instanceID, scope)

	case ast.ECast:
		c.checkExpr(e.Operand, instanceID, scope)
		e.Type = e.TargetType
		return e.Type

	case ast.ECall:
		return c.checkCall(e, instanceID, scope)

	case ast.EIndex:
		return c.checkIndex(e, instanceID, scope)

	case ast.EMember:
		return c.checkMember(e, instanceID, scope)

	case ast.EArrayLiteral:
		return c.checkArrayLiteral(e, instanceID, scope)

	case ast.ETupleLiteral:
		return c.checkTupleLiteral(e, instanceID, scope)

	case ast.EBlock:
		for _, s := range e.Statements {
			c.checkStmt(s, instanceID, scope)
		}
		if e.ResultExpr != nil {
			e.Type = c.checkExpr(e.ResultExpr, instanceID, scope)
		} else {
			e.Type = nil
		}
		return e.Type

	case ast.EConditional:
		return c.checkConditional(e, instanceID, scope)

	case ast.EAssignment:
		return c.checkAssignment(e, instanceID, scope)

	case ast.ERange:
		return c.checkRange(e, instanceID, scope)

	case ast.ELength:
		c.checkExpr(e.Operand, instanceID, scope)
		e.Type = &ast.PrimitiveType{Primitive: ast.U64, Location: e.Location}
		return e.Type

	case ast.EIteration:
		return c.checkIteration(e, instanceID, scope)

	case ast.ERepeat:
		ct := c.checkExpr(e.Condition, instanceID, scope)
		if ct != nil && types.FamilyOf(ct) != types.FamilyBool {
			c.errs.Add(diag.New(diag.TypeError, e.Condition.Location, "repeat condition must be bool, found %s", ct.String()))
		}
		c.checkExpr(e.Right, instanceID, scope)
		e.Type = nil
		return nil

	case ast.EResource:
		// A loaded resource surfaces as its file contents (spec §4.9).
		e.Type = &ast.PrimitiveType{Primitive: ast.StringPrim, Location: e.Location}
		return e.Type

	case ast.EProcess:
		for _, a := range e.ProcessArgs {
			c.checkExpr(a, instanceID, scope)
		}
		// A subprocess invocation surfaces as its captured stdout.
		e.Type = &ast.PrimitiveType{Primitive: ast.StringPrim, Location: e.Location}
		return e.Type

	default:
		return nil
	}
}

func (c *Checker) checkIdentifier(e *ast.Expr, instanceID ast.InstanceID, scope *symbols.Scope) ast.Type {
	if e.IsExprParamRef {
		// Opaque until the evaluator substitutes the call-site argument
		// (spec §4.3.6 treats these as exempt from the type-use check).
		return nil
	}
	sym, ok := e.ResolvedSymbol.(*symbols.Symbol)
	if !ok || sym == nil {
		return nil
	}
	e.Type = sym.Type
	return sym.Type
}

func (c *Checker) checkConditional(e *ast.Expr, instanceID ast.InstanceID, scope *symbols.Scope) ast.Type {
	ct := c.checkExpr(e.Condition, instanceID, scope)
	if ct != nil && types.FamilyOf(ct) != types.FamilyBool {
		c.errs.Add(diag.New(diag.TypeError, e.Condition.Location, "condition must be bool, found %s", ct.String()))
	}

	if status, v, _ := c.CTime.Query(e.Condition, instanceID); status == ctime.Known {
		// spec §4.3.4: "if the condition is constexpr-known, only the
		// live branch's type is required" — the dead branch may be
		// entirely unchecked (e.g. meta-programmed out).
		if v.Truthy() {
			e.Type = c.checkExpr(e.TrueExpr, instanceID, scope)
		} else {
			e.Type = c.checkExpr(e.FalseExpr, instanceID, scope)
		}
		return e.Type
	}

	tt := c.checkExpr(e.TrueExpr, instanceID, scope)
	ft := c.checkExpr(e.FalseExpr, instanceID, scope)
	switch {
	case tt == nil:
		e.Type = ft
	case ft == nil:
		e.Type = tt
	case types.Equal(tt, ft):
		e.Type = tt
	case types.SameFamily(tt, ft):
		e.Type = types.JoinFamily(tt, ft)
	default:
		c.errs.Add(diag.New(diag.TypeError, e.Location, "branches of conditional have incompatible types %s and %s", tt.String(), ft.String()))
		e.Type = tt
	}
	return e.Type
}

func (c *Checker) checkAssignment(e *ast.Expr, instanceID ast.InstanceID, scope *symbols.Scope) ast.Type {
	rt := c.checkExpr(e.Right, instanceID, scope)

	if e.CreatesNewVariable {
		sym, ok := e.Left.ResolvedSymbol.(*symbols.Symbol)
		if !ok || sym == nil {
			return nil
		}
		if e.Left.DeclaredType != nil {
			if rt != nil && !c.assignableExpr(e.Right, rt, e.Left.DeclaredType) {
				c.errs.Add(diag.New(diag.TypeError, e.Location,
					"cannot initialise %q of type %s with a value of type %s", sym.Name, e.Left.DeclaredType.String(), rt.String()))
			}
			sym.Type = e.Left.DeclaredType
		} else {
			sym.Type = rt
		}
		e.Left.Type = sym.Type
		e.Type = sym.Type
		return e.Type
	}

	lt := c.checkExpr(e.Left, instanceID, scope)
	if lt != nil && rt != nil && !c.assignableExpr(e.Right, rt, lt) {
		c.errs.Add(diag.New(diag.TypeError, e.Location, "cannot assign value of type %s to %s", rt.String(), lt.String()))
	}
	e.Type = lt
	return lt
}

func (c *Checker) checkRange(e *ast.Expr, instanceID ast.InstanceID, scope *symbols.Scope) ast.Type {
	lt := c.checkExpr(e.Left, instanceID, scope)
	rt := c.checkExpr(e.Right, instanceID, scope)
	elem := ast.Type(&ast.PrimitiveType{Primitive: ast.I64, Location: e.Location})
	if lt != nil && (types.FamilyOf(lt) == types.FamilySigned || types.FamilyOf(lt) == types.FamilyUnsigned) {
		elem = lt
	} else if rt != nil {
		elem = rt
	}
	e.Type = &ast.ArrayType{Element: elem, Location: e.Location}
	return e.Type
}

func (c *Checker) checkIndex(e *ast.Expr, instanceID ast.InstanceID, scope *symbols.Scope) ast.Type {
	baseType := c.checkExpr(e.Operand, instanceID, scope)
	for _, a := range e.Args {
		c.checkExpr(a, instanceID, scope)
	}
	arr, ok := baseType.(*ast.ArrayType)
	if !ok {
		if baseType != nil {
			c.errs.Add(diag.New(diag.TypeError, e.Location, "cannot index a value of type %s", baseType.String()))
		}
		return nil
	}
	e.Type = arr.Element
	return e.Type
}

func (c *Checker) checkMember(e *ast.Expr, instanceID ast.InstanceID, scope *symbols.Scope) ast.Type {
	baseType := c.checkExpr(e.Operand, instanceID, scope)
	named, ok := baseType.(*ast.NamedType)
	if !ok {
		if baseType != nil {
			c.errs.Add(diag.New(diag.TypeError, e.Location, "cannot access field %q on a value of type %s", e.Field, baseType.String()))
		}
		return nil
	}
	if info, ok := c.Tuples.Lookup(named.Name); ok {
		for i, elemType := range info.Elements {
			if types.FieldName(i) == e.Field {
				e.Type = elemType
				return elemType
			}
		}
	}
	sym, ok := named.ResolvedSymbol.(*symbols.Symbol)
	if !ok || sym == nil || sym.Declaration == nil {
		return nil
	}
	for _, f := range sym.Declaration.Fields {
		if f.Name == e.Field {
			e.Type = f.Type
			return f.Type
		}
	}
	c.errs.Add(diag.New(diag.TypeError, e.Location, "type %q has no field %q", named.Name, e.Field))
	return nil
}

func (c *Checker) checkArrayLiteral(e *ast.Expr, instanceID ast.InstanceID, scope *symbols.Scope) ast.Type {
	var elem ast.Type
	for _, el := range e.Elements {
		t := c.checkExpr(el, instanceID, scope)
		if elem == nil {
			elem = t
			continue
		}
		if t == nil {
			continue
		}
		if types.SameFamily(elem, t) {
			elem = types.JoinFamily(elem, t)
		} else if !types.Equal(elem, t) {
			c.errs.Add(diag.New(diag.TypeError, el.Location, "array elements must share a type: %s vs %s", elem.String(), t.String()))
		}
	}
	size := ast.MakeUint(uint64(len(e.Elements)), e.Location, "")
	e.Type = &ast.ArrayType{Element: elem, SizeExpr: size, Location: e.Location}
	return e.Type
}

func (c *Checker) checkTupleLiteral(e *ast.Expr, instanceID ast.InstanceID, scope *symbols.Scope) ast.Type {
	elemTypes := make([]ast.Type, len(e.Elements))
	for i, el := range e.Elements {
		elemTypes[i] = c.checkExpr(el, instanceID, scope)
	}
	named, _ := c.Tuples.GetOrCreate(elemTypes, e.Location)
	e.Type = named
	return named
}

package ctime

import (
	"sort"

	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/diag"
)

func (ev *Evaluator) evalBinary(e *ast.Expr, fr *frame) outcome {
	if e.Op == "&&" {
		lOut := ev.evalExpr(e.Left, fr)
		if lOut.Status != Known {
			return lOut
		}
		if !lOut.Value.Truthy() {
			return known(BoolValue(false))
		}
		rOut := ev.evalExpr(e.Right, fr)
		if rOut.Status != Known {
			return rOut
		}
		return known(BoolValue(rOut.Value.Truthy()))
	}
	if e.Op == "||" {
		lOut := ev.evalExpr(e.Left, fr)
		if lOut.Status != Known {
			return lOut
		}
		if lOut.Value.Truthy() {
			return known(BoolValue(true))
		}
		rOut := ev.evalExpr(e.Right, fr)
		if rOut.Status != Known {
			return rOut
		}
		return known(BoolValue(rOut.Value.Truthy()))
	}

	lOut := ev.evalExpr(e.Left, fr)
	if lOut.Status != Known {
		return lOut
	}
	rOut := ev.evalExpr(e.Right, fr)
	if rOut.Status != Known {
		return rOut
	}
	l, r := lOut.Value, rOut.Value

	if e.Op == "+" && (l.Kind == VString || r.Kind == VString) {
		return known(StringValue(l.String() + r.String()))
	}
	if !isNumeric(l) || !isNumeric(r) {
		return unknownOut()
	}

	switch e.Op {
	case "+", "-", "*":
		return known(numericArith(e.Op, l, r))
	case "/":
		if r.AsFloat64() == 0 {
			return failedOut(diag.New(diag.EvalError, e.Location, "division by zero"))
		}
		return known(numericArith(e.Op, l, r))
	case "%":
		if int64(r.AsFloat64()) == 0 {
			return failedOut(diag.New(diag.EvalError, e.Location, "modulo by zero"))
		}
		return known(numericArith(e.Op, l, r))
	case "==":
		return known(BoolValue(valuesEqual(l, r)))
	case "!=":
		return known(BoolValue(!valuesEqual(l, r)))
	case "<":
		return known(BoolValue(l.AsFloat64() < r.AsFloat64()))
	case "<=":
		return known(BoolValue(l.AsFloat64() <= r.AsFloat64()))
	case ">":
		return known(BoolValue(l.AsFloat64() > r.AsFloat64()))
	case ">=":
		return known(BoolValue(l.AsFloat64() >= r.AsFloat64()))
	case "&":
		return known(IntValue(l.AsInt64() & r.AsInt64()))
	case "|":
		return known(IntValue(l.AsInt64() | r.AsInt64()))
	case "^":
		return known(IntValue(l.AsInt64() ^ r.AsInt64()))
	case "<<":
		return known(IntValue(l.AsInt64() << uint(r.AsInt64())))
	case ">>":
		return known(IntValue(l.AsInt64() >> uint(r.AsInt64())))
	default:
		return unknownOut()
	}
}

func numericArith(op string, l, r Value) Value {
	if isFloatKind(l) || isFloatKind(r) {
		a, b := l.AsFloat64(), r.AsFloat64()
		switch op {
		case "+":
			return FloatValue(a + b)
		case "-":
			return FloatValue(a - b)
		case "*":
			return FloatValue(a * b)
		case "/":
			return FloatValue(a / b)
		case "%":
			return FloatValue(float64(int64(a) % int64(b)))
		}
	}
	if isUnsignedKind(l) || isUnsignedKind(r) {
		a, b := uint64(l.AsInt64()), uint64(r.AsInt64())
		switch op {
		case "+":
			return UintValue(a + b)
		case "-":
			return UintValue(a - b)
		case "*":
			return UintValue(a * b)
		case "/":
			return UintValue(a / b)
		case "%":
			return UintValue(a % b)
		}
	}
	a, b := l.AsInt64(), r.AsInt64()
	switch op {
	case "+":
		return IntValue(a + b)
	case "-":
		return IntValue(a - b)
	case "*":
		return IntValue(a * b)
	case "/":
		return IntValue(a / b)
	case "%":
		return IntValue(a % b)
	}
	return Value{}
}

func valuesEqual(l, r Value) bool {
	if l.Kind == VString || r.Kind == VString {
		return l.Str == r.Str
	}
	return l.AsFloat64() == r.AsFloat64()
}

func (ev *Evaluator) evalUnary(e *ast.Expr, fr *frame) outcome {
	out := ev.evalExpr(e.Operand, fr)
	if out.Status != Known {
		return out
	}
	v := out.Value
	switch e.Op {
	case "-":
		if isFloatKind(v) {
			return known(FloatValue(-v.Float))
		}
		if isUnsignedKind(v) {
			return known(UintValue(-v.Uint))
		}
		return known(IntValue(-v.AsInt64()))
	case "!":
		return known(BoolValue(!v.Truthy()))
	case "~":
		if isUnsignedKind(v) {
			return known(UintValue(^v.Uint))
		}
		return known(IntValue(^v.AsInt64()))
	default:
		return unknownOut()
	}
}

// sortValues implements the `@@` sorted-iteration variant (spec §3
// ExprKind Iteration note), ordering numeric results ascending and string
// results lexically; mixed/composite results are left in iteration order
// since there is no natural total order for them.
func sortValues(vs []Value) {
	if len(vs) == 0 {
		return
	}
	if vs[0].Kind == VString {
		for _, v := range vs {
			if v.Kind != VString {
				return
			}
		}
		sort.Slice(vs, func(i, j int) bool { return vs[i].Str < vs[j].Str })
		return
	}
	for _, v := range vs {
		if !isNumeric(v) {
			return
		}
	}
	sort.Slice(vs, func(i, j int) bool { return vs[i].AsFloat64() < vs[j].AsFloat64() })
}

// Package ctime implements spec §4.5: the compile-time constant evaluator.
// query(expr) reduces an already resolved expression to a value when
// every value it touches is itself a compile-time constant, and reports
// Unknown rather than erroring the moment it reaches something it can't
// reduce (a mutable global, an external call, a resource/process
// expression) — so "purity" falls out of evaluation rather than being a
// separate static property, matching how
// original_source/frontend/src/eval/const_evaluator.cpp drives the same
// walk for constant folding and for `static_assert`-style checks.
package ctime

import (
	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/config"
	"github.com/vexel-lang/vexelc/internal/diag"
	"github.com/vexel-lang/vexelc/internal/symbols"
	"github.com/vexel-lang/vexelc/internal/types"
)

// Status is the three-way result of Query (spec §4.5).
type Status int

const (
	Known Status = iota
	Unknown
	Failed
)

type signal int

const (
	sigNone signal = iota
	sigBreak
	sigContinue
	sigReturn
)

// exprParamBinding lets an expression-parameter reference re-evaluate its
// argument AST in the scope it was passed from, rather than once at the
// call site (GLOSSARY "Expression parameter").
type exprParamBinding struct {
	argExpr     *ast.Expr
	callerFrame *frame
}

// frame is one call's local environment: variables (parameters, locals,
// loop variables) keyed by the Symbol the resolver already minted for
// them, plus any expression-parameter bindings in scope.
type frame struct {
	instanceID ast.InstanceID
	vars       map[*symbols.Symbol]*Value
	exprParams map[string]exprParamBinding
	callDepth  int
}

func newFrame(instanceID ast.InstanceID, callDepth int) *frame {
	return &frame{
		instanceID: instanceID,
		vars:       make(map[*symbols.Symbol]*Value),
		exprParams: make(map[string]exprParamBinding),
		callDepth:  callDepth,
	}
}

type outcome struct {
	Value  Value
	Status Status
	Signal signal
	Err    *diag.Error
}

func known(v Value) outcome  { return outcome{Value: v, Status: Known} }
func unknownOut() outcome    { return outcome{Status: Unknown} }
func failedOut(e *diag.Error) outcome { return outcome{Status: Failed, Err: e} }

// Evaluator owns the memoised-constant cache and in-progress set shared
// across every Query call against one Program.
type Evaluator struct {
	Program  *ast.Program
	Bindings *symbols.Bindings

	constCache map[*symbols.Symbol]Value
	inProgress map[*symbols.Symbol]bool
	paramCache map[*ast.Stmt]*funcParamSymbols

	loopBudget int
}

func NewEvaluator(prog *ast.Program, bindings *symbols.Bindings) *Evaluator {
	return &Evaluator{
		Program:    prog,
		Bindings:   bindings,
		constCache: make(map[*symbols.Symbol]Value),
		inProgress: make(map[*symbols.Symbol]bool),
		paramCache: make(map[*ast.Stmt]*funcParamSymbols),
	}
}

// Query is the spec §4.5 entry point: evaluate expr (already resolved,
// within module instance instanceID) as a compile-time constant.
func (ev *Evaluator) Query(expr *ast.Expr, instanceID ast.InstanceID) (Status, Value, *diag.Error) {
	ev.loopBudget = config.MaxCTimeLoopIterations
	out := ev.evalExpr(expr, newFrame(instanceID, 0))
	return out.Status, out.Value, out.Err
}

// queryConstant evaluates (and memoises) a top-level Constant symbol's
// initialiser on first demand — spec §4.5 "constant memoisation", with
// cycle detection via inProgress.
func (ev *Evaluator) queryConstant(sym *symbols.Symbol) outcome {
	if v, ok := ev.constCache[sym]; ok {
		return known(v)
	}
	if sym.InitExpr == nil {
		return unknownOut()
	}
	if ev.inProgress[sym] {
		return failedOut(diag.New(diag.EvalError, sym.InitExpr.Location, "cyclic constant definition involving %q", sym.Name))
	}
	ev.inProgress[sym] = true
	defer delete(ev.inProgress, sym)

	out := ev.evalExpr(sym.InitExpr, newFrame(sym.InstanceID, 0))
	if out.Status == Known {
		ev.constCache[sym] = out.Value
	}
	return out
}

func (ev *Evaluator) evalExpr(e *ast.Expr, fr *frame) outcome {
	if e == nil {
		return known(Uninitialized)
	}

	switch e.Kind {
	case ast.EIntLiteral:
		v := int64(e.IntValue)
		if e.IsNegative {
			v = -v
		}
		return known(IntValue(v))
	case ast.EFloatLiteral:
		return known(FloatValue(e.FloatValue))
	case ast.EStringLiteral:
		return known(StringValue(e.StringValue))
	case ast.ECharLiteral:
		return known(IntValue(int64(e.CharValue)))

	case ast.EIdentifier:
		return ev.evalIdentifier(e, fr)

	case ast.EBinary:
		return ev.evalBinary(e, fr)

	case ast.EUnary:
		return ev.evalUnary(e, fr)

	case ast.ECast:
		return ev.evalCast(e, fr)

	case ast.ECall:
		return ev.evalCall(e, fr)

	case ast.EIndex:
		return ev.evalIndex(e, fr)

	case ast.EMember:
		return ev.evalMember(e, fr)

	case ast.EArrayLiteral:
		elems := make([]Value, len(e.Elements))
		for i, el := range e.Elements {
			out := ev.evalExpr(el, fr)
			if out.Status != Known {
				return out
			}
			elems[i] = out.Value
		}
		return known(ArrayValue(&Array{Elements: elems}))

	case ast.ETupleLiteral:
		fields := make(map[string]Value, len(e.Elements))
		for i, el := range e.Elements {
			out := ev.evalExpr(el, fr)
			if out.Status != Known {
				return out
			}
			fields[types.FieldName(i)] = out.Value
		}
		return known(CompositeValue(&Composite{TypeName: "tuple", Fields: fields}))

	case ast.EBlock:
		return ev.evalBlock(e.Statements, e.ResultExpr, fr)

	case ast.EConditional:
		condOut := ev.evalExpr(e.Condition, fr)
		if condOut.Status != Known {
			return condOut
		}
		if condOut.Value.Truthy() {
			return ev.evalExpr(e.TrueExpr, fr)
		}
		return ev.evalExpr(e.FalseExpr, fr)

	case ast.EAssignment:
		return ev.evalAssignment(e, fr)

	case ast.ERange:
		loOut := ev.evalExpr(e.Left, fr)
		if loOut.Status != Known {
			return loOut
		}
		hiOut := ev.evalExpr(e.Right, fr)
		if hiOut.Status != Known {
			return hiOut
		}
		lo, hi := loOut.Value.AsInt64(), hiOut.Value.AsInt64()
		if hi < lo {
			return known(ArrayValue(&Array{}))
		}
		elems := make([]Value, 0, hi-lo)
		for i := lo; i < hi; i++ {
			elems = append(elems, IntValue(i))
		}
		return known(ArrayValue(&Array{Elements: elems}))

	case ast.ELength:
		out := ev.evalExpr(e.Operand, fr)
		if out.Status != Known {
			return out
		}
		switch out.Value.Kind {
		case VArray:
			return known(IntValue(int64(len(out.Value.Array.Elements))))
		case VString:
			return known(IntValue(int64(len(out.Value.Str))))
		default:
			return unknownOut()
		}

	case ast.EIteration:
		return ev.evalIteration(e, fr)

	case ast.ERepeat:
		return ev.evalRepeat(e, fr)

	case ast.EResource, ast.EProcess:
		// Filesystem/subprocess access is never compile-time constant.
		return unknownOut()

	default:
		return unknownOut()
	}
}

func (ev *Evaluator) evalIdentifier(e *ast.Expr, fr *frame) outcome {
	if e.IsExprParamRef {
		binding, ok := fr.exprParams[e.Name]
		if !ok {
			return unknownOut()
		}
		if fr.callDepth >= config.MaxCTimeExprParamDepth {
			return failedOut(diag.New(diag.EvalError, e.Location, "expression-parameter substitution exceeded depth limit"))
		}
		return ev.evalExpr(binding.argExpr, binding.callerFrame)
	}

	sym, ok := e.ResolvedSymbol.(*symbols.Symbol)
	if !ok || sym == nil {
		return unknownOut()
	}
	if v, ok := fr.vars[sym]; ok {
		return known(*v)
	}
	if sym.Kind == symbols.Constant {
		return ev.queryConstant(sym)
	}
	return unknownOut()
}

func (ev *Evaluator) evalBlock(stmts []*ast.Stmt, result *ast.Expr, fr *frame) outcome {
	for _, s := range stmts {
		out := ev.evalStmt(s, fr)
		if out.Status != Known || out.Signal != sigNone {
			return out
		}
	}
	if result == nil {
		return known(Uninitialized)
	}
	return ev.evalExpr(result, fr)
}

func (ev *Evaluator) evalStmt(s *ast.Stmt, fr *frame) outcome {
	if s == nil {
		return known(Uninitialized)
	}
	switch s.Kind {
	case ast.SExpr:
		out := ev.evalExpr(s.Expr, fr)
		out.Signal = sigNone
		return out
	case ast.SReturn:
		out := known(Uninitialized)
		if s.ReturnExpr != nil {
			out = ev.evalExpr(s.ReturnExpr, fr)
		}
		if out.Status != Known {
			return out
		}
		out.Signal = sigReturn
		return out
	case ast.SBreak:
		return outcome{Status: Known, Signal: sigBreak}
	case ast.SContinue:
		return outcome{Status: Known, Signal: sigContinue}
	case ast.SVarDecl:
		v := Uninitialized
		if s.VarInit != nil {
			out := ev.evalExpr(s.VarInit, fr)
			if out.Status != Known {
				return out
			}
			v = out.Value
		}
		if sym, ok := ev.Bindings.Lookup(fr.instanceID, s); ok {
			val := v
			fr.vars[sym] = &val
		}
		return known(Uninitialized)
	case ast.STypeDecl, ast.SFuncDecl, ast.SImport:
		return known(Uninitialized)
	case ast.SConditionalStmt:
		condOut := ev.evalExpr(s.Condition, fr)
		if condOut.Status != Known {
			return condOut
		}
		if condOut.Value.Truthy() && s.TrueStmt != nil {
			return ev.evalStmt(s.TrueStmt, fr)
		}
		return known(Uninitialized)
	default:
		return unknownOut()
	}
}

func (ev *Evaluator) evalAssignment(e *ast.Expr, fr *frame) outcome {
	rightOut := ev.evalExpr(e.Right, fr)
	if rightOut.Status != Known {
		return rightOut
	}

	if e.CreatesNewVariable {
		sym, ok := e.Left.ResolvedSymbol.(*symbols.Symbol)
		if !ok || sym == nil {
			return unknownOut()
		}
		v := rightOut.Value
		fr.vars[sym] = &v
		return known(rightOut.Value)
	}

	return ev.assign(e.Left, rightOut.Value, fr)
}

// assign writes val into the lvalue left, rebuilding enclosing
// composites/arrays copy-on-write rather than mutating a shared value in
// place (spec §4.5).
func (ev *Evaluator) assign(left *ast.Expr, val Value, fr *frame) outcome {
	switch left.Kind {
	case ast.EIdentifier:
		sym, ok := left.ResolvedSymbol.(*symbols.Symbol)
		if !ok || sym == nil {
			return unknownOut()
		}
		v := val
		fr.vars[sym] = &v
		return known(val)

	case ast.EMember:
		baseOut := ev.evalExpr(left.Operand, fr)
		if baseOut.Status != Known {
			return baseOut
		}
		if baseOut.Value.Kind != VComposite {
			return unknownOut()
		}
		clone := baseOut.Value.Composite.clone()
		clone.Fields[left.Field] = val
		return ev.assign(left.Operand, CompositeValue(clone), fr)

	case ast.EIndex:
		baseOut := ev.evalExpr(left.Operand, fr)
		if baseOut.Status != Known {
			return baseOut
		}
		if baseOut.Value.Kind != VArray || len(left.Args) != 1 {
			return unknownOut()
		}
		idxOut := ev.evalExpr(left.Args[0], fr)
		if idxOut.Status != Known {
			return idxOut
		}
		idx := int(idxOut.Value.AsInt64())
		if idx < 0 || idx >= len(baseOut.Value.Array.Elements) {
			return failedOut(diag.New(diag.EvalError, left.Location, "array index %d out of range", idx))
		}
		clone := baseOut.Value.Array.clone()
		clone.Elements[idx] = val
		return ev.assign(left.Operand, ArrayValue(clone), fr)

	default:
		return unknownOut()
	}
}

func (ev *Evaluator) evalCast(e *ast.Expr, fr *frame) outcome {
	out := ev.evalExpr(e.Operand, fr)
	if out.Status != Known {
		return out
	}
	prim, ok := e.TargetType.(*ast.PrimitiveType)
	if !ok {
		return unknownOut()
	}
	v := out.Value
	switch {
	case prim.Primitive == ast.Bool:
		return known(BoolValue(v.Truthy()))
	case prim.Primitive == ast.F32, prim.Primitive == ast.F64:
		return known(FloatValue(v.AsFloat64()))
	case prim.Primitive.IsUnsignedInt():
		return known(UintValue(uint64(v.AsInt64())))
	case prim.Primitive.IsSignedInt():
		return known(IntValue(v.AsInt64()))
	default:
		return unknownOut()
	}
}

func (ev *Evaluator) evalIndex(e *ast.Expr, fr *frame) outcome {
	baseOut := ev.evalExpr(e.Operand, fr)
	if baseOut.Status != Known {
		return baseOut
	}
	if baseOut.Value.Kind != VArray || len(e.Args) != 1 {
		return unknownOut()
	}
	idxOut := ev.evalExpr(e.Args[0], fr)
	if idxOut.Status != Known {
		return idxOut
	}
	idx := int(idxOut.Value.AsInt64())
	if idx < 0 || idx >= len(baseOut.Value.Array.Elements) {
		return failedOut(diag.New(diag.EvalError, e.Location, "array index %d out of range", idx))
	}
	return known(baseOut.Value.Array.Elements[idx])
}

func (ev *Evaluator) evalMember(e *ast.Expr, fr *frame) outcome {
	baseOut := ev.evalExpr(e.Operand, fr)
	if baseOut.Status != Known {
		return baseOut
	}
	if baseOut.Value.Kind != VComposite {
		return unknownOut()
	}
	v, ok := baseOut.Value.Composite.Fields[e.Field]
	if !ok {
		return unknownOut()
	}
	return known(v)
}

func (ev *Evaluator) evalIteration(e *ast.Expr, fr *frame) outcome {
	baseOut := ev.evalExpr(e.Operand, fr)
	if baseOut.Status != Known {
		return baseOut
	}
	if baseOut.Value.Kind != VArray {
		return unknownOut()
	}
	loopSym := findFirstIdentifierSymbol(e.Right, "_")

	results := make([]Value, 0, len(baseOut.Value.Array.Elements))
	for _, elem := range baseOut.Value.Array.Elements {
		if ev.loopBudget--; ev.loopBudget < 0 {
			return failedOut(diag.New(diag.EvalError, e.Location, "iteration exceeded the compile-time evaluation budget"))
		}
		if loopSym != nil {
			v := elem
			fr.vars[loopSym] = &v
		}
		out := ev.evalExpr(e.Right, fr)
		if out.Signal == sigBreak {
			break
		}
		if out.Signal == sigContinue {
			continue
		}
		if out.Status != Known {
			return out
		}
		results = append(results, out.Value)
	}
	if e.Sorted {
		sortValues(results)
	}
	return known(ArrayValue(&Array{Elements: results}))
}

func (ev *Evaluator) evalRepeat(e *ast.Expr, fr *frame) outcome {
	for {
		condOut := ev.evalExpr(e.Condition, fr)
		if condOut.Status != Known {
			return condOut
		}
		if !condOut.Value.Truthy() {
			return known(Uninitialized)
		}
		if ev.loopBudget--; ev.loopBudget < 0 {
			return failedOut(diag.New(diag.EvalError, e.Location, "loop exceeded the compile-time evaluation budget"))
		}
		out := ev.evalExpr(e.Right, fr)
		if out.Signal == sigBreak {
			return known(Uninitialized)
		}
		if out.Signal == sigReturn {
			return out
		}
		if out.Status != Known && out.Signal != sigContinue {
			return out
		}
	}
}

// findFirstIdentifierSymbol walks e looking for the first identifier
// resolved-to-Symbol bound under name — used to recover the per-iteration
// loop variable's Symbol, which the resolver mints fresh per EIteration
// expression but never exposes outside identifiers that reference it.
func findFirstIdentifierSymbol(e *ast.Expr, name string) *symbols.Symbol {
	var found *symbols.Symbol
	var walk func(*ast.Expr)
	var walkStmt func(*ast.Stmt)
	walk = func(n *ast.Expr) {
		if n == nil || found != nil {
			return
		}
		if n.Kind == ast.EIdentifier && n.Name == name {
			if sym, ok := n.ResolvedSymbol.(*symbols.Symbol); ok {
				found = sym
				return
			}
		}
		ast.WalkExprChildren(n, walk, walkStmt)
	}
	walkStmt = func(s *ast.Stmt) {
		if s == nil || found != nil {
			return
		}
		ast.WalkStmtChildren(s, walk, walkStmt)
	}
	walk(e)
	return found
}

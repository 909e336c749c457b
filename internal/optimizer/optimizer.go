// Package optimizer implements spec §4.6: a pass over an already
// type-checked program that records which expressions, variable
// initialisers, and statement-level conditions are compile-time known,
// and which parameter-less, receiver-less functions fold to a scalar
// constant. It never rewrites the AST itself — later passes (and
// eventually a backend) consult the facts it produces instead.
// Grounded on original_source/frontend/src/transform/optimizer.cpp's
// Optimizer::run/visit_stmt/visit_expr.
package optimizer

import (
	"fmt"

	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/ctime"
	"github.com/vexel-lang/vexelc/internal/symbols"
)

// Facts is spec §4.6's OptimizationFacts.
type Facts struct {
	// ConstexprValues holds every expression node provably constant at
	// compile time, keyed by the node's own pointer identity.
	ConstexprValues map[*ast.Expr]ctime.Value

	// ConstexprInits is the set of var-decl statements whose initialiser
	// is itself a compile-time constant.
	ConstexprInits map[*ast.Stmt]bool

	// ConstexprConditions records, for every conditional (expression or
	// statement) whose condition is statically known, which branch is
	// live — the basis for dead-branch elimination downstream.
	ConstexprConditions map[*ast.Expr]bool

	// FoldableFunctions is the set of symbols (always Function symbols)
	// whose body collapses to a scalar constant given no arguments.
	FoldableFunctions map[*symbols.Symbol]bool

	// FoldSkipReasons explains, for every top-level function declaration
	// that did NOT make it into FoldableFunctions, why not — drawn from a
	// fixed vocabulary: "external-or-no-body", "parameterized",
	// "has-receivers", "non-scalar-result", or "evaluation-failed: <msg>".
	FoldSkipReasons map[*symbols.Symbol]string
}

func newFacts() *Facts {
	return &Facts{
		ConstexprValues:     make(map[*ast.Expr]ctime.Value),
		ConstexprInits:      make(map[*ast.Stmt]bool),
		ConstexprConditions: make(map[*ast.Expr]bool),
		FoldableFunctions:   make(map[*symbols.Symbol]bool),
		FoldSkipReasons:     make(map[*symbols.Symbol]string),
	}
}

// Optimizer walks every module instance's top-level statements, recording
// constant-folding facts. It borrows the Program/Bindings built by the
// resolver and reuses the same ctime.Evaluator the type checker already
// drove, so generic-instantiation symbols and memoised constants are
// shared rather than recomputed (spec §5: passes borrow, never own).
type Optimizer struct {
	Program  *ast.Program
	Bindings *symbols.Bindings
	CTime    *ctime.Evaluator
}

func New(prog *ast.Program, bindings *symbols.Bindings, ctimeEval *ctime.Evaluator) *Optimizer {
	return &Optimizer{Program: prog, Bindings: bindings, CTime: ctimeEval}
}

// Run computes OptimizationFacts for the whole program, instance by
// instance in declaration order.
func (o *Optimizer) Run() *Facts {
	facts := newFacts()

	for id := ast.InstanceID(0); int(id) < len(o.Program.Instances); id++ {
		stmts, ok := o.Program.InstanceTopLevel[id]
		if !ok {
			continue
		}

		o.collectFoldableFunctions(id, stmts, facts)

		for _, s := range stmts {
			o.visitStmt(s, id, facts)
		}
	}

	return facts
}

// collectFoldableFunctions classifies every top-level function
// declaration visible in instance id, mirroring optimizer.cpp's
// per-instance pass over instance.symbols before walking statements.
func (o *Optimizer) collectFoldableFunctions(id ast.InstanceID, stmts []*ast.Stmt, facts *Facts) {
	for _, s := range stmts {
		if s.Kind != ast.SFuncDecl {
			continue
		}
		sym, ok := o.Bindings.Lookup(id, s)
		if !ok || sym == nil || sym.Kind != symbols.Function {
			continue
		}
		o.classifyFoldable(sym, id, facts)
	}
}

func (o *Optimizer) classifyFoldable(sym *symbols.Symbol, id ast.InstanceID, facts *Facts) {
	fn := sym.Declaration
	if fn == nil || fn.IsExternal || fn.Body == nil {
		facts.FoldSkipReasons[sym] = "external-or-no-body"
		return
	}
	if len(fn.Params) != 0 {
		facts.FoldSkipReasons[sym] = "parameterized"
		return
	}
	if len(fn.RefParams) != 0 {
		facts.FoldSkipReasons[sym] = "has-receivers"
		return
	}

	status, v, err := o.CTime.Query(fn.Body, id)
	if status == ctime.Failed {
		msg := "unknown"
		if err != nil {
			msg = err.Message
		}
		facts.FoldSkipReasons[sym] = "evaluation-failed: " + msg
		return
	}
	if status == ctime.Unknown {
		facts.FoldSkipReasons[sym] = "evaluation-failed: not constant"
		return
	}
	if !isScalar(v) {
		facts.FoldSkipReasons[sym] = "non-scalar-result"
		return
	}

	facts.FoldableFunctions[sym] = true
	delete(facts.FoldSkipReasons, sym)
}

func isScalar(v ctime.Value) bool {
	switch v.Kind {
	case ctime.VInt, ctime.VUint, ctime.VFloat, ctime.VBool:
		return true
	default:
		return false
	}
}

func (o *Optimizer) evaluateCondition(e *ast.Expr, id ast.InstanceID) (bool, bool) {
	if e == nil {
		return false, false
	}
	status, v, _ := o.CTime.Query(e, id)
	if status != ctime.Known || !isScalar(v) {
		return false, false
	}
	return v.Truthy(), true
}

func (o *Optimizer) visitStmt(s *ast.Stmt, id ast.InstanceID, facts *Facts) {
	if s == nil {
		return
	}
	switch s.Kind {
	case ast.SFuncDecl:
		if !s.IsExternal {
			o.visitExpr(s.Body, id, facts)
		}

	case ast.SVarDecl:
		o.markConstexprInit(s, id, facts)
		o.visitExpr(s.VarInit, id, facts)

	case ast.SExpr:
		o.visitExpr(s.Expr, id, facts)

	case ast.SReturn:
		o.visitExpr(s.ReturnExpr, id, facts)

	case ast.SConditionalStmt:
		if live, ok := o.evaluateCondition(s.Condition, id); ok {
			facts.ConstexprConditions[s.Condition] = live
		}
		o.visitExpr(s.Condition, id, facts)
		o.visitStmt(s.TrueStmt, id, facts)

	default:
		// Break, Continue, TypeDecl, Import: no foldable children.
	}
}

func (o *Optimizer) markConstexprInit(s *ast.Stmt, id ast.InstanceID, facts *Facts) {
	if s.VarInit == nil {
		return
	}
	status, v, _ := o.CTime.Query(s.VarInit, id)
	if status != ctime.Known {
		return
	}
	facts.ConstexprInits[s] = true
	facts.ConstexprValues[s.VarInit] = v
}

func (o *Optimizer) visitExpr(e *ast.Expr, id ast.InstanceID, facts *Facts) {
	if e == nil {
		return
	}

	if _, already := facts.ConstexprValues[e]; !already {
		if status, v, _ := o.CTime.Query(e, id); status == ctime.Known {
			facts.ConstexprValues[e] = v
		}
	}

	switch e.Kind {
	case ast.EConditional:
		if live, ok := o.evaluateCondition(e.Condition, id); ok {
			facts.ConstexprConditions[e.Condition] = live
		}
		o.visitExpr(e.Condition, id, facts)
		o.visitExpr(e.TrueExpr, id, facts)
		o.visitExpr(e.FalseExpr, id, facts)

	case ast.ECall:
		o.visitExpr(e.Operand, id, facts)
		for _, r := range e.Receivers {
			o.visitExpr(r, id, facts)
		}
		for _, a := range e.Args {
			o.visitExpr(a, id, facts)
		}

	case ast.EBinary, ast.EAssignment, ast.ERange:
		o.visitExpr(e.Left, id, facts)
		o.visitExpr(e.Right, id, facts)

	case ast.EUnary, ast.ECast, ast.ELength, ast.EMember:
		o.visitExpr(e.Operand, id, facts)

	case ast.EIndex:
		o.visitExpr(e.Operand, id, facts)
		if len(e.Args) > 0 {
			o.visitExpr(e.Args[0], id, facts)
		}

	case ast.EArrayLiteral, ast.ETupleLiteral:
		for _, el := range e.Elements {
			o.visitExpr(el, id, facts)
		}

	case ast.EBlock:
		for _, s := range e.Statements {
			o.visitStmt(s, id, facts)
		}
		o.visitExpr(e.ResultExpr, id, facts)

	case ast.EIteration, ast.ERepeat:
		o.visitExpr(e.Operand, id, facts)
		o.visitExpr(e.Right, id, facts)

	default:
		// Literals, identifiers, resources: no children to descend into.
	}
}

// DescribeSkip renders a skip reason for diagnostics/report output; kept
// distinct from the fixed vocabulary stored in FoldSkipReasons so callers
// never need to special-case formatting.
func DescribeSkip(sym *symbols.Symbol, facts *Facts) string {
	if reason, ok := facts.FoldSkipReasons[sym]; ok {
		return fmt.Sprintf("%q not folded: %s", sym.Name, reason)
	}
	return fmt.Sprintf("%q folded", sym.Name)
}

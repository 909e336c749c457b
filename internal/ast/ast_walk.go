package ast

// WalkExprChildren visits every direct child of expr exactly once, handing
// Expr children to onExpr and Stmt children (block statements) to onStmt.
// Every pass that needs to visit the whole tree once (import collection,
// annotation validation, invariant checking, optimiser fact collection)
// is built on this single primitive rather than duplicating the per-kind
// switch, matching original_source's support/ast_walk.h.
func WalkExprChildren(e *Expr, onExprRaw func(*Expr), onStmtRaw func(*Stmt)) {
	if e == nil {
		return
	}
	onExpr := func(c *Expr) {
		if c != nil {
			onExprRaw(c)
		}
	}
	onStmt := func(c *Stmt) {
		if c != nil {
			onStmtRaw(c)
		}
	}
	switch e.Kind {
	case EBinary, EAssignment, ERange:
		onExpr(e.Left)
		onExpr(e.Right)
	case EUnary, ECast, ELength:
		onExpr(e.Operand)
	case ECall:
		onExpr(e.Operand)
		for _, r := range e.Receivers {
			onExpr(r)
		}
		for _, a := range e.Args {
			onExpr(a)
		}
	case EIndex:
		onExpr(e.Operand)
		for _, a := range e.Args {
			onExpr(a)
		}
	case EMember:
		onExpr(e.Operand)
	case EArrayLiteral, ETupleLiteral:
		for _, el := range e.Elements {
			onExpr(el)
		}
	case EBlock:
		for _, s := range e.Statements {
			onStmt(s)
		}
		onExpr(e.ResultExpr)
	case EConditional:
		onExpr(e.Condition)
		onExpr(e.TrueExpr)
		onExpr(e.FalseExpr)
	case EIteration, ERepeat:
		onExpr(e.Operand)
		onExpr(e.Condition)
		onExpr(e.Right)
	case EProcess:
		for _, a := range e.ProcessArgs {
			onExpr(a)
		}
	default:
		// Literals, identifiers, resources: no expression children.
	}
}

// WalkStmtChildren visits every direct child of stmt exactly once.
func WalkStmtChildren(s *Stmt, onExprRaw func(*Expr), onStmtRaw func(*Stmt)) {
	if s == nil {
		return
	}
	onExpr := func(c *Expr) {
		if c != nil {
			onExprRaw(c)
		}
	}
	onStmt := func(c *Stmt) {
		if c != nil {
			onStmtRaw(c)
		}
	}
	switch s.Kind {
	case SExpr:
		onExpr(s.Expr)
	case SReturn:
		onExpr(s.ReturnExpr)
	case SVarDecl:
		onExpr(s.VarInit)
	case SFuncDecl:
		onExpr(s.Body)
	case SConditionalStmt:
		onExpr(s.Condition)
		onStmt(s.TrueStmt)
	default:
		// Break, Continue, TypeDecl, Import: no children.
	}
}

// Walk visits every Expr and Stmt in the tree rooted at each top-level
// statement of mod, calling onExpr/onStmt for every node reached
// (including the roots themselves).
func Walk(mod *Module, onExpr func(*Expr), onStmt func(*Stmt)) {
	var walkExpr func(*Expr)
	var walkStmt func(*Stmt)
	walkExpr = func(e *Expr) {
		if e == nil {
			return
		}
		onExpr(e)
		WalkExprChildren(e, walkExpr, walkStmt)
	}
	walkStmt = func(s *Stmt) {
		if s == nil {
			return
		}
		onStmt(s)
		WalkStmtChildren(s, walkExpr, walkStmt)
	}
	for _, s := range mod.TopLevel {
		walkStmt(s)
	}
}

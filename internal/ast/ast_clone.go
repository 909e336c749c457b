package ast

// CloneExpr deep-copies an expression tree, producing fresh node identity
// for every node. Used by import expansion (spec §4.2 step 4: "the
// resolver clones the imported declarations (deep) so type-checking can
// specialise them per instance without mutating the source module") and by
// the generic monomorphiser (spec §4.4: "deep-clone the function").
//
// Types and resolved-symbol tags are intentionally NOT cloned — a fresh
// clone starts unresolved/untyped so it can be re-bound and re-checked
// for its own module instance.
func CloneExpr(e *Expr) *Expr {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Type = nil
	clone.ResolvedSymbol = nil
	clone.Annotations = append([]Annotation(nil), e.Annotations...)

	clone.Operand = CloneExpr(e.Operand)
	clone.Left = CloneExpr(e.Left)
	clone.Right = CloneExpr(e.Right)
	clone.Condition = CloneExpr(e.Condition)
	clone.TrueExpr = CloneExpr(e.TrueExpr)
	clone.FalseExpr = CloneExpr(e.FalseExpr)
	clone.ResultExpr = CloneExpr(e.ResultExpr)

	clone.Args = cloneExprSlice(e.Args)
	clone.Receivers = cloneExprSlice(e.Receivers)
	clone.Elements = cloneExprSlice(e.Elements)
	clone.ProcessArgs = cloneExprSlice(e.ProcessArgs)

	clone.Statements = make([]*Stmt, len(e.Statements))
	for i, s := range e.Statements {
		clone.Statements[i] = CloneStmt(s)
	}

	clone.PathSegments = append([]string(nil), e.PathSegments...)

	return &clone
}

func cloneExprSlice(in []*Expr) []*Expr {
	if in == nil {
		return nil
	}
	out := make([]*Expr, len(in))
	for i, e := range in {
		out[i] = CloneExpr(e)
	}
	return out
}

// CloneStmt deep-copies a statement tree; see CloneExpr.
func CloneStmt(s *Stmt) *Stmt {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Annotations = append([]Annotation(nil), s.Annotations...)

	clone.Expr = CloneExpr(s.Expr)
	clone.ReturnExpr = CloneExpr(s.ReturnExpr)
	clone.VarInit = CloneExpr(s.VarInit)
	clone.Body = CloneExpr(s.Body)
	clone.Condition = CloneExpr(s.Condition)
	clone.TrueStmt = CloneStmt(s.TrueStmt)

	clone.Fields = append([]Field(nil), s.Fields...)
	clone.Params = append([]Parameter(nil), s.Params...)
	clone.RefParams = append([]string(nil), s.RefParams...)
	clone.RefParamTypes = append([]Type(nil), s.RefParamTypes...)
	clone.ImportPath = append([]string(nil), s.ImportPath...)

	return &clone
}

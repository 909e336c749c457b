package validate

import (
	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/diag"
)

// CheckInvariants asserts the structural invariants every pass relies on
// holding, raising a fatal "invariant failure [stage]" diagnostic at the
// first violation. Grounded on
// original_source/frontend/src/pass_invariants.cpp's
// validate_module/validate_stmt/validate_expr, translated case for case.
//
// requireTypes additionally asserts spec §4.8's "value-producing
// expressions have non-null type; statement-only expressions have null
// type" rule — only meaningful once internal/typecheck has run, so
// callers pass false when checking invariants straight after the parser
// or the resolver.
func CheckInvariants(mod *ast.Module, stage string, requireTypes bool) *diag.Error {
	for _, s := range mod.TopLevel {
		if s == nil {
			return diag.Invariant(stage, mod.Location, "top-level statement is null")
		}
		if err := checkStmt(s, stage, requireTypes); err != nil {
			return err
		}
	}
	return nil
}

func checkExpr(e *ast.Expr, stage string, requireTypes bool) *diag.Error {
	if e == nil {
		return nil
	}

	switch e.Kind {
	case ast.EBinary, ast.EAssignment, ast.ERange:
		if e.Left == nil || e.Right == nil {
			return diag.Invariant(stage, e.Location, "binary/assignment/range node missing operand")
		}
	case ast.EUnary, ast.ECast, ast.ELength:
		if e.Operand == nil {
			return diag.Invariant(stage, e.Location, "unary/cast/length node missing operand")
		}
	case ast.ECall:
		if e.Operand == nil {
			return diag.Invariant(stage, e.Location, "call node missing callee operand")
		}
	case ast.EIndex:
		if e.Operand == nil || len(e.Args) == 0 {
			return diag.Invariant(stage, e.Location, "index node missing array or index expression")
		}
	case ast.EMember:
		if e.Operand == nil {
			return diag.Invariant(stage, e.Location, "member node missing base operand")
		}
	case ast.EConditional:
		if e.Condition == nil || e.TrueExpr == nil || e.FalseExpr == nil {
			return diag.Invariant(stage, e.Location, "conditional node missing branch expression")
		}
	case ast.EIteration:
		if e.Operand == nil || e.Right == nil {
			return diag.Invariant(stage, e.Location, "iteration node missing iterable or body")
		}
		if e.Condition != nil || e.Left != nil {
			return diag.Invariant(stage, e.Location, "iteration node has unexpected field populated")
		}
	case ast.ERepeat:
		if e.Condition == nil || e.Right == nil {
			return diag.Invariant(stage, e.Location, "repeat node missing condition or body")
		}
		if e.Operand != nil || e.Left != nil {
			return diag.Invariant(stage, e.Location, "repeat node has unexpected field populated")
		}
	}

	if requireTypes {
		if err := checkTypeNullability(e, stage); err != nil {
			return err
		}
	}

	var found *diag.Error
	ast.WalkExprChildren(e, func(c *ast.Expr) {
		if found == nil {
			found = checkExpr(c, stage, requireTypes)
		}
	}, func(c *ast.Stmt) {
		if found == nil {
			found = checkStmt(c, stage, requireTypes)
		}
	})
	return found
}

// checkTypeNullability enforces "value-producing expressions have
// non-null type; statement-only expressions have null type" for the
// expression kinds whose void-ness is unconditional — a repeat loop
// never yields a value. Kinds whose nullability legitimately depends on
// context (a block with no result expression, a call to a void
// function) are left to the type checker, which is the only pass that
// knows whether that particular instance actually produced one.
func checkTypeNullability(e *ast.Expr, stage string) *diag.Error {
	if e.Kind == ast.ERepeat && e.Type != nil {
		return diag.Invariant(stage, e.Location, "repeat expression must never carry a type")
	}
	return nil
}

func checkStmt(s *ast.Stmt, stage string, requireTypes bool) *diag.Error {
	if s == nil {
		return nil
	}
	switch s.Kind {
	case ast.SVarDecl:
		if s.VarName == "" {
			return diag.Invariant(stage, s.Location, "variable declaration has empty name")
		}
	case ast.SFuncDecl:
		if s.FuncName == "" {
			return diag.Invariant(stage, s.Location, "function declaration has empty name")
		}
		if !s.IsExternal && s.Body == nil {
			return diag.Invariant(stage, s.Location, "non-external function has no body")
		}
	case ast.STypeDecl:
		if s.TypeDeclName == "" {
			return diag.Invariant(stage, s.Location, "type declaration has empty name")
		}
	case ast.SImport:
		if len(s.ImportPath) == 0 {
			return diag.Invariant(stage, s.Location, "import declaration has empty path")
		}
	case ast.SConditionalStmt:
		if s.Condition == nil || s.TrueStmt == nil {
			return diag.Invariant(stage, s.Location, "statement conditional missing condition or body")
		}
	}

	var found *diag.Error
	ast.WalkStmtChildren(s, func(c *ast.Expr) {
		if found == nil {
			found = checkExpr(c, stage, requireTypes)
		}
	}, func(c *ast.Stmt) {
		if found == nil {
			found = checkStmt(c, stage, requireTypes)
		}
	})
	return found
}

package typecheck

import (
	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/symbols"
	"github.com/vexel-lang/vexelc/internal/types"
)

func boolType(loc ast.Node) ast.Type {
	return &ast.PrimitiveType{Primitive: ast.Bool, Location: loc.Loc()}
}

// assignable reports whether a value of type from may be used where to is
// expected: exact structural match, or same-family widening (spec §4.3's
// family rule).
func assignable(from, to ast.Type) bool {
	if from == nil || to == nil {
		return true
	}
	if types.Equal(from, to) {
		return true
	}
	return types.Widens(from, to)
}

// assignableExpr additionally allows an untyped literal to narrow-fit the
// target type (spec §4.3.1 `literal_assignable_to`), which assignable
// alone can't express since it only compares two already-computed types.
func (c *Checker) assignableExpr(expr *ast.Expr, from, to ast.Type) bool {
	if assignable(from, to) {
		return true
	}
	switch expr.Kind {
	case ast.EIntLiteral, ast.EFloatLiteral:
		return types.LiteralAssignableTo(to, expr)
	default:
		return false
	}
}

// findIdentSymbol recovers the Symbol the resolver bound to the first
// identifier named `name` found while walking e — used to locate a loop
// variable's Symbol, which (unlike every top-level declaration) is never
// independently reachable except through the identifiers that reference
// it.
func findIdentSymbol(e *ast.Expr, name string) *symbols.Symbol {
	var found *symbols.Symbol
	var walkExpr func(*ast.Expr)
	var walkStmt func(*ast.Stmt)
	walkExpr = func(n *ast.Expr) {
		if n == nil || found != nil {
			return
		}
		if n.Kind == ast.EIdentifier && n.Name == name {
			if sym, ok := n.ResolvedSymbol.(*symbols.Symbol); ok {
				found = sym
				return
			}
		}
		ast.WalkExprChildren(n, walkExpr, walkStmt)
	}
	walkStmt = func(s *ast.Stmt) {
		if s == nil || found != nil {
			return
		}
		ast.WalkStmtChildren(s, walkExpr, walkStmt)
	}
	walkExpr(e)
	return found
}

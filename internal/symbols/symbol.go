// Package symbols implements the Symbol/Scope/Bindings model of spec §3:
// Symbol records what a name means, Scope builds the per-instance lexical
// tree the resolver walks, and Bindings is the canonical node -> symbol
// lookup every later pass consults.
package symbols

import "github.com/vexel-lang/vexelc/internal/ast"

// Kind enumerates what a Symbol denotes.
type Kind int

const (
	Variable Kind = iota
	Constant
	Function
	TypeSym
	ParameterSym
)

func (k Kind) String() string {
	switch k {
	case Variable:
		return "variable"
	case Constant:
		return "constant"
	case Function:
		return "function"
	case TypeSym:
		return "type"
	case ParameterSym:
		return "parameter"
	default:
		return "unknown"
	}
}

// Symbol is what a name in scope is bound to (spec §3).
type Symbol struct {
	Kind        Kind
	Name        string
	Declaration *ast.Stmt // the enclosing function's decl for a parameter; nil for a constant (see InitExpr) or loop variable
	Type        ast.Type
	IsMutable   bool
	IsExternal  bool
	IsExported  bool
	InstanceID  ast.InstanceID
	IsLocal     bool

	// InitExpr is the right-hand side of a top-level declaration-assignment
	// for a Constant symbol — the compile-time evaluator resolves a
	// constant's value on demand from here rather than requiring the whole
	// module to have been walked first (spec §4.5 "constant memoisation").
	InitExpr *ast.Expr
}

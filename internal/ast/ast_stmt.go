package ast

import "github.com/vexel-lang/vexelc/internal/source"

// StmtKind tags the variant shape of a Stmt (spec §3).
type StmtKind int

const (
	SExpr StmtKind = iota
	SReturn
	SBreak
	SContinue
	SVarDecl
	STypeDecl
	SFuncDecl
	SImport
	SConditionalStmt
)

var stmtKindNames = map[StmtKind]string{
	SExpr: "expr", SReturn: "return", SBreak: "break", SContinue: "continue",
	SVarDecl: "var-decl", STypeDecl: "type-decl", SFuncDecl: "func-decl",
	SImport: "import", SConditionalStmt: "conditional-stmt",
}

func (k StmtKind) String() string { return stmtKindNames[k] }

// Field is one member of a type declaration's field list.
type Field struct {
	Name        string
	Type        Type
	Annotations []Annotation
	Location    source.Location
}

// Parameter is one positional parameter of a function declaration.
// IsExpressionParam marks a GLOSSARY "Expression parameter": its argument
// is passed as an AST fragment and re-evaluated in the callee, rather than
// evaluated once at the call site.
type Parameter struct {
	Name              string
	Type              Type // nil => type variable (generic) or inferred
	IsExpressionParam bool
	Annotations       []Annotation
	Location          source.Location
}

// Stmt is every statement node kind (spec §3). See ast_core.go's package
// doc for why this is one struct rather than one type per kind.
type Stmt struct {
	Kind        StmtKind
	Location    source.Location
	Annotations []Annotation

	// ScopeInstanceID ties this (possibly cloned, via import expansion or
	// monomorphisation) declaration to the module instance that owns it.
	ScopeInstanceID InstanceID

	// Expr statement / return.
	Expr       *Expr
	ReturnExpr *Expr

	// Variable declaration.
	VarName   string
	VarType   Type
	VarInit   *Expr
	IsMutable bool

	// Type declaration.
	TypeDeclName string
	Fields       []Field

	// Function declaration. TypeNamespace is non-empty for a method
	// declared as `T::name(...)` (operator overload / custom iterator /
	// ordinary namespaced method).
	FuncName        string
	TypeNamespace   string
	Params          []Parameter
	RefParams       []string // receiver parameter names (GLOSSARY: "Receiver parameter")
	RefParamTypes   []Type
	ReturnType      Type
	Body            *Expr // a Block expr, or nil for external functions
	IsExternal      bool
	IsExported      bool
	IsGeneric       bool
	IsInstantiation bool // set once a generic has been specialised (spec §4.4)

	// Import.
	ImportPath []string

	// Conditional statement.
	Condition *Expr
	TrueStmt  *Stmt
}

func (s *Stmt) Loc() source.Location { return s.Location }

// QualifiedFuncName returns "Type::name" for a namespaced method, or just
// "name" otherwise — the canonical key used by reachability and
// generic-instantiation caching (spec §4.4, §4.7).
func (s *Stmt) QualifiedFuncName() string {
	if s.TypeNamespace == "" {
		return s.FuncName
	}
	return s.TypeNamespace + "::" + s.FuncName
}

package ast

import "github.com/vexel-lang/vexelc/internal/source"

// ExprKind tags the variant shape of an Expr (spec §3).
type ExprKind int

const (
	EIntLiteral ExprKind = iota
	EFloatLiteral
	EStringLiteral
	ECharLiteral
	EIdentifier
	EBinary
	EUnary
	ECall
	EIndex
	EMember
	EArrayLiteral
	ETupleLiteral
	EBlock
	EConditional
	ECast
	EAssignment
	ERange
	ELength
	EIteration
	ERepeat
	EResource
	EProcess
)

var exprKindNames = map[ExprKind]string{
	EIntLiteral: "int", EFloatLiteral: "float", EStringLiteral: "string", ECharLiteral: "char",
	EIdentifier: "identifier", EBinary: "binary", EUnary: "unary", ECall: "call",
	EIndex: "index", EMember: "member", EArrayLiteral: "array-literal", ETupleLiteral: "tuple-literal",
	EBlock: "block", EConditional: "conditional", ECast: "cast", EAssignment: "assignment",
	ERange: "range", ELength: "length", EIteration: "iteration", ERepeat: "repeat",
	EResource: "resource", EProcess: "process",
}

func (k ExprKind) String() string { return exprKindNames[k] }

// Expr is every expression node kind carries: kind, location, annotations,
// type (populated by the type checker), and a kind-specific payload (spec
// §3). See the package doc for why this is one struct rather than one type
// per kind.
type Expr struct {
	Kind        ExprKind
	Location    source.Location
	Annotations []Annotation
	Type        Type // nil until the type checker runs; nil forever for statement-position void exprs

	// Literal payloads.
	IntValue    uint64
	IsNegative  bool
	FloatValue  float64
	StringValue string
	CharValue   byte
	IntText     string // original literal text, for diagnostics

	// Identifier.
	Name           string
	ResolvedSymbol any // *symbols.Symbol, set by the resolver

	// IsExprParamRef marks an identifier standing in for an
	// expression-parameter argument that the evaluator inlines from the
	// call-site stack; the type-use validator treats it as opaque
	// (spec §4.3.6).
	IsExprParamRef bool

	// Binary/unary operator spelling, e.g. "+", "&&", "~".
	Op string

	// Shared child slots, reused across kinds exactly the way
	// original_source's single Expr struct reuses operand/left/right/
	// condition/true_expr/false_expr across kinds (see pass_invariants.cpp
	// for the per-kind slot contract this mirrors):
	//   Binary/Assignment/Range: Left, Right
	//   Unary/Cast/Length:       Operand
	//   Call:                    Operand (callee), Receivers, Args
	//   Index:                   Operand, Args[0]
	//   Member:                  Operand, Field
	//   Conditional:             Condition, TrueExpr, FalseExpr
	//   Iteration:               Operand (subject), Right (body)
	//   Repeat:                  Condition, Right (body)
	Operand   *Expr
	Left      *Expr
	Right     *Expr
	Condition *Expr
	TrueExpr  *Expr
	FalseExpr *Expr
	Args      []*Expr
	Receivers []*Expr

	// Array/tuple literal elements; block statements/result.
	Elements   []*Expr
	Statements []*Stmt
	ResultExpr *Expr

	// Cast target / declaration-assignment annotated type.
	TargetType   Type
	DeclaredType Type

	// Assignment: set by the resolver (spec §4.2 shadowing rule /
	// §4.3.5 assignment semantics).
	CreatesNewVariable bool

	// Member field name; synthetic tuple fields are "__0", "__1", ...
	Field string

	// Iteration: Sorted distinguishes `@@` from `@`.
	Sorted bool

	// Resource/process expressions (spec §6, §4.9).
	PathSegments []string
	ProcessArgs  []*Expr
}

func (e *Expr) Loc() source.Location { return e.Location }

// IsValueProducing reports whether this expression kind, in the abstract,
// produces a value — used by invariant checking (spec §3 invariant 1) to
// decide whether a nil Type is legal. Block/Conditional/Call defer to
// context (a void call, a statement-position block) so this only covers
// the unconditional cases.
func (e *Expr) IsValueProducing() bool {
	switch e.Kind {
	case EIntLiteral, EFloatLiteral, EStringLiteral, ECharLiteral, EIdentifier,
		EBinary, EUnary, EIndex, EMember, EArrayLiteral, ETupleLiteral,
		ECast, ERange, ELength, EResource, EProcess:
		return true
	default:
		return false
	}
}

package typecheck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/ctime"
	"github.com/vexel-lang/vexelc/internal/generics"
	"github.com/vexel-lang/vexelc/internal/loader"
	"github.com/vexel-lang/vexelc/internal/resolver"
	"github.com/vexel-lang/vexelc/internal/source"
	"github.com/vexel-lang/vexelc/internal/symbols"
	"github.com/vexel-lang/vexelc/internal/types"
)

// checkSource loads, resolves, and type-checks src as a standalone
// module, returning the Checker (for inspecting diagnostics) and the
// entry instance id (for scope lookups).
func checkSource(t *testing.T, src string) (*Checker, *resolver.Resolver, ast.InstanceID) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.vx"), []byte(src), 0o644))

	l := loader.New(dir)
	prog, errs := l.Load(filepath.Join(dir, "main.vx"))
	require.Nil(t, errs)

	entryID, ok := prog.PathToID[filepath.Clean(filepath.Join(dir, "main.vx"))]
	require.True(t, ok)

	r := resolver.New(prog, dir)
	instanceID, rerrs := r.Resolve(entryID)
	require.Nil(t, rerrs)

	gen := generics.New(prog, r.Bindings)
	ctimeEval := ctime.NewEvaluator(prog, r.Bindings)
	c := New(prog, r.Bindings, r.Tuples, r.Scopes, gen, ctimeEval)
	return c, r, instanceID
}

func TestCheckProgramTypesTopLevelConstant(t *testing.T) {
	c, r, instanceID := checkSource(t, "x = 3 + 4;\ny = x * 2;")
	cerrs := c.CheckProgram()
	require.Nil(t, cerrs)

	sym := r.Scopes[instanceID].Lookup("x")
	require.NotNil(t, sym)
	require.NotNil(t, sym.Type)
	require.Equal(t, ast.U8, sym.Type.(*ast.PrimitiveType).Primitive)
}

func TestCheckProgramRejectsMismatchedReturn(t *testing.T) {
	c, _, _ := checkSource(t, `&f() -> #b { -> 1; }`)
	cerrs := c.CheckProgram()
	require.NotNil(t, cerrs)
	require.NotEmpty(t, cerrs.Errors)
}

func TestCheckProgramAcceptsMatchingFunctionBody(t *testing.T) {
	c, _, _ := checkSource(t, "&add(a: #i32, b: #i32) -> #i32 { -> a + b; }\nresult = add(2, 3);")
	cerrs := c.CheckProgram()
	require.Nil(t, cerrs)
}

// newBareChecker builds a Checker with no resolved module behind it, for
// tests that construct their AST fragments by hand the way
// internal/generics's tests do — the grammar has no source-level syntax
// for a type variable or a statement-level conditional with an `else`, so
// exercising the monomorphiser-dispatch and dead-branch-skip paths
// requires building the Stmt/Expr nodes directly.
func newBareChecker() (*Checker, *symbols.Scope) {
	prog := ast.NewProgram()
	bindings := symbols.NewBindings()
	tuples := types.NewTupleTable()
	scope := symbols.NewRootScope()
	gen := generics.New(prog, bindings)
	ctimeEval := ctime.NewEvaluator(prog, bindings)
	c := New(prog, bindings, tuples, map[ast.InstanceID]*symbols.Scope{0: scope}, gen, ctimeEval)
	return c, scope
}

func TestCheckCallInstantiatesGenericFunction(t *testing.T) {
	c, scope := newBareChecker()

	fn := &ast.Stmt{
		Kind:       ast.SFuncDecl,
		FuncName:   "id",
		Params:     []ast.Parameter{{Name: "x", Type: &ast.TypeVar{Name: "T"}}},
		ReturnType: &ast.TypeVar{Name: "T"},
		Body: &ast.Expr{
			Kind:       ast.EBlock,
			ResultExpr: ast.MakeIdentifier("x", source.Location{}),
		},
	}
	fnSym := &symbols.Symbol{Kind: symbols.Function, Name: "id", Declaration: fn}
	scope.Declare("id", fnSym)

	callee := &ast.Expr{Kind: ast.EIdentifier, Name: "id", ResolvedSymbol: fnSym}
	arg := &ast.Expr{Kind: ast.EIntLiteral, IntValue: 5}
	call := &ast.Expr{Kind: ast.ECall, Operand: callee, Args: []*ast.Expr{arg}}

	rt := c.checkExpr(call, 0, scope)
	require.False(t, c.errs.HasErrors())
	require.NotNil(t, rt)
	require.Equal(t, ast.U8, rt.(*ast.PrimitiveType).Primitive)

	instantiated, ok := callee.ResolvedSymbol.(*symbols.Symbol)
	require.True(t, ok)
	require.NotSame(t, fnSym, instantiated, "the call site must be rewired to the instantiated symbol")
	require.False(t, instantiated.Declaration.IsGeneric)
}

func TestCheckConditionalStmtSkipsDeadBranch(t *testing.T) {
	c, scope := newBareChecker()

	// A known-false condition; the true branch deliberately contains an
	// ill-typed expression ("text" + 5, mixing families) that would be
	// rejected if it were ever checked.
	cond := &ast.Expr{Kind: ast.EBinary, Op: "<", Left: &ast.Expr{Kind: ast.EIntLiteral, IntValue: 1}, Right: &ast.Expr{Kind: ast.EIntLiteral, IntValue: 0}}
	badExpr := &ast.Expr{Kind: ast.EBinary, Op: "+", Left: &ast.Expr{Kind: ast.EStringLiteral, StringValue: "x"}, Right: &ast.Expr{Kind: ast.EIntLiteral, IntValue: 5}}
	stmt := &ast.Stmt{Kind: ast.SConditionalStmt, Condition: cond, TrueStmt: &ast.Stmt{Kind: ast.SExpr, Expr: badExpr}}

	c.checkConditionalStmt(stmt, 0, scope)
	require.False(t, c.errs.HasErrors(), "a dead branch under a constexpr-false condition must not be type-checked")
}

func TestCheckConditionalStmtChecksLiveBranch(t *testing.T) {
	c, scope := newBareChecker()

	cond := &ast.Expr{Kind: ast.EBinary, Op: "<", Left: &ast.Expr{Kind: ast.EIntLiteral, IntValue: 0}, Right: &ast.Expr{Kind: ast.EIntLiteral, IntValue: 1}}
	badExpr := &ast.Expr{Kind: ast.EBinary, Op: "+", Left: &ast.Expr{Kind: ast.EStringLiteral, StringValue: "x"}, Right: &ast.Expr{Kind: ast.EIntLiteral, IntValue: 5}}
	stmt := &ast.Stmt{Kind: ast.SConditionalStmt, Condition: cond, TrueStmt: &ast.Stmt{Kind: ast.SExpr, Expr: badExpr}}

	c.checkConditionalStmt(stmt, 0, scope)
	require.True(t, c.errs.HasErrors(), "a live branch with mismatched operand families must be rejected")
}

func TestCheckBinaryRewritesOperatorOverload(t *testing.T) {
	c, scope := newBareChecker()

	plusFn := &ast.Stmt{
		Kind: ast.SFuncDecl, FuncName: "+", TypeNamespace: "Vec",
		Params: []ast.Parameter{{Name: "rhs", Type: &ast.NamedType{Name: "Vec"}}},
		ReturnType: &ast.NamedType{Name: "Vec"},
	}
	plusSym := &symbols.Symbol{Kind: symbols.Function, Name: "Vec::+", Declaration: plusFn}
	scope.Declare("Vec::+", plusSym)

	vecType := &ast.NamedType{Name: "Vec"}
	aSym := &symbols.Symbol{Kind: symbols.Variable, Name: "a", Type: vecType}
	bSym := &symbols.Symbol{Kind: symbols.Variable, Name: "b", Type: vecType}
	lhs := &ast.Expr{Kind: ast.EIdentifier, Name: "a", ResolvedSymbol: aSym}
	rhs := &ast.Expr{Kind: ast.EIdentifier, Name: "b", ResolvedSymbol: bSym}
	bin := &ast.Expr{Kind: ast.EBinary, Op: "+", Left: lhs, Right: rhs}

	rt := c.checkExpr(bin, 0, scope)
	require.False(t, c.errs.HasErrors())
	require.Equal(t, ast.ECall, bin.Kind, "operator overload must rewrite the node in place into a call")
	require.Len(t, bin.Receivers, 1)
	require.Same(t, lhs, bin.Receivers[0])
	require.Len(t, bin.Args, 1)
	require.Same(t, rhs, bin.Args[0])
	named, ok := rt.(*ast.NamedType)
	require.True(t, ok)
	require.Equal(t, "Vec", named.Name)
}

package optimizer

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
	"github.com/vexel-lang/vexelc/internal/symbols"
	"github.com/vexel-lang/vexelc/internal/typecheck"
)

// buildProgram loads, resolves, and type-checks src, returning everything
// an Optimizer needs plus the entry instance's root scope for symbol
// lookups.
func buildProgram(t *testing.T, src string) (*Optimizer, *symbols.Scope, ast.InstanceID) {
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
	checker := typecheck.New(prog, r.Bindings, r.Tuples, r.Scopes, gen, ctimeEval)
	cerrs := checker.CheckProgram()
	require.Nil(t, cerrs)

	return New(prog, r.Bindings, ctimeEval), r.Scopes[instanceID], instanceID
}

func TestRunRecordsConstexprInitAndValue(t *testing.T) {
	o, scope, _ := buildProgram(t, "x = 3 + 4;\ny = x * 2;")
	facts := o.Run()

	sym := scope.Lookup("y")
	require.NotNil(t, sym)
	require.NotNil(t, sym.Declaration)
	require.True(t, facts.ConstexprInits[sym.Declaration])

	v, ok := facts.ConstexprValues[sym.Declaration.VarInit]
	require.True(t, ok)
	require.Equal(t, int64(14), v.AsInt64())
}

func TestRunFoldsParameterlessFunction(t *testing.T) {
	o, scope, _ := buildProgram(t, "&answer() -> #i32 { -> 6 * 7; }")
	facts := o.Run()

	sym := scope.Lookup("answer")
	require.NotNil(t, sym)
	require.True(t, facts.FoldableFunctions[sym])
	_, skipped := facts.FoldSkipReasons[sym]
	require.False(t, skipped)
}

func TestRunSkipsParameterizedFunction(t *testing.T) {
	o, scope, _ := buildProgram(t, "&add(a: #i32, b: #i32) -> #i32 { -> a + b; }")
	facts := o.Run()

	sym := scope.Lookup("add")
	require.NotNil(t, sym)
	require.False(t, facts.FoldableFunctions[sym])
	require.Equal(t, "parameterized", facts.FoldSkipReasons[sym])
}

func TestRunSkipsExternalFunction(t *testing.T) {
	o, scope, _ := buildProgram(t, "&!sys() -> #i32;")
	facts := o.Run()

	sym := scope.Lookup("sys")
	require.NotNil(t, sym)
	require.False(t, facts.FoldableFunctions[sym])
	require.Equal(t, "external-or-no-body", facts.FoldSkipReasons[sym])
}

// TestRunRecordsConstexprCondition hand-builds a conditional statement,
// mirroring internal/typecheck's precedent, since the grammar's postfix
// `cond ? stmt;` form is not reliably reachable through the ternary
// expression parser.
func TestRunRecordsConstexprCondition(t *testing.T) {
	prog := ast.NewProgram()
	bindings := symbols.NewBindings()
	ctimeEval := ctime.NewEvaluator(prog, bindings)
	o := New(prog, bindings, ctimeEval)

	cond := &ast.Expr{Kind: ast.EBinary, Op: "<", Left: &ast.Expr{Kind: ast.EIntLiteral, IntValue: 1}, Right: &ast.Expr{Kind: ast.EIntLiteral, IntValue: 0}}
	trueStmt := &ast.Stmt{Kind: ast.SExpr, Expr: &ast.Expr{Kind: ast.EIntLiteral, IntValue: 99}}
	stmt := &ast.Stmt{Kind: ast.SConditionalStmt, Condition: cond, TrueStmt: trueStmt}

	facts := newFacts()
	o.visitStmt(stmt, 0, facts)

	live, ok := facts.ConstexprConditions[cond]
	require.True(t, ok)
	require.False(t, live, "1 < 0 is statically false")
}

func TestDescribeSkipReportsReason(t *testing.T) {
	facts := newFacts()
	sym := &symbols.Symbol{Name: "f"}
	facts.FoldSkipReasons[sym] = "parameterized"

	require.Contains(t, DescribeSkip(sym, facts), "parameterized")
}

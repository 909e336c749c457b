package reach

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/ctime"
	"github.com/vexel-lang/vexelc/internal/generics"
	"github.com/vexel-lang/vexelc/internal/loader"
	"github.com/vexel-lang/vexelc/internal/optimizer"
	"github.com/vexel-lang/vexelc/internal/resolver"
	"github.com/vexel-lang/vexelc/internal/symbols"
	"github.com/vexel-lang/vexelc/internal/typecheck"
)

func buildAnalyser(t *testing.T, src string) (*Analyser, *symbols.Scope) {
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
	require.Nil(t, checker.CheckProgram())

	opt := optimizer.New(prog, r.Bindings, ctimeEval).Run()
	return New(prog, r.Bindings, opt), r.Scopes[instanceID]
}

func TestRunFindsReachableCallee(t *testing.T) {
	a, scope := buildAnalyser(t, `
&^caller() -> #i32 { -> callee(); }
&callee() -> #i32 { -> 1; }
`)
	facts := a.Run("")

	callerSym := scope.Lookup("caller")
	calleeSym := scope.Lookup("callee")
	require.NotNil(t, callerSym)
	require.NotNil(t, calleeSym)
	require.True(t, facts.ReachableFunctions[callerSym])
	require.True(t, facts.ReachableFunctions[calleeSym])
}

func TestRunIgnoresUnreachableFunction(t *testing.T) {
	a, scope := buildAnalyser(t, `
&^caller() -> #i32 { -> 1; }
&dead() -> #i32 { -> 2; }
`)
	facts := a.Run("")

	deadSym := scope.Lookup("dead")
	require.NotNil(t, deadSym)
	require.False(t, facts.ReachableFunctions[deadSym])
}

func TestRunCollectsUsedGlobalAndMutability(t *testing.T) {
	a, scope := buildAnalyser(t, `
total: #i32 = 10;
&^caller() -> #i32 { -> total; }
`)
	facts := a.Run("")

	totalSym := scope.Lookup("total")
	require.NotNil(t, totalSym)
	require.True(t, facts.UsedGlobalVars[totalSym])
	require.Equal(t, Constexpr, facts.VarMutability[totalSym])
}

func TestRecordRefMaskDistinguishesAliasedReceivers(t *testing.T) {
	a := &Analyser{facts: newFacts()}
	calleeSym := &symbols.Symbol{Kind: symbols.Function, Name: "f"}

	shared := &symbols.Symbol{Kind: symbols.Variable, Name: "a"}
	r1 := &ast.Expr{Kind: ast.EIdentifier, ResolvedSymbol: shared}
	r2 := &ast.Expr{Kind: ast.EIdentifier, ResolvedSymbol: shared}
	a.recordRefMask(calleeSym, []*ast.Expr{r1, r2})

	require.True(t, a.facts.RefVariants[calleeSym]["DS"])
}

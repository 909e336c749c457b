package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vexel-lang/vexelc/internal/ctime"
	"github.com/vexel-lang/vexelc/internal/generics"
	"github.com/vexel-lang/vexelc/internal/loader"
	"github.com/vexel-lang/vexelc/internal/optimizer"
	"github.com/vexel-lang/vexelc/internal/reach"
	"github.com/vexel-lang/vexelc/internal/resolver"
	"github.com/vexel-lang/vexelc/internal/typecheck"
)

const src = `
total: #i32 = 10;
&^caller() -> #i32 { -> callee(); }
&callee() -> #i32 { -> total; }
`

func buildFacts(t *testing.T) (*reach.Facts, *optimizer.Facts) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.vx")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	l := loader.New(dir)
	prog, errs := l.Load(path)
	require.Nil(t, errs)

	entryID, ok := prog.PathToID[filepath.Clean(path)]
	require.True(t, ok)

	r := resolver.New(prog, dir)
	_, rerrs := r.Resolve(entryID)
	require.Nil(t, rerrs)

	gen := generics.New(prog, r.Bindings)
	ctimeEval := ctime.NewEvaluator(prog, r.Bindings)
	checker := typecheck.New(prog, r.Bindings, r.Tuples, r.Scopes, gen, ctimeEval)
	require.Nil(t, checker.CheckProgram())

	opt := optimizer.New(prog, r.Bindings, ctimeEval).Run()
	facts := reach.New(prog, r.Bindings, opt).Run("")
	return facts, opt
}

func TestWriteTextIncludesAllSections(t *testing.T) {
	facts, opt := buildFacts(t)

	var b strings.Builder
	require.NoError(t, WriteText(&b, nil, facts, opt))
	out := b.String()

	require.Contains(t, out, "# Vexel Analysis Report")
	require.Contains(t, out, "## Optimization Summary")
	require.Contains(t, out, "## Fold Skip Reasons")
	require.Contains(t, out, "## Reachable Functions")
	require.Contains(t, out, "## Reentrancy Variants")
	require.Contains(t, out, "## Ref Variants")
	require.Contains(t, out, "## Variable Mutability")
	require.Contains(t, out, "## Used Globals")
	require.Contains(t, out, "## Used Types")
	require.Contains(t, out, "caller@0")
	require.Contains(t, out, "callee@0")
	require.Contains(t, out, "total@0 -> constexpr")
}

func TestWriteTextOmitsOptimizationSectionWhenNil(t *testing.T) {
	facts, _ := buildFacts(t)

	var b strings.Builder
	require.NoError(t, WriteText(&b, nil, facts, nil))
	out := b.String()

	require.NotContains(t, out, "## Optimization Summary")
	require.Contains(t, out, "## Reachable Functions")
}

func TestWriteYAMLRoundTripsReachableFunctions(t *testing.T) {
	facts, opt := buildFacts(t)

	var b strings.Builder
	require.NoError(t, WriteYAML(&b, nil, facts, opt))

	var doc Document
	require.NoError(t, yaml.Unmarshal([]byte(b.String()), &doc))
	require.Contains(t, doc.ReachableFunctions, "caller@0")
	require.Contains(t, doc.ReachableFunctions, "callee@0")
	require.NotNil(t, doc.Optimization)
	require.Equal(t, doc.VariableMutability["total@0"], "constexpr")
}

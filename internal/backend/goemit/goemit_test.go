package goemit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	vbackend "github.com/vexel-lang/vexelc/internal/backend"
	"github.com/vexel-lang/vexelc/internal/config"
	"github.com/vexel-lang/vexelc/internal/ctime"
	"github.com/vexel-lang/vexelc/internal/generics"
	"github.com/vexel-lang/vexelc/internal/loader"
	"github.com/vexel-lang/vexelc/internal/optimizer"
	"github.com/vexel-lang/vexelc/internal/reach"
	"github.com/vexel-lang/vexelc/internal/resolver"
	"github.com/vexel-lang/vexelc/internal/typecheck"
)

func buildProgram(t *testing.T, src string) *vbackend.AnalyzedProgram {
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

	return &vbackend.AnalyzedProgram{
		Program:      prog,
		Bindings:     r.Bindings,
		Analysis:     facts,
		Optimization: opt,
	}
}

func TestEmitTranslatesScalarFunctions(t *testing.T) {
	const src = `
&add(a: #i32, b: #i32) -> #i32 { -> a + b; }
&^main() -> #i32 { -> add(1, 2); }
`
	prog := buildProgram(t, src)

	outPath := filepath.Join(t.TempDir(), "out.go")
	opts := &config.Options{OutputFile: outPath}
	require.NoError(t, New().Emit(prog, opts))

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)

	source := string(out)
	require.Contains(t, source, "package main")
	require.Contains(t, source, "func add_")
	require.Contains(t, source, "func main_")
	require.Contains(t, source, "a int32, b int32")
}

func TestEmitDegradesExternalFunctionToComment(t *testing.T) {
	const src = `
&!greet();
&^main() -> #i32 { greet(); -> 0; }
`
	prog := buildProgram(t, src)

	outPath := filepath.Join(t.TempDir(), "out.go")
	opts := &config.Options{OutputFile: outPath}
	require.NoError(t, New().Emit(prog, opts))

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Contains(t, string(out), "external function, no body to translate")
}

func TestEmitDegradesReceiverParamsToStub(t *testing.T) {
	const src = `
&^(n)bump() -> #i32 { n = n + 1; -> n; }
&^main() -> #i32 { m: #i32 = 1; -> m.bump(); }
`
	prog := buildProgram(t, src)

	outPath := filepath.Join(t.TempDir(), "out.go")
	opts := &config.Options{OutputFile: outPath}
	require.NoError(t, New().Emit(prog, opts))

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Contains(t, string(out), "receiver parameters have no Go equivalent")
	require.Contains(t, string(out), "panic(")
}

func TestInfoReportsBackendName(t *testing.T) {
	require.Equal(t, "goemit", New().Info().Name)
}

package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/loader"
)

func loadProgram(t *testing.T, dir string, files map[string]string, entry string) (*ast.Program, ast.ModuleID) {
	t.Helper()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	l := loader.New(dir)
	prog, errs := l.Load(filepath.Join(dir, entry))
	require.Nil(t, errs)
	id, ok := prog.PathToID[filepath.Clean(filepath.Join(dir, entry))]
	require.True(t, ok)
	return prog, id
}

func TestResolveSimpleConstants(t *testing.T) {
	dir := t.TempDir()
	prog, entryID := loadProgram(t, dir, map[string]string{
		"main.vx": "x = 3 + 4;\ny = x * 2;",
	}, "main.vx")

	r := New(prog, dir)
	instanceID, errs := r.Resolve(entryID)
	require.Nil(t, errs)

	scope := r.Scopes[instanceID]
	xSym := scope.Lookup("x")
	require.NotNil(t, xSym)
	require.False(t, xSym.IsMutable)

	ySym := scope.Lookup("y")
	require.NotNil(t, ySym)
	require.False(t, ySym.IsMutable)
}

func TestResolveUndefinedIdentifier(t *testing.T) {
	dir := t.TempDir()
	prog, entryID := loadProgram(t, dir, map[string]string{
		"main.vx": "x = y + 1;",
	}, "main.vx")

	r := New(prog, dir)
	_, errs := r.Resolve(entryID)
	require.NotNil(t, errs)
	require.True(t, errs.HasErrors())
}

func TestResolveDistinctInstancesPerImport(t *testing.T) {
	dir := t.TempDir()
	prog, entryID := loadProgram(t, dir, map[string]string{
		"shared.vx": "&f(x: #i32) -> #i32 { -> x * 2; }",
		"a.vx":      "::shared;",
		"main.vx":   "::a;",
	}, "main.vx")

	r := New(prog, dir)
	instanceID, errs := r.Resolve(entryID)
	require.Nil(t, errs)

	scope := r.Scopes[instanceID]
	fSym := scope.Lookup("f")
	require.NotNil(t, fSym)
	require.Equal(t, ast.InstanceID(2), fSym.InstanceID)

	// Resolved via the transitive a -> shared import, f belongs to shared's
	// own instance (main is 0, a is 1, shared is 2), not to the entry
	// instance whose scope re-exports it.
	require.NotEqual(t, ast.InstanceID(0), fSym.InstanceID)
}

func TestResolveFunctionParamsAndBody(t *testing.T) {
	dir := t.TempDir()
	prog, entryID := loadProgram(t, dir, map[string]string{
		"main.vx": "&add(a: #i32, b: #i32) -> #i32 { -> a + b; }",
	}, "main.vx")

	r := New(prog, dir)
	instanceID, errs := r.Resolve(entryID)
	require.Nil(t, errs)

	scope := r.Scopes[instanceID]
	fnSym := scope.Lookup("add")
	require.NotNil(t, fnSym)
	require.Equal(t, fnSym.Kind.String(), "function")
}

func TestResolveShadowingRejected(t *testing.T) {
	dir := t.TempDir()
	prog, entryID := loadProgram(t, dir, map[string]string{
		"main.vx": "&f() { x = 1; { x: #i32; }; }",
	}, "main.vx")

	r := New(prog, dir)
	_, errs := r.Resolve(entryID)
	require.NotNil(t, errs)
	require.True(t, errs.HasErrors())
}

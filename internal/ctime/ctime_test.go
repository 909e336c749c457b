package ctime

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/loader"
	"github.com/vexel-lang/vexelc/internal/resolver"
)

func resolveSource(t *testing.T, src string) (*resolver.Resolver, ast.InstanceID) {
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
	return r, instanceID
}

func TestQueryFoldsConstantArithmetic(t *testing.T) {
	r, instanceID := resolveSource(t, "x = 3 + 4;\ny = x * 2;")

	scope := r.Scopes[instanceID]
	ySym := scope.Lookup("y")
	require.NotNil(t, ySym)

	ev := NewEvaluator(r.Program, r.Bindings)
	status, v, err := ev.Query(ySym.InitExpr, instanceID)
	require.Nil(t, err)
	require.Equal(t, Known, status)
	require.Equal(t, int64(14), v.AsInt64())
}

func TestQueryEvaluatesFunctionCall(t *testing.T) {
	r, instanceID := resolveSource(t, "&add(a: #i32, b: #i32) -> #i32 { -> a + b; }\nresult = add(2, 3);")

	scope := r.Scopes[instanceID]
	sym := scope.Lookup("result")
	require.NotNil(t, sym)

	ev := NewEvaluator(r.Program, r.Bindings)
	status, v, err := ev.Query(sym.InitExpr, instanceID)
	require.Nil(t, err)
	require.Equal(t, Known, status)
	require.Equal(t, int64(5), v.AsInt64())
}

func TestQueryUnknownForMutableGlobal(t *testing.T) {
	r, instanceID := resolveSource(t, "counter: #i32;\nresult = counter;")

	scope := r.Scopes[instanceID]
	sym := scope.Lookup("result")
	require.NotNil(t, sym)

	ev := NewEvaluator(r.Program, r.Bindings)
	status, _, err := ev.Query(sym.InitExpr, instanceID)
	require.Nil(t, err)
	require.Equal(t, Unknown, status)
}

func TestQueryDivisionByZeroFails(t *testing.T) {
	r, instanceID := resolveSource(t, "x = 1 / 0;")

	scope := r.Scopes[instanceID]
	sym := scope.Lookup("x")
	require.NotNil(t, sym)

	ev := NewEvaluator(r.Program, r.Bindings)
	status, _, err := ev.Query(sym.InitExpr, instanceID)
	require.Equal(t, Failed, status)
	require.NotNil(t, err)
}

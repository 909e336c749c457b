package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vexel-lang/vexelc/internal/ast"
)

func writeModule(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadSingleFile(t *testing.T) {
	dir := t.TempDir()
	entry := writeModule(t, dir, "main.vx", "&main() { -> 0; }")

	l := New(dir)
	prog, errs := l.Load(entry)
	require.Nil(t, errs)
	require.Len(t, prog.Modules, 1)
	require.NotNil(t, prog.Modules[0].Module)
	require.Equal(t, "main", prog.Modules[0].Module.Name)
}

func TestLoadFollowsImports(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "util.vx", "&helper() { -> 1; }")
	entry := writeModule(t, dir, "main.vx", "::util;\n&main() { -> 0; }")

	l := New(dir)
	prog, errs := l.Load(entry)
	require.Nil(t, errs)
	require.Len(t, prog.Modules, 2)

	names := map[string]bool{}
	for _, m := range prog.Modules {
		names[m.Module.Name] = true
	}
	require.True(t, names["main"])
	require.True(t, names["util"])
}

func TestLoadHandlesImportCycles(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "a.vx", "::b;\n&fa() { -> 0; }")
	entry := writeModule(t, dir, "b.vx", "::a;\n&fb() { -> 0; }")

	l := New(dir)
	prog, errs := l.Load(entry)
	require.Nil(t, errs)
	require.Len(t, prog.Modules, 2)
}

func TestLoadLeavesUnresolvedImportsForResolver(t *testing.T) {
	dir := t.TempDir()
	entry := writeModule(t, dir, "main.vx", "::does_not_exist;\n&main() { -> 0; }")

	l := New(dir)
	prog, errs := l.Load(entry)
	require.Nil(t, errs, "loader must not raise an error for a missing import")
	require.Len(t, prog.Modules, 1)

	var importStmt *ast.Stmt
	for _, s := range prog.Modules[0].Module.TopLevel {
		if s.Kind == ast.SImport {
			importStmt = s
		}
	}
	require.NotNil(t, importStmt)
	require.Equal(t, []string{"does_not_exist"}, importStmt.ImportPath)
}

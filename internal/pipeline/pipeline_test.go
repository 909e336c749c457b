package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	vbackend "github.com/vexel-lang/vexelc/internal/backend"
	"github.com/vexel-lang/vexelc/internal/backend/goemit"
	"github.com/vexel-lang/vexelc/internal/cache"
	"github.com/vexel-lang/vexelc/internal/config"
)

func init() {
	vbackend.Register(goemit.New())
}

func writeSource(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.vx")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRunProducesAnalyzedProgramAndGoSource(t *testing.T) {
	const src = `
&add(a: #i32, b: #i32) -> #i32 { -> a + b; }
&^main() -> #i32 { -> add(1, 2); }
`
	path := writeSource(t, src)
	outPath := filepath.Join(filepath.Dir(path), "out.go")

	opts := &config.Options{InputFile: path, OutputFile: outPath, Backend: "goemit"}
	result := Run(opts)
	require.NoError(t, result.Err)
	require.NotNil(t, result.Program)
	require.NotEmpty(t, result.Program.Analysis.ReachableFunctions)

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Contains(t, string(out), "func main_")
}

func TestRunReportsUnknownBackend(t *testing.T) {
	path := writeSource(t, "&^main() -> #i32 { -> 0; }")
	opts := &config.Options{InputFile: path, Backend: "does-not-exist"}

	result := Run(opts)
	require.Error(t, result.Err)
	require.Nil(t, result.Program)
}

func TestRunRejectsUnknownAnnotation(t *testing.T) {
	path := writeSource(t, "[[bogus]]\n&^main() -> #i32 { -> 0; }")
	opts := &config.Options{InputFile: path, Backend: "goemit"}

	result := Run(opts)
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "bogus")
}

func TestRunPopulatesConstexprCache(t *testing.T) {
	const src = `
total: #i32 = 10;
&^main() -> #i32 { -> total; }
`
	path := writeSource(t, src)
	cacheDir := t.TempDir()
	outPath := filepath.Join(filepath.Dir(path), "out.go")

	opts := &config.Options{InputFile: path, OutputFile: outPath, Backend: "goemit", CacheDir: cacheDir}
	result := Run(opts)
	require.NoError(t, result.Err)

	c, err := cache.Open(cacheDir)
	require.NoError(t, err)
	defer c.Close()

	v, ok, err := c.LookupConstexprValue("total@0")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(10), v.Int)
}

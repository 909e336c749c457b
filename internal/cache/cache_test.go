package cache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vexel-lang/vexelc/internal/ctime"
)

func TestMangledNameRoundTrips(t *testing.T) {
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	_, ok, err := c.LookupMangledName("identity@0#i32")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.StoreMangledName("identity@0#i32", "identity_G_i32"))

	mangled, ok, err := c.LookupMangledName("identity@0#i32")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "identity_G_i32", mangled)
}

func TestStoreMangledNameOverwritesPriorEntry(t *testing.T) {
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.StoreMangledName("k", "first"))
	require.NoError(t, c.StoreMangledName("k", "second"))

	mangled, ok, err := c.LookupMangledName("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "second", mangled)
}

func TestConstexprValueRoundTrips(t *testing.T) {
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.StoreConstexprValue("answer@0", ctime.IntValue(42)))

	v, ok, err := c.LookupConstexprValue("answer@0")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, ctime.VInt, v.Kind)
	require.Equal(t, int64(42), v.Int)
}

func TestLookupConstexprValueMissingKey(t *testing.T) {
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	_, ok, err := c.LookupConstexprValue("missing")
	require.NoError(t, err)
	require.False(t, ok)
}

package backend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vexel-lang/vexelc/internal/config"
)

type stubBackend struct{ name string }

func (s *stubBackend) Info() Info { return Info{Name: s.name, Description: "stub", Version: "0"} }
func (s *stubBackend) Emit(*AnalyzedProgram, *config.Options) error { return nil }

func TestRegisterAndLookup(t *testing.T) {
	Register(&stubBackend{name: "test-stub"})

	b, ok := Lookup("test-stub")
	require.True(t, ok)
	require.Equal(t, "test-stub", b.Info().Name)
}

func TestLookupMissingBackend(t *testing.T) {
	_, ok := Lookup("does-not-exist")
	require.False(t, ok)
}

func TestNamesIncludesRegistered(t *testing.T) {
	Register(&stubBackend{name: "test-names-stub"})

	names := Names()
	require.Contains(t, names, "test-names-stub")
}

func TestErrUnknownBackendMessage(t *testing.T) {
	err := &ErrUnknownBackend{Name: "nope"}
	require.Contains(t, err.Error(), "nope")
}

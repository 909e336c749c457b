package remote

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vexel-lang/vexelc/internal/config"
	"github.com/vexel-lang/vexelc/internal/report"
)

func TestValidateOptionsRequiresAddress(t *testing.T) {
	b := New()
	err := b.ValidateOptions(&config.Options{BackendOptions: map[string]string{}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "address")
}

func TestValidateOptionsAcceptsAddressWithoutSchema(t *testing.T) {
	b := New()
	err := b.ValidateOptions(&config.Options{BackendOptions: map[string]string{"address": "localhost:9000"}})
	require.NoError(t, err)
}

func TestServiceAndMethodStripsPackageQualifier(t *testing.T) {
	require.Equal(t, "AnalysisSink/Submit", serviceAndMethod("/vexel.backend.AnalysisSink/Submit"))
	require.Equal(t, "AnalysisSink/Submit", serviceAndMethod("AnalysisSink/Submit"))
}

func TestMethodNameDefaultsWhenUnset(t *testing.T) {
	opts := &config.Options{BackendOptions: map[string]string{}}
	require.Equal(t, defaultMethod, methodName(opts))

	opts.BackendOptions["method"] = "/custom.Sink/Push"
	require.Equal(t, "/custom.Sink/Push", methodName(opts))
}

func TestInfoReportsBackendName(t *testing.T) {
	require.Equal(t, "remote", New().Info().Name)
}

func TestStructFromDocumentPreservesFields(t *testing.T) {
	doc := &report.Document{
		Module:             "demo",
		ReachableFunctions: []string{"main@0"},
		ReentrancyVariants: map[string][]string{},
		RefVariants:        map[string][]string{},
		VariableMutability: map[string]string{"total@0": "constexpr"},
		UsedGlobals:        []string{"total@0"},
		UsedTypes:          []string{},
	}

	s, err := structFromDocument(doc)
	require.NoError(t, err)
	require.Equal(t, "demo", s.Fields["module"].GetStringValue())

	funcs := s.Fields["reachable_functions"].GetListValue().AsSlice()
	require.Equal(t, []any{"main@0"}, funcs)
}

package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vexel-lang/vexelc/internal/config"
)

func TestParseArgsSetsDefaultsAndInputFile(t *testing.T) {
	opts, format, err := parseArgs([]string{"main.vx"})
	require.NoError(t, err)
	require.Equal(t, "main.vx", opts.InputFile)
	require.Equal(t, "goemit", opts.Backend)
	require.Equal(t, config.StrictnessRelaxed, opts.TypeStrictness)
	require.Equal(t, "text", format)
}

func TestParseArgsParsesBackendOptions(t *testing.T) {
	opts, _, err := parseArgs([]string{
		"main.vx", "--backend", "remote",
		"--backend-option", "address=localhost:9000",
		"--backend-option", "method=/vexel.backend.AnalysisSink/Submit",
	})
	require.NoError(t, err)
	require.Equal(t, "remote", opts.Backend)
	require.Equal(t, "localhost:9000", opts.BackendOptions["address"])
	require.Equal(t, "/vexel.backend.AnalysisSink/Submit", opts.BackendOptions["method"])
}

func TestParseArgsRejectsUnknownFlag(t *testing.T) {
	_, _, err := parseArgs([]string{"main.vx", "--does-not-exist"})
	require.Error(t, err)
}

func TestParseArgsRejectsMissingInputFile(t *testing.T) {
	_, _, err := parseArgs([]string{"--verbose"})
	require.Error(t, err)
}

func TestParseArgsRejectsInvalidTypeStrictness(t *testing.T) {
	_, _, err := parseArgs([]string{"main.vx", "--type-strictness", "7"})
	require.Error(t, err)
}

func TestParseArgsParsesFullFlagSet(t *testing.T) {
	opts, format, err := parseArgs([]string{
		"main.vx",
		"-o", "out.go",
		"--project-root", "/proj",
		"--emit-analysis",
		"--analysis-format", "yaml",
		"--allow-process",
		"--type-strictness", "2",
		"--cache-dir", "/tmp/cache",
		"--color", "never",
		"-v",
	})
	require.NoError(t, err)
	require.Equal(t, "out.go", opts.OutputFile)
	require.Equal(t, "/proj", opts.ProjectRoot)
	require.True(t, opts.EmitAnalysis)
	require.Equal(t, "yaml", format)
	require.True(t, opts.AllowProcess)
	require.Equal(t, config.StrictnessFull, opts.TypeStrictness)
	require.Equal(t, "/tmp/cache", opts.CacheDir)
	require.Equal(t, "never", opts.Color)
	require.True(t, opts.Verbose)
}

func TestParseArgsReturnsHelpSentinel(t *testing.T) {
	_, _, err := parseArgs([]string{"--help"})
	require.ErrorIs(t, err, errHelp)
}

// Command vexelc is the compiler entry point (spec §6): it parses CLI
// flags into a config.Options, optionally merges a project config file,
// runs the full pipeline (internal/pipeline.Run) and reports the first
// diagnostic on failure. Grounded on the teacher's cmd/funxy/main.go,
// which hand-parses os.Args itself rather than pulling in a flag-parsing
// framework (go.mod carries none) — this CLI follows the same idiom.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vexel-lang/vexelc/internal/backend"
	"github.com/vexel-lang/vexelc/internal/backend/goemit"
	"github.com/vexel-lang/vexelc/internal/backend/remote"
	"github.com/vexel-lang/vexelc/internal/config"
	"github.com/vexel-lang/vexelc/internal/pipeline"
	"github.com/vexel-lang/vexelc/internal/report"
)

func init() {
	backend.Register(goemit.New())
	backend.Register(remote.New())
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: vexelc <input-file> [options]

options:
  -o, --output <path>          write backend output to path
  --project-root <dir>         root used to resolve imports (default: input file's dir)
  --project-config <path>      load a vexelc.yaml project file (flags still win)
  --emit-analysis              write an analysis report alongside the backend output
  --analysis-format <fmt>      "text" (default) or "yaml"
  --allow-process              permit the process() compile-time builtin
  --type-strictness <0|1|2>    0 relaxed (default), 1 annotated-local, 2 full
  --backend <name>             backend to emit with (default "goemit")
  --backend-option <k=v>       backend-specific option, repeatable
  --cache-dir <dir>            persistent constexpr cache directory
  --color <auto|always|never>  stderr color mode (default "auto")
  -v, --verbose                log pipeline progress to stderr
  -h, --help                   show this message
`)
}

// parseArgs builds an Options from argv, matching spec §6's compiler
// options table plus this port's ambient additions. An unknown flag is
// spec §6's other Exit-1 condition, alongside a compile error.
func parseArgs(argv []string) (*config.Options, string, error) {
	opts := config.Default()
	analysisFormat := "text"

	var positional []string
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		next := func() (string, error) {
			i++
			if i >= len(argv) {
				return "", fmt.Errorf("flag %s requires a value", arg)
			}
			return argv[i], nil
		}

		switch {
		case arg == "-h" || arg == "--help":
			return nil, "", errHelp
		case arg == "-o" || arg == "--output":
			v, err := next()
			if err != nil {
				return nil, "", err
			}
			opts.OutputFile = v
		case arg == "--project-root":
			v, err := next()
			if err != nil {
				return nil, "", err
			}
			opts.ProjectRoot = v
		case arg == "--project-config":
			v, err := next()
			if err != nil {
				return nil, "", err
			}
			opts.ProjectConfig = v
		case arg == "--emit-analysis":
			opts.EmitAnalysis = true
		case arg == "--analysis-format":
			v, err := next()
			if err != nil {
				return nil, "", err
			}
			analysisFormat = v
		case arg == "--allow-process":
			opts.AllowProcess = true
		case arg == "--type-strictness":
			v, err := next()
			if err != nil {
				return nil, "", err
			}
			switch v {
			case "0":
				opts.TypeStrictness = config.StrictnessRelaxed
			case "1":
				opts.TypeStrictness = config.StrictnessAnnotatedLocal
			case "2":
				opts.TypeStrictness = config.StrictnessFull
			default:
				return nil, "", fmt.Errorf("invalid --type-strictness %q (want 0, 1, or 2)", v)
			}
		case arg == "--backend":
			v, err := next()
			if err != nil {
				return nil, "", err
			}
			opts.Backend = v
		case arg == "--backend-option":
			v, err := next()
			if err != nil {
				return nil, "", err
			}
			k, val, ok := strings.Cut(v, "=")
			if !ok {
				return nil, "", fmt.Errorf("invalid --backend-option %q (want key=value)", v)
			}
			opts.BackendOptions[k] = val
		case arg == "--cache-dir":
			v, err := next()
			if err != nil {
				return nil, "", err
			}
			opts.CacheDir = v
		case arg == "--color":
			v, err := next()
			if err != nil {
				return nil, "", err
			}
			opts.Color = v
		case arg == "-v" || arg == "--verbose":
			opts.Verbose = true
		case strings.HasPrefix(arg, "-") && arg != "-":
			return nil, "", fmt.Errorf("unknown flag %s", arg)
		default:
			positional = append(positional, arg)
		}
	}

	if len(positional) != 1 {
		return nil, "", fmt.Errorf("expected exactly one input file, got %d", len(positional))
	}
	opts.InputFile = positional[0]

	if opts.ProjectConfig != "" {
		if err := opts.LoadProjectFile(opts.ProjectConfig); err != nil {
			return nil, "", err
		}
	}

	return &opts, analysisFormat, nil
}

var errHelp = fmt.Errorf("help requested")

func main() {
	opts, analysisFormat, err := parseArgs(os.Args[1:])
	if err == errHelp {
		usage()
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		usage()
		os.Exit(1)
	}

	logger := config.NewLogger(os.Stderr, opts.Verbose)
	logger.Progress("compiling %s with backend %q", opts.InputFile, opts.Backend)

	start := time.Now()
	result := pipeline.Run(opts)
	if result.Err != nil {
		fmt.Fprintln(os.Stderr, result.Err.Error())
		os.Exit(1)
	}
	logger.Stage("compile", start, 0)

	if opts.EmitAnalysis {
		if err := writeAnalysis(opts, analysisFormat, result); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
	}
}

// writeAnalysis renders spec §6's analysis report for the just-completed
// run, next to the backend's own output file (<output>.analysis.txt or
// <output>.analysis.yaml), or to stdout when no output file was given.
func writeAnalysis(opts *config.Options, format string, result pipeline.Result) error {
	var out *os.File
	if opts.OutputFile != "" {
		ext := ".analysis.txt"
		if format == "yaml" {
			ext = ".analysis.yaml"
		}
		f, err := os.Create(opts.OutputFile + ext)
		if err != nil {
			return fmt.Errorf("writing analysis report: %w", err)
		}
		defer f.Close()
		out = f
	} else {
		out = os.Stdout
	}

	prog := result.Program
	if format == "yaml" {
		return report.WriteYAML(out, nil, prog.Analysis, prog.Optimization)
	}
	return report.WriteText(out, nil, prog.Analysis, prog.Optimization)
}

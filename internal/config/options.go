package config

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// Options holds every compiler option enumerated in spec §6, plus the
// ambient options this port adds (project_config, cache_dir, color).
type Options struct {
	InputFile      string            `yaml:"input_file"`
	OutputFile     string            `yaml:"output_file"`
	Verbose        bool              `yaml:"verbose"`
	ProjectRoot    string            `yaml:"project_root"`
	EmitAnalysis   bool              `yaml:"emit_analysis"`
	AllowProcess   bool              `yaml:"allow_process"`
	TypeStrictness TypeStrictness    `yaml:"type_strictness"`
	Backend        string            `yaml:"backend"`
	BackendOptions map[string]string `yaml:"backend_options"`

	ProjectConfig string `yaml:"-"`
	CacheDir      string `yaml:"cache_dir"`
	Color         string `yaml:"color"` // auto | always | never
}

// Default returns an Options populated with the documented defaults.
func Default() Options {
	return Options{
		TypeStrictness: StrictnessRelaxed,
		Backend:        "goemit",
		Color:          "auto",
		BackendOptions: map[string]string{},
	}
}

// LoadProjectFile merges a vexelc.yaml project file into o, with o's
// already-set fields (typically populated from CLI flags first) taking
// precedence — flags override file values, per SPEC_FULL §6.
func (o *Options) LoadProjectFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading project config %s: %w", path, err)
	}
	var fromFile Options
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return fmt.Errorf("parsing project config %s: %w", path, err)
	}
	o.mergeDefaults(fromFile)
	return nil
}

// mergeDefaults copies fields from fromFile into o wherever o still holds
// its zero value, so command-line-supplied values always win.
func (o *Options) mergeDefaults(fromFile Options) {
	if o.InputFile == "" {
		o.InputFile = fromFile.InputFile
	}
	if o.OutputFile == "" {
		o.OutputFile = fromFile.OutputFile
	}
	if !o.Verbose {
		o.Verbose = fromFile.Verbose
	}
	if o.ProjectRoot == "" {
		o.ProjectRoot = fromFile.ProjectRoot
	}
	if !o.EmitAnalysis {
		o.EmitAnalysis = fromFile.EmitAnalysis
	}
	if !o.AllowProcess {
		o.AllowProcess = fromFile.AllowProcess
	}
	if o.TypeStrictness == StrictnessRelaxed {
		o.TypeStrictness = fromFile.TypeStrictness
	}
	if o.Backend == "" || o.Backend == "goemit" {
		if fromFile.Backend != "" {
			o.Backend = fromFile.Backend
		}
	}
	if o.CacheDir == "" {
		o.CacheDir = fromFile.CacheDir
	}
	for k, v := range fromFile.BackendOptions {
		if _, ok := o.BackendOptions[k]; !ok {
			if o.BackendOptions == nil {
				o.BackendOptions = map[string]string{}
			}
			o.BackendOptions[k] = v
		}
	}
}

// UseColor resolves the `color` option against the output stream's tty-ness.
func (o *Options) UseColor() bool {
	switch o.Color {
	case "always":
		return true
	case "never":
		return false
	default:
		return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	}
}

// Package backend defines spec §6's Backend contract — the pluggable
// consumer of a fully analysed program — and a global registry pluggable
// backends register themselves into, the same "register by name, no
// init-order coupling" shape internal/generics.Monomorphiser already
// uses for its typecheck callback. Grounded on the teacher's
// internal/backend package (backend.go's Backend interface,
// processor.go's error-translation shape), generalised from a runtime
// execution backend (tree-walk interpreter / VM) to a compile-time code
// generation backend.
package backend

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/config"
	"github.com/vexel-lang/vexelc/internal/optimizer"
	"github.com/vexel-lang/vexelc/internal/reach"
	"github.com/vexel-lang/vexelc/internal/symbols"
)

// Info is spec §6's backend "info" triple.
type Info struct {
	Name        string
	Description string
	Version     string
}

// AnalyzedProgram is spec §6's input to Backend.Emit: the resolved
// module graph, the final Bindings, and the two fact tables the
// semantic middle end produces.
type AnalyzedProgram struct {
	Program      *ast.Program
	Bindings     *symbols.Bindings
	Analysis     *reach.Facts
	Optimization *optimizer.Facts
}

// AnalysisRequirements is the optional analysis_requirements(options)
// result spec §6 describes — a backend can demand passes beyond the
// default set and fix the reentrancy context its runtime presents at
// the program's entry/exit boundary.
type AnalysisRequirements struct {
	RequiredPasses         []string
	DefaultEntryReentrancy config.Reentrancy
	DefaultExitReentrancy  config.Reentrancy
}

// Backend is spec §6's backend contract. Emit is the only required
// method; the rest are spec §6's "optional" hooks, expressed as
// separate interfaces a backend may additionally implement — the same
// narrow-interface-plus-type-assertion shape
// internal/backend/processor.go's teacher ancestor uses to special-case
// *evaluator.Error without widening the Backend interface itself.
type Backend interface {
	Info() Info
	Emit(prog *AnalyzedProgram, opts *config.Options) error
}

// OptionsValidator is the optional validate_options hook.
type OptionsValidator interface {
	ValidateOptions(opts *config.Options) error
}

// AnalysisRequirer is the optional analysis_requirements hook.
type AnalysisRequirer interface {
	AnalysisRequirements(opts *config.Options) AnalysisRequirements
}

// BoundaryReentrancyModer is the optional boundary_reentrancy_mode hook:
// a backend may override the reentrancy context a given symbol is
// called under at a named boundary (e.g. an interrupt vector, an FFI
// entry point).
type BoundaryReentrancyModer interface {
	BoundaryReentrancyMode(sym *symbols.Symbol, boundary string, opts *config.Options) config.Reentrancy
}

// TranslationUnitEmitter is the optional emit_translation_unit hook, for
// backends that produce one file per module instance rather than a
// single combined unit.
type TranslationUnitEmitter interface {
	EmitTranslationUnit(prog *AnalyzedProgram, instance ast.InstanceID, opts *config.Options) error
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Backend)
)

// Register adds b to the global registry under its own Info().Name,
// overwriting any previous registration of the same name (mirroring the
// teacher's last-registration-wins module-loading behaviour elsewhere).
func Register(b Backend) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[b.Info().Name] = b
}

// Lookup finds a registered backend by name.
func Lookup(name string) (Backend, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	b, ok := registry[name]
	return b, ok
}

// Names returns every registered backend name, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ErrUnknownBackend is returned by internal/pipeline when opts.Backend
// names nothing in the registry.
type ErrUnknownBackend struct {
	Name string
}

func (e *ErrUnknownBackend) Error() string {
	return fmt.Sprintf("unknown backend %q", e.Name)
}

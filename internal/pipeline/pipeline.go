// Package pipeline wires every semantic middle-end pass (spec §4.2-§4.8)
// plus backend dispatch (spec §6) into the single ordered run
// cmd/vexelc drives: load, resolve, type-check (which drives
// monomorphisation and compile-time evaluation on demand), optimise,
// compute reachability, then hand an AnalyzedProgram to the selected
// Backend; annotation and invariant validation run once after loading
// and once after type-checking. Grounded on the teacher's internal/pipeline.Pipeline
// (a Run loop over an ordered []Processor, continuing past a failed
// stage so later stages can still collect diagnostics) and
// internal/backend/processor.go (folding a backend's error into the
// same diagnostic stream the rest of the pipeline uses) — generalised
// from a list of interface-typed Processor steps to a fixed Go function
// per pass, since this port's passes take different concrete types
// (*symbols.Bindings, *types.TupleTable, ...) and gain nothing from a
// shared Processor interface the teacher's single PipelineContext gave
// its steps.
package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/vexel-lang/vexelc/internal/ast"
	vbackend "github.com/vexel-lang/vexelc/internal/backend"
	"github.com/vexel-lang/vexelc/internal/cache"
	"github.com/vexel-lang/vexelc/internal/config"
	"github.com/vexel-lang/vexelc/internal/ctime"
	"github.com/vexel-lang/vexelc/internal/generics"
	"github.com/vexel-lang/vexelc/internal/loader"
	"github.com/vexel-lang/vexelc/internal/optimizer"
	"github.com/vexel-lang/vexelc/internal/reach"
	"github.com/vexel-lang/vexelc/internal/resolver"
	"github.com/vexel-lang/vexelc/internal/symbols"
	"github.com/vexel-lang/vexelc/internal/typecheck"
	"github.com/vexel-lang/vexelc/internal/validate"
)

// Result is everything a completed run produced: either a non-nil Err
// (the first diagnostic that stopped the pipeline, per spec §7's
// "every surfaced error is terminal" rule), or a complete
// AnalyzedProgram ready for a Backend.
type Result struct {
	Program *vbackend.AnalyzedProgram
	Err     error
}

// Run executes every pass in order against opts.InputFile and, if every
// pass succeeds, dispatches to the backend opts.Backend names.
func Run(opts *config.Options) Result {
	var c *cache.Cache
	if opts.CacheDir != "" {
		opened, err := cache.Open(opts.CacheDir)
		if err != nil {
			return Result{Err: fmt.Errorf("opening cache_dir %s: %w", opts.CacheDir, err)}
		}
		defer opened.Close()
		c = opened
	}

	root := opts.ProjectRoot
	if root == "" {
		root = filepath.Dir(opts.InputFile)
	}

	l := loader.New(root)
	prog, errs := l.Load(opts.InputFile)
	if errs != nil && len(errs.Errors) > 0 {
		return Result{Err: errs.Errors[0]}
	}

	if err := validateModules(prog, false); err != nil {
		return Result{Err: err}
	}

	entryID, ok := prog.PathToID[filepath.Clean(opts.InputFile)]
	if !ok {
		return Result{Err: fmt.Errorf("pipeline: %s was not loaded into the program", opts.InputFile)}
	}

	r := resolver.New(prog, root)
	_, rerrs := r.Resolve(entryID)
	if rerrs != nil && len(rerrs.Errors) > 0 {
		return Result{Err: rerrs.Errors[0]}
	}

	gen := generics.New(prog, r.Bindings)
	ctimeEval := ctime.NewEvaluator(prog, r.Bindings)
	checker := typecheck.New(prog, r.Bindings, r.Tuples, r.Scopes, gen, ctimeEval)
	if terrs := checker.CheckProgram(); terrs != nil && len(terrs.Errors) > 0 {
		return Result{Err: terrs.Errors[0]}
	}

	if err := validateModules(prog, true); err != nil {
		return Result{Err: err}
	}

	opt := optimizer.New(prog, r.Bindings, ctimeEval).Run()
	if c != nil {
		populateConstexprCache(c, prog, r.Bindings, opt)
	}

	entryName := ""
	if mod := prog.ModuleByID(entryID); mod != nil {
		entryName = entryFuncName(mod)
	}
	facts := reach.New(prog, r.Bindings, opt).Run(entryName)

	analyzed := &vbackend.AnalyzedProgram{
		Program:      prog,
		Bindings:     r.Bindings,
		Analysis:     facts,
		Optimization: opt,
	}

	if err := runBackend(analyzed, opts); err != nil {
		return Result{Err: err}
	}

	return Result{Program: analyzed}
}

// entryFuncName reports the conventional "main" entry function's name if
// mod declares one, so reach.Run seeds it even when it is not itself
// exported (spec §4.7's reachability roots: exported functions, plus the
// program's designated entry point).
func entryFuncName(mod *ast.Module) string {
	for _, s := range mod.TopLevel {
		if s.Kind == ast.SFuncDecl && s.FuncName == "main" {
			return "main"
		}
	}
	return ""
}

// validateModules runs spec §4.8's annotation validator and invariant
// checker over every loaded module's own (pre-instantiation) AST —
// requireTypes is false straight after loading (no pass has populated
// Expr.Type yet) and true once the type checker has run.
func validateModules(prog *ast.Program, requireTypes bool) error {
	stage := "resolve"
	if requireTypes {
		stage = "typecheck"
	}
	for _, info := range prog.Modules {
		if info.Module == nil {
			continue
		}
		if err := validate.ValidateAnnotations(info.Module); err != nil {
			return err
		}
		if err := validate.CheckInvariants(info.Module, stage, requireTypes); err != nil {
			return err
		}
	}
	return nil
}

// runBackend looks up opts.Backend in the registry, runs its optional
// validate/requirements hooks if present, then calls Emit.
func runBackend(prog *vbackend.AnalyzedProgram, opts *config.Options) error {
	b, ok := vbackend.Lookup(opts.Backend)
	if !ok {
		return &vbackend.ErrUnknownBackend{Name: opts.Backend}
	}
	if v, ok := b.(vbackend.OptionsValidator); ok {
		if err := v.ValidateOptions(opts); err != nil {
			return err
		}
	}
	return b.Emit(prog, opts)
}

// populateConstexprCache writes every top-level constant global's folded
// value into c, keyed by "name@instance" — a write-through cache for
// whatever invokes this binary next against the same cache_dir, since
// nothing within a single Run can benefit from a cache it has not yet
// populated. Only scalar kinds and strings round-trip through the
// cache's flat columns (internal/cache's schema); internal/optimizer's
// own scalar check before folding a parameterless function leaves
// strings out.
func populateConstexprCache(c *cache.Cache, prog *ast.Program, bindings *symbols.Bindings, opt *optimizer.Facts) {
	for id := ast.InstanceID(0); int(id) < len(prog.Instances); id++ {
		for _, stmt := range prog.InstanceTopLevel[id] {
			var node any
			var init *ast.Expr
			switch {
			case stmt.Kind == ast.SVarDecl && stmt.VarInit != nil && opt.ConstexprInits[stmt]:
				node, init = stmt, stmt.VarInit
			case stmt.Kind == ast.SExpr && stmt.Expr != nil && stmt.Expr.Kind == ast.EAssignment && stmt.Expr.CreatesNewVariable:
				node, init = stmt.Expr.Left, stmt.Expr.Right
			default:
				continue
			}
			value, ok := opt.ConstexprValues[init]
			if !ok || !isScalarValue(value) {
				continue
			}
			sym, ok := bindings.Lookup(id, node)
			if !ok || sym == nil {
				continue
			}
			key := fmt.Sprintf("%s@%d", sym.Name, sym.InstanceID)
			_ = c.StoreConstexprValue(key, value)
		}
	}
}

func isScalarValue(v ctime.Value) bool {
	switch v.Kind {
	case ctime.VInt, ctime.VUint, ctime.VFloat, ctime.VBool, ctime.VString:
		return true
	default:
		return false
	}
}

// Package loader implements spec §4.1: discovering and parsing every
// module file transitively reachable from a compilation entry point into
// a single ast.Program, with import cycles handled by memoization rather
// than treated as an error. Grounded on
// original_source/frontend/src/driver/module_loader.cpp's
// `load_program`/`resolve_import` pair.
package loader

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/diag"
	"github.com/vexel-lang/vexelc/internal/lexer"
	"github.com/vexel-lang/vexelc/internal/parser"
	"github.com/vexel-lang/vexelc/internal/source"
)

// Loader walks the import graph starting from an entry file, building an
// ast.Program whose Modules slice is ordered by first-discovery (entry
// file first).
type Loader struct {
	ProjectRoot string
}

func New(projectRoot string) *Loader {
	return &Loader{ProjectRoot: projectRoot}
}

// Load parses entryPath and every file it transitively imports. Lex and
// parse errors from any file are aggregated and returned; an import
// segment that cannot be resolved to a file is *not* an error here (spec
// §4.1: "a missing import is reported by the resolver, with the source
// location of the importing statement, not by the loader") — it is simply
// left unexpanded, and resolver.Resolve reports it when it tries to
// expand that import statement.
func (l *Loader) Load(entryPath string) (*ast.Program, *diag.Aggregate) {
	prog := ast.NewProgram()
	errs := &diag.Aggregate{}

	abs, err := filepath.Abs(entryPath)
	if err != nil {
		abs = entryPath
	}
	l.loadFile(prog, filepath.Clean(abs), errs)

	if errs.HasErrors() {
		return prog, errs
	}
	return prog, nil
}

// loadFile parses path into prog if it has not already been loaded,
// recursively loading every module it imports, and returns its ModuleID.
// Cycles (A imports B imports A) terminate because path is registered in
// prog.PathToID before its imports are walked.
func (l *Loader) loadFile(prog *ast.Program, path string, errs *diag.Aggregate) ast.ModuleID {
	if id, ok := prog.PathToID[path]; ok {
		return id
	}

	id := ast.ModuleID(len(prog.Modules))
	prog.PathToID[path] = id
	prog.Modules = append(prog.Modules, ast.ModuleInfo{ID: id, Path: path})

	data, err := os.ReadFile(path)
	if err != nil {
		errs.Add(diag.New(diag.ResolveError, source.Location{File: path}, "cannot read module file %q: %v", path, err))
		return id
	}

	lx := lexer.New(path, string(data))
	toks, lexErrs := lx.Tokenize()
	if lexErrs != nil {
		errs.Errors = append(errs.Errors, lexErrs.Errors...)
	}

	ps := parser.New(toks)
	mod, parseErrs := ps.ParseModule(moduleNameFromPath(path), path)
	if parseErrs != nil {
		errs.Errors = append(errs.Errors, parseErrs.Errors...)
	}
	prog.Modules[id].Module = mod

	for _, segs := range l.collectImports(mod) {
		if resolved, ok := ResolvePath(l.ProjectRoot, segs, path); ok {
			l.loadFile(prog, resolved, errs)
		}
		// unresolved: left for the resolver to report against the
		// importing statement's own location.
	}

	return id
}

// collectImports gathers every import statement's segment list, whether
// it sits at module top level or nested inside a block, conditional or
// function body, using ast.Walk to reach every statement once.
func (l *Loader) collectImports(mod *ast.Module) [][]string {
	var out [][]string
	ast.Walk(mod, func(*ast.Expr) {}, func(stmt *ast.Stmt) {
		if stmt.Kind == ast.SImport {
			out = append(out, stmt.ImportPath)
		}
	})
	return out
}

func moduleNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

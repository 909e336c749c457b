// Package reach implements spec §4.7: the reachability/usage analyser
// that runs after type checking (and after internal/optimizer, whose
// constexpr-condition facts let it skip statically-dead branches exactly
// as internal/typecheck and internal/ctime already do). It is a
// fixed-point over call edges discovered in the typed AST — finite and
// monotone, so it always converges — grounded on
// original_source/frontend/src/analysis/analysis_report.cpp's
// AnalysisFacts shape (reachable_functions, used_global_vars,
// used_type_names, reentrancy_variants, ref_variants, var_mutability)
// and original_source/frontend/src/type_use_validator.cpp's call-edge
// walk (CallCollector), which is the only other surviving piece of the
// original analyser.
package reach

import (
	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/config"
	"github.com/vexel-lang/vexelc/internal/optimizer"
	"github.com/vexel-lang/vexelc/internal/symbols"
)

// Mutability is spec §4.7's Mutable/Constexpr fact for a variable symbol.
type Mutability int

const (
	Mutable Mutability = iota
	Constexpr
)

func (m Mutability) String() string {
	if m == Constexpr {
		return "constexpr"
	}
	return "mutable"
}

// Facts is spec §4.7's AnalysisFacts.
type Facts struct {
	ReachableFunctions map[*symbols.Symbol]bool
	UsedGlobalVars     map[*symbols.Symbol]bool
	UsedTypeNames      map[string]bool

	// ReentrancyVariants records, per function, the set of reentrancy
	// contexts it is known to be called from.
	ReentrancyVariants map[*symbols.Symbol]map[config.Reentrancy]bool

	// RefVariants records, per function, every distinct receiver-aliasing
	// mask observed across its call sites — one character per receiver
	// position, 'S' if that receiver shares a symbol with an earlier
	// receiver in the same call (aliased), 'D' if distinct. A zero-receiver
	// call contributes the empty mask "".
	RefVariants map[*symbols.Symbol]map[string]bool

	VarMutability map[*symbols.Symbol]Mutability
}

func newFacts() *Facts {
	return &Facts{
		ReachableFunctions: make(map[*symbols.Symbol]bool),
		UsedGlobalVars:     make(map[*symbols.Symbol]bool),
		UsedTypeNames:      make(map[string]bool),
		ReentrancyVariants: make(map[*symbols.Symbol]map[config.Reentrancy]bool),
		RefVariants:        make(map[*symbols.Symbol]map[string]bool),
		VarMutability:      make(map[*symbols.Symbol]Mutability),
	}
}

// Analyser walks every module instance's typed top-level statements,
// starting from the entry function and every exported function, to
// compute Facts.
type Analyser struct {
	Program  *ast.Program
	Bindings *symbols.Bindings
	Opt      *optimizer.Facts // may be nil when the optimiser found nothing foldable

	facts   *Facts
	visited map[*symbols.Symbol]bool
}

func New(prog *ast.Program, bindings *symbols.Bindings, opt *optimizer.Facts) *Analyser {
	return &Analyser{Program: prog, Bindings: bindings, Opt: opt}
}

// Run computes Facts for the whole program. entryName ("main" by
// convention; empty if the program defines no entry function) seeds
// reachability alongside every exported function across every instance.
func (a *Analyser) Run(entryName string) *Facts {
	a.facts = newFacts()
	a.visited = make(map[*symbols.Symbol]bool)

	frontier := a.seedEntryPoints(entryName)
	for len(frontier) > 0 {
		var next []*symbols.Symbol
		for _, sym := range frontier {
			if a.visited[sym] {
				continue
			}
			a.visited[sym] = true
			a.facts.ReachableFunctions[sym] = true
			a.markReentrant(sym, config.ReentrancyN)
			next = append(next, a.visitFunctionBody(sym)...)
		}
		frontier = next
	}

	a.collectUsedTypes()
	a.collectMutability()
	return a.facts
}

func (a *Analyser) seedEntryPoints(entryName string) []*symbols.Symbol {
	var seeds []*symbols.Symbol
	for id := ast.InstanceID(0); int(id) < len(a.Program.Instances); id++ {
		stmts, ok := a.Program.InstanceTopLevel[id]
		if !ok {
			continue
		}
		for _, s := range stmts {
			if s.Kind != ast.SFuncDecl {
				continue
			}
			sym, ok := a.Bindings.Lookup(id, s)
			if !ok || sym == nil || sym.Kind != symbols.Function {
				continue
			}
			if s.IsExported || (entryName != "" && s.FuncName == entryName) {
				seeds = append(seeds, sym)
			}
		}
	}
	return seeds
}

func (a *Analyser) markReentrant(sym *symbols.Symbol, ctx config.Reentrancy) {
	set, ok := a.facts.ReentrancyVariants[sym]
	if !ok {
		set = make(map[config.Reentrancy]bool)
		a.facts.ReentrancyVariants[sym] = set
	}
	set[ctx] = true
}

// visitFunctionBody walks sym's body collecting call edges (new callee
// symbols to add to the frontier), used-global references, and
// receiver-mask variants at each call site — the same traversal shape as
// type_use_validator.cpp's CallCollector, generalised to gather symbols
// instead of string keys.
func (a *Analyser) visitFunctionBody(sym *symbols.Symbol) []*symbols.Symbol {
	fn := sym.Declaration
	if fn == nil || fn.Body == nil {
		return nil
	}
	var callees []*symbols.Symbol
	instanceID := fn.ScopeInstanceID
	a.walkExpr(fn.Body, instanceID, &callees)
	return callees
}

func (a *Analyser) walkExpr(e *ast.Expr, instanceID ast.InstanceID, callees *[]*symbols.Symbol) {
	if e == nil {
		return
	}

	if e.Kind == ast.EIdentifier {
		if sym, ok := e.ResolvedSymbol.(*symbols.Symbol); ok && sym != nil {
			if (sym.Kind == symbols.Variable || sym.Kind == symbols.Constant) && !sym.IsLocal {
				a.facts.UsedGlobalVars[sym] = true
			}
		}
	}

	if e.Kind == ast.ECall {
		if sym, ok := e.Operand.ResolvedSymbol.(*symbols.Symbol); ok && sym != nil && sym.Kind == symbols.Function {
			*callees = append(*callees, sym)
			a.recordRefMask(sym, e.Receivers)
		}
	}

	// Skip a statically-dead branch: the optimiser already proved one
	// side unreachable, so neither its calls nor its global references
	// count toward usage (spec §4.3.4's dead-branch rule applies to
	// reachability the same way it applies to type-checking).
	if e.Kind == ast.EConditional && a.Opt != nil {
		if live, ok := a.Opt.ConstexprConditions[e.Condition]; ok {
			if live {
				a.walkExpr(e.TrueExpr, instanceID, callees)
			} else {
				a.walkExpr(e.FalseExpr, instanceID, callees)
			}
			return
		}
	}

	ast.WalkExprChildren(e, func(c *ast.Expr) { a.walkExpr(c, instanceID, callees) }, func(s *ast.Stmt) { a.walkStmt(s, instanceID, callees) })
}

func (a *Analyser) walkStmt(s *ast.Stmt, instanceID ast.InstanceID, callees *[]*symbols.Symbol) {
	if s == nil {
		return
	}
	if s.Kind == ast.SConditionalStmt && a.Opt != nil {
		if live, ok := a.Opt.ConstexprConditions[s.Condition]; ok {
			if live && s.TrueStmt != nil {
				a.walkStmt(s.TrueStmt, instanceID, callees)
			}
			return
		}
	}
	ast.WalkStmtChildren(s, func(c *ast.Expr) { a.walkExpr(c, instanceID, callees) }, func(c *ast.Stmt) { a.walkStmt(c, instanceID, callees) })
}

// recordRefMask computes the aliasing mask for one call site's receivers
// and adds it to callee's observed set (spec §4.7 "receiver-mask
// variants").
func (a *Analyser) recordRefMask(callee *symbols.Symbol, receivers []*ast.Expr) {
	mask := make([]byte, len(receivers))
	seen := make(map[*symbols.Symbol]bool, len(receivers))
	for i, r := range receivers {
		sym := receiverSymbol(r)
		if sym != nil && seen[sym] {
			mask[i] = 'S'
		} else {
			mask[i] = 'D'
		}
		if sym != nil {
			seen[sym] = true
		}
	}
	set, ok := a.facts.RefVariants[callee]
	if !ok {
		set = make(map[string]bool)
		a.facts.RefVariants[callee] = set
	}
	set[string(mask)] = true
}

func receiverSymbol(e *ast.Expr) *symbols.Symbol {
	switch e.Kind {
	case ast.EIdentifier:
		sym, _ := e.ResolvedSymbol.(*symbols.Symbol)
		return sym
	case ast.EMember:
		return receiverSymbol(e.Operand)
	case ast.EIndex:
		return receiverSymbol(e.Operand)
	default:
		return nil
	}
}

// collectUsedTypes walks the types of every reachable function's
// signature and every used global's type, following named-type field
// types transitively (spec §4.7 "used type names reached via used-value
// types").
func (a *Analyser) collectUsedTypes() {
	for sym := range a.facts.ReachableFunctions {
		fn := sym.Declaration
		if fn == nil {
			continue
		}
		for _, p := range fn.Params {
			a.collectType(p.Type)
		}
		a.collectType(fn.ReturnType)
		for _, rt := range fn.RefParamTypes {
			a.collectType(rt)
		}
	}
	for sym := range a.facts.UsedGlobalVars {
		a.collectType(sym.Type)
	}
}

func (a *Analyser) collectType(t ast.Type) {
	if t == nil {
		return
	}
	switch tt := t.(type) {
	case *ast.NamedType:
		if a.facts.UsedTypeNames[tt.Name] {
			return
		}
		a.facts.UsedTypeNames[tt.Name] = true
		sym, ok := tt.ResolvedSymbol.(*symbols.Symbol)
		if !ok || sym == nil || sym.Declaration == nil {
			return
		}
		for _, f := range sym.Declaration.Fields {
			a.collectType(f.Type)
		}
	case *ast.ArrayType:
		a.collectType(tt.Element)
	}
}

// collectMutability classifies every global variable symbol referenced
// by UsedGlobalVars (spec §4.7 "variable mutability facts"): a Constant
// symbol, or a Variable whose declaration the optimiser proved to be a
// constexpr initialiser, is Constexpr; everything else is Mutable.
func (a *Analyser) collectMutability() {
	for sym := range a.facts.UsedGlobalVars {
		a.facts.VarMutability[sym] = a.classifyMutability(sym)
	}
}

func (a *Analyser) classifyMutability(sym *symbols.Symbol) Mutability {
	if sym.Kind == symbols.Constant {
		return Constexpr
	}
	if a.Opt != nil && sym.Declaration != nil && a.Opt.ConstexprInits[sym.Declaration] {
		return Constexpr
	}
	return Mutable
}

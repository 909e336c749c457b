// Package ast implements the data model of spec §3: a tagged-variant AST
// whose nodes are mutated in place by every later pass (resolver, type
// checker, monomorphiser, compile-time evaluator) and whose pointer
// identity is the key every side table (Bindings, OptimizationFacts) is
// built on.
//
// Expr and Stmt are each a single struct with a Kind tag and a union of
// kind-specific fields, rather than one Go type per node kind. This is a
// deliberate deviation from the usual idiomatic-Go "interface + one struct
// per variant" AST shape: spec §9 requires that in-place rewrites (binary
// -> method call for operator overloading, iteration -> method call for
// custom iterators, process expression -> string literal) preserve node
// identity, and Go cannot change the dynamic type bound to an existing
// pointer. A tagged struct can be rewritten by mutating its Kind and
// fields without disturbing any pointer already held in a Bindings map or
// a parent's child slice — exactly the "node as a mutable enum-in-cell"
// shape spec §9 calls for.
package ast

import "github.com/vexel-lang/vexelc/internal/source"

// Node is anything carrying a source location — Expr, Stmt, and every
// Type variant implement it.
type Node interface {
	Loc() source.Location
}

// Annotation is a `[[name(args...)]]` attribute attached to a node.
type Annotation struct {
	Name     string
	Args     []string
	Location source.Location
}

// Module is name, path, and top-level statement list (spec §3).
type Module struct {
	Name     string
	Path     string
	TopLevel []*Stmt
	Location source.Location
}

// ModuleID identifies a parsed module file within a Program.
type ModuleID int

// InstanceID identifies a realised binding of a module within a particular
// import chain (GLOSSARY: "Module instance"). Two imports of the same
// module from different parents yield distinct instances.
type InstanceID int

// ModuleInfo pairs a parsed Module with its stable id and source path.
type ModuleInfo struct {
	ID     ModuleID
	Path   string
	Module *Module
}

// ModuleInstance is a realised binding of ModuleInfo within an import
// chain; it owns its own root scope and resolved symbols (see
// internal/symbols).
type ModuleInstance struct {
	ID       InstanceID
	ModuleID ModuleID
}

// Program is the root of the whole compilation unit (spec §3).
type Program struct {
	Modules   []ModuleInfo
	PathToID  map[string]ModuleID
	Instances []ModuleInstance

	// InstanceTopLevel is the statement list that actually belongs to each
	// module instance: for the entry instance this is the parsed module's
	// own TopLevel; for an instance created by import expansion it is the
	// resolver's deep clone (spec §4.2 step 4), since every later pass
	// (type checker, evaluator, reachability) must walk a given instance's
	// own statements, not the template module's.
	InstanceTopLevel map[InstanceID][]*Stmt
}

func NewProgram() *Program {
	return &Program{PathToID: make(map[string]ModuleID), InstanceTopLevel: make(map[InstanceID][]*Stmt)}
}

func (p *Program) ModuleByID(id ModuleID) *Module {
	if int(id) < 0 || int(id) >= len(p.Modules) {
		return nil
	}
	return p.Modules[id].Module
}

// NextInstanceID returns the InstanceID that AddInstance would assign next,
// without mutating the program — used by the resolver to predeclare an id
// before it finishes building the instance's scope tree.
func (p *Program) NextInstanceID() InstanceID {
	return InstanceID(len(p.Instances))
}

func (p *Program) AddInstance(moduleID ModuleID) InstanceID {
	id := p.NextInstanceID()
	p.Instances = append(p.Instances, ModuleInstance{ID: id, ModuleID: moduleID})
	return id
}

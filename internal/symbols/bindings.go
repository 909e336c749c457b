package symbols

import "github.com/vexel-lang/vexelc/internal/ast"

// BindingKey is (instance_id, AST node pointer) — the canonical key into
// Bindings (spec §3). Node is `any` because a binding may key either an
// *ast.Expr (identifier/call-target/type-use) or an *ast.Stmt (parameter
// declaration, import). Go pointers are already stable and comparable, so
// no arena-index indirection is needed — see SPEC_FULL §9.
type BindingKey struct {
	InstanceID ast.InstanceID
	Node       any
}

// Bindings is the mapping (instance_id, AST node pointer) -> Symbol: the
// canonical way to look up what an identifier means (spec §3). Populated
// by the resolver, extended by the type checker (tuple member lookups,
// operator-overload rewrites), and consulted by every later pass.
type Bindings struct {
	entries map[BindingKey]*Symbol
}

func NewBindings() *Bindings {
	return &Bindings{entries: make(map[BindingKey]*Symbol)}
}

func (b *Bindings) Bind(instance ast.InstanceID, node any, sym *Symbol) {
	b.entries[BindingKey{InstanceID: instance, Node: node}] = sym
}

func (b *Bindings) Lookup(instance ast.InstanceID, node any) (*Symbol, bool) {
	sym, ok := b.entries[BindingKey{InstanceID: instance, Node: node}]
	return sym, ok
}

// Len reports how many bindings have been recorded — used by tests to
// assert spec §8's "every identifier node n: Bindings[n.instance][n]
// exists" invariant holds for a whole compiled program.
func (b *Bindings) Len() int {
	return len(b.entries)
}

package resolver

import (
	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/diag"
	"github.com/vexel-lang/vexelc/internal/symbols"
)

// resolveType binds a Named type's name to its declaring Symbol. Primitive
// and type-variable types have nothing to resolve; an Array type
// recurses into its element and (if present) its size expression, since
// the size can itself reference compile-time constants.
func (r *Resolver) resolveType(t ast.Type, instanceID ast.InstanceID, scope *symbols.Scope) {
	switch tt := t.(type) {
	case nil:
		return
	case *ast.NamedType:
		sym := scope.Lookup(tt.Name)
		if sym == nil {
			r.errs.Add(diag.New(diag.ResolveError, tt.Location, "unresolved type name %q", tt.Name))
			return
		}
		if sym.Kind != symbols.TypeSym {
			r.errs.Add(diag.New(diag.ResolveError, tt.Location, "%q is not a type", tt.Name))
			return
		}
		tt.ResolvedSymbol = sym
		r.Bindings.Bind(instanceID, tt, sym)
	case *ast.ArrayType:
		r.resolveType(tt.Element, instanceID, scope)
		if tt.SizeExpr != nil {
			r.resolveExpr(tt.SizeExpr, instanceID, scope)
		}
	case *ast.PrimitiveType, *ast.TypeVar:
		// nothing to resolve
	}
}

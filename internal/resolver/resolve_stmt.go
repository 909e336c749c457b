package resolver

import (
	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/diag"
	"github.com/vexel-lang/vexelc/internal/source"
	"github.com/vexel-lang/vexelc/internal/symbols"
)

// resolveStmt resolves one statement's children against scope. Import
// statements never reach here directly — resolveTopStmt intercepts them —
// but a nested import would simply fall through the switch and resolve
// to nothing, matching original_source's restriction that imports are
// module top-level only.
func (r *Resolver) resolveStmt(stmt *ast.Stmt, instanceID ast.InstanceID, scope *symbols.Scope) {
	switch stmt.Kind {
	case ast.SExpr:
		r.resolveExpr(stmt.Expr, instanceID, scope)
	case ast.SReturn:
		r.resolveExpr(stmt.ReturnExpr, instanceID, scope)
	case ast.SBreak, ast.SContinue:
		// no children
	case ast.SVarDecl:
		r.resolveVarDecl(stmt, instanceID, scope)
	case ast.STypeDecl:
		for i := range stmt.Fields {
			r.resolveType(stmt.Fields[i].Type, instanceID, scope)
		}
	case ast.SFuncDecl:
		r.resolveFuncDecl(stmt, instanceID, scope)
	case ast.SConditionalStmt:
		r.resolveExpr(stmt.Condition, instanceID, scope)
		if stmt.TrueStmt != nil {
			r.resolveStmt(stmt.TrueStmt, instanceID, scope)
		}
	}
}

// resolveVarDecl handles `name: Type;` declarations. At module top level
// these were already entered into scope by the pre-declare pass; a
// nested occurrence (inside a function body) declares a fresh mutable
// local on the spot, since only top-level declarations are pre-declared
// (spec §4.2 step 2).
func (r *Resolver) resolveVarDecl(stmt *ast.Stmt, instanceID ast.InstanceID, scope *symbols.Scope) {
	if _, already := scope.DeclaredHere(stmt.VarName); !already {
		if err := r.checkShadow(scope, stmt.VarName, stmt.Location); err != nil {
			r.errs.Add(err)
		} else {
			sym := &symbols.Symbol{
				Kind: symbols.Variable, Name: stmt.VarName, Declaration: stmt,
				Type: stmt.VarType, IsMutable: true, InstanceID: instanceID, IsLocal: !scope.IsRoot,
			}
			scope.Declare(stmt.VarName, sym)
			r.Bindings.Bind(instanceID, stmt, sym)
		}
	}
	r.resolveType(stmt.VarType, instanceID, scope)
	if stmt.VarInit != nil {
		r.resolveExpr(stmt.VarInit, instanceID, scope)
	}
}

func (r *Resolver) resolveFuncDecl(stmt *ast.Stmt, instanceID ast.InstanceID, scope *symbols.Scope) {
	funcScope := scope.NewChild()

	if stmt.TypeNamespace != "" {
		stmt.RefParamTypes = make([]ast.Type, len(stmt.RefParams))
	}
	for i, refName := range stmt.RefParams {
		var refType ast.Type
		if stmt.TypeNamespace != "" {
			refType = &ast.NamedType{Name: stmt.TypeNamespace, Location: stmt.Location}
		}
		if stmt.RefParamTypes != nil {
			stmt.RefParamTypes[i] = refType
		}
		sym := &symbols.Symbol{
			Kind: symbols.ParameterSym, Name: refName, Declaration: stmt,
			Type: refType, IsMutable: true, InstanceID: instanceID, IsLocal: true,
		}
		funcScope.Declare(refName, sym)
	}

	for i := range stmt.Params {
		p := &stmt.Params[i]
		r.resolveType(p.Type, instanceID, funcScope)
		sym := &symbols.Symbol{
			Kind: symbols.ParameterSym, Name: p.Name, Declaration: stmt,
			Type: p.Type, IsMutable: false, InstanceID: instanceID, IsLocal: true,
		}
		funcScope.Declare(p.Name, sym)
	}

	r.resolveType(stmt.ReturnType, instanceID, funcScope)

	if stmt.Body != nil {
		r.resolveExpr(stmt.Body, instanceID, funcScope)
	}
}

// checkShadow implements spec §4.2's shadowing rule: a new name in an
// inner (non-root) scope with the same spelling as a name already visible
// in an enclosing scope is rejected, except for the loop variable `_`.
func (r *Resolver) checkShadow(scope *symbols.Scope, name string, loc source.Location) *diag.Error {
	if name == "_" || scope.IsRoot {
		return nil
	}
	if existing := scope.Lookup(name); existing != nil {
		return diag.New(diag.ResolveError, loc, "%q shadows an existing binding in an enclosing scope", name)
	}
	return nil
}

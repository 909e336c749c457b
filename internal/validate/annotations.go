// Package validate implements spec §4.8: the annotation validator and
// the structural invariant checker. Both are read-only passes over an
// already-built AST — the annotation validator rejects any `[[name]]`
// outside the fixed known set, the invariant checker asserts the
// structural shape every later pass assumes holds.
package validate

import (
	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/config"
	"github.com/vexel-lang/vexelc/internal/diag"
)

// ValidateAnnotations walks every statement and expression in mod,
// rejecting the first `[[name(...)]]` whose name is not in
// config.KnownAnnotations. Grounded on
// original_source/frontend/src/resolve/annotation_validator.cpp, which
// throws on the first unknown name rather than collecting every one.
func ValidateAnnotations(mod *ast.Module) *diag.Error {
	for _, s := range mod.TopLevel {
		if err := validateStmtAnnotations(s); err != nil {
			return err
		}
	}
	return nil
}

func validateList(anns []ast.Annotation) *diag.Error {
	for _, a := range anns {
		if !config.KnownAnnotations[a.Name] {
			return diag.New(diag.ResolveError, a.Location, "unknown annotation: [[%s]]", a.Name)
		}
	}
	return nil
}

func validateExprAnnotations(e *ast.Expr) *diag.Error {
	if e == nil {
		return nil
	}
	if err := validateList(e.Annotations); err != nil {
		return err
	}
	var found *diag.Error
	ast.WalkExprChildren(e, func(c *ast.Expr) {
		if found == nil {
			found = validateExprAnnotations(c)
		}
	}, func(c *ast.Stmt) {
		if found == nil {
			found = validateStmtAnnotations(c)
		}
	})
	return found
}

func validateStmtAnnotations(s *ast.Stmt) *diag.Error {
	if s == nil {
		return nil
	}
	if err := validateList(s.Annotations); err != nil {
		return err
	}
	if s.Kind == ast.SFuncDecl {
		for _, p := range s.Params {
			if err := validateList(p.Annotations); err != nil {
				return err
			}
		}
	} else if s.Kind == ast.STypeDecl {
		for _, f := range s.Fields {
			if err := validateList(f.Annotations); err != nil {
				return err
			}
		}
	}
	var found *diag.Error
	ast.WalkStmtChildren(s, func(c *ast.Expr) {
		if found == nil {
			found = validateExprAnnotations(c)
		}
	}, func(c *ast.Stmt) {
		if found == nil {
			found = validateStmtAnnotations(c)
		}
	})
	return found
}

package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/loader"
	"github.com/vexel-lang/vexelc/internal/source"
)

func loadModule(t *testing.T, src string) *ast.Module {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.vx")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	l := loader.New(dir)
	prog, errs := l.Load(path)
	require.Nil(t, errs)

	id, ok := prog.PathToID[filepath.Clean(path)]
	require.True(t, ok)
	return prog.ModuleByID(id)
}

func TestValidateAnnotationsAcceptsKnownName(t *testing.T) {
	mod := loadModule(t, "[[nonreentrant]]\n&f() -> #i32 { -> 1; }")
	require.Nil(t, ValidateAnnotations(mod))
}

func TestValidateAnnotationsRejectsUnknownName(t *testing.T) {
	mod := loadModule(t, "[[bogus]]\n&f() -> #i32 { -> 1; }")
	err := ValidateAnnotations(mod)
	require.NotNil(t, err)
	require.Contains(t, err.Message, "bogus")
}

func TestCheckInvariantsAcceptsWellFormedModule(t *testing.T) {
	mod := loadModule(t, "&f() -> #i32 { -> 1; }\nx = 2;")
	require.Nil(t, CheckInvariants(mod, "resolve", false))
}

func TestCheckInvariantsRejectsNonExternalWithoutBody(t *testing.T) {
	stmt := &ast.Stmt{Kind: ast.SFuncDecl, FuncName: "sys", IsExternal: false, Body: nil, Location: source.Location{}}
	mod := &ast.Module{TopLevel: []*ast.Stmt{stmt}}

	err := CheckInvariants(mod, "typecheck", false)
	require.NotNil(t, err)
	require.Contains(t, err.Message, "invariant failure [typecheck]")
	require.Contains(t, err.Message, "non-external function has no body")
}

func TestCheckInvariantsRejectsMissingConditionalBody(t *testing.T) {
	stmt := &ast.Stmt{Kind: ast.SConditionalStmt, Condition: &ast.Expr{Kind: ast.EIntLiteral, IntValue: 1}, TrueStmt: nil}
	mod := &ast.Module{TopLevel: []*ast.Stmt{stmt}}

	err := CheckInvariants(mod, "resolve", false)
	require.NotNil(t, err)
	require.Contains(t, err.Message, "statement conditional missing condition or body")
}

func TestCheckInvariantsRejectsTypedRepeatExpression(t *testing.T) {
	repeat := &ast.Expr{
		Kind:      ast.ERepeat,
		Condition: &ast.Expr{Kind: ast.EIntLiteral, IntValue: 1},
		Right:     &ast.Expr{Kind: ast.EIntLiteral, IntValue: 2},
		Type:      &ast.PrimitiveType{Primitive: ast.I32},
	}
	stmt := &ast.Stmt{Kind: ast.SExpr, Expr: repeat}
	mod := &ast.Module{TopLevel: []*ast.Stmt{stmt}}

	err := CheckInvariants(mod, "typecheck", true)
	require.NotNil(t, err)
	require.Contains(t, err.Message, "repeat expression must never carry a type")
}

func TestCheckInvariantsIgnoresTypedRepeatWhenTypesNotRequired(t *testing.T) {
	repeat := &ast.Expr{
		Kind:      ast.ERepeat,
		Condition: &ast.Expr{Kind: ast.EIntLiteral, IntValue: 1},
		Right:     &ast.Expr{Kind: ast.EIntLiteral, IntValue: 2},
		Type:      &ast.PrimitiveType{Primitive: ast.I32},
	}
	stmt := &ast.Stmt{Kind: ast.SExpr, Expr: repeat}
	mod := &ast.Module{TopLevel: []*ast.Stmt{stmt}}

	require.Nil(t, CheckInvariants(mod, "resolve", false))
}

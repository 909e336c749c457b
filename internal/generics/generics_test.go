package generics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/source"
	"github.com/vexel-lang/vexelc/internal/symbols"
)

func makeGenericIdentity() *ast.Stmt {
	return &ast.Stmt{
		Kind:       ast.SFuncDecl,
		FuncName:   "id",
		Params:     []ast.Parameter{{Name: "x", Type: &ast.TypeVar{Name: "T"}}},
		ReturnType: &ast.TypeVar{Name: "T"},
		Body: &ast.Expr{
			Kind:       ast.EBlock,
			ResultExpr: ast.MakeIdentifier("x", source.Location{}),
		},
	}
}

func TestIsGenericDetectsTypeVar(t *testing.T) {
	fn := makeGenericIdentity()
	require.True(t, IsGeneric(fn))

	concrete := &ast.Stmt{Kind: ast.SFuncDecl, FuncName: "f", Params: []ast.Parameter{{Name: "x", Type: &ast.PrimitiveType{Primitive: ast.I32}}}}
	require.False(t, IsGeneric(concrete))
}

func TestInstantiateCachesBySignature(t *testing.T) {
	prog := ast.NewProgram()
	bindings := symbols.NewBindings()
	m := New(prog, bindings)
	scope := symbols.NewRootScope()

	fn := makeGenericIdentity()
	i32 := &ast.PrimitiveType{Primitive: ast.I32}
	u32 := &ast.PrimitiveType{Primitive: ast.U32}

	sym1 := m.Instantiate(fn, 0, []ast.Type{i32}, scope)
	sym2 := m.Instantiate(fn, 0, []ast.Type{i32}, scope)
	require.Same(t, sym1, sym2, "same signature must reuse the same instantiation")

	sym3 := m.Instantiate(fn, 0, []ast.Type{u32}, scope)
	require.NotEqual(t, sym1.Name, sym3.Name, "distinct signatures must mangle to distinct names")
}

func TestInstantiateSubstitutesParamAndReturnTypes(t *testing.T) {
	prog := ast.NewProgram()
	bindings := symbols.NewBindings()
	m := New(prog, bindings)
	scope := symbols.NewRootScope()

	fn := makeGenericIdentity()
	i32 := &ast.PrimitiveType{Primitive: ast.I32}

	sym := m.Instantiate(fn, 0, []ast.Type{i32}, scope)
	decl := sym.Declaration
	require.Equal(t, i32, decl.Params[0].Type)
	require.Equal(t, i32, decl.ReturnType)
	require.False(t, decl.IsGeneric)
	require.True(t, decl.IsInstantiation)
}

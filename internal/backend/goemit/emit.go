package goemit

import (
	"fmt"

	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/symbols"
)

// emitFunction writes one Go func for sym, or a stub func whose body is
// a single panic, preceded by an `// unsupported: <reason>` comment, if the
// declaration uses a construct this package does not translate —
// matching SPEC_FULL.md §6's "degrade to a clear comment rather than
// failing the whole emit" rule.
func (g *generator) emitFunction(sym *symbols.Symbol) {
	fn := sym.Declaration
	if fn == nil || fn.Kind != ast.SFuncDecl {
		return
	}
	if fn.IsExternal {
		fmt.Fprintf(&g.buf, "// %s: external function, no body to translate\n\n", symbolLabel(sym))
		return
	}
	if fn.IsGeneric {
		fmt.Fprintf(&g.buf, "// %s: unsupported: generic function body not monomorphised\n\n", symbolLabel(sym))
		return
	}
	if len(fn.RefParams) != 0 {
		g.emitStub(sym, "receiver parameters have no Go equivalent")
		return
	}

	params, ok := goParams(fn)
	if !ok {
		g.emitStub(sym, "a parameter type has no scalar Go equivalent")
		return
	}
	ret, hasRet, ok := goReturnType(fn)
	if !ok {
		g.emitStub(sym, "the return type has no scalar Go equivalent")
		return
	}

	body, ok := newBodyEmitter().emitBlock(fn.Body)
	if !ok {
		g.emitStub(sym, "the function body uses a construct this backend does not translate")
		return
	}

	fmt.Fprintf(&g.buf, "func %s(%s)", symbolLabel(sym), params)
	if hasRet {
		fmt.Fprintf(&g.buf, " %s", ret)
	}
	g.buf.WriteString(" {\n")
	g.buf.WriteString(body)
	g.buf.WriteString("}\n\n")
}

func (g *generator) emitStub(sym *symbols.Symbol, reason string) {
	fmt.Fprintf(&g.buf, "// %s: unsupported: %s\nfunc %s() {\n\tpanic(%q)\n}\n\n",
		symbolLabel(sym), reason, symbolLabel(sym), "unsupported: "+reason)
}

func goParams(fn *ast.Stmt) (string, bool) {
	out := ""
	for i, p := range fn.Params {
		if i > 0 {
			out += ", "
		}
		gt, ok := goType(p.Type)
		if !ok {
			return "", false
		}
		out += fmt.Sprintf("%s %s", p.Name, gt)
	}
	return out, true
}

func goReturnType(fn *ast.Stmt) (string, bool, bool) {
	if fn.ReturnType == nil {
		return "", false, true
	}
	gt, ok := goType(fn.ReturnType)
	return gt, gt != "", ok
}

// goType maps a scalar Vexel type to its Go equivalent. Array and named
// (struct) types are left unsupported for now — they need layout
// decisions (slice vs. fixed array, struct field order) this reference
// backend does not make.
func goType(t ast.Type) (string, bool) {
	prim, ok := t.(*ast.PrimitiveType)
	if !ok {
		return "", false
	}
	switch prim.Primitive {
	case ast.I8:
		return "int8", true
	case ast.I16:
		return "int16", true
	case ast.I32:
		return "int32", true
	case ast.I64:
		return "int64", true
	case ast.U8:
		return "uint8", true
	case ast.U16:
		return "uint16", true
	case ast.U32:
		return "uint32", true
	case ast.U64:
		return "uint64", true
	case ast.F32:
		return "float32", true
	case ast.F64:
		return "float64", true
	case ast.Bool:
		return "bool", true
	case ast.StringPrim:
		return "string", true
	default:
		return "", false
	}
}

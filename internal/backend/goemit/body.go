package goemit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vexel-lang/vexelc/internal/ast"
)

// bodyEmitter renders a narrow, syntax-safe subset of function bodies as
// Go statements: literals, identifiers, binary/unary expressions, calls,
// var declarations, returns, and single-branch conditionals. Anything
// wider (loops, member/index access, generic dispatch, process/resource
// expressions) reports ok=false so the caller falls back to a stub —
// SPEC_FULL.md §6's "degrade to a clear comment" rule, not a half
// translation.
type bodyEmitter struct {
	indent int
}

func newBodyEmitter() *bodyEmitter { return &bodyEmitter{indent: 1} }

func (b *bodyEmitter) pad() string { return strings.Repeat("\t", b.indent) }

func (b *bodyEmitter) emitBlock(block *ast.Expr) (string, bool) {
	if block == nil || block.Kind != ast.EBlock {
		return "", false
	}
	var out strings.Builder
	for _, s := range block.Statements {
		line, ok := b.emitStmt(s)
		if !ok {
			return "", false
		}
		out.WriteString(line)
	}
	if block.ResultExpr != nil {
		expr, ok := b.emitExpr(block.ResultExpr)
		if !ok {
			return "", false
		}
		fmt.Fprintf(&out, "%sreturn %s\n", b.pad(), expr)
	}
	return out.String(), true
}

func (b *bodyEmitter) emitStmt(s *ast.Stmt) (string, bool) {
	switch s.Kind {
	case ast.SReturn:
		if s.ReturnExpr == nil {
			return b.pad() + "return\n", true
		}
		expr, ok := b.emitExpr(s.ReturnExpr)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%sreturn %s\n", b.pad(), expr), true

	case ast.SExpr:
		expr, ok := b.emitExpr(s.Expr)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%s_ = %s\n", b.pad(), expr), true

	case ast.SVarDecl:
		if s.VarInit == nil {
			return "", false
		}
		expr, ok := b.emitExpr(s.VarInit)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%s%s := %s\n", b.pad(), s.VarName, expr), true

	case ast.SConditionalStmt:
		if s.Condition == nil || s.TrueStmt == nil {
			return "", false
		}
		cond, ok := b.emitExpr(s.Condition)
		if !ok {
			return "", false
		}
		b.indent++
		inner, ok := b.emitStmt(s.TrueStmt)
		b.indent--
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%sif %s {\n%s%s}\n", b.pad(), cond, inner, b.pad()), true

	default:
		return "", false
	}
}

func (b *bodyEmitter) emitExpr(e *ast.Expr) (string, bool) {
	if e == nil {
		return "", false
	}
	switch e.Kind {
	case ast.EIntLiteral:
		if e.IsNegative {
			return "-" + strconv.FormatUint(e.IntValue, 10), true
		}
		return strconv.FormatUint(e.IntValue, 10), true

	case ast.EFloatLiteral:
		return strconv.FormatFloat(e.FloatValue, 'g', -1, 64), true

	case ast.EStringLiteral:
		return strconv.Quote(e.StringValue), true

	case ast.ECharLiteral:
		return strconv.QuoteRune(rune(e.CharValue)), true

	case ast.EIdentifier:
		return e.Name, true

	case ast.EBinary:
		left, ok := b.emitExpr(e.Left)
		if !ok {
			return "", false
		}
		right, ok := b.emitExpr(e.Right)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("(%s %s %s)", left, e.Op, right), true

	case ast.EUnary:
		operand, ok := b.emitExpr(e.Operand)
		if !ok {
			return "", false
		}
		op := e.Op
		if op == "~" {
			// Vexel's bitwise-not sigil; Go spells it with the same
			// unary ^ operator applied to an integer operand.
			op = "^"
		}
		return fmt.Sprintf("(%s%s)", op, operand), true

	case ast.ECast:
		operand, ok := b.emitExpr(e.Operand)
		if !ok {
			return "", false
		}
		goTarget, ok := goType(e.TargetType)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%s(%s)", goTarget, operand), true

	case ast.ECall:
		if e.Operand == nil || e.Operand.Kind != ast.EIdentifier || len(e.Receivers) != 0 {
			return "", false
		}
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			arg, ok := b.emitExpr(a)
			if !ok {
				return "", false
			}
			args[i] = arg
		}
		return fmt.Sprintf("%s(%s)", e.Operand.Name, strings.Join(args, ", ")), true

	case ast.EConditional:
		// Go has no ternary operator; this reference backend only
		// translates a conditional expression nested inside a larger
		// expression tree when both branches are themselves
		// expressions it can render, by falling back to an
		// immediately-invoked closure.
		cond, ok := b.emitExpr(e.Condition)
		if !ok {
			return "", false
		}
		trueExpr, ok := b.emitExpr(e.TrueExpr)
		if !ok {
			return "", false
		}
		falseExpr, ok := b.emitExpr(e.FalseExpr)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("func() any { if %s { return %s }; return %s }()", cond, trueExpr, falseExpr), true

	default:
		return "", false
	}
}

package parser

import (
	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/lexer"
	"github.com/vexel-lang/vexelc/internal/source"
)

// parseExpr is the precedence-climbing entry point, grounded on
// original_source/frontend/src/parse/parser.cpp's parse_assignment chain
// (assignment -> conditional -> logic_or -> ... -> unary -> postfix ->
// primary). A depth guard mirrors the evaluator/type-checker's own
// recursion guards (spec §4.5's "recursion... depth guards").
func (p *Parser) parseExpr() *ast.Expr {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxExprDepth {
		p.recordError("expression too complex: recursion depth limit exceeded")
		return nil
	}
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() *ast.Expr {
	expr := p.parseConditional()
	if p.match(lexer.Assign) {
		rhs := p.parseAssignment()
		return &ast.Expr{Kind: ast.EAssignment, Left: expr, Right: rhs, Location: expr.Location}
	}
	return expr
}

func (p *Parser) parseConditional() *ast.Expr {
	expr := p.parseLogicOr()
	if p.match(lexer.Question) {
		trueExpr := p.parseExpr()
		p.consume(lexer.Colon, "expected ':' in conditional expression")
		falseExpr := p.parseConditional()
		return &ast.Expr{Kind: ast.EConditional, Condition: expr, TrueExpr: trueExpr, FalseExpr: falseExpr, Location: expr.Location}
	}
	return expr
}

func (p *Parser) binaryLevel(next func() *ast.Expr, ops ...lexer.TokenType) *ast.Expr {
	left := next()
	for {
		matched := false
		for _, op := range ops {
			if p.check(op) {
				matched = true
				break
			}
		}
		if !matched {
			return left
		}
		opTok := p.current()
		p.pos++
		right := next()
		left = &ast.Expr{Kind: ast.EBinary, Op: opTok.Lexeme, Left: left, Right: right, Location: left.Location}
	}
}

func (p *Parser) parseLogicOr() *ast.Expr  { return p.binaryLevel(p.parseLogicAnd, lexer.LogicalOr) }
func (p *Parser) parseLogicAnd() *ast.Expr { return p.binaryLevel(p.parseBitOr, lexer.LogicalAnd) }
func (p *Parser) parseBitOr() *ast.Expr    { return p.binaryLevel(p.parseBitXor, lexer.BitOr) }
func (p *Parser) parseBitXor() *ast.Expr   { return p.binaryLevel(p.parseBitAnd, lexer.BitXor) }
func (p *Parser) parseBitAnd() *ast.Expr   { return p.binaryLevel(p.parseCompare, lexer.Ampersand) }

// parseCompare deliberately does not chain (spec has no notion of Python-
// style chained comparisons); a second comparison operator immediately
// following the first is a parse error asking for explicit parentheses.
func (p *Parser) parseCompare() *ast.Expr {
	left := p.parseShift()
	if p.isCompareOp(p.current().Type) {
		op := p.current()
		p.pos++
		right := p.parseShift()
		if p.isCompareOp(p.current().Type) {
			p.recordError("ambiguous chained comparison: use explicit parentheses like (a < b) < c")
		}
		return &ast.Expr{Kind: ast.EBinary, Op: op.Lexeme, Left: left, Right: right, Location: left.Location}
	}
	return left
}

func (p *Parser) isCompareOp(t lexer.TokenType) bool {
	switch t {
	case lexer.Equal, lexer.NotEqual, lexer.Less, lexer.LessEqual, lexer.Greater, lexer.GreaterEqual:
		return true
	}
	return false
}

func (p *Parser) parseShift() *ast.Expr {
	return p.binaryLevel(p.parseRange, lexer.LeftShift, lexer.RightShift)
}

// parseRange parses `a..b`, optionally immediately consumed by a trailing
// `@`/`@@` iteration suffix (spec §4.3.4's custom iteration lowering
// applies equally to a literal range).
func (p *Parser) parseRange() *ast.Expr {
	left := p.parseSum()
	if !p.match(lexer.DotDot) {
		return left
	}
	right := p.parseSum()
	rangeExpr := &ast.Expr{Kind: ast.ERange, Left: left, Right: right, Location: left.Location}

	sorted := p.match(lexer.DoubleAt)
	plain := !sorted && p.match(lexer.At)
	if sorted || plain {
		body := p.parseExpr()
		return &ast.Expr{Kind: ast.EIteration, Operand: rangeExpr, Right: body, Sorted: sorted, Location: rangeExpr.Location}
	}
	return rangeExpr
}

func (p *Parser) parseSum() *ast.Expr  { return p.binaryLevel(p.parseProd, lexer.Plus, lexer.Minus) }
func (p *Parser) parseProd() *ast.Expr {
	return p.binaryLevel(p.parseUnary, lexer.Star, lexer.Slash, lexer.Percent)
}

func (p *Parser) parseUnary() *ast.Expr {
	loc := p.current().Location

	switch {
	case p.check(lexer.Minus), p.check(lexer.LogicalNot), p.check(lexer.BitNot):
		op := p.current()
		p.pos++
		operand := p.parseUnary()
		if op.Type == lexer.Minus && operand != nil && operand.Kind == ast.EIntLiteral {
			return &ast.Expr{Kind: ast.EIntLiteral, IntValue: operand.IntValue, IsNegative: true, IntText: operand.IntText, Location: loc}
		}
		return &ast.Expr{Kind: ast.EUnary, Op: op.Lexeme, Operand: operand, Location: loc}
	case p.match(lexer.BitOr):
		operand := p.parseUnary()
		p.consume(lexer.BitOr, "expected closing '|'")
		return &ast.Expr{Kind: ast.ELength, Operand: operand, Location: loc}
	case p.match(lexer.LeftParen):
		return p.parseParenthesized(loc)
	}

	return p.parsePostfix()
}

// parseParenthesized handles every shape that can follow `(`: a cast
// `(#Type)expr`, a tuple literal `(a, b, ...)`, a repeat expression
// `(cond)@body` (spec §4.10's generalised expression-parameter handling
// applies to repeat bodies too), or an ordinary parenthesized expression.
func (p *Parser) parseParenthesized(loc source.Location) *ast.Expr {
	if p.check(lexer.Hash) {
		typ := p.parseType()
		p.consume(lexer.RightParen, "expected ')'")
		operand := p.parseUnary()
		return &ast.Expr{Kind: ast.ECast, TargetType: typ, Operand: operand, Location: loc}
	}

	expr := p.parseExpr()

	if p.check(lexer.Comma) {
		elements := []*ast.Expr{expr}
		for p.match(lexer.Comma) {
			elements = append(elements, p.parseExpr())
		}
		p.consume(lexer.RightParen, "expected ')'")
		return &ast.Expr{Kind: ast.ETupleLiteral, Elements: elements, Location: loc}
	}

	p.consume(lexer.RightParen, "expected ')'")

	if p.match(lexer.At) {
		body := p.parseExpr()
		return p.parsePostfixSuffix(&ast.Expr{Kind: ast.ERepeat, Condition: expr, Right: body, Location: loc})
	}

	return p.parsePostfixSuffix(expr)
}

func (p *Parser) parsePostfix() *ast.Expr {
	return p.parsePostfixSuffix(p.parsePrimary())
}

func (p *Parser) parsePostfixSuffix(expr *ast.Expr) *ast.Expr {
	for {
		switch {
		case p.match(lexer.LeftParen):
			args := p.parseArgList()
			p.consume(lexer.RightParen, "expected ')'")
			expr = &ast.Expr{Kind: ast.ECall, Operand: expr, Args: args, Location: expr.Location}
		case p.match(lexer.LeftBracket):
			index := p.parseExpr()
			p.consume(lexer.RightBracket, "expected ']'")
			expr = &ast.Expr{Kind: ast.EIndex, Operand: expr, Args: []*ast.Expr{index}, Location: expr.Location}
		case p.match(lexer.Dot):
			member := p.consume(lexer.Identifier, "expected member name").Lexeme
			if p.match(lexer.LeftParen) {
				args := p.parseArgList()
				p.consume(lexer.RightParen, "expected ')'")
				call := &ast.Expr{Kind: ast.ECall, Operand: ast.MakeIdentifier(member, expr.Location), Args: args, Receivers: []*ast.Expr{expr}, Location: expr.Location}
				expr = call
			} else {
				expr = &ast.Expr{Kind: ast.EMember, Operand: expr, Field: member, Location: expr.Location}
			}
		default:
			return expr
		}
	}
}

func (p *Parser) parseArgList() []*ast.Expr {
	var args []*ast.Expr
	if p.check(lexer.RightParen) {
		return args
	}
	for {
		args = append(args, p.parseExpr())
		if !p.match(lexer.Comma) {
			break
		}
	}
	return args
}

func (p *Parser) parsePrimary() *ast.Expr {
	anns := p.parseAnnotations()
	loc := p.current().Location

	if p.match(lexer.DoubleColon) {
		path := p.parseResourcePath()
		return &ast.Expr{Kind: ast.EResource, PathSegments: path, Annotations: anns, Location: loc}
	}

	switch {
	case p.check(lexer.IntLiteral):
		tok := p.current()
		p.pos++
		return &ast.Expr{Kind: ast.EIntLiteral, IntValue: tok.UintValue, IntText: tok.Lexeme, Annotations: anns, Location: loc}
	case p.check(lexer.FloatLiteral):
		tok := p.current()
		p.pos++
		return &ast.Expr{Kind: ast.EFloatLiteral, FloatValue: tok.FloatValue, Annotations: anns, Location: loc}
	case p.check(lexer.StringLiteral):
		tok := p.current()
		p.pos++
		return &ast.Expr{Kind: ast.EStringLiteral, StringValue: tok.StringValue, Annotations: anns, Location: loc}
	case p.check(lexer.CharLiteral):
		tok := p.current()
		p.pos++
		return &ast.Expr{Kind: ast.ECharLiteral, CharValue: byte(tok.UintValue), Annotations: anns, Location: loc}
	case p.check(lexer.LeftBrace):
		e := p.parseBlock()
		e.Annotations = anns
		return e
	case p.check(lexer.LeftBracket):
		e := p.parseArrayLiteral()
		e.Annotations = anns
		return e
	case p.match(lexer.Dollar):
		name := p.consume(lexer.Identifier, "expected identifier after '$'").Lexeme
		return &ast.Expr{Kind: ast.EIdentifier, Name: name, IsExprParamRef: true, Annotations: anns, Location: loc}
	case p.check(lexer.Identifier):
		return p.parseIdentifierOrQualified(anns, loc)
	}

	p.recordError("unexpected token in expression: %s", p.current().Type)
	p.pos++
	return nil
}

func (p *Parser) parseIdentifierOrQualified(anns []ast.Annotation, loc source.Location) *ast.Expr {
	name := p.current().Lexeme
	p.pos++
	for p.match(lexer.DoubleColon) {
		name = p.consume(lexer.Identifier, "expected identifier").Lexeme
	}

	id := &ast.Expr{Kind: ast.EIdentifier, Name: name, Annotations: anns, Location: loc}

	if p.check(lexer.Colon) {
		saved := p.pos
		p.pos++
		if p.check(lexer.Hash) || p.check(lexer.LeftBracket) {
			id.DeclaredType = p.parseType()
		} else {
			p.pos = saved
		}
	}

	return id
}

func (p *Parser) parseArrayLiteral() *ast.Expr {
	loc := p.current().Location
	p.consume(lexer.LeftBracket, "expected '['")
	var elems []*ast.Expr
	if !p.check(lexer.RightBracket) {
		for {
			elems = append(elems, p.parseExpr())
			if !p.match(lexer.Comma) {
				break
			}
		}
	}
	p.consume(lexer.RightBracket, "expected ']'")
	return &ast.Expr{Kind: ast.EArrayLiteral, Elements: elems, Location: loc}
}

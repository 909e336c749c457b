package parser

import (
	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/lexer"
)

var primitiveNames = map[string]ast.PrimitiveKind{
	"i8": ast.I8, "i16": ast.I16, "i32": ast.I32, "i64": ast.I64,
	"u8": ast.U8, "u16": ast.U16, "u32": ast.U32, "u64": ast.U64,
	"f32": ast.F32, "f64": ast.F64, "b": ast.Bool, "s": ast.StringPrim,
}

// parseType parses `#name`, `#name[size]`, or `[size]#name` (spec §3's
// Type variants), grounded on parser.cpp's parse_type.
func (p *Parser) parseType() ast.Type {
	loc := p.current().Location
	var leadingSize *ast.Expr
	if p.match(lexer.LeftBracket) {
		leadingSize = p.parseExpr()
		p.consume(lexer.RightBracket, "expected ']'")
	}

	p.consume(lexer.Hash, "expected '#'")
	name := p.consume(lexer.Identifier, "expected type name").Lexeme

	var base ast.Type
	if prim, ok := primitiveNames[name]; ok {
		base = &ast.PrimitiveType{Primitive: prim, Location: loc}
	} else {
		base = &ast.NamedType{Name: name, Location: loc}
	}

	size := leadingSize
	if p.match(lexer.LeftBracket) {
		if size != nil {
			p.recordError("array size specified twice in type")
		}
		size = p.parseExpr()
		p.consume(lexer.RightBracket, "expected ']'")
	}

	if size != nil {
		return &ast.ArrayType{Element: base, SizeExpr: size, Location: loc}
	}
	return base
}

// parseParams parses a function's value-parameter list, supporting the
// `$name` expression-parameter sigil (spec §4.10, GLOSSARY "Expression
// parameter").
func (p *Parser) parseParams() []ast.Parameter {
	var params []ast.Parameter
	if p.check(lexer.RightParen) {
		return params
	}
	for {
		anns := p.parseAnnotations()
		loc := p.current().Location
		isExpr := p.match(lexer.Dollar)
		name := p.consume(lexer.Identifier, "expected parameter name").Lexeme
		var typ ast.Type
		if p.match(lexer.Colon) {
			typ = p.parseType()
		}
		params = append(params, ast.Parameter{Name: name, Type: typ, IsExpressionParam: isExpr, Annotations: anns, Location: loc})
		if !p.match(lexer.Comma) {
			break
		}
	}
	return params
}

// parseRefParams parses `(r1, r2)` receiver-parameter names (GLOSSARY
// "Receiver parameter").
func (p *Parser) parseRefParams() []string {
	var refs []string
	p.consume(lexer.LeftParen, "expected '('")
	for {
		refs = append(refs, p.consume(lexer.Identifier, "expected identifier").Lexeme)
		if !p.match(lexer.Comma) {
			break
		}
	}
	p.consume(lexer.RightParen, "expected ')'")
	return refs
}

func (p *Parser) parseFields() []ast.Field {
	var fields []ast.Field
	if p.check(lexer.RightParen) {
		return fields
	}
	for {
		anns := p.parseAnnotations()
		loc := p.current().Location
		name := p.consume(lexer.Identifier, "expected field name").Lexeme
		var typ ast.Type
		if p.match(lexer.Colon) {
			typ = p.parseType()
		}
		fields = append(fields, ast.Field{Name: name, Type: typ, Annotations: anns, Location: loc})
		if !p.match(lexer.Comma) {
			break
		}
	}
	return fields
}

func (p *Parser) parseQualifiedName() []string {
	path := []string{p.consume(lexer.Identifier, "expected identifier").Lexeme}
	for p.match(lexer.DoubleColon) {
		path = append(path, p.consume(lexer.Identifier, "expected identifier").Lexeme)
	}
	return path
}

// parseResourcePath parses the `a.b::c::d` segment list following `::` in
// a resource expression (spec §4.9) — dot-joined segments within one
// path element, double-colon-separated path elements.
func (p *Parser) parseResourcePath() []string {
	parseSegment := func() string {
		seg := p.consume(lexer.Identifier, "expected identifier").Lexeme
		for p.match(lexer.Dot) {
			seg += "." + p.consume(lexer.Identifier, "expected identifier").Lexeme
		}
		return seg
	}
	segments := []string{parseSegment()}
	for p.match(lexer.DoubleColon) {
		segments = append(segments, parseSegment())
	}
	return segments
}

package parser

import (
	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/lexer"
)

// isAnnotationStart reports whether the cursor sits at `[[name`, the only
// shape that distinguishes an annotation from an array-literal or
// array-type `[`.
func (p *Parser) isAnnotationStart() bool {
	return p.check(lexer.LeftBracket) &&
		p.peek(1).Type == lexer.LeftBracket &&
		p.peek(2).Type == lexer.Identifier
}

func (p *Parser) parseAnnotationArg() string {
	tok := p.current()
	switch tok.Type {
	case lexer.Identifier, lexer.StringLiteral, lexer.IntLiteral, lexer.FloatLiteral:
		p.pos++
		return tok.Lexeme
	default:
		p.recordError("expected annotation argument")
		return ""
	}
}

func (p *Parser) parseAnnotations() []ast.Annotation {
	var anns []ast.Annotation
	for p.isAnnotationStart() {
		p.consume(lexer.LeftBracket, "expected '[' to start annotation")
		p.consume(lexer.LeftBracket, "expected '[' to start annotation")
		loc := p.current().Location
		name := p.consume(lexer.Identifier, "expected annotation name").Lexeme
		var args []string
		if p.match(lexer.LeftParen) {
			if !p.check(lexer.RightParen) {
				for {
					args = append(args, p.parseAnnotationArg())
					if !p.match(lexer.Comma) {
						break
					}
				}
			}
			p.consume(lexer.RightParen, "expected ')'")
		}
		p.consume(lexer.RightBracket, "expected ']' to close annotation")
		p.consume(lexer.RightBracket, "expected ']' to close annotation")
		anns = append(anns, ast.Annotation{Name: name, Args: args, Location: loc})
	}
	return anns
}

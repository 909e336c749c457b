// Package parser builds a module AST from a token stream (spec §1 lists
// the parser as an external-interface collaborator only; this package is
// a minimal working implementation so the pipeline has something to run
// end to end). Grounded directly on
// original_source/frontend/src/parse/parser.cpp's recursive-descent
// structure (pos/current/peek/match/consume, panic-mode synchronize),
// styled after the teacher's diagnostics-aggregation idiom in
// internal/parser/expressions_core.go.
package parser

import (
	"fmt"

	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/diag"
	"github.com/vexel-lang/vexelc/internal/lexer"
)

const maxExprDepth = 250

type Parser struct {
	toks    []lexer.Token
	pos     int
	depth   int
	errs    diag.Aggregate
	tmpSeq  int
	panicOn bool
}

func New(toks []lexer.Token) *Parser {
	if len(toks) == 0 || toks[len(toks)-1].Type != lexer.EOF {
		toks = append(toks, lexer.Token{Type: lexer.EOF})
	}
	return &Parser{toks: toks}
}

func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos]
}

func (p *Parser) peek(offset int) lexer.Token {
	idx := p.pos + offset
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *Parser) check(t lexer.TokenType) bool { return p.current().Type == t }

func (p *Parser) match(t lexer.TokenType) bool {
	if p.check(t) {
		p.pos++
		return true
	}
	return false
}

func (p *Parser) recordError(format string, args ...any) {
	p.errs.Add(diag.New(diag.ParseError, p.current().Location, format, args...))
	p.panicOn = true
}

// consume advances past an expected token kind, recording a parse error
// (without advancing) if the current token doesn't match — the caller's
// subsequent logic still runs against the unconsumed token, matching
// original_source's `consume` behaviour of returning current() on failure.
func (p *Parser) consume(t lexer.TokenType, msg string) lexer.Token {
	if !p.check(t) {
		p.recordError("%s (got %s)", msg, p.current().Type)
		return p.current()
	}
	tok := p.current()
	p.pos++
	return tok
}

func (p *Parser) skipSemis() {
	for p.match(lexer.Semicolon) {
	}
}

// synchronize recovers from a parse error by skipping to the next
// statement boundary (spec §7 "parse errors... aggregated with panic-mode
// recovery up to the next statement boundary").
func (p *Parser) synchronize() {
	p.panicOn = false
	for !p.check(lexer.EOF) {
		if p.pos > 0 && p.toks[p.pos-1].Type == lexer.Semicolon {
			switch p.current().Type {
			case lexer.Ampersand, lexer.AmpersandBang, lexer.AmpersandCaret,
				lexer.Hash, lexer.DoubleColon, lexer.Identifier:
				return
			}
		} else {
			switch p.current().Type {
			case lexer.Ampersand, lexer.AmpersandBang, lexer.AmpersandCaret,
				lexer.Hash, lexer.DoubleColon:
				return
			}
		}
		p.pos++
	}
}

// ParseModule parses the full token stream into a Module, returning
// aggregated diagnostics (spec §7: parse errors are collected, then
// re-raised as one compile error listing all of them).
func (p *Parser) ParseModule(name, path string) (*ast.Module, *diag.Aggregate) {
	loc := p.current().Location
	mod := &ast.Module{Name: name, Path: path, Location: loc}

	p.skipSemis()
	for !p.check(lexer.EOF) {
		stmt := p.parseStmt()
		if stmt != nil {
			mod.TopLevel = append(mod.TopLevel, stmt)
		}
		if p.panicOn {
			p.synchronize()
		}
		p.skipSemis()
	}

	if p.errs.HasErrors() {
		return mod, &p.errs
	}
	return mod, nil
}

func (p *Parser) nextTmpName() string {
	p.tmpSeq++
	return fmt.Sprintf("__tuple_tmp%d", p.tmpSeq)
}

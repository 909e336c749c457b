package parser

import (
	"strconv"

	"github.com/vexel-lang/vexelc/internal/ast"
	"github.com/vexel-lang/vexelc/internal/lexer"
	"github.com/vexel-lang/vexelc/internal/source"
)

func (p *Parser) parseStmt() *ast.Stmt {
	anns := p.parseAnnotations()
	stmt := p.parseStmtNoSemi()
	if stmt != nil {
		stmt.Annotations = anns
	}
	p.skipSemis()
	return stmt
}

func (p *Parser) parseStmtNoSemi() *ast.Stmt {
	loc := p.current().Location

	switch {
	case p.match(lexer.BreakArrow):
		p.consume(lexer.Semicolon, "expected ';'")
		return &ast.Stmt{Kind: ast.SBreak, Location: loc}
	case p.match(lexer.ContinueArrow):
		p.consume(lexer.Semicolon, "expected ';'")
		return &ast.Stmt{Kind: ast.SContinue, Location: loc}
	case p.match(lexer.Arrow):
		switch {
		case p.match(lexer.BitOr):
			p.consume(lexer.Semicolon, "expected ';'")
			return &ast.Stmt{Kind: ast.SBreak, Location: loc}
		case p.match(lexer.Greater):
			p.consume(lexer.Semicolon, "expected ';'")
			return &ast.Stmt{Kind: ast.SContinue, Location: loc}
		}
		var ret *ast.Expr
		if !p.check(lexer.Semicolon) {
			ret = p.parseExpr()
		}
		p.consume(lexer.Semicolon, "expected ';'")
		return &ast.Stmt{Kind: ast.SReturn, ReturnExpr: ret, Location: loc}
	case p.check(lexer.Hash):
		return p.parseTypeDecl()
	case p.check(lexer.DoubleColon):
		return p.parseImport()
	case p.check(lexer.Ampersand), p.check(lexer.AmpersandBang), p.check(lexer.AmpersandCaret):
		return p.parseFuncDecl()
	}

	if multi := p.tryParseMultiAssign(loc); multi != nil {
		return multi
	}

	expr := p.parseExpr()
	if expr == nil {
		return &ast.Stmt{Kind: ast.SExpr, Location: loc}
	}

	sorted, plain := p.match(lexer.DoubleAt), false
	if !sorted {
		plain = p.match(lexer.At)
	}
	if sorted || plain {
		body := p.parseExpr()
		return &ast.Stmt{Kind: ast.SExpr, Expr: &ast.Expr{Kind: ast.EIteration, Operand: expr, Right: body, Sorted: sorted, Location: loc}, Location: loc}
	}

	if p.check(lexer.Question) {
		p.pos++
		inner := p.parseStmt()
		return &ast.Stmt{Kind: ast.SConditionalStmt, Condition: expr, TrueStmt: inner, Location: loc}
	}

	if expr.Kind == ast.EIdentifier && expr.DeclaredType != nil {
		return &ast.Stmt{Kind: ast.SVarDecl, VarName: expr.Name, VarType: expr.DeclaredType, IsMutable: true, Location: loc}
	}

	return &ast.Stmt{Kind: ast.SExpr, Expr: expr, Location: loc}
}

// tryParseMultiAssign recognises `a, b, c = expr;` and desugars it into a
// block that binds a temporary tuple then assigns each field, matching
// original_source's parser.cpp tuple-destructuring sugar. Returns nil (with
// the cursor restored) if the lookahead doesn't confirm a multi-assignment.
func (p *Parser) tryParseMultiAssign(loc source.Location) *ast.Stmt {
	if !p.check(lexer.Identifier) {
		return nil
	}
	saved := p.pos
	var names []string
	var locs []source.Location
	names = append(names, p.current().Lexeme)
	locs = append(locs, p.current().Location)
	p.pos++

	if !p.match(lexer.Comma) {
		p.pos = saved
		return nil
	}
	for {
		if !p.check(lexer.Identifier) {
			p.pos = saved
			return nil
		}
		names = append(names, p.current().Lexeme)
		locs = append(locs, p.current().Location)
		p.pos++
		if !p.match(lexer.Comma) {
			break
		}
	}
	if !p.match(lexer.Assign) {
		p.pos = saved
		return nil
	}

	rhs := p.parseExpr()
	tmp := p.nextTmpName()
	var stmts []*ast.Stmt
	stmts = append(stmts, &ast.Stmt{Kind: ast.SVarDecl, VarName: tmp, VarInit: rhs, IsMutable: true, Location: loc})
	for i, name := range names {
		member := &ast.Expr{Kind: ast.EMember, Operand: ast.MakeIdentifier(tmp, locs[i]), Field: tupleFieldName(i), Location: locs[i]}
		assign := &ast.Expr{Kind: ast.EAssignment, Left: ast.MakeIdentifier(name, locs[i]), Right: member, Location: locs[i]}
		stmts = append(stmts, &ast.Stmt{Kind: ast.SExpr, Expr: assign, Location: locs[i]})
	}
	block := &ast.Expr{Kind: ast.EBlock, Statements: stmts, Location: loc}
	return &ast.Stmt{Kind: ast.SExpr, Expr: block, Location: loc}
}

func tupleFieldName(i int) string {
	return "__" + strconv.Itoa(i)
}

func (p *Parser) parseFuncDecl() *ast.Stmt {
	loc := p.current().Location

	isExternal := p.match(lexer.AmpersandBang)
	isExported := p.match(lexer.AmpersandCaret)
	if !isExternal && !isExported {
		p.consume(lexer.Ampersand, "expected function declaration")
	}

	var refParams []string
	if p.check(lexer.LeftParen) {
		saved := p.pos
		p.pos++
		looksLikeRef := true
		if p.check(lexer.RightParen) {
			looksLikeRef = false
		} else {
			for !p.check(lexer.RightParen) && !p.check(lexer.EOF) {
				if !p.check(lexer.Identifier) {
					looksLikeRef = false
					break
				}
				p.pos++
				if p.check(lexer.Colon) || p.check(lexer.Dollar) {
					looksLikeRef = false
					break
				}
				if !p.match(lexer.Comma) {
					break
				}
			}
		}
		p.pos = saved
		if looksLikeRef && p.check(lexer.LeftParen) {
			refParams = p.parseRefParams()
		}
	}

	typeNamespace := ""
	saved := p.pos
	namespaceFound := false
	if p.match(lexer.Hash) {
		if p.check(lexer.Identifier) {
			maybeType := p.current().Lexeme
			p.pos++
			if p.match(lexer.DoubleColon) {
				typeNamespace = maybeType
				namespaceFound = true
			} else {
				p.pos = saved
			}
		} else {
			p.pos = saved
		}
	}
	if !namespaceFound {
		saved = p.pos
		if p.check(lexer.Identifier) {
			maybeType := p.current().Lexeme
			p.pos++
			if p.match(lexer.DoubleColon) {
				typeNamespace = maybeType
				namespaceFound = true
			} else {
				p.pos = saved
			}
		}
	}
	if namespaceFound && len(refParams) != 1 {
		p.recordError("Type::method syntax requires exactly one receiver parameter")
	}

	p.match(lexer.Hash) // sigil belongs to the function name; discard

	name := p.parseFunctionName()
	p.consume(lexer.LeftParen, "expected '('")
	params := p.parseParams()
	p.consume(lexer.RightParen, "expected ')'")

	var returnType ast.Type
	if p.match(lexer.Arrow) {
		if !p.check(lexer.LeftBrace) && !p.check(lexer.Semicolon) {
			returnType = p.parseType()
		}
	}

	var body *ast.Expr
	if isExternal {
		p.consume(lexer.Semicolon, "expected ';' after external function")
	} else {
		body = p.parseBlock()
	}

	return &ast.Stmt{
		Kind: ast.SFuncDecl, FuncName: name, TypeNamespace: typeNamespace,
		Params: params, RefParams: refParams, ReturnType: returnType, Body: body,
		IsExternal: isExternal, IsExported: isExported, Location: loc,
	}
}

func (p *Parser) parseFunctionName() string {
	if p.check(lexer.Identifier) {
		tok := p.current()
		p.pos++
		return tok.Lexeme
	}
	if isOperatorFunctionToken(p.current().Type) {
		tok := p.current()
		p.pos++
		return tok.Lexeme
	}
	p.recordError("expected function name or overloadable operator")
	return ""
}

// isOperatorFunctionToken reports whether t can name an overloaded
// operator function (spec §4.3's "operator overloading via method-call
// rewrite").
func isOperatorFunctionToken(t lexer.TokenType) bool {
	switch t {
	case lexer.Plus, lexer.Minus, lexer.Star, lexer.Slash, lexer.Percent,
		lexer.BitXor, lexer.BitNot, lexer.Ampersand, lexer.BitOr,
		lexer.Equal, lexer.NotEqual, lexer.Less, lexer.LessEqual,
		lexer.Greater, lexer.GreaterEqual, lexer.LeftShift, lexer.RightShift,
		lexer.At, lexer.DoubleAt:
		return true
	}
	return false
}

func (p *Parser) parseTypeDecl() *ast.Stmt {
	loc := p.current().Location
	p.consume(lexer.Hash, "expected '#'")
	name := p.consume(lexer.Identifier, "expected type name").Lexeme
	p.consume(lexer.LeftParen, "expected '('")
	fields := p.parseFields()
	p.consume(lexer.RightParen, "expected ')'")
	p.consume(lexer.Semicolon, "expected ';'")
	return &ast.Stmt{Kind: ast.STypeDecl, TypeDeclName: name, Fields: fields, Location: loc}
}

func (p *Parser) parseImport() *ast.Stmt {
	loc := p.current().Location
	p.consume(lexer.DoubleColon, "expected '::'")

	if p.check(lexer.StringLiteral) {
		command := p.current().StringValue
		p.pos++
		p.consume(lexer.Arrow, "expected '->' after process command")
		varName := p.consume(lexer.Identifier, "expected identifier after '->'").Lexeme
		p.consume(lexer.Semicolon, "expected ';'")
		proc := &ast.Expr{Kind: ast.EProcess, StringValue: command, Location: loc}
		strType := &ast.PrimitiveType{Primitive: ast.StringPrim, Location: loc}
		return &ast.Stmt{Kind: ast.SVarDecl, VarName: varName, VarType: strType, VarInit: proc, Location: loc}
	}

	path := p.parseQualifiedName()
	p.consume(lexer.Semicolon, "expected ';'")
	return &ast.Stmt{Kind: ast.SImport, ImportPath: path, Location: loc}
}

func (p *Parser) parseBlock() *ast.Expr {
	loc := p.current().Location
	p.consume(lexer.LeftBrace, "expected '{'")

	var stmts []*ast.Stmt
	var result *ast.Expr

	p.skipSemis()
	for !p.check(lexer.RightBrace) && !p.check(lexer.EOF) {
		saved := p.pos
		savedErrs := len(p.errs.Errors)
		expr := p.parseExpr()

		if len(p.errs.Errors) == savedErrs {
			p.skipSemis()
			if p.check(lexer.RightBrace) {
				result = expr
				break
			}
			p.pos = saved
			p.errs.Errors = p.errs.Errors[:savedErrs]
		} else {
			p.pos = saved
			p.errs.Errors = p.errs.Errors[:savedErrs]
		}

		stmts = append(stmts, p.parseStmt())
		if p.panicOn {
			p.synchronize()
		}
		p.skipSemis()
	}

	p.consume(lexer.RightBrace, "expected '}'")
	return &ast.Expr{Kind: ast.EBlock, Statements: stmts, ResultExpr: result, Location: loc}
}

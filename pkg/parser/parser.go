// Package parser is the text front-end for EasyHue. It turns source into an
// *ast.Program whose nodes carry source spans.
package parser

import (
	"strconv"

	"easyhue/compiler-go/pkg/ast"
)

// Parser is a recursive-descent parser over a pre-scanned token stream.
type Parser struct {
	tokens []Token
	pos    int
}

// ParseProgram parses a complete compilation unit.
func ParseProgram(src []byte) (*ast.Program, error) {
	tokens, err := NewLexer(src).Tokenize()
	if err != nil {
		return nil, err
	}
	p := &Parser{tokens: tokens}
	return p.parseProgram()
}

// ParseExpression parses src as a single expression.
func ParseExpression(src []byte) (ast.Expression, error) {
	tokens, err := NewLexer(src).Tokenize()
	if err != nil {
		return nil, err
	}
	p := &Parser{tokens: tokens}
	expr, err := p.parseExpression(1)
	if err != nil {
		return nil, err
	}
	if tok := p.current(); tok.Kind != EOF {
		return nil, syntaxErrorf(tok.Pos, "unexpected %s after expression", tok.describe())
	}
	return expr, nil
}

func (p *Parser) current() Token {
	return p.tokens[p.pos]
}

func (p *Parser) peekKind(offset int) TokenKind {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return EOF
	}
	return p.tokens[idx].Kind
}

func (p *Parser) previous() Token {
	if p.pos == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) accept(kind TokenKind) bool {
	if p.current().Kind == kind {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(kind TokenKind, context string) (Token, error) {
	tok := p.current()
	if tok.Kind != kind {
		return Token{}, syntaxErrorf(tok.Pos, "expected %s %s, found %s", kind, context, tok.describe())
	}
	return p.next(), nil
}

// finish stamps node with a span from start to the end of the last consumed token.
func (p *Parser) finish(node ast.Node, start Token) {
	ast.SetSpan(node, ast.SpanBetween(start.Pos, p.previous().End))
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	start := p.current()
	var body []ast.Statement
	for p.current().Kind != EOF {
		if p.accept(SEMICOLON) {
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	program := ast.NewProgram(body)
	if len(body) > 0 {
		p.finish(program, start)
	}
	return program, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	tok := p.current()
	switch tok.Kind {
	case IF:
		return p.parseIf()
	case WHILE:
		return p.parseWhile()
	case RETURN:
		return p.parseReturn()
	case KEYWORD:
		return p.parseKeywordCall()
	case IDENT:
		switch p.peekKind(1) {
		case ASSIGN:
			return p.parseAssignment()
		case LBRACE, ARROW:
			return p.parseFunctionDefinition()
		case LPAREN:
			if p.isDefinitionHeader() {
				return p.parseFunctionDefinition()
			}
			return p.parseCallStatement()
		}
		after := p.tokens[p.pos+1]
		return nil, syntaxErrorf(after.Pos, "expected '=', '(' or '{' after %q, found %s", tok.Literal, after.describe())
	}
	return nil, syntaxErrorf(tok.Pos, "unexpected %s at start of statement", tok.describe())
}

// isDefinitionHeader looks past the parenthesized list following an
// identifier: a definition continues with '{' or '->', a call does not.
func (p *Parser) isDefinitionHeader() bool {
	depth := 0
	for i := p.pos + 1; i < len(p.tokens); i++ {
		switch p.tokens[i].Kind {
		case LPAREN:
			depth++
		case RPAREN:
			depth--
			if depth == 0 {
				next := p.peekKind(i - p.pos + 1)
				return next == LBRACE || next == ARROW
			}
		case EOF:
			return false
		}
	}
	return false
}

func (p *Parser) terminate() {
	p.accept(SEMICOLON)
}

func (p *Parser) parseAssignment() (ast.Statement, error) {
	start := p.next()
	target := p.identifier(start)
	p.next() // '='
	value, err := p.parseExpression(1)
	if err != nil {
		return nil, err
	}
	stmt := ast.NewAssignment(target, value)
	p.finish(stmt, start)
	p.terminate()
	return stmt, nil
}

func (p *Parser) parseCallStatement() (ast.Statement, error) {
	start := p.next()
	call, err := p.parseCall(start)
	if err != nil {
		return nil, err
	}
	p.terminate()
	return call, nil
}

func (p *Parser) parseKeywordCall() (ast.Statement, error) {
	start := p.next()
	if _, err := p.expect(LPAREN, "after "+start.Literal); err != nil {
		return nil, err
	}
	if tok := p.current(); tok.Kind != RPAREN {
		return nil, syntaxErrorf(tok.Pos, "keyword procedure %s takes no arguments", start.Literal)
	}
	p.next()
	stmt := ast.NewKeywordCall(start.Literal)
	p.finish(stmt, start)
	p.terminate()
	return stmt, nil
}

func (p *Parser) parseIf() (ast.Statement, error) {
	start := p.next()
	cond, err := p.parseCondition("if")
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var otherwise *ast.Block
	if p.accept(ELSE) {
		if otherwise, err = p.parseBlock(); err != nil {
			return nil, err
		}
	}
	stmt := ast.NewIfStatement(cond, then, otherwise)
	p.finish(stmt, start)
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	start := p.next()
	cond, err := p.parseCondition("while")
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := ast.NewWhileStatement(cond, body)
	p.finish(stmt, start)
	return stmt, nil
}

func (p *Parser) parseCondition(keyword string) (ast.Expression, error) {
	if _, err := p.expect(LPAREN, "after "+keyword); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(1)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN, "after "+keyword+" condition"); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *Parser) parseReturn() (ast.Statement, error) {
	start := p.next()
	var value ast.Expression
	switch p.current().Kind {
	case SEMICOLON, RBRACE, EOF:
	default:
		expr, err := p.parseExpression(1)
		if err != nil {
			return nil, err
		}
		value = expr
	}
	stmt := ast.NewReturnStatement(value)
	p.finish(stmt, start)
	p.terminate()
	return stmt, nil
}

func (p *Parser) parseFunctionDefinition() (ast.Statement, error) {
	start := p.next()
	id := p.identifier(start)
	var params []*ast.Parameter
	if p.accept(LPAREN) {
		for p.current().Kind != RPAREN {
			param, err := p.parseParameter()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.accept(COMMA) {
				break
			}
		}
		if _, err := p.expect(RPAREN, "after parameter list"); err != nil {
			return nil, err
		}
	}
	var returnType *ast.TypeAnnotation
	if p.accept(ARROW) {
		annotation, err := p.parseTypeAnnotation("after '->'")
		if err != nil {
			return nil, err
		}
		returnType = annotation
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := ast.NewFunctionDefinition(id, params, returnType, body)
	p.finish(stmt, start)
	return stmt, nil
}

func (p *Parser) parseParameter() (*ast.Parameter, error) {
	start, err := p.expect(IDENT, "in parameter list")
	if err != nil {
		return nil, err
	}
	var annotation *ast.TypeAnnotation
	if p.accept(COLON) {
		if annotation, err = p.parseTypeAnnotation("after ':'"); err != nil {
			return nil, err
		}
	}
	param := ast.NewParameter(p.identifier(start), annotation)
	p.finish(param, start)
	return param, nil
}

func (p *Parser) parseTypeAnnotation(context string) (*ast.TypeAnnotation, error) {
	tok, err := p.expect(IDENT, "type name "+context)
	if err != nil {
		return nil, err
	}
	annotation := ast.NewTypeAnnotation(tok.Literal)
	ast.SetSpan(annotation, ast.SpanBetween(tok.Pos, tok.End))
	return annotation, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	start, err := p.expect(LBRACE, "to open block")
	if err != nil {
		return nil, err
	}
	var body []ast.Statement
	for {
		switch p.current().Kind {
		case RBRACE:
			p.next()
			block := ast.NewBlock(body)
			p.finish(block, start)
			return block, nil
		case EOF:
			return nil, syntaxErrorf(start.Pos, "unclosed block")
		case SEMICOLON:
			p.next()
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
}

// parseExpression implements precedence climbing; all binary operators are
// left-associative.
func (p *Parser) parseExpression(minPrec int) (ast.Expression, error) {
	start := p.current()
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		opTok := p.current()
		prec := precedence(opTok.Kind)
		if prec == 0 || prec < minPrec {
			return left, nil
		}
		p.next()
		right, err := p.parseExpression(prec + 1)
		if err != nil {
			return nil, err
		}
		bin := ast.NewBinaryExpression(binaryOperators[opTok.Kind], left, right)
		p.finish(bin, start)
		left = bin
	}
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.current()
	switch tok.Kind {
	case INT:
		p.next()
		value, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return nil, syntaxErrorf(tok.Pos, "integer literal %s out of range", tok.Literal)
		}
		lit := ast.NewIntegerLiteral(value)
		p.finish(lit, tok)
		return lit, nil
	case STRING:
		p.next()
		lit := ast.NewStringLiteral(tok.Literal)
		p.finish(lit, tok)
		return lit, nil
	case IDENT:
		p.next()
		if p.current().Kind == LPAREN {
			return p.parseCall(tok)
		}
		return p.identifier(tok), nil
	case LPAREN:
		p.next()
		inner, err := p.parseExpression(1)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN, "to close parenthesized expression"); err != nil {
			return nil, err
		}
		paren := ast.NewParenthesizedExpression(inner)
		p.finish(paren, tok)
		return paren, nil
	case KEYWORD:
		return nil, syntaxErrorf(tok.Pos, "keyword procedure %s cannot be used as a value", tok.Literal)
	}
	return nil, syntaxErrorf(tok.Pos, "expected expression, found %s", tok.describe())
}

// parseCall parses an argument list; name has already been consumed.
func (p *Parser) parseCall(name Token) (*ast.FunctionCall, error) {
	if _, err := p.expect(LPAREN, "after "+name.Literal); err != nil {
		return nil, err
	}
	var args []ast.Expression
	for p.current().Kind != RPAREN {
		arg, err := p.parseExpression(1)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.accept(COMMA) {
			break
		}
	}
	if _, err := p.expect(RPAREN, "to close argument list"); err != nil {
		return nil, err
	}
	call := ast.NewFunctionCall(p.identifier(name), args)
	p.finish(call, name)
	return call, nil
}

func (p *Parser) identifier(tok Token) *ast.Identifier {
	id := ast.NewIdentifier(tok.Literal)
	ast.SetSpan(id, ast.SpanBetween(tok.Pos, tok.End))
	return id
}

package parser

import (
	"easyhue/compiler-go/pkg/ast"
)

// Lexer is a single-pass tokenizer over EasyHue source text.
type Lexer struct {
	input []byte

	// pos is the index of the next byte to load into ch.
	pos  int
	line int
	col  int
	ch   byte // 0 past the end
}

// NewLexer creates a lexer positioned at the first byte of input.
func NewLexer(input []byte) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.advance()
	return l
}

func (l *Lexer) advance() {
	if l.ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	if l.pos >= len(l.input) {
		l.ch = 0
		l.pos = len(l.input) + 1
		return
	}
	l.ch = l.input[l.pos]
	l.pos++
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) position() ast.Position {
	return ast.Position{Line: l.line, Column: l.col}
}

func (l *Lexer) atEnd() bool {
	return l.pos > len(l.input)
}

// skipTrivia consumes whitespace and comments. An unterminated block comment
// is reported as an error.
func (l *Lexer) skipTrivia() *SyntaxError {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.advance()
		case l.ch == '/' && l.peek() == '/':
			for !l.atEnd() && l.ch != '\n' {
				l.advance()
			}
		case l.ch == '/' && l.peek() == '*':
			start := l.position()
			l.advance()
			l.advance()
			for {
				if l.atEnd() {
					return syntaxErrorf(start, "unterminated block comment")
				}
				if l.ch == '*' && l.peek() == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return nil
		}
	}
}

// NextToken scans the next token. After the end of input it keeps returning
// EOF tokens.
func (l *Lexer) NextToken() (Token, error) {
	if err := l.skipTrivia(); err != nil {
		return Token{}, err
	}
	start := l.position()
	if l.atEnd() {
		return Token{Kind: EOF, Pos: start, End: start}, nil
	}

	ch := l.ch
	switch {
	case isIdentStart(ch):
		lit := l.readWhile(isIdentPart)
		return l.token(LookupIdent(lit), lit, start), nil
	case isDigit(ch):
		lit := l.readWhile(isDigit)
		if isIdentStart(l.ch) {
			return Token{}, syntaxErrorf(start, "malformed number %q", lit+string(l.ch))
		}
		return l.token(INT, lit, start), nil
	case ch == '"':
		return l.readString(start)
	}

	two := string([]byte{ch, l.peek()})
	switch two {
	case "==":
		return l.operator(EQ, two, start), nil
	case "!=":
		return l.operator(NEQ, two, start), nil
	case "<=":
		return l.operator(LE, two, start), nil
	case ">=":
		return l.operator(GE, two, start), nil
	case "->":
		return l.operator(ARROW, two, start), nil
	}

	kind, ok := singleCharTokens[ch]
	if !ok {
		l.advance()
		return Token{}, syntaxErrorf(start, "unexpected character %q", string(ch))
	}
	return l.operator(kind, string(ch), start), nil
}

var singleCharTokens = map[byte]TokenKind{
	'=': ASSIGN,
	'+': PLUS,
	'-': MINUS,
	'*': STAR,
	'/': SLASH,
	'<': LT,
	'>': GT,
	'(': LPAREN,
	')': RPAREN,
	'{': LBRACE,
	'}': RBRACE,
	',': COMMA,
	':': COLON,
	';': SEMICOLON,
}

func (l *Lexer) operator(kind TokenKind, lit string, start ast.Position) Token {
	for range lit {
		l.advance()
	}
	return l.token(kind, lit, start)
}

func (l *Lexer) token(kind TokenKind, lit string, start ast.Position) Token {
	return Token{Kind: kind, Literal: lit, Pos: start, End: l.position()}
}

func (l *Lexer) readWhile(pred func(byte) bool) string {
	begin := l.pos - 1
	for !l.atEnd() && pred(l.ch) {
		l.advance()
	}
	end := l.pos - 1
	if l.atEnd() {
		end = len(l.input)
	}
	return string(l.input[begin:end])
}

// readString keeps the body verbatim, including escape sequences; a
// backslash only prevents the next byte from closing the literal.
func (l *Lexer) readString(start ast.Position) (Token, error) {
	l.advance() // opening quote
	begin := l.pos - 1
	for {
		if l.atEnd() || l.ch == '\n' {
			return Token{}, syntaxErrorf(start, "unterminated string literal")
		}
		if l.ch == '\\' {
			l.advance()
			if l.atEnd() {
				return Token{}, syntaxErrorf(start, "unterminated string literal")
			}
			l.advance()
			continue
		}
		if l.ch == '"' {
			break
		}
		l.advance()
	}
	body := string(l.input[begin : l.pos-1])
	l.advance() // closing quote
	return l.token(STRING, body, start), nil
}

// Tokenize scans the whole input, ending with an EOF token.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			return tokens, nil
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

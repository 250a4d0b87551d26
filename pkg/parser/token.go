package parser

import (
	"fmt"

	"easyhue/compiler-go/pkg/ast"
)

// TokenKind is the set of lexical token types.
type TokenKind int

const (
	ILLEGAL TokenKind = iota
	EOF

	IDENT
	INT
	STRING

	ASSIGN // =
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	EQ     // ==
	NEQ    // !=
	LT     // <
	GT     // >
	LE     // <=
	GE     // >=
	ARROW  // ->

	LPAREN
	RPAREN
	LBRACE
	RBRACE
	COMMA
	COLON
	SEMICOLON

	IF
	ELSE
	WHILE
	RETURN
	KEYWORD // print, input, turn_on, turn_off
)

var tokenNames = map[TokenKind]string{
	ILLEGAL:   "ILLEGAL",
	EOF:       "EOF",
	IDENT:     "identifier",
	INT:       "integer",
	STRING:    "string",
	ASSIGN:    "'='",
	PLUS:      "'+'",
	MINUS:     "'-'",
	STAR:      "'*'",
	SLASH:     "'/'",
	EQ:        "'=='",
	NEQ:       "'!='",
	LT:        "'<'",
	GT:        "'>'",
	LE:        "'<='",
	GE:        "'>='",
	ARROW:     "'->'",
	LPAREN:    "'('",
	RPAREN:    "')'",
	LBRACE:    "'{'",
	RBRACE:    "'}'",
	COMMA:     "','",
	COLON:     "':'",
	SEMICOLON: "';'",
	IF:        "'if'",
	ELSE:      "'else'",
	WHILE:     "'while'",
	RETURN:    "'return'",
	KEYWORD:   "keyword",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

var reserved = map[string]TokenKind{
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"return": RETURN,
}

func init() {
	for _, kw := range ast.KeywordProcedures {
		reserved[kw] = KEYWORD
	}
}

// LookupIdent classifies an identifier-shaped word.
func LookupIdent(word string) TokenKind {
	if kind, ok := reserved[word]; ok {
		return kind
	}
	return IDENT
}

// Token is a lexical token with its source range.
type Token struct {
	Kind    TokenKind
	Literal string
	Pos     ast.Position
	End     ast.Position
}

func (t Token) describe() string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case IDENT, INT, KEYWORD:
		return fmt.Sprintf("%s %q", t.Kind, t.Literal)
	case STRING:
		return fmt.Sprintf("string \"%s\"", t.Literal)
	case ILLEGAL:
		return fmt.Sprintf("illegal input %q", t.Literal)
	}
	return t.Kind.String()
}

var binaryOperators = map[TokenKind]ast.BinaryOperator{
	PLUS:  ast.OpAdd,
	MINUS: ast.OpSub,
	STAR:  ast.OpMul,
	SLASH: ast.OpDiv,
	EQ:    ast.OpEq,
	NEQ:   ast.OpNeq,
	LT:    ast.OpLt,
	GT:    ast.OpGt,
	LE:    ast.OpLe,
	GE:    ast.OpGe,
}

// precedence returns the binding power of a binary operator token, or 0.
func precedence(kind TokenKind) int {
	switch kind {
	case EQ, NEQ, LT, GT, LE, GE:
		return 1
	case PLUS, MINUS:
		return 2
	case STAR, SLASH:
		return 3
	}
	return 0
}

package parser

import (
	"fmt"

	"easyhue/compiler-go/pkg/ast"
)

// SyntaxError reports malformed source text.
type SyntaxError struct {
	Pos     ast.Position
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parser: %s: %s", e.Pos, e.Message)
}

func syntaxErrorf(pos ast.Position, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

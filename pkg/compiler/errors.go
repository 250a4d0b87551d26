package compiler

import (
	"fmt"

	"easyhue/compiler-go/pkg/ast"
)

// Error reports a node the generator cannot translate. Well-formed trees
// that passed the type checker never produce one.
type Error struct {
	Node    ast.Node
	Message string
}

func (e *Error) Error() string {
	if e.Node != nil {
		if span := e.Node.Span(); !span.IsZero() {
			return fmt.Sprintf("compiler: %s: %s", span.Start, e.Message)
		}
	}
	return "compiler: " + e.Message
}

func errorf(node ast.Node, format string, args ...any) *Error {
	return &Error{Node: node, Message: fmt.Sprintf(format, args...)}
}

package typechecker

import (
	"fmt"

	"easyhue/compiler-go/pkg/ast"
)

// ErrorKind classifies a checking failure.
type ErrorKind int

const (
	TypeMismatch ErrorKind = iota + 1
	DuplicateDefinition
	UndefinedReference
	UnknownKeyword
	// InvalidNode marks a tree that does not follow the grammar contract. It
	// points at the producer of the AST, not at the user's program.
	InvalidNode
)

var kindInfo = map[ErrorKind]struct {
	name string
	code string
}{
	TypeMismatch:        {"TypeMismatch", "E3001"},
	DuplicateDefinition: {"DuplicateDefinition", "E3002"},
	UndefinedReference:  {"UndefinedReference", "E3003"},
	UnknownKeyword:      {"UnknownKeyword", "E3004"},
	InvalidNode:         {"InvalidNode", "E9001"},
}

func (k ErrorKind) String() string {
	if info, ok := kindInfo[k]; ok {
		return info.name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Code returns the stable diagnostic code for the kind.
func (k ErrorKind) Code() string {
	if info, ok := kindInfo[k]; ok {
		return info.code
	}
	return "E0000"
}

// ParseErrorKind maps a kind name back to its value.
func ParseErrorKind(name string) (ErrorKind, bool) {
	for kind, info := range kindInfo {
		if info.name == name {
			return kind, true
		}
	}
	return 0, false
}

// Error is the outcome of a failed check.
type Error struct {
	Kind    ErrorKind
	Message string
	Node    ast.Node
}

func (e *Error) Error() string {
	if e == nil {
		return "typechecker: <nil>"
	}
	if span := e.Span(); !span.IsZero() {
		return fmt.Sprintf("typechecker: %s: %s: %s", span.Start, e.Kind, e.Message)
	}
	return fmt.Sprintf("typechecker: %s: %s", e.Kind, e.Message)
}

// Span returns the location of the offending node, if known.
func (e *Error) Span() ast.Span {
	if e == nil || ast.IsNil(e.Node) {
		return ast.Span{}
	}
	return e.Node.Span()
}

// Is matches kind sentinels such as ErrTypeMismatch.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return t.Message == "" && t.Node == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrTypeMismatch        = &Error{Kind: TypeMismatch}
	ErrDuplicateDefinition = &Error{Kind: DuplicateDefinition}
	ErrUndefinedReference  = &Error{Kind: UndefinedReference}
	ErrUnknownKeyword      = &Error{Kind: UnknownKeyword}
	ErrInvalidNode         = &Error{Kind: InvalidNode}
)

func newError(kind ErrorKind, node ast.Node, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Node: node}
}


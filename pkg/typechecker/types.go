package typechecker

import (
	"fmt"
	"strings"

	"easyhue/compiler-go/pkg/ast"
)

// Type represents an EasyHue type understood by the checker. A nil Type means
// "no value" and only appears as a function return type.
type Type interface {
	Name() string
}

type PrimitiveKind string

const (
	PrimitiveInt     PrimitiveKind = "int"
	PrimitiveString  PrimitiveKind = "string"
	PrimitiveBoolean PrimitiveKind = "boolean"
)

type PrimitiveType struct {
	Kind PrimitiveKind
}

func (p PrimitiveType) Name() string { return string(p.Kind) }

var (
	Int     Type = PrimitiveType{Kind: PrimitiveInt}
	String  Type = PrimitiveType{Kind: PrimitiveString}
	Boolean Type = PrimitiveType{Kind: PrimitiveBoolean}
)

// FunctionSignature records the parameter types and optional return type of a
// registered function.
type FunctionSignature struct {
	Params []Type
	Return Type
}

func (s FunctionSignature) String() string {
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		parts[i] = typeName(p)
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), typeName(s.Return))
}

func (s FunctionSignature) clone() FunctionSignature {
	params := make([]Type, len(s.Params))
	copy(params, s.Params)
	return FunctionSignature{Params: params, Return: s.Return}
}

// Assignable reports whether a value of type value may be stored into a
// location of type target. Identical types are assignable and int widens into
// string; nothing else converts. Two nil types (no value) are assignable.
func Assignable(target, value Type) bool {
	if target == nil || value == nil {
		return target == nil && value == nil
	}
	if typesEqual(target, value) {
		return true
	}
	return typesEqual(target, String) && typesEqual(value, Int)
}

func typesEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Name() == b.Name()
}

func typeName(t Type) string {
	if t == nil {
		return "void"
	}
	return t.Name()
}

// TypeFromAnnotation resolves a source type annotation.
func TypeFromAnnotation(annotation *ast.TypeAnnotation) (Type, bool) {
	if annotation == nil {
		return nil, false
	}
	switch strings.TrimSpace(annotation.Name) {
	case "int":
		return Int, true
	case "string":
		return String, true
	case "bool", "boolean":
		return Boolean, true
	}
	return nil, false
}

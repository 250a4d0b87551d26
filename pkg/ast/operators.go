package ast

import "fmt"

// BinaryOperator is the source spelling of a binary operator.
type BinaryOperator string

const (
	OpAdd BinaryOperator = "+"
	OpSub BinaryOperator = "-"
	OpMul BinaryOperator = "*"
	OpDiv BinaryOperator = "/"
	OpEq  BinaryOperator = "=="
	OpNeq BinaryOperator = "!="
	OpLt  BinaryOperator = "<"
	OpGt  BinaryOperator = ">"
	OpLe  BinaryOperator = "<="
	OpGe  BinaryOperator = ">="
)

// BinaryOperators lists every operator in declaration order.
var BinaryOperators = []BinaryOperator{OpAdd, OpSub, OpMul, OpDiv, OpEq, OpNeq, OpLt, OpGt, OpLe, OpGe}

// IsArithmetic reports whether op belongs to {+, -, *, /}.
func (op BinaryOperator) IsArithmetic() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return true
	}
	return false
}

// IsComparison reports whether op belongs to {==, !=, <, >, <=, >=}.
func (op BinaryOperator) IsComparison() bool {
	switch op {
	case OpEq, OpNeq, OpLt, OpGt, OpLe, OpGe:
		return true
	}
	return false
}

func (op BinaryOperator) Valid() bool {
	return op.IsArithmetic() || op.IsComparison()
}

func (op BinaryOperator) String() string { return string(op) }

// ParseBinaryOperator maps source text onto an operator.
func ParseBinaryOperator(text string) (BinaryOperator, error) {
	op := BinaryOperator(text)
	if !op.Valid() {
		return "", fmt.Errorf("ast: unknown binary operator %q", text)
	}
	return op, nil
}

// KeywordProcedures are the built-in procedure keywords, in canonical order.
var KeywordProcedures = []string{"print", "input", "turn_on", "turn_off"}

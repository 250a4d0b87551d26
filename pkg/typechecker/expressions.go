package typechecker

import (
	"easyhue/compiler-go/pkg/ast"
)

// checkExpression infers the type of expr. A nil type with a nil error means
// the expression is a call to a function without a return type.
func (c *Checker) checkExpression(expr ast.Expression) (Type, error) {
	if ast.IsNil(expr) {
		return nil, newError(InvalidNode, nil, "missing expression")
	}
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return Int, nil
	case *ast.StringLiteral:
		return String, nil
	case *ast.Identifier:
		typ, ok := c.env.LookupVariable(e.Name)
		if !ok {
			return nil, newError(UndefinedReference, e, "variable '%s' is not defined", e.Name)
		}
		return typ, nil
	case *ast.FunctionCall:
		return c.checkFunctionCall(e)
	case *ast.ParenthesizedExpression:
		if ast.IsNil(e.Inner) {
			return nil, newError(InvalidNode, e, "empty parenthesized expression")
		}
		return c.checkExpression(e.Inner)
	case *ast.BinaryExpression:
		return c.checkBinaryExpression(e)
	default:
		return nil, newError(InvalidNode, expr, "unsupported expression %T", expr)
	}
}

func (c *Checker) checkBinaryExpression(expr *ast.BinaryExpression) (Type, error) {
	if !expr.Operator.Valid() {
		return nil, newError(InvalidNode, expr, "unknown binary operator %q", string(expr.Operator))
	}
	if ast.IsNil(expr.Left) || ast.IsNil(expr.Right) {
		return nil, newError(InvalidNode, expr, "operator %s is missing an operand", expr.Operator)
	}
	leftType, err := c.checkExpression(expr.Left)
	if err != nil {
		return nil, err
	}
	rightType, err := c.checkExpression(expr.Right)
	if err != nil {
		return nil, err
	}
	if !typesEqual(leftType, Int) || !typesEqual(rightType, Int) {
		class := "arithmetic"
		if expr.Operator.IsComparison() {
			class = "comparison"
		}
		return nil, newError(TypeMismatch, expr, "%s operator %s requires int operands, got %s and %s", class, expr.Operator, typeName(leftType), typeName(rightType))
	}
	if expr.Operator.IsComparison() {
		return Boolean, nil
	}
	return Int, nil
}

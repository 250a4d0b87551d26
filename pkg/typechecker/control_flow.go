package typechecker

import (
	"easyhue/compiler-go/pkg/ast"
)

func (c *Checker) checkIfStatement(stmt *ast.IfStatement) error {
	if err := c.checkCondition(stmt.Condition, stmt, "if"); err != nil {
		return err
	}
	if err := c.checkBlock(stmt.Then, "if statement"); err != nil {
		return err
	}
	if stmt.Else != nil {
		return c.checkBlock(stmt.Else, "else branch")
	}
	return nil
}

func (c *Checker) checkWhileStatement(loop *ast.WhileStatement) error {
	if err := c.checkCondition(loop.Condition, loop, "while"); err != nil {
		return err
	}
	return c.checkBlock(loop.Body, "while loop")
}

// checkCondition requires cond to be exactly boolean. There is no implicit
// conversion into boolean.
func (c *Checker) checkCondition(cond ast.Expression, owner ast.Node, label string) error {
	if ast.IsNil(cond) {
		return newError(InvalidNode, owner, "%s statement has no condition", label)
	}
	condType, err := c.checkExpression(cond)
	if err != nil {
		return err
	}
	if !typesEqual(condType, Boolean) {
		return newError(TypeMismatch, cond, "%s condition must be boolean, got %s", label, typeName(condType))
	}
	return nil
}

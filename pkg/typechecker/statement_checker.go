package typechecker

import (
	"easyhue/compiler-go/pkg/ast"
)

func (c *Checker) checkStatement(stmt ast.Statement) error {
	if ast.IsNil(stmt) {
		return newError(InvalidNode, nil, "missing statement")
	}
	switch s := stmt.(type) {
	case *ast.FunctionDefinition:
		return c.checkFunctionDefinition(s)
	case *ast.Assignment:
		return c.checkAssignment(s)
	case *ast.FunctionCall:
		_, err := c.checkFunctionCall(s)
		return err
	case *ast.KeywordCall:
		return c.checkKeywordCall(s)
	case *ast.IfStatement:
		return c.checkIfStatement(s)
	case *ast.WhileStatement:
		return c.checkWhileStatement(s)
	case *ast.ReturnStatement:
		return c.checkReturnStatement(s)
	default:
		return newError(InvalidNode, stmt, "unsupported statement %T", stmt)
	}
}

func (c *Checker) checkBlock(block *ast.Block, owner string) error {
	if block == nil {
		return newError(InvalidNode, nil, "%s is missing its block", owner)
	}
	for _, stmt := range block.Body {
		if err := c.checkStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkAssignment(assign *ast.Assignment) error {
	if assign.Target == nil || assign.Target.Name == "" {
		return newError(InvalidNode, assign, "assignment without a target name")
	}
	if ast.IsNil(assign.Value) {
		return newError(InvalidNode, assign, "assignment to '%s' has no value", assign.Target.Name)
	}
	valueType, err := c.checkExpression(assign.Value)
	if err != nil {
		return err
	}
	name := assign.Target.Name
	if valueType == nil {
		return newError(TypeMismatch, assign.Value, "cannot assign a call with no return value to '%s'", name)
	}
	return c.bindOrAssign(name, valueType, assign)
}

// bindOrAssign fixes the type of name on first use and checks later stores
// against it.
func (c *Checker) bindOrAssign(name string, valueType Type, node ast.Node) error {
	existing, bound := c.env.LookupVariable(name)
	if !bound {
		c.env.BindVariable(name, valueType)
		return nil
	}
	if !Assignable(existing, valueType) {
		return newError(TypeMismatch, node, "cannot assign %s to variable '%s' of type %s", typeName(valueType), name, typeName(existing))
	}
	return nil
}

func (c *Checker) checkKeywordCall(call *ast.KeywordCall) error {
	if !c.keywords.Contains(call.Keyword) {
		return newError(UnknownKeyword, call, "unknown keyword '%s'", call.Keyword)
	}
	return nil
}

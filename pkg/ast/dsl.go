package ast

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(value)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

// Expression helpers.

func Bin(op BinaryOperator, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(op, left, right)
}

func Paren(inner Expression) *ParenthesizedExpression {
	return NewParenthesizedExpression(inner)
}

func Call(name string, args ...Expression) *FunctionCall {
	return NewFunctionCall(ID(name), args)
}

// Statement helpers.

func Assign(name string, value Expression) *Assignment {
	return NewAssignment(ID(name), value)
}

func Keyword(name string) *KeywordCall {
	return NewKeywordCall(name)
}

func Blk(stmts ...Statement) *Block {
	return NewBlock(stmts)
}

func If(cond Expression, then *Block) *IfStatement {
	return NewIfStatement(cond, then, nil)
}

func IfElse(cond Expression, then, otherwise *Block) *IfStatement {
	return NewIfStatement(cond, then, otherwise)
}

func While(cond Expression, body *Block) *WhileStatement {
	return NewWhileStatement(cond, body)
}

func Ret(value Expression) *ReturnStatement {
	return NewReturnStatement(value)
}

// Definition helpers.

func Ty(name string) *TypeAnnotation {
	return NewTypeAnnotation(name)
}

func Param(name string, typ string) *Parameter {
	var annotation *TypeAnnotation
	if typ != "" {
		annotation = Ty(typ)
	}
	return NewParameter(ID(name), annotation)
}

func Fn(name string, params []*Parameter, returnType string, body *Block) *FunctionDefinition {
	var ret *TypeAnnotation
	if returnType != "" {
		ret = Ty(returnType)
	}
	return NewFunctionDefinition(ID(name), params, ret, body)
}

func Prog(stmts ...Statement) *Program {
	return NewProgram(stmts)
}

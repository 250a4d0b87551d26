package ast

import "fmt"

type NodeType string

const (
	NodeProgram                 NodeType = "Program"
	NodeBlock                   NodeType = "Block"
	NodeIdentifier              NodeType = "Identifier"
	NodeIntegerLiteral          NodeType = "IntegerLiteral"
	NodeStringLiteral           NodeType = "StringLiteral"
	NodeBinaryExpression        NodeType = "BinaryExpression"
	NodeParenthesizedExpression NodeType = "ParenthesizedExpression"
	NodeFunctionCall            NodeType = "FunctionCall"
	NodeKeywordCall             NodeType = "KeywordCall"
	NodeAssignment              NodeType = "Assignment"
	NodeIfStatement             NodeType = "IfStatement"
	NodeWhileStatement          NodeType = "WhileStatement"
	NodeReturnStatement         NodeType = "ReturnStatement"
	NodeFunctionDefinition      NodeType = "FunctionDefinition"
	NodeParameter               NodeType = "Parameter"
	NodeTypeAnnotation          NodeType = "TypeAnnotation"
)

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// IsZero reports whether the span carries no location.
func (s Span) IsZero() bool { return s == Span{} }

type nodeImpl struct {
	Type NodeType `json:"type"`
	span Span
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.span }
func (nodeImpl) isNode()              {}
func (n *nodeImpl) setSpan(span Span) { n.span = span }

// Marker interfaces. Only types in this package can satisfy them, which keeps
// the statement and expression unions closed.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Program is the root of a compilation unit.

type Program struct {
	nodeImpl

	Body []Statement `json:"body"`
}

func NewProgram(body []Statement) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Body: body}
}

type Block struct {
	nodeImpl

	Body []Statement `json:"body"`
}

func NewBlock(body []Statement) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock), Body: body}
}

// Expressions

type Identifier struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

type IntegerLiteral struct {
	nodeImpl
	expressionMarker

	Value int64 `json:"value"`
}

func NewIntegerLiteral(value int64) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

// StringLiteral keeps the text between the delimiters exactly as written.
type StringLiteral struct {
	nodeImpl
	expressionMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Operator BinaryOperator `json:"operator"`
	Left     Expression     `json:"left"`
	Right    Expression     `json:"right"`
}

func NewBinaryExpression(operator BinaryOperator, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

// ParenthesizedExpression is a grouping node. It carries no semantics of its
// own; checkers and generators look through it.
type ParenthesizedExpression struct {
	nodeImpl
	expressionMarker

	Inner Expression `json:"inner"`
}

func NewParenthesizedExpression(inner Expression) *ParenthesizedExpression {
	return &ParenthesizedExpression{nodeImpl: newNodeImpl(NodeParenthesizedExpression), Inner: inner}
}

// Unparen strips any number of grouping nodes.
func Unparen(expr Expression) Expression {
	for {
		paren, ok := expr.(*ParenthesizedExpression)
		if !ok || paren == nil {
			return expr
		}
		expr = paren.Inner
	}
}

// FunctionCall appears both as a statement and inside expressions.
type FunctionCall struct {
	nodeImpl
	expressionMarker
	statementMarker

	Callee    *Identifier  `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionCall(callee *Identifier, args []Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Callee: callee, Arguments: args}
}

// Statements

type KeywordCall struct {
	nodeImpl
	statementMarker

	Keyword string `json:"keyword"`
}

func NewKeywordCall(keyword string) *KeywordCall {
	return &KeywordCall{nodeImpl: newNodeImpl(NodeKeywordCall), Keyword: keyword}
}

type Assignment struct {
	nodeImpl
	statementMarker

	Target *Identifier `json:"target"`
	Value  Expression  `json:"value"`
}

func NewAssignment(target *Identifier, value Expression) *Assignment {
	return &Assignment{nodeImpl: newNodeImpl(NodeAssignment), Target: target, Value: value}
}

type IfStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Then      *Block     `json:"then"`
	Else      *Block     `json:"else,omitempty"`
}

func NewIfStatement(condition Expression, then, otherwise *Block) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, Then: then, Else: otherwise}
}

type WhileStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      *Block     `json:"body"`
}

func NewWhileStatement(condition Expression, body *Block) *WhileStatement {
	return &WhileStatement{nodeImpl: newNodeImpl(NodeWhileStatement), Condition: condition, Body: body}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Value Expression `json:"value,omitempty"`
}

func NewReturnStatement(value Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Value: value}
}

// Definitions

// TypeAnnotation names one of the primitive types (int, string, bool).
type TypeAnnotation struct {
	nodeImpl

	Name string `json:"name"`
}

func NewTypeAnnotation(name string) *TypeAnnotation {
	return &TypeAnnotation{nodeImpl: newNodeImpl(NodeTypeAnnotation), Name: name}
}

type Parameter struct {
	nodeImpl

	Name       *Identifier     `json:"name"`
	Annotation *TypeAnnotation `json:"annotation,omitempty"`
}

func NewParameter(name *Identifier, typ *TypeAnnotation) *Parameter {
	return &Parameter{nodeImpl: newNodeImpl(NodeParameter), Name: name, Annotation: typ}
}

type FunctionDefinition struct {
	nodeImpl
	statementMarker

	ID         *Identifier     `json:"id"`
	Params     []*Parameter    `json:"params"`
	ReturnType *TypeAnnotation `json:"returnType,omitempty"`
	Body       *Block          `json:"body"`
}

func NewFunctionDefinition(id *Identifier, params []*Parameter, returnType *TypeAnnotation, body *Block) *FunctionDefinition {
	return &FunctionDefinition{nodeImpl: newNodeImpl(NodeFunctionDefinition), ID: id, Params: params, ReturnType: returnType, Body: body}
}

// Name returns the function name or "" when the identifier is missing.
func (f *FunctionDefinition) Name() string {
	if f == nil || f.ID == nil {
		return ""
	}
	return f.ID.Name
}

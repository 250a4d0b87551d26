package ast

// Visitor is called for every node reached by Walk. Returning false skips the
// node's children.
type Visitor func(node Node) bool

// Walk traverses the tree rooted at node in pre-order, source order.
func Walk(node Node, visit Visitor) {
	if node == nil || isNilNode(node) {
		return
	}
	if !visit(node) {
		return
	}
	for _, child := range Children(node) {
		Walk(child, visit)
	}
}

// Children returns the direct child nodes of node in source order.
func Children(node Node) []Node {
	var out []Node
	add := func(n Node) {
		if n != nil && !isNilNode(n) {
			out = append(out, n)
		}
	}
	switch n := node.(type) {
	case *Program:
		for _, stmt := range n.Body {
			add(stmt)
		}
	case *Block:
		for _, stmt := range n.Body {
			add(stmt)
		}
	case *FunctionDefinition:
		add(n.ID)
		for _, param := range n.Params {
			add(param)
		}
		add(n.ReturnType)
		add(n.Body)
	case *Parameter:
		add(n.Name)
		add(n.Annotation)
	case *Assignment:
		add(n.Target)
		add(n.Value)
	case *FunctionCall:
		add(n.Callee)
		for _, arg := range n.Arguments {
			add(arg)
		}
	case *IfStatement:
		add(n.Condition)
		add(n.Then)
		add(n.Else)
	case *WhileStatement:
		add(n.Condition)
		add(n.Body)
	case *ReturnStatement:
		add(n.Value)
	case *BinaryExpression:
		add(n.Left)
		add(n.Right)
	case *ParenthesizedExpression:
		add(n.Inner)
	}
	return out
}

// IsNil reports whether node is nil or a typed nil pointer stored in a Node
// interface.
func IsNil(node Node) bool {
	return node == nil || isNilNode(node)
}

func isNilNode(node Node) bool {
	switch n := node.(type) {
	case *Program:
		return n == nil
	case *Block:
		return n == nil
	case *Identifier:
		return n == nil
	case *IntegerLiteral:
		return n == nil
	case *StringLiteral:
		return n == nil
	case *BinaryExpression:
		return n == nil
	case *ParenthesizedExpression:
		return n == nil
	case *FunctionCall:
		return n == nil
	case *KeywordCall:
		return n == nil
	case *Assignment:
		return n == nil
	case *IfStatement:
		return n == nil
	case *WhileStatement:
		return n == nil
	case *ReturnStatement:
		return n == nil
	case *TypeAnnotation:
		return n == nil
	case *Parameter:
		return n == nil
	case *FunctionDefinition:
		return n == nil
	}
	return false
}

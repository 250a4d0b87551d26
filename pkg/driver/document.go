package driver

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"easyhue/compiler-go/pkg/ast"
)

// AST documents are the JSON encoding of package ast (every node carries a
// "type" discriminator). Since JSON is a subset of YAML, both forms are read
// through yaml.v3, which also supplies line and column for each node.

// DecodeDocument decodes a Program document.
func DecodeDocument(data []byte) (*ast.Program, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("document: empty document")
	}
	node, err := decodeNode(root.Content[0])
	if err != nil {
		return nil, err
	}
	program, ok := node.(*ast.Program)
	if !ok {
		return nil, fmt.Errorf("document: root must be a Program, got %s", node.NodeType())
	}
	return program, nil
}

type docError struct {
	line, column int
	msg          string
}

func (e *docError) Error() string {
	return fmt.Sprintf("document: %d:%d: %s", e.line, e.column, e.msg)
}

func errorAt(n *yaml.Node, format string, args ...any) error {
	return &docError{line: n.Line, column: n.Column, msg: fmt.Sprintf(format, args...)}
}

func fieldOf(n *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			value := n.Content[i+1]
			if value.Tag == "!!null" {
				return nil
			}
			return value
		}
	}
	return nil
}

func decodeNode(n *yaml.Node) (ast.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, errorAt(n, "expected node mapping")
	}
	typeField := fieldOf(n, "type")
	if typeField == nil || typeField.Kind != yaml.ScalarNode {
		return nil, errorAt(n, "node is missing its type")
	}
	node, err := decodeTyped(ast.NodeType(typeField.Value), n)
	if err != nil {
		return nil, err
	}
	ast.SetSpan(node, ast.Span{Start: ast.Position{Line: n.Line, Column: n.Column}})
	return node, nil
}

func decodeTyped(kind ast.NodeType, n *yaml.Node) (ast.Node, error) {
	switch kind {
	case ast.NodeProgram:
		body, err := decodeStatements(n, "body")
		if err != nil {
			return nil, err
		}
		return ast.NewProgram(body), nil
	case ast.NodeBlock:
		body, err := decodeStatements(n, "body")
		if err != nil {
			return nil, err
		}
		return ast.NewBlock(body), nil
	case ast.NodeIdentifier:
		name, err := stringField(n, "name")
		if err != nil {
			return nil, err
		}
		return ast.NewIdentifier(name), nil
	case ast.NodeIntegerLiteral:
		value := fieldOf(n, "value")
		if value == nil {
			return nil, errorAt(n, "IntegerLiteral is missing value")
		}
		var v int64
		if err := value.Decode(&v); err != nil {
			return nil, errorAt(value, "IntegerLiteral value: %v", err)
		}
		return ast.NewIntegerLiteral(v), nil
	case ast.NodeStringLiteral:
		value, err := stringField(n, "value")
		if err != nil {
			return nil, err
		}
		return ast.NewStringLiteral(value), nil
	case ast.NodeBinaryExpression:
		opText, err := stringField(n, "operator")
		if err != nil {
			return nil, err
		}
		op, err := ast.ParseBinaryOperator(opText)
		if err != nil {
			return nil, errorAt(n, "%v", err)
		}
		left, err := decodeExpression(n, "left")
		if err != nil {
			return nil, err
		}
		right, err := decodeExpression(n, "right")
		if err != nil {
			return nil, err
		}
		return ast.NewBinaryExpression(op, left, right), nil
	case ast.NodeParenthesizedExpression:
		inner, err := decodeExpression(n, "inner")
		if err != nil {
			return nil, err
		}
		return ast.NewParenthesizedExpression(inner), nil
	case ast.NodeFunctionCall:
		callee, err := decodeIdentifier(n, "callee")
		if err != nil {
			return nil, err
		}
		var args []ast.Expression
		if list := fieldOf(n, "arguments"); list != nil {
			if list.Kind != yaml.SequenceNode {
				return nil, errorAt(list, "arguments must be a list")
			}
			for _, item := range list.Content {
				expr, err := asExpression(item)
				if err != nil {
					return nil, err
				}
				args = append(args, expr)
			}
		}
		return ast.NewFunctionCall(callee, args), nil
	case ast.NodeKeywordCall:
		keyword, err := stringField(n, "keyword")
		if err != nil {
			return nil, err
		}
		return ast.NewKeywordCall(keyword), nil
	case ast.NodeAssignment:
		target, err := decodeIdentifier(n, "target")
		if err != nil {
			return nil, err
		}
		value, err := decodeExpression(n, "value")
		if err != nil {
			return nil, err
		}
		return ast.NewAssignment(target, value), nil
	case ast.NodeIfStatement:
		cond, err := decodeExpression(n, "condition")
		if err != nil {
			return nil, err
		}
		then, err := decodeBlock(n, "then")
		if err != nil {
			return nil, err
		}
		var otherwise *ast.Block
		if fieldOf(n, "else") != nil {
			if otherwise, err = decodeBlock(n, "else"); err != nil {
				return nil, err
			}
		}
		return ast.NewIfStatement(cond, then, otherwise), nil
	case ast.NodeWhileStatement:
		cond, err := decodeExpression(n, "condition")
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(n, "body")
		if err != nil {
			return nil, err
		}
		return ast.NewWhileStatement(cond, body), nil
	case ast.NodeReturnStatement:
		var value ast.Expression
		if fieldOf(n, "value") != nil {
			expr, err := decodeExpression(n, "value")
			if err != nil {
				return nil, err
			}
			value = expr
		}
		return ast.NewReturnStatement(value), nil
	case ast.NodeTypeAnnotation:
		name, err := stringField(n, "name")
		if err != nil {
			return nil, err
		}
		return ast.NewTypeAnnotation(name), nil
	case ast.NodeParameter:
		name, err := decodeIdentifier(n, "name")
		if err != nil {
			return nil, err
		}
		annotation, err := decodeAnnotation(n, "annotation")
		if err != nil {
			return nil, err
		}
		return ast.NewParameter(name, annotation), nil
	case ast.NodeFunctionDefinition:
		id, err := decodeIdentifier(n, "id")
		if err != nil {
			return nil, err
		}
		var params []*ast.Parameter
		if list := fieldOf(n, "params"); list != nil {
			if list.Kind != yaml.SequenceNode {
				return nil, errorAt(list, "params must be a list")
			}
			for _, item := range list.Content {
				node, err := decodeNode(item)
				if err != nil {
					return nil, err
				}
				param, ok := node.(*ast.Parameter)
				if !ok {
					return nil, errorAt(item, "expected Parameter, got %s", node.NodeType())
				}
				params = append(params, param)
			}
		}
		returnType, err := decodeAnnotation(n, "returnType")
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(n, "body")
		if err != nil {
			return nil, err
		}
		return ast.NewFunctionDefinition(id, params, returnType, body), nil
	}
	return nil, errorAt(n, "unsupported node type %q", string(kind))
}

func stringField(n *yaml.Node, key string) (string, error) {
	value := fieldOf(n, key)
	if value == nil || value.Kind != yaml.ScalarNode {
		return "", errorAt(n, "missing string field %q", key)
	}
	return value.Value, nil
}

func decodeStatements(n *yaml.Node, key string) ([]ast.Statement, error) {
	list := fieldOf(n, key)
	if list == nil {
		return nil, nil
	}
	if list.Kind != yaml.SequenceNode {
		return nil, errorAt(list, "%s must be a list", key)
	}
	var out []ast.Statement
	for _, item := range list.Content {
		node, err := decodeNode(item)
		if err != nil {
			return nil, err
		}
		stmt, ok := node.(ast.Statement)
		if !ok {
			return nil, errorAt(item, "%s is not a statement", node.NodeType())
		}
		out = append(out, stmt)
	}
	return out, nil
}

func asExpression(n *yaml.Node) (ast.Expression, error) {
	node, err := decodeNode(n)
	if err != nil {
		return nil, err
	}
	expr, ok := node.(ast.Expression)
	if !ok {
		return nil, errorAt(n, "%s is not an expression", node.NodeType())
	}
	return expr, nil
}

func decodeExpression(n *yaml.Node, key string) (ast.Expression, error) {
	value := fieldOf(n, key)
	if value == nil {
		return nil, errorAt(n, "missing expression field %q", key)
	}
	return asExpression(value)
}

// decodeIdentifier accepts either an Identifier node or a bare name.
func decodeIdentifier(n *yaml.Node, key string) (*ast.Identifier, error) {
	value := fieldOf(n, key)
	if value == nil {
		return nil, errorAt(n, "missing identifier field %q", key)
	}
	if value.Kind == yaml.ScalarNode {
		id := ast.NewIdentifier(value.Value)
		ast.SetSpan(id, ast.Span{Start: ast.Position{Line: value.Line, Column: value.Column}})
		return id, nil
	}
	node, err := decodeNode(value)
	if err != nil {
		return nil, err
	}
	id, ok := node.(*ast.Identifier)
	if !ok {
		return nil, errorAt(value, "expected Identifier, got %s", node.NodeType())
	}
	return id, nil
}

func decodeBlock(n *yaml.Node, key string) (*ast.Block, error) {
	value := fieldOf(n, key)
	if value == nil {
		return nil, errorAt(n, "missing block field %q", key)
	}
	node, err := decodeNode(value)
	if err != nil {
		return nil, err
	}
	block, ok := node.(*ast.Block)
	if !ok {
		return nil, errorAt(value, "expected Block, got %s", node.NodeType())
	}
	return block, nil
}

// decodeAnnotation returns nil when the field is absent. A bare type name is
// accepted in place of a TypeAnnotation node.
func decodeAnnotation(n *yaml.Node, key string) (*ast.TypeAnnotation, error) {
	value := fieldOf(n, key)
	if value == nil {
		return nil, nil
	}
	if value.Kind == yaml.ScalarNode {
		annotation := ast.NewTypeAnnotation(value.Value)
		ast.SetSpan(annotation, ast.Span{Start: ast.Position{Line: value.Line, Column: value.Column}})
		return annotation, nil
	}
	node, err := decodeNode(value)
	if err != nil {
		return nil, err
	}
	annotation, ok := node.(*ast.TypeAnnotation)
	if !ok {
		return nil, errorAt(value, "expected TypeAnnotation, got %s", node.NodeType())
	}
	return annotation, nil
}

// DocumentFormat selects the encoding produced by EncodeDocument.
type DocumentFormat string

const (
	FormatJSON DocumentFormat = "json"
	FormatYAML DocumentFormat = "yaml"
)

// EncodeDocument renders program in the document format read by
// DecodeDocument.
func EncodeDocument(program *ast.Program, format DocumentFormat) ([]byte, error) {
	if program == nil {
		return nil, fmt.Errorf("document: nil program")
	}
	var jsonBuf bytes.Buffer
	jsonEnc := json.NewEncoder(&jsonBuf)
	jsonEnc.SetEscapeHTML(false)
	jsonEnc.SetIndent("", "  ")
	if err := jsonEnc.Encode(program); err != nil {
		return nil, fmt.Errorf("document: marshal: %w", err)
	}
	data := jsonBuf.Bytes()
	switch format {
	case FormatJSON, "":
		return data, nil
	case FormatYAML:
	default:
		return nil, fmt.Errorf("document: unknown format %q", format)
	}

	// Re-read the JSON as YAML to keep field order, then drop the flow and
	// quoting styles so the output is block YAML.
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("document: reparse: %w", err)
	}
	clearStyle(&root)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&root); err != nil {
		return nil, fmt.Errorf("document: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("document: encoder close: %w", err)
	}
	return buf.Bytes(), nil
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		clearStyle(child)
	}
}

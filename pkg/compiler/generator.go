package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"easyhue/compiler-go/pkg/ast"
)

// generator holds the state of one rendering pass: the output buffer, the
// current nesting depth and, when enabled, the identifier mangler.
type generator struct {
	opts     Options
	buf      strings.Builder
	depth    int
	names    *nameMangler
	warnings []string
}

func newGenerator(opts Options) *generator {
	if opts.Indent == "" {
		opts.Indent = "\t"
	}
	g := &generator{opts: opts}
	if opts.MangleReserved {
		g.names = newNameMangler()
	}
	return g
}

func (g *generator) generate(program *ast.Program) (string, error) {
	if program == nil {
		return "", errorf(nil, "nil program")
	}
	if header := headerLines(g.opts); len(header) > 0 {
		for _, line := range header {
			g.line("%s", line)
		}
		g.buf.WriteByte('\n')
	}
	for _, stmt := range program.Body {
		if err := g.statement(stmt); err != nil {
			return "", err
		}
	}
	return g.buf.String(), nil
}

func (g *generator) line(format string, args ...any) {
	for i := 0; i < g.depth; i++ {
		g.buf.WriteString(g.opts.Indent)
	}
	fmt.Fprintf(&g.buf, format, args...)
	g.buf.WriteByte('\n')
}

func (g *generator) ident(id *ast.Identifier, node ast.Node) (string, error) {
	if id == nil || id.Name == "" {
		return "", errorf(node, "%s is missing its name", node.NodeType())
	}
	out, renamed := g.names.name(id.Name)
	if renamed {
		g.warnings = append(g.warnings, fmt.Sprintf("renamed identifier %q to %q", id.Name, out))
	}
	return out, nil
}

func (g *generator) statement(stmt ast.Statement) error {
	if ast.IsNil(stmt) {
		return errorf(nil, "nil statement")
	}
	switch s := stmt.(type) {
	case *ast.FunctionDefinition:
		name, err := g.ident(s.ID, s)
		if err != nil {
			return err
		}
		g.line("void %s() {", name)
		if err := g.body(s.Body, s); err != nil {
			return err
		}
		g.line("}")
	case *ast.Assignment:
		name, err := g.ident(s.Target, s)
		if err != nil {
			return err
		}
		value, err := g.expression(s.Value, s)
		if err != nil {
			return err
		}
		g.line("%s = %s;", name, value)
	case *ast.FunctionCall:
		name, err := g.ident(s.Callee, s)
		if err != nil {
			return err
		}
		g.line("%s();", name)
	case *ast.KeywordCall:
		if s.Keyword == "" {
			return errorf(s, "keyword call is missing its keyword")
		}
		g.line("%s();", s.Keyword)
	case *ast.IfStatement:
		cond, err := g.expression(s.Condition, s)
		if err != nil {
			return err
		}
		g.line("if (%s) {", cond)
		if err := g.body(s.Then, s); err != nil {
			return err
		}
		if s.Else != nil {
			g.line("} else {")
			if err := g.body(s.Else, s); err != nil {
				return err
			}
		}
		g.line("}")
	case *ast.WhileStatement:
		cond, err := g.expression(s.Condition, s)
		if err != nil {
			return err
		}
		g.line("while (%s) {", cond)
		if err := g.body(s.Body, s); err != nil {
			return err
		}
		g.line("}")
	case *ast.ReturnStatement:
		if ast.IsNil(s.Value) {
			g.line("return;")
			return nil
		}
		value, err := g.expression(s.Value, s)
		if err != nil {
			return err
		}
		g.line("return %s;", value)
	default:
		return errorf(stmt, "unsupported statement %s", stmt.NodeType())
	}
	return nil
}

// body renders the statements of block one level deeper than the enclosing
// line. The caller writes the braces.
func (g *generator) body(block *ast.Block, owner ast.Node) error {
	if block == nil {
		return errorf(owner, "%s is missing its block", owner.NodeType())
	}
	g.depth++
	defer func() { g.depth-- }()
	for _, stmt := range block.Body {
		if err := g.statement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) expression(expr ast.Expression, owner ast.Node) (string, error) {
	if ast.IsNil(expr) {
		return "", errorf(owner, "%s is missing an expression", owner.NodeType())
	}
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return strconv.FormatInt(e.Value, 10), nil
	case *ast.StringLiteral:
		if problem := stringBodyProblem(e.Value); problem != "" {
			return "", errorf(e, "string literal %q cannot be emitted: %s", e.Value, problem)
		}
		return `"` + e.Value + `"`, nil
	case *ast.Identifier:
		return g.ident(e, e)
	case *ast.FunctionCall:
		name, err := g.ident(e.Callee, e)
		if err != nil {
			return "", err
		}
		return name + "()", nil
	case *ast.ParenthesizedExpression:
		return g.expression(e.Inner, e)
	case *ast.BinaryExpression:
		return g.binary(e)
	}
	return "", errorf(expr, "unsupported expression %s", expr.NodeType())
}

func (g *generator) binary(expr *ast.BinaryExpression) (string, error) {
	op, ok := cOperators[expr.Operator]
	if !ok {
		return "", errorf(expr, "unsupported binary operator %q", string(expr.Operator))
	}
	left, err := g.expression(expr.Left, expr)
	if err != nil {
		return "", err
	}
	right, err := g.expression(expr.Right, expr)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(%s %s %s)", left, op, right), nil
}

// cOperators maps source operators to their target spelling.
var cOperators = map[ast.BinaryOperator]string{
	ast.OpAdd: "+",
	ast.OpSub: "-",
	ast.OpMul: "*",
	ast.OpDiv: "/",
	ast.OpEq:  "==",
	ast.OpNeq: "!=",
	ast.OpLt:  "<",
	ast.OpGt:  ">",
	ast.OpLe:  "<=",
	ast.OpGe:  ">=",
}


// stringBodyProblem reports why body cannot sit between double quotes in the
// output. Bodies are emitted verbatim, so escapes must already be in place.
func stringBodyProblem(body string) string {
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\\':
			i++
			if i == len(body) {
				return "trailing backslash"
			}
			if body[i] == '\n' || body[i] == '\r' {
				return "line break"
			}
		case '"':
			return "unescaped double quote"
		case '\n', '\r':
			return "line break"
		}
	}
	return ""
}

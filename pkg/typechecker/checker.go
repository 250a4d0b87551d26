package typechecker

import (
	mapset "github.com/deckarep/golang-set"

	"easyhue/compiler-go/pkg/ast"
)

// Checker traverses EasyHue AST nodes and validates their types.
type Checker struct {
	env           *Environment
	functionStack []functionContext
	keywords      mapset.Set
}

// functionContext is the enclosing function of the statements being checked.
type functionContext struct {
	name      string
	signature FunctionSignature
}

// New returns a checker instance.
func New() *Checker {
	keywords := mapset.NewSet()
	for _, kw := range ast.KeywordProcedures {
		keywords.Add(kw)
	}
	return &Checker{keywords: keywords}
}

// CheckTypes validates program and reports the first violation.
func CheckTypes(program *ast.Program) error {
	_, err := New().CheckProgram(program)
	return err
}

// CheckProgram validates program against a fresh environment. On success the
// populated environment is returned; on failure the environment is discarded
// and the returned error is an *Error.
func (c *Checker) CheckProgram(program *ast.Program) (*Environment, error) {
	c.env = NewEnvironment()
	c.functionStack = nil
	defer func() {
		c.env = nil
		c.functionStack = nil
	}()

	if program == nil {
		return nil, newError(InvalidNode, nil, "program is nil")
	}
	for _, stmt := range program.Body {
		if err := c.checkStatement(stmt); err != nil {
			return nil, err
		}
	}
	return c.env, nil
}

func (c *Checker) pushFunction(name string, sig FunctionSignature) {
	c.functionStack = append(c.functionStack, functionContext{name: name, signature: sig})
}

func (c *Checker) popFunction() {
	if len(c.functionStack) == 0 {
		return
	}
	c.functionStack = c.functionStack[:len(c.functionStack)-1]
}

func (c *Checker) currentFunction() (functionContext, bool) {
	if len(c.functionStack) == 0 {
		return functionContext{}, false
	}
	return c.functionStack[len(c.functionStack)-1], true
}

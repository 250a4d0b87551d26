package casebook

import (
	"errors"
	"fmt"
	"strings"

	"easyhue/compiler-go/pkg/ast"
	"easyhue/compiler-go/pkg/compiler"
	"easyhue/compiler-go/pkg/driver"
	"easyhue/compiler-go/pkg/parser"
	"easyhue/compiler-go/pkg/typechecker"
)

// Run executes the case: parse or decode the input, type-check it, generate
// code, and compare each stage against the assertions.
func (c Case) Run() error {
	program, err := c.load()
	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) {
		return c.expectSyntaxError(syntaxErr)
	}
	if err != nil {
		return fmt.Errorf("%s: load input: %w", c.label(), err)
	}
	if a, ok := c.find(AssertSyntaxError); ok {
		return fmt.Errorf("%s: line %d: expected syntax error containing %q, input parsed", c.label(), a.Line, a.Content)
	}

	checkErr := typechecker.CheckTypes(program)
	if a, ok := c.find(AssertCheckError); ok {
		return c.expectCheckError(a, checkErr)
	}
	if checkErr != nil {
		return fmt.Errorf("%s: unexpected check failure: %w", c.label(), checkErr)
	}

	out, err := compiler.GenerateCode(program)
	if err != nil {
		return fmt.Errorf("%s: generate: %w", c.label(), err)
	}
	for _, a := range c.Assertions {
		if a.Kind != AssertOutput {
			continue
		}
		got := strings.TrimRight(out, "\n")
		if got != a.Content {
			return fmt.Errorf("%s: line %d: generated code mismatch\n--- want\n%s\n--- got\n%s", c.label(), a.Line, a.Content, got)
		}
	}
	return nil
}

func (c Case) label() string {
	if c.File != "" {
		return fmt.Sprintf("%s:%d %s", c.File, c.Line, c.Name)
	}
	return fmt.Sprintf("line %d %s", c.Line, c.Name)
}

func (c Case) load() (*ast.Program, error) {
	switch c.InputKind {
	case InputDocument:
		return driver.DecodeDocument([]byte(c.Input))
	case InputSource:
		return parser.ParseProgram([]byte(c.Input))
	}
	return nil, fmt.Errorf("unknown input kind %q", c.InputKind)
}

func (c Case) find(kind AssertionKind) (Assertion, bool) {
	for _, a := range c.Assertions {
		if a.Kind == kind {
			return a, true
		}
	}
	return Assertion{}, false
}

func (c Case) expectSyntaxError(got *parser.SyntaxError) error {
	a, ok := c.find(AssertSyntaxError)
	if !ok {
		return fmt.Errorf("%s: unexpected syntax error: %w", c.label(), got)
	}
	if !strings.Contains(got.Error(), a.Content) {
		return fmt.Errorf("%s: line %d: syntax error %q does not contain %q", c.label(), a.Line, got.Error(), a.Content)
	}
	return nil
}

func (c Case) expectCheckError(a Assertion, got error) error {
	kindName, fragment, _ := strings.Cut(a.Content, ":")
	kind, ok := typechecker.ParseErrorKind(strings.TrimSpace(kindName))
	if !ok {
		return fmt.Errorf("%s: line %d: unknown error kind %q", c.label(), a.Line, strings.TrimSpace(kindName))
	}
	if got == nil {
		return fmt.Errorf("%s: line %d: expected %s, check passed", c.label(), a.Line, kind)
	}
	var checkErr *typechecker.Error
	if !errors.As(got, &checkErr) {
		return fmt.Errorf("%s: expected *typechecker.Error, got %T: %v", c.label(), got, got)
	}
	if checkErr.Kind != kind {
		return fmt.Errorf("%s: line %d: expected %s, got %s", c.label(), a.Line, kind, got)
	}
	if fragment = strings.TrimSpace(fragment); fragment != "" && !strings.Contains(checkErr.Message, fragment) {
		return fmt.Errorf("%s: line %d: message %q does not contain %q", c.label(), a.Line, checkErr.Message, fragment)
	}
	return nil
}

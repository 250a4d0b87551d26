// Package casebook reads conformance cases written as Markdown. Each case
// starts at a "Case: <name>" heading and holds one input fence followed by
// assertion fences:
//
//	hue          program source
//	hue-doc      program as a YAML/JSON AST document
//	c            expected generated code
//	check-error  expected checker failure, "<Kind>: <message fragment>"
//	syntax-error expected parser failure, a message fragment
package casebook

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	mdast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type InputKind string

const (
	InputSource   InputKind = "hue"
	InputDocument InputKind = "hue-doc"
)

type AssertionKind string

const (
	AssertOutput      AssertionKind = "c"
	AssertCheckError  AssertionKind = "check-error"
	AssertSyntaxError AssertionKind = "syntax-error"
)

type Assertion struct {
	Kind    AssertionKind
	Content string
	Line    int
}

// Case is one conformance case.
type Case struct {
	Name       string
	File       string
	Line       int
	Input      string
	InputKind  InputKind
	Assertions []Assertion
}

const headingPrefix = "Case: "

// LoadFile extracts the cases of a Markdown file.
func LoadFile(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("casebook: read %s: %w", path, err)
	}
	cases, err := Extract(data)
	if err != nil {
		return nil, fmt.Errorf("casebook: %s: %w", path, err)
	}
	for i := range cases {
		cases[i].File = path
	}
	return cases, nil
}

// Extract parses a Markdown document and returns its cases in order.
func Extract(source []byte) ([]Case, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var cases []Case
	var current *Case
	flush := func() error {
		if current == nil {
			return nil
		}
		if err := validate(current); err != nil {
			return err
		}
		cases = append(cases, *current)
		current = nil
		return nil
	}

	err := mdast.Walk(doc, func(node mdast.Node, entering bool) (mdast.WalkStatus, error) {
		if !entering {
			return mdast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *mdast.Heading:
			heading := headingText(n, source)
			if !strings.HasPrefix(heading, headingPrefix) {
				return mdast.WalkContinue, nil
			}
			if err := flush(); err != nil {
				return mdast.WalkStop, err
			}
			current = &Case{
				Name: strings.TrimSpace(strings.TrimPrefix(heading, headingPrefix)),
				Line: lineOf(n, source),
			}
		case *mdast.FencedCodeBlock:
			language := string(n.Language(source))
			line := lineOf(n, source)
			if language == "" {
				return mdast.WalkContinue, nil
			}
			if current == nil {
				return mdast.WalkStop, fmt.Errorf("line %d: %s fence outside of a case", line, language)
			}
			content := fenceContent(n, source)
			switch {
			case isInput(language):
				if current.Input != "" {
					return mdast.WalkStop, fmt.Errorf("line %d: case %q has more than one input fence", line, current.Name)
				}
				current.Input = content
				current.InputKind = InputKind(language)
			case isAssertion(language):
				current.Assertions = append(current.Assertions, Assertion{
					Kind:    AssertionKind(language),
					Content: content,
					Line:    line,
				})
			default:
				return mdast.WalkStop, fmt.Errorf("line %d: unknown fence %q in case %q", line, language, current.Name)
			}
		}
		return mdast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return cases, nil
}

func isInput(language string) bool {
	return language == string(InputSource) || language == string(InputDocument)
}

func isAssertion(language string) bool {
	switch AssertionKind(language) {
	case AssertOutput, AssertCheckError, AssertSyntaxError:
		return true
	}
	return false
}

func validate(c *Case) error {
	if c.Input == "" {
		return fmt.Errorf("case %q has no input fence", c.Name)
	}
	if len(c.Assertions) == 0 {
		return fmt.Errorf("case %q has no assertion fences", c.Name)
	}
	return nil
}

func headingText(node mdast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = mdast.Walk(node, func(n mdast.Node, entering bool) (mdast.WalkStatus, error) {
		if t, ok := n.(*mdast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return mdast.WalkContinue, nil
	})
	return buf.String()
}

func fenceContent(block *mdast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		buf.Write(segment.Value(source))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// lineOf returns the 1-based line of the node's first content line. Headings
// and fences without content report the line of the nearest preceding text.
func lineOf(node mdast.Node, source []byte) int {
	offset := 0
	if lines := node.Lines(); lines.Len() > 0 {
		offset = lines.At(0).Start
	} else if block, ok := node.(*mdast.FencedCodeBlock); ok && block.Info != nil {
		offset = block.Info.Segment.Start
	}
	return bytes.Count(source[:offset], []byte("\n")) + 1
}

package compiler

import (
	"fmt"
	"path/filepath"
	"strings"

	"easyhue/compiler-go/pkg/ast"
	"easyhue/compiler-go/pkg/driver"
)

// Options controls the rendering of generated code.
type Options struct {
	// Indent is the per-level indentation unit. Defaults to a tab.
	Indent string
	// Header prefixes the output with a generated-code banner.
	Header    bool
	EntryPath string
	// Revision is the source revision recorded in the banner, if known.
	Revision   string
	OutputName string
	// MangleReserved rewrites identifiers that are reserved words or not
	// valid C identifiers in the output.
	MangleReserved bool
}

type Result struct {
	Files    map[string][]byte
	Warnings []string
}

type Compiler struct {
	opts Options
}

func New(opts Options) *Compiler {
	if opts.Indent == "" {
		opts.Indent = "\t"
	}
	if opts.OutputName == "" {
		opts.OutputName = "out.c"
	}
	return &Compiler{opts: opts}
}

// Compile renders a loaded program into a single output file.
func (c *Compiler) Compile(program *driver.Program) (*Result, error) {
	if program == nil || program.AST == nil {
		return nil, fmt.Errorf("compiler: missing program")
	}
	opts := c.opts
	if opts.EntryPath == "" {
		opts.EntryPath = program.Path
	}
	gen := newGenerator(opts)
	code, err := gen.generate(program.AST)
	if err != nil {
		return nil, err
	}
	return &Result{
		Files:    map[string][]byte{opts.OutputName: []byte(code)},
		Warnings: gen.warnings,
	}, nil
}

// Generate renders tree with the compiler's options. Generated code is not
// validated; run the type checker first.
func (c *Compiler) Generate(tree *ast.Program) (string, error) {
	return newGenerator(c.opts).generate(tree)
}

// GenerateCode renders tree with default options and no header.
func GenerateCode(tree *ast.Program) (string, error) {
	return New(Options{}).Generate(tree)
}

func (r *Result) Write(dir string) error {
	if r == nil {
		return fmt.Errorf("compiler: nil result")
	}
	return writeFiles(dir, r.Files)
}

func headerLines(opts Options) []string {
	if !opts.Header {
		return nil
	}
	source := "source"
	if opts.EntryPath != "" {
		source = filepath.ToSlash(filepath.Base(opts.EntryPath))
	}
	lines := []string{fmt.Sprintf("// Code generated by huec from %s. DO NOT EDIT.", source)}
	if rev := strings.TrimSpace(opts.Revision); rev != "" {
		lines = append(lines, "// source revision: "+rev)
	}
	return lines
}

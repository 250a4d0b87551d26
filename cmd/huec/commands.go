package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/urfave/cli.v1"

	"easyhue/compiler-go/pkg/driver"
	"easyhue/compiler-go/pkg/typechecker"
)

type commands struct {
	stdout io.Writer
	log    *logger
	loader *driver.Loader
}

var (
	formatFlag = cli.StringFlag{
		Name:  "format",
		Value: string(driver.FormatYAML),
		Usage: "document format: yaml or json",
	}
	dumpFlag = cli.BoolFlag{
		Name:  "dump",
		Usage: "print the Go representation of the tree instead of a document",
	}
)

func singleArg(ctx *cli.Context) (string, error) {
	if ctx.NArg() != 1 {
		return "", fmt.Errorf("%s: expected exactly one file argument, got %d", ctx.Command.Name, ctx.NArg())
	}
	return ctx.Args().First(), nil
}

// checkFile loads and type-checks path, returning the populated environment.
func (c *commands) checkFile(path string) (*driver.Program, *typechecker.Environment, error) {
	program, err := c.loader.Load(path)
	if err != nil {
		return nil, nil, err
	}
	env, err := typechecker.New().CheckProgram(program.AST)
	if err != nil {
		return nil, nil, describeCheckError(program.Path, err)
	}
	return program, env, nil
}

func describeCheckError(path string, err error) error {
	var tcErr *typechecker.Error
	if errors.As(err, &tcErr) {
		return fmt.Errorf("%s: %s %w", path, tcErr.Kind.Code(), err)
	}
	return fmt.Errorf("%s: %w", path, err)
}

func (c *commands) check(ctx *cli.Context) error {
	path, err := singleArg(ctx)
	if err != nil {
		return err
	}
	program, _, err := c.checkFile(path)
	if err != nil {
		return err
	}
	c.log.Info("checked", "file", program.Path, "statements", len(program.AST.Body))
	fmt.Fprintln(c.stdout, "ok")
	return nil
}

func (c *commands) parse(ctx *cli.Context) error {
	path, err := singleArg(ctx)
	if err != nil {
		return err
	}
	program, err := c.loader.Load(path)
	if err != nil {
		return err
	}
	if ctx.Bool(dumpFlag.Name) {
		dumper := spew.ConfigState{
			Indent:                  "  ",
			DisablePointerAddresses: true,
			DisableCapacities:       true,
		}
		dumper.Fdump(c.stdout, program.AST)
		return nil
	}
	data, err := driver.EncodeDocument(program.AST, driver.DocumentFormat(ctx.String(formatFlag.Name)))
	if err != nil {
		return err
	}
	_, err = c.stdout.Write(data)
	return err
}

func (c *commands) symbols(ctx *cli.Context) error {
	path, err := singleArg(ctx)
	if err != nil {
		return err
	}
	_, env, err := c.checkFile(path)
	if err != nil {
		return err
	}
	table := tablewriter.NewWriter(c.stdout)
	table.SetHeader([]string{"Kind", "Name", "Type"})
	for _, fn := range env.Functions() {
		table.Append([]string{"function", fn.Name, fn.Signature.String()})
	}
	for _, v := range env.Variables() {
		table.Append([]string{"variable", v.Name, v.Type.Name()})
	}
	table.Render()
	return nil
}

func (c *commands) version(ctx *cli.Context) error {
	fmt.Fprintf(c.stdout, "huec %s\n", versionString())
	return nil
}

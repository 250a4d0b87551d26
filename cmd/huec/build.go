package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/urfave/cli.v1"

	"easyhue/compiler-go/pkg/compiler"
	"easyhue/compiler-go/pkg/driver"
	"easyhue/compiler-go/pkg/typechecker"
)

var (
	outputFlag = cli.StringFlag{
		Name:  "output, o",
		Usage: "directory for generated files (default: manifest output, else the entry's directory)",
	}
	manifestFlag = cli.StringFlag{
		Name:  "manifest",
		Usage: "project manifest (default: nearest hue.yml, hue.yaml or hue.toml)",
	}
	targetFlag = cli.StringFlag{
		Name:  "target",
		Usage: "build only the named manifest target",
	}
	noHeaderFlag = cli.BoolFlag{
		Name:  "no-header",
		Usage: "omit the generated-code banner",
	}
	mangleFlag = cli.BoolFlag{
		Name:  "mangle",
		Usage: "rename identifiers that clash with target reserved words",
	}
)

// buildJob is one entry program and where its output goes.
type buildJob struct {
	name   string
	entry  string
	outDir string
	opts   compiler.Options
}

func (c *commands) build(ctx *cli.Context) error {
	if ctx.NArg() > 1 {
		return fmt.Errorf("build: expected at most one file argument, got %d", ctx.NArg())
	}
	entry := ctx.Args().First()

	manifest, err := c.findManifest(ctx.String(manifestFlag.Name), entry)
	if err != nil {
		return err
	}

	base := compiler.Options{
		Indent:         manifest.IndentString(),
		Header:         manifest == nil || manifest.Header,
		MangleReserved: ctx.Bool(mangleFlag.Name),
	}
	if ctx.Bool(noHeaderFlag.Name) {
		base.Header = false
	}

	var jobs []buildJob
	switch {
	case entry != "":
		if ctx.String(targetFlag.Name) != "" {
			return fmt.Errorf("build: -target cannot be combined with a file argument")
		}
		outDir := filepath.Dir(entry)
		if manifest != nil {
			outDir = manifest.Output
		}
		opts := base
		opts.OutputName = strings.TrimSuffix(filepath.Base(entry), filepath.Ext(entry)) + ".c"
		jobs = append(jobs, buildJob{name: opts.OutputName, entry: entry, outDir: outDir, opts: opts})
	case manifest == nil:
		return fmt.Errorf("build: no input file and no manifest found")
	default:
		names := manifest.TargetNames()
		if name := ctx.String(targetFlag.Name); name != "" {
			names = []string{name}
		}
		if len(names) == 0 {
			return fmt.Errorf("build: manifest %s has no targets", manifest.Path)
		}
		for _, name := range names {
			target, err := manifest.Target(name)
			if err != nil {
				return err
			}
			opts := base
			opts.OutputName = target.Output
			jobs = append(jobs, buildJob{name: name, entry: target.Entry, outDir: manifest.Output, opts: opts})
		}
	}
	if out := ctx.String("output"); out != "" {
		for i := range jobs {
			jobs[i].outDir = out
		}
	}

	revisionDir := filepath.Dir(jobs[0].entry)
	if manifest != nil {
		revisionDir = filepath.Dir(manifest.Path)
	}
	revision, err := driver.SourceRevision(revisionDir)
	if err != nil {
		c.log.Warn("source revision unavailable", "dir", revisionDir, "err", err)
	}
	for i := range jobs {
		jobs[i].opts.Revision = revision
	}

	return c.runJobs(context.Background(), jobs)
}

func (c *commands) findManifest(explicit, entry string) (*driver.Manifest, error) {
	path := explicit
	if path == "" {
		start := "."
		if entry != "" {
			start = filepath.Dir(entry)
		}
		found, err := driver.FindManifest(start)
		if err != nil {
			return nil, err
		}
		path = found
	}
	if path == "" {
		return nil, nil
	}
	manifest, err := driver.LoadManifest(path)
	if err != nil {
		return nil, err
	}
	c.log.Info("using manifest", "path", manifest.Path)
	return manifest, nil
}

// runJobs builds every job concurrently. Each job owns its checker and
// compiler; only the loader cache is shared.
func (c *commands) runJobs(ctx context.Context, jobs []buildJob) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return c.buildOne(job)
		})
	}
	return g.Wait()
}

func (c *commands) buildOne(job buildJob) error {
	program, err := c.loader.Load(job.entry)
	if err != nil {
		return err
	}
	if _, err := typechecker.New().CheckProgram(program.AST); err != nil {
		return describeCheckError(program.Path, err)
	}
	result, err := compiler.New(job.opts).Compile(program)
	if err != nil {
		return fmt.Errorf("%s: %w", program.Path, err)
	}
	for _, warning := range result.Warnings {
		c.log.Warn(warning, "target", job.name)
	}
	if err := result.Write(job.outDir); err != nil {
		return err
	}
	c.log.Info("built", "target", job.name, "output", filepath.Join(job.outDir, job.opts.OutputName))
	return nil
}

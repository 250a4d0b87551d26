package main

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/urfave/cli.v1"

	"easyhue/compiler-go/pkg/driver"
)

const cliToolVersion = "0.1.0-dev"

// gitCommit is set at link time with -ldflags "-X main.gitCommit=...".
var gitCommit = ""

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	log := newLogger(stderr)
	loader, err := driver.NewLoader(0)
	if err != nil {
		log.Error(err.Error())
		return 1
	}
	defer loader.Close()

	cmd := &commands{stdout: stdout, log: log, loader: loader}
	app := newApp(cmd)
	app.Writer = stdout
	app.ErrWriter = stderr
	if err := app.Run(args); err != nil {
		log.Error(err.Error())
		return 1
	}
	return 0
}

var verboseFlag = cli.BoolFlag{
	Name:  "verbose",
	Usage: "log progress to stderr",
}

func newApp(cmd *commands) *cli.App {
	app := cli.NewApp()
	app.Name = "huec"
	app.Usage = "type-check and compile EasyHue programs"
	app.Version = versionString()
	app.HideVersion = true
	app.Flags = []cli.Flag{verboseFlag}
	app.Before = func(ctx *cli.Context) error {
		cmd.log.SetVerbose(ctx.GlobalBool(verboseFlag.Name))
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:      "check",
			Usage:     "Type-check a program",
			ArgsUsage: "<file>",
			Action:    cmd.check,
		},
		{
			Name:      "build",
			Usage:     "Type-check and generate code for a program or the manifest targets",
			ArgsUsage: "[file]",
			Flags: []cli.Flag{
				outputFlag,
				manifestFlag,
				targetFlag,
				noHeaderFlag,
				mangleFlag,
			},
			Action: cmd.build,
		},
		{
			Name:      "parse",
			Usage:     "Print the syntax tree of a program",
			ArgsUsage: "<file>",
			Flags:     []cli.Flag{formatFlag, dumpFlag},
			Action:    cmd.parse,
		},
		{
			Name:      "symbols",
			Usage:     "Type-check a program and list its variables and functions",
			ArgsUsage: "<file>",
			Action:    cmd.symbols,
		},
		{
			Name:   "version",
			Usage:  "Print the compiler version",
			Action: cmd.version,
		},
	}
	return app
}

func versionString() string {
	if gitCommit == "" {
		return cliToolVersion
	}
	return fmt.Sprintf("%s (%s)", cliToolVersion, driver.ShortRevision(gitCommit))
}

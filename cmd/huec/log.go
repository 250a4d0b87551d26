package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

type level int

const (
	levelInfo level = iota
	levelWarn
	levelError
)

var levelNames = map[level]string{
	levelInfo:  "INFO",
	levelWarn:  "WARN",
	levelError: "ERROR",
}

// logger writes leveled key/value lines. INFO lines are dropped unless
// verbose is set. Safe for concurrent use.
type logger struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
	colors  map[level]*color.Color
}

func newLogger(out io.Writer) *logger {
	useColor := false
	if f, ok := out.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	colors := map[level]*color.Color{
		levelInfo:  color.New(color.FgGreen),
		levelWarn:  color.New(color.FgYellow),
		levelError: color.New(color.FgRed, color.Bold),
	}
	for _, c := range colors {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return &logger{out: out, colors: colors}
}

func (l *logger) SetVerbose(verbose bool) {
	l.mu.Lock()
	l.verbose = verbose
	l.mu.Unlock()
}

func (l *logger) Info(msg string, ctx ...any)  { l.write(levelInfo, msg, ctx) }
func (l *logger) Warn(msg string, ctx ...any)  { l.write(levelWarn, msg, ctx) }
func (l *logger) Error(msg string, ctx ...any) { l.write(levelError, msg, ctx) }

func (l *logger) write(lvl level, msg string, ctx []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lvl == levelInfo && !l.verbose {
		return
	}
	var b strings.Builder
	b.WriteString(l.colors[lvl].Sprintf("%-5s", levelNames[lvl]))
	b.WriteByte(' ')
	b.WriteString(msg)
	if len(ctx)%2 != 0 {
		ctx = append(ctx, nil)
	}
	for i := 0; i < len(ctx); i += 2 {
		fmt.Fprintf(&b, " %v=%s", ctx[i], formatValue(ctx[i+1]))
	}
	b.WriteByte('\n')
	io.WriteString(l.out, b.String())
}

func formatValue(v any) string {
	s := fmt.Sprint(v)
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}

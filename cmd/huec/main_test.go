package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"huec"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

const lightsSource = `
add(a: int, b: int) -> int {
	return a + b;
}
level = add(1, 2);
if (level > 2) {
	turn_on();
}
`

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lights.hue")
	writeFile(t, path, lightsSource)

	code, stdout, stderr := runCLI(t, "check", path)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr=%q)", code, stderr)
	}
	if strings.TrimSpace(stdout) != "ok" {
		t.Fatalf("expected ok, got %q", stdout)
	}
	if stderr != "" {
		t.Fatalf("expected empty stderr, got %q", stderr)
	}
}

func TestCheckCommandReportsKindAndCode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.hue")
	writeFile(t, path, `
a = 2;
a = "hi";
`)

	code, _, stderr := runCLI(t, "check", path)
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	for _, want := range []string{"ERROR", "E3001", "TypeMismatch", "2:1"} {
		if !strings.Contains(stderr, want) {
			t.Fatalf("expected stderr to contain %q, got %q", want, stderr)
		}
	}
}

func TestCheckCommandRequiresOneFile(t *testing.T) {
	code, _, stderr := runCLI(t, "check")
	if code != 1 || !strings.Contains(stderr, "expected exactly one file argument") {
		t.Fatalf("unexpected result code=%d stderr=%q", code, stderr)
	}
}

func TestVerboseLogsProgress(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lights.hue")
	writeFile(t, path, lightsSource)

	code, _, stderr := runCLI(t, "--verbose", "check", path)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr=%q)", code, stderr)
	}
	if !strings.Contains(stderr, "INFO  checked file=") || !strings.Contains(stderr, "statements=3") {
		t.Fatalf("expected progress log, got %q", stderr)
	}
}

func TestBuildSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lights.hue")
	writeFile(t, path, lightsSource)

	code, _, stderr := runCLI(t, "build", path)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr=%q)", code, stderr)
	}
	want := strings.Join([]string{
		"// Code generated by huec from lights.hue. DO NOT EDIT.",
		"",
		"void add() {",
		"\treturn (a + b);",
		"}",
		"level = add();",
		"if ((level > 2)) {",
		"\tturn_on();",
		"}",
		"",
	}, "\n")
	if got := readFile(t, filepath.Join(dir, "lights.c")); got != want {
		t.Fatalf("generated code mismatch:\n--- want\n%s\n--- got\n%s", want, got)
	}
}

func TestBuildSingleFileOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "src", "porch.hue")
	writeFile(t, path, `
int = 1;
f { print(); }
`)
	out := filepath.Join(dir, "gen")

	code, _, stderr := runCLI(t, "build", "-o", out, "--no-header", "--mangle", path)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr=%q)", code, stderr)
	}
	if got, want := readFile(t, filepath.Join(out, "porch.c")), "_int = 1;\nvoid f() {\n\tprint();\n}\n"; got != want {
		t.Fatalf("generated code mismatch: got %q want %q", got, want)
	}
	if !strings.Contains(stderr, "WARN") || !strings.Contains(stderr, `renamed identifier "int"`) {
		t.Fatalf("expected rename warning, got %q", stderr)
	}
}

func TestBuildManifestTargets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "hue.yml"), `
name: house
output: build
indent: 2
header: false
targets:
  lights:
    entry: src/lights.hue
  porch:
    entry: src/porch.yml
    output: porch_out.c
`)
	writeFile(t, filepath.Join(dir, "src", "lights.hue"), lightsSource)
	writeFile(t, filepath.Join(dir, "src", "porch.yml"), `
type: Program
body:
  - type: KeywordCall
    keyword: turn_off
`)

	code, _, stderr := runCLI(t, "build", "--manifest", filepath.Join(dir, "hue.yml"))
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr=%q)", code, stderr)
	}
	lights := readFile(t, filepath.Join(dir, "build", "lights.c"))
	if !strings.HasPrefix(lights, "void add() {\n  return (a + b);\n}\n") {
		t.Fatalf("unexpected lights output %q", lights)
	}
	if got := readFile(t, filepath.Join(dir, "build", "porch_out.c")); got != "turn_off();\n" {
		t.Fatalf("unexpected porch output %q", got)
	}
}

func TestBuildManifestSingleTargetAndFailures(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "hue.toml")
	writeFile(t, manifest, `
output = "out"

[targets.good]
entry = "good.hue"

[targets.bad]
entry = "bad.hue"
`)
	writeFile(t, filepath.Join(dir, "good.hue"), "turn_on();")
	writeFile(t, filepath.Join(dir, "bad.hue"), "blink = missing;")

	code, _, stderr := runCLI(t, "build", "--manifest", manifest, "--target", "good")
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr=%q)", code, stderr)
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "good.c")); err != nil {
		t.Fatalf("expected good.c: %v", err)
	}

	code, _, stderr = runCLI(t, "build", "--manifest", manifest)
	if code != 1 || !strings.Contains(stderr, "UndefinedReference") {
		t.Fatalf("expected undefined reference failure, got code=%d stderr=%q", code, stderr)
	}

	code, _, stderr = runCLI(t, "build", "--manifest", manifest, "--target", "attic")
	if code != 1 || !strings.Contains(stderr, `unknown target "attic"`) {
		t.Fatalf("expected unknown target failure, got code=%d stderr=%q", code, stderr)
	}
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.hue")
	writeFile(t, path, "a = 1 + 2;")

	code, stdout, stderr := runCLI(t, "parse", path)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr=%q)", code, stderr)
	}
	if !strings.HasPrefix(stdout, "type: Program\n") || !strings.Contains(stdout, "type: BinaryExpression") {
		t.Fatalf("unexpected yaml output %q", stdout)
	}

	code, stdout, _ = runCLI(t, "parse", "--format", "json", path)
	if code != 0 || !strings.Contains(stdout, `"type": "Assignment"`) {
		t.Fatalf("unexpected json output code=%d %q", code, stdout)
	}

	code, stdout, _ = runCLI(t, "parse", "--dump", path)
	if code != 0 || !strings.Contains(stdout, "ast.Program") || !strings.Contains(stdout, "ast.IntegerLiteral") {
		t.Fatalf("unexpected dump output code=%d %q", code, stdout)
	}

	code, _, stderr = runCLI(t, "parse", "--format", "xml", path)
	if code != 1 || !strings.Contains(stderr, "unknown format") {
		t.Fatalf("expected format failure, got code=%d stderr=%q", code, stderr)
	}
}

func TestSymbolsCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lights.hue")
	writeFile(t, path, lightsSource)

	code, stdout, stderr := runCLI(t, "symbols", path)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr=%q)", code, stderr)
	}
	for _, want := range []string{"KIND", "function", "add", "(int, int) -> int", "variable", "level"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("expected table to contain %q, got:\n%s", want, stdout)
		}
	}
	if strings.Index(stdout, "add") > strings.Index(stdout, "level") {
		t.Fatalf("expected functions before variables:\n%s", stdout)
	}
}

func TestVersionCommand(t *testing.T) {
	code, stdout, _ := runCLI(t, "version")
	if code != 0 || strings.TrimSpace(stdout) != "huec "+cliToolVersion {
		t.Fatalf("unexpected version output code=%d %q", code, stdout)
	}
}

func TestLoggerFormatsContext(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf)
	log.Info("hidden")
	log.Warn("careful", "path", "a b.hue", "count", 2, "dangling")
	log.SetVerbose(true)
	log.Info("shown")
	want := "WARN  careful path=\"a b.hue\" count=2 dangling=<nil>\nINFO  shown\n"
	if buf.String() != want {
		t.Fatalf("unexpected log output %q, want %q", buf.String(), want)
	}
}

package compiler

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"easyhue/compiler-go/pkg/ast"
	"easyhue/compiler-go/pkg/driver"
	"easyhue/compiler-go/pkg/parser"
	"easyhue/compiler-go/pkg/typechecker"
)

func mustGenerate(t *testing.T, program *ast.Program) string {
	t.Helper()
	out, err := GenerateCode(program)
	if err != nil {
		t.Fatalf("GenerateCode returned error: %v", err)
	}
	return out
}

func assertOutput(t *testing.T, got, want string) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("generated code mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateAssignments(t *testing.T) {
	program := ast.Prog(
		ast.Assign("a", ast.Int(2)),
		ast.Assign("b", ast.Bin(ast.OpAdd, ast.ID("a"), ast.Int(3))),
	)
	assertOutput(t, mustGenerate(t, program), "a = 2;\nb = (a + 3);\n")
}

func TestGenerateFullyParenthesizesBinaryExpressions(t *testing.T) {
	cases := []struct {
		name string
		expr ast.Expression
		want string
	}{
		{
			name: "precedence from tree shape",
			expr: ast.Bin(ast.OpAdd, ast.Int(1), ast.Bin(ast.OpMul, ast.Int(2), ast.Int(3))),
			want: "(1 + (2 * 3))",
		},
		{
			name: "grouping is carried by the tree",
			expr: ast.Bin(ast.OpMul, ast.Paren(ast.Bin(ast.OpAdd, ast.Int(1), ast.Int(2))), ast.Int(3)),
			want: "((1 + 2) * 3)",
		},
		{
			name: "redundant grouping collapses",
			expr: ast.Paren(ast.Paren(ast.ID("x"))),
			want: "x",
		},
		{
			name: "comparison of arithmetic",
			expr: ast.Bin(ast.OpGe, ast.Bin(ast.OpSub, ast.ID("a"), ast.Int(1)), ast.Bin(ast.OpDiv, ast.ID("b"), ast.Int(2))),
			want: "((a - 1) >= (b / 2))",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mustGenerate(t, ast.Prog(ast.Assign("v", tc.expr)))
			assertOutput(t, got, "v = "+tc.want+";\n")
		})
	}
}

func TestGenerateDeepBinaryChains(t *testing.T) {
	const depth = 50
	ops := ast.BinaryOperators
	shapes := map[string]func(i int, acc ast.Expression) ast.Expression{
		"left leaning": func(i int, acc ast.Expression) ast.Expression {
			return ast.Bin(ops[i%len(ops)], acc, ast.Int(int64(i)))
		},
		"right leaning": func(i int, acc ast.Expression) ast.Expression {
			return ast.Bin(ops[i%len(ops)], ast.Int(int64(i)), acc)
		},
		"grouped operands": func(i int, acc ast.Expression) ast.Expression {
			return ast.Bin(ops[(i*3)%len(ops)], ast.Paren(acc), ast.Paren(ast.ID("x")))
		},
	}
	for name, grow := range shapes {
		t.Run(name, func(t *testing.T) {
			var expr ast.Expression = ast.ID("seed")
			for i := 0; i < depth; i++ {
				expr = grow(i, expr)
			}
			got := mustGenerate(t, ast.Prog(ast.Assign("v", expr)))
			rendered := strings.TrimSuffix(strings.TrimPrefix(got, "v = "), ";\n")

			if n := strings.Count(rendered, "("); n != depth {
				t.Fatalf("expected %d opening parentheses, got %d in %q", depth, n, rendered)
			}
			open := 0
			for i, r := range rendered {
				switch r {
				case '(':
					open++
				case ')':
					open--
				}
				if open < 0 || (open == 0 && i < len(rendered)-1) {
					t.Fatalf("parentheses close early at offset %d in %q", i, rendered)
				}
			}
			if open != 0 {
				t.Fatalf("unbalanced parentheses in %q", rendered)
			}

			reparsed, err := parser.ParseExpression([]byte(rendered))
			if err != nil {
				t.Fatalf("ParseExpression(%q) returned error: %v", rendered, err)
			}
			assertOutput(t, mustGenerate(t, ast.Prog(ast.Assign("v", reparsed))), got)
		})
	}
}

func TestGenerateRendersEveryOperator(t *testing.T) {
	for _, op := range ast.BinaryOperators {
		got := mustGenerate(t, ast.Prog(ast.Assign("v", ast.Bin(op, ast.ID("l"), ast.ID("r")))))
		assertOutput(t, got, "v = (l "+op.String()+" r);\n")
	}
}

func TestGenerateLiteralsVerbatim(t *testing.T) {
	program := ast.Prog(
		ast.Assign("s", ast.Str(`Hello \"World\"\n`)),
		ast.Assign("n", ast.Int(-42)),
	)
	assertOutput(t, mustGenerate(t, program), "s = \"Hello \\\"World\\\"\\n\";\nn = -42;\n")
}

func TestGenerateFunctionsAndCalls(t *testing.T) {
	program := ast.Prog(
		ast.Fn("add",
			[]*ast.Parameter{ast.Param("a", "int"), ast.Param("b", "int")},
			"int",
			ast.Blk(ast.Ret(ast.Bin(ast.OpAdd, ast.ID("a"), ast.ID("b")))),
		),
		ast.Fn("blink", nil, "", ast.Blk(
			ast.Keyword("turn_on"),
			ast.Keyword("turn_off"),
			ast.Ret(nil),
		)),
		ast.Call("blink"),
		ast.Call("add", ast.Int(1), ast.Int(2)),
		ast.Assign("total", ast.Bin(ast.OpMul, ast.Call("add", ast.Int(1), ast.Int(2)), ast.Int(2))),
	)
	want := strings.Join([]string{
		"void add() {",
		"\treturn (a + b);",
		"}",
		"void blink() {",
		"\tturn_on();",
		"\tturn_off();",
		"\treturn;",
		"}",
		"blink();",
		"add();",
		"total = (add() * 2);",
		"",
	}, "\n")
	assertOutput(t, mustGenerate(t, program), want)
}

func TestGenerateControlFlow(t *testing.T) {
	program := ast.Prog(
		ast.Assign("i", ast.Int(0)),
		ast.While(ast.Bin(ast.OpLt, ast.ID("i"), ast.Int(3)), ast.Blk(
			ast.IfElse(ast.Bin(ast.OpEq, ast.ID("i"), ast.Int(1)),
				ast.Blk(ast.Keyword("turn_on")),
				ast.Blk(ast.Keyword("turn_off")),
			),
			ast.Assign("i", ast.Bin(ast.OpAdd, ast.ID("i"), ast.Int(1))),
		)),
		ast.If(ast.Bin(ast.OpNeq, ast.ID("i"), ast.Int(0)), ast.Blk()),
	)
	want := strings.Join([]string{
		"i = 0;",
		"while ((i < 3)) {",
		"\tif ((i == 1)) {",
		"\t\tturn_on();",
		"\t} else {",
		"\t\tturn_off();",
		"\t}",
		"\ti = (i + 1);",
		"}",
		"if ((i != 0)) {",
		"}",
		"",
	}, "\n")
	assertOutput(t, mustGenerate(t, program), want)
}

func TestGenerateEmptyProgram(t *testing.T) {
	assertOutput(t, mustGenerate(t, ast.Prog()), "")
}

func TestGenerateUsesIndentOption(t *testing.T) {
	c := New(Options{Indent: "  "})
	out, err := c.Generate(ast.Prog(ast.Fn("f", nil, "", ast.Blk(ast.Keyword("print")))))
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	assertOutput(t, out, "void f() {\n  print();\n}\n")
}

func TestGenerateRejectsMalformedTrees(t *testing.T) {
	var nilAssign *ast.Assignment
	cases := []struct {
		name    string
		program *ast.Program
		msg     string
	}{
		{"nil program", nil, "nil program"},
		{"typed nil statement", ast.Prog(nilAssign), "nil statement"},
		{"missing value", ast.Prog(ast.NewAssignment(ast.ID("a"), nil)), "Assignment is missing an expression"},
		{"missing target", ast.Prog(ast.NewAssignment(nil, ast.Int(1))), "Assignment is missing its name"},
		{"missing block", ast.Prog(ast.NewWhileStatement(ast.ID("c"), nil)), "WhileStatement is missing its block"},
		{"missing function body", ast.Prog(ast.Fn("f", nil, "", nil)), "FunctionDefinition is missing its block"},
		{"bad operator", ast.Prog(ast.Assign("a", ast.Bin(ast.BinaryOperator("%"), ast.Int(1), ast.Int(2)))), `unsupported binary operator "%"`},
		{"empty keyword", ast.Prog(ast.Keyword("")), "missing its keyword"},
		{"nested failure", ast.Prog(ast.If(ast.ID("c"), ast.Blk(ast.NewReturnStatement(ast.Paren(nil))))), "ParenthesizedExpression is missing an expression"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := GenerateCode(tc.program)
			if err == nil {
				t.Fatalf("expected error, got output %q", out)
			}
			var genErr *Error
			if !errors.As(err, &genErr) {
				t.Fatalf("expected *compiler.Error, got %T", err)
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Fatalf("expected error containing %q, got %q", tc.msg, err.Error())
			}
		})
	}
}

func TestGenerateRejectsUnemittableStrings(t *testing.T) {
	cases := []struct {
		name  string
		value string
		msg   string
	}{
		{"raw quote", `say "hi"`, "unescaped double quote"},
		{"line feed", "two\nlines", "line break"},
		{"carriage return", "a\rb", "line break"},
		{"escaped line break", "a\\\nb", "line break"},
		{"trailing backslash", `dir\`, "trailing backslash"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := GenerateCode(ast.Prog(ast.Assign("s", ast.Str(tc.value))))
			var genErr *Error
			if !errors.As(err, &genErr) {
				t.Fatalf("expected *compiler.Error, got %v with output %q", err, out)
			}
			if !strings.Contains(genErr.Message, tc.msg) {
				t.Fatalf("expected message containing %q, got %q", tc.msg, genErr.Message)
			}
		})
	}

	// Escapes already in the body are fine.
	got := mustGenerate(t, ast.Prog(ast.Assign("s", ast.Str(`tab\t quote\" slash\\`))))
	assertOutput(t, got, "s = \"tab\\t quote\\\" slash\\\\\";\n")
}

func TestGenerateRejectsDecodedRawStrings(t *testing.T) {
	doc := `{"type":"Program","body":[{"type":"Assignment","target":"s",` +
		`"value":{"type":"StringLiteral","value":"say \"hi\"\nbye"}}]}`
	program, err := driver.DecodeDocument([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeDocument returned error: %v", err)
	}
	if err := typechecker.CheckTypes(program); err != nil {
		t.Fatalf("CheckTypes returned error: %v", err)
	}
	out, err := GenerateCode(program)
	if err == nil {
		t.Fatalf("expected an error, got output %q", out)
	}
	if !strings.Contains(err.Error(), "cannot be emitted") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestGenerateErrorCarriesPosition(t *testing.T) {
	assign := ast.NewAssignment(ast.ID("a"), nil)
	ast.SetSpan(assign, ast.SpanBetween(ast.Position{Line: 3, Column: 7}, ast.Position{Line: 3, Column: 9}))
	_, err := GenerateCode(ast.Prog(assign))
	if err == nil || !strings.HasPrefix(err.Error(), "compiler: 3:7: ") {
		t.Fatalf("expected positioned error, got %v", err)
	}
}

func TestGenerateDoesNotValidate(t *testing.T) {
	// Ill-typed but well-formed trees are rendered as written.
	program := ast.Prog(
		ast.Assign("a", ast.Str("hi")),
		ast.Assign("b", ast.Bin(ast.OpAdd, ast.ID("a"), ast.ID("undefined"))),
		ast.Keyword("blink"),
	)
	assertOutput(t, mustGenerate(t, program), "a = \"hi\";\nb = (a + undefined);\nblink();\n")
}

func TestMangleReservedNames(t *testing.T) {
	c := New(Options{MangleReserved: true})
	program := ast.Prog(
		ast.Assign("int", ast.Int(1)),
		ast.Assign("a-b", ast.Int(2)),
		ast.Assign("a_b", ast.ID("a-b")),
		ast.Assign("lamp", ast.ID("int")),
	)
	result, err := c.Compile(&driver.Program{Path: "main.hue", AST: program})
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	want := "_int = 1;\na_b = 2;\na_b_1 = a_b;\nlamp = _int;\n"
	assertOutput(t, string(result.Files["out.c"]), want)
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], `"int"`) {
		t.Fatalf("expected rename warnings, got %v", result.Warnings)
	}
}

func TestCompileHeaderAndWrite(t *testing.T) {
	c := New(Options{Header: true, Revision: "0123456789abcdef", OutputName: "lights.c"})
	program := &driver.Program{
		Path: filepath.Join("rooms", "lights.hue"),
		AST:  ast.Prog(ast.Keyword("turn_on")),
	}
	result, err := c.Compile(program)
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	want := strings.Join([]string{
		"// Code generated by huec from lights.hue. DO NOT EDIT.",
		"// source revision: 0123456789abcdef",
		"",
		"turn_on();",
		"",
	}, "\n")
	assertOutput(t, string(result.Files["lights.c"]), want)

	dir := filepath.Join(t.TempDir(), "out")
	if err := result.Write(dir); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "lights.c"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	assertOutput(t, string(data), want)
}

func TestCompileErrors(t *testing.T) {
	c := New(Options{})
	if _, err := c.Compile(nil); err == nil {
		t.Fatalf("expected error for nil program")
	}
	if _, err := c.Compile(&driver.Program{Path: "x.hue"}); err == nil {
		t.Fatalf("expected error for missing AST")
	}
	var result *Result
	if err := result.Write(t.TempDir()); err == nil {
		t.Fatalf("expected error for nil result")
	}
	bad := &Result{Files: map[string][]byte{"../escape.c": nil}}
	if err := bad.Write(t.TempDir()); err == nil {
		t.Fatalf("expected error for nested output name")
	}
	if err := (&Result{}).Write(""); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}

func TestGenerateConcurrentCallsAreIndependent(t *testing.T) {
	program := ast.Prog(
		ast.Fn("f", nil, "", ast.Blk(ast.Assign("x", ast.Bin(ast.OpMul, ast.Int(2), ast.Int(3))))),
		ast.Call("f"),
	)
	want := mustGenerate(t, program)

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := GenerateCode(program)
			if err != nil || out != want {
				errs <- out
			}
		}()
	}
	wg.Wait()
	close(errs)
	for out := range errs {
		t.Fatalf("concurrent generation diverged: %q", out)
	}
}

func TestPipelineFromSource(t *testing.T) {
	src := `
intexample = 2;
stringexample = "Hello World";
lights(level: int) -> int {
	if (level > 3) {
		turn_on();
	} else {
		turn_off();
	}
	return level * 2;
}
x = lights(intexample) + 1;
`
	program, err := parser.ParseProgram([]byte(src))
	if err != nil {
		t.Fatalf("ParseProgram returned error: %v", err)
	}
	if err := typechecker.CheckTypes(program); err != nil {
		t.Fatalf("CheckTypes returned error: %v", err)
	}
	want := strings.Join([]string{
		"intexample = 2;",
		`stringexample = "Hello World";`,
		"void lights() {",
		"\tif ((level > 3)) {",
		"\t\tturn_on();",
		"\t} else {",
		"\t\tturn_off();",
		"\t}",
		"\treturn (level * 2);",
		"}",
		"x = (lights() + 1);",
		"",
	}, "\n")
	assertOutput(t, mustGenerate(t, program), want)
}

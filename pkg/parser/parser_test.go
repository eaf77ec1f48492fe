package parser_test

import (
	"testing"

	"quill/pkg/ast"
	"quill/pkg/diag"
	"quill/pkg/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrograms(t *testing.T) {
	tests := []struct {
		input       string
		expected    string
		description string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))", "multiplication binds tighter"},
		{"(1 + 2) * 3", "((1 + 2) * 3)", "parentheses group"},
		{"1 - 2 - 3", "((1 - 2) - 3)", "left associative minus"},
		{"8 / 4 / 2", "((8 / 4) / 2)", "left associative division"},
		{"-x * 2", "((-x) * 2)", "unary minus on a factor"},
		{"+-1", "(+(-1))", "nested unary"},
		{"1.50", "1.5", "number literal"},
		{"a = 1 + 2", "a = (1 + 2)", "assignment"},
		{"a = b = 3", "a = b = 3", "chained assignment"},
		{`console.log(1, 'x')`, `console.log(1, "x")`, "member call"},
		{"f(1)(2)", "f(1)(2)", "call chain"},
		{"a.b.c", "a.b.c", "member chain"},
		{"f().length", "f().length", "member after call"},
		{"var a = 1, b", "var a = 1, b", "multiple declarators"},
		{"let f = function(x) { return x }", "let f = function(x) { return x }", "function expression"},
		{"var g = function fact(n) { return n }", "var g = function fact(n) { return n }", "named function expression"},
		{"function f() {}", "function f() {}", "empty function"},
		{"{ let a = 1; a }", "{ let a = 1; a }", "block"},
		{"true; null; undefined; 'hi'", "true\nnull\nundefined\n\"hi\"", "literals"},
		{"a; b\nc", "a\nb\nc", "separators"},
		{"function f() {} f()", "function f() {}\nf()", "no separator after a function declaration"},
		{"{} 1", "{}\n1", "no separator after a block"},
		{"f(\n1,\n2\n)", "f(1, 2)", "arguments across lines"},
		{"function add(\na,\nb\n) {\nreturn a + b\n}", "function add(a, b) { return (a + b) }", "parameters across lines"},
		{"function f() { return }", "function f() { return }", "bare return"},
		{"function f() { { return 1 } }", "function f() { { return 1 } }", "return in nested block"},
		{"", "", "empty program"},
		{"\n\n;;\n", "", "only separators"},
	}

	for _, test := range tests {
		prog, err := parser.ParseString(test.input)
		if err != nil {
			t.Errorf("Input %q (%s): unexpected error %v", test.input, test.description, err)
			continue
		}
		if got := prog.String(); got != test.expected {
			t.Errorf("Input %q (%s): expected %q, got %q", test.input, test.description, test.expected, got)
		}
	}
}

func TestParseNodeShapes(t *testing.T) {
	prog, err := parser.ParseString("const c = 1\nfunction f(a, b) { return a }\nf(c)")
	require.NoError(t, err)
	require.Len(t, prog.Body, 3)

	decl, ok := prog.Body[0].(*ast.VariableDeclaration)
	require.True(t, ok, "expected VariableDeclaration, got %T", prog.Body[0])
	assert.Equal(t, ast.Const, decl.Kind)
	require.Len(t, decl.Declarations, 1)
	assert.Equal(t, "c", decl.Declarations[0].ID.Name)

	fn, ok := prog.Body[1].(*ast.FunctionDeclaration)
	require.True(t, ok, "expected FunctionDeclaration, got %T", prog.Body[1])
	assert.Equal(t, "f", fn.Name.Name)
	assert.Len(t, fn.Params, 2)
	assert.Equal(t, 2, fn.Pos().Line)

	call, ok := prog.Body[2].(*ast.CallExpression)
	require.True(t, ok, "expected CallExpression, got %T", prog.Body[2])
	assert.Equal(t, "f", call.Callee.String())
	assert.Len(t, call.Arguments, 1)
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		input   string
		message string
		line    int
		column  int
	}{
		{"const c\n", "SyntaxError: Expected token [ASSIGN], but got [NEWLINE] (missing initializer)", 1, 8},
		{"return 1", "SyntaxError: Illegal return statement", 1, 1},
		{"{ return 1 }", "SyntaxError: Illegal return statement", 1, 3},
		{"1 2", "SyntaxError: Expected token [NEWLINE], but got [NUM] (statements must be separated by a newline or ';')", 1, 3},
		{"let = 5", "SyntaxError: Expected token [ID], but got [ASSIGN] (missing identifier)", 1, 5},
		{"let var = 1", "SyntaxError: Expected token [ID], but got [VAR] (cannot use reserved keyword as identifier)", 1, 5},
		{"* 3", "SyntaxError: Invalid syntax, unexpected [MUL] '*'", 1, 1},
		{"f(1 2)", "SyntaxError: Expected token [RPAREN], but got [NUM] (missing closing parenthesis)", 1, 5},
		{"function f(a) return a", "SyntaxError: Expected token [LBRACE], but got [RETURN] (missing opening brace)", 1, 15},
		{"1 = 2", "SyntaxError: Expected token [NEWLINE], but got [ASSIGN] (statements must be separated by a newline or ';')", 1, 3},
	}

	for _, test := range tests {
		_, err := parser.ParseString(test.input)
		if err == nil {
			t.Errorf("Input %q: expected error", test.input)
			continue
		}
		if !diag.Is(err, diag.Syntax) {
			t.Errorf("Input %q: expected SyntaxError, got %v", test.input, err)
		}
		if err.Error() != test.message {
			t.Errorf("Input %q: expected %q, got %q", test.input, test.message, err.Error())
		}
		if parser.IsIncomplete(err) {
			t.Errorf("Input %q: error should not be reported as incomplete input", test.input)
		}
		d, ok := err.(*diag.Error)
		if !ok {
			t.Errorf("Input %q: expected *diag.Error, got %T", test.input, err)
			continue
		}
		if d.Line != test.line || d.Column != test.column {
			t.Errorf("Input %q: expected %d:%d, got %d:%d", test.input, test.line, test.column, d.Line, d.Column)
		}
	}
}

func TestIncompleteInput(t *testing.T) {
	inputs := []string{
		"(1 + 2",
		"1 +",
		"function f() {",
		"function f(a,",
		"f(1,",
		"let x =",
		"const c",
		"{\n let a = 1\n",
		"console.",
	}

	for _, input := range inputs {
		_, err := parser.ParseString(input)
		if err == nil {
			t.Errorf("Input %q: expected error", input)
			continue
		}
		if !parser.IsIncomplete(err) {
			t.Errorf("Input %q: expected incomplete input, got %v", input, err)
		}
		if !diag.Is(err, diag.Syntax) {
			t.Errorf("Input %q: expected SyntaxError, got %v", input, err)
		}
	}
}

func TestLexicalErrorsPassThrough(t *testing.T) {
	_, err := parser.ParseString("let x = 1.2.3")
	require.Error(t, err)
	assert.True(t, diag.Is(err, diag.Lexical), "expected LexicalError, got %v", err)
	assert.False(t, parser.IsIncomplete(err))
}

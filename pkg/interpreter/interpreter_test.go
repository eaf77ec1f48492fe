package interpreter_test

import (
	"bytes"
	"testing"

	"quill/pkg/diag"
	"quill/pkg/interpreter"
	"quill/pkg/scope"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// render turns results into their inspected form so they can be diffed as strings
func render(values []interpreter.Value) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.Inspect()
	}
	return out
}

func run(t *testing.T, src string, opts ...interpreter.Option) ([]string, error) {
	t.Helper()
	it := interpreter.NewInterpreter(append([]interpreter.Option{interpreter.WithWriter(&bytes.Buffer{})}, opts...)...)
	values, err := it.Interpret(src)
	return render(values), err
}

func TestInterpretResults(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected []string
	}{
		{"let then assign", "let x = 1\nx = 2\nx\n", []string{"undefined", "2", "2"}},
		{"precedence", "1 + 2 * 3", []string{"7"}},
		{"grouping", "(1 + 2) * 3", []string{"9"}},
		{"unary minus", "-(2 - 5)", []string{"3"}},
		{"division", "7 / 2", []string{"3.5"}},
		{"function call", "function add(a, b) { return a + b }\nadd(2, 3)", []string{"undefined", "5"}},
		{"missing argument", "function add(a, b) { return a + b }\nadd(2)", []string{"undefined", "NaN"}},
		{"extra arguments are ignored", "function one(a) { return a }\none(1, 2, 3)", []string{"undefined", "1"}},
		{"var redeclaration", "var v = 1\nvar v = 2\nv", []string{"undefined", "undefined", "2"}},
		{"function without return", "function f() { 1 + 1 }\nf()", []string{"undefined", "undefined"}},
		{"bare return", "function f() { return }\nf()", []string{"undefined", "undefined"}},
		{"return stops the body", "function f() { return 1\n2 }\nf()", []string{"undefined", "1"}},
		{"return from nested block", "function f() { { return 3 } return 4 }\nf()", []string{"undefined", "3"}},
		{"var hoisting out of a block", "function f() { { var v = 1 } return v }\nf()", []string{"undefined", "1"}},
		{"block contributes undefined", "{ 1 }", []string{"undefined"}},
		{"block sees outer bindings", "let a = 1\n{ a = a + 1 }\na", []string{"undefined", "undefined", "2"}},
		{"block let shadows", "let s = 1\n{ let s = 2 }\ns", []string{"undefined", "undefined", "1"}},
		{"assignment is an expression", "var a\nvar b\na = b = 4\na + b", []string{"undefined", "undefined", "4", "8"}},
		{"auto global", "function f() { g = 5 }\nf()\ng", []string{"undefined", "undefined", "5"}},
		{"closure sees later updates", "var k = 1\nfunction get() { return k }\nk = 2\nget()", []string{"undefined", "undefined", "2", "2"}},
		{
			"counter closure",
			"function makeCounter() { var n = 0\nreturn function() { n = n + 1\nreturn n } }\nvar c = makeCounter()\nc()\nc()\nc()",
			[]string{"undefined", "undefined", "1", "2", "3"},
		},
		{
			"fresh frame per call",
			"var mk = function(x) { var y = x\nreturn function() { return y } }\nvar a = mk(1)\nvar b = mk(2)\na()\nb()",
			[]string{"undefined", "undefined", "undefined", "1", "2"},
		},
		{"named function expression", "var fact = function me() { return me }\nfact().name", []string{"undefined", `"me"`}},
		{"function value", "function add(a, b) { return a + b }\nadd", []string{"undefined", "[Function: add]"}},
		{"anonymous function value", "var anon = function() {}\nanon", []string{"undefined", "[Function (anonymous)]"}},
		{"function properties", "function add(a, b) {}\nadd.name\nadd.length", []string{"undefined", `"add"`, "2"}},
		{"string length", "var s = 'héllo'\ns.length", []string{"undefined", "5"}},
		{"missing property", "var s = 'x'\ns.foo", []string{"undefined", "undefined"}},
		{"console object", "console", []string{"{ log: [Function: log] }"}},
		{"builtin properties", "console.log.name\nconsole.missing", []string{`"log"`, "undefined"}},
		{"literals", "true\nnull\nundefined\n'q'", []string{"true", "null", "undefined", `"q"`}},
		{"calling a returned function", "function outer() { return function(a) { return a * 2 } }\nouter()(21)", []string{"undefined", "42"}},
		{"declarations in one statement", "let a = 1, b = a + 1\nb", []string{"undefined", "2"}},
		{"const binding", "const c = 3\nc * c", []string{"undefined", "9"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := run(t, test.src)
			require.NoError(t, err)
			if diff := cmp.Diff(test.expected, got); diff != "" {
				t.Errorf("results mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCoercion(t *testing.T) {
	tests := []struct {
		src      string
		expected string
	}{
		{"1 + '2'", `"12"`},
		{"'a' + 1 + 2", `"a12"`},
		{"1 + 2 + 'a'", `"3a"`},
		{"'3' * '4'", "12"},
		{"true + 1", "2"},
		{"null + 1", "1"},
		{"undefined + 1", "NaN"},
		{"'x' + null", `"xnull"`},
		{"'' + undefined", `"undefined"`},
		{"'a' - 1", "NaN"},
		{"' 12 ' * 2", "24"},
		{"'' - 1", "-1"},
		{"1 / 0", "Infinity"},
		{"-1 / 0", "-Infinity"},
		{"0 / 0", "NaN"},
		{"0.1 + 0.2", "0.30000000000000004"},
		{"1 / 3", "0.3333333333333333"},
		{"0.000001 / 10", "1e-7"},
		{"100000000000 * 100000000000", "1e+22"},
		{"-'5'", "-5"},
		{"+true", "1"},
		{"function f() {}\n'' + f", `"function f() {}"`},
		{"'' + console", `"[object Object]"`},
	}

	for _, test := range tests {
		got, err := run(t, test.src)
		if err != nil {
			t.Errorf("Input %q: unexpected error %v", test.src, err)
			continue
		}
		if last := got[len(got)-1]; last != test.expected {
			t.Errorf("Input %q: expected %s, got %s", test.src, test.expected, last)
		}
	}
}

func TestInterpretErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		kind    diag.Kind
		message string
		line    int
		column  int
	}{
		{"unbound identifier", "x", diag.Reference, "ReferenceError: x is not defined", 1, 1},
		{"unbound in assignment value", "let x = 1\nx = y", diag.Reference, "ReferenceError: y is not defined", 2, 5},
		{"const reassignment", "const c = 1\nc = 2", diag.Type, "TypeError: Assignment to constant variable.", 2, 1},
		{"const without initializer", "const c\n", diag.Syntax, "SyntaxError: Expected token [ASSIGN], but got [NEWLINE] (missing initializer)", 1, 8},
		{"let redeclaration", "let a = 1\nlet a = 2", diag.Declaration, "DeclarationError: Identifier 'a' has already been declared", 2, 5},
		{"var over let", "let a = 1\nvar a = 2", diag.Declaration, "DeclarationError: Identifier 'a' has already been declared", 2, 5},
		{"function over const", "const f = 1\nfunction f() {}", diag.Declaration, "DeclarationError: Identifier 'f' has already been declared", 2, 10},
		{"block let is invisible afterwards", "{ let b = 1 }\nb", diag.Reference, "ReferenceError: b is not defined", 2, 1},
		{"function locals do not leak", "function f() { var local = 1 }\nf()\nlocal", diag.Reference, "ReferenceError: local is not defined", 3, 1},
		{"calling a number", "var n = 1\nn()", diag.Type, "TypeError: 1 is not a function", 2, 1},
		{"calling undefined property", "console.warn('x')", diag.Type, "TypeError: undefined is not a function", 1, 1},
		{"property of null", "var o = null\no.x", diag.Type, "TypeError: Cannot read properties of null (reading 'x')", 2, 3},
		{"property of undefined", "let u\nu.y", diag.Type, "TypeError: Cannot read properties of undefined (reading 'y')", 2, 3},
		{"named function expression name is constant", "var f = function me() { me = 1 }\nf()", diag.Type, "TypeError: Assignment to constant variable.", 1, 25},
		{"error inside a call", "function f() { return missing }\nf()", diag.Reference, "ReferenceError: missing is not defined", 1, 23},
		{"top level return", "return 1", diag.Syntax, "SyntaxError: Illegal return statement", 1, 1},
		{"lexical error", "var a = 1 ~ 2", diag.Lexical, "LexicalError: Invalid character '~'", 1, 11},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := run(t, test.src)
			require.Error(t, err)
			assert.True(t, diag.Is(err, test.kind), "expected %s, got %v", test.kind, err)
			assert.Equal(t, test.message, err.Error())

			var d *diag.Error
			require.ErrorAs(t, err, &d)
			assert.Equal(t, test.line, d.Line, "line")
			assert.Equal(t, test.column, d.Column, "column")
		})
	}
}

func TestPartialResults(t *testing.T) {
	it := interpreter.NewInterpreter(interpreter.WithWriter(&bytes.Buffer{}))
	values, err := it.Interpret("var a = 1\na\nb\na = 5")
	require.Error(t, err)
	assert.True(t, diag.Is(err, diag.Reference))
	assert.Equal(t, []string{"undefined", "1"}, render(values))

	// bindings made before the failing statement remain
	b, ok := it.Global().Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "1", b.Value.Inspect())
}

func TestPersistentGlobals(t *testing.T) {
	it := interpreter.NewInterpreter(interpreter.WithWriter(&bytes.Buffer{}))

	_, err := it.Interpret("let x = 1\nfunction inc() { x = x + 1\nreturn x }")
	require.NoError(t, err)

	values, err := it.Interpret("inc()\ninc()")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3"}, render(values))

	_, err = it.Interpret("let x = 9")
	assert.True(t, diag.Is(err, diag.Declaration), "let x survives across calls")

	it.Reset()
	_, err = it.Interpret("x")
	assert.True(t, diag.Is(err, diag.Reference), "Reset discards globals")

	values, err = it.Interpret("console.log.name")
	require.NoError(t, err)
	assert.Equal(t, []string{`"log"`}, render(values), "Reset keeps the host surface")
}

func TestRecoversAfterErrorInCall(t *testing.T) {
	it := interpreter.NewInterpreter(interpreter.WithWriter(&bytes.Buffer{}))

	_, err := it.Interpret("function f() { let inner = 1\nreturn missing }\nf()")
	require.Error(t, err)

	_, err = it.Interpret("var after = 1")
	require.NoError(t, err)

	b, ok := it.Global().Lookup("after")
	require.True(t, ok, "declaration after a failed call must land in the global frame")
	assert.Equal(t, scope.Var, b.Kind)
	assert.NotContains(t, it.Global().Names(), "inner")
	assert.Empty(t, it.StackTrace())
}

func TestConsoleLog(t *testing.T) {
	var out bytes.Buffer
	it := interpreter.NewInterpreter(interpreter.WithWriter(&out))

	values, err := it.Interpret("function f() {}\nconsole.log('a', 1, 'b' + 2, null, f)\nconsole.log()\nvar s = 'x'\nconsole.log(function() {}, s.length)")
	require.NoError(t, err)
	assert.Equal(t, []string{"undefined", "undefined", "undefined", "undefined", "undefined"}, render(values))
	assert.Equal(t, "a 1 b2 null [Function: f]\n\n[Function (anonymous)] 1\n", out.String())
	assert.Same(t, &out, it.Output())
}

func TestMaxCallDepth(t *testing.T) {
	_, err := run(t, "function f() { return f() }\nf()", interpreter.WithMaxCallDepth(50))
	require.Error(t, err)
	assert.True(t, diag.Is(err, diag.Range))
	assert.Equal(t, "RangeError: Maximum call stack size exceeded", err.Error())

	// depth below the limit is fine
	values, err := run(t, "function a() { return b() }\nfunction b() { return 1 }\na()", interpreter.WithMaxCallDepth(2))
	require.NoError(t, err)
	assert.Equal(t, "1", values[len(values)-1])
}

func TestStackTraceInsideBuiltin(t *testing.T) {
	var trace []string
	it := interpreter.NewInterpreter(interpreter.WithWriter(&bytes.Buffer{}))
	interpreter.DefineBuiltin(it, "trace", func(it *interpreter.Interpreter, _ []interpreter.Value) (interpreter.Value, error) {
		trace = it.StackTrace()
		return interpreter.Undefined, nil
	})

	_, err := it.Interpret("function inner() { trace() }\nvar outer = function() { inner() }\nouter()")
	require.NoError(t, err)
	assert.Equal(t, []string{"inner (2:26)", "<anonymous> (3:1)"}, trace)
}

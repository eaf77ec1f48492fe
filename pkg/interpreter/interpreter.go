package interpreter

import (
	"errors"
	"io"
	"os"

	"quill/pkg/ast"
	"quill/pkg/diag"
	"quill/pkg/parser"
	"quill/pkg/parser/stack"
	"quill/pkg/scope"

	"github.com/charmbracelet/log"
)

const DefaultMaxCallDepth = 2048

// Interpreter evaluates programs against a global frame that lives as long as
// the Interpreter itself: bindings made by one Interpret call are visible to
// the next. Reset replaces the global frame. An Interpreter is not safe for
// concurrent use.
type Interpreter struct {
	global  *scope.Frame[Value] // created in NewInterpreter, replaced only by Reset
	current *scope.Frame[Value] // frame of the code being evaluated

	calls *stack.Stack[*Frame] // active function calls

	out      io.Writer   // output writer for console.log
	logger   *log.Logger // debug tracing
	maxDepth int         // maximum nested calls
}

type Option func(*Interpreter)

// WithWriter sets the output writer for console.log
func WithWriter(w io.Writer) Option {
	return func(i *Interpreter) { i.out = w }
}

// WithMaxCallDepth limits nested function calls; exceeding it raises a RangeError
func WithMaxCallDepth(n int) Option {
	return func(i *Interpreter) { i.maxDepth = n }
}

// WithLogger sets the logger used for debug tracing of calls
func WithLogger(l *log.Logger) Option {
	return func(i *Interpreter) { i.logger = l }
}

// NewInterpreter creates a new Interpreter instance with a fresh global frame
func NewInterpreter(opts ...Option) *Interpreter {
	it := &Interpreter{
		calls:    stack.NewStack[*Frame](),
		maxDepth: DefaultMaxCallDepth,
	}

	for _, o := range opts {
		o(it)
	}

	if it.out == nil {
		it.out = os.Stdout
	}
	if it.logger == nil {
		it.logger = log.Default()
	}
	if it.maxDepth <= 0 {
		it.maxDepth = DefaultMaxCallDepth
	}

	it.Reset()
	return it
}

// Reset discards every global binding and installs a fresh global frame
func (i *Interpreter) Reset() {
	i.global = scope.NewGlobal[Value]()
	i.current = i.global
	i.calls.Reset()
	i.installHost()
}

// Global returns the global frame
func (i *Interpreter) Global() *scope.Frame[Value] {
	return i.global
}

// Output returns the output writer used for console.log
func (i *Interpreter) Output() io.Writer {
	return i.out
}

// Interpret parses src and evaluates its top-level statements in order.
// It returns one value per statement; statements that produce no value
// (declarations, blocks) contribute Undefined. Evaluation stops at the
// first error, which is returned with the values of the statements that
// completed before it.
func (i *Interpreter) Interpret(src string) ([]Value, error) {
	prog, err := parser.ParseString(src)
	if err != nil {
		return nil, err
	}
	return i.Run(prog)
}

// Run evaluates an already parsed program, see Interpret
func (i *Interpreter) Run(prog *ast.Program) ([]Value, error) {
	// a previous run that failed inside a call may have left the cursor elsewhere
	i.current = i.global
	i.calls.Reset()

	results := make([]Value, 0, len(prog.Body))
	for _, stmt := range prog.Body {
		c, err := i.eval(stmt)
		if err != nil {
			return results, err
		}
		results = append(results, c.Value)
	}
	return results, nil
}

// eval dispatches n and anchors position-less errors at n
func (i *Interpreter) eval(n ast.Node) (Completion, error) {
	c, err := ast.Visit[Completion](i, n)
	if err != nil {
		var d *diag.Error
		if errors.As(err, &d) && !d.HasPos() {
			pos := n.Pos()
			d.Line, d.Column = pos.Line, pos.Column
		}
		return Completion{}, err
	}
	return c, nil
}

// value evaluates an expression to its value
func (i *Interpreter) value(n ast.Expression) (Value, error) {
	c, err := i.eval(n)
	if err != nil {
		return Undefined, err
	}
	return c.Value, nil
}

// evalStatements runs body in the current frame and stops at the first return signal
func (i *Interpreter) evalStatements(body []ast.Node) (Completion, error) {
	for _, stmt := range body {
		c, err := i.eval(stmt)
		if err != nil {
			return Completion{}, err
		}
		if c.Type == Return {
			return c, nil
		}
	}
	return normal(Undefined), nil
}

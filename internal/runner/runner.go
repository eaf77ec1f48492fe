package runner

import (
	"errors"
	"fmt"
	"io"
	"os"

	"quill/internal/config"
	"quill/pkg/ast"
	"quill/pkg/color"
	"quill/pkg/diag"
	"quill/pkg/interpreter"
	"quill/pkg/parser"

	"github.com/charmbracelet/log"
)

// ErrNoInput is returned when there is neither a source file nor inline source to run
var ErrNoInput = errors.New("no input provided")

// Runner feeds source text into the interpreter and renders what comes back
type Runner struct {
	cfg    config.Config
	out    io.Writer // program output and results
	errOut io.Writer // diagnostics
}

func New(cfg config.Config, out, errOut io.Writer) *Runner {
	return &Runner{cfg: cfg, out: out, errOut: errOut}
}

// RunFile executes the file at path with a fresh interpreter.
func (r *Runner) RunFile(path string) error {
	if path == "" {
		return ErrNoInput
	}
	log.Info("Processing file", "file", path)

	input, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return r.RunSource(string(input))
}

// RunSource executes src with a fresh interpreter. Diagnostics are written to
// the error writer with a caret snippet and also returned.
func (r *Runner) RunSource(src string) error {
	if src == "" {
		return ErrNoInput
	}

	if r.cfg.DumpTokens || r.cfg.Verbose {
		if err := r.dumpTokens(src); err != nil {
			r.report(err, src)
			return err
		}
	}

	prog, err := parser.ParseString(src)
	if err != nil {
		r.report(err, src)
		return err
	}

	if r.cfg.DumpAST || r.cfg.Verbose {
		r.dumpAST(prog)
	}

	return r.run(r.newInterpreter(), prog, src)
}

func (r *Runner) run(it *interpreter.Interpreter, prog *ast.Program, src string) error {
	if r.cfg.Verbose {
		fmt.Fprintln(r.out, color.GreenText("\n=== Program Output ==="))
	}

	results, err := it.Run(prog)

	if r.cfg.Verbose {
		fmt.Fprintln(r.out, color.GreenText("\n=== Results ==="))
		for idx, v := range results {
			if v.Kind == interpreter.KindUndefined {
				continue
			}
			fmt.Fprintf(r.out, "%s: %s %s\n", color.CyanText(fmt.Sprintf("%d", idx)), FormatValue(v), color.GrayText(v.Kind.String()))
		}
	}

	if err != nil {
		r.report(err, src)
		return err
	}
	return nil
}

func (r *Runner) newInterpreter() *interpreter.Interpreter {
	return interpreter.NewInterpreter(
		interpreter.WithWriter(r.out),
		interpreter.WithMaxCallDepth(r.cfg.MaxCallDepth),
		interpreter.WithLogger(log.Default()),
	)
}

// report prints err, with the offending source line when it has a position
func (r *Runner) report(err error, src string) {
	fmt.Fprintln(r.errOut, color.Error(diag.Snippet(err, src)))
}

// FormatValue renders a result value with its kind's color
func FormatValue(v interpreter.Value) string {
	text := v.Inspect()
	switch v.Kind {
	case interpreter.KindNumber:
		return color.YellowText(text)
	case interpreter.KindString:
		return color.GreenText(text)
	case interpreter.KindBool:
		return color.MagentaText(text)
	case interpreter.KindFunction, interpreter.KindBuiltin:
		return color.CyanText(text)
	case interpreter.KindUndefined, interpreter.KindNull:
		return color.GrayText(text)
	default:
		return text
	}
}

package runner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"quill/pkg/color"
	"quill/pkg/interpreter"
	"quill/pkg/parser"

	"github.com/charmbracelet/log"
	"github.com/peterh/liner"
)

const (
	banner         = "quill REPL. Type :quit to exit, :reset to clear globals, :env to list them."
	continuePrompt = "... "
)

// Repl reads statements interactively and evaluates them against one
// persistent interpreter until :quit or end of input.
func (r *Runner) Repl() error {
	fmt.Fprintln(r.out, banner)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := r.historyPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			f, err := os.Create(histPath)
			if err != nil {
				log.Warn("Cannot save history", "file", histPath, "error", err)
				return
			}
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}()
	}

	it := r.newInterpreter()
	for {
		code, ok := readByParseProbe(ln, r.cfg.Prompt, continuePrompt)
		if !ok {
			fmt.Fprintln(r.out)
			return nil
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			if r.command(it, trimmed) {
				return nil
			}
			continue
		}

		r.eval(it, code)
	}
}

// eval runs one REPL entry and prints the value of its last statement
func (r *Runner) eval(it *interpreter.Interpreter, code string) {
	results, err := it.Interpret(code)
	if err != nil {
		r.report(err, code)
		return
	}
	if len(results) > 0 {
		fmt.Fprintln(r.out, FormatValue(results[len(results)-1]))
	}
}

// command handles a REPL command and reports whether the loop should stop
func (r *Runner) command(it *interpreter.Interpreter, cmd string) (exit bool) {
	switch strings.ToLower(cmd) {
	case ":quit", ":q":
		return true
	case ":reset":
		it.Reset()
		fmt.Fprintln(r.out, color.GrayText("global bindings cleared"))
	case ":env":
		r.printEnv(it)
	default:
		fmt.Fprintf(r.out, "unknown command %s. Type :quit to exit.\n", cmd)
	}
	return false
}

func (r *Runner) printEnv(it *interpreter.Interpreter) {
	global := it.Global()
	for _, name := range global.Names() {
		b, ok := global.Lookup(name)
		if !ok {
			continue
		}
		fmt.Fprintf(r.out, "%s %s = %s\n", color.GrayText(b.Kind.String()), color.BoldText(name), FormatValue(b.Value))
	}
}

// historyPath resolves the configured history file; relative paths live in $HOME
func (r *Runner) historyPath() string {
	path := r.cfg.HistoryFile
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, path)
}

// readByParseProbe keeps reading lines while the accumulated source parses
// as incomplete, so unclosed blocks and argument lists continue on the next line.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			// Ctrl-C drops the pending entry
			b.Reset()
			continue
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, perr := parser.ParseString(src); perr != nil && parser.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}

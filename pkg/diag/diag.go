package diag

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	Lexical Kind = iota
	Syntax
	Reference
	Type
	Declaration
	Range
)

// String returns the user-facing name of the error kind
func (k Kind) String() string {
	switch k {
	case Lexical:
		return "LexicalError"
	case Syntax:
		return "SyntaxError"
	case Reference:
		return "ReferenceError"
	case Type:
		return "TypeError"
	case Declaration:
		return "DeclarationError"
	case Range:
		return "RangeError"
	default:
		return fmt.Sprintf("Error(%d)", int(k))
	}
}

// Error is the single error type raised by the lexer, parser, scope chain and interpreter.
type Error struct {
	Kind   Kind
	Msg    string
	Line   int // 1-based; 0 when the error has no source location
	Column int
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Msg
}

// HasPos reports whether the error carries a source location
func (e *Error) HasPos() bool {
	return e.Line > 0
}

// New creates an error without a position
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// At creates an error anchored at line:column
func At(kind Kind, line, column int, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Line: line, Column: column}
}

// Is reports whether err (or anything it wraps) is a diag error of the given kind
func Is(err error, kind Kind) bool {
	var d *Error
	if errors.As(err, &d) {
		return d.Kind == kind
	}
	return false
}

// Snippet renders err together with the offending source line and a caret under the column.
// Errors without a position are returned as their plain message.
func Snippet(err error, src string) string {
	var d *Error
	if !errors.As(err, &d) || !d.HasPos() {
		return err.Error()
	}

	lines := strings.Split(src, "\n")
	line := d.Line
	if line > len(lines) {
		line = len(lines)
	}
	text := strings.TrimRight(lines[line-1], "\r")

	col := d.Column
	if col < 1 {
		col = 1
	}
	if col > len(text)+1 {
		col = len(text) + 1
	}

	gutter := fmt.Sprintf("%4d | ", line)
	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d\n\n", d.Error(), d.Line, d.Column)
	b.WriteString(gutter)
	b.WriteString(text)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", len(gutter)-2))
	b.WriteString("| ")
	b.WriteString(strings.Repeat(" ", col-1))
	b.WriteByte('^')
	return b.String()
}

package interpreter

import (
	"quill/pkg/lexer"
	"quill/pkg/scope"
)

// Frame represents a function call frame.
type Frame struct {
	FuncName string              // function name for this frame, empty when anonymous
	Caller   *scope.Frame[Value] // current scope of the caller, restored on return
	CallPos  lexer.Position      // position of the call expression
}

// StackTrace returns the names of the active calls, innermost first
func (i *Interpreter) StackTrace() []string {
	frames := i.calls.Array()
	trace := make([]string, 0, len(frames))
	for idx := len(frames) - 1; idx >= 0; idx-- {
		name := frames[idx].FuncName
		if name == "" {
			name = "<anonymous>"
		}
		trace = append(trace, name+" ("+frames[idx].CallPos.String()+")")
	}
	return trace
}

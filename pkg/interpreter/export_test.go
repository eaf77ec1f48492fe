package interpreter

import "quill/pkg/scope"

// DefineBuiltin declares a host function in the global frame of it
func DefineBuiltin(it *Interpreter, name string, fn func(*Interpreter, []Value) (Value, error)) {
	_ = it.global.Declare(name, newBuiltin(name, 0, fn), scope.Var)
}

package interpreter

import (
	"fmt"
	"strings"

	"quill/pkg/scope"
)

// installHost declares the fixed host surface in the global frame:
//
//	console.log(...values)
func (i *Interpreter) installHost() {
	console := newObject()
	console.Set("log", newBuiltin("log", 0, builtinLog))

	// the global frame is fresh, so this cannot collide
	_ = i.global.Declare("console", Value{Kind: KindObject, Obj: console}, scope.Var)
}

// builtinLog writes its arguments separated by spaces. Strings are written
// as they are, everything else in inspected form.
func builtinLog(it *Interpreter, args []Value) (Value, error) {
	parts := make([]string, len(args))
	for idx, a := range args {
		if a.Kind == KindString {
			parts[idx] = a.Str
		} else {
			parts[idx] = a.Inspect()
		}
	}
	if _, err := fmt.Fprintln(it.out, strings.Join(parts, " ")); err != nil {
		return Undefined, fmt.Errorf("console.log: %w", err)
	}
	return Undefined, nil
}

// getProperty reads a property of a non-nullish value. Only a few properties
// exist; everything else reads as undefined.
func getProperty(obj Value, name string) Value {
	switch obj.Kind {
	case KindString:
		if name == "length" {
			return newNumber(float64(stringLength(obj.Str)))
		}
	case KindFunction:
		switch name {
		case "name":
			return newString(obj.Fn.Name)
		case "length":
			return newNumber(float64(len(obj.Fn.Params)))
		}
	case KindBuiltin:
		switch name {
		case "name":
			return newString(obj.Builtin.Name)
		case "length":
			return newNumber(float64(obj.Builtin.Arity))
		}
	case KindObject:
		return obj.Obj.Get(name)
	}
	return Undefined
}

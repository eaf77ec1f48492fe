package interpreter

type CompletionType int

const (
	Normal CompletionType = iota
	Return
)

// Completion is the result of evaluating a node: a plain value, or a return
// signal that travels up through blocks until a call boundary absorbs it.
type Completion struct {
	Type  CompletionType
	Value Value
}

func normal(v Value) Completion {
	return Completion{Type: Normal, Value: v}
}

func returned(v Value) Completion {
	return Completion{Type: Return, Value: v}
}

// Package scope implements the chained binding frames used as the
// interpreter's execution environment.
//
// A frame only points at its enclosing frame, never at its children, so a
// chain is always a finite path to the global frame. Frames for blocks and
// calls are dropped by the interpreter as soon as the block or call exits,
// unless a closure captured them.
package scope

import (
	"sort"

	"quill/pkg/diag"
)

type Category int

const (
	Global Category = iota
	Block
	Function
)

func (c Category) String() string {
	switch c {
	case Global:
		return "global"
	case Function:
		return "function"
	default:
		return "block"
	}
}

type Kind int

const (
	Var Kind = iota
	Let
	Const
)

func (k Kind) String() string {
	switch k {
	case Let:
		return "let"
	case Const:
		return "const"
	default:
		return "var"
	}
}

type Binding[V any] struct {
	Kind  Kind
	Value V
}

type Frame[V any] struct {
	category Category
	parent   *Frame[V]
	vars     map[string]*Binding[V]
}

// NewGlobal creates a root frame
func NewGlobal[V any]() *Frame[V] {
	return &Frame[V]{category: Global, vars: make(map[string]*Binding[V])}
}

// New creates a frame of the given category enclosed by parent
func New[V any](parent *Frame[V], category Category) *Frame[V] {
	return &Frame[V]{category: category, parent: parent, vars: make(map[string]*Binding[V])}
}

// Parent returns the enclosing frame, nil for the global frame
func (f *Frame[V]) Parent() *Frame[V] {
	return f.parent
}

func (f *Frame[V]) Category() Category {
	return f.category
}

// Get returns the value bound to name in f or the nearest enclosing frame.
func (f *Frame[V]) Get(name string) (V, error) {
	if b := f.resolve(name); b != nil {
		return b.Value, nil
	}

	var zero V
	return zero, diag.New(diag.Reference, "%s is not defined", name)
}

// Lookup returns the binding for name without raising when it is missing
func (f *Frame[V]) Lookup(name string) (*Binding[V], bool) {
	b := f.resolve(name)
	return b, b != nil
}

// Set overwrites the nearest binding for name. Constants cannot be reassigned.
// An unbound name becomes a var binding of the global frame.
func (f *Frame[V]) Set(name string, value V) error {
	if b := f.resolve(name); b != nil {
		if b.Kind == Const {
			return diag.New(diag.Type, "Assignment to constant variable.")
		}
		b.Value = value
		return nil
	}

	f.root().vars[name] = &Binding[V]{Kind: Var, Value: value}
	return nil
}

// Declare creates a binding. var declarations skip block frames and land in the
// nearest function or global frame; redeclaring a var as var overwrites it, any
// other clash within the target frame is an error.
func (f *Frame[V]) Declare(name string, value V, kind Kind) error {
	target := f
	if kind == Var {
		for target.category == Block && target.parent != nil {
			target = target.parent
		}
	}

	if existing, ok := target.vars[name]; ok {
		if existing.Kind == Var && kind == Var {
			existing.Value = value
			return nil
		}
		return diag.New(diag.Declaration, "Identifier '%s' has already been declared", name)
	}

	target.vars[name] = &Binding[V]{Kind: kind, Value: value}
	return nil
}

// Names returns the names bound directly in f, sorted
func (f *Frame[V]) Names() []string {
	names := make([]string, 0, len(f.vars))
	for name := range f.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Depth returns the number of frames between f and the global frame
func (f *Frame[V]) Depth() int {
	depth := 0
	for cur := f.parent; cur != nil; cur = cur.parent {
		depth++
	}
	return depth
}

func (f *Frame[V]) resolve(name string) *Binding[V] {
	for cur := f; cur != nil; cur = cur.parent {
		if b, ok := cur.vars[name]; ok {
			return b
		}
	}
	return nil
}

func (f *Frame[V]) root() *Frame[V] {
	cur := f
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

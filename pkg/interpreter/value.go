package interpreter

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"

	"quill/pkg/ast"
	"quill/pkg/scope"
)

type ValueKind int

const (
	KindUndefined ValueKind = iota // the no-value marker; the zero Value
	KindNull
	KindNumber
	KindString
	KindBool
	KindFunction
	KindBuiltin
	KindObject
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindFunction, KindBuiltin:
		return "function"
	case KindObject:
		return "object"
	default:
		return "undefined"
	}
}

// Value represents a dynamically-typed value in the interpreter.
type Value struct {
	Kind    ValueKind
	Num     float64
	Str     string
	Bool    bool
	Fn      *Closure
	Builtin *Builtin
	Obj     *Object
}

// Closure is a function value together with the frame it was defined in.
type Closure struct {
	Name   string
	Params []*ast.Identifier
	Body   *ast.BlockStatement
	Env    *scope.Frame[Value]
	Source string
}

// Builtin is a host function from the fixed capability surface.
type Builtin struct {
	Name  string
	Arity int
	Fn    func(it *Interpreter, args []Value) (Value, error)
}

// Object is a record with a fixed, ordered set of properties.
type Object struct {
	keys  []string
	props map[string]Value
}

var (
	Undefined = Value{Kind: KindUndefined}
	Null      = Value{Kind: KindNull}
)

func newNumber(f float64) Value {
	return Value{Kind: KindNumber, Num: f}
}

func newString(s string) Value {
	return Value{Kind: KindString, Str: s}
}

func newBool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

func newFunction(c *Closure) Value {
	return Value{Kind: KindFunction, Fn: c}
}

func newBuiltin(name string, arity int, fn func(*Interpreter, []Value) (Value, error)) Value {
	return Value{Kind: KindBuiltin, Builtin: &Builtin{Name: name, Arity: arity, Fn: fn}}
}

func newObject() *Object {
	return &Object{props: make(map[string]Value)}
}

// Set defines or replaces a property, keeping first-definition order
func (o *Object) Set(key string, v Value) {
	if _, ok := o.props[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.props[key] = v
}

// Get returns the property value, or undefined
func (o *Object) Get(key string) Value {
	if v, ok := o.props[key]; ok {
		return v
	}
	return Undefined
}

// Keys returns the property names in definition order
func (o *Object) Keys() []string {
	return o.keys
}

// IsNullish reports whether v is undefined or null
func (v Value) IsNullish() bool {
	return v.Kind == KindUndefined || v.Kind == KindNull
}

// IsCallable reports whether v can be invoked
func (v Value) IsCallable() bool {
	return v.Kind == KindFunction || v.Kind == KindBuiltin
}

// String converts the value to a string the way string concatenation does.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindNumber:
		return formatNumber(v.Num)
	case KindString:
		return v.Str
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindFunction:
		return v.Fn.Source
	case KindBuiltin:
		return "function " + v.Builtin.Name + "() { [native code] }"
	case KindObject:
		return "[object Object]"
	default:
		return "undefined"
	}
}

// Inspect renders the value for a human: strings are quoted and functions are summarized.
func (v Value) Inspect() string {
	switch v.Kind {
	case KindString:
		return strconv.Quote(v.Str)
	case KindFunction:
		return functionTag(v.Fn.Name)
	case KindBuiltin:
		return functionTag(v.Builtin.Name)
	case KindObject:
		keys := v.Obj.Keys()
		if len(keys) == 0 {
			return "{}"
		}
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + v.Obj.Get(k).Inspect()
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	default:
		return v.String()
	}
}

func functionTag(name string) string {
	if name == "" {
		return "[Function (anonymous)]"
	}
	return "[Function: " + name + "]"
}

// ToNumber converts the value to a number.
// undefined, functions and objects are NaN; null is 0; booleans are 0 or 1.
func (v Value) ToNumber() float64 {
	switch v.Kind {
	case KindNull:
		return 0
	case KindNumber:
		return v.Num
	case KindString:
		return stringToNumber(v.Str)
	case KindBool:
		if v.Bool {
			return 1
		}
		return 0
	default:
		return math.NaN()
	}
}

// toPrimitive turns functions and objects into their string form
func (v Value) toPrimitive() Value {
	switch v.Kind {
	case KindFunction, KindBuiltin, KindObject:
		return newString(v.String())
	default:
		return v
	}
}

var decimalRegex = regexp.MustCompile(`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)

// stringToNumber parses a numeric string; surrounding whitespace is ignored and
// the empty string is 0. Anything else that is not a number is NaN.
func stringToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}

	if !decimalRegex.MatchString(s) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !isRangeError(err) {
		return math.NaN()
	}
	return f
}

func isRangeError(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

// formatNumber renders f with the shortest round-tripping digits, switching to
// exponent notation below 1e-6 and from 1e21 on.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	case f < 0:
		return "-" + formatNumber(-f)
	}

	mantissa, expStr, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	exp, _ := strconv.Atoi(expStr)
	digits := strings.Replace(mantissa, ".", "", 1)
	k := len(digits)
	n := exp + 1

	switch {
	case k <= n && n <= 21:
		return digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		return digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		return "0." + strings.Repeat("0", -n) + digits
	}

	e := n - 1
	sign := "+"
	if e < 0 {
		sign = "-"
		e = -e
	}
	if k == 1 {
		return digits + "e" + sign + strconv.Itoa(e)
	}
	return digits[:1] + "." + digits[1:] + "e" + sign + strconv.Itoa(e)
}

// stringLength counts UTF-16 code units
func stringLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}

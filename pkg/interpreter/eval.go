package interpreter

import (
	"strings"

	"quill/pkg/ast"
	"quill/pkg/diag"
	"quill/pkg/lexer"
	"quill/pkg/scope"
)

var _ ast.Visitor[Completion] = (*Interpreter)(nil)

func (i *Interpreter) VisitProgram(n *ast.Program) (Completion, error) {
	results, err := i.Run(n)
	if err != nil || len(results) == 0 {
		return normal(Undefined), err
	}
	return normal(results[len(results)-1]), nil
}

func (i *Interpreter) VisitLiteral(n *ast.Literal) (Completion, error) {
	switch n.Kind {
	case ast.NumberLiteral:
		return normal(newNumber(n.Number)), nil
	case ast.StringLiteral:
		return normal(newString(n.Str)), nil
	case ast.BooleanLiteral:
		return normal(newBool(n.Bool)), nil
	case ast.NullLiteral:
		return normal(Null), nil
	default:
		return normal(Undefined), nil
	}
}

func (i *Interpreter) VisitIdentifier(n *ast.Identifier) (Completion, error) {
	v, err := i.current.Get(n.Name)
	if err != nil {
		return Completion{}, err
	}
	return normal(v), nil
}

// Operands are evaluated left then right, both always.
func (i *Interpreter) VisitBinaryExpression(n *ast.BinaryExpression) (Completion, error) {
	left, err := i.value(n.Left)
	if err != nil {
		return Completion{}, err
	}
	right, err := i.value(n.Right)
	if err != nil {
		return Completion{}, err
	}
	return normal(evalBinary(n.Operator.Type, left, right)), nil
}

func (i *Interpreter) VisitUnaryExpression(n *ast.UnaryExpression) (Completion, error) {
	v, err := i.value(n.Operand)
	if err != nil {
		return Completion{}, err
	}
	if n.Operator.Type == lexer.MINUS {
		return normal(newNumber(-v.ToNumber())), nil
	}
	return normal(newNumber(v.ToNumber())), nil
}

func (i *Interpreter) VisitAssignmentExpression(n *ast.AssignmentExpression) (Completion, error) {
	v, err := i.value(n.Value)
	if err != nil {
		return Completion{}, err
	}
	if err := i.current.Set(n.Target.Name, v); err != nil {
		return Completion{}, atNode(err, n.Target)
	}
	return normal(v), nil
}

func (i *Interpreter) VisitVariableDeclaration(n *ast.VariableDeclaration) (Completion, error) {
	for _, d := range n.Declarations {
		if _, err := i.VisitVariableDeclarator(d, n.Kind); err != nil {
			return Completion{}, err
		}
	}
	return normal(Undefined), nil
}

func (i *Interpreter) VisitVariableDeclarator(n *ast.VariableDeclarator, kind ast.DeclKind) (Completion, error) {
	v := Undefined
	if n.Init != nil {
		var err error
		if v, err = i.value(n.Init); err != nil {
			return Completion{}, err
		}
	}
	if err := i.current.Declare(n.ID.Name, v, scopeKinds[kind]); err != nil {
		return Completion{}, atNode(err, n.ID)
	}
	return normal(Undefined), nil
}

var scopeKinds = map[ast.DeclKind]scope.Kind{
	ast.Var:   scope.Var,
	ast.Let:   scope.Let,
	ast.Const: scope.Const,
}

// A return signal raised inside the block is passed to the caller unchanged.
func (i *Interpreter) VisitBlockStatement(n *ast.BlockStatement) (Completion, error) {
	saved := i.current
	i.current = scope.New(saved, scope.Block)
	defer func() { i.current = saved }()

	c, err := i.evalStatements(n.Body)
	if err != nil {
		return Completion{}, err
	}
	if c.Type == Return {
		return c, nil
	}
	return normal(Undefined), nil
}

func (i *Interpreter) VisitFunctionDeclaration(n *ast.FunctionDeclaration) (Completion, error) {
	fn := i.closure(n.Name.Name, n.Params, n.Body, n.String(), i.current)
	if err := i.current.Declare(n.Name.Name, fn, scope.Var); err != nil {
		return Completion{}, atNode(err, n.Name)
	}
	return normal(Undefined), nil
}

// A named function expression sees its own name through an extra frame
// between the closure and the defining frame.
func (i *Interpreter) VisitFunctionExpression(n *ast.FunctionExpression) (Completion, error) {
	if n.Name == nil {
		return normal(i.closure("", n.Params, n.Body, n.String(), i.current)), nil
	}

	env := scope.New(i.current, scope.Block)
	fn := i.closure(n.Name.Name, n.Params, n.Body, n.String(), env)
	if err := env.Declare(n.Name.Name, fn, scope.Const); err != nil {
		return Completion{}, err
	}
	return normal(fn), nil
}

func (i *Interpreter) closure(name string, params []*ast.Identifier, body *ast.BlockStatement, src string, env *scope.Frame[Value]) Value {
	return newFunction(&Closure{
		Name:   name,
		Params: params,
		Body:   body,
		Env:    env,
		Source: src,
	})
}

func (i *Interpreter) VisitReturnStatement(n *ast.ReturnStatement) (Completion, error) {
	if n.Argument == nil {
		return returned(Undefined), nil
	}
	v, err := i.value(n.Argument)
	if err != nil {
		return Completion{}, err
	}
	return returned(v), nil
}

func (i *Interpreter) VisitCallExpression(n *ast.CallExpression) (Completion, error) {
	callee, err := i.value(n.Callee)
	if err != nil {
		return Completion{}, err
	}
	if !callee.IsCallable() {
		return Completion{}, atNode(diag.New(diag.Type, "%s is not a function", callee.Inspect()), n.Callee)
	}

	args := make([]Value, len(n.Arguments))
	for idx, a := range n.Arguments {
		if args[idx], err = i.value(a); err != nil {
			return Completion{}, err
		}
	}

	v, err := i.call(callee, args, n.Callee.Pos())
	if err != nil {
		return Completion{}, err
	}
	return normal(v), nil
}

func (i *Interpreter) VisitMemberExpression(n *ast.MemberExpression) (Completion, error) {
	obj, err := i.value(n.Object)
	if err != nil {
		return Completion{}, err
	}
	if obj.IsNullish() {
		return Completion{}, atNode(diag.New(diag.Type, "Cannot read properties of %s (reading '%s')", obj, n.Property.Name), n.Property)
	}
	return normal(getProperty(obj, n.Property.Name)), nil
}

// call invokes a callable value
func (i *Interpreter) call(fn Value, args []Value, pos lexer.Position) (Value, error) {
	if fn.Kind == KindBuiltin {
		return fn.Builtin.Fn(i, args)
	}
	return i.invoke(fn.Fn, args, pos)
}

// invoke runs a closure in a fresh function frame enclosed by its captured
// frame. The caller's frame is restored on every exit path, and the return
// signal of the body ends here.
func (i *Interpreter) invoke(c *Closure, args []Value, pos lexer.Position) (Value, error) {
	if i.calls.Size() >= i.maxDepth {
		return Undefined, diag.At(diag.Range, pos.Line, pos.Column, "Maximum call stack size exceeded")
	}

	i.calls.Push(&Frame{FuncName: c.Name, Caller: i.current, CallPos: pos})
	i.current = scope.New(c.Env, scope.Function)
	i.logger.Debug("call", "function", c.Name, "args", len(args), "depth", i.calls.Size(), "frames", i.current.Depth())
	defer func() {
		if f, ok := i.calls.Pop(); ok {
			i.current = f.Caller
		}
	}()

	for idx, p := range c.Params {
		v := Undefined
		if idx < len(args) {
			v = args[idx]
		}
		if err := i.current.Declare(p.Name, v, scope.Var); err != nil {
			return Undefined, atNode(err, p)
		}
	}

	comp, err := i.evalStatements(c.Body.Body)
	if err != nil {
		i.logger.Debug("call failed", "trace", strings.Join(i.StackTrace(), " <- "), "error", err)
		return Undefined, err
	}
	if comp.Type == Return {
		return comp.Value, nil
	}
	return Undefined, nil
}

// atNode anchors a position-less diagnostic at n
func atNode(err error, n ast.Node) error {
	if d, ok := err.(*diag.Error); ok && !d.HasPos() {
		pos := n.Pos()
		d.Line, d.Column = pos.Line, pos.Column
	}
	return err
}

// evalBinary applies an arithmetic operator. '+' concatenates when either
// operand is (or converts to) a string; every other case is IEEE-754 arithmetic
// on ToNumber of both operands.
func evalBinary(op lexer.TokenType, a, b Value) Value {
	if op == lexer.PLUS {
		pa, pb := a.toPrimitive(), b.toPrimitive()
		if pa.Kind == KindString || pb.Kind == KindString {
			return newString(pa.String() + pb.String())
		}
		return newNumber(pa.ToNumber() + pb.ToNumber())
	}

	x, y := a.ToNumber(), b.ToNumber()
	switch op {
	case lexer.MINUS:
		return newNumber(x - y)
	case lexer.MULT:
		return newNumber(x * y)
	default:
		return newNumber(x / y)
	}
}

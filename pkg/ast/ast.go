// Package ast defines the immutable syntax tree produced by the parser.
//
// The node set is closed: Node can only be implemented inside this package,
// and Visit dispatches every node kind to a method of Visitor. A new node
// kind therefore needs a new Visitor method, which every evaluator must
// implement before the module compiles again.
package ast

import (
	"strconv"
	"strings"

	"quill/pkg/lexer"
)

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() lexer.Position
	String() string
	node()
}

// Expression is a node that produces a value.
type Expression interface {
	Node
	exprNode()
}

type DeclKind int

const (
	Var DeclKind = iota
	Let
	Const
)

func (k DeclKind) String() string {
	switch k {
	case Let:
		return "let"
	case Const:
		return "const"
	default:
		return "var"
	}
}

type LiteralKind int

const (
	NumberLiteral LiteralKind = iota
	StringLiteral
	BooleanLiteral
	NullLiteral
	UndefinedLiteral
)

type Program struct {
	Body []Node
}

type Literal struct {
	Token  lexer.Token
	Kind   LiteralKind
	Number float64
	Str    string
	Bool   bool
}

type Identifier struct {
	Token lexer.Token
	Name  string
}

type BinaryExpression struct {
	Operator lexer.Token
	Left     Expression
	Right    Expression
}

type UnaryExpression struct {
	Operator lexer.Token
	Operand  Expression
}

type AssignmentExpression struct {
	Token  lexer.Token // the '=' token
	Target *Identifier
	Value  Expression
}

type VariableDeclaration struct {
	Token        lexer.Token
	Kind         DeclKind
	Declarations []*VariableDeclarator
}

type VariableDeclarator struct {
	ID   *Identifier
	Init Expression // nil when there is no initializer
}

type BlockStatement struct {
	Token lexer.Token // the '{' token
	Body  []Node
}

// FunctionDeclaration binds a named function in the enclosing scope.
type FunctionDeclaration struct {
	Token  lexer.Token
	Name   *Identifier
	Params []*Identifier
	Body   *BlockStatement
}

// FunctionExpression is a function value; Name may be nil.
type FunctionExpression struct {
	Token  lexer.Token
	Name   *Identifier
	Params []*Identifier
	Body   *BlockStatement
}

type ReturnStatement struct {
	Token    lexer.Token
	Argument Expression // nil for a bare return
}

type CallExpression struct {
	Token     lexer.Token // the '(' token
	Callee    Expression
	Arguments []Expression
}

type MemberExpression struct {
	Token    lexer.Token // the '.' token
	Object   Expression
	Property *Identifier
}

func (p *Program) Pos() lexer.Position {
	if len(p.Body) > 0 {
		return p.Body[0].Pos()
	}
	return lexer.NewPosition(1, 1, 0)
}
func (n *Literal) Pos() lexer.Position              { return n.Token.Pos }
func (n *Identifier) Pos() lexer.Position           { return n.Token.Pos }
func (n *BinaryExpression) Pos() lexer.Position     { return n.Left.Pos() }
func (n *UnaryExpression) Pos() lexer.Position      { return n.Operator.Pos }
func (n *AssignmentExpression) Pos() lexer.Position { return n.Target.Pos() }
func (n *VariableDeclaration) Pos() lexer.Position  { return n.Token.Pos }
func (n *VariableDeclarator) Pos() lexer.Position   { return n.ID.Pos() }
func (n *BlockStatement) Pos() lexer.Position       { return n.Token.Pos }
func (n *FunctionDeclaration) Pos() lexer.Position  { return n.Token.Pos }
func (n *FunctionExpression) Pos() lexer.Position   { return n.Token.Pos }
func (n *ReturnStatement) Pos() lexer.Position      { return n.Token.Pos }
func (n *CallExpression) Pos() lexer.Position       { return n.Callee.Pos() }
func (n *MemberExpression) Pos() lexer.Position     { return n.Object.Pos() }

func (*Program) node()              {}
func (*Literal) node()              {}
func (*Identifier) node()           {}
func (*BinaryExpression) node()     {}
func (*UnaryExpression) node()      {}
func (*AssignmentExpression) node() {}
func (*VariableDeclaration) node()  {}
func (*VariableDeclarator) node()   {}
func (*BlockStatement) node()       {}
func (*FunctionDeclaration) node()  {}
func (*FunctionExpression) node()   {}
func (*ReturnStatement) node()      {}
func (*CallExpression) node()       {}
func (*MemberExpression) node()     {}

func (*Literal) exprNode()              {}
func (*Identifier) exprNode()           {}
func (*BinaryExpression) exprNode()     {}
func (*UnaryExpression) exprNode()      {}
func (*AssignmentExpression) exprNode() {}
func (*FunctionExpression) exprNode()   {}
func (*CallExpression) exprNode()       {}
func (*MemberExpression) exprNode()     {}

// String renders the program one statement per line.
func (p *Program) String() string {
	parts := make([]string, len(p.Body))
	for i, stmt := range p.Body {
		parts[i] = stmt.String()
	}
	return strings.Join(parts, "\n")
}

func (n *Literal) String() string {
	switch n.Kind {
	case NumberLiteral:
		return strconv.FormatFloat(n.Number, 'f', -1, 64)
	case StringLiteral:
		return strconv.Quote(n.Str)
	case BooleanLiteral:
		return strconv.FormatBool(n.Bool)
	case NullLiteral:
		return "null"
	default:
		return "undefined"
	}
}

func (n *Identifier) String() string { return n.Name }

// Binary and unary expressions are fully parenthesized so grouping is visible.
func (n *BinaryExpression) String() string {
	return "(" + n.Left.String() + " " + n.Operator.Lexeme + " " + n.Right.String() + ")"
}

func (n *UnaryExpression) String() string {
	return "(" + n.Operator.Lexeme + n.Operand.String() + ")"
}

func (n *AssignmentExpression) String() string {
	return n.Target.String() + " = " + n.Value.String()
}

func (n *VariableDeclaration) String() string {
	parts := make([]string, len(n.Declarations))
	for i, d := range n.Declarations {
		parts[i] = d.String()
	}
	return n.Kind.String() + " " + strings.Join(parts, ", ")
}

func (n *VariableDeclarator) String() string {
	if n.Init == nil {
		return n.ID.String()
	}
	return n.ID.String() + " = " + n.Init.String()
}

func (n *BlockStatement) String() string {
	if len(n.Body) == 0 {
		return "{}"
	}
	parts := make([]string, len(n.Body))
	for i, stmt := range n.Body {
		parts[i] = stmt.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

func (n *FunctionDeclaration) String() string {
	return functionString(n.Name, n.Params, n.Body)
}

func (n *FunctionExpression) String() string {
	return functionString(n.Name, n.Params, n.Body)
}

func functionString(name *Identifier, params []*Identifier, body *BlockStatement) string {
	var b strings.Builder
	b.WriteString("function")
	if name != nil {
		b.WriteString(" ")
		b.WriteString(name.Name)
	}
	b.WriteString("(")
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
	}
	b.WriteString(") ")
	b.WriteString(body.String())
	return b.String()
}

func (n *ReturnStatement) String() string {
	if n.Argument == nil {
		return "return"
	}
	return "return " + n.Argument.String()
}

func (n *CallExpression) String() string {
	args := make([]string, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = a.String()
	}
	return n.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

func (n *MemberExpression) String() string {
	return n.Object.String() + "." + n.Property.Name
}

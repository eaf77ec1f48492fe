package ast

import "fmt"

// Visitor has one method per node kind. R is the evaluator's result type.
type Visitor[R any] interface {
	VisitProgram(*Program) (R, error)
	VisitLiteral(*Literal) (R, error)
	VisitIdentifier(*Identifier) (R, error)
	VisitBinaryExpression(*BinaryExpression) (R, error)
	VisitUnaryExpression(*UnaryExpression) (R, error)
	VisitAssignmentExpression(*AssignmentExpression) (R, error)
	VisitVariableDeclaration(*VariableDeclaration) (R, error)
	VisitVariableDeclarator(*VariableDeclarator, DeclKind) (R, error)
	VisitBlockStatement(*BlockStatement) (R, error)
	VisitFunctionDeclaration(*FunctionDeclaration) (R, error)
	VisitFunctionExpression(*FunctionExpression) (R, error)
	VisitReturnStatement(*ReturnStatement) (R, error)
	VisitCallExpression(*CallExpression) (R, error)
	VisitMemberExpression(*MemberExpression) (R, error)
}

// Visit dispatches n to the matching method of v.
// A declarator visited on its own is treated as a var declarator.
func Visit[R any](v Visitor[R], n Node) (R, error) {
	switch n := n.(type) {
	case *Program:
		return v.VisitProgram(n)
	case *Literal:
		return v.VisitLiteral(n)
	case *Identifier:
		return v.VisitIdentifier(n)
	case *BinaryExpression:
		return v.VisitBinaryExpression(n)
	case *UnaryExpression:
		return v.VisitUnaryExpression(n)
	case *AssignmentExpression:
		return v.VisitAssignmentExpression(n)
	case *VariableDeclaration:
		return v.VisitVariableDeclaration(n)
	case *VariableDeclarator:
		return v.VisitVariableDeclarator(n, Var)
	case *BlockStatement:
		return v.VisitBlockStatement(n)
	case *FunctionDeclaration:
		return v.VisitFunctionDeclaration(n)
	case *FunctionExpression:
		return v.VisitFunctionExpression(n)
	case *ReturnStatement:
		return v.VisitReturnStatement(n)
	case *CallExpression:
		return v.VisitCallExpression(n)
	case *MemberExpression:
		return v.VisitMemberExpression(n)
	}

	// unreachable: Node is sealed to the cases above
	panic(fmt.Sprintf("ast: unknown node %T", n))
}

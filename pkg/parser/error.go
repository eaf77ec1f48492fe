package parser

import (
	"errors"
	"fmt"

	"quill/pkg/diag"
	"quill/pkg/lexer"
)

// incompleteError marks a syntax error raised because the input ended too early.
type incompleteError struct {
	err *diag.Error
}

func (e *incompleteError) Error() string { return e.err.Error() }
func (e *incompleteError) Unwrap() error { return e.err }

// IsIncomplete reports whether err was caused by reaching the end of input
// in the middle of a construct, so more input could still make it valid.
func IsIncomplete(err error) bool {
	var inc *incompleteError
	return errors.As(err, &inc)
}

// expected reports that the current token does not match the expected type
func (p *Parser) expected(tt lexer.TokenType) error {
	current := p.currentToken
	msg := fmt.Sprintf("Expected token [%s], but got [%s]", tt, current.Type)
	if hint := categorizeError(tt, current); hint != "" {
		msg += " (" + hint + ")"
	}
	return p.wrap(diag.At(diag.Syntax, current.Pos.Line, current.Pos.Column, "%s", msg))
}

// invalidSyntax reports a token that cannot start an expression
func (p *Parser) invalidSyntax() error {
	current := p.currentToken
	if current.Type == lexer.EOF {
		return p.wrap(diag.At(diag.Syntax, current.Pos.Line, current.Pos.Column, "Unexpected end of input"))
	}
	return p.errorAt(current, "Invalid syntax, unexpected [%s] '%s'", current.Type, current.Lexeme)
}

// errorAt builds a syntax error anchored at tok
func (p *Parser) errorAt(tok lexer.Token, format string, args ...any) error {
	return p.wrap(diag.At(diag.Syntax, tok.Pos.Line, tok.Pos.Column, format, args...))
}

func (p *Parser) wrap(err *diag.Error) error {
	if p.currentToken.Type == lexer.EOF {
		return &incompleteError{err: err}
	}
	return err
}

// categorizeError provides a human hint based on the expected token and the current one
func categorizeError(expected lexer.TokenType, current lexer.Token) string {
	switch expected {
	case lexer.RPAREN:
		return "missing closing parenthesis"
	case lexer.RBRACE:
		return "missing closing brace"
	case lexer.LBRACE:
		if current.Type == lexer.LPAREN {
			return "wrong bracket type, expected brace"
		}
		return "missing opening brace"
	case lexer.LPAREN:
		return "missing opening parenthesis"
	case lexer.ASSIGN:
		return "missing initializer"
	case lexer.NEWLINE:
		return "statements must be separated by a newline or ';'"
	case lexer.ID:
		if current.Type.GetCategory() == lexer.KEYWORD {
			return "cannot use reserved keyword as identifier"
		}
		if current.Type == lexer.ASSIGN {
			return "missing identifier"
		}
		return ""
	}
	return ""
}

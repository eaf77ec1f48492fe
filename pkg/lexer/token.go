package lexer

import (
	"fmt"
)

type TokenType int
type TokenCategory int

type Token struct {
	Type    TokenType // Type of the token
	Lexeme  string    // Actual string from source code
	Literal string    // Decoded value for strings, lexeme otherwise
	Pos     Position  // Position in source code
}

// NewToken creates a new Token instance
func NewToken(tokenType TokenType, lexeme string, literal string, pos Position) Token {
	return Token{
		Type:    tokenType,
		Lexeme:  lexeme,
		Literal: literal,
		Pos:     pos,
	}
}

const (
	NONE TokenCategory = iota
	KEYWORD
	IDENTIFIER
	LITERAL
	OPERATOR
	DELIMITER
)

const (
	EOF TokenType = iota // End of input

	VAR       // var
	LET       // let
	CONST     // const
	FUNCTION  // function
	RETURN    // return
	TRUE      // true
	FALSE     // false
	NULL      // null
	UNDEFINED // undefined

	ID     // identifier
	NUM    // number
	STRING // string literal

	ASSIGN // =
	PLUS   // +
	MINUS  // -
	MULT   // *
	DIV    // /

	SEMICOLON // ;
	COMMA     // ,
	DOT       // .
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }

	NEWLINE // one or more line breaks

	ILLEGAL // illegal token
)

var Keywords = map[string]TokenType{
	"var":       VAR,
	"let":       LET,
	"const":     CONST,
	"function":  FUNCTION,
	"return":    RETURN,
	"true":      TRUE,
	"false":     FALSE,
	"null":      NULL,
	"undefined": UNDEFINED,
}

var tokenNames = map[TokenType]string{
	EOF:       "EOF",
	VAR:       "VAR",
	LET:       "LET",
	CONST:     "CONST",
	FUNCTION:  "FUNCTION",
	RETURN:    "RETURN",
	TRUE:      "TRUE",
	FALSE:     "FALSE",
	NULL:      "NULL",
	UNDEFINED: "UNDEFINED",
	ID:        "ID",
	NUM:       "NUM",
	STRING:    "STRING",
	ASSIGN:    "ASSIGN",
	PLUS:      "ADD",
	MINUS:     "SUB",
	MULT:      "MUL",
	DIV:       "DIV",
	SEMICOLON: "SEMICOLON",
	COMMA:     "COMMA",
	DOT:       "DOT",
	LPAREN:    "LPAREN",
	RPAREN:    "RPAREN",
	LBRACE:    "LBRACE",
	RBRACE:    "RBRACE",
	NEWLINE:   "NEWLINE",
	ILLEGAL:   "ILLEGAL",
}

// singleChars maps one-character operators and punctuation to their token type
var singleChars = map[byte]TokenType{
	'=': ASSIGN,
	'+': PLUS,
	'-': MINUS,
	'*': MULT,
	'/': DIV,
	';': SEMICOLON,
	',': COMMA,
	'.': DOT,
	'(': LPAREN,
	')': RPAREN,
	'{': LBRACE,
	'}': RBRACE,
}

// String returns a string representation of the Token
func (t Token) String() string {
	if t.Literal == "" || t.Literal == t.Lexeme {
		return fmt.Sprintf("T_{%s, %q, %s}", t.Type, t.Lexeme, t.Pos)
	}

	return fmt.Sprintf("T_{%s, %q, %q, %s}", t.Type, t.Lexeme, t.Literal, t.Pos)
}

// String returns a string representation of the TokenType
func (t TokenType) String() string {
	if str, ok := tokenNames[t]; ok {
		return str
	}

	return fmt.Sprintf("UNKNOWN(%d)", int(t))
}

// GetCategory returns the category of the token
func (t TokenType) GetCategory() TokenCategory {
	switch t {
	case VAR, LET, CONST, FUNCTION, RETURN, TRUE, FALSE, NULL, UNDEFINED:
		return KEYWORD
	case ID:
		return IDENTIFIER
	case NUM, STRING:
		return LITERAL
	case ASSIGN, PLUS, MINUS, MULT, DIV:
		return OPERATOR
	case SEMICOLON, COMMA, DOT, LPAREN, RPAREN, LBRACE, RBRACE, NEWLINE:
		return DELIMITER
	default:
		return NONE
	}
}

// IsKeyword checks if the given identifier is a keyword and returns its TokenType if it is
func IsKeyword(identifier string) (TokenType, bool) {
	tokenType, ok := Keywords[identifier]
	return tokenType, ok
}

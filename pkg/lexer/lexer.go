package lexer

import (
	"unicode/utf8"

	"quill/pkg/diag"
)

type Lexer struct {
	input    string // input string to be tokenized
	length   int    // length of the input string
	position int    // current position in the input string
	line     int    // current line number for error reporting
	column   int    // current column number for error reporting
}

// Create a new lexer instance
func NewLexer(s string) *Lexer {
	return &Lexer{
		input:    s,
		length:   len(s),
		position: 0,
		line:     1,
		column:   1,
	}
}

// NextToken returns the next token from the input.
// Once the input is exhausted every call returns an EOF token.
func (l *Lexer) NextToken() (Token, error) {
	if err := l.skipBlanks(); err != nil {
		return Token{}, err
	}

	// End of input
	if l.position >= l.length {
		return NewToken(EOF, "", "", l.currentPosition()), nil
	}

	pos := l.currentPosition()
	ch := l.input[l.position]

	if ch == '\n' || ch == '\r' {
		start := l.position
		if err := l.skipLineBreaks(); err != nil {
			return Token{}, err
		}
		lexeme := l.input[start:l.position]
		return NewToken(NEWLINE, lexeme, lexeme, pos), nil
	}

	if tokenType, ok := singleChars[ch]; ok {
		lexeme := string(ch)
		l.advance(1)
		return NewToken(tokenType, lexeme, lexeme, pos), nil
	}

	remaining := l.input[l.position:]
	tokenType, lexeme, matched := MatchToken(remaining)

	if !matched {
		if ch == '"' || ch == '\'' {
			return Token{}, diag.At(diag.Lexical, pos.Line, pos.Column, "Unterminated string")
		}
		r, _ := utf8.DecodeRuneInString(remaining)
		return Token{}, diag.At(diag.Lexical, pos.Line, pos.Column, "Invalid character '%c'", r)
	}

	literal := lexeme
	switch tokenType {
	case NUM:
		// a second dot right after a matched number belongs to the same literal
		if next := l.position + len(lexeme); next < l.length && l.input[next] == '.' {
			return Token{}, diag.At(diag.Lexical, pos.Line, pos.Column, "Invalid number syntax")
		}
	case STRING:
		literal = unquote(lexeme)
	}

	l.advance(len(lexeme))
	return NewToken(tokenType, lexeme, literal, pos), nil
}

// Tokenize lexes the whole input, including the trailing EOF token
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

// View next token without advancing the position
func (l *Lexer) Peek() (Token, error) {
	// save state
	cpos := l.position
	cline := l.line
	ccol := l.column

	token, err := l.NextToken()

	// restore state
	l.position = cpos
	l.line = cline
	l.column = ccol

	return token, err
}

// Check if there are more characters to read
func (l *Lexer) HasMore() bool {
	return l.position < l.length
}

// skipBlanks skips spaces, tabs and comments, but not line breaks
func (l *Lexer) skipBlanks() error {
	for l.position < l.length {
		rest := l.input[l.position:]
		if n := matchSkippable(rest); n > 0 {
			l.advance(n)
			continue
		}
		if len(rest) >= 2 && rest[0] == '/' && rest[1] == '*' {
			return diag.At(diag.Lexical, l.line, l.column, "Unterminated comment")
		}
		return nil
	}
	return nil
}

// skipLineBreaks consumes a run of line breaks together with any blanks and comments between them
func (l *Lexer) skipLineBreaks() error {
	for l.position < l.length {
		if m := newlineRegex.FindString(l.input[l.position:]); m != "" {
			l.advance(len(m))
			continue
		}
		before := l.position
		if err := l.skipBlanks(); err != nil {
			return err
		}
		if l.position == before {
			return nil
		}
	}
	return nil
}

// Advance the lexer position by n characters
func (l *Lexer) advance(n int) {
	for i := 0; i < n; i++ {
		if l.position >= l.length {
			break
		}

		if l.input[l.position] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}

		l.position++
	}
}

// Get the current position of the lexer
func (l *Lexer) currentPosition() Position {
	return Position{
		Line:   l.line,
		Column: l.column,
		Offset: l.position,
	}
}

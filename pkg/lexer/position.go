package lexer

import "fmt"

type Position struct {
	Line   int // 1-based line
	Column int // 1-based column
	Offset int // byte offset into the source
}

// Returns a string representation of the Position
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Creates a new Position instance
func NewPosition(line, column, offset int) Position {
	return Position{
		Line:   line,
		Column: column,
		Offset: offset,
	}
}

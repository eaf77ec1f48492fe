package parser

import (
	"strconv"

	"quill/pkg/ast"
	"quill/pkg/lexer"

	"github.com/charmbracelet/log"
)

type Parser struct {
	lexer        *lexer.Lexer // lexer instance
	currentToken lexer.Token  // current token
	funcDepth    int          // number of enclosing function bodies
}

// NewParser creates a new parser instance reading tokens from l
func NewParser(l *lexer.Lexer) *Parser {
	return &Parser{lexer: l}
}

// Parse consumes the whole token stream and returns the program.
// Parsing stops at the first lexical or syntax error.
func (p *Parser) Parse() (*ast.Program, error) {
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	body, err := p.statements(lexer.EOF)
	if err != nil {
		return nil, err
	}

	log.Debug("Parsed program", "statements", len(body))
	return &ast.Program{Body: body}, nil
}

// ParseString lexes and parses src in one step
func ParseString(src string) (*ast.Program, error) {
	return NewParser(lexer.NewLexer(src)).Parse()
}

// nextToken advances to the next token from the lexer
func (p *Parser) nextToken() error {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.currentToken = tok
	return nil
}

// eat consumes the current token if it has the expected type
func (p *Parser) eat(tt lexer.TokenType) (lexer.Token, error) {
	tok := p.currentToken
	if tok.Type != tt {
		return tok, p.expected(tt)
	}
	return tok, p.nextToken()
}

func (p *Parser) at(types ...lexer.TokenType) bool {
	for _, tt := range types {
		if p.currentToken.Type == tt {
			return true
		}
	}
	return false
}

func (p *Parser) skipNewLines() error {
	for p.at(lexer.NEWLINE) {
		if err := p.nextToken(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) skipSeparators() error {
	for p.at(lexer.NEWLINE, lexer.SEMICOLON) {
		if err := p.nextToken(); err != nil {
			return err
		}
	}
	return nil
}

// statements parses statements until the closing token (EOF or '}'), which is not consumed
func (p *Parser) statements(closing lexer.TokenType) ([]ast.Node, error) {
	body := []ast.Node{}
	if err := p.skipSeparators(); err != nil {
		return nil, err
	}

	for !p.at(closing) {
		if p.at(lexer.EOF) {
			return nil, p.expected(closing)
		}

		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)

		if !p.at(lexer.NEWLINE, lexer.SEMICOLON, closing) && !endsWithBlock(stmt) {
			return nil, p.expected(lexer.NEWLINE)
		}
		if err := p.skipSeparators(); err != nil {
			return nil, err
		}
	}
	return body, nil
}

// endsWithBlock reports whether a statement ends with a closing brace and needs no separator
func endsWithBlock(stmt ast.Node) bool {
	switch stmt.(type) {
	case *ast.BlockStatement, *ast.FunctionDeclaration:
		return true
	default:
		return false
	}
}

func (p *Parser) statement() (ast.Node, error) {
	switch p.currentToken.Type {
	case lexer.VAR, lexer.LET, lexer.CONST:
		return p.varDeclaration()
	case lexer.FUNCTION:
		return p.funcDeclaration()
	case lexer.RETURN:
		return p.returnStatement()
	case lexer.LBRACE:
		return p.block()
	default:
		return p.expr()
	}
}

func (p *Parser) varDeclaration() (ast.Node, error) {
	tok := p.currentToken
	kind := declKinds[tok.Type]
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	decl := &ast.VariableDeclaration{Token: tok, Kind: kind}
	for {
		d, err := p.varDeclarator(kind)
		if err != nil {
			return nil, err
		}
		decl.Declarations = append(decl.Declarations, d)

		if !p.at(lexer.COMMA) {
			return decl, nil
		}
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}
}

var declKinds = map[lexer.TokenType]ast.DeclKind{
	lexer.VAR:   ast.Var,
	lexer.LET:   ast.Let,
	lexer.CONST: ast.Const,
}

func (p *Parser) varDeclarator(kind ast.DeclKind) (*ast.VariableDeclarator, error) {
	if err := p.skipNewLines(); err != nil {
		return nil, err
	}
	id, err := p.identifier()
	if err != nil {
		return nil, err
	}

	// const always needs an initializer
	if p.at(lexer.ASSIGN) || kind == ast.Const {
		if _, err := p.eat(lexer.ASSIGN); err != nil {
			return nil, err
		}
		init, err := p.expr()
		if err != nil {
			return nil, err
		}
		return &ast.VariableDeclarator{ID: id, Init: init}, nil
	}
	return &ast.VariableDeclarator{ID: id}, nil
}

func (p *Parser) identifier() (*ast.Identifier, error) {
	tok, err := p.eat(lexer.ID)
	if err != nil {
		return nil, err
	}
	return &ast.Identifier{Token: tok, Name: tok.Lexeme}, nil
}

func (p *Parser) funcDeclaration() (ast.Node, error) {
	tok, err := p.eat(lexer.FUNCTION)
	if err != nil {
		return nil, err
	}
	name, err := p.identifier()
	if err != nil {
		return nil, err
	}
	params, body, err := p.functionRest()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDeclaration{Token: tok, Name: name, Params: params, Body: body}, nil
}

func (p *Parser) funcExpression() (ast.Expression, error) {
	tok, err := p.eat(lexer.FUNCTION)
	if err != nil {
		return nil, err
	}

	var name *ast.Identifier
	if p.at(lexer.ID) {
		if name, err = p.identifier(); err != nil {
			return nil, err
		}
	}
	params, body, err := p.functionRest()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionExpression{Token: tok, Name: name, Params: params, Body: body}, nil
}

// functionRest parses the parameter list and the body shared by declarations and expressions
func (p *Parser) functionRest() ([]*ast.Identifier, *ast.BlockStatement, error) {
	if _, err := p.eat(lexer.LPAREN); err != nil {
		return nil, nil, err
	}
	params, err := p.params()
	if err != nil {
		return nil, nil, err
	}
	if _, err := p.eat(lexer.RPAREN); err != nil {
		return nil, nil, err
	}

	p.funcDepth++
	defer func() { p.funcDepth-- }()

	body, err := p.block()
	if err != nil {
		return nil, nil, err
	}
	return params, body, nil
}

func (p *Parser) params() ([]*ast.Identifier, error) {
	params := []*ast.Identifier{}
	if err := p.skipNewLines(); err != nil {
		return nil, err
	}
	if !p.at(lexer.ID) {
		return params, nil
	}

	for {
		id, err := p.identifier()
		if err != nil {
			return nil, err
		}
		params = append(params, id)
		if err := p.skipNewLines(); err != nil {
			return nil, err
		}
		if !p.at(lexer.COMMA) {
			return params, nil
		}
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		if err := p.skipNewLines(); err != nil {
			return nil, err
		}
	}
}

func (p *Parser) block() (*ast.BlockStatement, error) {
	tok, err := p.eat(lexer.LBRACE)
	if err != nil {
		return nil, err
	}
	body, err := p.statements(lexer.RBRACE)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.RBRACE); err != nil {
		return nil, err
	}
	return &ast.BlockStatement{Token: tok, Body: body}, nil
}

func (p *Parser) returnStatement() (ast.Node, error) {
	tok := p.currentToken
	if p.funcDepth == 0 {
		return nil, p.errorAt(tok, "Illegal return statement")
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	ret := &ast.ReturnStatement{Token: tok}
	if p.at(lexer.NEWLINE, lexer.SEMICOLON, lexer.RBRACE, lexer.EOF) {
		return ret, nil
	}
	arg, err := p.expr()
	if err != nil {
		return nil, err
	}
	ret.Argument = arg
	return ret, nil
}

// expr := term (('+'|'-') term)*
func (p *Parser) expr() (ast.Expression, error) {
	node, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.PLUS, lexer.MINUS) {
		op := p.currentToken
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		node = &ast.BinaryExpression{Operator: op, Left: node, Right: right}
	}
	return node, nil
}

// term := factor (('*'|'/') factor)*
func (p *Parser) term() (ast.Expression, error) {
	node, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.MULT, lexer.DIV) {
		op := p.currentToken
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		node = &ast.BinaryExpression{Operator: op, Left: node, Right: right}
	}
	return node, nil
}

func (p *Parser) factor() (ast.Expression, error) {
	tok := p.currentToken

	switch tok.Type {
	case lexer.FUNCTION:
		return p.funcExpression()

	case lexer.ID:
		return p.identifierExpression()

	case lexer.PLUS, lexer.MINUS:
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		operand, err := p.factor()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Operator: tok, Operand: operand}, nil

	case lexer.NUM:
		n, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, p.errorAt(tok, "Invalid number literal '%s'", tok.Lexeme)
		}
		return p.literal(&ast.Literal{Token: tok, Kind: ast.NumberLiteral, Number: n})

	case lexer.STRING:
		return p.literal(&ast.Literal{Token: tok, Kind: ast.StringLiteral, Str: tok.Literal})

	case lexer.TRUE, lexer.FALSE:
		return p.literal(&ast.Literal{Token: tok, Kind: ast.BooleanLiteral, Bool: tok.Type == lexer.TRUE})

	case lexer.NULL:
		return p.literal(&ast.Literal{Token: tok, Kind: ast.NullLiteral})

	case lexer.UNDEFINED:
		return p.literal(&ast.Literal{Token: tok, Kind: ast.UndefinedLiteral})

	case lexer.LPAREN:
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		if err := p.skipNewLines(); err != nil {
			return nil, err
		}
		node, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.skipNewLines(); err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.RPAREN); err != nil {
			return nil, err
		}
		return node, nil
	}

	return nil, p.invalidSyntax()
}

func (p *Parser) literal(node *ast.Literal) (ast.Expression, error) {
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	return node, nil
}

// identifierExpression := ID [ '=' expr | ( '(' args ')' | '.' ID )* ]
func (p *Parser) identifierExpression() (ast.Expression, error) {
	id, err := p.identifier()
	if err != nil {
		return nil, err
	}

	if p.at(lexer.ASSIGN) {
		tok := p.currentToken
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		value, err := p.expr()
		if err != nil {
			return nil, err
		}
		return &ast.AssignmentExpression{Token: tok, Target: id, Value: value}, nil
	}

	var node ast.Expression = id
	for p.at(lexer.LPAREN, lexer.DOT) {
		tok := p.currentToken
		if err := p.nextToken(); err != nil {
			return nil, err
		}

		if tok.Type == lexer.DOT {
			prop, err := p.identifier()
			if err != nil {
				return nil, err
			}
			node = &ast.MemberExpression{Token: tok, Object: node, Property: prop}
			continue
		}

		args, err := p.args()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.RPAREN); err != nil {
			return nil, err
		}
		node = &ast.CallExpression{Token: tok, Callee: node, Arguments: args}
	}
	return node, nil
}

func (p *Parser) args() ([]ast.Expression, error) {
	args := []ast.Expression{}
	if err := p.skipNewLines(); err != nil {
		return nil, err
	}

	for !p.at(lexer.RPAREN) {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if err := p.skipNewLines(); err != nil {
			return nil, err
		}
		if !p.at(lexer.COMMA) {
			return args, nil
		}
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		if err := p.skipNewLines(); err != nil {
			return nil, err
		}
	}
	return args, nil
}

package runner

import (
	"fmt"

	"quill/pkg/ast"
	"quill/pkg/color"
	"quill/pkg/lexer"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"
)

var astConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

func (r *Runner) dumpTokens(src string) error {
	tokens, err := lexer.NewLexer(src).Tokenize()
	if err != nil {
		return err
	}

	fmt.Fprintln(r.out, color.GreenText("\n=== Tokens ==="))
	table := tablewriter.NewWriter(r.out)
	table.SetHeader([]string{"#", "Type", "Lexeme", "Position"})
	table.SetAutoFormatHeaders(false)
	for idx, tok := range tokens {
		lexeme := tok.Lexeme
		if tok.Type == lexer.NEWLINE {
			lexeme = `\n`
		}
		table.Append([]string{fmt.Sprintf("%d", idx), tok.Type.String(), lexeme, tok.Pos.String()})
	}
	table.Render()
	return nil
}

func (r *Runner) dumpAST(prog *ast.Program) {
	fmt.Fprintln(r.out, color.GreenText("\n=== Syntax Tree ==="))
	if len(prog.Body) == 0 {
		fmt.Fprintln(r.out, color.GrayText("Empty program."))
		return
	}
	for _, stmt := range prog.Body {
		fmt.Fprintln(r.out, color.BlueText(stmt.String()))
	}
	astConfig.Fdump(r.out, prog)
}

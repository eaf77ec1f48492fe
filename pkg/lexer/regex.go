package lexer

import (
	"regexp"
	"strings"
)

// Token regex patterns for the multi-character literal runs
var tokenRegexes = map[TokenType]*regexp.Regexp{
	NUM:    regexp.MustCompile(`^[0-9]+(\.[0-9]*)?`),
	ID:     regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*`),
	STRING: regexp.MustCompile(`^(?:"(?:[^"\\\r\n]|\\.)*"|'(?:[^'\\\r\n]|\\.)*')`),
}

var (
	blankRegex        = regexp.MustCompile(`^[ \t]+`)
	lineCommentRegex  = regexp.MustCompile(`^//[^\r\n]*`)
	blockCommentRegex = regexp.MustCompile(`^/\*(?s:.*?)\*/`)
	newlineRegex      = regexp.MustCompile(`^[\r\n]+`)
)

// Token precedence order for matching
var tokenPrecedenceOrder = []TokenType{NUM, STRING, ID}

// MatchToken matches a number, string or identifier run at the start of s.
// Identifiers that spell a keyword are reported as that keyword.
func MatchToken(s string) (TokenType, string, bool) {
	if s == "" {
		return EOF, "", false
	}

	for _, tokenType := range tokenPrecedenceOrder {
		if match := tokenRegexes[tokenType].FindString(s); match != "" {
			if tokenType == ID {
				if kw, ok := IsKeyword(match); ok {
					return kw, match, true
				}
			}
			return tokenType, match, true
		}
	}

	return ILLEGAL, string(s[0]), false
}

// matchSkippable returns the length of the blank or comment run at the start of s
func matchSkippable(s string) int {
	if m := blankRegex.FindString(s); m != "" {
		return len(m)
	}
	if m := lineCommentRegex.FindString(s); m != "" {
		return len(m)
	}
	if m := blockCommentRegex.FindString(s); m != "" {
		return len(m)
	}
	return 0
}

// unquote strips the quotes of a string lexeme and decodes its escape sequences
func unquote(lexeme string) string {
	body := lexeme[1 : len(lexeme)-1]
	if !strings.Contains(body, `\`) {
		return body
	}

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch != '\\' || i+1 >= len(body) {
			b.WriteByte(ch)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		default:
			// \\ \" \' and unknown escapes keep the escaped character
			b.WriteByte(body[i])
		}
	}
	return b.String()
}

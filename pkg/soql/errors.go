package soql

import (
	"fmt"

	"github.com/stubforce/stubforce/pkg/token"
)

// SyntaxError is returned for malformed query text, from the lexer
// (unterminated literal, unrecognized character) and the parser (grammar
// violations). It carries the offending token and what was expected instead,
// so callers can produce actionable messages.
type SyntaxError struct {
	Pos      token.Position
	Got      string // offending token text, or a description for lex errors
	Expected string // what the grammar expected, empty for pure lex errors
}

func (e *SyntaxError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Got)
	}
	return fmt.Sprintf("syntax error at line %d, column %d: unexpected %s, expected %s",
		e.Pos.Line, e.Pos.Column, e.Got, e.Expected)
}

// syntaxErrorf builds a lexer-side SyntaxError with a formatted description.
func syntaxErrorf(pos token.Position, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Got: fmt.Sprintf(format, args...)}
}

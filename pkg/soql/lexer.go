package soql

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/stubforce/stubforce/pkg/token"
)

// datePattern matches a bare date or datetime literal at the start of input:
// YYYY-MM-DD with an optional THH:MM:SS suffix. A bare token of this shape is
// classified as a date literal even though it is unquoted; the grammar has no
// arithmetic, so the dashes are unambiguous.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}:\d{2})?`)

// Lexer tokenizes query text.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
	line    int  // current line number (1-based)
	col     int  // current column number (1-based)
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// Tokenize returns all tokens from the input, excluding the trailing EOF
// token. It fails with a SyntaxError on an unterminated string literal or an
// unrecognized character.
func Tokenize(input string) ([]token.Token, error) {
	l := NewLexer(input)
	var tokens []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if tok.Type == token.EOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// currentPos returns the current position.
func (l *Lexer) currentPos() token.Position {
	return token.Position{
		Line:   l.line,
		Column: l.col,
		Offset: l.pos,
	}
}

// Next returns the next token.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespace()

	pos := l.currentPos()

	var tok token.Token
	tok.Pos = pos

	switch l.ch {
	case 0:
		tok.Type = token.EOF
		tok.Literal = ""
		return tok, nil
	case '=':
		tok = l.newToken(token.EQ, "=")
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.NE, Literal: "!=", Pos: pos}
		} else {
			return token.Token{}, syntaxErrorf(pos, "unrecognized character %q", string(l.ch))
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.LE, Literal: "<=", Pos: pos}
		} else {
			tok = l.newToken(token.LT, "<")
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.GE, Literal: ">=", Pos: pos}
		} else {
			tok = l.newToken(token.GT, ">")
		}
	case ',':
		tok = l.newToken(token.COMMA, ",")
	case '.':
		tok = l.newToken(token.DOT, ".")
	case '*':
		tok = l.newToken(token.STAR, "*")
	case '\'':
		text, err := l.readString(pos)
		if err != nil {
			return token.Token{}, err
		}
		return token.Token{Type: token.STRING, Literal: text, Pos: pos}, nil
	case '-':
		// The grammar has no subtraction, so a dash only legally begins a
		// negative number literal.
		if isDigit(l.peekChar()) {
			l.readChar()
			num := "-" + l.readNumber()
			return token.Token{Type: token.NUMBER, Literal: num, Pos: pos}, nil
		}
		return token.Token{}, syntaxErrorf(pos, "unrecognized character %q", "-")
	default:
		switch {
		case isDigit(l.ch):
			if m := datePattern.FindString(l.input[l.pos:]); m != "" && !isIdentChar(l.charAt(l.pos+len(m))) {
				for range m {
					l.readChar()
				}
				return token.Token{Type: token.DATE, Literal: m, Pos: pos}, nil
			}
			return token.Token{Type: token.NUMBER, Literal: l.readNumber(), Pos: pos}, nil
		case isLetter(l.ch) || l.ch == '_':
			lit := l.readIdentifier()
			// Keywords are case-insensitive; identifiers keep original casing.
			return token.Token{Type: token.LookupIdent(strings.ToLower(lit)), Literal: lit, Pos: pos}, nil
		default:
			return token.Token{}, syntaxErrorf(pos, "unrecognized character %q", string(l.ch))
		}
	}

	l.readChar()
	return tok, nil
}

// newToken creates a new token at the current position.
func (l *Lexer) newToken(t token.Type, literal string) token.Token {
	return token.Token{Type: t, Literal: literal, Pos: l.currentPos()}
}

// skipWhitespace skips spaces, tabs and newlines.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readString reads a single-quoted string literal and returns its unescaped
// text. Both backslash escapes (\' \\) and doubled quotes ('') are accepted.
func (l *Lexer) readString(start token.Position) (string, error) {
	l.readChar() // skip opening quote

	var result strings.Builder
	for {
		switch l.ch {
		case 0:
			return "", syntaxErrorf(start, "unterminated string literal")
		case '\\':
			next := l.peekChar()
			if next == '\'' || next == '\\' {
				result.WriteByte(next)
				l.readChar() // skip backslash
				l.readChar() // skip escaped char
				continue
			}
			result.WriteByte(l.ch)
			l.readChar()
		case '\'':
			if l.peekChar() == '\'' {
				// Doubled quote escape
				result.WriteByte('\'')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // skip closing quote
			return result.String(), nil
		default:
			result.WriteByte(l.ch)
			l.readChar()
		}
	}
}

// readIdentifier reads an unquoted identifier.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isIdentChar(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// readNumber reads a numeric literal (integer or decimal).
func (l *Lexer) readNumber() string {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.pos]
}

// charAt returns the byte at the given offset, or 0 past the end.
func (l *Lexer) charAt(offset int) byte {
	if offset >= len(l.input) {
		return 0
	}
	return l.input[offset]
}

func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch))
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_'
}

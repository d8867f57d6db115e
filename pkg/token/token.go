// Package token defines the lexical tokens of the stubforce query dialect.
//
// The dialect is a deliberately small SELECT grammar (SELECT / FROM / WHERE /
// AND / ORDER BY / LIMIT), so unlike a full SQL tokenizer the set of types
// fits in a single block of constants.
package token

import "fmt"

// Type identifies the lexical class of a token.
type Type int32

const (
	// Special tokens
	EOF Type = iota
	ILLEGAL

	// Literals and identifiers
	IDENT  // FirstName, Account
	NUMBER // 42, 3.14, -7
	STRING // 'hello'
	DATE   // 2024-01-01, 2024-01-01T10:30:00

	// Operators
	EQ // =
	NE // !=
	LT // <
	GT // >
	LE // <=
	GE // >=

	// Punctuation
	COMMA // ,
	DOT   // .
	STAR  // *

	// Keywords
	SELECT
	FROM
	WHERE
	AND
	ORDER
	BY
	LIMIT
	ASC
	DESC
)

// Kind is the coarse classification of a token, used by error messages and
// by the literal normalizer to reason about literal/column compatibility.
type Kind string

// Kind values.
const (
	KindKeyword     Kind = "keyword"
	KindIdentifier  Kind = "identifier"
	KindOperator    Kind = "operator"
	KindString      Kind = "string literal"
	KindNumber      Kind = "number literal"
	KindDate        Kind = "date literal"
	KindPunctuation Kind = "punctuation"
	KindSpecial     Kind = "special"
)

// typeNames maps token types to their display form.
var typeNames = map[Type]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",
	DATE:   "DATE",

	EQ: "=",
	NE: "!=",
	LT: "<",
	GT: ">",
	LE: "<=",
	GE: ">=",

	COMMA: ",",
	DOT:   ".",
	STAR:  "*",

	SELECT: "SELECT",
	FROM:   "FROM",
	WHERE:  "WHERE",
	AND:    "AND",
	ORDER:  "ORDER",
	BY:     "BY",
	LIMIT:  "LIMIT",
	ASC:    "ASC",
	DESC:   "DESC",
}

// keywords maps lowercase keyword strings to their token types.
// Keyword matching is case-insensitive; the lexer lowercases before lookup.
var keywords = map[string]Type{
	"select": SELECT,
	"from":   FROM,
	"where":  WHERE,
	"and":    AND,
	"order":  ORDER,
	"by":     BY,
	"limit":  LIMIT,
	"asc":    ASC,
	"desc":   DESC,
}

// String returns a human-readable representation of the token type.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// Kind returns the coarse classification for the token type.
func (t Type) Kind() Kind {
	switch {
	case t == IDENT:
		return KindIdentifier
	case t == STRING:
		return KindString
	case t == NUMBER:
		return KindNumber
	case t == DATE:
		return KindDate
	case IsKeyword(t):
		return KindKeyword
	case IsOperator(t):
		return KindOperator
	case t == COMMA || t == DOT || t == STAR:
		return KindPunctuation
	default:
		return KindSpecial
	}
}

// LookupIdent returns the token type for the given identifier. If the
// (lowercased) identifier is a keyword, the keyword token type is returned;
// otherwise IDENT.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t Type) bool {
	return t >= SELECT && t <= DESC
}

// IsOperator returns true if the token type is a comparison operator.
func IsOperator(t Type) bool {
	return t >= EQ && t <= GE
}

// Token represents a lexical token with position information. Tokens are
// immutable: the lexer produces them once per query and the parser only
// reads them.
type Token struct {
	Type    Type
	Literal string
	Pos     Position
}

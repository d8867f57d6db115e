package soql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stubforce/stubforce/pkg/soql"
	"github.com/stubforce/stubforce/pkg/token"
)

func TestTokenizeBasicQuery(t *testing.T) {
	tokens, err := soql.Tokenize("SELECT Id, Name FROM Account")
	require.NoError(t, err)

	types := make([]token.Type, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	assert.Equal(t, []token.Type{
		token.SELECT, token.IDENT, token.COMMA, token.IDENT,
		token.FROM, token.IDENT,
	}, types)

	assert.Equal(t, "Id", tokens[1].Literal)
	assert.Equal(t, "Account", tokens[5].Literal)
}

func TestTokenizeKeywordsCaseInsensitive(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  token.Type
	}{
		{"lowercase select", "select", token.SELECT},
		{"mixed case from", "From", token.FROM},
		{"uppercase where", "WHERE", token.WHERE},
		{"lowercase and", "and", token.AND},
		{"mixed order", "Order", token.ORDER},
		{"lowercase limit", "limit", token.LIMIT},
		{"desc", "DESC", token.DESC},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := soql.Tokenize(tt.input)
			require.NoError(t, err)
			require.Len(t, tokens, 1)
			assert.Equal(t, tt.want, tokens[0].Type)
		})
	}
}

func TestTokenizeOperators(t *testing.T) {
	tokens, err := soql.Tokenize("= != < > <= >=")
	require.NoError(t, err)
	require.Len(t, tokens, 6)

	want := []token.Type{token.EQ, token.NE, token.LT, token.GT, token.LE, token.GE}
	for i, tok := range tokens {
		assert.Equal(t, want[i], tok.Type, "token %d", i)
	}
}

func TestTokenizeStringLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "'Acme'", "Acme"},
		{"with space", "'Acme Corp'", "Acme Corp"},
		{"backslash escape", `'O\'Brien'`, "O'Brien"},
		{"doubled quote escape", "'O''Brien'", "O'Brien"},
		{"escaped backslash", `'a\\b'`, `a\b`},
		{"empty", "''", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := soql.Tokenize(tt.input)
			require.NoError(t, err)
			require.Len(t, tokens, 1)
			assert.Equal(t, token.STRING, tokens[0].Type)
			assert.Equal(t, tt.want, tokens[0].Literal)
		})
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := soql.Tokenize("SELECT Id FROM Lead WHERE Name = 'Acme")
	require.Error(t, err)

	var synErr *soql.SyntaxError
	require.ErrorAs(t, err, &synErr)
	assert.Contains(t, err.Error(), "unterminated string")
}

func TestTokenizeNumbers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"integer", "42", "42"},
		{"decimal", "3.14", "3.14"},
		{"negative integer", "-7", "-7"},
		{"negative decimal", "-0.5", "-0.5"},
		{"zero", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := soql.Tokenize(tt.input)
			require.NoError(t, err)
			require.Len(t, tokens, 1)
			assert.Equal(t, token.NUMBER, tokens[0].Type)
			assert.Equal(t, tt.want, tokens[0].Literal)
		})
	}
}

func TestTokenizeDateLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  token.Type
	}{
		{"bare date", "2024-01-15", token.DATE},
		{"bare datetime", "2024-01-15T09:30:00", token.DATE},
		{"plain number stays number", "2024", token.NUMBER},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := soql.Tokenize(tt.input)
			require.NoError(t, err)
			require.Len(t, tokens, 1)
			assert.Equal(t, tt.want, tokens[0].Type)
			assert.Equal(t, tt.input, tokens[0].Literal)
		})
	}
}

func TestTokenizeUnrecognizedCharacter(t *testing.T) {
	for _, input := range []string{"SELECT Id; DROP TABLE lead", "a & b", "#"} {
		_, err := soql.Tokenize(input)
		require.Error(t, err, "input %q", input)

		var synErr *soql.SyntaxError
		require.ErrorAs(t, err, &synErr)
	}
}

func TestTokenizePositions(t *testing.T) {
	tokens, err := soql.Tokenize("SELECT Id\nFROM Lead")
	require.NoError(t, err)
	require.Len(t, tokens, 4)

	assert.Equal(t, 1, tokens[0].Pos.Line)
	assert.Equal(t, 1, tokens[0].Pos.Column)
	assert.Equal(t, 2, tokens[2].Pos.Line)
	assert.Equal(t, 1, tokens[2].Pos.Column)
	assert.Equal(t, 2, tokens[3].Pos.Line)
	assert.Equal(t, 6, tokens[3].Pos.Column)
}

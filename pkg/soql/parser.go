package soql

import (
	"strconv"

	"github.com/stubforce/stubforce/pkg/token"
)

// Parser builds a Query from a token stream, enforcing the restricted
// grammar. Conjunctions are the only predicate combinator; A AND B AND C is
// parsed left-associatively into And(And(A,B),C).
type Parser struct {
	tokens []token.Token
	pos    int
	err    *SyntaxError
}

// Parse tokenizes and parses query text.
func Parse(text string) (*Query, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	return ParseTokens(tokens)
}

// ParseTokens parses an already tokenized query.
func ParseTokens(tokens []token.Token) (*Query, error) {
	p := &Parser{tokens: tokens}
	q := p.parseQuery()
	if p.err != nil {
		return nil, p.err
	}
	return q, nil
}

// ---------- Token helpers ----------

// current returns the current token, or EOF past the end.
func (p *Parser) current() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Type: token.EOF, Pos: p.endPos()}
	}
	return p.tokens[p.pos]
}

// endPos returns the position just past the last token, for errors about
// truncated input.
func (p *Parser) endPos() token.Position {
	if len(p.tokens) == 0 {
		return token.Position{Line: 1, Column: 1}
	}
	last := p.tokens[len(p.tokens)-1]
	return token.Position{
		Line:   last.Pos.Line,
		Column: last.Pos.Column + len(last.Literal),
		Offset: last.Pos.Offset + len(last.Literal),
	}
}

// advance moves to the next token.
func (p *Parser) advance() {
	p.pos++
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.Type) bool {
	return p.current().Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.Type) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise records an error.
func (p *Parser) expect(t token.Type) bool {
	if p.match(t) {
		return true
	}
	p.fail(t.String())
	return false
}

// fail records a syntax error at the current token. Only the first error is
// kept; parsing stops once err is set.
func (p *Parser) fail(expected string) {
	if p.err != nil {
		return
	}
	tok := p.current()
	got := tok.Type.String()
	if tok.Type == token.IDENT || tok.Type == token.NUMBER || tok.Type == token.STRING || tok.Type == token.DATE {
		got = strconv.Quote(tok.Literal)
	}
	p.err = &SyntaxError{Pos: tok.Pos, Got: got, Expected: expected}
}

// ---------- Grammar ----------

// parseQuery parses a complete query.
func (p *Parser) parseQuery() *Query {
	q := &Query{}

	if !p.expect(token.SELECT) {
		return q
	}

	p.parseFieldList(q)

	if !p.expect(token.FROM) {
		return q
	}
	if !p.check(token.IDENT) {
		p.fail("object name")
		return q
	}
	q.Object = p.current().Literal
	p.advance()

	if p.match(token.WHERE) {
		q.Where = p.parsePredicate()
	}

	if p.check(token.ORDER) {
		p.advance()
		if !p.expect(token.BY) {
			return q
		}
		q.OrderBy = p.parseOrderList()
	}

	if p.match(token.LIMIT) {
		q.Limit = p.parseLimit()
	}

	if p.err == nil && !p.check(token.EOF) {
		p.fail("end of query")
	}

	return q
}

// parseFieldList parses "*" or a comma-separated field list.
func (p *Parser) parseFieldList(q *Query) {
	if p.match(token.STAR) {
		q.Star = true
		return
	}

	for {
		field, ok := p.parseFieldRef()
		if !ok {
			return
		}
		q.Fields = append(q.Fields, field)

		if !p.match(token.COMMA) {
			return
		}
	}
}

// parseFieldRef parses a field reference. Relationship dot-notation is kept
// as a single dotted name; the resolver decides whether the catalog knows it.
func (p *Parser) parseFieldRef() (FieldRef, bool) {
	if !p.check(token.IDENT) {
		p.fail("field name")
		return FieldRef{}, false
	}

	tok := p.current()
	name := tok.Literal
	p.advance()

	for p.check(token.DOT) {
		p.advance()
		if !p.check(token.IDENT) {
			p.fail("field name after '.'")
			return FieldRef{}, false
		}
		name += "." + p.current().Literal
		p.advance()
	}

	return FieldRef{Name: name, Pos: tok.Pos}, true
}

// parsePredicate parses an AND-joined chain of comparisons.
func (p *Parser) parsePredicate() Predicate {
	left := p.parseComparison()
	if left == nil {
		return nil
	}

	var pred Predicate = left
	for p.match(token.AND) {
		right := p.parseComparison()
		if right == nil {
			return nil
		}
		pred = &And{Left: pred, Right: right}
	}
	return pred
}

// parseComparison parses a single field-operator-literal comparison.
func (p *Parser) parseComparison() *Comparison {
	field, ok := p.parseFieldRef()
	if !ok {
		return nil
	}

	op, ok := p.parseOperator()
	if !ok {
		return nil
	}

	lit, ok := p.parseLiteral()
	if !ok {
		return nil
	}

	return &Comparison{Field: field, Operator: op, Literal: lit}
}

// parseOperator parses one of the six comparison operators.
func (p *Parser) parseOperator() (Operator, bool) {
	tok := p.current()
	var op Operator
	switch tok.Type {
	case token.EQ:
		op = OpEq
	case token.NE:
		op = OpNe
	case token.GT:
		op = OpGt
	case token.LT:
		op = OpLt
	case token.GE:
		op = OpGe
	case token.LE:
		op = OpLe
	default:
		p.fail("comparison operator")
		return "", false
	}
	p.advance()
	return op, true
}

// parseLiteral parses a string, number or date literal.
func (p *Parser) parseLiteral() (Literal, bool) {
	tok := p.current()
	switch tok.Type {
	case token.STRING, token.NUMBER, token.DATE:
		p.advance()
		return Literal{Kind: tok.Type.Kind(), Text: tok.Literal, Pos: tok.Pos}, true
	default:
		p.fail("literal")
		return Literal{}, false
	}
}

// parseOrderList parses a comma-separated list of ORDER BY items.
func (p *Parser) parseOrderList() []OrderItem {
	var items []OrderItem
	for {
		field, ok := p.parseFieldRef()
		if !ok {
			return items
		}

		item := OrderItem{Field: field, Direction: Ascending}
		if p.match(token.DESC) {
			item.Direction = Descending
		} else {
			p.match(token.ASC)
		}
		items = append(items, item)

		if !p.match(token.COMMA) {
			return items
		}
	}
}

// parseLimit parses the LIMIT row count, which must be a non-negative integer.
func (p *Parser) parseLimit() *int {
	if !p.check(token.NUMBER) {
		p.fail("row count")
		return nil
	}

	tok := p.current()
	n, err := strconv.Atoi(tok.Literal)
	if err != nil || n < 0 {
		p.fail("non-negative integer")
		return nil
	}
	p.advance()
	return &n
}

// Package soql implements lexing and parsing for the stubforce query
// dialect, a constrained SOQL-style SELECT grammar:
//
//	query      := SELECT fieldList FROM objectName
//	              [WHERE predicate] [ORDER BY orderList] [LIMIT int]
//	fieldList  := "*" | field ("," field)*
//	predicate  := comparison (AND comparison)*
//	comparison := field operator literal
//	orderList  := orderItem ("," orderItem)*
//	orderItem  := field [ASC|DESC]
//
// OR, NOT, IN, parentheses, subqueries, aggregates and joins are not part of
// the dialect and are rejected, not silently extended.
package soql

import "github.com/stubforce/stubforce/pkg/token"

// Query is the parsed representation of a query. Fields preserves the SELECT
// list order and is empty only when Star is set.
type Query struct {
	Fields  []FieldRef
	Star    bool
	Object  string
	Where   Predicate // nil when no WHERE clause
	OrderBy []OrderItem
	Limit   *int // nil when no LIMIT clause
}

// FieldRef is a reference to a field by its logical name, with the position
// it appeared at so resolution errors can point back at the source.
type FieldRef struct {
	Name string
	Pos  token.Position
}

// Direction is an ORDER BY sort direction.
type Direction string

// Direction values. Ascending is the default when neither keyword appears.
const (
	Ascending  Direction = "ASC"
	Descending Direction = "DESC"
)

// OrderItem is a single ORDER BY entry.
type OrderItem struct {
	Field     FieldRef
	Direction Direction
}

// Operator is a comparison operator.
type Operator string

// Operator values.
const (
	OpEq Operator = "="
	OpNe Operator = "!="
	OpGt Operator = ">"
	OpLt Operator = "<"
	OpGe Operator = ">="
	OpLe Operator = "<="
)

// Predicate is the WHERE-clause condition tree. It is a sealed sum type with
// exactly two variants, Comparison and And, so the AND-only grammar
// restriction is structurally enforced: a switch over both variants is
// exhaustive.
type Predicate interface {
	predicateNode()
}

// Comparison is a single field-operator-literal leaf.
type Comparison struct {
	Field    FieldRef
	Operator Operator
	Literal  Literal
}

func (*Comparison) predicateNode() {}

// And is the conjunction of two predicates. A AND B AND C parses
// left-associatively to And(And(A,B),C).
type And struct {
	Left  Predicate
	Right Predicate
}

func (*And) predicateNode() {}

// Literal is a raw literal token as written in the query. Normalization into
// a backend-native value happens later, once the field's column type is known.
type Literal struct {
	Kind token.Kind // KindString, KindNumber or KindDate
	Text string     // unescaped for strings, verbatim otherwise
	Pos  token.Position
}

// Leaves returns the comparison leaves of a predicate tree in left-to-right
// order. A nil predicate has no leaves.
func Leaves(p Predicate) []*Comparison {
	switch n := p.(type) {
	case nil:
		return nil
	case *Comparison:
		return []*Comparison{n}
	case *And:
		return append(Leaves(n.Left), Leaves(n.Right)...)
	default:
		return nil
	}
}

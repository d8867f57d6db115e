// Package compile turns a resolved, normalized query into parameterized SQL
// for the backing store. Literal values are always bound as parameters and
// never interpolated into the query text, so the output is injection-safe by
// construction.
package compile

import (
	"strings"

	"github.com/stubforce/stubforce/internal/catalog"
	"github.com/stubforce/stubforce/pkg/soql"
)

// ColumnBinding records, for one projected column, the logical field name
// the caller asked for alongside the physical column the store returns. The
// envelope builder uses it to re-label output keys and to format values by
// logical type.
type ColumnBinding struct {
	Field       string // logical name, e.g. "FirstName"
	Column      string // physical name, e.g. "first_name"
	LogicalType string

	// Hidden marks a column fetched for the envelope's record URL but not
	// part of the SELECT list; it never appears in the record itself.
	Hidden bool
}

// CompiledQuery is the executable form of a query. It is per-request and
// discarded after execution.
type CompiledQuery struct {
	SQL     string
	Args    []any // ordered, one per placeholder
	Columns []ColumnBinding

	// Object is the logical object name, carried through for the envelope.
	Object string

	// Limited reports whether the query carries its own LIMIT. When false
	// the executor applies its configured row ceiling instead.
	Limited bool
}

// Placeholder renders the parameter placeholder for a 1-based ordinal. The
// style differs per backing store ("?" vs "$n").
type Placeholder func(n int) string

// Compile emits SQL and its ordered parameter list for a resolved query.
// Compilation is deterministic: the same resolved query always yields
// identical query text and argument order.
func Compile(rq *catalog.ResolvedQuery, ph Placeholder) CompiledQuery {
	cq := CompiledQuery{Object: rq.Object.Name}

	var b strings.Builder
	b.WriteString("SELECT ")
	hasID := false
	for i, f := range rq.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Meta.Column)
		cq.Columns = append(cq.Columns, ColumnBinding{
			Field:       f.Meta.Name,
			Column:      f.Meta.Column,
			LogicalType: f.Meta.LogicalType,
		})
		if f.Meta.Name == "Id" {
			hasID = true
		}
	}

	// The record URL needs the row's Id even when it was not selected, so
	// fetch it as a trailing hidden column.
	if !hasID {
		if id, ok := rq.Object.Field("Id"); ok {
			b.WriteString(", ")
			b.WriteString(id.Column)
			cq.Columns = append(cq.Columns, ColumnBinding{
				Field:       id.Name,
				Column:      id.Column,
				LogicalType: id.LogicalType,
				Hidden:      true,
			})
		}
	}

	b.WriteString(" FROM ")
	b.WriteString(rq.Object.Table)

	if rq.Where != nil {
		b.WriteString(" WHERE ")
		compilePredicate(rq.Where, &b, &cq.Args, ph)
	}

	if len(rq.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		for i, item := range rq.OrderBy {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(item.Field.Meta.Column)
			if item.Direction == soql.Descending {
				b.WriteString(" DESC")
			} else {
				b.WriteString(" ASC")
			}
		}
	}

	if rq.Limit != nil {
		b.WriteString(" LIMIT ")
		cq.Args = append(cq.Args, int64(*rq.Limit))
		b.WriteString(ph(len(cq.Args)))
		cq.Limited = true
	}

	cq.SQL = b.String()
	return cq
}

// compilePredicate renders a predicate subtree, appending one parameter per
// comparison leaf in left-to-right order.
func compilePredicate(p catalog.ResolvedPredicate, b *strings.Builder, args *[]any, ph Placeholder) {
	switch n := p.(type) {
	case *catalog.ResolvedComparison:
		b.WriteString(n.Field.Meta.Column)
		b.WriteByte(' ')
		b.WriteString(sqlOperator(n.Operator))
		b.WriteByte(' ')
		*args = append(*args, n.Value)
		b.WriteString(ph(len(*args)))
	case *catalog.ResolvedAnd:
		compilePredicate(n.Left, b, args, ph)
		b.WriteString(" AND ")
		compilePredicate(n.Right, b, args, ph)
	default:
		panic("compile: unknown predicate node")
	}
}

// sqlOperator maps a dialect operator to its SQL spelling. The six
// comparison operators are spelled identically in all supported stores.
func sqlOperator(op soql.Operator) string {
	if op == soql.OpNe {
		return "<>"
	}
	return string(op)
}

package catalog

import (
	"github.com/stubforce/stubforce/pkg/soql"
)

// ResolvedField pairs a query field reference with the catalog metadata it
// resolved to.
type ResolvedField struct {
	Ref  soql.FieldRef
	Meta FieldMeta
}

// ResolvedQuery is a parsed query annotated with catalog metadata. Fields is
// never empty: wildcard selections are expanded during resolution.
type ResolvedQuery struct {
	Object  *Entry
	Fields  []ResolvedField
	Where   ResolvedPredicate // nil when no WHERE clause
	OrderBy []ResolvedOrder
	Limit   *int
}

// ResolvedPredicate mirrors the parser's predicate sum type with resolved
// fields and, after normalization, backend-native literal values.
type ResolvedPredicate interface {
	resolvedPredicateNode()
}

// ResolvedComparison is a resolved comparison leaf. Value is nil until
// NormalizeLiterals runs.
type ResolvedComparison struct {
	Field    ResolvedField
	Operator soql.Operator
	Literal  soql.Literal
	Value    any
}

func (*ResolvedComparison) resolvedPredicateNode() {}

// ResolvedAnd is a resolved conjunction.
type ResolvedAnd struct {
	Left  ResolvedPredicate
	Right ResolvedPredicate
}

func (*ResolvedAnd) resolvedPredicateNode() {}

// ResolvedOrder is a resolved ORDER BY entry.
type ResolvedOrder struct {
	Field     ResolvedField
	Direction soql.Direction
}

// Resolve validates a parsed query against the catalog and annotates every
// field reference with its column metadata. The wildcard expands to all of
// the object's declared fields in declaration order. Every field reference
// in the SELECT list, predicate and ORDER BY is resolved individually so the
// error names the exact offending field.
func Resolve(q *soql.Query, c *Catalog) (*ResolvedQuery, error) {
	obj, ok := c.Object(q.Object)
	if !ok {
		return nil, &ObjectNotFoundError{
			Object:     q.Object,
			Suggestion: Nearest(q.Object, c.ObjectNames()),
		}
	}

	rq := &ResolvedQuery{Object: obj, Limit: q.Limit}

	if q.Star {
		for _, meta := range obj.Fields() {
			rq.Fields = append(rq.Fields, ResolvedField{
				Ref:  soql.FieldRef{Name: meta.Name},
				Meta: meta,
			})
		}
	} else {
		for _, ref := range q.Fields {
			rf, err := resolveField(ref, obj)
			if err != nil {
				return nil, err
			}
			rq.Fields = append(rq.Fields, rf)
		}
	}

	if q.Where != nil {
		where, err := resolvePredicate(q.Where, obj)
		if err != nil {
			return nil, err
		}
		rq.Where = where
	}

	for _, item := range q.OrderBy {
		rf, err := resolveField(item.Field, obj)
		if err != nil {
			return nil, err
		}
		rq.OrderBy = append(rq.OrderBy, ResolvedOrder{Field: rf, Direction: item.Direction})
	}

	return rq, nil
}

// resolveField looks one field reference up on the object.
func resolveField(ref soql.FieldRef, obj *Entry) (ResolvedField, error) {
	meta, ok := obj.Field(ref.Name)
	if !ok {
		return ResolvedField{}, &FieldNotFoundError{
			Object:     obj.Name,
			Field:      ref.Name,
			Suggestion: Nearest(ref.Name, obj.FieldNames()),
		}
	}
	return ResolvedField{Ref: ref, Meta: meta}, nil
}

// resolvePredicate walks the predicate tree resolving each comparison's
// field. Literals stay raw here; NormalizeLiterals fills in typed values.
func resolvePredicate(p soql.Predicate, obj *Entry) (ResolvedPredicate, error) {
	switch n := p.(type) {
	case *soql.Comparison:
		rf, err := resolveField(n.Field, obj)
		if err != nil {
			return nil, err
		}
		return &ResolvedComparison{Field: rf, Operator: n.Operator, Literal: n.Literal}, nil
	case *soql.And:
		left, err := resolvePredicate(n.Left, obj)
		if err != nil {
			return nil, err
		}
		right, err := resolvePredicate(n.Right, obj)
		if err != nil {
			return nil, err
		}
		return &ResolvedAnd{Left: left, Right: right}, nil
	default:
		// The predicate sum type has exactly two variants.
		panic("catalog: unknown predicate node")
	}
}

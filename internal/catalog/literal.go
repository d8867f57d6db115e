package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/stubforce/stubforce/pkg/soql"
	"github.com/stubforce/stubforce/pkg/token"
)

// NormalizeLiterals canonicalizes every literal in the resolved predicate
// into a backend-native value, using each resolved column's declared type.
// A literal whose kind disagrees with the column's type fails with
// TypeMismatchError; a well-kinded but malformed literal (an impossible
// date) fails with LiteralError.
func NormalizeLiterals(rq *ResolvedQuery) error {
	return normalizePredicate(rq.Where)
}

func normalizePredicate(p ResolvedPredicate) error {
	switch n := p.(type) {
	case nil:
		return nil
	case *ResolvedComparison:
		v, err := NormalizeLiteral(n.Literal, n.Field.Meta)
		if err != nil {
			return err
		}
		n.Value = v
		return nil
	case *ResolvedAnd:
		if err := normalizePredicate(n.Left); err != nil {
			return err
		}
		return normalizePredicate(n.Right)
	default:
		panic("catalog: unknown predicate node")
	}
}

// NormalizeLiteral converts one raw literal into the native value for the
// field's logical type.
//
// Date columns accept both bare date-shaped tokens and quoted date strings;
// the source CRM's documentation is inconsistent on quoting, so both are
// accepted uniformly. No other cross-kind conversion is performed.
func NormalizeLiteral(lit soql.Literal, meta FieldMeta) (any, error) {
	switch meta.LogicalType {
	case TypeID, TypeString, TypeAny:
		if lit.Kind != token.KindString {
			return nil, mismatch(lit, meta)
		}
		return lit.Text, nil

	case TypeInt:
		if lit.Kind != token.KindNumber || strings.ContainsRune(lit.Text, '.') {
			return nil, mismatch(lit, meta)
		}
		n, err := strconv.ParseInt(lit.Text, 10, 64)
		if err != nil {
			return nil, &LiteralError{Field: meta.Name, Text: lit.Text, Reason: "integer out of range"}
		}
		return n, nil

	case TypeDouble:
		if lit.Kind != token.KindNumber {
			return nil, mismatch(lit, meta)
		}
		f, err := strconv.ParseFloat(lit.Text, 64)
		if err != nil {
			return nil, &LiteralError{Field: meta.Name, Text: lit.Text, Reason: "malformed number"}
		}
		return f, nil

	case TypeBoolean:
		if lit.Kind != token.KindString {
			return nil, mismatch(lit, meta)
		}
		switch strings.ToLower(lit.Text) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, &LiteralError{Field: meta.Name, Text: lit.Text, Reason: "boolean must be 'true' or 'false'"}

	case TypeDate:
		if lit.Kind != token.KindDate && lit.Kind != token.KindString {
			return nil, mismatch(lit, meta)
		}
		t, err := time.Parse("2006-01-02", lit.Text)
		if err != nil {
			return nil, &LiteralError{Field: meta.Name, Text: lit.Text, Reason: "malformed date, expected YYYY-MM-DD"}
		}
		// Bound as the canonical string: sqlite compares date columns
		// textually, and all three stores cast it for comparison.
		return t.Format("2006-01-02"), nil

	case TypeDatetime:
		if lit.Kind != token.KindDate && lit.Kind != token.KindString {
			return nil, mismatch(lit, meta)
		}
		return parseDatetime(lit, meta)

	default:
		// Logical types come from the catalog's own mapping table; an
		// unlisted value is a programming error, not bad input.
		panic("catalog: unknown logical type " + meta.LogicalType)
	}
}

// parseDatetime parses a timestamp literal. A date-only literal is promoted
// to midnight so range comparisons against timestamp columns behave as
// expected. The value is bound as the canonical "YYYY-MM-DD HH:MM:SS"
// string, which every supported store compares correctly.
func parseDatetime(lit soql.Literal, meta FieldMeta) (any, error) {
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, lit.Text); err == nil {
			return t.Format("2006-01-02 15:04:05"), nil
		}
	}
	return nil, &LiteralError{
		Field:  meta.Name,
		Text:   lit.Text,
		Reason: "malformed timestamp, expected YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS",
	}
}

func mismatch(lit soql.Literal, meta FieldMeta) *TypeMismatchError {
	return &TypeMismatchError{Field: meta.Name, LogicalType: meta.LogicalType, Literal: lit}
}

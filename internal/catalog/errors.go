package catalog

import (
	"fmt"
	"strings"

	"github.com/stubforce/stubforce/pkg/soql"
)

// ObjectNotFoundError is returned when a query names an object the catalog
// does not declare. It always names the exact object from the query.
type ObjectNotFoundError struct {
	Object     string
	Suggestion string // closest declared name, empty when nothing is close
}

func (e *ObjectNotFoundError) Error() string {
	msg := fmt.Sprintf("no such object %q", e.Object)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// FieldNotFoundError is returned when a field reference does not resolve
// against the object's declared fields. It names the exact offending field.
type FieldNotFoundError struct {
	Object     string
	Field      string
	Suggestion string
}

func (e *FieldNotFoundError) Error() string {
	msg := fmt.Sprintf("no such field %q on object %q", e.Field, e.Object)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// TypeMismatchError is returned when a literal's kind disagrees with the
// resolved column's type. Mismatches are rejected rather than coerced so a
// typo cannot produce wrong-but-plausible results.
type TypeMismatchError struct {
	Field       string
	LogicalType string
	Literal     soql.Literal
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("cannot compare field %q of type %s with %s %q",
		e.Field, e.LogicalType, e.Literal.Kind, e.Literal.Text)
}

// LiteralError is returned for a literal that has the right kind for its
// column but malformed content, such as an impossible calendar date.
type LiteralError struct {
	Field  string
	Text   string
	Reason string
}

func (e *LiteralError) Error() string {
	return fmt.Sprintf("invalid literal %q for field %q: %s", e.Text, e.Field, e.Reason)
}

// Nearest returns the candidate that matches name case-insensitively, or by
// case-insensitive prefix, so not-found errors can suggest the likely intent.
func Nearest(name string, candidates []string) string {
	lower := strings.ToLower(name)
	for _, c := range candidates {
		if strings.ToLower(c) == lower {
			return c
		}
	}
	for _, c := range candidates {
		cl := strings.ToLower(c)
		if strings.HasPrefix(cl, lower) || strings.HasPrefix(lower, cl) {
			return c
		}
	}
	return ""
}

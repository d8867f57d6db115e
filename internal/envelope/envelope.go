// Package envelope shapes executed rows into the CRM wire format: each
// record carries an attributes block followed by the selected fields in
// query order, and the result set is wrapped with totalSize and done.
package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stubforce/stubforce/internal/catalog"
	"github.com/stubforce/stubforce/internal/compile"
	"github.com/stubforce/stubforce/internal/exec"
)

// Attributes identifies a record's object type and canonical URL.
type Attributes struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// Field is one named value within a record. Values are already converted
// to their JSON representation.
type Field struct {
	Name  string
	Value any
}

// Record is one result row in wire shape. Field order is the query's
// SELECT order, which standard map-based marshaling would destroy, so
// Record marshals itself.
type Record struct {
	Attributes Attributes
	Fields     []Field
}

// MarshalJSON emits attributes first, then fields in declaration order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.WriteString(`"attributes":`)
	attrs, err := json.Marshal(r.Attributes)
	if err != nil {
		return nil, err
	}
	buf.Write(attrs)
	for _, f := range r.Fields {
		buf.WriteByte(',')
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// QueryResult is the top-level query response envelope.
type QueryResult struct {
	TotalSize int      `json:"totalSize"`
	Done      bool     `json:"done"`
	Records   []Record `json:"records"`
}

// Builder converts executed rows into envelopes for one API version.
type Builder struct {
	apiVersion string
}

// NewBuilder returns a Builder emitting URLs for the given API version,
// e.g. "59.0".
func NewBuilder(apiVersion string) *Builder {
	return &Builder{apiVersion: apiVersion}
}

// Wrap shapes rows into a QueryResult. Row values are converted per the
// column's logical type; NULLs come through as explicit JSON nulls. The
// record URL uses the row's Id, which the compiler fetches as a hidden
// column when the SELECT list leaves it out.
func (b *Builder) Wrap(cq compile.CompiledQuery, rows []exec.Row) (QueryResult, error) {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec, err := b.record(cq, row)
		if err != nil {
			return QueryResult{}, err
		}
		records = append(records, rec)
	}
	return QueryResult{TotalSize: len(records), Done: true, Records: records}, nil
}

func (b *Builder) record(cq compile.CompiledQuery, row exec.Row) (Record, error) {
	rec := Record{
		Attributes: Attributes{Type: cq.Object},
		Fields:     make([]Field, 0, len(cq.Columns)),
	}
	var id string
	for i, col := range cq.Columns {
		val, err := convert(row[i], col.LogicalType)
		if err != nil {
			return Record{}, fmt.Errorf("field %s: %w", col.Field, err)
		}
		if col.Field == "Id" {
			if s, ok := val.(string); ok {
				id = s
			}
		}
		if col.Hidden {
			continue
		}
		rec.Fields = append(rec.Fields, Field{Name: col.Field, Value: val})
	}
	rec.Attributes.URL = fmt.Sprintf("/services/data/v%s/sobjects/%s/%s", b.apiVersion, cq.Object, id)
	return rec, nil
}

// convert renders a scanned value per its logical type. Drivers disagree on
// scan types (sqlite reports strings, duckdb native types), so conversion
// accepts both shapes for each logical type.
func convert(v any, logical string) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch logical {
	case catalog.TypeID, catalog.TypeString:
		return toString(v), nil
	case catalog.TypeInt:
		switch n := v.(type) {
		case int64:
			return n, nil
		case int32:
			return int64(n), nil
		case int:
			return int64(n), nil
		case float64:
			return int64(n), nil
		case []byte, string:
			return toString(v), nil
		}
		return v, nil
	case catalog.TypeDouble:
		switch n := v.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case []byte, string:
			return toString(v), nil
		}
		return v, nil
	case catalog.TypeBoolean:
		switch b := v.(type) {
		case bool:
			return b, nil
		case int64:
			return b != 0, nil
		case string:
			return b == "true" || b == "1", nil
		case []byte:
			s := string(b)
			return s == "true" || s == "1", nil
		}
		return v, nil
	case catalog.TypeDate:
		return formatTime(v, "2006-01-02")
	case catalog.TypeDatetime:
		return formatTime(v, time.RFC3339)
	default:
		if b, ok := v.([]byte); ok {
			return string(b), nil
		}
		return v, nil
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatTime(v any, layout string) (any, error) {
	switch t := v.(type) {
	case time.Time:
		return t.Format(layout), nil
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	default:
		return nil, fmt.Errorf("unexpected temporal value %T", v)
	}
}

// Package catalog maintains the read-only registry mapping logical CRM
// object and field names to backing-store tables, columns and type metadata.
//
// A Catalog is built once at startup by introspecting the backing store and
// is immutable afterwards; a refresh builds a new Catalog and swaps the
// pointer, it never mutates a served instance.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stubforce/stubforce/internal/adapter"
)

// Logical field types exposed by the describe API.
const (
	TypeID       = "id"
	TypeString   = "string"
	TypeInt      = "int"
	TypeDouble   = "double"
	TypeBoolean  = "boolean"
	TypeDate     = "date"
	TypeDatetime = "datetime"

	// TypeAny is the named fallback for backend types the mapping table does
	// not know. Describe reports the field rather than dropping it.
	TypeAny = "anyType"
)

// logicalTypes maps normalized backend type names to logical field types.
// It covers every type the duckdb, sqlite and postgres introspection paths
// report for the demo schema; anything else falls back to TypeAny.
var logicalTypes = map[string]string{
	"VARCHAR":           TypeString,
	"CHARACTER VARYING": TypeString,
	"CHAR":              TypeString,
	"CHARACTER":         TypeString,
	"TEXT":              TypeString,
	"STRING":            TypeString,

	"BOOLEAN": TypeBoolean,
	"BOOL":    TypeBoolean,

	"TINYINT":  TypeInt,
	"SMALLINT": TypeInt,
	"INT2":     TypeInt,
	"INTEGER":  TypeInt,
	"INT":      TypeInt,
	"INT4":     TypeInt,
	"BIGINT":   TypeInt,
	"INT8":     TypeInt,
	"HUGEINT":  TypeInt,

	"REAL":             TypeDouble,
	"FLOAT":            TypeDouble,
	"DOUBLE":           TypeDouble,
	"DOUBLE PRECISION": TypeDouble,
	"NUMERIC":          TypeDouble,
	"DECIMAL":          TypeDouble,

	"DATE": TypeDate,

	"DATETIME":                    TypeDatetime,
	"TIMESTAMP":                   TypeDatetime,
	"TIMESTAMPTZ":                 TypeDatetime,
	"TIMESTAMP WITH TIME ZONE":    TypeDatetime,
	"TIMESTAMP WITHOUT TIME ZONE": TypeDatetime,
}

// FieldMeta describes one logical field of an object.
type FieldMeta struct {
	Name        string // logical field name, e.g. "FirstName"
	Column      string // physical column name, e.g. "first_name"
	BackendType string // declared backend type, e.g. "VARCHAR"
	LogicalType string // describe type, e.g. "string"
	Nullable    bool
	Createable  bool
	Updateable  bool
}

// Label returns the human-readable field label, e.g. "First Name".
func (f FieldMeta) Label() string {
	return splitCamel(f.Name)
}

// Entry maps one logical object to its backing table. Field order is the
// column declaration order reported by introspection; wildcard expansion and
// describe output both depend on it, so it is kept explicitly.
type Entry struct {
	Name  string // logical object name, e.g. "Lead"
	Table string // physical table name, e.g. "lead"

	fields []FieldMeta
	index  map[string]int // logical field name -> fields offset
}

// Label returns the human-readable object label.
func (e *Entry) Label() string {
	return splitCamel(e.Name)
}

// Fields returns the object's fields in declaration order. The slice is
// shared; callers must not modify it.
func (e *Entry) Fields() []FieldMeta {
	return e.fields
}

// Field looks up a field by its logical name. Lookup is exact and
// case-sensitive.
func (e *Entry) Field(name string) (FieldMeta, bool) {
	if i, ok := e.index[name]; ok {
		return e.fields[i], true
	}
	return FieldMeta{}, false
}

// FieldNames returns the logical field names in declaration order.
func (e *Entry) FieldNames() []string {
	names := make([]string, len(e.fields))
	for i, f := range e.fields {
		names[i] = f.Name
	}
	return names
}

// Catalog is the process-wide object registry. It is immutable once built.
type Catalog struct {
	entries []*Entry
	index   map[string]*Entry
}

// Build introspects the backing store and constructs a Catalog. Every user
// table becomes one object; object and field names are derived from the
// physical names (snake_case column -> CamelCase field).
func Build(ctx context.Context, a adapter.Adapter, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	tables, err := a.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	c := &Catalog{index: make(map[string]*Entry, len(tables))}
	for _, table := range tables {
		meta, err := a.TableMetadata(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("failed to introspect table %s: %w", table, err)
		}

		entry := buildEntry(meta)
		c.entries = append(c.entries, entry)
		c.index[entry.Name] = entry

		logger.Debug("registered object",
			slog.String("object", entry.Name),
			slog.String("table", entry.Table),
			slog.Int("fields", len(entry.fields)))
	}

	return c, nil
}

// NewEntry constructs an entry from explicit field metadata, preserving the
// given field order.
func NewEntry(name, table string, fields []FieldMeta) *Entry {
	e := &Entry{Name: name, Table: table, fields: fields, index: make(map[string]int, len(fields))}
	for i, f := range fields {
		e.index[f.Name] = i
	}
	return e
}

// buildEntry converts introspected table metadata into a catalog entry.
func buildEntry(meta *adapter.TableMetadata) *Entry {
	entry := &Entry{
		Name:  camelName(meta.Name),
		Table: meta.Name,
		index: make(map[string]int, len(meta.Columns)),
	}

	for _, col := range meta.Columns {
		name := camelName(col.Name)
		field := FieldMeta{
			Name:        name,
			Column:      col.Name,
			BackendType: col.Type,
			LogicalType: logicalType(col.Name, col.Type),
			Nullable:    col.Nullable,
			Createable:  name != "Id" && name != "CreatedDate",
			Updateable:  name != "Id" && name != "CreatedDate",
		}
		entry.index[field.Name] = len(entry.fields)
		entry.fields = append(entry.fields, field)
	}

	return entry
}

// Object looks up an object by its logical name. Lookup is exact and
// case-sensitive.
func (c *Catalog) Object(name string) (*Entry, bool) {
	e, ok := c.index[name]
	return e, ok
}

// Objects returns all entries in table-listing order. The slice is shared;
// callers must not modify it.
func (c *Catalog) Objects() []*Entry {
	return c.entries
}

// ObjectNames returns all logical object names in table-listing order.
func (c *Catalog) ObjectNames() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// logicalType maps a backend type to the describe type. The "id" column is
// special-cased the way the CRM reports it.
func logicalType(column, backendType string) string {
	if column == "id" {
		return TypeID
	}
	if t, ok := logicalTypes[normalizeType(backendType)]; ok {
		return t
	}
	return TypeAny
}

// normalizeType uppercases a declared type and strips any length or
// precision suffix, so VARCHAR(80) and varchar both map.
func normalizeType(t string) string {
	t = strings.ToUpper(strings.TrimSpace(t))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

// camelName converts a snake_case physical name to the CamelCase logical
// name: "first_name" -> "FirstName", "id" -> "Id".
func camelName(s string) string {
	var b strings.Builder
	for _, part := range strings.Split(s, "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// splitCamel inserts spaces between the words of a CamelCase name:
// "AnnualRevenue" -> "Annual Revenue".
func splitCamel(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

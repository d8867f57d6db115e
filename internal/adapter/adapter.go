// Package adapter provides backing-store adapters for the mock CRM. An
// adapter owns the live database connection; everything above it works with
// logical names and parameterized SQL.
package adapter

import (
	"context"
	"database/sql"
)

// Config holds the configuration for connecting to a backing store.
type Config struct {
	// Type specifies the store type (e.g. "duckdb", "sqlite", "postgres").
	Type string

	// Path is the file path for file-based stores. Use ":memory:" for an
	// in-memory database.
	Path string

	// Host is the hostname for network-based stores.
	Host string

	// Port is the port number for network-based stores.
	Port int

	// Database is the database name.
	Database string

	// Username for authentication.
	Username string

	// Password for authentication.
	Password string

	// Options contains additional driver-specific options.
	Options map[string]string
}

// Column describes one column of a backing-store table, as reported by
// schema introspection.
type Column struct {
	// Name is the physical column name.
	Name string

	// Type is the declared backend data type.
	Type string

	// Nullable indicates whether the column allows NULL values.
	Nullable bool

	// Position is the ordinal position of the column in the table.
	Position int
}

// TableMetadata holds introspected metadata about one table. Columns are in
// ordinal position order.
type TableMetadata struct {
	Name    string
	Columns []Column
}

// Adapter is the interface all backing-store adapters implement.
type Adapter interface {
	// Connect establishes a connection using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the connection and releases resources.
	Close() error

	// DB exposes the underlying database handle, for tooling that needs it
	// directly (migrations). Returns nil before Connect.
	DB() *sql.DB

	// Exec executes a statement that doesn't return rows.
	Exec(ctx context.Context, query string, args ...any) error

	// Query executes a parameterized statement that returns rows.
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)

	// ListTables returns the user table names, sorted.
	ListTables(ctx context.Context) ([]string, error)

	// TableMetadata introspects one table's columns.
	TableMetadata(ctx context.Context, table string) (*TableMetadata, error)

	// Placeholder returns the parameter placeholder for the 1-based ordinal n
	// ("?" for duckdb/sqlite, "$n" for postgres).
	Placeholder(n int) string

	// Name returns the adapter type name.
	Name() string
}

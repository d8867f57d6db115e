package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite" // sqlite driver
)

func init() {
	Register("sqlite", func(logger *slog.Logger) Adapter { return NewSQLite(logger) })
}

// SQLiteAdapter implements the Adapter interface for sqlite via the pure-Go
// modernc driver.
type SQLiteAdapter struct {
	BaseSQLAdapter
}

// NewSQLite creates a new sqlite adapter instance.
func NewSQLite(logger *slog.Logger) *SQLiteAdapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteAdapter{BaseSQLAdapter: BaseSQLAdapter{Logger: logger}}
}

// Name returns the adapter type name.
func (a *SQLiteAdapter) Name() string { return "sqlite" }

// Placeholder returns the parameter placeholder for ordinal n.
func (a *SQLiteAdapter) Placeholder(int) string { return "?" }

// Connect establishes a connection to sqlite. Use ":memory:" as the path for
// an in-memory database.
func (a *SQLiteAdapter) Connect(ctx context.Context, cfg Config) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	a.Logger.Debug("connecting to sqlite", slog.String("path", path))

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite connection: %w", err)
	}

	// The pipeline hands the pool to concurrent request handlers; a single
	// connection keeps an in-memory database visible to all of them.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite: %w", err)
	}

	a.Conn = db
	a.Cfg = cfg
	return nil
}

// ListTables returns the user table names, sorted. Internal sqlite tables
// and the migration bookkeeping table are excluded.
func (a *SQLiteAdapter) ListTables(ctx context.Context) ([]string, error) {
	if a.Conn == nil {
		return nil, ErrNotConnected
	}

	rows, err := a.Conn.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table'
		  AND name NOT LIKE 'sqlite_%'
		  AND name <> 'goose_db_version'
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return tables, nil
}

// TableMetadata introspects one table's columns via pragma_table_info.
func (a *SQLiteAdapter) TableMetadata(ctx context.Context, table string) (*TableMetadata, error) {
	if a.Conn == nil {
		return nil, ErrNotConnected
	}

	rows, err := a.Conn.QueryContext(ctx, `
		SELECT name, type, "notnull", cid
		FROM pragma_table_info(?)
		ORDER BY cid`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []Column
	for rows.Next() {
		var col Column
		var notNull int
		if err := rows.Scan(&col.Name, &col.Type, &notNull, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Nullable = notNull == 0
		col.Position++ // cid is 0-based; report 1-based like information_schema
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}

	return &TableMetadata{Name: table, Columns: columns}, nil
}

// Ensure SQLiteAdapter implements Adapter interface
var _ Adapter = (*SQLiteAdapter)(nil)

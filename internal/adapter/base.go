package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotConnected is returned when an operation is attempted before Connect.
var ErrNotConnected = errors.New("database connection not established")

// BaseSQLAdapter provides common database/sql functionality. Concrete
// adapters embed it to get standard Close, Exec and Query implementations.
type BaseSQLAdapter struct {
	Conn   *sql.DB
	Cfg    Config
	Logger *slog.Logger
}

// DB returns the underlying database handle.
func (b *BaseSQLAdapter) DB() *sql.DB {
	return b.Conn
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.Conn != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.Conn.Close()
	}
	return nil
}

// Exec executes a statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, query string, args ...any) error {
	if b.Conn == nil {
		return ErrNotConnected
	}
	if _, err := b.Conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to execute statement: %w", err)
	}
	return nil
}

// Query executes a parameterized statement that returns rows.
func (b *BaseSQLAdapter) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if b.Conn == nil {
		return nil, ErrNotConnected
	}
	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := b.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return rows, nil
}

// Package exec runs compiled queries against the backing store. It is the
// only package that touches a live connection; everything above it sees rows
// or a typed error.
package exec

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stubforce/stubforce/internal/adapter"
	"github.com/stubforce/stubforce/internal/compile"
)

// Defaults applied when the caller leaves options zero.
const (
	DefaultTimeout = 5 * time.Second
	DefaultMaxRows = 2000
)

// Row is one result row, with values in compiled column order.
type Row []any

// BackendError wraps a storage failure. The original driver error is
// preserved for errors.Is/As inspection.
type BackendError struct {
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error: %v", e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// TimeoutError is returned when query execution exceeds the configured
// ceiling.
type TimeoutError struct {
	Ceiling time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("query execution exceeded %s ceiling", e.Ceiling)
}

// Executor runs compiled queries with a timeout ceiling and a row cap.
// It is stateless apart from its configuration and safe for concurrent use.
type Executor struct {
	adapter adapter.Adapter
	timeout time.Duration
	maxRows int
	logger  *slog.Logger
}

// Options configure an Executor.
type Options struct {
	// Timeout is the per-query execution ceiling.
	Timeout time.Duration

	// MaxRows caps result size for queries that carry no LIMIT of their own.
	MaxRows int
}

// New creates an Executor over the given adapter.
func New(a adapter.Adapter, opts Options, logger *slog.Logger) *Executor {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRows <= 0 {
		opts.MaxRows = DefaultMaxRows
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Executor{adapter: a, timeout: opts.Timeout, maxRows: opts.MaxRows, logger: logger}
}

// Execute runs a compiled query and scans all rows, in compiled column
// order. Execution is bounded by the configured timeout; exceeding it
// returns TimeoutError. Storage failures return BackendError; a transient
// connection failure is retried once before giving up. Syntax and
// resolution failures never reach this layer, so nothing else is retried.
func (e *Executor) Execute(ctx context.Context, cq compile.CompiledQuery) ([]Row, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	rows, err := e.query(ctx, cq)
	if err != nil {
		return nil, e.classify(ctx, err)
	}

	e.logger.Debug("query executed",
		slog.String("sql", cq.SQL),
		slog.Int("params", len(cq.Args)),
		slog.Duration("elapsed", time.Since(start)))

	return rows, nil
}

// query runs the compiled statement, retrying once on a bad connection.
func (e *Executor) query(ctx context.Context, cq compile.CompiledQuery) ([]Row, error) {
	rows, err := e.scan(ctx, cq)
	if err != nil && errors.Is(err, driver.ErrBadConn) && ctx.Err() == nil {
		e.logger.Warn("retrying query after connection failure", slog.String("sql", cq.SQL))
		return e.scan(ctx, cq)
	}
	return rows, err
}

// scan executes the statement and drains the result set. The connection is
// scoped to this call: rows are closed on every exit path.
func (e *Executor) scan(ctx context.Context, cq compile.CompiledQuery) ([]Row, error) {
	rs, err := e.adapter.Query(ctx, cq.SQL, cq.Args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rs.Close() }()

	rowCap := e.maxRows
	if cq.Limited {
		rowCap = 0 // the query bounds itself
	}

	var out []Row
	for rs.Next() {
		if rowCap > 0 && len(out) >= rowCap {
			e.logger.Warn("row ceiling reached, truncating result",
				slog.String("object", cq.Object), slog.Int("max_rows", rowCap))
			break
		}

		row := make(Row, len(cq.Columns))
		dest := make([]any, len(cq.Columns))
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rs.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// classify turns a raw execution failure into the executor's error taxonomy.
func (e *Executor) classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Ceiling: e.timeout}
	}
	return &BackendError{Err: err}
}

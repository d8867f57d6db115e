// Package seed provisions the demo dataset: lead, account, and contact
// tables with CRM-style 18-character ids. The sqlite path runs embedded
// goose migrations; duckdb and postgres get the same schema applied
// directly, since goose has no duckdb dialect.
package seed

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/stubforce/stubforce/internal/adapter"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Apply provisions the schema and demo rows on the adapter's store.
// Already seeded stores are left alone.
func Apply(ctx context.Context, a adapter.Adapter, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	seeded, err := isSeeded(ctx, a)
	if err != nil {
		return fmt.Errorf("checking seed state: %w", err)
	}
	if seeded {
		logger.Debug("store already seeded, skipping")
		return nil
	}

	if a.Name() == "sqlite" {
		return applyGoose(a, logger)
	}
	return applyDirect(ctx, a, logger)
}

func isSeeded(ctx context.Context, a adapter.Adapter) (bool, error) {
	tables, err := a.ListTables(ctx)
	if err != nil {
		return false, err
	}
	for _, t := range tables {
		if t == "lead" {
			return true, nil
		}
	}
	return false, nil
}

func applyGoose(a adapter.Adapter, logger *slog.Logger) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.Up(a.DB(), "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("seeded store via migrations", slog.String("adapter", a.Name()))
	return nil
}

func applyDirect(ctx context.Context, a adapter.Adapter, logger *slog.Logger) error {
	for _, stmt := range schemaStatements(a.Name()) {
		if err := a.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying seed statement: %w", err)
		}
	}
	logger.Info("seeded store", slog.String("adapter", a.Name()))
	return nil
}

// schemaStatements returns the schema and data statements for backends
// that do not go through goose. Postgres spells DOUBLE differently.
func schemaStatements(backend string) []string {
	stmts := append([]string{}, schemaDDL...)
	stmts = append(stmts, seedRows...)
	if backend == "postgres" {
		for i, s := range stmts {
			stmts[i] = strings.ReplaceAll(s, " DOUBLE,", " DOUBLE PRECISION,")
		}
	}
	return stmts
}

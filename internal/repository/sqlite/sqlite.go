// Package sqlite stores projects in a local SQLite database. It backs
// development and tests with the same unit-of-work contract as Postgres.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"assistant/internal/domain/repositories"
)

// driverName defines the registered modernc driver.
const driverName = "sqlite"

// DB wraps the database handle and implements repositories.TransactionManager.
type DB struct {
	db *sql.DB
}

// Open opens the database at path, creating its directory if needed.
func Open(path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer keeps SQLite from failing concurrent transactions with SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// EnsureSchema creates the given project tables.
func (d *DB) EnsureSchema(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		stmts := []string{
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				meta TEXT NOT NULL DEFAULT '{}',
				items TEXT NOT NULL DEFAULT '[]',
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			);`, table),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_created_at_idx ON %s (created_at, id);`, table, table),
		}
		for _, stmt := range stmts {
			if _, err := d.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("ensure table %s: %w", table, err)
			}
		}
	}
	return nil
}

// DropTables removes the given project tables.
func (d *DB) DropTables(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		if _, err := d.db.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s;`, table)); err != nil {
			return fmt.Errorf("drop table %s: %w", table, err)
		}
	}
	return nil
}

type txContextKey struct{}

// ExecTx runs fn in a transaction. Store calls made with the ctx passed to
// fn use that transaction.
func (d *DB) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(context.WithValue(ctx, txContextKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// execer is the query surface shared by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func (d *DB) executor(ctx context.Context) execer {
	if tx, ok := ctx.Value(txContextKey{}).(*sql.Tx); ok {
		return tx
	}
	return d.db
}

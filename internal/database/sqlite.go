package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

var sqlitePragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
}

var sqliteMigrations = []string{
	`CREATE TABLE IF NOT EXISTS valuation_history (
		id             TEXT PRIMARY KEY,
		created_at     TEXT NOT NULL,
		market_version TEXT NOT NULL,
		area_name      TEXT NOT NULL,
		property_class TEXT NOT NULL,
		total_value    REAL NOT NULL,
		input          TEXT NOT NULL,
		result         TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_valuation_history_created_at
		ON valuation_history (created_at DESC)`,
}

// OpenSQLite opens (or creates) a SQLite history database at path, creating
// parent directories as needed, and applies the history schema.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	// One writer keeps WAL mode free of SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)

	if err := setupSQLite(ctx, db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("%w (also failed to close: %v)", err, closeErr)
		}
		return nil, err
	}
	return db, nil
}

func setupSQLite(ctx context.Context, db *sql.DB) error {
	for _, p := range sqlitePragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("failed to execute %s: %w", p, err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	for i, stmt := range sqliteMigrations {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("sqlite migration %d failed: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}
	return nil
}

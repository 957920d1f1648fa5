package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// migrations are applied in order inside one transaction; every statement
// must be idempotent.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS valuation_history (
		id             UUID PRIMARY KEY,
		created_at     TIMESTAMPTZ NOT NULL,
		market_version TEXT NOT NULL,
		area_name      TEXT NOT NULL,
		property_class TEXT NOT NULL,
		total_value    DOUBLE PRECISION NOT NULL,
		input          JSONB NOT NULL,
		result         JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_valuation_history_created_at
		ON valuation_history (created_at DESC)`,
}

// Migrate creates the tables the history store needs.
func (db *Database) Migrate(ctx context.Context) error {
	return db.WithTx(ctx, func(tx pgx.Tx) error {
		for i, stmt := range migrations {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migration %d failed: %w", i+1, err)
			}
		}
		return nil
	})
}

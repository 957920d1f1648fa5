package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/propdata-pk/propdata/internal/database"
	"github.com/propdata-pk/propdata/internal/models"
)

// postgresHistory stores valuations in the valuation_history table.
type postgresHistory struct {
	db *database.Database
}

// NewPostgresHistory creates a history backed by PostgreSQL. The schema is
// created by database.Migrate.
func NewPostgresHistory(db *database.Database) HistoryRepository {
	return &postgresHistory{db: db}
}

// Save inserts rec. Input and result are stored as JSONB so the stored
// figures are exactly those the engine returned.
func (r *postgresHistory) Save(ctx context.Context, rec *models.ValuationRecord) error {
	input, err := json.Marshal(rec.Input)
	if err != nil {
		return fmt.Errorf("failed to encode valuation input: %w", err)
	}
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("failed to encode valuation result: %w", err)
	}

	query := `
		INSERT INTO valuation_history (
			id, created_at, market_version, area_name, property_class,
			total_value, input, result
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.Pool.Exec(ctx, query,
		rec.ID.String(),
		rec.CreatedAt,
		rec.MarketVersion,
		rec.Result.AreaName,
		string(rec.Result.PropertyClass),
		rec.Result.TotalValue,
		string(input),
		string(result),
	)
	if err != nil {
		return fmt.Errorf("failed to insert valuation %s: %w", rec.ID, err)
	}
	return nil
}

// Recent returns the newest valuations first.
func (r *postgresHistory) Recent(ctx context.Context, limit int) ([]models.ValuationRecord, error) {
	query := `
		SELECT id::text, created_at, market_version, input, result
		FROM valuation_history
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query valuation history (limit=%d): %w", limit, err)
	}
	defer rows.Close()

	results := []models.ValuationRecord{}
	for rows.Next() {
		var (
			rec        models.ValuationRecord
			id         string
			input, res []byte
		)
		if err := rows.Scan(&id, &rec.CreatedAt, &rec.MarketVersion, &input, &res); err != nil {
			return nil, fmt.Errorf("failed to scan valuation row: %w", err)
		}
		if rec.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid valuation id %q: %w", id, err)
		}
		if err := json.Unmarshal(input, &rec.Input); err != nil {
			return nil, fmt.Errorf("failed to decode input for valuation %s: %w", id, err)
		}
		if err := json.Unmarshal(res, &rec.Result); err != nil {
			return nil, fmt.Errorf("failed to decode result for valuation %s: %w", id, err)
		}
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating valuation rows: %w", err)
	}

	return results, nil
}

func (r *postgresHistory) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *postgresHistory) Name() string { return "postgres" }

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/propdata-pk/propdata/internal/models"
)

// sqliteTimeLayout is fixed width so created_at sorts correctly as text.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteHistory stores valuations in a local SQLite file. The schema is
// created by database.OpenSQLite.
type sqliteHistory struct {
	db *sql.DB
}

// NewSQLiteHistory creates a history backed by an open SQLite database.
func NewSQLiteHistory(db *sql.DB) HistoryRepository {
	return &sqliteHistory{db: db}
}

func (r *sqliteHistory) Save(ctx context.Context, rec *models.ValuationRecord) error {
	input, err := json.Marshal(rec.Input)
	if err != nil {
		return fmt.Errorf("failed to encode valuation input: %w", err)
	}
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("failed to encode valuation result: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO valuation_history
		(id, created_at, market_version, area_name, property_class, total_value, input, result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(),
		rec.CreatedAt.UTC().Format(sqliteTimeLayout),
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

func (r *sqliteHistory) Recent(ctx context.Context, limit int) ([]models.ValuationRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, created_at, market_version, input, result
		FROM valuation_history
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query valuation history (limit=%d): %w", limit, err)
	}
	defer rows.Close()

	out := []models.ValuationRecord{}
	for rows.Next() {
		var (
			rec           models.ValuationRecord
			id, created   string
			input, result string
		)
		if err := rows.Scan(&id, &created, &rec.MarketVersion, &input, &result); err != nil {
			return nil, fmt.Errorf("failed to scan valuation row: %w", err)
		}
		if rec.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid valuation id %q: %w", id, err)
		}
		if rec.CreatedAt, err = time.Parse(sqliteTimeLayout, created); err != nil {
			return nil, fmt.Errorf("invalid timestamp for valuation %s: %w", id, err)
		}
		if err := json.Unmarshal([]byte(input), &rec.Input); err != nil {
			return nil, fmt.Errorf("failed to decode input for valuation %s: %w", id, err)
		}
		if err := json.Unmarshal([]byte(result), &rec.Result); err != nil {
			return nil, fmt.Errorf("failed to decode result for valuation %s: %w", id, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating valuation rows: %w", err)
	}
	return out, nil
}

func (r *sqliteHistory) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *sqliteHistory) Name() string { return "sqlite" }

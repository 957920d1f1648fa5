package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/propdata-pk/propdata/internal/config"
	"github.com/propdata-pk/propdata/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getTestConfig returns database configuration for integration tests.
func getTestConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:     getEnvOrDefault("DB_HOST", "host.docker.internal"),
		Port:     getEnvOrDefault("DB_PORT", "5432"),
		Name:     getEnvOrDefault("DB_NAME", "propdata"),
		User:     getEnvOrDefault("DB_USER", "postgres"),
		Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
		PoolMin:  1,
		PoolMax:  5,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// setupPostgresHistory connects, migrates and returns a history repository.
// The test is skipped when no database is reachable.
func setupPostgresHistory(t *testing.T) (HistoryRepository, *database.Database) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := database.NewPostgresPool(ctx, getTestConfig())
	if err != nil {
		t.Skipf("Skipping integration test, database unavailable: %v", err)
	}
	require.NoError(t, db.Migrate(ctx))

	return NewPostgresHistory(db), db
}

func TestPostgresHistory_SaveAndRecent(t *testing.T) {
	repo, db := setupPostgresHistory(t)
	defer db.Close()

	ctx := context.Background()
	rec := testRecord("DHA Phase 6", 12_750_000, time.Now().Add(time.Hour))
	require.NoError(t, repo.Save(ctx, rec))
	defer func() {
		_, _ = db.Pool.Exec(ctx, "DELETE FROM valuation_history WHERE id = $1", rec.ID.String())
	}()

	got, err := repo.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, rec.ID, got[0].ID)
	assert.Equal(t, "test", got[0].MarketVersion)
	assert.Equal(t, rec.Input, got[0].Input)
	assert.Equal(t, rec.Result, got[0].Result)
	assert.WithinDuration(t, rec.CreatedAt, got[0].CreatedAt, time.Millisecond)
}

func TestPostgresHistory_Ping(t *testing.T) {
	repo, db := setupPostgresHistory(t)
	defer db.Close()

	assert.NoError(t, repo.Ping(context.Background()))
	assert.Equal(t, "postgres", repo.Name())
}

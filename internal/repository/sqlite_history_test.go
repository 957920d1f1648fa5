package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/propdata-pk/propdata/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLiteHistory(t *testing.T) HistoryRepository {
	t.Helper()
	db, err := database.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteHistory(db)
}

func TestSQLiteHistory_SaveAndRecent(t *testing.T) {
	ctx := context.Background()
	repo := setupSQLiteHistory(t)
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	// Saved out of order; Recent sorts by creation time.
	saved := testRecord("Clifton Block 2", 42_000_000, base.Add(2*time.Second))
	require.NoError(t, repo.Save(ctx, testRecord("Lyari", 6_000_000, base)))
	require.NoError(t, repo.Save(ctx, saved))
	require.NoError(t, repo.Save(ctx, testRecord("Korangi", 9_500_000, base.Add(time.Second))))

	got, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Clifton Block 2", "Korangi", "Lyari"},
		[]string{got[0].Input.AreaName, got[1].Input.AreaName, got[2].Input.AreaName})

	first := got[0]
	assert.Equal(t, saved.ID, first.ID)
	assert.True(t, saved.CreatedAt.Equal(first.CreatedAt))
	assert.Equal(t, saved.MarketVersion, first.MarketVersion)
	assert.Equal(t, saved.Input, first.Input)
	assert.Equal(t, saved.Result, first.Result)

	got, err = repo.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSQLiteHistory_SubSecondOrdering(t *testing.T) {
	ctx := context.Background()
	repo := setupSQLiteHistory(t)
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, testRecord("Earlier", 1, base.Add(900*time.Millisecond))))
	require.NoError(t, repo.Save(ctx, testRecord("Later", 1, base.Add(time.Second+10*time.Millisecond))))

	got, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Later", got[0].Input.AreaName)
}

func TestSQLiteHistory_Empty(t *testing.T) {
	repo := setupSQLiteHistory(t)

	got, err := repo.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, repo.Ping(context.Background()))
	assert.Equal(t, "sqlite", repo.Name())
}

func TestSQLiteHistory_DuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := setupSQLiteHistory(t)
	rec := testRecord("Lyari", 1, time.Now())

	require.NoError(t, repo.Save(ctx, rec))
	assert.Error(t, repo.Save(ctx, rec))
}

func TestSQLiteHistory_ConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	repo := setupSQLiteHistory(t)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- repo.Save(ctx, testRecord(fmt.Sprintf("Area %d", i), float64(i), time.Now()))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := repo.Recent(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, got, 20)
}

package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/propdata-pk/propdata/internal/models"
	"github.com/propdata-pk/propdata/internal/valuation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(area string, total float64, at time.Time) *models.ValuationRecord {
	in := valuation.PropertyRecord{
		AreaName: area, Size: 200, PropertyClass: valuation.Residential,
		ConstructionYear: 2015, RoadWidth: 30, AsOfYear: 2025,
	}
	res := valuation.ValuationResult{
		AreaName: area, PropertyClass: valuation.Residential, Size: 200, AsOfYear: 2025,
		BaseRateUsed: 50000, TierMultiplier: 1.5, DepreciationFactor: 0.85,
		RoadFactor: 1, ClassAdjustment: 1, PricePerUnitArea: total / 200, TotalValue: total,
	}
	return models.NewValuationRecord("test", in, res, at)
}

func TestMemoryHistory_RecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryHistory(10)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, testRecord(fmt.Sprintf("Area %d", i), float64(i), base.Add(time.Duration(i)*time.Minute))))
	}

	got, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Area 2", got[0].Input.AreaName)
	assert.Equal(t, "Area 0", got[2].Input.AreaName)

	got, err = repo.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Area 2", got[0].Input.AreaName)
}

func TestMemoryHistory_DropsOldest(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryHistory(2)
	now := time.Now()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Save(ctx, testRecord(fmt.Sprintf("Area %d", i), 1, now)))
	}

	got, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Area 4", got[0].Input.AreaName)
	assert.Equal(t, "Area 3", got[1].Input.AreaName)
}

func TestMemoryHistory_Empty(t *testing.T) {
	repo := NewMemoryHistory(0)

	got, err := repo.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, repo.Ping(context.Background()))
	assert.Equal(t, "memory", repo.Name())
}

func TestMemoryHistory_ConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryHistory(1000)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.Save(ctx, testRecord("Lyari", float64(i), time.Now()))
		}(i)
	}
	wg.Wait()

	got, err := repo.Recent(ctx, 1000)
	require.NoError(t, err)
	assert.Len(t, got, 100)
}

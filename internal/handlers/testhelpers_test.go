package handlers

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/propdata-pk/propdata/internal/config"
	"github.com/propdata-pk/propdata/internal/logger"
	"github.com/propdata-pk/propdata/internal/middleware"
	"github.com/propdata-pk/propdata/internal/models"
	"github.com/propdata-pk/propdata/internal/repository"
	"github.com/propdata-pk/propdata/internal/services"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// unreachableHistory is a history store whose health check always fails.
type unreachableHistory struct {
	repository.HistoryRepository
	err error
}

func (u unreachableHistory) Ping(context.Context) error { return u.err }

// brokenHistory fails every read.
type brokenHistory struct {
	repository.HistoryRepository
	err error
}

func (b brokenHistory) Recent(context.Context, int) ([]models.ValuationRecord, error) {
	return nil, b.err
}

// newTestService builds a service over the built-in Karachi market pinned to
// the 2025 valuation year. history may be nil.
func newTestService(t testing.TB, history repository.HistoryRepository) services.ValuationService {
	t.Helper()
	engine, err := config.LoadEngine("")
	require.NoError(t, err)
	return services.NewValuationService(engine, history, nil, logger.Nop(), services.ServiceConfig{
		AsOfYear: 2025,
		Now:      func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) },
	})
}

// setupTestRouter creates a router with the request ID and logger middleware
// the error envelope relies on.
func setupTestRouter() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.New("test", logger.WithOutput(io.Discard))))
	return router
}

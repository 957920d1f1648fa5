package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/propdata-pk/propdata/internal/config"
	"github.com/propdata-pk/propdata/internal/database"
	"github.com/propdata-pk/propdata/internal/handlers"
	"github.com/propdata-pk/propdata/internal/logger"
	"github.com/propdata-pk/propdata/internal/metrics"
	"github.com/propdata-pk/propdata/internal/middleware"
	"github.com/propdata-pk/propdata/internal/repository"
	"github.com/propdata-pk/propdata/internal/services"
)

const (
	serviceName       = "propdata-api"
	shutdownTimeout   = 30 * time.Second
	readHeaderTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.Env, logger.WithLevel(cfg.Log.Level))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("PropData API stopped", err, nil)
	}
	log.Info("Server exited", nil)
}

// run serves the API until ctx is cancelled, then drains in-flight requests.
func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	log.Info("Starting PropData API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	engine, err := config.LoadEngine(cfg.Market.File)
	if err != nil {
		return fmt.Errorf("load market definition %q: %w", cfg.Market.File, err)
	}
	market := engine.Market()
	log.Info("Market definition loaded", map[string]interface{}{
		"market":     market.Name,
		"version":    market.Version,
		"areas":      engine.Tiers().Len(),
		"as_of_year": cfg.Market.AsOfYear,
	})

	history, closeHistory, err := openHistory(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeHistory()

	m := metrics.New(metrics.DefaultConfig(serviceName))
	svc := services.NewValuationService(engine, history, m, log, services.ServiceConfig{
		AsOfYear: cfg.Market.AsOfYear,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           newRouter(cfg, log, m, svc),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server...", map[string]interface{}{"timeout": shutdownTimeout.String()})
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func newRouter(cfg *config.Config, log *logger.Logger, m *metrics.Metrics, svc services.ValuationService) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.Stack(log, cfg.CORS.Origins, m)...)

	router.GET(middleware.MetricsPath, middleware.MetricsEndpoint(m))
	handlers.RegisterRoutes(
		router,
		handlers.NewHealthHandler(svc, cfg.Server.Env),
		handlers.NewValuationHandler(svc),
	)
	return router
}

// openHistory builds the configured history store. The returned func
// releases whatever the store holds open.
func openHistory(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.HistoryRepository, func(), error) {
	noop := func() {}
	breaker := repository.BreakerConfig{
		FailureThreshold: cfg.History.BreakerFailures,
		OpenTimeout:      cfg.History.BreakerTimeout,
	}

	switch cfg.History.Store {
	case config.HistoryStoreNone:
		log.Info("Valuation history disabled", nil)
		return nil, noop, nil

	case config.HistoryStoreSQLite:
		db, err := database.OpenSQLite(ctx, cfg.History.SQLitePath)
		if err != nil {
			return nil, noop, fmt.Errorf("open history database: %w", err)
		}
		log.Info("History database ready", map[string]interface{}{
			"store": config.HistoryStoreSQLite,
			"path":  cfg.History.SQLitePath,
		})
		closeDB := func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close history database", err, nil)
			}
		}
		return repository.WithBreaker(repository.NewSQLiteHistory(db), breaker, log), closeDB, nil

	case config.HistoryStorePostgres:
		db, err := database.NewPostgresPool(ctx, cfg.Database)
		if err != nil {
			return nil, noop, fmt.Errorf("connect to history database %s:%s/%s: %w",
				cfg.Database.Host, cfg.Database.Port, cfg.Database.Name, err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, noop, fmt.Errorf("migrate history database: %w", err)
		}
		log.Info("History database ready", map[string]interface{}{
			"store":    config.HistoryStorePostgres,
			"database": cfg.Database.Name,
			"pool_min": cfg.Database.PoolMin,
			"pool_max": cfg.Database.PoolMax,
		})
		return repository.WithBreaker(repository.NewPostgresHistory(db), breaker, log), db.Close, nil

	default:
		log.Info("Valuation history kept in memory", map[string]interface{}{
			"limit": cfg.History.Limit,
		})
		return repository.NewMemoryHistory(cfg.History.Limit), noop, nil
	}
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/propdata-pk/propdata/internal/logger"
	"github.com/propdata-pk/propdata/internal/models"
	"github.com/sony/gobreaker"
)

// ErrHistoryUnavailable is returned without touching the store while the
// breaker is open.
var ErrHistoryUnavailable = errors.New("valuation history is temporarily unavailable")

// BreakerConfig controls when a failing history store is taken out of the
// request path.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before a trial request.
	OpenTimeout time.Duration
}

// DefaultBreakerConfig returns the settings used when none are configured.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{FailureThreshold: 5, OpenTimeout: 30 * time.Second}
}

type breakerHistory struct {
	inner HistoryRepository
	cb    *gobreaker.CircuitBreaker
}

// WithBreaker guards inner with a circuit breaker. Once FailureThreshold
// consecutive calls fail, Save and Recent fail fast with ErrHistoryUnavailable
// until a trial call succeeds after OpenTimeout.
func WithBreaker(inner HistoryRepository, cfg BreakerConfig, log *logger.Logger) HistoryRepository {
	if log == nil {
		log = logger.Nop()
	}
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 1
	}
	log = log.WithComponent("history")

	settings := gobreaker.Settings{
		Name:        "history-" + inner.Name(),
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("History circuit breaker state changed", map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	}

	return &breakerHistory{inner: inner, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *breakerHistory) Save(ctx context.Context, rec *models.ValuationRecord) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.inner.Save(ctx, rec)
	})
	return b.translate(err)
}

func (b *breakerHistory) Recent(ctx context.Context, limit int) ([]models.ValuationRecord, error) {
	v, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Recent(ctx, limit)
	})
	if err != nil {
		return nil, b.translate(err)
	}
	return v.([]models.ValuationRecord), nil
}

// Ping reports an open breaker as unreachable without probing the store.
func (b *breakerHistory) Ping(ctx context.Context) error {
	if b.cb.State() == gobreaker.StateOpen {
		return fmt.Errorf("%w: %s is open", ErrHistoryUnavailable, b.cb.Name())
	}
	return b.inner.Ping(ctx)
}

func (b *breakerHistory) Name() string { return b.inner.Name() }

func (b *breakerHistory) translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s", ErrHistoryUnavailable, err)
	}
	return err
}

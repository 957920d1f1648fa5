package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/propdata-pk/propdata/internal/logger"
	"github.com/propdata-pk/propdata/internal/metrics"
	"github.com/propdata-pk/propdata/internal/models"
	"github.com/propdata-pk/propdata/internal/repository"
	"github.com/propdata-pk/propdata/internal/valuation"
)

// History limit bounds
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// Service-level errors
var (
	ErrHistoryDisabled     = errors.New("valuation history is disabled")
	ErrInvalidHistoryLimit = errors.New("history limit must be between 1 and 100")
)

// ValuationService defines the interface for valuation business operations.
type ValuationService interface {
	// Evaluate prices rec. A zero AsOfYear is replaced by the configured
	// valuation year. Domain errors from the engine are returned unchanged.
	// The valuation is recorded in history when a store is configured; a
	// history failure is logged and does not affect the result.
	Evaluate(ctx context.Context, rec valuation.PropertyRecord) (*models.ValuationRecord, error)

	// Recent returns recorded valuations, newest first.
	// Returns ErrHistoryDisabled when no history store is configured.
	// Returns ErrInvalidHistoryLimit if limit is outside [1, MaxHistoryLimit].
	Recent(ctx context.Context, limit int) ([]models.ValuationRecord, error)

	// Area returns a single tier table entry or valuation.ErrUnknownArea.
	Area(name string) (valuation.LocationTierEntry, error)

	// Areas lists tier table entries, optionally restricted to one cluster.
	Areas(cluster string) []valuation.LocationTierEntry

	// Clusters lists the market's cluster names.
	Clusters() []string

	// RoadBands lists the configured road-width bands.
	RoadBands() []valuation.WidthBand

	// RoadCeiling bounds the band factors. The commercial strategy weights
	// the band factor for frontage, so commercial results may exceed it.
	RoadCeiling() float64

	// Market describes the loaded market definition.
	Market() valuation.MarketInfo

	// HistoryEnabled reports whether valuations are being recorded.
	HistoryEnabled() bool

	// Ping checks the history store, if any.
	Ping(ctx context.Context) error
}

// ServiceConfig tunes a ValuationService.
type ServiceConfig struct {
	// AsOfYear pins the valuation year; 0 uses the current calendar year.
	AsOfYear int
	// Now is the clock used to stamp records and derive the default year.
	Now func() time.Time
}

// valuationService is the concrete implementation of ValuationService.
type valuationService struct {
	engine  *valuation.Engine
	history repository.HistoryRepository
	metrics *metrics.Metrics
	log     *logger.Logger
	cfg     ServiceConfig
}

// NewValuationService creates a new instance of ValuationService.
// history and m may be nil.
func NewValuationService(engine *valuation.Engine, history repository.HistoryRepository, m *metrics.Metrics, log *logger.Logger, cfg ServiceConfig) ValuationService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &valuationService{
		engine:  engine,
		history: history,
		metrics: m,
		log:     log.WithComponent("valuation"),
		cfg:     cfg,
	}
}

// Evaluate runs the engine and records the outcome.
func (s *valuationService) Evaluate(ctx context.Context, rec valuation.PropertyRecord) (*models.ValuationRecord, error) {
	now := s.cfg.Now()
	if rec.AsOfYear == 0 {
		rec.AsOfYear = s.asOfYear(now)
	}

	fields := map[string]interface{}{
		"area":              rec.AreaName,
		"class":             rec.PropertyClass,
		"size":              rec.Size,
		"construction_year": rec.ConstructionYear,
		"road_width":        rec.RoadWidth,
		"as_of_year":        rec.AsOfYear,
	}

	res, err := s.engine.Evaluate(rec)
	if err != nil {
		code := valuation.Code(err)
		if code == "" {
			code = metrics.OutcomeError
		}
		s.recordFailure(rec.PropertyClass, strings.ToLower(code))
		fields["reason"] = err.Error()
		s.log.Warn("Valuation rejected", fields)
		return nil, err
	}

	out := models.NewValuationRecord(s.engine.Market().Version, rec, res, now)

	if s.metrics != nil {
		s.metrics.RecordValuation(string(res.PropertyClass), res.TotalValue)
	}
	fields["valuation_id"] = out.ID.String()
	fields["price_per_unit_area"] = res.PricePerUnitArea
	fields["total_value"] = res.TotalValue
	s.log.Info("Valuation completed", fields)

	s.saveHistory(ctx, out)

	return out, nil
}

func (s *valuationService) saveHistory(ctx context.Context, rec *models.ValuationRecord) {
	if s.history == nil {
		return
	}

	err := s.history.Save(ctx, rec)
	if s.metrics != nil {
		s.metrics.RecordHistoryWrite(s.history.Name(), err == nil)
	}
	if err != nil {
		s.log.Error("Failed to record valuation history", err, map[string]interface{}{
			"valuation_id": rec.ID.String(),
			"store":        s.history.Name(),
		})
	}
}

func (s *valuationService) recordFailure(class valuation.PropertyClass, outcome string) {
	if s.metrics == nil {
		return
	}
	label := "unknown"
	for _, c := range valuation.PropertyClasses {
		if c == class {
			label = string(c)
		}
	}
	s.metrics.RecordValuationFailure(label, outcome)
}

func (s *valuationService) asOfYear(now time.Time) int {
	if s.cfg.AsOfYear > 0 {
		return s.cfg.AsOfYear
	}
	return now.Year()
}

// Recent returns the newest recorded valuations.
func (s *valuationService) Recent(ctx context.Context, limit int) ([]models.ValuationRecord, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	if limit < 1 || limit > MaxHistoryLimit {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHistoryLimit, limit)
	}

	records, err := s.history.Recent(ctx, limit)
	if err != nil {
		s.log.Error("Failed to read valuation history", err, map[string]interface{}{
			"limit": limit,
			"store": s.history.Name(),
		})
		return nil, fmt.Errorf("failed to read valuation history: %w", err)
	}

	s.log.Debug("Valuation history read", map[string]interface{}{
		"limit": limit,
		"count": len(records),
	})
	return records, nil
}

func (s *valuationService) Area(name string) (valuation.LocationTierEntry, error) {
	return s.engine.Tiers().Lookup(name)
}

func (s *valuationService) Areas(cluster string) []valuation.LocationTierEntry {
	if cluster == "" {
		return s.engine.Tiers().Entries()
	}
	return s.engine.Tiers().EntriesInCluster(cluster)
}

func (s *valuationService) Clusters() []string {
	return s.engine.Tiers().Clusters()
}

func (s *valuationService) RoadBands() []valuation.WidthBand {
	return s.engine.Road().Bands()
}

func (s *valuationService) RoadCeiling() float64 {
	return s.engine.Road().Ceiling()
}

func (s *valuationService) Market() valuation.MarketInfo {
	return s.engine.Market()
}

func (s *valuationService) HistoryEnabled() bool {
	return s.history != nil
}

func (s *valuationService) Ping(ctx context.Context) error {
	if s.history == nil {
		return nil
	}
	return s.history.Ping(ctx)
}

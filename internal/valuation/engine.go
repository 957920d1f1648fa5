// Package valuation implements the parametric property valuation model: a
// location tier table, building depreciation, a road-width adjustment and one
// pricing strategy per property class. Everything here is pure and immutable
// after construction, so an Engine is safe for concurrent use.
package valuation

import (
	"fmt"
	"math"
)

// PropertyRecord is the input to a single valuation.
type PropertyRecord struct {
	AreaName         string        `json:"area_name"`
	Size             float64       `json:"size"`
	PropertyClass    PropertyClass `json:"property_class"`
	ConstructionYear int           `json:"construction_year"`
	RoadWidth        float64       `json:"road_width"`
	AsOfYear         int           `json:"as_of_year"`
}

// ValuationResult is the complete, self-describing output of a valuation.
// Downstream renderers display these figures; they never recompute them.
type ValuationResult struct {
	AreaName           string        `json:"area_name"`
	Cluster            string        `json:"cluster,omitempty"`
	PropertyClass      PropertyClass `json:"property_class"`
	Size               float64       `json:"size"`
	AsOfYear           int           `json:"as_of_year"`
	BaseRateUsed       float64       `json:"base_rate_used"`
	TierMultiplier     float64       `json:"tier_multiplier"`
	DepreciationFactor float64       `json:"depreciation_factor"`
	RoadBand           string        `json:"road_band,omitempty"`
	RoadFactor         float64       `json:"road_factor"`
	ClassAdjustment    float64       `json:"class_adjustment"`
	PricePerUnitArea   float64       `json:"price_per_unit_area"`
	TotalValue         float64       `json:"total_value"`
}

// Engine evaluates property records against one market's tables.
type Engine struct {
	info       MarketInfo
	tiers      *TierTable
	road       *RoadAdjustment
	strategies map[PropertyClass]ClassStrategy
}

// New assembles an engine from prebuilt parts. Exactly one strategy must be
// supplied for every entry in PropertyClasses.
func New(info MarketInfo, tiers *TierTable, road *RoadAdjustment, strategies ...ClassStrategy) (*Engine, error) {
	if tiers == nil {
		return nil, fmt.Errorf("engine requires a tier table")
	}
	if road == nil {
		return nil, fmt.Errorf("engine requires a road adjustment")
	}

	byClass := make(map[PropertyClass]ClassStrategy, len(strategies))
	for _, s := range strategies {
		if _, dup := byClass[s.Class()]; dup {
			return nil, fmt.Errorf("duplicate strategy for class %s", s.Class())
		}
		byClass[s.Class()] = s
	}
	for _, c := range PropertyClasses {
		if _, ok := byClass[c]; !ok {
			return nil, fmt.Errorf("no strategy registered for class %s", c)
		}
	}
	if len(byClass) != len(PropertyClasses) {
		return nil, fmt.Errorf("strategies registered for unsupported classes")
	}

	return &Engine{info: info, tiers: tiers, road: road, strategies: byClass}, nil
}

// Evaluate prices rec. It either returns a complete result or the first
// validation error encountered, never both.
func (e *Engine) Evaluate(rec PropertyRecord) (ValuationResult, error) {
	if !(rec.Size > 0) || math.IsInf(rec.Size, 0) {
		return ValuationResult{}, fmt.Errorf("%w: size must be a positive number, got %v", ErrInvalidSize, rec.Size)
	}

	tier, err := e.tiers.Lookup(rec.AreaName)
	if err != nil {
		return ValuationResult{}, err
	}

	strategy, ok := e.strategies[rec.PropertyClass]
	if !ok {
		return ValuationResult{}, fmt.Errorf("%w: %q", ErrUnknownClass, rec.PropertyClass)
	}

	f, err := strategy.Factors(FactorInputs{
		ConstructionYear: rec.ConstructionYear,
		AsOfYear:         rec.AsOfYear,
		RoadWidth:        rec.RoadWidth,
	})
	if err != nil {
		return ValuationResult{}, err
	}

	// Width was validated by the strategy, so the band lookup cannot fail.
	band, _ := e.road.Band(rec.RoadWidth)

	ppua := tier.BaseRate * tier.TierMultiplier * f.Depreciation * f.Road * f.ClassAdjustment
	if !finite(ppua) {
		return ValuationResult{}, fmt.Errorf("price per unit area for %q overflows", tier.AreaName)
	}
	total := ppua * rec.Size
	if !finite(total) {
		return ValuationResult{}, fmt.Errorf("%w: size %v puts the total value out of range", ErrInvalidSize, rec.Size)
	}

	return ValuationResult{
		AreaName:           tier.AreaName,
		Cluster:            tier.Cluster,
		PropertyClass:      rec.PropertyClass,
		Size:               rec.Size,
		AsOfYear:           rec.AsOfYear,
		BaseRateUsed:       tier.BaseRate,
		TierMultiplier:     tier.TierMultiplier,
		DepreciationFactor: f.Depreciation,
		RoadBand:           band.Label,
		RoadFactor:         f.Road,
		ClassAdjustment:    f.ClassAdjustment,
		PricePerUnitArea:   ppua,
		TotalValue:         total,
	}, nil
}

// Finite reports whether every figure in r is a finite number. Evaluate only
// returns finite results; records read back from storage may be checked
// before they are rendered.
func (r ValuationResult) Finite() bool {
	for _, v := range []float64{
		r.Size, r.BaseRateUsed, r.TierMultiplier, r.DepreciationFactor,
		r.RoadFactor, r.ClassAdjustment, r.PricePerUnitArea, r.TotalValue,
	} {
		if !finite(v) {
			return false
		}
	}
	return true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Tiers exposes the engine's read-only tier table.
func (e *Engine) Tiers() *TierTable {
	return e.tiers
}

// Road exposes the engine's road-width adjustment.
func (e *Engine) Road() *RoadAdjustment {
	return e.road
}

// Market describes the market the engine was built for.
func (e *Engine) Market() MarketInfo {
	return e.info
}

package valuation

import (
	"fmt"
	"math"
)

// DepreciationCurve is a linear per-year decay clamped to [Floor, 1].
type DepreciationCurve struct {
	RatePerYear float64 `json:"rate_per_year" mapstructure:"rate_per_year"`
	Floor       float64 `json:"floor" mapstructure:"floor"`
	MinYear     int     `json:"min_year" mapstructure:"min_year"`
}

// Validate checks the curve parameters.
func (d DepreciationCurve) Validate() error {
	if !(d.RatePerYear >= 0) || math.IsInf(d.RatePerYear, 0) {
		return fmt.Errorf("depreciation rate must be non-negative, got %v", d.RatePerYear)
	}
	if !(d.Floor > 0 && d.Floor <= 1) {
		return fmt.Errorf("depreciation floor must be in (0, 1], got %v", d.Floor)
	}
	if d.MinYear < 0 {
		return fmt.Errorf("depreciation min year must be non-negative, got %d", d.MinYear)
	}
	return nil
}

// Compute returns the fraction of value retained by a building constructed
// in constructionYear when valued in asOfYear.
func (d DepreciationCurve) Compute(constructionYear, asOfYear int) (float64, error) {
	if asOfYear <= 0 {
		return 0, fmt.Errorf("%w: as-of year must be positive, got %d", ErrInvalidYear, asOfYear)
	}
	if constructionYear > asOfYear {
		return 0, fmt.Errorf("%w: %d is after the valuation year %d", ErrInvalidYear, constructionYear, asOfYear)
	}
	if constructionYear < d.MinYear {
		return 0, fmt.Errorf("%w: %d is before the earliest supported year %d", ErrInvalidYear, constructionYear, d.MinYear)
	}

	age := float64(asOfYear - constructionYear)
	factor := 1 - d.RatePerYear*age

	return math.Min(1, math.Max(d.Floor, factor)), nil
}

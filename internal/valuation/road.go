package valuation

import (
	"fmt"
	"math"
)

// WidthBand applies Factor to every road at least MinWidth feet wide and
// narrower than the next band's MinWidth.
type WidthBand struct {
	Label    string  `json:"label" mapstructure:"label"`
	MinWidth float64 `json:"min_width_ft" mapstructure:"min_width"`
	Factor   float64 `json:"factor" mapstructure:"factor"`
}

// RoadAdjustment maps frontage width to a multiplier with a banded step
// function. Build it with NewRoadAdjustment.
type RoadAdjustment struct {
	bands   []WidthBand
	ceiling float64
}

// NewRoadAdjustment validates the bands. They must start at zero, ascend by
// MinWidth, and carry non-decreasing factors that never exceed ceiling.
func NewRoadAdjustment(bands []WidthBand, ceiling float64) (*RoadAdjustment, error) {
	if len(bands) == 0 {
		return nil, fmt.Errorf("road adjustment needs at least one width band")
	}
	if !(ceiling > 0) || math.IsInf(ceiling, 0) {
		return nil, fmt.Errorf("road factor ceiling must be positive, got %v", ceiling)
	}
	if bands[0].MinWidth != 0 {
		return nil, fmt.Errorf("first width band must start at 0, got %v", bands[0].MinWidth)
	}

	for i, b := range bands {
		if !(b.Factor > 0) || b.Factor > ceiling {
			return nil, fmt.Errorf("width band %d: factor %v must be in (0, %v]", i, b.Factor, ceiling)
		}
		if i == 0 {
			continue
		}
		prev := bands[i-1]
		if b.MinWidth <= prev.MinWidth {
			return nil, fmt.Errorf("width band %d: min width %v must exceed %v", i, b.MinWidth, prev.MinWidth)
		}
		if b.Factor < prev.Factor {
			return nil, fmt.Errorf("width band %d: factor %v is lower than the narrower band's %v", i, b.Factor, prev.Factor)
		}
	}

	owned := make([]WidthBand, len(bands))
	copy(owned, bands)
	return &RoadAdjustment{bands: owned, ceiling: ceiling}, nil
}

// Compute returns the adjustment factor for a road of the given width in feet.
func (r *RoadAdjustment) Compute(width float64) (float64, error) {
	b, err := r.Band(width)
	if err != nil {
		return 0, err
	}
	return b.Factor, nil
}

// Band returns the band a road of the given width falls into.
func (r *RoadAdjustment) Band(width float64) (WidthBand, error) {
	if !(width > 0) || math.IsInf(width, 0) {
		return WidthBand{}, fmt.Errorf("%w: width must be a positive number of feet, got %v", ErrInvalidWidth, width)
	}

	idx := 0
	for i, b := range r.bands {
		if width >= b.MinWidth {
			idx = i
		}
	}
	return r.bands[idx], nil
}

// Bands returns a copy of the configured bands.
func (r *RoadAdjustment) Bands() []WidthBand {
	out := make([]WidthBand, len(r.bands))
	copy(out, r.bands)
	return out
}

// Ceiling returns the upper bound on the band factors. Class strategies may
// re-weight a band factor, so a priced road factor can exceed it.
func (r *RoadAdjustment) Ceiling() float64 {
	return r.ceiling
}

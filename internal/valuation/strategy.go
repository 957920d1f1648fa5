package valuation

import (
	"fmt"
	"math"
	"strings"
)

// PropertyClass selects the valuation algorithm applied to a parcel.
type PropertyClass string

const (
	Residential PropertyClass = "Residential"
	Commercial  PropertyClass = "Commercial"
)

// PropertyClasses lists every supported class.
var PropertyClasses = []PropertyClass{Residential, Commercial}

// ParsePropertyClass accepts a class name in any letter case.
func ParsePropertyClass(s string) (PropertyClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "residential":
		return Residential, nil
	case "commercial":
		return Commercial, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownClass, s)
	}
}

// FactorInputs carries the parts of a record a class strategy prices.
type FactorInputs struct {
	ConstructionYear int
	AsOfYear         int
	RoadWidth        float64
}

// Factors are the dimensionless multipliers a class strategy produces.
type Factors struct {
	Depreciation    float64
	Road            float64
	ClassAdjustment float64
}

// ClassStrategy is the pricing rule set for one property class.
type ClassStrategy interface {
	Class() PropertyClass
	Factors(in FactorInputs) (Factors, error)
}

// ResidentialRules configures the residential strategy.
type ResidentialRules struct {
	Depreciation DepreciationCurve `json:"depreciation" mapstructure:"depreciation"`
}

// CommercialRules configures the commercial strategy.
type CommercialRules struct {
	Depreciation   DepreciationCurve `json:"depreciation" mapstructure:"depreciation"`
	ClassPremium   float64           `json:"class_premium" mapstructure:"class_premium"`
	FrontageWeight float64           `json:"frontage_weight" mapstructure:"frontage_weight"`
}

type residentialStrategy struct {
	depreciation DepreciationCurve
	road         *RoadAdjustment
}

// NewResidentialStrategy prices homes: building age and road band apply as-is
// and the class adds no premium.
func NewResidentialStrategy(rules ResidentialRules, road *RoadAdjustment) (ClassStrategy, error) {
	if err := rules.Depreciation.Validate(); err != nil {
		return nil, fmt.Errorf("residential rules: %w", err)
	}
	return &residentialStrategy{depreciation: rules.Depreciation, road: road}, nil
}

func (s *residentialStrategy) Class() PropertyClass { return Residential }

func (s *residentialStrategy) Factors(in FactorInputs) (Factors, error) {
	dep, err := s.depreciation.Compute(in.ConstructionYear, in.AsOfYear)
	if err != nil {
		return Factors{}, err
	}
	road, err := s.road.Compute(in.RoadWidth)
	if err != nil {
		return Factors{}, err
	}
	return Factors{Depreciation: dep, Road: road, ClassAdjustment: 1}, nil
}

type commercialStrategy struct {
	depreciation   DepreciationCurve
	road           *RoadAdjustment
	premium        float64
	frontageWeight float64
}

// NewCommercialStrategy prices shops and offices. Commercial value tracks
// frontage, so the road band's deviation from 1 is scaled by FrontageWeight,
// and the class premium is applied on top.
func NewCommercialStrategy(rules CommercialRules, road *RoadAdjustment) (ClassStrategy, error) {
	if err := rules.Depreciation.Validate(); err != nil {
		return nil, fmt.Errorf("commercial rules: %w", err)
	}
	if !(rules.ClassPremium > 0) || math.IsInf(rules.ClassPremium, 0) {
		return nil, fmt.Errorf("commercial rules: class premium must be positive, got %v", rules.ClassPremium)
	}
	if !(rules.FrontageWeight >= 0) || math.IsInf(rules.FrontageWeight, 0) {
		return nil, fmt.Errorf("commercial rules: frontage weight must be non-negative, got %v", rules.FrontageWeight)
	}
	// The narrowest band yields the smallest weighted factor; it must stay positive.
	if lowest := weightFrontage(road.Bands()[0].Factor, rules.FrontageWeight); !(lowest > 0) {
		return nil, fmt.Errorf("commercial rules: frontage weight %v drives the narrowest band to %v", rules.FrontageWeight, lowest)
	}

	return &commercialStrategy{
		depreciation:   rules.Depreciation,
		road:           road,
		premium:        rules.ClassPremium,
		frontageWeight: rules.FrontageWeight,
	}, nil
}

func (s *commercialStrategy) Class() PropertyClass { return Commercial }

func (s *commercialStrategy) Factors(in FactorInputs) (Factors, error) {
	dep, err := s.depreciation.Compute(in.ConstructionYear, in.AsOfYear)
	if err != nil {
		return Factors{}, err
	}
	band, err := s.road.Compute(in.RoadWidth)
	if err != nil {
		return Factors{}, err
	}
	return Factors{
		Depreciation:    dep,
		Road:            weightFrontage(band, s.frontageWeight),
		ClassAdjustment: s.premium,
	}, nil
}

func weightFrontage(factor, weight float64) float64 {
	return 1 + weight*(factor-1)
}

package valuation

import "fmt"

// MarketInfo identifies a market configuration.
type MarketInfo struct {
	Name     string `json:"name" mapstructure:"name"`
	Version  string `json:"version" mapstructure:"version"`
	Currency string `json:"currency" mapstructure:"currency"`
	Unit     string `json:"unit" mapstructure:"unit"`
}

// AreaDefinition is one area inside a cluster. TierMultiplier, when set,
// overrides the cluster's multiplier for this area only.
type AreaDefinition struct {
	Name           string       `mapstructure:"name"`
	BaseRate       float64      `mapstructure:"base_rate"`
	TierMultiplier *float64     `mapstructure:"tier_multiplier"`
	Coordinates    *Coordinates `mapstructure:"coordinates"`
}

// ClusterDefinition groups areas that share a tier multiplier.
type ClusterDefinition struct {
	Name           string           `mapstructure:"name"`
	TierMultiplier float64          `mapstructure:"tier_multiplier"`
	Areas          []AreaDefinition `mapstructure:"areas"`
}

// RoadDefinition configures the road-width adjustment.
type RoadDefinition struct {
	Ceiling float64     `mapstructure:"ceiling"`
	Bands   []WidthBand `mapstructure:"bands"`
}

// MarketDefinition is the full, versioned configuration of a market. It is
// decoded from the market configuration document at start-up.
type MarketDefinition struct {
	Market      MarketInfo          `mapstructure:"market"`
	Clusters    []ClusterDefinition `mapstructure:"clusters"`
	Road        RoadDefinition      `mapstructure:"road"`
	Residential ResidentialRules    `mapstructure:"residential"`
	Commercial  CommercialRules     `mapstructure:"commercial"`
}

// TierEntries flattens the clusters into tier table rows.
func (d MarketDefinition) TierEntries() []LocationTierEntry {
	var entries []LocationTierEntry
	for _, c := range d.Clusters {
		for _, a := range c.Areas {
			mult := c.TierMultiplier
			if a.TierMultiplier != nil {
				mult = *a.TierMultiplier
			}
			entries = append(entries, LocationTierEntry{
				AreaName:       a.Name,
				Cluster:        c.Name,
				BaseRate:       a.BaseRate,
				TierMultiplier: mult,
				Coordinates:    a.Coordinates,
			})
		}
	}
	return entries
}

// NewEngineFromDefinition validates def and builds an engine with the
// residential and commercial strategies.
func NewEngineFromDefinition(def MarketDefinition) (*Engine, error) {
	if def.Market.Name == "" {
		return nil, fmt.Errorf("market name is required")
	}
	if def.Market.Version == "" {
		return nil, fmt.Errorf("market %q: version is required", def.Market.Name)
	}

	tiers, err := NewTierTable(def.TierEntries())
	if err != nil {
		return nil, fmt.Errorf("market %q: %w", def.Market.Name, err)
	}

	road, err := NewRoadAdjustment(def.Road.Bands, def.Road.Ceiling)
	if err != nil {
		return nil, fmt.Errorf("market %q: %w", def.Market.Name, err)
	}

	residential, err := NewResidentialStrategy(def.Residential, road)
	if err != nil {
		return nil, fmt.Errorf("market %q: %w", def.Market.Name, err)
	}
	commercial, err := NewCommercialStrategy(def.Commercial, road)
	if err != nil {
		return nil, fmt.Errorf("market %q: %w", def.Market.Name, err)
	}

	return New(def.Market, tiers, road, residential, commercial)
}

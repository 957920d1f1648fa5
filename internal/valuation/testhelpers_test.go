package valuation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testBands() []WidthBand {
	return []WidthBand{
		{Label: "Narrow Lane (<30ft)", MinWidth: 0, Factor: 0.95},
		{Label: "Standard Street (30-40ft)", MinWidth: 30, Factor: 1.00},
		{Label: "Wide Road (60-80ft)", MinWidth: 60, Factor: 1.08},
		{Label: "Main Boulevard (100ft+)", MinWidth: 100, Factor: 1.15},
	}
}

func testDefinition() MarketDefinition {
	return MarketDefinition{
		Market: MarketInfo{Name: "Karachi", Version: "test", Currency: "PKR", Unit: "sq_yd"},
		Clusters: []ClusterDefinition{
			{
				Name:           "Elite / Premium",
				TierMultiplier: 1.5,
				Areas: []AreaDefinition{
					{Name: "DHA Phase 6", BaseRate: 50000, Coordinates: &Coordinates{Lat: 24.8066, Lng: 67.0555}},
					{Name: "Clifton Block 5", BaseRate: 60000},
				},
			},
			{
				Name:           "Affordable",
				TierMultiplier: 0.9,
				Areas: []AreaDefinition{
					{Name: "Lyari", BaseRate: 35000},
				},
			},
		},
		Road: RoadDefinition{Ceiling: 1.15, Bands: testBands()},
		Residential: ResidentialRules{
			Depreciation: DepreciationCurve{RatePerYear: 0.015, Floor: 0.55, MinYear: 1950},
		},
		Commercial: CommercialRules{
			Depreciation:   DepreciationCurve{RatePerYear: 0.01, Floor: 0.70, MinYear: 1950},
			ClassPremium:   1.6,
			FrontageWeight: 1.5,
		},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngineFromDefinition(testDefinition())
	require.NoError(t, err)
	return engine
}

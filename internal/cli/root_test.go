package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propdata-pk/propdata/internal/services"
	"github.com/propdata-pk/propdata/internal/valuation"
)

// executeCommand runs a command with the given args and captures output.
func executeCommand(args ...string) (string, error) {
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

var dhaHouseArgs = []string{
	"estimate",
	"--area", "DHA Phase 6",
	"--size", "200",
	"--class", "residential",
	"--year", "2015",
	"--road", "30",
	"--as-of", "2025",
}

func TestRootHelp(t *testing.T) {
	out, err := executeCommand("--help")
	require.NoError(t, err)
	assert.Contains(t, out, "estimate")
	assert.Contains(t, out, "areas")
	assert.Contains(t, out, "road-bands")
	assert.Contains(t, out, "history")
}

func TestGlobalFlags(t *testing.T) {
	root := NewRootCmd()

	formatFlag := root.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag, "expected --format flag to exist")
	assert.Equal(t, "text", formatFlag.DefValue)

	marketFlag := root.PersistentFlags().Lookup("market")
	require.NotNil(t, marketFlag, "expected --market flag to exist")
	assert.Equal(t, "", marketFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, err := executeCommand(append(dhaHouseArgs, "--format", "xml")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --format")
}

func TestEstimate_Text(t *testing.T) {
	out, err := executeCommand(dhaHouseArgs...)
	require.NoError(t, err)

	assert.Contains(t, out, "DHA Phase 6 (Elite / Premium)")
	assert.Contains(t, out, "Residential")
	assert.Contains(t, out, "2025")
	assert.Contains(t, out, "PKR 165,000 / sq_yd")
	assert.Contains(t, out, "0.850")
	assert.Contains(t, out, "Standard Street (30-40ft)")
	assert.Contains(t, out, "PKR 35,062,500")
	assert.Contains(t, out, "Market: Karachi 2025.11")
}

func TestEstimate_JSON(t *testing.T) {
	out, err := executeCommand(append(dhaHouseArgs, "--format", "json")...)
	require.NoError(t, err)

	var got estimateOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "2025.11", got.MarketVersion)
	assert.Equal(t, valuation.Residential, got.Valuation.PropertyClass)
	assert.InDelta(t, 35_062_500, got.Valuation.TotalValue, 1e-3)
	assert.Equal(t, "PKR 35,062,500", got.Display.Formatted)
}

func TestEstimate_RequiresFlags(t *testing.T) {
	_, err := executeCommand("estimate", "--area", "DHA Phase 6")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestEstimate_RejectsArgs(t *testing.T) {
	_, err := executeCommand(append(dhaHouseArgs, "extra")...)
	assert.Error(t, err)
}

func TestEstimate_DomainErrors(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		value   string
		wantErr error
	}{
		{"unknown area", "--area", "Mars City", valuation.ErrUnknownArea},
		{"future construction", "--year", "2030", valuation.ErrInvalidYear},
		{"zero road width", "--road", "0", valuation.ErrInvalidWidth},
		{"zero size", "--size", "0", valuation.ErrInvalidSize},
		{"oversized parcel", "--size", "1e308", valuation.ErrInvalidSize},
		{"unknown class", "--class", "industrial", valuation.ErrUnknownClass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(append(dhaHouseArgs, tt.flag, tt.value)...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEstimate_OversizedCommercialParcel(t *testing.T) {
	args := append([]string{}, dhaHouseArgs...)
	args = append(args, "--size", "1e308", "--class", "commercial", "--year", "2020", "--road", "120")

	for _, format := range []string{"text", "json"} {
		t.Run(format, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() {
				_, err = executeCommand(append(args, "--format", format)...)
			})
			assert.ErrorIs(t, err, valuation.ErrInvalidSize)
		})
	}
}

func TestAreas(t *testing.T) {
	out, err := executeCommand("areas")
	require.NoError(t, err)
	assert.Contains(t, out, "AREA")
	assert.Contains(t, out, "Lyari")
	assert.Contains(t, out, "Total: 38 areas")

	out, err = executeCommand("areas", "--cluster", "Affordable")
	require.NoError(t, err)
	assert.Contains(t, out, "Lyari")
	assert.NotContains(t, out, "DHA Phase 6")
	assert.Contains(t, out, "Total: 8 areas")

	out, err = executeCommand("areas", "--cluster", "Nowhere")
	require.NoError(t, err)
	assert.Contains(t, out, "No areas found.")
}

func TestAreas_JSON(t *testing.T) {
	out, err := executeCommand("areas", "--format", "json")
	require.NoError(t, err)

	var areas []valuation.LocationTierEntry
	require.NoError(t, json.Unmarshal([]byte(out), &areas))
	assert.Len(t, areas, 38)
}

func TestRoadBands(t *testing.T) {
	out, err := executeCommand("road-bands")
	require.NoError(t, err)
	assert.Contains(t, out, "Narrow Lane (<30ft)")
	assert.Contains(t, out, "Main Boulevard (100ft+)")
	assert.Contains(t, out, "1.15")
}

const testMarket = `
market:
  name: Testville
  version: "t1"
  currency: PKR
  unit: sq_yd
clusters:
  - name: Core
    tier_multiplier: 1
    areas:
      - name: Old Town
        base_rate: 10000
road:
  ceiling: 1
  bands:
    - { label: any, min_width: 0, factor: 1 }
residential:
  depreciation: { rate_per_year: 0.01, floor: 0.5, min_year: 1900 }
commercial:
  depreciation: { rate_per_year: 0.01, floor: 0.5, min_year: 1900 }
  class_premium: 2
  frontage_weight: 1
`

func TestEstimate_CustomMarket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "market.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testMarket), 0o600))

	out, err := executeCommand("estimate", "--market", path,
		"--area", "Old Town", "--size", "10", "--class", "Commercial",
		"--year", "2020", "--road", "20", "--as-of", "2020")
	require.NoError(t, err)
	assert.Contains(t, out, "PKR 200,000")
	assert.Contains(t, out, "Market: Testville t1")

	_, err = executeCommand("areas", "--market", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPrintAreaTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printAreaTable(&buf, valuation.MarketInfo{Currency: "PKR"}, nil))
	assert.Equal(t, "No areas found.", strings.TrimSpace(buf.String()))
}

func TestHistory_RecordsEstimates(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	out, err := executeCommand(append([]string{"--history", dbPath}, dhaHouseArgs...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded as ")

	out, err = executeCommand("--history", dbPath, "estimate", "--format", "json",
		"--area", "Lyari", "--size", "120", "--class", "residential",
		"--year", "1990", "--road", "20", "--as-of", "2025")
	require.NoError(t, err)
	var est estimateOutput
	require.NoError(t, json.Unmarshal([]byte(out), &est))
	assert.NotEmpty(t, est.ID)

	out, err = executeCommand("--history", dbPath, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "RECORDED")
	assert.Contains(t, out, "PKR 35,062,500")
	assert.Less(t, strings.Index(out, "Lyari"), strings.Index(out, "DHA Phase 6"), "newest first")

	out, err = executeCommand("--history", dbPath, "history", "--limit", "1", "--format", "json")
	require.NoError(t, err)
	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, est.ID, records[0]["id"])
}

func TestHistory_Empty(t *testing.T) {
	out, err := executeCommand("--history", filepath.Join(t.TempDir(), "history.db"), "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No estimates recorded.")
}

func TestHistory_Errors(t *testing.T) {
	_, err := executeCommand("history")
	assert.ErrorIs(t, err, services.ErrHistoryDisabled)

	_, err = executeCommand("--history", filepath.Join(t.TempDir(), "history.db"), "history", "--limit", "0")
	assert.ErrorIs(t, err, services.ErrInvalidHistoryLimit)
}

func TestEstimate_NoHistoryByDefault(t *testing.T) {
	out, err := executeCommand(append(dhaHouseArgs, "--format", "json")...)
	require.NoError(t, err)
	assert.NotContains(t, out, `"id"`)
}

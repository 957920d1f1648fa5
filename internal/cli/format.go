package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/propdata-pk/propdata/internal/models"
	"github.com/propdata-pk/propdata/internal/valuation"
)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printValuation prints a valuation breakdown in text format.
func printValuation(w io.Writer, m valuation.MarketInfo, r valuation.ValuationResult, d valuation.Display) error {
	area := r.AreaName
	if r.Cluster != "" {
		area = fmt.Sprintf("%s (%s)", r.AreaName, r.Cluster)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"Area:", area},
		{"Class:", string(r.PropertyClass)},
		{"Size:", fmt.Sprintf("%g %s", r.Size, m.Unit)},
		{"Valuation year:", fmt.Sprintf("%d", r.AsOfYear)},
		{"Base rate:", fmt.Sprintf("%s / %s", valuation.FormatAmount(m.Currency, r.BaseRateUsed), m.Unit)},
		{"Tier multiplier:", fmt.Sprintf("%.2f", r.TierMultiplier)},
		{"Depreciation:", fmt.Sprintf("%.3f", r.DepreciationFactor)},
		{"Road:", fmt.Sprintf("%.3f (%s)", r.RoadFactor, r.RoadBand)},
		{"Class adjustment:", fmt.Sprintf("%.2f", r.ClassAdjustment)},
		{"Price per " + m.Unit + ":", valuation.FormatAmount(m.Currency, r.PricePerUnitArea)},
		{"Total value:", fmt.Sprintf("%s (%.2f crore, %.0f lakh)", d.Formatted, d.Crore, d.Lakh)},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1]); err != nil {
			return fmt.Errorf("writing valuation row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing valuation: %w", err)
	}

	_, err := fmt.Fprintf(w, "\nMarket: %s %s\n", m.Name, m.Version)
	return err
}

// printAreaTable prints tier table entries as a formatted table.
func printAreaTable(w io.Writer, m valuation.MarketInfo, areas []valuation.LocationTierEntry) error {
	if len(areas) == 0 {
		_, err := fmt.Fprintln(w, "No areas found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "AREA\tCLUSTER\tBASE RATE\tTIER"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(tw, "----\t-------\t---------\t----"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, a := range areas {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\n",
			a.AreaName, a.Cluster, valuation.FormatAmount(m.Currency, a.BaseRate), a.TierMultiplier); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	_, err := fmt.Fprintf(w, "\nTotal: %d areas\n", len(areas))
	return err
}

// printBandTable prints road-width bands as a formatted table.
func printBandTable(w io.Writer, bands []valuation.WidthBand) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "BAND\tFROM (FT)\tFACTOR"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	for _, b := range bands {
		if _, err := fmt.Fprintf(tw, "%s\t%g\t%.2f\n", b.Label, b.MinWidth, b.Factor); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}
	return tw.Flush()
}

// printHistoryTable prints recorded estimates, newest first.
func printHistoryTable(w io.Writer, m valuation.MarketInfo, records []models.ValuationRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No estimates recorded.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "RECORDED\tAREA\tCLASS\tSIZE\tTOTAL\tMARKET"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	for _, r := range records {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%s\t%s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Result.AreaName,
			r.Result.PropertyClass,
			r.Result.Size,
			valuation.FormatAmount(m.Currency, r.Result.TotalValue),
			r.MarketVersion); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}
	return tw.Flush()
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/propdata-pk/propdata/internal/valuation"
)

type estimateFlags struct {
	area     string
	size     float64
	class    string
	year     int
	road     float64
	asOfYear int
}

// estimateOutput is the JSON shape printed by estimate.
type estimateOutput struct {
	ID            string                    `json:"id,omitempty"`
	MarketVersion string                    `json:"market_version"`
	Valuation     valuation.ValuationResult `json:"valuation"`
	Display       valuation.Display         `json:"display"`
}

func newEstimateCmd(opts *globalOptions) *cobra.Command {
	f := &estimateFlags{}

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the value of one property",
		Long:  "Estimate a property's value from its area, size, class, construction year and road width.",
		Example: `  propdata estimate --area "DHA Phase 6" --size 200 --class residential --year 2015 --road 30
  propdata estimate --area "Korangi Industrial" --size 80 --class commercial --year 1998 --road 60 --as-of 2025 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(cmd, opts, f)
		},
	}

	cmd.Flags().StringVar(&f.area, "area", "", "area name exactly as listed by `propdata areas`")
	cmd.Flags().Float64Var(&f.size, "size", 0, "plot size in the market's unit area")
	cmd.Flags().StringVar(&f.class, "class", "", "property class (residential|commercial)")
	cmd.Flags().IntVar(&f.year, "year", 0, "construction year")
	cmd.Flags().Float64Var(&f.road, "road", 0, "road width in feet")
	cmd.Flags().IntVar(&f.asOfYear, "as-of", 0, "valuation year (default: current year)")
	for _, name := range []string{"area", "size", "class", "year", "road"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func runEstimate(cmd *cobra.Command, opts *globalOptions, f *estimateFlags) error {
	class, err := valuation.ParsePropertyClass(f.class)
	if err != nil {
		return err
	}

	svc, done, err := opts.newService(cmd, f.asOfYear)
	if err != nil {
		return err
	}
	defer done()

	rec, err := svc.Evaluate(cmd.Context(), valuation.PropertyRecord{
		AreaName:         strings.TrimSpace(f.area),
		Size:             f.size,
		PropertyClass:    class,
		ConstructionYear: f.year,
		RoadWidth:        f.road,
	})
	if err != nil {
		return err
	}

	market := svc.Market()
	display := valuation.NewDisplay(market.Currency, rec.Result.TotalValue)

	out := estimateOutput{
		MarketVersion: rec.MarketVersion,
		Valuation:     rec.Result,
		Display:       display,
	}
	if svc.HistoryEnabled() {
		out.ID = rec.ID.String()
	}

	if opts.isJSON() {
		return printJSON(cmd.OutOrStdout(), out)
	}
	if err := printValuation(cmd.OutOrStdout(), market, rec.Result, display); err != nil {
		return err
	}
	if out.ID != "" {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Recorded as %s\n", out.ID)
	}
	return err
}

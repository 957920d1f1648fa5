package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newAreasCmd(opts *globalOptions) *cobra.Command {
	var cluster string

	cmd := &cobra.Command{
		Use:   "areas",
		Short: "List the areas the market can value",
		Long:  "List every area in the location tier table with its cluster, base rate and tier multiplier, optionally filtered by cluster.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := opts.newService(cmd, 0)
			if err != nil {
				return err
			}
			defer done()

			areas := svc.Areas(strings.TrimSpace(cluster))
			if opts.isJSON() {
				return printJSON(cmd.OutOrStdout(), areas)
			}
			return printAreaTable(cmd.OutOrStdout(), svc.Market(), areas)
		},
	}

	cmd.Flags().StringVar(&cluster, "cluster", "", "only list areas in this cluster")

	return cmd
}

func newRoadBandsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "road-bands",
		Short: "List the road-width bands and their factors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := opts.newService(cmd, 0)
			if err != nil {
				return err
			}
			defer done()

			bands := svc.RoadBands()
			if opts.isJSON() {
				return printJSON(cmd.OutOrStdout(), bands)
			}
			return printBandTable(cmd.OutOrStdout(), bands)
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/propdata-pk/propdata/internal/services"
)

func newHistoryCmd(opts *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List estimates recorded with --history",
		Long:  "List the most recent estimates recorded in the SQLite file given by --history, newest first.",
		Example: `  propdata --history ~/.propdata/history.db estimate --area Lyari --size 120 --class residential --year 1990 --road 20
  propdata --history ~/.propdata/history.db history --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.history == "" {
				return fmt.Errorf("%w: pass --history FILE", services.ErrHistoryDisabled)
			}

			svc, done, err := opts.newService(cmd, 0)
			if err != nil {
				return err
			}
			defer done()

			records, err := svc.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if opts.isJSON() {
				return printJSON(cmd.OutOrStdout(), records)
			}
			return printHistoryTable(cmd.OutOrStdout(), svc.Market(), records)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", services.DefaultHistoryLimit, fmt.Sprintf("number of estimates to list (1-%d)", services.MaxHistoryLimit))

	return cmd
}

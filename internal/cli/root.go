// Package cli defines the cobra command tree for propdata.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/propdata-pk/propdata/internal/config"
	"github.com/propdata-pk/propdata/internal/database"
	"github.com/propdata-pk/propdata/internal/logger"
	"github.com/propdata-pk/propdata/internal/repository"
	"github.com/propdata-pk/propdata/internal/services"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	format  string
	market  string
	history string
}

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "propdata",
		Short:         "Estimate Karachi property values",
		Long:          "Estimate property values with the parametric valuation model and browse the market's area and road-band tables.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != formatText && opts.format != formatJSON {
				return fmt.Errorf("invalid --format %q: must be text or json", opts.format)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.format, "format", formatText, "output format (text|json)")
	root.PersistentFlags().StringVar(&opts.market, "market", "", "market definition YAML (default: built-in Karachi market)")
	root.PersistentFlags().StringVar(&opts.history, "history", "", "SQLite file to record estimates in (default: no history)")

	root.AddCommand(
		newEstimateCmd(opts),
		newAreasCmd(opts),
		newRoadBandsCmd(opts),
		newHistoryCmd(opts),
	)

	return root
}

// newService loads the market selected by --market and, when --history is
// set, opens the SQLite history file. The CLI logs only errors to stderr.
// The returned func must be called once the command is done.
func (o *globalOptions) newService(cmd *cobra.Command, asOfYear int) (services.ValuationService, func(), error) {
	engine, err := config.LoadEngine(o.market)
	if err != nil {
		return nil, nil, err
	}

	log := logger.New("production", logger.WithLevel("error"), logger.WithOutput(cmd.ErrOrStderr()))
	cfg := services.ServiceConfig{AsOfYear: asOfYear}

	if o.history == "" {
		return services.NewValuationService(engine, nil, nil, log, cfg), func() {}, nil
	}

	db, err := database.OpenSQLite(cmd.Context(), o.history)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close history database", err, map[string]interface{}{"path": o.history})
		}
	}
	history := repository.NewSQLiteHistory(db)
	return services.NewValuationService(engine, history, nil, log, cfg), closeDB, nil
}

func (o *globalOptions) isJSON() bool {
	return o.format == formatJSON
}

package cmd

import (
	"fmt"

	"github.com/pmcharts/pmc/core"
	"github.com/pmcharts/pmc/internal/contract"
	"github.com/pmcharts/pmc/internal/datastore"
	"github.com/pmcharts/pmc/schema"
	"github.com/spf13/cobra"
)

// seasonCmd groups the season commands.
var seasonCmd = &cobra.Command{
	Use:   "season",
	Short: "Manage training seasons and their seed values",
	Long: `Seasons name a training period. A season with a seed banks that value as both
long and short term stress on its start date, which lets a series begin from a
known fitness instead of zero.`,
}

// seasonAddCmd stores one season.
var seasonAddCmd = &cobra.Command{
	Use:   "add <name> <start> [end]",
	Short: "Store a season, optionally seeding LTS and STS at its start",
	Long: `Store a season. Omit the end date for an open ended season.

Examples:
  pmc season add "2025 base" 2025-01-06 2025-03-30 --seed 55
  pmc season add "race block" 2025-04-01`,
	Args:    cobra.RangeArgs(2, 3),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		season, err := seasonFromArgs(cmd, args)
		if err != nil {
			contract.LogFatal("Invalid season", err)
		}
		added, err := core.ExecuteSeasonAdd(rootCtx, datastore.Manager, season)
		if err != nil {
			contract.LogFatal("Cannot store season", err)
		}
		fmt.Printf("Stored season %s starting %s\n", added.ID, added.Start.Format(schema.DateFormat))
	},
}

// seasonDeleteCmd removes one season.
var seasonDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Short:   "Delete a stored season",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteSeasonDelete(rootCtx, datastore.Manager, args[0]); err != nil {
			contract.LogFatal("Cannot delete season", err)
		}
		fmt.Printf("Deleted season %s\n", args[0])
	},
}

// seasonListCmd prints every season.
var seasonListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List stored seasons",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSeasonList(rootCtx, cfg, datastore.Manager); err != nil {
			contract.LogFatal("Cannot list seasons", err)
		}
	},
}

// seasonFromArgs builds a season from the add command's arguments and flags.
func seasonFromArgs(cmd *cobra.Command, args []string) (schema.Season, error) {
	now := cfg.Clock()()
	season := schema.Season{Name: args[0]}

	start, err := contract.ParseDate(args[1], now)
	if err != nil {
		return season, fmt.Errorf("invalid start: %w", err)
	}
	season.Start = start

	if len(args) == 3 {
		end, err := contract.ParseDate(args[2], now)
		if err != nil {
			return season, fmt.Errorf("invalid end: %w", err)
		}
		season.End = &end
	}

	// A zero seed is still a seed, so presence is what matters
	if cmd.Flags().Changed("seed") {
		seed, err := cmd.Flags().GetFloat64("seed")
		if err != nil {
			return season, err
		}
		season.Seed = &seed
	}
	return season, nil
}

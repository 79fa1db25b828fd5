package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pmcharts/pmc/core"
	"github.com/pmcharts/pmc/internal/contract"
	"github.com/pmcharts/pmc/internal/datastore"
	"github.com/pmcharts/pmc/schema"
	"github.com/spf13/cobra"
)

// importCmd loads observations from a file.
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import observations from a CSV or JSON file",
	Long: `Load observations into the configured store.

CSV files need a date column. The planned, sport, title and duration columns are
optional and every other column is read as a numeric metric. JSON files hold an
array of observations as printed by 'pmc observation list --output json'.

Examples:
  pmc import workouts.csv
  pmc import plan.json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		n, err := core.ExecuteImport(rootCtx, datastore.Manager, args[0])
		if err != nil {
			contract.LogFatal("Cannot import observations", err)
		}
		fmt.Printf("Imported %d observations from %s\n", n, args[0])
	},
}

// observationCmd groups the observation commands.
var observationCmd = &cobra.Command{
	Use:     "observation",
	Aliases: []string{"obs"},
	Short:   "Manage stored observations",
}

// observationAddCmd stores one observation.
var observationAddCmd = &cobra.Command{
	Use:   "add <date>",
	Short: "Store a completed or planned observation",
	Long: `Store a single observation. Metric values are given with --set.

Examples:
  pmc observation add today --sport bike --duration 1h30m --set tss=95,trimp=130
  pmc observation add "3 days ahead" --planned --set tss=60`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		obs, err := observationFromFlags(cmd, args[0])
		if err != nil {
			contract.LogFatal("Invalid observation", err)
		}
		added, err := core.ExecuteObservationAdd(rootCtx, datastore.Manager, obs)
		if err != nil {
			contract.LogFatal("Cannot store observation", err)
		}
		fmt.Printf("Stored observation %s on %s\n", added.ID, added.Date.Format(schema.DateFormat))
	},
}

// observationDeleteCmd removes one observation.
var observationDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Short:   "Delete a stored observation",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteObservationDelete(rootCtx, datastore.Manager, args[0]); err != nil {
			contract.LogFatal("Cannot delete observation", err)
		}
		fmt.Printf("Deleted observation %s\n", args[0])
	},
}

// observationListCmd prints the observations within the window.
var observationListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List stored observations between --start and --end",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteObservationList(rootCtx, cfg, datastore.Manager); err != nil {
			contract.LogFatal("Cannot list observations", err)
		}
	},
}

// observationFromFlags builds an observation from the add command's flags.
func observationFromFlags(cmd *cobra.Command, dateArg string) (schema.Observation, error) {
	obs := schema.Observation{Metrics: map[string]float64{}}

	d, err := contract.ParseDate(dateArg, cfg.Clock()())
	if err != nil {
		return obs, err
	}
	obs.Date = d

	flags := cmd.Flags()
	if obs.Planned, err = flags.GetBool("planned"); err != nil {
		return obs, err
	}
	if obs.Sport, err = flags.GetString("sport"); err != nil {
		return obs, err
	}
	if obs.Title, err = flags.GetString("title"); err != nil {
		return obs, err
	}
	duration, err := flags.GetDuration("duration")
	if err != nil {
		return obs, err
	}
	obs.Duration = duration.Seconds()

	values, err := flags.GetStringToString("set")
	if err != nil {
		return obs, err
	}
	if len(values) == 0 {
		return obs, errors.New("at least one metric is required (e.g., --set tss=85)")
	}
	for name, raw := range values {
		name = strings.TrimSpace(name)
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || name == "" {
			return obs, fmt.Errorf("invalid metric value %s=%s", name, raw)
		}
		obs.Metrics[name] = v
	}
	return obs, nil
}

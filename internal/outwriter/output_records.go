package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pmcharts/pmc/internal/contract"
	"github.com/pmcharts/pmc/internal/parquet"
	"github.com/pmcharts/pmc/schema"
)

// PrintObservations outputs stored observations in the configured format.
// The CSV layout is the one accepted by the import command.
func PrintObservations(items []schema.Observation, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, items)
		}, "Wrote JSON observations")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVObservations(w, items)
		}, "Wrote CSV observations")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errors.New("--output-file is required for parquet output")
		}
		rows, err := parquet.ConvertObservations(items)
		if err != nil {
			return err
		}
		if err := parquet.WriteObservationsParquet(rows, cfg.OutputFile); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote %d observations to %s\n", len(rows), cfg.OutputFile)
		return nil
	default:
		return writeObservationTable(os.Stdout, items, cfg)
	}
}

// metricNames returns every metric key used by the observations, sorted.
func metricNames(items []schema.Observation) []string {
	seen := map[string]struct{}{}
	for _, obs := range items {
		for name := range obs.Metrics {
			seen[name] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// formatMetrics renders a metric map as sorted name=value pairs.
func formatMetrics(metrics map[string]float64, fmtFloat func(float64) string) string {
	parts := make([]string, 0, len(metrics))
	for _, name := range slices.Sorted(maps.Keys(metrics)) {
		parts = append(parts, name+"="+fmtFloat(metrics[name]))
	}
	return strings.Join(parts, " ")
}

func kindOf(obs schema.Observation) string {
	if obs.Planned {
		return "planned"
	}
	return "done"
}

// writeObservationTable prints one row per observation.
func writeObservationTable(w io.Writer, items []schema.Observation, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)
	titleWidth := GetMaxTableTitleWidth(cfg)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Date", "Kind", "Sport", "Title", "Duration", "Metrics"})

	var data [][]string
	for _, obs := range items {
		data = append(data, []string{
			truncate(obs.ID, 8),
			obs.Date.Format(schema.DateFormat),
			kindOf(obs),
			obs.Sport,
			truncate(obs.Title, titleWidth),
			formatDuration(obs.Duration),
			formatMetrics(obs.Metrics, fmtFloat),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%d observations\n", len(items))
	return nil
}

// writeCSVObservations writes observations with one column per metric.
func writeCSVObservations(w io.Writer, items []schema.Observation) error {
	names := metricNames(items)
	header := append([]string{"id", "date", "planned", "sport", "title", "duration"}, names...)
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, obs := range items {
			row := []string{
				obs.ID,
				obs.Date.Format(schema.DateFormat),
				strconv.FormatBool(obs.Planned),
				obs.Sport,
				obs.Title,
				strconv.FormatFloat(obs.Duration, 'f', -1, 64),
			}
			for _, name := range names {
				cell := ""
				if v, ok := obs.Metrics[name]; ok {
					cell = strconv.FormatFloat(v, 'f', -1, 64)
				}
				row = append(row, cell)
			}
			if err := csvWriter.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// PrintSeasons outputs stored seasons in the configured format.
func PrintSeasons(items []schema.Season, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, items)
		}, "Wrote JSON seasons")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVSeasons(w, items)
		}, "Wrote CSV seasons")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errors.New("--output-file is required for parquet output")
		}
		if err := parquet.WriteSeasonsParquet(parquet.ConvertSeasons(items), cfg.OutputFile); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote %d seasons to %s\n", len(items), cfg.OutputFile)
		return nil
	default:
		return writeSeasonTable(os.Stdout, items, cfg)
	}
}

func seasonCells(s schema.Season, fmtFloat func(float64) string) (end, seed string) {
	if s.End != nil {
		end = s.End.Format(schema.DateFormat)
	}
	if s.Seed != nil {
		seed = fmtFloat(*s.Seed)
	}
	return end, seed
}

// writeSeasonTable prints one row per season.
func writeSeasonTable(w io.Writer, items []schema.Season, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Name", "Start", "End", "Seed"})

	var data [][]string
	for _, s := range items {
		end, seed := seasonCells(s, fmtFloat)
		if end == "" {
			end = "open"
		}
		if seed == "" {
			seed = "-"
		}
		data = append(data, []string{truncate(s.ID, 8), s.Name, s.Start.Format(schema.DateFormat), end, seed})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCSVSeasons writes seasons as CSV. Empty cells mark an open end or no seed.
func writeCSVSeasons(w io.Writer, items []schema.Season) error {
	fmtFloat := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return writeCSVWithHeader(w, []string{"id", "name", "start", "end", "seed"}, func(csvWriter *csv.Writer) error {
		for _, s := range items {
			end, seed := seasonCells(s, fmtFloat)
			if err := csvWriter.Write([]string{s.ID, s.Name, s.Start.Format(schema.DateFormat), end, seed}); err != nil {
				return err
			}
		}
		return nil
	})
}

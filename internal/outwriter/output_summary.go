package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/pmcharts/pmc/internal/contract"
	"github.com/pmcharts/pmc/schema"
)

// PrintSummaryResults outputs the single day summary in the configured format.
func PrintSummaryResults(result schema.SummaryResult, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON summary")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForSummary(w, result, fmtFloat)
		}, "Wrote CSV summary")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for the summary, use the series command")
	default:
		return writeSummaryTable(os.Stdout, result, cfg, fmtFloat)
	}
}

// writeSummaryTable prints the per-track values of the day.
func writeSummaryTable(w io.Writer, result schema.SummaryResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	fmt.Fprintf(w, "Performance management for %s (metric %s, LTS %dd, STS %dd)\n",
		result.Date.Format(schema.DateFormat), result.Metric, result.LTSDays, result.STSDays)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Track", "Stress", "LTS", "STS", "SB", "RR", "Fitness", "Form", "Ramp"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	label := contract.GetPlainLabel
	if cfg.UseColors {
		label = contract.GetColorLabel
	}

	var data [][]string
	for _, s := range result.Tracks {
		data = append(data, []string{
			string(s.Track),
			fmtFloat(s.Stress),
			fmtFloat(s.LTS),
			fmtFloat(s.STS),
			fmtFloat(s.SB),
			fmtFloat(s.RR),
			label(schema.LTSField, s.LTS),
			label(schema.SBField, s.SB),
			label(schema.RRField, s.RR),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCSVResultsForSummary writes one CSV row per track.
func writeCSVResultsForSummary(w io.Writer, result schema.SummaryResult, fmtFloat func(float64) string) error {
	header := []string{"date", "track", "stress", "lts", "sts", "sb", "rr", "fitness", "form", "ramp"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, s := range result.Tracks {
			row := []string{
				result.Date.Format(schema.DateFormat),
				string(s.Track),
				fmtFloat(s.Stress),
				fmtFloat(s.LTS),
				fmtFloat(s.STS),
				fmtFloat(s.SB),
				fmtFloat(s.RR),
				contract.GetPlainLabel(schema.LTSField, s.LTS),
				contract.GetPlainLabel(schema.SBField, s.SB),
				contract.GetPlainLabel(schema.RRField, s.RR),
			}
			if err := csvWriter.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

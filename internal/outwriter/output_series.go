package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/pmcharts/pmc/internal/contract"
	"github.com/pmcharts/pmc/internal/parquet"
	"github.com/pmcharts/pmc/schema"
)

// PrintSeriesResults outputs the series, dispatching based on the output format configured.
func PrintSeriesResults(result schema.SeriesResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON series"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForSeries(w, result, fmtFloat)
		}, "Wrote CSV series"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeParquetSeries(result, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		if err := writeSeriesTable(os.Stdout, result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing series table output: %w", err)
		}
		fmt.Printf("Series of %d points computed in %v. Store backend: %s\n", len(result.Points), duration, cfg.StoreBackend)
	}
	return nil
}

// writeSeriesTable prints one row per day and track.
func writeSeriesTable(w io.Writer, result schema.SeriesResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Track", "Stress", "LTS", "STS", "SB", "RR", "Form", "Ramp"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	label := contract.GetPlainLabel
	if cfg.UseColors {
		label = contract.GetColorLabel
	}

	var data [][]string
	for _, p := range result.Points {
		data = append(data, []string{
			p.Date.Format(schema.DateFormat),
			string(p.Track),
			fmtFloat(p.Stress),
			fmtFloat(p.LTS),
			fmtFloat(p.STS),
			fmtFloat(p.SB),
			fmtFloat(p.RR),
			label(schema.SBField, p.SB),
			label(schema.RRField, p.RR),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCSVResultsForSeries writes the series points as CSV.
func writeCSVResultsForSeries(w io.Writer, result schema.SeriesResult, fmtFloat func(float64) string) error {
	header := []string{"date", "track", "stress", "lts", "sts", "sb", "rr", "form", "ramp"}
	return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
		for _, p := range result.Points {
			row := []string{
				p.Date.Format(schema.DateFormat),
				string(p.Track),
				fmtFloat(p.Stress),
				fmtFloat(p.LTS),
				fmtFloat(p.STS),
				fmtFloat(p.SB),
				fmtFloat(p.RR),
				contract.GetPlainLabel(schema.SBField, p.SB),
				contract.GetPlainLabel(schema.RRField, p.RR),
			}
			if err := csvWriter.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeParquetSeries writes the series points to a Parquet file.
func writeParquetSeries(result schema.SeriesResult, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}
	if err := parquet.WriteSeriesParquet(parquet.ConvertSeriesPoints(result.Points), outputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote %d series points to %s\n", len(result.Points), outputFile)
	return nil
}

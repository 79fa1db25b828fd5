package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pmcharts/pmc/core/metric"
	"github.com/pmcharts/pmc/internal/contract"
	"github.com/pmcharts/pmc/schema"
)

// metricsRenderModel is the document written for the metrics command.
type metricsRenderModel struct {
	Metrics []metric.Definition     `json:"metrics"`
	Fields  map[schema.Field]string `json:"fields"`
}

func buildMetricsRenderModel(defs []metric.Definition) metricsRenderModel {
	fields := make(map[schema.Field]string, len(schema.AllFields))
	for _, f := range schema.AllFields {
		fields[f] = contract.FieldDescription(f)
	}
	return metricsRenderModel{Metrics: defs, Fields: fields}
}

// PrintMetricsDefinitions outputs the known load metrics and the series fields.
func PrintMetricsDefinitions(defs []metric.Definition, cfg *contract.Config) error {
	model := buildMetricsRenderModel(defs)
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, model)
		}, "Wrote JSON metrics")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVMetrics(w, model)
		}, "Wrote CSV metrics")
	default:
		return printMetricsText(os.Stdout, model)
	}
}

func printMetricsText(w io.Writer, model metricsRenderModel) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Aliases", "Unit", "Description"})
	var data [][]string
	for _, def := range model.Metrics {
		data = append(data, []string{def.Name, strings.Join(def.Aliases, ", "), def.Unit, def.Description})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Any other value of --metric is read as an expression over m (metric map),")
	fmt.Fprintln(w, "planned, sport and duration, e.g. 'has(m.hrss) ? m.hrss : m.trimp * 0.8'.")
	fmt.Fprintln(w)
	for _, f := range schema.AllFields {
		fmt.Fprintf(w, "%-7s %s\n", strings.ToUpper(string(f)), model.Fields[f])
	}
	return nil
}

func writeCSVMetrics(w io.Writer, model metricsRenderModel) error {
	return writeCSVWithHeader(w, []string{"name", "aliases", "unit", "description"}, func(csvWriter *csv.Writer) error {
		for _, def := range model.Metrics {
			if err := csvWriter.Write([]string{def.Name, strings.Join(def.Aliases, "|"), def.Unit, def.Description}); err != nil {
				return err
			}
		}
		return nil
	})
}

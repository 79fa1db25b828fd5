// Package main provides a performance benchmarking tool for the pmc CLI.
// It generates synthetic training histories of different lengths, imports each
// into a fresh SQLite store and times the series commands, treating the first
// successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - pmc binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for the generated CSV files and SQLite databases
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset  string
	Command  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir  string
	Timeout  time.Duration
	Runs     int
	Datasets []string
	Years    map[string]int
	Today    string
}

// benchCommand is one timed pmc invocation.
type benchCommand struct {
	name    string
	args    []string
	success string // Phrase expected in the output
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:  os.Args[1],
		Timeout:  2 * time.Minute,
		Runs:     5,
		Datasets: []string{"season", "olympiad", "career"},
		Years: map[string]int{
			"season":   1,
			"olympiad": 4,
			"career":   20,
		},
		Today: "2025-06-01",
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the pmc binary and the work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("pmc"); err != nil {
		return fmt.Errorf("pmc binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work dir %s: %w", config.WorkDir, err)
	}
	return nil
}

// writeDataset writes a CSV with one workout per day for the given number of years
// ending at today, plus two planned weeks.
func writeDataset(path string, years int, today time.Time) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"date", "planned", "sport", "duration", "tss", "trimp"}); err != nil {
		return 0, err
	}

	var rows int
	for d := today.AddDate(-years, 0, 0); d.Before(today.AddDate(0, 0, 14)); d = d.AddDate(0, 0, 1) {
		// Rest on Mondays, long ride on Saturdays
		var tss float64
		switch d.Weekday() {
		case time.Monday:
			continue
		case time.Saturday:
			tss = 160
		default:
			tss = 40 + float64(d.YearDay()%5)*10
		}
		record := []string{
			d.Format("2006-01-02"),
			strconv.FormatBool(!d.Before(today)),
			"bike",
			strconv.Itoa(int(tss * 60)),
			strconv.FormatFloat(tss, 'f', 0, 64),
			strconv.FormatFloat(tss*1.3, 'f', 1, 64),
		}
		if err := writer.Write(record); err != nil {
			return rows, err
		}
		rows++
	}
	writer.Flush()
	return rows, writer.Error()
}

// runBenchmarks executes all benchmark tests across configured datasets
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, %d runs\n",
		len(config.Datasets), config.Timeout, config.Runs)

	today, _ := time.Parse("2006-01-02", config.Today)
	for _, dataset := range config.Datasets {
		fmt.Printf("Benchmarking %s\n", dataset)

		csvPath := filepath.Join(config.WorkDir, dataset+".csv")
		rows, err := writeDataset(csvPath, config.Years[dataset], today)
		if err != nil {
			fmt.Printf("  failed to write dataset: %v\n", err)
			continue
		}
		fmt.Printf("  %d observations\n", rows)

		env := []string{
			"PMC_STORE_BACKEND=sqlite",
			"PMC_STORE_DB_CONNECT=" + filepath.Join(config.WorkDir, dataset+".db"),
			"PMC_TODAY=" + config.Today,
		}
		_ = os.Remove(filepath.Join(config.WorkDir, dataset+".db"))

		// Import runs once, it is the cold path for the store
		importCmd := benchCommand{"import", []string{"import", csvPath}, "Imported"}
		results = append(results, runBenchmarkSuite(config, dataset, env, importCmd, 1))

		for _, cmd := range []benchCommand{
			{"series", []string{"series", "--output", "csv", "--output-file", os.DevNull}, ""},
			{"series-full", []string{"series", "--start", "30 years ago", "--output", "csv", "--output-file", os.DevNull}, ""},
			{"series-expr", []string{"series", "--metric", "m.tss * 0.5 + m.trimp * 0.5", "--output", "csv", "--output-file", os.DevNull}, ""},
			{"today", []string{"today"}, "LTS"},
		} {
			results = append(results, runBenchmarkSuite(config, dataset, env, cmd, config.Runs))
		}
	}

	return results
}

// runBenchmarkSuite runs a command several times and summarizes cold and warm times
func runBenchmarkSuite(config BenchmarkConfig, dataset string, env []string, cmd benchCommand, runs int) BenchmarkResult {
	fmt.Printf("  %s (%d runs)\n", cmd.name, runs)
	coldTime, warmTimes := runBenchmark(config, env, cmd, runs)

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}
	warmAvg := "-"
	if len(warmTimes) > 0 {
		var sum float64
		for _, t := range warmTimes {
			sum += t
		}
		warmAvg = fmt.Sprintf("%.3fs", sum/float64(len(warmTimes)))
	}

	fmt.Printf("    Cold time: %s, Warm average: %s\n", coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:  dataset,
		Command:  cmd.name,
		ColdTime: coldTimeStr,
		WarmTime: warmAvg,
	}
}

// runBenchmark executes a pmc command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, env []string, bc benchCommand, numRuns int) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("pmc", bc.args...)
		cmd.Dir = config.WorkDir
		cmd.Env = append(os.Environ(), env...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && strings.Contains(string(output), bc.success) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/pmc_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"dataset", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range []string{"import", "series", "series-full", "series-expr", "today"} {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-10s: Cold: %s, Warm: %s\n", result.Dataset, result.ColdTime, result.WarmTime)
			}
		}
	}
}

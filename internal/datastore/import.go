package datastore

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pmcharts/pmc/internal/contract"
	"github.com/pmcharts/pmc/schema"
)

// Reserved CSV columns. Every other column is read as a numeric metric.
const (
	colID       = "id"
	colDate     = "date"
	colPlanned  = "planned"
	colSport    = "sport"
	colTitle    = "title"
	colDuration = "duration"
)

// ImportCSV reads observations from CSV with a header row and stores them.
// The date column is required. Empty metric cells are left out of the
// observation's metrics. It returns the number of stored observations.
func ImportCSV(ctx context.Context, store contract.ObservationStore, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}
	if !slices.Contains(header, colDate) {
		return 0, fmt.Errorf("CSV header must include a %q column", colDate)
	}

	now := time.Now()
	count := 0
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, fmt.Errorf("line %d: %w", line, err)
		}
		obs, err := parseRecord(header, record, now)
		if err != nil {
			return count, fmt.Errorf("line %d: %w", line, err)
		}
		if _, err := store.Add(ctx, obs); err != nil {
			return count, fmt.Errorf("line %d: %w", line, err)
		}
		count++
	}
	return count, nil
}

// ImportJSON reads a JSON array of observations and stores them.
func ImportJSON(ctx context.Context, store contract.ObservationStore, r io.Reader) (int, error) {
	var items []schema.Observation
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return 0, fmt.Errorf("failed to decode observations: %w", err)
	}
	for i, obs := range items {
		if _, err := store.Add(ctx, obs); err != nil {
			return i, fmt.Errorf("observation %d: %w", i, err)
		}
	}
	return len(items), nil
}

func parseRecord(header, record []string, now time.Time) (schema.Observation, error) {
	obs := schema.Observation{Metrics: map[string]float64{}}
	for i, name := range header {
		if i >= len(record) {
			break
		}
		cell := strings.TrimSpace(record[i])
		switch name {
		case colID:
			obs.ID = cell
		case colDate:
			d, err := contract.ParseDate(cell, now)
			if err != nil {
				return obs, err
			}
			obs.Date = d
		case colPlanned:
			if cell == "" {
				continue
			}
			planned, err := contract.ParseBoolString(cell)
			if err != nil {
				return obs, fmt.Errorf("invalid planned value %q: %w", cell, err)
			}
			obs.Planned = planned
		case colSport:
			obs.Sport = cell
		case colTitle:
			obs.Title = cell
		case colDuration:
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return obs, fmt.Errorf("invalid duration %q", cell)
			}
			obs.Duration = v
		default:
			if cell == "" || name == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return obs, fmt.Errorf("invalid %s value %q", name, cell)
			}
			obs.Metrics[name] = v
		}
	}
	return obs, nil
}

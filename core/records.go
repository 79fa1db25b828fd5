package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmcharts/pmc/core/metric"
	"github.com/pmcharts/pmc/internal/contract"
	"github.com/pmcharts/pmc/internal/datastore"
	"github.com/pmcharts/pmc/internal/outwriter"
	"github.com/pmcharts/pmc/internal/parquet"
	"github.com/pmcharts/pmc/schema"
)

// ExecuteImport loads observations from a CSV or JSON file into the observation store.
// Files ending in .json are decoded as a JSON array, everything else as CSV.
func ExecuteImport(ctx context.Context, mgr contract.StoreManager, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() { _ = f.Close() }()

	store := mgr.GetObservationStore()
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return datastore.ImportJSON(ctx, store, f)
	}
	return datastore.ImportCSV(ctx, store, f)
}

// ExecuteObservationAdd stores a single observation and returns it with its assigned ID.
func ExecuteObservationAdd(ctx context.Context, mgr contract.StoreManager, obs schema.Observation) (schema.Observation, error) {
	return mgr.GetObservationStore().Add(ctx, obs)
}

// ExecuteObservationDelete removes the observation with the given ID.
func ExecuteObservationDelete(ctx context.Context, mgr contract.StoreManager, id string) error {
	return mgr.GetObservationStore().Delete(ctx, id)
}

// ExecuteObservationList prints stored observations within the configured window.
func ExecuteObservationList(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	items, err := mgr.GetObservationStore().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list observations: %w", err)
	}
	inWindow := items[:0]
	for _, obs := range items {
		if obs.Date.Before(cfg.StartTime) || obs.Date.After(cfg.EndTime) {
			continue
		}
		inWindow = append(inWindow, obs)
	}
	return outwriter.NewOutWriter().WriteObservations(inWindow, cfg)
}

// ExecuteSeasonAdd stores a season and returns it with its assigned ID.
func ExecuteSeasonAdd(ctx context.Context, mgr contract.StoreManager, season schema.Season) (schema.Season, error) {
	if season.End != nil && season.End.Before(season.Start) {
		return schema.Season{}, errors.New("season end must not be before its start")
	}
	return mgr.GetSeasonStore().AddSeason(ctx, season)
}

// ExecuteSeasonDelete removes the season with the given ID.
func ExecuteSeasonDelete(ctx context.Context, mgr contract.StoreManager, id string) error {
	return mgr.GetSeasonStore().DeleteSeason(ctx, id)
}

// ExecuteSeasonList prints every stored season.
func ExecuteSeasonList(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	items, err := mgr.GetSeasonStore().ListSeasons(ctx)
	if err != nil {
		return fmt.Errorf("failed to list seasons: %w", err)
	}
	return outwriter.NewOutWriter().WriteSeasons(items, cfg)
}

// ExecuteMetrics prints the catalog of named metrics.
func ExecuteMetrics(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	return outwriter.NewOutWriter().WriteMetrics(metric.Catalog, cfg)
}

// ExecuteStoreStatus prints the observation store status.
func ExecuteStoreStatus(_ context.Context, _ *contract.Config, mgr contract.StoreManager) error {
	status, err := mgr.GetObservationStore().GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	outwriter.NewOutWriter().WriteStatus(os.Stdout, status)
	return nil
}

// ExecuteExport writes the computed series and the stored records to Parquet files
// that share the configured output file as prefix.
func ExecuteExport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if cfg.OutputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	observations, err := mgr.GetObservationStore().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve observations: %w", err)
	}
	if len(observations) == 0 {
		return errors.New("no observations found to export")
	}
	seasons, err := mgr.GetSeasonStore().ListSeasons(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve seasons: %w", err)
	}

	engine, err := BuildEngine(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	r := engine.Range()
	series := GetSeriesResult(engine, cfg, r.Start, r.End)

	observationRows, err := parquet.ConvertObservations(observations)
	if err != nil {
		return err
	}

	seriesFile := cfg.OutputFile + ".series.parquet"
	seriesRows := parquet.ConvertSeriesPoints(series.Points)
	if err := parquet.WriteSeriesParquet(seriesRows, seriesFile); err != nil {
		return fmt.Errorf("failed to write series: %w", err)
	}
	fmt.Printf("Exported %d series points to: %s\n", len(seriesRows), seriesFile)

	observationsFile := cfg.OutputFile + ".observations.parquet"
	if err := parquet.WriteObservationsParquet(observationRows, observationsFile); err != nil {
		return fmt.Errorf("failed to write observations: %w", err)
	}
	fmt.Printf("Exported %d observations to: %s\n", len(observationRows), observationsFile)

	seasonsFile := cfg.OutputFile + ".seasons.parquet"
	seasonRows := parquet.ConvertSeasons(seasons)
	if err := parquet.WriteSeasonsParquet(seasonRows, seasonsFile); err != nil {
		return fmt.Errorf("failed to write seasons: %w", err)
	}
	fmt.Printf("Exported %d seasons to: %s\n", len(seasonRows), seasonsFile)
	return nil
}

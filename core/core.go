// Package core has the orchestration between the stores, the series engine and the output writers.
package core

import (
	"context"
	"time"

	"github.com/pmcharts/pmc/core/metric"
	"github.com/pmcharts/pmc/core/pmc"
	"github.com/pmcharts/pmc/internal/contract"
	"github.com/pmcharts/pmc/internal/datastore"
	"github.com/pmcharts/pmc/internal/outwriter"
)

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// BuildEngine compiles the configured metric and filter and wires the stores into a new engine.
// Extra options are applied after the defaults.
func BuildEngine(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, opts ...pmc.Option) (*pmc.Engine, error) {
	value, err := metric.Compile(cfg.Metric)
	if err != nil {
		return nil, err
	}
	filter, err := metric.CompileFilter(cfg.Filter)
	if err != nil {
		return nil, err
	}

	obs := datastore.NewObservationSource(ctx, mgr.GetObservationStore())
	seasons := datastore.NewSeasonSource(ctx, mgr.GetSeasonStore())
	base := []pmc.Option{
		pmc.WithFilter(filter),
		pmc.WithClock(cfg.Clock()),
		pmc.WithLogger(contract.Logger()),
	}
	return pmc.New(cfg.EngineConfig(), obs, seasons, value, append(base, opts...)...), nil
}

// ExecuteSeries computes the daily series over the configured window and prints it.
func ExecuteSeries(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	engine, err := BuildEngine(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	result := GetSeriesResult(engine, cfg, cfg.StartTime, cfg.EndTime)
	return outwriter.NewOutWriter().WriteSeries(result, cfg, time.Since(start))
}

// ExecuteSummary prints the per-track values for the configured today.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	engine, err := BuildEngine(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSummary(GetSummaryResult(engine, cfg, today(cfg)), cfg)
}

// today returns the configured today as a civil date.
func today(cfg *contract.Config) time.Time {
	return pmc.Civil(cfg.Clock()())
}

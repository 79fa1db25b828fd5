package core

import (
	"slices"
	"time"

	"github.com/pmcharts/pmc/core/pmc"
	"github.com/pmcharts/pmc/internal/contract"
	"github.com/pmcharts/pmc/schema"
)

// GetSeriesResult collects the points of the configured tracks for every day in
// [from, to] that lies inside the engine range. Points are ordered by date, then
// by track in configuration order.
func GetSeriesResult(engine *pmc.Engine, cfg *contract.Config, from, to time.Time) schema.SeriesResult {
	from, to = pmc.Civil(from), pmc.Civil(to)
	engineCfg := engine.Config()
	result := schema.SeriesResult{
		Metric:  cfg.Metric,
		LTSDays: engineCfg.LTSDays,
		STSDays: engineCfg.STSDays,
		Start:   from,
		End:     to,
	}

	tracks := selectedTracks(cfg)
	perTrack := make([][]schema.SeriesPoint, len(tracks))
	for i, track := range tracks {
		perTrack[i] = engine.Points(track, from, to)
	}
	if len(perTrack) == 0 || len(perTrack[0]) == 0 {
		return result
	}

	// Every track shares the engine range, so the slices line up by day
	days := len(perTrack[0])
	result.Points = make([]schema.SeriesPoint, 0, days*len(tracks))
	for d := range days {
		for i := range tracks {
			result.Points = append(result.Points, perTrack[i][d])
		}
	}
	result.Start = result.Points[0].Date
	result.End = result.Points[len(result.Points)-1].Date
	return result
}

// GetSummaryResult collects the values of the configured tracks on date.
func GetSummaryResult(engine *pmc.Engine, cfg *contract.Config, date time.Time) schema.SummaryResult {
	engineCfg := engine.Config()
	tracks := selectedTracks(cfg)
	summary := engine.Summary(date)
	summary = slices.DeleteFunc(summary, func(s schema.TrackSummary) bool {
		return !slices.Contains(tracks, s.Track)
	})
	return schema.SummaryResult{
		Date:    pmc.Civil(date),
		Metric:  cfg.Metric,
		LTSDays: engineCfg.LTSDays,
		STSDays: engineCfg.STSDays,
		Tracks:  summary,
	}
}

func selectedTracks(cfg *contract.Config) []schema.Track {
	if len(cfg.Tracks) == 0 {
		return schema.AllTracks
	}
	return cfg.Tracks
}

package pmc

import (
	"math"
	"time"

	"github.com/pmcharts/pmc/schema"
)

// populateStats counts what happened during accumulation.
type populateStats struct {
	observations int // accumulated into a track
	skipped      int // filtered out, out of range, failed or non-finite
}

// populate sizes a fresh snapshot for rng, banks seed values and accumulates
// observation stress into the actual, planned and expected tracks.
func populate(rng DateRange, cfg Config, seasons []schema.Season, obs []schema.Observation,
	value ValueFunc, filter FilterFunc, today time.Time,
) (*snapshot, populateStats) {
	var stats populateStats
	days := rng.Days()
	snap := &snapshot{
		rng:      rng,
		days:     days,
		actual:   newSeries(days),
		planned:  newSeries(days),
		expected: newSeries(days),
	}

	// Seasons are applied in input order so the last seed on a date wins.
	for _, s := range seasons {
		if !s.HasSeed() {
			continue
		}
		o := rng.Offset(s.Start)
		if o < 0 || o >= days {
			continue
		}
		snap.actual.seed(o, *s.Seed)
		snap.planned.seed(o, *s.Seed)
		if cfg.SeedExpected {
			snap.expected.seed(o, *s.Seed)
		}
	}

	todayOffset := rng.Offset(today)
	var todayActual, todayPlanned float64

	for _, o := range obs {
		if value == nil || (filter != nil && !filter(o)) {
			stats.skipped++
			continue
		}
		offset := rng.Offset(o.Date)
		if offset < 0 || offset >= days {
			stats.skipped++
			continue
		}
		v, err := value(o)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			stats.skipped++
			continue
		}
		stats.observations++

		if o.Planned {
			snap.planned.stress[offset] += v
		} else {
			snap.actual.stress[offset] += v
		}

		switch {
		case offset == todayOffset:
			if o.Planned {
				todayPlanned += v
			} else {
				todayActual += v
			}
		case offset < todayOffset:
			if o.Planned {
				snap.expected.stress[offset] += v
			}
		default:
			if !o.Planned {
				snap.expected.stress[offset] += v
			}
		}
	}

	if todayOffset >= 0 && todayOffset < days {
		if todayActual > 0 {
			snap.expected.stress[todayOffset] = todayActual
		} else {
			snap.expected.stress[todayOffset] = todayPlanned
		}
	}

	return snap, stats
}

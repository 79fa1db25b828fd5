// Package pmc derives daily long term, short term, balance and ramp rate
// series from dated observations and season seeds.
package pmc

import (
	"io"
	"slices"
	"time"

	"github.com/pmcharts/pmc/schema"
	"github.com/sirupsen/logrus"
)

// Config holds the immutable engine settings.
type Config struct {
	LTSDays          int  // long term window, defaults to 42 when non-positive
	STSDays          int  // short term window, defaults to 7 when non-positive
	ShowBalanceToday bool // write balance on the same day instead of the next
	SeedExpected     bool // bank season seeds on the expected track as well
}

// Normalized returns the config with window fallbacks applied.
func (c Config) Normalized() Config {
	if c.LTSDays <= 0 {
		c.LTSDays = DefaultLTSDays
	}
	if c.STSDays <= 0 {
		c.STSDays = DefaultSTSDays
	}
	return c
}

// RecomputeStats describes a single recompute.
type RecomputeStats struct {
	Range        DateRange
	Days         int
	Observations int
	Skipped      int
	Elapsed      time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithFilter sets the observation filter predicate.
func WithFilter(filter FilterFunc) Option {
	return func(e *Engine) { e.filter = filter }
}

// WithClock sets the function returning the current date.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger used for recompute diagnostics.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = log }
}

// WithObserver registers a callback invoked after every recompute.
func WithObserver(fn func(RecomputeStats)) Option {
	return func(e *Engine) { e.observers = append(e.observers, fn) }
}

// Engine materializes the actual, planned and expected tracks.
// It recomputes lazily on the first query after any input changed.
// An Engine is not safe for concurrent use.
type Engine struct {
	cfg       Config
	obs       ObservationSource
	seasons   SeasonSource
	value     ValueFunc
	filter    FilterFunc
	now       func() time.Time
	log       logrus.FieldLogger
	observers []func(RecomputeStats)

	stale     bool
	obsGen    uint64
	seasonGen uint64
	today     time.Time
	snap      *snapshot
}

// New creates an engine over the given sources. Nothing is computed until the first query.
func New(cfg Config, obs ObservationSource, seasons SeasonSource, value ValueFunc, opts ...Option) *Engine {
	e := &Engine{
		cfg:     cfg.Normalized(),
		obs:     obs,
		seasons: seasons,
		value:   value,
		now:     time.Now,
		stale:   true,
		snap:    emptySnapshot(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		e.log = l
	}
	return e
}

// Config returns the active configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// SetConfig replaces the configuration and marks the engine stale.
func (e *Engine) SetConfig(cfg Config) {
	e.cfg = cfg.Normalized()
	e.stale = true
}

// SetValue replaces the value function and marks the engine stale.
func (e *Engine) SetValue(value ValueFunc) {
	e.value = value
	e.stale = true
}

// SetFilter replaces the filter predicate and marks the engine stale.
func (e *Engine) SetFilter(filter FilterFunc) {
	e.filter = filter
	e.stale = true
}

// Invalidate marks the engine stale. It never recomputes.
func (e *Engine) Invalidate() {
	e.stale = true
}

// Stale reports whether the next query will recompute.
// A change of the clock's civil date counts, since the expected track pivots on today.
func (e *Engine) Stale() bool {
	return e.stale ||
		e.obs.Generation() != e.obsGen ||
		e.seasons.Generation() != e.seasonGen ||
		!Civil(e.now()).Equal(e.today)
}

func (e *Engine) ensure() {
	if e.Stale() {
		e.refresh()
	}
}

func (e *Engine) refresh() {
	began := time.Now()
	obsGen, seasonGen := e.obs.Generation(), e.seasons.Generation()
	today := Civil(e.now())

	seasons := e.seasons.Seasons()
	obs := slices.Collect(e.obs.Observations())
	dates := make([]time.Time, len(obs))
	for i, o := range obs {
		dates[i] = o.Date
	}

	rng := BuildRange(seasons, dates)
	next := emptySnapshot()
	var stats populateStats
	if rng.Valid() {
		next, stats = populate(rng, e.cfg, seasons, obs, e.value, e.filter, today)
		for _, s := range []*series{&next.actual, &next.planned, &next.expected} {
			s.resolve(e.cfg.LTSDays, e.cfg.STSDays, e.cfg.ShowBalanceToday)
		}
	}

	e.snap = next
	e.obsGen, e.seasonGen, e.today = obsGen, seasonGen, today
	e.stale = false

	rs := RecomputeStats{
		Range:        next.rng,
		Days:         next.days,
		Observations: stats.observations,
		Skipped:      stats.skipped,
		Elapsed:      time.Since(began),
	}
	e.log.WithFields(logrus.Fields{
		"days":         rs.Days,
		"start":        rs.Range.Start.Format(schema.DateFormat),
		"end":          rs.Range.End.Format(schema.DateFormat),
		"observations": rs.Observations,
		"skipped":      rs.Skipped,
		"elapsed":      rs.Elapsed,
	}).Debug("Recomputed series")
	for _, fn := range e.observers {
		fn(rs)
	}
}

// Range returns the materialized date range.
func (e *Engine) Range() DateRange {
	e.ensure()
	return e.snap.rng
}

// IndexOf returns the offset of date within the range, or -1 when outside.
func (e *Engine) IndexOf(date time.Time) int {
	e.ensure()
	if !e.snap.rng.Contains(date) {
		return -1
	}
	return e.snap.rng.Offset(date)
}

// ValueAt returns the value of a track field on a date, or 0 when there is no data.
func (e *Engine) ValueAt(track schema.Track, field schema.Field, date time.Time) float64 {
	e.ensure()
	if !e.snap.rng.Valid() {
		return 0
	}
	return e.snap.value(track, field, e.snap.rng.Offset(date))
}

// Point returns every field of a track on a date.
func (e *Engine) Point(track schema.Track, date time.Time) schema.SeriesPoint {
	e.ensure()
	if !e.snap.rng.Valid() {
		return schema.SeriesPoint{Date: Civil(date), Track: track}
	}
	p := e.snap.point(track, e.snap.rng.Offset(date))
	p.Date = Civil(date)
	return p
}

// Points returns freshly allocated points of a track for every day in [from, to],
// clipped to the materialized range.
func (e *Engine) Points(track schema.Track, from, to time.Time) []schema.SeriesPoint {
	e.ensure()
	rng := e.snap.rng
	if !rng.Valid() {
		return nil
	}
	lo := max(rng.Offset(from), 0)
	hi := min(rng.Offset(to), e.snap.days-1)
	if lo > hi {
		return nil
	}
	points := make([]schema.SeriesPoint, 0, hi-lo+1)
	for o := lo; o <= hi; o++ {
		points = append(points, e.snap.point(track, o))
	}
	return points
}

// Summary returns the values of every track on a date.
func (e *Engine) Summary(date time.Time) []schema.TrackSummary {
	out := make([]schema.TrackSummary, 0, len(schema.AllTracks))
	for _, track := range schema.AllTracks {
		p := e.Point(track, date)
		out = append(out, schema.TrackSummary{
			Track:  track,
			Stress: p.Stress,
			LTS:    p.LTS,
			STS:    p.STS,
			SB:     p.SB,
			RR:     p.RR,
		})
	}
	return out
}

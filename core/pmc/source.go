package pmc

import (
	"iter"
	"slices"
	"sync/atomic"

	"github.com/pmcharts/pmc/schema"
)

// ValueFunc derives the stress value of a single observation.
// A returned error excludes the observation from accumulation.
type ValueFunc func(schema.Observation) (float64, error)

// FilterFunc reports whether an observation takes part in accumulation.
type FilterFunc func(schema.Observation) bool

// ObservationSource supplies dated observations to the engine.
// Generation must change whenever the sequence changes.
type ObservationSource interface {
	Observations() iter.Seq[schema.Observation]
	Generation() uint64
}

// SeasonSource supplies season definitions to the engine.
// Generation must change whenever the season set changes.
type SeasonSource interface {
	Seasons() []schema.Season
	Generation() uint64
}

// ObservationList is an in-memory ObservationSource.
type ObservationList struct {
	items []schema.Observation
	gen   atomic.Uint64
}

var _ ObservationSource = &ObservationList{} // Compile-time check

// NewObservationList returns a list holding the given observations.
func NewObservationList(items ...schema.Observation) *ObservationList {
	return &ObservationList{items: slices.Clone(items)}
}

// Add appends observations and bumps the generation.
func (l *ObservationList) Add(items ...schema.Observation) {
	l.items = append(l.items, items...)
	l.gen.Add(1)
}

// Replace swaps the whole sequence and bumps the generation.
func (l *ObservationList) Replace(items []schema.Observation) {
	l.items = slices.Clone(items)
	l.gen.Add(1)
}

// Observations iterates over a copy of each observation.
func (l *ObservationList) Observations() iter.Seq[schema.Observation] {
	return slices.Values(l.items)
}

// Generation returns the mutation counter.
func (l *ObservationList) Generation() uint64 {
	return l.gen.Load()
}

// SeasonList is an in-memory SeasonSource.
type SeasonList struct {
	items []schema.Season
	gen   atomic.Uint64
}

var _ SeasonSource = &SeasonList{} // Compile-time check

// NewSeasonList returns a list holding the given seasons.
func NewSeasonList(items ...schema.Season) *SeasonList {
	return &SeasonList{items: slices.Clone(items)}
}

// Add appends seasons and bumps the generation.
func (l *SeasonList) Add(items ...schema.Season) {
	l.items = append(l.items, items...)
	l.gen.Add(1)
}

// Replace swaps the whole season set and bumps the generation.
func (l *SeasonList) Replace(items []schema.Season) {
	l.items = slices.Clone(items)
	l.gen.Add(1)
}

// Seasons returns a copy of the season set.
func (l *SeasonList) Seasons() []schema.Season {
	return slices.Clone(l.items)
}

// Generation returns the mutation counter.
func (l *SeasonList) Generation() uint64 {
	return l.gen.Load()
}

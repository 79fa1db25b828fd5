package datastore

import (
	"context"
	"iter"
	"slices"
	"sync"

	"github.com/pmcharts/pmc/core/pmc"
	"github.com/pmcharts/pmc/internal/contract"
	"github.com/pmcharts/pmc/schema"
)

// ObservationSource exposes an ObservationStore to the engine.
// The stored rows are reloaded only when the store generation moves.
type ObservationSource struct {
	ctx      context.Context
	store    contract.ObservationStore
	mu       sync.Mutex
	loaded   bool
	gen      uint64
	failures uint64
	items    []schema.Observation
}

var _ pmc.ObservationSource = &ObservationSource{} // Compile-time check

// NewObservationSource wraps an observation store.
func NewObservationSource(ctx context.Context, store contract.ObservationStore) *ObservationSource {
	return &ObservationSource{ctx: ctx, store: store}
}

// Observations iterates over the stored observations.
func (s *ObservationSource) Observations() iter.Seq[schema.Observation] {
	s.mu.Lock()
	defer s.mu.Unlock()
	gen := s.store.Generation()
	if !s.loaded || gen != s.gen {
		items, err := s.store.List(s.ctx)
		if err != nil {
			contract.LogWarn("Failed to load observations", err)
			s.failures++
			return slices.Values(s.items)
		}
		s.items, s.gen, s.loaded = items, gen, true
	}
	return slices.Values(s.items)
}

// Generation returns the store generation plus the number of failed loads,
// so a failed load leaves the engine stale until a later load succeeds.
func (s *ObservationSource) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Generation() + s.failures
}

// SeasonSource exposes a SeasonStore to the engine.
type SeasonSource struct {
	ctx      context.Context
	store    contract.SeasonStore
	mu       sync.Mutex
	loaded   bool
	gen      uint64
	failures uint64
	items    []schema.Season
}

var _ pmc.SeasonSource = &SeasonSource{} // Compile-time check

// NewSeasonSource wraps a season store.
func NewSeasonSource(ctx context.Context, store contract.SeasonStore) *SeasonSource {
	return &SeasonSource{ctx: ctx, store: store}
}

// Seasons returns a copy of the stored seasons.
func (s *SeasonSource) Seasons() []schema.Season {
	s.mu.Lock()
	defer s.mu.Unlock()
	gen := s.store.Generation()
	if !s.loaded || gen != s.gen {
		items, err := s.store.ListSeasons(s.ctx)
		if err != nil {
			contract.LogWarn("Failed to load seasons", err)
			s.failures++
			return slices.Clone(s.items)
		}
		s.items, s.gen, s.loaded = items, gen, true
	}
	return slices.Clone(s.items)
}

// Generation returns the store generation plus the number of failed loads.
func (s *SeasonSource) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Generation() + s.failures
}

package datastore

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/pmcharts/pmc/internal/contract"
	"github.com/pmcharts/pmc/schema"
)

// MemoryStore keeps observations and seasons in process memory.
// It backs the none backend and one-shot runs.
type MemoryStore struct {
	mu           sync.RWMutex
	observations map[string]schema.Observation
	gen          atomic.Uint64
	seasons      *MemorySeasonStore
}

var _ contract.ObservationStore = &MemoryStore{} // Compile-time check

// MemorySeasonStore is the season half of a MemoryStore.
type MemorySeasonStore struct {
	mu      sync.RWMutex
	seasons []schema.Season // insertion order
	gen     atomic.Uint64
}

var _ contract.SeasonStore = &MemorySeasonStore{} // Compile-time check

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		observations: make(map[string]schema.Observation),
		seasons:      &MemorySeasonStore{},
	}
}

// Seasons returns the season store sharing this store's lifetime.
func (m *MemoryStore) Seasons() *MemorySeasonStore {
	return m.seasons
}

// Add inserts or replaces an observation.
func (m *MemoryStore) Add(_ context.Context, obs schema.Observation) (schema.Observation, error) {
	obs, err := prepareObservation(obs)
	if err != nil {
		return obs, err
	}
	obs.Metrics = maps.Clone(obs.Metrics)

	m.mu.Lock()
	m.observations[obs.ID] = obs
	m.mu.Unlock()
	m.gen.Add(1)
	return obs, nil
}

// Get returns the observation with the given ID.
func (m *MemoryStore) Get(_ context.Context, id string) (schema.Observation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obs, ok := m.observations[id]
	if !ok {
		return schema.Observation{}, fmt.Errorf("observation %s: %w", id, ErrNotFound)
	}
	obs.Metrics = maps.Clone(obs.Metrics)
	return obs, nil
}

// Delete removes the observation with the given ID.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	_, ok := m.observations[id]
	delete(m.observations, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("observation %s: %w", id, ErrNotFound)
	}
	m.gen.Add(1)
	return nil
}

// List returns every observation ordered by date, then ID.
func (m *MemoryStore) List(_ context.Context) ([]schema.Observation, error) {
	m.mu.RLock()
	out := make([]schema.Observation, 0, len(m.observations))
	for _, obs := range m.observations {
		obs.Metrics = maps.Clone(obs.Metrics)
		out = append(out, obs)
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b schema.Observation) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Generation changes after every successful mutation.
func (m *MemoryStore) Generation() uint64 {
	return m.gen.Load()
}

// GetStatus returns status information about the in-memory store.
func (m *MemoryStore) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   string(schema.NoneBackend),
		Connected: true,
	}
	m.mu.RLock()
	for _, obs := range m.observations {
		status.TotalObservations++
		if obs.Planned {
			status.PlannedObservations++
		}
		if status.FirstObservation.IsZero() || obs.Date.Before(status.FirstObservation) {
			status.FirstObservation = obs.Date
		}
		if obs.Date.After(status.LastObservation) {
			status.LastObservation = obs.Date
		}
	}
	m.mu.RUnlock()

	m.seasons.mu.RLock()
	status.TotalSeasons = len(m.seasons.seasons)
	m.seasons.mu.RUnlock()
	return status, nil
}

// Close implements the ObservationStore interface.
func (m *MemoryStore) Close() error {
	return nil
}

// AddSeason inserts or replaces a season.
func (s *MemorySeasonStore) AddSeason(_ context.Context, season schema.Season) (schema.Season, error) {
	season, err := prepareSeason(season)
	if err != nil {
		return season, err
	}

	s.mu.Lock()
	s.seasons = slices.DeleteFunc(s.seasons, func(existing schema.Season) bool { return existing.ID == season.ID })
	s.seasons = append(s.seasons, season)
	s.mu.Unlock()
	s.gen.Add(1)
	return season, nil
}

// DeleteSeason removes the season with the given ID.
func (s *MemorySeasonStore) DeleteSeason(_ context.Context, id string) error {
	s.mu.Lock()
	before := len(s.seasons)
	s.seasons = slices.DeleteFunc(s.seasons, func(existing schema.Season) bool { return existing.ID == id })
	removed := len(s.seasons) != before
	s.mu.Unlock()
	if !removed {
		return fmt.Errorf("season %s: %w", id, ErrNotFound)
	}
	s.gen.Add(1)
	return nil
}

// ListSeasons returns every season ordered by start date, then insertion.
func (s *MemorySeasonStore) ListSeasons(_ context.Context) ([]schema.Season, error) {
	s.mu.RLock()
	out := slices.Clone(s.seasons)
	s.mu.RUnlock()
	slices.SortStableFunc(out, func(a, b schema.Season) int { return a.Start.Compare(b.Start) })
	return out, nil
}

// Generation changes after every successful mutation.
func (s *MemorySeasonStore) Generation() uint64 {
	return s.gen.Load()
}

// Close implements the SeasonStore interface.
func (s *MemorySeasonStore) Close() error {
	return nil
}

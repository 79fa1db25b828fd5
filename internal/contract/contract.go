// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/pmcharts/pmc/schema"
)

// ObservationStore defines the operations for persisting dated observations.
// This allows the storage layer to be mocked for testing.
type ObservationStore interface {
	// Add stores an observation, assigning an ID when it has none.
	Add(ctx context.Context, obs schema.Observation) (schema.Observation, error)

	// Get returns the observation with the given ID.
	Get(ctx context.Context, id string) (schema.Observation, error)

	// Delete removes the observation with the given ID.
	Delete(ctx context.Context, id string) error

	// List returns every observation ordered by date.
	List(ctx context.Context) ([]schema.Observation, error)

	// Generation changes after every successful mutation.
	Generation() uint64

	// GetStatus returns status information about the store
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection
	Close() error
}

// SeasonStore defines the operations for persisting season definitions.
type SeasonStore interface {
	AddSeason(ctx context.Context, season schema.Season) (schema.Season, error)
	DeleteSeason(ctx context.Context, id string) error
	ListSeasons(ctx context.Context) ([]schema.Season, error)
	Generation() uint64
	Close() error
}

// StoreManager gives access to the configured stores.
type StoreManager interface {
	GetObservationStore() ObservationStore
	GetSeasonStore() SeasonStore
}

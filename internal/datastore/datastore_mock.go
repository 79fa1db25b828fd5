package datastore

import (
	"context"

	"github.com/pmcharts/pmc/internal/contract"
	"github.com/pmcharts/pmc/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetObservationStore implements the StoreManager interface.
func (m *MockStoreManager) GetObservationStore() contract.ObservationStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ObservationStore)
	return store
}

// GetSeasonStore implements the StoreManager interface.
func (m *MockStoreManager) GetSeasonStore() contract.SeasonStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.SeasonStore)
	return store
}

// MockObservationStore is a mock implementation of ObservationStore for testing.
type MockObservationStore struct {
	mock.Mock
}

var _ contract.ObservationStore = &MockObservationStore{} // Compile-time check

// Add implements the ObservationStore interface.
func (m *MockObservationStore) Add(ctx context.Context, obs schema.Observation) (schema.Observation, error) {
	args := m.Called(ctx, obs)
	return args.Get(0).(schema.Observation), args.Error(1)
}

// Get implements the ObservationStore interface.
func (m *MockObservationStore) Get(ctx context.Context, id string) (schema.Observation, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(schema.Observation), args.Error(1)
}

// Delete implements the ObservationStore interface.
func (m *MockObservationStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// List implements the ObservationStore interface.
func (m *MockObservationStore) List(ctx context.Context) ([]schema.Observation, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]schema.Observation)
	return items, args.Error(1)
}

// Generation implements the ObservationStore interface.
func (m *MockObservationStore) Generation() uint64 {
	args := m.Called()
	return args.Get(0).(uint64)
}

// GetStatus implements the ObservationStore interface.
func (m *MockObservationStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the ObservationStore interface.
func (m *MockObservationStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockSeasonStore is a mock implementation of SeasonStore for testing.
type MockSeasonStore struct {
	mock.Mock
}

var _ contract.SeasonStore = &MockSeasonStore{} // Compile-time check

// AddSeason implements the SeasonStore interface.
func (m *MockSeasonStore) AddSeason(ctx context.Context, season schema.Season) (schema.Season, error) {
	args := m.Called(ctx, season)
	return args.Get(0).(schema.Season), args.Error(1)
}

// DeleteSeason implements the SeasonStore interface.
func (m *MockSeasonStore) DeleteSeason(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ListSeasons implements the SeasonStore interface.
func (m *MockSeasonStore) ListSeasons(ctx context.Context) ([]schema.Season, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]schema.Season)
	return items, args.Error(1)
}

// Generation implements the SeasonStore interface.
func (m *MockSeasonStore) Generation() uint64 {
	args := m.Called()
	return args.Get(0).(uint64)
}

// Close implements the SeasonStore interface.
func (m *MockSeasonStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

package schema

import "time"

// StoreStatus represents the status of the observation store.
type StoreStatus struct {
	Backend             string    `json:"backend"`
	Connected           bool      `json:"connected"`
	TotalObservations   int       `json:"total_observations"`
	PlannedObservations int       `json:"planned_observations"`
	TotalSeasons        int       `json:"total_seasons"`
	FirstObservation    time.Time `json:"first_observation"`
	LastObservation     time.Time `json:"last_observation"`
	TableSizeBytes      int64     `json:"table_size_bytes"`
}

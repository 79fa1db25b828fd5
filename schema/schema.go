// Package schema has configs, models and global variables for all parts of pmc.
package schema

import "time"

// Season is a training period that may bank an initial long and short term
// stress value at its start date.
type Season struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`  // Open ended when nil
	Seed  *float64   `json:"seed,omitempty"` // Nil when the season banks no value
}

// HasSeed reports whether the season carries a seed value.
func (s Season) HasSeed() bool {
	return s.Seed != nil
}

// Observation is a single dated training record, either completed or planned.
// The stress value used by the series engine is derived from Metrics by a
// named lookup or an expression.
type Observation struct {
	ID       string             `json:"id"`
	Date     time.Time          `json:"date"`
	Planned  bool               `json:"planned"`
	Sport    string             `json:"sport"`
	Title    string             `json:"title"`
	Duration float64            `json:"duration"` // Seconds
	Metrics  map[string]float64 `json:"metrics"`
}

// Metric returns the named metric value and whether it was present.
func (o Observation) Metric(name string) (float64, bool) {
	v, ok := o.Metrics[name]
	return v, ok
}

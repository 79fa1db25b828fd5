package schema

import "time"

// SeriesPoint holds every field of one track for a single day.
type SeriesPoint struct {
	Date   time.Time `json:"date"`
	Track  Track     `json:"track"`
	Stress float64   `json:"stress"`
	LTS    float64   `json:"lts"`
	STS    float64   `json:"sts"`
	SB     float64   `json:"sb"`
	RR     float64   `json:"rr"`
}

// Value returns the point's value for the given field.
func (p SeriesPoint) Value(field Field) float64 {
	switch field {
	case StressField:
		return p.Stress
	case LTSField:
		return p.LTS
	case STSField:
		return p.STS
	case SBField:
		return p.SB
	case RRField:
		return p.RR
	default:
		return 0
	}
}

// SeriesResult holds daily points for one or more tracks over a date window.
type SeriesResult struct {
	Metric  string        `json:"metric"`
	LTSDays int           `json:"lts_days"`
	STSDays int           `json:"sts_days"`
	Start   time.Time     `json:"start"`
	End     time.Time     `json:"end"`
	Points  []SeriesPoint `json:"points"`
}

// TrackSummary holds the values of one track on a single day.
type TrackSummary struct {
	Track  Track   `json:"track"`
	Stress float64 `json:"stress"`
	LTS    float64 `json:"lts"`
	STS    float64 `json:"sts"`
	SB     float64 `json:"sb"`
	RR     float64 `json:"rr"`
}

// SummaryResult holds the per-track values for a single day.
type SummaryResult struct {
	Date    time.Time      `json:"date"`
	Metric  string         `json:"metric"`
	LTSDays int            `json:"lts_days"`
	STSDays int            `json:"sts_days"`
	Tracks  []TrackSummary `json:"tracks"`
}

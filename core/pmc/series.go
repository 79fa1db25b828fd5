package pmc

import "github.com/pmcharts/pmc/schema"

// dayState marks how a long/short term value was resolved.
type dayState uint8

const (
	unresolved dayState = iota
	seeded
	computed
)

// series holds the per-day arrays of a single track.
type series struct {
	stress    []float64
	longTerm  []float64
	shortTerm []float64
	rampRate  []float64
	balance   []float64 // days+1 entries
	state     []dayState
}

func newSeries(days int) series {
	return series{
		stress:    make([]float64, days),
		longTerm:  make([]float64, days),
		shortTerm: make([]float64, days),
		rampRate:  make([]float64, days),
		balance:   make([]float64, days+1),
		state:     make([]dayState, days),
	}
}

func (s *series) seed(offset int, value float64) {
	s.longTerm[offset] = value
	s.shortTerm[offset] = value
	s.state[offset] = seeded
}

func (s *series) field(field schema.Field) []float64 {
	switch field {
	case schema.StressField:
		return s.stress
	case schema.LTSField:
		return s.longTerm
	case schema.STSField:
		return s.shortTerm
	case schema.SBField:
		return s.balance
	case schema.RRField:
		return s.rampRate
	default:
		return nil
	}
}

// snapshot is a complete, immutable result of one recompute.
type snapshot struct {
	rng      DateRange
	days     int
	actual   series
	planned  series
	expected series
}

func emptySnapshot() *snapshot {
	return &snapshot{}
}

func (s *snapshot) track(track schema.Track) *series {
	switch track {
	case schema.ActualTrack:
		return &s.actual
	case schema.PlannedTrack:
		return &s.planned
	case schema.ExpectedTrack:
		return &s.expected
	default:
		return nil
	}
}

func (s *snapshot) value(track schema.Track, field schema.Field, offset int) float64 {
	if offset < 0 || offset >= s.days {
		return 0
	}
	t := s.track(track)
	if t == nil {
		return 0
	}
	values := t.field(field)
	if offset >= len(values) {
		return 0
	}
	return values[offset]
}

func (s *snapshot) point(track schema.Track, offset int) schema.SeriesPoint {
	return schema.SeriesPoint{
		Date:   s.rng.DateAt(offset),
		Track:  track,
		Stress: s.value(track, schema.StressField, offset),
		LTS:    s.value(track, schema.LTSField, offset),
		STS:    s.value(track, schema.STSField, offset),
		SB:     s.value(track, schema.SBField, offset),
		RR:     s.value(track, schema.RRField, offset),
	}
}

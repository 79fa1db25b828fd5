package pmc

import (
	"time"

	"github.com/pmcharts/pmc/schema"
)

// Window and horizon constants.
const (
	DefaultLTSDays = 42  // long term decay window
	DefaultSTSDays = 7   // short term decay window
	HorizonDays    = 365 // days projected past the last known date
)

const secondsPerDay = 24 * 60 * 60

// DateRange is the inclusive span of civil days over which series are materialized.
type DateRange struct {
	Start time.Time
	End   time.Time
	valid bool
}

// Valid reports whether the range holds at least two days.
func (r DateRange) Valid() bool {
	return r.valid
}

// Days returns the number of days in the range, or 0 when invalid.
func (r DateRange) Days() int {
	if !r.valid {
		return 0
	}
	return DaysBetween(r.Start, r.End) + 1
}

// Offset returns the day offset of date relative to the range start.
// The result may fall outside [0, Days()).
func (r DateRange) Offset(date time.Time) int {
	return DaysBetween(r.Start, date)
}

// Contains reports whether date falls inside the range.
func (r DateRange) Contains(date time.Time) bool {
	o := r.Offset(date)
	return r.valid && o >= 0 && o < r.Days()
}

// DateAt returns the civil date at the given offset from the range start.
func (r DateRange) DateAt(offset int) time.Time {
	return r.Start.AddDate(0, 0, offset)
}

// Civil truncates t to midnight UTC of its calendar date.
func Civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the exact number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int((Civil(b).Unix() - Civil(a).Unix()) / secondsPerDay)
}

// BuildRange computes the materialized date range from season seeds and observation dates.
// Only seasons carrying a seed value influence the range.
func BuildRange(seeds []schema.Season, dates []time.Time) DateRange {
	var seedFloor, firstObs, lastObs time.Time
	hasSeed, hasObs := false, false

	for _, s := range seeds {
		if !s.HasSeed() {
			continue
		}
		d := Civil(s.Start)
		if !hasSeed || d.Before(seedFloor) {
			seedFloor = d
			hasSeed = true
		}
	}

	for _, date := range dates {
		d := Civil(date)
		if !hasObs {
			firstObs, lastObs = d, d
			hasObs = true
			continue
		}
		if d.Before(firstObs) {
			firstObs = d
		}
		if d.After(lastObs) {
			lastObs = d
		}
	}

	var start, end time.Time
	switch {
	case hasSeed && hasObs:
		start = seedFloor
		if dayBefore := firstObs.AddDate(0, 0, -1); dayBefore.Before(start) {
			start = dayBefore
		}
	case hasSeed:
		start = seedFloor
	case hasObs:
		start = firstObs.AddDate(0, 0, -1)
	default:
		return DateRange{}
	}

	if hasObs && (!hasSeed || lastObs.After(seedFloor)) {
		end = lastObs.AddDate(0, 0, HorizonDays)
	} else {
		end = seedFloor.AddDate(0, 0, HorizonDays)
	}

	return DateRange{Start: start, End: end, valid: start.Before(end)}
}

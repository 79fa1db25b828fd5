package pmc

import (
	"time"

	"github.com/pmcharts/pmc/schema"
)

// LTS returns the actual long term stress on date.
func (e *Engine) LTS(date time.Time) float64 {
	return e.ValueAt(schema.ActualTrack, schema.LTSField, date)
}

// STS returns the actual short term stress on date.
func (e *Engine) STS(date time.Time) float64 {
	return e.ValueAt(schema.ActualTrack, schema.STSField, date)
}

// SB returns the actual stress balance on date.
func (e *Engine) SB(date time.Time) float64 {
	return e.ValueAt(schema.ActualTrack, schema.SBField, date)
}

// RR returns the actual ramp rate on date.
func (e *Engine) RR(date time.Time) float64 {
	return e.ValueAt(schema.ActualTrack, schema.RRField, date)
}

// Stress returns the actual stress sum on date.
func (e *Engine) Stress(date time.Time) float64 {
	return e.ValueAt(schema.ActualTrack, schema.StressField, date)
}

// PlannedLTS returns the planned long term stress on date.
func (e *Engine) PlannedLTS(date time.Time) float64 {
	return e.ValueAt(schema.PlannedTrack, schema.LTSField, date)
}

// PlannedSTS returns the planned short term stress on date.
func (e *Engine) PlannedSTS(date time.Time) float64 {
	return e.ValueAt(schema.PlannedTrack, schema.STSField, date)
}

// PlannedSB returns the planned stress balance on date.
func (e *Engine) PlannedSB(date time.Time) float64 {
	return e.ValueAt(schema.PlannedTrack, schema.SBField, date)
}

// PlannedRR returns the planned ramp rate on date.
func (e *Engine) PlannedRR(date time.Time) float64 {
	return e.ValueAt(schema.PlannedTrack, schema.RRField, date)
}

// PlannedStress returns the planned stress sum on date.
func (e *Engine) PlannedStress(date time.Time) float64 {
	return e.ValueAt(schema.PlannedTrack, schema.StressField, date)
}

// ExpectedLTS returns the expected long term stress on date.
func (e *Engine) ExpectedLTS(date time.Time) float64 {
	return e.ValueAt(schema.ExpectedTrack, schema.LTSField, date)
}

// ExpectedSTS returns the expected short term stress on date.
func (e *Engine) ExpectedSTS(date time.Time) float64 {
	return e.ValueAt(schema.ExpectedTrack, schema.STSField, date)
}

// ExpectedSB returns the expected stress balance on date.
func (e *Engine) ExpectedSB(date time.Time) float64 {
	return e.ValueAt(schema.ExpectedTrack, schema.SBField, date)
}

// ExpectedRR returns the expected ramp rate on date.
func (e *Engine) ExpectedRR(date time.Time) float64 {
	return e.ValueAt(schema.ExpectedTrack, schema.RRField, date)
}

// ExpectedStress returns the expected stress sum on date.
func (e *Engine) ExpectedStress(date time.Time) float64 {
	return e.ValueAt(schema.ExpectedTrack, schema.StressField, date)
}

package pmc

import "math"

// resolve runs the banked exponential moving average over a track, then
// derives ramp rate and stress balance.
func (s *series) resolve(ltsDays, stsDays int, balanceToday bool) {
	days := len(s.stress)
	if days == 0 {
		return
	}
	longDecay := math.Exp(-1.0 / float64(ltsDays))
	shortDecay := math.Exp(-1.0 / float64(stsDays))

	var prevLong, prevShort float64
	for d := range days {
		if s.state[d] != seeded {
			s.longTerm[d] = s.stress[d]*(1-longDecay) + prevLong*longDecay
			s.shortTerm[d] = s.stress[d]*(1-shortDecay) + prevShort*shortDecay
			s.state[d] = computed
		}
		prevLong, prevShort = s.longTerm[d], s.shortTerm[d]
	}

	// Ramp rate is the change in long term stress over the trailing short window.
	var rolling float64
	s.rampRate[0] = 0
	for d := 1; d < days; d++ {
		rolling += s.longTerm[d] - s.longTerm[d-1]
		if d > stsDays {
			rolling -= s.longTerm[d-stsDays] - s.longTerm[d-stsDays-1]
		}
		s.rampRate[d] = rolling
	}

	shift := 1
	if balanceToday {
		shift = 0
	}
	for d := range days {
		s.balance[d+shift] = s.longTerm[d] - s.shortTerm[d]
	}
}

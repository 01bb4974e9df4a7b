package progress

import (
	"math"
	"time"
)

// roundHalf rounds half away from zero. Every "round" in the engine uses
// this rule so derived values stay reproducible across recomputes.
func roundHalf(x float64) int {
	return int(math.Round(x))
}

// increaseStability boosts a topic's stability after a completion or
// revision toggle, clamped to the maximum.
func increaseStability(stability int, params *Params) int {
	newStability := stability + params.StabilityBoost
	if newStability > params.MaxStability {
		return params.MaxStability
	}
	return newStability
}

// decreaseStability applies the overdue decay penalty to a topic's
// stability. The penalty grows with the number of whole days elapsed since
// the missed revision date and shrinks with the topic's revision count:
// a topic revised many times decays slower than a fresh one.
//
// Called only for topics found overdue and not currently revised.
func decreaseStability(stability, revisionCount int, revisionDate, now time.Time, params *Params) int {
	daysElapsed := int(now.Sub(revisionDate) / params.Day)
	if daysElapsed < 0 {
		daysElapsed = 0
	}

	var newStability int
	if revisionCount == 0 {
		newStability = stability - params.DecayPerDay*daysElapsed
	} else {
		penalty := roundHalf(float64(params.DecayPerDay*daysElapsed) / float64(revisionCount))
		newStability = stability - penalty
	}

	if newStability < 0 {
		return 0
	}
	return newStability
}

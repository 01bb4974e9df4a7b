package progress

import (
	"time"

	"github.com/masteryapp/mastery-api/internal/domain"
)

// RequiredVelocitySentinel is reported when the course deadline is less
// than a week away: no weekly pace can be meaningfully computed, so the
// course demands everything that remains.
const RequiredVelocitySentinel = 100

// currentVelocity is the average progress gained per week since the course
// was created. In the first week, before a full week has elapsed and
// rounded up, it reads 0.
func currentVelocity(progress int, createdAt, now time.Time, params *Params) int {
	weeks := roundHalf(float64(now.Sub(createdAt)) / float64(params.Week))
	if weeks <= 0 {
		return 0
	}
	return progress / weeks
}

// requiredVelocity is the weekly progress needed to finish the remaining
// work before the deadline. With less than a whole week left it returns
// the sentinel value instead of dividing by zero.
func requiredVelocity(progress int, deadline, now time.Time, params *Params) int {
	weeksLeft := int(deadline.Sub(now) / params.Week)
	if weeksLeft < 1 {
		return RequiredVelocitySentinel
	}
	return roundHalf(float64(100-progress) / float64(weeksLeft))
}

// goalStatus is the percentage of the weekly study goal met inside the
// current goal window: bursts created strictly between one week before the
// reset date and the reset date itself. A zero goal reads 0.
func goalStatus(bursts []*domain.Burst, goal int, goalResetDate time.Time, params *Params) int {
	if goal == 0 {
		return 0
	}

	windowStart := goalResetDate.Add(-params.Week)
	minutes := 0
	for _, burst := range bursts {
		if burst.CreatedAt.After(windowStart) && burst.CreatedAt.Before(goalResetDate) {
			minutes += burst.Duration
		}
	}

	return roundHalf(100 * float64(minutes) / float64(goal*60))
}

// goalWindowElapsed reports whether the current goal window has closed.
func goalWindowElapsed(goalResetDate, now time.Time) bool {
	return now.After(goalResetDate)
}

// nextGoalResetDate advances the window boundary by exactly one week. The
// window is rolled lazily, one week per read, so a course left idle for a
// month catches up over successive reads rather than jumping ahead.
func nextGoalResetDate(goalResetDate time.Time, params *Params) time.Time {
	return goalResetDate.Add(params.Week)
}

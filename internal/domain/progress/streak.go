package progress

import (
	"time"

	"github.com/masteryapp/mastery-api/internal/domain"
)

// shouldIncrementStreak reports whether logging a burst right now would be
// the first burst of the current UTC calendar day for the course. It must be
// evaluated before the new burst is inserted, so the new burst itself does
// not suppress the increment.
func shouldIncrementStreak(bursts []*domain.Burst, now time.Time) bool {
	nowYear, nowMonth, nowDay := now.UTC().Date()
	for _, burst := range bursts {
		year, month, day := burst.CreatedAt.UTC().Date()
		if year == nowYear && month == nowMonth && day == nowDay {
			return false
		}
	}
	return true
}

// shouldResetStreak reports whether more than a full day has passed since
// the course's most recent burst. A course with no bursts never resets.
//
// Increment runs at burst-creation time and reset runs at course-read time;
// the two triggers can disagree until the next read, which is accepted lag.
func shouldResetStreak(bursts []*domain.Burst, now time.Time, params *Params) bool {
	if len(bursts) == 0 {
		return false
	}

	var lastBurst time.Time
	for _, burst := range bursts {
		if burst.CreatedAt.After(lastBurst) {
			lastBurst = burst.CreatedAt
		}
	}

	return now.Sub(lastBurst) > params.Day
}

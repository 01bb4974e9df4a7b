package progress

import (
	"time"

	"github.com/masteryapp/mastery-api/internal/domain"
)

// nextRevisionDate computes when a topic should next be revised.
//
// The first revision is always due one day out regardless of intensity.
// After that the delay grows linearly with the revision count, scaled by the
// course intensity: Low 9, Medium 6, High 3 days per revision unit.
func nextRevisionDate(revisionCount int, intensity domain.Intensity, now time.Time, params *Params) time.Time {
	if revisionCount == 0 {
		return now.Add(params.FirstRevisionDelay)
	}

	delay := time.Duration(revisionCount*params.intensityDays(intensity)) * params.Day
	return now.Add(delay)
}

// revisionDue reports whether the revision date has passed.
func revisionDue(revisionDate, now time.Time) bool {
	return now.After(revisionDate)
}

// revisionOverdue reports whether the revision date has passed by more than
// the grace period.
func revisionOverdue(revisionDate, now time.Time, params *Params) bool {
	return now.After(revisionDate.Add(params.OverdueGrace))
}

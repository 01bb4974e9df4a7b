package progress

import (
	"github.com/masteryapp/mastery-api/internal/domain"
)

// overallProgress returns the percentage of completed topics, rounded.
// An empty topic set yields 0.
func overallProgress(topics []*domain.Topic) int {
	if len(topics) == 0 {
		return 0
	}

	completed := 0
	for _, topic := range topics {
		if topic.Completed {
			completed++
		}
	}

	return roundHalf(100 * float64(completed) / float64(len(topics)))
}

// overallStability returns the mean stability of completed topics, rounded.
// Incomplete topics do not contribute; with no completed topics it is 0.
func overallStability(topics []*domain.Topic) int {
	sum := 0
	completed := 0
	for _, topic := range topics {
		if topic.Completed {
			sum += topic.Stability
			completed++
		}
	}

	if completed == 0 {
		return 0
	}
	return roundHalf(float64(sum) / float64(completed))
}

// courseStrength converts the course's total burst minutes to whole hours,
// truncating the remainder.
func courseStrength(bursts []*domain.Burst) int {
	minutes := 0
	for _, burst := range bursts {
		minutes += burst.Duration
	}
	return minutes / 60
}

// userLevel derives the account level from total strength, one level per
// ten hours.
func userLevel(courses []*domain.Course) int {
	return userStrength(courses) / 10
}

// userStrength sums the strength of every course on the account.
func userStrength(courses []*domain.Course) int {
	total := 0
	for _, course := range courses {
		total += course.Strength
	}
	return total
}

// userProgress is the unweighted mean of course progress values, truncated
// and capped at 100. An account with no courses reads 0.
func userProgress(courses []*domain.Course) int {
	if len(courses) == 0 {
		return 0
	}

	sum := 0
	for _, course := range courses {
		sum += course.Progress
	}

	progress := sum / len(courses)
	if progress > 100 {
		return 100
	}
	return progress
}

// userGoalStatus is the goal-weighted mean of course goal statuses, capped
// at 100. Courses with larger weekly goals pull the aggregate harder. An
// account with no courses, or where every goal is zero, reads 0.
func userGoalStatus(courses []*domain.Course) int {
	if len(courses) == 0 {
		return 0
	}

	weighted := 0.0
	totalGoal := 0
	for _, course := range courses {
		weighted += float64(course.GoalStatus) * float64(course.Goal) / 100
		totalGoal += course.Goal
	}

	if totalGoal == 0 {
		return 0
	}

	status := roundHalf(100 * weighted / float64(totalGoal))
	if status > 100 {
		return 100
	}
	return status
}

package progress

import (
	"testing"

	"github.com/masteryapp/mastery-api/internal/domain"
)

func topicWith(completed bool, stability int) *domain.Topic {
	return &domain.Topic{Completed: completed, Stability: stability}
}

func TestOverallProgress(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		topics   []*domain.Topic
		expected int
	}{
		{
			name:     "Empty set is zero",
			topics:   nil,
			expected: 0,
		},
		{
			name: "Three of four completed",
			topics: []*domain.Topic{
				topicWith(true, 0),
				topicWith(true, 0),
				topicWith(true, 0),
				topicWith(false, 0),
			},
			expected: 75,
		},
		{
			name: "One of three rounds to 33",
			topics: []*domain.Topic{
				topicWith(true, 0),
				topicWith(false, 0),
				topicWith(false, 0),
			},
			expected: 33,
		},
		{
			name: "All completed",
			topics: []*domain.Topic{
				topicWith(true, 0),
				topicWith(true, 0),
			},
			expected: 100,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := overallProgress(tc.topics)
			if got != tc.expected {
				t.Errorf("Expected progress %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestOverallStability(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		topics   []*domain.Topic
		expected int
	}{
		{
			name:     "Empty set is zero",
			topics:   nil,
			expected: 0,
		},
		{
			name: "No completed topics is zero",
			topics: []*domain.Topic{
				topicWith(false, 80),
				topicWith(false, 90),
			},
			expected: 0,
		},
		{
			name: "Mean over completed topics only",
			topics: []*domain.Topic{
				topicWith(true, 60),
				topicWith(true, 80),
				topicWith(false, 10),
			},
			expected: 70,
		},
		{
			name: "Half mean rounds away from zero",
			topics: []*domain.Topic{
				topicWith(true, 10),
				topicWith(true, 15),
			},
			expected: 13, // mean 12.5
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := overallStability(tc.topics)
			if got != tc.expected {
				t.Errorf("Expected stability %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestCourseStrength(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		minutes  []int
		expected int
	}{
		{name: "No bursts", minutes: nil, expected: 0},
		{name: "Under an hour truncates to zero", minutes: []int{25, 30}, expected: 0},
		{name: "Whole hours", minutes: []int{60, 60}, expected: 2},
		{name: "Remainder discarded", minutes: []int{90, 45}, expected: 2}, // 135 min
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var bursts []*domain.Burst
			for _, m := range tc.minutes {
				bursts = append(bursts, &domain.Burst{Duration: m})
			}
			got := courseStrength(bursts)
			if got != tc.expected {
				t.Errorf("Expected strength %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestUserRollups(t *testing.T) {
	t.Parallel()

	courses := []*domain.Course{
		{Strength: 12, Progress: 80, Goal: 60, GoalStatus: 50},
		{Strength: 9, Progress: 45, Goal: 40, GoalStatus: 100},
	}

	if got := userStrength(courses); got != 21 {
		t.Errorf("Expected strength 21, got %d", got)
	}
	if got := userLevel(courses); got != 2 {
		t.Errorf("Expected level 2, got %d", got)
	}
	if got := userProgress(courses); got != 62 {
		t.Errorf("Expected progress 62, got %d", got)
	}
	// weighted: round(100 * (50*60/100 + 100*40/100) / 100) = 70
	if got := userGoalStatus(courses); got != 70 {
		t.Errorf("Expected goal status 70, got %d", got)
	}
}

func TestUserRollupsEdgeCases(t *testing.T) {
	t.Parallel()

	if got := userProgress(nil); got != 0 {
		t.Errorf("Expected progress 0 with no courses, got %d", got)
	}
	if got := userGoalStatus(nil); got != 0 {
		t.Errorf("Expected goal status 0 with no courses, got %d", got)
	}

	zeroGoals := []*domain.Course{
		{Goal: 0, GoalStatus: 50},
		{Goal: 0, GoalStatus: 80},
	}
	if got := userGoalStatus(zeroGoals); got != 0 {
		t.Errorf("Expected goal status 0 with zero total goal, got %d", got)
	}

	overachiever := []*domain.Course{
		{Progress: 110},
		{Progress: 120},
	}
	if got := userProgress(overachiever); got != 100 {
		t.Errorf("Expected progress capped at 100, got %d", got)
	}
}

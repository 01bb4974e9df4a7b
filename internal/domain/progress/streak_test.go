package progress

import (
	"testing"
	"time"

	"github.com/masteryapp/mastery-api/internal/domain"
)

func burstAt(created time.Time) *domain.Burst {
	return &domain.Burst{CreatedAt: created}
}

func TestShouldIncrementStreak(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		bursts   []*domain.Burst
		expected bool
	}{
		{
			name:     "No bursts at all",
			bursts:   nil,
			expected: true,
		},
		{
			name: "Only bursts from previous days",
			bursts: []*domain.Burst{
				burstAt(now.Add(-26 * time.Hour)),
				burstAt(now.Add(-50 * time.Hour)),
			},
			expected: true,
		},
		{
			name: "Burst earlier today suppresses increment",
			bursts: []*domain.Burst{
				burstAt(now.Add(-3 * time.Hour)),
			},
			expected: false,
		},
		{
			name: "Midnight boundary separates calendar days",
			bursts: []*domain.Burst{
				burstAt(time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC)),
			},
			expected: true,
		},
		{
			name: "Same day in another zone still matches by UTC",
			bursts: []*domain.Burst{
				burstAt(time.Date(2025, 3, 10, 1, 0, 0, 0, time.FixedZone("UTC+5", 5*3600))),
			},
			expected: true, // 01:00 UTC+5 is 20:00 UTC on March 9
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := shouldIncrementStreak(tc.bursts, now)
			if got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestShouldResetStreak(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		bursts   []*domain.Burst
		expected bool
	}{
		{
			name:     "No bursts never resets",
			bursts:   nil,
			expected: false,
		},
		{
			name: "Recent burst keeps the streak",
			bursts: []*domain.Burst{
				burstAt(now.Add(-5 * time.Hour)),
			},
			expected: false,
		},
		{
			name: "Exactly one day is not yet a reset",
			bursts: []*domain.Burst{
				burstAt(now.Add(-24 * time.Hour)),
			},
			expected: false,
		},
		{
			name: "More than a day since the last burst",
			bursts: []*domain.Burst{
				burstAt(now.Add(-25 * time.Hour)),
			},
			expected: true,
		},
		{
			name: "Only the most recent burst counts",
			bursts: []*domain.Burst{
				burstAt(now.Add(-72 * time.Hour)),
				burstAt(now.Add(-2 * time.Hour)),
				burstAt(now.Add(-48 * time.Hour)),
			},
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := shouldResetStreak(tc.bursts, now, params)
			if got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

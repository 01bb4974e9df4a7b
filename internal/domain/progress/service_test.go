package progress

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/masteryapp/mastery-api/internal/domain"
)

func testCourse(createdAt time.Time) *domain.Course {
	return &domain.Course{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		Name:          "Linear Algebra",
		Intensity:     domain.IntensityMedium,
		Goal:          5,
		Deadline:      createdAt.Add(60 * 24 * time.Hour),
		GoalResetDate: createdAt.Add(7 * 24 * time.Hour),
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

func TestRefreshCourse(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2025, 3, 24, 12, 0, 0, 0, time.UTC)
	created := now.Add(-14 * 24 * time.Hour)

	course := testCourse(created)
	course.Streak = 4

	topics := []*domain.Topic{
		topicWith(true, 60),
		topicWith(true, 80),
		topicWith(false, 0),
		topicWith(false, 0),
	}
	bursts := []*domain.Burst{
		{Duration: 90, CreatedAt: now.Add(-2 * time.Hour)},
		{Duration: 45, CreatedAt: now.Add(-30 * time.Hour)},
	}

	updated, err := svc.RefreshCourse(course, topics, bursts, now)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if updated.Progress != 50 {
		t.Errorf("Expected progress 50, got %d", updated.Progress)
	}
	if updated.Stability != 70 {
		t.Errorf("Expected stability 70, got %d", updated.Stability)
	}
	if updated.Strength != 2 { // 135 minutes
		t.Errorf("Expected strength 2, got %d", updated.Strength)
	}
	if updated.Streak != 4 {
		t.Errorf("Expected streak preserved at 4, got %d", updated.Streak)
	}
	if updated.CurrentVelocity != 25 { // 50 progress over 2 weeks
		t.Errorf("Expected current velocity 25, got %d", updated.CurrentVelocity)
	}
	if updated.RequiredVelocity != 8 { // round(50/6 weeks remaining)
		t.Errorf("Expected required velocity 8, got %d", updated.RequiredVelocity)
	}

	if course.Progress != 0 || course.Strength != 0 {
		t.Error("Input course must not be mutated")
	}
}

func TestRefreshCourseResetsStaleStreak(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2025, 3, 24, 12, 0, 0, 0, time.UTC)

	course := testCourse(now.Add(-14 * 24 * time.Hour))
	course.Streak = 9

	bursts := []*domain.Burst{
		{Duration: 30, CreatedAt: now.Add(-48 * time.Hour)},
	}

	updated, err := svc.RefreshCourse(course, nil, bursts, now)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if updated.Streak != 0 {
		t.Errorf("Expected streak reset to 0, got %d", updated.Streak)
	}
}

func TestRefreshCourseFreezesVelocityWhenFinished(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2025, 3, 24, 12, 0, 0, 0, time.UTC)

	course := testCourse(now.Add(-70 * 24 * time.Hour))
	course.CurrentVelocity = 14

	topics := []*domain.Topic{topicWith(true, 90), topicWith(true, 70)}

	updated, err := svc.RefreshCourse(course, topics, nil, now)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if updated.Progress != 100 {
		t.Fatalf("Expected progress 100, got %d", updated.Progress)
	}
	if updated.CurrentVelocity != 14 {
		t.Errorf("Expected velocity frozen at 14, got %d", updated.CurrentVelocity)
	}
}

func TestRefreshCourseIdempotent(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2025, 3, 24, 12, 0, 0, 0, time.UTC)

	course := testCourse(now.Add(-21 * 24 * time.Hour))
	topics := []*domain.Topic{topicWith(true, 55), topicWith(false, 10)}
	bursts := []*domain.Burst{{Duration: 75, CreatedAt: now.Add(-time.Hour)}}

	first, err := svc.RefreshCourse(course, topics, bursts, now)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := svc.RefreshCourse(first, topics, bursts, now)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if *first != *second {
		t.Errorf("Recompute must be idempotent for a fixed clock: %+v vs %+v", first, second)
	}
}

func TestRollGoalWindow(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	reset := time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)

	course := testCourse(reset.Add(-7 * 24 * time.Hour))
	course.GoalResetDate = reset
	course.Goal = 2 // 120 goal minutes per week

	t.Run("Open window keeps its reset date but refreshes status", func(t *testing.T) {
		bursts := []*domain.Burst{
			{Duration: 60, CreatedAt: reset.Add(-3 * time.Hour)},
		}
		updated, err := svc.RollGoalWindow(course, bursts, reset.Add(-time.Hour))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !updated.GoalResetDate.Equal(reset) {
			t.Errorf("Expected reset date unchanged, got %v", updated.GoalResetDate)
		}
		if updated.GoalStatus != 50 { // 60 of 120 goal minutes logged so far
			t.Errorf("Expected goal status 50, got %d", updated.GoalStatus)
		}
	})

	t.Run("Goal met mid-window reads 100 immediately", func(t *testing.T) {
		weekly := testCourse(reset.Add(-7 * 24 * time.Hour))
		weekly.GoalResetDate = reset
		weekly.Goal = 1 // 60 goal minutes per week

		bursts := []*domain.Burst{
			{Duration: 60, CreatedAt: reset.Add(-2 * time.Hour)},
		}
		updated, err := svc.RollGoalWindow(weekly, bursts, reset.Add(-time.Hour))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if updated.GoalStatus != 100 {
			t.Errorf("Expected goal status 100, got %d", updated.GoalStatus)
		}
	})

	t.Run("Elapsed window advances one week and recomputes status", func(t *testing.T) {
		now := reset.Add(26 * time.Hour)
		bursts := []*domain.Burst{
			{Duration: 60, CreatedAt: reset.Add(2 * time.Hour)},
			{Duration: 200, CreatedAt: reset.Add(-2 * time.Hour)}, // previous window
		}

		updated, err := svc.RollGoalWindow(course, bursts, now)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if want := reset.Add(7 * 24 * time.Hour); !updated.GoalResetDate.Equal(want) {
			t.Errorf("Expected reset date %v, got %v", want, updated.GoalResetDate)
		}
		if updated.GoalStatus != 50 {
			t.Errorf("Expected goal status 50, got %d", updated.GoalStatus)
		}
	})

	t.Run("Rolls exactly one week per read even when far behind", func(t *testing.T) {
		now := reset.Add(30 * 24 * time.Hour)
		updated, err := svc.RollGoalWindow(course, nil, now)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if want := reset.Add(7 * 24 * time.Hour); !updated.GoalResetDate.Equal(want) {
			t.Errorf("Expected a single one-week advance to %v, got %v", want, updated.GoalResetDate)
		}
	})

	t.Run("Status capped at 100", func(t *testing.T) {
		now := reset.Add(time.Hour)
		bursts := []*domain.Burst{
			{Duration: 600, CreatedAt: reset.Add(30 * time.Minute)},
		}
		updated, err := svc.RollGoalWindow(course, bursts, now)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if updated.GoalStatus != 100 {
			t.Errorf("Expected goal status capped at 100, got %d", updated.GoalStatus)
		}
	})
}

func TestSweepTopic(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2025, 3, 24, 12, 0, 0, 0, time.UTC)

	newTopic := func(revised bool, revisionDate *time.Time, stability, count int) *domain.Topic {
		return &domain.Topic{
			ID:            uuid.New(),
			Revised:       revised,
			RevisionDate:  revisionDate,
			Stability:     stability,
			RevisionCount: count,
		}
	}
	datePtr := func(d time.Time) *time.Time { return &d }

	t.Run("No revision date is a no-op", func(t *testing.T) {
		topic := newTopic(false, nil, 50, 0)
		_, changed, err := svc.SweepTopic(topic, domain.IntensityMedium, now)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if changed {
			t.Error("Expected no change")
		}
	})

	t.Run("Lapsed revision window clears the revised flag", func(t *testing.T) {
		topic := newTopic(true, datePtr(now.Add(-48*time.Hour)), 50, 2)
		updated, changed, err := svc.SweepTopic(topic, domain.IntensityMedium, now)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !changed {
			t.Fatal("Expected a change")
		}
		if updated.Revised {
			t.Error("Expected revised flag cleared")
		}
		if updated.Stability != 50 {
			t.Errorf("Rule one must not touch stability, got %d", updated.Stability)
		}
		if !updated.RevisionDate.Equal(now.Add(-48 * time.Hour)) {
			t.Error("Rule one must not reschedule")
		}
	})

	t.Run("Overdue unrevised topic decays and reschedules", func(t *testing.T) {
		topic := newTopic(false, datePtr(now.Add(-3*24*time.Hour)), 50, 2)
		updated, changed, err := svc.SweepTopic(topic, domain.IntensityHigh, now)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !changed {
			t.Fatal("Expected a change")
		}
		if updated.Stability != 35 { // 50 - round(30/2)
			t.Errorf("Expected stability 35, got %d", updated.Stability)
		}
		if want := now.Add(2 * 3 * 24 * time.Hour); !updated.RevisionDate.Equal(want) {
			t.Errorf("Expected reschedule to %v, got %v", want, updated.RevisionDate)
		}
	})

	t.Run("Due but inside grace period stays put", func(t *testing.T) {
		topic := newTopic(false, datePtr(now.Add(-2*time.Hour)), 50, 1)
		_, changed, err := svc.SweepTopic(topic, domain.IntensityMedium, now)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if changed {
			t.Error("Expected no change inside the grace period")
		}
	})

	t.Run("Revised topic never decays even when overdue", func(t *testing.T) {
		topic := newTopic(true, datePtr(now.Add(-5*24*time.Hour)), 50, 1)
		updated, _, err := svc.SweepTopic(topic, domain.IntensityMedium, now)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if updated.Stability != 50 {
			t.Errorf("Expected stability untouched at 50, got %d", updated.Stability)
		}
	})
}

func TestApplyTopicUpdate(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2025, 3, 24, 12, 0, 0, 0, time.UTC)

	base := &domain.Topic{
		ID:            uuid.New(),
		Name:          "Eigenvalues",
		Completed:     false,
		Revised:       false,
		RevisionCount: 1,
		Stability:     40,
	}

	t.Run("Completion flip reschedules and boosts", func(t *testing.T) {
		updated := base.Clone()
		updated.Completed = true

		result, err := svc.ApplyTopicUpdate(base, updated, domain.IntensityLow, now)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if result.Stability != 60 {
			t.Errorf("Expected stability 60, got %d", result.Stability)
		}
		if result.RevisionDate == nil {
			t.Fatal("Expected a revision date")
		}
		if want := now.Add(1 * 9 * 24 * time.Hour); !result.RevisionDate.Equal(want) {
			t.Errorf("Expected revision date %v, got %v", want, result.RevisionDate)
		}
	})

	t.Run("Revision flip uses the updated revision count", func(t *testing.T) {
		updated := base.Clone()
		updated.Revised = true
		updated.RevisionCount = 2

		result, err := svc.ApplyTopicUpdate(base, updated, domain.IntensityMedium, now)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if want := now.Add(2 * 6 * 24 * time.Hour); !result.RevisionDate.Equal(want) {
			t.Errorf("Expected revision date %v, got %v", want, result.RevisionDate)
		}
	})

	t.Run("Rename alone passes through", func(t *testing.T) {
		updated := base.Clone()
		updated.Name = "Eigenvectors"

		result, err := svc.ApplyTopicUpdate(base, updated, domain.IntensityMedium, now)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if result.Stability != 40 {
			t.Errorf("Expected stability untouched at 40, got %d", result.Stability)
		}
		if result.RevisionDate != nil {
			t.Error("Expected no reschedule")
		}
	})
}

func TestStreakIncrementOncePerDay(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2025, 3, 24, 9, 0, 0, 0, time.UTC)

	var bursts []*domain.Burst
	if !svc.ShouldIncrementStreak(bursts, now) {
		t.Fatal("First burst of the day must increment the streak")
	}

	bursts = append(bursts, &domain.Burst{CreatedAt: now})
	if svc.ShouldIncrementStreak(bursts, now.Add(2*time.Hour)) {
		t.Error("Second burst the same day must not increment again")
	}
}

func TestRefreshLesson(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()

	lesson := &domain.Lesson{ID: uuid.New(), Name: "Week one"}
	topics := []*domain.Topic{
		topicWith(true, 90),
		topicWith(false, 0),
	}

	updated, err := svc.RefreshLesson(lesson, topics)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if updated.Progress != 50 {
		t.Errorf("Expected progress 50, got %d", updated.Progress)
	}
	if updated.Stability != 90 {
		t.Errorf("Expected stability 90, got %d", updated.Stability)
	}
}

func TestRefreshUser(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2025, 3, 24, 12, 0, 0, 0, time.UTC)

	user := &domain.User{
		ID:         uuid.New(),
		Active:     true,
		ExpiryDate: now.Add(24 * time.Hour),
	}
	courses := []*domain.Course{
		{Strength: 15, Progress: 60, Goal: 60, GoalStatus: 50},
		{Strength: 10, Progress: 90, Goal: 40, GoalStatus: 100},
	}

	updated, err := svc.RefreshUser(user, courses, now)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if updated.Level != 2 {
		t.Errorf("Expected level 2, got %d", updated.Level)
	}
	if updated.Strength != 25 {
		t.Errorf("Expected strength 25, got %d", updated.Strength)
	}
	if updated.Progress != 75 {
		t.Errorf("Expected progress 75, got %d", updated.Progress)
	}
	if updated.GoalStatus != 70 {
		t.Errorf("Expected goal status 70, got %d", updated.GoalStatus)
	}
	if !updated.Active {
		t.Error("Unexpired membership must stay active")
	}
}

func TestRefreshUserDeactivatesExpiredMembership(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2025, 3, 24, 12, 0, 0, 0, time.UTC)

	user := &domain.User{
		ID:         uuid.New(),
		Active:     true,
		ExpiryDate: now.Add(-time.Hour),
	}

	updated, err := svc.RefreshUser(user, nil, now)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if updated.Active {
		t.Error("Expired membership must be deactivated")
	}
}

func TestServiceNilGuards(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Now().UTC()

	if _, err := svc.RefreshCourse(nil, nil, nil, now); err != ErrNilCourse {
		t.Errorf("Expected ErrNilCourse, got %v", err)
	}
	if _, err := svc.RollGoalWindow(nil, nil, now); err != ErrNilCourse {
		t.Errorf("Expected ErrNilCourse, got %v", err)
	}
	if _, _, err := svc.SweepTopic(nil, domain.IntensityMedium, now); err != ErrNilTopic {
		t.Errorf("Expected ErrNilTopic, got %v", err)
	}
	if _, err := svc.ApplyTopicUpdate(nil, nil, domain.IntensityMedium, now); err != ErrNilTopic {
		t.Errorf("Expected ErrNilTopic, got %v", err)
	}
	if _, err := svc.RefreshLesson(nil, nil); err != ErrNilLesson {
		t.Errorf("Expected ErrNilLesson, got %v", err)
	}
	if _, err := svc.RefreshUser(nil, nil, now); err != ErrNilUser {
		t.Errorf("Expected ErrNilUser, got %v", err)
	}
}

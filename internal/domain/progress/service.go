package progress

import (
	"errors"
	"time"

	"github.com/masteryapp/mastery-api/internal/domain"
)

// Common errors returned by the progress service.
var (
	ErrNilCourse = errors.New("course cannot be nil")
	ErrNilLesson = errors.New("lesson cannot be nil")
	ErrNilTopic  = errors.New("topic cannot be nil")
	ErrNilUser   = errors.New("user cannot be nil")
)

// Service defines the recompute operations of the progress engine. Every
// method is a pure function of its inputs plus the supplied clock reading:
// it never mutates its arguments, performs no I/O, and is safe to call
// repeatedly and in any order across independent entities. Callers load the
// relevant records, invoke the engine, and persist whatever comes back.
type Service interface {
	// RefreshCourse recomputes the course's read-time snapshot: progress
	// and stability over its topics, strength and streak reset over its
	// bursts, and both velocity figures. Current velocity is recomputed
	// only while progress is below 100; a finished course keeps the last
	// computed value.
	RefreshCourse(course *domain.Course, topics []*domain.Topic, bursts []*domain.Burst, now time.Time) (*domain.Course, error)

	// RollGoalWindow recomputes the course's weekly goal status and
	// lazily advances the goal window. When the reset date has passed the
	// window first moves forward exactly one week; the status is then
	// recomputed over bursts inside the current window, capped at 100, so
	// every read reflects the bursts logged so far this week.
	RollGoalWindow(course *domain.Course, bursts []*domain.Burst, now time.Time) (*domain.Course, error)

	// SweepTopic applies the read-time revision state machine to a single
	// topic. A revised topic whose revision date has passed drops its
	// revised flag; otherwise an unrevised, scheduled, overdue topic decays
	// in stability and gets a fresh revision date. The second return value
	// reports whether anything changed, so callers persist only mutated
	// rows.
	SweepTopic(topic *domain.Topic, intensity domain.Intensity, now time.Time) (*domain.Topic, bool, error)

	// ApplyTopicUpdate merges a caller-supplied topic update against the
	// stored state. When the update flips the completed or revised flag,
	// the topic is rescheduled from its updated revision count and its
	// stability is boosted. Updates that touch neither flag pass through
	// untouched.
	ApplyTopicUpdate(old, updated *domain.Topic, intensity domain.Intensity, now time.Time) (*domain.Topic, error)

	// ShouldIncrementStreak reports whether a burst logged at now would be
	// the course's first of the current UTC day. Evaluate before inserting
	// the new burst.
	ShouldIncrementStreak(bursts []*domain.Burst, now time.Time) bool

	// RefreshLesson recomputes the lesson's progress and stability over
	// its topics.
	RefreshLesson(lesson *domain.Lesson, topics []*domain.Topic) (*domain.Lesson, error)

	// RefreshUser recomputes the account-level rollups (level, strength,
	// progress, goal status) over the user's courses and deactivates the
	// account when its membership has expired.
	RefreshUser(user *domain.User, courses []*domain.Course, now time.Time) (*domain.User, error)
}

type defaultService struct {
	params *Params
}

// NewDefaultService creates a progress service with default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewService creates a progress service with the given parameters.
func NewService(params *Params) (Service, error) {
	if params == nil {
		return nil, errors.New("params cannot be nil")
	}
	return &defaultService{params: params}, nil
}

func (s *defaultService) RefreshCourse(course *domain.Course, topics []*domain.Topic, bursts []*domain.Burst, now time.Time) (*domain.Course, error) {
	if course == nil {
		return nil, ErrNilCourse
	}

	updated := *course
	updated.Progress = overallProgress(topics)
	updated.Stability = overallStability(topics)
	updated.Strength = courseStrength(bursts)

	if shouldResetStreak(bursts, now, s.params) {
		updated.Streak = 0
	}

	if updated.Progress < 100 {
		updated.CurrentVelocity = currentVelocity(updated.Progress, updated.CreatedAt, now, s.params)
	}
	updated.RequiredVelocity = requiredVelocity(updated.Progress, updated.Deadline, now, s.params)

	updated.UpdatedAt = now
	return &updated, nil
}

func (s *defaultService) RollGoalWindow(course *domain.Course, bursts []*domain.Burst, now time.Time) (*domain.Course, error) {
	if course == nil {
		return nil, ErrNilCourse
	}

	updated := *course
	if goalWindowElapsed(course.GoalResetDate, now) {
		updated.GoalResetDate = nextGoalResetDate(course.GoalResetDate, s.params)
	}

	status := goalStatus(bursts, updated.Goal, updated.GoalResetDate, s.params)
	if status > 100 {
		status = 100
	}
	updated.GoalStatus = status

	updated.UpdatedAt = now
	return &updated, nil
}

func (s *defaultService) SweepTopic(topic *domain.Topic, intensity domain.Intensity, now time.Time) (*domain.Topic, bool, error) {
	if topic == nil {
		return nil, false, ErrNilTopic
	}
	if topic.RevisionDate == nil {
		return topic, false, nil
	}

	switch {
	case topic.Revised && revisionDue(*topic.RevisionDate, now):
		updated := topic.Clone()
		updated.Revised = false
		updated.UpdatedAt = now
		return updated, true, nil

	case !topic.Revised && revisionOverdue(*topic.RevisionDate, now, s.params):
		updated := topic.Clone()
		updated.Stability = decreaseStability(topic.Stability, topic.RevisionCount, *topic.RevisionDate, now, s.params)
		next := nextRevisionDate(topic.RevisionCount, intensity, now, s.params)
		updated.RevisionDate = &next
		updated.UpdatedAt = now
		return updated, true, nil
	}

	return topic, false, nil
}

func (s *defaultService) ApplyTopicUpdate(old, updated *domain.Topic, intensity domain.Intensity, now time.Time) (*domain.Topic, error) {
	if old == nil || updated == nil {
		return nil, ErrNilTopic
	}

	result := updated.Clone()
	if updated.Completed != old.Completed || updated.Revised != old.Revised {
		next := nextRevisionDate(updated.RevisionCount, intensity, now, s.params)
		result.RevisionDate = &next
		result.Stability = increaseStability(updated.Stability, s.params)
	}

	result.UpdatedAt = now
	return result, nil
}

func (s *defaultService) ShouldIncrementStreak(bursts []*domain.Burst, now time.Time) bool {
	return shouldIncrementStreak(bursts, now)
}

func (s *defaultService) RefreshLesson(lesson *domain.Lesson, topics []*domain.Topic) (*domain.Lesson, error) {
	if lesson == nil {
		return nil, ErrNilLesson
	}

	updated := *lesson
	updated.Progress = overallProgress(topics)
	updated.Stability = overallStability(topics)
	return &updated, nil
}

func (s *defaultService) RefreshUser(user *domain.User, courses []*domain.Course, now time.Time) (*domain.User, error) {
	if user == nil {
		return nil, ErrNilUser
	}

	updated := *user
	updated.Level = userLevel(courses)
	updated.Strength = userStrength(courses)
	updated.Progress = userProgress(courses)
	updated.GoalStatus = userGoalStatus(courses)

	if updated.Active && updated.Expired(now) {
		updated.Active = false
	}

	updated.UpdatedAt = now
	return &updated, nil
}

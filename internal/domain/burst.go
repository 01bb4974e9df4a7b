package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Interruption classifies what cut a burst short.
type Interruption string

// Possible interruption values. The empty string means the burst ran
// uninterrupted.
const (
	InterruptionSelf    Interruption = "Self"
	InterruptionDigital Interruption = "Digital"
	InterruptionPeople  Interruption = "People"
	InterruptionNone    Interruption = ""
)

// Burst-specific validation errors
var (
	ErrEmptyBurstID        = errors.New("burst ID cannot be empty")
	ErrEmptyBurstCourseID  = errors.New("burst course ID cannot be empty")
	ErrEmptyBurstLessonID  = errors.New("burst lesson ID cannot be empty")
	ErrEmptyBurstUserID    = errors.New("burst user ID cannot be empty")
	ErrInvalidDuration     = errors.New("burst duration must be greater than or equal to 0")
	ErrInvalidInterruption = errors.New("interruption must be Self, Digital or People")
)

// Burst is an immutable record of a single focused work session. Bursts are
// append-only: the engine never mutates or deletes them, and every
// course-level metric that depends on activity history is recomputed from
// the full burst set.
type Burst struct {
	ID           uuid.UUID    `json:"id"`
	CourseID     uuid.UUID    `json:"course_id"`
	LessonID     uuid.UUID    `json:"lesson_id"`
	UserID       uuid.UUID    `json:"user_id"`
	Duration     int          `json:"duration"` // Minutes
	Interrupted  bool         `json:"interrupted"`
	Interruption Interruption `json:"interruption,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// NewBurst creates a new Burst for the given course and lesson.
func NewBurst(userID, courseID, lessonID uuid.UUID, duration int, interrupted bool, interruption Interruption) (*Burst, error) {
	burst := &Burst{
		ID:           uuid.New(),
		CourseID:     courseID,
		LessonID:     lessonID,
		UserID:       userID,
		Duration:     duration,
		Interrupted:  interrupted,
		Interruption: interruption,
		CreatedAt:    time.Now().UTC(),
	}

	if err := burst.Validate(); err != nil {
		return nil, err
	}

	return burst, nil
}

// Validate checks if the Burst has valid data.
func (b *Burst) Validate() error {
	if b.ID == uuid.Nil {
		return ErrEmptyBurstID
	}

	if b.CourseID == uuid.Nil {
		return ErrEmptyBurstCourseID
	}

	if b.LessonID == uuid.Nil {
		return ErrEmptyBurstLessonID
	}

	if b.UserID == uuid.Nil {
		return ErrEmptyBurstUserID
	}

	if b.Duration < 0 {
		return ErrInvalidDuration
	}

	switch b.Interruption {
	case InterruptionSelf, InterruptionDigital, InterruptionPeople, InterruptionNone:
	default:
		return ErrInvalidInterruption
	}

	return nil
}

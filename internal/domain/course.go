package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Intensity controls how aggressively a course schedules topic revisions.
// Higher intensity means shorter revision intervals.
type Intensity string

// Possible intensity values
const (
	IntensityLow    Intensity = "Low"
	IntensityMedium Intensity = "Medium"
	IntensityHigh   Intensity = "High"
)

// Course-specific validation errors
var (
	ErrEmptyCourseID     = errors.New("course ID cannot be empty")
	ErrEmptyCourseUserID = errors.New("course user ID cannot be empty")
	ErrEmptyCourseName   = errors.New("course name cannot be empty")
	ErrInvalidIntensity  = errors.New("intensity must be Low, Medium or High")
	ErrInvalidGoal       = errors.New("weekly goal must be greater than 0 hours")
	ErrEmptyDeadline     = errors.New("course deadline must be set")
)

// Course groups lessons and topics under a deadline, a weekly duration goal
// and a revision intensity. Progress, Stability, Streak, Strength, GoalStatus
// and the velocity pair are derived from the course's topics and bursts on
// every read; only Intensity, Goal, Deadline and GoalResetDate are
// caller-owned state.
type Course struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	Name             string    `json:"name"`
	Progress         int       `json:"progress"`
	Stability        int       `json:"stability"`
	CurrentVelocity  int       `json:"current_velocity"`
	RequiredVelocity int       `json:"required_velocity"`
	Intensity        Intensity `json:"intensity"`
	Goal             int       `json:"goal"` // Weekly target in hours of study
	GoalStatus       int       `json:"goal_status"`
	Deadline         time.Time `json:"deadline"`
	Streak           int       `json:"streak"`
	Strength         int       `json:"strength"`
	GoalResetDate    time.Time `json:"goal_reset_date"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewCourse creates a new Course owned by the given user. The first goal
// window is anchored one week after creation.
func NewCourse(userID uuid.UUID, name string, intensity Intensity, goal int, deadline time.Time) (*Course, error) {
	now := time.Now().UTC()
	course := &Course{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          name,
		Intensity:     intensity,
		Goal:          goal,
		Deadline:      deadline,
		GoalResetDate: now.Add(7 * 24 * time.Hour),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := course.Validate(); err != nil {
		return nil, err
	}

	return course, nil
}

// Validate checks if the Course has valid data.
// Returns an error if any field fails validation.
func (c *Course) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCourseID
	}

	if c.UserID == uuid.Nil {
		return ErrEmptyCourseUserID
	}

	if c.Name == "" {
		return ErrEmptyCourseName
	}

	switch c.Intensity {
	case IntensityLow, IntensityMedium, IntensityHigh:
	default:
		return ErrInvalidIntensity
	}

	if c.Goal <= 0 {
		return ErrInvalidGoal
	}

	if c.Deadline.IsZero() {
		return ErrEmptyDeadline
	}

	return nil
}

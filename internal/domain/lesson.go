package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Lesson-specific validation errors
var (
	ErrEmptyLessonID       = errors.New("lesson ID cannot be empty")
	ErrEmptyLessonCourseID = errors.New("lesson course ID cannot be empty")
	ErrEmptyLessonUserID   = errors.New("lesson user ID cannot be empty")
	ErrEmptyLessonName     = errors.New("lesson name cannot be empty")
)

// Lesson groups topics under a course. Progress and Stability are derived
// from the lesson's own topics on every read, with the same aggregation
// rules as the course-level roll-up.
type Lesson struct {
	ID        uuid.UUID `json:"id"`
	CourseID  uuid.UUID `json:"course_id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Progress  int       `json:"progress"`
	Stability int       `json:"stability"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLesson creates a new Lesson under the given course.
func NewLesson(userID, courseID uuid.UUID, name string) (*Lesson, error) {
	now := time.Now().UTC()
	lesson := &Lesson{
		ID:        uuid.New(),
		CourseID:  courseID,
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := lesson.Validate(); err != nil {
		return nil, err
	}

	return lesson, nil
}

// Validate checks if the Lesson has valid data.
func (l *Lesson) Validate() error {
	if l.ID == uuid.Nil {
		return ErrEmptyLessonID
	}

	if l.CourseID == uuid.Nil {
		return ErrEmptyLessonCourseID
	}

	if l.UserID == uuid.Nil {
		return ErrEmptyLessonUserID
	}

	if l.Name == "" {
		return ErrEmptyLessonName
	}

	return nil
}

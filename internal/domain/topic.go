package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Topic-specific validation errors
var (
	ErrEmptyTopicID        = errors.New("topic ID cannot be empty")
	ErrEmptyTopicLessonID  = errors.New("topic lesson ID cannot be empty")
	ErrEmptyTopicCourseID  = errors.New("topic course ID cannot be empty")
	ErrEmptyTopicUserID    = errors.New("topic user ID cannot be empty")
	ErrEmptyTopicName      = errors.New("topic name cannot be empty")
	ErrInvalidRevisions    = errors.New("revision count must be greater than or equal to 0")
	ErrInvalidStability    = errors.New("stability must be between 0 and 100")
)

// Topic is the unit of study content. It belongs to exactly one lesson and
// carries a denormalized course reference so revision scheduling can reach
// the course intensity without a join through the lesson.
//
// RevisionDate is set only as a side effect of a completion or revision
// toggle, or by the overdue-decay sweep; it is never set at creation.
type Topic struct {
	ID            uuid.UUID  `json:"id"`
	LessonID      uuid.UUID  `json:"lesson_id"`
	CourseID      uuid.UUID  `json:"course_id"`
	UserID        uuid.UUID  `json:"user_id"`
	Name          string     `json:"name"`
	Completed     bool       `json:"completed"`
	Revised       bool       `json:"revised"`
	RevisionCount int        `json:"revision_count"`
	RevisionDate  *time.Time `json:"revision_date,omitempty"`
	Stability     int        `json:"stability"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewTopic creates a new Topic under the given lesson and course.
func NewTopic(userID, courseID, lessonID uuid.UUID, name string) (*Topic, error) {
	now := time.Now().UTC()
	topic := &Topic{
		ID:        uuid.New(),
		LessonID:  lessonID,
		CourseID:  courseID,
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := topic.Validate(); err != nil {
		return nil, err
	}

	return topic, nil
}

// Validate checks if the Topic has valid data.
func (t *Topic) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTopicID
	}

	if t.LessonID == uuid.Nil {
		return ErrEmptyTopicLessonID
	}

	if t.CourseID == uuid.Nil {
		return ErrEmptyTopicCourseID
	}

	if t.UserID == uuid.Nil {
		return ErrEmptyTopicUserID
	}

	if t.Name == "" {
		return ErrEmptyTopicName
	}

	if t.RevisionCount < 0 {
		return ErrInvalidRevisions
	}

	if t.Stability < 0 || t.Stability > 100 {
		return ErrInvalidStability
	}

	return nil
}

// Clone returns a copy of the topic, preserving the revision date pointer
// as an independent value so callers can mutate the copy freely.
func (t *Topic) Clone() *Topic {
	clone := *t
	if t.RevisionDate != nil {
		revisionDate := *t.RevisionDate
		clone.RevisionDate = &revisionDate
	}
	return &clone
}

package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/masteryapp/mastery-api/internal/domain"
)

// CourseStore defines the interface for course data persistence.
type CourseStore interface {
	// Create saves a new course to the store.
	Create(ctx context.Context, course *domain.Course) error

	// GetByID retrieves a course by its unique ID.
	// Returns ErrCourseNotFound if the course does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error)

	// ListByUserID returns all courses owned by the given user, newest first.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Course, error)

	// Update writes back a course, including its recomputed snapshot fields.
	// Returns ErrCourseNotFound if the course does not exist.
	Update(ctx context.Context, course *domain.Course) error

	// Delete removes a course and, through cascading foreign keys, its
	// lessons, topics and bursts.
	// Returns ErrCourseNotFound if the course does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a CourseStore bound to the given transaction.
	WithTx(tx *sql.Tx) CourseStore
}

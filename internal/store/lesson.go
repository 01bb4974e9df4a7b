package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/masteryapp/mastery-api/internal/domain"
)

// LessonStore defines the interface for lesson data persistence.
type LessonStore interface {
	// Create saves a new lesson to the store.
	Create(ctx context.Context, lesson *domain.Lesson) error

	// GetByID retrieves a lesson by its unique ID.
	// Returns ErrLessonNotFound if the lesson does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error)

	// ListByCourseID returns all lessons of the given course in creation order.
	ListByCourseID(ctx context.Context, courseID uuid.UUID) ([]*domain.Lesson, error)

	// Update writes back a lesson, including its recomputed snapshot fields.
	// Returns ErrLessonNotFound if the lesson does not exist.
	Update(ctx context.Context, lesson *domain.Lesson) error

	// Delete removes a lesson and, through cascading foreign keys, its topics.
	// Returns ErrLessonNotFound if the lesson does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a LessonStore bound to the given transaction.
	WithTx(tx *sql.Tx) LessonStore
}

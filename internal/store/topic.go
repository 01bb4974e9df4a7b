package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/masteryapp/mastery-api/internal/domain"
)

// TopicStore defines the interface for topic data persistence.
type TopicStore interface {
	// Create saves a new topic to the store.
	Create(ctx context.Context, topic *domain.Topic) error

	// GetByID retrieves a topic by its unique ID.
	// Returns ErrTopicNotFound if the topic does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Topic, error)

	// ListByLessonID returns all topics of the given lesson in creation order.
	ListByLessonID(ctx context.Context, lessonID uuid.UUID) ([]*domain.Topic, error)

	// ListByCourseID returns all topics of the given course in creation
	// order. Used for course-level progress and the revision sweep.
	ListByCourseID(ctx context.Context, courseID uuid.UUID) ([]*domain.Topic, error)

	// Update writes back a topic, including revision state and stability.
	// Returns ErrTopicNotFound if the topic does not exist.
	Update(ctx context.Context, topic *domain.Topic) error

	// Delete removes a topic from the store by its ID.
	// Returns ErrTopicNotFound if the topic does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a TopicStore bound to the given transaction.
	WithTx(tx *sql.Tx) TopicStore
}

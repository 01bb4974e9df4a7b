package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/masteryapp/mastery-api/internal/domain"
)

// BurstStore defines the interface for burst data persistence.
// Bursts are append-only; there is no update operation.
type BurstStore interface {
	// Create saves a new burst to the store.
	Create(ctx context.Context, burst *domain.Burst) error

	// GetByID retrieves a burst by its unique ID.
	// Returns ErrBurstNotFound if the burst does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Burst, error)

	// ListByCourseID returns all bursts of the given course, newest first.
	ListByCourseID(ctx context.Context, courseID uuid.UUID) ([]*domain.Burst, error)

	// ListByUserID returns all bursts of the given user, newest first.
	// Used for account-wide interruption analytics.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Burst, error)

	// Delete removes a burst from the store by its ID.
	// Returns ErrBurstNotFound if the burst does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a BurstStore bound to the given transaction.
	WithTx(tx *sql.Tx) BurstStore
}

package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/masteryapp/mastery-api/internal/domain"
)

// InviteStore defines the interface for invite code persistence.
type InviteStore interface {
	// Create saves a new invite to the store.
	Create(ctx context.Context, invite *domain.Invite) error

	// GetByCode retrieves an invite by its code.
	// Returns ErrInviteNotFound if no invite carries the code.
	GetByCode(ctx context.Context, code string) (*domain.Invite, error)

	// Claim marks an invite as used by the given user.
	// Returns ErrInviteClaimed if the invite is already bound to a user and
	// ErrInviteNotFound if no invite carries the code.
	Claim(ctx context.Context, code string, userID uuid.UUID) error

	// List returns every invite in the store, newest first. Intended for
	// superuser administration.
	List(ctx context.Context) ([]*domain.Invite, error)

	// Delete removes an invite from the store by its ID.
	// Returns ErrInviteNotFound if the invite does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns an InviteStore bound to the given transaction.
	WithTx(tx *sql.Tx) InviteStore
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/masteryapp/mastery-api/internal/domain"
	"github.com/masteryapp/mastery-api/internal/platform/logger"
	"github.com/masteryapp/mastery-api/internal/store"
)

// PostgresInviteStore implements the store.InviteStore interface
// using a PostgreSQL database as the storage backend.
type PostgresInviteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresInviteStore creates a new PostgreSQL implementation of the
// InviteStore interface.
func NewPostgresInviteStore(db store.DBTX, log *slog.Logger) *PostgresInviteStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresInviteStore{
		db:     db,
		logger: log.With(slog.String("component", "invite_store")),
	}
}

// Ensure PostgresInviteStore implements store.InviteStore interface
var _ store.InviteStore = (*PostgresInviteStore)(nil)

const inviteColumns = `id, code, user_id, phone, email, invoice, event_id, created_at`

// Create implements store.InviteStore.Create
func (s *PostgresInviteStore) Create(ctx context.Context, invite *domain.Invite) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := invite.Validate(); err != nil {
		log.Warn("invite validation failed during create",
			slog.String("error", err.Error()),
			slog.String("invite_id", invite.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO invites (id, code, user_id, phone, email, invoice, event_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		invite.ID,
		invite.Code,
		invite.UserID,
		invite.Phone,
		invite.Email,
		invite.Invoice,
		invite.EventID,
		invite.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: invite code", store.ErrDuplicate)
		}
		log.Error("failed to create invite",
			slog.String("error", err.Error()),
			slog.String("invite_id", invite.ID.String()))
		return err
	}

	log.Info("invite created successfully", slog.String("invite_id", invite.ID.String()))
	return nil
}

// GetByCode implements store.InviteStore.GetByCode
func (s *PostgresInviteStore) GetByCode(ctx context.Context, code string) (*domain.Invite, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + inviteColumns + ` FROM invites WHERE code = $1`

	invite, err := scanInvite(s.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrInviteNotFound
		}
		log.Error("failed to get invite by code", slog.String("error", err.Error()))
		return nil, err
	}
	return invite, nil
}

// Claim implements store.InviteStore.Claim
// The WHERE guard makes the claim atomic: a second claim of the same code
// matches no rows and reports ErrInviteClaimed.
func (s *PostgresInviteStore) Claim(ctx context.Context, code string, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `UPDATE invites SET user_id = $1 WHERE code = $2 AND user_id IS NULL`
	result, err := s.db.ExecContext(ctx, query, userID, code)
	if err != nil {
		log.Error("failed to claim invite",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		if _, getErr := s.GetByCode(ctx, code); errors.Is(getErr, store.ErrInviteNotFound) {
			return store.ErrInviteNotFound
		}
		return store.ErrInviteClaimed
	}

	log.Info("invite claimed",
		slog.String("user_id", userID.String()))
	return nil
}

// List implements store.InviteStore.List
func (s *PostgresInviteStore) List(ctx context.Context) ([]*domain.Invite, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + inviteColumns + ` FROM invites ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list invites", slog.String("error", err.Error()))
		return nil, err
	}
	defer closeRows(rows, log)

	invites := []*domain.Invite{}
	for rows.Next() {
		invite, err := scanInvite(rows)
		if err != nil {
			log.Error("failed to scan invite row", slog.String("error", err.Error()))
			return nil, err
		}
		invites = append(invites, invite)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return invites, nil
}

// Delete implements store.InviteStore.Delete
func (s *PostgresInviteStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM invites WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete invite",
			slog.String("error", err.Error()),
			slog.String("invite_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return store.ErrInviteNotFound
	}

	log.Info("invite deleted", slog.String("invite_id", id.String()))
	return nil
}

// WithTx implements store.InviteStore.WithTx
func (s *PostgresInviteStore) WithTx(tx *sql.Tx) store.InviteStore {
	return &PostgresInviteStore{
		db:     tx,
		logger: s.logger,
	}
}

func scanInvite(row rowScanner) (*domain.Invite, error) {
	var invite domain.Invite
	var userID uuid.NullUUID

	err := row.Scan(
		&invite.ID,
		&invite.Code,
		&userID,
		&invite.Phone,
		&invite.Email,
		&invite.Invoice,
		&invite.EventID,
		&invite.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		invite.UserID = &userID.UUID
	}
	return &invite, nil
}

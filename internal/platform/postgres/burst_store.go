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

// PostgresBurstStore implements the store.BurstStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBurstStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBurstStore creates a new PostgreSQL implementation of the
// BurstStore interface.
func NewPostgresBurstStore(db store.DBTX, log *slog.Logger) *PostgresBurstStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresBurstStore{
		db:     db,
		logger: log.With(slog.String("component", "burst_store")),
	}
}

// Ensure PostgresBurstStore implements store.BurstStore interface
var _ store.BurstStore = (*PostgresBurstStore)(nil)

const burstColumns = `id, course_id, lesson_id, user_id, duration, interrupted, interruption, created_at`

// Create implements store.BurstStore.Create
func (s *PostgresBurstStore) Create(ctx context.Context, burst *domain.Burst) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := burst.Validate(); err != nil {
		log.Warn("burst validation failed during create",
			slog.String("error", err.Error()),
			slog.String("burst_id", burst.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO bursts (id, course_id, lesson_id, user_id, duration, interrupted, interruption, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		burst.ID,
		burst.CourseID,
		nullUUID(burst.LessonID),
		burst.UserID,
		burst.Duration,
		burst.Interrupted,
		string(burst.Interruption),
		burst.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: course with ID %s not found",
				store.ErrInvalidEntity, burst.CourseID)
		}
		log.Error("failed to create burst",
			slog.String("error", err.Error()),
			slog.String("burst_id", burst.ID.String()))
		return err
	}

	log.Info("burst created successfully",
		slog.String("burst_id", burst.ID.String()),
		slog.String("course_id", burst.CourseID.String()),
		slog.Int("duration", burst.Duration))
	return nil
}

// GetByID implements store.BurstStore.GetByID
func (s *PostgresBurstStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Burst, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + burstColumns + ` FROM bursts WHERE id = $1`

	burst, err := scanBurst(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrBurstNotFound
		}
		log.Error("failed to get burst by ID",
			slog.String("error", err.Error()),
			slog.String("burst_id", id.String()))
		return nil, err
	}
	return burst, nil
}

// ListByCourseID implements store.BurstStore.ListByCourseID
func (s *PostgresBurstStore) ListByCourseID(ctx context.Context, courseID uuid.UUID) ([]*domain.Burst, error) {
	query := `SELECT ` + burstColumns + ` FROM bursts WHERE course_id = $1 ORDER BY created_at DESC`
	return s.listBursts(ctx, query, courseID)
}

// ListByUserID implements store.BurstStore.ListByUserID
func (s *PostgresBurstStore) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Burst, error) {
	query := `SELECT ` + burstColumns + ` FROM bursts WHERE user_id = $1 ORDER BY created_at DESC`
	return s.listBursts(ctx, query, userID)
}

func (s *PostgresBurstStore) listBursts(ctx context.Context, query string, arg any) ([]*domain.Burst, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		log.Error("failed to list bursts", slog.String("error", err.Error()))
		return nil, err
	}
	defer closeRows(rows, log)

	bursts := []*domain.Burst{}
	for rows.Next() {
		burst, err := scanBurst(rows)
		if err != nil {
			log.Error("failed to scan burst row", slog.String("error", err.Error()))
			return nil, err
		}
		bursts = append(bursts, burst)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return bursts, nil
}

// Delete implements store.BurstStore.Delete
func (s *PostgresBurstStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM bursts WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete burst",
			slog.String("error", err.Error()),
			slog.String("burst_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return store.ErrBurstNotFound
	}

	log.Info("burst deleted", slog.String("burst_id", id.String()))
	return nil
}

// WithTx implements store.BurstStore.WithTx
func (s *PostgresBurstStore) WithTx(tx *sql.Tx) store.BurstStore {
	return &PostgresBurstStore{
		db:     tx,
		logger: s.logger,
	}
}

func scanBurst(row rowScanner) (*domain.Burst, error) {
	var burst domain.Burst
	var lessonID uuid.NullUUID
	var interruption string

	err := row.Scan(
		&burst.ID,
		&burst.CourseID,
		&lessonID,
		&burst.UserID,
		&burst.Duration,
		&burst.Interrupted,
		&interruption,
		&burst.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lessonID.Valid {
		burst.LessonID = lessonID.UUID
	}
	burst.Interruption = domain.Interruption(interruption)
	return &burst, nil
}

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

// PostgresTopicStore implements the store.TopicStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTopicStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTopicStore creates a new PostgreSQL implementation of the
// TopicStore interface.
func NewPostgresTopicStore(db store.DBTX, log *slog.Logger) *PostgresTopicStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresTopicStore{
		db:     db,
		logger: log.With(slog.String("component", "topic_store")),
	}
}

// Ensure PostgresTopicStore implements store.TopicStore interface
var _ store.TopicStore = (*PostgresTopicStore)(nil)

const topicColumns = `id, lesson_id, course_id, user_id, name, completed, revised,
	revision_count, revision_date, stability, created_at, updated_at`

// Create implements store.TopicStore.Create
func (s *PostgresTopicStore) Create(ctx context.Context, topic *domain.Topic) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := topic.Validate(); err != nil {
		log.Warn("topic validation failed during create",
			slog.String("error", err.Error()),
			slog.String("topic_id", topic.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO topics (id, lesson_id, course_id, user_id, name, completed, revised,
			revision_count, revision_date, stability, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		topic.ID,
		topic.LessonID,
		topic.CourseID,
		topic.UserID,
		topic.Name,
		topic.Completed,
		topic.Revised,
		topic.RevisionCount,
		topic.RevisionDate,
		topic.Stability,
		topic.CreatedAt,
		topic.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: lesson with ID %s not found",
				store.ErrInvalidEntity, topic.LessonID)
		}
		log.Error("failed to create topic",
			slog.String("error", err.Error()),
			slog.String("topic_id", topic.ID.String()))
		return err
	}

	log.Info("topic created successfully",
		slog.String("topic_id", topic.ID.String()),
		slog.String("lesson_id", topic.LessonID.String()))
	return nil
}

// GetByID implements store.TopicStore.GetByID
func (s *PostgresTopicStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Topic, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + topicColumns + ` FROM topics WHERE id = $1`

	topic, err := scanTopic(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTopicNotFound
		}
		log.Error("failed to get topic by ID",
			slog.String("error", err.Error()),
			slog.String("topic_id", id.String()))
		return nil, err
	}
	return topic, nil
}

// ListByLessonID implements store.TopicStore.ListByLessonID
func (s *PostgresTopicStore) ListByLessonID(ctx context.Context, lessonID uuid.UUID) ([]*domain.Topic, error) {
	query := `SELECT ` + topicColumns + ` FROM topics WHERE lesson_id = $1 ORDER BY created_at`
	return s.listTopics(ctx, query, lessonID)
}

// ListByCourseID implements store.TopicStore.ListByCourseID
func (s *PostgresTopicStore) ListByCourseID(ctx context.Context, courseID uuid.UUID) ([]*domain.Topic, error) {
	query := `SELECT ` + topicColumns + ` FROM topics WHERE course_id = $1 ORDER BY created_at`
	return s.listTopics(ctx, query, courseID)
}

func (s *PostgresTopicStore) listTopics(ctx context.Context, query string, arg any) ([]*domain.Topic, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		log.Error("failed to list topics", slog.String("error", err.Error()))
		return nil, err
	}
	defer closeRows(rows, log)

	topics := []*domain.Topic{}
	for rows.Next() {
		topic, err := scanTopic(rows)
		if err != nil {
			log.Error("failed to scan topic row", slog.String("error", err.Error()))
			return nil, err
		}
		topics = append(topics, topic)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return topics, nil
}

// Update implements store.TopicStore.Update
func (s *PostgresTopicStore) Update(ctx context.Context, topic *domain.Topic) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := topic.Validate(); err != nil {
		log.Warn("topic validation failed during update",
			slog.String("error", err.Error()),
			slog.String("topic_id", topic.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE topics
		SET name = $1, completed = $2, revised = $3, revision_count = $4,
			revision_date = $5, stability = $6, updated_at = $7
		WHERE id = $8
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		topic.Name,
		topic.Completed,
		topic.Revised,
		topic.RevisionCount,
		topic.RevisionDate,
		topic.Stability,
		topic.UpdatedAt,
		topic.ID,
	)
	if err != nil {
		log.Error("failed to update topic",
			slog.String("error", err.Error()),
			slog.String("topic_id", topic.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return store.ErrTopicNotFound
	}

	log.Debug("topic updated successfully", slog.String("topic_id", topic.ID.String()))
	return nil
}

// Delete implements store.TopicStore.Delete
func (s *PostgresTopicStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM topics WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete topic",
			slog.String("error", err.Error()),
			slog.String("topic_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return store.ErrTopicNotFound
	}

	log.Info("topic deleted", slog.String("topic_id", id.String()))
	return nil
}

// WithTx implements store.TopicStore.WithTx
func (s *PostgresTopicStore) WithTx(tx *sql.Tx) store.TopicStore {
	return &PostgresTopicStore{
		db:     tx,
		logger: s.logger,
	}
}

func scanTopic(row rowScanner) (*domain.Topic, error) {
	var topic domain.Topic
	var revisionDate sql.NullTime

	err := row.Scan(
		&topic.ID,
		&topic.LessonID,
		&topic.CourseID,
		&topic.UserID,
		&topic.Name,
		&topic.Completed,
		&topic.Revised,
		&topic.RevisionCount,
		&revisionDate,
		&topic.Stability,
		&topic.CreatedAt,
		&topic.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if revisionDate.Valid {
		topic.RevisionDate = &revisionDate.Time
	}
	return &topic, nil
}

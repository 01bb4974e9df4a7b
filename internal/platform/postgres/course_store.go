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

// PostgresCourseStore implements the store.CourseStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCourseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCourseStore creates a new PostgreSQL implementation of the
// CourseStore interface.
func NewPostgresCourseStore(db store.DBTX, log *slog.Logger) *PostgresCourseStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresCourseStore{
		db:     db,
		logger: log.With(slog.String("component", "course_store")),
	}
}

// Ensure PostgresCourseStore implements store.CourseStore interface
var _ store.CourseStore = (*PostgresCourseStore)(nil)

const courseColumns = `id, user_id, name, progress, stability, current_velocity,
	required_velocity, intensity, goal, goal_status, deadline, streak, strength,
	goal_reset_date, created_at, updated_at`

// Create implements store.CourseStore.Create
func (s *PostgresCourseStore) Create(ctx context.Context, course *domain.Course) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := course.Validate(); err != nil {
		log.Warn("course validation failed during create",
			slog.String("error", err.Error()),
			slog.String("course_id", course.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO courses (id, user_id, name, progress, stability, current_velocity,
			required_velocity, intensity, goal, goal_status, deadline, streak, strength,
			goal_reset_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		course.ID,
		course.UserID,
		course.Name,
		course.Progress,
		course.Stability,
		course.CurrentVelocity,
		course.RequiredVelocity,
		string(course.Intensity),
		course.Goal,
		course.GoalStatus,
		course.Deadline,
		course.Streak,
		course.Strength,
		course.GoalResetDate,
		course.CreatedAt,
		course.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during course creation",
				slog.String("course_id", course.ID.String()),
				slog.String("user_id", course.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, course.UserID)
		}
		log.Error("failed to create course",
			slog.String("error", err.Error()),
			slog.String("course_id", course.ID.String()))
		return err
	}

	log.Info("course created successfully",
		slog.String("course_id", course.ID.String()),
		slog.String("user_id", course.UserID.String()))
	return nil
}

// GetByID implements store.CourseStore.GetByID
func (s *PostgresCourseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	course, err := scanCourse(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCourseNotFound
		}
		log.Error("failed to get course by ID",
			slog.String("error", err.Error()),
			slog.String("course_id", id.String()))
		return nil, err
	}
	return course, nil
}

// ListByUserID implements store.CourseStore.ListByUserID
func (s *PostgresCourseStore) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Course, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + courseColumns + ` FROM courses WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list courses",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer closeRows(rows, log)

	courses := []*domain.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			log.Error("failed to scan course row", slog.String("error", err.Error()))
			return nil, err
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return courses, nil
}

// Update implements store.CourseStore.Update
func (s *PostgresCourseStore) Update(ctx context.Context, course *domain.Course) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := course.Validate(); err != nil {
		log.Warn("course validation failed during update",
			slog.String("error", err.Error()),
			slog.String("course_id", course.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE courses
		SET name = $1, progress = $2, stability = $3, current_velocity = $4,
			required_velocity = $5, intensity = $6, goal = $7, goal_status = $8,
			deadline = $9, streak = $10, strength = $11, goal_reset_date = $12,
			updated_at = $13
		WHERE id = $14
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		course.Name,
		course.Progress,
		course.Stability,
		course.CurrentVelocity,
		course.RequiredVelocity,
		string(course.Intensity),
		course.Goal,
		course.GoalStatus,
		course.Deadline,
		course.Streak,
		course.Strength,
		course.GoalResetDate,
		course.UpdatedAt,
		course.ID,
	)
	if err != nil {
		log.Error("failed to update course",
			slog.String("error", err.Error()),
			slog.String("course_id", course.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return store.ErrCourseNotFound
	}

	log.Debug("course updated successfully", slog.String("course_id", course.ID.String()))
	return nil
}

// Delete implements store.CourseStore.Delete
func (s *PostgresCourseStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete course",
			slog.String("error", err.Error()),
			slog.String("course_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return store.ErrCourseNotFound
	}

	log.Info("course deleted", slog.String("course_id", id.String()))
	return nil
}

// WithTx implements store.CourseStore.WithTx
func (s *PostgresCourseStore) WithTx(tx *sql.Tx) store.CourseStore {
	return &PostgresCourseStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (*domain.Course, error) {
	var course domain.Course
	var intensity string

	err := row.Scan(
		&course.ID,
		&course.UserID,
		&course.Name,
		&course.Progress,
		&course.Stability,
		&course.CurrentVelocity,
		&course.RequiredVelocity,
		&intensity,
		&course.Goal,
		&course.GoalStatus,
		&course.Deadline,
		&course.Streak,
		&course.Strength,
		&course.GoalResetDate,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	course.Intensity = domain.Intensity(intensity)
	return &course, nil
}

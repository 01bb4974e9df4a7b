package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/masteryapp/mastery-api/internal/domain"
	"github.com/masteryapp/mastery-api/internal/domain/progress"
	"github.com/masteryapp/mastery-api/internal/platform/logger"
	"github.com/masteryapp/mastery-api/internal/store"
)

// CourseUpdate carries the caller-editable course fields. Nil fields are
// left unchanged; derived fields are never accepted from callers.
type CourseUpdate struct {
	Name      *string
	Intensity *domain.Intensity
	Goal      *int
	Deadline  *time.Time
}

// CourseService owns the course lifecycle and the read-time recomputes
// attached to it: single-course reads refresh the progress snapshot and the
// streak, list reads roll the weekly goal window and sweep topic revisions.
type CourseService struct {
	db          *sql.DB
	courseStore store.CourseStore
	topicStore  store.TopicStore
	burstStore  store.BurstStore
	engine      progress.Service
	logger      *slog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(
	db *sql.DB,
	courseStore store.CourseStore,
	topicStore store.TopicStore,
	burstStore store.BurstStore,
	engine progress.Service,
	log *slog.Logger,
) *CourseService {
	if db == nil {
		panic("db cannot be nil")
	}
	if courseStore == nil {
		panic("courseStore cannot be nil")
	}
	if topicStore == nil {
		panic("topicStore cannot be nil")
	}
	if burstStore == nil {
		panic("burstStore cannot be nil")
	}
	if engine == nil {
		panic("engine cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &CourseService{
		db:          db,
		courseStore: courseStore,
		topicStore:  topicStore,
		burstStore:  burstStore,
		engine:      engine,
		logger:      log.With(slog.String("component", "course_service")),
	}
}

// Create validates and persists a new course for the given user.
func (s *CourseService) Create(
	ctx context.Context,
	userID uuid.UUID,
	name string,
	intensity domain.Intensity,
	goal int,
	deadline time.Time,
) (*domain.Course, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	course, err := domain.NewCourse(userID, name, intensity, goal, deadline)
	if err != nil {
		return nil, fmt.Errorf("invalid course: %w", err)
	}

	if err := s.courseStore.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	log.Info("course created",
		slog.String("course_id", course.ID.String()),
		slog.String("user_id", userID.String()))
	return course, nil
}

// Get returns a single course with its snapshot fields recomputed: progress
// and stability over topics, strength over bursts, streak reset when more
// than a day has passed, and both velocities. The refreshed snapshot is
// persisted before it is returned.
func (s *CourseService) Get(ctx context.Context, userID, courseID uuid.UUID) (*domain.Course, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	course, err := s.ownedCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	topics, err := s.topicStore.ListByCourseID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load topics: %w", err)
	}
	bursts, err := s.burstStore.ListByCourseID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bursts: %w", err)
	}

	refreshed, err := s.engine.RefreshCourse(course, topics, bursts, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to refresh course: %w", err)
	}

	if err := s.courseStore.Update(ctx, refreshed); err != nil {
		return nil, fmt.Errorf("failed to persist refreshed course: %w", err)
	}

	log.Debug("course refreshed",
		slog.String("course_id", courseID.String()),
		slog.Int("progress", refreshed.Progress))
	return refreshed, nil
}

// List returns all of the user's courses after rolling elapsed goal windows
// and sweeping topic revision state. Each course's rollover and sweep commit
// in one transaction so a partial failure never leaves a course with an
// advanced window but unswept topics.
func (s *CourseService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Course, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := time.Now().UTC()

	courses, err := s.courseStore.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	result := make([]*domain.Course, 0, len(courses))
	for _, course := range courses {
		updated, err := s.maintainCourse(ctx, course, now)
		if err != nil {
			log.Error("course maintenance failed",
				slog.String("error", err.Error()),
				slog.String("course_id", course.ID.String()))
			return nil, err
		}
		result = append(result, updated)
	}

	return result, nil
}

// maintainCourse applies the list-read maintenance to one course: goal
// status recompute with lazy window rollover plus the per-topic revision
// sweep, committed atomically.
func (s *CourseService) maintainCourse(ctx context.Context, course *domain.Course, now time.Time) (*domain.Course, error) {
	updated := course

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		updated, err = s.applyCourseMaintenance(ctx,
			s.courseStore.WithTx(tx),
			s.topicStore.WithTx(tx),
			s.burstStore.WithTx(tx),
			course, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// applyCourseMaintenance recomputes the goal status over the course's
// current window, rolling the window first when it has elapsed, then sweeps
// the course's topics. Refreshed state is persisted through the given
// stores.
func (s *CourseService) applyCourseMaintenance(
	ctx context.Context,
	courseStore store.CourseStore,
	topicStore store.TopicStore,
	burstStore store.BurstStore,
	course *domain.Course,
	now time.Time,
) (*domain.Course, error) {
	bursts, err := burstStore.ListByCourseID(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bursts: %w", err)
	}

	rolled, err := s.engine.RollGoalWindow(course, bursts, now)
	if err != nil {
		return nil, fmt.Errorf("failed to roll goal window: %w", err)
	}
	if err := courseStore.Update(ctx, rolled); err != nil {
		return nil, fmt.Errorf("failed to persist goal status: %w", err)
	}

	topics, err := topicStore.ListByCourseID(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load topics: %w", err)
	}
	for _, topic := range topics {
		swept, changed, err := s.engine.SweepTopic(topic, course.Intensity, now)
		if err != nil {
			return nil, fmt.Errorf("failed to sweep topic %s: %w", topic.ID, err)
		}
		if changed {
			if err := topicStore.Update(ctx, swept); err != nil {
				return nil, fmt.Errorf("failed to persist swept topic %s: %w", topic.ID, err)
			}
		}
	}

	return rolled, nil
}

// Update applies caller-editable field changes to a course.
func (s *CourseService) Update(ctx context.Context, userID, courseID uuid.UUID, update CourseUpdate) (*domain.Course, error) {
	course, err := s.ownedCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	updated := *course
	if update.Name != nil {
		updated.Name = *update.Name
	}
	if update.Intensity != nil {
		updated.Intensity = *update.Intensity
	}
	if update.Goal != nil {
		updated.Goal = *update.Goal
	}
	if update.Deadline != nil {
		updated.Deadline = *update.Deadline
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := updated.Validate(); err != nil {
		return nil, fmt.Errorf("invalid course update: %w", err)
	}
	if err := s.courseStore.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	return &updated, nil
}

// Delete removes a course owned by the user.
func (s *CourseService) Delete(ctx context.Context, userID, courseID uuid.UUID) error {
	if _, err := s.ownedCourse(ctx, userID, courseID); err != nil {
		return err
	}
	if err := s.courseStore.Delete(ctx, courseID); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return nil
}

// ownedCourse loads a course and enforces ownership.
func (s *CourseService) ownedCourse(ctx context.Context, userID, courseID uuid.UUID) (*domain.Course, error) {
	course, err := s.courseStore.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, store.ErrCourseNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	if course.UserID != userID {
		return nil, ErrNotOwner
	}
	return course, nil
}

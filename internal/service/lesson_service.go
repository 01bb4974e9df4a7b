package service

import (
	"context"
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

// LessonService owns the lesson lifecycle. Lesson reads refresh progress
// and stability over the lesson's own topics.
type LessonService struct {
	lessonStore store.LessonStore
	topicStore  store.TopicStore
	courseStore store.CourseStore
	engine      progress.Service
	logger      *slog.Logger
}

// NewLessonService creates a new LessonService.
func NewLessonService(
	lessonStore store.LessonStore,
	topicStore store.TopicStore,
	courseStore store.CourseStore,
	engine progress.Service,
	log *slog.Logger,
) *LessonService {
	if lessonStore == nil {
		panic("lessonStore cannot be nil")
	}
	if topicStore == nil {
		panic("topicStore cannot be nil")
	}
	if courseStore == nil {
		panic("courseStore cannot be nil")
	}
	if engine == nil {
		panic("engine cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &LessonService{
		lessonStore: lessonStore,
		topicStore:  topicStore,
		courseStore: courseStore,
		engine:      engine,
		logger:      log.With(slog.String("component", "lesson_service")),
	}
}

// Create validates and persists a new lesson under one of the user's courses.
func (s *LessonService) Create(ctx context.Context, userID, courseID uuid.UUID, name string) (*domain.Lesson, error) {
	course, err := s.courseStore.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	if course.UserID != userID {
		return nil, ErrNotOwner
	}

	lesson, err := domain.NewLesson(userID, courseID, name)
	if err != nil {
		return nil, fmt.Errorf("invalid lesson: %w", err)
	}
	if err := s.lessonStore.Create(ctx, lesson); err != nil {
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}

	return lesson, nil
}

// Get returns a single lesson with progress and stability recomputed over
// its topics and persisted.
func (s *LessonService) Get(ctx context.Context, userID, lessonID uuid.UUID) (*domain.Lesson, error) {
	lesson, err := s.ownedLesson(ctx, userID, lessonID)
	if err != nil {
		return nil, err
	}
	return s.refresh(ctx, lesson)
}

// ListByCourse returns all lessons of a course, each with its snapshot
// fields recomputed and persisted.
func (s *LessonService) ListByCourse(ctx context.Context, userID, courseID uuid.UUID) ([]*domain.Lesson, error) {
	course, err := s.courseStore.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	if course.UserID != userID {
		return nil, ErrNotOwner
	}

	lessons, err := s.lessonStore.ListByCourseID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}

	result := make([]*domain.Lesson, 0, len(lessons))
	for _, lesson := range lessons {
		refreshed, err := s.refresh(ctx, lesson)
		if err != nil {
			return nil, err
		}
		result = append(result, refreshed)
	}
	return result, nil
}

// Rename updates the lesson's name.
func (s *LessonService) Rename(ctx context.Context, userID, lessonID uuid.UUID, name string) (*domain.Lesson, error) {
	lesson, err := s.ownedLesson(ctx, userID, lessonID)
	if err != nil {
		return nil, err
	}

	updated := *lesson
	updated.Name = name
	updated.UpdatedAt = time.Now().UTC()

	if err := updated.Validate(); err != nil {
		return nil, fmt.Errorf("invalid lesson update: %w", err)
	}
	if err := s.lessonStore.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update lesson: %w", err)
	}
	return &updated, nil
}

// Delete removes a lesson owned by the user.
func (s *LessonService) Delete(ctx context.Context, userID, lessonID uuid.UUID) error {
	if _, err := s.ownedLesson(ctx, userID, lessonID); err != nil {
		return err
	}
	if err := s.lessonStore.Delete(ctx, lessonID); err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}
	return nil
}

func (s *LessonService) refresh(ctx context.Context, lesson *domain.Lesson) (*domain.Lesson, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	topics, err := s.topicStore.ListByLessonID(ctx, lesson.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load topics: %w", err)
	}

	refreshed, err := s.engine.RefreshLesson(lesson, topics)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh lesson: %w", err)
	}
	refreshed.UpdatedAt = time.Now().UTC()

	if err := s.lessonStore.Update(ctx, refreshed); err != nil {
		return nil, fmt.Errorf("failed to persist refreshed lesson: %w", err)
	}

	log.Debug("lesson refreshed",
		slog.String("lesson_id", lesson.ID.String()),
		slog.Int("progress", refreshed.Progress))
	return refreshed, nil
}

func (s *LessonService) ownedLesson(ctx context.Context, userID, lessonID uuid.UUID) (*domain.Lesson, error) {
	lesson, err := s.lessonStore.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, store.ErrLessonNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load lesson: %w", err)
	}
	if lesson.UserID != userID {
		return nil, ErrNotOwner
	}
	return lesson, nil
}

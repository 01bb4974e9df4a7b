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

// TopicUpdate carries the caller-editable topic fields. Nil fields are left
// unchanged. Revision date and stability are derived and never accepted.
type TopicUpdate struct {
	Name          *string
	Completed     *bool
	Revised       *bool
	RevisionCount *int
}

// TopicService owns the topic lifecycle. Updates that flip the completed or
// revised flag go through the revision scheduler, which reschedules the
// revision date and boosts stability.
type TopicService struct {
	topicStore  store.TopicStore
	lessonStore store.LessonStore
	courseStore store.CourseStore
	engine      progress.Service
	logger      *slog.Logger
}

// NewTopicService creates a new TopicService.
func NewTopicService(
	topicStore store.TopicStore,
	lessonStore store.LessonStore,
	courseStore store.CourseStore,
	engine progress.Service,
	log *slog.Logger,
) *TopicService {
	if topicStore == nil {
		panic("topicStore cannot be nil")
	}
	if lessonStore == nil {
		panic("lessonStore cannot be nil")
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

	return &TopicService{
		topicStore:  topicStore,
		lessonStore: lessonStore,
		courseStore: courseStore,
		engine:      engine,
		logger:      log.With(slog.String("component", "topic_service")),
	}
}

// Create validates and persists a new topic under one of the user's lessons.
func (s *TopicService) Create(ctx context.Context, userID, lessonID uuid.UUID, name string) (*domain.Topic, error) {
	lesson, err := s.lessonStore.GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lesson: %w", err)
	}
	if lesson.UserID != userID {
		return nil, ErrNotOwner
	}

	topic, err := domain.NewTopic(userID, lesson.CourseID, lessonID, name)
	if err != nil {
		return nil, fmt.Errorf("invalid topic: %w", err)
	}
	if err := s.topicStore.Create(ctx, topic); err != nil {
		return nil, fmt.Errorf("failed to create topic: %w", err)
	}

	return topic, nil
}

// Get returns a single topic.
func (s *TopicService) Get(ctx context.Context, userID, topicID uuid.UUID) (*domain.Topic, error) {
	return s.ownedTopic(ctx, userID, topicID)
}

// ListByLesson returns all topics of one of the user's lessons.
func (s *TopicService) ListByLesson(ctx context.Context, userID, lessonID uuid.UUID) ([]*domain.Topic, error) {
	lesson, err := s.lessonStore.GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lesson: %w", err)
	}
	if lesson.UserID != userID {
		return nil, ErrNotOwner
	}

	topics, err := s.topicStore.ListByLessonID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	return topics, nil
}

// Update applies caller changes to a topic. Flipping completed or revised
// runs the revision scheduler against the course's intensity; other changes
// pass through unchanged.
func (s *TopicService) Update(ctx context.Context, userID, topicID uuid.UUID, update TopicUpdate) (*domain.Topic, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	old, err := s.ownedTopic(ctx, userID, topicID)
	if err != nil {
		return nil, err
	}

	course, err := s.courseStore.GetByID(ctx, old.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course: %w", err)
	}

	updated := old.Clone()
	if update.Name != nil {
		updated.Name = *update.Name
	}
	if update.Completed != nil {
		updated.Completed = *update.Completed
	}
	if update.Revised != nil {
		updated.Revised = *update.Revised
	}
	if update.RevisionCount != nil {
		updated.RevisionCount = *update.RevisionCount
	}

	result, err := s.engine.ApplyTopicUpdate(old, updated, course.Intensity, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to apply topic update: %w", err)
	}

	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("invalid topic update: %w", err)
	}
	if err := s.topicStore.Update(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to update topic: %w", err)
	}

	log.Debug("topic updated",
		slog.String("topic_id", topicID.String()),
		slog.Bool("completed", result.Completed),
		slog.Bool("revised", result.Revised))
	return result, nil
}

// Delete removes a topic owned by the user.
func (s *TopicService) Delete(ctx context.Context, userID, topicID uuid.UUID) error {
	if _, err := s.ownedTopic(ctx, userID, topicID); err != nil {
		return err
	}
	if err := s.topicStore.Delete(ctx, topicID); err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}
	return nil
}

func (s *TopicService) ownedTopic(ctx context.Context, userID, topicID uuid.UUID) (*domain.Topic, error) {
	topic, err := s.topicStore.GetByID(ctx, topicID)
	if err != nil {
		if errors.Is(err, store.ErrTopicNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load topic: %w", err)
	}
	if topic.UserID != userID {
		return nil, ErrNotOwner
	}
	return topic, nil
}

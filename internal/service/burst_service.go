package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/masteryapp/mastery-api/internal/domain"
	"github.com/masteryapp/mastery-api/internal/domain/progress"
	"github.com/masteryapp/mastery-api/internal/platform/logger"
	"github.com/masteryapp/mastery-api/internal/store"
)

// InterruptionBreakdown summarizes what cut the user's study sessions short.
type InterruptionBreakdown struct {
	Total       int                         `json:"total"`
	Interrupted int                         `json:"interrupted"`
	BySource    map[domain.Interruption]int `json:"by_source"`
}

// BurstService owns study burst logging. Creating a burst is the write-time
// trigger of the streak engine: the first burst of a UTC day increments the
// course streak, and the check and the insert commit atomically.
type BurstService struct {
	db          *sql.DB
	burstStore  store.BurstStore
	courseStore store.CourseStore
	engine      progress.Service
	logger      *slog.Logger
}

// NewBurstService creates a new BurstService.
func NewBurstService(
	db *sql.DB,
	burstStore store.BurstStore,
	courseStore store.CourseStore,
	engine progress.Service,
	log *slog.Logger,
) *BurstService {
	if db == nil {
		panic("db cannot be nil")
	}
	if burstStore == nil {
		panic("burstStore cannot be nil")
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

	return &BurstService{
		db:          db,
		burstStore:  burstStore,
		courseStore: courseStore,
		engine:      engine,
		logger:      log.With(slog.String("component", "burst_service")),
	}
}

// Create logs a study burst against one of the user's courses. The streak
// check runs over the bursts stored before this one, so logging twice in a
// day increments the streak exactly once.
func (s *BurstService) Create(
	ctx context.Context,
	userID, courseID, lessonID uuid.UUID,
	duration int,
	interrupted bool,
	interruption domain.Interruption,
) (*domain.Burst, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	course, err := s.courseStore.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	if course.UserID != userID {
		return nil, ErrNotOwner
	}

	burst, err := domain.NewBurst(userID, courseID, lessonID, duration, interrupted, interruption)
	if err != nil {
		return nil, fmt.Errorf("invalid burst: %w", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		burstStore := s.burstStore.WithTx(tx)
		courseStore := s.courseStore.WithTx(tx)

		existing, err := burstStore.ListByCourseID(ctx, courseID)
		if err != nil {
			return fmt.Errorf("failed to load bursts: %w", err)
		}

		if s.engine.ShouldIncrementStreak(existing, burst.CreatedAt) {
			updated := *course
			updated.Streak++
			updated.UpdatedAt = burst.CreatedAt
			if err := courseStore.Update(ctx, &updated); err != nil {
				return fmt.Errorf("failed to increment streak: %w", err)
			}
			log.Debug("streak incremented",
				slog.String("course_id", courseID.String()),
				slog.Int("streak", updated.Streak))
		}

		if err := burstStore.Create(ctx, burst); err != nil {
			return fmt.Errorf("failed to create burst: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("burst logged",
		slog.String("burst_id", burst.ID.String()),
		slog.String("course_id", courseID.String()),
		slog.Int("duration", duration))
	return burst, nil
}

// ListByCourse returns all bursts of one of the user's courses.
func (s *BurstService) ListByCourse(ctx context.Context, userID, courseID uuid.UUID) ([]*domain.Burst, error) {
	course, err := s.courseStore.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	if course.UserID != userID {
		return nil, ErrNotOwner
	}
	return s.burstStore.ListByCourseID(ctx, courseID)
}

// Interruptions aggregates interruption counts over every burst the user
// has logged, optionally bounded to activity since the given time.
func (s *BurstService) Interruptions(ctx context.Context, userID uuid.UUID, since time.Time) (*InterruptionBreakdown, error) {
	bursts, err := s.burstStore.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bursts: %w", err)
	}

	breakdown := &InterruptionBreakdown{
		BySource: map[domain.Interruption]int{},
	}
	for _, burst := range bursts {
		if !since.IsZero() && burst.CreatedAt.Before(since) {
			continue
		}
		breakdown.Total++
		if burst.Interrupted {
			breakdown.Interrupted++
			breakdown.BySource[burst.Interruption]++
		}
	}

	return breakdown, nil
}

// DeleteBurst removes a logged burst. Bursts are append-only for their
// owners; only a superuser can remove one.
func (s *BurstService) DeleteBurst(ctx context.Context, actor *domain.User, burstID uuid.UUID) error {
	if actor == nil || !actor.Superuser {
		return ErrSuperuserRequired
	}
	return s.burstStore.Delete(ctx, burstID)
}

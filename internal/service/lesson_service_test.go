package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masteryapp/mastery-api/internal/domain"
	"github.com/masteryapp/mastery-api/internal/domain/progress"
	"github.com/masteryapp/mastery-api/internal/store"
)

type lessonServiceFixture struct {
	svc     *LessonService
	lessons *fakeLessonStore
	topics  *fakeTopicStore
	courses *fakeCourseStore
}

func newLessonServiceFixture(t *testing.T) *lessonServiceFixture {
	t.Helper()

	lessons := newFakeLessonStore()
	topics := newFakeTopicStore()
	courses := newFakeCourseStore()

	svc := NewLessonService(lessons, topics, courses, progress.NewDefaultService(), nil)

	return &lessonServiceFixture{
		svc:     svc,
		lessons: lessons,
		topics:  topics,
		courses: courses,
	}
}

func TestLessonCreate(t *testing.T) {
	t.Parallel()

	f := newLessonServiceFixture(t)
	userID := uuid.New()

	course, err := domain.NewCourse(userID, "Chemistry", domain.IntensityLow, 4,
		time.Now().UTC().Add(60*24*time.Hour))
	require.NoError(t, err)
	require.NoError(t, f.courses.Create(context.Background(), course))

	lesson, err := f.svc.Create(context.Background(), userID, course.ID, "Stoichiometry")
	require.NoError(t, err)
	assert.Equal(t, course.ID, lesson.CourseID)
	assert.Zero(t, lesson.Progress)

	_, err = f.svc.Create(context.Background(), uuid.New(), course.ID, "Stoichiometry")
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestLessonGetRefreshesFromTopics(t *testing.T) {
	t.Parallel()

	f := newLessonServiceFixture(t)
	userID := uuid.New()

	course, err := domain.NewCourse(userID, "Chemistry", domain.IntensityLow, 4,
		time.Now().UTC().Add(60*24*time.Hour))
	require.NoError(t, err)
	require.NoError(t, f.courses.Create(context.Background(), course))

	lesson, err := f.svc.Create(context.Background(), userID, course.ID, "Stoichiometry")
	require.NoError(t, err)

	for _, tc := range []struct {
		completed bool
		stability int
	}{
		{true, 90},
		{false, 0},
	} {
		topic, err := domain.NewTopic(userID, course.ID, lesson.ID, "Molar Mass")
		require.NoError(t, err)
		topic.Completed = tc.completed
		topic.Stability = tc.stability
		require.NoError(t, f.topics.Create(context.Background(), topic))
	}

	got, err := f.svc.Get(context.Background(), userID, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.Progress)  // 1 of 2 topics completed
	assert.Equal(t, 90, got.Stability) // mean over the completed topic

	// The refreshed values are persisted.
	stored, err := f.lessons.GetByID(context.Background(), lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, stored.Progress)
}

func TestLessonRenameAndDelete(t *testing.T) {
	t.Parallel()

	f := newLessonServiceFixture(t)
	userID := uuid.New()

	course, err := domain.NewCourse(userID, "Chemistry", domain.IntensityLow, 4,
		time.Now().UTC().Add(60*24*time.Hour))
	require.NoError(t, err)
	require.NoError(t, f.courses.Create(context.Background(), course))

	lesson, err := f.svc.Create(context.Background(), userID, course.ID, "Stoichiometry")
	require.NoError(t, err)

	renamed, err := f.svc.Rename(context.Background(), userID, lesson.ID, "Reaction Yields")
	require.NoError(t, err)
	assert.Equal(t, "Reaction Yields", renamed.Name)

	require.NoError(t, f.svc.Delete(context.Background(), userID, lesson.ID))

	_, err = f.svc.Get(context.Background(), userID, lesson.ID)
	assert.ErrorIs(t, err, store.ErrLessonNotFound)
}

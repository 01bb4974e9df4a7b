package service

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/masteryapp/mastery-api/internal/domain"
	"github.com/masteryapp/mastery-api/internal/store"
)

// In-memory store fakes for service tests. They cover the non-transactional
// paths; WithTx returns the same instance since the fakes have no real
// transaction semantics.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uuid.UUID]*domain.User{}}
}

func (f *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
		if u.Username == user.Username {
			return store.ErrUsernameExists
		}
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) Update(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserStore) List(ctx context.Context) ([]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := []*domain.User{}
	for _, u := range f.users {
		clone := *u
		users = append(users, &clone)
	}
	return users, nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return f }

type fakeCourseStore struct {
	mu      sync.Mutex
	courses map[uuid.UUID]*domain.Course
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{courses: map[uuid.UUID]*domain.Course{}}
}

func (f *fakeCourseStore) Create(ctx context.Context, course *domain.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *course
	f.courses[course.ID] = &clone
	return nil
}

func (f *fakeCourseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.courses[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, store.ErrCourseNotFound
}

func (f *fakeCourseStore) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	courses := []*domain.Course{}
	for _, c := range f.courses {
		if c.UserID == userID {
			clone := *c
			courses = append(courses, &clone)
		}
	}
	return courses, nil
}

func (f *fakeCourseStore) Update(ctx context.Context, course *domain.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.courses[course.ID]; !ok {
		return store.ErrCourseNotFound
	}
	clone := *course
	f.courses[course.ID] = &clone
	return nil
}

func (f *fakeCourseStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.courses[id]; !ok {
		return store.ErrCourseNotFound
	}
	delete(f.courses, id)
	return nil
}

func (f *fakeCourseStore) WithTx(tx *sql.Tx) store.CourseStore { return f }

type fakeTopicStore struct {
	mu     sync.Mutex
	topics map[uuid.UUID]*domain.Topic
}

func newFakeTopicStore() *fakeTopicStore {
	return &fakeTopicStore{topics: map[uuid.UUID]*domain.Topic{}}
}

func (f *fakeTopicStore) Create(ctx context.Context, topic *domain.Topic) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topics[topic.ID] = topic.Clone()
	return nil
}

func (f *fakeTopicStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.topics[id]; ok {
		return t.Clone(), nil
	}
	return nil, store.ErrTopicNotFound
}

func (f *fakeTopicStore) ListByLessonID(ctx context.Context, lessonID uuid.UUID) ([]*domain.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	topics := []*domain.Topic{}
	for _, t := range f.topics {
		if t.LessonID == lessonID {
			topics = append(topics, t.Clone())
		}
	}
	return topics, nil
}

func (f *fakeTopicStore) ListByCourseID(ctx context.Context, courseID uuid.UUID) ([]*domain.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	topics := []*domain.Topic{}
	for _, t := range f.topics {
		if t.CourseID == courseID {
			topics = append(topics, t.Clone())
		}
	}
	return topics, nil
}

func (f *fakeTopicStore) Update(ctx context.Context, topic *domain.Topic) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.topics[topic.ID]; !ok {
		return store.ErrTopicNotFound
	}
	f.topics[topic.ID] = topic.Clone()
	return nil
}

func (f *fakeTopicStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.topics[id]; !ok {
		return store.ErrTopicNotFound
	}
	delete(f.topics, id)
	return nil
}

func (f *fakeTopicStore) WithTx(tx *sql.Tx) store.TopicStore { return f }

type fakeLessonStore struct {
	mu      sync.Mutex
	lessons map[uuid.UUID]*domain.Lesson
}

func newFakeLessonStore() *fakeLessonStore {
	return &fakeLessonStore{lessons: map[uuid.UUID]*domain.Lesson{}}
}

func (f *fakeLessonStore) Create(ctx context.Context, lesson *domain.Lesson) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *lesson
	f.lessons[lesson.ID] = &clone
	return nil
}

func (f *fakeLessonStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.lessons[id]; ok {
		clone := *l
		return &clone, nil
	}
	return nil, store.ErrLessonNotFound
}

func (f *fakeLessonStore) ListByCourseID(ctx context.Context, courseID uuid.UUID) ([]*domain.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lessons := []*domain.Lesson{}
	for _, l := range f.lessons {
		if l.CourseID == courseID {
			clone := *l
			lessons = append(lessons, &clone)
		}
	}
	return lessons, nil
}

func (f *fakeLessonStore) Update(ctx context.Context, lesson *domain.Lesson) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.lessons[lesson.ID]; !ok {
		return store.ErrLessonNotFound
	}
	clone := *lesson
	f.lessons[lesson.ID] = &clone
	return nil
}

func (f *fakeLessonStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.lessons[id]; !ok {
		return store.ErrLessonNotFound
	}
	delete(f.lessons, id)
	return nil
}

func (f *fakeLessonStore) WithTx(tx *sql.Tx) store.LessonStore { return f }

type fakeBurstStore struct {
	mu     sync.Mutex
	bursts map[uuid.UUID]*domain.Burst
}

func newFakeBurstStore() *fakeBurstStore {
	return &fakeBurstStore{bursts: map[uuid.UUID]*domain.Burst{}}
}

func (f *fakeBurstStore) Create(ctx context.Context, burst *domain.Burst) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *burst
	f.bursts[burst.ID] = &clone
	return nil
}

func (f *fakeBurstStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Burst, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bursts[id]; ok {
		clone := *b
		return &clone, nil
	}
	return nil, store.ErrBurstNotFound
}

func (f *fakeBurstStore) ListByCourseID(ctx context.Context, courseID uuid.UUID) ([]*domain.Burst, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bursts := []*domain.Burst{}
	for _, b := range f.bursts {
		if b.CourseID == courseID {
			clone := *b
			bursts = append(bursts, &clone)
		}
	}
	return bursts, nil
}

func (f *fakeBurstStore) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Burst, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bursts := []*domain.Burst{}
	for _, b := range f.bursts {
		if b.UserID == userID {
			clone := *b
			bursts = append(bursts, &clone)
		}
	}
	return bursts, nil
}

func (f *fakeBurstStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bursts[id]; !ok {
		return store.ErrBurstNotFound
	}
	delete(f.bursts, id)
	return nil
}

func (f *fakeBurstStore) WithTx(tx *sql.Tx) store.BurstStore { return f }

type fakeInviteStore struct {
	mu      sync.Mutex
	invites map[string]*domain.Invite
}

func newFakeInviteStore() *fakeInviteStore {
	return &fakeInviteStore{invites: map[string]*domain.Invite{}}
}

func (f *fakeInviteStore) Create(ctx context.Context, invite *domain.Invite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.invites[invite.Code]; ok {
		return store.ErrDuplicate
	}
	clone := *invite
	f.invites[invite.Code] = &clone
	return nil
}

func (f *fakeInviteStore) GetByCode(ctx context.Context, code string) (*domain.Invite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i, ok := f.invites[code]; ok {
		clone := *i
		return &clone, nil
	}
	return nil, store.ErrInviteNotFound
}

func (f *fakeInviteStore) Claim(ctx context.Context, code string, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	invite, ok := f.invites[code]
	if !ok {
		return store.ErrInviteNotFound
	}
	if invite.UserID != nil {
		return store.ErrInviteClaimed
	}
	id := userID
	invite.UserID = &id
	return nil
}

func (f *fakeInviteStore) List(ctx context.Context) ([]*domain.Invite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	invites := []*domain.Invite{}
	for _, i := range f.invites {
		clone := *i
		invites = append(invites, &clone)
	}
	return invites, nil
}

func (f *fakeInviteStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for code, i := range f.invites {
		if i.ID == id {
			delete(f.invites, code)
			return nil
		}
	}
	return store.ErrInviteNotFound
}

func (f *fakeInviteStore) WithTx(tx *sql.Tx) store.InviteStore { return f }

// plainHasher avoids bcrypt cost in tests.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

type plainVerifier struct{}

func (plainVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return ErrInvalidCredentials
	}
	return nil
}

type nopMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *nopMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return nil
}

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masteryapp/mastery-api/internal/domain"
	"github.com/masteryapp/mastery-api/internal/domain/progress"
)

type userServiceFixture struct {
	svc     *UserService
	users   *fakeUserStore
	courses *fakeCourseStore
	invites *fakeInviteStore
	mailer  *nopMailer
}

func newUserServiceFixture(t *testing.T) *userServiceFixture {
	t.Helper()

	users := newFakeUserStore()
	courses := newFakeCourseStore()
	invites := newFakeInviteStore()
	mailer := &nopMailer{}

	svc := NewUserService(
		&sql.DB{},
		users,
		courses,
		invites,
		progress.NewDefaultService(),
		plainHasher{},
		plainVerifier{},
		mailer,
		nil,
	)

	return &userServiceFixture{
		svc:     svc,
		users:   users,
		courses: courses,
		invites: invites,
		mailer:  mailer,
	}
}

func seedUser(t *testing.T, f *userServiceFixture, mutate func(*domain.User)) *domain.User {
	t.Helper()

	now := time.Now().UTC()
	user := &domain.User{
		ID:             uuid.New(),
		Active:         true,
		Name:           "Test User",
		Username:       "testuser",
		Email:          "test@example.com",
		HashedPassword: "hashed:secret123",
		ExpiryDate:     now.Add(30 * 24 * time.Hour),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if mutate != nil {
		mutate(user)
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	t.Run("ByEmail", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture(t)
		want := seedUser(t, f, nil)

		got, err := f.svc.Authenticate(context.Background(), "test@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, want.ID, got.ID)
	})

	t.Run("ByUsername", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture(t)
		want := seedUser(t, f, nil)

		got, err := f.svc.Authenticate(context.Background(), "testuser", "secret123")
		require.NoError(t, err)
		assert.Equal(t, want.ID, got.ID)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture(t)
		seedUser(t, f, nil)

		_, err := f.svc.Authenticate(context.Background(), "test@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownIdentity", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture(t)

		_, err := f.svc.Authenticate(context.Background(), "nobody@example.com", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("InactiveAccount", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture(t)
		seedUser(t, f, func(u *domain.User) { u.Active = false })

		_, err := f.svc.Authenticate(context.Background(), "test@example.com", "secret123")
		assert.ErrorIs(t, err, ErrAccountInactive)
	})
}

func TestGetProfileDeactivatesExpiredMembership(t *testing.T) {
	t.Parallel()

	f := newUserServiceFixture(t)
	user := seedUser(t, f, func(u *domain.User) {
		u.ExpiryDate = time.Now().UTC().Add(-time.Hour)
	})

	got, err := f.svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	// The deactivation is persisted, not just reported.
	stored, err := f.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
}

func TestGetProfileRecomputesRollups(t *testing.T) {
	t.Parallel()

	f := newUserServiceFixture(t)
	user := seedUser(t, f, func(u *domain.User) {
		// Stale values from a previous read.
		u.Level = 42
		u.Progress = 88
	})

	now := time.Now().UTC()
	course := &domain.Course{
		ID:         uuid.New(),
		UserID:     user.ID,
		Name:       "Algebra",
		Intensity:  domain.IntensityMedium,
		Goal:       5,
		Progress:   60,
		GoalStatus: 80,
		Strength:   25,
		Deadline:   now.Add(30 * 24 * time.Hour),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, f.courses.Create(context.Background(), course))

	got, err := f.svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Level)       // 25 strength / 10
	assert.Equal(t, 60, got.Progress)   // mean over one course
	assert.Equal(t, 80, got.GoalStatus) // weighted over one course
	assert.Equal(t, 25, got.Strength)
}

func TestUpdatePassword(t *testing.T) {
	t.Parallel()

	t.Run("WrongCurrent", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture(t)
		user := seedUser(t, f, nil)

		err := f.svc.UpdatePassword(context.Background(), user.ID, "wrong", "newpass99")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("WeakReplacement", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture(t)
		user := seedUser(t, f, nil)

		err := f.svc.UpdatePassword(context.Background(), user.ID, "secret123", "short")
		assert.ErrorIs(t, err, domain.ErrWeakPassword)
	})

	t.Run("Success", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture(t)
		user := seedUser(t, f, nil)

		err := f.svc.UpdatePassword(context.Background(), user.ID, "secret123", "newpass99")
		require.NoError(t, err)

		_, err = f.svc.Authenticate(context.Background(), "test@example.com", "newpass99")
		assert.NoError(t, err)
	})
}

func TestPasswordReset(t *testing.T) {
	t.Parallel()

	t.Run("UnknownEmailIsSilent", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture(t)

		err := f.svc.RequestPasswordReset(context.Background(), "nobody@example.com")
		assert.NoError(t, err)
		assert.Empty(t, f.mailer.sent)
	})

	t.Run("FullFlow", func(t *testing.T) {
		t.Parallel()
		f := newUserServiceFixture(t)
		user := seedUser(t, f, nil)

		require.NoError(t, f.svc.RequestPasswordReset(context.Background(), user.Email))
		assert.Equal(t, []string{user.Email}, f.mailer.sent)

		stored, err := f.users.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		require.Len(t, stored.ResetCode, 6)

		err = f.svc.ResetPassword(context.Background(), user.Email, "000000x", "newpass99")
		assert.ErrorIs(t, err, ErrInvalidResetCode)

		require.NoError(t, f.svc.ResetPassword(context.Background(), user.Email, stored.ResetCode, "newpass99"))

		// The code is single-use.
		err = f.svc.ResetPassword(context.Background(), user.Email, stored.ResetCode, "otherpass99")
		assert.ErrorIs(t, err, ErrInvalidResetCode)

		_, err = f.svc.Authenticate(context.Background(), user.Email, "newpass99")
		assert.NoError(t, err)
	})
}

func TestExtendMembership(t *testing.T) {
	t.Parallel()

	f := newUserServiceFixture(t)
	user := seedUser(t, f, func(u *domain.User) {
		u.Active = false
		u.ExpiryDate = time.Now().UTC().Add(-48 * time.Hour)
	})

	got, err := f.svc.ExtendMembership(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)
	assert.WithinDuration(t, time.Now().UTC().Add(PaidPeriod), got.ExpiryDate, time.Minute)
}

func TestSuperuserGating(t *testing.T) {
	t.Parallel()

	f := newUserServiceFixture(t)
	regular := seedUser(t, f, nil)
	super := seedUser(t, f, func(u *domain.User) {
		u.Superuser = true
		u.Username = "admin"
		u.Email = "admin@example.com"
	})

	_, err := f.svc.ListUsers(context.Background(), regular)
	assert.ErrorIs(t, err, ErrSuperuserRequired)

	_, err = f.svc.CreateInvite(context.Background(), regular, "", "friend@example.com", "", "evt_1")
	assert.ErrorIs(t, err, ErrSuperuserRequired)

	users, err := f.svc.ListUsers(context.Background(), super)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	invite, err := f.svc.CreateInvite(context.Background(), super, "", "friend@example.com", "", "evt_1")
	require.NoError(t, err)
	assert.NotEmpty(t, invite.Code)

	invites, err := f.svc.ListInvites(context.Background(), super)
	require.NoError(t, err)
	assert.Len(t, invites, 1)
}

func TestSuperuserAccountAdministration(t *testing.T) {
	t.Parallel()

	f := newUserServiceFixture(t)
	regular := seedUser(t, f, nil)
	super := seedUser(t, f, func(u *domain.User) {
		u.Superuser = true
		u.Username = "admin"
		u.Email = "admin@example.com"
	})

	_, err := f.svc.SetSuperuser(context.Background(), regular, regular.ID, true)
	assert.ErrorIs(t, err, ErrSuperuserRequired)

	promoted, err := f.svc.SetSuperuser(context.Background(), super, regular.ID, true)
	require.NoError(t, err)
	assert.True(t, promoted.Superuser)

	demoted, err := f.svc.SetSuperuser(context.Background(), super, regular.ID, false)
	require.NoError(t, err)
	assert.False(t, demoted.Superuser)

	_, err = f.svc.RenewMembership(context.Background(), regular, regular.ID)
	assert.ErrorIs(t, err, ErrSuperuserRequired)

	renewed, err := f.svc.RenewMembership(context.Background(), super, regular.ID)
	require.NoError(t, err)
	assert.True(t, renewed.Active)
	assert.WithinDuration(t, time.Now().UTC().Add(PaidPeriod), renewed.ExpiryDate, time.Minute)
}

func TestInspectUser(t *testing.T) {
	t.Parallel()

	f := newUserServiceFixture(t)
	regular := seedUser(t, f, nil)
	super := seedUser(t, f, func(u *domain.User) {
		u.Superuser = true
		u.Username = "admin"
		u.Email = "admin@example.com"
	})

	course, err := domain.NewCourse(regular.ID, "Anatomy", domain.IntensityMedium, 5,
		time.Now().UTC().Add(90*24*time.Hour))
	require.NoError(t, err)
	require.NoError(t, f.courses.Create(context.Background(), course))

	_, err = f.svc.InspectUser(context.Background(), regular, regular.ID)
	assert.ErrorIs(t, err, ErrSuperuserRequired)

	inspection, err := f.svc.InspectUser(context.Background(), super, regular.ID)
	require.NoError(t, err)
	assert.Equal(t, regular.ID, inspection.User.ID)
	assert.Len(t, inspection.Courses, 1)
}

package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/masteryapp/mastery-api/internal/domain"
	"github.com/masteryapp/mastery-api/internal/domain/progress"
	"github.com/masteryapp/mastery-api/internal/platform/logger"
	"github.com/masteryapp/mastery-api/internal/service/auth"
	"github.com/masteryapp/mastery-api/internal/service/mail"
	"github.com/masteryapp/mastery-api/internal/store"
)

// Membership periods. Registration grants a trial; a verified payment
// extends the account by a full year from the moment of payment.
const (
	TrialPeriod = 90 * 24 * time.Hour
	PaidPeriod  = 365 * 24 * time.Hour
)

// RegisterParams carries the fields needed to create an account.
type RegisterParams struct {
	Name       string
	Username   string
	Email      string
	Password   string
	InviteCode string
}

// UserService owns account lifecycle: invite-gated registration, login,
// profile reads with account-level rollups, password management and
// superuser administration.
type UserService struct {
	db          *sql.DB
	userStore   store.UserStore
	courseStore store.CourseStore
	inviteStore store.InviteStore
	engine      progress.Service
	hasher      auth.PasswordHasher
	verifier    auth.PasswordVerifier
	mailer      mail.Mailer
	logger      *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	db *sql.DB,
	userStore store.UserStore,
	courseStore store.CourseStore,
	inviteStore store.InviteStore,
	engine progress.Service,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	mailer mail.Mailer,
	log *slog.Logger,
) *UserService {
	if db == nil {
		panic("db cannot be nil")
	}
	if userStore == nil {
		panic("userStore cannot be nil")
	}
	if courseStore == nil {
		panic("courseStore cannot be nil")
	}
	if inviteStore == nil {
		panic("inviteStore cannot be nil")
	}
	if engine == nil {
		panic("engine cannot be nil")
	}
	if hasher == nil {
		panic("hasher cannot be nil")
	}
	if verifier == nil {
		panic("verifier cannot be nil")
	}
	if mailer == nil {
		panic("mailer cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &UserService{
		db:          db,
		userStore:   userStore,
		courseStore: courseStore,
		inviteStore: inviteStore,
		engine:      engine,
		hasher:      hasher,
		verifier:    verifier,
		mailer:      mailer,
		logger:      log.With(slog.String("component", "user_service")),
	}
}

// Register creates a new account gated on a valid, unclaimed invite code.
// The invite claim and the user insert commit in one transaction so a code
// can never be consumed without an account existing for it. New accounts
// start on a trial membership.
func (s *UserService) Register(ctx context.Context, params RegisterParams) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(params.Name, params.Username, params.Email, params.Password, params.InviteCode)
	if err != nil {
		return nil, fmt.Errorf("invalid registration: %w", err)
	}

	invite, err := s.inviteStore.GetByCode(ctx, params.InviteCode)
	if err != nil {
		if errors.Is(err, store.ErrInviteNotFound) {
			return nil, ErrInvalidInvite
		}
		return nil, fmt.Errorf("failed to load invite: %w", err)
	}
	if invite.Claimed() {
		return nil, ErrInvalidInvite
	}

	hashed, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""
	user.ExpiryDate = user.CreatedAt.Add(TrialPeriod)

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.inviteStore.WithTx(tx).Claim(ctx, params.InviteCode, user.ID); err != nil {
			if errors.Is(err, store.ErrInviteClaimed) || errors.Is(err, store.ErrInviteNotFound) {
				return ErrInvalidInvite
			}
			return fmt.Errorf("failed to claim invite: %w", err)
		}
		if err := s.userStore.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))
	return user, nil
}

// Authenticate checks the given identity (email or username) and password.
// Returns ErrInvalidCredentials on any mismatch and ErrAccountInactive for
// a deactivated account with a correct password.
func (s *UserService) Authenticate(ctx context.Context, identity, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, identity)
	if errors.Is(err, store.ErrUserNotFound) {
		user, err = s.userStore.GetByUsername(ctx, identity)
	}
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("password mismatch", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		return nil, ErrAccountInactive
	}

	return user, nil
}

// GetProfile returns the user with account-level rollups recomputed over
// their courses. An expired membership is deactivated here, on the read
// path, and the refreshed state is persisted.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	courses, err := s.courseStore.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	refreshed, err := s.engine.RefreshUser(user, courses, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to refresh user: %w", err)
	}

	if err := s.userStore.Update(ctx, refreshed); err != nil {
		return nil, fmt.Errorf("failed to persist refreshed user: %w", err)
	}

	if user.Active && !refreshed.Active {
		log.Info("membership expired, account deactivated",
			slog.String("user_id", userID.String()))
	}
	return refreshed, nil
}

// UpdatePassword changes the user's password after verifying the current one.
func (s *UserService) UpdatePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.verifier.Compare(user.HashedPassword, current); err != nil {
		return ErrInvalidCredentials
	}
	if !domain.ValidatePasswordStrength(next) {
		return domain.ErrWeakPassword
	}

	hashed, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	updated := *user
	updated.HashedPassword = hashed
	updated.UpdatedAt = time.Now().UTC()
	if err := s.userStore.Update(ctx, &updated); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// RequestPasswordReset issues a one-time reset code and mails it to the
// account's address. An unknown email is reported as success to avoid
// leaking which addresses have accounts.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	code, err := generateResetCode()
	if err != nil {
		return fmt.Errorf("failed to generate reset code: %w", err)
	}

	updated := *user
	updated.ResetCode = code
	updated.UpdatedAt = time.Now().UTC()
	if err := s.userStore.Update(ctx, &updated); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	body := fmt.Sprintf("Your password reset code is %s.", code)
	if err := s.mailer.Send(ctx, user.Email, "Password reset", body); err != nil {
		return fmt.Errorf("failed to send reset mail: %w", err)
	}

	log.Info("password reset code issued", slog.String("user_id", user.ID.String()))
	return nil
}

// ResetPassword sets a new password for the account matching the email,
// provided the reset code matches the one issued. The code is single-use.
func (s *UserService) ResetPassword(ctx context.Context, email, code, next string) error {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrInvalidResetCode
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if user.ResetCode == "" || user.ResetCode != code {
		return ErrInvalidResetCode
	}
	if !domain.ValidatePasswordStrength(next) {
		return domain.ErrWeakPassword
	}

	hashed, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	updated := *user
	updated.HashedPassword = hashed
	updated.ResetCode = ""
	updated.UpdatedAt = time.Now().UTC()
	if err := s.userStore.Update(ctx, &updated); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}

// ExtendMembership reactivates the account and pushes its expiry out by the
// paid period. Called after a verified payment.
func (s *UserService) ExtendMembership(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updated := *user
	updated.Active = true
	updated.ExpiryDate = now.Add(PaidPeriod)
	updated.UpdatedAt = now
	if err := s.userStore.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to extend membership: %w", err)
	}

	log.Info("membership extended",
		slog.String("user_id", userID.String()),
		slog.Time("expiry_date", updated.ExpiryDate))
	return &updated, nil
}

// ListUsers returns every account. Superuser only.
func (s *UserService) ListUsers(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	if actor == nil || !actor.Superuser {
		return nil, ErrSuperuserRequired
	}
	return s.userStore.List(ctx)
}

// DeleteUser removes an account and all of its data. Superuser only.
func (s *UserService) DeleteUser(ctx context.Context, actor *domain.User, userID uuid.UUID) error {
	if actor == nil || !actor.Superuser {
		return ErrSuperuserRequired
	}
	return s.userStore.Delete(ctx, userID)
}

// SetSuperuser grants or revokes superuser rights on an account. Superuser only.
func (s *UserService) SetSuperuser(ctx context.Context, actor *domain.User, userID uuid.UUID, superuser bool) (*domain.User, error) {
	if actor == nil || !actor.Superuser {
		return nil, ErrSuperuserRequired
	}

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated := *user
	updated.Superuser = superuser
	updated.UpdatedAt = time.Now().UTC()
	if err := s.userStore.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update superuser flag: %w", err)
	}
	return &updated, nil
}

// RenewMembership extends another account's membership by the paid period.
// Superuser only.
func (s *UserService) RenewMembership(ctx context.Context, actor *domain.User, userID uuid.UUID) (*domain.User, error) {
	if actor == nil || !actor.Superuser {
		return nil, ErrSuperuserRequired
	}
	return s.ExtendMembership(ctx, userID)
}

// UserInspection is the admin view of an account: the recomputed profile
// plus the account's courses.
type UserInspection struct {
	User    *domain.User     `json:"user"`
	Courses []*domain.Course `json:"courses"`
}

// InspectUser returns another account's recomputed profile together with its
// courses. Superuser only.
func (s *UserService) InspectUser(ctx context.Context, actor *domain.User, userID uuid.UUID) (*UserInspection, error) {
	if actor == nil || !actor.Superuser {
		return nil, ErrSuperuserRequired
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	courses, err := s.courseStore.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	return &UserInspection{User: user, Courses: courses}, nil
}

// CreateInvite mints a new invite code. Superuser only.
func (s *UserService) CreateInvite(ctx context.Context, actor *domain.User, phone, email, invoice, eventID string) (*domain.Invite, error) {
	if actor == nil || !actor.Superuser {
		return nil, ErrSuperuserRequired
	}

	invite, err := domain.NewInvite(uuid.NewString(), phone, email, invoice, eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid invite: %w", err)
	}
	if err := s.inviteStore.Create(ctx, invite); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}
	return invite, nil
}

// ListInvites returns every invite. Superuser only.
func (s *UserService) ListInvites(ctx context.Context, actor *domain.User) ([]*domain.Invite, error) {
	if actor == nil || !actor.Superuser {
		return nil, ErrSuperuserRequired
	}
	return s.inviteStore.List(ctx)
}

// generateResetCode returns a random six digit code.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

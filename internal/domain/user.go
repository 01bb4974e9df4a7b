package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID     = errors.New("user ID cannot be empty")
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrEmptyUsername   = errors.New("username cannot be empty")
	ErrEmptyEmail      = errors.New("email cannot be empty")
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrEmptyPassword   = errors.New("password cannot be empty")
	ErrWeakPassword    = errors.New("password must be at least 8 characters and contain at least one letter and one digit")
	ErrEmptyInviteCode = errors.New("invite code cannot be empty")
)

// User represents a registered learner.
// Level, GoalStatus, Progress and Strength are derived fields: they are
// recomputed from the user's courses on every profile read and the stored
// values are never trusted beyond that read.
type User struct {
	ID             uuid.UUID `json:"id"`
	Superuser      bool      `json:"superuser"`
	Active         bool      `json:"active"`
	Name           string    `json:"name"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext password, used temporarily during registration/updates
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	Level          int       `json:"level"`
	GoalStatus     int       `json:"goal_status"`
	Progress       int       `json:"progress"`
	Strength       int       `json:"strength"`
	InviteCode     string    `json:"-"`
	ResetCode      string    `json:"-"`
	ExpiryDate     time.Time `json:"expiry_date"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given identity fields and plaintext
// password. The caller is responsible for hashing the password and setting
// the membership expiry date before storing the user.
func NewUser(name, username, email, password, inviteCode string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:         uuid.New(),
		Active:     true,
		Name:       name,
		Username:   username,
		Email:      email,
		Password:   password, // Plaintext - must be hashed before storage
		InviteCode: inviteCode,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Name == "" {
		return ErrEmptyName
	}

	if u.Username == "" {
		return ErrEmptyUsername
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Password != "" {
		if !ValidatePasswordStrength(u.Password) {
			return ErrWeakPassword
		}
	} else if u.HashedPassword == "" {
		// Existing users loaded from the database carry only the hash.
		return ErrEmptyPassword
	}

	return nil
}

// Expired reports whether the user's membership has lapsed as of now.
// A zero expiry date means no expiry has been assigned yet.
func (u *User) Expired(now time.Time) bool {
	if u.ExpiryDate.IsZero() {
		return false
	}
	return now.After(u.ExpiryDate)
}

// ValidatePasswordStrength checks the registration password rule:
// at least 8 characters, containing at least one letter and one digit.
func ValidatePasswordStrength(password string) bool {
	if len(password) < 8 {
		return false
	}
	var letters, digits bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			digits = true
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			letters = true
		}
		if letters && digits {
			return true
		}
	}
	return false
}

// validateEmailFormat performs basic validation of email format.
// Returns true if the email appears to be in a valid format.
func validateEmailFormat(email string) bool {
	atIndex := -1
	for i, char := range email {
		if char == '@' {
			atIndex = i
			break
		}
	}

	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	// Domain must contain an interior dot.
	domainPart := email[atIndex+1:]
	dotIndex := -1
	for i, char := range domainPart {
		if char == '.' {
			dotIndex = i
			break
		}
	}

	return dotIndex > 0 && dotIndex < len(domainPart)-1
}

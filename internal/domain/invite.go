package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Invite-specific validation errors
var (
	ErrEmptyInviteID      = errors.New("invite ID cannot be empty")
	ErrEmptyInviteCodeVal = errors.New("invite code value cannot be empty")
	ErrEmptyInviteEmail   = errors.New("invite email cannot be empty")
	ErrEmptyInviteEventID = errors.New("invite event ID cannot be empty")
)

// Invite is a registration entitlement. It is created when a payment webhook
// is verified (or directly by a superuser) and is claimed by exactly one
// user at registration time; UserID is nil until then.
type Invite struct {
	ID        uuid.UUID  `json:"id"`
	Code      string     `json:"invite_code"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	Invoice   string     `json:"invoice"`
	EventID   string     `json:"event_id"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewInvite creates a new unclaimed Invite.
func NewInvite(code, phone, email, invoice, eventID string) (*Invite, error) {
	invite := &Invite{
		ID:        uuid.New(),
		Code:      code,
		Phone:     phone,
		Email:     email,
		Invoice:   invoice,
		EventID:   eventID,
		CreatedAt: time.Now().UTC(),
	}

	if err := invite.Validate(); err != nil {
		return nil, err
	}

	return invite, nil
}

// Validate checks if the Invite has valid data.
func (i *Invite) Validate() error {
	if i.ID == uuid.Nil {
		return ErrEmptyInviteID
	}

	if i.Code == "" {
		return ErrEmptyInviteCodeVal
	}

	if i.Email == "" {
		return ErrEmptyInviteEmail
	}

	if i.EventID == "" {
		return ErrEmptyInviteEventID
	}

	return nil
}

// Claimed reports whether the invite has already been used to register.
func (i *Invite) Claimed() bool {
	return i.UserID != nil
}

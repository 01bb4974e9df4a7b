package service

import "errors"

// Common service-level errors, mapped to HTTP statuses at the API boundary.
var (
	// ErrNotOwner is returned when a resource exists but belongs to a
	// different user than the one making the request.
	ErrNotOwner = errors.New("resource does not belong to the authenticated user")

	// ErrInvalidCredentials is returned when login fails. It deliberately
	// does not distinguish between an unknown user and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountInactive is returned when an authenticated user's membership
	// has been deactivated.
	ErrAccountInactive = errors.New("account is inactive")

	// ErrInvalidInvite is returned during registration when the invite code
	// does not exist or has already been claimed.
	ErrInvalidInvite = errors.New("invite code is invalid or already used")

	// ErrInvalidResetCode is returned when a password reset is attempted with
	// a code that does not match the one issued.
	ErrInvalidResetCode = errors.New("password reset code is invalid")

	// ErrSuperuserRequired is returned when a non-superuser calls an
	// administration operation.
	ErrSuperuserRequired = errors.New("operation requires superuser privileges")
)

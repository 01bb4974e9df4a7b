package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/masteryapp/mastery-api/internal/domain"
	"github.com/masteryapp/mastery-api/internal/service"
	"github.com/masteryapp/mastery-api/internal/service/auth"
	"github.com/masteryapp/mastery-api/internal/service/payment"
	"github.com/masteryapp/mastery-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotOwner),
		errors.Is(err, service.ErrAccountInactive),
		errors.Is(err, service.ErrSuperuserRequired):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, service.ErrInvalidInvite),
		errors.Is(err, service.ErrInvalidResetCode),
		errors.Is(err, payment.ErrUnknownOrder),
		errors.Is(err, payment.ErrInvalidSignature),
		isDomainValidationError(err):
		return http.StatusBadRequest

	// Payments disabled for this deployment
	case errors.Is(err, payment.ErrDisabled):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, service.ErrAccountInactive):
		return "Account is inactive"

	case errors.Is(err, service.ErrNotOwner):
		return "You do not own this resource"

	case errors.Is(err, service.ErrSuperuserRequired):
		return "Superuser privileges required"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrCourseNotFound):
		return "Course not found"

	case errors.Is(err, store.ErrLessonNotFound):
		return "Lesson not found"

	case errors.Is(err, store.ErrTopicNotFound):
		return "Topic not found"

	case errors.Is(err, store.ErrBurstNotFound):
		return "Burst not found"

	case errors.Is(err, store.ErrInviteNotFound),
		errors.Is(err, service.ErrInvalidInvite):
		return "Invite code is invalid or already used"

	case errors.Is(err, service.ErrInvalidResetCode):
		return "Reset code is invalid"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, store.ErrUsernameExists):
		return "Username already exists"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, domain.ErrWeakPassword):
		return domain.ErrWeakPassword.Error()

	case isDomainValidationError(err):
		return "Invalid request data"

	case errors.Is(err, payment.ErrUnknownOrder):
		return "Unknown or already settled order"

	case errors.Is(err, payment.ErrInvalidSignature):
		return "Payment verification failed"

	case errors.Is(err, payment.ErrDisabled):
		return "Payments are not available"

	default:
		return "An unexpected error occurred"
	}
}

// isDomainValidationError reports whether the error wraps one of the domain
// entity validation sentinels. These come from caller mistakes, not server
// faults.
func isDomainValidationError(err error) bool {
	validationErrs := []error{
		domain.ErrWeakPassword,
		domain.ErrInvalidEmail,
		domain.ErrEmptyName,
		domain.ErrEmptyUsername,
		domain.ErrEmptyEmail,
		domain.ErrEmptyInviteCode,
		domain.ErrEmptyCourseName,
		domain.ErrInvalidIntensity,
		domain.ErrInvalidGoal,
		domain.ErrEmptyDeadline,
		domain.ErrEmptyLessonName,
		domain.ErrEmptyTopicName,
		domain.ErrInvalidRevisions,
		domain.ErrInvalidStability,
		domain.ErrInvalidDuration,
		domain.ErrInvalidInterruption,
	}
	for _, target := range validationErrs {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'LoginRequest.Email' Error:Field validation
		// for 'Email' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "gt":
		return "must be greater than zero"
	default:
		return "validation failed"
	}
}

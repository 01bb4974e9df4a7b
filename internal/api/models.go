package api

import (
	"time"

	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name       string `json:"name"        validate:"required,max=100"`
	Username   string `json:"username"    validate:"required,min=3,max=40"`
	Email      string `json:"email"       validate:"required,email"`
	Password   string `json:"password"    validate:"required,min=8,max=72"`
	InviteCode string `json:"invite_code" validate:"required"`
}

// LoginRequest defines the payload for the user login endpoint. Identity may
// be either the account email or the username.
type LoginRequest struct {
	Identity string `json:"identity" validate:"required"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`
}

// PasswordResetRequest defines the payload for requesting a reset code.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirm defines the payload for redeeming a reset code.
type PasswordResetConfirm struct {
	Email       string `json:"email"        validate:"required,email"`
	Code        string `json:"code"         validate:"required,len=6"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// PasswordUpdateRequest defines the payload for changing a password while
// logged in.
type PasswordUpdateRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=72"`
}

// CreateCourseRequest defines the payload for creating a course.
type CreateCourseRequest struct {
	Name      string    `json:"name"      validate:"required,max=200"`
	Intensity string    `json:"intensity" validate:"required,oneof=Low Medium High"`
	Goal      int       `json:"goal"      validate:"required,gt=0"`
	Deadline  time.Time `json:"deadline"  validate:"required"`
}

// UpdateCourseRequest defines the payload for editing a course. Absent fields
// are left unchanged.
type UpdateCourseRequest struct {
	Name      *string    `json:"name,omitempty"      validate:"omitempty,max=200"`
	Intensity *string    `json:"intensity,omitempty" validate:"omitempty,oneof=Low Medium High"`
	Goal      *int       `json:"goal,omitempty"      validate:"omitempty,gt=0"`
	Deadline  *time.Time `json:"deadline,omitempty"`
}

// CreateLessonRequest defines the payload for creating a lesson.
type CreateLessonRequest struct {
	CourseID uuid.UUID `json:"course_id" validate:"required"`
	Name     string    `json:"name"      validate:"required,max=200"`
}

// RenameLessonRequest defines the payload for renaming a lesson.
type RenameLessonRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// CreateTopicRequest defines the payload for creating a topic.
type CreateTopicRequest struct {
	LessonID uuid.UUID `json:"lesson_id" validate:"required"`
	Name     string    `json:"name"      validate:"required,max=200"`
}

// UpdateTopicRequest defines the payload for editing a topic. Absent fields
// are left unchanged; completion and revision flips drive the revision
// scheduler.
type UpdateTopicRequest struct {
	Name          *string `json:"name,omitempty"           validate:"omitempty,max=200"`
	Completed     *bool   `json:"completed,omitempty"`
	Revised       *bool   `json:"revised,omitempty"`
	RevisionCount *int    `json:"revision_count,omitempty" validate:"omitempty,min=0"`
}

// CreateBurstRequest defines the payload for logging a study burst.
type CreateBurstRequest struct {
	CourseID     uuid.UUID `json:"course_id"    validate:"required"`
	LessonID     uuid.UUID `json:"lesson_id"    validate:"required"`
	Duration     int       `json:"duration"     validate:"min=0"`
	Interrupted  bool      `json:"interrupted"`
	Interruption string    `json:"interruption" validate:"omitempty,oneof=Self Digital People"`
}

// CreateInviteRequest defines the payload for minting an invite code.
type CreateInviteRequest struct {
	Phone   string `json:"phone"    validate:"omitempty,max=20"`
	Email   string `json:"email"    validate:"required,email"`
	Invoice string `json:"invoice"  validate:"omitempty,max=100"`
	EventID string `json:"event_id" validate:"required,max=100"`
}

// SetSuperuserRequest defines the payload for granting or revoking
// superuser rights. A pointer distinguishes an explicit false from an
// absent field.
type SetSuperuserRequest struct {
	Superuser *bool `json:"superuser" validate:"required"`
}

// CreateOrderRequest defines the payload for opening a payment checkout.
type CreateOrderRequest struct {
	Amount int `json:"amount" validate:"required,gt=0"`
}

// VerifyPaymentRequest defines the payload the gateway callback delivers.
type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id"   validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature"  validate:"required,len=64"`
}

package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// RegisterRequest represents the request to register a new user account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// User represents a user profile for API responses (password material excluded).
type User struct {
	ID                uuid.UUID    `json:"id"`
	Name              string       `json:"name"`
	Email             string       `json:"email"`
	TargetRole        string       `json:"target_role,omitempty"`
	Experience        string       `json:"experience,omitempty"`
	Preferences       *Preferences `json:"preferences,omitempty"`
	HasUploadedResume bool         `json:"has_uploaded_resume"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// LoginResponse represents the login/register response with user data and token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// TrackEnrollmentRequest records a click-through to an external course.
type TrackEnrollmentRequest struct {
	CourseID    string `json:"course_id" validate:"required"`
	CourseTitle string `json:"course_title" validate:"required"`
	Provider    string `json:"provider" validate:"required"`
	ExternalURL string `json:"external_url" validate:"required,url"`
}

// UpdateProgressRequest updates progress on an existing enrollment.
// Status is optional; when present it must be a valid enum value.
type UpdateProgressRequest struct {
	Progress  float64 `json:"progress" validate:"min=0,max=100"`
	TimeSpent float64 `json:"time_spent" validate:"min=0"`
	Status    string  `json:"status,omitempty" validate:"omitempty,oneof=in-progress completed"`
}

// Validate validates the RegisterRequest using the validator.
func (r *RegisterRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the TrackEnrollmentRequest using the validator.
func (r *TrackEnrollmentRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdateProgressRequest using the validator.
func (r *UpdateProgressRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

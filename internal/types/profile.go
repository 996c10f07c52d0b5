// Package types provides type definitions for structured data used throughout the career-compass system.
package types

import (
	"time"

	"github.com/google/uuid"
)

// Preferences holds a user's learning preferences collected during onboarding.
type Preferences struct {
	LearningStyle  string `json:"learning_style,omitempty"`
	TimeCommitment string `json:"time_commitment,omitempty"`
	Budget         string `json:"budget,omitempty"`
}

// UserProfile represents a user profile as persisted in the users collection.
type UserProfile struct {
	UID               uuid.UUID    `json:"uid"`
	Name              string       `json:"name"`
	Email             string       `json:"email"`
	TargetRole        string       `json:"target_role,omitempty"`
	Experience        string       `json:"experience,omitempty"`
	Preferences       *Preferences `json:"preferences,omitempty"`
	HasUploadedResume bool         `json:"has_uploaded_resume"`
	PasswordHash      string       `json:"-"` // Never serialize to JSON
	PasswordSet       bool         `json:"password_set"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// ProfilePatch is a typed partial update for a user profile.
// Nil fields are left untouched by the update.
type ProfilePatch struct {
	Name              *string      `json:"name,omitempty" validate:"omitempty,min=1"`
	TargetRole        *string      `json:"target_role,omitempty"`
	Experience        *string      `json:"experience,omitempty"`
	Preferences       *Preferences `json:"preferences,omitempty"`
	HasUploadedResume *bool        `json:"has_uploaded_resume,omitempty"`
}

// IsEmpty reports whether the patch would change nothing.
func (p *ProfilePatch) IsEmpty() bool {
	return p.Name == nil && p.TargetRole == nil && p.Experience == nil &&
		p.Preferences == nil && p.HasUploadedResume == nil
}

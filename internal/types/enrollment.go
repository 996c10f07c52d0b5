package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EnrollmentStatus is the lifecycle state of a course enrollment.
type EnrollmentStatus string

const (
	EnrollmentEnrolled   EnrollmentStatus = "enrolled"
	EnrollmentInProgress EnrollmentStatus = "in-progress"
	EnrollmentCompleted  EnrollmentStatus = "completed"
)

// ParseEnrollmentStatus validates a status string against the enum.
func ParseEnrollmentStatus(s string) (EnrollmentStatus, error) {
	switch EnrollmentStatus(s) {
	case EnrollmentEnrolled, EnrollmentInProgress, EnrollmentCompleted:
		return EnrollmentStatus(s), nil
	}
	return "", fmt.Errorf("invalid enrollment status: %q", s)
}

// CourseEnrollment tracks a user's relationship to an external course,
// keyed by (user_id, course_id). Never deleted; duplicate enrollment
// attempts only touch LastAccessed.
type CourseEnrollment struct {
	UserID       uuid.UUID        `json:"user_id"`
	CourseID     string           `json:"course_id"`
	CourseTitle  string           `json:"course_title"`
	Provider     string           `json:"provider"`
	ExternalURL  string           `json:"external_url"`
	Status       EnrollmentStatus `json:"status"`
	Progress     float64          `json:"progress"` // 0-100
	TimeSpent    float64          `json:"time_spent"` // hours
	EnrolledAt   time.Time        `json:"enrolled_at"`
	LastAccessed *time.Time       `json:"last_accessed,omitempty"`
}

// ClampProgress bounds a progress value to [0,100].
func ClampProgress(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/career-compass/internal/intake"
	"github.com/jonathan/career-compass/internal/store"
	"github.com/jonathan/career-compass/internal/upload"
)

func TestErrEmailAlreadyExists(t *testing.T) {
	err := &ErrEmailAlreadyExists{Email: "test@example.com"}
	assert.Equal(t, "email already registered: test@example.com", err.Error())
	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
}

func TestErrInvalidCredentials(t *testing.T) {
	err := &ErrInvalidCredentials{}
	assert.Equal(t, "invalid email or password", err.Error())
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(err))
}

func TestErrUserNotFound(t *testing.T) {
	userID := uuid.New()
	err := &ErrUserNotFound{UserID: userID}
	assert.Equal(t, "user not found: "+userID.String(), err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestErrForbidden(t *testing.T) {
	err := &ErrForbidden{}
	assert.Equal(t, "access to this resource is forbidden", err.Error())
	assert.Equal(t, http.StatusForbidden, HTTPStatus(err))
}

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "email", Message: "invalid format"}
	assert.Equal(t, "validation error: email - invalid format", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	uploadID := uuid.New()

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "ErrEmailAlreadyExists",
			err:      &ErrEmailAlreadyExists{Email: "test@example.com"},
			expected: http.StatusConflict,
		},
		{
			name:     "ErrInvalidCredentials",
			err:      &ErrInvalidCredentials{},
			expected: http.StatusUnauthorized,
		},
		{
			name:     "ErrForbidden",
			err:      &ErrForbidden{},
			expected: http.StatusForbidden,
		},
		{
			name:     "ErrUserNotFound",
			err:      &ErrUserNotFound{UserID: uuid.New()},
			expected: http.StatusNotFound,
		},
		{
			name:     "ErrValidation",
			err:      &ErrValidation{Field: "password", Message: "too short"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "intake rejection",
			err:      &intake.RejectionError{Name: "resume.exe", Reason: "unsupported file type"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "wrapped intake rejection",
			err:      fmt.Errorf("adding file: %w", &intake.RejectionError{Name: "big.pdf", Reason: "file too large"}),
			expected: http.StatusBadRequest,
		},
		{
			name:     "unknown upload",
			err:      &upload.ErrUnknownFile{ID: uploadID},
			expected: http.StatusNotFound,
		},
		{
			name:     "upload not terminal",
			err:      &upload.ErrNotTerminal{ID: uploadID, Status: upload.StatusProcessing},
			expected: http.StatusConflict,
		},
		{
			name:     "invalid upload transition",
			err:      &upload.ErrInvalidTransition{ID: uploadID, From: upload.StatusCompleted, To: upload.StatusUploading},
			expected: http.StatusConflict,
		},
		{
			name:     "store not configured",
			err:      fmt.Errorf("tracking enrollment: %w", store.ErrNotConfigured),
			expected: http.StatusServiceUnavailable,
		},
		{
			name:     "unknown error",
			err:      assert.AnError,
			expected: http.StatusInternalServerError,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

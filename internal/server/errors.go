// Package server provides the HTTP REST API for the career compass backend.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/career-compass/internal/intake"
	"github.com/jonathan/career-compass/internal/store"
	"github.com/jonathan/career-compass/internal/upload"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrForbidden indicates the authenticated user may not access the resource
type ErrForbidden struct{}

func (e *ErrForbidden) Error() string {
	return "access to this resource is forbidden"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials:
		return http.StatusUnauthorized
	case *ErrForbidden:
		return http.StatusForbidden
	case *ErrUserNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	}

	var rejection *intake.RejectionError
	if errors.As(err, &rejection) {
		return http.StatusBadRequest
	}

	var unknown *upload.ErrUnknownFile
	if errors.As(err, &unknown) {
		return http.StatusNotFound
	}
	var notTerminal *upload.ErrNotTerminal
	if errors.As(err, &notTerminal) {
		return http.StatusConflict
	}
	var badTransition *upload.ErrInvalidTransition
	if errors.As(err, &badTransition) {
		return http.StatusConflict
	}

	if errors.Is(err, store.ErrNotConfigured) {
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}

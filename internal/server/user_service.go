package server

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/career-compass/internal/config"
	"github.com/jonathan/career-compass/internal/store"
	"github.com/jonathan/career-compass/internal/types"
)

// UserService provides business logic for account and profile operations.
type UserService struct {
	store          *store.Store
	passwordConfig *config.PasswordConfig
}

// NewUserService creates a new UserService with the given dependencies.
func NewUserService(st *store.Store, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{
		store:          st,
		passwordConfig: passwordConfig,
	}
}

// toAPIUser converts a stored profile to the API shape, excluding password material.
func toAPIUser(profile *types.UserProfile) *types.User {
	if profile == nil {
		return nil
	}
	return &types.User{
		ID:                profile.UID,
		Name:              profile.Name,
		Email:             profile.Email,
		TargetRole:        profile.TargetRole,
		Experience:        profile.Experience,
		Preferences:       profile.Preferences,
		HasUploadedResume: profile.HasUploadedResume,
		CreatedAt:         profile.CreatedAt,
		UpdatedAt:         profile.UpdatedAt,
	}
}

// Register creates a new user with password authentication.
func (s *UserService) Register(ctx context.Context, req *types.RegisterRequest) (*types.User, error) {
	exists, err := s.store.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}

	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &types.UserProfile{
		UID:          uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		PasswordSet:  true,
	}
	if err := s.store.CreateUserProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return toAPIUser(profile), nil
}

// Login authenticates a user and returns user data.
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	profile, err := s.store.GetUserProfileByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	// Always return the generic error whether the account is missing or the
	// password is wrong.
	if profile == nil || !profile.PasswordSet {
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwordConfig.VerifyPassword(req.Password, profile.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	return toAPIUser(profile), nil
}

// GetProfile retrieves a user profile by id.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	profile, err := s.store.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if profile == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}
	return toAPIUser(profile), nil
}

// UpdateProfile applies a typed partial update and returns the fresh profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, patch *types.ProfilePatch) (*types.User, error) {
	if patch.IsEmpty() {
		return nil, &ErrValidation{Field: "patch", Message: "no fields to update"}
	}

	if _, err := s.GetProfile(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.store.UpdateUserProfile(ctx, userID, patch); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

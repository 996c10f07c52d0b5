package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/career-compass/internal/types"
)

const userColumns = `uid, name, email, target_role, experience, preferences,
	has_uploaded_resume, COALESCE(password_hash, ''), password_set, created_at, updated_at`

// scanUserProfile reads one user row. Nullable text columns come back as
// pointers; preferences is a nullable JSONB document.
func scanUserProfile(row pgx.Row) (*types.UserProfile, error) {
	var p types.UserProfile
	var targetRole, experience *string
	var prefs []byte

	err := row.Scan(&p.UID, &p.Name, &p.Email, &targetRole, &experience, &prefs,
		&p.HasUploadedResume, &p.PasswordHash, &p.PasswordSet, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if targetRole != nil {
		p.TargetRole = *targetRole
	}
	if experience != nil {
		p.Experience = *experience
	}
	if len(prefs) > 0 {
		var pr types.Preferences
		if err := json.Unmarshal(prefs, &pr); err != nil {
			return nil, fmt.Errorf("failed to decode preferences: %w", err)
		}
		p.Preferences = &pr
	}
	return &p, nil
}

// GetUserProfile retrieves a user profile by uid. Returns nil when the user
// does not exist, and also when the store is not configured (soft fail).
func (s *Store) GetUserProfile(ctx context.Context, uid uuid.UUID) (*types.UserProfile, error) {
	if !s.Configured() {
		return nil, nil
	}

	profile, err := scanUserProfile(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE uid = $1`, uid))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	return profile, nil
}

// GetUserProfileByEmail retrieves a user profile by email for login.
func (s *Store) GetUserProfileByEmail(ctx context.Context, email string) (*types.UserProfile, error) {
	if !s.Configured() {
		return nil, nil
	}

	profile, err := scanUserProfile(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user profile by email: %w", err)
	}
	return profile, nil
}

// EmailExists reports whether an email is already registered.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	if !s.Configured() {
		return false, nil
	}

	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// CreateUserProfile writes a new profile at key uid and stamps both
// timestamps. Write failures propagate to the caller.
func (s *Store) CreateUserProfile(ctx context.Context, profile *types.UserProfile) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	var prefs any
	if profile.Preferences != nil {
		data, err := json.Marshal(profile.Preferences)
		if err != nil {
			return fmt.Errorf("failed to marshal preferences: %w", err)
		}
		prefs = data
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (uid, name, email, target_role, experience, preferences,
			has_uploaded_resume, password_hash, password_set)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, NULLIF($8, ''), $9)
		 RETURNING created_at, updated_at`,
		profile.UID, profile.Name, profile.Email, profile.TargetRole, profile.Experience,
		prefs, profile.HasUploadedResume, profile.PasswordHash, profile.PasswordSet,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user profile: %w", err)
	}
	return nil
}

// UpdateUserProfile merges the set fields of a typed patch into the stored
// profile and stamps updated_at. Unset fields are untouched.
func (s *Store) UpdateUserProfile(ctx context.Context, uid uuid.UUID, patch *types.ProfilePatch) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	query := `UPDATE users SET updated_at = NOW()`
	args := []any{}
	argNum := 1

	if patch.Name != nil {
		query += fmt.Sprintf(", name = $%d", argNum)
		args = append(args, *patch.Name)
		argNum++
	}
	if patch.TargetRole != nil {
		query += fmt.Sprintf(", target_role = $%d", argNum)
		args = append(args, *patch.TargetRole)
		argNum++
	}
	if patch.Experience != nil {
		query += fmt.Sprintf(", experience = $%d", argNum)
		args = append(args, *patch.Experience)
		argNum++
	}
	if patch.Preferences != nil {
		data, err := json.Marshal(patch.Preferences)
		if err != nil {
			return fmt.Errorf("failed to marshal preferences: %w", err)
		}
		query += fmt.Sprintf(", preferences = $%d", argNum)
		args = append(args, data)
		argNum++
	}
	if patch.HasUploadedResume != nil {
		query += fmt.Sprintf(", has_uploaded_resume = $%d", argNum)
		args = append(args, *patch.HasUploadedResume)
		argNum++
	}

	query += fmt.Sprintf(" WHERE uid = $%d", argNum)
	args = append(args, uid)

	result, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", uid)
	}
	return nil
}

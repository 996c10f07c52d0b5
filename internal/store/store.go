// Package store provides the persistence gateway for user profiles, résumé
// analyses, and course enrollments, backed by PostgreSQL.
//
// The store supports a demo mode: when no database is configured, reads
// return empty results and writes return ErrNotConfigured, so the rest of
// the system degrades gracefully instead of crashing.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotConfigured is returned by writes when the store runs in demo mode.
// Reads never return it; they fail soft with empty results.
var ErrNotConfigured = errors.New("persistence store not configured")

// Store wraps a PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// NewDisabled returns a store running in demo mode.
func NewDisabled() *Store {
	return &Store{}
}

// Configured reports whether a live database backs this store.
func (s *Store) Configured() bool {
	return s.pool != nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the collections if they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			uid UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			target_role TEXT,
			experience TEXT,
			preferences JSONB,
			has_uploaded_resume BOOLEAN NOT NULL DEFAULT FALSE,
			password_hash TEXT,
			password_set BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS analyses (
			id TEXT PRIMARY KEY,
			user_id UUID NOT NULL,
			file_name TEXT NOT NULL,
			uploaded_at TIMESTAMPTZ NOT NULL,
			skills JSONB NOT NULL,
			gaps JSONB NOT NULL,
			recommendations JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS analyses_user_uploaded_idx
			ON analyses (user_id, uploaded_at DESC)`,
		`CREATE TABLE IF NOT EXISTS enrollments (
			user_id UUID NOT NULL,
			course_id TEXT NOT NULL,
			course_title TEXT NOT NULL,
			provider TEXT NOT NULL,
			external_url TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'enrolled',
			progress DOUBLE PRECISION NOT NULL DEFAULT 0,
			time_spent DOUBLE PRECISION NOT NULL DEFAULT 0,
			enrolled_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_accessed TIMESTAMPTZ,
			PRIMARY KEY (user_id, course_id)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/career-compass/internal/types"
)

// TrackCourseEnrollment records a click-through to an external course as a
// single atomic conditional write: the first call for a (user, course) pair
// inserts a fresh enrollment, every later call only touches last_accessed.
// Concurrent clicks from the same user cannot duplicate the record.
func (s *Store) TrackCourseEnrollment(ctx context.Context, userID uuid.UUID, courseID, title, provider, externalURL string) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO enrollments (user_id, course_id, course_title, provider, external_url, status, progress, time_spent)
		 VALUES ($1, $2, $3, $4, $5, 'enrolled', 0, 0)
		 ON CONFLICT (user_id, course_id) DO UPDATE SET last_accessed = NOW()`,
		userID, courseID, title, provider, externalURL,
	)
	if err != nil {
		return fmt.Errorf("failed to track enrollment: %w", err)
	}
	return nil
}

// UpdateCourseProgress applies a progress update to an existing enrollment.
// Progress is clamped to [0,100]; a status, when given, must already be
// validated against the enum. last_accessed is always stamped.
func (s *Store) UpdateCourseProgress(ctx context.Context, userID uuid.UUID, courseID string, progress, timeSpent float64, status *types.EnrollmentStatus) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	query := `UPDATE enrollments SET progress = $1, time_spent = $2, last_accessed = NOW()`
	args := []any{types.ClampProgress(progress), timeSpent}
	argNum := 3

	if status != nil {
		query += fmt.Sprintf(", status = $%d", argNum)
		args = append(args, *status)
		argNum++
	}

	query += fmt.Sprintf(" WHERE user_id = $%d AND course_id = $%d", argNum, argNum+1)
	args = append(args, userID, courseID)

	result, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update course progress: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("enrollment not found: %s/%s", userID, courseID)
	}
	return nil
}

// scanEnrollment reads one enrollment row.
func scanEnrollment(row pgx.Row) (*types.CourseEnrollment, error) {
	var e types.CourseEnrollment
	err := row.Scan(&e.UserID, &e.CourseID, &e.CourseTitle, &e.Provider, &e.ExternalURL,
		&e.Status, &e.Progress, &e.TimeSpent, &e.EnrolledAt, &e.LastAccessed)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

const enrollmentColumns = `user_id, course_id, course_title, provider, external_url,
	status, progress, time_spent, enrolled_at, last_accessed`

// GetEnrollment retrieves one enrollment, or nil when absent.
func (s *Store) GetEnrollment(ctx context.Context, userID uuid.UUID, courseID string) (*types.CourseEnrollment, error) {
	if !s.Configured() {
		return nil, nil
	}

	e, err := scanEnrollment(s.pool.QueryRow(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE user_id = $1 AND course_id = $2`,
		userID, courseID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return e, nil
}

// GetUserEnrollments lists all of a user's enrollments, oldest first.
func (s *Store) GetUserEnrollments(ctx context.Context, userID uuid.UUID) ([]types.CourseEnrollment, error) {
	if !s.Configured() {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE user_id = $1 ORDER BY enrolled_at ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []types.CourseEnrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, *e)
	}
	return enrollments, nil
}

// IsUserEnrolled reports whether the user has an enrollment for the course.
func (s *Store) IsUserEnrolled(ctx context.Context, userID uuid.UUID, courseID string) (bool, error) {
	if !s.Configured() {
		return false, nil
	}

	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2)`,
		userID, courseID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return exists, nil
}

package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/career-compass/internal/types"
)

// SaveResumeAnalysis stores an analysis record. Records are immutable after
// creation; a duplicate id is a caller bug and surfaces as a write failure.
func (s *Store) SaveResumeAnalysis(ctx context.Context, analysis *types.ResumeAnalysis) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	skills, err := json.Marshal(analysis.Skills)
	if err != nil {
		return fmt.Errorf("failed to marshal skills: %w", err)
	}
	gaps, err := json.Marshal(analysis.Gaps)
	if err != nil {
		return fmt.Errorf("failed to marshal gaps: %w", err)
	}
	recs, err := json.Marshal(analysis.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO analyses (id, user_id, file_name, uploaded_at, skills, gaps, recommendations)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		analysis.ID, analysis.UserID, analysis.FileName, analysis.UploadedAt, skills, gaps, recs,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis %s: %w", analysis.ID, err)
	}
	return nil
}

// scanAnalysis reads one analysis row including its JSONB sections.
func scanAnalysis(row pgx.Row) (*types.ResumeAnalysis, error) {
	var a types.ResumeAnalysis
	var skills, gaps, recs []byte

	if err := row.Scan(&a.ID, &a.UserID, &a.FileName, &a.UploadedAt, &skills, &gaps, &recs); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(skills, &a.Skills); err != nil {
		return nil, fmt.Errorf("failed to decode skills: %w", err)
	}
	if err := json.Unmarshal(gaps, &a.Gaps); err != nil {
		return nil, fmt.Errorf("failed to decode gaps: %w", err)
	}
	if err := json.Unmarshal(recs, &a.Recommendations); err != nil {
		return nil, fmt.Errorf("failed to decode recommendations: %w", err)
	}
	return &a, nil
}

// GetLatestResumeAnalysis returns the record with the maximum uploaded_at
// for the user, or nil when none exist. The ordering happens server-side.
func (s *Store) GetLatestResumeAnalysis(ctx context.Context, userID uuid.UUID) (*types.ResumeAnalysis, error) {
	if !s.Configured() {
		return nil, nil
	}

	analysis, err := scanAnalysis(s.pool.QueryRow(ctx,
		`SELECT id, user_id, file_name, uploaded_at, skills, gaps, recommendations
		 FROM analyses WHERE user_id = $1
		 ORDER BY uploaded_at DESC LIMIT 1`,
		userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest analysis: %w", err)
	}
	return analysis, nil
}

// ListResumeAnalyses returns all analysis records for a user, most recent
// first.
func (s *Store) ListResumeAnalyses(ctx context.Context, userID uuid.UUID, limit int) ([]types.ResumeAnalysis, error) {
	if !s.Configured() {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, file_name, uploaded_at, skills, gaps, recommendations
		 FROM analyses WHERE user_id = $1
		 ORDER BY uploaded_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var analyses []types.ResumeAnalysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		analyses = append(analyses, *a)
	}
	return analyses, nil
}

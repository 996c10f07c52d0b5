package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/jonathan/career-compass/internal/schemas"
	"github.com/jonathan/career-compass/internal/store"
	"github.com/jonathan/career-compass/internal/types"
)

// Service runs the analysis pipeline for one resume: call the provider,
// validate the output, persist the record. The persisted record exists
// before Run returns, so a subsequent latest-analysis read always sees it.
type Service struct {
	provider Provider
	store    *store.Store
	now      func() time.Time
}

// NewService wires a provider to the persistence layer.
func NewService(provider Provider, st *store.Store) *Service {
	return &Service{
		provider: provider,
		store:    st,
		now:      time.Now,
	}
}

// Run analyzes a resume end to end and returns the persisted record.
func (s *Service) Run(ctx context.Context, req Request) (*types.ResumeAnalysis, error) {
	result, err := s.provider.Analyze(ctx, req)
	if err != nil {
		return nil, &AnalysisError{FileName: req.FileName, Stage: "provider", Err: err}
	}

	if err := result.Validate(); err != nil {
		return nil, &AnalysisError{FileName: req.FileName, Stage: "validate", Err: err}
	}

	serialized, err := json.Marshal(result)
	if err != nil {
		return nil, &AnalysisError{FileName: req.FileName, Stage: "serialize", Err: err}
	}
	if err := schemas.ValidateAnalysisResult(serialized); err != nil {
		return nil, &AnalysisError{FileName: req.FileName, Stage: "schema", Err: err}
	}

	at := s.now().UTC()
	record := &types.ResumeAnalysis{
		ID:             types.NewAnalysisID(req.UserID, at),
		UserID:         req.UserID,
		FileName:       req.FileName,
		UploadedAt:     at,
		AnalysisResult: *result,
	}

	if err := s.store.SaveResumeAnalysis(ctx, record); err != nil {
		if errors.Is(err, store.ErrNotConfigured) {
			log.Printf("[analysis] Database not configured, analysis %s not persisted", record.ID)
		} else {
			return nil, &AnalysisError{FileName: req.FileName, Stage: "persist", Err: err}
		}
	}

	uploaded := true
	if err := s.store.UpdateUserProfile(ctx, req.UserID, &types.ProfilePatch{HasUploadedResume: &uploaded}); err != nil && !errors.Is(err, store.ErrNotConfigured) {
		// The record is already saved; a profile flag failure is not fatal.
		log.Printf("[analysis] Failed to mark resume uploaded for %s: %v", req.UserID, err)
	}

	return record, nil
}

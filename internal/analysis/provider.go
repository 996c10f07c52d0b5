// Package analysis turns uploaded resume content into a skills profile:
// extracted skills, market-driven gaps, and matched course recommendations.
package analysis

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/career-compass/internal/types"
)

// Request carries one resume to analyze.
type Request struct {
	UserID   uuid.UUID
	FileName string
	Content  []byte
}

// Provider produces an analysis result for a resume. Implementations must
// honor context cancellation.
type Provider interface {
	Analyze(ctx context.Context, req Request) (*types.AnalysisResult, error)
	Close() error
}

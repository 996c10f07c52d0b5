package analysis

import (
	"context"
	"time"

	"github.com/jonathan/career-compass/internal/types"
)

// DefaultFixtureDelay approximates the latency of a real model call.
const DefaultFixtureDelay = 3 * time.Second

// FixtureProvider returns a canned analysis result after a simulated
// processing delay. It stands in for the model backend when no API key is
// configured, and keeps the rest of the pipeline exercisable in demo mode.
type FixtureProvider struct {
	Delay time.Duration
}

// NewFixtureProvider creates a fixture provider with the default delay.
func NewFixtureProvider() *FixtureProvider {
	return &FixtureProvider{Delay: DefaultFixtureDelay}
}

// Analyze waits out the simulated delay, then returns a fresh copy of the
// fixture result. Cancelling the context aborts the wait.
func (p *FixtureProvider) Analyze(ctx context.Context, req Request) (*types.AnalysisResult, error) {
	delay := p.Delay
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return FixtureResult(), nil
}

func (p *FixtureProvider) Close() error { return nil }

// FixtureResult builds the canned analysis result. A new value is returned
// on every call so callers can mutate it freely.
func FixtureResult() *types.AnalysisResult {
	return &types.AnalysisResult{
		Skills: []types.SkillRecord{
			{
				Name:         "JavaScript",
				Category:     "Programming Languages",
				Confidence:   95,
				Proficiency:  "Expert",
				Experience:   "5+ years",
				MarketDemand: "High",
				Trend:        "stable",
				SalaryImpact: "+$15K",
				IsStrength:   true,
			},
			{
				Name:         "React",
				Category:     "Frontend Frameworks",
				Confidence:   92,
				Proficiency:  "Advanced",
				Experience:   "3+ years",
				MarketDemand: "High",
				Trend:        "growing",
				SalaryImpact: "+$12K",
				IsStrength:   true,
			},
			{
				Name:         "Machine Learning",
				Category:     "AI/ML",
				Confidence:   65,
				Proficiency:  "Beginner",
				Experience:   "Basic",
				MarketDemand: "Very High",
				Trend:        "growing",
				SalaryImpact: "+$25K",
				IsGap:        true,
			},
		},
		Gaps: []types.GapRecord{
			{
				Skill:              "Machine Learning",
				CurrentLevel:       30,
				TargetLevel:        80,
				Priority:           "Critical",
				MarketDemand:       95,
				SalaryImpact:       "+$25K",
				TimeToTarget:       "4-6 months",
				RecommendedCourses: 3,
			},
			{
				Skill:              "Kubernetes",
				CurrentLevel:       25,
				TargetLevel:        70,
				Priority:           "High",
				MarketDemand:       82,
				SalaryImpact:       "+$15K",
				TimeToTarget:       "3-4 months",
				RecommendedCourses: 2,
			},
		},
		Recommendations: []types.CourseRecommendation{
			{
				ID:              "1",
				Title:           "Complete Machine Learning Bootcamp 2024",
				Provider:        "Coursera",
				URL:             "https://www.coursera.org/learn/machine-learning",
				Price:           "$49",
				Rating:          4.8,
				SkillsAddressed: []string{"Machine Learning", "Python", "TensorFlow"},
				MatchScore:      95,
			},
			{
				ID:              "2",
				Title:           "Kubernetes for Developers",
				Provider:        "Udemy",
				URL:             "https://www.udemy.com/course/kubernetes-for-developers/",
				Price:           "$79",
				Rating:          4.6,
				SkillsAddressed: []string{"Kubernetes", "Docker", "DevOps"},
				MatchScore:      88,
			},
		},
	}
}

package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SkillRecord is one extracted skill with its market context.
type SkillRecord struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Confidence   float64 `json:"confidence"` // 0-100
	Proficiency  string  `json:"proficiency"`
	Experience   string  `json:"experience,omitempty"`
	MarketDemand string  `json:"market_demand"`
	Trend        string  `json:"trend"`
	SalaryImpact string  `json:"salary_impact"`
	IsStrength   bool    `json:"is_strength"`
	IsGap        bool    `json:"is_gap,omitempty"`
}

// GapRecord describes a skill where current proficiency is below the
// market-driven target level.
type GapRecord struct {
	Skill              string `json:"skill"`
	CurrentLevel       int    `json:"current_level"`
	TargetLevel        int    `json:"target_level"`
	Priority           string `json:"priority"`
	MarketDemand       int    `json:"market_demand"` // 0-100
	SalaryImpact       string `json:"salary_impact"`
	TimeToTarget       string `json:"time_to_target"`
	RecommendedCourses int    `json:"recommended_courses"`
}

// CourseRecommendation is one external course matched to the user's gaps.
type CourseRecommendation struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Provider        string   `json:"provider"`
	URL             string   `json:"url"`
	Price           string   `json:"price"`
	Rating          float64  `json:"rating"`
	SkillsAddressed []string `json:"skills_addressed"`
	MatchScore      int      `json:"match_score"` // 0-100
}

// AnalysisResult is the output shape of the analysis provider: skills,
// gaps, and course recommendations for one résumé.
type AnalysisResult struct {
	Skills          []SkillRecord          `json:"skills"`
	Gaps            []GapRecord            `json:"gaps"`
	Recommendations []CourseRecommendation `json:"recommendations"`
}

// ResumeAnalysis is a persisted analysis record. Immutable after creation;
// the id is a composite of the user id and the creation timestamp.
type ResumeAnalysis struct {
	ID         string    `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	FileName   string    `json:"file_name"`
	UploadedAt time.Time `json:"uploaded_at"`
	AnalysisResult
}

// NewAnalysisID builds the composite analysis id for a user at a point in time.
func NewAnalysisID(userID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("%s_%d", userID, at.UnixMilli())
}

// Validate checks the internal consistency of an analysis result:
// non-empty sections, match scores and demand percentages within [0,100],
// and gap current levels never above their targets.
func (r *AnalysisResult) Validate() error {
	if len(r.Skills) == 0 {
		return fmt.Errorf("analysis result has no skills")
	}
	if len(r.Gaps) == 0 {
		return fmt.Errorf("analysis result has no gaps")
	}
	if len(r.Recommendations) == 0 {
		return fmt.Errorf("analysis result has no recommendations")
	}
	for i, s := range r.Skills {
		if s.Confidence < 0 || s.Confidence > 100 {
			return fmt.Errorf("skill %d (%s): confidence %.1f out of range [0,100]", i, s.Name, s.Confidence)
		}
	}
	for i, g := range r.Gaps {
		if g.CurrentLevel > g.TargetLevel {
			return fmt.Errorf("gap %d (%s): current level %d exceeds target %d", i, g.Skill, g.CurrentLevel, g.TargetLevel)
		}
		if g.MarketDemand < 0 || g.MarketDemand > 100 {
			return fmt.Errorf("gap %d (%s): market demand %d out of range [0,100]", i, g.Skill, g.MarketDemand)
		}
	}
	for i, c := range r.Recommendations {
		if c.MatchScore < 0 || c.MatchScore > 100 {
			return fmt.Errorf("recommendation %d (%s): match score %d out of range [0,100]", i, c.Title, c.MatchScore)
		}
	}
	return nil
}

package server

import (
	"net/http"
	"strings"
)

// handleMarketTrends returns demand/growth/salary figures for the skills
// listed in the comma-separated "skills" query parameter.
func (s *Server) handleMarketTrends(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("skills")
	if raw == "" {
		s.errorResponse(w, http.StatusBadRequest, "Missing skills parameter")
		return
	}

	var skills []string
	for _, skill := range strings.Split(raw, ",") {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}
	if len(skills) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "Missing skills parameter")
		return
	}

	s.jsonResponse(w, http.StatusOK, s.catalog.SkillMarketData(skills))
}

// handleMarketCourses returns catalog courses matched against the user's
// latest gap analysis when one exists, or generic scores otherwise.
func (s *Server) handleMarketCourses(w http.ResponseWriter, r *http.Request) {
	userID, err := s.pathUserID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	latest, err := s.store.GetLatestResumeAnalysis(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	var recommendations = s.catalog.MatchCoursesToGaps(nil)
	if latest != nil {
		recommendations = s.catalog.MatchCoursesToGaps(latest.Gaps)
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"recommendations": recommendations,
		"count":           len(recommendations),
	})
}

package server

import (
	"net/http"
	"strconv"
)

// handleGetLatestAnalysis returns the user's most recent resume analysis, by
// upload time, or 404 when none exists.
func (s *Server) handleGetLatestAnalysis(w http.ResponseWriter, r *http.Request) {
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
	if latest == nil {
		s.errorResponse(w, http.StatusNotFound, "No analysis found")
		return
	}

	s.jsonResponse(w, http.StatusOK, latest)
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	userID, err := s.pathUserID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
	}

	analyses, err := s.store.ListResumeAnalyses(r.Context(), userID, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"analyses": analyses,
		"count":    len(analyses),
	})
}

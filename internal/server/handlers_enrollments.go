package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/career-compass/internal/types"
)

func (s *Server) handleListEnrollments(w http.ResponseWriter, r *http.Request) {
	userID, err := s.pathUserID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	enrollments, err := s.store.GetUserEnrollments(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"enrollments": enrollments,
		"count":       len(enrollments),
	})
}

// handleTrackEnrollment records a click-through to an external course. The
// write is idempotent per (user, course): repeats only touch last_accessed.
func (s *Server) handleTrackEnrollment(w http.ResponseWriter, r *http.Request) {
	userID, err := s.pathUserID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req types.TrackEnrollmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	err = s.store.TrackCourseEnrollment(r.Context(), userID, req.CourseID, req.CourseTitle, req.Provider, req.ExternalURL)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "tracked"})
}

func (s *Server) handleUpdateEnrollmentProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := s.pathUserID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	courseID := r.PathValue("course_id")
	if courseID == "" {
		s.errorResponse(w, http.StatusBadRequest, "Missing course ID")
		return
	}

	var req types.UpdateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	var status *types.EnrollmentStatus
	if req.Status != "" {
		parsed, err := types.ParseEnrollmentStatus(req.Status)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		status = &parsed
	}

	err = s.store.UpdateCourseProgress(r.Context(), userID, courseID, req.Progress, req.TimeSpent, status)
	if err != nil {
		if HTTPStatus(err) == http.StatusServiceUnavailable {
			s.errorResponse(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "updated"})
}

package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/career-compass/internal/server/middleware"
	"github.com/jonathan/career-compass/internal/types"
)

// pathUserID parses the {id} path segment and, when the request is
// authenticated, checks that the token belongs to that user.
func (s *Server) pathUserID(r *http.Request) (uuid.UUID, error) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "invalid user ID"}
	}

	if s.authEnabled {
		tokenUser, err := middleware.GetUserID(r)
		if err != nil {
			return uuid.Nil, &ErrForbidden{}
		}
		if tokenUser != userID {
			return uuid.Nil, &ErrForbidden{}
		}
	}
	return userID, nil
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := s.pathUserID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	user, err := s.userService.GetProfile(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := s.pathUserID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var patch types.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.userService.UpdateProfile(r.Context(), userID, &patch)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, user)
}

package server

import (
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/career-compass/internal/intake"
)

// handleUploadResume accepts one resume file as multipart form data under
// the "file" field. Intake rejections return 400 and never enter the upload
// session; accepted files return 202 with the generated upload id.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	userID, err := s.pathUserID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	// ParseMultipartForm caps the in-memory part; the intake size check is
	// what enforces the advertised limit.
	if err := r.ParseMultipartForm(intake.MaxFileSize + 1024); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	info, err := intake.Validate(header.Filename, header.Size, mimeType)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, intake.MaxFileSize))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	// Detached from the request context: the progression outlives the request.
	f := s.uploads.Add(s.baseCtx, userID, *info, content)
	s.jsonResponse(w, http.StatusAccepted, f)
}

func (s *Server) handleListUploads(w http.ResponseWriter, r *http.Request) {
	userID, err := s.pathUserID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	files := s.uploads.SessionFor(userID).Files()
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"uploads": files,
		"count":   len(files),
	})
}

func (s *Server) handleDismissUpload(w http.ResponseWriter, r *http.Request) {
	userID, err := s.pathUserID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	uploadID, err := uuid.Parse(r.PathValue("upload_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid upload ID")
		return
	}

	if err := s.uploads.Dismiss(userID, uploadID); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "dismissed"})
}

// handleUploadStream streams the session state as SSE progress events until
// every tracked file settles or the client disconnects.
func (s *Server) handleUploadStream(w http.ResponseWriter, r *http.Request) {
	userID, err := s.pathUserID(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	session := s.uploads.SessionFor(userID)
	ticker := time.NewTicker(s.streamInterval)
	defer ticker.Stop()

	for {
		files := session.Files()
		if err := sse.WriteEvent("progress", map[string]any{
			"uploads": files,
			"count":   len(files),
		}); err != nil {
			return
		}
		if session.Settled() {
			sse.WriteComplete()
			return
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/render"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/types"
)

// ownerID extracts the authenticated user id as the store's owner key.
func ownerID(r *http.Request) (string, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		return "", false
	}
	return userID.String(), true
}

// resumeID parses the {id} path value.
func resumeID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("id"))
}

// decodeSections unmarshals raw section objects into typed sections.
func decodeSections(raw []json.RawMessage) ([]resume.Section, error) {
	sections := make([]resume.Section, 0, len(raw))
	for i, data := range raw {
		var sec resume.Section
		if err := json.Unmarshal(data, &sec); err != nil {
			return nil, fmt.Errorf("invalid section at index %d: %w", i, err)
		}
		sections = append(sections, sec)
	}
	return sections, nil
}

// handleCreateResume creates a new resume for the authenticated user. When a
// template name is given the preset sections are used; when raw sections are
// given they replace the defaults.
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.CreateResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	doc := resume.NewDefault(owner)
	doc.Title = req.Title
	doc.JobTitle = req.JobTitle

	if req.Template != "" {
		tpl, err := resume.GetTemplate(req.Template)
		if err != nil {
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
		doc.ApplyTemplate(tpl)
	}
	if len(req.Sections) > 0 {
		sections, err := decodeSections(req.Sections)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		doc.Sections = sections
	}

	created, err := s.gateway.Create(r.Context(), owner, doc)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

// handleListResumes lists the user's resumes, most recently updated first.
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	docs, err := s.gateway.List(r.Context(), owner)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"resumes": docs})
}

// handleGetResume returns a single resume owned by the user.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := resumeID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume id")
		return
	}

	doc, err := s.gateway.Get(r.Context(), owner, id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

// handleUpdateResume replaces the resume content wholesale. Visibility, the
// share token and counters are server-controlled and survive the update.
func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := resumeID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume id")
		return
	}

	var req types.UpdateResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	sections, err := decodeSections(req.Sections)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	current, err := s.gateway.Get(r.Context(), owner, id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	current.Title = req.Title
	current.JobTitle = req.JobTitle
	current.Sections = sections
	if req.Styling != nil {
		if req.Styling.Template != "" {
			current.Styling.Template = req.Styling.Template
		}
		if req.Styling.ColorScheme != "" {
			current.Styling.ColorScheme = req.Styling.ColorScheme
		}
		if req.Styling.FontSize != "" {
			current.Styling.FontSize = req.Styling.FontSize
		}
	}

	updated, err := s.gateway.Update(r.Context(), owner, id, current)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

// handleDeleteResume removes the resume; its share token stops resolving.
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := resumeID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume id")
		return
	}

	if err := s.gateway.Delete(r.Context(), owner, id); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Resume deleted"})
}

// handleShareResume publishes the resume and returns its share link token.
// Each publish mints a fresh token.
func (s *Server) handleShareResume(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := resumeID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume id")
		return
	}

	doc, err := s.gateway.SetVisibility(r.Context(), owner, id, resume.VisibilityPublic)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"share_token": doc.ShareToken,
		"share_url":   "/public/" + doc.ShareToken,
	})
}

// handleUnshareResume withdraws the resume from public view. The old token
// never resolves again.
func (s *Server) handleUnshareResume(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := resumeID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume id")
		return
	}

	if _, err := s.gateway.SetVisibility(r.Context(), owner, id, resume.VisibilityPrivate); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Resume is now private"})
}

// handleDownloadResume records a download of the resume.
func (s *Server) handleDownloadResume(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := resumeID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume id")
		return
	}

	// Ownership check before touching the counter.
	if _, err := s.gateway.Get(r.Context(), owner, id); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if err := s.gateway.IncrementDownloads(r.Context(), id); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Download recorded"})
}

// handleExportResume renders the resume to PDF and streams it as an
// attachment. The export counts as a download.
func (s *Server) handleExportResume(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(r)
	if !ok {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := resumeID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume id")
		return
	}

	doc, err := s.gateway.Get(r.Context(), owner, id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	opts := render.DefaultPageOptions()
	if format := r.URL.Query().Get("format"); format != "" {
		opts.Format = format
	}
	if r.URL.Query().Get("landscape") == "true" {
		opts.Landscape = true
	}

	pdf, err := s.exporter.ExportPDF(r.Context(), doc, opts)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := s.gateway.IncrementDownloads(r.Context(), id); err != nil {
		// Counter bumps are best-effort.
		log.Printf("[server] failed to record download for %s: %v", id, err)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Title+".pdf"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Printf("[server] failed to stream PDF for %s: %v", id, err)
	}
}

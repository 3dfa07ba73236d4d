package server

import (
	"log"
	"net/http"

	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/share"
)

// handlePublicResume serves the owner-stripped projection of a shared resume.
// Lookups never reveal whether a token once existed; every miss is the same
// 404. View counting is best-effort and never fails the read.
func (s *Server) handlePublicResume(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if !share.ValidToken(token) {
		s.errorResponse(w, http.StatusNotFound, "Resume not found")
		return
	}

	doc, err := s.gateway.GetByShareToken(r.Context(), token)
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, "Resume not found")
		return
	}

	if err := s.gateway.IncrementViews(r.Context(), doc.ID); err != nil {
		log.Printf("[server] failed to record view for %s: %v", doc.ID, err)
	}

	s.jsonResponse(w, http.StatusOK, doc)
}

// handleListTemplates returns the preset template bundles.
func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	templates, err := resume.ListTemplates()
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"templates": templates})
}

// handleGetTemplate returns a single template bundle by name.
func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := resume.GetTemplate(r.PathValue("name"))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, tpl)
}

package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/resume-builder/internal/ai"
	"github.com/jonathan/resume-builder/internal/types"
)

// handleGenerateSummary generates a professional summary. The generator
// degrades to deterministic fallback content when the AI backend is not
// configured or fails, so this endpoint never surfaces upstream errors.
func (s *Server) handleGenerateSummary(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	summary := s.generator.GenerateSummary(r.Context(), ai.SummaryRequest{
		JobTitle:        req.JobTitle,
		ExperienceLevel: req.ExperienceLevel,
		Industry:        req.Industry,
	})
	s.jsonResponse(w, http.StatusOK, map[string]string{"summary": summary})
}

// handleGenerateExperience generates achievement bullet points for a role.
func (s *Server) handleGenerateExperience(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateExperienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	bullets := s.generator.GenerateExperienceBullets(r.Context(), ai.ExperienceRequest{
		JobTitle: req.JobTitle,
		Company:  req.Company,
	})
	s.jsonResponse(w, http.StatusOK, map[string]string{"description": bullets})
}

// handleGenerateSkills generates a skills list for a job title.
func (s *Server) handleGenerateSkills(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateSkillsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	skills := s.generator.GenerateSkills(r.Context(), ai.SkillsRequest{
		JobTitle:        req.JobTitle,
		Industry:        req.Industry,
		ExperienceLevel: req.ExperienceLevel,
	})
	s.jsonResponse(w, http.StatusOK, map[string]any{"skills": skills})
}

// handleImproveContent rewrites existing text. Unlike generation there is no
// fallback here: improving requires a configured AI backend, and upstream
// failures surface as 502.
func (s *Server) handleImproveContent(w http.ResponseWriter, r *http.Request) {
	var req types.ImproveContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if !s.generator.IsConfigured() {
		s.errorResponse(w, http.StatusBadGateway, "AI backend is not configured")
		return
	}

	improved, err := s.generator.Improve(r.Context(), ai.ImproveRequest{
		Content:     req.Content,
		ContentType: req.ContentType,
	})
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "AI backend unavailable: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"improved": improved})
}

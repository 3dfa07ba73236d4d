// Package ai provides resume content generation backed by an LLM, with
// deterministic fallback content when the model is unavailable. From the
// caller's point of view the generation methods always succeed; monitoring
// has to watch the fallback rate in the logs, not user-facing errors.
package ai

import (
	"context"
	"strings"
)

// SummaryRequest carries the context for a professional summary.
type SummaryRequest struct {
	JobTitle        string
	ExperienceLevel string
	Skills          []string
	Industry        string
}

// ExperienceRequest carries the context for experience bullet points.
type ExperienceRequest struct {
	JobTitle         string
	Company          string
	Duration         string
	Responsibilities []string
	Achievements     []string
}

// SkillsRequest carries the context for a skills list.
type SkillsRequest struct {
	JobTitle        string
	Industry        string
	ExperienceLevel string
}

// ImproveRequest carries existing content to rewrite.
type ImproveRequest struct {
	Content     string
	ContentType string // "summary", "experience" or "general"
	Context     string
}

// Generator produces resume section content. GenerateSummary,
// GenerateExperienceBullets and GenerateSkills never return an empty result
// and never propagate upstream failures; they degrade to deterministic
// fallback content instead. Improve has no fallback and may fail.
type Generator interface {
	IsConfigured() bool
	GenerateSummary(ctx context.Context, req SummaryRequest) string
	GenerateExperienceBullets(ctx context.Context, req ExperienceRequest) string
	GenerateSkills(ctx context.Context, req SkillsRequest) []string
	Improve(ctx context.Context, req ImproveRequest) (string, error)
}

// minSkillCount and maxSkillCount bound a generated skills list. A sparse
// model reply is topped up from the fallback table rather than served short.
const (
	minSkillCount = 8
	maxSkillCount = 20
)

// parseSkills splits an LLM skills response on commas and newlines, trims
// each token, drops empties, de-duplicates case-insensitively and caps the
// list at maxSkillCount entries.
func parseSkills(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	seen := make(map[string]bool)
	var skills []string
	for _, f := range fields {
		skill := strings.Trim(strings.TrimSpace(f), "-•* ")
		if skill == "" {
			continue
		}
		key := strings.ToLower(skill)
		if seen[key] {
			continue
		}
		seen[key] = true
		skills = append(skills, skill)
		if len(skills) == maxSkillCount {
			break
		}
	}
	return skills
}

// topUpSkills pads a short skills list with fallback entries for the job
// title, skipping duplicates case-insensitively.
func topUpSkills(skills []string, jobTitle string) []string {
	if len(skills) >= minSkillCount {
		return skills
	}
	seen := make(map[string]bool, len(skills))
	for _, s := range skills {
		seen[strings.ToLower(s)] = true
	}
	for _, s := range FallbackSkills(jobTitle) {
		if seen[strings.ToLower(s)] {
			continue
		}
		skills = append(skills, s)
		if len(skills) == maxSkillCount {
			break
		}
	}
	return skills
}

package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-1.5-flash"

// Gemini implements Generator against the Google Gemini API. Constructed
// without an API key it is a pure fallback generator: IsConfigured reports
// false and every generation method serves canned content.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini-backed generator. An empty apiKey is not an
// error; it yields an unconfigured generator that only serves fallbacks.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if model == "" {
		model = DefaultModel
	}
	if apiKey == "" {
		return &Gemini{model: model}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Close releases the underlying client, if any.
func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// IsConfigured reports whether an API client is available.
func (g *Gemini) IsConfigured() bool {
	return g.client != nil
}

// generate runs one prompt against the model and extracts the text parts.
func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.7)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.TrimSpace(strings.Join(parts, "")), nil
}

// GenerateSummary produces a professional summary, falling back to canned
// content on any failure.
func (g *Gemini) GenerateSummary(ctx context.Context, req SummaryRequest) string {
	if !g.IsConfigured() {
		log.Printf("[ai] generator not configured, serving fallback summary")
		return FallbackSummary(req.JobTitle)
	}

	var sb strings.Builder
	if req.ExperienceLevel != "" {
		fmt.Fprintf(&sb, "Experience level: %s\n", req.ExperienceLevel)
	}
	if len(req.Skills) > 0 {
		fmt.Fprintf(&sb, "Key skills: %s\n", strings.Join(req.Skills, ", "))
	}
	if req.Industry != "" {
		fmt.Fprintf(&sb, "Industry: %s\n", req.Industry)
	}

	p := formatPrompt(mustPrompt("summary"), map[string]string{
		"JobTitle": req.JobTitle,
		"Context":  sb.String(),
	})
	text, err := g.generate(ctx, p)
	if err != nil || text == "" {
		log.Printf("[ai] summary generation failed, serving fallback: %v", err)
		return FallbackSummary(req.JobTitle)
	}
	return text
}

// GenerateExperienceBullets produces bullet-formatted experience copy,
// falling back to canned content on any failure.
func (g *Gemini) GenerateExperienceBullets(ctx context.Context, req ExperienceRequest) string {
	if !g.IsConfigured() {
		log.Printf("[ai] generator not configured, serving fallback experience bullets")
		return FallbackExperienceBullets()
	}

	var sb strings.Builder
	if req.Company != "" {
		fmt.Fprintf(&sb, "Company: %s\n", req.Company)
	}
	if req.Duration != "" {
		fmt.Fprintf(&sb, "Duration: %s\n", req.Duration)
	}
	if len(req.Responsibilities) > 0 {
		fmt.Fprintf(&sb, "Key responsibilities: %s\n", strings.Join(req.Responsibilities, ", "))
	}
	if len(req.Achievements) > 0 {
		fmt.Fprintf(&sb, "Achievements: %s\n", strings.Join(req.Achievements, ", "))
	}

	p := formatPrompt(mustPrompt("experience"), map[string]string{
		"JobTitle": req.JobTitle,
		"Context":  sb.String(),
	})
	text, err := g.generate(ctx, p)
	if err != nil || text == "" {
		log.Printf("[ai] experience generation failed, serving fallback: %v", err)
		return FallbackExperienceBullets()
	}
	return text
}

// GenerateSkills produces a de-duplicated skill list, falling back to the
// canned list on any failure, including an unparseable response.
func (g *Gemini) GenerateSkills(ctx context.Context, req SkillsRequest) []string {
	if !g.IsConfigured() {
		log.Printf("[ai] generator not configured, serving fallback skills")
		return FallbackSkills(req.JobTitle)
	}

	var sb strings.Builder
	if req.Industry != "" {
		fmt.Fprintf(&sb, "Industry: %s\n", req.Industry)
	}
	if req.ExperienceLevel != "" {
		fmt.Fprintf(&sb, "Experience level: %s\n", req.ExperienceLevel)
	}

	p := formatPrompt(mustPrompt("skills"), map[string]string{
		"JobTitle": req.JobTitle,
		"Context":  sb.String(),
	})
	text, err := g.generate(ctx, p)
	if err != nil {
		log.Printf("[ai] skills generation failed, serving fallback: %v", err)
		return FallbackSkills(req.JobTitle)
	}
	skills := parseSkills(text)
	if len(skills) == 0 {
		log.Printf("[ai] skills response unparseable, serving fallback")
		return FallbackSkills(req.JobTitle)
	}
	if len(skills) < minSkillCount {
		log.Printf("[ai] skills response too short (%d), topping up from fallback", len(skills))
		skills = topUpSkills(skills, req.JobTitle)
	}
	return skills
}

// Improve rewrites existing content. There is no fallback: callers keep
// their original content when this fails.
func (g *Gemini) Improve(ctx context.Context, req ImproveRequest) (string, error) {
	if !g.IsConfigured() {
		return "", fmt.Errorf("generator is not configured")
	}

	key := "improve_general"
	switch req.ContentType {
	case "summary":
		key = "improve_summary"
	case "experience":
		key = "improve_experience"
	}

	contextLine := ""
	if req.Context != "" {
		contextLine = "Context: " + req.Context + "\n"
	}
	p := formatPrompt(mustPrompt(key), map[string]string{
		"Content": req.Content,
		"Context": contextLine,
	})

	text, err := g.generate(ctx, p)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

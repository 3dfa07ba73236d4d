package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/ai"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/render"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
)

// stubExporter avoids spawning Chrome in tests.
type stubExporter struct{}

func (stubExporter) ExportPDF(_ context.Context, _ *resume.Document, _ render.PageOptions) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

// newTestServer wires a server against the in-memory store with the
// fallback-only generator and a stub exporter.
func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()

	generator, err := ai.NewGemini(context.Background(), "", "")
	require.NoError(t, err)

	s := &Server{
		cfg:         &config.ServerConfig{AllowedOrigin: "*"},
		gateway:     store.NewMemory(),
		generator:   generator,
		exporter:    stubExporter{},
		rateLimiter: ratelimit.NewLimiter(&ratelimit.Config{Enabled: false}),
	}

	s.userService = NewUserService(s.gateway, &config.PasswordConfig{BcryptCost: 10})
	s.jwtService = NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	return s, s.withCORS(s.routes())
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		payload = data
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, handler http.Handler, email string) string {
	t.Helper()
	w := doJSON(t, handler, http.MethodPost, "/auth/register", "", types.CreateUserRequest{
		Name:     "Test User",
		Email:    email,
		Password: "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func createResume(t *testing.T, handler http.Handler, token, title string) *resume.Document {
	t.Helper()
	w := doJSON(t, handler, http.MethodPost, "/resumes", token, types.CreateResumeRequest{Title: title})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var doc resume.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	return &doc
}

func TestHealth(t *testing.T) {
	_, handler := newTestServer(t)

	w := doJSON(t, handler, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRegisterLoginMe(t *testing.T) {
	_, handler := newTestServer(t)

	token := registerUser(t, handler, "ada@example.com")

	// Duplicate email conflicts.
	w := doJSON(t, handler, http.MethodPost, "/auth/register", "", types.CreateUserRequest{
		Name: "Dup", Email: "ada@example.com", Password: "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Wrong password and unknown account produce the same 401 body.
	w = doJSON(t, handler, http.MethodPost, "/auth/login", "", types.LoginRequest{
		Email: "ada@example.com", Password: "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	wrongPassword := w.Body.String()

	w = doJSON(t, handler, http.MethodPost, "/auth/login", "", types.LoginRequest{
		Email: "nobody@example.com", Password: "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, wrongPassword, w.Body.String())

	w = doJSON(t, handler, http.MethodPost, "/auth/login", "", types.LoginRequest{
		Email: "ada@example.com", Password: "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, handler, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me types.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "ada@example.com", me.Email)
}

func TestRegisterValidation(t *testing.T) {
	_, handler := newTestServer(t)

	w := doJSON(t, handler, http.MethodPost, "/auth/register", "", types.CreateUserRequest{
		Name: "Short", Email: "short@example.com", Password: "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResumeCRUD(t *testing.T) {
	_, handler := newTestServer(t)
	token := registerUser(t, handler, "crud@example.com")

	created := createResume(t, handler, token, "My Resume")
	assert.Len(t, created.Sections, 4)
	assert.Equal(t, resume.VisibilityPrivate, created.Visibility)

	w := doJSON(t, handler, http.MethodGet, "/resumes/"+created.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	raw := make([]json.RawMessage, len(created.Sections))
	for i, sec := range created.Sections {
		data, err := json.Marshal(sec)
		require.NoError(t, err)
		raw[i] = data
	}
	w = doJSON(t, handler, http.MethodPut, "/resumes/"+created.ID.String(), token, types.UpdateResumeRequest{
		Title:    "Renamed Resume",
		Sections: raw,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated resume.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Renamed Resume", updated.Title)
	assert.Equal(t, created.Version+1, updated.Version)

	w = doJSON(t, handler, http.MethodGet, "/resumes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Resumes []resume.Document `json:"resumes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Resumes, 1)

	w = doJSON(t, handler, http.MethodDelete, "/resumes/"+created.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, handler, http.MethodGet, "/resumes/"+created.ID.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResumeRequiresAuth(t *testing.T) {
	_, handler := newTestServer(t)

	w := doJSON(t, handler, http.MethodGet, "/resumes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, handler, http.MethodGet, "/resumes", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestResumeOwnerIsolation(t *testing.T) {
	_, handler := newTestServer(t)
	aliceToken := registerUser(t, handler, "alice@example.com")
	malloryToken := registerUser(t, handler, "mallory@example.com")

	created := createResume(t, handler, aliceToken, "Alice Resume")

	// Another user's access is indistinguishable from a missing resume.
	w := doJSON(t, handler, http.MethodGet, "/resumes/"+created.ID.String(), malloryToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, handler, http.MethodDelete, "/resumes/"+created.ID.String(), malloryToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, handler, http.MethodPost, "/resumes/"+created.ID.String()+"/share", malloryToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The owner still sees it.
	w = doJSON(t, handler, http.MethodGet, "/resumes/"+created.ID.String(), aliceToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateResumeFromTemplate(t *testing.T) {
	_, handler := newTestServer(t)
	token := registerUser(t, handler, "template@example.com")

	w := doJSON(t, handler, http.MethodPost, "/resumes", token, types.CreateResumeRequest{
		Title:    "Classic Resume",
		Template: "classic",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var doc resume.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "classic", doc.Styling.Template)
	assert.NotEmpty(t, doc.Sections)

	w = doJSON(t, handler, http.MethodPost, "/resumes", token, types.CreateResumeRequest{
		Title:    "Nope",
		Template: "brutalist",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShareLifecycle(t *testing.T) {
	_, handler := newTestServer(t)
	token := registerUser(t, handler, "share@example.com")
	created := createResume(t, handler, token, "Shared Resume")

	w := doJSON(t, handler, http.MethodPost, "/resumes/"+created.ID.String()+"/share", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var shared struct {
		ShareToken string `json:"share_token"`
		ShareURL   string `json:"share_url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shared))
	require.Len(t, shared.ShareToken, 12)
	assert.Equal(t, "/public/"+shared.ShareToken, shared.ShareURL)

	// Public view needs no auth, strips the owner, and counts the view.
	w = doJSON(t, handler, http.MethodGet, "/public/"+shared.ShareToken, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pub map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pub))
	assert.NotContains(t, pub, "ownerId")
	assert.NotContains(t, pub, "shareToken")

	// The second view sees the first one counted.
	w = doJSON(t, handler, http.MethodGet, "/public/"+shared.ShareToken, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pub))
	assert.Equal(t, float64(1), pub["viewCount"])

	// Unshare kills the token.
	w = doJSON(t, handler, http.MethodPost, "/resumes/"+created.ID.String()+"/unshare", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, handler, http.MethodGet, "/public/"+shared.ShareToken, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Re-sharing mints a different token.
	w = doJSON(t, handler, http.MethodPost, "/resumes/"+created.ID.String()+"/share", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reshared struct {
		ShareToken string `json:"share_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reshared))
	assert.NotEqual(t, shared.ShareToken, reshared.ShareToken)
}

func TestPublicUnknownToken(t *testing.T) {
	_, handler := newTestServer(t)

	w := doJSON(t, handler, http.MethodGet, "/public/abcDEF123456", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Malformed tokens get the same 404, not a 400.
	w = doJSON(t, handler, http.MethodGet, "/public/short", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadAndExport(t *testing.T) {
	_, handler := newTestServer(t)
	token := registerUser(t, handler, "export@example.com")
	created := createResume(t, handler, token, "Export Me")

	w := doJSON(t, handler, http.MethodPost, "/resumes/"+created.ID.String()+"/download", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Export streams a PDF and also counts as a download.
	w = doJSON(t, handler, http.MethodGet, "/resumes/"+created.ID.String()+"/export", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = doJSON(t, handler, http.MethodGet, "/resumes/"+created.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var doc resume.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, 2, doc.DownloadCount)
}

func TestDashboard(t *testing.T) {
	_, handler := newTestServer(t)
	token := registerUser(t, handler, "dash@example.com")

	// A fresh account has an empty dashboard.
	w := doJSON(t, handler, http.MethodGet, "/users/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var empty struct {
		Statistics       dashboardStatistics  `json:"statistics"`
		RecentResumes    []dashboardResume    `json:"recentResumes"`
		MostViewedResume *dashboardMostViewed `json:"mostViewedResume"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &empty))
	assert.Zero(t, empty.Statistics.TotalResumes)
	assert.Empty(t, empty.RecentResumes)
	assert.Nil(t, empty.MostViewedResume)

	first := createResume(t, handler, token, "First Resume")
	second := createResume(t, handler, token, "Second Resume")

	// Publish the first and view it twice.
	w = doJSON(t, handler, http.MethodPost, "/resumes/"+first.ID.String()+"/share", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var shared struct {
		ShareToken string `json:"share_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shared))
	for i := 0; i < 2; i++ {
		w = doJSON(t, handler, http.MethodGet, "/public/"+shared.ShareToken, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	// Download the second once.
	w = doJSON(t, handler, http.MethodPost, "/resumes/"+second.ID.String()+"/download", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, handler, http.MethodGet, "/users/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dash struct {
		Statistics       dashboardStatistics  `json:"statistics"`
		RecentResumes    []dashboardResume    `json:"recentResumes"`
		MostViewedResume *dashboardMostViewed `json:"mostViewedResume"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))
	assert.Equal(t, 2, dash.Statistics.TotalResumes)
	assert.Equal(t, 2, dash.Statistics.TotalViews)
	assert.Equal(t, 1, dash.Statistics.TotalDownloads)
	assert.Equal(t, 1, dash.Statistics.PublicResumes)
	assert.Equal(t, 2, dash.Statistics.RecentActivity)
	assert.Len(t, dash.RecentResumes, 2)
	require.NotNil(t, dash.MostViewedResume)
	assert.Equal(t, first.ID.String(), dash.MostViewedResume.ID)
	assert.Equal(t, 2, dash.MostViewedResume.Views)

	// The dashboard is owner-scoped.
	w = doJSON(t, handler, http.MethodGet, "/users/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTemplateEndpoints(t *testing.T) {
	_, handler := newTestServer(t)

	w := doJSON(t, handler, http.MethodGet, "/templates", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Templates []resume.Template `json:"templates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Templates, 4)

	w = doJSON(t, handler, http.MethodGet, "/templates/modern", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, handler, http.MethodGet, "/templates/brutalist", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAIGeneration(t *testing.T) {
	_, handler := newTestServer(t)
	token := registerUser(t, handler, "ai@example.com")

	// Without an API key the generator serves deterministic fallbacks, so
	// the generate endpoints still answer 200.
	w := doJSON(t, handler, http.MethodPost, "/ai/generate/summary", token, types.GenerateSummaryRequest{
		JobTitle: "Data Scientist",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var summary struct {
		Summary string `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Contains(t, summary.Summary, "Data Scientist")

	w = doJSON(t, handler, http.MethodPost, "/ai/generate/skills", token, types.GenerateSkillsRequest{
		JobTitle: "Frontend Developer",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var skills struct {
		Skills []string `json:"skills"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &skills))
	assert.Contains(t, skills.Skills, "React")

	w = doJSON(t, handler, http.MethodPost, "/ai/generate/experience", token, types.GenerateExperienceRequest{
		JobTitle: "Engineer",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Missing job title fails validation.
	w = doJSON(t, handler, http.MethodPost, "/ai/generate/summary", token, types.GenerateSummaryRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Improve has no fallback: an unconfigured backend is a 502.
	w = doJSON(t, handler, http.MethodPost, "/ai/improve", token, types.ImproveContentRequest{
		Content: "make this better",
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", &store.ErrNotFound{}, http.StatusNotFound},
		{"user not found", &store.ErrUserNotFound{}, http.StatusNotFound},
		{"section not found", &resume.ErrSectionNotFound{SectionID: "x"}, http.StatusNotFound},
		{"template not found", &resume.ErrTemplateNotFound{Name: "x"}, http.StatusNotFound},
		{"validation", &resume.ErrValidation{Field: "title"}, http.StatusBadRequest},
		{"invalid content", &resume.ErrInvalidContent{SectionID: "x"}, http.StatusBadRequest},
		{"email taken", &store.ErrEmailTaken{Email: "x"}, http.StatusConflict},
		{"conflict", &store.ErrConflict{Reason: "x"}, http.StatusConflict},
		{"credentials", &ErrInvalidCredentials{}, http.StatusUnauthorized},
		{"export", &render.ErrExport{Err: fmt.Errorf("chrome died")}, http.StatusBadGateway},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	_, handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/resumes", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

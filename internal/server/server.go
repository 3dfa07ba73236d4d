// Package server provides the HTTP REST API for the resume builder.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/resume-builder/internal/ai"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/render"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/store"
)

// Backend bundles the persistence interfaces a server needs. Both the
// Postgres store and the in-memory store satisfy it.
type Backend interface {
	store.Gateway
	store.UserStore
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	cfg         *config.ServerConfig
	gateway     Backend
	generator   ai.Generator
	exporter    render.Exporter
	closers     []func()
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
}

// New creates a new server instance. With no DATABASE_URL the in-memory
// store backs the API; with no GEMINI_API_KEY the generator serves
// deterministic fallback content.
func New(cfg *config.ServerConfig) (*Server, error) {
	s := &Server{cfg: cfg}

	if cfg.DatabaseURL != "" {
		pg, err := store.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		s.gateway = pg
		s.closers = append(s.closers, pg.Close)
	} else {
		log.Println("DATABASE_URL not set, using in-memory store")
		s.gateway = store.NewMemory()
	}

	gemini, err := ai.NewGemini(context.Background(), cfg.GeminiAPIKey, ai.DefaultModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}
	s.generator = gemini
	s.closers = append(s.closers, func() { _ = gemini.Close() })

	s.exporter = render.NewChromePDF(cfg.ChromePath)

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(s.gateway, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // PDF export holds the connection
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the route table. Authenticated routes are wrapped with the
// JWT middleware; everything else is public.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	authed := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())

	// Public endpoints
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.HandleFunc("GET /public/{token}", s.handlePublicResume)
	mux.HandleFunc("GET /templates", s.handleListTemplates)
	mux.HandleFunc("GET /templates/{name}", s.handleGetTemplate)

	// Account
	mux.Handle("GET /auth/me", authed(http.HandlerFunc(s.authHandler.Me)))
	mux.Handle("GET /users/dashboard", authed(http.HandlerFunc(s.handleDashboard)))

	// Resume CRUD
	mux.Handle("POST /resumes", authed(http.HandlerFunc(s.handleCreateResume)))
	mux.Handle("GET /resumes", authed(http.HandlerFunc(s.handleListResumes)))
	mux.Handle("GET /resumes/{id}", authed(http.HandlerFunc(s.handleGetResume)))
	mux.Handle("PUT /resumes/{id}", authed(http.HandlerFunc(s.handleUpdateResume)))
	mux.Handle("DELETE /resumes/{id}", authed(http.HandlerFunc(s.handleDeleteResume)))

	// Sharing and export
	mux.Handle("POST /resumes/{id}/share", authed(http.HandlerFunc(s.handleShareResume)))
	mux.Handle("POST /resumes/{id}/unshare", authed(http.HandlerFunc(s.handleUnshareResume)))
	mux.Handle("POST /resumes/{id}/download", authed(http.HandlerFunc(s.handleDownloadResume)))
	mux.Handle("GET /resumes/{id}/export", authed(http.HandlerFunc(s.handleExportResume)))

	// AI content
	mux.Handle("POST /ai/generate/summary", authed(http.HandlerFunc(s.handleGenerateSummary)))
	mux.Handle("POST /ai/generate/experience", authed(http.HandlerFunc(s.handleGenerateExperience)))
	mux.Handle("POST /ai/generate/skills", authed(http.HandlerFunc(s.handleGenerateSkills)))
	mux.Handle("POST /ai/improve", authed(http.HandlerFunc(s.handleImproveContent)))

	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	for _, closeFn := range s.closers {
		closeFn()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.AllowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is only safe
// behind a trusted proxy.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// Package config provides configuration loading and validation for the server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ServerConfig holds the HTTP server and backing-service configuration.
type ServerConfig struct {
	Port            int
	DatabaseURL     string
	GeminiAPIKey    string
	ChromePath      string
	AllowedOrigin   string
	ShutdownTimeout time.Duration
}

// NewServerConfig creates the server configuration from environment variables.
// It reads PORT (default: 8080), DATABASE_URL (optional; the in-memory store
// is used when unset), GEMINI_API_KEY (optional; deterministic fallback
// content is used when unset), CHROME_PATH and CORS_ORIGIN.
func NewServerConfig() (*ServerConfig, error) {
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080" // default
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %v", err)
	}

	origin := os.Getenv("CORS_ORIGIN")
	if origin == "" {
		origin = "*"
	}

	config := &ServerConfig{
		Port:            port,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		ChromePath:      os.Getenv("CHROME_PATH"),
		AllowedOrigin:   origin,
		ShutdownTimeout: 30 * time.Second,
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration. Callers that override fields after
// NewServerConfig must call it again.
func (c *ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

package ratelimit

import (
	"strings"
)

// MatchEndpoint resolves a request path and method to an endpoint
// configuration, or nil when only the global default applies. Exact matches
// win; config paths ending in "/" act as prefixes, so "/resumes/" covers
// "/resumes/{id}/export". The health check is never metered.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}

	for i := range configs {
		config := &configs[i]
		if config.Path == path && config.Method == method {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	return nil
}

package ratelimit

import (
	"strings"
)

// MatchEndpoint resolves a request path and method to its endpoint config,
// or nil when only the global default applies. Exact path matches win over
// prefix entries; a config path ending in "/" matches as a prefix, which is
// how the user-scoped routes ("/users/...") share one tier.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// Health checks are never limited.
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
		if config.Method != method || !strings.HasSuffix(config.Path, "/") {
			continue
		}
		if strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	return nil
}

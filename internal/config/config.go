// Package config provides environment-based configuration for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// App holds service-level settings read from the environment. Database and
// model backends are optional: when unset the service runs in demo mode with
// in-memory reads and a fixture analysis provider.
type App struct {
	Port        int
	DatabaseURL string

	GeminiAPIKey string
	GeminiModel  string
}

// NewAppConfig reads service settings from the environment.
// PORT defaults to 8080; DATABASE_URL and GEMINI_API_KEY may be empty.
func NewAppConfig() (*App, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %v", err)
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("PORT out of range: %d", port)
	}

	return &App{
		Port:         port,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", ""),
	}, nil
}

// DatabaseConfigured reports whether a persistence backend is available.
func (a *App) DatabaseConfigured() bool {
	return a.DatabaseURL != ""
}

// ModelConfigured reports whether a real analysis backend is available.
func (a *App) ModelConfigured() bool {
	return a.GeminiAPIKey != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

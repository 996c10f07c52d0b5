// Package server provides the HTTP REST API for the career compass backend.
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

	"github.com/jonathan/career-compass/internal/analysis"
	"github.com/jonathan/career-compass/internal/config"
	"github.com/jonathan/career-compass/internal/market"
	"github.com/jonathan/career-compass/internal/server/middleware"
	"github.com/jonathan/career-compass/internal/server/ratelimit"
	"github.com/jonathan/career-compass/internal/store"
	"github.com/jonathan/career-compass/internal/upload"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       *store.Store
	provider    analysis.Provider
	uploads     *Uploads
	catalog     *market.Catalog
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	authEnabled bool

	// baseCtx parents every upload progression; canceled on shutdown.
	baseCtx    context.Context
	baseCancel context.CancelFunc

	streamInterval time.Duration
}

// Config holds server configuration
type Config struct {
	Port         int
	DatabaseURL  string
	GeminiAPIKey string
	GeminiModel  string

	// UploadTiming overrides the reference progression timings (tests).
	UploadTiming upload.Config
	// StreamInterval is the SSE refresh period; defaults to 500ms.
	StreamInterval time.Duration
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		baseCtx:        ctx,
		baseCancel:     cancel,
		streamInterval: cfg.StreamInterval,
	}
	if s.streamInterval <= 0 {
		s.streamInterval = 500 * time.Millisecond
	}

	// Persistence: demo mode without DATABASE_URL
	if cfg.DatabaseURL == "" {
		log.Printf("[server] DATABASE_URL not set, running in demo mode (no persistence)")
		s.store = store.NewDisabled()
	} else {
		st, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := st.EnsureSchema(ctx); err != nil {
			cancel()
			return nil, fmt.Errorf("failed to ensure schema: %w", err)
		}
		s.store = st
	}

	// Analysis backend: fixture provider without an API key
	if cfg.GeminiAPIKey == "" {
		log.Printf("[server] GEMINI_API_KEY not set, using fixture analysis provider")
		s.provider = analysis.NewFixtureProvider()
	} else {
		provider, err := analysis.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to create analysis provider: %w", err)
		}
		s.provider = provider
	}

	s.uploads = NewUploads(cfg.UploadTiming, analysis.NewService(s.provider, s.store))
	s.catalog = market.NewCatalog()
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(s.store, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		if s.store.Configured() {
			cancel()
			return nil, fmt.Errorf("failed to create JWT config: %w", err)
		}
		// Demo mode tolerates a missing secret: routes run unauthenticated.
		log.Printf("[server] JWT_SECRET not set, demo mode runs without authentication")
	} else {
		s.jwtService = NewJWTService(jwtConfig)
		s.authEnabled = true
		s.authHandler = NewAuthHandler(s.userService, s.jwtService)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	if s.authEnabled {
		mux.HandleFunc("POST /auth/register", s.authHandler.Register)
		mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	}

	// User-scoped routes
	mux.Handle("GET /users/{id}", s.protected(s.handleGetUser))
	mux.Handle("PUT /users/{id}", s.protected(s.handleUpdateUser))
	mux.Handle("POST /users/{id}/resume", s.protected(s.handleUploadResume))
	mux.Handle("GET /users/{id}/uploads", s.protected(s.handleListUploads))
	mux.Handle("GET /users/{id}/uploads/stream", s.protected(s.handleUploadStream))
	mux.Handle("DELETE /users/{id}/uploads/{upload_id}", s.protected(s.handleDismissUpload))
	mux.Handle("GET /users/{id}/analysis", s.protected(s.handleGetLatestAnalysis))
	mux.Handle("GET /users/{id}/analyses", s.protected(s.handleListAnalyses))
	mux.Handle("GET /users/{id}/enrollments", s.protected(s.handleListEnrollments))
	mux.Handle("POST /users/{id}/enrollments", s.protected(s.handleTrackEnrollment))
	mux.Handle("PUT /users/{id}/enrollments/{course_id}/progress", s.protected(s.handleUpdateEnrollmentProgress))
	mux.Handle("GET /users/{id}/courses", s.protected(s.handleMarketCourses))

	// Market data is not user-scoped
	mux.HandleFunc("GET /market/trends", s.handleMarketTrends)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for SSE progress streams
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// protected wraps a handler with JWT auth when authentication is enabled.
func (s *Server) protected(h http.HandlerFunc) http.Handler {
	if !s.authEnabled {
		return h
	}
	return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(h)
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop upload progressions, rate limiter cleanup, and backends
	s.baseCancel()
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if err := s.provider.Close(); err != nil {
		log.Printf("Error closing analysis provider: %v", err)
	}
	s.store.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
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
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"persistent": s.store.Configured(),
	})
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
// For MVP, this uses the IP address from RemoteAddr.
// In the future, this could use X-Forwarded-For header (only from trusted proxies).
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

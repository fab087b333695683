package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-studio/internal/backend"
	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/contract"
	"github.com/jonathan/resume-studio/internal/export"
	"github.com/jonathan/resume-studio/internal/server/middleware"
	"github.com/jonathan/resume-studio/internal/server/ratelimit"
	"github.com/jonathan/resume-studio/internal/session"
	"github.com/prometheus/client_golang/prometheus"
)

// maxJSONBody bounds every JSON request body.
const maxJSONBody = 1 << 20

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	handler         http.Handler
	backend         backend.Contract
	sessions        *session.Store
	exporter        export.Exporter
	rateLimiter     *ratelimit.Limiter
	jwtService      *JWTService
	sessionTTL      time.Duration
	defaultTemplate string
	metrics         *metrics
	breaker         breakerReporter
}

// breakerReporter is implemented by backends behind a circuit breaker.
type breakerReporter interface {
	BreakerState() string
}

// Config holds server configuration
type Config struct {
	Port            int
	Backend         backend.Contract
	SchemaVersion   contract.SchemaVersion
	SessionTTL      time.Duration
	JWT             *config.JWTConfig
	Exporter        export.Exporter   // nil disables PDF export
	RateLimit       *ratelimit.Config // nil loads RATE_LIMIT_* from the environment
	DefaultTemplate string
	Registry        *prometheus.Registry // nil creates a private registry
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Backend == nil {
		return nil, errors.New("backend is required")
	}
	if cfg.JWT == nil {
		return nil, errors.New("session token config is required")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = session.DefaultTTL
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = ratelimit.LoadConfig()
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}

	s := &Server{
		exporter:        cfg.Exporter,
		jwtService:      NewJWTService(cfg.JWT),
		sessionTTL:      cfg.SessionTTL,
		defaultTemplate: cfg.DefaultTemplate,
		rateLimiter:     ratelimit.NewLimiter(cfg.RateLimit),
	}
	if b, ok := cfg.Backend.(breakerReporter); ok {
		s.breaker = b
	}

	s.metrics = newMetrics(cfg.Registry, func() float64 {
		return float64(s.sessions.Len())
	})
	s.backend = &instrumentedBackend{next: cfg.Backend, metrics: s.metrics}
	s.sessions = session.NewStore(s.backend, cfg.SchemaVersion, cfg.SessionTTL)
	s.sessions.StartCleanup(cfg.SessionTTL / 4)

	auth := middleware.RequireSession(s.jwtService.AsTokenValidator(), "id")
	withSession := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.handler())
	mux.HandleFunc("GET /templates", s.handleListTemplates)

	// Session lifecycle and editing
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.Handle("GET /sessions/{id}", withSession(s.handleGetSession))
	mux.Handle("DELETE /sessions/{id}", withSession(s.handleDeleteSession))
	mux.Handle("PUT /sessions/{id}/resume", withSession(s.handleSetResume))
	mux.Handle("PUT /sessions/{id}/job-description", withSession(s.handleSetJobDescription))
	mux.Handle("PUT /sessions/{id}/template", withSession(s.handleSetTemplate))
	mux.Handle("POST /sessions/{id}/photo", withSession(s.handleUploadPhoto))
	mux.Handle("DELETE /sessions/{id}/notice", withSession(s.handleDismissNotice))

	// Backend operations
	mux.Handle("POST /sessions/{id}/analyze", withSession(s.handleAnalyze))
	mux.Handle("POST /sessions/{id}/tailor", withSession(s.handleTailor))
	mux.Handle("POST /sessions/{id}/tailoring/apply", withSession(s.handleApplyTailoring))
	mux.Handle("DELETE /sessions/{id}/tailoring", withSession(s.handleDiscardTailoring))
	mux.Handle("POST /sessions/{id}/save", withSession(s.handleSave))
	mux.Handle("POST /sessions/{id}/load/{resume_id}", withSession(s.handleLoad))

	// Rendering
	mux.Handle("GET /sessions/{id}/preview", withSession(s.handlePreview))
	mux.Handle("GET /sessions/{id}/cover-letter", withSession(s.handleCoverLetter))
	mux.Handle("GET /sessions/{id}/export.pdf", withSession(s.handleExportPDF))

	// Saved resumes
	mux.HandleFunc("GET /resumes", s.handleListResumes)
	mux.HandleFunc("DELETE /resumes/{id}", s.handleDeleteResume)

	s.handler = s.withRateLimit(s.withMetrics(s.withLogging(s.withCORS(mux))))

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      180 * time.Second, // Tailoring and PDF export can be slow
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

// Handler returns the full middleware chain, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
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

	s.Close()
	log.Println("Server stopped")
	return nil
}

// Close stops the background cleanup goroutines.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	s.sessions.Stop()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

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
		// Extract client identifier (IP address)
		clientID := s.extractClientID(r)

		// Check rate limit
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		if !allowed {
			// Set rate limit headers
			s.setRateLimitHeaders(w, info)
			// Return 429 Too Many Requests
			s.rateLimitResponse(w, info)
			return
		}

		// Set rate limit headers for successful requests
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
	resp := map[string]string{"status": "ok"}
	if s.breaker != nil {
		resp["backend_breaker"] = s.breaker.BreakerState()
	}
	s.jsonResponse(w, http.StatusOK, resp)
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

// writeError maps err to a status code and writes it.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[server] %v", err)
	}
	s.errorResponse(w, status, err.Error())
}

// decodeJSON reads a bounded JSON body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// validationError converts validator output into an ErrValidation for the
// first failing field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		ve := verrs[0]
		return &ErrValidation{Field: ve.Field(), Message: ve.Tag()}
	}
	return &ErrValidation{Field: "body", Message: "invalid request"}
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	// Get IP from RemoteAddr (format: "IP:port")
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If parsing fails, use the whole RemoteAddr
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

	// Log rate limit hit
	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

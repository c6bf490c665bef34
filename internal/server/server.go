// Package server provides the HTTP REST API for resume-forge.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-forge/internal/artifacts"
	"github.com/jonathan/resume-forge/internal/extraction"
	"github.com/jonathan/resume-forge/internal/fetch"
	"github.com/jonathan/resume-forge/internal/llm"
	"github.com/jonathan/resume-forge/internal/server/ratelimit"
	"github.com/jonathan/resume-forge/internal/store"
)

// DefaultMaxUploadBytes caps uploaded documents
const DefaultMaxUploadBytes = 10 << 20

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	handler        http.Handler
	records        *store.Records
	kv             store.KV
	llm            llm.Client
	sink           artifacts.Sink
	extractor      *extraction.Extractor
	fetchOptions   *fetch.Options
	rateLimiter    *ratelimit.Limiter
	validate       *validator.Validate
	maxUploadBytes int64
}

// Config holds server configuration
type Config struct {
	Port int
	// KV backs the record store and is closed on shutdown
	KV store.KV
	// LLM is optional; the AI routes answer 503 without it
	LLM llm.Client
	// Sink is optional; rendered documents are archived when set
	Sink           artifacts.Sink
	MaxUploadBytes int64
	RateLimit      *ratelimit.Config
	FetchOptions   *fetch.Options
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.KV == nil {
		return nil, errors.New("server requires a store")
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = ratelimit.LoadConfig()
	}

	s := &Server{
		kv:             cfg.KV,
		records:        store.NewRecords(cfg.KV),
		llm:            cfg.LLM,
		sink:           cfg.Sink,
		extractor:      extraction.NewExtractor(),
		fetchOptions:   cfg.FetchOptions,
		rateLimiter:    ratelimit.NewLimiter(cfg.RateLimit),
		validate:       newRequestValidator(),
		maxUploadBytes: cfg.MaxUploadBytes,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Document endpoints
	mux.HandleFunc("POST /extract/docx", s.handleExtractDocx)
	mux.HandleFunc("POST /extract-resume-text", s.handleExtractResumeText)
	mux.HandleFunc("POST /resume/fingerprint-template", s.handleFingerprintTemplate)
	mux.HandleFunc("POST /resume/render-docx", s.handleRenderDocx)

	// AI endpoints
	mux.HandleFunc("POST /fit-score", s.handleFitScore)
	mux.HandleFunc("POST /resume/generate", s.handleGenerateResume)

	// Profile endpoints
	mux.HandleFunc("GET /profile", s.handleGetProfile)
	mux.HandleFunc("POST /profile/entries", s.handleAddProfileEntry)
	mux.HandleFunc("DELETE /profile", s.handleResetProfile)

	// Job Postings endpoints
	mux.HandleFunc("GET /job-postings", s.handleListJobPostings)
	mux.HandleFunc("POST /job-postings", s.handleCreateJobPosting)
	mux.HandleFunc("GET /job-postings/{id}", s.handleGetJobPosting)

	// QA history and settings
	mux.HandleFunc("GET /qa-history", s.handleListQA)
	mux.HandleFunc("POST /qa-history", s.handleAddQA)
	mux.HandleFunc("GET /settings", s.handleGetSettings)
	mux.HandleFunc("PUT /settings", s.handlePutSettings)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second, // generation calls retry with per-attempt timeouts
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped request handler
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

// Close releases the rate limiter, model client and store
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.llm != nil {
		if err := s.llm.Close(); err != nil {
			log.Printf("[server] failed to close llm client: %v", err)
		}
	}
	if err := s.kv.Close(); err != nil {
		log.Printf("[server] failed to close store: %v", err)
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Budget-Overruns, X-Budget-Total-Exceeded, X-Artifact-Key")

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

		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
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

// failure maps err to its status code and writes it
func (s *Server) failure(w http.ResponseWriter, op string, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[server] %s failed: %v", op, err)
	}
	s.errorResponse(w, status, err.Error())
}

// decodeJSON reads a JSON body of at most limit bytes into v and validates it
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &RequestError{Status: http.StatusRequestEntityTooLarge, Message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)}
		}
		return &RequestError{Status: http.StatusBadRequest, Message: "invalid request body", Cause: err}
	}
	if err := s.validate.Struct(v); err != nil {
		return &RequestError{Status: http.StatusBadRequest, Message: validationMessage(err)}
	}
	return nil
}

// jsonBodyLimit allows for base64 expansion of a full-size upload
func (s *Server) jsonBodyLimit() int64 {
	return s.maxUploadBytes*4/3 + 1<<20
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; forwarded headers are not trusted.
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
		retryAfter := int(math.Ceil(info.RetryAfter.Seconds()))
		response["retry_after"] = retryAfter
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

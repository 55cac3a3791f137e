// Package server serves the cover letter form and its JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cover-letter/internal/config"
	"github.com/jonathan/cover-letter/internal/extraction"
	"github.com/jonathan/cover-letter/internal/form"
	"github.com/jonathan/cover-letter/internal/ingestion"
	"github.com/jonathan/cover-letter/internal/server/ratelimit"
	"github.com/jonathan/cover-letter/internal/types"
)

// DefaultMaxUploadBytes bounds a CV upload.
const DefaultMaxUploadBytes = 10 << 20

// Generator drafts a letter from a validated request.
type Generator interface {
	Generate(ctx context.Context, req types.GenerationRequest) (string, error)
}

// Extractor turns an uploaded CV into text.
type Extractor interface {
	Extract(ctx context.Context, filename string, data []byte) (string, error)
}

// JobFetcher returns the job description text found at a URL.
type JobFetcher func(ctx context.Context, url string) (string, error)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	store       *form.Store
	generator   Generator
	extractor   Extractor
	fetchJob    JobFetcher
	rateLimiter *ratelimit.Limiter
	maxUpload   int64
	now         func() time.Time
}

// Config holds server configuration
type Config struct {
	Port      int
	Generator Generator
	// Extractor defaults to the .pdf/.docx dispatcher.
	Extractor Extractor
	// FetchJob defaults to ingestion.FromURL.
	FetchJob   JobFetcher
	UseBrowser bool
	Verbose    bool
	RateLimit  config.RateLimit
	// Store defaults to a fresh form.
	Store          *form.Store
	MaxUploadBytes int64
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Generator == nil {
		return nil, errors.New("server: a generator is required")
	}

	s := &Server{
		store:     cfg.Store,
		generator: cfg.Generator,
		extractor: cfg.Extractor,
		fetchJob:  cfg.FetchJob,
		maxUpload: cfg.MaxUploadBytes,
		now:       time.Now,
	}
	if s.store == nil {
		s.store = form.NewStore()
	}
	if s.extractor == nil {
		s.extractor = extraction.New()
	}
	if s.fetchJob == nil {
		opts := ingestion.Options{UseBrowser: cfg.UseBrowser, Verbose: cfg.Verbose}
		s.fetchJob = func(ctx context.Context, url string) (string, error) {
			text, _, err := ingestion.FromURL(ctx, url, opts)
			return text, err
		}
	}
	if s.maxUpload <= 0 {
		s.maxUpload = DefaultMaxUploadBytes
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.FromSettings(cfg.RateLimit))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("PUT /api/fields", s.handleFields)
	mux.HandleFunc("POST /api/cv", s.handleUploadCV)
	mux.HandleFunc("POST /api/job-description", s.handleJobDescription)
	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("POST /api/generate/stream", s.handleGenerateStream)
	mux.HandleFunc("GET /api/export/{format}", s.handleExport)
	mux.HandleFunc("POST /api/download-menu/toggle", s.handleToggleDownloadMenu)
	mux.HandleFunc("POST /api/copy", s.handleCopy)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until an interrupt or a
// listener failure.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	log.Println("[server] shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.rateLimiter.Stop()
	log.Println("[server] stopped")
	return nil
}

// Close releases background resources without serving.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type contextKey int

const requestIDKey contextKey = iota

// requestID returns the ID assigned by withLogging.
func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// withLogging assigns a request ID and logs each request
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		log.Printf("[server] %s %s %s %s", id, r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
		log.Printf("[server] %s %s %s completed in %v", id, r.Method, r.URL.Path, time.Since(start))
	})
}

// extractClientID uses the IP address from RemoteAddr.
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
	response := map[string]any{
		"error":     "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] exceeded: limit=%d remaining=%d reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// Package server provides the HTTP REST API for interview preparation.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/interview-prep/internal/analysis"
	"github.com/jonathan/interview-prep/internal/config"
	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/fetch"
	"github.com/jonathan/interview-prep/internal/llm"
	"github.com/jonathan/interview-prep/internal/schemas"
	"github.com/jonathan/interview-prep/internal/server/middleware"
	"github.com/jonathan/interview-prep/internal/server/ratelimit"
	"github.com/jonathan/interview-prep/internal/storage"
)

const maxJSONBodyBytes = 1 << 20

// Repository is the relational store used by the handlers. *db.DB implements it.
type Repository interface {
	Ping(ctx context.Context) error

	CreateJobPosting(ctx context.Context, userID string, input *db.JobPostingCreateInput) (*db.JobPosting, error)
	ListJobPostings(ctx context.Context, userID string) ([]db.JobPostingSummary, error)
	GetJobPosting(ctx context.Context, userID string, id uuid.UUID) (*db.JobPosting, error)
	DeleteJobPosting(ctx context.Context, userID string, id uuid.UUID) (bool, error)

	CreateApplication(ctx context.Context, userID string, jobPostingID uuid.UUID) (*db.Application, error)
	GetApplication(ctx context.Context, userID string, id uuid.UUID) (*db.Application, error)
	UpdateApplicationStatus(ctx context.Context, userID string, id uuid.UUID, status string) error

	CreateDocument(ctx context.Context, input *db.DocumentCreateInput) (*db.Document, error)
	ListApplicationDocuments(ctx context.Context, userID string, applicationID uuid.UUID) ([]db.Document, error)
	GetApplicationDocument(ctx context.Context, userID string, applicationID, documentID uuid.UUID) (*db.Document, error)
	DeleteDocument(ctx context.Context, userID string, documentID uuid.UUID) error

	CreateAnalysisRun(ctx context.Context, userID string, applicationID uuid.UUID) (*db.AnalysisRun, error)
	CompleteAnalysisRun(ctx context.Context, runID uuid.UUID, result *db.AnalysisResult) error
	FailAnalysisRun(ctx context.Context, runID uuid.UUID, message string) error
	GetLatestAnalysisRun(ctx context.Context, userID string, applicationID uuid.UUID) (*db.AnalysisRun, error)
}

// JobTextFetcher turns a job posting URL into description text.
type JobTextFetcher interface {
	JobText(ctx context.Context, rawURL string) (string, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	repo        Repository
	blobs       storage.Store
	analysis    *analysis.Service
	jobs        JobTextFetcher
	auth        middleware.TokenValidator
	rateLimiter *ratelimit.Limiter
	now         func() time.Time
	closers     []func()
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	LLM         *llm.Config
	Storage     *storage.S3Config // nil disables document storage
	JWT         *config.JWTConfig
	RateLimit   *ratelimit.Config
	UseBrowser  bool
}

// Dependencies are the collaborators a Server is assembled from.
type Dependencies struct {
	Repo      Repository
	Blobs     storage.Store // nil answers document routes with 503
	Model     llm.Client
	Jobs      JobTextFetcher
	Auth      middleware.TokenValidator
	RateLimit *ratelimit.Config
}

// New connects to the configured backends and creates a server instance.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.JWT == nil {
		return nil, fmt.Errorf("JWT configuration is required")
	}
	if err := schemas.CompileAll(); err != nil {
		return nil, err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	model, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		var configErr *llm.ConfigurationError
		if !errors.As(err, &configErr) {
			database.Close()
			return nil, err
		}
		log.Printf("[llm] %v; analysis will use the mock generator", configErr)
		model = llm.Unconfigured(configErr)
	}

	var blobs storage.Store
	if cfg.Storage != nil {
		s3, err := storage.NewS3Store(*cfg.Storage)
		if err != nil {
			database.Close()
			_ = model.Close()
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		blobs = s3
	} else {
		log.Printf("[storage] S3_ENDPOINT not set; document routes are disabled")
	}

	s := NewWithDependencies(cfg.Port, Dependencies{
		Repo:      database,
		Blobs:     blobs,
		Model:     model,
		Jobs:      fetch.NewJobFetcher(cfg.UseBrowser),
		Auth:      NewJWTVerifier(cfg.JWT),
		RateLimit: cfg.RateLimit,
	})
	s.closers = append(s.closers, database.Close, func() { _ = model.Close() })
	return s, nil
}

// NewWithDependencies creates a server from already constructed collaborators.
func NewWithDependencies(port int, deps Dependencies) *Server {
	model := deps.Model
	if model == nil {
		model = llm.Unconfigured(nil)
	}

	s := &Server{
		repo:        deps.Repo,
		blobs:       deps.Blobs,
		analysis:    analysis.NewService(model),
		jobs:        deps.Jobs,
		auth:        deps.Auth,
		rateLimiter: ratelimit.NewLimiter(deps.RateLimit),
		now:         time.Now,
	}
	s.handler = s.withRateLimit(s.withLogging(s.withCORS(s.routes())))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second, // model calls are slow
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	authed := middleware.AuthMiddleware(s.auth)
	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, authed(h))
	}

	mux.HandleFunc("GET /health", s.handleHealth)

	// Analysis endpoints
	handle("POST /api/analysis/extract-requirements", s.handleExtractRequirements)
	handle("POST /api/analysis/evidence-stub", s.handleEvidenceStub)
	handle("POST /api/analysis/interview-qa", s.handleInterviewQA)
	handle("POST /api/analysis/reverse-questions", s.handleReverseQuestions)
	handle("POST /api/analysis/mock", s.handleMockAnalysis)
	handle("POST /api/analysis/stream", s.handleAnalysisStream)

	// Job postings
	handle("GET /api/job-postings", s.handleListJobPostings)
	handle("POST /api/job-postings", s.handleCreateJobPosting)
	handle("GET /api/job-postings/{id}", s.handleGetJobPosting)
	handle("DELETE /api/job-postings/{id}", s.handleDeleteJobPosting)
	handle("POST /api/job-postings/{id}/applications", s.handleCreateApplication)

	// Applications
	handle("GET /api/applications/{id}", s.handleGetApplication)
	handle("POST /api/applications/{id}/analysis", s.handleRunApplicationAnalysis)
	handle("GET /api/applications/{id}/analysis", s.handleGetApplicationAnalysis)

	// Documents
	handle("GET /api/applications/{id}/documents", s.handleListDocuments)
	handle("POST /api/applications/{id}/documents", s.handleUploadDocument)
	handle("GET /api/applications/{id}/documents/{document_id}/download", s.handleDocumentDownload)
	handle("DELETE /api/applications/{id}/documents/{document_id}", s.handleDeleteDocument)

	return mux
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	s.Close()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Println("Server stopped")
	return nil
}

// Close releases the rate limiter and backend connections.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	for _, c := range s.closers {
		c()
	}
	s.closers = nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients that exhausted the budget of the route's tier.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.Method, r.URL.Path)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps streaming responses working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[%s] %s %d in %v", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// handleHealth reports liveness and, when a store is attached, database reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.repo != nil {
		if err := s.repo.Ping(r.Context()); err != nil {
			log.Printf("[health] database ping failed: %v", err)
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
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

// decodeJSON reads a JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &analysis.ValidationError{Message: "Invalid request body: " + err.Error()}
	}
	return nil
}

// decodeOptionalJSON is decodeJSON for endpoints whose body may be omitted.
// A missing or empty body leaves v untouched.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return &analysis.ValidationError{Message: "Invalid request body: " + err.Error()}
	}
	return nil
}

// userID returns the authenticated user, or writes 401.
func (s *Server) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, err := middleware.UserID(r)
	if err != nil {
		s.writeError(w, err, "")
		return "", false
	}
	return userID, true
}

// pathUUID parses a UUID path value, or writes 400.
func (s *Server) pathUUID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		s.writeError(w, &analysis.ValidationError{Field: name, Message: "Invalid " + label + " ID"}, "")
		return uuid.Nil, false
	}
	return id, true
}

// clientID extracts the client identifier from RemoteAddr.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	retryAfter := int(info.RetryAfter.Round(time.Second).Seconds())
	if retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}

	log.Printf("[rate-limit] %s tier exhausted: limit=%d retry_after=%ds", info.Tier, info.Limit, retryAfter)

	s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
		"error":       "Rate limit exceeded. Please try again later.",
		"kind":        KindRateLimited,
		"retry_after": retryAfter,
	})
}

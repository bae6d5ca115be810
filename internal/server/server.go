// Package server provides the HTTP REST API for the ad-quality engine.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/jonathan/ad-quality/internal/compliance"
	"github.com/jonathan/ad-quality/internal/lexicon"
	"github.com/jonathan/ad-quality/internal/llm"
	"github.com/jonathan/ad-quality/internal/logging"
	"github.com/jonathan/ad-quality/internal/patterns"
	"github.com/jonathan/ad-quality/internal/pipeline"
	"github.com/jonathan/ad-quality/internal/rewriting"
	"github.com/jonathan/ad-quality/internal/rules"
	"github.com/jonathan/ad-quality/internal/server/ratelimit"
	"github.com/jonathan/ad-quality/internal/similarity"
	"github.com/jonathan/ad-quality/internal/strength"
)

const (
	maxBodyBytes     = 1 << 20
	requestIDHeader  = "X-Request-ID"
	shutdownTimeout  = 30 * time.Second
	defaultMaxBatch  = 50
	unmatchedPattern = "unmatched"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds server configuration
type Config struct {
	Port           int
	Lexicon        *lexicon.Lexicon
	Rules          rules.Provider // nil means inline rules only
	LLM            llm.Client     // nil disables model rewrites
	Threshold      float64
	MaxBatchSize   int
	RateLimit      *ratelimit.Config
	Registry       *prometheus.Registry
	Logger         *zap.Logger
	Health         Pinger
	AllowedOrigins []string
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	logger     *zap.Logger
	metrics    *Metrics
	limiter    *ratelimit.Limiter

	detector  *patterns.Detector
	scorer    *strength.Scorer
	checker   *compliance.Checker
	rewriter  *rewriting.Rewriter
	evaluator *pipeline.Evaluator
	rules     rules.Provider
	store     rules.Store
	health    Pinger

	threshold float64
	maxBatch  int
}

// New creates a new server instance
func New(cfg Config) *Server {
	logger := logging.OrNop(cfg.Logger)
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = similarity.DefaultThreshold
	}
	maxBatch := cfg.MaxBatchSize
	if maxBatch <= 0 {
		maxBatch = defaultMaxBatch
	}

	s := &Server{
		logger:    logger,
		metrics:   NewMetrics(cfg.Registry),
		limiter:   ratelimit.NewLimiter(cfg.RateLimit),
		detector:  patterns.NewDetector(cfg.Lexicon),
		scorer:    strength.NewScorerWithThreshold(cfg.Lexicon, threshold),
		checker:   compliance.NewChecker(cfg.Lexicon),
		rewriter:  rewriting.NewRewriter(cfg.LLM, cfg.Lexicon, logger),
		rules:     cfg.Rules,
		health:    cfg.Health,
		threshold: threshold,
		maxBatch:  maxBatch,
	}
	s.evaluator = pipeline.NewEvaluator(pipeline.Options{
		Lexicon:   cfg.Lexicon,
		Rules:     cfg.Rules,
		Threshold: threshold,
		Logger:    logger,
	})
	if store, ok := cfg.Rules.(rules.Store); ok {
		s.store = store
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /v1/patterns", s.handlePatterns)
	mux.HandleFunc("POST /v1/strength", s.handleStrength)
	mux.HandleFunc("POST /v1/compliance", s.handleCompliance)
	mux.HandleFunc("POST /v1/compliance/display", s.handleDisplayCompliance)
	mux.HandleFunc("POST /v1/similarity", s.handleSimilarity)
	mux.HandleFunc("POST /v1/alternatives", s.handleAlternatives)
	mux.HandleFunc("POST /v1/dki", s.handleDKI)
	mux.HandleFunc("POST /v1/preview", s.handlePreview)
	mux.HandleFunc("POST /v1/evaluate", s.handleEvaluate)

	mux.HandleFunc("GET /v1/entities", s.handleListEntities)
	mux.HandleFunc("GET /v1/entities/{entity}/rules", s.handleGetEntityRules)
	mux.HandleFunc("PUT /v1/entities/{entity}/rules", s.handlePutEntityRules)
	mux.HandleFunc("DELETE /v1/entities/{entity}/rules", s.handleDeleteEntityRules)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
	})

	s.handler = s.withRateLimit(s.withLogging(c.Handler(mux)))

	port := cfg.Port
	if port <= 0 {
		port = 8080
	}
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second, // model rewrites and large batches
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.limiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.limiter.Stop()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.limiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.metrics.observeRateLimited(r.URL.Path)
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += n
	return n, err
}

// withLogging adds request logging and metrics
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		route := r.Pattern
		if route == "" {
			route = unmatchedPattern
		}
		elapsed := time.Since(start)
		s.metrics.observeRequest(r.Method, route, rec.status, elapsed)
		s.logger.Info("request completed",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("duration", elapsed),
			zap.String("remote_addr", r.RemoteAddr),
		)
	})
}

// extractClientID extracts the client identifier from the request.
// It uses the IP address from RemoteAddr; forwarded headers are not trusted.
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
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		if seconds < 1 {
			seconds = 1
		}
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	s.logger.Warn("rate limit exceeded",
		zap.Int("limit", info.Limit),
		zap.Time("reset_at", info.ResetTime))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log().Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errResponse writes err with the status HTTPStatus assigns it.
func (s *Server) errResponse(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log().Error("request failed", zap.Error(err))
	}
	s.errorResponse(w, status, err.Error())
}

type validatable interface {
	Validate() error
}

// decodeRequest reads a JSON body into v and validates it. On failure it writes the
// error response and returns false.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, v validatable) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := v.Validate(); err != nil {
		s.errResponse(w, validationError(err))
		return false
	}
	return true
}

// log tolerates servers built as bare structs in tests.
func (s *Server) log() *zap.Logger {
	return logging.OrNop(s.logger)
}

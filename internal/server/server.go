// Package server provides the HTTP API for resume analysis, question improvement and payments.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/redline/internal/db"
	"github.com/jonathan/redline/internal/interview"
	"github.com/jonathan/redline/internal/payment"
	"github.com/jonathan/redline/internal/server/middleware"
	"github.com/jonathan/redline/internal/server/ratelimit"
	"github.com/jonathan/redline/internal/types"
)

// DefaultMaxUploadBytes caps multipart uploads when Config leaves it unset
const DefaultMaxUploadBytes = 10 << 20

// maxJSONBodyBytes caps JSON request bodies
const maxJSONBodyBytes = 1 << 20

// Analyzer runs the two model-backed operations
type Analyzer interface {
	AnalyzeResume(ctx context.Context, in interview.AnalyzeInput) (*types.ResumeAnalysis, error)
	ImproveQuestion(ctx context.Context, req types.ImproveQuestionRequest) (*types.QuestionImprovement, error)
}

// PaymentConfirmer confirms a payment after the amount check
type PaymentConfirmer interface {
	Confirm(ctx context.Context, c payment.Confirmation) error
}

// LeadSaver records fake-door interest
type LeadSaver interface {
	SaveLead(ctx context.Context, lead db.Lead) error
}

// Config holds server configuration
type Config struct {
	Port            int
	MaxUploadBytes  int64
	RateLimit       *ratelimit.Config // nil uses the limiter defaults
	ShutdownTimeout time.Duration
}

// Dependencies are the services behind the routes
type Dependencies struct {
	Analyzer Analyzer
	Payments PaymentConfirmer
	Leads    LeadSaver
	Logger   logrus.FieldLogger
}

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	analyzer        Analyzer
	payments        PaymentConfirmer
	leads           LeadSaver
	logger          logrus.FieldLogger
	rateLimiter     *ratelimit.Limiter
	maxUploadBytes  int64
	shutdownTimeout time.Duration
}

// New creates a new server instance
func New(cfg Config, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}

	s := &Server{
		analyzer:        deps.Analyzer,
		payments:        deps.Payments,
		leads:           deps.Leads,
		logger:          logger,
		rateLimiter:     ratelimit.NewLimiter(cfg.RateLimit),
		maxUploadBytes:  maxUpload,
		shutdownTimeout: shutdownTimeout,
	}
	if s.leads == nil {
		s.leads = db.NewLogStore(logger)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/analyze-resume", s.handleAnalyzeResume)
	mux.HandleFunc("POST /api/improve-question", s.handleImproveQuestion)
	mux.HandleFunc("POST /api/payment/confirm", s.handleConfirmPayment)
	mux.HandleFunc("POST /api/fakedoor/lead", s.handleLead)

	s.httpServer = &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Port),
		Handler: middleware.Chain(mux,
			middleware.RequestID,
			middleware.Logging(logger),
			middleware.CORS,
			s.withRateLimit,
		),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      180 * time.Second, // two model attempts fit inside
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Handler returns the root handler with all middleware applied
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", ln.Addr().String()).Info("server starting")
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// extractClientID extracts the client identifier from the request.
// Only RemoteAddr is trusted; forwarding headers are ignored.
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
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	if info.RetryAfter > 0 {
		secs := int(info.RetryAfter.Round(time.Second).Seconds())
		if secs < 1 {
			secs = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}

	s.logger.WithFields(logrus.Fields{
		"request_id": middleware.GetRequestID(r.Context()),
		"path":       r.URL.Path,
		"limit":      info.Limit,
		"reset_at":   info.ResetTime.Format(time.RFC3339),
	}).Warn("rate limit exceeded")

	s.jsonResponse(w, http.StatusTooManyRequests, ErrorResponse{
		Error:  CodeRateLimited,
		Detail: "Rate limit exceeded. Please try again later.",
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("failed to encode JSON response")
	}
}

// errorResponse maps err to a status and writes {"error", "detail"}
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status, code, detail := classify(err)

	entry := s.logger.WithFields(logrus.Fields{
		"request_id": middleware.GetRequestID(r.Context()),
		"path":       r.URL.Path,
		"code":       code,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}

	s.jsonResponse(w, status, ErrorResponse{Error: code, Detail: detail})
}

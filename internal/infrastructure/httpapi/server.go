// Package httpapi exposes the word of the day over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ersonp/wotd/internal/application/handlers"
	"github.com/ersonp/wotd/internal/domain/entities"
	"github.com/ersonp/wotd/internal/domain/services"
)

// DefaultRecentDays is the window used by GET /api/words without ?days=.
const DefaultRecentDays = 7

const shutdownTimeout = 10 * time.Second

// Server routes HTTP requests to the word handler.
type Server struct {
	words    *handlers.WordHandler
	resolver *services.DayKeyResolver
	logger   *slog.Logger
	router   chi.Router
}

// NewServer creates a new Server. resolver supplies the cache expiry of
// today's entry.
func NewServer(words *handlers.WordHandler, resolver *services.DayKeyResolver, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		words:    words,
		resolver: resolver,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/word", s.handleToday)
		r.Get("/word/{date}", s.handleByDate)
		r.Get("/words", s.handleRecent)
		r.Post("/generate", s.handleGenerate)
	})
	s.router = r

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving http: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleToday serves today's entry, cacheable until the next day boundary.
// GET /api/word
func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	result, err := s.words.HandleToday(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	next, left := s.resolver.UntilMidnight()
	maxAge := max(int(left/time.Second), 0)
	w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(maxAge))
	w.Header().Set("Expires", next.UTC().Format(http.TimeFormat))
	writeJSON(w, http.StatusOK, result.Entry)
}

// GET /api/word/{date}
func (s *Server) handleByDate(w http.ResponseWriter, r *http.Request) {
	result, err := s.words.HandleByDate(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Entry)
}

// GET /api/words?days=N
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	days := DefaultRecentDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, r, &entities.ValidationError{Field: "days", Reason: fmt.Sprintf("%q is not an integer", raw)})
			return
		}
		days = n
	}

	result, err := s.words.HandleRecent(r.Context(), days)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGenerate returns 201 when this request created today's entry and
// 200 when it already existed.
// POST /api/generate
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	result, err := s.words.HandleGenerate(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, result.Entry)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrGeneration):
		return http.StatusBadGateway
	case errors.Is(err, entities.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrNoGenerator):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	msg := err.Error()
	switch {
	case code == http.StatusNotFound:
		msg = "no word of the day for this date"
	case code >= http.StatusInternalServerError:
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		if code == http.StatusInternalServerError {
			msg = "internal error"
		}
	}
	writeJSON(w, code, map[string]string{"error": msg})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

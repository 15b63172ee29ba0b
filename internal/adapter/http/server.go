// Package http serves the dashboard page, its JSON map model, and the
// health, readiness, and metrics endpoints.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/hazard-map-dashboard/internal/domain"
	"github.com/couchcryptid/hazard-map-dashboard/internal/pipeline"
	"github.com/couchcryptid/hazard-map-dashboard/internal/render"
)

// Dashboard recomputes the map for a filter state.
type Dashboard interface {
	NewState(ctx context.Context) (domain.FilterState, error)
	Render(ctx context.Context, state domain.FilterState, surface string) (pipeline.Result, error)
	CheckReadiness(ctx context.Context) error
}

// Server exposes the dashboard and its operational endpoints.
type Server struct {
	httpServer *http.Server
	dash       Dashboard
	sessions   *SessionStore
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /, /reset, /api/map, /healthz,
// /readyz, and /metrics routes.
func NewServer(addr string, dash Dashboard, sessions *SessionStore, logger *slog.Logger) *Server {
	r := chi.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			// A request after invalidation waits for a full dataset reload.
			WriteTimeout: 90 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dash:     dash,
		sessions: sessions,
		logger:   logger,
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", handleReady(dash))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler { return gzhttp.GzipHandler(next) })
		r.Get("/", s.handleDashboard)
		r.Post("/reset", s.handleReset)
		r.Get("/api/map", s.handleMap)
	})

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// handleDashboard applies the query to the session state and redraws the
// whole page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	id, state, err := s.session(w, r)
	if err != nil {
		s.writeErrorPage(w, err)
		return
	}
	applyQuery(&state, r.URL.Query())

	res, err := s.dash.Render(r.Context(), state, pipeline.SurfacePage)
	if err != nil {
		s.writeErrorPage(w, err)
		return
	}
	s.sessions.Put(id, res.State)

	var buf bytes.Buffer
	if err := render.Page(&buf, render.PageData{
		State:    res.State,
		Counts:   res.Counts,
		Map:      res.Map,
		LoadedAt: res.LoadedAt,
	}); err != nil {
		s.logger.Error("render page failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// handleReset restores every range to its dataset bounds and sends the
// browser back to the dashboard.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	id, state, err := s.session(w, r)
	if err != nil {
		s.writeErrorPage(w, err)
		return
	}
	state.Reset()
	s.sessions.Put(id, state)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type mapResponse struct {
	Counts domain.Counts      `json:"counts"`
	State  domain.FilterState `json:"state"`
	Map    render.Map         `json:"map"`
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	id, state, err := s.session(w, r)
	if err != nil {
		writeJSON(w, errorStatus(err), map[string]string{"error": err.Error()})
		return
	}
	applyQuery(&state, r.URL.Query())

	res, err := s.dash.Render(r.Context(), state, pipeline.SurfaceAPI)
	if err != nil {
		writeJSON(w, errorStatus(err), map[string]string{"error": err.Error()})
		return
	}
	s.sessions.Put(id, res.State)

	writeJSON(w, http.StatusOK, mapResponse{Counts: res.Counts, State: res.State, Map: res.Map})
}

// session returns the caller's session ID and state, starting a new session
// with full-bound ranges when the cookie is missing or expired.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, domain.FilterState, error) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if state, ok := s.sessions.Get(c.Value); ok {
			return c.Value, state, nil
		}
	}

	state, err := s.dash.NewState(r.Context())
	if err != nil {
		return "", domain.FilterState{}, err
	}
	id := s.sessions.NewID()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id, state, nil
}

func (s *Server) writeErrorPage(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	s.logger.Error("dashboard unavailable", "status", status, "error", err)

	msg := "The dashboard failed to render."
	if status == http.StatusServiceUnavailable {
		msg = "The datasets could not be loaded. Please try again shortly."
	}

	var buf bytes.Buffer
	if rerr := render.Page(&buf, render.PageData{Error: msg}); rerr != nil {
		http.Error(w, msg, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func errorStatus(err error) int {
	if errors.Is(err, domain.ErrDataUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

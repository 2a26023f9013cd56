package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/nyc-parking-dashboard/internal/dashboard"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/domain"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/observability"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/render"
	"github.com/couchcryptid/nyc-parking-dashboard/internal/session"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SessionCookie names the cookie carrying the session ID.
const SessionCookie = "parking_session"

// Composer builds the dashboard page and its individual views.
type Composer interface {
	Compose(ctx context.Context, cache *session.ViewCache) (*dashboard.Page, error)
	MapView(ctx context.Context, cache *session.ViewCache) (render.Artifact, error)
	MonthlyView(ctx context.Context) (render.Artifact, error)
	HourlyView(ctx context.Context) (render.Artifact, error)
	CheckReadiness(ctx context.Context) error
}

// Server serves the dashboard page, its JSON views, and the health, readiness,
// and metrics endpoints.
type Server struct {
	httpServer *http.Server
	composer   Composer
	sessions   *session.Store
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the dashboard, /api/views/*, /healthz,
// /readyz, and /metrics routes.
func NewServer(addr string, composer Composer, sessions *session.Store, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		composer: composer,
		sessions: sessions,
		metrics:  metrics,
		logger:   logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /api/views/map", s.handleView(func(r *http.Request, cache *session.ViewCache) (render.Artifact, error) {
		return s.composer.MapView(r.Context(), cache)
	}))
	mux.HandleFunc("GET /api/views/monthly", s.handleView(func(r *http.Request, _ *session.ViewCache) (render.Artifact, error) {
		return s.composer.MonthlyView(r.Context())
	}))
	mux.HandleFunc("GET /api/views/hourly", s.handleView(func(r *http.Request, _ *session.ViewCache) (render.Artifact, error) {
		return s.composer.HourlyView(r.Context())
	}))

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(composer))
	mux.Handle("GET /metrics", promhttp.Handler())

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

// handlePage renders the whole dashboard. The page is written only once it
// has been fully rendered; any failure yields a 500 with no partial body.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	id, cache := s.session(w, r)

	page, err := s.composer.Compose(r.Context(), cache)
	if err != nil {
		s.pageFailed(w, r, id, err)
		return
	}

	var buf bytes.Buffer
	if err := page.WriteHTML(&buf); err != nil {
		s.pageFailed(w, r, id, err)
		return
	}

	s.metrics.PageRenders.WithLabelValues("success").Inc()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) pageFailed(w http.ResponseWriter, r *http.Request, sessionID string, err error) {
	s.metrics.PageRenders.WithLabelValues("error").Inc()
	if r.Context().Err() != nil {
		s.logger.Info("page render abandoned", "session", sessionID, "reason", r.Context().Err())
		return
	}
	s.logger.Error("page render failed", "session", sessionID, "error", err)
	http.Error(w, "dashboard unavailable", http.StatusInternalServerError)
}

type viewFunc func(r *http.Request, cache *session.ViewCache) (render.Artifact, error)

// handleView serves one artifact's chart spec as JSON.
func (s *Server) handleView(view viewFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, cache := s.session(w, r)

		artifact, err := view(r, cache)
		if err == nil {
			var spec []byte
			spec, err = artifact.Spec()
			if err == nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(spec)
				return
			}
		}

		s.logger.Error("view render failed", "path", r.URL.Path, "session", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status": "error",
			"error":  viewError(err),
		})
	}
}

// session resolves the request's session, starting a new one when the
// cookie is absent, unknown, or expired.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, *session.ViewCache) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if cache, ok := s.sessions.Get(c.Value); ok {
			return c.Value, cache
		}
	}

	id, cache := s.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Debug("session started", "session", id)
	return id, cache
}

// viewError reduces an error to the category a client can act on.
func viewError(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingDataFile):
		return "data unavailable"
	case errors.Is(err, domain.ErrMalformedRecord):
		return "data malformed"
	case errors.Is(err, domain.ErrEmptyDataset):
		return "no data"
	default:
		return "render failed"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort error response
}

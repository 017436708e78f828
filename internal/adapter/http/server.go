// Package http exposes the engine's read model plus the standard health,
// readiness, and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/forecast-fusion/internal/domain"
	"github.com/couchcryptid/forecast-fusion/internal/engine"
)

// SnapshotProvider serves the latest engine read model.
type SnapshotProvider interface {
	Snapshot() engine.Snapshot
}

// Server exposes the forecast API alongside health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	snapshots  SnapshotProvider
	logger     *slog.Logger
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(addr string, snapshots SnapshotProvider, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		snapshots: snapshots,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/forecast", s.handleForecast)
	mux.HandleFunc("GET /v1/nowcast", s.handleNowcast)
	mux.HandleFunc("GET /v1/alerts", s.handleAlerts)
	mux.HandleFunc("GET /v1/satellite", s.handleSatellite)

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

func (s *Server) handleForecast(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.freshSnapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"updated_at": snap.UpdatedAt,
		"place":      snap.Place,
		"current":    snap.Current,
		"hourly":     snap.Hourly,
		"daily":      snap.Daily,
	})
}

func (s *Server) handleNowcast(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.freshSnapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Nowcast)
}

func (s *Server) handleAlerts(w http.ResponseWriter, _ *http.Request) {
	snap, ok := s.freshSnapshot(w)
	if !ok {
		return
	}
	alerts := snap.Alerts
	if alerts == nil {
		alerts = []domain.Alert{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"active": alerts})
}

func (s *Server) handleSatellite(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.freshSnapshot(w)
	if !ok {
		return
	}
	source := snap.Satellite
	// ?country=XX previews the source another country code would map to,
	// falling back to the current source for unmapped codes.
	if cc := r.URL.Query().Get("country"); cc != "" {
		source = domain.SelectSource(cc, snap.Satellite, true)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"source": source,
		"place":  snap.Place,
	})
}

// freshSnapshot returns the current snapshot, or writes a 503 when the
// engine has not produced one yet.
func (s *Server) freshSnapshot(w http.ResponseWriter) (engine.Snapshot, bool) {
	snap := s.snapshots.Snapshot()
	if snap.UpdatedAt == 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "no forecast available yet",
		})
		return engine.Snapshot{}, false
	}
	return snap, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

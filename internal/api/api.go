// Package api provides HTTP handlers for the monitoring service.
//
// # Endpoints
//
// Monitor API:
//   - GET    /api/monitors - List monitors
//   - POST   /api/monitors - Create monitor
//   - GET    /api/monitors/{id} - Get monitor details
//   - PUT    /api/monitors/{id} - Update monitor
//   - DELETE /api/monitors/{id} - Delete monitor
//   - POST   /api/monitors/{id}/check - Run an immediate check
//   - GET    /api/monitors/{id}/history - Hourly uptime history
//   - GET    /api/monitors/{id}/logs - Raw uptime logs, newest first
//
// Alert settings API:
//   - POST   /api/alerts - Create alert settings
//   - GET    /api/alerts/{monitor_id} - Get alert settings
//   - PUT    /api/alerts/{monitor_id} - Update alert settings
//   - DELETE /api/alerts/{monitor_id} - Delete alert settings
//
// Dashboard:
//   - GET /api/dashboard/stats - Fleet-wide summary
//
// Health:
//   - GET /api/health - Health check
//   - GET /api/infrastructure/health - Process and database health
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/statustrackr/uptime-mon/internal/cache"
	"github.com/statustrackr/uptime-mon/internal/config"
	"github.com/statustrackr/uptime-mon/internal/metrics"
	"github.com/statustrackr/uptime-mon/internal/service"
)

// Server is the HTTP API server.
type Server struct {
	svc              *service.Service
	metricsCollector *metrics.Collector
	cache            *cache.Cache
	logger           *slog.Logger
	mux              *http.ServeMux
}

// NewServer creates a new API server.
func NewServer(svc *service.Service, metricsCollector *metrics.Collector, responseCache *cache.Cache, logger *slog.Logger) *Server {
	s := &Server{
		svc:              svc,
		metricsCollector: metricsCollector,
		cache:            responseCache,
		logger:           logger,
		mux:              http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Mux returns the underlying ServeMux for registering additional routes.
func (s *Server) Mux() *http.ServeMux {
	return s.mux
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	// Log request
	start := time.Now()
	s.mux.ServeHTTP(w, r)
	s.logger.Debug("request",
		"method", r.Method,
		"path", r.URL.Path,
		"duration", time.Since(start))
}

func (s *Server) registerRoutes() {
	// Liveness
	s.mux.HandleFunc("GET /{$}", s.handleRoot)
	s.mux.HandleFunc("GET /api/{$}", s.handleRoot)

	// Health
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/infrastructure/health", s.handleInfrastructureHealth)

	// Monitors
	s.mux.HandleFunc("GET /api/monitors", s.handleListMonitors)
	s.mux.HandleFunc("POST /api/monitors", s.handleCreateMonitor)
	s.mux.HandleFunc("GET /api/monitors/{id}", s.handleGetMonitor)
	s.mux.HandleFunc("PUT /api/monitors/{id}", s.handleUpdateMonitor)
	s.mux.HandleFunc("DELETE /api/monitors/{id}", s.handleDeleteMonitor)
	s.mux.HandleFunc("POST /api/monitors/{id}/check", s.handleCheckMonitor)
	s.mux.HandleFunc("GET /api/monitors/{id}/history", s.handleMonitorHistory)
	s.mux.HandleFunc("GET /api/monitors/{id}/logs", s.handleMonitorLogs)

	// Alert settings
	s.mux.HandleFunc("POST /api/alerts", s.handleCreateAlertSettings)
	s.mux.HandleFunc("GET /api/alerts/{monitor_id}", s.handleGetAlertSettings)
	s.mux.HandleFunc("PUT /api/alerts/{monitor_id}", s.handleUpdateAlertSettings)
	s.mux.HandleFunc("DELETE /api/alerts/{monitor_id}", s.handleDeleteAlertSettings)

	// Dashboard
	s.mux.HandleFunc("GET /api/dashboard/stats", s.handleDashboardStats)
}

// =============================================================================
// HEALTH
// =============================================================================

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{
		"message": "Uptime Monitoring API",
		"status":  "ok",
	}
	if s.metricsCollector != nil {
		if health, err := s.metricsCollector.GetHealth(r.Context()); err == nil {
			payload["health"] = health
		}
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleInfrastructureHealth(w http.ResponseWriter, r *http.Request) {
	if s.metricsCollector == nil {
		s.writeError(w, http.StatusServiceUnavailable, "metrics collector not initialized")
		return
	}

	const cacheKey = "infrastructure_health"

	// Try cache first
	if s.cache != nil {
		if data, err := s.cache.Get(r.Context(), cacheKey); err == nil && data != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(data)
			return
		}
	}

	health, err := s.metricsCollector.GetHealth(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to get infrastructure health: "+err.Error())
		return
	}

	// Cache the result
	if s.cache != nil {
		if err := s.cache.SetJSON(r.Context(), cacheKey, health, config.CacheTTLHealth); err != nil {
			s.logger.Warn("failed to cache infrastructure health", "error", err)
		}
	}

	s.writeJSON(w, http.StatusOK, health)
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Server) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeServiceError maps a service error to an HTTP response. Validation
// failures surface their message with a 400, everything else is a 500.
func (s *Server) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		s.writeError(w, http.StatusBadRequest, verr.Message)
		return
	}
	s.writeError(w, http.StatusInternalServerError, fallback)
}

package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/statustrackr/uptime-mon/internal/config"
	"github.com/statustrackr/uptime-mon/pkg/types"
)

// =============================================================================
// MONITOR ENDPOINTS
// =============================================================================

func (s *Server) handleListMonitors(w http.ResponseWriter, r *http.Request) {
	monitors, err := s.svc.ListMonitors(r.Context())
	if err != nil {
		s.logger.Error("list monitors failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to list monitors")
		return
	}

	s.writeJSON(w, http.StatusOK, monitors)
}

func (s *Server) handleCreateMonitor(w http.ResponseWriter, r *http.Request) {
	var m types.Monitor
	if err := s.readJSON(r, &m); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := s.svc.CreateMonitor(r.Context(), &m)
	if err != nil {
		s.logger.Error("create monitor failed", "name", m.Name, "error", err)
		s.writeServiceError(w, err, "failed to create monitor")
		return
	}

	s.invalidateDashboardStats(r.Context())

	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetMonitor(w http.ResponseWriter, r *http.Request) {
	monitorID := r.PathValue("id")
	if monitorID == "" {
		s.writeError(w, http.StatusBadRequest, "monitor ID required")
		return
	}

	monitor, err := s.svc.GetMonitor(r.Context(), monitorID)
	if err != nil {
		s.logger.Error("get monitor failed", "monitor", monitorID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to get monitor")
		return
	}
	if monitor == nil {
		s.writeError(w, http.StatusNotFound, "Monitor not found")
		return
	}

	s.writeJSON(w, http.StatusOK, monitor)
}

func (s *Server) handleUpdateMonitor(w http.ResponseWriter, r *http.Request) {
	monitorID := r.PathValue("id")
	if monitorID == "" {
		s.writeError(w, http.StatusBadRequest, "monitor ID required")
		return
	}

	var input types.Monitor
	if err := s.readJSON(r, &input); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	monitor, err := s.svc.UpdateMonitor(r.Context(), monitorID, &input)
	if err != nil {
		s.logger.Error("update monitor failed", "monitor", monitorID, "error", err)
		s.writeServiceError(w, err, "failed to update monitor")
		return
	}
	if monitor == nil {
		s.writeError(w, http.StatusNotFound, "Monitor not found")
		return
	}

	s.writeJSON(w, http.StatusOK, monitor)
}

func (s *Server) handleDeleteMonitor(w http.ResponseWriter, r *http.Request) {
	monitorID := r.PathValue("id")
	if monitorID == "" {
		s.writeError(w, http.StatusBadRequest, "monitor ID required")
		return
	}

	deleted, err := s.svc.DeleteMonitor(r.Context(), monitorID)
	if err != nil {
		s.logger.Error("delete monitor failed", "monitor", monitorID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to delete monitor")
		return
	}
	if !deleted {
		s.writeError(w, http.StatusNotFound, "Monitor not found")
		return
	}

	s.invalidateDashboardStats(r.Context())

	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Monitor deleted successfully",
	})
}

// checkResponse is the outcome of a manually triggered check.
type checkResponse struct {
	Status         types.MonitorStatus `json:"status"`
	ResponseTime   *float64            `json:"response_time"`
	Error          *string             `json:"error"`
	AdditionalData types.ProbeDetails  `json:"additional_data"`
}

func (s *Server) handleCheckMonitor(w http.ResponseWriter, r *http.Request) {
	monitorID := r.PathValue("id")
	if monitorID == "" {
		s.writeError(w, http.StatusBadRequest, "monitor ID required")
		return
	}

	result, err := s.svc.ManualCheck(r.Context(), monitorID)
	if err != nil {
		s.logger.Error("manual check failed", "monitor", monitorID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to check monitor")
		return
	}
	if result == nil {
		s.writeError(w, http.StatusNotFound, "Monitor not found")
		return
	}

	resp := checkResponse{
		Status:         result.Status,
		ResponseTime:   result.ResponseTime,
		AdditionalData: result.Details,
	}
	if result.ErrorMessage != "" {
		resp.Error = &result.ErrorMessage
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMonitorHistory(w http.ResponseWriter, r *http.Request) {
	monitorID := r.PathValue("id")
	if monitorID == "" {
		s.writeError(w, http.StatusBadRequest, "monitor ID required")
		return
	}

	hours := 24
	if v := r.URL.Query().Get("hours"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, "hours must be a positive integer")
			return
		}
		hours = parsed
	}

	cacheKey := fmt.Sprintf("history:%s:%d", monitorID, hours)

	// Try cache first
	if s.cache != nil {
		if data, err := s.cache.Get(r.Context(), cacheKey); err == nil && data != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(data)
			return
		}
	}

	buckets, err := s.svc.History(r.Context(), monitorID, hours)
	if err != nil {
		s.logger.Error("monitor history failed", "monitor", monitorID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to get monitor history")
		return
	}
	if buckets == nil {
		s.writeError(w, http.StatusNotFound, "Monitor not found")
		return
	}

	payload := map[string]any{
		"monitor_id": monitorID,
		"hours":      hours,
		"history":    buckets,
	}

	// Cache the result
	if s.cache != nil {
		if err := s.cache.SetJSON(r.Context(), cacheKey, payload, config.CacheTTLHistory); err != nil {
			s.logger.Warn("failed to cache monitor history", "error", err)
		}
	}

	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleMonitorLogs(w http.ResponseWriter, r *http.Request) {
	monitorID := r.PathValue("id")
	if monitorID == "" {
		s.writeError(w, http.StatusBadRequest, "monitor ID required")
		return
	}

	hours := 24
	if v := r.URL.Query().Get("hours"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, "hours must be a positive integer")
			return
		}
		hours = parsed
	}

	logs, err := s.svc.Logs(r.Context(), monitorID, hours)
	if err != nil {
		s.logger.Error("monitor logs failed", "monitor", monitorID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to get monitor logs")
		return
	}
	if logs == nil {
		logs = []types.UptimeLog{}
	}

	s.writeJSON(w, http.StatusOK, logs)
}

// =============================================================================
// DASHBOARD
// =============================================================================

// invalidateDashboardStats drops the cached dashboard aggregate after the
// monitor set changes, so the next read reflects it immediately.
func (s *Server) invalidateDashboardStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, "dashboard_stats"); err != nil {
		s.logger.Warn("failed to invalidate dashboard stats cache", "error", err)
	}
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	const cacheKey = "dashboard_stats"

	// Try cache first
	if s.cache != nil {
		if data, err := s.cache.Get(r.Context(), cacheKey); err == nil && data != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(data)
			return
		}
	}

	stats, err := s.svc.DashboardStats(r.Context())
	if err != nil {
		s.logger.Error("dashboard stats failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to get dashboard stats")
		return
	}

	// Cache the result
	if s.cache != nil {
		if err := s.cache.SetJSON(r.Context(), cacheKey, stats, config.CacheTTLDashboardStats); err != nil {
			s.logger.Warn("failed to cache dashboard stats", "error", err)
		}
	}

	s.writeJSON(w, http.StatusOK, stats)
}

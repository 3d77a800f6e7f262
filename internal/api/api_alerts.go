package api

import (
	"net/http"

	"github.com/statustrackr/uptime-mon/internal/service"
)

// =============================================================================
// ALERT SETTINGS ENDPOINTS
// =============================================================================

type createAlertSettingsRequest struct {
	MonitorID string `json:"monitor_id"`
	service.AlertSettingsInput
}

func (s *Server) handleCreateAlertSettings(w http.ResponseWriter, r *http.Request) {
	var req createAlertSettingsRequest
	if err := s.readJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MonitorID == "" {
		s.writeError(w, http.StatusBadRequest, "monitor_id is required")
		return
	}

	settings, err := s.svc.CreateAlertSettings(r.Context(), req.MonitorID, req.AlertSettingsInput)
	if err != nil {
		s.logger.Error("create alert settings failed", "monitor", req.MonitorID, "error", err)
		s.writeServiceError(w, err, "failed to create alert settings")
		return
	}
	if settings == nil {
		s.writeError(w, http.StatusNotFound, "Monitor not found")
		return
	}

	s.writeJSON(w, http.StatusCreated, settings)
}

func (s *Server) handleGetAlertSettings(w http.ResponseWriter, r *http.Request) {
	monitorID := r.PathValue("monitor_id")
	if monitorID == "" {
		s.writeError(w, http.StatusBadRequest, "monitor ID required")
		return
	}

	settings, err := s.svc.GetAlertSettings(r.Context(), monitorID)
	if err != nil {
		s.logger.Error("get alert settings failed", "monitor", monitorID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to get alert settings")
		return
	}
	if settings == nil {
		s.writeError(w, http.StatusNotFound, "Alert settings not found")
		return
	}

	s.writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleUpdateAlertSettings(w http.ResponseWriter, r *http.Request) {
	monitorID := r.PathValue("monitor_id")
	if monitorID == "" {
		s.writeError(w, http.StatusBadRequest, "monitor ID required")
		return
	}

	var input service.AlertSettingsInput
	if err := s.readJSON(r, &input); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	settings, err := s.svc.UpdateAlertSettings(r.Context(), monitorID, input)
	if err != nil {
		s.logger.Error("update alert settings failed", "monitor", monitorID, "error", err)
		s.writeServiceError(w, err, "failed to update alert settings")
		return
	}
	if settings == nil {
		s.writeError(w, http.StatusNotFound, "Alert settings not found")
		return
	}

	s.writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleDeleteAlertSettings(w http.ResponseWriter, r *http.Request) {
	monitorID := r.PathValue("monitor_id")
	if monitorID == "" {
		s.writeError(w, http.StatusBadRequest, "monitor ID required")
		return
	}

	deleted, err := s.svc.DeleteAlertSettings(r.Context(), monitorID)
	if err != nil {
		s.logger.Error("delete alert settings failed", "monitor", monitorID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to delete alert settings")
		return
	}
	if !deleted {
		s.writeError(w, http.StatusNotFound, "Alert settings not found")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Alert settings deleted successfully",
	})
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/statustrackr/uptime-mon/pkg/types"
)

// =============================================================================
// ALERT SETTINGS OPERATIONS
// =============================================================================

// AlertSettingsInput carries the caller-editable alert settings fields.
type AlertSettingsInput struct {
	EmailAddress string `json:"email_address"`
	EmailEnabled *bool  `json:"email_enabled"`
	AlertOnDown  *bool  `json:"alert_on_down"`
	AlertOnUp    *bool  `json:"alert_on_up"`
}

// CreateAlertSettings stores alert settings for a monitor. A monitor holds
// at most one settings row; a second create is rejected. Returns (nil, nil)
// when the monitor does not exist.
func (s *Service) CreateAlertSettings(ctx context.Context, monitorID string, input AlertSettingsInput) (*types.AlertSettings, error) {
	m, err := s.store.GetMonitor(ctx, monitorID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}

	if input.EmailAddress == "" {
		return nil, invalid("Email address is required")
	}

	existing, err := s.store.GetAlertSettingsByMonitor(ctx, monitorID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, invalid("Alert settings already exist for this monitor")
	}

	settings := &types.AlertSettings{
		ID:           uuid.New().String(),
		MonitorID:    monitorID,
		EmailAddress: input.EmailAddress,
		EmailEnabled: boolOr(input.EmailEnabled, true),
		AlertOnDown:  boolOr(input.AlertOnDown, true),
		AlertOnUp:    boolOr(input.AlertOnUp, true),
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateAlertSettings(ctx, settings); err != nil {
		return nil, err
	}

	s.logger.Info("alert settings created", "monitor_id", monitorID, "email", settings.EmailAddress)
	return settings, nil
}

// GetAlertSettings retrieves a monitor's alert settings. Returns (nil, nil)
// when the monitor has none or does not exist.
func (s *Service) GetAlertSettings(ctx context.Context, monitorID string) (*types.AlertSettings, error) {
	return s.store.GetAlertSettingsByMonitor(ctx, monitorID)
}

// UpdateAlertSettings replaces a monitor's alert settings fields. Returns
// (nil, nil) when the monitor has no settings.
func (s *Service) UpdateAlertSettings(ctx context.Context, monitorID string, input AlertSettingsInput) (*types.AlertSettings, error) {
	existing, err := s.store.GetAlertSettingsByMonitor(ctx, monitorID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	if input.EmailAddress != "" {
		existing.EmailAddress = input.EmailAddress
	}
	existing.EmailEnabled = boolOr(input.EmailEnabled, existing.EmailEnabled)
	existing.AlertOnDown = boolOr(input.AlertOnDown, existing.AlertOnDown)
	existing.AlertOnUp = boolOr(input.AlertOnUp, existing.AlertOnUp)

	if err := s.store.UpdateAlertSettings(ctx, existing); err != nil {
		return nil, err
	}

	s.logger.Info("alert settings updated", "monitor_id", monitorID)
	return existing, nil
}

// DeleteAlertSettings removes a monitor's alert settings. Returns false when
// there were none.
func (s *Service) DeleteAlertSettings(ctx context.Context, monitorID string) (bool, error) {
	existing, err := s.store.GetAlertSettingsByMonitor(ctx, monitorID)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}

	if err := s.store.DeleteAlertSettings(ctx, monitorID); err != nil {
		return false, err
	}

	s.logger.Info("alert settings deleted", "monitor_id", monitorID)
	return true, nil
}

// boolOr returns *p, or fallback when p is nil.
func boolOr(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}

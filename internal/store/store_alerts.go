package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/statustrackr/uptime-mon/pkg/types"
)

// =============================================================================
// ALERT SETTINGS
// =============================================================================

// CreateAlertSettings stores alert settings for a monitor. The monitor_id
// column is UNIQUE, so a second insert for the same monitor fails.
func (s *Store) CreateAlertSettings(ctx context.Context, settings *types.AlertSettings) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO alert_settings (id, monitor_id, email_address, email_enabled, alert_on_down, alert_on_up, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		settings.ID, settings.MonitorID, settings.EmailAddress,
		settings.EmailEnabled, settings.AlertOnDown, settings.AlertOnUp,
		settings.CreatedAt,
	)
	return err
}

// GetAlertSettingsByMonitor retrieves the alert settings for a monitor.
// Returns (nil, nil) when the monitor has none.
func (s *Store) GetAlertSettingsByMonitor(ctx context.Context, monitorID string) (*types.AlertSettings, error) {
	var settings types.AlertSettings
	err := s.pool.QueryRow(ctx, `
		SELECT id, monitor_id, email_address, email_enabled, alert_on_down, alert_on_up, created_at
		FROM alert_settings WHERE monitor_id = $1
	`, monitorID).Scan(
		&settings.ID, &settings.MonitorID, &settings.EmailAddress,
		&settings.EmailEnabled, &settings.AlertOnDown, &settings.AlertOnUp,
		&settings.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateAlertSettings replaces the alert settings for a monitor.
func (s *Store) UpdateAlertSettings(ctx context.Context, settings *types.AlertSettings) error {
	result, err := s.pool.Exec(ctx, `
		UPDATE alert_settings SET
			email_address = $2, email_enabled = $3, alert_on_down = $4, alert_on_up = $5
		WHERE monitor_id = $1
	`,
		settings.MonitorID, settings.EmailAddress,
		settings.EmailEnabled, settings.AlertOnDown, settings.AlertOnUp,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("alert settings not found for monitor: %s", settings.MonitorID)
	}
	return nil
}

// DeleteAlertSettings removes a monitor's alert settings.
func (s *Store) DeleteAlertSettings(ctx context.Context, monitorID string) error {
	result, err := s.pool.Exec(ctx, `
		DELETE FROM alert_settings WHERE monitor_id = $1
	`, monitorID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("alert settings not found for monitor: %s", monitorID)
	}
	return nil
}

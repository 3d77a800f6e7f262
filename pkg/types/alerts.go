package types

import "time"

// AlertSettings is the per-monitor notification policy. At most one record
// exists per monitor; the store enforces the uniqueness.
type AlertSettings struct {
	ID           string    `json:"id"`
	MonitorID    string    `json:"monitor_id"`
	EmailAddress string    `json:"email_address"`
	EmailEnabled bool      `json:"email_enabled"`
	AlertOnDown  bool      `json:"alert_on_down"`
	AlertOnUp    bool      `json:"alert_on_up"`
	CreatedAt    time.Time `json:"created_at"`
}

// AlertKind distinguishes the two email templates.
type AlertKind string

const (
	// AlertDown - monitor entered down or warning
	AlertDown AlertKind = "down"
	// AlertRecovery - monitor returned to up from down or warning
	AlertRecovery AlertKind = "recovery"
)

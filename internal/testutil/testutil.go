// Package testutil provides testing utilities and fixtures.
//
// This package contains:
//   - Test helper functions (loggers, time helpers)
//   - Fixture factories for domain types (monitors, logs, alert settings)
//
// # Usage
//
// Fixtures use functional options for customization:
//
//	m := testutil.FixtureMonitor()
//	m := testutil.FixtureMonitor(func(m *types.Monitor) {
//		m.Name = "custom-monitor"
//		m.CheckInterval = 120
//	})
package testutil

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/statustrackr/uptime-mon/pkg/types"
)

// NewTestLogger returns a logger that discards all output.
// Use for tests where logging output is not needed.
func NewTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// =============================================================================
// MONITOR FIXTURES
// =============================================================================

// FixtureMonitor creates a test HTTP monitor with sensible defaults.
// Use overrides to customize specific fields.
func FixtureMonitor(overrides ...func(*types.Monitor)) *types.Monitor {
	m := &types.Monitor{
		ID:               uuid.New().String(),
		Name:             "test-monitor-" + uuid.New().String()[:8],
		Kind:             types.KindHTTP,
		URL:              Ptr("https://example.com"),
		CheckInterval:    60,
		Timeout:          10,
		Status:           types.StatusUnknown,
		UptimePercentage: 100.0,
		CreatedAt:        time.Now(),
	}

	for _, override := range overrides {
		override(m)
	}

	return m
}

// FixtureMonitorSSL creates a test SSL certificate monitor.
func FixtureMonitorSSL(overrides ...func(*types.Monitor)) *types.Monitor {
	return FixtureMonitor(append([]func(*types.Monitor){
		func(m *types.Monitor) {
			m.Kind = types.KindSSL
			m.URL = nil
			m.SSLDomain = Ptr("example.com")
			m.SSLExpiryThreshold = Ptr(30)
		},
	}, overrides...)...)
}

// FixtureMonitorPing creates a test ping monitor.
func FixtureMonitorPing(overrides ...func(*types.Monitor)) *types.Monitor {
	return FixtureMonitor(append([]func(*types.Monitor){
		func(m *types.Monitor) {
			m.Kind = types.KindPing
			m.URL = nil
			m.PingHost = Ptr("192.0.2.1")
			m.PingCount = Ptr(4)
		},
	}, overrides...)...)
}

// FixtureMonitorDown creates a monitor already in the down state.
func FixtureMonitorDown(overrides ...func(*types.Monitor)) *types.Monitor {
	return FixtureMonitor(append([]func(*types.Monitor){
		func(m *types.Monitor) {
			m.Status = types.StatusDown
			m.LastChecked = TimeAgoPtr(2 * time.Minute)
		},
	}, overrides...)...)
}

// =============================================================================
// UPTIME LOG FIXTURES
// =============================================================================

// FixtureLog creates an up log entry for a monitor.
func FixtureLog(monitorID string, overrides ...func(*types.UptimeLog)) *types.UptimeLog {
	log := &types.UptimeLog{
		ID:           uuid.New().String(),
		MonitorID:    monitorID,
		Status:       types.StatusUp,
		ResponseTime: Ptr(0.042),
		Timestamp:    time.Now(),
	}

	for _, override := range overrides {
		override(log)
	}

	return log
}

// FixtureLogDown creates a down log entry with an error message.
func FixtureLogDown(monitorID string, overrides ...func(*types.UptimeLog)) *types.UptimeLog {
	return FixtureLog(monitorID, append([]func(*types.UptimeLog){
		func(l *types.UptimeLog) {
			l.Status = types.StatusDown
			l.ResponseTime = nil
			l.ErrorMessage = Ptr("Timeout")
		},
	}, overrides...)...)
}

// =============================================================================
// ALERT SETTINGS FIXTURES
// =============================================================================

// FixtureAlertSettings creates alert settings for a monitor.
func FixtureAlertSettings(monitorID string, overrides ...func(*types.AlertSettings)) *types.AlertSettings {
	s := &types.AlertSettings{
		ID:           uuid.New().String(),
		MonitorID:    monitorID,
		EmailAddress: "ops@example.com",
		EmailEnabled: true,
		AlertOnDown:  true,
		AlertOnUp:    true,
		CreatedAt:    time.Now(),
	}

	for _, override := range overrides {
		override(s)
	}

	return s
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// Ptr returns a pointer to the given value.
// Useful for setting optional fields in fixtures.
func Ptr[T any](v T) *T {
	return &v
}

// TimeAgo returns a time in the past by the given duration.
func TimeAgo(d time.Duration) time.Time {
	return time.Now().Add(-d)
}

// TimeAgoPtr returns a pointer to a time in the past.
func TimeAgoPtr(d time.Duration) *time.Time {
	t := time.Now().Add(-d)
	return &t
}

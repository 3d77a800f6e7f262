// Package service contains the business logic behind the management API.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/statustrackr/uptime-mon/internal/probe"
	"github.com/statustrackr/uptime-mon/pkg/types"
)

// Store defines the storage interface for the service layer.
type Store interface {
	CreateMonitor(ctx context.Context, m *types.Monitor) error
	GetMonitor(ctx context.Context, id string) (*types.Monitor, error)
	ListMonitors(ctx context.Context) ([]types.Monitor, error)
	UpdateMonitor(ctx context.Context, m *types.Monitor) error
	DeleteMonitor(ctx context.Context, id string) error

	FindLogsSince(ctx context.Context, monitorID string, since time.Time) ([]types.UptimeLog, error)

	CreateAlertSettings(ctx context.Context, settings *types.AlertSettings) error
	GetAlertSettingsByMonitor(ctx context.Context, monitorID string) (*types.AlertSettings, error)
	UpdateAlertSettings(ctx context.Context, settings *types.AlertSettings) error
	DeleteAlertSettings(ctx context.Context, monitorID string) error
}

// Checker triggers an immediate, serialized check for one monitor.
type Checker interface {
	CheckNow(ctx context.Context, id string) (*probe.Result, error)
}

// Service provides business logic operations.
type Service struct {
	store   Store
	checker Checker
	logger  *slog.Logger
}

// NewService creates a new service.
func NewService(store Store, checker Checker, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		checker: checker,
		logger:  logger,
	}
}

// =============================================================================
// MONITOR OPERATIONS
// =============================================================================

// CreateMonitor validates and stores a new monitor. The caller supplies the
// configuration fields; identity and runtime state are assigned here.
func (s *Service) CreateMonitor(ctx context.Context, m *types.Monitor) (*types.Monitor, error) {
	applyDefaults(m)
	if err := validateMonitor(m); err != nil {
		return nil, err
	}

	m.ID = uuid.New().String()
	m.Status = types.StatusUnknown
	m.UptimePercentage = 0
	m.CreatedAt = time.Now()
	m.LastChecked = nil
	m.ResponseTime = nil

	if err := s.store.CreateMonitor(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("monitor created", "id", m.ID, "name", m.Name, "kind", m.Kind)
	return m, nil
}

// GetMonitor retrieves a monitor. Returns (nil, nil) when missing.
func (s *Service) GetMonitor(ctx context.Context, id string) (*types.Monitor, error) {
	return s.store.GetMonitor(ctx, id)
}

// ListMonitors returns all monitors.
func (s *Service) ListMonitors(ctx context.Context) ([]types.Monitor, error) {
	return s.store.ListMonitors(ctx)
}

// UpdateMonitor replaces a monitor's configuration. Runtime state is kept.
// Returns (nil, nil) when the monitor does not exist.
func (s *Service) UpdateMonitor(ctx context.Context, id string, input *types.Monitor) (*types.Monitor, error) {
	existing, err := s.store.GetMonitor(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	applyDefaults(input)
	if err := validateMonitor(input); err != nil {
		return nil, err
	}

	input.ID = id
	if err := s.store.UpdateMonitor(ctx, input); err != nil {
		return nil, err
	}

	s.logger.Info("monitor updated", "id", id, "name", input.Name)
	return s.store.GetMonitor(ctx, id)
}

// DeleteMonitor removes a monitor together with its uptime logs and alert
// settings. Returns false when the monitor does not exist.
func (s *Service) DeleteMonitor(ctx context.Context, id string) (bool, error) {
	existing, err := s.store.GetMonitor(ctx, id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}

	if err := s.store.DeleteMonitor(ctx, id); err != nil {
		return false, err
	}

	s.logger.Info("monitor deleted", "id", id, "name", existing.Name)
	return true, nil
}

// ManualCheck runs one immediate check and returns the probe outcome.
// Returns (nil, nil) when the monitor does not exist.
func (s *Service) ManualCheck(ctx context.Context, id string) (*probe.Result, error) {
	return s.checker.CheckNow(ctx, id)
}

// applyDefaults fills unset scheduling fields.
func applyDefaults(m *types.Monitor) {
	if m.CheckInterval == 0 {
		m.CheckInterval = 300
	}
	if m.Timeout == 0 {
		m.Timeout = 10
	}
}

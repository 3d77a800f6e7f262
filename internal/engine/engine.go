// Package engine runs the monitoring loop.
//
// # Design
//
// A single scheduler goroutine wakes on a fixed tick, lists the monitors,
// and launches one pipeline goroutine per monitor that is due. A per-monitor
// in-flight slot guarantees at most one running check per monitor: a monitor
// still being probed when its next tick arrives is skipped, not queued.
//
// Manual checks requested through the API share the same slot, so they
// serialize against scheduled checks instead of racing them.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/statustrackr/uptime-mon/internal/probe"
	"github.com/statustrackr/uptime-mon/pkg/types"
)

// Store defines the storage interface for the engine.
type Store interface {
	ListMonitors(ctx context.Context) ([]types.Monitor, error)
	GetMonitor(ctx context.Context, id string) (*types.Monitor, error)
	ApplyCheckResult(ctx context.Context, id string, status types.MonitorStatus, responseTime *float64, checkedAt time.Time, details *types.ProbeDetails) error
	InsertLog(ctx context.Context, log *types.UptimeLog) error
	FindLogsSince(ctx context.Context, monitorID string, since time.Time) ([]types.UptimeLog, error)
	UpdateUptime(ctx context.Context, id string, percentage float64) error
	DeleteLogsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Config holds engine configuration.
type Config struct {
	// TickInterval is how often the scheduler looks for due monitors.
	TickInterval time.Duration

	// UptimeWindow is the rolling window for uptime percentage.
	UptimeWindow time.Duration

	// LogRetention prunes uptime logs older than this. Zero keeps
	// everything.
	LogRetention time.Duration

	// EventBuffer is the state change channel capacity.
	EventBuffer int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TickInterval: 30 * time.Second,
		UptimeWindow: 24 * time.Hour,
		EventBuffer:  64,
	}
}

// Engine schedules and executes monitor checks.
type Engine struct {
	store    Store
	registry *probe.Registry
	config   Config
	logger   *slog.Logger

	events chan types.StateChange

	// inflight holds one channel per monitor currently being checked;
	// the channel closes when the slot frees.
	inflight map[string]chan struct{}
	mu       sync.Mutex

	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// New creates a new engine.
func New(store Store, registry *probe.Registry, config Config, logger *slog.Logger) *Engine {
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultConfig().TickInterval
	}
	if config.UptimeWindow <= 0 {
		config.UptimeWindow = DefaultConfig().UptimeWindow
	}
	if config.EventBuffer <= 0 {
		config.EventBuffer = DefaultConfig().EventBuffer
	}
	return &Engine{
		store:    store,
		registry: registry,
		config:   config,
		logger:   logger.With("component", "engine"),
		events:   make(chan types.StateChange, config.EventBuffer),
		inflight: make(map[string]chan struct{}),
		stopCh:   make(chan struct{}),
	}
}

// Events returns the state change stream consumed by the alert dispatcher.
func (e *Engine) Events() <-chan types.StateChange {
	return e.events
}

// Start begins the scheduler in a goroutine. Calling Start on a running
// engine is a no-op.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return
	}
	e.started = true
	e.mu.Unlock()

	e.wg.Add(1)
	go e.run(ctx)
}

// Stop signals the scheduler to stop and waits for in-flight checks to
// finish.
func (e *Engine) Stop() {
	close(e.stopCh)
	e.wg.Wait()
}

func (e *Engine) run(ctx context.Context) {
	defer e.wg.Done()

	e.logger.Info("engine started",
		"tick_interval", e.config.TickInterval,
		"uptime_window", e.config.UptimeWindow,
	)

	// Run immediately on start
	e.sweep(ctx)

	ticker := time.NewTicker(e.config.TickInterval)
	defer ticker.Stop()

	var retentionCh <-chan time.Time
	if e.config.LogRetention > 0 {
		retentionTicker := time.NewTicker(time.Hour)
		defer retentionTicker.Stop()
		retentionCh = retentionTicker.C
	}

	for {
		select {
		case <-ticker.C:
			e.sweep(ctx)
		case <-retentionCh:
			e.pruneLogs(ctx)
		case <-e.stopCh:
			e.logger.Info("engine stopping")
			return
		case <-ctx.Done():
			e.logger.Info("engine context cancelled")
			return
		}
	}
}

// sweep launches a check for every due monitor whose slot is free.
func (e *Engine) sweep(ctx context.Context) {
	monitors, err := e.store.ListMonitors(ctx)
	if err != nil {
		e.logger.Error("failed to list monitors", "error", err)
		return
	}

	now := time.Now()
	for i := range monitors {
		m := monitors[i]
		if !due(&m, now) {
			continue
		}

		release, ok := e.tryAcquire(m.ID)
		if !ok {
			// Previous check still running
			e.logger.Debug("check still in flight, skipping", "monitor_id", m.ID)
			continue
		}

		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			defer release()
			e.checkMonitor(ctx, &m, true)
		}()
	}
}

// due reports whether a monitor's interval has elapsed since its last check.
// Never-checked monitors are always due.
func due(m *types.Monitor, now time.Time) bool {
	if m.LastChecked == nil {
		return true
	}
	return now.Sub(*m.LastChecked) >= time.Duration(m.CheckInterval)*time.Second
}

// CheckNow runs one immediate check for a monitor, serialized against any
// scheduled check through the same in-flight slot. Manual checks update the
// monitor and its logs but never emit alert events. Returns the probe
// outcome, or (nil, nil) when the monitor does not exist.
func (e *Engine) CheckNow(ctx context.Context, id string) (*probe.Result, error) {
	m, err := e.store.GetMonitor(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}

	release, err := e.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	result := e.checkMonitor(ctx, m, false)
	if result == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("no prober registered for kind %q", m.Kind)
	}

	return result, nil
}

// tryAcquire claims a monitor's in-flight slot without blocking.
func (e *Engine) tryAcquire(id string) (func(), bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.inflight[id]; busy {
		return nil, false
	}
	done := make(chan struct{})
	e.inflight[id] = done
	return func() {
		e.mu.Lock()
		delete(e.inflight, id)
		e.mu.Unlock()
		close(done)
	}, true
}

// acquire claims a monitor's in-flight slot, waiting for the current holder
// if there is one.
func (e *Engine) acquire(ctx context.Context, id string) (func(), error) {
	for {
		e.mu.Lock()
		busy, ok := e.inflight[id]
		if !ok {
			done := make(chan struct{})
			e.inflight[id] = done
			e.mu.Unlock()
			return func() {
				e.mu.Lock()
				delete(e.inflight, id)
				e.mu.Unlock()
				close(done)
			}, nil
		}
		e.mu.Unlock()

		select {
		case <-busy:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// pruneLogs removes uptime logs beyond the retention window.
func (e *Engine) pruneLogs(ctx context.Context) {
	cutoff := time.Now().Add(-e.config.LogRetention)
	removed, err := e.store.DeleteLogsBefore(ctx, cutoff)
	if err != nil {
		e.logger.Error("log retention sweep failed", "error", err)
		return
	}
	if removed > 0 {
		e.logger.Info("pruned old uptime logs", "removed", removed, "cutoff", cutoff)
	}
}

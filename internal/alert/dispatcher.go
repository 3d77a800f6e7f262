// Package alert turns monitor state changes into email notifications.
//
// The dispatcher consumes the engine's state change stream. For each event
// it loads the monitor's alert settings, decides whether the transition
// qualifies for an email, and hands the rendered message to a Mailer.
// Delivery failures are logged and swallowed; alerting must never stall the
// monitoring loop.
package alert

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/statustrackr/uptime-mon/pkg/types"
)

// SettingsStore defines the storage interface for the dispatcher.
type SettingsStore interface {
	GetAlertSettingsByMonitor(ctx context.Context, monitorID string) (*types.AlertSettings, error)
}

// Config holds dispatcher configuration.
type Config struct {
	// EmailsPerMinute caps outbound mail rate. Burst allows short spikes.
	EmailsPerMinute float64
	Burst           int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		EmailsPerMinute: 10,
		Burst:           3,
	}
}

// Dispatcher consumes state changes and sends alert emails.
type Dispatcher struct {
	store   SettingsStore
	mailer  Mailer
	limiter *rate.Limiter
	logger  *slog.Logger
	events  <-chan types.StateChange

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher reading from the given event stream.
func NewDispatcher(store SettingsStore, mailer Mailer, events <-chan types.StateChange, config Config, logger *slog.Logger) *Dispatcher {
	if config.EmailsPerMinute <= 0 {
		config.EmailsPerMinute = DefaultConfig().EmailsPerMinute
	}
	if config.Burst <= 0 {
		config.Burst = DefaultConfig().Burst
	}
	return &Dispatcher{
		store:   store,
		mailer:  mailer,
		limiter: rate.NewLimiter(rate.Limit(config.EmailsPerMinute/60.0), config.Burst),
		logger:  logger.With("component", "alert_dispatcher"),
		events:  events,
		stopCh:  make(chan struct{}),
	}
}

// Start begins the dispatcher in a goroutine.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(1)
	go d.run(ctx)
}

// Stop signals the dispatcher to stop and waits for it to drain.
func (d *Dispatcher) Stop() {
	close(d.stopCh)
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()

	d.logger.Info("alert dispatcher started")

	for {
		select {
		case event := <-d.events:
			d.handleEvent(ctx, event)
		case <-d.stopCh:
			d.logger.Info("alert dispatcher stopping")
			return
		case <-ctx.Done():
			return
		}
	}
}

// handleEvent decides whether a transition qualifies for an alert and sends
// it.
func (d *Dispatcher) handleEvent(ctx context.Context, event types.StateChange) {
	settings, err := d.store.GetAlertSettingsByMonitor(ctx, event.Monitor.ID)
	if err != nil {
		d.logger.Error("failed to load alert settings",
			"monitor_id", event.Monitor.ID, "error", err)
		return
	}
	if settings == nil || !settings.EmailEnabled {
		return
	}

	kind, ok := qualify(event, settings)
	if !ok {
		return
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return
	}

	if err := d.send(ctx, kind, event, settings.EmailAddress); err != nil {
		d.logger.Error("failed to send alert email",
			"monitor_id", event.Monitor.ID,
			"kind", kind,
			"to", settings.EmailAddress,
			"error", err,
		)
		return
	}

	d.logger.Info("alert email sent",
		"monitor_id", event.Monitor.ID,
		"name", event.Monitor.Name,
		"kind", kind,
		"transition", string(event.PreviousStatus)+" -> "+string(event.NewStatus),
	)
}

// qualify maps a state transition to an alert kind.
//
// Entering down or warning rides the down channel; recovery fires only when
// coming back up from a degraded status.
func qualify(event types.StateChange, settings *types.AlertSettings) (types.AlertKind, bool) {
	switch event.NewStatus {
	case types.StatusDown, types.StatusWarning:
		if settings.AlertOnDown {
			return types.AlertDown, true
		}
	case types.StatusUp:
		if settings.AlertOnUp &&
			(event.PreviousStatus == types.StatusDown || event.PreviousStatus == types.StatusWarning) {
			return types.AlertRecovery, true
		}
	}
	return "", false
}

func (d *Dispatcher) send(ctx context.Context, kind types.AlertKind, event types.StateChange, to string) error {
	subject, textBody, htmlBody, err := renderEmail(kind, event.Monitor, event.At)
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return d.mailer.Send(sendCtx, to, subject, textBody, htmlBody)
}

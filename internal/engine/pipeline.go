package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/statustrackr/uptime-mon/internal/probe"
	"github.com/statustrackr/uptime-mon/pkg/types"
)

// checkMonitor runs one probe and persists its outcome: monitor row update,
// appended log, and recomputed uptime. When emitEvents is set, a transition
// between two known statuses is published on the events channel. The probe
// result is returned so manual checks can surface it; a discarded check
// returns nil.
func (e *Engine) checkMonitor(ctx context.Context, m *types.Monitor, emitEvents bool) *probe.Result {
	prev := m.Status

	prober, ok := e.registry.Get(m.Kind)
	if !ok {
		e.logger.Error("no prober registered for kind",
			"monitor_id", m.ID, "kind", m.Kind)
		return nil
	}

	result := prober.Probe(ctx, m)

	// A probe cut short by shutdown writes nothing; the partial result
	// would pollute the uptime history.
	if ctx.Err() != nil {
		e.logger.Debug("probe cancelled, discarding result", "monitor_id", m.ID)
		return nil
	}

	now := time.Now()

	if err := e.store.ApplyCheckResult(ctx, m.ID, result.Status, result.ResponseTime, now, &result.Details); err != nil {
		e.logger.Error("failed to update monitor", "monitor_id", m.ID, "error", err)
		return result
	}

	log := &types.UptimeLog{
		ID:           uuid.New().String(),
		MonitorID:    m.ID,
		Timestamp:    now,
		Status:       result.Status,
		ResponseTime: result.ResponseTime,
		ProbeDetails: result.Details,
	}
	if result.ErrorMessage != "" {
		log.ErrorMessage = &result.ErrorMessage
	}
	if err := e.store.InsertLog(ctx, log); err != nil {
		e.logger.Error("failed to insert uptime log", "monitor_id", m.ID, "error", err)
	}

	e.recomputeUptime(ctx, m.ID, now)

	e.logger.Debug("check complete",
		"monitor_id", m.ID,
		"name", m.Name,
		"status", result.Status,
		"previous", prev,
	)

	if emitEvents && prev != types.StatusUnknown && prev != result.Status {
		e.publish(types.StateChange{
			Monitor:        m,
			PreviousStatus: prev,
			NewStatus:      result.Status,
			At:             now,
		})
	}

	return result
}

// recomputeUptime recalculates the rolling uptime percentage from the log
// window. An empty window leaves the stored percentage unchanged.
func (e *Engine) recomputeUptime(ctx context.Context, monitorID string, now time.Time) {
	logs, err := e.store.FindLogsSince(ctx, monitorID, now.Add(-e.config.UptimeWindow))
	if err != nil {
		e.logger.Error("failed to load uptime window", "monitor_id", monitorID, "error", err)
		return
	}
	if len(logs) == 0 {
		return
	}

	up := 0
	for _, log := range logs {
		if log.Status == types.StatusUp {
			up++
		}
	}
	percentage := float64(up) / float64(len(logs)) * 100

	if err := e.store.UpdateUptime(ctx, monitorID, percentage); err != nil {
		e.logger.Error("failed to update uptime", "monitor_id", monitorID, "error", err)
	}
}

// publish sends a state change without blocking the pipeline. If the alert
// dispatcher has fallen behind far enough to fill the buffer, the event is
// dropped with a warning.
func (e *Engine) publish(event types.StateChange) {
	select {
	case e.events <- event:
	default:
		e.logger.Warn("event buffer full, dropping state change",
			"monitor_id", event.Monitor.ID,
			"from", event.PreviousStatus,
			"to", event.NewStatus,
		)
	}
}

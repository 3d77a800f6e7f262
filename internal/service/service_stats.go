package service

import (
	"context"
	"sort"
	"time"

	"github.com/statustrackr/uptime-mon/pkg/types"
)

// =============================================================================
// DASHBOARD AND HISTORY
// =============================================================================

// DashboardStats summarizes the fleet. Overall uptime is the mean of the
// per-monitor rolling percentages, 0 with no monitors.
func (s *Service) DashboardStats(ctx context.Context) (*types.DashboardStats, error) {
	monitors, err := s.store.ListMonitors(ctx)
	if err != nil {
		return nil, err
	}

	stats := &types.DashboardStats{
		TotalMonitors: len(monitors),
	}

	var sum float64
	for _, m := range monitors {
		switch m.Status {
		case types.StatusUp:
			stats.MonitorsUp++
		case types.StatusDown:
			stats.MonitorsDown++
		}
		sum += m.UptimePercentage
	}
	if len(monitors) > 0 {
		stats.OverallUptime = sum / float64(len(monitors))
	}

	return stats, nil
}

// History returns a monitor's logs over the last hours bucketed by clock
// hour, oldest first. Each bucket carries its uptime percentage and the
// average response time in milliseconds over up checks. Returns (nil, nil)
// when the monitor does not exist.
func (s *Service) History(ctx context.Context, monitorID string, hours int) ([]types.HistoryBucket, error) {
	m, err := s.store.GetMonitor(ctx, monitorID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}

	if hours <= 0 {
		hours = 24
	}

	logs, err := s.store.FindLogsSince(ctx, monitorID, time.Now().Add(-time.Duration(hours)*time.Hour))
	if err != nil {
		return nil, err
	}

	return bucketByHour(logs), nil
}

// hourStats accumulates one clock hour of logs.
type hourStats struct {
	total     int
	up        int
	rtSum     float64 // seconds, up checks only
	rtSamples int
}

// bucketByHour groups logs into clock-hour buckets.
func bucketByHour(logs []types.UptimeLog) []types.HistoryBucket {
	hours := make(map[time.Time]*hourStats)
	for _, log := range logs {
		hour := log.Timestamp.Truncate(time.Hour)
		stats, ok := hours[hour]
		if !ok {
			stats = &hourStats{}
			hours[hour] = stats
		}
		stats.total++
		if log.Status == types.StatusUp {
			stats.up++
			if log.ResponseTime != nil {
				stats.rtSum += *log.ResponseTime
				stats.rtSamples++
			}
		}
	}

	buckets := make([]types.HistoryBucket, 0, len(hours))
	for hour, stats := range hours {
		bucket := types.HistoryBucket{
			Timestamp:        hour,
			UptimePercentage: float64(stats.up) / float64(stats.total) * 100,
			TotalChecks:      stats.total,
		}
		if stats.rtSamples > 0 {
			bucket.AvgResponseTime = stats.rtSum / float64(stats.rtSamples) * 1000
		}
		buckets = append(buckets, bucket)
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Timestamp.Before(buckets[j].Timestamp)
	})

	return buckets
}

// maxLogsPerQuery caps the raw-log endpoint payload.
const maxLogsPerQuery = 1000

// Logs returns a monitor's raw logs over the last hours, newest first,
// capped at maxLogsPerQuery.
func (s *Service) Logs(ctx context.Context, monitorID string, hours int) ([]types.UptimeLog, error) {
	if hours <= 0 {
		hours = 24
	}

	logs, err := s.store.FindLogsSince(ctx, monitorID, time.Now().Add(-time.Duration(hours)*time.Hour))
	if err != nil {
		return nil, err
	}

	sort.Slice(logs, func(i, j int) bool {
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
	if len(logs) > maxLogsPerQuery {
		logs = logs[:maxLogsPerQuery]
	}

	return logs, nil
}

package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/statustrackr/uptime-mon/pkg/types"
)

// =============================================================================
// UPTIME LOGS
// =============================================================================

// InsertLog appends one probe outcome to a monitor's history.
func (s *Store) InsertLog(ctx context.Context, log *types.UptimeLog) error {
	detailsJSON, _ := json.Marshal(log.ProbeDetails)
	_, err := s.pool.Exec(ctx, `
		INSERT INTO uptime_logs (id, monitor_id, timestamp, status, response_time, error_message, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		log.ID, log.MonitorID, log.Timestamp, log.Status,
		log.ResponseTime, log.ErrorMessage, detailsJSON,
	)
	return err
}

// FindLogsSince returns a monitor's logs at or after the cutoff, oldest
// first.
func (s *Store) FindLogsSince(ctx context.Context, monitorID string, since time.Time) ([]types.UptimeLog, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, monitor_id, timestamp, status, response_time, error_message, details
		FROM uptime_logs
		WHERE monitor_id = $1 AND timestamp >= $2
		ORDER BY timestamp
	`, monitorID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []types.UptimeLog
	for rows.Next() {
		var log types.UptimeLog
		var detailsJSON []byte
		if err := rows.Scan(
			&log.ID, &log.MonitorID, &log.Timestamp, &log.Status,
			&log.ResponseTime, &log.ErrorMessage, &detailsJSON,
		); err != nil {
			return nil, err
		}
		if len(detailsJSON) > 0 {
			json.Unmarshal(detailsJSON, &log.ProbeDetails)
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// DeleteLogsBefore prunes logs older than the cutoff across all monitors.
// Returns the number of rows removed.
func (s *Store) DeleteLogsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.pool.Exec(ctx, `
		DELETE FROM uptime_logs WHERE timestamp < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

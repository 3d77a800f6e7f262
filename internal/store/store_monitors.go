package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/statustrackr/uptime-mon/pkg/types"
)

// monitorColumns is the column list shared by every monitor query. Scan
// order must match scanMonitor.
const monitorColumns = `
	id, name, monitor_type, url, check_interval, timeout,
	status, last_checked, response_time, uptime_percentage, created_at,
	ssl_domain, ssl_expiry_threshold, ssl_expires_at,
	dns_hostname, dns_server, dns_record_type, expected_dns_result,
	port_host, port_number, port_protocol,
	ping_host, ping_count, ping_packet_size, ping_packet_loss,
	keyword_url, keyword_text, keyword_match_type, keyword_found,
	api_url, api_method, api_headers, api_body,
	expected_status_code, expected_response_time,
	json_path, expected_json_value, actual_status_code, json_validation_result`

// scanMonitor reads one monitor row. Works for both QueryRow and Query
// result rows.
func scanMonitor(row pgx.Row) (*types.Monitor, error) {
	var m types.Monitor
	var headersJSON []byte
	err := row.Scan(
		&m.ID, &m.Name, &m.Kind, &m.URL, &m.CheckInterval, &m.Timeout,
		&m.Status, &m.LastChecked, &m.ResponseTime, &m.UptimePercentage, &m.CreatedAt,
		&m.SSLDomain, &m.SSLExpiryThreshold, &m.SSLExpiresAt,
		&m.DNSHostname, &m.DNSServer, &m.DNSRecordType, &m.ExpectedDNSResult,
		&m.PortHost, &m.PortNumber, &m.PortProtocol,
		&m.PingHost, &m.PingCount, &m.PingPacketSize, &m.PingPacketLoss,
		&m.KeywordURL, &m.KeywordText, &m.KeywordMatchType, &m.KeywordFound,
		&m.APIURL, &m.APIMethod, &headersJSON, &m.APIBody,
		&m.ExpectedStatusCode, &m.ExpectedResponseTime,
		&m.JSONPath, &m.ExpectedJSONValue, &m.ActualStatusCode, &m.JSONValidationResult,
	)
	if err != nil {
		return nil, err
	}
	if len(headersJSON) > 0 {
		json.Unmarshal(headersJSON, &m.APIHeaders)
	}
	return &m, nil
}

// CreateMonitor inserts a new monitor.
func (s *Store) CreateMonitor(ctx context.Context, m *types.Monitor) error {
	headersJSON, _ := json.Marshal(m.APIHeaders)
	_, err := s.pool.Exec(ctx, `
		INSERT INTO monitors (
			id, name, monitor_type, url, check_interval, timeout,
			status, uptime_percentage, created_at,
			ssl_domain, ssl_expiry_threshold,
			dns_hostname, dns_server, dns_record_type, expected_dns_result,
			port_host, port_number, port_protocol,
			ping_host, ping_count, ping_packet_size,
			keyword_url, keyword_text, keyword_match_type,
			api_url, api_method, api_headers, api_body,
			expected_status_code, expected_response_time,
			json_path, expected_json_value
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27,
			$28, $29, $30, $31, $32)
	`,
		m.ID, m.Name, m.Kind, m.URL, m.CheckInterval, m.Timeout,
		m.Status, m.UptimePercentage, m.CreatedAt,
		m.SSLDomain, m.SSLExpiryThreshold,
		m.DNSHostname, m.DNSServer, m.DNSRecordType, m.ExpectedDNSResult,
		m.PortHost, m.PortNumber, m.PortProtocol,
		m.PingHost, m.PingCount, m.PingPacketSize,
		m.KeywordURL, m.KeywordText, m.KeywordMatchType,
		m.APIURL, m.APIMethod, headersJSON, m.APIBody,
		m.ExpectedStatusCode, m.ExpectedResponseTime,
		m.JSONPath, m.ExpectedJSONValue,
	)
	return err
}

// GetMonitor retrieves a monitor by ID. Returns (nil, nil) when not found.
func (s *Store) GetMonitor(ctx context.Context, id string) (*types.Monitor, error) {
	m, err := scanMonitor(s.pool.QueryRow(ctx,
		`SELECT `+monitorColumns+` FROM monitors WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListMonitors returns all monitors ordered by creation time.
func (s *Store) ListMonitors(ctx context.Context) ([]types.Monitor, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+monitorColumns+` FROM monitors ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var monitors []types.Monitor
	for rows.Next() {
		m, err := scanMonitor(rows)
		if err != nil {
			return nil, err
		}
		monitors = append(monitors, *m)
	}
	return monitors, rows.Err()
}

// UpdateMonitor replaces a monitor's configuration. Runtime fields (status,
// last_checked, response_time, uptime_percentage) are not touched.
func (s *Store) UpdateMonitor(ctx context.Context, m *types.Monitor) error {
	headersJSON, _ := json.Marshal(m.APIHeaders)
	result, err := s.pool.Exec(ctx, `
		UPDATE monitors SET
			name = $2, monitor_type = $3, url = $4, check_interval = $5, timeout = $6,
			ssl_domain = $7, ssl_expiry_threshold = $8,
			dns_hostname = $9, dns_server = $10, dns_record_type = $11, expected_dns_result = $12,
			port_host = $13, port_number = $14, port_protocol = $15,
			ping_host = $16, ping_count = $17, ping_packet_size = $18,
			keyword_url = $19, keyword_text = $20, keyword_match_type = $21,
			api_url = $22, api_method = $23, api_headers = $24, api_body = $25,
			expected_status_code = $26, expected_response_time = $27,
			json_path = $28, expected_json_value = $29
		WHERE id = $1
	`,
		m.ID, m.Name, m.Kind, m.URL, m.CheckInterval, m.Timeout,
		m.SSLDomain, m.SSLExpiryThreshold,
		m.DNSHostname, m.DNSServer, m.DNSRecordType, m.ExpectedDNSResult,
		m.PortHost, m.PortNumber, m.PortProtocol,
		m.PingHost, m.PingCount, m.PingPacketSize,
		m.KeywordURL, m.KeywordText, m.KeywordMatchType,
		m.APIURL, m.APIMethod, headersJSON, m.APIBody,
		m.ExpectedStatusCode, m.ExpectedResponseTime,
		m.JSONPath, m.ExpectedJSONValue,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("monitor not found: %s", m.ID)
	}
	return nil
}

// ApplyCheckResult records the runtime outcome of one probe on the monitor
// row: status, response time, last checked, and any kind-specific snapshot
// fields carried in details.
func (s *Store) ApplyCheckResult(ctx context.Context, id string, status types.MonitorStatus, responseTime *float64, checkedAt time.Time, details *types.ProbeDetails) error {
	result, err := s.pool.Exec(ctx, `
		UPDATE monitors SET
			status = $2, response_time = $3, last_checked = $4,
			ssl_expires_at = COALESCE($5, ssl_expires_at),
			ping_packet_loss = COALESCE($6, ping_packet_loss),
			keyword_found = COALESCE($7, keyword_found),
			actual_status_code = COALESCE($8, actual_status_code),
			json_validation_result = COALESCE($9, json_validation_result)
		WHERE id = $1
	`,
		id, status, responseTime, checkedAt,
		details.SSLExpiresAt, details.PingPacketLoss, details.KeywordFound,
		details.APIStatusCode, details.JSONValidationPassed,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("monitor not found: %s", id)
	}
	return nil
}

// UpdateUptime stores a freshly computed 24h uptime percentage.
func (s *Store) UpdateUptime(ctx context.Context, id string, percentage float64) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE monitors SET uptime_percentage = $2 WHERE id = $1
	`, id, percentage)
	return err
}

// DeleteMonitor removes a monitor. Its uptime logs and alert settings go
// with it via ON DELETE CASCADE.
func (s *Store) DeleteMonitor(ctx context.Context, id string) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM monitors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("monitor not found: %s", id)
	}
	return nil
}

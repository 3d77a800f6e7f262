// Package types defines the core domain types shared between the probe
// engine, the store, and the management API.
//
// # Design Principles
//
// 1. Simplicity: Types represent the domain model directly, no ORM abstractions
// 2. Serialization: All types are JSON-serializable for API transport
// 3. Kind-parametric monitors: one record carries every kind's fields; fields
//    that do not apply to a monitor's kind are nil and omitted from JSON
package types

import (
	"time"
)

// =============================================================================
// MONITOR
// =============================================================================

// MonitorStatus is the current availability state of a monitor.
type MonitorStatus string

const (
	// StatusUp - last probe succeeded
	StatusUp MonitorStatus = "up"
	// StatusDown - last probe failed
	StatusDown MonitorStatus = "down"
	// StatusWarning - degraded but not failed (SSL expiring, partial packet loss, slow API)
	StatusWarning MonitorStatus = "warning"
	// StatusUnknown - never probed
	StatusUnknown MonitorStatus = "unknown"
)

// MonitorKind selects which probe primitive checks a monitor.
type MonitorKind string

const (
	KindHTTP    MonitorKind = "http"
	KindHTTPS   MonitorKind = "https"
	KindSSL     MonitorKind = "ssl"
	KindDNS     MonitorKind = "dns"
	KindPort    MonitorKind = "port"
	KindPing    MonitorKind = "ping"
	KindKeyword MonitorKind = "keyword"
	KindAPI     MonitorKind = "api"
)

// PortProtocol is the transport protocol for port monitors.
type PortProtocol string

const (
	ProtocolTCP PortProtocol = "tcp"
	ProtocolUDP PortProtocol = "udp"
)

// DNSRecordType is the record type queried by DNS monitors.
type DNSRecordType string

const (
	DNSRecordA     DNSRecordType = "A"
	DNSRecordAAAA  DNSRecordType = "AAAA"
	DNSRecordCNAME DNSRecordType = "CNAME"
	DNSRecordMX    DNSRecordType = "MX"
	DNSRecordNS    DNSRecordType = "NS"
	DNSRecordTXT   DNSRecordType = "TXT"
)

// KeywordMatchType selects the keyword predicate for keyword monitors.
type KeywordMatchType string

const (
	MatchContains KeywordMatchType = "contains"
	MatchExact    KeywordMatchType = "exact"
	MatchRegex    KeywordMatchType = "regex"
)

// Monitor is a declared target-plus-policy whose availability the engine
// tracks. The record is kind-parametric: all kind-specific fields live on the
// one struct and only those matching Kind are consulted by the probes.
type Monitor struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Kind          MonitorKind `json:"monitor_type"`
	URL           *string     `json:"url,omitempty"`
	CheckInterval int         `json:"check_interval"` // seconds
	Timeout       int         `json:"timeout"`        // seconds

	Status           MonitorStatus `json:"status"`
	LastChecked      *time.Time    `json:"last_checked,omitempty"`
	ResponseTime     *float64      `json:"response_time,omitempty"` // seconds
	UptimePercentage float64       `json:"uptime_percentage"`
	CreatedAt        time.Time     `json:"created_at"`

	// SSL monitors
	SSLDomain          *string    `json:"ssl_domain,omitempty"`
	SSLExpiryThreshold *int       `json:"ssl_expiry_threshold,omitempty"` // days
	SSLExpiresAt       *time.Time `json:"ssl_expires_at,omitempty"`

	// DNS monitors
	DNSHostname       *string        `json:"dns_hostname,omitempty"`
	DNSServer         *string        `json:"dns_server,omitempty"`
	DNSRecordType     *DNSRecordType `json:"dns_record_type,omitempty"`
	ExpectedDNSResult *string        `json:"expected_dns_result,omitempty"`

	// Port monitors
	PortHost     *string       `json:"port_host,omitempty"`
	PortNumber   *int          `json:"port_number,omitempty"`
	PortProtocol *PortProtocol `json:"port_protocol,omitempty"`

	// Ping monitors
	PingHost       *string  `json:"ping_host,omitempty"`
	PingCount      *int     `json:"ping_count,omitempty"`
	PingPacketSize *int     `json:"ping_packet_size,omitempty"`
	PingPacketLoss *float64 `json:"ping_packet_loss,omitempty"`

	// Keyword monitors
	KeywordURL       *string           `json:"keyword_url,omitempty"`
	KeywordText      *string           `json:"keyword_text,omitempty"`
	KeywordMatchType *KeywordMatchType `json:"keyword_match_type,omitempty"`
	KeywordFound     *bool             `json:"keyword_found,omitempty"`

	// API monitors
	APIURL               *string           `json:"api_url,omitempty"`
	APIMethod            *string           `json:"api_method,omitempty"`
	APIHeaders           map[string]string `json:"api_headers,omitempty"`
	APIBody              *string           `json:"api_body,omitempty"`
	ExpectedStatusCode   *int              `json:"expected_status_code,omitempty"`
	ExpectedResponseTime *float64          `json:"expected_response_time,omitempty"` // seconds
	JSONPath             *string           `json:"json_path,omitempty"`
	ExpectedJSONValue    *string           `json:"expected_json_value,omitempty"`
	ActualStatusCode     *int              `json:"actual_status_code,omitempty"`
	JSONValidationResult *bool             `json:"json_validation_result,omitempty"`
}

// RepresentativeURL returns the first configured endpoint field, used for
// alert rendering. Order: url, ssl_domain, dns_hostname, port_host,
// ping_host, keyword_url, api_url.
func (m *Monitor) RepresentativeURL() string {
	for _, f := range []*string{m.URL, m.SSLDomain, m.DNSHostname, m.PortHost, m.PingHost, m.KeywordURL, m.APIURL} {
		if f != nil && *f != "" {
			return *f
		}
	}
	return "N/A"
}

// =============================================================================
// UPTIME LOG
// =============================================================================

// ProbeDetails carries the kind-specific outcome of a single probe.
// Only the fields matching the monitor's kind are populated.
type ProbeDetails struct {
	SSLExpiresAt       *time.Time `json:"ssl_expires_at,omitempty"`
	SSLDaysUntilExpiry *int       `json:"ssl_days_until_expiry,omitempty"`

	DNSResolutionTime *float64 `json:"dns_resolution_time,omitempty"` // seconds
	DNSResult         *string  `json:"dns_result,omitempty"`

	PortOpen *bool `json:"port_open,omitempty"`

	PingPacketLoss *float64 `json:"ping_packet_loss,omitempty"` // percent
	PingMinTime    *float64 `json:"ping_min_time,omitempty"`    // seconds
	PingMaxTime    *float64 `json:"ping_max_time,omitempty"`
	PingAvgTime    *float64 `json:"ping_avg_time,omitempty"`

	KeywordFound      *bool `json:"keyword_found,omitempty"`
	KeywordMatchCount *int  `json:"keyword_match_count,omitempty"`

	APIStatusCode        *int  `json:"api_status_code,omitempty"`
	APIResponseSize      *int  `json:"api_response_size,omitempty"` // bytes
	JSONValidationPassed *bool `json:"json_validation_passed,omitempty"`
}

// UptimeLog is the persisted record of one completed probe. Logs are
// append-only; they are never mutated after insertion.
type UptimeLog struct {
	ID           string        `json:"id"`
	MonitorID    string        `json:"monitor_id"`
	Timestamp    time.Time     `json:"timestamp"`
	Status       MonitorStatus `json:"status"`
	ResponseTime *float64      `json:"response_time,omitempty"` // seconds
	ErrorMessage *string       `json:"error_message,omitempty"`

	ProbeDetails
}

// =============================================================================
// STATE CHANGES
// =============================================================================

// StateChange is emitted by the check pipeline when a monitor transitions
// between two known statuses. Transitions out of StatusUnknown are never
// emitted.
type StateChange struct {
	Monitor        *Monitor      `json:"monitor"`
	PreviousStatus MonitorStatus `json:"previous_status"`
	NewStatus      MonitorStatus `json:"new_status"`
	At             time.Time     `json:"at"`
}

// =============================================================================
// DASHBOARD
// =============================================================================

// DashboardStats summarizes the fleet for the dashboard endpoint.
type DashboardStats struct {
	TotalMonitors int     `json:"total_monitors"`
	MonitorsUp    int     `json:"monitors_up"`
	MonitorsDown  int     `json:"monitors_down"`
	OverallUptime float64 `json:"overall_uptime"`
}

// HistoryBucket is one clock-hour aggregate of a monitor's logs.
type HistoryBucket struct {
	Timestamp        time.Time `json:"timestamp"`
	UptimePercentage float64   `json:"uptime_percentage"`
	AvgResponseTime  float64   `json:"avg_response_time"` // milliseconds, over UP logs
	TotalChecks      int       `json:"total_checks"`
}

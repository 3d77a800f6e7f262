package config

import "time"

// Scheduler defaults.
const (
	// DefaultTickInterval is how often the engine scans for due monitors.
	DefaultTickInterval = 30 * time.Second

	// DefaultUptimeWindow is the rolling window for uptime percentages.
	DefaultUptimeWindow = 24 * time.Hour
)

// Cache TTLs for API response caching.
const (
	// CacheTTLDashboardStats is the TTL for dashboard summary data.
	CacheTTLDashboardStats = 30 * time.Second

	// CacheTTLHistory is the TTL for hourly history data.
	CacheTTLHistory = 60 * time.Second

	// CacheTTLHealth is the TTL for service health data.
	CacheTTLHealth = 60 * time.Second
)

// Connection timeouts.
const (
	// DatabasePingTimeout is the timeout for database connectivity checks.
	DatabasePingTimeout = 5 * time.Second

	// RedisConnectionTimeout is the timeout for Redis connectivity checks.
	RedisConnectionTimeout = 5 * time.Second

	// ShutdownTimeout is the grace period for draining in-flight requests.
	ShutdownTimeout = 10 * time.Second
)

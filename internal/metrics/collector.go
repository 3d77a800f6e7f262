// Package metrics provides service health metrics for the diagnostics
// endpoint.
package metrics

import (
	"context"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/statustrackr/uptime-mon/db/migrate"
	"github.com/statustrackr/uptime-mon/internal/store"
)

// ServerHealth describes the running process.
type ServerHealth struct {
	Status        string  `json:"status"`
	Goroutines    int     `json:"goroutines"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryRSSMB   float64 `json:"memory_rss_mb"`
}

// DatabaseHealth describes the connection pool.
type DatabaseHealth struct {
	Status           string `json:"status"`
	TotalConns       int32  `json:"total_conns"`
	IdleConns        int32  `json:"idle_conns"`
	AcquiredConns    int32  `json:"acquired_conns"`
	MaxConns         int32  `json:"max_conns"`
	PingLatencyMicro int64  `json:"ping_latency_us"`
}

// MigrationsHealth describes the schema migration state.
type MigrationsHealth struct {
	Status  string   `json:"status"`
	Applied int      `json:"applied"`
	Pending []string `json:"pending,omitempty"`
}

// Health is the full diagnostics payload.
type Health struct {
	Timestamp  time.Time        `json:"timestamp"`
	Server     ServerHealth     `json:"server"`
	Database   DatabaseHealth   `json:"database"`
	Migrations MigrationsHealth `json:"migrations"`
}

// Collector gathers service health metrics with a short TTL cache, so the
// diagnostics endpoint cannot hammer the process or the pool.
type Collector struct {
	store     *store.Store
	startTime time.Time

	mu            sync.RWMutex
	cachedHealth  *Health
	cacheExpiry   time.Time
	cacheDuration time.Duration
}

// NewCollector creates a new metrics collector.
func NewCollector(store *store.Store) *Collector {
	return &Collector{
		store:         store,
		startTime:     time.Now(),
		cacheDuration: 30 * time.Second,
	}
}

// GetHealth returns current service health, cached for 30 seconds.
func (c *Collector) GetHealth(ctx context.Context) (*Health, error) {
	c.mu.RLock()
	if c.cachedHealth != nil && time.Now().Before(c.cacheExpiry) {
		health := *c.cachedHealth
		c.mu.RUnlock()
		return &health, nil
	}
	c.mu.RUnlock()

	health := &Health{
		Timestamp:  time.Now(),
		Server:     c.collectServerHealth(),
		Database:   c.collectDatabaseHealth(ctx),
		Migrations: c.collectMigrationsHealth(ctx),
	}

	c.mu.Lock()
	c.cachedHealth = health
	c.cacheExpiry = time.Now().Add(c.cacheDuration)
	c.mu.Unlock()

	return health, nil
}

func (c *Collector) collectServerHealth() ServerHealth {
	health := ServerHealth{
		Status:        "healthy",
		Goroutines:    runtime.NumGoroutine(),
		UptimeSeconds: int64(time.Since(c.startTime).Seconds()),
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err == nil {
		if cpu, err := proc.CPUPercent(); err == nil {
			health.CPUPercent = cpu
		}
		if mem, err := proc.MemoryInfo(); err == nil {
			health.MemoryRSSMB = float64(mem.RSS) / 1024 / 1024
		}
	}

	return health
}

func (c *Collector) collectDatabaseHealth(ctx context.Context) DatabaseHealth {
	health := DatabaseHealth{Status: "healthy"}

	start := time.Now()
	if err := c.store.Ping(ctx); err != nil {
		health.Status = "error"
		return health
	}
	health.PingLatencyMicro = time.Since(start).Microseconds()

	stat := c.store.Pool().Stat()
	health.TotalConns = stat.TotalConns()
	health.IdleConns = stat.IdleConns()
	health.AcquiredConns = stat.AcquiredConns()
	health.MaxConns = stat.MaxConns()

	return health
}

func (c *Collector) collectMigrationsHealth(ctx context.Context) MigrationsHealth {
	status, err := migrate.GetStatus(ctx, c.store.Pool())
	if err != nil {
		return MigrationsHealth{Status: "error"}
	}
	return migrationsHealthFrom(status)
}

func migrationsHealthFrom(status *migrate.Status) MigrationsHealth {
	health := MigrationsHealth{
		Status:  "up_to_date",
		Applied: len(status.Applied),
		Pending: status.Pending,
	}
	if len(status.Pending) > 0 {
		health.Status = "pending"
	}
	return health
}

// Package probe implements the per-kind check primitives.
//
// # Design Principles
//
// 1. Interface Segregation: one small interface every probe kind implements
// 2. Purity: probers talk only to the external target, never to the store
// 3. Hard deadlines: every probe carries the monitor's timeout as a context
//    deadline and absorbs all target failures into the Result
//
// # Adding New Probers
//
// To add a new monitor kind:
//
//  1. Create a new file (e.g. grpc.go) implementing the Prober interface
//  2. Populate the kind-specific ProbeDetails fields for your probe
//  3. Register the prober in NewDefaultRegistry
package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/statustrackr/uptime-mon/pkg/types"
)

// Default monitor parameters applied when a field is unset.
const (
	DefaultTimeout         = 10 * time.Second
	DefaultSSLPort         = "443"
	DefaultSSLThresholdDay = 30
	DefaultDNSServer       = "8.8.8.8"
	DefaultPingCount       = 4
	DefaultPingPacketSize  = 32
)

// Result is the outcome of one probe invocation.
type Result struct {
	Status       types.MonitorStatus `json:"status"`
	ResponseTime *float64            `json:"response_time,omitempty"` // seconds
	ErrorMessage string              `json:"error,omitempty"`
	Details      types.ProbeDetails  `json:"details"`
}

// Prober is the interface all probe kinds implement.
type Prober interface {
	// Kinds returns the monitor kinds this prober handles.
	Kinds() []types.MonitorKind

	// Probe runs one check against the monitor's target. It never returns an
	// error: target and transport failures become a down or warning Result.
	// The only exception is context cancellation, visible via ctx.Err().
	Probe(ctx context.Context, m *types.Monitor) *Result
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry maps monitor kinds to their probers.
type Registry struct {
	probers map[types.MonitorKind]Prober
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		probers: make(map[types.MonitorKind]Prober),
	}
}

// NewDefaultRegistry creates a registry with all seven probe kinds registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, p := range []Prober{
		NewHTTPProber(),
		NewSSLProber(),
		NewDNSProber(),
		NewPortProber(),
		NewPingProber(),
		NewKeywordProber(),
		NewAPIProber(),
	} {
		// Default probers have disjoint kinds, Register cannot fail here.
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds a prober for each of its kinds.
// Returns an error if a kind is already registered.
func (r *Registry) Register(p Prober) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, kind := range p.Kinds() {
		if _, exists := r.probers[kind]; exists {
			return fmt.Errorf("prober already registered for kind: %s", kind)
		}
		r.probers[kind] = p
	}
	return nil
}

// Get returns the prober for a monitor kind.
func (r *Registry) Get(kind types.MonitorKind) (Prober, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.probers[kind]
	return p, ok
}

// Kinds returns all registered monitor kinds.
func (r *Registry) Kinds() []types.MonitorKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]types.MonitorKind, 0, len(r.probers))
	for k := range r.probers {
		kinds = append(kinds, k)
	}
	return kinds
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// timeoutFor returns the monitor's probe deadline.
func timeoutFor(m *types.Monitor) time.Duration {
	if m.Timeout > 0 {
		return time.Duration(m.Timeout) * time.Second
	}
	return DefaultTimeout
}

// isTimeout reports whether err was caused by a deadline rather than the
// target misbehaving.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// down builds a failed Result with the elapsed time and message.
func down(elapsed time.Duration, msg string) *Result {
	return &Result{
		Status:       types.StatusDown,
		ResponseTime: ptr(elapsed.Seconds()),
		ErrorMessage: msg,
	}
}

// ptr returns a pointer to the given value.
func ptr[T any](v T) *T {
	return &v
}

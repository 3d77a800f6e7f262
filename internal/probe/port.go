package probe

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/statustrackr/uptime-mon/pkg/types"
)

// PortProber checks reachability of a TCP or UDP port.
//
// TCP: a successful connect-then-close is up. UDP is connectionless, so the
// best we can do is open a connected socket; any non-error is reported up.
type PortProber struct {
	dialer *net.Dialer
}

// NewPortProber creates a port connectivity prober.
func NewPortProber() *PortProber {
	return &PortProber{
		dialer: &net.Dialer{},
	}
}

// Kinds returns the monitor kinds this prober handles.
func (p *PortProber) Kinds() []types.MonitorKind {
	return []types.MonitorKind{types.KindPort}
}

// Probe attempts to open the monitor's port.
func (p *PortProber) Probe(ctx context.Context, m *types.Monitor) *Result {
	host := ""
	if m.PortHost != nil {
		host = *m.PortHost
	}
	port := 0
	if m.PortNumber != nil {
		port = *m.PortNumber
	}
	protocol := types.ProtocolTCP
	if m.PortProtocol != nil {
		protocol = *m.PortProtocol
	}

	ctx, cancel := context.WithTimeout(ctx, timeoutFor(m))
	defer cancel()

	var network string
	switch protocol {
	case types.ProtocolTCP:
		network = "tcp"
	case types.ProtocolUDP:
		network = "udp"
	default:
		result := down(0, fmt.Sprintf("Unsupported protocol: %s", protocol))
		result.Details.PortOpen = ptr(false)
		return result
	}

	start := time.Now()
	conn, err := p.dialer.DialContext(ctx, network, net.JoinHostPort(host, strconv.Itoa(port)))
	elapsed := time.Since(start)
	if err != nil {
		result := down(elapsed, err.Error())
		result.Details.PortOpen = ptr(false)
		return result
	}
	conn.Close()

	return &Result{
		Status:       types.StatusUp,
		ResponseTime: ptr(elapsed.Seconds()),
		Details: types.ProbeDetails{
			PortOpen: ptr(true),
		},
	}
}

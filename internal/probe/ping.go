package probe

import (
	"context"
	"fmt"

	probing "github.com/prometheus-community/pro-bing"

	"github.com/statustrackr/uptime-mon/pkg/types"
)

// PingProber sends ICMP echo requests and classifies the monitor by packet
// loss:
//
//	loss == 0        → up
//	0 < loss < 100   → warning
//	loss == 100      → down
//
// Response time is the average round trip in seconds.
type PingProber struct{}

// NewPingProber creates an ICMP ping prober.
func NewPingProber() *PingProber {
	return &PingProber{}
}

// Kinds returns the monitor kinds this prober handles.
func (p *PingProber) Kinds() []types.MonitorKind {
	return []types.MonitorKind{types.KindPing}
}

// Probe pings the monitor's host.
func (p *PingProber) Probe(ctx context.Context, m *types.Monitor) *Result {
	host := ""
	if m.PingHost != nil {
		host = *m.PingHost
	}

	count := DefaultPingCount
	if m.PingCount != nil && *m.PingCount > 0 {
		count = *m.PingCount
	}
	size := DefaultPingPacketSize
	if m.PingPacketSize != nil && *m.PingPacketSize > 0 {
		size = *m.PingPacketSize
	}

	pinger, err := probing.NewPinger(host)
	if err != nil {
		return &Result{
			Status:       types.StatusDown,
			ErrorMessage: fmt.Sprintf("Ping failed: %v", err),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, timeoutFor(m))
	defer cancel()

	pinger.Count = count
	pinger.Size = size
	pinger.Timeout = timeoutFor(m)
	// Raw ICMP sockets; requires root or CAP_NET_RAW, same as the system ping.
	pinger.SetPrivileged(true)

	if err := pinger.RunWithContext(ctx); err != nil {
		// Transport errors carry no loss statistics.
		return &Result{
			Status:       types.StatusDown,
			ErrorMessage: fmt.Sprintf("Ping failed: %v", err),
		}
	}

	return classifyPing(pinger.Statistics())
}

// classifyPing maps ping statistics to a probe outcome.
func classifyPing(stats *probing.Statistics) *Result {
	loss := stats.PacketLoss

	if stats.PacketsRecv == 0 || loss >= 100 {
		return &Result{
			Status:       types.StatusDown,
			ErrorMessage: "100% packet loss",
			Details:      types.ProbeDetails{PingPacketLoss: ptr(100.0)},
		}
	}

	avg := stats.AvgRtt.Seconds()

	status := types.StatusUp
	if loss > 0 {
		status = types.StatusWarning
	}

	return &Result{
		Status:       status,
		ResponseTime: ptr(avg),
		Details: types.ProbeDetails{
			PingPacketLoss: ptr(loss),
			PingMinTime:    ptr(stats.MinRtt.Seconds()),
			PingMaxTime:    ptr(stats.MaxRtt.Seconds()),
			PingAvgTime:    ptr(avg),
		},
	}
}

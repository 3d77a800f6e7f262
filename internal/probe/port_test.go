package probe

import (
	"context"
	"net"
	"testing"

	"github.com/statustrackr/uptime-mon/internal/testutil"
	"github.com/statustrackr/uptime-mon/pkg/types"
)

func portMonitor(host string, port int, protocol types.PortProtocol) *types.Monitor {
	return testutil.FixtureMonitor(func(m *types.Monitor) {
		m.Kind = types.KindPort
		m.URL = nil
		m.PortHost = &host
		m.PortNumber = &port
		m.PortProtocol = &protocol
		m.Timeout = 2
	})
}

func TestPortProber_TCPOpen(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	result := NewPortProber().Probe(context.Background(), portMonitor("127.0.0.1", port, types.ProtocolTCP))

	if result.Status != types.StatusUp {
		t.Fatalf("expected up, got %s (%s)", result.Status, result.ErrorMessage)
	}
	if result.Details.PortOpen == nil || !*result.Details.PortOpen {
		t.Error("expected port_open true")
	}
	if result.ResponseTime == nil {
		t.Error("expected a response time")
	}
}

func TestPortProber_TCPClosed(t *testing.T) {
	// Grab a free port and release it so the connect is refused.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	result := NewPortProber().Probe(context.Background(), portMonitor("127.0.0.1", port, types.ProtocolTCP))

	if result.Status != types.StatusDown {
		t.Fatalf("expected down, got %s", result.Status)
	}
	if result.Details.PortOpen == nil || *result.Details.PortOpen {
		t.Error("expected port_open false")
	}
	if result.ErrorMessage == "" {
		t.Error("expected an error message")
	}
}

func TestPortProber_UDP(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer pc.Close()

	port := pc.LocalAddr().(*net.UDPAddr).Port
	result := NewPortProber().Probe(context.Background(), portMonitor("127.0.0.1", port, types.ProtocolUDP))

	// A UDP dial only binds a connected socket, so this is always up.
	if result.Status != types.StatusUp {
		t.Fatalf("expected up, got %s (%s)", result.Status, result.ErrorMessage)
	}
}

func TestPortProber_UnsupportedProtocol(t *testing.T) {
	result := NewPortProber().Probe(context.Background(), portMonitor("127.0.0.1", 80, types.PortProtocol("sctp")))

	if result.Status != types.StatusDown {
		t.Fatalf("expected down, got %s", result.Status)
	}
	if result.ErrorMessage != "Unsupported protocol: sctp" {
		t.Errorf("unexpected message: %q", result.ErrorMessage)
	}
	if result.Details.PortOpen == nil || *result.Details.PortOpen {
		t.Error("expected port_open false")
	}
}

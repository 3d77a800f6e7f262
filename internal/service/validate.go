package service

import (
	"fmt"

	"github.com/statustrackr/uptime-mon/pkg/types"
)

// ValidationError marks a request the API should reject with 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// validateMonitor checks the kind-specific configuration and produces a
// diagnostic naming the missing field.
func validateMonitor(m *types.Monitor) error {
	if m.Name == "" {
		return invalid("Name is required")
	}
	if m.CheckInterval < 0 {
		return invalid("Check interval must be positive")
	}
	if m.Timeout < 0 {
		return invalid("Timeout must be positive")
	}

	switch m.Kind {
	case types.KindHTTP, types.KindHTTPS:
		if m.URL == nil || *m.URL == "" {
			return invalid("URL is required for HTTP/HTTPS monitors")
		}
	case types.KindSSL:
		if m.SSLDomain == nil || *m.SSLDomain == "" {
			return invalid("Domain is required for SSL monitors")
		}
	case types.KindDNS:
		if m.DNSHostname == nil || *m.DNSHostname == "" {
			return invalid("Hostname is required for DNS monitors")
		}
	case types.KindPort:
		if m.PortHost == nil || *m.PortHost == "" || m.PortNumber == nil {
			return invalid("Host and port are required for port monitors")
		}
		if *m.PortNumber < 1 || *m.PortNumber > 65535 {
			return invalid("Port must be between 1 and 65535")
		}
		if m.PortProtocol != nil &&
			*m.PortProtocol != types.ProtocolTCP && *m.PortProtocol != types.ProtocolUDP {
			return invalid("Protocol must be tcp or udp")
		}
	case types.KindPing:
		if m.PingHost == nil || *m.PingHost == "" {
			return invalid("Host is required for ping monitors")
		}
	case types.KindKeyword:
		if m.KeywordURL == nil || *m.KeywordURL == "" ||
			m.KeywordText == nil || *m.KeywordText == "" {
			return invalid("URL and keyword are required for keyword monitors")
		}
		if m.KeywordMatchType != nil {
			switch *m.KeywordMatchType {
			case types.MatchContains, types.MatchExact, types.MatchRegex:
			default:
				return invalid("Match type must be contains, exact, or regex")
			}
		}
	case types.KindAPI:
		if m.APIURL == nil || *m.APIURL == "" {
			return invalid("API URL is required for API monitors")
		}
	default:
		return invalid("Invalid monitor type: %s", m.Kind)
	}

	return nil
}

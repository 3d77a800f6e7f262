package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"math"
	"net"
	"strings"
	"time"

	"github.com/statustrackr/uptime-mon/pkg/types"
)

// SSLProber checks the expiry of the leaf certificate served on port 443.
//
// Outcome depends on the number of whole days until notAfter:
//
//	d < 0            → down  "Certificate expired N days ago"
//	0 ≤ d ≤ threshold → warning "Certificate expires in N days"
//	d > threshold     → up
type SSLProber struct {
	dialer *tls.Dialer
}

// NewSSLProber creates an SSL certificate prober.
func NewSSLProber() *SSLProber {
	return &SSLProber{
		dialer: &tls.Dialer{NetDialer: &net.Dialer{}},
	}
}

// Kinds returns the monitor kinds this prober handles.
func (p *SSLProber) Kinds() []types.MonitorKind {
	return []types.MonitorKind{types.KindSSL}
}

// Probe completes a TLS handshake against domain:443 and inspects the leaf
// certificate.
func (p *SSLProber) Probe(ctx context.Context, m *types.Monitor) *Result {
	domain := ""
	if m.SSLDomain != nil {
		domain = *m.SSLDomain
	}
	domain = stripDomain(domain)

	threshold := DefaultSSLThresholdDay
	if m.SSLExpiryThreshold != nil {
		threshold = *m.SSLExpiryThreshold
	}

	ctx, cancel := context.WithTimeout(ctx, timeoutFor(m))
	defer cancel()

	start := time.Now()

	conn, err := p.dialer.DialContext(ctx, "tcp", net.JoinHostPort(domain, DefaultSSLPort))
	elapsed := time.Since(start)
	if err != nil {
		if isTimeout(err) {
			return down(elapsed, "Connection timeout")
		}
		return down(elapsed, err.Error())
	}
	defer conn.Close()

	certs := conn.(*tls.Conn).ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return down(elapsed, "no peer certificate presented")
	}
	notAfter := certs[0].NotAfter

	result := classifyExpiry(notAfter, threshold, time.Now())
	result.ResponseTime = ptr(elapsed.Seconds())
	return result
}

// classifyExpiry maps a certificate's notAfter to a probe outcome.
// Days are whole days, floored, so a certificate 10.5 days from expiry
// reports 10 days remaining.
func classifyExpiry(notAfter time.Time, thresholdDays int, now time.Time) *Result {
	days := int(math.Floor(notAfter.Sub(now).Hours() / 24))

	result := &Result{
		Details: types.ProbeDetails{
			SSLExpiresAt:       ptr(notAfter),
			SSLDaysUntilExpiry: ptr(days),
		},
	}

	switch {
	case days < 0:
		result.Status = types.StatusDown
		result.ErrorMessage = fmt.Sprintf("Certificate expired %d days ago", -days)
	case days <= thresholdDays:
		result.Status = types.StatusWarning
		result.ErrorMessage = fmt.Sprintf("Certificate expires in %d days", days)
	default:
		result.Status = types.StatusUp
	}
	return result
}

// stripDomain reduces a user-supplied domain to a bare hostname: scheme,
// path, and port are removed.
func stripDomain(domain string) string {
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	if i := strings.IndexByte(domain, '/'); i >= 0 {
		domain = domain[:i]
	}
	if i := strings.IndexByte(domain, ':'); i >= 0 {
		domain = domain[:i]
	}
	return domain
}

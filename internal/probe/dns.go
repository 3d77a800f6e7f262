package probe

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/statustrackr/uptime-mon/pkg/types"
)

// DNSProber resolves a hostname against a configurable resolver and
// optionally asserts that the answer contains an expected substring.
type DNSProber struct {
	client *dns.Client
}

// NewDNSProber creates a DNS resolution prober.
func NewDNSProber() *DNSProber {
	return &DNSProber{
		client: &dns.Client{},
	}
}

// Kinds returns the monitor kinds this prober handles.
func (p *DNSProber) Kinds() []types.MonitorKind {
	return []types.MonitorKind{types.KindDNS}
}

// queryType maps a monitor record type to a DNS wire type.
func queryType(rt types.DNSRecordType) uint16 {
	switch rt {
	case types.DNSRecordAAAA:
		return dns.TypeAAAA
	case types.DNSRecordCNAME:
		return dns.TypeCNAME
	case types.DNSRecordMX:
		return dns.TypeMX
	case types.DNSRecordNS:
		return dns.TypeNS
	case types.DNSRecordTXT:
		return dns.TypeTXT
	default:
		return dns.TypeA
	}
}

// Probe sends one query to the monitor's resolver.
func (p *DNSProber) Probe(ctx context.Context, m *types.Monitor) *Result {
	hostname := ""
	if m.DNSHostname != nil {
		hostname = *m.DNSHostname
	}

	server := DefaultDNSServer
	if m.DNSServer != nil && *m.DNSServer != "" {
		server = *m.DNSServer
	}

	recordType := types.DNSRecordA
	if m.DNSRecordType != nil {
		recordType = *m.DNSRecordType
	}

	ctx, cancel := context.WithTimeout(ctx, timeoutFor(m))
	defer cancel()

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(hostname), queryType(recordType))
	msg.RecursionDesired = true

	// Port 53 unless the resolver address already carries one.
	addr := server
	if _, _, splitErr := net.SplitHostPort(server); splitErr != nil {
		addr = net.JoinHostPort(server, "53")
	}

	start := time.Now()
	resp, _, err := p.client.ExchangeContext(ctx, msg, addr)
	elapsed := time.Since(start)
	if err != nil {
		if isTimeout(err) {
			return down(elapsed, "DNS resolution timeout")
		}
		return down(elapsed, err.Error())
	}

	if resp.Rcode == dns.RcodeNameError {
		return down(elapsed, "Domain does not exist")
	}
	if resp.Rcode != dns.RcodeSuccess {
		return down(elapsed, fmt.Sprintf("DNS query failed: %s", dns.RcodeToString[resp.Rcode]))
	}
	if len(resp.Answer) == 0 {
		return down(elapsed, fmt.Sprintf("No %s records found for %s", recordType, hostname))
	}

	resolved := answerString(resp.Answer)

	result := &Result{
		ResponseTime: ptr(elapsed.Seconds()),
		Details: types.ProbeDetails{
			DNSResolutionTime: ptr(elapsed.Seconds()),
			DNSResult:         ptr(resolved),
		},
	}

	if m.ExpectedDNSResult != nil && *m.ExpectedDNSResult != "" && !strings.Contains(resolved, *m.ExpectedDNSResult) {
		result.Status = types.StatusDown
		result.ErrorMessage = fmt.Sprintf("Expected '%s' but got '%s'", *m.ExpectedDNSResult, resolved)
		return result
	}

	result.Status = types.StatusUp
	return result
}

// answerString renders a comma-joined representation of the answer section,
// one data value per record.
func answerString(answers []dns.RR) string {
	vals := make([]string, 0, len(answers))
	for _, rr := range answers {
		switch r := rr.(type) {
		case *dns.A:
			vals = append(vals, r.A.String())
		case *dns.AAAA:
			vals = append(vals, r.AAAA.String())
		case *dns.CNAME:
			vals = append(vals, r.Target)
		case *dns.NS:
			vals = append(vals, r.Ns)
		case *dns.MX:
			vals = append(vals, fmt.Sprintf("%d %s", r.Preference, r.Mx))
		case *dns.TXT:
			vals = append(vals, strings.Join(r.Txt, " "))
		default:
			vals = append(vals, rr.String())
		}
	}
	return strings.Join(vals, ", ")
}

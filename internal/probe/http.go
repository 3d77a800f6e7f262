package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/statustrackr/uptime-mon/pkg/types"
)

// HTTPProber checks http and https monitors with a single GET.
// A monitor is up iff the response status is exactly 200; redirects are
// followed. Response time is measured to end-of-headers.
type HTTPProber struct {
	client *http.Client
}

// NewHTTPProber creates an HTTP prober. Timeouts come from each monitor via
// the request context, not the shared client.
func NewHTTPProber() *HTTPProber {
	return &HTTPProber{
		client: &http.Client{},
	}
}

// Kinds returns the monitor kinds this prober handles.
func (p *HTTPProber) Kinds() []types.MonitorKind {
	return []types.MonitorKind{types.KindHTTP, types.KindHTTPS}
}

// Probe performs the GET and classifies the response.
func (p *HTTPProber) Probe(ctx context.Context, m *types.Monitor) *Result {
	rawURL := ""
	if m.URL != nil {
		rawURL = *m.URL
	}

	ctx, cancel := context.WithTimeout(ctx, timeoutFor(m))
	defer cancel()

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return down(time.Since(start), err.Error())
	}

	resp, err := p.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		if isTimeout(err) {
			return down(elapsed, "Timeout")
		}
		return down(elapsed, err.Error())
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return down(elapsed, fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	return &Result{
		Status:       types.StatusUp,
		ResponseTime: ptr(elapsed.Seconds()),
	}
}

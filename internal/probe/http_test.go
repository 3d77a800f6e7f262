package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/statustrackr/uptime-mon/internal/testutil"
	"github.com/statustrackr/uptime-mon/pkg/types"
)

func TestHTTPProber_Up(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := testutil.FixtureMonitor(func(m *types.Monitor) {
		m.URL = &srv.URL
	})

	result := NewHTTPProber().Probe(context.Background(), m)

	if result.Status != types.StatusUp {
		t.Fatalf("expected up, got %s (%s)", result.Status, result.ErrorMessage)
	}
	if result.ResponseTime == nil || *result.ResponseTime <= 0 {
		t.Error("expected positive response time")
	}
	if result.ErrorMessage != "" {
		t.Errorf("unexpected error message: %s", result.ErrorMessage)
	}
}

func TestHTTPProber_Non200(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		wantMsg string
	}{
		{"server error", http.StatusInternalServerError, "HTTP 500"},
		{"not found", http.StatusNotFound, "HTTP 404"},
		{"service unavailable", http.StatusServiceUnavailable, "HTTP 503"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
			}))
			defer srv.Close()

			m := testutil.FixtureMonitor(func(m *types.Monitor) {
				m.URL = &srv.URL
			})

			result := NewHTTPProber().Probe(context.Background(), m)

			if result.Status != types.StatusDown {
				t.Fatalf("expected down, got %s", result.Status)
			}
			if result.ErrorMessage != tt.wantMsg {
				t.Errorf("expected %q, got %q", tt.wantMsg, result.ErrorMessage)
			}
		})
	}
}

func TestHTTPProber_ConnectionRefused(t *testing.T) {
	// Reserve a port, then close the listener so nothing is listening.
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	m := testutil.FixtureMonitor(func(m *types.Monitor) {
		m.URL = &url
		m.Timeout = 2
	})

	result := NewHTTPProber().Probe(context.Background(), m)

	if result.Status != types.StatusDown {
		t.Fatalf("expected down, got %s", result.Status)
	}
	if result.ErrorMessage == "" {
		t.Error("expected an error message")
	}
}

func TestHTTPProber_FollowsRedirects(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer target.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusFound)
	}))
	defer srv.Close()

	m := testutil.FixtureMonitor(func(m *types.Monitor) {
		m.URL = &srv.URL
	})

	result := NewHTTPProber().Probe(context.Background(), m)

	if result.Status != types.StatusUp {
		t.Fatalf("expected up after redirect, got %s (%s)", result.Status, result.ErrorMessage)
	}
}

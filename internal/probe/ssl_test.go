package probe

import (
	"strings"
	"testing"
	"time"

	"github.com/statustrackr/uptime-mon/pkg/types"
)

func TestClassifyExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		notAfter   time.Time
		threshold  int
		wantStatus types.MonitorStatus
		wantMsg    string
		wantDays   int
	}{
		{
			name:       "plenty of time left",
			notAfter:   now.AddDate(0, 0, 90),
			threshold:  30,
			wantStatus: types.StatusUp,
			wantMsg:    "",
			wantDays:   90,
		},
		{
			name:       "inside threshold",
			notAfter:   now.AddDate(0, 0, 10),
			threshold:  30,
			wantStatus: types.StatusWarning,
			wantMsg:    "Certificate expires in 10 days",
			wantDays:   10,
		},
		{
			name:       "expires today",
			notAfter:   now.Add(6 * time.Hour),
			threshold:  30,
			wantStatus: types.StatusWarning,
			wantMsg:    "Certificate expires in 0 days",
			wantDays:   0,
		},
		{
			name:       "expired",
			notAfter:   now.AddDate(0, 0, -5),
			threshold:  30,
			wantStatus: types.StatusDown,
			wantMsg:    "Certificate expired 5 days ago",
			wantDays:   -5,
		},
		{
			name:       "exactly at threshold",
			notAfter:   now.AddDate(0, 0, 30),
			threshold:  30,
			wantStatus: types.StatusWarning,
			wantMsg:    "Certificate expires in 30 days",
			wantDays:   30,
		},
		{
			name:       "fractional days floor down",
			notAfter:   now.Add(10*24*time.Hour + 12*time.Hour),
			threshold:  30,
			wantStatus: types.StatusWarning,
			wantMsg:    "Certificate expires in 10 days",
			wantDays:   10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classifyExpiry(tt.notAfter, tt.threshold, now)

			if result.Status != tt.wantStatus {
				t.Errorf("status: expected %s, got %s", tt.wantStatus, result.Status)
			}
			if result.ErrorMessage != tt.wantMsg {
				t.Errorf("message: expected %q, got %q", tt.wantMsg, result.ErrorMessage)
			}
			if result.Details.SSLDaysUntilExpiry == nil {
				t.Fatal("expected days until expiry to be set")
			}
			if *result.Details.SSLDaysUntilExpiry != tt.wantDays {
				t.Errorf("days: expected %d, got %d", tt.wantDays, *result.Details.SSLDaysUntilExpiry)
			}
			if result.Details.SSLExpiresAt == nil || !result.Details.SSLExpiresAt.Equal(tt.notAfter) {
				t.Error("expected expiry timestamp in details")
			}
		})
	}
}

func TestStripDomain(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"example.com", "example.com"},
		{"https://example.com", "example.com"},
		{"http://example.com", "example.com"},
		{"https://example.com/path/to/page", "example.com"},
		{"example.com:8443", "example.com"},
		{"https://example.com:8443/login", "example.com"},
	}

	for _, tt := range tests {
		if got := stripDomain(tt.input); got != tt.want {
			t.Errorf("stripDomain(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSSLProber_Kinds(t *testing.T) {
	kinds := NewSSLProber().Kinds()
	if len(kinds) != 1 || kinds[0] != types.KindSSL {
		t.Errorf("unexpected kinds: %v", kinds)
	}
}

func TestExpiredMessageWording(t *testing.T) {
	now := time.Now()
	result := classifyExpiry(now.AddDate(0, 0, -30), 30, now)
	if !strings.HasPrefix(result.ErrorMessage, "Certificate expired 30 days ago") {
		t.Errorf("unexpected wording: %q", result.ErrorMessage)
	}
}

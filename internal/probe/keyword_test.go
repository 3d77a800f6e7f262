package probe

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/statustrackr/uptime-mon/internal/testutil"
	"github.com/statustrackr/uptime-mon/pkg/types"
)

func keywordMonitor(url, text string, matchType types.KeywordMatchType) *types.Monitor {
	return testutil.FixtureMonitor(func(m *types.Monitor) {
		m.Kind = types.KindKeyword
		m.URL = nil
		m.KeywordURL = &url
		m.KeywordText = &text
		m.KeywordMatchType = &matchType
	})
}

func pageServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestKeywordProber_Contains(t *testing.T) {
	srv := pageServer(t, "<html><body>Welcome to the status page. status: ok</body></html>")

	result := NewKeywordProber().Probe(context.Background(),
		keywordMonitor(srv.URL, "status", types.MatchContains))

	if result.Status != types.StatusUp {
		t.Fatalf("expected up, got %s (%s)", result.Status, result.ErrorMessage)
	}
	if result.Details.KeywordFound == nil || !*result.Details.KeywordFound {
		t.Error("expected keyword_found true")
	}
	if result.Details.KeywordMatchCount == nil || *result.Details.KeywordMatchCount != 2 {
		t.Errorf("expected 2 matches, got %v", result.Details.KeywordMatchCount)
	}
}

func TestKeywordProber_NotFound(t *testing.T) {
	srv := pageServer(t, "<html><body>all good here</body></html>")

	result := NewKeywordProber().Probe(context.Background(),
		keywordMonitor(srv.URL, "maintenance", types.MatchContains))

	if result.Status != types.StatusDown {
		t.Fatalf("expected down, got %s", result.Status)
	}
	if result.ErrorMessage != "Keyword 'maintenance' not found" {
		t.Errorf("unexpected message: %q", result.ErrorMessage)
	}
	if result.Details.KeywordFound == nil || *result.Details.KeywordFound {
		t.Error("expected keyword_found false")
	}
}

func TestKeywordProber_Exact(t *testing.T) {
	srv := pageServer(t, "OK\n")

	result := NewKeywordProber().Probe(context.Background(),
		keywordMonitor(srv.URL, "OK", types.MatchExact))

	if result.Status != types.StatusUp {
		t.Fatalf("expected up, got %s (%s)", result.Status, result.ErrorMessage)
	}
}

func TestKeywordProber_Regex(t *testing.T) {
	srv := pageServer(t, "version 2.14.3 deployed")

	result := NewKeywordProber().Probe(context.Background(),
		keywordMonitor(srv.URL, `version \d+\.\d+\.\d+`, types.MatchRegex))

	if result.Status != types.StatusUp {
		t.Fatalf("expected up, got %s (%s)", result.Status, result.ErrorMessage)
	}
}

func TestKeywordProber_InvalidRegex(t *testing.T) {
	srv := pageServer(t, "anything")

	result := NewKeywordProber().Probe(context.Background(),
		keywordMonitor(srv.URL, `[unclosed`, types.MatchRegex))

	if result.Status != types.StatusDown {
		t.Fatalf("expected down, got %s", result.Status)
	}
}

func TestKeywordProber_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "status: error")
	}))
	defer srv.Close()

	// Keyword present in the body, but the status code rules first.
	result := NewKeywordProber().Probe(context.Background(),
		keywordMonitor(srv.URL, "status", types.MatchContains))

	if result.Status != types.StatusDown {
		t.Fatalf("expected down, got %s", result.Status)
	}
	if result.ErrorMessage != "HTTP 502" {
		t.Errorf("unexpected message: %q", result.ErrorMessage)
	}
}

func TestMatchKeyword(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		keyword   string
		matchType types.KeywordMatchType
		wantFound bool
		wantCount int
	}{
		{"contains single", "hello world", "world", types.MatchContains, true, 1},
		{"contains multiple", "a b a b a", "a", types.MatchContains, true, 3},
		{"contains missing", "hello world", "mars", types.MatchContains, false, 0},
		{"exact match trims whitespace", "  OK  \n", "OK", types.MatchExact, true, 1},
		{"exact mismatch", "OK but more", "OK", types.MatchExact, false, 0},
		{"regex count", "x1 x2 x3", `x\d`, types.MatchRegex, true, 3},
		{"regex missing", "abc", `\d+`, types.MatchRegex, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, count, err := matchKeyword(tt.body, tt.keyword, tt.matchType)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if found != tt.wantFound {
				t.Errorf("found: expected %v, got %v", tt.wantFound, found)
			}
			if count != tt.wantCount {
				t.Errorf("count: expected %d, got %d", tt.wantCount, count)
			}
		})
	}
}

package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/statustrackr/uptime-mon/pkg/types"
)

// KeywordProber fetches a page and searches the body for a keyword. The match
// predicate is selected by the monitor's keyword_match_type: substring
// containment, whole-body equality, or a regular expression.
type KeywordProber struct {
	client *http.Client
}

// NewKeywordProber creates a keyword prober.
func NewKeywordProber() *KeywordProber {
	return &KeywordProber{
		client: &http.Client{},
	}
}

// Kinds returns the monitor kinds this prober handles.
func (p *KeywordProber) Kinds() []types.MonitorKind {
	return []types.MonitorKind{types.KindKeyword}
}

// Probe fetches the page and applies the keyword predicate. Unlike the plain
// HTTP probe the full body must be read, so response time includes the body
// transfer.
func (p *KeywordProber) Probe(ctx context.Context, m *types.Monitor) *Result {
	rawURL := ""
	if m.KeywordURL != nil {
		rawURL = *m.KeywordURL
	}
	keyword := ""
	if m.KeywordText != nil {
		keyword = *m.KeywordText
	}
	matchType := types.MatchContains
	if m.KeywordMatchType != nil {
		matchType = *m.KeywordMatchType
	}

	ctx, cancel := context.WithTimeout(ctx, timeoutFor(m))
	defer cancel()

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return down(time.Since(start), err.Error())
	}

	resp, err := p.client.Do(req)
	if err != nil {
		elapsed := time.Since(start)
		if isTimeout(err) {
			return down(elapsed, "Timeout")
		}
		return down(elapsed, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		return down(elapsed, err.Error())
	}

	if resp.StatusCode != http.StatusOK {
		return down(elapsed, fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	found, count, err := matchKeyword(string(body), keyword, matchType)
	if err != nil {
		return down(elapsed, err.Error())
	}

	result := &Result{
		ResponseTime: ptr(elapsed.Seconds()),
		Details: types.ProbeDetails{
			KeywordFound:      ptr(found),
			KeywordMatchCount: ptr(count),
		},
	}
	if found {
		result.Status = types.StatusUp
	} else {
		result.Status = types.StatusDown
		result.ErrorMessage = fmt.Sprintf("Keyword '%s' not found", keyword)
	}
	return result
}

// matchKeyword applies the keyword predicate to the body and reports whether
// it matched and how many times.
func matchKeyword(body, keyword string, matchType types.KeywordMatchType) (bool, int, error) {
	switch matchType {
	case types.MatchExact:
		if strings.TrimSpace(body) == keyword {
			return true, 1, nil
		}
		return false, 0, nil
	case types.MatchRegex:
		re, err := regexp.Compile(keyword)
		if err != nil {
			return false, 0, fmt.Errorf("Invalid regex pattern: %v", err)
		}
		count := len(re.FindAllStringIndex(body, -1))
		return count > 0, count, nil
	default: // contains
		count := strings.Count(body, keyword)
		return count > 0, count, nil
	}
}

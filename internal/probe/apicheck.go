package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/statustrackr/uptime-mon/pkg/types"
)

// APIProber calls a JSON endpoint with a configurable method, headers, and
// body, then validates the response in order:
//
//  1. status code must equal expected_status_code (default 200), else down
//  2. if expected_response_time is set and exceeded, warning
//  3. if json_path is set, the extracted value must equal expected_json_value
//
// Response time is measured to end-of-headers so a slow body download does
// not inflate it.
type APIProber struct {
	client *http.Client
}

// NewAPIProber creates an API prober.
func NewAPIProber() *APIProber {
	return &APIProber{
		client: &http.Client{},
	}
}

// Kinds returns the monitor kinds this prober handles.
func (p *APIProber) Kinds() []types.MonitorKind {
	return []types.MonitorKind{types.KindAPI}
}

// Probe performs the request and runs the validation chain.
func (p *APIProber) Probe(ctx context.Context, m *types.Monitor) *Result {
	rawURL := ""
	if m.APIURL != nil {
		rawURL = *m.APIURL
	}
	method := http.MethodGet
	if m.APIMethod != nil && *m.APIMethod != "" {
		method = strings.ToUpper(*m.APIMethod)
	}

	var reqBody io.Reader
	if m.APIBody != nil && *m.APIBody != "" {
		reqBody = strings.NewReader(*m.APIBody)
	}

	ctx, cancel := context.WithTimeout(ctx, timeoutFor(m))
	defer cancel()

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return down(time.Since(start), err.Error())
	}
	for k, v := range m.APIHeaders {
		req.Header.Set(k, v)
	}
	if reqBody != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		msg := err.Error()
		if isTimeout(err) {
			msg = "Timeout"
		}
		r := down(elapsed, msg)
		r.Details.APIStatusCode = ptr(0)
		r.Details.JSONValidationPassed = ptr(false)
		return r
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		r := down(elapsed, err.Error())
		r.Details.APIStatusCode = ptr(0)
		r.Details.JSONValidationPassed = ptr(false)
		return r
	}

	result := &Result{
		Status:       types.StatusUp,
		ResponseTime: ptr(elapsed.Seconds()),
		Details: types.ProbeDetails{
			APIStatusCode:        ptr(resp.StatusCode),
			APIResponseSize:      ptr(len(body)),
			JSONValidationPassed: ptr(true),
		},
	}

	expectedStatus := http.StatusOK
	if m.ExpectedStatusCode != nil {
		expectedStatus = *m.ExpectedStatusCode
	}
	if resp.StatusCode != expectedStatus {
		result.Status = types.StatusDown
		result.ErrorMessage = fmt.Sprintf("Expected status %d, got %d", expectedStatus, resp.StatusCode)
		result.Details.JSONValidationPassed = ptr(false)
		return result
	}

	if m.ExpectedResponseTime != nil && elapsed.Seconds() > *m.ExpectedResponseTime {
		result.Status = types.StatusWarning
		result.ErrorMessage = fmt.Sprintf("Response time %.2fs exceeds limit %gs",
			elapsed.Seconds(), *m.ExpectedResponseTime)
		result.Details.JSONValidationPassed = ptr(false)
		return result
	}

	// Both the path and the expected value must be configured for
	// validation to run.
	if m.JSONPath != nil && *m.JSONPath != "" &&
		m.ExpectedJSONValue != nil && *m.ExpectedJSONValue != "" {
		expected := *m.ExpectedJSONValue
		got, err := lookupJSONPath(body, *m.JSONPath)
		if err != nil {
			result.Status = types.StatusDown
			result.ErrorMessage = fmt.Sprintf("JSON validation error: %v", err)
			result.Details.JSONValidationPassed = ptr(false)
			return result
		}
		if got != expected {
			result.Status = types.StatusDown
			result.ErrorMessage = fmt.Sprintf("JSON validation failed: expected '%s', got '%s'", expected, got)
			result.Details.JSONValidationPassed = ptr(false)
			return result
		}
	}

	return result
}

// lookupJSONPath extracts a value from a JSON document by a dot-separated
// key path ("data.status" picks doc["data"]["status"]). Only object keys are
// supported; array indexing is not. The value is returned in its canonical
// string form.
func lookupJSONPath(body []byte, path string) (string, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("response is not valid JSON: %v", err)
	}

	cur := doc
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return "", fmt.Errorf("path '%s' does not resolve to an object", path)
		}
		cur, ok = obj[key]
		if !ok {
			return "", fmt.Errorf("key '%s' not found", key)
		}
	}

	return stringifyJSON(cur), nil
}

// stringifyJSON renders a JSON leaf value the way it appears in the source
// document: numbers without a trailing ".0", booleans as true/false, null as
// "null".
func stringifyJSON(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return "null"
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

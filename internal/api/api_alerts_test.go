package api

import (
	"net/http"
	"testing"

	"github.com/statustrackr/uptime-mon/internal/testutil"
	"github.com/statustrackr/uptime-mon/pkg/types"
)

func TestCreateAlertSettings(t *testing.T) {
	store := newFakeStore()
	m := testutil.FixtureMonitor()
	store.monitors[m.ID] = m
	s := newTestServer(store)

	w := doRequest(s, "POST", "/api/alerts", map[string]any{
		"monitor_id":    m.ID,
		"email_address": "ops@example.com",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	settings := decodeBody[types.AlertSettings](w)
	if settings.EmailAddress != "ops@example.com" {
		t.Errorf("EmailAddress = %q", settings.EmailAddress)
	}
	// Flags default on
	if !settings.EmailEnabled || !settings.AlertOnDown || !settings.AlertOnUp {
		t.Errorf("flags = %v/%v/%v, want all true",
			settings.EmailEnabled, settings.AlertOnDown, settings.AlertOnUp)
	}
}

func TestCreateAlertSettings_NoMonitorID(t *testing.T) {
	s := newTestServer(newFakeStore())

	w := doRequest(s, "POST", "/api/alerts", map[string]any{
		"email_address": "ops@example.com",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCreateAlertSettings_MonitorNotFound(t *testing.T) {
	s := newTestServer(newFakeStore())

	w := doRequest(s, "POST", "/api/alerts", map[string]any{
		"monitor_id":    "nope",
		"email_address": "ops@example.com",
	})

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	body := decodeBody[map[string]string](w)
	if body["error"] != "Monitor not found" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestCreateAlertSettings_MissingEmail(t *testing.T) {
	store := newFakeStore()
	m := testutil.FixtureMonitor()
	store.monitors[m.ID] = m
	s := newTestServer(store)

	w := doRequest(s, "POST", "/api/alerts", map[string]any{
		"monitor_id": m.ID,
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	body := decodeBody[map[string]string](w)
	if body["error"] != "Email address is required" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestCreateAlertSettings_Duplicate(t *testing.T) {
	store := newFakeStore()
	m := testutil.FixtureMonitor()
	store.monitors[m.ID] = m
	store.alerts[m.ID] = testutil.FixtureAlertSettings(m.ID)
	s := newTestServer(store)

	w := doRequest(s, "POST", "/api/alerts", map[string]any{
		"monitor_id":    m.ID,
		"email_address": "ops@example.com",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	body := decodeBody[map[string]string](w)
	if body["error"] != "Alert settings already exist for this monitor" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestGetAlertSettings(t *testing.T) {
	store := newFakeStore()
	m := testutil.FixtureMonitor()
	store.monitors[m.ID] = m
	store.alerts[m.ID] = testutil.FixtureAlertSettings(m.ID)
	s := newTestServer(store)

	w := doRequest(s, "GET", "/api/alerts/"+m.ID, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	settings := decodeBody[types.AlertSettings](w)
	if settings.MonitorID != m.ID {
		t.Errorf("MonitorID = %q, want %q", settings.MonitorID, m.ID)
	}
}

func TestGetAlertSettings_NotFound(t *testing.T) {
	s := newTestServer(newFakeStore())

	w := doRequest(s, "GET", "/api/alerts/nope", nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	body := decodeBody[map[string]string](w)
	if body["error"] != "Alert settings not found" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestUpdateAlertSettings(t *testing.T) {
	store := newFakeStore()
	m := testutil.FixtureMonitor()
	store.monitors[m.ID] = m
	store.alerts[m.ID] = testutil.FixtureAlertSettings(m.ID)
	s := newTestServer(store)

	w := doRequest(s, "PUT", "/api/alerts/"+m.ID, map[string]any{
		"alert_on_up": false,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	settings := decodeBody[types.AlertSettings](w)
	if settings.AlertOnUp {
		t.Error("AlertOnUp = true, want false after update")
	}
	// Untouched fields survive partial updates
	if !settings.AlertOnDown {
		t.Error("AlertOnDown = false, want true")
	}
}

func TestUpdateAlertSettings_NotFound(t *testing.T) {
	s := newTestServer(newFakeStore())

	w := doRequest(s, "PUT", "/api/alerts/nope", map[string]any{
		"email_address": "new@example.com",
	})

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestDeleteAlertSettings(t *testing.T) {
	store := newFakeStore()
	m := testutil.FixtureMonitor()
	store.monitors[m.ID] = m
	store.alerts[m.ID] = testutil.FixtureAlertSettings(m.ID)
	s := newTestServer(store)

	w := doRequest(s, "DELETE", "/api/alerts/"+m.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decodeBody[map[string]string](w)
	if body["message"] != "Alert settings deleted successfully" {
		t.Errorf("message = %q", body["message"])
	}

	w = doRequest(s, "DELETE", "/api/alerts/"+m.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", w.Code)
	}
}

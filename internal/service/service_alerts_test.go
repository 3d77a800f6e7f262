package service

import (
	"context"
	"errors"
	"testing"

	"github.com/statustrackr/uptime-mon/internal/testutil"
)

func TestCreateAlertSettings(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	m := testutil.FixtureMonitor()
	store.CreateMonitor(ctx, m)

	settings, err := svc.CreateAlertSettings(ctx, m.ID, AlertSettingsInput{
		EmailAddress: "oncall@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if settings.ID == "" {
		t.Error("expected an assigned ID")
	}
	if settings.EmailAddress != "oncall@example.com" {
		t.Errorf("wrong address: %s", settings.EmailAddress)
	}
	// Unset flags default to enabled.
	if !settings.EmailEnabled || !settings.AlertOnDown || !settings.AlertOnUp {
		t.Error("expected all flags to default true")
	}
}

func TestCreateAlertSettings_MonitorMissing(t *testing.T) {
	svc, _, _ := newTestService()

	settings, err := svc.CreateAlertSettings(context.Background(), "nope", AlertSettingsInput{
		EmailAddress: "oncall@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings != nil {
		t.Error("expected nil for missing monitor")
	}
}

func TestCreateAlertSettings_Duplicate(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	m := testutil.FixtureMonitor()
	store.CreateMonitor(ctx, m)

	if _, err := svc.CreateAlertSettings(ctx, m.ID, AlertSettingsInput{EmailAddress: "a@example.com"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := svc.CreateAlertSettings(ctx, m.ID, AlertSettingsInput{EmailAddress: "b@example.com"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Message != "Alert settings already exist for this monitor" {
		t.Errorf("unexpected message: %q", verr.Message)
	}
}

func TestCreateAlertSettings_MissingEmail(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	m := testutil.FixtureMonitor()
	store.CreateMonitor(ctx, m)

	_, err := svc.CreateAlertSettings(ctx, m.ID, AlertSettingsInput{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUpdateAlertSettings_PartialUpdate(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	m := testutil.FixtureMonitor()
	store.CreateMonitor(ctx, m)
	store.CreateAlertSettings(ctx, testutil.FixtureAlertSettings(m.ID))

	off := false
	updated, err := svc.UpdateAlertSettings(ctx, m.ID, AlertSettingsInput{
		AlertOnUp: &off,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.AlertOnUp {
		t.Error("alert_on_up should be off")
	}
	// Untouched fields stay put.
	if updated.EmailAddress != "ops@example.com" || !updated.AlertOnDown {
		t.Error("unrelated fields must not change")
	}
}

func TestUpdateAlertSettings_Missing(t *testing.T) {
	svc, store, _ := newTestService()
	m := testutil.FixtureMonitor()
	store.CreateMonitor(context.Background(), m)

	updated, err := svc.UpdateAlertSettings(context.Background(), m.ID, AlertSettingsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != nil {
		t.Error("expected nil without existing settings")
	}
}

func TestDeleteAlertSettings(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	m := testutil.FixtureMonitor()
	store.CreateMonitor(ctx, m)
	store.CreateAlertSettings(ctx, testutil.FixtureAlertSettings(m.ID))

	ok, err := svc.DeleteAlertSettings(ctx, m.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected deletion")
	}

	ok, err = svc.DeleteAlertSettings(ctx, m.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("second delete should report nothing to delete")
	}
}

package secrets

import (
	"context"
	"testing"

	"github.com/statustrackr/uptime-mon/internal/testutil"
)

func TestEnvName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{SecretSMTPPassword, "UPTIMEMON_SMTP_PASSWORD"},
		{SecretDatabaseURL, "UPTIMEMON_DATABASE_URL"},
		{"simple", "SIMPLE"},
	}
	for _, tt := range tests {
		if got := envName(tt.name); got != tt.want {
			t.Errorf("envName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestEnvSecretStore(t *testing.T) {
	t.Setenv("UPTIMEMON_SMTP_PASSWORD", "hunter2")

	ss := NewEnvSecretStore()
	val, err := ss.GetSecret(context.Background(), SecretSMTPPassword)
	if err != nil {
		t.Fatalf("GetSecret failed: %v", err)
	}
	if val != "hunter2" {
		t.Errorf("got %q, want %q", val, "hunter2")
	}

	val, err = ss.GetSecret(context.Background(), "uptimemon-missing")
	if err != nil {
		t.Fatalf("GetSecret failed: %v", err)
	}
	if val != "" {
		t.Errorf("missing secret returned %q, want empty", val)
	}
}

func TestNewSecretStore_EnvBackend(t *testing.T) {
	logger := testutil.NewTestLogger()

	ss, err := NewSecretStore(Config{Backend: "env"}, logger)
	if err != nil {
		t.Fatalf("NewSecretStore failed: %v", err)
	}
	if _, ok := ss.(*EnvSecretStore); !ok {
		t.Errorf("expected *EnvSecretStore, got %T", ss)
	}
}

func TestNewSecretStore_AutoFallsBackToEnv(t *testing.T) {
	logger := testutil.NewTestLogger()

	ss, err := NewSecretStore(Config{Backend: "auto"}, logger)
	if err != nil {
		t.Fatalf("NewSecretStore failed: %v", err)
	}
	if _, ok := ss.(*EnvSecretStore); !ok {
		t.Errorf("expected *EnvSecretStore, got %T", ss)
	}
}

func TestNewSecretStore_OnePasswordRequiresConfig(t *testing.T) {
	logger := testutil.NewTestLogger()

	_, err := NewSecretStore(Config{Backend: "1password"}, logger)
	if err == nil {
		t.Fatal("expected error for incomplete 1Password config")
	}
}

func TestNewSecretStore_UnknownBackend(t *testing.T) {
	logger := testutil.NewTestLogger()

	_, err := NewSecretStore(Config{Backend: "vault"}, logger)
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

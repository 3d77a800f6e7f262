// Package secrets provides storage for sensitive configuration such as the
// SMTP password.
//
// This package defines a SecretStore interface. The primary implementation
// uses 1Password Connect for production environments, with an environment
// variable fallback for development.
package secrets

import (
	"context"
	"os"
	"strings"
)

// Secret names looked up at startup.
const (
	SecretSMTPPassword = "uptimemon-smtp-password"
	SecretDatabaseURL  = "uptimemon-database-url"
)

// SecretStore provides retrieval of named secrets.
type SecretStore interface {
	// GetSecret returns the value of a named secret. Returns an empty
	// string with a nil error if the secret doesn't exist.
	GetSecret(ctx context.Context, name string) (string, error)

	// Close releases any resources held by the secret store.
	Close() error
}

// EnvSecretStore reads secrets from environment variables.
// This is intended for development and testing only.
//
// A secret named "uptimemon-smtp-password" maps to the variable
// UPTIMEMON_SMTP_PASSWORD.
type EnvSecretStore struct{}

// NewEnvSecretStore creates an environment-backed secret store.
func NewEnvSecretStore() *EnvSecretStore {
	return &EnvSecretStore{}
}

// GetSecret returns the value of the environment variable mapped to name.
func (s *EnvSecretStore) GetSecret(ctx context.Context, name string) (string, error) {
	return os.Getenv(envName(name)), nil
}

// Close releases any resources.
func (s *EnvSecretStore) Close() error {
	return nil
}

// envName converts a secret name to its environment variable form.
func envName(name string) string {
	upper := strings.ToUpper(name)
	return strings.ReplaceAll(upper, "-", "_")
}

package secrets

import (
	"fmt"
	"log/slog"
	"os"
)

// Config holds configuration for the secrets backend.
type Config struct {
	// Backend specifies which backend to use: "1password", "env", or "auto".
	// "auto" (default) uses 1Password if configured, otherwise env.
	Backend string

	// 1Password Connect configuration.
	OnePassword OnePasswordConfig
}

// ConfigFromEnv creates a Config from environment variables.
func ConfigFromEnv() Config {
	return Config{
		Backend: getEnv("UPTIMEMON_SECRETS_BACKEND", "auto"),
		OnePassword: OnePasswordConfig{
			Host:    os.Getenv("OP_CONNECT_HOST"),
			Token:   os.Getenv("OP_CONNECT_TOKEN"),
			VaultID: os.Getenv("OP_VAULT_ID"),
		},
	}
}

// NewSecretStore creates a SecretStore based on configuration.
func NewSecretStore(cfg Config, logger *slog.Logger) (SecretStore, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = "auto"
	}

	switch backend {
	case "1password":
		return NewOnePasswordSecretStore(cfg.OnePassword, logger)

	case "env":
		return NewEnvSecretStore(), nil

	case "auto":
		// Try 1Password first, fall back to env
		if cfg.OnePassword.Token != "" {
			ss, err := NewOnePasswordSecretStore(cfg.OnePassword, logger)
			if err != nil {
				logger.Warn("failed to initialize 1Password, falling back to environment variables",
					"error", err)
				return NewEnvSecretStore(), nil
			}
			return ss, nil
		}
		logger.Info("OP_CONNECT_TOKEN not set, using environment variable secrets")
		return NewEnvSecretStore(), nil

	default:
		return nil, fmt.Errorf("unknown secrets backend: %s", backend)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

package secrets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/1Password/connect-sdk-go/connect"
	"github.com/1Password/connect-sdk-go/onepassword"
)

// OnePasswordSecretStore reads secrets from 1Password using the Connect API.
//
// Configuration is via environment variables:
//   - OP_CONNECT_HOST: URL of the 1Password Connect server
//   - OP_CONNECT_TOKEN: Access token for the Connect server
//   - OP_VAULT_ID: UUID of the vault to read secrets from
type OnePasswordSecretStore struct {
	client  connect.Client
	vaultID string
	logger  *slog.Logger

	// Cache to avoid repeated API calls
	mu    sync.RWMutex
	cache map[string]string
}

// OnePasswordConfig holds configuration for 1Password Connect.
type OnePasswordConfig struct {
	Host    string // OP_CONNECT_HOST
	Token   string // OP_CONNECT_TOKEN
	VaultID string // OP_VAULT_ID
}

// NewOnePasswordSecretStore creates a new 1Password-backed secret store.
func NewOnePasswordSecretStore(cfg OnePasswordConfig, logger *slog.Logger) (*OnePasswordSecretStore, error) {
	if cfg.Host == "" || cfg.Token == "" || cfg.VaultID == "" {
		return nil, fmt.Errorf("1Password configuration incomplete: host, token, and vault_id are required")
	}

	client := connect.NewClientWithUserAgent(cfg.Host, cfg.Token, "uptimemon-server")

	return &OnePasswordSecretStore{
		client:  client,
		vaultID: cfg.VaultID,
		logger:  logger,
		cache:   make(map[string]string),
	}, nil
}

// GetSecret returns the value of a named secret. The secret is looked up as
// an item by title, taking the value of its "credential" or "password" field.
func (s *OnePasswordSecretStore) GetSecret(ctx context.Context, name string) (string, error) {
	s.mu.RLock()
	if cached, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	items, err := s.client.GetItemsByTitle(name, s.vaultID)
	if err != nil {
		if isNotFoundError(err) {
			return "", nil
		}
		return "", fmt.Errorf("listing items: %w", err)
	}
	if len(items) == 0 {
		return "", nil
	}

	item, err := s.client.GetItem(items[0].ID, s.vaultID)
	if err != nil {
		return "", fmt.Errorf("getting item: %w", err)
	}

	value := secretFieldValue(item)
	if value == "" {
		return "", fmt.Errorf("item %q has no credential field", name)
	}

	s.mu.Lock()
	s.cache[name] = value
	s.mu.Unlock()

	return value, nil
}

// Close releases any resources.
func (s *OnePasswordSecretStore) Close() error {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
	return nil
}

// secretFieldValue picks the secret-bearing field from a 1Password item.
func secretFieldValue(item *onepassword.Item) string {
	for _, field := range item.Fields {
		switch field.ID {
		case "credential", "password":
			return field.Value
		}
	}
	for _, field := range item.Fields {
		if field.Type == "CONCEALED" {
			return field.Value
		}
	}
	return ""
}

// isNotFoundError checks if an error is a "not found" error from 1Password.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "not found") ||
		strings.Contains(errStr, "404") ||
		strings.Contains(errStr, "no items")
}

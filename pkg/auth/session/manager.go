package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	redisclient "github.com/wmbgolfco/engraving-backend/pkg/redis"
)

type sessionStore interface {
	StoreAdminSession(ctx context.Context, tokenID string, ttl time.Duration) error
	HasAdminSession(ctx context.Context, tokenID string) (bool, error)
	RevokeAdminSession(ctx context.Context, tokenID string) error
}

// Manager tracks live admin sessions by JWT id so that logout revokes the
// cookie server-side before the token expires.
type Manager struct {
	store sessionStore
	ttl   time.Duration
}

// Checker exposes the read-only surface needed by middleware.
type Checker interface {
	HasSession(ctx context.Context, tokenID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, ttl time.Duration) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return newManager(client, ttl)
}

func newManager(store sessionStore, ttl time.Duration) (*Manager, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{store: store, ttl: ttl}, nil
}

// TTL is how long a session lives without being revoked.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Start records the session for tokenID.
func (m *Manager) Start(ctx context.Context, tokenID string) error {
	if strings.TrimSpace(tokenID) == "" {
		return fmt.Errorf("token id is required")
	}
	return m.store.StoreAdminSession(ctx, tokenID, m.ttl)
}

// HasSession reports whether tokenID is still live.
func (m *Manager) HasSession(ctx context.Context, tokenID string) (bool, error) {
	if strings.TrimSpace(tokenID) == "" {
		return false, fmt.Errorf("token id is required")
	}
	return m.store.HasAdminSession(ctx, tokenID)
}

// Revoke ends the session. Revoking an unknown session is not an error.
func (m *Manager) Revoke(ctx context.Context, tokenID string) error {
	if strings.TrimSpace(tokenID) == "" {
		return fmt.Errorf("token id is required")
	}
	return m.store.RevokeAdminSession(ctx, tokenID)
}

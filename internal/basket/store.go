package basket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wmbgolfco/engraving-backend/pkg/redis"
)

// Store persists baskets by id. Load returns (nil, nil) when nothing is stored.
type Store interface {
	Load(ctx context.Context, basketID string) (*Basket, error)
	Save(ctx context.Context, b *Basket) error
	Delete(ctx context.Context, basketID string) error
}

// MemoryStore keeps baskets in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	baskets map[string]*Basket
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{baskets: map[string]*Basket{}}
}

func (m *MemoryStore) Load(_ context.Context, basketID string) (*Basket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.baskets[basketID]
	if !ok {
		return nil, nil
	}
	return b.Snapshot(), nil
}

func (m *MemoryStore) Save(_ context.Context, b *Basket) error {
	if b == nil || b.ID == "" {
		return errors.New("basket id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baskets[b.ID] = b.Snapshot()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, basketID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.baskets, basketID)
	return nil
}

type kv interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	BasketKey(basketID string) string
}

// RedisStore serializes baskets as JSON. Every save refreshes the TTL.
type RedisStore struct {
	client kv
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (r *RedisStore) Load(ctx context.Context, basketID string) (*Basket, error) {
	raw, err := r.client.Get(ctx, r.client.BasketKey(basketID))
	if errors.Is(err, redis.ErrNil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load basket %s: %w", basketID, err)
	}
	var b Basket
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		return nil, fmt.Errorf("decode basket %s: %w", basketID, err)
	}
	if b.Items == nil {
		b.Items = []LineItem{}
	}
	return &b, nil
}

func (r *RedisStore) Save(ctx context.Context, b *Basket) error {
	if b == nil || b.ID == "" {
		return errors.New("basket id is required")
	}
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode basket %s: %w", b.ID, err)
	}
	if err := r.client.Set(ctx, r.client.BasketKey(b.ID), payload, r.ttl); err != nil {
		return fmt.Errorf("save basket %s: %w", b.ID, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, basketID string) error {
	if err := r.client.Del(ctx, r.client.BasketKey(basketID)); err != nil {
		return fmt.Errorf("delete basket %s: %w", basketID, err)
	}
	return nil
}

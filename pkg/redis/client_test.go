package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/wmbgolfco/engraving-backend/pkg/config"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := Wrap(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)

	for i := int64(1); i <= 2; i++ {
		allowed, count, err := client.FixedWindowAllow(ctx, "enquiry:203.0.113.7", 2, time.Minute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !allowed || count != i {
			t.Fatalf("hit %d: allowed=%v count=%d", i, allowed, count)
		}
	}
	if ttl := mr.TTL("wmb:rate_limit:enquiry:203.0.113.7"); ttl != time.Minute {
		t.Fatalf("expected window ttl of 1m, got %v", ttl)
	}

	allowed, count, err := client.FixedWindowAllow(ctx, "enquiry:203.0.113.7", 2, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed || count != 3 {
		t.Fatalf("expected limit reached, allowed=%v count=%d", allowed, count)
	}

	mr.FastForward(time.Minute + time.Second)
	allowed, count, err = client.FixedWindowAllow(ctx, "enquiry:203.0.113.7", 2, time.Minute)
	if err != nil || !allowed || count != 1 {
		t.Fatalf("expected fresh window, allowed=%v count=%d err=%v", allowed, count, err)
	}
}

func TestIncrWithTTLKeepsFirstExpiry(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)

	if _, err := client.IncrWithTTL(ctx, "counter", 10*time.Second); err != nil {
		t.Fatalf("incr failed: %v", err)
	}
	mr.FastForward(4 * time.Second)
	if _, err := client.IncrWithTTL(ctx, "counter", 10*time.Second); err != nil {
		t.Fatalf("incr failed: %v", err)
	}
	if ttl := mr.TTL("counter"); ttl != 6*time.Second {
		t.Fatalf("second hit must not extend the window, ttl=%v", ttl)
	}
}

func TestAdminSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)

	if err := client.StoreAdminSession(ctx, "jti-1", time.Hour); err != nil {
		t.Fatalf("store failed: %v", err)
	}
	ok, err := client.HasAdminSession(ctx, "jti-1")
	if err != nil || !ok {
		t.Fatalf("expected live session, ok=%v err=%v", ok, err)
	}

	mr.FastForward(2 * time.Hour)
	ok, err = client.HasAdminSession(ctx, "jti-1")
	if err != nil || ok {
		t.Fatalf("expected expired session, ok=%v err=%v", ok, err)
	}

	if err := client.StoreAdminSession(ctx, "jti-2", time.Hour); err != nil {
		t.Fatalf("store failed: %v", err)
	}
	if err := client.RevokeAdminSession(ctx, "jti-2"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if ok, _ := client.HasAdminSession(ctx, "jti-2"); ok {
		t.Fatalf("expected revoked session to be gone")
	}
}

func TestGetMissingKeyReturnsErrNil(t *testing.T) {
	client, _ := newTestClient(t)
	if _, err := client.Get(context.Background(), client.BasketKey("missing")); !errors.Is(err, ErrNil) {
		t.Fatalf("expected ErrNil, got %v", err)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.RateLimitKey("enquiry:1.2.3.4"); got != "wmb:rate_limit:enquiry:1.2.3.4" {
		t.Fatalf("unexpected rate limit key %s", got)
	}
	if got := client.BasketKey("abc"); got != "wmb:basket:abc" {
		t.Fatalf("unexpected basket key %s", got)
	}
	if got := client.AdminSessionKey("jti"); got != "wmb:session:admin:jti" {
		t.Fatalf("unexpected session key %s", got)
	}
	if got := buildKey("basket", " "); got != "wmb:basket" {
		t.Fatalf("blank parts should be skipped, got %s", got)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatalf("expected error without url or address")
	}
	opts, err := optionsFromConfig(config.RedisConfig{Address: "localhost:6379", PoolSize: 7, DB: 3, DialTimeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.PoolSize != 7 || opts.DB != 3 || opts.DialTimeout != time.Second {
		t.Fatalf("unexpected options %+v", opts)
	}
	opts, err = optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6380/2", DB: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.DB != 2 {
		t.Fatalf("expected db from url, got %d", opts.DB)
	}
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	if err := client.Ping(context.Background()); !errors.Is(err, errNotInitialized) {
		t.Fatalf("expected not initialized error, got %v", err)
	}
	if _, err := client.IncrWithTTL(context.Background(), "k", time.Second); !errors.Is(err, errNotInitialized) {
		t.Fatalf("expected not initialized error, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close on empty client should be a no-op, got %v", err)
	}
}

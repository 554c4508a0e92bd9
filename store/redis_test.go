package store

import (
	"testing"
	"time"
)

// newTestRedis 连接本地 Redis，不可用时跳过测试
func newTestRedis(t *testing.T) *Redis {
	t.Helper()

	r, err := NewRedis(&RedisConfig{
		Addr:        "127.0.0.1:6379",
		KeyPrefix:   "flowclient:test:session:",
		DialTimeout: time.Second,
	})
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() {
		_ = r.Close()
	})
	return r
}

func TestRedisRoundTrip(t *testing.T) {
	r := newTestRedis(t)
	roundTrip(t, r)
}

func TestRedisConfigDefaults(t *testing.T) {
	var c RedisConfig
	if err := c.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if c.Addr != "127.0.0.1:6379" {
		t.Errorf("unexpected default addr: %s", c.Addr)
	}
	if c.KeyPrefix != "flowclient:session:" {
		t.Errorf("unexpected default key prefix: %s", c.KeyPrefix)
	}
	if c.DialTimeout != 5*time.Second {
		t.Errorf("unexpected default dial timeout: %v", c.DialTimeout)
	}
}

func TestRedisNilConfig(t *testing.T) {
	if _, err := NewRedis(nil); err != ErrInvalidConfig {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestRedisClosedClient(t *testing.T) {
	r := &Redis{config: &RedisConfig{}}
	if err := r.Ping(t.Context()); err != ErrClientNotInitialized {
		t.Errorf("expected ErrClientNotInitialized, got %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil client should be a no-op, got %v", err)
	}
}

package ratelimit

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestFixedWindowLimiterBlocksOverQuota(t *testing.T) {
	redis := miniredis.RunT(t)
	limiter, err := NewRedisFixedWindowLimiter(redis.Addr(), "", "test:ratelimit", 2, time.Second)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}
	if !limiter.Allow("ip-1") || !limiter.Allow("ip-1") {
		t.Fatalf("requests within quota should pass")
	}
	if limiter.Allow("ip-1") {
		t.Fatalf("third request should be blocked")
	}
	// A different key has its own quota.
	if !limiter.Allow("ip-2") {
		t.Fatalf("distinct key should pass")
	}
}

func TestFixedWindowLimiterFailsClosed(t *testing.T) {
	redis := miniredis.RunT(t)
	limiter, err := NewRedisFixedWindowLimiter(redis.Addr(), "", "test:ratelimit", 1, time.Second)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}
	redis.Close()
	if limiter.Allow("ip-1") {
		t.Fatalf("limiter should fail closed on redis errors")
	}
}

func TestFixedWindowLimiterValidatesConfig(t *testing.T) {
	if _, err := NewRedisFixedWindowLimiter("", "", "", 1, time.Second); err == nil {
		t.Fatalf("expected error for empty redis addr")
	}
	if _, err := NewRedisFixedWindowLimiter("localhost:6379", "", "", 0, time.Second); err == nil {
		t.Fatalf("expected error for zero limit")
	}
}

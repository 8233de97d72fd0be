package service

import (
	"context"
	"testing"
	"time"
)

func newTestBucket(t *testing.T, rate, capacity float64) (*TokenBucket, *time.Time) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tb := NewTokenBucket(ctx, rate, capacity)
	tb.now = func() time.Time { return clock }
	return tb, &clock
}

func TestTokenBucket_AllowsUpToCapacity(t *testing.T) {
	tb, _ := newTestBucket(t, 1, 3)

	for i := 0; i < 3; i++ {
		if !tb.Allow("test-key") {
			t.Fatalf("request %d should be allowed (bucket not yet empty)", i+1)
		}
	}
	if tb.Allow("test-key") {
		t.Fatal("4th request should be denied (bucket empty)")
	}
}

func TestTokenBucket_DifferentKeysAreIndependent(t *testing.T) {
	tb, _ := newTestBucket(t, 1, 1)

	if !tb.Allow("ip-a") {
		t.Fatal("ip-a first request should be allowed")
	}
	if !tb.Allow("ip-b") {
		t.Fatal("ip-b first request should be allowed")
	}
	if tb.Allow("ip-a") {
		t.Fatal("ip-a second request should be denied")
	}
}

func TestTokenBucket_Refills(t *testing.T) {
	tb, clock := newTestBucket(t, 2, 1)

	if !tb.Allow("k") {
		t.Fatal("first request should be allowed")
	}
	if tb.Allow("k") {
		t.Fatal("second immediate request should be denied")
	}

	*clock = clock.Add(600 * time.Millisecond)
	if !tb.Allow("k") {
		t.Fatal("request after refill should be allowed")
	}
}

func TestTokenBucket_Reset(t *testing.T) {
	tb, _ := newTestBucket(t, 0.001, 1)

	tb.Allow("k")
	if tb.Allow("k") {
		t.Fatal("expected bucket to be empty")
	}
	tb.Reset("k")
	if !tb.Allow("k") {
		t.Fatal("expected full bucket after Reset")
	}
}

func TestTokenBucket_RemoveIdle(t *testing.T) {
	tb, clock := newTestBucket(t, 1, 1)

	tb.Allow("old")
	*clock = clock.Add(time.Hour)
	tb.Allow("fresh")
	tb.removeIdle(10 * time.Minute)

	tb.mu.Lock()
	defer tb.mu.Unlock()
	if _, ok := tb.buckets["old"]; ok {
		t.Fatal("expected idle bucket to be removed")
	}
	if _, ok := tb.buckets["fresh"]; !ok {
		t.Fatal("expected recent bucket to be kept")
	}
}

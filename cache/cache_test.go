package cache

import (
	"context"
	"testing"
	"time"
)

func newTestLRU(t *testing.T, maxSize int, ttl time.Duration) *LRU {
	t.Helper()
	return NewLRU(Options{MaxSize: maxSize, TTL: ttl})
}

// fakeClock lets tests advance time without sleeping.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// TestGetAfterSet verifies the basic contract: a freshly set key hits.
func TestGetAfterSet(t *testing.T) {
	ctx := context.Background()
	c := newTestLRU(t, 4, 0)

	if err := c.Set(ctx, "k", "rendered"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || v != "rendered" {
		t.Fatalf("Get after set: ok=%v err=%v v=%q", ok, err, v)
	}

	// Absent key misses.
	if _, ok, _ := c.Get(ctx, "missing"); ok {
		t.Fatalf("Get on absent key should miss")
	}
}

// TestEvictionOrder walks the canonical recency scenario: with maxSize=2,
// insert A, B; Get(A) promotes A; insert C evicts B, leaving {A, C}.
func TestEvictionOrder(t *testing.T) {
	ctx := context.Background()
	c := newTestLRU(t, 2, 0)

	_ = c.Set(ctx, "A", "a")
	_ = c.Set(ctx, "B", "b")

	if _, ok, _ := c.Get(ctx, "A"); !ok {
		t.Fatalf("A should hit before eviction")
	}

	_ = c.Set(ctx, "C", "c")

	if _, ok, _ := c.Get(ctx, "B"); ok {
		t.Fatalf("B should have been evicted as least recently used")
	}
	for _, k := range []string{"A", "C"} {
		if _, ok, _ := c.Get(ctx, k); !ok {
			t.Fatalf("%s should have survived eviction", k)
		}
	}
	if n := c.Len(); n != 2 {
		t.Fatalf("Len = %d, want 2", n)
	}
}

// TestSetResetsRecency ensures re-setting an existing key moves it to the
// most-recently-used position rather than keeping its old slot.
func TestSetResetsRecency(t *testing.T) {
	ctx := context.Background()
	c := newTestLRU(t, 2, 0)

	_ = c.Set(ctx, "A", "a1")
	_ = c.Set(ctx, "B", "b")
	_ = c.Set(ctx, "A", "a2") // refresh; A is now MRU

	_ = c.Set(ctx, "C", "c") // evicts B, not A

	if _, ok, _ := c.Get(ctx, "B"); ok {
		t.Fatalf("B should have been evicted")
	}
	v, ok, _ := c.Get(ctx, "A")
	if !ok || v != "a2" {
		t.Fatalf("A should hit with refreshed value, ok=%v v=%q", ok, v)
	}
}

// TestTTLExpiry verifies the lazy expiry rule: an entry misses once
// now >= insertedAt + ttl, and the expired entry is removed on access.
func TestTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := newTestLRU(t, 4, time.Minute)
	clk := &fakeClock{t: time.Unix(1000, 0)}
	c.now = clk.now

	_ = c.Set(ctx, "k", "v")

	clk.advance(59 * time.Second)
	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Fatalf("entry should still be live just before the TTL")
	}

	clk.advance(time.Second) // age == ttl exactly: treated as expired
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatalf("entry should miss once its age reaches the TTL")
	}
	if n := c.Len(); n != 0 {
		t.Fatalf("expired entry should be deleted on access, Len = %d", n)
	}
}

// TestSetRefreshesInsertionTime ensures overwriting a key restarts its TTL.
func TestSetRefreshesInsertionTime(t *testing.T) {
	ctx := context.Background()
	c := newTestLRU(t, 4, time.Minute)
	clk := &fakeClock{t: time.Unix(1000, 0)}
	c.now = clk.now

	_ = c.Set(ctx, "k", "old")
	clk.advance(45 * time.Second)
	_ = c.Set(ctx, "k", "new")
	clk.advance(30 * time.Second) // 75s after first set, 30s after second

	v, ok, _ := c.Get(ctx, "k")
	if !ok || v != "new" {
		t.Fatalf("refreshed entry should be live, ok=%v v=%q", ok, v)
	}
}

// TestPurge drops everything.
func TestPurge(t *testing.T) {
	ctx := context.Background()
	c := newTestLRU(t, 4, 0)

	_ = c.Set(ctx, "A", "a")
	_ = c.Set(ctx, "B", "b")
	if err := c.Purge(ctx); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if n := c.Len(); n != 0 {
		t.Fatalf("Len after purge = %d", n)
	}
	if _, ok, _ := c.Get(ctx, "A"); ok {
		t.Fatalf("purged key should miss")
	}
}

// TestKeysOrder checks the MRU->LRU debug ordering.
func TestKeysOrder(t *testing.T) {
	ctx := context.Background()
	c := newTestLRU(t, 4, 0)

	_ = c.Set(ctx, "A", "a")
	_ = c.Set(ctx, "B", "b")
	_, _, _ = c.Get(ctx, "A")

	got := c.Keys()
	want := []string{"A", "B"}
	if len(got) != len(want) {
		t.Fatalf("Keys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys = %v, want %v", got, want)
		}
	}
}

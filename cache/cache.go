// Package cache provides the per-mode content cache consulted by the render
// dispatcher. The canonical implementation is LRU, a strict
// least-recently-used store with lazy TTL expiry. StoreCache adapts an
// approximate byte store (Ristretto, BigCache) to the same contract.
//
// The cache is strictly best-effort from the dispatcher's point of view: a
// malfunctioning cache must fall through to direct recomputation, never block
// rendering.
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Cache maps raw text to rendered markup. Keys are the raw text itself;
// isolation between render modes comes from using one instance per mode,
// not from composite keys.
type Cache interface {
	// Get returns (value, true, nil) on hit; ("", false, nil) on miss.
	// An entry past its TTL is treated as absent even if still stored.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores the rendered value for key, resetting its recency.
	Set(ctx context.Context, key, value string) error

	// Purge drops every entry (external invalidation such as a locale or
	// theme change that affects rendering inputs not captured in the key).
	Purge(ctx context.Context) error

	// Close releases resources.
	Close(ctx context.Context) error
}

// Options tune an LRU cache. Zero values choose the defaults.
type Options struct {
	MaxSize int           // live entry bound; <=0 => 128
	TTL     time.Duration // <=0 => entries never expire by age
}

const defaultMaxSize = 128

// LRU is a concurrency-safe in-memory cache with strict recency eviction:
// a map gives O(1) lookup and a doubly-linked list maintains access order
// (front = most recently used). TTL expiry is lazy, checked on Get.
type LRU struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	order   *list.List

	now func() time.Time // swapped in TTL tests
}

type lruEntry struct {
	key        string
	value      string
	insertedAt time.Time
}

var _ Cache = (*LRU)(nil)

func NewLRU(opts Options) *LRU {
	max := opts.MaxSize
	if max <= 0 {
		max = defaultMaxSize
	}
	return &LRU{
		maxSize: max,
		ttl:     opts.TTL,
		items:   make(map[string]*list.Element),
		order:   list.New(),
		now:     time.Now,
	}
}

// Get performs lazy TTL expiry: an entry whose age has reached the TTL is
// deleted and reported as a miss. A live hit is promoted to the
// most-recently-used position.
func (c *LRU) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return "", false, nil
	}
	e := el.Value.(*lruEntry)
	if c.ttl > 0 && !c.now().Before(e.insertedAt.Add(c.ttl)) {
		c.removeLocked(el)
		return "", false, nil
	}
	c.order.MoveToFront(el)
	return e.value, true, nil
}

// Set deletes any existing entry for key first (so recency is reset, not
// preserved), evicts the least-recently-used entry when at capacity, then
// inserts at the most-recently-used position with a fresh insertion time.
func (c *LRU) Set(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeLocked(el)
	}
	if len(c.items) >= c.maxSize {
		if back := c.order.Back(); back != nil {
			c.removeLocked(back)
		}
	}
	el := c.order.PushFront(&lruEntry{key: key, value: value, insertedAt: c.now()})
	c.items[key] = el
	return nil
}

func (c *LRU) Purge(_ context.Context) error {
	c.mu.Lock()
	c.items = make(map[string]*list.Element)
	c.order.Init()
	c.mu.Unlock()
	return nil
}

// Len counts stored entries, including expired ones not yet lazily removed.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Keys returns keys in most- to least-recently-used order.
func (c *LRU) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*lruEntry).key)
	}
	return out
}

func (c *LRU) Close(ctx context.Context) error { return c.Purge(ctx) }

func (c *LRU) removeLocked(el *list.Element) {
	delete(c.items, el.Value.(*lruEntry).key)
	c.order.Remove(el)
}

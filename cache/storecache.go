package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/textpipe/renderpipe/codec"
)

// Entry is the envelope persisted for each rendered value in a byte store.
// InsertedAt travels with the value so the TTL invariant holds even on
// stores whose own expiry is coarser than per-entry.
type Entry struct {
	Value      string    `json:"v" msgpack:"v" cbor:"v"`
	InsertedAt time.Time `json:"t" msgpack:"t" cbor:"t"`
}

// StoreOptions configure a StoreCache. Only Store is required.
type StoreOptions struct {
	Store Store
	Codec codec.Codec[Entry] // nil => Msgpack
	TTL   time.Duration      // <=0 => rely on the store's own expiry
}

// StoreCache adapts a byte Store to the Cache contract through a codec
// envelope. Recency is approximated by the store's own admission/eviction
// policy rather than strict LRU order; undecodable or expired envelopes are
// deleted on read and reported as misses.
type StoreCache struct {
	store Store
	codec codec.Codec[Entry]
	ttl   time.Duration

	now func() time.Time
}

var _ Cache = (*StoreCache)(nil)

func NewStoreCache(opts StoreOptions) (*StoreCache, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("cache: store is required")
	}
	c := &StoreCache{
		store: opts.Store,
		codec: opts.Codec,
		ttl:   opts.TTL,
		now:   time.Now,
	}
	if c.codec == nil {
		c.codec = codec.Msgpack[Entry]{}
	}
	return c, nil
}

func (c *StoreCache) Get(ctx context.Context, key string) (string, bool, error) {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil || !ok {
		return "", false, err
	}
	e, err := c.codec.Decode(raw)
	if err != nil {
		_ = c.store.Del(ctx, key) // self-heal corrupt
		return "", false, nil
	}
	if c.ttl > 0 && !c.now().Before(e.InsertedAt.Add(c.ttl)) {
		_ = c.store.Del(ctx, key)
		return "", false, nil
	}
	return e.Value, true, nil
}

func (c *StoreCache) Set(ctx context.Context, key, value string) error {
	b, err := c.codec.Encode(Entry{Value: value, InsertedAt: c.now()})
	if err != nil {
		return err
	}
	// ok=false means the store rejected the write under pressure; the cache
	// is best-effort, so that is not an error.
	_, err = c.store.Set(ctx, key, b, c.ttl)
	return err
}

func (c *StoreCache) Purge(ctx context.Context) error { return c.store.Reset(ctx) }

func (c *StoreCache) Close(ctx context.Context) error { return c.store.Close(ctx) }

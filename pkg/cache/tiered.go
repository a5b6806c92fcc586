package cache

import (
	"context"
	"errors"
	"time"
)

// TieredCache reads through a fast cache into a durable one. Hits in the
// durable tier are copied back into the fast tier for TTLBackfill.
type TieredCache struct {
	fast    Cache
	durable Cache
}

// NewTieredCache layers fast in front of durable.
func NewTieredCache(fast, durable Cache) *TieredCache {
	return &TieredCache{fast: fast, durable: durable}
}

// Get checks the fast tier first. Errors from the fast tier are treated as
// misses so a flaky front cache never hides the durable one.
func (c *TieredCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if data, ok, err := c.fast.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}

	data, ok, err := c.durable.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	_ = c.fast.Set(ctx, key, data, TTLBackfill)
	return data, true, nil
}

// Set writes to both tiers. The fast tier keeps the entry for at most
// TTLBackfill.
func (c *TieredCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.durable.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	fastTTL := TTLBackfill
	if ttl > 0 && ttl < fastTTL {
		fastTTL = ttl
	}
	return c.fast.Set(ctx, key, data, fastTTL)
}

// Delete removes the key from both tiers.
func (c *TieredCache) Delete(ctx context.Context, key string) error {
	return errors.Join(c.fast.Delete(ctx, key), c.durable.Delete(ctx, key))
}

// Close closes both tiers.
func (c *TieredCache) Close() error {
	return errors.Join(c.fast.Close(), c.durable.Close())
}

// Ensure TieredCache implements Cache.
var _ Cache = (*TieredCache)(nil)

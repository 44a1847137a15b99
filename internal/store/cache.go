package store

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"

	"github.com/roach88/tempus/internal/temporal"
)

// CachedStore keeps recently read records in memory in front of another
// Store. Every entry costs 1, so the cache holds at most size records.
//
// Only Get reads from the cache. Put and Delete remove the entry before it
// is refilled, so a dropped cache write never leaves a stale record.
type CachedStore struct {
	Store
	cache *ristretto.Cache
}

// Cached wraps s with a cache of size records. A size of 0 or less returns s
// unchanged.
func Cached(s Store, size int64) (Store, error) {
	if size <= 0 {
		return s, nil
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * size,
		MaxCost:     size,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &CachedStore{Store: s, cache: cache}, nil
}

// Put stores the value and refreshes the cached record.
func (c *CachedStore) Put(ctx context.Context, name string, value temporal.Temporal) (Record, error) {
	c.cache.Del(name)
	rec, err := c.Store.Put(ctx, name, value)
	if err != nil {
		return Record{}, err
	}
	c.cache.Set(name, rec, 1)
	return rec, nil
}

// Get returns the cached record, loading it on a miss.
func (c *CachedStore) Get(ctx context.Context, name string) (Record, error) {
	if v, ok := c.cache.Get(name); ok {
		return v.(Record), nil
	}
	rec, err := c.Store.Get(ctx, name)
	if err != nil {
		return Record{}, err
	}
	c.cache.Set(name, rec, 1)
	return rec, nil
}

// Delete drops the cached record and removes the value.
func (c *CachedStore) Delete(ctx context.Context, name string) error {
	c.cache.Del(name)
	return c.Store.Delete(ctx, name)
}

// Close releases the cache and closes the wrapped store.
func (c *CachedStore) Close() error {
	c.cache.Close()
	return c.Store.Close()
}

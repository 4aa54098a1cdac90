package schema

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Cache stores encoded column descriptions. Implement it with the caching
// solution of choice (e.g., Redis, Memcached); MemoryCache is an in-process
// implementation.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with an optional TTL.
	// If ttl is 0, the value should not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// DeletePrefix removes all values with the given prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// CacheKey identifies a cached column.
type CacheKey struct {
	Dialect string
	Table   string
	Column  string
}

// String returns the string representation of the cache key.
func (k CacheKey) String() string {
	return k.tablePrefix() + strings.ToLower(k.Column)
}

func (k CacheKey) tablePrefix() string {
	return k.Dialect + ":" + strings.ToLower(k.Table) + "."
}

// CachedResolver caches the columns found by another resolver. Lookups
// that fail are not cached.
type CachedResolver struct {
	Resolver ColumnResolver
	Cache    Cache
	Dialect  string
	TTL      time.Duration
}

// Column implements ColumnResolver.
func (r *CachedResolver) Column(ctx context.Context, table, column string) (*Column, error) {
	key := CacheKey{Dialect: r.Dialect, Table: table, Column: column}.String()
	if b, err := r.Cache.Get(ctx, key); err == nil && b != nil {
		c := &Column{}
		if err := msgpack.Unmarshal(b, c); err == nil {
			return c, nil
		}
	}
	c, err := r.Resolver.Column(ctx, table, column)
	if err != nil {
		return nil, err
	}
	b, err := msgpack.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql/schema: encode column: %w", err)
	}
	if err := r.Cache.Set(ctx, key, b, r.TTL); err != nil {
		return nil, err
	}
	return c, nil
}

// Invalidate drops the cached columns of table.
func (r *CachedResolver) Invalidate(ctx context.Context, table string) error {
	return r.Cache.DeletePrefix(ctx, CacheKey{Dialect: r.Dialect, Table: table}.tablePrefix())
}

// MemoryCache is a Cache kept in memory. It is safe for concurrent use.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value   []byte
	expires time.Time // zero when the entry never expires
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, nil
	}
	return e.value, nil
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.entries[key] = e
	return nil
}

// DeletePrefix implements Cache.
func (c *MemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

// Len returns the number of entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

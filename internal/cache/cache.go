// Package cache stores fully rewritten bot responses keyed by request URL.
package cache

import (
	"context"
	"net/url"
	"sync"
	"time"
)

// Entry is one cached rewritten response.
type Entry struct {
	Status      int       `json:"status"`
	ContentType string    `json:"content_type"`
	Body        []byte    `json:"body"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Stats is a point-in-time snapshot of cache effectiveness.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Cache is the storage contract shared by the memory and redis backends.
// Get returns nil for both a miss and an expired entry.
type Cache interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Put(ctx context.Context, key string, entry *Entry) error
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (Stats, error)
}

// Key derives the cache key for a request URL. The query is re-encoded
// through url.Values so parameter order never splits the key space.
func Key(u *url.URL) string {
	key := u.Path
	if key == "" {
		key = "/"
	}
	if q := u.Query().Encode(); q != "" {
		key += "?" + q
	}
	return key
}

// MemoryCache is the default in-process backend. A janitor goroutine sweeps
// expired entries; reads also treat expired entries as misses so the sweep
// interval never affects correctness.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	hits    int64
	misses  int64

	now func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*Entry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*Entry, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().After(entry.ExpiresAt) {
		c.mu.Lock()
		c.misses++
		c.mu.Unlock()
		return nil, nil
	}

	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
	return entry, nil
}

func (c *MemoryCache) Put(_ context.Context, key string, entry *Entry) error {
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]*Entry)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Stats(_ context.Context) (Stats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Entries: len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
	}, nil
}

// CleanupLoop evicts expired entries every interval until ctx is cancelled.
func (c *MemoryCache) CleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *MemoryCache) evictExpired() {
	now := c.now()
	c.mu.Lock()
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

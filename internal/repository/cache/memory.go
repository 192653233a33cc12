package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/floodwatch-service/internal/domain/repository"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// memoryCache is an in-process fallback used when redis is not configured.
// Expired entries are evicted lazily on read.
type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	clock   clockwork.Clock
}

func NewMemoryCache(clock clockwork.Clock) repository.CacheRepository {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &memoryCache{
		entries: make(map[string]memoryEntry),
		clock:   clock,
	}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if c.clock.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, nil
	}
	return entry.value, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{
		value:     value,
		expiresAt: c.clock.Now().Add(ttl),
	}
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

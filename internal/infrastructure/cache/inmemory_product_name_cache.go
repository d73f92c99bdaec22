package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	catalogapp "github.com/mfg/backend/internal/application/catalog"
)

// InMemoryProductNameCache is a process-local ProductNameCache.
// Use it for development and single-instance deployments where Redis
// is not available.
type InMemoryProductNameCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]nameEntry
}

type nameEntry struct {
	id        uuid.UUID
	expiresAt time.Time
}

// NewInMemoryProductNameCache creates an in-memory cache with the given TTL.
// A non-positive TTL falls back to the default.
func NewInMemoryProductNameCache(ttl time.Duration) *InMemoryProductNameCache {
	if ttl <= 0 {
		ttl = defaultNameCacheTTL
	}
	return &InMemoryProductNameCache{
		ttl:     ttl,
		entries: make(map[string]nameEntry),
	}
}

// GetIDByName retrieves a cached product id for a name
func (c *InMemoryProductNameCache) GetIDByName(ctx context.Context, name string) (uuid.UUID, bool, error) {
	key := strings.ToLower(name)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return uuid.Nil, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return uuid.Nil, false, nil
	}

	return entry.id, true, nil
}

// SetIDByName stores a product id under its name
func (c *InMemoryProductNameCache) SetIDByName(ctx context.Context, name string, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[strings.ToLower(name)] = nameEntry{
		id:        id,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// Invalidate removes the cached entry for a name
func (c *InMemoryProductNameCache) Invalidate(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, strings.ToLower(name))
	return nil
}

var _ catalogapp.ProductNameCache = (*InMemoryProductNameCache)(nil)

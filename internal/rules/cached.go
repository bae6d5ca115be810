package rules

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/ad-quality/internal/types"
)

// DefaultCacheTTL is how long resolved rules are reused.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	rules   *types.EntityRules
	expires time.Time
}

// CachedProvider memoizes another provider's answers, including "no rules", for a TTL.
type CachedProvider struct {
	next Provider
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
	// generations counts invalidations per key; a fetch that overlaps one is not stored.
	generations map[string]uint64
}

// NewCachedProvider wraps next. A non-positive ttl selects DefaultCacheTTL.
func NewCachedProvider(next Provider, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedProvider{
		next:        next,
		ttl:         ttl,
		now:         time.Now,
		entries:     make(map[string]cacheEntry),
		generations: make(map[string]uint64),
	}
}

// Rules returns cached rules for entity, asking the wrapped provider on a miss. Errors are
// not cached, nor are answers fetched while the entity was being saved or deleted.
func (c *CachedProvider) Rules(ctx context.Context, entity string) (*types.EntityRules, error) {
	key := Key(entity)

	c.mu.Lock()
	entry, ok := c.entries[key]
	gen := c.generations[key]
	c.mu.Unlock()
	if ok && c.now().Before(entry.expires) {
		return entry.rules.Normalized(), nil
	}

	r, err := c.next.Rules(ctx, entity)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.generations[key] == gen {
		c.entries[key] = cacheEntry{rules: r, expires: c.now().Add(c.ttl)}
	}
	c.mu.Unlock()
	return r.Normalized(), nil
}

// SaveRules writes through to the wrapped provider and drops the cached entry.
func (c *CachedProvider) SaveRules(ctx context.Context, entity string, r *types.EntityRules) error {
	store, ok := c.next.(Store)
	if !ok {
		return ErrReadOnly
	}
	if err := store.SaveRules(ctx, entity, r); err != nil {
		return err
	}
	c.Invalidate(entity)
	return nil
}

// DeleteRules deletes through to the wrapped provider and drops the cached entry.
func (c *CachedProvider) DeleteRules(ctx context.Context, entity string) (bool, error) {
	store, ok := c.next.(Store)
	if !ok {
		return false, ErrReadOnly
	}
	deleted, err := store.DeleteRules(ctx, entity)
	if err != nil {
		return false, err
	}
	c.Invalidate(entity)
	return deleted, nil
}

// ListEntities lists the wrapped store's entities. It is never cached.
func (c *CachedProvider) ListEntities(ctx context.Context) ([]string, error) {
	store, ok := c.next.(Store)
	if !ok {
		return nil, ErrReadOnly
	}
	return store.ListEntities(ctx)
}

// Invalidate drops the cached entry for entity.
func (c *CachedProvider) Invalidate(entity string) {
	key := Key(entity)
	c.mu.Lock()
	delete(c.entries, key)
	c.generations[key]++
	c.mu.Unlock()
}

var _ Store = (*CachedProvider)(nil)

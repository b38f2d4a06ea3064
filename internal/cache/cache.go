package cache

import (
	"fmt"
	"sync"

	"banking-os-go/internal/models"
	"banking-os-go/internal/store"

	"go.uber.org/zap"
)

// AccessCache is a fixed-capacity set of recently touched account ids.
// Recency is the logical timestamp of the last touch; storage order is
// insertion order with evicted slots reused in place.
type AccessCache struct {
	mu       sync.Mutex
	capacity int
	pages    []models.Page
}

func New(capacity int) (*AccessCache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: cache capacity must be positive, got %d", store.ErrInvalidConfiguration, capacity)
	}
	return &AccessCache{
		capacity: capacity,
		pages:    make([]models.Page, 0, capacity),
	}, nil
}

func (c *AccessCache) Capacity() int {
	return c.capacity
}

// Touch marks id as used at time now.
func (c *AccessCache) Touch(id, now int64) models.CacheEvent {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.pages {
		if c.pages[i].AccountId == id {
			c.pages[i].LastUsed = now
			zap.L().Debug("Cache hit", zap.Int64("account_id", id), zap.Int64("last_used", now))
			return models.CacheEvent{Kind: models.CacheHit, AccountId: id}
		}
	}

	if len(c.pages) < c.capacity {
		c.pages = append(c.pages, models.Page{AccountId: id, LastUsed: now})
		zap.L().Debug("Cache miss, page admitted", zap.Int64("account_id", id), zap.Int("resident", len(c.pages)))
		return models.CacheEvent{Kind: models.CacheMiss, AccountId: id}
	}

	victim := c.victimIndex()
	evicted := c.pages[victim].AccountId
	c.pages[victim] = models.Page{AccountId: id, LastUsed: now}

	zap.L().Info("Evicting page from memory (LRU)",
		zap.Int64("evicted_account_id", evicted),
		zap.Int64("admitted_account_id", id))
	return models.CacheEvent{Kind: models.CacheEvicted, AccountId: id, EvictedId: evicted}
}

// victimIndex returns the slot with the smallest last_used; the first one wins ties.
// Caller must hold c.mu and the cache must be non-empty.
func (c *AccessCache) victimIndex() int {
	victim := 0
	for i := 1; i < len(c.pages); i++ {
		if c.pages[i].LastUsed < c.pages[victim].LastUsed {
			victim = i
		}
	}
	return victim
}

// Snapshot returns resident account ids in storage order.
func (c *AccessCache) Snapshot() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]int64, len(c.pages))
	for i, p := range c.pages {
		ids[i] = p.AccountId
	}
	return ids
}

// Pages returns a copy of the resident pages in storage order.
func (c *AccessCache) Pages() []models.Page {
	c.mu.Lock()
	defer c.mu.Unlock()

	pages := make([]models.Page, len(c.pages))
	copy(pages, c.pages)
	return pages
}

func (c *AccessCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pages)
}

func (c *AccessCache) Contains(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.pages {
		if p.AccountId == id {
			return true
		}
	}
	return false
}

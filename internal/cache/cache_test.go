package cache

import (
	"math/rand"
	"sync"
	"testing"

	"banking-os-go/internal/models"
	"banking-os-go/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsNonPositiveCapacity(t *testing.T) {
	_, err := New(0)
	assert.ErrorIs(t, err, store.ErrInvalidConfiguration)
}

func TestTouchMissThenHit(t *testing.T) {
	c, err := New(5)
	require.NoError(t, err)

	evt := c.Touch(1, 0)
	assert.Equal(t, models.CacheEvent{Kind: models.CacheMiss, AccountId: 1}, evt)

	evt = c.Touch(1, 1)
	assert.Equal(t, models.CacheEvent{Kind: models.CacheHit, AccountId: 1}, evt)
	assert.Equal(t, []models.Page{{AccountId: 1, LastUsed: 1}}, c.Pages())
}

func TestRepeatedTouchKeepsSize(t *testing.T) {
	c, err := New(5)
	require.NoError(t, err)
	c.Touch(1, 0)
	c.Touch(2, 1)

	for now := int64(2); now < 20; now++ {
		c.Touch(2, now)
		assert.Equal(t, 2, c.Len())
	}
	assert.Equal(t, []int64{1, 2}, c.Snapshot())
}

func TestEvictsLeastRecentlyUsedInPlace(t *testing.T) {
	c, err := New(3)
	require.NoError(t, err)
	c.Touch(10, 0)
	c.Touch(20, 1)
	c.Touch(30, 2)
	c.Touch(10, 3) // 20 is now the oldest

	evt := c.Touch(40, 4)
	assert.Equal(t, models.CacheEvicted, evt.Kind)
	assert.Equal(t, int64(20), evt.EvictedId)
	assert.Equal(t, int64(40), evt.AccountId)

	// Storage order, not LRU order: the victim's slot is reused.
	assert.Equal(t, []int64{10, 40, 30}, c.Snapshot())
}

func TestEvictionTieBreaksOnLowestIndex(t *testing.T) {
	c, err := New(3)
	require.NoError(t, err)
	c.Touch(1, 7)
	c.Touch(2, 7)
	c.Touch(3, 7)

	evt := c.Touch(4, 8)
	assert.Equal(t, int64(1), evt.EvictedId)
	assert.Equal(t, []int64{4, 2, 3}, c.Snapshot())
}

func TestRandomTouchesRespectCapacityAndLRU(t *testing.T) {
	const capacity = 5
	c, err := New(capacity)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(42))

	for now := int64(0); now < 2000; now++ {
		before := c.Pages()
		id := int64(rng.Intn(12) + 1)
		evt := c.Touch(id, now)

		assert.LessOrEqual(t, c.Len(), capacity)
		assertDistinct(t, c.Snapshot())

		if evt.Kind == models.CacheEvicted {
			require.Len(t, before, capacity)
			oldest := before[0]
			for _, p := range before[1:] {
				if p.LastUsed < oldest.LastUsed {
					oldest = p
				}
			}
			assert.Equal(t, oldest.AccountId, evt.EvictedId)
			assert.False(t, c.Contains(evt.EvictedId))
		}
		assert.True(t, c.Contains(id))
	}
}

func TestConcurrentTouches(t *testing.T) {
	c, err := New(5)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				c.Touch(int64((w+i)%9+1), int64(w*1000+i))
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 5, c.Len())
	assertDistinct(t, c.Snapshot())
}

func assertDistinct(t *testing.T, ids []int64) {
	t.Helper()
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		assert.False(t, seen[id], "account %d resident twice", id)
		seen[id] = true
	}
}

package memorystore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"freight/internal/adapters/out/memorystore"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newStore() (*memorystore.Store, *manualClock) {
	clock := &manualClock{now: time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)}
	return memorystore.NewStoreWithClock(clock.Now), clock
}

func TestSetGetDelete(t *testing.T) {
	ctx := context.Background()
	s, clock := newStore()

	require.NoError(t, s.Set(ctx, "profile:u1", "v", time.Minute))
	v, ok, err := s.Get(ctx, "profile:u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	clock.Advance(time.Minute)
	_, ok, err = s.Get(ctx, "profile:u1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "profile:u1", "v", time.Minute))
	require.NoError(t, s.Delete(ctx, "profile:u1"))
	require.NoError(t, s.Delete(ctx, "missing"))
	_, ok, _ = s.Get(ctx, "profile:u1")
	assert.False(t, ok)
}

func TestIncrWithExpiry_FirstWriteStartsTheWindow(t *testing.T) {
	ctx := context.Background()
	s, clock := newStore()

	n, ttl, err := s.IncrWithExpiry(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, time.Minute, ttl)

	clock.Advance(20 * time.Second)
	n, ttl, err = s.IncrWithExpiry(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, 40*time.Second, ttl)

	clock.Advance(40 * time.Second)
	n, ttl, err = s.IncrWithExpiry(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, time.Minute, ttl)
}

func TestIncrWithExpiry_ConcurrentIncrementsAreNotLost(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.IncrWithExpiry(ctx, "burst", time.Minute)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	v, ok, err := s.Get(ctx, "burst")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "50", v)
}

func TestIncrWithExpiry_NonNumericValue(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore()
	require.NoError(t, s.Set(ctx, "k", "abc", time.Minute))

	_, _, err := s.IncrWithExpiry(ctx, "k", time.Minute)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrStorageUnavailable)
	assert.Equal(t, errs.KindUnavailable, errs.Kind(err))
}

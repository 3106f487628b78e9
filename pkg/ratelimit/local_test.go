package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeClock lets tests advance time without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLocalWindow() (*LocalWindow, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	l := NewLocalWindow()
	l.now = clock.Now
	return l, clock
}

func TestLocalWindowConsumesCapacity(t *testing.T) {
	t.Parallel()

	l, _ := newTestLocalWindow()
	ctx := context.Background()

	d, err := l.Check(ctx, "create:alice@example.com", 2, time.Minute)
	require.NoError(t, err)
	require.True(t, d.Allowed)
	require.Equal(t, 1, d.Remaining)

	d, err = l.Check(ctx, "create:alice@example.com", 2, time.Minute)
	require.NoError(t, err)
	require.True(t, d.Allowed)
	require.Equal(t, 0, d.Remaining)

	d, err = l.Check(ctx, "create:alice@example.com", 2, time.Minute)
	require.NoError(t, err)
	require.False(t, d.Allowed)
	require.Equal(t, 0, d.Remaining)
}

func TestLocalWindowRefillsAfterFullWindow(t *testing.T) {
	t.Parallel()

	l, clock := newTestLocalWindow()
	ctx := context.Background()

	for range 2 {
		d, err := l.Check(ctx, "k", 2, time.Minute)
		require.NoError(t, err)
		require.True(t, d.Allowed)
	}
	d, err := l.Check(ctx, "k", 2, time.Minute)
	require.NoError(t, err)
	require.False(t, d.Allowed)

	clock.Advance(time.Minute)

	d, err = l.Check(ctx, "k", 2, time.Minute)
	require.NoError(t, err)
	require.True(t, d.Allowed)
	require.Equal(t, 1, d.Remaining)
}

func TestLocalWindowPartialRefill(t *testing.T) {
	t.Parallel()

	l, clock := newTestLocalWindow()
	ctx := context.Background()

	for range 2 {
		_, err := l.Check(ctx, "k", 2, time.Minute)
		require.NoError(t, err)
	}

	// Half a window refills one of two units.
	clock.Advance(30 * time.Second)

	d, err := l.Check(ctx, "k", 2, time.Minute)
	require.NoError(t, err)
	require.True(t, d.Allowed)

	d, err = l.Check(ctx, "k", 2, time.Minute)
	require.NoError(t, err)
	require.False(t, d.Allowed)
}

func TestLocalWindowKeysAreIndependent(t *testing.T) {
	t.Parallel()

	l, _ := newTestLocalWindow()
	ctx := context.Background()

	d, err := l.Check(ctx, "create:alice", 1, time.Minute)
	require.NoError(t, err)
	require.True(t, d.Allowed)

	d, err = l.Check(ctx, "create:alice", 1, time.Minute)
	require.NoError(t, err)
	require.False(t, d.Allowed)

	d, err = l.Check(ctx, "create:bob", 1, time.Minute)
	require.NoError(t, err)
	require.True(t, d.Allowed)
}

func TestLocalWindowConcurrentAccess(t *testing.T) {
	t.Parallel()

	l := NewLocalWindow()
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	var allowed int64
	var mu sync.Mutex

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := l.Check(ctx, "shared", 10, time.Hour)
			require.NoError(t, err)
			if d.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// The window is long enough that no meaningful refill happens mid-test.
	require.EqualValues(t, 10, allowed)
}

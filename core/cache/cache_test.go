package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetSet(t *testing.T) {
	c := New[int](time.Minute)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", 1)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	c.Invalidate("a")
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestCache_Expiry(t *testing.T) {
	now := time.Unix(1000, 0)
	c := New[string](time.Second)
	c.now = func() time.Time { return now }

	c.Set("a", "x")
	now = now.Add(500 * time.Millisecond)
	_, ok := c.Get("a")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok)

	assert.Equal(t, 1, c.Purge())
	assert.Equal(t, 0, c.Len())
}

func TestCache_ZeroTTLDisablesCaching(t *testing.T) {
	c := New[int](0)
	c.Set("a", 1)
	assert.Equal(t, 0, c.Len())

	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}
	v1, err := c.GetOrLoad(context.Background(), "a", load)
	require.NoError(t, err)
	v2, err := c.GetOrLoad(context.Background(), "a", load)
	require.NoError(t, err)

	assert.Equal(t, 1, v1)
	assert.Equal(t, 2, v2)
}

func TestCache_GetOrLoadSingleflight(t *testing.T) {
	c := New[int](time.Minute)

	var calls atomic.Int32
	release := make(chan struct{})
	load := func(context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.GetOrLoad(context.Background(), "k", load)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	// Let the goroutines pile up on the flight before releasing it
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestCache_GetOrLoadError(t *testing.T) {
	c := New[int](time.Minute)
	boom := errors.New("boom")

	_, err := c.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

// blockingLoad returns a loader that signals started and waits for release.
func blockingLoad(value int, started, release chan struct{}, calls *atomic.Int32) LoadFunc[int] {
	return func(context.Context) (int, error) {
		calls.Add(1)
		close(started)
		<-release
		return value, nil
	}
}

func TestCache_InvalidateDuringLoadDiscardsResult(t *testing.T) {
	c := New[int](time.Minute)

	var calls atomic.Int32
	started, release := make(chan struct{}), make(chan struct{})
	done := make(chan int)
	go func() {
		v, err := c.GetOrLoad(context.Background(), "k", blockingLoad(1, started, release, &calls))
		assert.NoError(t, err)
		done <- v
	}()

	<-started
	c.Invalidate("k")
	close(release)

	assert.Equal(t, 1, <-done, "the caller still receives what it loaded")
	_, ok := c.Get("k")
	assert.False(t, ok, "a load that raced an invalidation must not be cached")
	assert.Equal(t, 0, c.Len())
}

func TestCache_SetDuringLoadWins(t *testing.T) {
	c := New[int](time.Minute)

	var calls atomic.Int32
	started, release := make(chan struct{}), make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := c.GetOrLoad(context.Background(), "k", blockingLoad(1, started, release, &calls))
		assert.NoError(t, err)
	}()

	<-started
	c.Set("k", 2)
	close(release)
	<-done

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestCache_InvalidateStartsFreshFlight(t *testing.T) {
	c := New[int](time.Minute)

	var calls atomic.Int32
	started, release := make(chan struct{}), make(chan struct{})
	first := make(chan struct{})
	go func() {
		defer close(first)
		_, err := c.GetOrLoad(context.Background(), "k", blockingLoad(1, started, release, &calls))
		assert.NoError(t, err)
	}()

	<-started
	c.Invalidate("k")

	// The stale flight is still blocked; a new caller must not join it
	v, err := c.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) {
		calls.Add(1)
		return 2, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	close(release)
	<-first

	assert.Equal(t, int32(2), calls.Load())
	cached, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, cached)
}

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
	"golang.org/x/sync/errgroup"
)

type nopLogger struct{}

func (nopLogger) Warn(string, ...interface{}) {}

type countingMetrics struct {
	mu      sync.Mutex
	results map[string]int
}

func (m *countingMetrics) ObserveCacheLookup(_ string, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.results == nil {
		m.results = make(map[string]int)
	}
	m.results[result]++
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}
func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}
func (failingStore) Delete(context.Context, ...string) error { return errors.New("connection refused") }

type profile struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestReadThrough_LoadsOnceThenHits(t *testing.T) {
	metrics := &countingMetrics{}
	c := NewReadThrough[*profile]("business", NewMemoryStore(), time.Minute, nopLogger{}, metrics)

	loads := 0
	load := func(context.Context) (*profile, error) {
		loads++
		return &profile{ID: 1, Name: "Studio"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := c.Get(context.Background(), 1, load)
		require.NoError(t, err)
		assert.Equal(t, "Studio", got.Name)
	}

	assert.Equal(t, 1, loads)
	assert.Equal(t, 1, metrics.results[resultMiss])
	assert.Equal(t, 2, metrics.results[resultHit])
}

func TestReadThrough_InvalidateForcesReload(t *testing.T) {
	c := NewReadThrough[profile]("business", NewMemoryStore(), time.Minute, nopLogger{}, nil)
	ctx := context.Background()

	name := "Old"
	load := func(context.Context) (profile, error) { return profile{ID: 1, Name: name}, nil }

	got, err := c.Get(ctx, 1, load)
	require.NoError(t, err)
	assert.Equal(t, "Old", got.Name)

	name = "New"
	got, err = c.Get(ctx, 1, load)
	require.NoError(t, err)
	assert.Equal(t, "Old", got.Name)

	require.NoError(t, c.Invalidate(ctx, 1))
	got, err = c.Get(ctx, 1, load)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
}

func TestReadThrough_ErrorsAreNotCached(t *testing.T) {
	c := NewReadThrough[profile]("service", NewMemoryStore(), time.Minute, nopLogger{}, nil)
	errNotFound := errors.New("not found")

	calls := 0
	_, err := c.Get(context.Background(), 7, func(context.Context) (profile, error) {
		calls++
		return profile{}, errNotFound
	})
	assert.ErrorIs(t, err, errNotFound)

	got, err := c.Get(context.Background(), 7, func(context.Context) (profile, error) {
		calls++
		return profile{ID: 7}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, 2, calls)
}

func TestReadThrough_StoreFailureFallsBackToSource(t *testing.T) {
	metrics := &countingMetrics{}
	c := NewReadThrough[profile]("staff", failingStore{}, time.Minute, nopLogger{}, metrics)

	got, err := c.Get(context.Background(), 3, func(context.Context) (profile, error) {
		return profile{ID: 3}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)
	assert.Equal(t, 1, metrics.results[resultError])

	assert.Error(t, c.Invalidate(context.Background(), 3))
}

func TestReadThrough_ConcurrentMissesShareOneLoad(t *testing.T) {
	c := NewReadThrough[profile]("business", NewMemoryStore(), time.Minute, nopLogger{}, nil)

	var loads int32
	release := make(chan struct{})
	load := func(context.Context) (profile, error) {
		atomic.AddInt32(&loads, 1)
		<-release
		return profile{ID: 1}, nil
	}

	var g errgroup.Group
	started := make(chan struct{}, 10)
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			started <- struct{}{}
			_, err := c.Get(context.Background(), 1, load)
			return err
		})
	}
	for i := 0; i < 10; i++ {
		<-started
	}
	time.Sleep(20 * time.Millisecond)
	close(release)

	require.NoError(t, g.Wait())
	// горутины, опоздавшие к первому вызову, получают значение уже из хранилища
	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))
	value, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v"), value)

	now = now.Add(time.Minute)
	_, found, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "forever", []byte("v"), 0))
	require.NoError(t, store.Delete(ctx, "forever", "missing"))
	_, found, _ = store.Get(ctx, "forever")
	assert.False(t, found)
}

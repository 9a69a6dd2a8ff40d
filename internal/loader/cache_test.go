package loader

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guilhermeadsjss/Progresso-da-parada/internal/model"
)

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

func countingLoad(calls *int) LoadFunc {
	return func() (*model.Table, error) {
		*calls++
		return &model.Table{
			LoadID: "load",
			Sheet:  DefaultSheet,
			Activities: []model.Activity{
				{ID: 0, Area: "A", Status: "Concluído"},
				{ID: 1, Area: "B", Status: "Em Andamento"},
			},
		}, nil
	}
}

func TestCache_ServesWithinWindow(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)}
	calls := 0
	cache := NewCache(countingLoad(&calls), DefaultTTL, WithClock(clock.Now))

	first := cache.Get()
	clock.Advance(4 * time.Second)
	second := cache.Get()

	assert.Equal(t, 1, calls)
	require.NoError(t, second.Err)
	assert.Same(t, first.Table, second.Table)
	assert.Equal(t, first.Table.Activities, second.Table.Activities)
	assert.Equal(t, first.LoadedAt, second.LoadedAt)
}

func TestCache_ReloadsAfterExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)}
	calls := 0
	cache := NewCache(countingLoad(&calls), DefaultTTL, WithClock(clock.Now))

	first := cache.Get()
	clock.Advance(DefaultTTL)
	second := cache.Get()

	assert.Equal(t, 2, calls)
	assert.NotSame(t, first.Table, second.Table)
	assert.True(t, second.LoadedAt.After(first.LoadedAt))
}

func TestCache_Invalidate(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)}
	calls := 0
	cache := NewCache(countingLoad(&calls), DefaultTTL, WithClock(clock.Now))

	cache.Get()
	cache.Invalidate()
	cache.Get()

	assert.Equal(t, 2, calls)
}

func TestCache_ZeroTTLAlwaysReloads(t *testing.T) {
	calls := 0
	cache := NewCache(countingLoad(&calls), 0)

	cache.Get()
	cache.Get()
	cache.Get()

	assert.Equal(t, 3, calls)
}

func TestCache_FailuresAreCachedForWindow(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)}
	calls := 0
	cache := NewCache(func() (*model.Table, error) {
		calls++
		return &model.Table{}, ErrFileNotFound
	}, DefaultTTL, WithClock(clock.Now))

	first := cache.Get()
	second := cache.Get()

	assert.Equal(t, 1, calls)
	assert.True(t, errors.Is(first.Err, ErrFileNotFound))
	assert.True(t, errors.Is(second.Err, ErrFileNotFound))
	assert.False(t, second.Table.Loaded())
}

func TestCache_ObserverSeesOnlyRealLoads(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)}
	calls := 0
	var observed []Snapshot
	cache := NewCache(countingLoad(&calls), DefaultTTL,
		WithClock(clock.Now),
		WithObserver(func(s Snapshot) { observed = append(observed, s) }),
	)

	cache.Get()
	cache.Get()
	clock.Advance(10 * time.Second)
	cache.Get()

	require.Len(t, observed, 2)
	assert.Equal(t, "load", observed[0].Table.LoadID)
}

func TestCache_ConcurrentGet(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	cache := NewCache(func() (*model.Table, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return &model.Table{Sheet: DefaultSheet}, nil
	}, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap := cache.Get()
			assert.True(t, snap.Table.Loaded())
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

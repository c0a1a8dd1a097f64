package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fazecat/dexsignals/Internal/types"
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

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestMemory_EmptyIsMiss(t *testing.T) {
	m := NewMemory(DefaultTTL, newFakeClock().Now)
	e, ok := m.Get(context.Background())
	assert.False(t, ok)
	assert.Nil(t, e)
}

func TestMemory_TTLBoundary(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		wantHit bool
	}{
		{"immediately", 0, true},
		{"just before expiry", 24999 * time.Millisecond, true},
		{"exactly at expiry", 25000 * time.Millisecond, false},
		{"just after expiry", 25001 * time.Millisecond, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock()
			m := NewMemory(DefaultTTL, clock.Now)

			signals := []types.Signal{{Kind: types.SignalBuy, Strength: 65, TokenAddress: "0xa"}}
			meta := types.ScanMeta{Count: 1, PairsScanned: 12, Sources: []string{"weth"}}
			m.Put(context.Background(), signals, meta)

			clock.Advance(tt.elapsed)
			e, ok := m.Get(context.Background())
			require.Equal(t, tt.wantHit, ok)
			if tt.wantHit {
				assert.Equal(t, signals, e.Signals)
				assert.Equal(t, meta, e.Meta)
			}
		})
	}
}

func TestMemory_PutReplacesSlot(t *testing.T) {
	clock := newFakeClock()
	m := NewMemory(DefaultTTL, clock.Now)

	first := m.Put(context.Background(), []types.Signal{{Strength: 10}}, types.ScanMeta{Count: 1})
	clock.Advance(time.Second)
	second := m.Put(context.Background(), []types.Signal{{Strength: 20}, {Strength: 5}}, types.ScanMeta{Count: 2})

	e, ok := m.Get(context.Background())
	require.True(t, ok)
	assert.Same(t, second, e)
	assert.NotSame(t, first, e)
	assert.Equal(t, clock.Now(), e.ProducedAt)
}

func TestMemory_DefaultsTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, NewMemory(0, nil).TTL())
	assert.Equal(t, time.Minute, NewMemory(time.Minute, nil).TTL())
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	m := NewMemory(DefaultTTL, time.Now)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			m.Put(context.Background(), []types.Signal{{Strength: i}}, types.ScanMeta{Count: 1})
		}(i)
		go func() {
			defer wg.Done()
			if e, ok := m.Get(context.Background()); ok {
				assert.Len(t, e.Signals, 1)
			}
		}()
	}
	wg.Wait()

	_, ok := m.Get(context.Background())
	assert.True(t, ok)
}

func TestEntry_FreshNil(t *testing.T) {
	var e *Entry
	assert.False(t, e.Fresh(time.Now(), DefaultTTL))
}

func TestRedis_UnreachableDegradesToMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	r := NewRedis(client, "dexsignals:test", DefaultTTL, newFakeClock().Now)
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.Error(t, r.Ping(ctx))

	e := r.Put(ctx, []types.Signal{{Strength: 50}}, types.ScanMeta{Count: 1})
	require.NotNil(t, e)
	assert.Len(t, e.Signals, 1)

	got, ok := r.Get(ctx)
	assert.False(t, ok)
	assert.Nil(t, got)
}

package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fazecat/dexsignals/Internal/types"
)

// DefaultTTL bounds how often the upstream provider is hit.
const DefaultTTL = 25 * time.Second

// Entry is one scan cycle's result. It is never mutated after Put.
type Entry struct {
	Signals    []types.Signal `json:"signals"`
	ProducedAt time.Time      `json:"producedAt"`
	Meta       types.ScanMeta `json:"meta"`
}

// Fresh reports whether the entry is younger than ttl at now.
func (e *Entry) Fresh(now time.Time, ttl time.Duration) bool {
	return e != nil && now.Sub(e.ProducedAt) < ttl
}

// SnapshotCache is a single-slot, time-boxed store of the latest scan.
type SnapshotCache interface {
	Get(ctx context.Context) (*Entry, bool)
	Put(ctx context.Context, signals []types.Signal, meta types.ScanMeta) *Entry
}

// Clock returns the current time. Tests pass a fake one.
type Clock func() time.Time

// Memory is the in-process SnapshotCache. Reads take no lock; concurrent
// writers race and the last one wins.
type Memory struct {
	ttl   time.Duration
	now   Clock
	entry atomic.Pointer[Entry]
}

func NewMemory(ttl time.Duration, now Clock) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Memory{ttl: ttl, now: now}
}

func (m *Memory) Get(ctx context.Context) (*Entry, bool) {
	e := m.entry.Load()
	if !e.Fresh(m.now(), m.ttl) {
		return nil, false
	}
	return e, true
}

func (m *Memory) Put(ctx context.Context, signals []types.Signal, meta types.ScanMeta) *Entry {
	e := &Entry{Signals: signals, ProducedAt: m.now(), Meta: meta}
	m.entry.Store(e)
	return e
}

func (m *Memory) TTL() time.Duration {
	return m.ttl
}

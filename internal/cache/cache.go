// Package cache is a keyed store of expensive values with a two-tier
// eviction policy: a hard LRU cap checked before insertion, and a soft idle
// sweep armed by OnSwitch and run from Tick. The cache never disposes values
// on its own; eviction paths take a Disposer from the caller.
package cache

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"modelrt/internal/metrics"
)

// Disposer releases a value removed by eviction. Errors and panics are
// logged per entry and never abort a sweep.
type Disposer[K comparable, V any] func(key K, value V) error

type entry[V any] struct {
	value      V
	lastAccess atomic.Int64 // unix nanos, monotonic non-decreasing
}

func (e *entry[V]) touch(now int64) {
	for {
		old := e.lastAccess.Load()
		if now <= old || e.lastAccess.CompareAndSwap(old, now) {
			return
		}
	}
}

// Item is a read-only view of one entry.
type Item[K comparable] struct {
	Key        K
	LastAccess time.Time
}

// Cache is safe for concurrent use. Get only takes a read lock; eviction
// sweeps are serialized so two sweeps never dispose the same entry.
type Cache[K comparable, V any] struct {
	cfg Config
	log zerolog.Logger

	mu      sync.RWMutex
	entries map[K]*entry[V]

	sweepMu sync.Mutex
	// armed is nil when no idle sweep is pending. Each OnSwitch stores a
	// fresh value so a sweep only disarms the switch it observed.
	armed atomic.Pointer[switchMark]
}

type switchMark struct{ at int64 }

// New constructs an empty cache, applying defaults for unset fields.
func New[K comparable, V any](cfg Config) *Cache[K, V] {
	cfg.applyDefaults()
	return &Cache[K, V]{
		cfg:     cfg,
		log:     cfg.Logger.With().Str("component", "cache").Str("cache", cfg.Name).Logger(),
		entries: make(map[K]*entry[V]),
	}
}

func (c *Cache[K, V]) now() int64 { return c.cfg.Now().UnixNano() }

// Get returns the value for key and refreshes its access time.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		metrics.CacheLookups.WithLabelValues(c.cfg.Name, "miss").Inc()
		var zero V
		return zero, false
	}
	e.touch(c.now())
	metrics.CacheLookups.WithLabelValues(c.cfg.Name, "hit").Inc()
	return e.value, true
}

// Put inserts or overwrites key. An overwritten value is dropped without
// disposal.
func (c *Cache[K, V]) Put(key K, value V) {
	e := &entry[V]{value: value}
	e.lastAccess.Store(c.now())
	c.mu.Lock()
	c.entries[key] = e
	n := len(c.entries)
	c.mu.Unlock()
	metrics.CacheSize.WithLabelValues(c.cfg.Name).Set(float64(n))
}

// Remove deletes key unconditionally and hands the value back for the
// caller to dispose.
func (c *Cache[K, V]) Remove(key K) (V, bool) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok {
		delete(c.entries, key)
	}
	n := len(c.entries)
	c.mu.Unlock()
	metrics.CacheSize.WithLabelValues(c.cfg.Name).Set(float64(n))
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Snapshot lists every entry ordered by ascending access time.
func (c *Cache[K, V]) Snapshot() []Item[K] {
	c.mu.RLock()
	out := make([]Item[K], 0, len(c.entries))
	for k, e := range c.entries {
		out = append(out, Item[K]{Key: k, LastAccess: time.Unix(0, e.lastAccess.Load())})
	}
	c.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].LastAccess.Before(out[j].LastAccess) })
	return out
}

// Peek returns the value for key without touching its access time.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// OnSwitch records the time of a selection change and arms the idle sweep.
func (c *Cache[K, V]) OnSwitch() {
	c.armed.Store(&switchMark{at: c.now()})
}

// CleanupPending reports whether an idle sweep is armed.
func (c *Cache[K, V]) CleanupPending() bool { return c.armed.Load() != nil }

// Tick runs the idle sweep once IdleWindow has passed since the last
// OnSwitch: every entry idle for longer than IdleWindow is removed and
// disposed, then the sweep is disarmed unless another OnSwitch arrived
// while it ran.
func (c *Cache[K, V]) Tick(dispose Disposer[K, V]) {
	mark := c.armed.Load()
	if mark == nil {
		return
	}
	now := c.now()
	window := c.cfg.IdleWindow.Nanoseconds()
	if now-mark.at < window {
		return
	}
	c.sweepMu.Lock()
	defer c.sweepMu.Unlock()
	if c.armed.Load() != mark {
		return
	}
	var victims []K
	c.mu.RLock()
	for k, e := range c.entries {
		if now-e.lastAccess.Load() > window {
			victims = append(victims, k)
		}
	}
	c.mu.RUnlock()
	evicted := c.evict(victims, dispose, "idle", func(e *entry[V]) bool {
		return now-e.lastAccess.Load() > window
	})
	c.armed.CompareAndSwap(mark, nil)
	if evicted > 0 {
		c.log.Info().Int("evicted", evicted).Int("remaining", c.Len()).Msg("idle sweep")
	}
}

// CheckAndClean is called before an insertion. When the pending insert
// would take size past the trigger percentage of maxSize it evicts entries
// in ascending access-time order so that size after the insert is the
// target percentage of maxSize.
func (c *Cache[K, V]) CheckAndClean(dispose Disposer[K, V], maxSize int) {
	if maxSize <= 0 {
		return
	}
	c.sweepMu.Lock()
	defer c.sweepMu.Unlock()
	size := c.Len()
	if (size+1)*100 <= maxSize*c.cfg.TriggerPercent {
		return
	}
	keep := max(maxSize*c.cfg.TargetPercent/100-1, 0)
	items := c.Snapshot()
	drop := len(items) - keep
	if drop <= 0 {
		return
	}
	victims := make([]K, 0, drop)
	for _, it := range items[:drop] {
		victims = append(victims, it.Key)
	}
	evicted := c.evict(victims, dispose, "lru", nil)
	c.log.Info().Int("evicted", evicted).Int("max", maxSize).Int("remaining", c.Len()).Msg("lru eviction")
}

// Clear disposes and removes every entry.
func (c *Cache[K, V]) Clear(dispose Disposer[K, V]) {
	c.sweepMu.Lock()
	defer c.sweepMu.Unlock()
	c.mu.Lock()
	old := c.entries
	c.entries = make(map[K]*entry[V])
	c.mu.Unlock()
	metrics.CacheSize.WithLabelValues(c.cfg.Name).Set(0)
	for k, e := range old {
		c.dispose(k, e.value, dispose)
	}
	metrics.CacheEvictions.WithLabelValues(c.cfg.Name, "clear").Add(float64(len(old)))
}

// evict removes each key whose entry still satisfies still (nil accepts
// all) and disposes it after removal, so a concurrent Get never returns a
// disposed value. Callers hold sweepMu.
func (c *Cache[K, V]) evict(keys []K, dispose Disposer[K, V], reason string, still func(*entry[V]) bool) int {
	n := 0
	for _, k := range keys {
		c.mu.Lock()
		e, ok := c.entries[k]
		if ok && (still == nil || still(e)) {
			delete(c.entries, k)
		} else {
			ok = false
		}
		c.mu.Unlock()
		if !ok {
			continue
		}
		n++
		c.dispose(k, e.value, dispose)
	}
	metrics.CacheEvictions.WithLabelValues(c.cfg.Name, reason).Add(float64(n))
	metrics.CacheSize.WithLabelValues(c.cfg.Name).Set(float64(c.Len()))
	return n
}

func (c *Cache[K, V]) dispose(key K, value V, dispose Disposer[K, V]) {
	if dispose == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			metrics.CacheDisposeFailures.WithLabelValues(c.cfg.Name).Inc()
			c.log.Error().Str("key", fmt.Sprint(key)).Interface("panic", r).Msg("disposer panicked")
		}
	}()
	if err := dispose(key, value); err != nil {
		metrics.CacheDisposeFailures.WithLabelValues(c.cfg.Name).Inc()
		c.log.Warn().Err(err).Str("key", fmt.Sprint(key)).Msg("dispose failed")
	}
}

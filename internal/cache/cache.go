package cache

import (
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Options configures a cache. The zero value is usable.
type Options struct {
	// Capacity bounds the in-memory store. Values <= 0 mean unbounded.
	Capacity int
	// Dir is the directory DiskCache snapshots live in. Defaults to DefaultDir().
	Dir string
	// Bucket is the bbolt bucket used by OpenBolt. Defaults to "cache".
	Bucket string
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
	// Logger receives debug events. Defaults to a no-op logger.
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Cache is an expiring key-value cache over a Store.
//
// Every operation takes the same lock, so the tracker and store are always
// observed as a consistent pair. Expired entries are not swept; they are
// purged the next time their key is read.
type Cache[V any] struct {
	mu       sync.Mutex
	interval time.Duration
	tracker  *KeyTracker
	store    Store[V]
	now      func() time.Time
	log      *zap.Logger
	closed   bool
}

// NewInMemory returns a cache whose entries live for expirationInterval.
// With opts.Capacity > 0 the least recently used entry is dropped when full.
func NewInMemory[V any](expirationInterval time.Duration, opts Options) *Cache[V] {
	c, _ := newCache(expirationInterval, opts, func(onEvict func(string)) (Store[V], error) {
		return newMemoryStore[V](opts.Capacity, onEvict), nil
	})
	return c
}

// OpenBolt returns a cache backed by a bbolt database at path. Keys already
// present in the database are tracked immediately.
func OpenBolt[V any](path string, expirationInterval time.Duration, opts Options) (*Cache[V], error) {
	log := opts.withDefaults().Logger
	return newCache(expirationInterval, opts, func(onEvict func(string)) (Store[V], error) {
		s, err := openBoltStore[V](path, opts.Bucket, onEvict, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}

func newMemoryStore[V any](capacity int, onEvict func(string)) Store[V] {
	if capacity > 0 {
		if s, err := newLRUStore[V](capacity, onEvict); err == nil {
			return s
		}
	}
	return newMapStore[V]()
}

func newCache[V any](interval time.Duration, opts Options, build func(onEvict func(string)) (Store[V], error)) (*Cache[V], error) {
	opts = opts.withDefaults()
	c := &Cache[V]{
		interval: interval,
		tracker:  NewKeyTracker(),
		now:      opts.Clock,
		log:      opts.Logger,
	}
	// The store may call this from any goroutine, possibly while c.mu is held.
	// Explicit removals untrack first, so only unilateral drops are still tracked.
	onEvict := func(key string) {
		if c.tracker.Contains(key) {
			c.log.Debug("store dropped entry", zap.String("key", key))
		}
		c.tracker.OnEvicted(key)
	}
	store, err := build(onEvict)
	if err != nil {
		return nil, err
	}
	c.store = store
	for _, k := range store.Keys() {
		c.tracker.Track(k)
	}
	return c, nil
}

// ExpirationInterval returns the lifetime applied to every entry written by Set.
func (c *Cache[V]) ExpirationInterval() time.Duration { return c.interval }

// Set stores value under key with an expiry of now plus the expiration
// interval, replacing any existing entry.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.insertLocked(NewEntry(key, value, c.now().Add(c.interval)))
}

// SetValue stores *value under key. A nil value removes the key.
func (c *Cache[V]) SetValue(key string, value *V) {
	if value == nil {
		c.RemoveValue(key)
		return
	}
	c.Set(key, *value)
}

// Value returns the value stored under key. An expired entry is removed and
// reported as absent.
func (c *Cache[V]) Value(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entryLocked(key)
	if !ok {
		var zero V
		return zero, false
	}
	return e.Value(), true
}

// RemoveValue removes key. Removing an absent key is a no-op.
func (c *Cache[V]) RemoveValue(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(key)
}

// RemoveAllValues removes every entry.
func (c *Cache[V]) RemoveAllValues() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tracker.UntrackAll()
	c.store.Clear()
}

// Len returns the number of tracked keys, including expired entries that have
// not been read since they expired.
func (c *Cache[V]) Len() int {
	return c.tracker.Len()
}

// Keys returns the tracked keys in ascending order.
func (c *Cache[V]) Keys() []string {
	return c.tracker.Keys()
}

// Close releases the store's resources, if it has any. Close is idempotent.
func (c *Cache[V]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if closer, ok := c.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// entryLocked returns the live entry for key, purging it if it has expired.
func (c *Cache[V]) entryLocked(key string) (*Entry[V], bool) {
	e, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	if e.IsExpired(c.now()) {
		c.log.Debug("purged expired entry", zap.String("key", key), zap.Time("expires_at", e.ExpiresAt()))
		c.removeLocked(key)
		return nil, false
	}
	return e, true
}

// Track precedes Put: a store that rejects the write untracks the key via onEvict.
func (c *Cache[V]) insertLocked(e *Entry[V]) {
	c.tracker.Track(e.Key())
	c.store.Put(e.Key(), e)
}

func (c *Cache[V]) removeLocked(key string) {
	c.tracker.Untrack(key)
	c.store.Remove(key)
}

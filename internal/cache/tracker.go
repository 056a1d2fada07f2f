package cache

import (
	"slices"
	"sync"
)

// KeyTracker mirrors the key set of an underlying Store.
//
// It has its own lock so OnEvicted can be delivered from whatever goroutine the
// store evicts on, including while the owning Cache holds its lock.
type KeyTracker struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// NewKeyTracker returns an empty tracker.
func NewKeyTracker() *KeyTracker {
	return &KeyTracker{keys: make(map[string]struct{})}
}

// Track adds key. Tracking a known key is a no-op.
func (t *KeyTracker) Track(key string) {
	t.mu.Lock()
	t.keys[key] = struct{}{}
	t.mu.Unlock()
}

// Untrack removes key. Untracking an unknown key is a no-op.
func (t *KeyTracker) Untrack(key string) {
	t.mu.Lock()
	delete(t.keys, key)
	t.mu.Unlock()
}

// UntrackAll forgets every key.
func (t *KeyTracker) UntrackAll() {
	t.mu.Lock()
	clear(t.keys)
	t.mu.Unlock()
}

// OnEvicted is the store's eviction notification. It only mutates the key set
// and must never call back into the Cache.
func (t *KeyTracker) OnEvicted(key string) {
	t.Untrack(key)
}

// Contains reports whether key is tracked.
func (t *KeyTracker) Contains(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.keys[key]
	return ok
}

// Len returns the number of tracked keys.
func (t *KeyTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.keys)
}

// Keys returns the tracked keys in ascending order.
func (t *KeyTracker) Keys() []string {
	t.mu.Lock()
	out := make([]string, 0, len(t.keys))
	for k := range t.keys {
		out = append(out, k)
	}
	t.mu.Unlock()
	slices.Sort(out)
	return out
}

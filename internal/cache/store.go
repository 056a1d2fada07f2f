package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Store is the underlying associative store a Cache owns.
//
// A Store may drop entries on its own (capacity, failed writes). When it does,
// it must call the onEvict function it was built with. Explicit Remove and
// Clear calls may notify as well; the tracker treats that as a no-op.
type Store[V any] interface {
	Get(key string) (*Entry[V], bool)
	Put(key string, e *Entry[V])
	Remove(key string)
	Clear()
	Keys() []string
}

// mapStore is an unbounded map that never evicts.
// The Cache lock serializes access to it.
type mapStore[V any] struct {
	items map[string]*Entry[V]
}

func newMapStore[V any]() *mapStore[V] {
	return &mapStore[V]{items: make(map[string]*Entry[V])}
}

func (s *mapStore[V]) Get(key string) (*Entry[V], bool) {
	e, ok := s.items[key]
	return e, ok
}

func (s *mapStore[V]) Put(key string, e *Entry[V]) { s.items[key] = e }
func (s *mapStore[V]) Remove(key string)           { delete(s.items, key) }
func (s *mapStore[V]) Clear()                      { clear(s.items) }

func (s *mapStore[V]) Keys() []string {
	out := make([]string, 0, len(s.items))
	for k := range s.items {
		out = append(out, k)
	}
	return out
}

// lruStore bounds the number of entries. When full, the least recently used
// entry is dropped and reported through onEvict.
type lruStore[V any] struct {
	c *lru.Cache[string, *Entry[V]]
}

func newLRUStore[V any](capacity int, onEvict func(key string)) (*lruStore[V], error) {
	c, err := lru.NewWithEvict(capacity, func(key string, _ *Entry[V]) {
		onEvict(key)
	})
	if err != nil {
		return nil, err
	}
	return &lruStore[V]{c: c}, nil
}

func (s *lruStore[V]) Get(key string) (*Entry[V], bool) { return s.c.Get(key) }
func (s *lruStore[V]) Put(key string, e *Entry[V])      { s.c.Add(key, e) }
func (s *lruStore[V]) Remove(key string)                { s.c.Remove(key) }
func (s *lruStore[V]) Clear()                           { s.c.Purge() }
func (s *lruStore[V]) Keys() []string                   { return s.c.Keys() }

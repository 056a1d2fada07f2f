package cache

import "time"

// Entry is an immutable (key, value, expiry) triple held by a Store.
type Entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// NewEntry returns an entry that stays alive up to and including expiresAt.
func NewEntry[V any](key string, value V, expiresAt time.Time) *Entry[V] {
	return &Entry[V]{key: key, value: value, expiresAt: expiresAt}
}

func (e *Entry[V]) Key() string          { return e.key }
func (e *Entry[V]) Value() V             { return e.value }
func (e *Entry[V]) ExpiresAt() time.Time { return e.expiresAt }

// IsExpired reports whether ref is strictly after the expiry timestamp.
func (e *Entry[V]) IsExpired(ref time.Time) bool {
	return ref.After(e.expiresAt)
}

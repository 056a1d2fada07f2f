package tools

import (
	"time"

	"github.com/leonardcser/cachekit/internal/cache"
)

// Cache is the cache surface the tools operate on. Both the snapshot-backed
// disk cache and the bbolt-backed cache satisfy it.
type Cache interface {
	cache.KV[string]
	Keys() []string
	Len() int
	ExpirationInterval() time.Duration
}

// Snapshotter is a Cache that saves to and loads from a snapshot file.
type Snapshotter interface {
	Cache
	SaveToDisk() error
	LoadFromDisk() error
	Path() string
}

var (
	_ Cache       = (*cache.Cache[string])(nil)
	_ Snapshotter = (*cache.DiskCache[string])(nil)
)

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/leonardcser/cachekit/internal/cache"
	"github.com/leonardcser/cachekit/internal/logger"
	tools "github.com/leonardcser/cachekit/internal/tools"
)

// Values accepted by CACHEKIT_BACKEND.
const (
	backendSnapshot = "snapshot"
	backendBolt     = "bolt"
)

// backend is the cache the server exposes. snapshot is nil for backends that
// persist on every write.
type backend struct {
	kind     string
	path     string
	cache    tools.Cache
	snapshot tools.Snapshotter
	close    func() error
}

func openBackend(kind, name, dir string, ttl time.Duration, capacity int) (*backend, error) {
	opts := cache.Options{Dir: dir, Capacity: capacity, Logger: logger.L()}
	switch kind {
	case backendSnapshot:
		d := cache.NewDisk[string](name, ttl, opts)
		return &backend{kind: kind, path: d.Path(), cache: d, snapshot: d, close: d.Close}, nil
	case backendBolt:
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
		}
		path := filepath.Join(dir, name+".bbolt")
		c, err := cache.OpenBolt[string](path, ttl, opts)
		if err != nil {
			return nil, fmt.Errorf("open bolt cache %s: %w", path, err)
		}
		return &backend{kind: kind, path: path, cache: c, close: c.Close}, nil
	default:
		return nil, fmt.Errorf("unknown CACHEKIT_BACKEND %q (want %q or %q)", kind, backendSnapshot, backendBolt)
	}
}

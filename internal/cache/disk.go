package cache

import (
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const snapshotExt = ".cache"

// DefaultDir returns the per-user cache directory, or the temp directory when
// the platform has none.
func DefaultDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir
	}
	return os.TempDir()
}

// SnapshotPath returns <dir>/<filename>.cache.
func SnapshotPath(dir, filename string) string {
	if dir == "" {
		dir = DefaultDir()
	}
	return filepath.Join(dir, filename+snapshotExt)
}

// DiskCache is an in-memory cache that can save its entries to a snapshot
// file and load them back. V must be JSON encodable.
type DiskCache[V any] struct {
	*Cache[V]
	filename string
	path     string
}

// NewDisk returns an empty disk cache whose snapshot file is
// <opts.Dir>/<filename>.cache. Nothing is read until LoadFromDisk.
func NewDisk[V any](filename string, expirationInterval time.Duration, opts Options) *DiskCache[V] {
	return &DiskCache[V]{
		Cache:    NewInMemory[V](expirationInterval, opts),
		filename: filename,
		path:     SnapshotPath(opts.Dir, filename),
	}
}

// Filename returns the snapshot name the cache was created with.
func (d *DiskCache[V]) Filename() string { return d.filename }

// Path returns the snapshot file location.
func (d *DiskCache[V]) Path() string { return d.path }

// SaveToDisk writes every tracked entry, expired or not, to the snapshot file.
// Keys whose entry the store no longer holds are skipped.
func (d *DiskCache[V]) SaveToDisk() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	keys := d.tracker.Keys()
	entries := make([]*Entry[V], 0, len(keys))
	for _, k := range keys {
		if e, ok := d.store.Get(k); ok {
			entries = append(entries, e)
		}
	}
	if err := WriteSnapshot(d.path, entries); err != nil {
		return err
	}
	d.log.Debug("saved snapshot", zap.String("path", d.path), zap.Int("entries", len(entries)))
	return nil
}

// LoadFromDisk inserts every entry of the snapshot file, keeping its saved
// expiry. Nothing is inserted unless the whole file decodes.
func (d *DiskCache[V]) LoadFromDisk() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	entries, err := ReadSnapshot[V](d.path)
	if err != nil {
		return err
	}
	for _, e := range entries {
		d.insertLocked(e)
	}
	d.log.Debug("loaded snapshot", zap.String("path", d.path), zap.Int("entries", len(entries)))
	return nil
}

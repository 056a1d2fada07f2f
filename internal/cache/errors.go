package cache

import "errors"

var (
	// ErrSnapshotEncode reports a value that could not be serialized.
	ErrSnapshotEncode = errors.New("cache: encode snapshot")
	// ErrSnapshotDecode reports a snapshot or record that could not be parsed
	// into the cache's value type.
	ErrSnapshotDecode = errors.New("cache: decode snapshot")
	// ErrSnapshotIO reports a failure reading or writing the snapshot file.
	ErrSnapshotIO = errors.New("cache: snapshot i/o")
)

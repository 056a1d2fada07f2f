package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// record is the on-disk form of an Entry. Field order is key, value, expiry.
type record[V any] struct {
	Key              string    `json:"key"`
	Value            V         `json:"value"`
	ExpiredTimestamp time.Time `json:"expiredTimestamp"`
}

// EncodeSnapshot encodes entries as a JSON array of records, preserving order.
func EncodeSnapshot[V any](entries []*Entry[V]) ([]byte, error) {
	records := make([]record[V], 0, len(entries))
	for _, e := range entries {
		records = append(records, record[V]{Key: e.Key(), Value: e.Value(), ExpiredTimestamp: e.ExpiresAt()})
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSnapshotEncode, err)
	}
	return data, nil
}

// DecodeSnapshot decodes a snapshot produced by EncodeSnapshot. It either
// returns every entry or an error.
func DecodeSnapshot[V any](data []byte) ([]*Entry[V], error) {
	var records []record[V]
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSnapshotDecode, err)
	}
	entries := make([]*Entry[V], 0, len(records))
	for _, r := range records {
		entries = append(entries, NewEntry(r.Key, r.Value, r.ExpiredTimestamp))
	}
	return entries, nil
}

// ReadSnapshot reads and decodes the snapshot file at path. I/O failures wrap
// ErrSnapshotIO and keep the underlying *fs.PathError in the chain.
func ReadSnapshot[V any](path string) ([]*Entry[V], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSnapshotIO, err)
	}
	return DecodeSnapshot[V](data)
}

// WriteSnapshot replaces the file at path with the encoded entries. The file
// is written to a temporary sibling and renamed into place, so a failed write
// leaves the previous snapshot intact.
func WriteSnapshot[V any](path string, entries []*Entry[V]) error {
	data, err := EncodeSnapshot(entries)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("%w: %w", ErrSnapshotIO, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

package cache

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

const (
	defaultBucket = "cache"
	headerLen     = 12
)

var errShortRecord = errors.New("cache: bolt record shorter than header")

// boltStore is a persisted map backed by a single bbolt bucket.
//
// Record layout: 8 bytes big endian expiresAt unix seconds || 4 bytes big
// endian nanoseconds || JSON value. Seconds keep any time.Time the cache can
// produce representable, including now plus the maximum duration.
type boltStore[V any] struct {
	db      *bolt.DB
	bucket  []byte
	onEvict func(key string)
	log     *zap.Logger
}

func openBoltStore[V any](path, bucket string, onEvict func(key string), log *zap.Logger) (*boltStore[V], error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if bucket == "" {
		bucket = defaultBucket
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &boltStore[V]{db: db, bucket: []byte(bucket), onEvict: onEvict, log: log}, nil
}

func (s *boltStore[V]) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the entry stored under key. A record that cannot be decoded is
// deleted and reported as an eviction; other read failures are misses.
func (s *boltStore[V]) Get(key string) (*Entry[V], bool) {
	var (
		e         *Entry[V]
		decodeErr error
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(s.bucket).Get([]byte(key))
		if raw == nil {
			return nil
		}
		e, decodeErr = decodeBoltRecord[V](key, raw)
		return nil
	})
	if err != nil {
		s.log.Warn("bolt read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if decodeErr != nil {
		s.log.Warn("dropping undecodable bolt record", zap.String("key", key), zap.Error(decodeErr))
		s.Remove(key)
		s.onEvict(key)
		return nil, false
	}
	return e, e != nil
}

// Put writes the entry. A failed write leaves the key absent from the bucket,
// which is reported as an eviction.
func (s *boltStore[V]) Put(key string, e *Entry[V]) {
	buf, err := encodeBoltRecord(e)
	if err == nil {
		err = s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(s.bucket).Put([]byte(key), buf)
		})
	}
	if err != nil {
		s.log.Warn("bolt write failed", zap.String("key", key), zap.Error(err))
		s.Remove(key)
		s.onEvict(key)
	}
}

// Remove deletes key from the bucket. Deleting an absent key is not an error.
func (s *boltStore[V]) Remove(key string) {
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(key))
	}); err != nil {
		s.log.Warn("bolt delete failed", zap.String("key", key), zap.Error(err))
	}
}

// Clear drops and recreates the bucket.
func (s *boltStore[V]) Clear() {
	if err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(s.bucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(s.bucket)
		return err
	}); err != nil {
		s.log.Warn("bolt clear failed", zap.Error(err))
	}
}

func (s *boltStore[V]) Keys() []string {
	var out []string
	if err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).ForEach(func(k, _ []byte) error {
			out = append(out, string(k))
			return nil
		})
	}); err != nil {
		s.log.Warn("bolt key scan failed", zap.Error(err))
	}
	return out
}

func encodeBoltRecord[V any](e *Entry[V]) ([]byte, error) {
	value, err := json.Marshal(e.Value())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSnapshotEncode, err)
	}
	buf := make([]byte, headerLen+len(value))
	binary.BigEndian.PutUint64(buf[:8], uint64(e.ExpiresAt().Unix()))
	binary.BigEndian.PutUint32(buf[8:headerLen], uint32(e.ExpiresAt().Nanosecond()))
	copy(buf[headerLen:], value)
	return buf, nil
}

func decodeBoltRecord[V any](key string, raw []byte) (*Entry[V], error) {
	if len(raw) < headerLen {
		return nil, errShortRecord
	}
	sec := int64(binary.BigEndian.Uint64(raw[:8]))
	nsec := int64(binary.BigEndian.Uint32(raw[8:headerLen]))
	expiresAt := time.Unix(sec, nsec)
	var v V
	if err := json.Unmarshal(raw[headerLen:], &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSnapshotDecode, err)
	}
	return NewEntry(key, v, expiresAt), nil
}

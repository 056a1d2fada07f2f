package cache

// KV is the contract shared by the in-memory and disk-backed caches.
// Implementations must be safe for concurrent use by multiple goroutines.
type KV[V any] interface {
	// Set stores value under key, replacing any existing entry.
	Set(key string, value V)
	// SetValue stores *value under key; a nil value removes the key.
	SetValue(key string, value *V)
	// Value returns the live value for key. Expired entries are purged and
	// reported as absent.
	Value(key string) (V, bool)
	RemoveValue(key string)
	RemoveAllValues()
}

var (
	_ KV[string] = (*Cache[string])(nil)
	_ KV[string] = (*DiskCache[string])(nil)
)

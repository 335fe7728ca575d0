package kv

// KeyVal is a persistent key-value store used for registry lookup caches.
// Reads go straight to disk; writes are buffered in memory and flushed as
// a single snapshot on Close. The cache is soft state: a corrupt store is
// wiped and rebuilt from empty instead of failing the run.
type KeyVal interface {
	// Open opens the store, rebuilding it from empty when unreadable.
	Open() error

	// Close flushes buffered writes once and closes the store.
	Close() error

	// Get returns the value for a key, or nil when the key is absent.
	// Buffered unflushed writes are visible.
	Get(key string) ([]byte, error)

	// Set buffers a key-value pair for the end-of-run flush. Serialized
	// internally; safe to call from concurrent workers.
	Set(key string, val []byte)
}

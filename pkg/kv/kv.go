// Package kv is the whole-document key-value store backing carts, profiles,
// order history and feedback reminders. Values are stored as JSON blobs and
// read back into caller-provided destinations.
//
// Get reports a miss (false) for absent keys AND for values that fail to
// unmarshal, so callers treat corrupt documents as empty state instead of
// erroring. Writes replace the whole document under the key.
package kv

import (
	"sync"
	"time"
)

// Store is the persistence contract the services depend on. Redis backs it
// in production; Memory backs it in tests and when Redis is unreachable.
type Store interface {
	// Get unmarshals the value under key into dest. Returns true on a hit,
	// false on a miss, connection error, or malformed stored value.
	Get(key string, dest interface{}) bool

	// Set stores value under key as JSON. A zero ttl means no expiry.
	Set(key string, value interface{}, ttl time.Duration) error

	// Del removes one or more keys. Missing keys are not an error.
	Del(keys ...string) error
}

var (
	defaultMu    sync.RWMutex
	defaultStore Store = NewMemory()
)

// SetDefault swaps the process-wide store. Called once at bootstrap after
// the Redis connection is verified.
func SetDefault(s Store) {
	if s == nil {
		return
	}
	defaultMu.Lock()
	defaultStore = s
	defaultMu.Unlock()
}

// Default returns the process-wide store.
func Default() Store {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultStore
}

// Get reads from the default store.
func Get(key string, dest interface{}) bool { return Default().Get(key, dest) }

// Set writes to the default store.
func Set(key string, value interface{}, ttl time.Duration) error {
	return Default().Set(key, value, ttl)
}

// Del deletes from the default store.
func Del(keys ...string) error { return Default().Del(keys...) }

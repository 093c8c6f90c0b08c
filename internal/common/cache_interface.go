package common

import "time"

// CacheInterface is the key/value contract shared by the in-memory and
// Redis caches. Values are strings; callers own their encoding.
type CacheInterface interface {
	// Set stores a value with the given key and duration
	Set(key string, value string, duration time.Duration)

	// Get returns the value and true if found, "" and false otherwise
	Get(key string) (string, bool)

	Delete(key string)

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}

package cache

import "time"

// Cache stores serialized responses by key.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Clear()
}

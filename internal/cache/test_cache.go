package cache

import (
	"sync"
	"time"
)

var _ Cache = (*TestCache)(nil)

// TestCache is a map backed Cache, ignoring ttl.
type TestCache struct {
	cache map[string][]byte
	mutex sync.Mutex
}

func NewTestCache() *TestCache {
	return &TestCache{
		cache: make(map[string][]byte),
	}
}

func (tc *TestCache) Get(key string) ([]byte, bool) {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()
	val, ok := tc.cache[key]
	return val, ok
}

func (tc *TestCache) Set(key string, value []byte, _ time.Duration) error {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()
	tc.cache[key] = value
	return nil
}

func (tc *TestCache) Clear() {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()
	tc.cache = make(map[string][]byte)
}

func (tc *TestCache) Len() int {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()
	return len(tc.cache)
}

package cache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

var _ Cache = (*ResponseCache)(nil)

var ErrValueTooLarge = errors.New("value too large for response cache")

const (
	// freecache needs at least 512KB
	minCacheSizeBytes = 512 * 1024
	// freecache entry header size
	entryHeaderBytes = 24
	// freecache has 256 segments and takes entries up to 1/4 of a segment
	maxEntryDivisor = 1024
	// values above size/maxValueDivisor are not cached
	maxValueDivisor = 8

	markerInline = byte(0)
	markerChunks = byte(1)
)

// ResponseCache keeps serialized responses in freecache. Values larger than a
// single freecache entry are split into chunks stored under "<key>#<n>"; the
// main key then holds the chunk count.
type ResponseCache struct {
	mainCache     *freecache.Cache
	maxEntryBytes int
	maxValueBytes int
}

func NewResponseCache(sizeMB int) *ResponseCache {
	size := max(sizeMB*1024*1024, minCacheSizeBytes)
	return &ResponseCache{
		mainCache:     freecache.NewCache(size),
		maxEntryBytes: size/maxEntryDivisor - entryHeaderBytes,
		maxValueBytes: size / maxValueDivisor,
	}
}

func chunkKey(key string, n int) []byte {
	return []byte(fmt.Sprintf("%s#%d", key, n))
}

func (rc *ResponseCache) Get(key string) ([]byte, bool) {
	stored, err := rc.mainCache.Get([]byte(key))
	if err != nil {
		if !errors.Is(err, freecache.ErrNotFound) {
			log.Errorf("response cache get [%s]: %s", key, err)
		}
		return nil, false
	}
	if len(stored) == 0 {
		return nil, false
	}

	switch stored[0] {
	case markerInline:
		return stored[1:], true
	case markerChunks:
		if len(stored) != 1+8 {
			return nil, false
		}
		chunks := int(binary.BigEndian.Uint64(stored[1:]))
		var value []byte
		for n := 0; n < chunks; n++ {
			chunk, err := rc.mainCache.Get(chunkKey(key, n))
			if err != nil {
				// a chunk got evicted, the value is gone
				return nil, false
			}
			value = append(value, chunk...)
		}
		return value, true
	default:
		return nil, false
	}
}

// Set stores the value; a zero ttl means no expiry. Values above 1/8 of the
// cache size are refused with ErrValueTooLarge.
func (rc *ResponseCache) Set(key string, value []byte, ttl time.Duration) error {
	if len(value) > rc.maxValueBytes {
		return fmt.Errorf("response cache set [%s], %d bytes: %w", key, len(value), ErrValueTooLarge)
	}
	expire := int(ttl.Seconds())

	if len(key)+1+len(value) <= rc.maxEntryBytes {
		stored := make([]byte, 0, 1+len(value))
		stored = append(stored, markerInline)
		stored = append(stored, value...)
		if err := rc.mainCache.Set([]byte(key), stored, expire); err != nil {
			return fmt.Errorf("response cache set [%s]: %w", key, err)
		}
		return nil
	}

	chunkSize := rc.maxEntryBytes - len(chunkKey(key, len(value)))
	if chunkSize <= 0 {
		return fmt.Errorf("response cache set [%s], key too long: %w", key, ErrValueTooLarge)
	}
	chunks := 0
	for start := 0; start < len(value); start += chunkSize {
		end := min(start+chunkSize, len(value))
		if err := rc.mainCache.Set(chunkKey(key, chunks), value[start:end], expire); err != nil {
			return fmt.Errorf("response cache set [%s] chunk %d: %w", key, chunks, err)
		}
		chunks++
	}

	header := make([]byte, 1+8)
	header[0] = markerChunks
	binary.BigEndian.PutUint64(header[1:], uint64(chunks))
	if err := rc.mainCache.Set([]byte(key), header, expire); err != nil {
		return fmt.Errorf("response cache set [%s]: %w", key, err)
	}
	return nil
}

func (rc *ResponseCache) Clear() {
	rc.mainCache.Clear()
}

// HitRate is the fraction of lookups served from the cache.
func (rc *ResponseCache) HitRate() float64 {
	return rc.mainCache.HitRate()
}

// EntryCount counts freecache entries, chunks included.
func (rc *ResponseCache) EntryCount() int64 {
	return rc.mainCache.EntryCount()
}

package server

import (
	"math"
	"slices"
	"sync"

	"github.com/cespare/xxhash"
	"github.com/charmbracelet/log"
	"github.com/pbnjay/memory"
)

const (
	minAutoCacheSize = 64
	maxAutoCacheSize = 8192
	// bytesPerCacheEntry is a generous estimate for one cached word list.
	bytesPerCacheEntry = 4 << 20
)

// CacheStats reports result cache usage.
type CacheStats struct {
	Entries  int   `json:"entries"`
	Capacity int   `json:"capacity"`
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
}

// resultCache keeps sorted word lists for recently solved constraint sets,
// keyed by the hash of their canonical form. The least recently used entry
// is evicted once capacity is reached. A capacity of zero disables caching.
type resultCache struct {
	results     map[uint64][]string
	accessTime  map[uint64]int64
	accessCount int64
	capacity    int
	hits        int64
	misses      int64
	mu          sync.Mutex
}

func newResultCache(capacity int) *resultCache {
	return &resultCache{
		results:    make(map[uint64][]string, capacity),
		accessTime: make(map[uint64]int64, capacity),
		capacity:   capacity,
	}
}

// AutoCacheSize sizes the result cache from the machine's physical memory,
// one entry per 4 MiB, clamped to [64, 8192].
func AutoCacheSize() int {
	total := memory.TotalMemory()
	if total == 0 {
		return minAutoCacheSize
	}
	return int(min(max(total/bytesPerCacheEntry, minAutoCacheSize), maxAutoCacheSize))
}

func cacheKey(canonical string) uint64 {
	return xxhash.Sum64String(canonical)
}

// get returns a copy of the cached words.
func (c *resultCache) get(key uint64) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	words, ok := c.results[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.markAccessed(key)
	return slices.Clone(words), true
}

func (c *resultCache) put(key uint64, words []string) {
	if c.capacity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.results[key]; !ok && len(c.results) >= c.capacity {
		c.evictLRU()
	}
	c.results[key] = slices.Clone(words)
	c.markAccessed(key)
}

func (c *resultCache) stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Entries:  len(c.results),
		Capacity: c.capacity,
		Hits:     c.hits,
		Misses:   c.misses,
	}
}

func (c *resultCache) markAccessed(key uint64) {
	c.accessCount++
	c.accessTime[key] = c.accessCount
}

func (c *resultCache) evictLRU() {
	var oldestKey uint64
	var oldestTime int64 = math.MaxInt64
	for key, t := range c.accessTime {
		if t < oldestTime {
			oldestTime = t
			oldestKey = key
		}
	}
	if oldestTime != math.MaxInt64 {
		delete(c.results, oldestKey)
		delete(c.accessTime, oldestKey)
		log.Debugf("Evicted result %016x from cache", oldestKey)
	}
}

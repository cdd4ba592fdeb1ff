package cache

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Default configuration constants.
const (
	// DefaultShardCount is the number of shards. It must be a power of 2.
	DefaultShardCount = 16

	// DefaultCapacity is the default maximum entries per shard.
	DefaultCapacity = 16

	shardMask = DefaultShardCount - 1
)

// Stats is a snapshot of cache counters.
type Stats struct {
	Len           int
	Capacity      int
	TotalCapacity int
	Hits          uint64
	Misses        uint64
	HitRate       float64
	Evictions     uint64

	// Builds counts build function calls made by GetOrBuild.
	Builds uint64
}

// Cache is a thread-safe, sharded LRU cache.
//
// Each shard holds up to Capacity entries and evicts its least recently
// used entry when full.
type Cache[K ~string, V any] struct {
	shards   [DefaultShardCount]*shard[K, V]
	capacity int
	group    singleflight.Group

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
	builds    atomic.Uint64
}

type shard[K ~string, V any] struct {
	mu      sync.RWMutex
	entries map[K]*entry[K, V]
	lru     *lruList[K]
}

type entry[K ~string, V any] struct {
	value V
	node  *lruNode[K]
}

// New creates a cache holding up to capacity entries per shard.
// If capacity <= 0, DefaultCapacity is used.
func New[K ~string, V any](capacity int) *Cache[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Cache[K, V]{capacity: capacity}
	for i := range c.shards {
		c.shards[i] = &shard[K, V]{
			entries: make(map[K]*entry[K, V]),
			lru:     newLRUList[K](),
		}
	}
	return c
}

// hashKey computes the FNV-1a hash of key.
func hashKey(key string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key)) // fnv.Write never returns an error
	return h.Sum64()
}

func (c *Cache[K, V]) shardFor(key K) *shard[K, V] {
	return c.shards[hashKey(string(key))&shardMask]
}

// Get returns the value cached under key and marks it recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	s := c.shardFor(key)

	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	s.lru.MoveToFront(e.node)
	value := e.value
	s.mu.Unlock()

	c.hits.Add(1)
	return value, true
}

// peek returns the value under key without touching counters or order.
func (c *Cache[K, V]) peek(key K) (V, bool) {
	s := c.shardFor(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entries[key]; ok {
		return e.value, true
	}
	var zero V
	return zero, false
}

// Set stores value under key, evicting the shard's oldest entries if it
// is full.
func (c *Cache[K, V]) Set(key K, value V) {
	s := c.shardFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		e.value = value
		s.lru.MoveToFront(e.node)
		return
	}
	for s.lru.Len() >= c.capacity {
		oldest, ok := s.lru.RemoveOldest()
		if !ok {
			break
		}
		delete(s.entries, oldest)
		c.evictions.Add(1)
	}
	s.entries[key] = &entry[K, V]{value: value, node: s.lru.PushFront(key)}
}

// GetOrBuild returns the value cached under key, calling build to create
// it on a miss. Concurrent calls for the same key share one build call.
// Errors are returned to every waiting caller and are not cached.
//
// The build runs under a context that carries the values of the starting
// caller's ctx but not its cancellation, so one caller giving up does not
// fail the others. A caller whose ctx ends stops waiting and gets
// ctx.Err(); the shared build keeps running and its value is cached.
func (c *Cache[K, V]) GetOrBuild(ctx context.Context, key K, build func(context.Context) (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	buildCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(string(key), func() (any, error) {
		if v, ok := c.peek(key); ok {
			return v, nil
		}
		c.builds.Add(1)
		v, err := build(buildCtx)
		if err != nil {
			return nil, err
		}
		c.Set(key, v)
		return v, nil
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(V)
		return v, nil
	}
}

// Delete removes key and reports whether it was present.
func (c *Cache[K, V]) Delete(key K) bool {
	s := c.shardFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false
	}
	s.lru.Remove(e.node)
	delete(s.entries, key)
	return true
}

// Clear removes every entry.
func (c *Cache[K, V]) Clear() {
	for _, s := range c.shards {
		s.mu.Lock()
		s.entries = make(map[K]*entry[K, V])
		s.lru.Clear()
		s.mu.Unlock()
	}
}

// Len returns the number of entries across all shards.
func (c *Cache[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		s.mu.RLock()
		total += len(s.entries)
		s.mu.RUnlock()
	}
	return total
}

// Capacity returns the per-shard capacity.
func (c *Cache[K, V]) Capacity() int { return c.capacity }

// TotalCapacity returns the capacity across all shards.
func (c *Cache[K, V]) TotalCapacity() int { return c.capacity * DefaultShardCount }

// ShardLen returns the number of entries in each shard.
func (c *Cache[K, V]) ShardLen() [DefaultShardCount]int {
	var lens [DefaultShardCount]int
	for i, s := range c.shards {
		s.mu.RLock()
		lens[i] = len(s.entries)
		s.mu.RUnlock()
	}
	return lens
}

// Stats returns current cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return Stats{
		Len:           c.Len(),
		Capacity:      c.capacity,
		TotalCapacity: c.TotalCapacity(),
		Hits:          hits,
		Misses:        misses,
		HitRate:       hitRate,
		Evictions:     c.evictions.Load(),
		Builds:        c.builds.Load(),
	}
}

// ResetStats zeroes every counter.
func (c *Cache[K, V]) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
	c.builds.Store(0)
}

package glyphatlas

import (
	"context"

	"github.com/gogpu/glyphatlas/cache"
)

// BuildFunc builds the atlas for a font. (*Builder).Build is a BuildFunc.
type BuildFunc func(ctx context.Context, f Font) (*Result, error)

// AtlasCache holds finished atlases keyed by Font.Key. Concurrent requests
// for the same font share one build. Failed builds are not cached.
//
// AtlasCache is safe for concurrent use.
type AtlasCache struct {
	build   BuildFunc
	entries *cache.Cache[string, *Result]
}

// NewAtlasCache creates a cache that fills misses with build. capacity is
// per shard; see cache.New.
func NewAtlasCache(build BuildFunc, capacity int) *AtlasCache {
	return &AtlasCache{
		build:   build,
		entries: cache.New[string, *Result](capacity),
	}
}

// Get returns the cached atlas for f, building it on a miss.
func (c *AtlasCache) Get(ctx context.Context, f Font) (*Result, error) {
	f = f.WithDefaults()
	return c.entries.GetOrBuild(ctx, f.Key(), func(ctx context.Context) (*Result, error) {
		return c.build(ctx, f)
	})
}

// Forget drops the cached atlas for f.
func (c *AtlasCache) Forget(f Font) bool {
	return c.entries.Delete(f.WithDefaults().Key())
}

// Len returns the number of cached atlases.
func (c *AtlasCache) Len() int { return c.entries.Len() }

// Stats returns cache statistics.
func (c *AtlasCache) Stats() cache.Stats { return c.entries.Stats() }

// Package cache provides a sharded LRU cache whose misses can be filled by
// a deduplicated build function.
//
// Concurrent GetOrBuild calls for one key share a single build. Values are
// stored as-is and must not be modified after caching. Failed builds are
// not cached.
package cache

// Package cache stores rendered canvas drawings so unchanged snapshots are
// not laid out by Graphviz twice.
//
// Keys are derived from the DOT source and the output parameters with
// [RenderKey]; two snapshots that export to the same DOT text share an
// entry. Three implementations are provided:
//
//   - [FileCache] persists entries under a directory (CLI)
//   - [MemoryCache] keeps a bounded set of entries in process (server)
//   - [NullCache] disables caching
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry. Get reports a miss with
// hit=false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// RenderKey returns the cache key of a drawing of src in format at scale.
func RenderKey(src, format string, scale float64) string {
	return hashKey("render", format, scale, Hash([]byte(src)))
}

// Package cache provides content-addressed caching for computed
// layout artifacts.
//
// Layouts are deterministic, so a graph hash plus the options that
// shaped the run fully identify the output. The [Keyer] derives those
// keys; the [Cache] backends store the serialized artifacts:
//
//   - [FileCache]: local directory, for CLI usage
//   - [RedisCache]: shared server, for serve deployments
//   - [NullCache]: disabled caching
//
// # Usage
//
//	c, _ := cache.NewFileCache(dir)
//	defer c.Close()
//
//	k := cache.NewDefaultKeyer()
//	key := k.LayoutKey(graphHash, opts)
//
//	if data, hit, _ := c.Get(ctx, key); hit {
//	    return data
//	}
//	data := compute()
//	_ = c.Set(ctx, key, data, 24*time.Hour)
package cache

import (
	"context"
	"time"
)

// TTLs per artifact kind. Every entry is content-addressed, so none
// of them can go stale; the TTLs only bound storage growth.
const (
	// TTLLayout applies to computed layouts (full and incremental).
	TTLLayout = 7 * 24 * time.Hour

	// TTLConnections applies to derived connection sets.
	TTLConnections = 7 * 24 * time.Hour

	// TTLTransition applies to computed transitions. Transitions are
	// cheap to recompute, so they expire sooner.
	TTLTransition = 24 * time.Hour

	// TTLArtifact applies to rendered exports (DOT, SVG, PNG).
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores serialized artifacts under derived keys.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a
// miss; errors are reserved for backend failures. A ttl of zero on
// Set means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

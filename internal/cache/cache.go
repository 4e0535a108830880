// Package cache is a read-through JSON cache for catalog reads with an
// explicit time-to-live per resource family.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// Resource names a family of cached reads. Writes invalidate a whole family.
type Resource string

const (
	Artists   Resource = "artists"
	Albums    Resource = "albums"
	Songs     Resource = "songs"
	Trending  Resource = "trending"
	Videos    Resource = "videos"
	Playlists Resource = "playlists"
)

// TTLs maps each resource to how long its entries stay fresh.
type TTLs map[Resource]time.Duration

// DefaultTTLs is the freshness policy used by the server.
var DefaultTTLs = TTLs{
	Artists:   10 * time.Minute,
	Albums:    5 * time.Minute,
	Songs:     2 * time.Minute,
	Trending:  30 * time.Second,
	Videos:    5 * time.Minute,
	Playlists: time.Minute,
}

// ErrMiss is returned by a Backend when the key is absent.
var ErrMiss = errors.New("cache miss")

// Backend stores raw values. Implementations must be safe for concurrent use.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Cache applies the TTL table on top of a Backend. A nil *Cache or one
// without a backend passes every read straight to the loader.
type Cache struct {
	backend Backend
	ttls    TTLs
}

func New(backend Backend, ttls TTLs) *Cache {
	if ttls == nil {
		ttls = DefaultTTLs
	}
	return &Cache{backend: backend, ttls: ttls}
}

// Disabled returns a cache that never stores anything.
func Disabled() *Cache {
	return &Cache{}
}

func (c *Cache) enabled(res Resource) bool {
	return c != nil && c.backend != nil && c.ttls[res] > 0
}

func key(res Resource, k string) string {
	return "musicbox:" + string(res) + ":" + k
}

// Fetch returns the cached value for (res, k) or calls load and caches its
// result. Backend failures are logged and never fail the read.
func Fetch[T any](ctx context.Context, c *Cache, res Resource, k string, load func(context.Context) (T, error)) (T, error) {
	if !c.enabled(res) {
		return load(ctx)
	}

	full := key(res, k)
	raw, err := c.backend.Get(ctx, full)
	switch {
	case err == nil:
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		log.Warn().Str("key", full).Msg("discarding undecodable cache entry")
	case !errors.Is(err, ErrMiss):
		log.Warn().Err(err).Str("key", full).Msg("cache read failed")
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", full).Msg("cache encode failed")
		return value, nil
	}
	if err := c.backend.Set(ctx, full, encoded, c.ttls[res]); err != nil {
		log.Warn().Err(err).Str("key", full).Msg("cache write failed")
	}
	return value, nil
}

// Invalidate drops every entry of the given families.
func (c *Cache) Invalidate(ctx context.Context, resources ...Resource) {
	if c == nil || c.backend == nil {
		return
	}
	for _, res := range resources {
		prefix := key(res, "")
		if err := c.backend.DeletePrefix(ctx, prefix); err != nil {
			log.Warn().Err(err).Str("prefix", prefix).Msg("cache invalidation failed")
		}
	}
}

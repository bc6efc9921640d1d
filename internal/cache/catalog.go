package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
)

// Loader produces the value for a cache miss.
type Loader func(ctx context.Context) (interface{}, error)

// CatalogCache is a read-through JSON cache. Every key embeds a global
// version, so one INCR invalidates all cached catalog reads. Redis failures
// never fail a read: the loader is used directly instead.
//
// A nil *CatalogCache is valid and always calls the loader.
type CatalogCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	group  singleflight.Group
}

// NewCatalogCache creates a CatalogCache on the client.
func NewCatalogCache(client redis.UniversalClient, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = constants.DefaultCatalogCacheTTL
	}
	return &CatalogCache{client: client, ttl: ttl}
}

// Version returns the current catalog version, initialising it when missing.
func (c *CatalogCache) Version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, constants.CacheKeyCatalogVersion).Int64()
	if errors.Is(err, redis.Nil) {
		// SETNX so concurrent initialisers agree on the first version
		if err := c.client.SetNX(ctx, constants.CacheKeyCatalogVersion, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, constants.CacheKeyCatalogVersion).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// Key composes a versioned catalog key from parts.
func (c *CatalogCache) Key(ctx context.Context, parts ...string) (string, error) {
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s:v%d", constants.CacheKeyCatalogPrefix, strings.Join(parts, ":"), ver), nil
}

// Fetch decodes the cached value for parts into dest, populating the cache
// from loader on a miss. Concurrent misses for the same key share one load.
func (c *CatalogCache) Fetch(ctx context.Context, dest interface{}, loader Loader, parts ...string) error {
	if c == nil || c.client == nil {
		return loadInto(ctx, dest, loader)
	}

	key, err := c.Key(ctx, parts...)
	if err != nil {
		log.Warn().Err(err).Msg("Catalog cache unavailable, reading from store")
		return loadInto(ctx, dest, loader)
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		if err := json.Unmarshal(payload, dest); err == nil {
			return nil
		}
		log.Warn().Str("key", key).Msg("Discarding undecodable catalog cache entry")
	} else if !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Str("key", key).Msg("Catalog cache read failed, reading from store")
		return loadInto(ctx, dest, loader)
	}

	raw, err, _ := c.group.Do(key, func() (interface{}, error) {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		if err := c.client.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Catalog cache write failed")
		}
		return encoded, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(raw.([]byte), dest)
}

// Invalidate bumps the catalog version so every cached read is refetched.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, constants.CacheKeyCatalogVersion).Err(); err != nil {
		log.Error().Err(err).Msg("Failed to invalidate catalog cache")
	}
}

// Ping reports whether Redis is reachable.
func (c *CatalogCache) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

func loadInto(ctx context.Context, dest interface{}, loader Loader) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

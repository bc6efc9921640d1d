// Package cache provides the Redis client and the versioned read-through
// cache used by the public catalog.
package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/config"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
)

// NewRedisClient creates a Redis client and verifies it answers a ping.
func NewRedisClient(ctx context.Context, cfg *config.RedisSettings) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, constants.RedisHealthCheckTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping %s: %w", cfg.Addr, err)
	}

	return client, nil
}

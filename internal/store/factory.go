package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/obsd/support-relay/core/config"
)

// NewDedupStore builds the backend selected by cfg.Backend. The redis backend is pinged before use.
func NewDedupStore(ctx context.Context, cfg config.DedupConfig) (DedupStore, error) {
	switch cfg.Backend {
	case config.DedupBackendRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return NewRedisDedupStore(client, cfg.KeyPrefix, cfg.TTL), nil
	case config.DedupBackendMemory, "":
		return NewMemoryDedupStore(cfg.Capacity, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown dedup backend %q", cfg.Backend)
	}
}

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisDedupStore shares seen ids across replicas. Keys expire after ttl; there is no capacity bound.
type redisDedupStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisDedupStore(client *redis.Client, prefix string, ttl time.Duration) DedupStore {
	return &redisDedupStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *redisDedupStore) SeenOrRecord(ctx context.Context, eventID string) (bool, error) {
	set, err := s.client.SetNX(ctx, s.prefix+eventID, time.Now().Unix(), s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: setnx: %w", ErrUnavailable, err)
	}
	return !set, nil
}

func (s *redisDedupStore) Close() error {
	return s.client.Close()
}

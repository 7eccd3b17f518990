package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// LocalStore keeps client-side cart and session blobs in Redis.
// Key format: <prefix>:<key>
type LocalStore struct {
	client *redis.Client
	prefix string
}

// NewLocalStore creates a LocalStore wrapping the given Redis client.
func NewLocalStore(client *redis.Client, prefix string) *LocalStore {
	return &LocalStore{client: client, prefix: prefix}
}

func (s *LocalStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("local get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *LocalStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("local set %s: %w", key, err)
	}
	return nil
}

func (s *LocalStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("local remove %s: %w", key, err)
	}
	return nil
}

func (s *LocalStore) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}

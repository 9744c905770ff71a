package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bilgisen/cryptonews/internal/config"
	"github.com/bilgisen/cryptonews/internal/utils"
	"github.com/redis/go-redis/v9"
)

// RedisStore is the optional redis-backed cache backend, enabled by setting
// REDIS_URL. It carries the same freshness-window contract as MemoryStore,
// with expiry delegated to redis TTLs.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(cfg *config.Config) (*RedisStore, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client: client,
		prefix: cfg.RedisPrefix,
	}, nil
}

func (r *RedisStore) key(key string) string {
	return r.prefix + utils.Hash(key)
}

func (r *RedisStore) Get(ctx context.Context, key string, _ time.Duration) ([]byte, bool, error) {
	raw, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get error: %w", err)
	}
	return raw, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bilgisen/cryptonews/internal/logger"
)

// Store is a byte-level cache with per-entry freshness windows. An entry is
// servable while its age is below the ttl passed at read time; expired
// entries behave as misses.
type Store interface {
	Get(ctx context.Context, key string, ttl time.Duration) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// GetOrFetch returns the cached value under key when it is still within the
// freshness window, otherwise invokes fetch, stores the result and returns
// it. There is no coalescing: concurrent callers racing a cold or expired
// entry may each invoke fetch, which is acceptable because the underlying
// fetches are idempotent.
func GetOrFetch[T any](ctx context.Context, store Store, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var value T

	raw, ok, err := store.Get(ctx, key, ttl)
	if err == nil && ok {
		if err := json.Unmarshal(raw, &value); err == nil {
			return value, nil
		}
		// A corrupt entry falls through to a fresh fetch.
	}

	value, err = fetch(ctx)
	if err != nil {
		return value, err
	}

	// A store failure must not discard data that was already fetched; the
	// next call simply fetches again.
	raw, err = json.Marshal(value)
	if err != nil {
		logger.Get().Error().Err(err).Str("key", key).Msg("Failed to encode cache entry")
		return value, nil
	}
	if err := store.Set(ctx, key, raw, ttl); err != nil {
		logger.Get().Error().Err(err).Str("key", key).Msg("Failed to store cache entry")
	}
	return value, nil
}

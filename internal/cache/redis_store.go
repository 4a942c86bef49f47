package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
)

// RedisStore keeps entries in Redis so every storefront instance shares one cache.
// Keys are the prefix plus a blake2b digest of the request URL.
type RedisStore struct {
	rdb       *redis.Client
	prefix    string
	retention time.Duration
}

// NewRedisStore creates a RedisStore. Entries expire from Redis after retention,
// which should exceed the revalidate window so stale entries remain servable.
func NewRedisStore(rdb *redis.Client, prefix string, retention time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix, retention: retention}
}

func (s *RedisStore) key(k string) string {
	sum := blake2b.Sum256([]byte(k))
	return s.prefix + hex.EncodeToString(sum[:])
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, error) {
	data, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("redis get: %w", err)
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, fmt.Errorf("decode cache entry: %w", err)
	}
	return e, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(key), data, s.retention).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

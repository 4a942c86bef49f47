package redissvc

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisService owns the Redis client shared by the response cache and the ban tracker.
type RedisService struct {
	rdb *redis.Client
}

func NewRedisService(addr, password string, db int) *RedisService {
	return &RedisService{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (s *RedisService) Rdb() *redis.Client {
	return s.rdb
}

// Ping checks connectivity with a short timeout.
func (s *RedisService) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (s *RedisService) Close() error {
	return s.rdb.Close()
}

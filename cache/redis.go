package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avezhov/pulse/utils"
)

const (
	defaultTTL = 20 * time.Second
	opTimeout  = 2 * time.Second
)

// RedisStore backs Store with a shared Redis instance so cached pages
// survive restarts and are shared across replicas.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an already connected client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	b, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Debugf("cache get miss key=%s err=%v", key, err)
		}
		return nil, false
	}
	return b, true
}

func (s *RedisStore) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := s.client.Set(ctx, key, val, ttl).Err(); err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("cache set failed key=%s err=%v", key, err)
		}
	}
}

func (s *RedisStore) Clear(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := s.client.Del(ctx, key).Err(); err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("cache clear failed key=%s err=%v", key, err)
		}
	}
}

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/CSE5914-Group99/schedule-planner/internal/schedule"
)

// RatingCache stores course ratings keyed by RatingKey.
type RatingCache interface {
	Get(ctx context.Context, key string) (schedule.ClassScore, bool, error)
	Set(ctx context.Context, key string, score schedule.ClassScore) error
}

// MemoryCache is an unbounded process-lifetime cache.
type MemoryCache struct {
	mu sync.RWMutex
	m  map[string]schedule.ClassScore
}

// NewMemoryCache returns an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{m: make(map[string]schedule.ClassScore)}
}

// Get implements RatingCache.
func (c *MemoryCache) Get(_ context.Context, key string) (schedule.ClassScore, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.m[key]
	return s, ok, nil
}

// Set implements RatingCache.
func (c *MemoryCache) Set(_ context.Context, key string, score schedule.ClassScore) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = score
	return nil
}

// Len returns the number of cached ratings.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

const redisKeyPrefix = "planner:rating:"

// RedisCache shares ratings across processes through Redis.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache connects to the Redis instance at url
// (for example "redis://localhost:6379/0"). A ttl of zero keeps entries forever.
func NewRedisCache(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return &RedisCache{rdb: rdb, ttl: ttl}, nil
}

// Get implements RatingCache.
func (c *RedisCache) Get(ctx context.Context, key string) (schedule.ClassScore, bool, error) {
	data, err := c.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return schedule.ClassScore{}, false, nil
	}
	if err != nil {
		return schedule.ClassScore{}, false, fmt.Errorf("reading rating: %w", err)
	}
	var s schedule.ClassScore
	if err := json.Unmarshal(data, &s); err != nil {
		return schedule.ClassScore{}, false, fmt.Errorf("decoding rating: %w", err)
	}
	return s, true, nil
}

// Set implements RatingCache.
func (c *RedisCache) Set(ctx context.Context, key string, score schedule.ClassScore) error {
	data, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("encoding rating: %w", err)
	}
	if err := c.rdb.Set(ctx, redisKeyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing rating: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores the fetched project list.
type Cache interface {
	// Load returns the cached list and whether it was present.
	Load(ctx context.Context) ([]Project, bool, error)
	Store(ctx context.Context, projects []Project) error
	Invalidate(ctx context.Context) error
}

// MemoryCache keeps the list in process memory until invalidated.
type MemoryCache struct {
	mu       sync.RWMutex
	projects []Project
	loaded   bool
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) Load(_ context.Context) ([]Project, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.projects, c.loaded, nil
}

func (c *MemoryCache) Store(_ context.Context, projects []Project) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projects = projects
	c.loaded = true
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projects = nil
	c.loaded = false
	return nil
}

// DefaultRedisKey is where the project list is stored in Redis.
const DefaultRedisKey = "gallery:projects"

// RedisCache shares the list between instances through Redis, expiring after TTL.
type RedisCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisCache creates a cache on client. A zero ttl keeps entries until
// invalidated.
func NewRedisCache(client *redis.Client, key string, ttl time.Duration) *RedisCache {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisCache{client: client, key: key, ttl: ttl}
}

// NewRedisClient parses a redis:// URL into a client.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opt), nil
}

func (c *RedisCache) Load(ctx context.Context) ([]Project, bool, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", c.key, err)
	}

	var projects []Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, false, fmt.Errorf("decode cached projects: %w", err)
	}
	return projects, true, nil
}

func (c *RedisCache) Store(ctx context.Context, projects []Project) error {
	data, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("encode projects: %w", err)
	}
	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", c.key, err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", c.key, err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/todo-sync/domain/task"
	"github.com/redis/go-redis/v9"
)

// ListCache keeps serialized task lists in Redis, cache-aside. Every write to
// the store invalidates all cached lists.
type ListCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration

	hits   atomic.Uint64
	misses atomic.Uint64
	errors atomic.Uint64
}

// CacheStats is a point-in-time copy of the cache counters.
type CacheStats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
	Errors uint64 `json:"errors"`
}

// NewListCache creates a cache using client with keys under prefix.
func NewListCache(client *redis.Client, prefix string, ttl time.Duration) *ListCache {
	return &ListCache{client: client, prefix: prefix, ttl: ttl}
}

// listKeys are all keys a write must invalidate.
var listKeys = []string{"", string(task.StatusPending), string(task.StatusCompleted)}

func (c *ListCache) key(status string) string {
	if status == "" {
		status = "all"
	}
	return c.prefix + "list:" + status
}

// Get returns the cached list for status. A miss is (nil, false, nil).
func (c *ListCache) Get(ctx context.Context, status string) ([]task.Task, bool, error) {
	data, err := c.client.Get(ctx, c.key(status)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.misses.Add(1)
			return nil, false, nil
		}
		c.errors.Add(1)
		return nil, false, fmt.Errorf("cache get error: %w", err)
	}

	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		c.errors.Add(1)
		return nil, false, fmt.Errorf("cache unmarshal error: %w", err)
	}
	c.hits.Add(1)
	return tasks, true, nil
}

// Set stores the list for status with the cache TTL.
func (c *ListCache) Set(ctx context.Context, status string, tasks []task.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		c.errors.Add(1)
		return fmt.Errorf("cache marshal error: %w", err)
	}
	if err := c.client.Set(ctx, c.key(status), data, c.ttl).Err(); err != nil {
		c.errors.Add(1)
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}

// Invalidate drops every cached list.
func (c *ListCache) Invalidate(ctx context.Context) error {
	keys := make([]string, 0, len(listKeys))
	for _, s := range listKeys {
		keys = append(keys, c.key(s))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.errors.Add(1)
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}

func (c *ListCache) Stats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Errors: c.errors.Load(),
	}
}

// Ping checks if the Redis connection is healthy.
func (c *ListCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client connection.
func (c *ListCache) Close() error {
	return c.client.Close()
}

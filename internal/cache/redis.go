// Package cache provides the Redis-backed page cache for the application.
package cache

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"plume/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Cache is the page cache handed to the feed and write services as an
// explicit collaborator. It is advisory: a nil Cache, or one without a
// backing client, turns every read into a miss and every write into a no-op.
type Cache struct {
	client *redis.Client
}

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// New connects to Redis at the given address and returns the cache. A failed
// connection is a warning, not an error: the returned cache is disabled and
// the application serves everything from storage.
func New(addr string) *Cache {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			log.Printf("Redis connection warning: invalid REDIS_URL %q: %v (continuing without cache)", addr, err)
			return &Cache{}
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	client.AddHook(metricsHook{})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis connection warning: %v (continuing without cache)", err)
		return &Cache{}
	}
	log.Println("Redis connected successfully")
	return &Cache{client: client}
}

// NewWithClient wraps an existing Redis client. Tests use this with
// miniredis; a nil client yields a disabled cache.
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Enabled reports whether the cache has a backing Redis client.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Client exposes the underlying Redis client for collaborators that need raw
// Redis (rate limiting, readiness checks). Nil when the cache is disabled.
func (c *Cache) Client() *redis.Client {
	if c == nil {
		return nil
	}
	return c.client
}

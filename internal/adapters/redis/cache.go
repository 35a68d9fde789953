// Package redis implements ports.StatusCache on Redis.
package redis

import (
	"context"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/galhadida80/planpin/pkg/domain"
	"github.com/galhadida80/planpin/pkg/ports"
)

// Cache implements ports.StatusCache using Redis.
type Cache struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Cache)

// WithTTL sets the expiration for cached statuses.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithPrefix sets the key prefix for cache entries.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// New creates a new Redis cache with options.
func New(address, password string, db int, opts ...Option) *Cache {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis cache from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Cache {
	cache := &Cache{
		client: client,
		prefix: "planpin:status:",
		ttl:    30 * time.Second,
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache
}

func (c *Cache) key(entityType domain.EntityType, entityID string) string {
	return c.prefix + string(entityType) + ":" + entityID
}

// Get returns the cached status, or ports.ErrCacheMiss. A stored value that
// no longer parses as a valid status also counts as a miss; the source stays
// authoritative.
func (c *Cache) Get(ctx context.Context, entityType domain.EntityType, entityID string) (domain.Status, error) {
	val, err := c.client.Get(ctx, c.key(entityType, entityID)).Result()
	if err != nil {
		if err == backend.Nil {
			return "", ports.ErrCacheMiss
		}
		return "", fmt.Errorf("redis get: %w", err)
	}

	st, err := domain.ParseStatus(val)
	if err != nil {
		return "", ports.ErrCacheMiss
	}
	return st, nil
}

// Set stores a resolved status with the configured TTL.
func (c *Cache) Set(ctx context.Context, entityType domain.EntityType, entityID string, status domain.Status) error {
	if err := c.client.Set(ctx, c.key(entityType, entityID), string(status), c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

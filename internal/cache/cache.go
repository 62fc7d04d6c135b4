package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	RedisBackend  = "redis"
	MemoryBackend = "memory"
)

var (
	ErrCacheMiss      = errors.New("cache: key not found")
	ErrUnknownBackend = errors.New("cache: unknown backend")
)

// Cache is our generic cache interface.
type Cache[V any] interface {
	// Get returns the value or ErrCacheMiss.
	Get(ctx context.Context, key string) (V, error)
	// Set stores value under key, with TTL. Zero ttl = no expiration.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	// Delete removes the keys; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	// MGet returns multiple values; missing ones are zero-value + ErrCacheMiss.
	MGet(ctx context.Context, keys ...string) ([]V, []error)
}

// Config selects and tunes a backend from the environment
type Config struct {
	Backend       string        `env:"CACHE_BACKEND" env-default:"memory" validate:"oneof=memory redis"`
	RedisAddr     string        `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" env-default:"0"`
	PoolSize      int           `env:"REDIS_POOL_SIZE" env-default:"10"`
	OpTimeout     time.Duration `env:"REDIS_OP_TIMEOUT" env-default:"50ms"`
}

// RedisOptions derives client options from the config
func (c *Config) RedisOptions() *RedisOptions {
	return &RedisOptions{
		Addr:            c.RedisAddr,
		Password:        c.RedisPassword,
		DB:              c.RedisDB,
		PoolSize:        c.PoolSize,
		MinIdleConns:    1,
		MaxRetries:      1,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		OpTimeout:       c.OpTimeout,
	}
}

// NewCache builds the backend named by backend. opts is required for redis.
func NewCache[V any](backend string, opts *RedisOptions) (Cache[V], error) {
	switch backend {
	case RedisBackend:
		if opts == nil {
			return nil, fmt.Errorf("%w: redis options required", ErrUnknownBackend)
		}
		return NewRedisCache[V](opts), nil
	case MemoryBackend:
		return NewMemoryCache[V](), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

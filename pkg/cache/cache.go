package cache

import (
	"context"
	"time"
)

// Cache is the read-side cache used for affected-emergency lookups.
type Cache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value with the given expiration.
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error

	// Delete removes a key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists checks whether a key is present.
	Exists(ctx context.Context, key string) bool

	// Clear drops all entries.
	Clear(ctx context.Context) error

	// Close releases any underlying connections.
	Close() error
}

// Config selects and configures the cache backend.
type Config struct {
	// "local" or "redis"
	Type string `env:"CACHE_TYPE"`

	Redis RedisConfig

	Local LocalConfig
}

type RedisConfig struct {
	Addr         string        `env:"REDIS_ADDR"`
	Password     string        `env:"REDIS_PASSWORD"`
	DB           int           `env:"REDIS_DB"`
	PoolSize     int           `env:"REDIS_POOL_SIZE"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT"`
}

type LocalConfig struct {
	DefaultExpiration time.Duration `env:"LOCAL_CACHE_DEFAULT_EXPIRATION"`
	CleanupInterval   time.Duration `env:"LOCAL_CACHE_CLEANUP_INTERVAL"`
}

package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type localCache struct {
	cache *gocache.Cache
}

// NewLocalCache creates an in-process cache backed by go-cache.
func NewLocalCache(config LocalConfig) Cache {
	defaultExpiration := config.DefaultExpiration
	if defaultExpiration <= 0 {
		defaultExpiration = 5 * time.Minute
	}
	cleanupInterval := config.CleanupInterval
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}
	return &localCache{cache: gocache.New(defaultExpiration, cleanupInterval)}
}

func (lc *localCache) Get(ctx context.Context, key string) (interface{}, bool) {
	return lc.cache.Get(key)
}

func (lc *localCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	lc.cache.Set(key, value, expiration)
	return nil
}

func (lc *localCache) Delete(ctx context.Context, key string) error {
	lc.cache.Delete(key)
	return nil
}

func (lc *localCache) Exists(ctx context.Context, key string) bool {
	_, found := lc.cache.Get(key)
	return found
}

func (lc *localCache) Clear(ctx context.Context) error {
	lc.cache.Flush()
	return nil
}

func (lc *localCache) Close() error {
	// go-cache holds no connections
	return nil
}

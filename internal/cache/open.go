package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/dashboard/internal/config"
)

// ErrNotShared reports that a process other than the server cannot
// invalidate the server's page cache.
var ErrNotShared = errors.New("page cache not shared with the server")

func redisOptions(cfg config.CacheConfig) RedisOptions {
	return RedisOptions{
		Addr:      cfg.RedisAddr,
		Password:  cfg.RedisPassword,
		DB:        cfg.RedisDB,
		TTL:       cfg.TTL,
		KeyPrefix: cfg.KeyPrefix,
	}
}

// Open picks the server's page cache: Redis when configured and reachable,
// an in-process Memory cache when cfg.Memory opts in, and Nop otherwise.
// A configured but unreachable Redis degrades to Nop, not Memory, because
// invoicectl could not invalidate a Memory cache.
func Open(ctx context.Context, cfg config.CacheConfig) PageCache {
	if !cfg.RedisEnabled() {
		if cfg.Memory {
			slog.Info("page cache", "backend", "memory", "ttl", cfg.TTL)
			return NewMemory(cfg.TTL)
		}
		slog.Info("page cache disabled, set REDIS_ADDR to enable")
		return Nop{}
	}

	r, err := NewRedis(ctx, redisOptions(cfg))
	if err != nil {
		slog.Warn("redis page cache unavailable, caching disabled", "addr", cfg.RedisAddr, "error", err)
		return Nop{}
	}

	slog.Info("page cache", "backend", "redis", "addr", cfg.RedisAddr, "ttl", cfg.TTL)
	return r
}

// OpenShared returns the cache a writer outside the server must revalidate.
// It fails with ErrNotShared when the server may be caching pages this
// process cannot reach: Redis is configured but unreachable, or the server
// caches in its own memory. With neither configured the server caches
// nothing and Nop is returned.
func OpenShared(ctx context.Context, cfg config.CacheConfig) (PageCache, error) {
	if !cfg.RedisEnabled() {
		if cfg.Memory {
			return Nop{}, fmt.Errorf("%w: CACHE_MEMORY keeps pages inside the server process", ErrNotShared)
		}
		return Nop{}, nil
	}

	r, err := NewRedis(ctx, redisOptions(cfg))
	if err != nil {
		return Nop{}, fmt.Errorf("%w: %w", ErrNotShared, err)
	}
	return r, nil
}

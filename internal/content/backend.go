// Copyright (c) 2026 Lurnex. All rights reserved.

package content

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/lurnex/site/internal/platform/config"
	pgstore "github.com/lurnex/site/internal/platform/postgres"
	redisstore "github.com/lurnex/site/internal/platform/redis"
)

// Backend is an opened content store plus its optional read cache.
type Backend struct {
	// Name is the configured store, "postgres" or "memory".
	Name string

	// Store is the store itself. Writes and reads that must see them go here.
	Store Repository

	// Reads is Store behind the read cache, or Store when caching is off.
	Reads Repository

	// Cache is nil when REDIS_URL is empty.
	Cache *CachedRepository

	pool  *pgxpool.Pool
	redis *redis.Client
}

/*
Open connects the configured content store and, when REDIS_URL is set, the
read cache in front of it.

Parameters:
  - context: context.Context (bounds the connection attempts)
  - cfg: *config.Config
  - logger: *slog.Logger

Returns:
  - *Backend: Close it when done
  - error: If a connection or the seed file fails
*/
func Open(context context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	backend := &Backend{Name: cfg.ContentStore}

	switch cfg.ContentStore {
	case config.StorePostgres:
		pool, err := pgstore.NewPool(context, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		backend.pool = pool
		backend.Store = NewPostgresRepository(pool)

	default:
		var (
			memory *MemoryRepository
			err    error
		)
		if cfg.ContentSeedPath != "" {
			memory, err = LoadSeed(cfg.ContentSeedPath)
		} else {
			memory, err = NewMemoryRepository()
		}
		if err != nil {
			return nil, err
		}
		logger.Info("memory_store_loaded", slog.String("seed", cfg.ContentSeedPath))
		backend.Store = memory
	}

	backend.Reads = backend.Store

	if cfg.RedisURL != "" {
		client, err := redisstore.NewClient(context, cfg.RedisURL, logger)
		if err != nil {
			backend.Close()
			return nil, err
		}
		backend.redis = client
		backend.Cache = NewCachedRepository(backend.Store, client, cfg.RevalidateInterval, logger)
		backend.Reads = backend.Cache
	}

	return backend, nil
}

// PingStore reports whether the store answers.
func (backend *Backend) PingStore(context context.Context) error {
	if pinger, ok := backend.Store.(Pinger); ok {
		return pinger.Ping(context)
	}
	return nil
}

// CachePinger returns the cache health check, or nil when caching is off.
func (backend *Backend) CachePinger() func(context.Context) error {
	if backend.redis == nil {
		return nil
	}
	return func(context context.Context) error {
		return redisstore.Ping(context, backend.redis)
	}
}

// Close releases the pool and the cache client.
func (backend *Backend) Close() {
	if backend.redis != nil {
		_ = backend.redis.Close()
	}
	if backend.pool != nil {
		backend.pool.Close()
	}
}

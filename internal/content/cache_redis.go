// Copyright (c) 2026 Lurnex. All rights reserved.

package content

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lurnex/site/internal/platform/constants"
)

// Cache is the subset of the Redis client the read cache needs.
// [*redis.Client] satisfies it.
type Cache interface {
	Get(context context.Context, key string) *redis.StringCmd
	Set(context context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Incr(context context.Context, key string) *redis.IntCmd
}

// CachedRepository is a read-through cache over another [Repository].
//
// Fetch and Count results live for ttl, the revalidation window. Every write
// through this decorator bumps a generation counter that is part of each key,
// so results cached before the write are never read again. Cache failures
// are logged and the call falls through to the wrapped repository.
type CachedRepository struct {
	next   Repository
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedRepository wraps next with a Redis read cache.
func NewCachedRepository(next Repository, cache Cache, ttl time.Duration, logger *slog.Logger) *CachedRepository {
	return &CachedRepository{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (repository *CachedRepository) Fetch(context context.Context, query Query) ([]Document, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	key := repository.key(context, "fetch", query)
	var documents []Document
	if repository.lookup(context, key, &documents) {
		return documents, nil
	}

	documents, err := repository.next.Fetch(context, query)
	if err != nil {
		return nil, err
	}
	repository.store(context, key, documents)
	return documents, nil
}

func (repository *CachedRepository) Count(context context.Context, query Query) (int, error) {
	if err := query.Validate(); err != nil {
		return 0, err
	}

	// Order and window do not change a count.
	query.Order, query.Offset, query.Limit = nil, 0, 0

	key := repository.key(context, "count", query)
	var total int
	if repository.lookup(context, key, &total) {
		return total, nil
	}

	total, err := repository.next.Count(context, query)
	if err != nil {
		return 0, err
	}
	repository.store(context, key, total)
	return total, nil
}

func (repository *CachedRepository) Get(context context.Context, kind, id string) (Document, error) {
	return repository.next.Get(context, kind, id)
}

func (repository *CachedRepository) GetMany(context context.Context, ids []string) ([]Document, error) {
	return repository.next.GetMany(context, ids)
}

func (repository *CachedRepository) Create(context context.Context, document Document) (Document, error) {
	created, err := repository.next.Create(context, document)
	if err != nil {
		return Document{}, err
	}
	repository.Invalidate(context)
	return created, nil
}

func (repository *CachedRepository) Patch(context context.Context, id string, set map[string]any) (Document, error) {
	patched, err := repository.next.Patch(context, id, set)
	if err != nil {
		return Document{}, err
	}
	repository.Invalidate(context)
	return patched, nil
}

// Ping delegates to the wrapped repository when it can report health.
func (repository *CachedRepository) Ping(context context.Context) error {
	if pinger, ok := repository.next.(Pinger); ok {
		return pinger.Ping(context)
	}
	return nil
}

// key derives content:<generation>:<kind>:<sha256 of the query>.
func (repository *CachedRepository) key(context context.Context, kind string, query Query) string {
	generation, err := repository.cache.Get(context, constants.RedisKeyGeneration).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		repository.logger.WarnContext(context, "content_cache_generation_failed", slog.Any("error", err))
	}

	raw, _ := json.Marshal(query)
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("%s%s:%s:%s", constants.RedisPrefixContent, strconv.FormatInt(generation, 10), kind, hex.EncodeToString(sum[:]))
}

func (repository *CachedRepository) lookup(context context.Context, key string, target any) bool {
	raw, err := repository.cache.Get(context, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			repository.logger.WarnContext(context, "content_cache_read_failed", slog.String("key", key), slog.Any("error", err))
		}
		return false
	}

	if err := json.Unmarshal(raw, target); err != nil {
		repository.logger.WarnContext(context, "content_cache_decode_failed", slog.String("key", key), slog.Any("error", err))
		return false
	}
	return true
}

func (repository *CachedRepository) store(context context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := repository.cache.Set(context, key, raw, repository.ttl).Err(); err != nil {
		repository.logger.WarnContext(context, "content_cache_write_failed", slog.String("key", key), slog.Any("error", err))
	}
}

// Invalidate bumps the generation counter so every cached read is dropped.
// Writes made through this decorator call it themselves; writers that go
// to the store directly call it when they are done.
func (repository *CachedRepository) Invalidate(context context.Context) {
	if err := repository.cache.Incr(context, constants.RedisKeyGeneration).Err(); err != nil {
		repository.logger.WarnContext(context, "content_cache_invalidate_failed", slog.Any("error", err))
	}
}

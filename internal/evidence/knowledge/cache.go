package knowledge

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

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"civreg/internal/registration/ports"
)

const (
	DefaultCacheTTL = 10 * time.Minute
	cacheKeyPrefix  = "kb:query:"
)

// QueryCache stores retrieval results by query key.
type QueryCache interface {
	Get(ctx context.Context, key string) ([]string, bool, error)
	Set(ctx context.Context, key string, chunks []string) error
}

// CacheKey derives a stable key for a query and result size.
func CacheKey(query string, topK int) string {
	sum := sha256.Sum256([]byte(strconv.Itoa(topK) + "|" + query))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

// RedisCache keeps results in Redis as JSON with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]string, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var chunks []string
	if err := json.Unmarshal(raw, &chunks); err != nil {
		return nil, false, fmt.Errorf("decode cached chunks: %w", err)
	}
	return chunks, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, chunks []string) error {
	raw, err := json.Marshal(chunks)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// MemoryCache keeps results in process.
type MemoryCache struct {
	cache *gocache.Cache
}

func NewMemoryCache(ttl, cleanupInterval time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MemoryCache{cache: gocache.New(ttl, cleanupInterval)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]string, bool, error) {
	val, found := c.cache.Get(key)
	if !found {
		return nil, false, nil
	}
	chunks, ok := val.([]string)
	if !ok {
		return nil, false, nil
	}
	return append([]string(nil), chunks...), true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, chunks []string) error {
	c.cache.SetDefault(key, append([]string(nil), chunks...))
	return nil
}

// CachedRetriever consults a QueryCache before delegating. Cache failures
// are logged and fall through to the underlying retriever.
type CachedRetriever struct {
	next   ports.Retriever
	cache  QueryCache
	logger *slog.Logger
}

func NewCachedRetriever(next ports.Retriever, cache QueryCache, logger *slog.Logger) *CachedRetriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedRetriever{next: next, cache: cache, logger: logger}
}

func (r *CachedRetriever) Query(ctx context.Context, query string, topK int) ([]string, error) {
	key := CacheKey(query, topK)
	chunks, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.WarnContext(ctx, "knowledge cache read failed", "error", err)
	}
	if ok {
		return chunks, nil
	}
	chunks, err = r.next.Query(ctx, query, topK)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, key, chunks); err != nil {
		r.logger.WarnContext(ctx, "knowledge cache write failed", "error", err)
	}
	return chunks, nil
}

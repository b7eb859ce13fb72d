package knowledge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRetriever struct {
	calls  int
	chunks []string
	err    error
}

func (r *countingRetriever) Query(context.Context, string, int) ([]string, error) {
	r.calls++
	return r.chunks, r.err
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]string, bool, error) {
	return nil, false, errors.New("cache down")
}

func (brokenCache) Set(context.Context, string, []string) error {
	return errors.New("cache down")
}

func TestCacheKeyDependsOnQueryAndTopK(t *testing.T) {
	assert.Equal(t, CacheKey("fraud", 3), CacheKey("fraud", 3))
	assert.NotEqual(t, CacheKey("fraud", 3), CacheKey("fraud", 4))
	assert.NotEqual(t, CacheKey("fraud", 3), CacheKey("documents", 3))
	assert.Contains(t, CacheKey("fraud", 3), "kb:query:")
}

func TestMemoryCacheCopiesValues(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)

	chunks := []string{"a", "b"}
	require.NoError(t, c.Set(ctx, "k", chunks))
	chunks[0] = "mutated"

	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)

	_, ok, err = c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCachedRetrieverHitsCacheOnRepeat(t *testing.T) {
	ctx := context.Background()
	next := &countingRetriever{chunks: []string{"rule"}}
	r := NewCachedRetriever(next, NewMemoryCache(time.Minute, time.Minute), nil)

	for range 3 {
		got, err := r.Query(ctx, "fraud", 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"rule"}, got)
	}
	assert.Equal(t, 1, next.calls)

	_, err := r.Query(ctx, "fraud", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedRetrieverToleratesCacheFailure(t *testing.T) {
	next := &countingRetriever{chunks: []string{"rule"}}
	r := NewCachedRetriever(next, brokenCache{}, nil)

	got, err := r.Query(context.Background(), "fraud", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"rule"}, got)
}

func TestCachedRetrieverDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	next := &countingRetriever{err: errors.New("embed failed")}
	r := NewCachedRetriever(next, NewMemoryCache(time.Minute, time.Minute), nil)

	_, err := r.Query(ctx, "fraud", 3)
	require.Error(t, err)

	next.err = nil
	next.chunks = []string{"rule"}
	got, err := r.Query(ctx, "fraud", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"rule"}, got)
	assert.Equal(t, 2, next.calls)
}

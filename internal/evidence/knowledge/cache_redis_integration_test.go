//go:build integration

package knowledge_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"civreg/internal/evidence/knowledge"
	"civreg/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *knowledge.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.cache = knowledge.NewRedisCache(s.redis.Client.Client, time.Minute)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) TestRoundTrip() {
	ctx := context.Background()
	s.Require().NoError(s.redis.Health(ctx))
	key := knowledge.CacheKey("Required documents for death registration", 3)

	_, ok, err := s.cache.Get(ctx, key)
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.cache.Set(ctx, key, []string{"rules.documents[0]: National ID"}))

	got, ok, err := s.cache.Get(ctx, key)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal([]string{"rules.documents[0]: National ID"}, got)

	ttl, err := s.redis.Client.TTL(ctx, key).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Minute)
}

func (s *RedisCacheSuite) TestCorruptEntry() {
	ctx := context.Background()
	s.Require().NoError(s.redis.Client.Set(ctx, "kb:query:bad", "not-json", time.Minute).Err())

	_, _, err := s.cache.Get(ctx, "kb:query:bad")
	s.Error(err)
}

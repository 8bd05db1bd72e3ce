//go:build e2e

package cache_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"parq-core/internal/domain/booking"
	"parq-core/internal/handler/middleware"
	"parq-core/internal/infra/cache"
	"parq-core/internal/pkg/config"
	"parq-core/tests/common/httptest"
	"parq-core/tests/common/testutil"
	"parq-core/tests/e2e"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RedisSuite struct {
	suite.Suite
	rdb *redis.Client
}

func TestRedisSuite(t *testing.T) {
	suite.Run(t, new(RedisSuite))
}

func (s *RedisSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	rdb, err := cache.NewRedisClient(config.RedisConfig{Addr: e2e.StartRedis(s.T())})
	require.NoError(s.T(), err)
	require.NotNil(s.T(), rdb)
	s.rdb = rdb
}

func (s *RedisSuite) TearDownSuite() {
	_ = s.rdb.Close()
}

func (s *RedisSuite) SetupTest() {
	require.NoError(s.T(), s.rdb.FlushDB(context.Background()).Err())
}

func (s *RedisSuite) slot() booking.TimeSlot {
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	slot, err := booking.NewTimeSlot(start, start.Add(2*time.Hour))
	require.NoError(s.T(), err)
	return slot
}

func (s *RedisSuite) TestAvailabilityCacheGenerations() {
	ctx := context.Background()
	c := cache.NewAvailabilityCache(s.rdb, time.Minute, testutil.DiscardLogger())
	spotID := uuid.New()
	slot := s.slot()

	_, gen, ok := c.Get(ctx, spotID, slot)
	s.False(ok)
	s.Zero(gen)

	c.Set(ctx, spotID, gen, slot, 2)
	n, _, ok := c.Get(ctx, spotID, slot)
	s.True(ok)
	s.Equal(2, n)

	c.Invalidate(ctx, spotID)
	_, fresh, ok := c.Get(ctx, spotID, slot)
	s.False(ok, "invalidated entry is not served")
	s.EqualValues(1, fresh)

	// a value computed before the invalidation lands under the old generation
	c.Set(ctx, spotID, gen, slot, 2)
	_, _, ok = c.Get(ctx, spotID, slot)
	s.False(ok)

	c.Set(ctx, spotID, fresh, slot, 1)
	n, _, ok = c.Get(ctx, spotID, slot)
	s.True(ok)
	s.Equal(1, n)

	keys, err := s.rdb.Keys(ctx, "parq:avail:"+spotID.String()+":1:*").Result()
	s.Require().NoError(err)
	s.Require().Len(keys, 1)
	ttl, err := s.rdb.TTL(ctx, keys[0]).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}

func (s *RedisSuite) TestRateLimiterTokenBucket() {
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            time.Minute,
		Prefix:         "parq:rl:" + uuid.NewString(),
	}
	router := gin.New()
	router.Use(middleware.NewRateLimiter(cfg, s.rdb, testutil.DiscardLogger()))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/pong", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, remaining := range []string{"1", "0"} {
		rec := httptest.PerformRequest(s.T(), router, http.MethodGet, "/ping", nil, "")
		s.Equal(http.StatusNoContent, rec.Code)
		httptest.AssertHeaders(s.T(), rec, map[string]string{
			"X-RateLimit-Limit":     "2",
			"X-RateLimit-Remaining": remaining,
		})
	}

	rec := httptest.PerformRequest(s.T(), router, http.MethodGet, "/ping", nil, "")
	httptest.AssertErrorResponse(s.T(), rec, http.StatusTooManyRequests, "RATE_LIMITED")
	assert.Equal(s.T(), "3600", rec.Header().Get("Retry-After"))

	// buckets are per route
	rec = httptest.PerformRequest(s.T(), router, http.MethodGet, "/pong", nil, "")
	s.Equal(http.StatusNoContent, rec.Code)
}

func (s *RedisSuite) TestRateLimiterFailsOpen() {
	closed := redis.NewClient(&redis.Options{Addr: s.rdb.Options().Addr})
	require.NoError(s.T(), closed.Close())

	router := gin.New()
	router.Use(middleware.NewRateLimiter(config.RateLimitConfig{
		Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Hour, TTL: time.Minute, Prefix: "parq:rl",
	}, closed, testutil.DiscardLogger()))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for range 3 {
		rec := httptest.PerformRequest(s.T(), router, http.MethodGet, "/ping", nil, "")
		s.Equal(http.StatusNoContent, rec.Code)
	}
}

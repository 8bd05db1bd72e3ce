package bootstrap

import (
	"context"
	"log/slog"

	"parq-core/internal/handler/middleware"
	"parq-core/internal/infra/cache"
	"parq-core/internal/pkg/config"
	"parq-core/internal/usecase/allocator"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var CacheModule = fx.Module("cache",
	fx.Provide(
		NewRedisClient,
		NewAvailabilityCache,
		fx.Annotate(
			NewRateLimiter,
			fx.ResultTags(`name:"rateLimiter"`),
		),
	),
)

// NewRedisClient returns nil when REDIS_ADDR is unset.
func NewRedisClient(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*redis.Client, error) {
	rdb, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, err
	}
	if rdb == nil {
		logger.Info("redis disabled, running without availability cache and rate limiting")
		return nil, nil
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return rdb.Close()
		},
	})
	return rdb, nil
}

func NewAvailabilityCache(cfg config.Config, rdb *redis.Client, logger *slog.Logger) allocator.AvailabilityCache {
	if rdb == nil {
		return allocator.NoopCache{}
	}
	return cache.NewAvailabilityCache(rdb, cfg.Redis.AvailabilityTTL, logger)
}

func NewRateLimiter(cfg config.Config, rdb *redis.Client, logger *slog.Logger) gin.HandlerFunc {
	var scripter redis.Scripter
	if rdb != nil {
		scripter = rdb
	}
	return middleware.NewRateLimiter(cfg.RateLimit, scripter, logger)
}

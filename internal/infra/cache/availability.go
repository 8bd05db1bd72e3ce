// Package cache keeps availability answers in Redis. Every spot has a
// generation counter that is part of each entry's key, so invalidating a spot
// is one INCR and stale entries simply age out.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"parq-core/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "parq:avail"

type AvailabilityCache struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

func NewAvailabilityCache(rdb redis.Cmdable, ttl time.Duration, logger *slog.Logger) *AvailabilityCache {
	return &AvailabilityCache{rdb: rdb, ttl: ttl, logger: logger}
}

func generationKey(spotID uuid.UUID) string {
	return fmt.Sprintf("%s:gen:%s", keyPrefix, spotID)
}

func entryKey(spotID uuid.UUID, gen int64, slot booking.TimeSlot) string {
	return fmt.Sprintf("%s:%s:%d:%d-%d", keyPrefix, spotID, gen, slot.Start().Unix(), slot.End().Unix())
}

func (c *AvailabilityCache) generation(ctx context.Context, spotID uuid.UUID) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey(spotID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Get reports a miss on any Redis error. The generation is returned on a miss
// too and is -1 when it could not be read.
func (c *AvailabilityCache) Get(ctx context.Context, spotID uuid.UUID, slot booking.TimeSlot) (int, int64, bool) {
	gen, err := c.generation(ctx, spotID)
	if err != nil {
		c.warn("availability cache generation read failed", spotID, err)
		return 0, -1, false
	}
	raw, err := c.rdb.Get(ctx, entryKey(spotID, gen, slot)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.warn("availability cache read failed", spotID, err)
		}
		return 0, gen, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, gen, false
	}
	return n, gen, true
}

// Set stores available under gen, the generation an earlier Get returned. A
// value written under a generation that has since been bumped is dead on
// arrival.
func (c *AvailabilityCache) Set(ctx context.Context, spotID uuid.UUID, gen int64, slot booking.TimeSlot, available int) {
	if gen < 0 {
		return
	}
	if err := c.rdb.Set(ctx, entryKey(spotID, gen, slot), available, c.ttl).Err(); err != nil {
		c.warn("availability cache write failed", spotID, err)
	}
}

// Invalidate bumps the generation. Entries written under the old generation
// are never read again.
func (c *AvailabilityCache) Invalidate(ctx context.Context, spotID uuid.UUID) {
	if err := c.rdb.Incr(ctx, generationKey(spotID)).Err(); err != nil {
		c.warn("availability cache invalidation failed", spotID, err)
	}
}

func (c *AvailabilityCache) warn(msg string, spotID uuid.UUID, err error) {
	c.logger.Warn(msg, slog.String("spot_id", spotID.String()), slog.String("error", err.Error()))
}

// Package cache holds the transient Redis cache for computed slot lists.
// Slots are never persisted as entities; only the final accepted list is
// cached briefly to spare repeated calendar fetches.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"meeting-scheduler/internal/availability"
)

// SlotCache caches computed slot lists with a short TTL. Every failure path
// degrades to a miss; the cache never turns availability into an error.
type SlotCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func New(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *SlotCache {
	return &SlotCache{rdb: rdb, ttl: ttl, log: log}
}

// Key builds the cache key for one schedule's computed range.
func Key(scheduleID string, from, to time.Time, team bool) string {
	kind := "solo"
	if team {
		kind = "team"
	}
	return fmt.Sprintf("slots:%s:%s:%s:%s", kind, scheduleID,
		from.Format("2006-01-02"), to.Format("2006-01-02"))
}

func (c *SlotCache) Get(ctx context.Context, key string) ([]availability.Slot, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("slot cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var slots []availability.Slot
	if err := json.Unmarshal(raw, &slots); err != nil {
		c.log.Warn("slot cache decode failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return slots, true
}

func (c *SlotCache) Set(ctx context.Context, key string, slots []availability.Slot) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("slot cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops every cached list for a schedule, called after a booking
// lands so stale lists do not resurface a taken slot.
func (c *SlotCache) Invalidate(ctx context.Context, scheduleID string) {
	if c == nil || c.rdb == nil {
		return
	}
	for _, kind := range []string{"solo", "team"} {
		pattern := fmt.Sprintf("slots:%s:%s:*", kind, scheduleID)
		iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
		for iter.Next(ctx) {
			if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
				c.log.Warn("slot cache invalidate failed", zap.String("key", iter.Val()), zap.Error(err))
			}
		}
	}
}

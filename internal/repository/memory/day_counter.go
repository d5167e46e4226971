package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// DayKey appends the UTC calendar day to prefix, e.g. grounding:calls:2024-05-01.
func DayKey(prefix string, now time.Time) string {
	return prefix + ":" + now.UTC().Format("2006-01-02")
}

// NextUTCMidnight is when a counter for now's day stops counting.
func NextUTCMidnight(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)
}

// RedisDayCounter shares a per-day counter across instances. Keys expire at
// the next UTC midnight.
type RedisDayCounter struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisDayCounter(rdb *redis.Client, now func() time.Time) *RedisDayCounter {
	if now == nil {
		now = time.Now
	}
	return &RedisDayCounter{rdb: rdb, now: now}
}

func (c *RedisDayCounter) Increment(ctx context.Context, prefix string) (int64, error) {
	now := c.now()
	key := DayKey(prefix, now)

	var incr *redis.IntCmd
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireAt(ctx, key, NextUTCMidnight(now))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (c *RedisDayCounter) Count(ctx context.Context, prefix string) (int64, error) {
	n, err := c.rdb.Get(ctx, DayKey(prefix, c.now())).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// LocalDayCounter is the single-instance fallback with the same reset rule.
type LocalDayCounter struct {
	mu    sync.Mutex
	cache *cache.Cache
	now   func() time.Time
}

func NewLocalDayCounter(now func() time.Time) *LocalDayCounter {
	if now == nil {
		now = time.Now
	}
	return &LocalDayCounter{
		cache: cache.New(cache.NoExpiration, time.Hour),
		now:   now,
	}
}

func (c *LocalDayCounter) Increment(_ context.Context, prefix string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	key := DayKey(prefix, now)
	n, err := c.cache.IncrementInt64(key, 1)
	if err == nil {
		return n, nil
	}
	c.cache.Set(key, int64(1), NextUTCMidnight(now).Sub(now))
	return 1, nil
}

func (c *LocalDayCounter) Count(_ context.Context, prefix string) (int64, error) {
	if x, found := c.cache.Get(DayKey(prefix, c.now())); found {
		return x.(int64), nil
	}
	return 0, nil
}

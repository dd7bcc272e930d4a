package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/planejaedu/identity/pkg/cache"
)

// RedisLimiter is a fixed-window counter kept in the shared store, so every
// replica of the service spends from the same budget.
type RedisLimiter struct {
	cache  cache.ICache
	limit  int64
	window time.Duration
	key    KeyFunc
	now    func() time.Time
}

func NewRedisLimiter(c cache.ICache, limit int, window time.Duration, key KeyFunc) *RedisLimiter {
	if key == nil {
		key = func(identity string) string { return "rate_limit:" + identity }
	}
	return &RedisLimiter{
		cache:  c,
		limit:  int64(limit),
		window: window,
		key:    key,
		now:    time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, identity string) (bool, error) {
	slot := l.now().UnixNano() / int64(l.window)
	key := l.key(identity) + ":" + strconv.FormatInt(slot, 10)

	pipe := l.cache.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= l.limit, nil
}

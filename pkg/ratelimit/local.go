package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	localIdleTTL   = 10 * time.Minute
	localPruneSize = 4096
)

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// LocalLimiter is an in-process token bucket per identity. Only correct on a
// single replica; meant for development.
type LocalLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	every   rate.Limit
	burst   int
}

func NewLocalLimiter(limit int, window time.Duration) *LocalLimiter {
	return &LocalLimiter{
		buckets: make(map[string]*bucket),
		every:   rate.Every(window / time.Duration(limit)),
		burst:   limit,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, identity string) (bool, error) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[identity]
	if !ok {
		if len(l.buckets) >= localPruneSize {
			l.prune(now)
		}
		b = &bucket{lim: rate.NewLimiter(l.every, l.burst)}
		l.buckets[identity] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1), nil
}

func (l *LocalLimiter) prune(now time.Time) {
	for k, b := range l.buckets {
		if now.Sub(b.seen) > localIdleTTL {
			delete(l.buckets, k)
		}
	}
}

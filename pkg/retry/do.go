// Package retry runs an operation again after transient failures, waiting an
// exponentially growing interval between attempts.
package retry

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// Func is one attempt. It must honour ctx.
type Func func(ctx context.Context) error

// Permanent marks an error that must not be retried.
type Permanent struct {
	Err error
}

func (p *Permanent) Error() string { return p.Err.Error() }
func (p *Permanent) Unwrap() error { return p.Err }

// Stop wraps err so Do returns it without further attempts.
func Stop(err error) error {
	if err == nil {
		return nil
	}
	return &Permanent{Err: err}
}

type config struct {
	attempts int
	base     time.Duration
	max      time.Duration
	jitter   bool
}

// Option configures Do.
type Option func(*config)

// WithMaxAttempts counts the first attempt too.
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.attempts = n
		}
	}
}

// WithBackoff sets the first wait and the cap on later ones.
func WithBackoff(base, max time.Duration) Option {
	return func(c *config) {
		if base > 0 {
			c.base = base
		}
		c.max = max
	}
}

// WithJitter randomises each wait in [0, d).
func WithJitter() Option {
	return func(c *config) { c.jitter = true }
}

func (c *config) wait(attempt int) time.Duration {
	d := c.max
	if attempt < 30 {
		if next := c.base << attempt; next > 0 && (c.max <= 0 || next < c.max) {
			d = next
		}
	}
	if c.jitter && d > 0 {
		d = time.Duration(rand.Int64N(int64(d)))
	}
	return d
}

// Do calls fn until it succeeds, returns a Permanent error, ctx ends or the
// attempts run out. The last error is returned, unwrapped from Permanent.
func Do(ctx context.Context, fn Func, opts ...Option) error {
	cfg := &config{attempts: 3, base: 200 * time.Millisecond, max: 5 * time.Second}
	for _, opt := range opts {
		opt(cfg)
	}

	var lastErr error
	for attempt := 0; attempt < cfg.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		var p *Permanent
		if errors.As(lastErr, &p) {
			return p.Err
		}
		if errors.Is(lastErr, context.Canceled) || errors.Is(lastErr, context.DeadlineExceeded) {
			return lastErr
		}
		if attempt == cfg.attempts-1 {
			break
		}

		timer := time.NewTimer(cfg.wait(attempt))
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		}
	}
	return lastErr
}

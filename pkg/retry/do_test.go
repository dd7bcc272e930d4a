package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errTransient = errors.New("421 try again later")

func fast() Option { return WithBackoff(time.Millisecond, 2*time.Millisecond) }

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errTransient
		}
		return nil
	}, WithMaxAttempts(3), fast())

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_ReturnsLastErrorWhenExhausted(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func(context.Context) error {
		attempts++
		return errTransient
	}, WithMaxAttempts(4), fast(), WithJitter())

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 4, attempts)
}

func TestDo_StopsOnPermanent(t *testing.T) {
	rejected := errors.New("550 mailbox unavailable")
	attempts := 0
	err := Do(context.Background(), func(context.Context) error {
		attempts++
		return Stop(rejected)
	}, fast())

	assert.Equal(t, rejected, err)
	assert.Equal(t, 1, attempts)
	assert.Nil(t, Stop(nil))
}

func TestDo_ContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := Do(ctx, func(context.Context) error {
		attempts++
		cancel()
		return errTransient
	}, WithMaxAttempts(5), WithBackoff(time.Second, 0))

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, attempts)
}

func TestDo_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Do(ctx, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfig_WaitCapped(t *testing.T) {
	c := &config{base: 100 * time.Millisecond, max: 300 * time.Millisecond}
	assert.Equal(t, 100*time.Millisecond, c.wait(0))
	assert.Equal(t, 200*time.Millisecond, c.wait(1))
	assert.Equal(t, 300*time.Millisecond, c.wait(2))
	assert.Equal(t, 300*time.Millisecond, c.wait(40))
}

// Package retry repeats an operation until it succeeds, fails for
// good, or runs out of attempts.  The handshake uses it to redial a
// word-setter that is not listening yet; the SSH dialer uses it to
// reach the gateway.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// ErrExhausted is returned, wrapping the last failure, when
// MaxAttempts tries all failed.
var ErrExhausted = errors.New("retries exhausted")

// ── Permanent errors ─────────────────────────────────────────────────

type permanent struct{ err error }

func (p *permanent) Error() string { return p.err.Error() }
func (p *permanent) Unwrap() error { return p.err }

// Permanent marks err as not worth retrying.  Do returns the inner
// error at once.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanent{err: err}
}

// IsPermanent reports whether err was marked with [Permanent].
func IsPermanent(err error) bool {
	var p *permanent
	return errors.As(err, &p)
}

// ── Backoff ──────────────────────────────────────────────────────────

// Backoff describes the waits between attempts.  Zero fields take the
// defaults noted below.
type Backoff struct {
	Delay       time.Duration // first wait, default 1s
	MaxDelay    time.Duration // cap, default 60s
	Factor      float64       // growth per retry, default 2; 1 keeps it fixed
	MaxAttempts int           // total tries; 0 retries until ctx ends
	Jitter      bool          // spread each wait by ±25%

	// OnRetry runs after a failed attempt, before waiting.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultBackoff doubles from one second, jittered, for ten attempts.
func DefaultBackoff() *Backoff {
	return &Backoff{
		Delay:       time.Second,
		MaxDelay:    time.Minute,
		Factor:      2,
		MaxAttempts: 10,
		Jitter:      true,
	}
}

// Fixed waits exactly interval between attempts, without limit.
func Fixed(interval time.Duration) *Backoff {
	return &Backoff{Delay: interval, MaxDelay: interval, Factor: 1}
}

// Do calls fn with a 1-based attempt number until it returns nil.
// A [Permanent] error ends the loop with the inner error; so does ctx
// ending, with ctx's error.
func (b *Backoff) Do(ctx context.Context, fn func(attempt int) error) error {
	for attempt := 1; ; attempt++ {
		err := fn(attempt)
		switch {
		case err == nil:
			return nil
		case IsPermanent(err):
			return errors.Unwrap(err)
		case b.MaxAttempts > 0 && attempt >= b.MaxAttempts:
			return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempt, err)
		}

		wait := b.wait(attempt)
		if b.OnRetry != nil {
			b.OnRetry(attempt, err, wait)
		}
		if serr := sleep(ctx, wait); serr != nil {
			return fmt.Errorf("%w (last error: %v)", serr, err)
		}
	}
}

// wait is the pause after the given failed attempt.
func (b *Backoff) wait(attempt int) time.Duration {
	delay, maxDelay, factor := b.Delay, b.MaxDelay, b.Factor
	if delay <= 0 {
		delay = time.Second
	}
	if maxDelay <= 0 {
		maxDelay = time.Minute
	}
	if factor <= 0 {
		factor = 2
	}

	d := float64(delay) * math.Pow(factor, float64(attempt-1))
	if d > float64(maxDelay) {
		d = float64(maxDelay)
	}
	if b.Jitter {
		d = jitter(d)
	}
	return time.Duration(d)
}

// jitter moves d by up to a quarter either way, never below 1ms.
func jitter(d float64) float64 {
	d += (rand.Float64()*2 - 1) * d / 4
	return math.Max(d, float64(time.Millisecond))
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

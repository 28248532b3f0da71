package fetch

// limit.go bounds the number of outbound fetches in flight.
//
// The limiter is a semaphore. When every slot is taken, a fetch waits up to
// maxWait before failing with ErrTooManyFetches. WaitForDrain lets shutdown
// block until in-flight fetches finish.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManyFetches is returned when no fetch slot frees up within the wait time.
var ErrTooManyFetches = errors.New("too many concurrent fetches")

// DefaultMaxConcurrent is the slot count used when none is configured.
const DefaultMaxConcurrent = 4

// DefaultMaxWait is how long to wait for a slot when none is configured.
const DefaultMaxWait = 10 * time.Second

// Limiter restricts concurrent fetches.
type Limiter struct {
	inner     Fetcher
	semaphore chan struct{}
	maxWait   time.Duration
	active    atomic.Int64
}

// NewLimiter wraps inner so that at most maxConcurrent fetches run at once.
func NewLimiter(inner Fetcher, maxConcurrent int, maxWait time.Duration) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}
	return &Limiter{
		inner:     inner,
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Fetch implements Fetcher.
func (l *Limiter) Fetch(ctx context.Context, source string) (string, error) {
	if err := l.acquire(ctx); err != nil {
		return "", &Error{Source: source, Err: err}
	}
	defer l.release()

	return l.inner.Fetch(ctx, source)
}

func (l *Limiter) acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.semaphore <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-timer.C:
		return ErrTooManyFetches
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Limiter) release() {
	l.active.Add(-1)
	<-l.semaphore
}

// Active returns the number of fetches in flight.
func (l *Limiter) Active() int {
	return int(l.active.Load())
}

// WaitForDrain blocks until no fetch is in flight or ctx is done.
func (l *Limiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.Active() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Package ratelimit throttles HubSpot API calls to stay inside the
// documented limit of 10 requests per rolling 10 seconds. The call log is
// pluggable so cooperating processes can share one window through SQLite.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Defaults matching HubSpot's 10 requests / 10 seconds limit. The limiter
// errs on the safe side and starts sleeping at 8 calls in the window.
const (
	DefaultWindow    = 10 * time.Second
	DefaultThreshold = 8
)

// Log records the timestamps of recent API calls.
type Log interface {
	// Record appends t to the log.
	Record(ctx context.Context, t time.Time) error
	// Recent returns recorded timestamps at or after cutoff, oldest
	// first. Older entries may be discarded.
	Recent(ctx context.Context, cutoff time.Time) ([]time.Time, error)
}

// Limiter enforces a sliding-window rate limit over a shared call log.
type Limiter struct {
	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger

	log       Log
	window    time.Duration
	threshold int

	// Overridable in tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New returns a limiter over log with the default HubSpot window.
func New(log Log) *Limiter {
	return &Limiter{
		log:       log,
		window:    DefaultWindow,
		threshold: DefaultThreshold,
		now:       time.Now,
		sleep:     sleepCtx,
	}
}

func (l *Limiter) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

// Wait blocks until a call may be made without exceeding the rate limit,
// then records the call. It returns early with the context's error if ctx
// is cancelled while waiting.
func (l *Limiter) Wait(ctx context.Context) error {
	now := l.now()
	recent, err := l.log.Recent(ctx, now.Add(-l.window))
	if err != nil {
		return fmt.Errorf("read call log: %w", err)
	}

	if len(recent) >= l.threshold {
		// Sleep until the oldest call in the window ages out, with a
		// small margin, capped at one full window.
		d := l.window + 100*time.Millisecond - now.Sub(recent[0])
		if d > l.window {
			d = l.window
		}
		if d > 0 {
			l.logger().Info("sleeping to avoid exceeding hubspot rate limits",
				"duration", d.String(),
			)
			if err := l.sleep(ctx, d); err != nil {
				return err
			}
		}
	}

	if err := l.log.Record(ctx, l.now()); err != nil {
		return fmt.Errorf("record call: %w", err)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

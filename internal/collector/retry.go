package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SignalDesk/internal/model"
)

// RetryConfig controls exponential backoff between attempts.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
}

// DefaultRetryConfig retries twice starting at 500ms.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxRetries: 2, BaseDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second, Multiplier: 2}
}

// retryable reports whether another attempt could succeed.
func retryable(err error) bool {
	return !errors.Is(err, ErrSymbolNotFound) &&
		!errors.Is(err, ErrInvalidSymbol) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

// Do runs fn until it succeeds, fails permanently or runs out of attempts.
func (rc RetryConfig) Do(ctx context.Context, fn func() error) error {
	var lastErr error
	delay := rc.BaseDelay
	for attempt := 0; attempt <= rc.MaxRetries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return errors.Join(lastErr, ctx.Err())
			case <-timer.C:
			}
			delay = time.Duration(float64(delay) * rc.Multiplier)
			if delay > rc.MaxDelay {
				delay = rc.MaxDelay
			}
		}
		lastErr = fn()
		if lastErr == nil || !retryable(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

type retryFetcher struct {
	Fetcher
	cfg RetryConfig
}

// WithRetry wraps a fetcher so transient failures are retried.
func WithRetry(f Fetcher, cfg RetryConfig) Fetcher {
	if cfg.MaxRetries <= 0 {
		return f
	}
	return &retryFetcher{Fetcher: f, cfg: cfg}
}

func (r *retryFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	var bars []model.OHLCV
	err := r.cfg.Do(ctx, func() error {
		var err error
		bars, err = r.Fetcher.FetchDailyBars(ctx, symbol, days)
		return err
	})
	return bars, err
}

package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryPolicy retries transient provider failures with exponential backoff.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	Retryable   func(error) bool

	// Sleep waits between attempts. Nil means a real timer honoring ctx.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy is 3 attempts with 2s then 4s between them, retrying only on rate limits.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		Multiplier:  2,
		Retryable:   IsRateLimited,
	}
}

// Do runs fn until it succeeds, fails with a non-retryable error or attempts run out.
// Exhaustion yields ErrLimitExceeded wrapping the last error.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) (string, error)) (string, error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsRateLimited
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	schedule := p.schedule(attempts)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		if !retryable(err) {
			return "", err
		}
		lastErr = err
		if attempt == attempts {
			break
		}
		if err := sleep(ctx, schedule.NextBackOff()); err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("%w: %v", ErrLimitExceeded, lastErr)
}

func (p RetryPolicy) schedule(attempts int) *backoff.ExponentialBackOff {
	multiplier := p.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	maxInterval := p.BaseDelay
	for i := 1; i < attempts; i++ {
		maxInterval = time.Duration(float64(maxInterval) * multiplier)
	}

	b := &backoff.ExponentialBackOff{
		InitialInterval:     p.BaseDelay,
		RandomizationFactor: 0,
		Multiplier:          multiplier,
		MaxInterval:         maxInterval,
	}
	b.Reset()
	return b
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RetryingGenerator applies a RetryPolicy to every call of the wrapped Generator.
type RetryingGenerator struct {
	Generator Generator
	Policy    RetryPolicy
}

var _ Generator = &RetryingGenerator{}

func NewRetryingGenerator(g Generator, policy RetryPolicy) *RetryingGenerator {
	return &RetryingGenerator{Generator: g, Policy: policy}
}

func (r *RetryingGenerator) GenerateContent(ctx context.Context, req Request, options ...Option) (string, error) {
	return r.Policy.Do(ctx, func(ctx context.Context) (string, error) {
		return r.Generator.GenerateContent(ctx, req, options...)
	})
}

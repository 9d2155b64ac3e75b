package api

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/truthlinked/sdk-go/internal/apierrors"
)

// RetryConfig configures retry behavior for failed requests.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts uint
	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration
	// MaxDelay caps the delay between attempts before jitter is applied.
	MaxDelay time.Duration
	// BackoffMultiplier is the factor by which the delay grows per attempt.
	BackoffMultiplier float64
	// JitterFactor is the randomization factor (0.0 to 1.0) applied to
	// each delay to prevent thundering herd.
	JitterFactor float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialDelay:      time.Second,
		MaxDelay:          30 * time.Second,
		BackoffMultiplier: 2.0,
		JitterFactor:      0.1,
	}
}

// ProductionRetryConfig returns a retry configuration with shorter delays.
func ProductionRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialDelay:      500 * time.Millisecond,
		MaxDelay:          10 * time.Second,
		BackoffMultiplier: 2.0,
		JitterFactor:      0.1,
	}
}

// AggressiveRetryConfig returns a retry configuration with more attempts
// and short delays.
func AggressiveRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       5,
		InitialDelay:      100 * time.Millisecond,
		MaxDelay:          5 * time.Second,
		BackoffMultiplier: 1.5,
		JitterFactor:      0.2,
	}
}

// NoRetryConfig returns a configuration that makes a single attempt.
func NoRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       1,
		BackoffMultiplier: 1.0,
	}
}

// Validate checks that the configuration is usable.
func (r RetryConfig) Validate() error {
	if r.JitterFactor < 0 || r.JitterFactor > 1 {
		return apierrors.New(apierrors.KindInvalidRequest, "jitter factor must be between 0 and 1")
	}
	if r.InitialDelay < 0 || r.MaxDelay < 0 {
		return apierrors.New(apierrors.KindInvalidRequest, "retry delays must not be negative")
	}
	if r.BackoffMultiplier < 1 || math.IsNaN(r.BackoffMultiplier) || math.IsInf(r.BackoffMultiplier, 0) {
		return apierrors.New(apierrors.KindInvalidRequest, "backoff multiplier must be a finite value of at least 1")
	}
	return nil
}

// BaseDelay returns the delay before retry n (zero-based) without jitter:
// min(InitialDelay * BackoffMultiplier^n, MaxDelay).
func (r RetryConfig) BaseDelay(n uint) time.Duration {
	if r.InitialDelay <= 0 {
		return 0
	}
	delay := float64(r.InitialDelay) * math.Pow(r.BackoffMultiplier, float64(n))
	if delay > float64(r.MaxDelay) || math.IsInf(delay, 1) {
		delay = float64(r.MaxDelay)
	}
	return time.Duration(delay)
}

// Delay calculates the delay before retry n with jitter applied. The result
// lies within BaseDelay(n) ± BaseDelay(n)*JitterFactor and is never negative.
func (r RetryConfig) Delay(n uint) time.Duration {
	delay := float64(r.BaseDelay(n))

	// Add jitter
	if r.JitterFactor > 0 {
		jitterAmount := delay * r.JitterFactor
		delay = delay - jitterAmount + (rand.Float64() * 2 * jitterAmount)
	}
	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay)
}

// Wait blocks for d or until ctx is done.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Executor runs operations under a RetryConfig.
type Executor struct {
	config  RetryConfig
	sleep   func(context.Context, time.Duration) error
	onRetry func(attempt uint, delay time.Duration, err error)
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithSleep replaces the function used to wait between attempts.
func WithSleep(sleep func(context.Context, time.Duration) error) ExecutorOption {
	return func(e *Executor) {
		e.sleep = sleep
	}
}

// OnRetry registers a hook called before each wait. attempt is the
// one-based number of the attempt that just failed.
func OnRetry(fn func(attempt uint, delay time.Duration, err error)) ExecutorOption {
	return func(e *Executor) {
		e.onRetry = fn
	}
}

// NewExecutor creates an Executor.
func NewExecutor(config RetryConfig, opts ...ExecutorOption) *Executor {
	e := &Executor{config: config, sleep: Wait}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the executor's retry configuration.
func (e *Executor) Config() RetryConfig {
	return e.config
}

// Execute runs op until it succeeds, fails with a non-retryable error, or
// the attempt budget is exhausted. Only network failures and server errors
// are retried. There is no wait after the final attempt. If ctx is done
// while waiting, the context error is returned as a network error.
func Execute[T any](ctx context.Context, e *Executor, op func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := uint(0); attempt < e.config.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if !apierrors.Retryable(err) {
			return zero, err
		}
		lastErr = err

		if attempt+1 >= e.config.MaxAttempts {
			break
		}
		if cerr := ctx.Err(); cerr != nil {
			return zero, waitError(cerr)
		}

		delay := e.config.Delay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt+1, delay, err)
		}
		if werr := e.sleep(ctx, delay); werr != nil {
			return zero, waitError(werr)
		}
	}

	if lastErr == nil {
		return zero, apierrors.New(apierrors.KindNetwork, "max retries exceeded")
	}
	return zero, lastErr
}

func waitError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apierrors.FromTransport(err)
	}
	return err
}

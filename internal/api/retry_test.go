package api

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/truthlinked/sdk-go/internal/apierrors"
)

// recordSleep returns a sleep function that records delays without waiting.
func recordSleep(delays *[]time.Duration) ExecutorOption {
	return WithSleep(func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return ctx.Err()
	})
}

func TestRetryConfigPresets(t *testing.T) {
	tests := []struct {
		name   string
		config RetryConfig
		want   RetryConfig
	}{
		{"default", DefaultRetryConfig(), RetryConfig{3, time.Second, 30 * time.Second, 2.0, 0.1}},
		{"production", ProductionRetryConfig(), RetryConfig{3, 500 * time.Millisecond, 10 * time.Second, 2.0, 0.1}},
		{"aggressive", AggressiveRetryConfig(), RetryConfig{5, 100 * time.Millisecond, 5 * time.Second, 1.5, 0.2}},
		{"none", NoRetryConfig(), RetryConfig{1, 0, 0, 1.0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.config != tt.want {
				t.Errorf("config = %+v, want %+v", tt.config, tt.want)
			}
			if err := tt.config.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestRetryConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		config RetryConfig
	}{
		{"negative jitter", RetryConfig{MaxAttempts: 1, JitterFactor: -0.1, BackoffMultiplier: 1}},
		{"jitter above one", RetryConfig{MaxAttempts: 1, JitterFactor: 1.5, BackoffMultiplier: 1}},
		{"negative initial delay", RetryConfig{MaxAttempts: 1, InitialDelay: -time.Second, BackoffMultiplier: 1}},
		{"negative max delay", RetryConfig{MaxAttempts: 1, MaxDelay: -time.Second, BackoffMultiplier: 1}},
		{"negative multiplier", RetryConfig{MaxAttempts: 1, BackoffMultiplier: -2}},
		{"zero multiplier", RetryConfig{MaxAttempts: 3, InitialDelay: time.Second, MaxDelay: 10 * time.Second}},
		{"shrinking multiplier", RetryConfig{MaxAttempts: 3, InitialDelay: time.Second, MaxDelay: 10 * time.Second, BackoffMultiplier: 0.5}},
		{"NaN multiplier", RetryConfig{MaxAttempts: 3, MaxDelay: time.Second, BackoffMultiplier: math.NaN()}},
		{"infinite multiplier", RetryConfig{MaxAttempts: 3, MaxDelay: time.Second, BackoffMultiplier: math.Inf(1)}},
		{"negative infinite multiplier", RetryConfig{MaxAttempts: 3, MaxDelay: time.Second, BackoffMultiplier: math.Inf(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if !errors.Is(err, apierrors.ErrInvalidRequest) {
				t.Errorf("Validate() error = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestRetryConfig_BaseDelay(t *testing.T) {
	cfg := RetryConfig{
		InitialDelay:      100 * time.Millisecond,
		MaxDelay:          10 * time.Second,
		BackoffMultiplier: 2.0,
	}

	tests := []struct {
		attempt  uint
		expected time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{4, 1600 * time.Millisecond},
		{5, 3200 * time.Millisecond},
		{6, 6400 * time.Millisecond},
		{7, 10 * time.Second}, // capped
		{20, 10 * time.Second},
		{2000, 10 * time.Second},
	}

	for _, tt := range tests {
		got := cfg.BaseDelay(tt.attempt)
		if got != tt.expected {
			t.Errorf("BaseDelay(%d) = %v, want %v", tt.attempt, got, tt.expected)
		}
	}
}

func TestRetryConfig_BaseDelay_NonDecreasing(t *testing.T) {
	for _, cfg := range []RetryConfig{DefaultRetryConfig(), ProductionRetryConfig(), AggressiveRetryConfig(), NoRetryConfig()} {
		prev := time.Duration(0)
		for n := uint(0); n < 30; n++ {
			d := cfg.BaseDelay(n)
			if d < prev {
				t.Errorf("BaseDelay(%d) = %v < BaseDelay(%d) = %v", n, d, n-1, prev)
			}
			if d > cfg.MaxDelay {
				t.Errorf("BaseDelay(%d) = %v exceeds MaxDelay %v", n, d, cfg.MaxDelay)
			}
			prev = d
		}
	}
}

func TestRetryConfig_BaseDelay_ZeroInitialDelay(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, MaxDelay: time.Second, BackoffMultiplier: 2}
	for _, n := range []uint{0, 1, 64, 5000} {
		if d := cfg.BaseDelay(n); d != 0 {
			t.Errorf("BaseDelay(%d) = %v, want 0", n, d)
		}
	}
}

func TestRetryConfig_Delay_NoJitter(t *testing.T) {
	cfg := RetryConfig{
		InitialDelay:      time.Second,
		MaxDelay:          30 * time.Second,
		BackoffMultiplier: 2.0,
	}

	for n := uint(0); n < 8; n++ {
		if cfg.Delay(n) != cfg.BaseDelay(n) {
			t.Errorf("Delay(%d) = %v, want %v", n, cfg.Delay(n), cfg.BaseDelay(n))
		}
	}
}

func TestRetryConfig_Delay_JitterBounds(t *testing.T) {
	cfg := RetryConfig{
		InitialDelay:      time.Second,
		MaxDelay:          30 * time.Second,
		BackoffMultiplier: 2.0,
		JitterFactor:      0.2,
	}

	for i := 0; i < 200; i++ {
		delay := cfg.Delay(1)
		if delay < 1600*time.Millisecond || delay > 2400*time.Millisecond {
			t.Fatalf("Delay(1) = %v, want within [1.6s, 2.4s]", delay)
		}
	}

	full := cfg
	full.JitterFactor = 1.0
	for i := 0; i < 200; i++ {
		if d := full.Delay(0); d < 0 {
			t.Fatalf("Delay(0) = %v, want >= 0", d)
		}
	}
}

func TestWait(t *testing.T) {
	start := time.Now()
	if err := Wait(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Errorf("Wait() returned after %v, want >= 10ms", elapsed)
	}
}

func TestWait_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Wait(ctx, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() error = %v, want context.Canceled", err)
	}
}

func TestExecute_SuccessFirstAttempt(t *testing.T) {
	var delays []time.Duration
	e := NewExecutor(DefaultRetryConfig(), recordSleep(&delays))

	calls := 0
	result, err := Execute(context.Background(), e, func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %q, want ok", result)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if len(delays) != 0 {
		t.Errorf("delays = %v, want none", delays)
	}
}

func TestExecute_RetryableExhaustsAttempts(t *testing.T) {
	for _, kind := range []apierrors.Kind{apierrors.KindNetwork, apierrors.KindServerError} {
		t.Run(kind.String(), func(t *testing.T) {
			var delays []time.Duration
			cfg := RetryConfig{MaxAttempts: 4, InitialDelay: 100 * time.Millisecond, MaxDelay: 10 * time.Second, BackoffMultiplier: 2.0}
			e := NewExecutor(cfg, recordSleep(&delays))

			calls := uint(0)
			_, err := Execute(context.Background(), e, func(context.Context) (int, error) {
				calls++
				return 0, apierrors.New(kind, "")
			})

			if calls != cfg.MaxAttempts {
				t.Errorf("calls = %d, want %d", calls, cfg.MaxAttempts)
			}
			if uint(len(delays)) != cfg.MaxAttempts-1 {
				t.Errorf("delays = %d, want %d", len(delays), cfg.MaxAttempts-1)
			}
			want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}
			for i, d := range delays {
				if d != want[i] {
					t.Errorf("delay[%d] = %v, want %v", i, d, want[i])
				}
			}
			if got, _ := apierrors.KindOf(err); got != kind {
				t.Errorf("error kind = %v, want %v", got, kind)
			}
		})
	}
}

func TestExecute_FatalKindsSingleAttempt(t *testing.T) {
	fatal := []apierrors.Kind{
		apierrors.KindUnauthorized,
		apierrors.KindForbidden,
		apierrors.KindRateLimitExceeded,
		apierrors.KindInvalidRequest,
		apierrors.KindSerialization,
		apierrors.KindInvalidResponse,
		apierrors.KindLicenseExpired,
	}

	for _, kind := range fatal {
		t.Run(kind.String(), func(t *testing.T) {
			var delays []time.Duration
			e := NewExecutor(AggressiveRetryConfig(), recordSleep(&delays))

			calls := 0
			_, err := Execute(context.Background(), e, func(context.Context) (struct{}, error) {
				calls++
				return struct{}{}, apierrors.New(kind, "")
			})

			if calls != 1 {
				t.Errorf("calls = %d, want 1", calls)
			}
			if len(delays) != 0 {
				t.Errorf("delays = %v, want none", delays)
			}
			if got, _ := apierrors.KindOf(err); got != kind {
				t.Errorf("error kind = %v, want %v", got, kind)
			}
		})
	}
}

func TestExecute_UnclassifiedErrorIsFatal(t *testing.T) {
	e := NewExecutor(DefaultRetryConfig(), WithSleep(func(context.Context, time.Duration) error {
		t.Fatal("unexpected sleep")
		return nil
	}))

	boom := errors.New("boom")
	calls := 0
	_, err := Execute(context.Background(), e, func(context.Context) (int, error) {
		calls++
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestExecute_RecoversAfterFailures(t *testing.T) {
	var delays []time.Duration
	e := NewExecutor(DefaultRetryConfig(), recordSleep(&delays))

	calls := 0
	result, err := Execute(context.Background(), e, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, apierrors.New(apierrors.KindServerError, "")
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result != 42 {
		t.Errorf("result = %d, want 42", result)
	}
	if len(delays) != 2 {
		t.Errorf("delays = %d, want 2", len(delays))
	}
}

func TestExecute_ZeroAttempts(t *testing.T) {
	e := NewExecutor(RetryConfig{MaxAttempts: 0})

	_, err := Execute(context.Background(), e, func(context.Context) (int, error) {
		t.Fatal("operation should not be invoked")
		return 0, nil
	})

	if !errors.Is(err, apierrors.ErrNetwork) {
		t.Errorf("error = %v, want ErrNetwork", err)
	}
	if err.Error() != "network error: max retries exceeded" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestExecute_ContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	e := NewExecutor(DefaultRetryConfig(), WithSleep(func(ctx context.Context, d time.Duration) error {
		cancel()
		return Wait(ctx, d)
	}))

	calls := 0
	_, err := Execute(ctx, e, func(context.Context) (int, error) {
		calls++
		return 0, apierrors.New(apierrors.KindServerError, "")
	})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if !errors.Is(err, apierrors.ErrNetwork) {
		t.Errorf("error = %v, want ErrNetwork", err)
	}
	if err.Error() != "network error: request cancelled" {
		t.Errorf("error = %q", err.Error())
	}
}

func TestExecute_CancelledContextSkipsRetry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var delays []time.Duration
	hooks := 0
	e := NewExecutor(DefaultRetryConfig(), recordSleep(&delays), OnRetry(func(uint, time.Duration, error) {
		hooks++
	}))

	calls := 0
	_, err := Execute(ctx, e, func(ctx context.Context) (int, error) {
		calls++
		cancel()
		return 0, apierrors.FromTransport(ctx.Err())
	})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if hooks != 0 {
		t.Errorf("retry hooks = %d, want 0", hooks)
	}
	if len(delays) != 0 {
		t.Errorf("delays = %v, want none", delays)
	}
	if err == nil || err.Error() != "network error: request cancelled" {
		t.Errorf("error = %v, want request cancelled", err)
	}
}

func TestExecute_PermanentErrorSingleAttempt(t *testing.T) {
	var delays []time.Duration
	e := NewExecutor(AggressiveRetryConfig(), recordSleep(&delays))

	calls := 0
	_, err := Execute(context.Background(), e, func(context.Context) (int, error) {
		calls++
		pin := apierrors.New(apierrors.KindNetwork, "certificate pin mismatch")
		pin.Permanent = true
		return 0, pin
	})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if len(delays) != 0 {
		t.Errorf("delays = %v, want none", delays)
	}
	if !errors.Is(err, apierrors.ErrNetwork) {
		t.Errorf("error = %v, want ErrNetwork", err)
	}
}

func TestExecute_OnRetryHook(t *testing.T) {
	type call struct {
		attempt uint
		delay   time.Duration
	}
	var calls []call
	var delays []time.Duration

	cfg := RetryConfig{MaxAttempts: 3, InitialDelay: 10 * time.Millisecond, MaxDelay: time.Second, BackoffMultiplier: 2}
	e := NewExecutor(cfg, recordSleep(&delays), OnRetry(func(attempt uint, delay time.Duration, err error) {
		if !apierrors.Retryable(err) {
			t.Errorf("hook received non-retryable error %v", err)
		}
		calls = append(calls, call{attempt, delay})
	}))

	_, _ = Execute(context.Background(), e, func(context.Context) (int, error) {
		return 0, apierrors.New(apierrors.KindNetwork, "connection failed")
	})

	want := []call{{1, 10 * time.Millisecond}, {2, 20 * time.Millisecond}}
	if len(calls) != len(want) {
		t.Fatalf("hook calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("hook call %d = %+v, want %+v", i, calls[i], want[i])
		}
	}
}

func TestExecute_RealWait(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, InitialDelay: 5 * time.Millisecond, MaxDelay: 50 * time.Millisecond, BackoffMultiplier: 2}
	e := NewExecutor(cfg)

	start := time.Now()
	_, _ = Execute(context.Background(), e, func(context.Context) (int, error) {
		return 0, apierrors.New(apierrors.KindServerError, "")
	})
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Errorf("elapsed = %v, want >= 15ms", elapsed)
	}
}

package resilience

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastConfig keeps test retries quick.
func fastConfig(maxAttempts int, phrases ...string) Config {
	return Config{
		MaxAttempts:       maxAttempts,
		BaseDelay:         time.Millisecond,
		MaxDelay:          5 * time.Millisecond,
		PerAttemptTimeout: time.Second,
		RetryablePhrases:  phrases,
	}
}

func TestExecute_SuccessFirstAttempt(t *testing.T) {
	exec := NewExecutor(PolicyFixed, fastConfig(3, "network error"))
	defer exec.Close()

	result, err := Execute(exec, context.Background(), func(ctx context.Context) (string, error) {
		return "page loaded", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "page loaded", result)

	m := exec.Metrics()
	assert.Equal(t, 1, m.TotalAttempts)
	assert.Equal(t, 1, m.SuccessfulAttempts)
	assert.Equal(t, 0, m.FailedAttempts)
	assert.Nil(t, m.LastError)
	assert.Equal(t, BreakerClosed, m.BreakerState)
}

func TestExecute_RetryableFailuresThenSuccess(t *testing.T) {
	exec := NewExecutor(PolicyFixed, fastConfig(3, "network error"))
	defer exec.Close()

	var calls int32
	result, err := Execute(exec, context.Background(), func(ctx context.Context) (int, error) {
		if atomic.AddInt32(&calls, 1) < 3 {
			return 0, errors.New("network error: connection dropped")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	m := exec.Metrics()
	assert.Equal(t, 3, m.TotalAttempts)
	assert.Equal(t, 1, m.SuccessfulAttempts)
	assert.Equal(t, 2, m.FailedAttempts)
}

func TestExecute_FatalErrorFailsImmediately(t *testing.T) {
	exec := NewExecutor(PolicyFixed, fastConfig(5, "network error"))
	defer exec.Close()

	fatal := errors.New("syntax error in selector")
	var calls int32
	_, err := Execute(exec, context.Background(), func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", fatal
	})

	// Fatal errors propagate unwrapped.
	require.ErrorIs(t, err, fatal)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	m := exec.Metrics()
	assert.Equal(t, 1, m.TotalAttempts)
	assert.Equal(t, 1, m.FailedAttempts)
	assert.Equal(t, fatal, m.LastError)
}

func TestExecute_ExhaustsRetryableAttempts(t *testing.T) {
	exec := NewExecutor(PolicyFixed, fastConfig(2, "network error"))
	defer exec.Close()

	var calls int32
	_, err := Execute(exec, context.Background(), func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", errors.New("network error")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 2 attempts")
	assert.Contains(t, err.Error(), "network error")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 2, exhausted.Attempts)
}

func TestExecute_PerAttemptTimeout(t *testing.T) {
	cfg := fastConfig(3)
	cfg.PerAttemptTimeout = 50 * time.Millisecond
	exec := NewExecutor(PolicyFixed, cfg)
	defer exec.Close()

	var calls int32
	_, err := Execute(exec, context.Background(), func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(500 * time.Millisecond)
		return "too late", nil
	})

	// No phrase matches "timed out", so the timeout is fatal: one attempt.
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out after 50ms")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	m := exec.Metrics()
	assert.Equal(t, 1, m.TotalAttempts)
	assert.Equal(t, 1, m.FailedAttempts)
}

func TestExecute_TimeoutIsRetryableWhenConfigured(t *testing.T) {
	cfg := fastConfig(2, "timed out")
	cfg.PerAttemptTimeout = 20 * time.Millisecond
	exec := NewExecutor(PolicyFixed, cfg)
	defer exec.Close()

	var calls int32
	_, err := Execute(exec, context.Background(), func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(time.Second)
		return "", nil
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 2 attempts")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestExecute_AbandonedOperationCannotCorruptMetrics(t *testing.T) {
	cfg := fastConfig(1)
	cfg.PerAttemptTimeout = 20 * time.Millisecond
	exec := NewExecutor(PolicyFixed, cfg)
	defer exec.Close()

	finished := make(chan struct{})
	_, err := Execute(exec, context.Background(), func(ctx context.Context) (string, error) {
		defer close(finished)
		time.Sleep(100 * time.Millisecond)
		return "slow winner", nil
	})

	require.Error(t, err)

	before := exec.Metrics()

	// Let the abandoned attempt run to completion; it must not touch the
	// executor's bookkeeping after losing the race.
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("abandoned operation never finished")
	}
	time.Sleep(10 * time.Millisecond)

	after := exec.Metrics()
	assert.Equal(t, before.TotalAttempts, after.TotalAttempts)
	assert.Equal(t, before.SuccessfulAttempts, after.SuccessfulAttempts)
	assert.Equal(t, before.FailedAttempts, after.FailedAttempts)
}

func TestExecute_ContextCancelledDuringBackoff(t *testing.T) {
	cfg := fastConfig(3, "network error")
	cfg.BaseDelay = 5 * time.Second
	cfg.MaxDelay = 5 * time.Second
	exec := NewExecutor(PolicyFixed, cfg)
	defer exec.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := Execute(exec, ctx, func(ctx context.Context) (string, error) {
		return "", errors.New("network error")
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestExecute_BreakerOpensAfterThreeFailures(t *testing.T) {
	exec := NewExecutor(PolicyFixed, fastConfig(1, "network error"))
	defer exec.Close()

	fail := func(ctx context.Context) (string, error) {
		return "", errors.New("element exploded")
	}

	// Two fatal failures: breaker stays closed.
	for i := 0; i < 2; i++ {
		_, err := Execute(exec, context.Background(), fail)
		require.Error(t, err)
		assert.Equal(t, BreakerClosed, exec.Metrics().BreakerState)
	}

	// Third failure trips the breaker.
	_, err := Execute(exec, context.Background(), fail)
	require.Error(t, err)
	assert.Equal(t, BreakerOpen, exec.Metrics().BreakerState)

	// Next call is rejected before the operation runs.
	var calls int32
	_, err = Execute(exec, context.Background(), func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "should not run", nil
	})
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))

	// The rejection counts as one attempt and one fatal failure.
	m := exec.Metrics()
	assert.Equal(t, 4, m.TotalAttempts)
	assert.Equal(t, 4, m.FailedAttempts)
	assert.Equal(t, ErrCircuitOpen, m.LastError)
}

func TestExecute_BreakerRecoversAfterCooldown(t *testing.T) {
	clock := quartz.NewMock(t)
	exec := NewExecutor(PolicyFixed, fastConfig(1), WithClock(clock))
	defer exec.Close()

	fail := func(ctx context.Context) (string, error) {
		return "", errors.New("browser on fire")
	}
	for i := 0; i < 3; i++ {
		_, err := Execute(exec, context.Background(), fail)
		require.Error(t, err)
	}
	require.Equal(t, BreakerOpen, exec.Metrics().BreakerState)

	// The cooldown timer moves the breaker to half-open on its own.
	clock.Advance(30 * time.Second).MustWait(context.Background())
	assert.Equal(t, BreakerHalfOpen, exec.Metrics().BreakerState)

	// A successful probe closes it.
	result, err := Execute(exec, context.Background(), func(ctx context.Context) (string, error) {
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", result)
	assert.Equal(t, BreakerClosed, exec.Metrics().BreakerState)
}

// The failure counter is sticky across breaker recoveries: closing the
// breaker forgives nothing, so a recovered executor trips again on its very
// next failure. Known sharp edge, preserved deliberately.
func TestExecute_FailureCounterStickyAcrossRecovery(t *testing.T) {
	clock := quartz.NewMock(t)
	exec := NewExecutor(PolicyFixed, fastConfig(1), WithClock(clock))
	defer exec.Close()

	fail := func(ctx context.Context) (string, error) {
		return "", errors.New("boom")
	}
	for i := 0; i < 3; i++ {
		_, _ = Execute(exec, context.Background(), fail)
	}
	clock.Advance(30 * time.Second).MustWait(context.Background())

	_, err := Execute(exec, context.Background(), func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	require.Equal(t, BreakerClosed, exec.Metrics().BreakerState)
	assert.Equal(t, 3, exec.Metrics().FailedAttempts)

	// One more failure re-opens immediately because the count never reset.
	_, err = Execute(exec, context.Background(), fail)
	require.Error(t, err)
	assert.Equal(t, BreakerOpen, exec.Metrics().BreakerState)
}

func TestExecutor_ResetMetrics(t *testing.T) {
	exec := NewExecutor(PolicyFixed, fastConfig(1))
	defer exec.Close()

	_, _ = Execute(exec, context.Background(), func(ctx context.Context) (string, error) {
		return "", errors.New("boom")
	})
	require.NotZero(t, exec.Metrics().TotalAttempts)

	exec.ResetMetrics()

	m := exec.Metrics()
	assert.Zero(t, m.TotalAttempts)
	assert.Zero(t, m.SuccessfulAttempts)
	assert.Zero(t, m.FailedAttempts)
	assert.Zero(t, m.TotalRetryTime)
	assert.Nil(t, m.LastError)
}

func TestExecutor_MetricsInvariant(t *testing.T) {
	exec := NewExecutor(PolicyFixed, fastConfig(3, "flaky"))
	defer exec.Close()

	var calls int32
	_, _ = Execute(exec, context.Background(), func(ctx context.Context) (string, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return "", errors.New("flaky thing happened")
		}
		return "ok", nil
	})
	_, _ = Execute(exec, context.Background(), func(ctx context.Context) (string, error) {
		return "", errors.New("hard failure")
	})

	m := exec.Metrics()
	assert.Equal(t, m.TotalAttempts, m.SuccessfulAttempts+m.FailedAttempts)
	assert.Positive(t, m.TotalRetryTime)
}

func TestExecutor_ConfigDefaults(t *testing.T) {
	exec := NewExecutor(PolicyLinear, Config{})
	defer exec.Close()

	cfg := exec.Config()
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, time.Second, cfg.BaseDelay)
	assert.Equal(t, 30*time.Second, cfg.MaxDelay)
	assert.Equal(t, 30*time.Second, cfg.PerAttemptTimeout)
}

func TestExecutor_WithPolicyOverride(t *testing.T) {
	custom := NewFixedBackoff(time.Millisecond)
	exec := NewExecutor(PolicyExponential, fastConfig(2, "x"), WithPolicy(custom))
	defer exec.Close()

	assert.Same(t, custom, exec.policy)
}

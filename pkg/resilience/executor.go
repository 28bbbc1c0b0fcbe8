package resilience

import (
	"context"

	"github.com/coder/quartz"
)

// Logger receives retry lifecycle messages. pkg/logging.Logger satisfies it.
type Logger interface {
	Debugf(format string, v ...interface{})
	Warnf(format string, v ...interface{})
}

// Executor retries a fallible operation according to a backoff policy and a
// retry config, races each attempt against a per-attempt timeout, and guards
// a failing dependency with a circuit breaker.
//
// Create one executor per logical operation class and reuse it: metrics and
// breaker state persist across Execute calls until ResetMetrics is called or
// the executor is discarded. Concurrent Execute calls on the same executor
// are safe; attempts are still one-at-a-time per call, never parallelized.
type Executor struct {
	policy  Policy
	config  Config
	clock   quartz.Clock
	logger  Logger
	breaker *circuitBreaker

	counters counters
}

// Option configures an Executor.
type Option func(*Executor)

// WithClock replaces the wall clock. Used by tests to drive timers
// deterministically.
func WithClock(clock quartz.Clock) Option {
	return func(e *Executor) {
		e.clock = clock
	}
}

// WithLogger attaches a logger for retry and breaker-transition messages.
func WithLogger(logger Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithPolicy overrides the backoff policy built from the config.
func WithPolicy(policy Policy) Option {
	return func(e *Executor) {
		e.policy = policy
	}
}

// NewExecutor creates an executor with the given backoff policy kind and
// retry config. Zero-valued config fields are defaulted.
func NewExecutor(kind PolicyKind, cfg Config, opts ...Option) *Executor {
	cfg = cfg.withDefaults()

	e := &Executor{
		config: cfg,
		clock:  quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.policy == nil {
		e.policy = NewPolicy(kind, cfg.BaseDelay, cfg.MaxDelay)
	}
	e.breaker = newCircuitBreaker(e.clock, breakerCooldown, e.onBreakerChange)
	return e
}

// Config returns the executor's retry configuration.
func (e *Executor) Config() Config {
	return e.config
}

// Metrics returns a snapshot of the executor's accumulated metrics.
func (e *Executor) Metrics() Metrics {
	snap := e.counters.snapshot()
	snap.BreakerState = e.breaker.currentState()
	return snap
}

// ResetMetrics zeroes all counters and clears the last error. It does not
// touch the breaker state; an open breaker stays open until its cooldown.
func (e *Executor) ResetMetrics() {
	e.counters.reset()
}

// Close cancels the breaker's pending recovery timer, if any. Call it when
// discarding an executor so no scheduled callback outlives it.
func (e *Executor) Close() {
	e.breaker.stop()
}

func (e *Executor) onBreakerChange(from, to BreakerState) {
	if e.logger != nil {
		e.logger.Warnf("circuit breaker %s -> %s", from, to)
	}
}

// Execute runs op through e, retrying according to the executor's policy and
// config. It returns op's result, or the first fatal error, or a terminal
// ExhaustedError once all attempts fail with retryable errors. It is a
// package-level function because methods cannot introduce type parameters.
//
// The executor does not enforce idempotency; op must be safe to invoke more
// than once. Cancelling ctx aborts the retry loop between and during
// attempts.
func Execute[T any](e *Executor, ctx context.Context, op func(context.Context) (T, error)) (T, error) {
	var zero T

	start := e.clock.Now()
	defer func() {
		e.counters.addRetryTime(e.clock.Since(start))
	}()

	var lastErr error
	for attempt := 1; attempt <= e.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		e.counters.addAttempt()

		// An open breaker rejects the attempt before the operation runs.
		// That still counts as an attempt and a failure, and is fatal.
		if e.breaker.currentState() == BreakerOpen {
			failed := e.counters.addFailure(ErrCircuitOpen)
			e.breaker.recordFailure(failed)
			return zero, ErrCircuitOpen
		}

		result, err := runAttempt(e, ctx, op)
		if err == nil {
			e.counters.addSuccess()
			e.breaker.recordSuccess()
			return result, nil
		}

		lastErr = err
		failed := e.counters.addFailure(err)

		// Caller gave up; report the cancellation without touching the
		// breaker, since the dependency is not to blame.
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if !e.config.retryable(err) {
			e.breaker.recordFailure(failed)
			return zero, err
		}

		if attempt == e.config.MaxAttempts {
			break
		}

		delay := e.policy.Delay(attempt)
		if e.logger != nil {
			e.logger.Debugf("attempt %d/%d failed (%v), retrying in %s", attempt, e.config.MaxAttempts, err, delay)
		}

		timer := e.clock.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		}
	}

	e.breaker.recordFailure(e.counters.failedAttempts())
	return zero, &ExhaustedError{Attempts: e.config.MaxAttempts, LastErr: lastErr}
}

// runAttempt races one invocation of op against the per-attempt timeout.
// The loser of the race is abandoned, not cancelled: the result channel is
// buffered so a slow operation can finish and be garbage collected, and only
// the winner's outcome ever reaches the executor's counters.
func runAttempt[T any](e *Executor, ctx context.Context, op func(context.Context) (T, error)) (T, error) {
	type outcome struct {
		result T
		err    error
	}

	done := make(chan outcome, 1)
	go func() {
		result, err := op(ctx)
		done <- outcome{result: result, err: err}
	}()

	timer := e.clock.NewTimer(e.config.PerAttemptTimeout)
	defer timer.Stop()

	var zero T
	select {
	case out := <-done:
		return out.result, out.err
	case <-timer.C:
		return zero, &TimeoutError{Timeout: e.config.PerAttemptTimeout}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

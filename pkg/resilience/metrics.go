package resilience

import (
	"sync"
	"time"
)

// Metrics is a point-in-time snapshot of an executor's bookkeeping. Counters
// accumulate across Execute calls on the same executor until ResetMetrics is
// called; in particular FailedAttempts is NOT cleared when the circuit
// breaker closes again.
type Metrics struct {
	// TotalAttempts counts every attempt, including breaker-rejected ones.
	TotalAttempts int

	// SuccessfulAttempts counts attempts whose operation returned no error.
	SuccessfulAttempts int

	// FailedAttempts counts failed attempts. Sticky: only ResetMetrics
	// clears it, so a formerly-failing executor that recovered can trip the
	// breaker again on its very next failure.
	FailedAttempts int

	// TotalRetryTime is the wall-clock time spent inside Execute calls.
	TotalRetryTime time.Duration

	// LastError is the most recent failure, nil if none since the last reset.
	LastError error

	// BreakerState is the circuit breaker state at snapshot time.
	BreakerState BreakerState
}

// counters is the executor's mutable bookkeeping, guarded by its own mutex
// so the breaker's recovery timer and concurrent Execute calls stay safe.
type counters struct {
	mu             sync.Mutex
	total          int
	successful     int
	failed         int
	totalRetryTime time.Duration
	lastError      error
}

func (c *counters) addAttempt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total++
}

func (c *counters) addSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.successful++
}

// addFailure records err and returns the new cumulative failed count, which
// the caller feeds to the breaker's trip check.
func (c *counters) addFailure(err error) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failed++
	c.lastError = err
	return c.failed
}

func (c *counters) failedAttempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failed
}

func (c *counters) addRetryTime(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalRetryTime += d
}

func (c *counters) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total = 0
	c.successful = 0
	c.failed = 0
	c.totalRetryTime = 0
	c.lastError = nil
}

func (c *counters) snapshot() Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Metrics{
		TotalAttempts:      c.total,
		SuccessfulAttempts: c.successful,
		FailedAttempts:     c.failed,
		TotalRetryTime:     c.totalRetryTime,
		LastError:          c.lastError,
	}
}


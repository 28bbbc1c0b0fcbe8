package resilience

import (
	"sync"
	"time"

	"github.com/coder/quartz"
)

// BreakerState represents the circuit breaker state.
type BreakerState int

const (
	// BreakerClosed means attempts flow through normally.
	BreakerClosed BreakerState = iota
	// BreakerOpen means attempts are rejected without invoking the operation.
	BreakerOpen
	// BreakerHalfOpen means the next attempt is allowed through as a probe.
	BreakerHalfOpen
)

// String returns the string representation of the state.
func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

const (
	// breakerFailureThreshold is the cumulative failed-attempt count at which
	// a recorded failure trips the breaker.
	breakerFailureThreshold = 3

	// breakerCooldown is how long the breaker stays open before the recovery
	// timer moves it to half-open.
	breakerCooldown = 30 * time.Second
)

// circuitBreaker is the executor's failure-tracking state machine. It does
// not count failures itself; the executor feeds it the cumulative
// failed-attempt total, which is sticky across recoveries (see Executor).
type circuitBreaker struct {
	clock    quartz.Clock
	cooldown time.Duration
	onChange func(from, to BreakerState)

	mu    sync.Mutex
	state BreakerState
	timer *quartz.Timer
}

func newCircuitBreaker(clock quartz.Clock, cooldown time.Duration, onChange func(from, to BreakerState)) *circuitBreaker {
	if cooldown <= 0 {
		cooldown = breakerCooldown
	}
	return &circuitBreaker{
		clock:    clock,
		cooldown: cooldown,
		onChange: onChange,
		state:    BreakerClosed,
	}
}

// state returns the current breaker state.
func (cb *circuitBreaker) currentState() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// recordFailure trips the breaker once the cumulative failed-attempt count
// reaches the threshold. Already-open breakers are left alone so the pending
// recovery timer keeps its original deadline.
func (cb *circuitBreaker) recordFailure(failedAttempts int) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == BreakerOpen || failedAttempts < breakerFailureThreshold {
		return
	}

	cb.transitionLocked(BreakerOpen)

	// Arm the recovery timer. A previous timer can only exist if the breaker
	// re-opened after a half-open probe failed; replace it.
	if cb.timer != nil {
		cb.timer.Stop()
	}
	cb.timer = cb.clock.AfterFunc(cb.cooldown, cb.halfOpen)
}

// halfOpen is the recovery timer callback. It is best effort: if the breaker
// has already moved on by the time it fires, it does nothing.
func (cb *circuitBreaker) halfOpen() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != BreakerOpen {
		return
	}
	cb.transitionLocked(BreakerHalfOpen)
}

// recordSuccess closes the breaker after a successful half-open probe.
func (cb *circuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == BreakerHalfOpen {
		cb.transitionLocked(BreakerClosed)
	}
}

// stop cancels any pending recovery timer. Called when the owning executor
// is closed so a discarded executor does not leak a scheduled callback.
func (cb *circuitBreaker) stop() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.timer != nil {
		cb.timer.Stop()
		cb.timer = nil
	}
}

func (cb *circuitBreaker) transitionLocked(to BreakerState) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	if cb.onChange != nil {
		cb.onChange(from, to)
	}
}

package resilience

import (
	"math"
	"time"
)

// Policy computes the wait duration before the next retry attempt.
// Attempt numbers are 1-based; implementations are pure and stateless.
type Policy interface {
	// Delay returns a non-negative duration for the given attempt number.
	Delay(attempt int) time.Duration
}

// PolicyKind selects one of the built-in backoff policies.
type PolicyKind int

const (
	// PolicyLinear grows the delay linearly with the attempt number.
	PolicyLinear PolicyKind = iota
	// PolicyExponential doubles the delay each attempt.
	PolicyExponential
	// PolicyFixed uses the same delay for every attempt.
	PolicyFixed
)

// String returns the string representation of the policy kind.
func (k PolicyKind) String() string {
	switch k {
	case PolicyLinear:
		return "linear"
	case PolicyExponential:
		return "exponential"
	case PolicyFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// NewPolicy creates a backoff policy of the given kind with the supplied
// base and maximum delays.
func NewPolicy(kind PolicyKind, base, max time.Duration) Policy {
	switch kind {
	case PolicyExponential:
		return &ExponentialBackoff{base: base, max: max}
	case PolicyFixed:
		return &FixedBackoff{base: base}
	default:
		return &LinearBackoff{base: base, max: max}
	}
}

// LinearBackoff grows the delay linearly: base * attempt, capped at max.
type LinearBackoff struct {
	base time.Duration
	max  time.Duration
}

// NewLinearBackoff creates a linear backoff policy.
func NewLinearBackoff(base, max time.Duration) *LinearBackoff {
	return &LinearBackoff{base: base, max: max}
}

// Delay returns base * attempt, capped at the maximum delay.
func (b *LinearBackoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := b.base * time.Duration(attempt)
	if delay > b.max || delay < 0 {
		delay = b.max
	}
	return delay
}

// ExponentialBackoff doubles the delay each attempt: base * 2^(attempt-1),
// capped at max.
type ExponentialBackoff struct {
	base time.Duration
	max  time.Duration
}

// NewExponentialBackoff creates an exponential backoff policy.
func NewExponentialBackoff(base, max time.Duration) *ExponentialBackoff {
	return &ExponentialBackoff{base: base, max: max}
}

// Delay returns base * 2^(attempt-1), capped at the maximum delay.
func (b *ExponentialBackoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := float64(b.base) * math.Pow(2, float64(attempt-1))
	if delay > float64(b.max) {
		return b.max
	}
	return time.Duration(delay)
}

// FixedBackoff waits the same base delay before every attempt. The maximum
// delay does not apply.
type FixedBackoff struct {
	base time.Duration
}

// NewFixedBackoff creates a fixed backoff policy.
func NewFixedBackoff(base time.Duration) *FixedBackoff {
	return &FixedBackoff{base: base}
}

// Delay returns the base delay regardless of attempt number.
func (b *FixedBackoff) Delay(attempt int) time.Duration {
	return b.base
}

package resilience

import (
	"errors"
	"fmt"
	"time"
)

// ErrCircuitOpen is returned when the circuit breaker rejects an attempt
// without invoking the operation.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// TimeoutError is returned when a single attempt loses the race against its
// per-attempt timer. It is classified for retryability like any other error,
// so whether a timeout is retried depends on the active phrase list.
type TimeoutError struct {
	Timeout time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("operation timed out after %dms", e.Timeout.Milliseconds())
}

// ExhaustedError is returned when every allowed attempt failed with a
// retryable error. It carries the last underlying error.
type ExhaustedError struct {
	Attempts int
	LastErr  error
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("operation failed after %d attempts. Last error: %v", e.Attempts, e.LastErr)
}

// Unwrap returns the last underlying error.
func (e *ExhaustedError) Unwrap() error {
	return e.LastErr
}

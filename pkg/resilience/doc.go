// Package resilience provides the retry and circuit-breaker execution engine
// that wraps every fallible browser operation in surf.
//
// An Executor re-attempts an operation according to a configurable backoff
// schedule, races each attempt against a per-attempt timeout, classifies
// failures as retryable or fatal by scanning the error message for configured
// phrases, and keeps a circuit breaker that stops hammering a dependency
// after repeated failures.
//
// # Executors
//
// Construct one executor per operation class and reuse it across calls;
// metrics and breaker state accumulate on the executor instance:
//
//	exec := resilience.NewExecutor(resilience.PolicyExponential, resilience.NetworkConfig())
//	defer exec.Close()
//
//	_, err := resilience.Execute(exec, ctx, func(ctx context.Context) (struct{}, error) {
//	    return struct{}{}, session.Navigate(url, opts)
//	})
//
// # Presets
//
// Four presets match the operation categories the CLI distinguishes:
// ConnectionConfig (browser startup), InteractiveConfig (clicks, fills),
// NetworkConfig (navigation), and FileSystemConfig (screenshot writes).
// Preset values can be overridden from the surf config file.
//
// # Circuit breaker
//
// The breaker trips to open once the executor's cumulative failed-attempt
// count reaches three, rejects calls for a 30 second cooldown, half-opens
// automatically, and closes on the next success. The failed-attempt count is
// deliberately sticky: closing the breaker does not forgive past failures,
// only an explicit ResetMetrics does.
package resilience

package resilience

import (
	"strings"
	"time"
)

// Config bundles the retry parameters for one category of operation. A Config
// is immutable once handed to an executor.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// BaseDelay seeds the backoff policy.
	BaseDelay time.Duration

	// MaxDelay caps the delay produced by the backoff policy.
	MaxDelay time.Duration

	// PerAttemptTimeout bounds a single attempt. An attempt that runs longer
	// loses the race against the timer and fails with a timeout error.
	PerAttemptTimeout time.Duration

	// RetryablePhrases classifies errors: an error is retryable iff its
	// message contains one of these substrings, case-insensitively.
	RetryablePhrases []string
}

// withDefaults fills zero-valued fields with sane defaults.
func (c Config) withDefaults() Config {
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 3
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = time.Second
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 30 * time.Second
	}
	if c.PerAttemptTimeout <= 0 {
		c.PerAttemptTimeout = 30 * time.Second
	}
	return c
}

// retryable reports whether err matches any configured retryable phrase.
func (c Config) retryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, phrase := range c.RetryablePhrases {
		if phrase == "" {
			continue
		}
		if strings.Contains(msg, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}

// ConnectionConfig is the preset for connection-establishing operations such
// as launching a browser or attaching to an existing one. Generous attempts
// with medium backoff, since process startup is slow but usually recovers.
func ConnectionConfig() Config {
	return Config{
		MaxAttempts:       5,
		BaseDelay:         2 * time.Second,
		MaxDelay:          30 * time.Second,
		PerAttemptTimeout: 60 * time.Second,
		RetryablePhrases: []string{
			"connection refused",
			"browser closed",
			"target closed",
			"websocket",
			"timed out",
		},
	}
}

// InteractiveConfig is the preset for page interactions (click, fill, wait).
// Few attempts with short backoff: elements either settle quickly or the
// selector is wrong and retrying will not help.
func InteractiveConfig() Config {
	return Config{
		MaxAttempts:       3,
		BaseDelay:         500 * time.Millisecond,
		MaxDelay:          5 * time.Second,
		PerAttemptTimeout: 10 * time.Second,
		RetryablePhrases: []string{
			"element not found",
			"not clickable",
			"not visible",
			"detached",
			"timed out",
		},
	}
}

// NetworkConfig is the preset for network-bound operations such as
// navigation. More attempts with longer backoff to ride out flaky networks.
func NetworkConfig() Config {
	return Config{
		MaxAttempts:       6,
		BaseDelay:         time.Second,
		MaxDelay:          45 * time.Second,
		PerAttemptTimeout: 30 * time.Second,
		RetryablePhrases: []string{
			"dns resolution failed",
			"socket hang up",
			"connection reset",
			"net::err",
			"timed out",
		},
	}
}

// FileSystemConfig is the preset for file-system operations such as writing
// screenshots. Few attempts and short backoff; most filesystem errors are
// permanent.
func FileSystemConfig() Config {
	return Config{
		MaxAttempts:       2,
		BaseDelay:         250 * time.Millisecond,
		MaxDelay:          time.Second,
		PerAttemptTimeout: 10 * time.Second,
		RetryablePhrases: []string{
			"permission denied",
			"resource busy",
			"file is locked",
		},
	}
}

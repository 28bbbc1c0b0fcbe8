package resilience

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_RetryableMatching(t *testing.T) {
	cfg := Config{RetryablePhrases: []string{"connection refused", "Browser Closed"}}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"exact phrase", errors.New("connection refused"), true},
		{"substring", errors.New("dial tcp: connection refused by peer"), true},
		{"case insensitive message", errors.New("CONNECTION REFUSED"), true},
		{"case insensitive phrase", errors.New("the browser closed unexpectedly"), true},
		{"no match", errors.New("syntax error"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.retryable(tt.err))
		})
	}
}

func TestConfig_EmptyPhraseListMatchesNothing(t *testing.T) {
	cfg := Config{}

	assert.False(t, cfg.retryable(errors.New("anything at all")))
}

func TestConfig_EmptyPhraseIsIgnored(t *testing.T) {
	cfg := Config{RetryablePhrases: []string{""}}

	// An empty phrase would match every message; it must be skipped.
	assert.False(t, cfg.retryable(errors.New("some failure")))
}

func TestPresets(t *testing.T) {
	presets := map[string]Config{
		"connection":  ConnectionConfig(),
		"interactive": InteractiveConfig(),
		"network":     NetworkConfig(),
		"filesystem":  FileSystemConfig(),
	}

	for name, cfg := range presets {
		t.Run(name, func(t *testing.T) {
			assert.GreaterOrEqual(t, cfg.MaxAttempts, 1)
			assert.Positive(t, cfg.BaseDelay)
			assert.Positive(t, cfg.MaxDelay)
			assert.Positive(t, cfg.PerAttemptTimeout)
			assert.NotEmpty(t, cfg.RetryablePhrases)
		})
	}

	// Spot-check the category-defining phrases.
	assert.True(t, ConnectionConfig().retryable(errors.New("connect: connection refused")))
	assert.True(t, InteractiveConfig().retryable(errors.New("element not found: #submit")))
	assert.True(t, NetworkConfig().retryable(errors.New("socket hang up")))
	assert.True(t, FileSystemConfig().retryable(errors.New("open /tmp/x: permission denied")))
}

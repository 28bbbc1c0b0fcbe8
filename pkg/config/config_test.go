package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	require.NoError(t, err)
	assert.True(t, cfg.Browser.HeadlessDefault())
	assert.Empty(t, cfg.AllowedURLs)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "browser: [not a mapping")

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoad_BrowserSettings(t *testing.T) {
	path := writeConfig(t, `
browser:
  engine: firefox
  headless: false
  viewport_width: 1920
  viewport_height: 1080
  max_sessions: 2
  idle_timeout: 2m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "firefox", cfg.Browser.Engine)
	assert.False(t, cfg.Browser.HeadlessDefault())
	assert.Equal(t, 1920, cfg.Browser.ViewportWidth)
	assert.Equal(t, 1080, cfg.Browser.ViewportHeight)
	assert.Equal(t, 2, cfg.Browser.MaxSessions)
	assert.Equal(t, 2*time.Minute, time.Duration(cfg.Browser.IdleTimeout))
}

func TestLoad_RetryOverrides(t *testing.T) {
	path := writeConfig(t, `
retry:
  network:
    max_attempts: 10
    base_delay: 2s
    retryable_phrases:
      - "custom transient failure"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	network := cfg.NetworkConfig()
	assert.Equal(t, 10, network.MaxAttempts)
	assert.Equal(t, 2*time.Second, network.BaseDelay)
	assert.Equal(t, []string{"custom transient failure"}, network.RetryablePhrases)

	// Untouched fields keep the preset values.
	assert.Equal(t, 30*time.Second, network.PerAttemptTimeout)

	// Other categories are unaffected.
	interactive := cfg.InteractiveConfig()
	assert.Equal(t, 3, interactive.MaxAttempts)
}

func TestRetryOverride_NilFieldsKeepPreset(t *testing.T) {
	cfg := (&Config{}).ConnectionConfig()

	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.BaseDelay)
	assert.NotEmpty(t, cfg.RetryablePhrases)
}

func TestDuration_UnmarshalForms(t *testing.T) {
	path := writeConfig(t, `
retry:
  interactive:
    base_delay: 250ms
  filesystem:
    base_delay: 1000000000
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.InteractiveConfig().BaseDelay)
	assert.Equal(t, time.Second, cfg.FileSystemConfig().BaseDelay)
}

func TestDuration_RoundTrip(t *testing.T) {
	d := Duration(90 * time.Second)
	assert.Equal(t, "1m30s", d.String())

	out, err := d.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", out)
}

func TestDuration_InvalidString(t *testing.T) {
	path := writeConfig(t, `
retry:
  network:
    base_delay: soonish
`)

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestURLAllowlist_EmptyAllowsAll(t *testing.T) {
	allowlist, err := NewURLAllowlist(nil)
	require.NoError(t, err)

	assert.True(t, allowlist.Allows("https://anywhere.example.com/path"))
}

func TestURLAllowlist_PatternMatching(t *testing.T) {
	allowlist, err := NewURLAllowlist([]string{
		"https://*.example.com/*",
		"https://intranet.local/*",
	})
	require.NoError(t, err)

	assert.True(t, allowlist.Allows("https://docs.example.com/page"))
	assert.True(t, allowlist.Allows("https://intranet.local/dashboard"))
	assert.False(t, allowlist.Allows("https://evil.test/page"))
}

func TestURLAllowlist_InvalidPattern(t *testing.T) {
	_, err := NewURLAllowlist([]string{"https://[invalid"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid URL pattern")
}

func TestConfig_AllowlistFromConfig(t *testing.T) {
	path := writeConfig(t, `
allowed_urls:
  - "https://*.example.com/*"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	allowlist, err := cfg.Allowlist()
	require.NoError(t, err)
	assert.True(t, allowlist.Allows("https://a.example.com/x"))
	assert.False(t, allowlist.Allows("https://other.test/x"))
}

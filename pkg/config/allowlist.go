package config

import (
	"fmt"

	"github.com/gobwas/glob"
)

// URLAllowlist matches navigation targets against configured glob patterns.
type URLAllowlist struct {
	patterns []glob.Glob
}

// NewURLAllowlist compiles the given glob patterns. An empty pattern list
// produces an allowlist that permits every URL.
func NewURLAllowlist(patterns []string) (*URLAllowlist, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid URL pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, g)
	}
	return &URLAllowlist{patterns: compiled}, nil
}

// Allows reports whether url matches the allowlist.
func (a *URLAllowlist) Allows(url string) bool {
	if len(a.patterns) == 0 {
		return true
	}
	for _, pattern := range a.patterns {
		if pattern.Match(url) {
			return true
		}
	}
	return false
}

// Allowlist compiles the config's allowed_urls patterns.
func (c *Config) Allowlist() (*URLAllowlist, error) {
	return NewURLAllowlist(c.AllowedURLs)
}

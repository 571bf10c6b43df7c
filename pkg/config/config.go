// Package config resolves and validates the service configuration from
// environment variables.
package config

import (
	"fmt"
	"strings"
)

// placeholderKeys are API key values that cannot reach a real backend.
var placeholderKeys = map[string]struct{}{
	"":                         {},
	"test":                     {},
	"test_key_for_development": {},
	"your_api_key_here":        {},
}

// Validate checks the configuration and normalizes the backend URL by
// stripping any trailing slash. A malformed URL is always an error. A
// missing or placeholder API key is an error only in strict mode, so
// development setups can run against a stub backend.
func (c *Config) Validate(strict bool) error {
	if !strings.HasPrefix(c.Backend.URL, "http://") && !strings.HasPrefix(c.Backend.URL, "https://") {
		return fmt.Errorf("backend URL must start with http:// or https://, got %q", c.Backend.URL)
	}
	c.Backend.URL = strings.TrimRight(c.Backend.URL, "/")

	if c.Backend.SessionID == "" {
		return fmt.Errorf("backend session id is required")
	}

	if strict && c.HasPlaceholderKey() {
		return fmt.Errorf("backend API key is missing or a placeholder")
	}

	if c.Events.Enabled {
		if len(c.Events.Brokers) == 0 {
			return fmt.Errorf("event stream enabled but no brokers configured")
		}
		if c.Events.Topic == "" {
			return fmt.Errorf("event stream enabled but no topic configured")
		}
	}

	return nil
}

// HasPlaceholderKey reports whether the backend API key is empty or one of
// the known development placeholders.
func (c *Config) HasPlaceholderKey() bool {
	_, ok := placeholderKeys[c.Backend.APIKey]
	return ok
}

// IsProductionReady reports whether the configuration can serve real
// traffic: a real API key, an https backend, and memory enabled.
func (c *Config) IsProductionReady() bool {
	return !c.HasPlaceholderKey() &&
		strings.HasPrefix(c.Backend.URL, "https://") &&
		c.Memory.Enabled
}

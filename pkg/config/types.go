package config

import (
	"time"
)

// Config holds the full service configuration, resolved from environment
// variables over defaults.
type Config struct {
	Backend BackendConfig
	Graph   GraphConfig
	API     APIConfig
	Memory  MemoryConfig
	Backoff BackoffConfig
	Events  EventsConfig
}

// BackendConfig holds the remote memory backend connection settings.
type BackendConfig struct {
	// APIKey authenticates against the backend. Required in strict mode.
	APIKey string

	// URL is the backend base URL. Must be http:// or https://; a
	// trailing slash is stripped during validation.
	URL string

	// SessionID names the public-memory session.
	SessionID string
}

// GraphConfig holds the shared knowledge-graph group settings.
type GraphConfig struct {
	GroupID     string
	Name        string
	Description string

	// SeedPath optionally points at a JSON document merged into the
	// group graph at startup.
	SeedPath string
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Listen string
}

// MemoryConfig holds the memory feature flag.
type MemoryConfig struct {
	Enabled bool
}

// BackoffConfig bounds retries on backend calls.
type BackoffConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// EventsConfig holds event stream publishing settings.
type EventsConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

package config

import (
	"strings"

	"github.com/spf13/viper"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig() and binds environment variables
// with the RECALL_ prefix.
//
// Config precedence (highest to lowest):
//  1. Environment variables (RECALL_BACKEND_API_KEY, RECALL_API_LISTEN, etc.)
//  2. Defaults from NewDefaultConfig()
func InitViper() *viper.Viper {
	v := viper.New()

	setViperDefaults(v)

	v.SetEnvPrefix("RECALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	// Backend
	v.SetDefault("backend.api_key", d.Backend.APIKey)
	v.SetDefault("backend.url", d.Backend.URL)
	v.SetDefault("backend.session_id", d.Backend.SessionID)

	// Graph
	v.SetDefault("graph.group_id", d.Graph.GroupID)
	v.SetDefault("graph.name", d.Graph.Name)
	v.SetDefault("graph.description", d.Graph.Description)
	v.SetDefault("graph.seed_path", d.Graph.SeedPath)

	// API
	v.SetDefault("api.listen", d.API.Listen)

	// Memory
	v.SetDefault("memory.enabled", d.Memory.Enabled)

	// Backoff
	v.SetDefault("backoff.max_retries", d.Backoff.MaxRetries)
	v.SetDefault("backoff.base_delay", d.Backoff.BaseDelay)

	// Events
	v.SetDefault("events.enabled", d.Events.Enabled)
	v.SetDefault("events.brokers", d.Events.Brokers)
	v.SetDefault("events.topic", d.Events.Topic)
}

// Load resolves a Config from the given viper instance.
func Load(v *viper.Viper) *Config {
	return &Config{
		Backend: BackendConfig{
			APIKey:    v.GetString("backend.api_key"),
			URL:       v.GetString("backend.url"),
			SessionID: v.GetString("backend.session_id"),
		},
		Graph: GraphConfig{
			GroupID:     v.GetString("graph.group_id"),
			Name:        v.GetString("graph.name"),
			Description: v.GetString("graph.description"),
			SeedPath:    v.GetString("graph.seed_path"),
		},
		API: APIConfig{
			Listen: v.GetString("api.listen"),
		},
		Memory: MemoryConfig{
			Enabled: v.GetBool("memory.enabled"),
		},
		Backoff: BackoffConfig{
			MaxRetries: v.GetInt("backoff.max_retries"),
			BaseDelay:  v.GetDuration("backoff.base_delay"),
		},
		Events: EventsConfig{
			Enabled: v.GetBool("events.enabled"),
			Brokers: v.GetStringSlice("events.brokers"),
			Topic:   v.GetString("events.topic"),
		},
	}
}

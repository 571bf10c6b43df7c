package config

import "time"

const (
	defaultBackendURL = "https://api.getzep.com"
	defaultSessionID  = "recall_memory_session"

	defaultGroupID          = "pulse-politics"
	defaultGroupName        = "Pulse Politics"
	defaultGroupDescription = "Shared political knowledge graph"

	defaultAPIListen = ":5001"

	defaultMaxRetries = 3
	defaultBaseDelay  = time.Second

	defaultEventsTopic = "recall.memory.saved"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:       defaultBackendURL,
			SessionID: defaultSessionID,
		},
		Graph: GraphConfig{
			GroupID:     defaultGroupID,
			Name:        defaultGroupName,
			Description: defaultGroupDescription,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Memory: MemoryConfig{
			Enabled: true,
		},
		Backoff: BackoffConfig{
			MaxRetries: defaultMaxRetries,
			BaseDelay:  defaultBaseDelay,
		},
		Events: EventsConfig{
			Enabled: false,
			Brokers: []string{"localhost:9092"},
			Topic:   defaultEventsTopic,
		},
	}
}

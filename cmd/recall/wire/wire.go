// Package wire builds the shared runtime pieces the recall subcommands
// need: environment-resolved config, the backend driver, and the gateway.
package wire

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/pulsepolitics/recall/pkg/backoff"
	"github.com/pulsepolitics/recall/pkg/config"
	"github.com/pulsepolitics/recall/pkg/memory"
	"github.com/pulsepolitics/recall/pkg/memory/inmemory"
	"github.com/pulsepolitics/recall/pkg/memory/zep"
)

// LoadConfig resolves and validates the service configuration from the
// environment. In strict mode a missing or placeholder API key is fatal.
func LoadConfig(strict bool, logger *zap.Logger) (*config.Config, error) {
	cfg := config.Load(config.InitViper())

	if err := cfg.Validate(strict); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.HasPlaceholderKey() {
		logger.Warn("using a placeholder API key, falling back to in-memory storage")
	}
	if !cfg.IsProductionReady() {
		logger.Warn("configuration is not production ready")
	}

	return cfg, nil
}

// Gateway constructs the backend driver and memory gateway from the
// given configuration. A placeholder API key gets an in-memory driver so
// development setups work without backend credentials.
func Gateway(cfg *config.Config, logger *zap.Logger) (*memory.Gateway, error) {
	driver, err := newDriver(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("creating backend driver: %w", err)
	}

	gateway, err := memory.NewGateway(memory.Config{
		SessionID:        cfg.Backend.SessionID,
		GroupID:          cfg.Graph.GroupID,
		GroupName:        cfg.Graph.Name,
		GroupDescription: cfg.Graph.Description,
		Policy: backoff.Policy{
			MaxRetries: cfg.Backoff.MaxRetries,
			BaseDelay:  cfg.Backoff.BaseDelay,
		},
	}, driver, logger)
	if err != nil {
		return nil, fmt.Errorf("creating memory gateway: %w", err)
	}

	return gateway, nil
}

func newDriver(cfg *config.Config, logger *zap.Logger) (memory.Driver, error) {
	if cfg.HasPlaceholderKey() {
		logger.Info("using in-memory storage")
		return inmemory.NewDriver(), nil
	}

	return zep.NewDriver(zep.Config{
		URL:    cfg.Backend.URL,
		APIKey: cfg.Backend.APIKey,
	}, logger)
}

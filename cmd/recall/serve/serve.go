// Package servecmder provides the recall HTTP server cobra command.
package servecmder

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pulsepolitics/recall/api"
	"github.com/pulsepolitics/recall/cmd/recall/wire"
	"github.com/pulsepolitics/recall/pkg/config"
	"github.com/pulsepolitics/recall/pkg/eventstream"
	"github.com/pulsepolitics/recall/pkg/eventstream/kafka"
	"github.com/pulsepolitics/recall/pkg/eventstream/nop"
	"github.com/pulsepolitics/recall/pkg/logger"
	"github.com/pulsepolitics/recall/pkg/memory"
	"github.com/pulsepolitics/recall/pkg/pipeline"
)

type serveCommander struct {
	listen string
	strict bool
	debug  bool
	logger *zap.Logger
}

const serveLongDesc string = `Run the recall HTTP server exposing the memory pipeline and the shared
political knowledge graph. Configuration is read from RECALL_* environment
variables.`

const serveShortDesc string = "Run the recall HTTP server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}

			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address for the HTTP server to listen on (default from config)")
	cmd.Flags().BoolVar(&cmder.strict, "strict", false, "Refuse to start with a missing or placeholder API key")

	return cmd
}

func (c *serveCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	cfg, err := wire.LoadConfig(c.strict, c.logger)
	if err != nil {
		return err
	}

	gateway, err := wire.Gateway(cfg, c.logger)
	if err != nil {
		return err
	}

	c.bootstrap(cfg, gateway)

	publisher, err := c.newPublisher(cfg)
	if err != nil {
		return err
	}
	defer publisher.Close()

	pipe, err := pipeline.New(gateway, publisher, c.logger)
	if err != nil {
		return err
	}

	listen := c.listen
	if listen == "" {
		listen = cfg.API.Listen
	}

	server := api.NewServer(api.Config{ListenAddr: listen}, gateway, pipe, c.logger)

	return server.Run()
}

// bootstrap prepares the shared knowledge graph. Failures are logged and
// the server starts anyway: the memory endpoints stay useful even when the
// graph backend is unreachable.
func (c *serveCommander) bootstrap(cfg *config.Config, gateway *memory.Gateway) {
	ctx := context.Background()

	if err := gateway.EnsureGroup(ctx); err != nil {
		c.logger.Error("group graph initialization failed", zap.Error(err))
		return
	}

	if cfg.Graph.SeedPath == "" {
		return
	}

	seed, err := os.ReadFile(cfg.Graph.SeedPath)
	if err != nil {
		c.logger.Warn("could not read seed file",
			zap.String("path", cfg.Graph.SeedPath),
			zap.Error(err),
		)
		return
	}

	if err := gateway.PopulateSeed(ctx, seed); err != nil {
		c.logger.Warn("seed population failed", zap.Error(err))
	}
}

func (c *serveCommander) newPublisher(cfg *config.Config) (eventstream.Publisher, error) {
	if !cfg.Events.Enabled {
		return nop.NewPublisher(), nil
	}

	publisher, err := kafka.NewPublisher(kafka.Config{
		Brokers: cfg.Events.Brokers,
		Topic:   cfg.Events.Topic,
	}, c.logger)
	if err != nil {
		return nil, fmt.Errorf("creating event publisher: %w", err)
	}

	return publisher, nil
}

// Package memorycmder provides cobra commands for the public-memory session.
package memorycmder

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pulsepolitics/recall/cmd/recall/wire"
	"github.com/pulsepolitics/recall/pkg/logger"
	"github.com/pulsepolitics/recall/pkg/memory"
)

type memoryCommander struct {
	limit  int
	debug  bool
	logger *zap.Logger
}

const memoryShortDesc string = "Work with the public-memory session"

func NewMemoryCmd() *cobra.Command {
	cmder := &memoryCommander{}

	cmd := &cobra.Command{
		Use:   "memory",
		Short: memoryShortDesc,
	}

	cmd.AddCommand(cmder.newSearchCmd())
	cmd.AddCommand(cmder.newStatsCmd())
	cmd.AddCommand(cmder.newClearCmd())

	return cmd
}

func (c *memoryCommander) newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the public-memory session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, err := c.gateway(cmd)
			if err != nil {
				return err
			}

			results := gateway.Search(context.Background(), args[0], c.limit)
			for _, result := range results {
				fmt.Fprintln(cmd.OutOrStdout(), result)
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&c.limit, "limit", "n", 5, "Maximum number of results to return")

	return cmd
}

func (c *memoryCommander) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show public-memory session statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gateway, err := c.gateway(cmd)
			if err != nil {
				return err
			}

			stats := gateway.Stats(context.Background())

			out, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding stats: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func (c *memoryCommander) newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the entire public-memory session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gateway, err := c.gateway(cmd)
			if err != nil {
				return err
			}

			return gateway.Clear(context.Background())
		},
	}
}

func (c *memoryCommander) gateway(cmd *cobra.Command) (*memory.Gateway, error) {
	var err error
	c.debug, err = cmd.Flags().GetBool("debug")
	if err != nil {
		return nil, fmt.Errorf("could not get debug flag: %v", err)
	}

	c.logger = logger.NewLogger(c.debug)

	cfg, err := wire.LoadConfig(false, c.logger)
	if err != nil {
		return nil, err
	}

	return wire.Gateway(cfg, c.logger)
}

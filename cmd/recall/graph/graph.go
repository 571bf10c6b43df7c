// Package graphcmder provides cobra commands for the shared knowledge graph.
package graphcmder

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pulsepolitics/recall/cmd/recall/wire"
	"github.com/pulsepolitics/recall/pkg/logger"
	"github.com/pulsepolitics/recall/pkg/memory"
)

type graphCommander struct {
	limit  int
	debug  bool
	logger *zap.Logger
}

const graphShortDesc string = "Work with the shared knowledge graph"

func NewGraphCmd() *cobra.Command {
	cmder := &graphCommander{}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: graphShortDesc,
	}

	cmd.AddCommand(cmder.newIngestCmd())
	cmd.AddCommand(cmder.newSeedCmd())
	cmd.AddCommand(cmder.newSearchCmd())

	return cmd
}

func (c *graphCommander) newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file>",
		Short: "Merge a JSON batch file into the group graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, err := c.gateway(cmd)
			if err != nil {
				return err
			}

			batch, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading batch file: %w", err)
			}

			return gateway.Ingest(context.Background(), batch)
		},
	}
}

func (c *graphCommander) newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file>",
		Short: "Create the group graph and merge seed data into it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, err := c.gateway(cmd)
			if err != nil {
				return err
			}

			seed, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading seed file: %w", err)
			}

			ctx := context.Background()
			if err := gateway.EnsureGroup(ctx); err != nil {
				return err
			}

			return gateway.PopulateSeed(ctx, seed)
		},
	}
}

func (c *graphCommander) newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the group graph for matching edges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, err := c.gateway(cmd)
			if err != nil {
				return err
			}

			results := gateway.SearchGraph(context.Background(), args[0], c.limit)
			for _, result := range results {
				fmt.Fprintln(cmd.OutOrStdout(), result)
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&c.limit, "limit", "n", 5, "Maximum number of edges to return")

	return cmd
}

func (c *graphCommander) gateway(cmd *cobra.Command) (*memory.Gateway, error) {
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

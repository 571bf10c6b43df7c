// Package recallcmder
package recallcmder

import (
	"github.com/spf13/cobra"

	graphcmder "github.com/pulsepolitics/recall/cmd/recall/graph"
	memorycmder "github.com/pulsepolitics/recall/cmd/recall/memory"
	servecmder "github.com/pulsepolitics/recall/cmd/recall/serve"
	versioncmder "github.com/pulsepolitics/recall/cmd/recall/version"
)

const recallLongDesc string = `Recall is a shared memory service for political monitoring agents.

Run services using:
  recall serve         Run the HTTP API server
  recall memory        Search, inspect, or clear the public-memory session
  recall graph         Ingest, seed, or search the shared knowledge graph`

const recallShortDesc string = "Recall - Shared Agent Memory"

func NewRecallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recall",
		Short: recallShortDesc,
		Long:  recallLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(memorycmder.NewMemoryCmd())
	cmd.AddCommand(graphcmder.NewGraphCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}

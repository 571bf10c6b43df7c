// Package versioncmder provides the recall version cobra command.
package versioncmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulsepolitics/recall/pkg/utils"
)

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the recall version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "recall %s (%s) built %s\n",
				utils.Version, utils.Sha, utils.Buildtime)
		},
	}
}

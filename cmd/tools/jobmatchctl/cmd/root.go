// Package cmd holds the jobmatchctl subcommands.
package cmd

import (
	"github.com/spf13/cobra"
)

const app = "jobmatchctl"

// Actual version can be specified in build command.
var version = "unknown"

// NewRootCmd assembles the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          app,
		Short:        "jobmatchctl inspects match scoring and manages the recruiting schema",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "config file (default is configs/config.yaml)")

	root.AddCommand(newScoreCmd(), newGroupsCmd(), newMigrateCmd(), newRegistryCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s version: %s\n", app, version)
		},
	}
}

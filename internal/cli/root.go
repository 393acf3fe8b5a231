// Package cli wires configuration, storage and presentation into the
// bufo-clicker command.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	debug      bool
}

// NewRootCmd builds the command tree. Running it without a subcommand plays.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	play := newPlayCmd(opts)
	root := &cobra.Command{
		Use:   "bufo-clicker",
		Short: "An incremental game about collecting bufos",
		Long: `Bufo Clicker is a terminal incremental game. Click to catch bufos,
buy buildings that catch them for you, and chase golden bufos for boosts.

Settings are read from ~/.bufo-clicker/config.toml when it exists.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          play.RunE,
	}
	root.Flags().AddFlagSet(play.Flags())

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to TOML config file")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Write debug logs")

	root.AddCommand(play, newStatsCmd(opts), newResetCmd(opts))
	return root
}

// Execute runs the command line.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

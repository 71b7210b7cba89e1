package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/archsketch/archsketch/pkg/buildinfo"
)

// Execute runs the archsketch CLI with a background context.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the archsketch CLI and returns an error if any
// command fails. Logging defaults to info level on stderr; --verbose (-v)
// raises it to debug. The logger is attached to the command context and
// retrieved by commands via loggerFromContext.
func ExecuteContext(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "archsketch",
		Short:        "Archsketch turns architecture snapshots into diagrams",
		Long:         `Archsketch synthesizes architecture snapshots (services, data stores, interactions) into ready-to-open Excalidraw diagrams, with deterministic layered layout and evolution tracking across rounds.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/archsketch/config.toml)")

	root.AddCommand(newSynthCmd(&configPath))
	root.AddCommand(newRoundsCmd(&configPath))
	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newCacheCmd(&configPath))
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/knbl-ai/content-planner-agent/internal/config"
	"github.com/knbl-ai/content-planner-agent/internal/observability"
)

// App carries what the commands need beyond their own flags.
type App struct {
	Config *config.Config

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "content-planner" command and registers
// all subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "content-planner",
		Short:         "Conversational assistant for drafting social media content guidelines",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cmd.Flags().Changed("log-level") {
				app.Config.LogLevel = logLevel
			}
			observability.SetLevel(app.Config.LogLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", app.Config.LogLevel, "Log level (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(app),
		newChatCmd(app),
	)

	return root
}

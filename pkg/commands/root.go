package commands

import (
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// NewRootCommand builds the surf command tree. The shared App is set up
// before any subcommand runs and torn down afterwards.
func NewRootCommand(app *App) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "surf",
		Short: "Drive a browser from the command line",
		Long: `surf opens pages, clicks, fills forms, and extracts content using a real
browser engine. Flaky operations are retried with per-class backoff policies
and a circuit breaker; settings live in ~/.surf/config.yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.Setup(configPath)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to config file (default ~/.surf/config.yaml)")
	flags.BoolVar(&app.headed, "headed", false, "Run the browser with a visible window")
	flags.StringVar(&app.engine, "engine", "", "Browser engine: chromium, firefox, or webkit")

	cmd.AddCommand(
		newOpenCommand(app),
		newTextCommand(app),
		newClickCommand(app),
		newFillCommand(app),
		newWaitCommand(app),
		newScreenshotCommand(app),
		newEvalCommand(app),
		newSearchCommand(app),
		newRunCommand(app),
		newVersionCommand(app),
	)

	return cmd
}

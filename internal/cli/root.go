// Package cli wires the cobra command tree: the interactive TUI by default,
// plus the backend server, Google Calendar auth, and settings management.
package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"skillplan/internal/api"
	"skillplan/internal/tui"
)

type App struct {
	ServerURL string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "skillplan",
		Short:        "Turn a learning goal into a task plan on your calendar",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  skillplan

  # Run the backend the TUI talks to
  skillplan serve

  # Authorize Google Calendar access (one-time)
  skillplan auth

  # Inspect or change scheduling settings
  skillplan settings show
  skillplan settings set --max-hours 3 --days MO,WE,FR
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return tui.Run(api.NewClient(app.ServerURL))
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server",
		envOr("SKILLPLAN_SERVER", "http://localhost:5000"),
		"Base URL of the skillplan backend")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newAuthCmd())
	cmd.AddCommand(newSettingsCmd())

	return cmd
}

func envOr(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

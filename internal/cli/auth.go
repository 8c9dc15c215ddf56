package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"skillplan/internal/gcal"
	"skillplan/internal/store"
)

func newAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize Google Calendar access",
		Long: strings.TrimSpace(`
Run the OAuth flow for Google Calendar and cache the resulting token.

Expects credentials.json (an OAuth client of type "Desktop app" from the
Google Cloud console) in the config directory. The token is stored next to it
and refreshed automatically until revoked.
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if gcal.HasToken() {
				fmt.Fprintln(cmd.OutOrStdout(), "Already authorized; re-running the flow to refresh.")
			}
			if err := gcal.Authenticate(cmd.Context()); err != nil {
				return fmt.Errorf("authorization failed: %w", err)
			}
			dir, err := store.ConfigDir()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Authorized. Token saved under %s\n", dir)
			return nil
		},
	}
}

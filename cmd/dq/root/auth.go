package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"dayquest/internal/calendar"
	"dayquest/internal/ui"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google Calendar",
		Long:  "Runs the OAuth consent flow and caches the token. Place your downloaded credentials.json in the config directory first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := calendar.ConfigDir()
			if err != nil {
				return err
			}
			if err := calendar.Authenticate(cmd.Context()); err != nil {
				return fmt.Errorf("authentication failed (credentials expected in %s): %w", dir, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" Authenticated. Token cached in "+dir))
			return nil
		},
	}
	return cmd
}

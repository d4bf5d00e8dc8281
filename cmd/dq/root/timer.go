package root

import (
	"errors"

	"github.com/spf13/cobra"

	"dayquest/internal/tui"
)

func newTimerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer <event-id>",
		Short: "Open a live timer for a task",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("event id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.RunTimer(ctx, svc, args[0], args[0])
		},
	}
	return cmd
}

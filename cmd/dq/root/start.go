package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dayquest/internal/ui"
)

func newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start <event-id>",
		Short: "Start tracking time on a task",
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

			sess, err := svc.StartSession(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Tracking %s since %s\n",
				ui.IconTimer, ui.Good.Render(sess.EventID), sess.StartTime.Format("15:04:05"))
			return nil
		},
	}
	return cmd
}

func newPauseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pause <event-id>",
		Short: "Pause the running timer on a task",
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

			paused, err := svc.PauseSession(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !paused {
				fmt.Fprintln(out, ui.Muted.Render("No running timer for that task."))
				return nil
			}
			seconds, _, err := svc.CurrentDuration(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s Paused at %s\n", ui.IconTimer, ui.Gold.Render(ui.Duration(seconds)))
			return nil
		},
	}
	return cmd
}

package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dayquest/internal/ui"
)

func newUndoneCmd() *cobra.Command {
	var dayFlag string

	cmd := &cobra.Command{
		Use:   "undone <event-id>",
		Short: "Undo a task completion (-XP)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("event id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			day, err := parseDayFlag(dayFlag)
			if err != nil {
				return fmt.Errorf("invalid --day: %w", err)
			}

			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.MarkTaskUndone(ctx, args[0], day)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !res.WasDone {
				fmt.Fprintln(out, ui.Muted.Render("Nothing to undo for "+res.Day.Format("2006-01-02")+"."))
				return nil
			}
			fmt.Fprintf(out, "%s %s undone (-%d XP)\n", ui.IconUndone, res.EventID, res.XPDeducted)
			for _, w := range res.Warnings {
				fmt.Fprintln(out, ui.Warn.Render(ui.IconWarn+" "+w))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dayFlag, "day", "", "calendar day (YYYY-MM-DD, default today)")
	return cmd
}

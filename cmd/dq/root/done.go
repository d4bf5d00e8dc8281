package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dayquest/internal/engine"
	"dayquest/internal/ui"
)

func newDoneCmd() *cobra.Command {
	var (
		message string
		dayFlag string
	)

	cmd := &cobra.Command{
		Use:   "done <event-id>",
		Short: "Mark a task done (+XP)",
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

			res, err := svc.MarkTaskDone(ctx, args[0], message, day)
			if err != nil {
				var verr engine.ValidationError
				if errors.As(err, &verr) {
					return fmt.Errorf("%s (use -m to describe what you accomplished)", verr.Error())
				}
				return err
			}

			out := cmd.OutOrStdout()
			if res.AlreadyDone {
				fmt.Fprintln(out, ui.Muted.Render("Already done for "+res.Day.Format("2006-01-02")+"; description updated."))
				return nil
			}
			fmt.Fprintf(out, "%s %s done (+%d XP)\n", ui.IconDone, ui.Good.Render(res.EventID), res.XPAwarded)
			for _, w := range res.Warnings {
				fmt.Fprintln(out, ui.Warn.Render(ui.IconWarn+" "+w))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "what you accomplished (required)")
	cmd.Flags().StringVar(&dayFlag, "day", "", "calendar day (YYYY-MM-DD, default today)")
	return cmd
}

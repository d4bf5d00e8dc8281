package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dayquest/internal/ui"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <event-id>",
		Short: "Show the days a task was completed and its streak",
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

			days, streak, err := svc.CompletionHistory(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(days) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("Never completed."))
				return nil
			}

			fmt.Fprintln(out, ui.Heading(ui.IconDone, fmt.Sprintf("%d completion(s)", len(days))))
			if streak > 0 {
				fmt.Fprintln(out, ui.LabelValue("Streak", ui.Gold.Render(fmt.Sprintf("%d day(s)", streak))))
			}
			if limit > 0 && len(days) > limit {
				days = days[:limit]
			}
			for _, day := range days {
				fmt.Fprintln(out, "  "+day)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 30, "most recent days to list (0 = all)")
	return cmd
}

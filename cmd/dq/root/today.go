package root

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dayquest/internal/engine"
	"dayquest/internal/ui"
)

func newTodayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "today",
		Short: "List today's calendar tasks with completion and time tracked",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, client, cleanup, err := openServiceWithCalendar(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if !client.Ready() {
				return fmt.Errorf("calendar not authenticated; run: dq auth")
			}

			out := cmd.OutOrStdout()

			// Catch-up runs opportunistically when an interactive view opens.
			if should, err := svc.ShouldRunDailyReconciliation(ctx); err == nil && should {
				res := svc.RunDailyReconciliation(ctx)
				if res.Success && (res.DeductedCount > 0 || res.RunningFinalized > 0) {
					fmt.Fprintln(out, ui.Warn.Render(ui.IconMoon+" "+res.Message))
				}
			}

			now := time.Now()
			events, err := client.ListDay(ctx, now)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No events today."))
				return nil
			}

			ids := make([]string, 0, len(events))
			for _, ev := range events {
				ids = append(ids, ev.ID)
			}
			statuses, err := svc.BatchCompletionStatus(ctx, ids, now)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, ui.Heading(ui.IconCalendar, now.Format("Monday, Jan 2")))
			seen := map[string]bool{}
			for _, ev := range events {
				baseID := engine.NormalizeEventID(ev.ID)
				if seen[baseID] {
					continue
				}
				seen[baseID] = true

				mark := ui.Muted.Render("[ ]")
				if st := statuses[baseID]; st.Done {
					mark = ui.Good.Render("[x]")
				}
				line := fmt.Sprintf("%s %s", mark, ev.Title)
				if !ev.AllDay {
					line += ui.Muted.Render("  " + ev.Start.Format("15:04"))
				}
				if ev.Recurrence != "" {
					line += ui.Muted.Render("  " + ui.IconLoop + " " + ev.Recurrence)
				}
				if spent, err := svc.TimeSpentOnDay(ctx, baseID, now); err == nil && spent > 0 {
					line += ui.Gold.Render("  " + ui.IconTimer + " " + ui.Duration(spent))
				}
				fmt.Fprintln(out, line)
				fmt.Fprintln(out, ui.Muted.Render("    id: "+baseID))
			}
			return nil
		},
	}
	return cmd
}

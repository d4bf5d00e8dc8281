package root

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dayquest/internal/engine"
	"dayquest/internal/storage"
	"dayquest/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show XP total, level, and progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			info, err := svc.XPInfo(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Status"))
			if info.Level == 0 {
				fmt.Fprintln(out, ui.LabelValue("Level", ui.Bad.Render("0 (in debt)")))
				fmt.Fprintln(out, ui.LabelValue("Total XP", info.TotalXP))
				fmt.Fprintf(out, "%s %d XP to climb back to zero\n", ui.IconBolt, info.XPToNext)
			} else {
				fmt.Fprintln(out, ui.LabelValue("Level", info.Level))
				fmt.Fprintln(out, ui.LabelValue("Total XP", info.TotalXP))
				fmt.Fprintf(out, "%s %s %d/%d (%d to next)\n",
					ui.IconBolt, ui.XPBar(info.XPInLevel, engine.XPPerLevel, 20), info.XPInLevel, engine.XPPerLevel, info.XPToNext)
			}

			// Last two weeks of completion activity, oldest day first.
			const stripDays = 14
			today := time.Now()
			from := today.AddDate(0, 0, -(stripDays - 1))
			counts, err := svc.CompletionRepo().DoneCountsBetween(ctx,
				from.Format(storage.DayFormat), today.Format(storage.DayFormat))
			if err != nil {
				return err
			}
			perDay := make([]int, stripDays)
			for i := range perDay {
				perDay[i] = counts[from.AddDate(0, 0, i).Format(storage.DayFormat)]
			}
			fmt.Fprintf(out, "%s %s %s\n",
				ui.Muted.Render(from.Format("Jan 2")), ui.ActivityStrip(perDay), ui.Muted.Render("today"))

			txns, err := svc.XPRepo().Transactions(ctx, 5)
			if err != nil {
				return err
			}
			if len(txns) > 0 {
				fmt.Fprintln(out, "")
				fmt.Fprintln(out, ui.H2.Render("Recent"))
				for _, t := range txns {
					sign := "+"
					if t.Points < 0 {
						sign = ""
					}
					fmt.Fprintf(out, "  %s%d  %s %s\n", sign, t.Points, t.Description, ui.Muted.Render(t.CreatedAt.Format("Jan 2 15:04")))
				}
			}
			return nil
		},
	}
	return cmd
}

package root

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"dayquest/internal/config"
	"dayquest/internal/notify"
	"dayquest/internal/ui"
)

func newReconcileCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Run the daily catch-up (penalize pending tasks, finalize stale timers)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, _, cleanup, err := openServiceWithCalendar(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()

			should, err := svc.ShouldRunDailyReconciliation(ctx)
			if err != nil {
				return err
			}
			if check {
				if should {
					fmt.Fprintln(out, "Reconciliation has not run today.")
				} else {
					fmt.Fprintln(out, "Reconciliation already ran today.")
				}
				return nil
			}

			res := svc.RunDailyReconciliation(ctx)
			if !res.Success {
				return fmt.Errorf("reconciliation failed: %s", res.Message)
			}

			fmt.Fprintln(out, ui.Heading(ui.IconMoon, "Reconciliation"))
			fmt.Fprintln(out, res.Message)
			if res.DaysProcessed > 0 {
				fmt.Fprintln(out, ui.LabelValue("Days processed", res.DaysProcessed))
			}
			for _, w := range res.Warnings {
				fmt.Fprintln(out, ui.Warn.Render(ui.IconWarn+" "+w))
			}

			cfg := config.Load()
			hook := notify.NewDiscord(cfg.DiscordWebhookURL)
			if hook.Configured() && res.DaysProcessed > 0 {
				if err := hook.Post(ctx, ui.IconMoon+" "+res.Message); err != nil {
					slog.Warn("discord notification failed", "error", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "only report whether reconciliation would run")
	return cmd
}

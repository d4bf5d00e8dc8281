package root

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dayquest/internal/ui"
)

func newAddCmd() *cobra.Command {
	var (
		description string
		whenFlag    string
		durFlag     time.Duration
		daily       bool
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a calendar event",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("title is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			start, err := parseWhenFlag(whenFlag)
			if err != nil {
				return fmt.Errorf("invalid --at: %w", err)
			}
			if durFlag <= 0 {
				return errors.New("--for must be a positive duration")
			}

			client, err := openCalendar(ctx)
			if err != nil {
				return err
			}

			ev, err := client.Create(ctx, args[0], description, start, start.Add(durFlag), daily)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s at %s\n", ui.IconCalendar, ui.Good.Render(ev.Title), ev.Start.Format("Mon Jan 2 15:04"))
			if ev.Recurrence != "" {
				fmt.Fprintln(out, ui.Muted.Render("  "+ui.IconLoop+" "+ev.Recurrence))
			}
			fmt.Fprintln(out, ui.Muted.Render("  id: "+ev.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "message", "m", "", "event description")
	cmd.Flags().StringVar(&whenFlag, "at", "", `start ("YYYY-MM-DD HH:MM", default today 09:00)`)
	cmd.Flags().DurationVar(&durFlag, "for", time.Hour, "event length")
	cmd.Flags().BoolVar(&daily, "daily", false, "repeat every day")
	return cmd
}

// parseWhenFlag resolves an optional event start; empty means today at 09:00.
func parseWhenFlag(raw string) (time.Time, error) {
	if raw == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, time.Local), nil
	}
	return time.ParseInLocation("2006-01-02 15:04", raw, time.Local)
}

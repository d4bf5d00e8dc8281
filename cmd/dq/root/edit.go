package root

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dayquest/internal/ui"
)

func newEditCmd() *cobra.Command {
	var (
		title       string
		description string
		whenFlag    string
		durFlag     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "edit <event-id>",
		Short: "Change an event's title, description, or time",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("event id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// Zero times leave the schedule untouched.
			var start, end time.Time
			if whenFlag != "" {
				var err error
				start, err = time.ParseInLocation("2006-01-02 15:04", whenFlag, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
				if durFlag <= 0 {
					return errors.New("--for must be a positive duration")
				}
				end = start.Add(durFlag)
			}
			if title == "" && description == "" && whenFlag == "" {
				return errors.New("nothing to change (use --title, -m, or --at)")
			}

			client, err := openCalendar(ctx)
			if err != nil {
				return err
			}

			ev, err := client.Update(ctx, args[0], title, description, start, end)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Updated %s", ui.IconCalendar, ui.Good.Render(ev.Title))
			if !ev.Start.IsZero() {
				fmt.Fprintf(out, " %s", ui.Muted.Render(ev.Start.Format("Mon Jan 2 15:04")))
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVarP(&description, "message", "m", "", "new description")
	cmd.Flags().StringVar(&whenFlag, "at", "", `new start ("YYYY-MM-DD HH:MM")`)
	cmd.Flags().DurationVar(&durFlag, "for", time.Hour, "new event length (with --at)")
	return cmd
}

func newRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <event-id>",
		Short: "Delete an event (a single occurrence for recurring events)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("event id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := openCalendar(ctx)
			if err != nil {
				return err
			}
			if err := client.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Deleted "+args[0]+"."))
			return nil
		},
	}
	return cmd
}

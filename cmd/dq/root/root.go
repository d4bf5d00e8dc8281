package root

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"dayquest/internal/logging"
	"dayquest/internal/ui"
)

const Version = "0.1.0"

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "dq",
	Short:         "Dayquest — calendar tasks with an XP economy",
	Long:          "Dayquest overlays XP, time tracking, and a nightly pending-task penalty on top of your Google Calendar.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger := logging.New(verbose)
		slog.SetDefault(logger)
		cmd.SetContext(logging.ContextWithLogger(cmd.Context(), logger))
	},
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		newDoneCmd(),
		newUndoneCmd(),
		newStartCmd(),
		newPauseCmd(),
		newStatusCmd(),
		newTodayCmd(),
		newHistoryCmd(),
		newAddCmd(),
		newEditCmd(),
		newRmCmd(),
		newReconcileCmd(),
		newAuthCmd(),
		newTimerCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}

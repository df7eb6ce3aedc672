package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/codewatch/internal/analysis"
	"github.com/blackwell-systems/codewatch/internal/output"
	"github.com/blackwell-systems/codewatch/internal/watcher"
)

// minWatchInterval keeps the poll loop from spinning on the filesystem.
const minWatchInterval = 200 * time.Millisecond

var (
	watchFlagInterval time.Duration
	watchFlagNotify   bool
	watchFlagQuiet    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch file|dir...",
	Short: "Re-analyze files as they change and alert on quality shifts",
	Long: `Watch polls the given files and re-runs the analysis whenever one
changes. Alerts are printed when a file drops below the acceptable score
band, loses 10 or more points, gains major issues, disappears, or recovers.

Examples:
  codewatch watch src/app.js src/util.js
  codewatch watch --interval 5s --notify src/*.js`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchFlagInterval, "interval", 2*time.Second, "Check interval")
	watchCmd.Flags().BoolVar(&watchFlagNotify, "notify", false, "Send desktop notifications for alerts")
	watchCmd.Flags().BoolVar(&watchFlagQuiet, "quiet", false, "Suppress terminal output")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if watchFlagInterval < minWatchInterval {
		return fmt.Errorf("interval must be at least %s, got %s", minWatchInterval, watchFlagInterval)
	}

	opts := analysis.Options{Complexity: &cfg.Analysis.Complexity, Style: &cfg.Analysis.Style}
	w := cmd.OutOrStdout()

	alertFn := func(a watcher.Alert) {
		if watchFlagNotify {
			_ = watcher.Notify(a)
		}
		if !watchFlagQuiet {
			printAlert(w, a)
		}
	}

	paths, err := expandPaths(args)
	if err != nil {
		return err
	}

	wt := watcher.New(paths, watchFlagInterval, opts, alertFn)
	baseline := wt.Baseline()
	if !watchFlagQuiet {
		fmt.Fprintf(w, "codewatch watching %d file(s), checking every %s\n", len(paths), watchFlagInterval)
		fmt.Fprintf(w, "[%s] %s %s\n", baseline.Timestamp.Format(time.TimeOnly), output.StyleSuccess.Render("✓"), baseline.Summary())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = wt.Run(ctx)
	if errors.Is(err, context.Canceled) {
		if !watchFlagQuiet {
			fmt.Fprintln(w, "\nStopped.")
		}
		return nil
	}
	return err
}

// printAlert formats an alert for the terminal.
func printAlert(w io.Writer, a watcher.Alert) {
	fmt.Fprintf(w, "[%s] %s %s\n", a.Time.Format(time.TimeOnly), alertIcon(a.Level), a.Title)
	if a.Message != "" {
		fmt.Fprintf(w, "           %s\n", a.Message)
	}
}

// alertIcon returns the terminal indicator for an alert level.
func alertIcon(level string) string {
	switch level {
	case "critical":
		return output.StyleError.Render("✗")
	case "warning":
		return output.StyleWarning.Render("!")
	case "info":
		return output.StyleSuccess.Render("✓")
	default:
		return " "
	}
}

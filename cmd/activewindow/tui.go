package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/activewindow/internal/tui"
	"github.com/1broseidon/activewindow/internal/watch"
)

var tuiCmd = &cobra.Command{
	Use:     "tui",
	Aliases: []string{"dashboard"},
	Short:   "Show the focused window live in a full-screen dashboard",
	Long: `Open a full-screen view of the focused window that updates as focus moves,
with a scrollable history of recent changes.

Keys: q quit, p pause, c clear history.

Console logging is suspended while the dashboard runs; set log_file in the
config to keep logs.`,
	Args: noArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().Duration("interval", 0, "Polling interval (default from config, 500ms)")
}

func runTUI(cmd *cobra.Command, _ []string) error {
	interval, _ := cmd.Flags().GetDuration("interval")
	if interval <= 0 {
		interval = current.cfg.Watch.Interval
	}

	current.logger.Logger = current.logger.FileOnly()

	q, err := newQuerier()
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger := current.logger.Logger
	return tui.RunDashboard(ctx, q.ActiveWindow, watch.Config{Interval: interval, Logger: &logger})
}

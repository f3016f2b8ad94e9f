package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/activewindow/internal/mcp"
	"github.com/1broseidon/activewindow/internal/output"
	"github.com/1broseidon/activewindow/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the focused window every time it changes",
	Long: `Poll the focused window and print a record whenever it changes: a different
window, a new title, a move or resize, or focus being lost. Runs until
interrupted.`,
	Args: noArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Duration("interval", 0, "Polling interval (default from config, 500ms)")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	interval, _ := cmd.Flags().GetDuration("interval")
	if interval <= 0 {
		interval = current.cfg.Watch.Interval
	}

	q, err := newQuerier()
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger := current.logger.Logger
	w := watch.New(watch.Config{Interval: interval, Logger: &logger}, q.ActiveWindow)
	out := cmd.OutOrStdout()
	return w.Run(ctx, func(ev watch.Event) error {
		logger.Debug().Bool("found", ev.Found).Time("at", ev.At).Msg("focus changed")
		if current.format == output.FormatYAML {
			if _, err := out.Write([]byte("---\n")); err != nil {
				return err
			}
		}
		if err := output.Write(out, current.format, current.pretty, mcp.NewWindowState(ev.Window, ev.Err)); err != nil {
			return err
		}
		if current.format == output.FormatText {
			_, err := out.Write([]byte("\n"))
			return err
		}
		return nil
	})
}

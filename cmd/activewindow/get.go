package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/1broseidon/activewindow"
	"github.com/1broseidon/activewindow/internal/mcp"
	"github.com/1broseidon/activewindow/internal/output"
	"github.com/1broseidon/activewindow/internal/runtimepath"
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the currently focused window",
	Long: `Query the focused window once and print it.

Exit status is 0 when a window was reported and 1 when nothing is focused or
the query failed. With --if-changed the result is compared with the one saved
by the previous --if-changed run; if nothing changed, nothing is printed and
the exit status is 3. A failed query other than "nothing focused" is always
reported with exit status 1.`,
	Args: noArgs,
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().Bool("if-changed", false, "Exit 3 without output when focus is unchanged since the last --if-changed run")
}

func runGet(cmd *cobra.Command, _ []string) error {
	ifChanged, _ := cmd.Flags().GetBool("if-changed")

	q, err := newQuerier()
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	info, qerr := q.ActiveWindow()
	state := mcp.NewWindowState(info, qerr)

	if ifChanged {
		path, err := runtimepath.SnapshotPath()
		if err != nil {
			return &exitError{code: exitFailure, err: err}
		}
		if skipUnchanged(path, state, qerr) {
			return &exitError{code: exitUnchanged}
		}
	}

	if qerr != nil {
		if activewindow.IsAbsent(qerr) {
			return &exitError{code: exitFailure, err: errors.New("no focused window")}
		}
		return &exitError{code: exitFailure, err: qerr}
	}
	return output.Write(cmd.OutOrStdout(), current.format, current.pretty, printable(state))
}

// printable picks what get prints: the bare window for structured formats
// and the rendered state for text.
func printable(state mcp.WindowState) any {
	if current.format == output.FormatText || state.Window == nil {
		return state
	}
	return *state.Window
}

// skipUnchanged records state for --if-changed and reports whether the run
// may end quietly with exitUnchanged. Failures other than "nothing focused"
// are always reported, even when the previous run saw the same failure.
func skipUnchanged(path string, state mcp.WindowState, qerr error) bool {
	changed, err := updateSnapshot(path, state)
	if err != nil {
		current.logger.Warn().Err(err).Str("path", path).Msg("failed to update snapshot")
		return false
	}
	if qerr != nil && !activewindow.IsAbsent(qerr) {
		return false
	}
	return !changed
}

// snapshot is the persisted focus state used by --if-changed. Reason keeps a
// broken display distinct from an empty desktop.
type snapshot struct {
	Found  bool                     `json:"found"`
	Reason string                   `json:"reason,omitempty"`
	Window *activewindow.WindowInfo `json:"window,omitempty"`
}

func (s snapshot) equal(o snapshot) bool {
	if s.Found != o.Found || s.Reason != o.Reason {
		return false
	}
	if s.Window == nil || o.Window == nil {
		return s.Window == o.Window
	}
	return *s.Window == *o.Window
}

// updateSnapshot stores state at path and reports whether it differs from
// what was stored before. A missing or unreadable snapshot counts as changed.
func updateSnapshot(path string, state mcp.WindowState) (bool, error) {
	next := snapshot{Found: state.Found, Reason: state.Reason, Window: state.Window}

	changed := true
	if data, err := os.ReadFile(path); err == nil {
		var prev snapshot
		if json.Unmarshal(data, &prev) == nil && prev.equal(next) {
			changed = false
		}
	}
	if !changed {
		return false, nil
	}

	data, err := json.Marshal(next)
	if err != nil {
		return true, fmt.Errorf("encode snapshot: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".activewindow-last-*")
	if err != nil {
		return true, fmt.Errorf("create snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return true, fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return true, fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return true, fmt.Errorf("replace snapshot: %w", err)
	}
	return true, nil
}

package mcp

import (
	"fmt"

	"github.com/1broseidon/activewindow/internal/platform"
)

// ActiveWindowInput is the input for the active_window tool.
type ActiveWindowInput struct{}

// WindowState is the output shared by both tools.
type WindowState struct {
	Found  bool                 `json:"found" yaml:"found" jsonschema:"True when a focused window was reported"`
	Window *platform.WindowInfo `json:"window,omitempty" yaml:"window,omitempty" jsonschema:"The focused window, present when found is true"`
	Reason string               `json:"reason,omitempty" yaml:"reason,omitempty" jsonschema:"Why no window was reported: no_window, display_unavailable, unsupported_platform or query_failed"`
	Detail string               `json:"detail,omitempty" yaml:"detail,omitempty" jsonschema:"Underlying error message when found is false"`
}

// WaitForFocusChangeInput is the input for the wait_for_focus_change tool.
type WaitForFocusChangeInput struct {
	Timeout int `json:"timeout,omitempty" jsonschema:"Seconds to wait for focus to change (default: 30, max: 300)"`
}

// WaitForFocusChangeOutput is the output for the wait_for_focus_change tool.
type WaitForFocusChangeOutput struct {
	Changed bool        `json:"changed" jsonschema:"False when the timeout expired without a change"`
	State   WindowState `json:"state" jsonschema:"Focus state at the time the tool returned"`
}

// Text renders the state for the plain-text output format.
func (s WindowState) Text() string {
	if !s.Found || s.Window == nil {
		if s.Detail != "" {
			return fmt.Sprintf("no window (%s: %s)", s.Reason, s.Detail)
		}
		return "no window"
	}
	w := s.Window
	owner := fmt.Sprintf("%s (pid %d)", w.Owner.Name, w.Owner.ID)
	if w.Owner.Path != "" {
		owner += " " + w.Owner.Path
	}
	return fmt.Sprintf("title:  %s\nid:     %#x\nbounds: %dx%d%+d%+d\nowner:  %s",
		w.Title, uint64(w.ID), w.Bounds.Width, w.Bounds.Height, w.Bounds.X, w.Bounds.Y, owner)
}

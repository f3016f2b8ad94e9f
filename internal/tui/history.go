package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/1broseidon/activewindow/internal/platform"
	"github.com/1broseidon/activewindow/internal/watch"
)

// historyItem implements list.Item for one focus change.
type historyItem struct {
	ev watch.Event
}

func (i historyItem) Title() string {
	if !i.ev.Found {
		if platform.IsAbsent(i.ev.Err) || i.ev.Err == nil {
			return "(no window)"
		}
		return "(" + strings.ToLower(absentHeadline(i.ev.Err)) + ")"
	}
	return i.ev.Window.Title
}

func (i historyItem) Description() string {
	at := i.ev.At.Format("15:04:05")
	if !i.ev.Found {
		return at + "  " + absentReason(i.ev.Err)
	}
	w := i.ev.Window
	return fmt.Sprintf("%s  %s (pid %d)  %s", at, w.Owner.Name, w.Owner.ID, formatBounds(w.Bounds))
}

func (i historyItem) FilterValue() string { return i.Title() }

func formatBounds(b platform.BoundsInfo) string {
	return fmt.Sprintf("%dx%d%+d%+d", b.Width, b.Height, b.X, b.Y)
}

func absentReason(err error) string {
	switch {
	case err == nil, errors.Is(err, platform.ErrNoWindow):
		return "nothing focused"
	default:
		return err.Error()
	}
}

// absentHeadline names the kind of failure so a dead display never reads as
// an empty desktop.
func absentHeadline(err error) string {
	switch platform.ReasonOf(err) {
	case platform.ReasonNone, platform.ReasonNoWindow:
		return "No window focused"
	case platform.ReasonDisplayUnavailable:
		return "Display unavailable"
	case platform.ReasonUnsupportedPlatform:
		return "Unsupported platform"
	default:
		return "Query failed"
	}
}

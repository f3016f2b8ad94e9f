// Package activewindow reports metadata about the currently focused window:
// its title, platform handle, screen bounds and owning process.
//
// Every call performs a fresh, independent round of queries against the
// windowing system. Nothing is cached between calls, so callers that want to
// react to focus changes poll and compare results with ==.
package activewindow

import (
	"github.com/1broseidon/activewindow/internal/platform"
)

type (
	WindowInfo  = platform.WindowInfo
	BoundsInfo  = platform.BoundsInfo
	OwnerInfo   = platform.OwnerInfo
	WindowID    = platform.WindowID
	ProcessID   = platform.ProcessID
	Options     = platform.Options
	FocusSource = platform.FocusSource
	QueryError  = platform.QueryError
)

const (
	FocusInput = platform.FocusInput
	FocusEWMH  = platform.FocusEWMH
)

var (
	ErrNoWindow            = platform.ErrNoWindow
	ErrDisplayUnavailable  = platform.ErrDisplayUnavailable
	ErrUnsupportedPlatform = platform.ErrUnsupportedPlatform
	ErrQueryFailed         = platform.ErrQueryFailed
	ErrInvariant           = platform.ErrInvariant
	ErrAccessDenied        = platform.ErrAccessDenied
)

// IsAbsent reports whether err only means that nothing holds focus.
func IsAbsent(err error) bool {
	return platform.IsAbsent(err)
}

// Querier runs active window queries with fixed options.
// It is safe for concurrent use; each call opens and releases its own
// platform resources.
type Querier struct {
	backend platform.Backend
}

// New returns a Querier for the current platform.
func New(opts Options) (*Querier, error) {
	b, err := platform.New(opts)
	if err != nil {
		return nil, err
	}
	return newQuerier(b), nil
}

func newQuerier(b platform.Backend) *Querier {
	return &Querier{backend: b}
}

// ActiveWindow queries the focused window.
func (q *Querier) ActiveWindow() (WindowInfo, error) {
	return q.backend.ActiveWindow()
}

// Lookup is ActiveWindow with every failure folded into false.
func (q *Querier) Lookup() (WindowInfo, bool) {
	info, err := q.ActiveWindow()
	if err != nil {
		return WindowInfo{}, false
	}
	return info, true
}

// ActiveWindow queries the focused window with default options.
func ActiveWindow() (WindowInfo, error) {
	q, err := New(Options{})
	if err != nil {
		return WindowInfo{}, err
	}
	return q.ActiveWindow()
}

// Lookup returns the focused window, or false when none could be reported
// for any reason.
func Lookup() (WindowInfo, bool) {
	info, err := ActiveWindow()
	if err != nil {
		return WindowInfo{}, false
	}
	return info, true
}

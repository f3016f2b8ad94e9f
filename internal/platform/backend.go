package platform

import (
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog"
)

// WindowID is an opaque platform window handle (X11 XID or Win32 HWND).
// It is a label, not a resource: nothing needs to be released for it.
type WindowID uint64

// ProcessID is an operating system process identifier.
type ProcessID uint32

// BoundsInfo describes a window rectangle in screen coordinates.
// X and Y may be negative on multi-monitor setups.
type BoundsInfo struct {
	X      int32 `json:"x" yaml:"x"`
	Y      int32 `json:"y" yaml:"y"`
	Width  int32 `json:"width" yaml:"width"`
	Height int32 `json:"height" yaml:"height"`
}

// OwnerInfo identifies the process that owns a window.
type OwnerInfo struct {
	Name   string    `json:"name" yaml:"name"`
	Path   string    `json:"path,omitempty" yaml:"path,omitempty"`
	ID     ProcessID `json:"id" yaml:"id"`
	Bundle string    `json:"bundle,omitempty" yaml:"bundle,omitempty"`
}

// WindowInfo is a snapshot of the focused window. Values are comparable
// with ==, which callers use to detect changes between polls.
type WindowInfo struct {
	Title  string     `json:"title" yaml:"title"`
	ID     WindowID   `json:"id" yaml:"id"`
	Bounds BoundsInfo `json:"bounds" yaml:"bounds"`
	Owner  OwnerInfo  `json:"owner" yaml:"owner"`
	URL    string     `json:"url,omitempty" yaml:"url,omitempty"`
}

// Validate checks that a snapshot is fully populated and self-consistent.
func (w WindowInfo) Validate() error {
	switch {
	case w.Title == "":
		return fmt.Errorf("%w: empty title", ErrInvariant)
	case w.ID == 0:
		return fmt.Errorf("%w: zero window id", ErrInvariant)
	case w.Owner.Name == "":
		return fmt.Errorf("%w: empty owner name", ErrInvariant)
	case w.Owner.ID == 0:
		return fmt.Errorf("%w: zero owner pid", ErrInvariant)
	}
	if err := w.Bounds.Validate(); err != nil {
		return err
	}
	if w.Owner.Path != "" && !isFinalComponent(w.Owner.Path, w.Owner.Name) {
		return fmt.Errorf("%w: owner name %q does not match path %q", ErrInvariant, w.Owner.Name, w.Owner.Path)
	}
	return nil
}

// Validate rejects negative sizes.
func (b BoundsInfo) Validate() error {
	if b.Width < 0 || b.Height < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrInvariant, b.Width, b.Height)
	}
	return nil
}

// BaseName returns the final component of a Windows image path. Both '/'
// and '\' are separators so the result is the same on every GOOS.
func BaseName(p string) string {
	p = strings.TrimRight(p, `/\`)
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}

// UnixBaseName returns the final component of a POSIX path such as a
// /proc/<pid>/exe target. '\' is an ordinary file name byte there.
func UnixBaseName(p string) string {
	if p == "" {
		return ""
	}
	return path.Base(p)
}

// isFinalComponent reports whether name is the last component of p, with
// either separator before it.
func isFinalComponent(p, name string) bool {
	p = strings.TrimRight(p, `/\`)
	if p == name {
		return true
	}
	if !strings.HasSuffix(p, name) {
		return false
	}
	sep := p[len(p)-len(name)-1]
	return sep == '/' || sep == '\\'
}

// FocusSource selects how the X11 backend finds the focused window.
type FocusSource string

const (
	// FocusInput asks the server for the input focus window.
	FocusInput FocusSource = "input"
	// FocusEWMH reads _NET_ACTIVE_WINDOW from the root window.
	FocusEWMH FocusSource = "ewmh"
)

// DefaultHostProcesses lists executables that only host another
// application's UI.
var DefaultHostProcesses = []string{"ApplicationFrameHost.exe"}

// Options configures a backend. The zero value is usable.
type Options struct {
	// Display is the X11 display name; empty uses $DISPLAY.
	Display string
	// FocusSource defaults to FocusInput.
	FocusSource FocusSource
	// HostProcesses extends DefaultHostProcesses.
	HostProcesses []string
	// Logger receives debug output for failed sub-queries.
	Logger *zerolog.Logger
}

func (o Options) logger() zerolog.Logger {
	if o.Logger == nil {
		return zerolog.Nop()
	}
	return *o.Logger
}

func (o Options) hostProcesses() []string {
	hosts := make([]string, 0, len(DefaultHostProcesses)+len(o.HostProcesses))
	hosts = append(hosts, DefaultHostProcesses...)
	for _, h := range o.HostProcesses {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

// Backend answers the focused-window query for one windowing system.
type Backend interface {
	ActiveWindow() (WindowInfo, error)
}

// New returns the backend compiled for the current platform.
func New(opts Options) (Backend, error) {
	return newBackend(opts)
}

package platform

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/rs/zerolog"

	"github.com/1broseidon/activewindow/internal/x11"
)

// Display is the subset of an X11 connection the backend queries.
type Display interface {
	Root() xproto.Window
	InputFocus() (xproto.Window, error)
	ActiveWindow() (xproto.Window, error)
	Property(win xproto.Window, name string) (*x11.Property, error)
	Geometry(win xproto.Window) (x11.Rect, error)
	Close()
}

// ProcessTable maps a process id to its executable path.
type ProcessTable interface {
	ExecutablePath(pid uint32) (string, error)
}

// DialFunc opens a display connection for one query.
type DialFunc func() (Display, error)

// X11Backend answers the query over an X11 display. Each call opens and
// closes its own connection.
type X11Backend struct {
	dial   DialFunc
	procs  ProcessTable
	focus  FocusSource
	logger zerolog.Logger
}

var _ Backend = (*X11Backend)(nil)

// NewX11Backend creates a backend from a dialer and a process table.
func NewX11Backend(dial DialFunc, procs ProcessTable, opts Options) *X11Backend {
	focus := opts.FocusSource
	if focus == "" {
		focus = FocusInput
	}
	return &X11Backend{
		dial:   dial,
		procs:  procs,
		focus:  focus,
		logger: opts.logger().With().Str("backend", "x11").Logger(),
	}
}

// ActiveWindow returns the focused window or an error describing why none
// could be reported.
func (b *X11Backend) ActiveWindow() (WindowInfo, error) {
	conn, err := b.dial()
	if err != nil {
		b.logger.Debug().Err(err).Msg("failed to open display")
		return WindowInfo{}, fmt.Errorf("%w: %v", ErrDisplayUnavailable, err)
	}
	defer conn.Close()

	win, err := b.focusedWindow(conn)
	if err != nil {
		return WindowInfo{}, err
	}
	log := b.logger.With().Uint32("window", uint32(win)).Logger()

	title, err := windowTitle(conn, win)
	if err != nil {
		log.Debug().Err(err).Msg("title query failed")
		return WindowInfo{}, queryErr(OpTitle, err)
	}

	rect, err := conn.Geometry(win)
	if err != nil {
		log.Debug().Err(err).Msg("bounds query failed")
		return WindowInfo{}, queryErr(OpBounds, err)
	}

	owner, err := b.windowOwner(conn, win)
	if err != nil {
		log.Debug().Err(err).Msg("owner query failed")
		return WindowInfo{}, queryErr(OpOwner, err)
	}

	info := WindowInfo{
		Title: title,
		ID:    WindowID(win),
		Bounds: BoundsInfo{
			X:      int32(rect.X),
			Y:      int32(rect.Y),
			Width:  int32(rect.Width),
			Height: int32(rect.Height),
		},
		Owner: owner,
	}
	if err := info.Validate(); err != nil {
		log.Debug().Err(err).Msg("rejecting inconsistent result")
		return WindowInfo{}, queryErr(OpValidate, err)
	}
	return info, nil
}

func (b *X11Backend) focusedWindow(conn Display) (xproto.Window, error) {
	var (
		win xproto.Window
		err error
	)
	switch b.focus {
	case FocusEWMH:
		win, err = conn.ActiveWindow()
	case FocusInput:
		win, err = conn.InputFocus()
	default:
		return 0, queryErr(OpFocus, fmt.Errorf("unknown focus source %q", b.focus))
	}
	if err != nil {
		b.logger.Debug().Err(err).Str("source", string(b.focus)).Msg("focus query failed")
		return 0, queryErr(OpFocus, err)
	}

	switch win {
	case xproto.InputFocusNone, xproto.InputFocusPointerRoot, conn.Root():
		return 0, ErrNoWindow
	}
	return win, nil
}

// windowTitle prefers the UTF-8 EWMH name and falls back to the ICCCM one
// only when the EWMH name is missing or empty. Any other failure is final.
func windowTitle(conn Display, win xproto.Window) (string, error) {
	var errs []error
	for _, name := range []string{"_NET_WM_NAME", "WM_NAME"} {
		prop, err := conn.Property(win, name)
		if errors.Is(err, x11.ErrPropertyNotFound) {
			errs = append(errs, err)
			continue
		}
		if err != nil {
			return "", err
		}
		title, err := prop.DecodeText()
		if err != nil {
			return "", fmt.Errorf("%s: %w", name, err)
		}
		if title == "" {
			errs = append(errs, fmt.Errorf("%s is empty", name))
			continue
		}
		return title, nil
	}
	return "", errors.Join(errs...)
}

func (b *X11Backend) windowOwner(conn Display, win xproto.Window) (OwnerInfo, error) {
	prop, err := conn.Property(win, "_NET_WM_PID")
	if err != nil {
		return OwnerInfo{}, err
	}
	pid, err := prop.Cardinal()
	if err != nil {
		return OwnerInfo{}, err
	}
	if pid == 0 {
		return OwnerInfo{}, fmt.Errorf("_NET_WM_PID is zero")
	}

	path, err := b.procs.ExecutablePath(pid)
	if err != nil {
		return OwnerInfo{}, err
	}

	return OwnerInfo{
		Name: UnixBaseName(path),
		Path: path,
		ID:   ProcessID(pid),
	}, nil
}

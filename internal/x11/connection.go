package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xprop"
)

// ErrPropertyNotFound is returned when a window does not carry a property.
var ErrPropertyNotFound = errors.New("property not set")

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	root  xproto.Window
}

// Dial connects to the named display. An empty name uses $DISPLAY.
func Dial(display string) (*Connection, error) {
	var (
		xu  *xgbutil.XUtil
		err error
	)
	if display == "" {
		xu, err = xgbutil.NewConn()
	} else {
		xu, err = xgbutil.NewConnDisplay(display)
	}
	if err != nil {
		return nil, err
	}

	return &Connection{
		XUtil: xu,
		root:  xu.RootWin(),
	}, nil
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}

// Root returns the default screen's root window.
func (c *Connection) Root() xproto.Window {
	return c.root
}

// InputFocus returns the window that currently holds keyboard focus. The
// result may be xproto.InputFocusNone or xproto.InputFocusPointerRoot.
func (c *Connection) InputFocus() (xproto.Window, error) {
	reply, err := xproto.GetInputFocus(c.XUtil.Conn()).Reply()
	if err != nil {
		return 0, fmt.Errorf("get input focus: %w", err)
	}
	return reply.Focus, nil
}

// ActiveWindow reads _NET_ACTIVE_WINDOW as maintained by an EWMH window manager.
func (c *Connection) ActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// internFunc resolves an atom name, optionally without creating it.
type internFunc func(name string, onlyIfExists bool) (xproto.Atom, error)

// existingAtom resolves name without creating it on the server. An atom the
// server has never seen cannot be set on any window, so it reports
// ErrPropertyNotFound.
func existingAtom(intern internFunc, name string) (xproto.Atom, error) {
	atom, err := intern(name, true)
	if err != nil {
		return 0, fmt.Errorf("intern %s: %w", name, err)
	}
	if atom == xproto.AtomNone {
		return 0, fmt.Errorf("%s: atom unknown to server: %w", name, ErrPropertyNotFound)
	}
	return atom, nil
}

// Property fetches the full value of a named property on win.
func (c *Connection) Property(win xproto.Window, name string) (*Property, error) {
	atom, err := existingAtom(func(n string, only bool) (xproto.Atom, error) {
		return xprop.Atom(c.XUtil, n, only)
	}, name)
	if err != nil {
		return nil, err
	}

	reply, err := xproto.GetProperty(c.XUtil.Conn(), false, win, atom,
		xproto.GetPropertyTypeAny, 0, (1<<32)-1).Reply()
	if err != nil {
		return nil, fmt.Errorf("get %s on 0x%x: %w", name, win, err)
	}
	if reply == nil || reply.Format == 0 {
		return nil, fmt.Errorf("%s on 0x%x: %w", name, win, ErrPropertyNotFound)
	}

	return &Property{
		Name:   name,
		Type:   reply.Type,
		Format: reply.Format,
		Value:  reply.Value,
	}, nil
}

// Rect is a window rectangle relative to the root window.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Geometry returns the size of win and its origin translated to root
// coordinates.
func (c *Connection) Geometry(win xproto.Window) (Rect, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return Rect{}, fmt.Errorf("get geometry of 0x%x: %w", win, err)
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		win,
		c.root,
		0, 0,
	).Reply()
	if err != nil {
		return Rect{}, fmt.Errorf("translate coordinates of 0x%x: %w", win, err)
	}

	return Rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

package platform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/1broseidon/activewindow/internal/win32"
)

// Win32 is the subset of user32/kernel32 the Windows backend calls.
type Win32 interface {
	ForegroundWindow() win32.HWND
	WindowTextLength(hwnd win32.HWND) int
	WindowText(hwnd win32.HWND, buf []uint16) int
	WindowRect(hwnd win32.HWND) (win32.Rect, error)
	WindowProcessID(hwnd win32.HWND) (uint32, error)
	OpenProcess(pid uint32) (win32.Handle, error)
	ProcessImagePath(h win32.Handle) (string, error)
	CloseHandle(h win32.Handle) error
	EnumChildWindows(parent win32.HWND, visit win32.ChildVisitor)
}

// Win32Backend answers the query through the Win32 API.
type Win32Backend struct {
	api    Win32
	hosts  []string
	logger zerolog.Logger
}

var _ Backend = (*Win32Backend)(nil)

// NewWin32Backend creates a backend over api.
func NewWin32Backend(api Win32, opts Options) *Win32Backend {
	return &Win32Backend{
		api:    api,
		hosts:  opts.hostProcesses(),
		logger: opts.logger().With().Str("backend", "win32").Logger(),
	}
}

// ActiveWindow returns the foreground window or an error describing why none
// could be reported.
func (b *Win32Backend) ActiveWindow() (WindowInfo, error) {
	hwnd := b.api.ForegroundWindow()
	if hwnd == 0 {
		return WindowInfo{}, ErrNoWindow
	}
	log := b.logger.With().Uint64("window", uint64(hwnd)).Logger()

	title, err := b.windowTitle(hwnd)
	if err != nil {
		log.Debug().Err(err).Msg("title query failed")
		return WindowInfo{}, queryErr(OpTitle, err)
	}

	rect, err := b.api.WindowRect(hwnd)
	if err != nil {
		log.Debug().Err(err).Msg("bounds query failed")
		return WindowInfo{}, queryErr(OpBounds, err)
	}
	bounds := BoundsInfo{
		X:      rect.Left,
		Y:      rect.Top,
		Width:  rect.Right - rect.Left,
		Height: rect.Bottom - rect.Top,
	}
	if err := bounds.Validate(); err != nil {
		log.Debug().Err(err).Msg("bounds query failed")
		return WindowInfo{}, queryErr(OpBounds, err)
	}

	owner, err := b.windowOwner(hwnd)
	if err != nil {
		log.Debug().Err(err).Msg("owner query failed")
		return WindowInfo{}, queryErr(OpOwner, err)
	}

	info := WindowInfo{
		Title:  title,
		ID:     WindowID(hwnd),
		Bounds: bounds,
		Owner:  owner,
	}
	if err := info.Validate(); err != nil {
		log.Debug().Err(err).Msg("rejecting inconsistent result")
		return WindowInfo{}, queryErr(OpValidate, err)
	}
	return info, nil
}

func (b *Win32Backend) windowTitle(hwnd win32.HWND) (string, error) {
	n := b.api.WindowTextLength(hwnd)
	if n < 0 {
		return "", fmt.Errorf("GetWindowTextLengthW returned %d", n)
	}
	buf := make([]uint16, n+win32.DefaultTextPadding)
	b.api.WindowText(hwnd, buf)

	title, ok := win32.TrimWindowText(buf)
	if !ok {
		return "", errors.New("window text is empty")
	}
	return title, nil
}

// processImage is a resolved process identity.
type processImage struct {
	pid  uint32
	path string
}

// openImage opens the owner of hwnd, reads its image path and closes the
// handle before returning.
func (b *Win32Backend) openImage(hwnd win32.HWND) (processImage, error) {
	pid, err := b.api.WindowProcessID(hwnd)
	if err != nil {
		return processImage{}, err
	}

	h, err := b.api.OpenProcess(pid)
	if errors.Is(err, win32.ErrAccessDenied) {
		return processImage{}, fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}
	if err != nil {
		return processImage{}, fmt.Errorf("open process %d: %w", pid, err)
	}
	defer func() {
		if err := b.api.CloseHandle(h); err != nil {
			b.logger.Debug().Err(err).Uint32("pid", pid).Msg("failed to close process handle")
		}
	}()

	path, err := b.api.ProcessImagePath(h)
	if err != nil {
		return processImage{}, err
	}
	if path == "" {
		return processImage{}, fmt.Errorf("pid %d has an empty image path", pid)
	}
	return processImage{pid: pid, path: path}, nil
}

func (b *Win32Backend) windowOwner(hwnd win32.HWND) (OwnerInfo, error) {
	img, err := b.openImage(hwnd)
	if err != nil {
		return OwnerInfo{}, err
	}

	if b.isHostProcess(img.path) {
		r := &hostShellResolver{backend: b, reference: img}
		img = r.resolve(hwnd)
		b.logger.Debug().
			Str("host", r.reference.path).
			Str("resolved", img.path).
			Str("state", r.state.String()).
			Msg("resolved hosted application")
	}

	return OwnerInfo{
		Name: BaseName(img.path),
		Path: img.path,
		ID:   ProcessID(img.pid),
	}, nil
}

func (b *Win32Backend) isHostProcess(path string) bool {
	name := BaseName(path)
	for _, host := range b.hosts {
		if strings.EqualFold(name, host) {
			return true
		}
	}
	return false
}

type resolveState int

const (
	resolveNotStarted resolveState = iota
	resolveEnumerating
	resolveFound
	resolveExhausted
)

func (s resolveState) String() string {
	switch s {
	case resolveNotStarted:
		return "not-started"
	case resolveEnumerating:
		return "enumerating"
	case resolveFound:
		return "found"
	case resolveExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("resolveState(%d)", int(s))
	}
}

// hostShellResolver finds the application hosted inside a frame-host window.
// It belongs to a single query and is handed to the enumeration as a closure.
type hostShellResolver struct {
	backend   *Win32Backend
	reference processImage
	candidate processImage
	state     resolveState
}

func (r *hostShellResolver) resolve(hwnd win32.HWND) processImage {
	r.state = resolveEnumerating
	r.backend.api.EnumChildWindows(hwnd, r.visit)
	if r.state == resolveFound {
		return r.candidate
	}
	r.state = resolveExhausted
	return r.reference
}

func (r *hostShellResolver) visit(child win32.HWND) bool {
	img, err := r.backend.openImage(child)
	if err != nil {
		r.backend.logger.Debug().Err(err).Uint64("child", uint64(child)).Msg("skipping child window")
		return true
	}
	if img.path == r.reference.path {
		return true
	}
	r.candidate = img
	r.state = resolveFound
	return false
}

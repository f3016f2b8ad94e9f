//go:build windows

package win32

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procGetWindowTextLengthW     = user32.NewProc("GetWindowTextLengthW")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetWindowRect            = user32.NewProc("GetWindowRect")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procEnumChildWindows         = user32.NewProc("EnumChildWindows")
)

var (
	children = newEnumRegistry()
	// enumChildProc is created once; NewCallback slots are never freed.
	enumChildProc = windows.NewCallback(func(hwnd uintptr, lparam uintptr) uintptr {
		if children.visit(lparam, HWND(hwnd)) {
			return 1
		}
		return 0
	})
)

// API is the live user32/kernel32 binding.
type API struct{}

// ForegroundWindow returns the window receiving keyboard input, or 0.
func (API) ForegroundWindow() HWND {
	hwnd, _, _ := procGetForegroundWindow.Call()
	return HWND(hwnd)
}

// WindowTextLength returns the title length in UTF-16 units.
func (API) WindowTextLength(hwnd HWND) int {
	n, _, _ := procGetWindowTextLengthW.Call(uintptr(hwnd))
	return int(int32(n))
}

// WindowText copies the title into buf and returns the units written.
func (API) WindowText(hwnd HWND, buf []uint16) int {
	if len(buf) == 0 {
		return 0
	}
	n, _, _ := procGetWindowTextW.Call(
		uintptr(hwnd),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
	)
	return int(int32(n))
}

// WindowRect returns the window rectangle in screen coordinates.
func (API) WindowRect(hwnd HWND) (Rect, error) {
	var r Rect
	ok, _, err := procGetWindowRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&r)))
	if ok == 0 {
		return Rect{}, fmt.Errorf("GetWindowRect: %w", err)
	}
	return r, nil
}

// WindowProcessID returns the id of the process that created hwnd.
func (API) WindowProcessID(hwnd HWND) (uint32, error) {
	var pid uint32
	tid, _, err := procGetWindowThreadProcessId.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&pid)))
	if tid == 0 || pid == 0 {
		return 0, fmt.Errorf("GetWindowThreadProcessId: %w", err)
	}
	return pid, nil
}

// OpenProcess opens pid with limited query rights. The caller closes the handle.
func (API) OpenProcess(pid uint32) (Handle, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if errors.Is(err, windows.ERROR_ACCESS_DENIED) {
		return 0, fmt.Errorf("OpenProcess(%d): %w: %w", pid, ErrAccessDenied, err)
	}
	if err != nil {
		return 0, fmt.Errorf("OpenProcess(%d): %w", pid, err)
	}
	return Handle(h), nil
}

// ProcessImagePath returns the full executable path of an opened process.
func (API) ProcessImagePath(h Handle) (string, error) {
	buf := make([]uint16, MaxImagePath)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(windows.Handle(h), 0, &buf[0], &size); err != nil {
		return "", fmt.Errorf("QueryFullProcessImageName: %w", err)
	}
	return TrimAtNUL(buf[:size]), nil
}

// CloseHandle releases a handle returned by OpenProcess.
func (API) CloseHandle(h Handle) error {
	return windows.CloseHandle(windows.Handle(h))
}

// EnumChildWindows calls visit for each child of parent until it returns false.
func (API) EnumChildWindows(parent HWND, visit ChildVisitor) {
	token := children.register(visit)
	defer children.release(token)
	procEnumChildWindows.Call(uintptr(parent), enumChildProc, token)
}

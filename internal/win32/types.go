// Package win32 binds the user32/kernel32 calls used to inspect the
// foreground window. Helpers in files without a build tag are pure Go and
// shared with tests on every platform.
package win32

import "errors"

// ErrAccessDenied marks an OpenProcess failure caused by missing rights, as
// opposed to a process that no longer exists.
var ErrAccessDenied = errors.New("access denied")

// HWND is a window handle. It is only a label and is never released.
type HWND uintptr

// Handle is a kernel object handle that must be closed by its opener.
type Handle uintptr

// Rect mirrors the Win32 RECT structure.
type Rect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

// MaxImagePath is large enough for extended-length (\\?\) image paths.
const MaxImagePath = 32768

// DefaultTextPadding is the number of extra code units allocated beyond the
// length GetWindowTextLengthW reports.
const DefaultTextPadding = 2

//go:build windows

package platform

import "github.com/1broseidon/activewindow/internal/win32"

func newBackend(opts Options) (Backend, error) {
	return NewWin32Backend(win32.API{}, opts), nil
}

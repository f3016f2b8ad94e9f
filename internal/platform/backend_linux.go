//go:build linux

package platform

import (
	"github.com/1broseidon/activewindow/internal/procfs"
	"github.com/1broseidon/activewindow/internal/x11"
)

func newBackend(opts Options) (Backend, error) {
	dial := func() (Display, error) {
		conn, err := x11.Dial(opts.Display)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
	return NewX11Backend(dial, procfs.Table{}, opts), nil
}

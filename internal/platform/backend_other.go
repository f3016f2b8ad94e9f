//go:build !linux && !windows

package platform

func newBackend(Options) (Backend, error) {
	return nil, ErrUnsupportedPlatform
}

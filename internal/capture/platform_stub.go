//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import (
	"errors"
	"image"
)

var errUnsupportedPlatform = errors.New("screen capture is not supported on this platform")

type unsupportedBackend struct{}

func newBackend() platformBackend {
	return unsupportedBackend{}
}

func (unsupportedBackend) ListMonitors() ([]MonitorInfo, error) {
	return nil, errUnsupportedPlatform
}

func (unsupportedBackend) ListWindows() ([]WindowInfo, error) {
	return nil, errUnsupportedPlatform
}

func (unsupportedBackend) CaptureWindowImage(uint32) (*image.RGBA, error) {
	return nil, errUnsupportedPlatform
}

func runningOnWayland() bool { return false }

//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"errors"
	"image"
)

// pipewireScreenshot is the Wayland fallback when the portal is unavailable.
// Grabbing a frame over PipeWire needs a ScreenCast session, which is not
// implemented; the error here keeps the failure message specific instead of
// surfacing a portal timeout.
func pipewireScreenshot(CaptureOptions) (*image.RGBA, error) {
	return nil, errors.New("pipewire screenshot capture is not implemented")
}

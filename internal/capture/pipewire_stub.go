//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import (
	"errors"
	"image"
)

func pipewireScreenshot(CaptureOptions) (*image.RGBA, error) {
	return nil, errors.New("pipewire screenshot is not supported on this platform")
}

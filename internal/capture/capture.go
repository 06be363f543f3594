package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/godbus/dbus/v5"
)

// CaptureOptions tune what the compositor includes in the shot.
type CaptureOptions struct {
	IncludeCursor      bool
	IncludeDecorations bool
}

// Indirection points so tests can swap the capture transports.
var (
	portalScreenshotFn   = portalScreenshot
	pipewireScreenshotFn = pipewireScreenshot
)

// CaptureScreenshot captures the desktop. When a display selector is provided it
// crops the result to the matching monitor.
func CaptureScreenshot(display string, opts CaptureOptions) (*image.RGBA, error) {
	img, err := desktopScreenshot(opts)
	if err != nil {
		return nil, err
	}
	if display == "" {
		return img, nil
	}
	monitors, err := ListMonitors()
	if err != nil {
		return nil, err
	}
	monitor, err := FindMonitor(monitors, display)
	if err != nil {
		return nil, err
	}
	return cropToRect(img, monitor.Rect)
}

// CaptureWindowDetailed captures the window matching the selector and returns
// both the image and the resolved window metadata. It prefers a direct X11
// window capture and falls back to cropping a desktop screenshot when the
// compositor refuses to hand over the pixels.
func CaptureWindowDetailed(selector string, opts CaptureOptions) (*image.RGBA, WindowInfo, error) {
	img, info, err := captureWindowBySelector(selector, opts)
	if err != nil {
		return nil, WindowInfo{}, fmt.Errorf("capture window %q: %w", selector, err)
	}
	return img, info, nil
}

func captureWindowBySelector(selector string, opts CaptureOptions) (*image.RGBA, WindowInfo, error) {
	windows, err := ListWindows()
	if err != nil {
		return nil, WindowInfo{}, err
	}
	info, err := SelectWindow(selector, windows)
	if err != nil {
		return nil, WindowInfo{}, err
	}
	if info.Rect.Empty() {
		return nil, WindowInfo{}, fmt.Errorf("window has empty geometry")
	}
	img, directErr := captureWindowImage(info.ID)
	if directErr == nil {
		return img, info, nil
	}
	shot, err := desktopScreenshot(opts)
	if err != nil {
		return nil, WindowInfo{}, fmt.Errorf("direct capture: %v; fallback screenshot: %w", directErr, err)
	}
	img, err = cropToRect(shot, info.Rect)
	if err != nil {
		return nil, WindowInfo{}, fmt.Errorf("direct capture: %v; fallback crop: %w", directErr, err)
	}
	return img, info, nil
}

// CaptureWindow captures a single window specified by the selector string.
func CaptureWindow(selector string, opts CaptureOptions) (*image.RGBA, error) {
	img, _, err := CaptureWindowDetailed(selector, opts)
	return img, err
}

// CaptureRegion uses the portal to let the user select a region interactively.
// Interactive requests never fall back to pipewire because the fallback has no
// way to present the selection UI.
func CaptureRegion(opts CaptureOptions) (*image.RGBA, error) {
	return portalScreenshotFn(true, opts)
}

// CaptureRegionRect captures a specific rectangle in global screen coordinates.
func CaptureRegionRect(rect image.Rectangle, opts CaptureOptions) (*image.RGBA, error) {
	if rect.Empty() {
		return nil, fmt.Errorf("region is empty")
	}
	shot, err := desktopScreenshot(opts)
	if err != nil {
		return nil, err
	}
	return cropToRect(shot, rect)
}

func desktopScreenshot(opts CaptureOptions) (*image.RGBA, error) {
	img, err := portalScreenshotFn(false, opts)
	if err == nil {
		return img, nil
	}
	if !isPortalUnavailable(err) {
		return nil, err
	}
	fallback, ferr := pipewireScreenshotFn(opts)
	if ferr != nil {
		return nil, fmt.Errorf("portal screenshot: %v; pipewire fallback: %w", err, ferr)
	}
	return fallback, nil
}

// isPortalUnavailable reports whether the error means the desktop portal is
// absent or unreachable, as opposed to a capture that was tried and failed.
func isPortalUnavailable(err error) bool {
	var dbusErr *dbus.Error
	if !errors.As(err, &dbusErr) {
		return false
	}
	switch dbusErr.Name {
	case "org.freedesktop.portal.Error.NotSupported",
		"org.freedesktop.DBus.Error.ServiceUnknown",
		"org.freedesktop.DBus.Error.UnknownMethod",
		"org.freedesktop.DBus.Error.NameHasNoOwner",
		"org.freedesktop.DBus.Error.Disconnected":
		return true
	}
	return false
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}

//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"os"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
)

var portalHandleToken = newPortalHandleToken

// portalScreenshot requests a screenshot through the XDG desktop portal and
// loads the file the portal hands back. Interactive requests (region picks)
// show the compositor's selection UI.
func portalScreenshot(interactive bool, captureOpts CaptureOptions) (*image.RGBA, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("dbus connect: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Printf("dbus close: %v", cerr)
		}
	}()

	obj := conn.Object("org.freedesktop.portal.Desktop", "/org/freedesktop/portal/desktop")
	call := obj.Call("org.freedesktop.portal.Screenshot.Screenshot", 0, "", portalScreenshotOptions(interactive, captureOpts))
	if call.Err != nil {
		return nil, fmt.Errorf("portal screenshot call: %w", call.Err)
	}
	var handle dbus.ObjectPath
	if err := call.Store(&handle); err != nil {
		return nil, fmt.Errorf("portal screenshot response: %w", err)
	}

	uri, err := awaitPortalResponse(conn, handle)
	if err != nil {
		return nil, err
	}
	img, err := loadPNG(strings.TrimPrefix(uri, "file://"))
	if err != nil {
		return nil, fmt.Errorf("portal screenshot image: %w", err)
	}
	return img, nil
}

// awaitPortalResponse blocks on the Request.Response signal for the given
// handle and returns the screenshot URI it carries.
func awaitPortalResponse(conn *dbus.Conn, handle dbus.ObjectPath) (string, error) {
	sigc := make(chan *dbus.Signal, 1)
	conn.Signal(sigc)
	rule := fmt.Sprintf("type='signal',interface='org.freedesktop.portal.Request',member='Response',path='%s'", handle)
	if err := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		return "", fmt.Errorf("portal screenshot subscribe: %w", err)
	}
	defer conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, rule)

	for sig := range sigc {
		if sig.Path != handle || sig.Name != "org.freedesktop.portal.Request.Response" {
			continue
		}
		if len(sig.Body) < 2 {
			break
		}
		if status, ok := sig.Body[0].(uint32); ok && status != 0 {
			return "", fmt.Errorf("portal screenshot cancelled (status %d)", status)
		}
		res, ok := sig.Body[1].(map[string]dbus.Variant)
		if !ok {
			break
		}
		if uriVar, ok := res["uri"]; ok {
			if uri, ok := uriVar.Value().(string); ok {
				return uri, nil
			}
		}
		break
	}
	return "", fmt.Errorf("portal screenshot: response missing image data")
}

func newPortalHandleToken() string {
	return fmt.Sprintf("snipmark-%d", time.Now().UnixNano())
}

func portalScreenshotOptions(interactive bool, captureOpts CaptureOptions) map[string]dbus.Variant {
	cursorMode := "hidden"
	if captureOpts.IncludeCursor {
		cursorMode = "embedded"
	}
	return map[string]dbus.Variant{
		"interactive":        dbus.MakeVariant(interactive),
		"handle_token":       dbus.MakeVariant(portalHandleToken()),
		"modal":              dbus.MakeVariant(interactive),
		"cursor_mode":        dbus.MakeVariant(cursorMode),
		"restore_window":     dbus.MakeVariant(captureOpts.IncludeDecorations),
		"include-decoration": dbus.MakeVariant(captureOpts.IncludeDecorations),
	}
}

// loadPNG decodes the portal's temp file into RGBA and removes it.
func loadPNG(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Printf("close %s: %v", path, cerr)
		}
		if rerr := os.Remove(path); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			log.Printf("remove %s: %v", path, rerr)
		}
	}()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, image.Point{}, draw.Src)
	return rgba, nil
}

package capture

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"
)

type platformBackend interface {
	ListMonitors() ([]MonitorInfo, error)
	ListWindows() ([]WindowInfo, error)
	CaptureWindowImage(uint32) (*image.RGBA, error)
}

var backend = newBackend()

var (
	errNoMonitors = errors.New("no monitors available")
	errNoWindows  = errors.New("no windows available")
)

// MonitorInfo describes an individual monitor in the display layout.
type MonitorInfo struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

// WindowInfo describes a top-level window available for capture.
type WindowInfo struct {
	Index      int
	ID         uint32
	Title      string
	Class      string
	Instance   string
	PID        uint32
	Executable string
	Rect       image.Rectangle
	Monitor    int
	Active     bool
}

// ListMonitors retrieves all monitors using the platform backend.
func ListMonitors() ([]MonitorInfo, error) {
	return backend.ListMonitors()
}

// ListWindows retrieves the available top-level windows using the platform
// backend.
func ListWindows() ([]WindowInfo, error) {
	return backend.ListWindows()
}

func captureWindowImage(id uint32) (*image.RGBA, error) {
	return backend.CaptureWindowImage(id)
}

// FindMonitor resolves a monitor selector against the provided list. An
// empty selector picks the first monitor; "primary" picks the primary one.
// Otherwise the selector is an index ("1", "#1", "index:1"), an output name
// ("name:HDMI-1") or a substring of the output name.
func FindMonitor(monitors []MonitorInfo, selector string) (MonitorInfo, error) {
	if len(monitors) == 0 {
		return MonitorInfo{}, errNoMonitors
	}
	sel := strings.TrimSpace(selector)
	if sel == "" {
		return monitors[0], nil
	}
	lower := strings.ToLower(sel)
	if lower == "primary" {
		for _, mon := range monitors {
			if mon.Primary {
				return mon, nil
			}
		}
		return monitors[0], nil
	}
	lower = strings.TrimPrefix(lower, "#")
	lower = strings.TrimPrefix(lower, "index:")
	lower = strings.TrimPrefix(lower, "name:")
	if idx, err := strconv.Atoi(lower); err == nil {
		if idx < 0 || idx >= len(monitors) {
			return MonitorInfo{}, fmt.Errorf("monitor index %d out of range", idx)
		}
		return monitors[idx], nil
	}
	for _, mon := range monitors {
		if strings.Contains(strings.ToLower(mon.Name), lower) {
			return mon, nil
		}
	}
	return MonitorInfo{}, fmt.Errorf("monitor %q not found", selector)
}

// windowMatcher resolves one selector form against the window list.
type windowMatcher func(val string, windows []WindowInfo) (WindowInfo, error)

var windowMatchers = map[string]windowMatcher{
	"index": matchWindowIndex,
	"id":    matchWindowID,
	"pid":   matchWindowPID,
	"exec":  matchWindowExec,
	"class": matchWindowClass,
	"title": matchWindowTitle,
	"name":  matchWindowTitle,
}

// SelectWindow matches a selector string against the list of windows. An
// empty selector prefers the active window; bare integers and 0x ids are
// accepted without a prefix; anything else falls back to a substring match
// over title, executable, class and instance.
func SelectWindow(selector string, windows []WindowInfo) (WindowInfo, error) {
	if len(windows) == 0 {
		return WindowInfo{}, errNoWindows
	}
	sel := strings.TrimSpace(selector)
	if sel == "" {
		for _, win := range windows {
			if win.Active {
				return win, nil
			}
		}
		return windows[len(windows)-1], nil
	}
	if strings.EqualFold(sel, "active") {
		for _, win := range windows {
			if win.Active {
				return win, nil
			}
		}
		return WindowInfo{}, fmt.Errorf("no active window detected")
	}
	if prefix, val, ok := strings.Cut(sel, ":"); ok {
		if match, known := windowMatchers[strings.ToLower(prefix)]; known {
			return match(strings.TrimSpace(val), windows)
		}
	}
	if idx, err := strconv.Atoi(sel); err == nil {
		return windowAtIndex(idx, windows)
	}
	if strings.HasPrefix(strings.ToLower(sel), "0x") {
		if win, err := matchWindowID(sel, windows); err == nil {
			return win, nil
		}
	}
	needle := strings.ToLower(sel)
	for _, win := range windows {
		if strings.Contains(strings.ToLower(win.Title), needle) ||
			strings.Contains(strings.ToLower(win.Executable), needle) ||
			strings.Contains(strings.ToLower(win.Class), needle) ||
			strings.Contains(strings.ToLower(win.Instance), needle) {
			return win, nil
		}
	}
	return WindowInfo{}, fmt.Errorf("no window matched %q", selector)
}

func windowAtIndex(idx int, windows []WindowInfo) (WindowInfo, error) {
	if idx < 0 || idx >= len(windows) {
		return WindowInfo{}, fmt.Errorf("window index %d out of range", idx)
	}
	return windows[idx], nil
}

func matchWindowIndex(val string, windows []WindowInfo) (WindowInfo, error) {
	idx, err := strconv.Atoi(val)
	if err != nil {
		return WindowInfo{}, fmt.Errorf("invalid index %q", val)
	}
	return windowAtIndex(idx, windows)
}

func matchWindowID(val string, windows []WindowInfo) (WindowInfo, error) {
	id, err := parseWindowID(val)
	if err != nil {
		return WindowInfo{}, err
	}
	for _, win := range windows {
		if win.ID == id {
			return win, nil
		}
	}
	return WindowInfo{}, fmt.Errorf("window id 0x%x not found", id)
}

func matchWindowPID(val string, windows []WindowInfo) (WindowInfo, error) {
	pid64, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return WindowInfo{}, fmt.Errorf("invalid pid %q", val)
	}
	pid := uint32(pid64)
	for _, win := range windows {
		if win.PID == pid {
			return win, nil
		}
	}
	return WindowInfo{}, fmt.Errorf("window with pid %d not found", pid)
}

func matchWindowExec(val string, windows []WindowInfo) (WindowInfo, error) {
	needle := strings.ToLower(val)
	for _, win := range windows {
		if strings.Contains(strings.ToLower(win.Executable), needle) {
			return win, nil
		}
	}
	return WindowInfo{}, fmt.Errorf("window with exec %q not found", val)
}

func matchWindowClass(val string, windows []WindowInfo) (WindowInfo, error) {
	needle := strings.ToLower(val)
	for _, win := range windows {
		if strings.Contains(strings.ToLower(win.Class), needle) ||
			strings.Contains(strings.ToLower(win.Instance), needle) {
			return win, nil
		}
	}
	return WindowInfo{}, fmt.Errorf("window with class %q not found", val)
}

func matchWindowTitle(val string, windows []WindowInfo) (WindowInfo, error) {
	needle := strings.ToLower(val)
	for _, win := range windows {
		if strings.Contains(strings.ToLower(win.Title), needle) {
			return win, nil
		}
	}
	return WindowInfo{}, fmt.Errorf("window with title %q not found", val)
}

func parseWindowID(val string) (uint32, error) {
	v := strings.TrimSpace(val)
	base := 10
	if strings.HasPrefix(v, "0x") || strings.HasPrefix(v, "0X") {
		v = v[2:]
		base = 16
	}
	parsed, err := strconv.ParseUint(v, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q", val)
	}
	return uint32(parsed), nil
}

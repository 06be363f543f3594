//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"
)

type x11Backend struct{}

func newBackend() platformBackend {
	return x11Backend{}
}

func runningOnWayland() bool {
	sessionType := strings.ToLower(strings.TrimSpace(os.Getenv("XDG_SESSION_TYPE")))
	if sessionType == "wayland" {
		return true
	}
	return os.Getenv("WAYLAND_DISPLAY") != ""
}

// x11Session bundles an X connection with the setup and root window every
// query needs. Each backend call opens its own short-lived session.
type x11Session struct {
	conn  *xgb.Conn
	setup *xproto.SetupInfo
	root  xproto.Window
}

func openX11() (*x11Session, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect X server: %w", err)
	}
	setup := xproto.Setup(conn)
	if setup == nil {
		conn.Close()
		return nil, fmt.Errorf("xproto setup unavailable")
	}
	screen := setup.DefaultScreen(conn)
	if screen == nil {
		conn.Close()
		return nil, fmt.Errorf("xproto screen unavailable")
	}
	return &x11Session{conn: conn, setup: setup, root: screen.Root}, nil
}

func (s *x11Session) close() { s.conn.Close() }

func (x11Backend) ListMonitors() ([]MonitorInfo, error) {
	s, err := openX11()
	if err != nil {
		return nil, err
	}
	defer s.close()

	monitors, err := s.monitors()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, errNoMonitors
	}
	return monitors, nil
}

func (x11Backend) ListWindows() ([]WindowInfo, error) {
	s, err := openX11()
	if err != nil {
		return nil, err
	}
	defer s.close()

	monitors, _ := s.monitors()
	activeID, _ := s.activeWindow()

	windows, err := s.windows(monitors, activeID)
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, errNoWindows
	}
	return windows, nil
}

func (x11Backend) CaptureWindowImage(id uint32) (*image.RGBA, error) {
	s, err := openX11()
	if err != nil {
		return nil, err
	}
	defer s.close()

	geom, err := xproto.GetGeometry(s.conn, xproto.Drawable(id)).Reply()
	if err != nil {
		return nil, fmt.Errorf("window geometry: %w", err)
	}
	if geom.Width == 0 || geom.Height == 0 {
		return nil, fmt.Errorf("window has empty geometry")
	}

	reply, err := xproto.GetImage(s.conn, xproto.ImageFormatZPixmap, xproto.Drawable(id), 0, 0, geom.Width, geom.Height, ^uint32(0)).Reply()
	if err != nil {
		return nil, fmt.Errorf("window pixels: %w", err)
	}
	return xImageToRGBA(s.setup, reply, int(geom.Width), int(geom.Height), "window")
}

// monitors enumerates connected RandR outputs with active CRTCs.
func (s *x11Session) monitors() ([]MonitorInfo, error) {
	if err := randr.Init(s.conn); err != nil {
		return nil, fmt.Errorf("init randr: %w", err)
	}
	res, err := randr.GetScreenResources(s.conn, s.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("randr screen resources: %w", err)
	}
	primaryOutput := randr.Output(0)
	if primary, err := randr.GetOutputPrimary(s.conn, s.root).Reply(); err == nil {
		primaryOutput = primary.Output
	}
	var monitors []MonitorInfo
	for _, output := range res.Outputs {
		info, err := randr.GetOutputInfo(s.conn, output, res.ConfigTimestamp).Reply()
		if err != nil || info.Connection != randr.ConnectionConnected || info.Crtc == 0 {
			continue
		}
		crtc, err := randr.GetCrtcInfo(s.conn, info.Crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		monitors = append(monitors, MonitorInfo{
			Index:   len(monitors),
			Name:    strings.TrimSpace(string(info.Name)),
			Rect:    image.Rect(int(crtc.X), int(crtc.Y), int(crtc.X)+int(crtc.Width), int(crtc.Y)+int(crtc.Height)),
			Primary: output == primaryOutput,
		})
	}
	return monitors, nil
}

func (s *x11Session) activeWindow() (uint32, error) {
	atom, err := s.atom("_NET_ACTIVE_WINDOW")
	if err != nil {
		return 0, err
	}
	reply, err := xproto.GetProperty(s.conn, false, s.root, atom, xproto.AtomWindow, 0, 1).Reply()
	if err != nil {
		return 0, err
	}
	if reply.Format != 32 || reply.ValueLen == 0 {
		return 0, fmt.Errorf("active window unavailable")
	}
	return xgb.Get32(reply.Value), nil
}

// windows reads the EWMH client list in bottom-to-top stacking order and
// returns the windows top-first.
func (s *x11Session) windows(monitors []MonitorInfo, activeID uint32) ([]WindowInfo, error) {
	ids, err := s.clientList("_NET_CLIENT_LIST_STACKING")
	if err != nil || len(ids) == 0 {
		ids, err = s.clientList("_NET_CLIENT_LIST")
		if err != nil {
			return nil, err
		}
	}

	windows := make([]WindowInfo, 0, len(ids))
	for idx := len(ids) - 1; idx >= 0; idx-- {
		info, err := s.describeWindow(ids[idx])
		if err != nil {
			continue
		}
		info.Index = len(windows)
		info.Active = info.ID == activeID
		info.Monitor = monitorForRect(info.Rect, monitors)
		windows = append(windows, info)
	}
	return windows, nil
}

func (s *x11Session) clientList(propName string) ([]xproto.Window, error) {
	atom, err := s.atom(propName)
	if err != nil {
		return nil, err
	}
	reply, err := xproto.GetProperty(s.conn, false, s.root, atom, xproto.AtomWindow, 0, 1<<16).Reply()
	if err != nil {
		return nil, err
	}
	if reply.Format != 32 {
		return nil, nil
	}
	ids := make([]xproto.Window, 0, reply.ValueLen)
	for idx := 0; idx < int(reply.ValueLen); idx++ {
		ids = append(ids, xproto.Window(xgb.Get32(reply.Value[idx*4:])))
	}
	return ids, nil
}

func (s *x11Session) describeWindow(win xproto.Window) (WindowInfo, error) {
	rect, err := s.windowRect(win)
	if err != nil {
		return WindowInfo{}, err
	}
	title := s.utf8Property(win, "_NET_WM_NAME")
	if title == "" {
		title = s.stringProperty(win, "WM_NAME")
	}
	class, instance := s.windowClass(win)
	pid := s.windowPID(win)
	return WindowInfo{
		ID:         uint32(win),
		Title:      title,
		Class:      class,
		Instance:   instance,
		PID:        pid,
		Executable: executableForPID(pid),
		Rect:       rect,
		Monitor:    -1,
	}, nil
}

func (s *x11Session) windowRect(win xproto.Window) (image.Rectangle, error) {
	geo, err := xproto.GetGeometry(s.conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return image.Rectangle{}, err
	}
	trans, err := xproto.TranslateCoordinates(s.conn, win, s.root, int16(geo.X), int16(geo.Y)).Reply()
	if err != nil {
		return image.Rectangle{}, err
	}
	border := int(geo.BorderWidth)
	x := int(trans.DstX) - border
	y := int(trans.DstY) - border
	return image.Rect(x, y, x+int(geo.Width)+border*2, y+int(geo.Height)+border*2), nil
}

func monitorForRect(rect image.Rectangle, monitors []MonitorInfo) int {
	if len(monitors) == 0 {
		return -1
	}
	center := image.Point{X: rect.Min.X + rect.Dx()/2, Y: rect.Min.Y + rect.Dy()/2}
	for _, mon := range monitors {
		if center.In(mon.Rect) {
			return mon.Index
		}
	}
	return monitors[0].Index
}

func (s *x11Session) atom(name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(s.conn, true, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	return reply.Atom, nil
}

func (s *x11Session) utf8Property(win xproto.Window, name string) string {
	atom, err := s.atom(name)
	if err != nil {
		return ""
	}
	utf8StringAtom, err := s.atom("UTF8_STRING")
	if err != nil {
		return ""
	}
	reply, err := xproto.GetProperty(s.conn, false, win, atom, utf8StringAtom, 0, 1<<16).Reply()
	if err != nil || reply.ValueLen == 0 {
		return ""
	}
	return strings.TrimRight(string(reply.Value), "\x00")
}

func (s *x11Session) stringProperty(win xproto.Window, name string) string {
	atom, err := s.atom(name)
	if err != nil {
		return ""
	}
	reply, err := xproto.GetProperty(s.conn, false, win, atom, xproto.AtomString, 0, 1<<16).Reply()
	if err != nil || reply.ValueLen == 0 {
		return ""
	}
	return strings.TrimRight(string(reply.Value), "\x00")
}

// windowClass splits WM_CLASS into its class and instance halves.
func (s *x11Session) windowClass(win xproto.Window) (class, instance string) {
	atom, err := s.atom("WM_CLASS")
	if err != nil {
		return "", ""
	}
	reply, err := xproto.GetProperty(s.conn, false, win, atom, xproto.AtomString, 0, 64).Reply()
	if err != nil || reply.ValueLen == 0 {
		return "", ""
	}
	var vals []string
	for _, p := range bytes.Split(reply.Value, []byte{0}) {
		if len(p) > 0 {
			vals = append(vals, string(p))
		}
	}
	switch len(vals) {
	case 0:
		return "", ""
	case 1:
		return vals[0], vals[0]
	default:
		return vals[1], vals[0]
	}
}

func (s *x11Session) windowPID(win xproto.Window) uint32 {
	atom, err := s.atom("_NET_WM_PID")
	if err != nil {
		return 0
	}
	reply, err := xproto.GetProperty(s.conn, false, win, atom, xproto.AtomCardinal, 0, 1).Reply()
	if err != nil || reply.Format != 32 || reply.ValueLen == 0 {
		return 0
	}
	return xgb.Get32(reply.Value)
}

func executableForPID(pid uint32) string {
	if pid == 0 {
		return ""
	}
	if data, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid)); err == nil {
		return strings.TrimSpace(string(data))
	}
	if exe, err := os.Readlink(fmt.Sprintf("/proc/%d/exe", pid)); err == nil {
		return filepath.Base(exe)
	}
	if data, err := os.ReadFile(fmt.Sprintf("/proc/%d/cmdline", pid)); err == nil {
		parts := bytes.Split(data, []byte{0})
		if len(parts) > 0 && len(parts[0]) > 0 {
			return filepath.Base(string(parts[0]))
		}
	}
	return ""
}

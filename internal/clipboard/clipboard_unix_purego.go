//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Pure-Go clipboard over the X11 selection protocol. The process owns a
// hidden window that answers CLIPBOARD conversion requests for as long as
// it holds the selection; reads open a throwaway window and convert the
// current owner's selection into a property on it.

var (
	initOnce     sync.Once
	initErr      error
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	owner        *selectionOwner
)

func ensureInit() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		so, err := newSelectionOwner()
		if err != nil {
			initErr = err
			return
		}
		owner = so
	})
	return initErr
}

// WriteImage encodes the image as PNG and takes clipboard ownership of it.
func WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return owner.offer(nil, buf.Bytes())
}

// ReadImage retrieves PNG data from the clipboard and decodes it.
func ReadImage() (image.Image, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	data, err := owner.convert(owner.atoms.png)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("clipboard does not contain image data")
	}
	return png.Decode(bytes.NewReader(data))
}

// WriteText takes clipboard ownership of a text payload.
func WriteText(text string) error {
	if err := ensureInit(); err != nil {
		return err
	}
	return owner.offer([]byte(text), nil)
}

// ReadText returns UTF-8 text from the clipboard, falling back to the legacy
// STRING target for older owners.
func ReadText() (string, error) {
	if err := ensureInit(); err != nil {
		return "", err
	}
	data, err := owner.convert(owner.atoms.utf8)
	if err != nil {
		if data, err = owner.convert(xproto.AtomString); err != nil {
			return "", err
		}
	}
	if len(data) == 0 {
		return "", fmt.Errorf("clipboard does not contain text data")
	}
	// Some owners null-terminate STRING responses.
	data = bytes.TrimSuffix(data, []byte{0})
	return string(data), nil
}

type selectionOwner struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  atomSet

	mu    sync.RWMutex
	text  []byte
	image []byte
}

type atomSet struct {
	clipboard xproto.Atom
	targets   xproto.Atom
	utf8      xproto.Atom
	textPlain xproto.Atom
	png       xproto.Atom
	property  xproto.Atom
}

func newSelectionOwner() (*selectionOwner, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	const eventMask = xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify
	if err := xproto.CreateWindowChecked(conn, screen.RootDepth, window, screen.Root,
		0, 0, 1, 1, 0, xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwEventMask, []uint32{eventMask}).Check(); err != nil {
		conn.Close()
		return nil, err
	}
	atoms, err := internAtoms(conn)
	if err != nil {
		xproto.DestroyWindow(conn, window)
		conn.Close()
		return nil, err
	}
	so := &selectionOwner{conn: conn, window: window, atoms: atoms}
	go so.serve()
	return so, nil
}

func internAtoms(conn *xgb.Conn) (atomSet, error) {
	names := []string{
		"CLIPBOARD",
		"TARGETS",
		"UTF8_STRING",
		"text/plain;charset=utf-8",
		"image/png",
		"SNIPMARK_CLIPBOARD",
	}
	atoms := make([]xproto.Atom, len(names))
	for i, name := range names {
		reply, err := xproto.InternAtom(conn, true, uint16(len(name)), name).Reply()
		if err != nil {
			return atomSet{}, fmt.Errorf("intern atom %s: %w", name, err)
		}
		atoms[i] = reply.Atom
	}
	return atomSet{
		clipboard: atoms[0],
		targets:   atoms[1],
		utf8:      atoms[2],
		textPlain: atoms[3],
		png:       atoms[4],
		property:  atoms[5],
	}, nil
}

// offer replaces the owned payload and claims the CLIPBOARD selection.
// Exactly one of text or img is non-nil.
func (so *selectionOwner) offer(text, img []byte) error {
	so.mu.Lock()
	so.text = append([]byte(nil), text...)
	so.image = append([]byte(nil), img...)
	so.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(so.conn, so.window, so.atoms.clipboard, xproto.TimeCurrentTime).Check()
}

func (so *selectionOwner) serve() {
	for {
		ev, err := so.conn.WaitForEvent()
		if err != nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			so.answerRequest(e)
		case xproto.SelectionClearEvent:
			so.mu.Lock()
			so.text = nil
			so.image = nil
			so.mu.Unlock()
		}
	}
}

func (so *selectionOwner) answerRequest(e xproto.SelectionRequestEvent) {
	property := e.Property
	if property == xproto.AtomNone {
		property = e.Target
	}

	so.mu.RLock()
	text := so.text
	img := so.image
	so.mu.RUnlock()

	var (
		targetType xproto.Atom
		format     byte
		payload    []byte
	)
	switch e.Target {
	case so.atoms.targets:
		targets := []xproto.Atom{so.atoms.targets}
		if len(text) > 0 {
			targets = append(targets, so.atoms.utf8, xproto.AtomString, so.atoms.textPlain)
		}
		if len(img) > 0 {
			targets = append(targets, so.atoms.png)
		}
		payload = atomsToBytes(targets)
		targetType = xproto.AtomAtom
		format = 32
	case so.atoms.utf8, xproto.AtomString, so.atoms.textPlain:
		if len(text) == 0 {
			property = xproto.AtomNone
			break
		}
		payload = text
		targetType = so.atoms.utf8
		format = 8
	case so.atoms.png:
		if len(img) == 0 {
			property = xproto.AtomNone
			break
		}
		payload = img
		targetType = so.atoms.png
		format = 8
	default:
		property = xproto.AtomNone
	}

	if property != xproto.AtomNone {
		length := uint32(len(payload))
		if format == 32 {
			length /= 4
		}
		xproto.ChangeProperty(so.conn, xproto.PropModeReplace, e.Requestor, property, targetType, format, length, payload)
	}

	notify := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  property,
	}
	_ = xproto.SendEvent(so.conn, false, e.Requestor, 0, string(notify.Bytes()))
}

// convert asks the current selection owner for the given target and returns
// the transferred bytes.
func (so *selectionOwner) convert(target xproto.Atom) ([]byte, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}
	if err := xproto.CreateWindowChecked(conn, 0, window, screen.Root,
		0, 0, 1, 1, 0, xproto.WindowClassInputOnly, 0,
		xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check(); err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, window)

	if err := xproto.DeletePropertyChecked(conn, window, so.atoms.property).Check(); err != nil {
		return nil, err
	}
	if err := xproto.ConvertSelectionChecked(conn, window, so.atoms.clipboard, target, so.atoms.property, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}

	for {
		ev, err := conn.WaitForEvent()
		if err != nil {
			return nil, err
		}
		e, ok := ev.(xproto.SelectionNotifyEvent)
		if !ok {
			continue
		}
		if e.Property == xproto.AtomNone {
			return nil, fmt.Errorf("clipboard target unavailable")
		}
		if e.Property != so.atoms.property {
			continue
		}
		reply, replyErr := xproto.GetProperty(conn, false, window, so.atoms.property, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
		if replyErr != nil {
			return nil, replyErr
		}
		return append([]byte(nil), reply.Value...), nil
	}
}

func atomsToBytes(atoms []xproto.Atom) []byte {
	buf := make([]byte, len(atoms)*4)
	for i, atom := range atoms {
		xgb.Put32(buf[i*4:], uint32(atom))
	}
	return buf
}

// Package ui drives the annotation editor window on shiny's screen driver.
package ui

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/snipmark/internal/clipboard"
	"github.com/example/snipmark/internal/geom"
	"github.com/example/snipmark/internal/render"
	"github.com/example/snipmark/internal/session"
	"github.com/example/snipmark/internal/theme"
)

const messageDuration = 2 * time.Second

// Editor owns the window around an annotation session.
type Editor struct {
	sess       *session.Session
	output     string
	exportOpts *render.ExportOptions
	theme      *theme.Theme

	onClose func()
	onSave  func(path string)
	onCopy  func(detail string)

	width, height int
	message       string
	messageUntil  time.Time
}

// Option modifies an Editor during creation.
type Option func(*Editor)

// WithOutput sets the file path used when saving.
func WithOutput(path string) Option { return func(e *Editor) { e.output = path } }

// WithExportOptions decorates saved images with shadow, border or rounded
// corners.
func WithExportOptions(opts render.ExportOptions) Option {
	return func(e *Editor) { e.exportOpts = &opts }
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(e *Editor) { e.onClose = fn } }

// WithOnSave registers a callback invoked after a successful save.
func WithOnSave(fn func(path string)) Option { return func(e *Editor) { e.onSave = fn } }

// WithOnCopy registers a callback invoked after a clipboard copy.
func WithOnCopy(fn func(detail string)) Option { return func(e *Editor) { e.onCopy = fn } }

// WithTheme overrides the editor colour scheme.
func WithTheme(th *theme.Theme) Option {
	return func(e *Editor) {
		if th != nil {
			e.theme = th
		}
	}
}

// New wraps a session in an editor window.
func New(sess *session.Session, opts ...Option) *Editor {
	e := &Editor{sess: sess, output: "annotated.png", theme: theme.Default()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Run executes the UI loop until the window closes.
func (e *Editor) Run() { driver.Main(e.main) }

func (e *Editor) main(s screen.Screen) {
	doc := e.sess.Scene().ClipBounds
	e.width = int(doc.W) + toolbarWidth
	e.height = int(doc.H) + statusHeight
	if e.width < 640 {
		e.width = 640
	}
	if e.height < 400 {
		e.height = 400
	}

	w, err := s.NewWindow(&screen.NewWindowOptions{Width: e.width, Height: e.height, Title: "SnipMark"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	if e.onClose != nil {
		defer e.onClose()
	}

	e.sess.SetOnChange(func() { w.Send(paint.Event{}) })
	e.fitView(doc)

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
		}
	}()

	for {
		switch ev := w.NextEvent().(type) {
		case lifecycle.Event:
			if ev.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			e.width = ev.WidthPx
			e.height = ev.HeightPx
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := e.snapshot()
			select {
			case paintCh <- st:
			default:
				<-paintCh
				paintCh <- st
			}
		case mouse.Event:
			e.handleMouse(ev)
			w.Send(paint.Event{})
		case key.Event:
			e.handleKey(ev)
			w.Send(paint.Event{})
		}
	}
}

// fitView zooms out when the document is larger than the initial canvas.
func (e *Editor) fitView(doc geom.Rect) {
	canvasW := float64(e.width - toolbarWidth)
	canvasH := float64(e.height - statusHeight)
	if doc.W <= 0 || doc.H <= 0 || (doc.W <= canvasW && doc.H <= canvasH) {
		return
	}
	zoom := canvasW / doc.W
	if z := canvasH / doc.H; z < zoom {
		zoom = z
	}
	e.sess.SetView(session.View{Zoom: zoom})
}

func (e *Editor) snapshot() paintState {
	st := paintState{
		width:        e.width,
		height:       e.height,
		theme:        e.theme,
		frame:        e.sess.Frame(),
		view:         e.sess.View(),
		tool:         e.sess.Tool(),
		stroke:       e.sess.Style().Stroke,
		strokeWidth:  e.sess.Style().StrokeWidth,
		guides:       e.sess.Guides(),
		message:      e.message,
		messageUntil: e.messageUntil,
	}
	if sel := e.sess.SelectionBounds(); !sel.Empty() {
		st.selection = sel
		st.hasSel = true
	}
	if r, ok := e.sess.MarqueeRect(); ok {
		st.marquee = r
		st.hasMarq = true
	}
	if r, ok := e.sess.CropRect(); ok {
		st.crop = r
		st.hasCrop = true
	}
	return st
}

func (e *Editor) handleMouse(ev mouse.Event) {
	p := image.Pt(int(ev.X), int(ev.Y))
	if p.X < toolbarWidth {
		if ev.Button == mouse.ButtonLeft && ev.Direction == mouse.DirPress {
			e.toolbarPress(p)
		}
		return
	}
	if p.Y >= e.height-statusHeight {
		return
	}
	e.sess.HandleMouse(e.toDoc(ev))
}

// toDoc translates a window event into document coordinates.
func (e *Editor) toDoc(ev mouse.Event) mouse.Event {
	v := e.sess.View()
	out := ev
	out.X = float32(float64(ev.X-float32(toolbarWidth))/v.Zoom + v.Pan.X)
	out.Y = float32(float64(ev.Y)/v.Zoom + v.Pan.Y)
	return out
}

func (e *Editor) toolbarPress(p image.Point) {
	tool, colorIdx, widthIdx, kind, ok := toolbarHit(p)
	if !ok {
		return
	}
	switch kind {
	case hitTool:
		e.sess.SetTool(tool)
	case hitColor:
		st := e.sess.Style()
		st.Stroke = palette[colorIdx]
		e.sess.SetStyle(st)
	case hitWidth:
		st := e.sess.Style()
		st.StrokeWidth = strokeWidths[widthIdx]
		e.sess.SetStyle(st)
	}
}

func (e *Editor) handleKey(ev key.Event) {
	if ev.Direction == key.DirRelease {
		return
	}
	if ev.Modifiers&key.ModControl != 0 && !e.sess.Texting() {
		switch ev.Rune {
		case 's':
			e.save()
			return
		case 'c':
			e.copy()
			return
		case 'v':
			e.paste()
			return
		}
	}
	e.sess.HandleKey(ev)
}

func (e *Editor) save() {
	img, err := e.sess.Export()
	if err != nil {
		log.Printf("save: %v", err)
		return
	}
	if e.exportOpts != nil {
		img, _ = render.Decorate(img, *e.exportOpts)
	}
	if err := writePNG(e.output, img); err != nil {
		log.Printf("save: %v", err)
		e.flash(fmt.Sprintf("save failed: %v", err))
		return
	}
	saved := e.output
	if abs, err := filepath.Abs(e.output); err == nil {
		saved = abs
	}
	e.flash(fmt.Sprintf("saved %s", saved))
	if e.onSave != nil {
		e.onSave(saved)
	}
}

func (e *Editor) copy() {
	if len(e.sess.SelectedIDs()) > 0 {
		data, err := e.sess.CopySelection()
		if err != nil {
			log.Printf("copy: %v", err)
			return
		}
		if err := clipboard.WriteFragment(data); err != nil {
			log.Printf("copy: %v", err)
			return
		}
		e.flash("selection copied to clipboard")
		if e.onCopy != nil {
			e.onCopy("selection")
		}
		return
	}
	img, err := e.sess.Export()
	if err != nil {
		log.Printf("copy: %v", err)
		return
	}
	if err := clipboard.WriteImage(img); err != nil {
		log.Printf("copy: %v", err)
		return
	}
	e.flash("image copied to clipboard")
	if e.onCopy != nil {
		e.onCopy("image")
	}
}

func (e *Editor) paste() {
	data, ok, err := clipboard.ReadFragment()
	if err != nil {
		log.Printf("paste: %v", err)
		return
	}
	if !ok {
		e.flash("clipboard has no annotations")
		return
	}
	if err := e.sess.Paste(data); err != nil {
		log.Printf("paste: %v", err)
	}
}

func (e *Editor) flash(msg string) {
	e.message = msg
	e.messageUntil = time.Now().Add(messageDuration)
	log.Print(msg)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %q: %w", path, err)
	}
	return nil
}

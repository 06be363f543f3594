package ui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/snipmark/internal/align"
	"github.com/example/snipmark/internal/geom"
	"github.com/example/snipmark/internal/session"
	"github.com/example/snipmark/internal/theme"
)

const frameDropThreshold = 10

const selectionHandleSize = 8

// paintState carries everything a frame needs so the paint goroutine never
// touches the live session.
type paintState struct {
	width, height int
	theme         *theme.Theme
	frame         *image.RGBA
	view          session.View
	tool          session.Tool
	stroke        color.RGBA
	strokeWidth   float64

	selection geom.Rect
	hasSel    bool
	marquee   geom.Rect
	hasMarq   bool
	crop      geom.Rect
	hasCrop   bool
	guides    []align.Guide

	message      string
	messageUntil time.Time
}

func docToWin(p geom.Point, v session.View) image.Point {
	return image.Pt(
		toolbarWidth+int((p.X-v.Pan.X)*v.Zoom),
		int((p.Y-v.Pan.Y)*v.Zoom),
	)
}

func docRectToWin(r geom.Rect, v session.View) image.Rectangle {
	min := docToWin(geom.Pt(r.X, r.Y), v)
	max := docToWin(geom.Pt(r.MaxX(), r.MaxY()), v)
	return image.Rectangle{Min: min, Max: max}.Canon()
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{X: st.width, Y: st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()

	draw.Draw(dst, dst.Bounds(), &image.Uniform{st.theme.Backdrop}, image.Point{}, draw.Src)
	if ctx.Err() != nil {
		return
	}

	if st.frame != nil {
		target := docRectToWin(geom.Rect{
			X: float64(st.frame.Bounds().Min.X),
			Y: float64(st.frame.Bounds().Min.Y),
			W: float64(st.frame.Bounds().Dx()),
			H: float64(st.frame.Bounds().Dy()),
		}, st.view)
		xdraw.NearestNeighbor.Scale(dst, target, st.frame, st.frame.Bounds(), draw.Over, nil)
	}
	if ctx.Err() != nil {
		return
	}

	for _, g := range st.guides {
		drawGuide(dst, g, st)
	}

	if st.hasSel {
		r := docRectToWin(st.selection, st.view)
		dashRect(dst, r, st.theme.SelectionLight, st.theme.SelectionDark)
		for _, hp := range handlePoints(st.selection) {
			c := docToWin(hp, st.view)
			hr := image.Rect(
				c.X-selectionHandleSize/2, c.Y-selectionHandleSize/2,
				c.X+selectionHandleSize/2, c.Y+selectionHandleSize/2,
			)
			draw.Draw(dst, hr, &image.Uniform{st.theme.HandleFill}, image.Point{}, draw.Src)
			outlineRect(dst, hr, st.theme.HandleStroke)
		}
	}
	if st.hasMarq {
		dashRect(dst, docRectToWin(st.marquee, st.view), st.theme.SelectionLight, st.theme.SelectionDark)
	}
	if st.hasCrop {
		r := docRectToWin(st.crop, st.view)
		dimOutside(dst, r, image.Rect(toolbarWidth, 0, st.width, st.height-statusHeight))
		dashRect(dst, r, st.theme.SelectionLight, st.theme.SelectionDark)
	}
	if ctx.Err() != nil {
		return
	}

	drawToolbar(dst, st.height, st.tool, st.stroke, st.strokeWidth, st.theme)
	drawStatus(dst, st)

	if st.message != "" && time.Now().Before(st.messageUntil) {
		drawMessage(dst, st.width, st.height, st.message)
	}
	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// handlePoints lists the resize handles clockwise from the top-left corner,
// matching the hit order the session uses.
func handlePoints(r geom.Rect) []geom.Point {
	cx := r.X + r.W/2
	cy := r.Y + r.H/2
	return []geom.Point{
		{X: r.X, Y: r.Y},
		{X: cx, Y: r.Y},
		{X: r.MaxX(), Y: r.Y},
		{X: r.MaxX(), Y: cy},
		{X: r.MaxX(), Y: r.MaxY()},
		{X: cx, Y: r.MaxY()},
		{X: r.X, Y: r.MaxY()},
		{X: r.X, Y: cy},
	}
}

func drawGuide(dst *image.RGBA, g align.Guide, st paintState) {
	c := st.theme.Guide
	if g.Vertical {
		x := toolbarWidth + int((g.Pos-st.view.Pan.X)*st.view.Zoom)
		draw.Draw(dst, image.Rect(x, 0, x+1, st.height-statusHeight), &image.Uniform{c}, image.Point{}, draw.Src)
		return
	}
	y := int((g.Pos - st.view.Pan.Y) * st.view.Zoom)
	draw.Draw(dst, image.Rect(toolbarWidth, y, st.width, y+1), &image.Uniform{c}, image.Point{}, draw.Src)
}

// dashRect draws an alternating two-color dashed rectangle outline.
func dashRect(dst *image.RGBA, r image.Rectangle, a, b color.Color) {
	const dash = 4
	for x := r.Min.X; x < r.Max.X; x++ {
		c := a
		if (x/dash)%2 == 1 {
			c = b
		}
		dst.Set(x, r.Min.Y, c)
		dst.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		c := a
		if (y/dash)%2 == 1 {
			c = b
		}
		dst.Set(r.Min.X, y, c)
		dst.Set(r.Max.X-1, y, c)
	}
}

// dimOutside darkens the canvas outside the crop rectangle.
func dimOutside(dst *image.RGBA, keep, canvas image.Rectangle) {
	shade := color.RGBA{0, 0, 0, 120}
	keep = keep.Intersect(canvas)
	regions := []image.Rectangle{
		image.Rect(canvas.Min.X, canvas.Min.Y, canvas.Max.X, keep.Min.Y),
		image.Rect(canvas.Min.X, keep.Max.Y, canvas.Max.X, canvas.Max.Y),
		image.Rect(canvas.Min.X, keep.Min.Y, keep.Min.X, keep.Max.Y),
		image.Rect(keep.Max.X, keep.Min.Y, canvas.Max.X, keep.Max.Y),
	}
	for _, r := range regions {
		if r.Empty() {
			continue
		}
		draw.DrawMask(dst, r, image.Black, image.Point{}, &image.Uniform{color.Alpha{A: shade.A}}, image.Point{}, draw.Over)
	}
}

func drawStatus(dst *image.RGBA, st paintState) {
	bar := image.Rect(0, st.height-statusHeight, st.width, st.height)
	draw.Draw(dst, bar, &image.Uniform{st.theme.Toolbar}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: &image.Uniform{st.theme.ToolbarText}, Face: basicfont.Face7x13}
	d.Dot = fixed.P(toolbarWidth+6, st.height-6)
	d.DrawString(fmt.Sprintf("%s  %d%%", st.tool, int(st.view.Zoom*100+0.5)))
}

func drawMessage(dst *image.RGBA, width, height int, msg string) {
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: basicfont.Face7x13}
	wmsg := d.MeasureString(msg).Ceil()
	ascent := basicfont.Face7x13.Metrics().Ascent.Ceil()
	descent := basicfont.Face7x13.Metrics().Descent.Ceil()
	px := (width - wmsg) / 2
	py := (height-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	draw.Draw(dst, rect, &image.Uniform{color.RGBA{255, 255, 255, 230}}, image.Point{}, draw.Over)
	outlineRect(dst, rect, color.Black)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}

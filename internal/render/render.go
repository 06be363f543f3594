// Package render rasterizes a scene onto its backing screenshot. Rendering
// is non-destructive: every call repaints all elements over a fresh copy of
// the base bitmap, and region effects sample the base so they never compound
// or bake into it.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/example/snipmark/internal/element"
	"github.com/example/snipmark/internal/geom"
	"github.com/example/snipmark/internal/scene"
)

// Renderer paints scenes over a fixed base bitmap.
type Renderer struct {
	base *image.RGBA
}

// New returns a renderer for the given screenshot.
func New(base *image.RGBA) *Renderer {
	return &Renderer{base: base}
}

// Base returns the backing bitmap.
func (r *Renderer) Base() *image.RGBA { return r.base }

// Render paints the scene in ascending z over a copy of the base bitmap.
// A non-nil live element (the shape under construction) paints last, above
// everything committed.
func (r *Renderer) Render(sc *scene.Scene, live *element.Element) *image.RGBA {
	dst := image.NewRGBA(r.base.Bounds())
	copy(dst.Pix, r.base.Pix)
	for _, e := range sc.InZOrder() {
		if e.Kind == element.Group {
			continue
		}
		r.paint(dst, e)
	}
	if live != nil {
		r.paint(dst, *live)
	}
	return dst
}

// Flatten renders the scene and crops the result to the scene's clip
// bounds, producing the export bitmap.
func (r *Renderer) Flatten(sc *scene.Scene) *image.RGBA {
	full := r.Render(sc, nil)
	clip := rectToImage(sc.ClipBounds).Intersect(full.Bounds())
	if clip == full.Bounds() || clip.Empty() {
		return full
	}
	out := image.NewRGBA(image.Rect(0, 0, clip.Dx(), clip.Dy()))
	draw.Draw(out, out.Bounds(), full, clip.Min, draw.Src)
	return out
}

func (r *Renderer) paint(dst *image.RGBA, e element.Element) {
	if e.Kind.IsEffect() {
		region := rectToImage(e.Rect)
		switch e.Kind {
		case element.Blur:
			boxBlurRegion(dst, r.base, region, e.Style.BlurRadius)
		case element.Pixelate:
			pixelateRegion(dst, r.base, region, e.Style.PixelSize)
		}
		return
	}
	if e.Style.Opacity > 0 && e.Style.Opacity < 1 {
		// Paint onto a transparent layer and composite it once, so strokes
		// crossing themselves do not double up.
		pad := int(e.Style.StrokeWidth) + 24
		layerRect := rectToImage(e.Bounds().Inset(-float64(pad))).Intersect(dst.Bounds())
		if layerRect.Empty() {
			return
		}
		layer := image.NewRGBA(layerRect)
		paintOpaque(layer, e)
		alpha := uint8(e.Style.Opacity*255 + 0.5)
		draw.DrawMask(dst, layerRect, layer, layerRect.Min,
			image.NewUniform(color.Alpha{A: alpha}), image.Point{}, draw.Over)
		return
	}
	paintOpaque(dst, e)
}

func paintOpaque(dst *image.RGBA, e element.Element) {
	col := e.Style.Stroke
	thick := int(e.Style.StrokeWidth + 0.5)
	if thick < 1 {
		thick = 1
	}
	switch {
	case e.Kind.IsStroke():
		drawPolyline(dst, toImagePoints(e.Points), col, thick)
	case e.Kind == element.Line:
		p0, p1, ok := segment(e)
		if !ok {
			return
		}
		drawLine(dst, p0.X, p0.Y, p1.X, p1.Y, col, thick)
	case e.Kind == element.Arrow:
		p0, p1, ok := segment(e)
		if !ok {
			return
		}
		drawLine(dst, p0.X, p0.Y, p1.X, p1.Y, col, thick)
		switch e.Style.ArrowHead {
		case element.ArrowHeadNone:
		case element.ArrowHeadFilled:
			drawArrowHead(dst, p0.X, p0.Y, p1.X, p1.Y, col, thick, true)
		default:
			drawArrowHead(dst, p0.X, p0.Y, p1.X, p1.Y, col, thick, false)
		}
	case e.Kind == element.Measure:
		paintMeasure(dst, e, col, thick)
	case e.Kind == element.Rectangle:
		rect := rectToImage(e.Rect)
		if e.Style.HasFill {
			fillRect(dst, rect, e.Style.Fill)
		}
		drawRect(dst, rect, col, thick)
	case e.Kind == element.Ellipse:
		rect := rectToImage(e.Rect)
		cx := (rect.Min.X + rect.Max.X) / 2
		cy := (rect.Min.Y + rect.Max.Y) / 2
		rx := rect.Dx() / 2
		ry := rect.Dy() / 2
		if e.Style.HasFill {
			drawFilledEllipse(dst, cx, cy, rx, ry, e.Style.Fill)
		}
		drawEllipse(dst, cx, cy, rx, ry, col, thick)
	case e.Kind == element.Text:
		paintText(dst, e, col)
	case e.Kind == element.Number:
		paintNumber(dst, e, col)
	case e.Kind == element.Stamp:
		paintStamp(dst, e, col)
	case e.Kind == element.Callout:
		paintCallout(dst, e, col, thick)
	}
}

// paintMeasure draws a segment with perpendicular end ticks and a pixel
// distance label at the midpoint.
func paintMeasure(dst *image.RGBA, e element.Element, col color.RGBA, thick int) {
	if len(e.Points) < 2 {
		return
	}
	a, b := e.Points[0], e.Points[1]
	p0 := ptToImage(a)
	p1 := ptToImage(b)
	drawLine(dst, p0.X, p0.Y, p1.X, p1.Y, col, thick)

	dist := a.Dist(b)
	if dist > 0 {
		// Unit normal for the end ticks.
		nx := -(b.Y - a.Y) / dist
		ny := (b.X - a.X) / dist
		tick := 8.0
		for _, p := range []geom.Point{a, b} {
			t0 := ptToImage(geom.Pt(p.X+nx*tick, p.Y+ny*tick))
			t1 := ptToImage(geom.Pt(p.X-nx*tick, p.Y-ny*tick))
			drawLine(dst, t0.X, t0.Y, t1.X, t1.Y, col, thick)
		}
	}

	label := fmt.Sprintf("%.0f px", dist)
	size := e.Style.FontSize
	mid := geom.Pt((a.X+b.X)/2, (a.Y+b.Y)/2)
	w := measureString(label, size)
	drawString(dst, int(mid.X)-w/2, int(mid.Y)-thick-4, label, image.NewUniform(col), size)
}

func paintText(dst *image.RGBA, e element.Element, col color.RGBA) {
	if len(e.Points) == 0 || e.Text == "" {
		return
	}
	size := e.Style.FontSize
	x := int(e.Points[0].X)
	y := int(e.Points[0].Y)
	lineHeight := int(size*1.2 + 0.5)
	src := image.NewUniform(col)
	start := 0
	for i := 0; i <= len(e.Text); i++ {
		if i == len(e.Text) || e.Text[i] == '\n' {
			drawString(dst, x, y, e.Text[start:i], src, size)
			y += lineHeight
			start = i + 1
		}
	}
}

// paintNumber draws a filled marker circle with the value centered inside
// in a contrasting color.
func paintNumber(dst *image.RGBA, e element.Element, col color.RGBA) {
	if len(e.Points) == 0 {
		return
	}
	p := ptToImage(e.Points[0])
	radius := int(element.NumberRadius(e.Number))
	drawFilledCircle(dst, p.X, p.Y, radius, col)

	brightness := 0.299*float64(col.R) + 0.587*float64(col.G) + 0.114*float64(col.B)
	textCol := color.Color(color.Black)
	if brightness < 128 {
		textCol = color.White
	}
	label := fmt.Sprintf("%d", e.Number)
	size := float64(radius)
	w := measureString(label, size)
	drawString(dst, p.X-w/2, p.Y+int(size*0.35), label, image.NewUniform(textCol), size)
}

func paintStamp(dst *image.RGBA, e element.Element, col color.RGBA) {
	if len(e.Points) == 0 || e.Stamp == "" {
		return
	}
	p := ptToImage(e.Points[0])
	size := e.Style.FontSize * 2
	if size < 24 {
		size = 24
	}
	w := measureString(e.Stamp, size)
	drawString(dst, p.X-w/2, p.Y+int(size*0.35), e.Stamp, image.NewUniform(col), size)
}

// paintCallout draws a filled body rectangle, a tail toward the anchor
// point when one is set, and the text inside the body.
func paintCallout(dst *image.RGBA, e element.Element, col color.RGBA, thick int) {
	rect := rectToImage(e.Rect)
	if len(e.Points) > 0 {
		anchor := ptToImage(e.Points[0])
		cx := (rect.Min.X + rect.Max.X) / 2
		cy := (rect.Min.Y + rect.Max.Y) / 2
		drawLine(dst, cx, cy, anchor.X, anchor.Y, col, thick)
	}
	fill := e.Style.Fill
	if !e.Style.HasFill {
		fill = color.RGBA{255, 255, 255, 255}
	}
	fillRect(dst, rect, fill)
	drawRect(dst, rect, col, thick)
	if e.Text != "" {
		size := e.Style.FontSize
		drawString(dst, rect.Min.X+6, rect.Min.Y+int(size)+4, e.Text, image.NewUniform(col), size)
	}
}

func segment(e element.Element) (image.Point, image.Point, bool) {
	if len(e.Points) < 2 {
		return image.Point{}, image.Point{}, false
	}
	return ptToImage(e.Points[0]), ptToImage(e.Points[1]), true
}

func ptToImage(p geom.Point) image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}

func toImagePoints(pts []geom.Point) []image.Point {
	out := make([]image.Point, len(pts))
	for i, p := range pts {
		out[i] = ptToImage(p)
	}
	return out
}

func rectToImage(r geom.Rect) image.Rectangle {
	r = r.Canon()
	return image.Rect(
		int(math.Floor(r.X)),
		int(math.Floor(r.Y)),
		int(math.Ceil(r.MaxX())),
		int(math.Ceil(r.MaxY())),
	)
}

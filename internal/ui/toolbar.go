package ui

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/snipmark/internal/session"
	"github.com/example/snipmark/internal/theme"
)

var toolbarWidth = 72

const (
	toolRowHeight  = 20
	swatchSize     = 18
	widthRowHeight = 16
	statusHeight   = 20
	sectionGap     = 4
)

type toolEntry struct {
	tool  session.Tool
	label string
}

// Labels lead with the single-letter keyboard shortcut for the tool.
var toolEntries = []toolEntry{
	{session.ToolSelect, "S:Select"},
	{session.ToolCrop, "R:Crop"},
	{session.ToolZoom, "Z:Zoom"},
	{session.ToolPicker, "I:Pick"},
	{session.ToolFreehand, "B:Pen"},
	{session.ToolHighlighter, "H:Highlight"},
	{session.ToolLine, "L:Line"},
	{session.ToolArrow, "A:Arrow"},
	{session.ToolRect, "X:Rect"},
	{session.ToolEllipse, "O:Ellipse"},
	{session.ToolText, "T:Text"},
	{session.ToolBlur, "U:Blur"},
	{session.ToolPixelate, "P:Pixelate"},
	{session.ToolEraser, "E:Eraser"},
	{session.ToolMeasure, "M:Measure"},
	{session.ToolNumber, "N:Number"},
	{session.ToolStamp, "K:Stamp"},
	{session.ToolCallout, "C:Callout"},
}

var palette = []color.RGBA{
	{224, 32, 32, 255},
	{240, 128, 16, 255},
	{240, 208, 16, 255},
	{32, 160, 64, 255},
	{32, 128, 224, 255},
	{128, 64, 224, 255},
	{224, 64, 160, 255},
	{255, 255, 255, 255},
	{128, 128, 128, 255},
	{0, 0, 0, 255},
}

var strokeWidths = []float64{1, 2, 3, 5, 8}

func init() {
	// Widen the toolbar to fit the longest tool label.
	d := &font.Drawer{Face: basicfont.Face7x13}
	for _, entry := range toolEntries {
		if w := d.MeasureString(entry.label).Ceil() + 10; w > toolbarWidth {
			toolbarWidth = w
		}
	}
}

func paletteCols() int { return toolbarWidth / swatchSize }

func paletteRows() int {
	cols := paletteCols()
	return (len(palette) + cols - 1) / cols
}

// toolbarHit resolves a click in the toolbar strip. Exactly one of the
// returns is meaningful; ok reports whether anything was hit.
func toolbarHit(p image.Point) (tool session.Tool, colorIdx, widthIdx int, kind hitKind, ok bool) {
	if p.X >= toolbarWidth {
		return 0, 0, 0, hitNone, false
	}
	y := p.Y
	if idx := y / toolRowHeight; idx < len(toolEntries) {
		return toolEntries[idx].tool, 0, 0, hitTool, true
	}
	y -= len(toolEntries)*toolRowHeight + sectionGap
	if y >= 0 && y < paletteRows()*swatchSize {
		col := p.X / swatchSize
		idx := (y/swatchSize)*paletteCols() + col
		if idx >= 0 && idx < len(palette) {
			return 0, idx, 0, hitColor, true
		}
		return 0, 0, 0, hitNone, false
	}
	y -= paletteRows()*swatchSize + sectionGap
	if y >= 0 {
		idx := y / widthRowHeight
		if idx >= 0 && idx < len(strokeWidths) {
			return 0, 0, idx, hitWidth, true
		}
	}
	return 0, 0, 0, hitNone, false
}

type hitKind int

const (
	hitNone hitKind = iota
	hitTool
	hitColor
	hitWidth
)

func drawToolbar(dst *image.RGBA, height int, active session.Tool, stroke color.RGBA, strokeWidth float64, th *theme.Theme) {
	strip := image.Rect(0, 0, toolbarWidth, height)
	draw.Draw(dst, strip, &image.Uniform{th.Toolbar}, image.Point{}, draw.Src)

	d := &font.Drawer{Dst: dst, Src: &image.Uniform{th.ToolbarText}, Face: basicfont.Face7x13}
	for i, entry := range toolEntries {
		row := image.Rect(0, i*toolRowHeight, toolbarWidth, (i+1)*toolRowHeight)
		if entry.tool == active {
			draw.Draw(dst, row, &image.Uniform{th.Accent}, image.Point{}, draw.Src)
		}
		d.Dot = fixed.P(5, row.Min.Y+14)
		d.DrawString(entry.label)
	}

	top := len(toolEntries)*toolRowHeight + sectionGap
	for i, col := range palette {
		x := (i % paletteCols()) * swatchSize
		y := top + (i/paletteCols())*swatchSize
		cell := image.Rect(x+1, y+1, x+swatchSize-1, y+swatchSize-1)
		draw.Draw(dst, cell, &image.Uniform{col}, image.Point{}, draw.Src)
		if col == stroke {
			outlineRect(dst, cell, th.ToolbarText)
		}
	}

	top += paletteRows()*swatchSize + sectionGap
	for i, w := range strokeWidths {
		y := top + i*widthRowHeight
		bar := image.Rect(6, y+widthRowHeight/2-int(w)/2, toolbarWidth-6, y+widthRowHeight/2+int(w+1)/2)
		draw.Draw(dst, bar, &image.Uniform{th.ToolbarText}, image.Point{}, draw.Src)
		if w == strokeWidth {
			outlineRect(dst, image.Rect(2, y, toolbarWidth-2, y+widthRowHeight), th.Accent)
		}
	}
}

func outlineRect(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), &image.Uniform{c}, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), &image.Uniform{c}, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), &image.Uniform{c}, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), &image.Uniform{c}, image.Point{}, draw.Src)
}

package render

import (
	"image"
	"log"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	fontMu    sync.Mutex
	fontFile  *opentype.Font
	faceCache = map[float64]font.Face{}
)

// faceFor returns a cached face at the given point size. Sizes are rounded
// to halves so transient scale factors during a resize do not grow the cache
// without bound.
func faceFor(size float64) font.Face {
	if size <= 0 {
		size = 16
	}
	size = math.Round(size*2) / 2
	fontMu.Lock()
	defer fontMu.Unlock()
	if face, ok := faceCache[size]; ok {
		return face
	}
	if fontFile == nil {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			log.Fatalf("parse font: %v", err)
		}
		fontFile = f
	}
	face, err := opentype.NewFace(fontFile, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
	faceCache[size] = face
	return face
}

// drawString paints text with its baseline origin at (x, y).
func drawString(img *image.RGBA, x, y int, text string, src image.Image, size float64) {
	d := &font.Drawer{Dst: img, Src: src, Face: faceFor(size)}
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}

// measureString returns the advance width of text at the given size.
func measureString(text string, size float64) int {
	d := &font.Drawer{Face: faceFor(size)}
	return d.MeasureString(text).Ceil()
}

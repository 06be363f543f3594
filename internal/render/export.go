package render

import (
	"image"
	"image/color"
	"image/draw"
)

// ExportOptions configures the decorations applied to a flattened image
// before it is written out or copied.
type ExportOptions struct {
	// Shadow adds a blurred drop shadow behind the image.
	Shadow        bool
	ShadowRadius  int
	ShadowOffset  image.Point
	ShadowOpacity float64

	// BorderWidth, when positive, frames the image with a solid border.
	BorderWidth int
	BorderColor color.RGBA

	// CornerRadius, when positive, rounds the image corners to transparency.
	CornerRadius int
}

// DefaultExportOptions returns a conservative decoration set that works well
// with most screenshots.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		ShadowRadius:  24,
		ShadowOffset:  image.Pt(16, 16),
		ShadowOpacity: 0.55,
		BorderColor:   color.RGBA{64, 64, 64, 255},
	}
}

// Decorate applies corner rounding, then the border, then the drop shadow.
// The result always has a zero-based origin. The returned offset reports
// where the original top-left corner ended up, so viewports can stay stable.
func Decorate(img *image.RGBA, opts ExportOptions) (*image.RGBA, image.Point) {
	if img == nil || img.Bounds().Empty() {
		return img, image.Point{}
	}
	out := img
	if opts.CornerRadius > 0 {
		out = roundCorners(out, opts.CornerRadius)
	}
	if opts.BorderWidth > 0 {
		out = addBorder(out, opts.BorderWidth, opts.BorderColor, opts.CornerRadius)
	}
	if opts.Shadow && opts.ShadowOpacity > 0 {
		return dropShadow(out, opts)
	}
	return out, image.Point{}
}

// roundCorners returns a copy of img with the four corners cleared to
// transparency outside a quarter circle of the given radius.
func roundCorners(img *image.RGBA, radius int) *image.RGBA {
	b := img.Bounds()
	if radius > b.Dx()/2 {
		radius = b.Dx() / 2
	}
	if radius > b.Dy()/2 {
		radius = b.Dy() / 2
	}
	out := image.NewRGBA(b)
	copy(out.Pix, img.Pix)
	r2 := radius * radius
	clear := func(x, y int) {
		off := out.PixOffset(x, y)
		out.Pix[off] = 0
		out.Pix[off+1] = 0
		out.Pix[off+2] = 0
		out.Pix[off+3] = 0
	}
	for dy := 0; dy < radius; dy++ {
		for dx := 0; dx < radius; dx++ {
			// Distance from the corner arc center.
			cx := radius - 1 - dx
			cy := radius - 1 - dy
			if cx*cx+cy*cy > r2 {
				clear(b.Min.X+dx, b.Min.Y+dy)
				clear(b.Max.X-1-dx, b.Min.Y+dy)
				clear(b.Min.X+dx, b.Max.Y-1-dy)
				clear(b.Max.X-1-dx, b.Max.Y-1-dy)
			}
		}
	}
	return out
}

// addBorder expands the canvas by width on every side and fills the frame
// with the border color. When the corners are rounded the frame follows the
// same radius.
func addBorder(img *image.RGBA, width int, col color.RGBA, cornerRadius int) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()+2*width, b.Dy()+2*width))
	draw.Draw(out, out.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
	if cornerRadius > 0 {
		out = roundCorners(out, cornerRadius+width)
	}
	draw.Draw(out, image.Rect(width, width, width+b.Dx(), width+b.Dy()), img, b.Min, draw.Over)
	return out
}

// dropShadow composites img over a blurred silhouette of its own alpha
// channel, expanding the canvas to fit the blur and offset.
func dropShadow(img *image.RGBA, opts ExportOptions) (*image.RGBA, image.Point) {
	opacity := opts.ShadowOpacity
	if opacity > 1 {
		opacity = 1
	}
	radius := opts.ShadowRadius
	if radius < 0 {
		radius = 0
	}

	srcBounds := img.Bounds()
	paddedBounds := srcBounds
	if radius > 0 {
		paddedBounds = paddedBounds.Inset(-radius)
	}
	shadowBounds := paddedBounds.Add(opts.ShadowOffset)
	compositeBounds := srcBounds.Union(shadowBounds)
	dstRect := compositeBounds.Sub(compositeBounds.Min)
	if dstRect.Dx() <= 0 || dstRect.Dy() <= 0 {
		return img, image.Point{}
	}

	shift := srcBounds.Min.Sub(compositeBounds.Min)
	shadowOrigin := shadowBounds.Min.Sub(compositeBounds.Min)

	mask := image.NewGray(paddedBounds.Sub(paddedBounds.Min))
	for y := srcBounds.Min.Y; y < srcBounds.Max.Y; y++ {
		for x := srcBounds.Min.X; x < srcBounds.Max.X; x++ {
			a := img.RGBAAt(x, y).A
			if a == 0 {
				continue
			}
			mask.SetGray(x-paddedBounds.Min.X, y-paddedBounds.Min.Y, color.Gray{Y: a})
		}
	}
	blurred := blurGray(mask, radius)

	dst := image.NewRGBA(dstRect)
	draw.Draw(dst, dst.Bounds(), image.Transparent, image.Point{}, draw.Src)
	shadowAlpha := uint8(opacity*255 + 0.5)
	if shadowAlpha > 0 {
		draw.DrawMask(dst, blurred.Bounds().Add(shadowOrigin),
			image.NewUniform(color.RGBA{0, 0, 0, shadowAlpha}), image.Point{},
			blurred, blurred.Bounds().Min, draw.Over)
	}
	draw.Draw(dst, srcBounds.Sub(compositeBounds.Min), img, srcBounds.Min, draw.Over)
	return dst, shift
}

func blurGray(src *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		out := image.NewGray(src.Bounds())
		copy(out.Pix, src.Pix)
		return out
	}
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	tmp := image.NewGray(bounds)
	dst := image.NewGray(bounds)

	for y := 0; y < h; y++ {
		rowStart := y * src.Stride
		tmpStart := y * tmp.Stride
		prefix := make([]int, w+1)
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(src.Pix[rowStart+x])
		}
		for x := 0; x < w; x++ {
			x0 := x - radius
			if x0 < 0 {
				x0 = 0
			}
			x1 := x + radius
			if x1 >= w {
				x1 = w - 1
			}
			sum := prefix[x1+1] - prefix[x0]
			count := x1 - x0 + 1
			tmp.Pix[tmpStart+x] = uint8(sum / count)
		}
	}

	for x := 0; x < w; x++ {
		prefix := make([]int, h+1)
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0 := y - radius
			if y0 < 0 {
				y0 = 0
			}
			y1 := y + radius
			if y1 >= h {
				y1 = h - 1
			}
			sum := prefix[y1+1] - prefix[y0]
			count := y1 - y0 + 1
			dst.Pix[y*dst.Stride+x] = uint8(sum / count)
		}
	}

	return dst
}

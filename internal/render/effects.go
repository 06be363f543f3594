package render

import (
	"image"
)

// boxBlurRegion box-blurs the pixels of src inside region and writes the
// result into dst at the same coordinates. The blur samples src only, so
// annotations already painted on dst do not bleed into the effect. Separable
// prefix sums keep it linear in the region size.
func boxBlurRegion(dst, src *image.RGBA, region image.Rectangle, radius int) {
	region = region.Intersect(src.Bounds()).Intersect(dst.Bounds())
	if region.Empty() {
		return
	}
	if radius <= 0 {
		radius = 1
	}
	w := region.Dx()
	h := region.Dy()

	// Horizontal pass into a scratch buffer, one channel at a time.
	tmp := make([]uint8, w*h*4)
	for y := 0; y < h; y++ {
		sy := region.Min.Y + y
		rowStart := src.PixOffset(region.Min.X, sy)
		for ch := 0; ch < 4; ch++ {
			prefix := make([]int, w+1)
			for x := 0; x < w; x++ {
				prefix[x+1] = prefix[x] + int(src.Pix[rowStart+x*4+ch])
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
				tmp[(y*w+x)*4+ch] = uint8(sum / count)
			}
		}
	}

	// Vertical pass from the scratch buffer into dst.
	for x := 0; x < w; x++ {
		for ch := 0; ch < 4; ch++ {
			prefix := make([]int, h+1)
			for y := 0; y < h; y++ {
				prefix[y+1] = prefix[y] + int(tmp[(y*w+x)*4+ch])
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
				off := dst.PixOffset(region.Min.X+x, region.Min.Y+y)
				dst.Pix[off+ch] = uint8(sum / count)
			}
		}
	}
}

// pixelateRegion replaces region in dst with blocks averaged from src. Block
// lattices anchor at the region origin so a moved region re-pixelates from
// the underlying bitmap rather than compounding.
func pixelateRegion(dst, src *image.RGBA, region image.Rectangle, block int) {
	region = region.Intersect(src.Bounds()).Intersect(dst.Bounds())
	if region.Empty() {
		return
	}
	if block < 2 {
		block = 2
	}
	for by := region.Min.Y; by < region.Max.Y; by += block {
		for bx := region.Min.X; bx < region.Max.X; bx += block {
			cell := image.Rect(bx, by, bx+block, by+block).Intersect(region)
			var rSum, gSum, bSum, aSum, n int
			for y := cell.Min.Y; y < cell.Max.Y; y++ {
				off := src.PixOffset(cell.Min.X, y)
				for x := cell.Min.X; x < cell.Max.X; x++ {
					rSum += int(src.Pix[off])
					gSum += int(src.Pix[off+1])
					bSum += int(src.Pix[off+2])
					aSum += int(src.Pix[off+3])
					off += 4
					n++
				}
			}
			if n == 0 {
				continue
			}
			r8 := uint8(rSum / n)
			g8 := uint8(gSum / n)
			b8 := uint8(bSum / n)
			a8 := uint8(aSum / n)
			for y := cell.Min.Y; y < cell.Max.Y; y++ {
				off := dst.PixOffset(cell.Min.X, y)
				for x := cell.Min.X; x < cell.Max.X; x++ {
					dst.Pix[off] = r8
					dst.Pix[off+1] = g8
					dst.Pix[off+2] = b8
					dst.Pix[off+3] = a8
					off += 4
				}
			}
		}
	}
}

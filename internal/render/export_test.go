package render

import (
	"image"
	"image/color"
	"testing"
)

func solid(w, h int, col color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, col)
		}
	}
	return img
}

func TestDecorateShadowExpandsBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	subject := image.Pt(5, 5)
	img.Set(subject.X, subject.Y, color.RGBA{R: 255, A: 255})

	opts := ExportOptions{Shadow: true, ShadowRadius: 4, ShadowOffset: image.Pt(8, 6), ShadowOpacity: 0.5}
	out, _ := Decorate(img, opts)
	expected := image.Rect(0, 0, 22, 20)
	if !out.Bounds().Eq(expected) {
		t.Fatalf("unexpected bounds %v, want %v", out.Bounds(), expected)
	}
	shadowPt := subject.Add(opts.ShadowOffset)
	if out.RGBAAt(shadowPt.X, shadowPt.Y).A == 0 {
		t.Fatalf("expected shadow alpha at %v", shadowPt)
	}
}

func TestDecorateNoShadowWhenOpacityZero(t *testing.T) {
	fill := color.RGBA{R: 200, G: 100, B: 50, A: 255}
	img := solid(4, 4, fill)
	out, _ := Decorate(img, ExportOptions{Shadow: true, ShadowRadius: 12, ShadowOffset: image.Pt(20, 10)})
	if !out.Bounds().Eq(img.Bounds()) {
		t.Fatalf("bounds changed unexpectedly: %v vs %v", out.Bounds(), img.Bounds())
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := out.RGBAAt(x, y); got != fill {
				t.Fatalf("pixel mismatch at (%d,%d): got %+v want %+v", x, y, got, fill)
			}
		}
	}
}

func TestDecorateShadowBlursAlpha(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{A: 255})
	opts := ExportOptions{Shadow: true, ShadowRadius: 2, ShadowOffset: image.Pt(3, 0), ShadowOpacity: 1}

	out, _ := Decorate(img, opts)
	if out.Bounds().Dx() <= img.Bounds().Dx() {
		t.Fatalf("expected wider output bounds")
	}
	base := img.Bounds().Min.Add(opts.ShadowOffset)
	baseAlpha := out.RGBAAt(base.X, base.Y).A
	if baseAlpha == 0 {
		t.Fatal("expected alpha at base shadow location")
	}
	if out.RGBAAt(base.X+1, base.Y).A == 0 {
		t.Fatalf("expected blurred alpha to reach neighbor, base alpha=%d", baseAlpha)
	}
}

func TestDecorateBorder(t *testing.T) {
	inner := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	frame := color.RGBA{R: 64, G: 64, B: 64, A: 255}
	img := solid(6, 6, inner)
	out, _ := Decorate(img, ExportOptions{BorderWidth: 3, BorderColor: frame})
	if got := out.Bounds(); got.Dx() != 12 || got.Dy() != 12 {
		t.Fatalf("bounds = %v, want 12x12", got)
	}
	if got := out.RGBAAt(0, 0); got != frame {
		t.Errorf("corner = %+v, want frame color", got)
	}
	if got := out.RGBAAt(6, 6); got != inner {
		t.Errorf("center = %+v, want original content", got)
	}
}

func TestDecorateRoundedCorners(t *testing.T) {
	img := solid(20, 20, color.RGBA{R: 255, A: 255})
	out, _ := Decorate(img, ExportOptions{CornerRadius: 6})
	if out.RGBAAt(0, 0).A != 0 {
		t.Error("corner pixel should be transparent")
	}
	if out.RGBAAt(10, 10).A == 0 {
		t.Error("center pixel should be opaque")
	}
	if out.RGBAAt(10, 0).A == 0 {
		t.Error("edge midpoint should be opaque")
	}
}

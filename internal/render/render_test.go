package render

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/example/snipmark/internal/element"
	"github.com/example/snipmark/internal/geom"
	"github.com/example/snipmark/internal/scene"
)

func testBase() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 2), uint8(y * 2), 100, 255})
		}
	}
	return img
}

func sceneWith(t *testing.T, elems ...element.Element) *scene.Scene {
	t.Helper()
	s := scene.New(geom.Rect{W: 100, H: 100})
	for _, e := range elems {
		if err := s.Insert(e); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func filled(id string, r geom.Rect, fill color.RGBA) element.Element {
	st := element.DefaultStyle()
	st.HasFill = true
	st.Fill = fill
	st.Stroke = fill
	return element.Element{ID: id, Kind: element.Rectangle, Rect: r, Style: st}
}

func TestRenderDeterministic(t *testing.T) {
	r := New(testBase())
	s := sceneWith(t,
		filled("a", geom.Rect{X: 10, Y: 10, W: 30, H: 30}, color.RGBA{255, 0, 0, 255}),
		element.Element{
			ID: "b", Kind: element.Arrow,
			Points: []geom.Point{geom.Pt(5, 90), geom.Pt(80, 20)},
			Style:  element.DefaultStyle(),
		},
		element.Element{
			ID: "c", Kind: element.Blur,
			Rect:  geom.Rect{X: 50, Y: 50, W: 30, H: 30},
			Style: element.DefaultStyle(),
		},
	)
	first := r.Render(s, nil)
	second := r.Render(s, nil)
	if !bytes.Equal(first.Pix, second.Pix) {
		t.Error("two renders of the same scene differ")
	}
}

func TestRenderLeavesBaseUntouched(t *testing.T) {
	base := testBase()
	before := append([]uint8(nil), base.Pix...)
	r := New(base)
	s := sceneWith(t,
		filled("a", geom.Rect{X: 0, Y: 0, W: 100, H: 100}, color.RGBA{0, 255, 0, 255}),
		element.Element{
			ID: "b", Kind: element.Pixelate,
			Rect:  geom.Rect{X: 20, Y: 20, W: 40, H: 40},
			Style: element.DefaultStyle(),
		},
	)
	_ = r.Render(s, nil)
	if !bytes.Equal(before, base.Pix) {
		t.Error("rendering mutated the base bitmap")
	}
}

func TestRenderPaintOrder(t *testing.T) {
	r := New(testBase())
	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	s := sceneWith(t,
		filled("under", geom.Rect{X: 10, Y: 10, W: 40, H: 40}, red),
		filled("over", geom.Rect{X: 30, Y: 30, W: 40, H: 40}, blue),
	)
	out := r.Render(s, nil)
	if got := out.RGBAAt(40, 40); got != blue {
		t.Errorf("overlap pixel = %+v, want the upper element's %+v", got, blue)
	}
	if got := out.RGBAAt(15, 15); got != red {
		t.Errorf("non-overlap pixel = %+v, want %+v", got, red)
	}
	// Raising the lower element flips the overlap.
	if err := s.Reorder("under", 2); err != nil {
		t.Fatal(err)
	}
	out = r.Render(s, nil)
	if got := out.RGBAAt(40, 40); got != red {
		t.Errorf("after reorder, overlap pixel = %+v, want %+v", got, red)
	}
}

func TestRenderLiveElementOnTop(t *testing.T) {
	r := New(testBase())
	red := color.RGBA{255, 0, 0, 255}
	green := color.RGBA{0, 128, 0, 255}
	s := sceneWith(t, filled("a", geom.Rect{X: 10, Y: 10, W: 40, H: 40}, red))
	live := filled("live", geom.Rect{X: 10, Y: 10, W: 40, H: 40}, green)
	out := r.Render(s, &live)
	if got := out.RGBAAt(20, 20); got != green {
		t.Errorf("live pixel = %+v, want %+v", got, green)
	}
}

func TestBlurRecomputesFromBase(t *testing.T) {
	base := testBase()
	r := New(base)
	blur := element.Element{
		ID: "b", Kind: element.Blur,
		Rect:  geom.Rect{X: 10, Y: 10, W: 40, H: 40},
		Style: element.DefaultStyle(),
	}
	// An annotation under the blur region must not bleed into the effect,
	// because the effect samples the original bitmap.
	s := sceneWith(t,
		filled("a", geom.Rect{X: 10, Y: 10, W: 40, H: 40}, color.RGBA{255, 255, 255, 255}),
		blur,
	)
	out := r.Render(s, nil)
	only := sceneWith(t, blur)
	want := r.Render(only, nil)
	for y := 15; y < 45; y += 10 {
		for x := 15; x < 45; x += 10 {
			if out.RGBAAt(x, y) != want.RGBAAt(x, y) {
				t.Fatalf("blur at (%d,%d) differs when an annotation sits underneath", x, y)
			}
		}
	}
}

func TestBlurUniformRegionStaysUniform(t *testing.T) {
	img := solid(50, 50, color.RGBA{90, 120, 150, 255})
	dst := image.NewRGBA(img.Bounds())
	copy(dst.Pix, img.Pix)
	boxBlurRegion(dst, img, image.Rect(10, 10, 40, 40), 5)
	want := color.RGBA{90, 120, 150, 255}
	for y := 10; y < 40; y++ {
		for x := 10; x < 40; x++ {
			if got := dst.RGBAAt(x, y); got != want {
				t.Fatalf("blurred uniform pixel (%d,%d) = %+v", x, y, got)
			}
		}
	}
}

func TestPixelateAveragesBlocks(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 30, 30))
	// Left half black, right half white inside one block.
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			c := color.RGBA{0, 0, 0, 255}
			if x >= 5 {
				c = color.RGBA{255, 255, 255, 255}
			}
			img.Set(x, y, c)
		}
	}
	dst := image.NewRGBA(img.Bounds())
	copy(dst.Pix, img.Pix)
	pixelateRegion(dst, img, image.Rect(0, 0, 10, 10), 10)
	got := dst.RGBAAt(0, 0)
	if got == (color.RGBA{0, 0, 0, 255}) || got == (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("block not averaged: %+v", got)
	}
	if got != dst.RGBAAt(9, 9) {
		t.Error("pixels within one block differ")
	}
}

func TestFlattenCropsToClipBounds(t *testing.T) {
	r := New(testBase())
	s := scene.New(geom.Rect{X: 20, Y: 30, W: 50, H: 40})
	out := r.Flatten(s)
	if got := out.Bounds(); got.Dx() != 50 || got.Dy() != 40 {
		t.Fatalf("flattened bounds = %v, want 50x40", got)
	}
	// Pixel (0,0) of the output is (20,30) of the base.
	if got, want := out.RGBAAt(0, 0), (color.RGBA{40, 60, 100, 255}); got != want {
		t.Errorf("origin pixel = %+v, want %+v", got, want)
	}
}

func TestHighlighterIsTranslucent(t *testing.T) {
	base := solid(60, 60, color.RGBA{0, 0, 0, 255})
	r := New(base)
	st := element.DefaultStyle().ForKind(element.Highlighter)
	st.Stroke = color.RGBA{255, 255, 0, 255}
	s := sceneWith(t, element.Element{
		ID: "h", Kind: element.Highlighter,
		Points: []geom.Point{geom.Pt(10, 30), geom.Pt(50, 30)},
		Style:  st,
	})
	out := r.Render(s, nil)
	got := out.RGBAAt(30, 30)
	if got == (color.RGBA{0, 0, 0, 255}) {
		t.Fatal("highlighter left no mark")
	}
	if got.R == 255 && got.G == 255 {
		t.Fatalf("highlighter painted opaque: %+v", got)
	}
}

package element

import (
	"math"
	"testing"

	"github.com/example/snipmark/internal/geom"
)

func rectElement(x, y, w, h float64) Element {
	return Element{
		ID:    NewID(),
		Kind:  Rectangle,
		Rect:  geom.Rect{X: x, Y: y, W: w, H: h},
		Style: DefaultStyle(),
	}
}

func TestBoundsPerKind(t *testing.T) {
	stroke := Element{
		Kind:   Freehand,
		Points: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}},
		Style:  Style{StrokeWidth: 4},
	}
	got := stroke.Bounds()
	want := geom.Rect{X: -2, Y: -2, W: 14, H: 14}
	if got != want {
		t.Errorf("stroke bounds = %+v, want %+v", got, want)
	}

	region := rectElement(5, 6, 7, 8)
	if got := region.Bounds(); got != (geom.Rect{X: 5, Y: 6, W: 7, H: 8}) {
		t.Errorf("region bounds = %+v", got)
	}

	num := Element{Kind: Number, Points: []geom.Point{{X: 50, Y: 50}}, Number: 3}
	b := num.Bounds()
	if b.Center() != geom.Pt(50, 50) {
		t.Errorf("number marker not centered: %+v", b)
	}
}

func TestHitTestRectangleInterior(t *testing.T) {
	e := rectElement(10, 10, 30, 30)
	if !e.HitTest(geom.Pt(25, 25), 0) {
		t.Fatal("interior point should hit with zero tolerance")
	}
	if e.HitTest(geom.Pt(45, 25), 0) {
		t.Fatal("outside point should miss")
	}
	if !e.HitTest(geom.Pt(42, 25), 3) {
		t.Fatal("tolerance should extend the hit region")
	}
}

func TestHitTestLineUsesStrokeWidth(t *testing.T) {
	e := Element{
		Kind:   Line,
		Points: []geom.Point{{X: 0, Y: 0}, {X: 100, Y: 0}},
		Style:  Style{StrokeWidth: 8},
	}
	if !e.HitTest(geom.Pt(50, 4), 0) {
		t.Fatal("point inside stroke width should hit")
	}
	if e.HitTest(geom.Pt(50, 10), 0) {
		t.Fatal("point beyond stroke width should miss")
	}
	if !e.HitTest(geom.Pt(50, 9), 5) {
		t.Fatal("tolerance should widen the stroke")
	}
}

func TestCloneGetsFreshIdentity(t *testing.T) {
	e := Element{
		ID:      NewID(),
		Kind:    Freehand,
		Points:  []geom.Point{{X: 1, Y: 2}, {X: 3, Y: 4}},
		GroupID: "g1",
		Style:   DefaultStyle(),
	}
	c := e.Clone()
	if c.ID == e.ID {
		t.Fatal("clone must get a new id")
	}
	if c.GroupID != "" {
		t.Fatal("clone must be detached from the group")
	}
	c.Points[0] = geom.Pt(99, 99)
	if e.Points[0] != geom.Pt(1, 2) {
		t.Fatal("clone shares point storage with original")
	}
}

func TestApplyDeltaTranslate(t *testing.T) {
	e := rectElement(10, 10, 20, 20)
	moved := e.Translate(5, -3)
	if moved.Rect != (geom.Rect{X: 15, Y: 7, W: 20, H: 20}) {
		t.Fatalf("moved rect = %+v", moved.Rect)
	}
	// Original is untouched.
	if e.Rect != (geom.Rect{X: 10, Y: 10, W: 20, H: 20}) {
		t.Fatal("ApplyDelta mutated the receiver")
	}
}

func TestApplyDeltaTextScalesFont(t *testing.T) {
	e := Element{
		Kind:   Text,
		Points: []geom.Point{{X: 10, Y: 10}},
		Text:   "hello",
		Style:  Style{FontSize: 16, StrokeWidth: 2},
	}
	scaled := e.ApplyDelta(geom.Scaling(2, 2))
	if math.Abs(scaled.Style.FontSize-32) > 1e-9 {
		t.Fatalf("font size = %v, want 32", scaled.Style.FontSize)
	}
	if scaled.Points[0] != geom.Pt(20, 20) {
		t.Fatalf("anchor = %v", scaled.Points[0])
	}
}

func TestApplyDeltaFreehandScalesPoints(t *testing.T) {
	e := Element{
		Kind:   Freehand,
		Points: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 10}},
		Style:  Style{StrokeWidth: 2},
	}
	scaled := e.ApplyDelta(geom.ScaleAbout(2, 2, geom.Pt(0, 0)))
	if scaled.Points[1] != geom.Pt(20, 20) {
		t.Fatalf("scaled point = %v", scaled.Points[1])
	}
	if math.Abs(scaled.Style.StrokeWidth-4) > 1e-9 {
		t.Fatalf("stroke width = %v, want 4", scaled.Style.StrokeWidth)
	}
}

func TestClipTo(t *testing.T) {
	clip := geom.Rect{X: 0, Y: 0, W: 50, H: 50}

	inside := rectElement(10, 10, 20, 20)
	got, ok := inside.ClipTo(clip)
	if !ok || got.Rect != inside.Rect {
		t.Fatalf("inside element should be unchanged, got %+v ok=%v", got.Rect, ok)
	}

	outside := rectElement(60, 60, 10, 10)
	if _, ok := outside.ClipTo(clip); ok {
		t.Fatal("fully outside element should not survive")
	}

	straddle := rectElement(40, 40, 20, 20)
	got, ok = straddle.ClipTo(clip)
	if !ok {
		t.Fatal("straddling element should survive")
	}
	want := geom.Rect{X: 40, Y: 40, W: 10, H: 10}
	if got.Rect != want {
		t.Fatalf("clipped rect = %+v, want %+v", got.Rect, want)
	}

	stroke := Element{
		Kind:   Freehand,
		Points: []geom.Point{{X: 10, Y: 10}, {X: 45, Y: 45}, {X: 70, Y: 70}},
		Style:  DefaultStyle(),
	}
	got, ok = stroke.ClipTo(clip)
	if !ok || len(got.Points) != 2 {
		t.Fatalf("stroke clip kept %d points, ok=%v", len(got.Points), ok)
	}

	// A line crossing the boundary keeps the inside part only; the stored
	// endpoint moves to the crossing instead of staying outside the clip.
	line := Element{
		Kind:   Line,
		Points: []geom.Point{{X: 10, Y: 10}, {X: 90, Y: 90}},
		Style:  DefaultStyle(),
	}
	got, ok = line.ClipTo(clip)
	if !ok {
		t.Fatal("straddling line should survive")
	}
	if got.Points[0] != (geom.Point{X: 10, Y: 10}) || got.Points[1] != (geom.Point{X: 50, Y: 50}) {
		t.Fatalf("clipped line = %v, want (10,10)-(50,50)", got.Points)
	}

	miss := Element{
		Kind:   Arrow,
		Points: []geom.Point{{X: 60, Y: 0}, {X: 100, Y: 40}},
		Style:  DefaultStyle(),
	}
	if _, ok := miss.ClipTo(clip); ok {
		t.Fatal("segment passing outside the clip should not survive")
	}
}

func TestStyleForKind(t *testing.T) {
	base := Style{Stroke: DefaultStyle().Stroke, StrokeWidth: 2, Opacity: 1}
	hl := base.ForKind(Highlighter)
	if hl.Opacity >= 1 {
		t.Fatal("highlighter should reduce opacity")
	}
	if hl.StrokeWidth != 6 {
		t.Fatalf("highlighter width = %v, want 6", hl.StrokeWidth)
	}
	if base.ForKind(Rectangle) != base {
		t.Fatal("plain kinds keep the base style")
	}
}

func TestNumberRadiusGrowsWithDigits(t *testing.T) {
	if NumberRadius(5) >= NumberRadius(55) {
		t.Fatal("two digit markers should be larger")
	}
	if NumberRadius(1) < 14 {
		t.Fatal("minimum radius is 14")
	}
}

package geom

import (
	"math"
	"testing"
)

func TestRectCanon(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: -4, H: -6}.Canon()
	want := Rect{X: 6, Y: 14, W: 4, H: 6}
	if r != want {
		t.Fatalf("Canon() = %+v, want %+v", r, want)
	}
	if r != r.Canon() {
		t.Fatal("Canon is not idempotent")
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 10, H: 10}
	cases := []struct {
		p    Point
		want bool
	}{
		{Pt(5, 5), true},
		{Pt(0, 0), true},
		{Pt(10, 10), true},
		{Pt(10.01, 5), false},
		{Pt(-0.01, 5), false},
	}
	for _, tc := range cases {
		if got := r.Contains(tc.p); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestRectIntersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	b := Rect{X: 5, Y: 5, W: 10, H: 10}
	got := a.Intersect(b)
	want := Rect{X: 5, Y: 5, W: 5, H: 5}
	if got != want {
		t.Fatalf("Intersect = %+v, want %+v", got, want)
	}
	if !a.Intersect(Rect{X: 20, Y: 20, W: 1, H: 1}).Empty() {
		t.Fatal("disjoint rects should intersect empty")
	}
}

func TestRectUnionIdentity(t *testing.T) {
	r := Rect{X: 3, Y: 4, W: 5, H: 6}
	if got := (Rect{}).Union(r); got != r {
		t.Fatalf("empty union = %+v, want %+v", got, r)
	}
	if got := r.Union(Rect{}); got != r {
		t.Fatalf("union empty = %+v, want %+v", got, r)
	}
}

func TestRectOverlapsIntersectingOnly(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	if !a.Overlaps(Rect{X: 9, Y: 9, W: 5, H: 5}) {
		t.Fatal("expected overlap")
	}
	if a.Overlaps(Rect{X: 11, Y: 0, W: 5, H: 5}) {
		t.Fatal("expected no overlap")
	}
}

func TestPointSegmentDist(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 0)
	cases := []struct {
		p    Point
		want float64
	}{
		{Pt(5, 3), 3},
		{Pt(-4, 0), 4},
		{Pt(13, 4), 5},
		{Pt(5, 0), 0},
	}
	for _, tc := range cases {
		if got := PointSegmentDist(tc.p, a, b); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("dist(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
	// Degenerate segment falls back to point distance.
	if got := PointSegmentDist(Pt(3, 4), Pt(0, 0), Pt(0, 0)); math.Abs(got-5) > 1e-9 {
		t.Errorf("degenerate dist = %v, want 5", got)
	}
}

func TestClipSegment(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 50, H: 50}
	cases := []struct {
		name   string
		a, b   Point
		wantA  Point
		wantB  Point
		inside bool
	}{
		{"fully inside", Pt(10, 10), Pt(40, 40), Pt(10, 10), Pt(40, 40), true},
		{"crosses one edge", Pt(10, 10), Pt(90, 90), Pt(10, 10), Pt(50, 50), true},
		{"crosses two edges", Pt(-10, 25), Pt(60, 25), Pt(0, 25), Pt(50, 25), true},
		{"fully outside", Pt(60, 60), Pt(80, 90), Point{}, Point{}, false},
		{"parallel outside", Pt(-5, 60), Pt(70, 60), Point{}, Point{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, b, ok := ClipSegment(tc.a, tc.b, r)
			if ok != tc.inside {
				t.Fatalf("ok = %v, want %v", ok, tc.inside)
			}
			if a != tc.wantA || b != tc.wantB {
				t.Errorf("clipped to %v-%v, want %v-%v", a, b, tc.wantA, tc.wantB)
			}
		})
	}
}

func TestMatrixMulApply(t *testing.T) {
	m := Translation(10, 20).Mul(Scaling(2, 3))
	got := m.Apply(Pt(1, 1))
	want := Pt(12, 23)
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
		t.Fatalf("Apply = %v, want %v", got, want)
	}
}

func TestMatrixInvertRoundTrip(t *testing.T) {
	m := Translation(5, -3).Mul(Scaling(2, 0.5))
	p := Pt(7, 11)
	back := m.Invert().Apply(m.Apply(p))
	if math.Abs(back.X-p.X) > 1e-9 || math.Abs(back.Y-p.Y) > 1e-9 {
		t.Fatalf("invert round trip = %v, want %v", back, p)
	}
	if !Identity().IsIdentity() {
		t.Fatal("Identity should report IsIdentity")
	}
}

func TestScaleAboutKeepsAnchorFixed(t *testing.T) {
	anchor := Pt(10, 10)
	m := ScaleAbout(2, 3, anchor)
	got := m.Apply(anchor)
	if math.Abs(got.X-anchor.X) > 1e-9 || math.Abs(got.Y-anchor.Y) > 1e-9 {
		t.Fatalf("anchor moved to %v", got)
	}
	moved := m.Apply(Pt(11, 11))
	want := Pt(12, 13)
	if math.Abs(moved.X-want.X) > 1e-9 || math.Abs(moved.Y-want.Y) > 1e-9 {
		t.Fatalf("scaled point = %v, want %v", moved, want)
	}
}

func TestApplyRectBounds(t *testing.T) {
	m := Scaling(2, 2)
	got := m.ApplyRect(Rect{X: 1, Y: 1, W: 2, H: 3})
	want := Rect{X: 2, Y: 2, W: 4, H: 6}
	if got != want {
		t.Fatalf("ApplyRect = %+v, want %+v", got, want)
	}
}

func TestBoundsOf(t *testing.T) {
	pts := []Point{{3, 7}, {1, 9}, {5, 2}}
	got := BoundsOf(pts)
	want := Rect{X: 1, Y: 2, W: 4, H: 7}
	if got != want {
		t.Fatalf("BoundsOf = %+v, want %+v", got, want)
	}
}

// Package geom provides the 2D geometry primitives used by the annotation
// editor: points, rectangles and affine transforms, plus the distance
// helpers backing hit testing.
package geom

import "math"

// Point is a position in the captured-image coordinate space
// (origin top-left, Y growing downward).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p minus q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect is an axis-aligned rectangle. W and H may be negative while a drag is
// in progress; call Canon before using a rect for containment or area math.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// RectFromPoints returns the canonical rectangle spanning a and b.
func RectFromPoints(a, b Point) Rect {
	return Rect{X: a.X, Y: a.Y, W: b.X - a.X, H: b.Y - a.Y}.Canon()
}

// Canon returns r with non-negative width and height, flipping the origin as
// needed so the rectangle covers the same area.
func (r Rect) Canon() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// Empty reports whether r has zero or negative area after canonicalization.
func (r Rect) Empty() bool {
	r = r.Canon()
	return r.W <= 0 || r.H <= 0
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Center returns the midpoint of r.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	r = r.Canon()
	return p.X >= r.X && p.X <= r.MaxX() && p.Y >= r.Y && p.Y <= r.MaxY()
}

// Overlaps reports whether r and s share any area. Touching edges count as
// overlapping, which is the behavior marquee selection wants.
func (r Rect) Overlaps(s Rect) bool {
	r = r.Canon()
	s = s.Canon()
	return r.X <= s.MaxX() && s.X <= r.MaxX() && r.Y <= s.MaxY() && s.Y <= r.MaxY()
}

// Intersect returns the overlapping region of r and s, or a zero Rect when
// they do not overlap.
func (r Rect) Intersect(s Rect) Rect {
	r = r.Canon()
	s = s.Canon()
	x0 := math.Max(r.X, s.X)
	y0 := math.Max(r.Y, s.Y)
	x1 := math.Min(r.MaxX(), s.MaxX())
	y1 := math.Min(r.MaxY(), s.MaxY())
	if x1 < x0 || y1 < y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Union returns the smallest rectangle covering both r and s. An empty rect
// acts as the identity so unions can be folded over element lists.
func (r Rect) Union(s Rect) Rect {
	if r.Empty() {
		return s.Canon()
	}
	if s.Empty() {
		return r.Canon()
	}
	r = r.Canon()
	s = s.Canon()
	x0 := math.Min(r.X, s.X)
	y0 := math.Min(r.Y, s.Y)
	x1 := math.Max(r.MaxX(), s.MaxX())
	y1 := math.Max(r.MaxY(), s.MaxY())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Inset returns r shrunk by d on every side. Negative d grows the rect.
func (r Rect) Inset(d float64) Rect {
	r = r.Canon()
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// Translate returns r shifted by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// ClipSegment returns the portion of segment a-b inside r and reports
// whether any of it survives. Endpoints already inside come back unchanged;
// endpoints outside are moved to the boundary crossing (Liang-Barsky).
func ClipSegment(a, b Point, r Rect) (Point, Point, bool) {
	r = r.Canon()
	dx := b.X - a.X
	dy := b.Y - a.Y
	t0, t1 := 0.0, 1.0
	edges := [4]struct{ p, q float64 }{
		{-dx, a.X - r.X},
		{dx, r.MaxX() - a.X},
		{-dy, a.Y - r.Y},
		{dy, r.MaxY() - a.Y},
	}
	for _, e := range edges {
		if e.p == 0 {
			if e.q < 0 {
				return Point{}, Point{}, false
			}
			continue
		}
		t := e.q / e.p
		if e.p < 0 {
			if t > t1 {
				return Point{}, Point{}, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return Point{}, Point{}, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}
	return Point{a.X + t0*dx, a.Y + t0*dy}, Point{a.X + t1*dx, a.Y + t1*dy}, true
}

// PointSegmentDist returns the distance from p to the segment a-b.
func PointSegmentDist(p, a, b Point) float64 {
	abx := b.X - a.X
	aby := b.Y - a.Y
	l2 := abx*abx + aby*aby
	if l2 == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*abx + (p.Y-a.Y)*aby) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Dist(Point{a.X + t*abx, a.Y + t*aby})
}

// PolylineDist returns the minimum distance from p to any segment of the
// polyline. A single-point polyline degenerates to point distance.
func PolylineDist(p Point, pts []Point) float64 {
	if len(pts) == 0 {
		return math.Inf(1)
	}
	if len(pts) == 1 {
		return p.Dist(pts[0])
	}
	best := math.Inf(1)
	for i := 1; i < len(pts); i++ {
		if d := PointSegmentDist(p, pts[i-1], pts[i]); d < best {
			best = d
		}
	}
	return best
}

// BoundsOf returns the canonical bounding rectangle of pts.
func BoundsOf(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

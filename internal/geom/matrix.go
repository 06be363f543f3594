package geom

// Matrix is a 2D affine transform.
// Layout: [a, b, c, d, e, f] representing
//
//	| a  c  e |
//	| b  d  f |
//	| 0  0  1 |
//
// where a and d carry scale, b and c rotation/skew, and e and f translation.
type Matrix [6]float64

// Identity returns the identity transform.
func Identity() Matrix { return Matrix{1, 0, 0, 1, 0, 0} }

// Translation returns a transform moving points by (tx, ty).
func Translation(tx, ty float64) Matrix { return Matrix{1, 0, 0, 1, tx, ty} }

// Scaling returns a transform scaling about the origin.
func Scaling(sx, sy float64) Matrix { return Matrix{sx, 0, 0, sy, 0, 0} }

// ScaleAbout returns a transform scaling by (sx, sy) about the anchor point.
// It is the composition Translate(anchor) * Scale * Translate(-anchor) used
// by resize handles, which scale the selection about the opposite corner.
func ScaleAbout(sx, sy float64, anchor Point) Matrix {
	return Matrix{sx, 0, 0, sy, anchor.X - sx*anchor.X, anchor.Y - sy*anchor.Y}
}

// Mul returns m * other: other is applied first, then m.
func (m Matrix) Mul(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[2]*other[1],
		m[1]*other[0] + m[3]*other[1],
		m[0]*other[2] + m[2]*other[3],
		m[1]*other[2] + m[3]*other[3],
		m[0]*other[4] + m[2]*other[5] + m[4],
		m[1]*other[4] + m[3]*other[5] + m[5],
	}
}

// Apply transforms the point p.
func (m Matrix) Apply(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// ApplyRect transforms r and returns the axis-aligned bounding box of the
// transformed corners.
func (m Matrix) ApplyRect(r Rect) Rect {
	r = r.Canon()
	p0 := m.Apply(Point{r.X, r.Y})
	p1 := m.Apply(Point{r.MaxX(), r.Y})
	p2 := m.Apply(Point{r.MaxX(), r.MaxY()})
	p3 := m.Apply(Point{r.X, r.MaxY()})
	return BoundsOf([]Point{p0, p1, p2, p3})
}

// Det returns the determinant of m.
func (m Matrix) Det() float64 { return m[0]*m[3] - m[1]*m[2] }

// Invert returns the inverse transform, or Identity when m is singular.
func (m Matrix) Invert() Matrix {
	det := m.Det()
	if det == 0 {
		return Identity()
	}
	inv := 1 / det
	return Matrix{
		m[3] * inv,
		-m[1] * inv,
		-m[2] * inv,
		m[0] * inv,
		(m[2]*m[5] - m[3]*m[4]) * inv,
		(m[1]*m[4] - m[0]*m[5]) * inv,
	}
}

// IsIdentity reports whether m is the identity transform within epsilon.
func (m Matrix) IsIdentity() bool {
	const eps = 1e-10
	return abs(m[0]-1) < eps && abs(m[1]) < eps && abs(m[2]) < eps &&
		abs(m[3]-1) < eps && abs(m[4]) < eps && abs(m[5]) < eps
}

// IsTranslation reports whether m only translates.
func (m Matrix) IsTranslation() bool {
	const eps = 1e-10
	return abs(m[0]-1) < eps && abs(m[1]) < eps && abs(m[2]) < eps && abs(m[3]-1) < eps
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

package align

import (
	"math"

	"github.com/example/snipmark/internal/element"
	"github.com/example/snipmark/internal/geom"
	"github.com/example/snipmark/internal/scene"
)

// DefaultSnapTolerance is the pixel distance within which a guide attracts
// a moving element.
const DefaultSnapTolerance = 6

// DefaultGridSize is the grid pitch used when grid snapping is enabled.
const DefaultGridSize = 16

// Snapper adjusts proposed element positions toward guides derived from the
// other elements in the scene and, optionally, a fixed grid. Element guides
// win over grid lines when both are in range.
type Snapper struct {
	Tolerance float64
	GridSize  float64
	Grid      bool
}

// NewSnapper returns a snapper with the default tolerance and grid pitch.
func NewSnapper() *Snapper {
	return &Snapper{Tolerance: DefaultSnapTolerance, GridSize: DefaultGridSize}
}

// Guide is an active snap line, reported so the UI can draw it.
type Guide struct {
	Vertical bool
	Pos      float64
}

// Adjust snaps the bounding box b, already offset by the pointer delta, and
// returns the corrected delta along with the guides that fired. The ignore
// set excludes the moving elements themselves from guide candidates.
func (sn *Snapper) Adjust(s *scene.Scene, b geom.Rect, dx, dy float64, ignore map[string]bool) (float64, float64, []Guide) {
	tol := sn.Tolerance
	if tol <= 0 {
		tol = DefaultSnapTolerance
	}
	moved := b.Translate(dx, dy)
	xs := []float64{moved.X, moved.Center().X, moved.MaxX()}
	ys := []float64{moved.Y, moved.Center().Y, moved.MaxY()}

	bestX := math.Inf(1)
	bestY := math.Inf(1)
	var guideX, guideY float64
	var hitX, hitY bool

	for _, e := range s.InZOrder() {
		if ignore[e.ID] || e.Kind == element.Group && len(e.Members) == 0 {
			continue
		}
		if ignore[e.GroupID] && e.GroupID != "" {
			continue
		}
		eb := e.Bounds()
		for _, gx := range []float64{eb.X, eb.Center().X, eb.MaxX()} {
			for _, x := range xs {
				if d := math.Abs(x - gx); d <= tol && d < bestX {
					bestX, guideX, hitX = d, gx, true
				}
			}
		}
		for _, gy := range []float64{eb.Y, eb.Center().Y, eb.MaxY()} {
			for _, y := range ys {
				if d := math.Abs(y - gy); d <= tol && d < bestY {
					bestY, guideY, hitY = d, gy, true
				}
			}
		}
	}

	adjX, adjY := 0.0, 0.0
	if hitX {
		adjX = nearestShift(xs, guideX)
	}
	if hitY {
		adjY = nearestShift(ys, guideY)
	}

	var guides []Guide
	if hitX {
		guides = append(guides, Guide{Vertical: true, Pos: guideX})
	}
	if hitY {
		guides = append(guides, Guide{Vertical: false, Pos: guideY})
	}

	// Grid lines only attract axes no element guide claimed.
	if sn.Grid && sn.GridSize > 0 {
		if !hitX {
			if shift, ok := gridShift(moved.X, sn.GridSize, tol); ok {
				adjX = shift
			}
		}
		if !hitY {
			if shift, ok := gridShift(moved.Y, sn.GridSize, tol); ok {
				adjY = shift
			}
		}
	}
	return dx + adjX, dy + adjY, guides
}

// nearestShift returns the smallest correction that lands one of vals on
// guide.
func nearestShift(vals []float64, guide float64) float64 {
	best := math.Inf(1)
	for _, v := range vals {
		if d := guide - v; math.Abs(d) < math.Abs(best) {
			best = d
		}
	}
	return best
}

// gridShift returns the correction snapping v to the nearest grid line, if
// within tolerance.
func gridShift(v, pitch, tol float64) (float64, bool) {
	line := math.Round(v/pitch) * pitch
	if d := line - v; math.Abs(d) <= tol {
		return d, true
	}
	return 0, false
}

package align

import (
	"testing"

	"github.com/example/snipmark/internal/command"
	"github.com/example/snipmark/internal/element"
	"github.com/example/snipmark/internal/geom"
	"github.com/example/snipmark/internal/scene"
)

func rect(id string, r geom.Rect) element.Element {
	return element.Element{
		ID:    id,
		Kind:  element.Rectangle,
		Rect:  r,
		Style: element.DefaultStyle(),
	}
}

func testScene(t *testing.T, elems ...element.Element) *scene.Scene {
	t.Helper()
	s := scene.New(geom.Rect{W: 400, H: 400})
	for _, e := range elems {
		if err := s.Insert(e); err != nil {
			t.Fatalf("insert %s: %v", e.ID, err)
		}
	}
	return s
}

func apply(t *testing.T, s *scene.Scene, cmd command.Command, err error) command.Command {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Apply(s); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func bounds(t *testing.T, s *scene.Scene, id string) geom.Rect {
	t.Helper()
	e, ok := s.Get(id)
	if !ok {
		t.Fatalf("no element %s", id)
	}
	return e.Bounds()
}

func TestAlignEdges(t *testing.T) {
	tests := []struct {
		name  string
		edge  Edge
		check func(t *testing.T, a, b, c geom.Rect)
	}{
		{"left", Left, func(t *testing.T, a, b, c geom.Rect) {
			if a.X != 10 || b.X != 10 || c.X != 10 {
				t.Errorf("left edges = %v %v %v, want all 10", a.X, b.X, c.X)
			}
		}},
		{"right", Right, func(t *testing.T, a, b, c geom.Rect) {
			if a.MaxX() != 160 || b.MaxX() != 160 || c.MaxX() != 160 {
				t.Errorf("right edges = %v %v %v, want all 160", a.MaxX(), b.MaxX(), c.MaxX())
			}
		}},
		{"top", Top, func(t *testing.T, a, b, c geom.Rect) {
			if a.Y != 10 || b.Y != 10 || c.Y != 10 {
				t.Errorf("top edges = %v %v %v, want all 10", a.Y, b.Y, c.Y)
			}
		}},
		{"center horizontal", CenterH, func(t *testing.T, a, b, c geom.Rect) {
			if a.Center().X != b.Center().X || b.Center().X != c.Center().X {
				t.Errorf("centers = %v %v %v", a.Center().X, b.Center().X, c.Center().X)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testScene(t,
				rect("a", geom.Rect{X: 10, Y: 10, W: 20, H: 20}),
				rect("b", geom.Rect{X: 60, Y: 40, W: 40, H: 10}),
				rect("c", geom.Rect{X: 120, Y: 90, W: 40, H: 40}),
			)
			cmd, err := Align(s, []string{"a", "b", "c"}, tt.edge)
			apply(t, s, cmd, err)
			tt.check(t, bounds(t, s, "a"), bounds(t, s, "b"), bounds(t, s, "c"))
		})
	}
}

func TestAlignUndoRestoresPositions(t *testing.T) {
	s := testScene(t,
		rect("a", geom.Rect{X: 10, Y: 10, W: 20, H: 20}),
		rect("b", geom.Rect{X: 60, Y: 40, W: 40, H: 10}),
	)
	beforeA, beforeB := bounds(t, s, "a"), bounds(t, s, "b")
	cmd, err := Align(s, []string{"a", "b"}, Bottom)
	applied := apply(t, s, cmd, err)
	applied.Revert(s)
	if got := bounds(t, s, "a"); got != beforeA {
		t.Errorf("a = %+v, want %+v", got, beforeA)
	}
	if got := bounds(t, s, "b"); got != beforeB {
		t.Errorf("b = %+v, want %+v", got, beforeB)
	}
}

func TestAlignMovesGroupAsUnit(t *testing.T) {
	s := testScene(t,
		rect("a", geom.Rect{X: 0, Y: 0, W: 10, H: 10}),
		rect("b", geom.Rect{X: 20, Y: 20, W: 10, H: 10}),
		rect("c", geom.Rect{X: 100, Y: 100, W: 10, H: 10}),
	)
	g := &command.GroupCmd{MemberIDs: []string{"a", "b"}}
	if err := g.Apply(s); err != nil {
		t.Fatal(err)
	}
	// Selecting one member promotes the whole group.
	cmd, err := Align(s, []string{"a", "c"}, Left)
	apply(t, s, cmd, err)
	a, b := bounds(t, s, "a"), bounds(t, s, "b")
	// The group spans x 0..30 and is already at the overall left edge, so
	// neither member moves and their relative offset is intact.
	if a.X != 0 || b.X != 20 {
		t.Errorf("group members at %v and %v, want 0 and 20", a.X, b.X)
	}
	c := bounds(t, s, "c")
	if c.X != 0 {
		t.Errorf("c.X = %v, want 0", c.X)
	}
}

func TestAlignNeedsTwo(t *testing.T) {
	s := testScene(t, rect("a", geom.Rect{W: 10, H: 10}))
	if _, err := Align(s, []string{"a"}, Left); err == nil {
		t.Error("expected an error for a single element")
	}
	if _, err := Align(s, []string{"a", "missing"}, Left); err == nil {
		t.Error("expected an error for an unknown id")
	}
}

func TestDistributeCentersEvenly(t *testing.T) {
	tests := []struct {
		name       string
		a, b, c    geom.Rect
		axis       Axis
		wantCenter geom.Point
	}{
		{
			name: "horizontal equal sizes",
			a:    geom.Rect{X: 0, Y: 0, W: 10, H: 10},
			b:    geom.Rect{X: 15, Y: 0, W: 10, H: 10},
			c:    geom.Rect{X: 90, Y: 0, W: 10, H: 10},
			axis: Horizontal,
			// Centers 5 and 95 pin the extremes; the middle lands at 50.
			wantCenter: geom.Pt(50, 5),
		},
		{
			name: "vertical unequal sizes",
			a:    geom.Rect{X: 0, Y: 0, W: 10, H: 10},
			b:    geom.Rect{X: 0, Y: 30, W: 10, H: 20},
			c:    geom.Rect{X: 0, Y: 80, W: 10, H: 10},
			axis: Vertical,
			// Centers 5 and 85 pin the extremes; the taller middle element
			// moves so its center sits at the midpoint 45, not so the gaps
			// between boxes come out equal.
			wantCenter: geom.Pt(5, 45),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testScene(t, rect("a", tt.a), rect("b", tt.b), rect("c", tt.c))
			cmd, err := Distribute(s, []string{"a", "b", "c"}, tt.axis)
			apply(t, s, cmd, err)
			a, c := bounds(t, s, "a"), bounds(t, s, "c")
			if a.Center() != tt.a.Center() || c.Center() != tt.c.Center() {
				t.Errorf("extremes moved: a=%v c=%v", a.Center(), c.Center())
			}
			if got := bounds(t, s, "b").Center(); got != tt.wantCenter {
				t.Errorf("middle center = %v, want %v", got, tt.wantCenter)
			}
		})
	}
}

func TestDistributeNeedsThree(t *testing.T) {
	s := testScene(t,
		rect("a", geom.Rect{W: 10, H: 10}),
		rect("b", geom.Rect{X: 50, W: 10, H: 10}),
	)
	if _, err := Distribute(s, []string{"a", "b"}, Horizontal); err == nil {
		t.Error("expected an error for fewer than 3 elements")
	}
}

func TestMatchSize(t *testing.T) {
	s := testScene(t,
		rect("target", geom.Rect{X: 10, Y: 10, W: 40, H: 20}),
		rect("other", geom.Rect{X: 100, Y: 100, W: 10, H: 10}),
	)
	cmd, err := MatchSize(s, []string{"target", "other"}, true, true)
	apply(t, s, cmd, err)
	got := bounds(t, s, "other")
	if got.W != 40 || got.H != 20 {
		t.Errorf("other size = %vx%v, want 40x20", got.W, got.H)
	}
	// Top-left anchor stays put.
	if got.X != 100 || got.Y != 100 {
		t.Errorf("other origin = (%v,%v), want (100,100)", got.X, got.Y)
	}
	target := bounds(t, s, "target")
	if target.W != 40 || target.H != 20 {
		t.Errorf("target resized to %vx%v", target.W, target.H)
	}
}

func TestSnapperPrefersElementsOverGrid(t *testing.T) {
	s := testScene(t, rect("guide", geom.Rect{X: 100, Y: 100, W: 50, H: 50}))
	sn := NewSnapper()
	sn.Grid = true
	sn.GridSize = 16

	moving := geom.Rect{X: 0, Y: 0, W: 20, H: 20}
	// Proposed move puts the left edge at 97: within tolerance of the guide
	// element's left edge (100) and of the grid line at 96.
	dx, dy, guides := sn.Adjust(s, moving, 97, 0, map[string]bool{"m": true})
	if dx != 100 {
		t.Errorf("dx = %v, want 100 (element guide wins over grid)", dx)
	}
	if dy != 0 {
		t.Errorf("dy = %v, want 0", dy)
	}
	if len(guides) != 1 || !guides[0].Vertical || guides[0].Pos != 100 {
		t.Errorf("guides = %+v, want one vertical line at 100", guides)
	}
}

func TestSnapperGridOnly(t *testing.T) {
	s := testScene(t)
	sn := NewSnapper()
	sn.Grid = true

	moving := geom.Rect{X: 0, Y: 0, W: 20, H: 20}
	dx, dy, guides := sn.Adjust(s, moving, 30, 50, nil)
	if dx != 32 || dy != 48 {
		t.Errorf("snap = (%v,%v), want (32,48)", dx, dy)
	}
	if len(guides) != 0 {
		t.Errorf("grid snapping reported guides: %+v", guides)
	}
}

func TestSnapperOutOfRange(t *testing.T) {
	s := testScene(t, rect("guide", geom.Rect{X: 100, Y: 100, W: 50, H: 50}))
	sn := NewSnapper()

	moving := geom.Rect{X: 0, Y: 0, W: 20, H: 20}
	dx, dy, guides := sn.Adjust(s, moving, 50, 50, nil)
	if dx != 50 || dy != 50 || len(guides) != 0 {
		t.Errorf("snap fired out of range: (%v,%v) %+v", dx, dy, guides)
	}
}

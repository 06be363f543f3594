package command

import (
	"testing"

	"github.com/google/go-cmp/cmp"

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

func stroke(id string, pts ...geom.Point) element.Element {
	return element.Element{
		ID:     id,
		Kind:   element.Freehand,
		Points: pts,
		Style:  element.DefaultStyle(),
	}
}

func testScene(t *testing.T, elems ...element.Element) *scene.Scene {
	t.Helper()
	s := scene.New(geom.Rect{W: 200, H: 200})
	for _, e := range elems {
		if err := s.Insert(e); err != nil {
			t.Fatalf("insert %s: %v", e.ID, err)
		}
	}
	return s
}

func snapshot(s *scene.Scene) []element.Element {
	return s.InZOrder()
}

func TestHistoryUndoRedoRoundTrip(t *testing.T) {
	s := testScene(t, rect("a", geom.Rect{X: 10, Y: 10, W: 20, H: 20}))
	before := snapshot(s)
	h := NewHistory(0)

	cmds := []Command{
		&Add{Element: rect("b", geom.Rect{X: 50, Y: 50, W: 10, H: 10})},
		&Transform{IDs: []string{"a"}, Delta: geom.Translation(5, 5)},
		&Restyle{IDs: []string{"b"}, Style: element.Style{StrokeWidth: 4, Opacity: 1, FontSize: 16}},
		&Reorder{ID: "a", Z: 2},
	}
	for _, cmd := range cmds {
		if err := h.Push(s, cmd); err != nil {
			t.Fatalf("push %s: %v", cmd.Name(), err)
		}
	}
	after := snapshot(s)

	for h.CanUndo() {
		h.Undo(s)
	}
	if diff := cmp.Diff(before, snapshot(s)); diff != "" {
		t.Errorf("undo all did not restore the scene (-want +got):\n%s", diff)
	}
	for h.CanRedo() {
		h.Redo(s)
	}
	if diff := cmp.Diff(after, snapshot(s)); diff != "" {
		t.Errorf("redo all did not rebuild the scene (-want +got):\n%s", diff)
	}
}

func TestHistoryRedoClearedByPush(t *testing.T) {
	s := testScene(t)
	h := NewHistory(0)
	if err := h.Push(s, &Add{Element: rect("a", geom.Rect{W: 10, H: 10})}); err != nil {
		t.Fatal(err)
	}
	if !h.Undo(s) {
		t.Fatal("undo reported nothing to undo")
	}
	if !h.CanRedo() {
		t.Fatal("expected a redo entry after undo")
	}
	if err := h.Push(s, &Add{Element: rect("b", geom.Rect{W: 10, H: 10})}); err != nil {
		t.Fatal(err)
	}
	if h.CanRedo() {
		t.Error("push should clear the redo stack")
	}
	if h.Redo(s) {
		t.Error("redo on an empty stack should be a no-op")
	}
}

func TestHistoryCapacityEvictsOldest(t *testing.T) {
	s := testScene(t)
	h := NewHistory(3)
	ids := []string{"a", "b", "c", "d"}
	for _, id := range ids {
		if err := h.Push(s, &Add{Element: rect(id, geom.Rect{W: 5, H: 5})}); err != nil {
			t.Fatal(err)
		}
	}
	undone := 0
	for h.Undo(s) {
		undone++
	}
	if undone != 3 {
		t.Fatalf("undone = %d, want 3", undone)
	}
	// The first add fell off the stack, so "a" survives every undo.
	if !s.Has("a") {
		t.Error("evicted command was undone")
	}
	for _, id := range ids[1:] {
		if s.Has(id) {
			t.Errorf("element %s still present after undo", id)
		}
	}
}

func TestHistoryFailedApplyLeavesSceneUntouched(t *testing.T) {
	s := testScene(t, rect("a", geom.Rect{W: 10, H: 10}))
	before := snapshot(s)
	h := NewHistory(0)
	if err := h.Push(s, &Add{Element: rect("a", geom.Rect{W: 5, H: 5})}); err == nil {
		t.Fatal("duplicate id should be rejected")
	}
	if h.CanUndo() {
		t.Error("failed command must not be recorded")
	}
	if diff := cmp.Diff(before, snapshot(s)); diff != "" {
		t.Errorf("scene changed by a failed push (-want +got):\n%s", diff)
	}
}

func TestRemoveAllOrNothing(t *testing.T) {
	s := testScene(t, rect("a", geom.Rect{W: 10, H: 10}))
	before := snapshot(s)
	cmd := &Remove{IDs: []string{"a", "missing"}}
	if err := cmd.Apply(s); err == nil {
		t.Fatal("remove with an unknown id should fail")
	}
	if diff := cmp.Diff(before, snapshot(s)); diff != "" {
		t.Errorf("failed remove changed the scene (-want +got):\n%s", diff)
	}
}

func TestRemoveRevertRestoresPaintOrder(t *testing.T) {
	s := testScene(t,
		rect("bottom", geom.Rect{X: 0, Y: 0, W: 30, H: 30}),
		rect("middle", geom.Rect{X: 5, Y: 5, W: 30, H: 30}),
		rect("top", geom.Rect{X: 10, Y: 10, W: 30, H: 30}),
	)
	before := snapshot(s)
	cmd := &Remove{IDs: []string{"middle"}}
	if err := cmd.Apply(s); err != nil {
		t.Fatal(err)
	}
	if got := s.IDsInZOrder(); len(got) != 2 {
		t.Fatalf("after remove: %v", got)
	}
	cmd.Revert(s)
	if diff := cmp.Diff(before, snapshot(s)); diff != "" {
		t.Errorf("revert did not restore paint order (-want +got):\n%s", diff)
	}
}

func TestTransformRevertRestoresExactGeometry(t *testing.T) {
	s := testScene(t,
		rect("r", geom.Rect{X: 10, Y: 10, W: 20, H: 20}),
		stroke("f", geom.Pt(10, 10), geom.Pt(17, 23)),
	)
	before := snapshot(s)
	cmd := &Transform{
		IDs:   []string{"r", "f"},
		Delta: geom.ScaleAbout(1.7, 0.3, geom.Pt(10, 10)),
	}
	if err := cmd.Apply(s); err != nil {
		t.Fatal(err)
	}
	cmd.Revert(s)
	// Revert restores retained values, so no floating point drift.
	if diff := cmp.Diff(before, snapshot(s)); diff != "" {
		t.Errorf("geometry drifted through transform round trip (-want +got):\n%s", diff)
	}
}

func TestGroupUngroupRoundTrip(t *testing.T) {
	s := testScene(t,
		rect("a", geom.Rect{X: 0, Y: 0, W: 10, H: 10}),
		rect("b", geom.Rect{X: 40, Y: 40, W: 10, H: 10}),
	)
	grouped := &GroupCmd{MemberIDs: []string{"a", "b"}}
	if err := grouped.Apply(s); err != nil {
		t.Fatal(err)
	}
	g, ok := s.Get(grouped.GroupID)
	if !ok || g.Kind != element.Group {
		t.Fatal("group element missing after group")
	}
	want := geom.Rect{X: 0, Y: 0, W: 50, H: 50}
	if !g.Rect.Contains(geom.Pt(0, 0)) || g.Rect.MaxX() != want.MaxX() || g.Rect.MaxY() != want.MaxY() {
		t.Errorf("group bounds = %+v, want union reaching %+v", g.Rect, want)
	}
	a, _ := s.Get("a")
	if a.GroupID != grouped.GroupID {
		t.Errorf("member a GroupID = %q, want %q", a.GroupID, grouped.GroupID)
	}

	ungroup := &Ungroup{GroupID: grouped.GroupID}
	if err := ungroup.Apply(s); err != nil {
		t.Fatal(err)
	}
	if s.Has(grouped.GroupID) {
		t.Error("group element survived ungroup")
	}
	a, _ = s.Get("a")
	if a.GroupID != "" {
		t.Error("ungroup left a member attached")
	}

	ungroup.Revert(s)
	a, _ = s.Get("a")
	if a.GroupID != grouped.GroupID {
		t.Error("revert of ungroup did not reattach members")
	}
	grouped.Revert(s)
	if s.Has(grouped.GroupID) {
		t.Error("revert of group left the group element behind")
	}
	if got := s.Len(); got != 2 {
		t.Errorf("scene has %d elements after full revert, want 2", got)
	}
}

func TestGroupValidation(t *testing.T) {
	s := testScene(t,
		rect("a", geom.Rect{W: 10, H: 10}),
		rect("b", geom.Rect{X: 20, W: 10, H: 10}),
		rect("c", geom.Rect{X: 40, W: 10, H: 10}),
	)
	first := &GroupCmd{MemberIDs: []string{"a", "b"}}
	if err := first.Apply(s); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		cmd  *GroupCmd
	}{
		{"single member", &GroupCmd{MemberIDs: []string{"c"}}},
		{"unknown member", &GroupCmd{MemberIDs: []string{"c", "nope"}}},
		{"already grouped", &GroupCmd{MemberIDs: []string{"a", "c"}}},
		{"nested group", &GroupCmd{MemberIDs: []string{first.GroupID, "c"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Apply(s); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestCropRewritesAndReverts(t *testing.T) {
	s := testScene(t,
		rect("inside", geom.Rect{X: 60, Y: 60, W: 20, H: 20}),
		rect("straddle", geom.Rect{X: 40, Y: 40, W: 30, H: 30}),
		rect("outside", geom.Rect{X: 0, Y: 0, W: 20, H: 20}),
		stroke("ink", geom.Pt(10, 10), geom.Pt(70, 70), geom.Pt(190, 190)),
	)
	before := snapshot(s)
	priorClip := s.ClipBounds

	cmd := &Crop{Bounds: geom.Rect{X: 50, Y: 50, W: 100, H: 100}}
	if err := cmd.Apply(s); err != nil {
		t.Fatal(err)
	}
	if s.ClipBounds != (geom.Rect{X: 50, Y: 50, W: 100, H: 100}) {
		t.Errorf("clip bounds = %+v", s.ClipBounds)
	}
	if s.Has("outside") {
		t.Error("element fully outside the crop survived")
	}
	straddle, _ := s.Get("straddle")
	if want := (geom.Rect{X: 50, Y: 50, W: 20, H: 20}); straddle.Rect != want {
		t.Errorf("straddling rect = %+v, want %+v", straddle.Rect, want)
	}
	ink, _ := s.Get("ink")
	if len(ink.Points) != 1 || ink.Points[0] != geom.Pt(70, 70) {
		t.Errorf("stroke points = %v, want the single interior point", ink.Points)
	}

	cmd.Revert(s)
	if s.ClipBounds != priorClip {
		t.Errorf("clip bounds not restored: %+v", s.ClipBounds)
	}
	if diff := cmp.Diff(before, snapshot(s)); diff != "" {
		t.Errorf("crop revert lost state (-want +got):\n%s", diff)
	}
}

func TestCropClipsStraddlingLine(t *testing.T) {
	line := element.Element{
		ID:     "line",
		Kind:   element.Line,
		Points: []geom.Point{{X: 10, Y: 10}, {X: 90, Y: 90}},
		Style:  element.DefaultStyle(),
	}
	s := testScene(t, line)

	cmd := &Crop{Bounds: geom.Rect{X: 0, Y: 0, W: 50, H: 50}}
	if err := cmd.Apply(s); err != nil {
		t.Fatal(err)
	}
	got, ok := s.Get("line")
	if !ok {
		t.Fatal("straddling line was removed by crop")
	}
	// The outside endpoint is rewritten to the boundary crossing so the
	// stored geometry stays inside the cropped document.
	if got.Points[0] != (geom.Point{X: 10, Y: 10}) || got.Points[1] != (geom.Point{X: 50, Y: 50}) {
		t.Errorf("clipped line = %v, want (10,10)-(50,50)", got.Points)
	}

	cmd.Revert(s)
	got, _ = s.Get("line")
	if got.Points[1] != (geom.Point{X: 90, Y: 90}) {
		t.Errorf("endpoint after revert = %v, want (90,90)", got.Points[1])
	}
}

func TestCropRejectsDegenerateRects(t *testing.T) {
	s := testScene(t, rect("a", geom.Rect{X: 10, Y: 10, W: 20, H: 20}))
	tests := []struct {
		name   string
		bounds geom.Rect
	}{
		{"empty", geom.Rect{}},
		{"outside clip", geom.Rect{X: 500, Y: 500, W: 50, H: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &Crop{Bounds: tt.bounds}
			if err := cmd.Apply(s); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestCompoundAtomicApply(t *testing.T) {
	s := testScene(t, rect("a", geom.Rect{W: 10, H: 10}))
	before := snapshot(s)
	cmd := &Compound{
		Label: "align",
		Commands: []Command{
			&Transform{IDs: []string{"a"}, Delta: geom.Translation(30, 0)},
			&Transform{IDs: []string{"missing"}, Delta: geom.Translation(30, 0)},
		},
	}
	if err := cmd.Apply(s); err == nil {
		t.Fatal("compound with a failing member must fail")
	}
	if diff := cmp.Diff(before, snapshot(s)); diff != "" {
		t.Errorf("partial compound was not rolled back (-want +got):\n%s", diff)
	}
}

func TestAddRedoKeepsZ(t *testing.T) {
	s := testScene(t,
		rect("a", geom.Rect{W: 10, H: 10}),
		rect("b", geom.Rect{X: 20, W: 10, H: 10}),
	)
	h := NewHistory(0)
	if err := h.Push(s, &Add{Element: rect("c", geom.Rect{X: 40, W: 10, H: 10})}); err != nil {
		t.Fatal(err)
	}
	if err := h.Push(s, &Reorder{ID: "c", Z: 1}); err != nil {
		t.Fatal(err)
	}
	want := s.IDsInZOrder()
	h.Undo(s)
	h.Undo(s)
	h.Redo(s)
	h.Redo(s)
	if diff := cmp.Diff(want, s.IDsInZOrder()); diff != "" {
		t.Errorf("redo changed paint order (-want +got):\n%s", diff)
	}
}

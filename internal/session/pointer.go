package session

import (
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/snipmark/internal/command"
	"github.com/example/snipmark/internal/element"
	"github.com/example/snipmark/internal/geom"
)

// handleSize is the edge length of a selection resize handle.
const handleSize = 8

const zoomStep = 1.25

// minDragDist separates a click from a drag.
const minDragDist = 3

// HandleMouse consumes a pointer event whose coordinates have already been
// translated into document space.
func (s *Session) HandleMouse(ev mouse.Event) {
	p := geom.Pt(float64(ev.X), float64(ev.Y))

	// Wheel notches arrive as DirStep, or as press/release pairs on some
	// drivers. Acting on the release half would zoom twice per notch.
	switch ev.Button {
	case mouse.ButtonWheelUp:
		if ev.Direction != mouse.DirRelease {
			s.zoomAt(p, zoomStep)
		}
		return
	case mouse.ButtonWheelDown:
		if ev.Direction != mouse.DirRelease {
			s.zoomAt(p, 1/zoomStep)
		}
		return
	}

	switch ev.Direction {
	case mouse.DirPress:
		s.pointerPress(p, ev.Button, ev.Modifiers)
	case mouse.DirNone:
		s.pointerMove(p, ev.Modifiers)
	case mouse.DirRelease:
		s.pointerRelease(p, ev.Modifiers)
	}
}

func (s *Session) pointerPress(p geom.Point, btn mouse.Button, mods key.Modifiers) {
	if btn == mouse.ButtonMiddle {
		s.state = statePanning
		s.dragStart = p
		s.dragLast = p
		return
	}
	if btn != mouse.ButtonLeft && btn != mouse.ButtonRight {
		return
	}
	s.dragStart = p
	s.dragLast = p
	s.guides = nil

	switch s.tool {
	case ToolSelect:
		s.pressSelect(p, mods)
	case ToolCrop:
		s.state = stateCropping
		s.cropRect = geom.Rect{X: p.X, Y: p.Y}
	case ToolZoom:
		factor := zoomStep
		if btn == mouse.ButtonRight || mods&key.ModAlt != 0 {
			factor = 1 / zoomStep
		}
		s.zoomAt(p, factor)
	case ToolPicker:
		if _, ok := s.PickColor(p); ok {
			s.changed()
		}
	case ToolText:
		s.beginText(p)
	case ToolNumber:
		s.placeNumber(p)
	case ToolStamp:
		s.placeStamp(p)
	default:
		if kind, ok := s.tool.Kind(); ok {
			s.beginDraw(kind, p)
		}
	}
}

func (s *Session) pressSelect(p geom.Point, mods key.Modifiers) {
	if len(s.selection) > 0 {
		if h := s.handleAt(p); h >= 0 {
			s.beginResize(h)
			return
		}
	}
	hit := s.scene.TopmostAt(p, hitTolerance)
	if hit == "" {
		if mods&key.ModShift == 0 {
			s.ClearSelection()
		}
		s.state = stateMarquee
		s.live = nil
		return
	}
	if mods&key.ModShift != 0 {
		if s.hitSelected(hit) {
			s.deselectID(hit)
		} else {
			s.selectID(hit)
		}
		s.changed()
		return
	}
	if !s.hitSelected(hit) {
		s.ClearSelection()
		s.selectID(hit)
	}
	s.beginMove()
}

// hitSelected reports whether the hit element, or the group it belongs to,
// is already selected.
func (s *Session) hitSelected(id string) bool {
	if s.selection[id] {
		return true
	}
	if e, ok := s.scene.Get(id); ok && e.GroupID != "" {
		return s.selection[e.GroupID]
	}
	return false
}

func (s *Session) beginMove() {
	s.state = stateMoving
	s.movePrior = s.movePrior[:0]
	for _, id := range s.SelectedIDs() {
		if e, ok := s.scene.Get(id); ok && !e.Locked {
			s.movePrior = append(s.movePrior, e)
		}
	}
}

func (s *Session) beginResize(handle int) {
	s.state = stateResizing
	s.handle = handle
	s.resizeRect = s.SelectionBounds()
	s.resizePrior = s.resizePrior[:0]
	s.resizeIDs = s.resizeIDs[:0]
	for _, id := range s.SelectedIDs() {
		if e, ok := s.scene.Get(id); ok && !e.Locked {
			s.resizePrior = append(s.resizePrior, e)
			s.resizeIDs = append(s.resizeIDs, id)
		}
	}
}

func (s *Session) beginDraw(kind element.Kind, p geom.Point) {
	s.state = stateDrawing
	st := s.style
	live := element.Element{
		ID:    element.NewID(),
		Kind:  kind,
		Style: st,
	}
	switch {
	case kind.IsStroke():
		live.Points = []geom.Point{p}
	case kind.IsSegment():
		live.Points = []geom.Point{p, p}
	case kind == element.Callout:
		live.Points = []geom.Point{p}
		live.Rect = geom.Rect{X: p.X, Y: p.Y}
	default:
		live.Rect = geom.Rect{X: p.X, Y: p.Y}
	}
	s.live = &live
}

func (s *Session) beginText(p geom.Point) {
	s.state = stateTexting
	live := element.Element{
		ID:     element.NewID(),
		Kind:   element.Text,
		Points: []geom.Point{p},
		Style:  s.style,
	}
	s.live = &live
	s.changed()
}

func (s *Session) placeNumber(p geom.Point) {
	e := element.Element{
		ID:     element.NewID(),
		Kind:   element.Number,
		Points: []geom.Point{p},
		Number: s.nextNumber,
		Style:  s.style,
	}
	s.push(&command.Add{Element: e})
	s.nextNumber++
}

func (s *Session) placeStamp(p geom.Point) {
	e := element.Element{
		ID:     element.NewID(),
		Kind:   element.Stamp,
		Points: []geom.Point{p},
		Stamp:  s.stamp,
		Style:  s.style,
	}
	s.push(&command.Add{Element: e})
}

func (s *Session) pointerMove(p geom.Point, mods key.Modifiers) {
	switch s.state {
	case statePanning:
		s.view.Pan = s.view.Pan.Sub(p.Sub(s.dragLast))
	case stateDrawing:
		s.updateLive(p, mods)
	case stateMarquee:
		// Nothing to track beyond the cursor; the UI draws the rubber band
		// from dragStart to the cursor.
	case stateMoving:
		s.updateMove(p)
	case stateResizing:
		s.updateResize(p, mods)
	case stateCropping:
		s.cropRect = geom.RectFromPoints(s.dragStart, p)
	}
	s.dragLast = p
	if s.state != stateIdle {
		s.changed()
	}
}

func (s *Session) updateLive(p geom.Point, mods key.Modifiers) {
	if s.live == nil {
		return
	}
	kind := s.live.Kind
	switch {
	case kind.IsStroke():
		s.live.Points = append(s.live.Points, p)
	case kind.IsSegment():
		end := p
		if mods&key.ModShift != 0 {
			end = constrainAngle(s.live.Points[0], p)
		}
		s.live.Points[1] = end
	case kind == element.Callout:
		s.live.Rect = geom.RectFromPoints(s.dragStart, p)
	default:
		r := geom.RectFromPoints(s.dragStart, p)
		if mods&key.ModShift != 0 {
			// Constrain to a square about the press point.
			side := r.W
			if r.H > side {
				side = r.H
			}
			sx, sy := 1.0, 1.0
			if p.X < s.dragStart.X {
				sx = -1
			}
			if p.Y < s.dragStart.Y {
				sy = -1
			}
			r = geom.RectFromPoints(s.dragStart, geom.Pt(s.dragStart.X+sx*side, s.dragStart.Y+sy*side))
		}
		s.live.Rect = r
	}
}

// constrainAngle snaps the segment end to the nearest 45 degree direction.
func constrainAngle(a, b geom.Point) geom.Point {
	dx := b.X - a.X
	dy := b.Y - a.Y
	adx, ady := dx, dy
	if adx < 0 {
		adx = -adx
	}
	if ady < 0 {
		ady = -ady
	}
	switch {
	case adx > 2*ady:
		return geom.Pt(b.X, a.Y)
	case ady > 2*adx:
		return geom.Pt(a.X, b.Y)
	default:
		d := (adx + ady) / 2
		sx, sy := 1.0, 1.0
		if dx < 0 {
			sx = -1
		}
		if dy < 0 {
			sy = -1
		}
		return geom.Pt(a.X+sx*d, a.Y+sy*d)
	}
}

func (s *Session) updateMove(p geom.Point) {
	dx := p.X - s.dragStart.X
	dy := p.Y - s.dragStart.Y
	ignore := make(map[string]bool, len(s.movePrior))
	var bounds geom.Rect
	for _, e := range s.movePrior {
		ignore[e.ID] = true
		bounds = bounds.Union(e.Bounds())
	}
	sdx, sdy, guides := s.snapper.Adjust(s.scene, bounds, dx, dy, ignore)
	s.guides = guides
	for _, e := range s.movePrior {
		_ = s.scene.Update(e.Translate(sdx, sdy))
	}
	s.refreshGroupBounds(s.movePrior)
}

func (s *Session) updateResize(p geom.Point, mods key.Modifiers) {
	m, ok := s.resizeMatrix(p, mods)
	if !ok {
		return
	}
	for _, e := range s.resizePrior {
		_ = s.scene.Update(e.ApplyDelta(m))
	}
	s.refreshGroupBounds(s.resizePrior)
}

// resizeMatrix computes the scale transform for the active handle drag.
func (s *Session) resizeMatrix(p geom.Point, mods key.Modifiers) (geom.Matrix, bool) {
	r := s.resizeRect
	if r.W <= 0 || r.H <= 0 {
		return geom.Identity(), false
	}
	anchor := handleAnchor(r, s.handle)
	scaleX, scaleY := handleAxes(s.handle)
	sx, sy := 1.0, 1.0
	if scaleX {
		den := s.handlePoint(s.handle).X - anchor.X
		if den != 0 {
			sx = (p.X - anchor.X) / den
		}
	}
	if scaleY {
		den := s.handlePoint(s.handle).Y - anchor.Y
		if den != 0 {
			sy = (p.Y - anchor.Y) / den
		}
	}
	// Collapsing through zero flips; clamp to a minimum instead.
	const minScale = 0.01
	if scaleX && sx < minScale {
		sx = minScale
	}
	if scaleY && sy < minScale {
		sy = minScale
	}
	if mods&key.ModShift != 0 && scaleX && scaleY {
		// Aspect lock follows the dominant axis.
		u := sx
		if absF(sy-1) > absF(sx-1) {
			u = sy
		}
		sx, sy = u, u
	}
	return geom.ScaleAbout(sx, sy, anchor), true
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Handle indices run clockwise from the top-left corner: 0 TL, 1 T, 2 TR,
// 3 R, 4 BR, 5 B, 6 BL, 7 L.

func (s *Session) handlePoint(h int) geom.Point {
	return handlePoint(s.resizeRect, h)
}

func handlePoint(r geom.Rect, h int) geom.Point {
	cx := r.X + r.W/2
	cy := r.Y + r.H/2
	switch h {
	case 0:
		return geom.Pt(r.X, r.Y)
	case 1:
		return geom.Pt(cx, r.Y)
	case 2:
		return geom.Pt(r.MaxX(), r.Y)
	case 3:
		return geom.Pt(r.MaxX(), cy)
	case 4:
		return geom.Pt(r.MaxX(), r.MaxY())
	case 5:
		return geom.Pt(cx, r.MaxY())
	case 6:
		return geom.Pt(r.X, r.MaxY())
	default:
		return geom.Pt(r.X, cy)
	}
}

func handleAnchor(r geom.Rect, h int) geom.Point {
	return handlePoint(r, (h+4)%8)
}

func handleAxes(h int) (x, y bool) {
	switch h {
	case 1, 5:
		return false, true
	case 3, 7:
		return true, false
	default:
		return true, true
	}
}

// handleAt returns the resize handle index under p, or -1.
func (s *Session) handleAt(p geom.Point) int {
	r := s.SelectionBounds()
	if r.Empty() {
		return -1
	}
	for h := 0; h < 8; h++ {
		hp := handlePoint(r, h)
		half := float64(handleSize) / 2
		box := geom.Rect{X: hp.X - half, Y: hp.Y - half, W: handleSize, H: handleSize}
		if box.Contains(p) {
			return h
		}
	}
	return -1
}

func (s *Session) pointerRelease(p geom.Point, mods key.Modifiers) {
	switch s.state {
	case statePanning:
		s.state = stateIdle
	case stateDrawing:
		s.finishDraw(p, mods)
	case stateMarquee:
		s.finishMarquee(p, mods)
	case stateMoving:
		s.finishMove(p)
	case stateResizing:
		s.finishResize(p, mods)
	case stateCropping:
		s.finishCrop(p)
	}
	s.guides = nil
}

func (s *Session) finishDraw(p geom.Point, mods key.Modifiers) {
	live := s.live
	s.live = nil
	s.state = stateIdle
	if live == nil {
		return
	}
	s.updateLiveAt(live, p, mods)
	if degenerate(*live) {
		s.changed()
		return
	}
	s.push(&command.Add{Element: *live})
}

// updateLiveAt runs the final cursor position through the same geometry
// update as a move, for the element that is about to be committed.
func (s *Session) updateLiveAt(live *element.Element, p geom.Point, mods key.Modifiers) {
	prev := s.live
	s.live = live
	s.updateLive(p, mods)
	s.live = prev
}

// degenerate reports whether a drawn element is too small to keep.
func degenerate(e element.Element) bool {
	switch {
	case e.Kind.IsStroke():
		return len(e.Points) < 2
	case e.Kind.IsSegment():
		return e.Points[0].Dist(e.Points[1]) < minDragDist
	case e.Kind == element.Callout:
		return e.Rect.Canon().W < minDragDist || e.Rect.Canon().H < minDragDist
	default:
		r := e.Rect.Canon()
		return r.W < minDragDist || r.H < minDragDist
	}
}

func (s *Session) finishMarquee(p geom.Point, mods key.Modifiers) {
	s.state = stateIdle
	r := geom.RectFromPoints(s.dragStart, p)
	if r.W < minDragDist && r.H < minDragDist {
		s.changed()
		return
	}
	if mods&key.ModShift == 0 {
		s.ClearSelection()
	}
	for _, id := range s.scene.Intersecting(r) {
		s.selectID(id)
	}
	s.changed()
}

func (s *Session) finishMove(p geom.Point) {
	prior := s.movePrior
	s.movePrior = nil
	s.state = stateIdle
	if len(prior) == 0 {
		return
	}
	dx := p.X - s.dragStart.X
	dy := p.Y - s.dragStart.Y
	ignore := make(map[string]bool, len(prior))
	var bounds geom.Rect
	for _, e := range prior {
		ignore[e.ID] = true
		bounds = bounds.Union(e.Bounds())
	}
	sdx, sdy, _ := s.snapper.Adjust(s.scene, bounds, dx, dy, ignore)

	// Rewind the live preview, then commit the move as one command.
	ids := make([]string, 0, len(prior))
	for _, e := range prior {
		_ = s.scene.Update(e)
		ids = append(ids, e.ID)
	}
	s.refreshGroupBounds(prior)
	if sdx == 0 && sdy == 0 {
		s.changed()
		return
	}
	s.push(&command.Transform{IDs: ids, Delta: geom.Translation(sdx, sdy)})
}

func (s *Session) finishResize(p geom.Point, mods key.Modifiers) {
	prior := s.resizePrior
	s.resizePrior = nil
	s.state = stateIdle
	if len(prior) == 0 {
		return
	}
	m, ok := s.resizeMatrix(p, mods)
	ids := make([]string, 0, len(prior))
	for _, e := range prior {
		_ = s.scene.Update(e)
		ids = append(ids, e.ID)
	}
	s.refreshGroupBounds(prior)
	if !ok || m.IsIdentity() {
		s.changed()
		return
	}
	s.push(&command.Transform{IDs: ids, Delta: m})
}

func (s *Session) finishCrop(p geom.Point) {
	s.state = stateIdle
	r := geom.RectFromPoints(s.dragStart, p)
	s.cropRect = geom.Rect{}
	if r.W < minDragDist || r.H < minDragDist {
		s.changed()
		return
	}
	s.push(&command.Crop{Bounds: r})
}

// CropRect returns the crop rectangle being dragged, if any.
func (s *Session) CropRect() (geom.Rect, bool) {
	if s.state != stateCropping {
		return geom.Rect{}, false
	}
	return s.cropRect.Canon(), true
}

// MarqueeRect returns the rubber band rectangle being dragged, if any.
func (s *Session) MarqueeRect() (geom.Rect, bool) {
	if s.state != stateMarquee {
		return geom.Rect{}, false
	}
	return geom.RectFromPoints(s.dragStart, s.dragLast), true
}

func (s *Session) refreshGroupBounds(elems []element.Element) {
	for _, e := range elems {
		if e.GroupID != "" {
			s.scene.GroupBounds(e.GroupID)
		}
		if e.Kind == element.Group {
			s.scene.GroupBounds(e.ID)
		}
	}
}

func (s *Session) zoomAt(p geom.Point, factor float64) {
	z := s.view.Zoom * factor
	if z < 0.1 {
		z = 0.1
	}
	if z > 16 {
		z = 16
	}
	if z == s.view.Zoom {
		return
	}
	// Keep the document point under the cursor stationary on screen.
	ratio := s.view.Zoom / z
	s.view.Pan = geom.Pt(
		p.X-(p.X-s.view.Pan.X)*ratio,
		p.Y-(p.Y-s.view.Pan.Y)*ratio,
	)
	s.view.Zoom = z
	s.changed()
}

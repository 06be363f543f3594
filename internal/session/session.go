// Package session implements the editor state machine. A Session owns the
// scene, history and selection, and consumes pointer and key events already
// translated into document coordinates. It has no dependency on the window
// system, which keeps the whole editing flow testable headlessly.
package session

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/example/snipmark/internal/align"
	"github.com/example/snipmark/internal/command"
	"github.com/example/snipmark/internal/config"
	"github.com/example/snipmark/internal/element"
	"github.com/example/snipmark/internal/geom"
	"github.com/example/snipmark/internal/render"
	"github.com/example/snipmark/internal/scene"
)

// hitTolerance is the pixel slop for click selection.
const hitTolerance = 4

// nudgeStep and nudgeStepLarge are the arrow-key move distances.
const (
	nudgeStep      = 1
	nudgeStepLarge = 10
)

// pasteOffset displaces duplicated and pasted elements so they do not land
// exactly on their source.
const pasteOffset = 16

type state int

const (
	stateIdle state = iota
	stateDrawing
	stateMarquee
	stateMoving
	stateResizing
	stateTexting
	stateCropping
	statePanning
)

// View is the zoom and pan applied when presenting the document.
type View struct {
	Zoom float64
	Pan  geom.Point
}

// Session is the retained-mode editor core.
type Session struct {
	scene    *scene.Scene
	history  *command.History
	renderer *render.Renderer
	cfg      *config.Config
	snapper  *align.Snapper

	tool  Tool
	state state
	style element.Style
	stamp string
	view  View

	selection map[string]bool
	selOrder  []string

	live        *element.Element
	guides      []align.Guide
	cropRect    geom.Rect
	dragStart   geom.Point
	dragLast    geom.Point
	resizeIDs   []string
	resizePrior []element.Element
	resizeRect  geom.Rect
	handle      int
	movePrior   []element.Element
	nextNumber  int

	onChange func()
}

// Option modifies a Session during creation.
type Option func(*Session)

// WithConfig applies loaded settings.
func WithConfig(cfg *config.Config) Option { return func(s *Session) { s.cfg = cfg } }

// WithRenderer sets the renderer used for export and color picking.
func WithRenderer(r *render.Renderer) Option { return func(s *Session) { s.renderer = r } }

// WithScene starts from an existing scene instead of an empty one.
func WithScene(sc *scene.Scene) Option { return func(s *Session) { s.scene = sc } }

// WithOnChange registers a callback invoked after every committed mutation,
// used by the UI to request a repaint.
func WithOnChange(fn func()) Option { return func(s *Session) { s.onChange = fn } }

// New creates a session for a document with the given bounds.
func New(docBounds geom.Rect, opts ...Option) *Session {
	s := &Session{
		cfg:        config.New(),
		tool:       ToolSelect,
		stamp:      "★",
		view:       View{Zoom: 1},
		selection:  make(map[string]bool),
		nextNumber: 1,
	}
	for _, o := range opts {
		o(s)
	}
	if s.scene == nil {
		s.scene = scene.New(docBounds)
	}
	s.history = command.NewHistory(s.cfg.HistoryCapacity)
	s.snapper = &align.Snapper{
		Tolerance: float64(s.cfg.Snap.Tolerance),
		GridSize:  float64(s.cfg.Snap.GridSize),
		Grid:      s.cfg.Snap.Grid,
	}
	if tool, ok := ToolFromName(s.cfg.DefaultTool); ok {
		s.tool = tool
	}
	s.style = s.cfg.StyleFor(s.tool.String())
	return s
}

// Scene exposes the scene for rendering.
func (s *Session) Scene() *scene.Scene { return s.scene }

// Live returns the element under construction, or nil.
func (s *Session) Live() *element.Element { return s.live }

// Frame renders the scene with any in-progress element for display.
func (s *Session) Frame() *image.RGBA {
	if s.renderer == nil {
		return nil
	}
	return s.renderer.Render(s.scene, s.live)
}

// Texting reports whether a text entry is in progress.
func (s *Session) Texting() bool { return s.state == stateTexting }

// SetOnChange registers the repaint callback after construction.
func (s *Session) SetOnChange(fn func()) { s.onChange = fn }

// Guides returns the snap guides active during the current drag.
func (s *Session) Guides() []align.Guide { return s.guides }

// View returns the current zoom and pan.
func (s *Session) View() View { return s.view }

// SetView replaces the zoom and pan, clamping zoom to the interactive range.
func (s *Session) SetView(v View) {
	if v.Zoom < 0.1 {
		v.Zoom = 0.1
	}
	if v.Zoom > 16 {
		v.Zoom = 16
	}
	s.view = v
	s.changed()
}

// Tool returns the active tool.
func (s *Session) Tool() Tool { return s.tool }

// SetTool switches tools, cancelling any interaction in progress.
func (s *Session) SetTool(t Tool) {
	s.cancelInteraction()
	s.tool = t
	s.style = s.cfg.StyleFor(t.String())
}

// Style returns the style applied to new elements.
func (s *Session) Style() element.Style { return s.style }

// SetStyle replaces the style for new elements and restyles the selection.
func (s *Session) SetStyle(st element.Style) {
	s.style = st
	ids := s.SelectedIDs()
	if len(ids) == 0 {
		return
	}
	s.push(&command.Restyle{IDs: ids, Style: st})
}

// ApplySettings adopts a reloaded configuration without restarting the
// session. The active tool keeps its current style.
func (s *Session) ApplySettings(cfg *config.Config) {
	s.cfg = cfg
	s.snapper.Tolerance = float64(cfg.Snap.Tolerance)
	s.snapper.GridSize = float64(cfg.Snap.GridSize)
	s.snapper.Grid = cfg.Snap.Grid
}

// SelectedIDs returns the selection in paint order.
func (s *Session) SelectedIDs() []string {
	var ids []string
	for _, id := range s.scene.IDsInZOrder() {
		if s.selection[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// IsSelected reports whether an element is part of the selection.
func (s *Session) IsSelected(id string) bool { return s.selection[id] }

// ClearSelection empties the selection.
func (s *Session) ClearSelection() {
	s.selection = make(map[string]bool)
	s.selOrder = nil
}

// SelectAll selects every element.
func (s *Session) SelectAll() {
	s.ClearSelection()
	for _, id := range s.scene.IDsInZOrder() {
		s.selectID(id)
	}
}

// selectID adds an element to the selection, expanding group members so a
// group always moves as one unit.
func (s *Session) selectID(id string) {
	e, ok := s.scene.Get(id)
	if !ok {
		return
	}
	if e.GroupID != "" {
		if g, ok := s.scene.Get(e.GroupID); ok {
			e = g
			id = g.ID
		}
	}
	if !s.selection[id] {
		s.selOrder = append(s.selOrder, id)
	}
	s.selection[id] = true
	if e.Kind == element.Group {
		for _, mid := range e.Members {
			s.selection[mid] = true
		}
	}
}

func (s *Session) deselectID(id string) {
	e, ok := s.scene.Get(id)
	if !ok {
		delete(s.selection, id)
		s.forgetOrder(id)
		return
	}
	if e.GroupID != "" {
		if g, ok := s.scene.Get(e.GroupID); ok {
			e = g
			id = g.ID
		}
	}
	delete(s.selection, id)
	s.forgetOrder(id)
	if e.Kind == element.Group {
		for _, mid := range e.Members {
			delete(s.selection, mid)
		}
	}
}

func (s *Session) forgetOrder(id string) {
	for i, o := range s.selOrder {
		if o == id {
			s.selOrder = append(s.selOrder[:i], s.selOrder[i+1:]...)
			return
		}
	}
}

// orderedSelection returns the selection in the order elements were picked,
// with group members folded into their group. Ids selected without going
// through selectID trail in paint order.
func (s *Session) orderedSelection() []string {
	var ids []string
	seen := make(map[string]bool)
	for _, id := range s.selOrder {
		if s.selection[id] && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, id := range s.topLevelSelection() {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// SelectionBounds returns the union of the selected elements' bounds.
func (s *Session) SelectionBounds() geom.Rect {
	var out geom.Rect
	for _, id := range s.SelectedIDs() {
		e, ok := s.scene.Get(id)
		if !ok {
			continue
		}
		out = out.Union(e.Bounds())
	}
	return out
}

// push runs a command through the history and prunes the selection of ids
// that no longer resolve.
func (s *Session) push(cmd command.Command) {
	if err := s.history.Push(s.scene, cmd); err != nil {
		return
	}
	s.pruneSelection()
	s.changed()
}

func (s *Session) pruneSelection() {
	for id := range s.selection {
		if !s.scene.Has(id) {
			delete(s.selection, id)
		}
	}
	kept := s.selOrder[:0]
	for _, id := range s.selOrder {
		if s.selection[id] {
			kept = append(kept, id)
		}
	}
	s.selOrder = kept
}

func (s *Session) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Undo reverts the last command.
func (s *Session) Undo() bool {
	ok := s.history.Undo(s.scene)
	if ok {
		s.pruneSelection()
		s.changed()
	}
	return ok
}

// Redo reapplies the last undone command.
func (s *Session) Redo() bool {
	ok := s.history.Redo(s.scene)
	if ok {
		s.pruneSelection()
		s.changed()
	}
	return ok
}

// DeleteSelection removes the selected elements as one undo step.
func (s *Session) DeleteSelection() {
	ids := s.topLevelSelection()
	if len(ids) == 0 {
		return
	}
	s.push(&command.Remove{IDs: ids})
}

// topLevelSelection returns selected ids with group members folded into
// their group, so commands see each unit once.
func (s *Session) topLevelSelection() []string {
	var ids []string
	for _, id := range s.SelectedIDs() {
		e, ok := s.scene.Get(id)
		if !ok {
			continue
		}
		if e.GroupID != "" && s.selection[e.GroupID] {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// GroupSelection groups the selected elements.
func (s *Session) GroupSelection() {
	ids := s.topLevelSelection()
	if len(ids) < 2 {
		return
	}
	cmd := &command.GroupCmd{MemberIDs: ids}
	s.push(cmd)
	if s.scene.Has(cmd.GroupID) {
		s.ClearSelection()
		s.selectID(cmd.GroupID)
	}
}

// UngroupSelection dissolves every selected group.
func (s *Session) UngroupSelection() {
	var groups []string
	for _, id := range s.SelectedIDs() {
		if e, ok := s.scene.Get(id); ok && e.Kind == element.Group {
			groups = append(groups, id)
		}
	}
	for _, gid := range groups {
		g, _ := s.scene.Get(gid)
		s.push(&command.Ungroup{GroupID: gid})
		delete(s.selection, gid)
		s.forgetOrder(gid)
		for _, mid := range g.Members {
			s.selectID(mid)
		}
	}
}

// DuplicateSelection clones the selection offset by a fixed step and selects
// the clones.
func (s *Session) DuplicateSelection() {
	ids := s.topLevelSelection()
	if len(ids) == 0 {
		return
	}
	var cmds []command.Command
	var cloneIDs []string
	for _, id := range ids {
		e, ok := s.scene.Get(id)
		if !ok || e.Kind == element.Group {
			// Duplicating a group clones its members as loose elements.
			if ok {
				for _, mid := range e.Members {
					if m, ok := s.scene.Get(mid); ok {
						clone := m.Clone().Translate(pasteOffset, pasteOffset)
						cloneIDs = append(cloneIDs, clone.ID)
						cmds = append(cmds, &command.Add{Element: clone})
					}
				}
			}
			continue
		}
		clone := e.Clone().Translate(pasteOffset, pasteOffset)
		cloneIDs = append(cloneIDs, clone.ID)
		cmds = append(cmds, &command.Add{Element: clone})
	}
	if len(cmds) == 0 {
		return
	}
	s.push(&command.Compound{Label: "duplicate", Commands: cmds})
	s.ClearSelection()
	for _, id := range cloneIDs {
		s.selectID(id)
	}
}

// ClearAll removes every element in one undo step.
func (s *Session) ClearAll() {
	ids := s.scene.IDsInZOrder()
	if len(ids) == 0 {
		return
	}
	s.push(&command.Remove{IDs: ids})
}

// NudgeSelection moves the selection by (dx, dy) document pixels.
func (s *Session) NudgeSelection(dx, dy float64) {
	ids := s.SelectedIDs()
	if len(ids) == 0 {
		return
	}
	s.push(&command.Transform{IDs: ids, Delta: geom.Translation(dx, dy)})
}

// AlignSelection aligns the selection to an edge or center axis.
func (s *Session) AlignSelection(edge align.Edge) {
	cmd, err := align.Align(s.scene, s.SelectedIDs(), edge)
	if err != nil {
		log.Printf("align: %v", err)
		return
	}
	s.push(cmd)
}

// DistributeSelection spaces the selection evenly along an axis.
func (s *Session) DistributeSelection(axis align.Axis) {
	cmd, err := align.Distribute(s.scene, s.SelectedIDs(), axis)
	if err != nil {
		log.Printf("distribute: %v", err)
		return
	}
	s.push(cmd)
}

// MatchSizeSelection resizes the selection to the element picked first,
// regardless of paint order.
func (s *Session) MatchSizeSelection(width, height bool) {
	cmd, err := align.MatchSize(s.scene, s.orderedSelection(), width, height)
	if err != nil {
		log.Printf("match size: %v", err)
		return
	}
	s.push(cmd)
}

// RaiseSelection moves each selected element one step up in paint order.
func (s *Session) RaiseSelection() {
	s.reorderSelection(1)
}

// LowerSelection moves each selected element one step down in paint order.
func (s *Session) LowerSelection() {
	s.reorderSelection(-1)
}

func (s *Session) reorderSelection(delta int) {
	ids := s.topLevelSelection()
	if len(ids) == 0 {
		return
	}
	var cmds []command.Command
	// Raising walks top-down so elements do not leapfrog each other.
	if delta > 0 {
		for i := len(ids) - 1; i >= 0; i-- {
			e, _ := s.scene.Get(ids[i])
			cmds = append(cmds, &command.Reorder{ID: ids[i], Z: e.Z + delta})
		}
	} else {
		for _, id := range ids {
			e, _ := s.scene.Get(id)
			cmds = append(cmds, &command.Reorder{ID: id, Z: e.Z + delta})
		}
	}
	s.push(&command.Compound{Label: "reorder", Commands: cmds})
}

// CopySelection serializes the selection for the clipboard.
func (s *Session) CopySelection() ([]byte, error) {
	ids := s.topLevelSelection()
	if len(ids) == 0 {
		return nil, fmt.Errorf("copy: empty selection")
	}
	// Groups flatten to their members on copy.
	var flat []string
	for _, id := range ids {
		e, _ := s.scene.Get(id)
		if e.Kind == element.Group {
			flat = append(flat, e.Members...)
			continue
		}
		flat = append(flat, id)
	}
	return s.scene.EncodeElements(flat)
}

// Paste inserts clipboard elements offset from their source and selects
// them.
func (s *Session) Paste(data []byte) error {
	elems, err := scene.DecodeElements(data)
	if err != nil {
		return err
	}
	if len(elems) == 0 {
		return nil
	}
	var cmds []command.Command
	var ids []string
	for _, e := range elems {
		clone := e.Clone().Translate(pasteOffset, pasteOffset)
		clone.Z = 0
		ids = append(ids, clone.ID)
		cmds = append(cmds, &command.Add{Element: clone})
	}
	s.push(&command.Compound{Label: "paste", Commands: cmds})
	s.ClearSelection()
	for _, id := range ids {
		s.selectID(id)
	}
	return nil
}

// PickColor reads the rendered color under a document point into the
// current style.
func (s *Session) PickColor(p geom.Point) (color.RGBA, bool) {
	if s.renderer == nil {
		return color.RGBA{}, false
	}
	img := s.renderer.Render(s.scene, nil)
	x, y := int(p.X), int(p.Y)
	if !image.Pt(x, y).In(img.Bounds()) {
		return color.RGBA{}, false
	}
	col := img.RGBAAt(x, y)
	s.style.Stroke = col
	return col, true
}

// SetStamp picks the glyph placed by the stamp tool.
func (s *Session) SetStamp(glyph string) {
	if glyph != "" {
		s.stamp = glyph
	}
}

// Export flattens the scene to its clip bounds for saving or copying.
func (s *Session) Export() (*image.RGBA, error) {
	if s.renderer == nil {
		return nil, fmt.Errorf("export: no renderer attached")
	}
	return s.renderer.Flatten(s.scene), nil
}

// cancelInteraction aborts any drag or text entry in progress without
// touching committed state.
func (s *Session) cancelInteraction() {
	switch s.state {
	case stateMoving, stateResizing:
		prior := s.movePrior
		if s.state == stateResizing {
			prior = s.resizePrior
		}
		for _, e := range prior {
			_ = s.scene.Update(e)
		}
		for _, e := range prior {
			if e.GroupID != "" {
				s.scene.GroupBounds(e.GroupID)
			}
			if e.Kind == element.Group {
				s.scene.GroupBounds(e.ID)
			}
		}
	}
	s.live = nil
	s.guides = nil
	s.movePrior = nil
	s.resizePrior = nil
	s.cropRect = geom.Rect{}
	s.state = stateIdle
	s.changed()
}

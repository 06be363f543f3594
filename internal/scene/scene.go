// Package scene implements the document store for an editing session: an
// ordered-by-z collection of elements plus the clip bounds of the captured
// image. The scene is only mutated through commands once a session is live.
package scene

import (
	"fmt"
	"sort"

	"github.com/example/snipmark/internal/element"
	"github.com/example/snipmark/internal/geom"
)

// Scene holds the elements of one editing session keyed by id, with a dense
// z ordering maintained in order. ClipBounds is the captured image extent;
// crop shrinks it.
type Scene struct {
	elements   map[string]element.Element
	order      []string // ids in ascending z
	ClipBounds geom.Rect
}

// New returns an empty scene clipped to the given bounds.
func New(clip geom.Rect) *Scene {
	return &Scene{
		elements:   make(map[string]element.Element),
		order:      nil,
		ClipBounds: clip.Canon(),
	}
}

// Len returns the number of elements.
func (s *Scene) Len() int { return len(s.order) }

// Get returns the element with the given id.
func (s *Scene) Get(id string) (element.Element, bool) {
	e, ok := s.elements[id]
	return e, ok
}

// Has reports whether id exists in the scene.
func (s *Scene) Has(id string) bool {
	_, ok := s.elements[id]
	return ok
}

// Insert adds e to the scene. A zero or duplicate Z places the element on
// top; otherwise the element is spliced in at its recorded z position, which
// is how undo restores a removed element to its old paint order.
func (s *Scene) Insert(e element.Element) error {
	if e.ID == "" {
		return fmt.Errorf("insert: element has no id")
	}
	if _, ok := s.elements[e.ID]; ok {
		return fmt.Errorf("insert: duplicate element id %s", e.ID)
	}
	pos := len(s.order)
	if e.Z > 0 && e.Z <= len(s.order) {
		pos = e.Z - 1
	}
	s.order = append(s.order, "")
	copy(s.order[pos+1:], s.order[pos:])
	s.order[pos] = e.ID
	s.elements[e.ID] = e
	s.renumber()
	return nil
}

// Remove deletes the element with the given id. Removing a group cascades to
// its members; the removed elements are returned in ascending z so a revert
// can reinsert them in order.
func (s *Scene) Remove(id string) ([]element.Element, error) {
	e, ok := s.elements[id]
	if !ok {
		return nil, fmt.Errorf("remove: no element %s", id)
	}
	ids := []string{id}
	if e.Kind == element.Group {
		ids = append(ids, e.Members...)
	}
	victims := make(map[string]bool, len(ids))
	for _, v := range ids {
		victims[v] = true
	}
	var removed []element.Element
	kept := s.order[:0]
	for _, oid := range s.order {
		if victims[oid] {
			removed = append(removed, s.elements[oid])
			delete(s.elements, oid)
			continue
		}
		kept = append(kept, oid)
	}
	s.order = kept
	s.renumber()
	return removed, nil
}

// Update replaces the stored element with the same id. The id and kind of an
// element never change over its lifetime.
func (s *Scene) Update(e element.Element) error {
	old, ok := s.elements[e.ID]
	if !ok {
		return fmt.Errorf("update: no element %s", e.ID)
	}
	if old.Kind != e.Kind {
		return fmt.Errorf("update: element %s kind changed from %s to %s", e.ID, old.Kind, e.Kind)
	}
	e.Z = old.Z
	s.elements[e.ID] = e
	return nil
}

// Reorder moves id to the given 1-based z position, shifting neighbors.
func (s *Scene) Reorder(id string, z int) error {
	if _, ok := s.elements[id]; !ok {
		return fmt.Errorf("reorder: no element %s", id)
	}
	if z < 1 {
		z = 1
	}
	if z > len(s.order) {
		z = len(s.order)
	}
	cur := -1
	for i, oid := range s.order {
		if oid == id {
			cur = i
			break
		}
	}
	s.order = append(s.order[:cur], s.order[cur+1:]...)
	pos := z - 1
	s.order = append(s.order, "")
	copy(s.order[pos+1:], s.order[pos:])
	s.order[pos] = id
	s.renumber()
	return nil
}

// InZOrder returns the elements in ascending z (paint order).
func (s *Scene) InZOrder() []element.Element {
	out := make([]element.Element, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.elements[id])
	}
	return out
}

// IDsInZOrder returns the element ids in paint order.
func (s *Scene) IDsInZOrder() []string {
	return append([]string(nil), s.order...)
}

// Intersecting returns the ids of elements whose bounds overlap r, in paint
// order. Group container elements are skipped: marquee selection and crop
// operate on concrete members.
func (s *Scene) Intersecting(r geom.Rect) []string {
	var out []string
	for _, id := range s.order {
		e := s.elements[id]
		if e.Kind == element.Group {
			continue
		}
		if e.Bounds().Overlaps(r) {
			out = append(out, id)
		}
	}
	return out
}

// TopmostAt returns the id of the highest-z element hit by p, or "".
func (s *Scene) TopmostAt(p geom.Point, tolerance float64) string {
	for i := len(s.order) - 1; i >= 0; i-- {
		e := s.elements[s.order[i]]
		if e.Kind == element.Group {
			continue
		}
		if e.HitTest(p, tolerance) {
			return e.ID
		}
	}
	return ""
}

// GroupBounds recomputes and stores the union bounding box of a group's
// members. Call after a member's geometry changes.
func (s *Scene) GroupBounds(groupID string) geom.Rect {
	g, ok := s.elements[groupID]
	if !ok || g.Kind != element.Group {
		return geom.Rect{}
	}
	var r geom.Rect
	for _, mid := range g.Members {
		if m, ok := s.elements[mid]; ok {
			r = r.Union(m.Bounds())
		}
	}
	g.Rect = r
	s.elements[groupID] = g
	return r
}

// Clone returns a deep copy of the scene, used by tests and by the scene
// codec; commands never need it.
func (s *Scene) Clone() *Scene {
	out := New(s.ClipBounds)
	out.order = append([]string(nil), s.order...)
	for id, e := range s.elements {
		e.Points = append([]geom.Point(nil), e.Points...)
		e.Members = append([]string(nil), e.Members...)
		out.elements[id] = e
	}
	return out
}

// renumber reassigns dense 1-based z values matching the order slice. Every
// mutation funnels through here, which keeps z values unique by construction.
func (s *Scene) renumber() {
	for i, id := range s.order {
		e := s.elements[id]
		e.Z = i + 1
		s.elements[id] = e
	}
}

// checkZInvariant verifies z uniqueness; it exists for tests.
func (s *Scene) checkZInvariant() error {
	seen := make(map[int]string, len(s.order))
	for _, id := range s.order {
		z := s.elements[id].Z
		if other, dup := seen[z]; dup {
			return fmt.Errorf("z %d shared by %s and %s", z, other, id)
		}
		seen[z] = id
	}
	sorted := sort.SliceIsSorted(s.order, func(i, j int) bool {
		return s.elements[s.order[i]].Z < s.elements[s.order[j]].Z
	})
	if !sorted {
		return fmt.Errorf("z order inconsistent with paint order")
	}
	return nil
}

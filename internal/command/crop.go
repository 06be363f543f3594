package command

import (
	"fmt"

	"github.com/example/snipmark/internal/element"
	"github.com/example/snipmark/internal/geom"
	"github.com/example/snipmark/internal/scene"
)

// Crop shrinks the scene's clip bounds to the crop rectangle. Elements fully
// outside are removed and elements straddling the boundary have their stored
// geometry rewritten to the intersection. The operation is destructive, so
// the full prior state of every affected element is captured for revert.
type Crop struct {
	Bounds geom.Rect

	priorClip geom.Rect
	removed   []element.Element // fully outside, in ascending z
	clipped   []element.Element // prior versions of rewritten elements
}

func (c *Crop) Name() string { return "crop" }

func (c *Crop) Apply(s *scene.Scene) error {
	crop := c.Bounds.Canon()
	if crop.Empty() {
		return fmt.Errorf("crop: empty rectangle")
	}
	crop = crop.Intersect(s.ClipBounds)
	if crop.Empty() {
		return fmt.Errorf("crop: rectangle outside clip bounds")
	}
	c.Bounds = crop
	c.priorClip = s.ClipBounds
	c.removed = c.removed[:0]
	c.clipped = c.clipped[:0]

	var gone []string
	for _, e := range s.InZOrder() {
		if e.Kind == element.Group {
			continue
		}
		kept, survives := e.ClipTo(crop)
		switch {
		case !survives:
			gone = append(gone, e.ID)
		case !elementEqual(kept, e):
			c.clipped = append(c.clipped, e)
			_ = s.Update(kept)
		}
	}
	for _, id := range gone {
		if !s.Has(id) {
			continue
		}
		removed, err := s.Remove(id)
		if err != nil {
			continue
		}
		c.removed = append(c.removed, removed...)
	}
	s.ClipBounds = crop
	// Groups whose members shrank or vanished re-derive their bounds; a
	// group left empty is dropped outright.
	for _, e := range s.InZOrder() {
		if e.Kind != element.Group {
			continue
		}
		live := e.Members[:0:0]
		for _, mid := range e.Members {
			if s.Has(mid) {
				live = append(live, mid)
			}
		}
		if len(live) == 0 {
			if removed, err := s.Remove(e.ID); err == nil {
				c.removed = append(c.removed, removed...)
			}
			continue
		}
		if len(live) != len(e.Members) {
			c.clipped = append(c.clipped, e)
		}
		pruned := e
		pruned.Members = live
		_ = s.Update(pruned)
		s.GroupBounds(e.ID)
	}
	return nil
}

func (c *Crop) Revert(s *scene.Scene) {
	s.ClipBounds = c.priorClip
	ordered := append([]element.Element(nil), c.removed...)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j].Z < ordered[j-1].Z; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	for _, e := range ordered {
		_ = s.Insert(e)
	}
	for _, e := range c.clipped {
		_ = s.Update(e)
	}
	for _, e := range s.InZOrder() {
		if e.Kind == element.Group {
			s.GroupBounds(e.ID)
		}
	}
}

func elementEqual(a, b element.Element) bool {
	if a.Rect != b.Rect || len(a.Points) != len(b.Points) {
		return false
	}
	for i := range a.Points {
		if a.Points[i] != b.Points[i] {
			return false
		}
	}
	return true
}

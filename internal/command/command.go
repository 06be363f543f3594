// Package command implements reversible scene mutations and the undo/redo
// history built from them. Commands are the only sanctioned way to mutate a
// scene after construction: each one applies atomically or not at all, and
// retains enough prior state to revert exactly.
package command

import (
	"fmt"

	"github.com/example/snipmark/internal/element"
	"github.com/example/snipmark/internal/geom"
	"github.com/example/snipmark/internal/scene"
)

// Command is a reversible mutation of a scene. Apply must be all-or-nothing:
// when it returns an error the scene is unchanged and the command is dropped.
// Revert is only called after a successful Apply and must restore the scene
// observationally.
type Command interface {
	// Name identifies the command for logging.
	Name() string
	Apply(*scene.Scene) error
	Revert(*scene.Scene)
}

// Add inserts one element.
type Add struct {
	Element element.Element
}

func (c *Add) Name() string { return "add " + c.Element.Kind.String() }

func (c *Add) Apply(s *scene.Scene) error {
	return s.Insert(c.Element)
}

func (c *Add) Revert(s *scene.Scene) {
	if removed, err := s.Remove(c.Element.ID); err == nil && len(removed) == 1 {
		// Remember the z the scene assigned so a redo lands in the same spot.
		c.Element = removed[0]
	}
}

// Remove deletes a set of elements. Group members are cascaded by the scene;
// the removed values (with their z positions) are retained for revert.
type Remove struct {
	IDs     []string
	removed []element.Element
}

func (c *Remove) Name() string { return fmt.Sprintf("remove %d", len(c.IDs)) }

func (c *Remove) Apply(s *scene.Scene) error {
	for _, id := range c.IDs {
		if !s.Has(id) {
			return fmt.Errorf("remove: no element %s", id)
		}
	}
	c.removed = c.removed[:0]
	seen := make(map[string]bool)
	for _, id := range c.IDs {
		if seen[id] || !s.Has(id) {
			continue // already cascaded away by a group removal
		}
		got, err := s.Remove(id)
		if err != nil {
			continue
		}
		for _, e := range got {
			seen[e.ID] = true
			c.removed = append(c.removed, e)
		}
	}
	return nil
}

func (c *Remove) Revert(s *scene.Scene) {
	// Reinsert in ascending z so each element splices back into place.
	ordered := append([]element.Element(nil), c.removed...)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j].Z < ordered[j-1].Z; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	for _, e := range ordered {
		_ = s.Insert(e)
	}
}

// Transform applies a delta matrix to a set of elements. Prior versions are
// retained so revert restores exact geometry instead of applying an inverse
// matrix, which would drift for non-invertible deltas.
type Transform struct {
	IDs   []string
	Delta geom.Matrix
	prior []element.Element
}

func (c *Transform) Name() string { return fmt.Sprintf("transform %d", len(c.IDs)) }

func (c *Transform) Apply(s *scene.Scene) error {
	for _, id := range c.IDs {
		if !s.Has(id) {
			return fmt.Errorf("transform: no element %s", id)
		}
	}
	c.prior = c.prior[:0]
	groups := make(map[string]bool)
	for _, id := range c.IDs {
		e, _ := s.Get(id)
		c.prior = append(c.prior, e)
		_ = s.Update(e.ApplyDelta(c.Delta))
		if e.GroupID != "" {
			groups[e.GroupID] = true
		}
		if e.Kind == element.Group {
			groups[e.ID] = true
		}
	}
	for gid := range groups {
		s.GroupBounds(gid)
	}
	return nil
}

func (c *Transform) Revert(s *scene.Scene) {
	for _, e := range c.prior {
		_ = s.Update(e)
		if e.GroupID != "" {
			s.GroupBounds(e.GroupID)
		}
	}
}

// Restyle replaces the style of a set of elements.
type Restyle struct {
	IDs   []string
	Style element.Style
	prior []element.Element
}

func (c *Restyle) Name() string { return fmt.Sprintf("restyle %d", len(c.IDs)) }

func (c *Restyle) Apply(s *scene.Scene) error {
	for _, id := range c.IDs {
		if !s.Has(id) {
			return fmt.Errorf("restyle: no element %s", id)
		}
	}
	c.prior = c.prior[:0]
	for _, id := range c.IDs {
		e, _ := s.Get(id)
		c.prior = append(c.prior, e)
		styled := e
		styled.Style = c.Style.ForKind(e.Kind)
		_ = s.Update(styled)
	}
	return nil
}

func (c *Restyle) Revert(s *scene.Scene) {
	for _, e := range c.prior {
		_ = s.Update(e)
	}
}

// Reorder moves one element to a new z position.
type Reorder struct {
	ID     string
	Z      int
	priorZ int
}

func (c *Reorder) Name() string { return "reorder" }

func (c *Reorder) Apply(s *scene.Scene) error {
	e, ok := s.Get(c.ID)
	if !ok {
		return fmt.Errorf("reorder: no element %s", c.ID)
	}
	c.priorZ = e.Z
	return s.Reorder(c.ID, c.Z)
}

func (c *Reorder) Revert(s *scene.Scene) {
	_ = s.Reorder(c.ID, c.priorZ)
}

// Compound bundles commands into one history entry so a whole alignment or
// crop reverts in a single undo. Apply is atomic: on failure, already
// applied sub-commands are reverted in reverse order.
type Compound struct {
	Label    string
	Commands []Command
}

func (c *Compound) Name() string {
	if c.Label != "" {
		return c.Label
	}
	return fmt.Sprintf("compound %d", len(c.Commands))
}

func (c *Compound) Apply(s *scene.Scene) error {
	for i, sub := range c.Commands {
		if err := sub.Apply(s); err != nil {
			for j := i - 1; j >= 0; j-- {
				c.Commands[j].Revert(s)
			}
			return fmt.Errorf("%s: %w", c.Name(), err)
		}
	}
	return nil
}

func (c *Compound) Revert(s *scene.Scene) {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		c.Commands[i].Revert(s)
	}
}

package command

import (
	"fmt"

	"github.com/example/snipmark/internal/element"
	"github.com/example/snipmark/internal/scene"
)

// GroupCmd bundles a set of elements under a new group element. Members stay
// in the scene in their own right; the group holds weak references and its
// rect is the union of member bounds.
type GroupCmd struct {
	GroupID   string
	MemberIDs []string
	prior     []element.Element
}

func (c *GroupCmd) Name() string { return fmt.Sprintf("group %d", len(c.MemberIDs)) }

func (c *GroupCmd) Apply(s *scene.Scene) error {
	if len(c.MemberIDs) < 2 {
		return fmt.Errorf("group: need at least 2 elements")
	}
	for _, id := range c.MemberIDs {
		e, ok := s.Get(id)
		if !ok {
			return fmt.Errorf("group: no element %s", id)
		}
		if e.GroupID != "" {
			return fmt.Errorf("group: element %s already grouped", id)
		}
		if e.Kind == element.Group {
			return fmt.Errorf("group: nested groups are not supported")
		}
	}
	if c.GroupID == "" {
		c.GroupID = element.NewID()
	}
	c.prior = c.prior[:0]
	for _, id := range c.MemberIDs {
		e, _ := s.Get(id)
		c.prior = append(c.prior, e)
		e.GroupID = c.GroupID
		_ = s.Update(e)
	}
	g := element.Element{
		ID:      c.GroupID,
		Kind:    element.Group,
		Members: append([]string(nil), c.MemberIDs...),
	}
	if err := s.Insert(g); err != nil {
		for _, e := range c.prior {
			_ = s.Update(e)
		}
		return err
	}
	s.GroupBounds(c.GroupID)
	return nil
}

func (c *GroupCmd) Revert(s *scene.Scene) {
	// Detach members first so the group removal does not cascade.
	for _, e := range c.prior {
		_ = s.Update(e)
	}
	g, ok := s.Get(c.GroupID)
	if ok {
		g.Members = nil
		_ = s.Update(g)
		_, _ = s.Remove(c.GroupID)
	}
}

// Ungroup dissolves a group, leaving its members in place.
type Ungroup struct {
	GroupID string
	group   element.Element
	prior   []element.Element
}

func (c *Ungroup) Name() string { return "ungroup" }

func (c *Ungroup) Apply(s *scene.Scene) error {
	g, ok := s.Get(c.GroupID)
	if !ok || g.Kind != element.Group {
		return fmt.Errorf("ungroup: no group %s", c.GroupID)
	}
	c.group = g
	c.prior = c.prior[:0]
	for _, mid := range g.Members {
		m, ok := s.Get(mid)
		if !ok {
			continue
		}
		c.prior = append(c.prior, m)
		m.GroupID = ""
		_ = s.Update(m)
	}
	g.Members = nil
	_ = s.Update(g)
	_, _ = s.Remove(c.GroupID)
	return nil
}

func (c *Ungroup) Revert(s *scene.Scene) {
	_ = s.Insert(c.group)
	for _, m := range c.prior {
		_ = s.Update(m)
	}
	s.GroupBounds(c.GroupID)
}
